package memory

import (
	"context"
	"sync"

	"github.com/gobeaver/icekit"
)

func init() {
	icekit.RegisterDriver(icekit.DriverMemory, func(cfg *icekit.Config) (icekit.Opener, error) {
		var (
			mu      sync.Mutex
			buckets = make(map[string]*Adapter)
		)
		return func(ctx context.Context, loc icekit.Location) (icekit.FileReader, error) {
			mu.Lock()
			defer mu.Unlock()
			a, ok := buckets[loc.Bucket]
			if !ok {
				a = New()
				buckets[loc.Bucket] = a
			}
			return a, nil
		}, nil
	})
}
