package local

import (
	"context"

	"github.com/gobeaver/icekit"
)

func init() {
	icekit.RegisterDriver(icekit.DriverLocal, func(cfg *icekit.Config) (icekit.Opener, error) {
		adapter, err := New(cfg.LocalBasePath)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context, loc icekit.Location) (icekit.FileReader, error) {
			return adapter, nil
		}, nil
	})
}
