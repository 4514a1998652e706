package walk

import (
	"context"
	"strings"

	"github.com/gobeaver/icekit"
)

// ExistenceChecker answers whether a data file exists.
// A confirmed absence is (false, nil).
type ExistenceChecker interface {
	Exists(ctx context.Context, path string) (bool, error)
}

// DirectChecker probes the store once per call
type DirectChecker struct {
	store icekit.FileReader
}

// NewDirectChecker creates a checker backed by store
func NewDirectChecker(store icekit.FileReader) *DirectChecker {
	return &DirectChecker{store: store}
}

// Exists returns the store's answer and error unchanged
func (d *DirectChecker) Exists(ctx context.Context, path string) (bool, error) {
	return d.store.FileExists(ctx, path)
}

// PreloadedChecker answers from one bulk listing taken up front.
// It keeps only the key suffixes below the listed prefix.
type PreloadedChecker struct {
	prefix   icekit.Location
	suffixes map[string]struct{}
}

// Preload lists every key under prefix once and builds a checker from them
func Preload(ctx context.Context, lister icekit.CanListKeys, prefix icekit.Location) (*PreloadedChecker, error) {
	p := &PreloadedChecker{
		prefix:   prefix,
		suffixes: make(map[string]struct{}),
	}

	err := lister.ListKeys(ctx, prefix.Key, func(key string) error {
		suffix, ok := strings.CutPrefix(key, prefix.Key)
		if ok {
			p.suffixes[suffix] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return p, nil
}

// Exists implements ExistenceChecker. Paths in another bucket or outside
// the prefix are reported absent.
func (p *PreloadedChecker) Exists(ctx context.Context, path string) (bool, error) {
	loc, err := icekit.ParseLocation(path)
	if err != nil || !icekit.SameBucket(loc, p.prefix) {
		return false, nil
	}

	suffix, ok := strings.CutPrefix(loc.Key, p.prefix.Key)
	if !ok {
		return false, nil
	}

	_, found := p.suffixes[suffix]
	return found, nil
}

// Len returns the number of listed keys
func (p *PreloadedChecker) Len() int {
	return len(p.suffixes)
}

var (
	_ ExistenceChecker = (*DirectChecker)(nil)
	_ ExistenceChecker = (*PreloadedChecker)(nil)
)
