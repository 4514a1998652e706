package icekit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

var (
	// ErrMountExists is returned when trying to mount over an existing bucket
	ErrMountExists = errors.New("mount point already exists")
	// ErrNilDriver is returned when trying to mount a nil driver
	ErrNilDriver = errors.New("driver cannot be nil")
)

// Router resolves full location strings to the driver serving their bucket.
// Driver instances are either mounted explicitly or opened on first use
// through the registered driver factories, one instance per bucket.
//
// Router implements FileReader and CanResolveLister, so it can be handed to
// anything that reads table files by location.
type Router struct {
	cfg *Config

	mu      sync.RWMutex
	mounts  map[string]FileReader
	openers map[string]Opener
}

// NewRouter creates a router that opens drivers with cfg.
// A nil cfg is allowed when every bucket is mounted explicitly.
func NewRouter(cfg *Config) *Router {
	return &Router{
		cfg:     cfg,
		mounts:  make(map[string]FileReader),
		openers: make(map[string]Opener),
	}
}

// Mount attaches fs as the driver for every location under bucketURL.
//
// Example:
//
//	router.Mount("s3://warehouse", memory.New())
//	router.Mount("file://", localDriver)
func (r *Router) Mount(bucketURL string, fs FileReader) error {
	if fs == nil {
		return ErrNilDriver
	}

	key, err := mountKeyFor(bucketURL)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.mounts[key]; exists {
		return fmt.Errorf("%w: %s", ErrMountExists, bucketURL)
	}
	r.mounts[key] = fs
	return nil
}

func mountKeyFor(bucketURL string) (string, error) {
	if strings.HasPrefix(bucketURL, "file:") {
		return DriverLocal + "://", nil
	}
	loc, err := ParseLocation(bucketURL)
	if err != nil {
		return "", err
	}
	if loc.Driver() == "" {
		return "", fmt.Errorf("%w: unknown scheme %q", ErrInvalidLocation, loc.Scheme)
	}
	if loc.Driver() == DriverLocal {
		return DriverLocal + "://", nil
	}
	return loc.mountKey(), nil
}

// resolve finds the driver and parsed location for a location string.
func (r *Router) resolve(ctx context.Context, location string) (FileReader, Location, error) {
	loc, err := ParseLocation(location)
	if err != nil {
		return nil, Location{}, err
	}
	driver := loc.Driver()
	if driver == "" {
		return nil, loc, NewPathError("resolve", location, ErrNotSupported)
	}

	key := loc.mountKey()
	r.mu.RLock()
	fs, ok := r.mounts[key]
	r.mu.RUnlock()
	if ok {
		return fs, loc, nil
	}

	open, err := r.opener(driver)
	if err != nil {
		return nil, loc, err
	}
	opened, err := open(ctx, loc)
	if err != nil {
		return nil, loc, fmt.Errorf("open %s driver for %s: %w", driver, location, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.mounts[key]; ok {
		return existing, loc, nil
	}
	r.mounts[key] = opened
	return opened, loc, nil
}

func (r *Router) opener(driver string) (Opener, error) {
	r.mu.RLock()
	open, ok := r.openers[driver]
	r.mu.RUnlock()
	if ok {
		return open, nil
	}
	if r.cfg == nil {
		return nil, fmt.Errorf("no %s driver mounted and no config to open one", driver)
	}

	open, err := CreateDriver(driver, r.cfg)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.openers[driver] = open
	r.mu.Unlock()
	return open, nil
}

// ============================================================================
// FileReader Interface Implementation
// ============================================================================

// Read reads content from the location, routing to the appropriate driver.
func (r *Router) Read(ctx context.Context, location string) (io.ReadCloser, error) {
	fs, loc, err := r.resolve(ctx, location)
	if err != nil {
		return nil, err
	}
	return fs.Read(ctx, loc.Key)
}

// ReadAll reads the whole object at location.
func (r *Router) ReadAll(ctx context.Context, location string) ([]byte, error) {
	fs, loc, err := r.resolve(ctx, location)
	if err != nil {
		return nil, err
	}
	return fs.ReadAll(ctx, loc.Key)
}

// FileExists probes the driver serving location.
func (r *Router) FileExists(ctx context.Context, location string) (bool, error) {
	fs, loc, err := r.resolve(ctx, location)
	if err != nil {
		return false, err
	}
	return fs.FileExists(ctx, loc.Key)
}

// Lister implements CanResolveLister.
func (r *Router) Lister(ctx context.Context, location string) (CanListKeys, bool) {
	fs, _, err := r.resolve(ctx, location)
	if err != nil {
		return nil, false
	}
	lister, ok := fs.(CanListKeys)
	return lister, ok
}

var (
	_ FileReader       = (*Router)(nil)
	_ CanResolveLister = (*Router)(nil)
)
