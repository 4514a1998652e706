package icekit

import (
	"context"
	"io"
)

// ============================================================================
// Core Interfaces (Interface Segregation)
// ============================================================================

// FileReader provides read-only access to stored bytes.
// Drivers interpret path relative to their bucket; the Router accepts full
// location strings such as "s3://bucket/key".
type FileReader interface {
	// Read returns a stream for reading file content.
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// ReadAll reads entire file into memory. Table metadata, manifest lists
	// and manifests are small enough for this.
	ReadAll(ctx context.Context, path string) ([]byte, error)

	// FileExists checks if a file exists at path.
	// A confirmed absence is (false, nil); any other failure is returned as
	// an error so callers can tell the two apart.
	FileExists(ctx context.Context, path string) (bool, error)
}

// ============================================================================
// Optional Capability Interfaces
// ============================================================================
// These interfaces allow drivers to expose optional capabilities.
// Use type assertion to check if a driver supports a capability:
//
//	if lister, ok := fs.(CanListKeys); ok {
//	    lister.ListKeys(ctx, "data/", fn)
//	}

// CanListKeys indicates the driver can enumerate every key under a prefix
// in one paginated listing. Keys are bucket-relative.
type CanListKeys interface {
	// ListKeys calls fn once per object key under prefix, following
	// pagination until the listing is exhausted. A page failure or a
	// non-nil error from fn stops the listing and is returned.
	ListKeys(ctx context.Context, prefix string, fn func(key string) error) error
}

// CanResolveLister is implemented by readers that route full locations to
// per-bucket drivers and can hand out the bulk lister for a location.
type CanResolveLister interface {
	// Lister returns the lister for the bucket that location lives in.
	// ok is false when the backend cannot bulk-list that bucket.
	Lister(ctx context.Context, location string) (lister CanListKeys, ok bool)
}
