package memory

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/gobeaver/icekit"
)

// Adapter provides an in-memory object store for one bucket.
// Useful for testing and for embedding table files in-process.
// It supports bulk listing, so it can stand in for an object store.
//
// Keys are stored and looked up verbatim, as an object store does:
// "a//b", "a/./b" and "/a/b" are distinct keys.
type Adapter struct {
	mu    sync.RWMutex
	files map[string][]byte
	size  int64
}

// New creates a new in-memory adapter
func New() *Adapter {
	return &Adapter{
		files: make(map[string][]byte),
	}
}

// Write stores the content of r at key, replacing any previous object.
func (a *Adapter) Write(ctx context.Context, key string, content io.Reader) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !isValidKey(key) {
		return icekit.NewPathError("write", key, icekit.ErrNotAllowed)
	}

	data, err := io.ReadAll(content)
	if err != nil {
		return icekit.NewPathError("write", key, err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if existing, ok := a.files[key]; ok {
		a.size -= int64(len(existing))
	}
	a.files[key] = data
	a.size += int64(len(data))

	return nil
}

// WriteBytes is a convenience wrapper around Write.
func (a *Adapter) WriteBytes(ctx context.Context, key string, data []byte) error {
	return a.Write(ctx, key, bytes.NewReader(data))
}

// Read implements icekit.FileReader
func (a *Adapter) Read(ctx context.Context, key string) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	content, exists := a.files[key]
	if !exists {
		return nil, icekit.NewPathError("read", key, icekit.ErrNotExist)
	}

	// Return a reader over the stored slice; stored content is never mutated in place
	return io.NopCloser(bytes.NewReader(content)), nil
}

// ReadAll implements icekit.FileReader
func (a *Adapter) ReadAll(ctx context.Context, key string) ([]byte, error) {
	rc, err := a.Read(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Delete removes an object
func (a *Adapter) Delete(ctx context.Context, key string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	content, exists := a.files[key]
	if !exists {
		return icekit.NewPathError("delete", key, icekit.ErrNotExist)
	}

	a.size -= int64(len(content))
	delete(a.files, key)

	return nil
}

// FileExists implements icekit.FileReader
func (a *Adapter) FileExists(ctx context.Context, key string) (bool, error) {
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	default:
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	_, exists := a.files[key]
	return exists, nil
}

// ListKeys implements icekit.CanListKeys. Keys are visited in sorted order
// from a snapshot taken at call time, so fn may call back into the adapter.
func (a *Adapter) ListKeys(ctx context.Context, prefix string, fn func(key string) error) error {
	a.mu.RLock()
	keys := make([]string, 0, len(a.files))
	for key := range a.files {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	a.mu.RUnlock()

	sort.Strings(keys)
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(key); err != nil {
			return err
		}
	}
	return nil
}

// Clear removes all objects
func (a *Adapter) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.files = make(map[string][]byte)
	a.size = 0
}

// Size returns the current total size of stored objects
func (a *Adapter) Size() int64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.size
}

// FileCount returns the number of stored objects
func (a *Adapter) FileCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.files)
}

// isValidKey checks if a key is valid (no directory traversal)
func isValidKey(key string) bool {
	return key != "" && !strings.Contains(key, "..")
}

var (
	_ icekit.FileReader  = (*Adapter)(nil)
	_ icekit.CanListKeys = (*Adapter)(nil)
)
