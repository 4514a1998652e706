package local

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobeaver/icekit"
)

// Adapter provides read access to table files on the local filesystem
type Adapter struct {
	root string
}

// New creates a new local filesystem adapter.
// With an empty root, paths are used as given (relative paths resolve
// against the working directory). Otherwise every path is joined to root
// and must stay beneath it.
func New(root string) (*Adapter, error) {
	if root == "" {
		return &Adapter{}, nil
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, icekit.NewPathError("open", root, icekit.ErrNotAllowed)
	}

	return &Adapter{
		root: absRoot,
	}, nil
}

// fullPath maps a location path to a filesystem path, enforcing the root
func (a *Adapter) fullPath(op, path string) (string, error) {
	if a.root == "" {
		return filepath.Clean(path), nil
	}

	fullPath := filepath.Join(a.root, filepath.Clean("/"+path))
	if !isPathUnderRoot(a.root, fullPath) {
		return "", icekit.NewPathError(op, path, icekit.ErrNotAllowed)
	}
	return fullPath, nil
}

// Read implements icekit.FileReader
func (a *Adapter) Read(ctx context.Context, path string) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
		// Continue
	}

	fullPath, err := a.fullPath("read", path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(fullPath)
	if err != nil {
		return nil, mapOSError("read", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, mapOSError("read", path, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, icekit.NewPathError("read", path, icekit.ErrIsDir)
	}

	return f, nil
}

// ReadAll implements icekit.FileReader
func (a *Adapter) ReadAll(ctx context.Context, path string) ([]byte, error) {
	rc, err := a.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return io.ReadAll(rc)
}

// FileExists implements icekit.FileReader
func (a *Adapter) FileExists(ctx context.Context, path string) (bool, error) {
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	default:
		// Continue
	}

	fullPath, err := a.fullPath("fileexists", path)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, mapOSError("fileexists", path, err)
	}

	// Return true only if it's a file (not a directory)
	return !info.IsDir(), nil
}

// isPathUnderRoot checks if a path is under a given root directory
func isPathUnderRoot(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}

	return !filepath.IsAbs(rel) && rel != ".." && !strings.HasPrefix(rel, "../")
}

func mapOSError(op, path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return icekit.NewPathError(op, path, icekit.ErrNotExist)
	case errors.Is(err, fs.ErrPermission):
		return icekit.NewPathError(op, path, icekit.ErrPermission)
	default:
		return icekit.NewPathError(op, path, err)
	}
}

var _ icekit.FileReader = (*Adapter)(nil)
