package gcs

import (
	"context"
	"errors"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/gobeaver/icekit"
)

// Adapter provides read access to one Google Cloud Storage bucket.
// It does not bulk-list, so walks over gs:// tables probe data files one at
// a time.
type Adapter struct {
	client *storage.Client
	bucket string
}

// New creates a new GCS adapter for bucket
func New(client *storage.Client, bucket string) *Adapter {
	return &Adapter{
		client: client,
		bucket: bucket,
	}
}

// Read implements icekit.FileReader
func (a *Adapter) Read(ctx context.Context, key string) (io.ReadCloser, error) {
	reader, err := a.client.Bucket(a.bucket).Object(key).NewReader(ctx)
	if err != nil {
		return nil, mapGCSError("read", key, err)
	}

	return reader, nil
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

// FileExists implements icekit.FileReader. Directory markers do not count.
func (a *Adapter) FileExists(ctx context.Context, key string) (bool, error) {
	if key == "" || strings.HasSuffix(key, "/") {
		return false, nil
	}

	attrs, err := a.client.Bucket(a.bucket).Object(key).Attrs(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return false, nil
		}
		return false, mapGCSError("fileexists", key, err)
	}

	if attrs.ContentType == "application/x-directory" {
		return false, nil
	}

	return true, nil
}

// mapGCSError maps GCS errors to icekit errors
func mapGCSError(op, key string, err error) error {
	if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
		return icekit.NewPathError(op, key, icekit.ErrNotExist)
	}

	return icekit.NewPathError(op, key, err)
}

var _ icekit.FileReader = (*Adapter)(nil)
