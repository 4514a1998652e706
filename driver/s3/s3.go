package s3

import (
	"context"
	"errors"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/gobeaver/icekit"
)

// api is the subset of the S3 client the adapter uses
type api interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// Adapter provides read access to one S3 bucket. Keys are bucket-relative.
type Adapter struct {
	client api
	bucket string
}

// New creates a new S3 adapter for bucket
func New(client *s3.Client, bucket string) *Adapter {
	return &Adapter{client: client, bucket: bucket}
}

// Read implements icekit.FileReader
func (a *Adapter) Read(ctx context.Context, key string) (io.ReadCloser, error) {
	resp, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, mapS3Error("read", key, err)
	}

	return resp.Body, nil
}

// ReadAll implements icekit.FileReader
func (a *Adapter) ReadAll(ctx context.Context, key string) ([]byte, error) {
	rc, err := a.Read(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, mapS3Error("read", key, err)
	}
	return data, nil
}

// FileExists implements icekit.FileReader with one HeadObject call
func (a *Adapter) FileExists(ctx context.Context, key string) (bool, error) {
	_, err := a.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, mapS3Error("fileexists", key, err)
	}

	return true, nil
}

// ListingAdapter is an Adapter that may also bulk-list its bucket.
// The driver only hands it out when it could build a client with usable
// credentials and region.
type ListingAdapter struct {
	*Adapter
	pageSize int32
}

// ListingOption configures a ListingAdapter
type ListingOption func(*ListingAdapter)

// WithPageSize sets MaxKeys for each ListObjectsV2 page. Zero keeps the
// service default of 1000.
func WithPageSize(n int32) ListingOption {
	return func(l *ListingAdapter) {
		l.pageSize = n
	}
}

// NewListing wraps an adapter with the bulk listing capability
func NewListing(a *Adapter, options ...ListingOption) *ListingAdapter {
	l := &ListingAdapter{Adapter: a}
	for _, option := range options {
		option(l)
	}
	return l
}

// ListKeys implements icekit.CanListKeys using the ListObjectsV2 paginator
func (l *ListingAdapter) ListKeys(ctx context.Context, prefix string, fn func(key string) error) error {
	paginator := s3.NewListObjectsV2Paginator(l.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(l.bucket),
		Prefix: aws.String(prefix),
	}, func(o *s3.ListObjectsV2PaginatorOptions) {
		if l.pageSize > 0 {
			o.Limit = l.pageSize
		}
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return mapS3Error("listkeys", prefix, err)
		}

		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if key == "" {
				continue
			}
			if err := fn(key); err != nil {
				return err
			}
		}
	}

	return nil
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	var notFound *types.NotFound
	return errors.As(err, &nsk) || errors.As(err, &notFound)
}

// mapS3Error maps S3 errors to icekit errors
func mapS3Error(op, key string, err error) error {
	if isNotFound(err) {
		return icekit.NewPathError(op, key, icekit.ErrNotExist)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied", "Forbidden":
			return icekit.NewPathError(op, key, icekit.ErrPermission)
		case "NoSuchBucket":
			return icekit.NewPathError(op, key, icekit.ErrNotExist)
		}
	}

	return icekit.NewPathError(op, key, err)
}

var (
	_ icekit.FileReader  = (*Adapter)(nil)
	_ icekit.CanListKeys = (*ListingAdapter)(nil)
)
