package s3

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gobeaver/icekit"
)

func init() {
	icekit.RegisterDriver(icekit.DriverS3, createS3Opener)
}

func createS3Opener(cfg *icekit.Config) (icekit.Opener, error) {
	s3Client, awsCfg, err := createS3Client(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	listing := canList(cfg, awsCfg)

	return func(ctx context.Context, loc icekit.Location) (icekit.FileReader, error) {
		adapter := New(s3Client, loc.Bucket)
		if listing {
			return NewListing(adapter), nil
		}
		return adapter, nil
	}, nil
}

// canList decides whether bulk listing is offered. Explicit keys plus a
// region always qualify; the default credential chain only when opted in
// and a region was resolved.
func canList(cfg *icekit.Config, awsCfg aws.Config) bool {
	if cfg.HasStaticS3Credentials() {
		return true
	}
	return cfg.S3ListWithDefaultChain && awsCfg.Region != ""
}

// createS3Client creates an S3 client from config
func createS3Client(ctx context.Context, cfg *icekit.Config) (*s3.Client, aws.Config, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.S3Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.S3Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, aws.Config{}, err
	}

	// Override with explicit credentials if provided
	if cfg.S3AccessKeyID != "" && cfg.S3SecretAccessKey != "" {
		awsCfg.Credentials = aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKeyID,
			cfg.S3SecretAccessKey,
			cfg.S3SessionToken,
		))
	}

	s3Options := func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		}
		if cfg.S3ForcePathStyle {
			o.UsePathStyle = true
		}
	}

	return s3.NewFromConfig(awsCfg, s3Options), awsCfg, nil
}
