package gcs

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"github.com/gobeaver/icekit"
	"google.golang.org/api/option"
)

func init() {
	icekit.RegisterDriver(icekit.DriverGCS, func(cfg *icekit.Config) (icekit.Opener, error) {
		// Without a credentials file the client uses GOOGLE_APPLICATION_CREDENTIALS
		// or the default credentials.
		var opts []option.ClientOption
		if cfg.GCSCredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.GCSCredentialsFile))
		}
		if cfg.GCSProjectID != "" {
			opts = append(opts, option.WithQuotaProject(cfg.GCSProjectID))
		}

		client, err := storage.NewClient(context.Background(), opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create GCS client: %w", err)
		}

		return func(ctx context.Context, loc icekit.Location) (icekit.FileReader, error) {
			return New(client, loc.Bucket), nil
		}, nil
	})
}
