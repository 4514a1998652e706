package azure

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/gobeaver/icekit"
)

func init() {
	icekit.RegisterDriver(icekit.DriverAzure, func(cfg *icekit.Config) (icekit.Opener, error) {
		if cfg.AzureAccountName == "" || cfg.AzureAccountKey == "" {
			return nil, errors.New("azure account name and key are required")
		}

		cred, err := azblob.NewSharedKeyCredential(cfg.AzureAccountName, cfg.AzureAccountKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create azure credential: %w", err)
		}

		var (
			mu      sync.Mutex
			clients = make(map[string]*azblob.Client)
		)

		return func(ctx context.Context, loc icekit.Location) (icekit.FileReader, error) {
			serviceURL := serviceURLFor(cfg, loc.Host)

			mu.Lock()
			defer mu.Unlock()
			client, ok := clients[serviceURL]
			if !ok {
				client, err = azblob.NewClientWithSharedKeyCredential(serviceURL, cred, nil)
				if err != nil {
					return nil, fmt.Errorf("failed to create azure client: %w", err)
				}
				clients[serviceURL] = client
			}

			return New(client, loc.Bucket), nil
		}, nil
	})
}

// serviceURLFor builds the blob endpoint for a location host. ADLS hosts
// (account.dfs.core.windows.net) are served through the blob endpoint.
// A configured endpoint overrides both.
func serviceURLFor(cfg *icekit.Config, host string) string {
	if cfg.AzureEndpoint != "" {
		return cfg.AzureEndpoint
	}
	if host != "" {
		return "https://" + strings.Replace(host, ".dfs.", ".blob.", 1) + "/"
	}
	return fmt.Sprintf("https://%s.blob.core.windows.net/", cfg.AzureAccountName)
}
