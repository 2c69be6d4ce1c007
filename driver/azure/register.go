package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/gobeaver/fluidpath"
)

func init() {
	fluidpath.RegisterStore("az", func(ctx context.Context, cfg *fluidpath.Config) (fluidpath.ObjectStore, error) {
		if cfg.AzureAccountName == "" || cfg.AzureAccountKey == "" {
			return nil, fmt.Errorf("azure account name and key are required")
		}

		// Create shared key credential
		cred, err := azblob.NewSharedKeyCredential(cfg.AzureAccountName, cfg.AzureAccountKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create azure credential: %w", err)
		}

		client, err := azblob.NewClientWithSharedKeyCredential(serviceURL(cfg), cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create azure client: %w", err)
		}

		return New(client), nil
	})
}

func serviceURL(cfg *fluidpath.Config) string {
	if cfg.AzureEndpoint != "" {
		return cfg.AzureEndpoint
	}
	return fmt.Sprintf("https://%s.blob.core.windows.net/", cfg.AzureAccountName)
}
