package gcs

import (
	"context"

	"cloud.google.com/go/storage"
	"github.com/gobeaver/fluidpath"
	"google.golang.org/api/option"
)

func init() {
	fluidpath.RegisterStore("gs", func(ctx context.Context, cfg *fluidpath.Config) (fluidpath.ObjectStore, error) {
		// Without options the client uses GOOGLE_APPLICATION_CREDENTIALS or
		// default credentials
		client, err := storage.NewClient(ctx, clientOptions(cfg)...)
		if err != nil {
			return nil, err
		}
		return New(client), nil
	})
}

func clientOptions(cfg *fluidpath.Config) []option.ClientOption {
	var opts []option.ClientOption
	if cfg.GCSCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.GCSCredentialsFile))
	}
	if cfg.GCSEndpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.GCSEndpoint))
	}
	if cfg.GCSAnonymous {
		opts = append(opts, option.WithoutAuthentication())
	}
	return opts
}
