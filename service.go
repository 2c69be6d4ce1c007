package fluidpath

import (
	"context"
	"fmt"
	"sync"

	"github.com/gobeaver/beaver-kit/config"
)

// Global instance
var (
	defaultClient *Client
	defaultOnce   sync.Once
	defaultErr    error
)

// Client resolves location strings and runs copy, move and remove between
// them. It owns the stores it creates; call Close when done.
type Client struct {
	cfg      *Config
	resolver *Resolver
	transfer *Transfer
}

// Builder provides a way to create clients from environment variables with
// a custom prefix
type Builder struct {
	prefix string
}

// WithPrefix creates a new Builder with the specified prefix
func WithPrefix(prefix string) *Builder {
	return &Builder{prefix: prefix}
}

// Init initializes the global client using the builder's prefix
func (b *Builder) Init() error {
	cfg, err := b.load()
	if err != nil {
		return err
	}
	return Init(cfg)
}

// New creates a new client using the builder's prefix
func (b *Builder) New(options ...Option) (*Client, error) {
	cfg, err := b.load()
	if err != nil {
		return nil, err
	}
	return New(cfg, options...)
}

func (b *Builder) load() (*Config, error) {
	cfg := &Config{}
	if err := config.Load(cfg, config.LoadOptions{Prefix: b.prefix}); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Init initializes the global client
func Init(configs ...*Config) error {
	defaultOnce.Do(func() {
		var cfg *Config
		if len(configs) > 0 {
			cfg = configs[0]
		} else {
			cfg, defaultErr = GetConfig()
			if defaultErr != nil {
				return
			}
		}

		defaultClient, defaultErr = New(cfg)
	})

	return defaultErr
}

// New creates a client from cfg. Options are applied after the transfer
// settings taken from cfg, so they win.
func New(cfg *Config, options ...Option) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Client{
		cfg:      cfg,
		resolver: NewResolver(cfg),
		transfer: NewTransfer(append(OptionsFromConfig(cfg), options...)...),
	}, nil
}

// Default returns the global client, initializing it from the environment
// if needed
func Default() (*Client, error) {
	if defaultClient == nil {
		if err := Init(); err != nil {
			return nil, err
		}
	}
	return defaultClient, nil
}

// NewFromEnv creates a client from environment variables (convenience constructor)
func NewFromEnv(options ...Option) (*Client, error) {
	cfg, err := GetConfig()
	if err != nil {
		return nil, err
	}
	return New(cfg, options...)
}

// Reset closes and clears the global client (for testing)
func Reset() {
	if defaultClient != nil {
		_ = defaultClient.Close()
	}
	defaultClient = nil
	defaultOnce = sync.Once{}
	defaultErr = nil
}

// Config returns the configuration the client was built from
func (c *Client) Config() *Config {
	return c.cfg
}

// Use serves store.Scheme() locations from store
func (c *Client) Use(store ObjectStore) {
	c.resolver.Use(store)
}

// Resolve turns a location string into a Path
func (c *Client) Resolve(ctx context.Context, location string) (Path, error) {
	return c.resolver.Resolve(ctx, location)
}

// Copy copies the file or directory at from to to
func (c *Client) Copy(ctx context.Context, from, to string) error {
	src, dst, err := c.resolvePair(ctx, from, to)
	if err != nil {
		return err
	}
	return c.transfer.Copy(ctx, src, dst)
}

// Move moves the file or directory at from to to
func (c *Client) Move(ctx context.Context, from, to string) error {
	src, dst, err := c.resolvePair(ctx, from, to)
	if err != nil {
		return err
	}
	return c.transfer.Move(ctx, src, dst)
}

// Remove removes the file or directory at location. A missing location is
// an error only when strict is set.
func (c *Client) Remove(ctx context.Context, location string, strict bool) error {
	p, err := c.resolver.Resolve(ctx, location)
	if err != nil {
		return err
	}
	return c.transfer.Remove(ctx, p, strict)
}

// Close releases the stores the client created
func (c *Client) Close() error {
	return c.resolver.Close()
}

func (c *Client) resolvePair(ctx context.Context, from, to string) (Path, Path, error) {
	src, err := c.resolver.Resolve(ctx, from)
	if err != nil {
		return nil, nil, err
	}
	dst, err := c.resolver.Resolve(ctx, to)
	if err != nil {
		return nil, nil, err
	}
	return src, dst, nil
}
