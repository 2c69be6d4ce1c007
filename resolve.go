package fluidpath

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Location is a parsed location string.
type Location struct {
	// Scheme is empty for local paths.
	Scheme string
	Bucket string
	// Key is the object key, or the filesystem path for local locations.
	Key string
}

// IsLocal reports whether the location names a local path.
func (l Location) IsLocal() bool {
	return l.Scheme == ""
}

// ParseLocation splits a location string into scheme, bucket and key.
// Strings without "://" and "file://" URLs are local paths.
func ParseLocation(location string) (Location, error) {
	scheme, rest, found := strings.Cut(location, "://")
	if !found {
		return Location{Key: location}, nil
	}

	scheme = strings.ToLower(scheme)
	if scheme == "" {
		return Location{}, fmt.Errorf("%w: missing scheme in %q", ErrInvalidArgument, location)
	}
	if scheme == "file" {
		return Location{Key: rest}, nil
	}

	bucket, key, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return Location{}, fmt.Errorf("%w: missing bucket in %q", ErrInvalidArgument, location)
	}

	return Location{Scheme: scheme, Bucket: bucket, Key: key}, nil
}

// Resolver turns location strings into typed paths. It creates at most one
// store per scheme and reuses it for every later location.
type Resolver struct {
	cfg *Config

	mu     sync.Mutex
	stores map[string]ObjectStore
}

// NewResolver creates a resolver. A nil cfg means DefaultConfig().
func NewResolver(cfg *Config) *Resolver {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Resolver{
		cfg:    cfg,
		stores: make(map[string]ObjectStore),
	}
}

// Use makes the resolver serve store.Scheme() locations from store instead
// of creating one from the registered factory.
func (r *Resolver) Use(store ObjectStore) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stores[store.Scheme()] = store
}

// Resolve parses location and returns the matching LocalPath or ObjectPath.
func (r *Resolver) Resolve(ctx context.Context, location string) (Path, error) {
	loc, err := ParseLocation(location)
	if err != nil {
		return nil, err
	}
	if loc.IsLocal() {
		return NewLocalPath(loc.Key), nil
	}

	store, err := r.store(ctx, loc.Scheme)
	if err != nil {
		return nil, err
	}
	return NewObjectPath(store, loc.Bucket, loc.Key), nil
}

func (r *Resolver) store(ctx context.Context, scheme string) (ObjectStore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.stores[scheme]; ok {
		return s, nil
	}

	s, err := CreateStore(ctx, scheme, r.cfg)
	if err != nil {
		return nil, err
	}
	r.stores[scheme] = s
	return s, nil
}

// Close releases every store the resolver holds that has a Close method.
func (r *Resolver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for scheme, s := range r.stores {
		if c, ok := s.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %s store: %w", scheme, err))
			}
		}
		delete(r.stores, scheme)
	}
	return errors.Join(errs...)
}
