package fluidpath

import (
	"context"
	"fmt"
	"iter"
	"sort"
	"sync"
	"time"
)

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key     string
	Size    int64
	ModTime time.Time
}

// ObjectStore is the narrow contract an object-storage backend implements.
// Keys are flat strings; "directories" are never stored, only inferred by
// ObjectPath.
type ObjectStore interface {
	// Scheme returns the URL scheme the store serves, e.g. "gs".
	Scheme() string

	// Stat returns object metadata. Fails with ErrNotExist if absent.
	Stat(ctx context.Context, bucket, key string) (*ObjectInfo, error)

	// Get returns the object content. Fails with ErrNotExist if absent.
	Get(ctx context.Context, bucket, key string) ([]byte, error)

	// Put creates or overwrites the object.
	Put(ctx context.Context, bucket, key string, data []byte) error

	// Delete removes the object. Deleting an absent key may or may not
	// fail depending on the backend; callers that need NotFound Stat first.
	Delete(ctx context.Context, bucket, key string) error

	// List yields every object whose key starts with prefix in
	// lexicographic key order. Stopping the range stops the listing.
	List(ctx context.Context, bucket, prefix string) iter.Seq2[ObjectInfo, error]
}

// StoreFactory creates an ObjectStore from config.
type StoreFactory func(ctx context.Context, cfg *Config) (ObjectStore, error)

var (
	storeFactories = make(map[string]StoreFactory)
	factoryMutex   sync.RWMutex
)

// RegisterStore registers a store factory for a URL scheme.
// Drivers call it from init().
func RegisterStore(scheme string, factory StoreFactory) {
	factoryMutex.Lock()
	defer factoryMutex.Unlock()
	storeFactories[scheme] = factory
}

// RegisteredSchemes returns the schemes with a registered store, sorted.
func RegisteredSchemes() []string {
	factoryMutex.RLock()
	defer factoryMutex.RUnlock()

	schemes := make([]string, 0, len(storeFactories))
	for s := range storeFactories {
		schemes = append(schemes, s)
	}
	sort.Strings(schemes)
	return schemes
}

// CreateStore creates a store instance for scheme from config.
func CreateStore(ctx context.Context, scheme string, cfg *Config) (ObjectStore, error) {
	factoryMutex.RLock()
	factory, exists := storeFactories[scheme]
	factoryMutex.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s (no store registered)", ErrUnsupportedScheme, scheme)
	}

	return factory(ctx, cfg)
}
