package memory

import (
	"context"
	"iter"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gobeaver/fluidpath"
)

// memoryObject represents an object stored in memory
type memoryObject struct {
	content []byte
	modTime time.Time
}

// Store provides an in-memory implementation of fluidpath.ObjectStore.
// Useful for testing and for scratch work that never touches the network.
type Store struct {
	mu      sync.RWMutex
	scheme  string
	buckets map[string]map[string]*memoryObject
	maxSize int64 // Maximum total storage size (0 = unlimited)
	size    int64 // Current total size
}

// Config holds configuration for the memory store
type Config struct {
	// Scheme the store answers to (default "mem")
	Scheme string

	// MaxSize is the maximum total storage size in bytes (0 = unlimited)
	MaxSize int64
}

// New creates a new in-memory object store
func New(cfg ...Config) *Store {
	s := &Store{
		scheme:  "mem",
		buckets: make(map[string]map[string]*memoryObject),
	}
	if len(cfg) > 0 {
		if cfg[0].Scheme != "" {
			s.scheme = cfg[0].Scheme
		}
		s.maxSize = cfg[0].MaxSize
	}
	return s
}

// Scheme implements fluidpath.ObjectStore
func (s *Store) Scheme() string {
	return s.scheme
}

// Stat implements fluidpath.ObjectStore
func (s *Store) Stat(ctx context.Context, bucket, key string) (*fluidpath.ObjectInfo, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, exists := s.buckets[bucket][key]
	if !exists {
		return nil, s.notExist("stat", bucket, key)
	}

	return &fluidpath.ObjectInfo{
		Key:     key,
		Size:    int64(len(obj.content)),
		ModTime: obj.modTime,
	}, nil
}

// Get implements fluidpath.ObjectStore
func (s *Store) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, exists := s.buckets[bucket][key]
	if !exists {
		return nil, s.notExist("read", bucket, key)
	}

	// Return a copy of the content to prevent modification
	data := make([]byte, len(obj.content))
	copy(data, obj.content)
	return data, nil
}

// Put implements fluidpath.ObjectStore. Buckets spring into existence on
// first write.
func (s *Store) Put(ctx context.Context, bucket, key string, data []byte) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if bucket == "" || key == "" {
		return &fluidpath.PathError{
			Op:   "write",
			Path: fluidpath.ObjectURL(s.scheme, bucket, key),
			Err:  fluidpath.ErrInvalidArgument,
		}
	}

	content := make([]byte, len(data))
	copy(content, data)

	s.mu.Lock()
	defer s.mu.Unlock()

	objects, ok := s.buckets[bucket]
	if !ok {
		objects = make(map[string]*memoryObject)
		s.buckets[bucket] = objects
	}

	newSize := s.size + int64(len(content))
	if existing, exists := objects[key]; exists {
		newSize -= int64(len(existing.content))
	}

	// Check max size limit
	if s.maxSize > 0 && newSize > s.maxSize {
		return &fluidpath.PathError{
			Op:   "write",
			Path: fluidpath.ObjectURL(s.scheme, bucket, key),
			Err:  ErrNoSpace,
		}
	}

	objects[key] = &memoryObject{
		content: content,
		modTime: time.Now(),
	}
	s.size = newSize

	return nil
}

// Delete implements fluidpath.ObjectStore
func (s *Store) Delete(ctx context.Context, bucket, key string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	obj, exists := s.buckets[bucket][key]
	if !exists {
		return s.notExist("delete", bucket, key)
	}

	s.size -= int64(len(obj.content))
	delete(s.buckets[bucket], key)

	return nil
}

// List implements fluidpath.ObjectStore. The listing is a snapshot taken
// when iteration starts.
func (s *Store) List(ctx context.Context, bucket, prefix string) iter.Seq2[fluidpath.ObjectInfo, error] {
	return func(yield func(fluidpath.ObjectInfo, error) bool) {
		s.mu.RLock()
		var infos []fluidpath.ObjectInfo
		for key, obj := range s.buckets[bucket] {
			if strings.HasPrefix(key, prefix) {
				infos = append(infos, fluidpath.ObjectInfo{
					Key:     key,
					Size:    int64(len(obj.content)),
					ModTime: obj.modTime,
				})
			}
		}
		s.mu.RUnlock()

		sort.Slice(infos, func(i, j int) bool {
			return infos[i].Key < infos[j].Key
		})

		for _, info := range infos {
			if err := ctx.Err(); err != nil {
				yield(fluidpath.ObjectInfo{}, err)
				return
			}
			if !yield(info, nil) {
				return
			}
		}
	}
}

// Clear removes all objects from the store
// Useful for testing cleanup
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.buckets = make(map[string]map[string]*memoryObject)
	s.size = 0
}

// Size returns the current total size of all stored objects
func (s *Store) Size() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.size
}

// ObjectCount returns the number of objects stored in bucket
func (s *Store) ObjectCount(bucket string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.buckets[bucket])
}

// Keys returns the sorted keys stored in bucket
func (s *Store) Keys(bucket string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.buckets[bucket]))
	for k := range s.buckets[bucket] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *Store) notExist(op, bucket, key string) error {
	return &fluidpath.PathError{
		Op:   op,
		Path: fluidpath.ObjectURL(s.scheme, bucket, key),
		Err:  fluidpath.ErrNotExist,
	}
}

// Ensure Store implements fluidpath.ObjectStore
var _ fluidpath.ObjectStore = (*Store)(nil)
