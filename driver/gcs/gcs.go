package gcs

import (
	"context"
	"errors"
	"io"
	"iter"

	"cloud.google.com/go/storage"
	"github.com/gobeaver/fluidpath"
	"google.golang.org/api/iterator"
)

// Store provides a Google Cloud Storage implementation of fluidpath.ObjectStore
type Store struct {
	client *storage.Client
}

// New creates a new GCS object store
func New(client *storage.Client) *Store {
	return &Store{client: client}
}

// Scheme implements fluidpath.ObjectStore
func (s *Store) Scheme() string {
	return "gs"
}

// Stat implements fluidpath.ObjectStore
func (s *Store) Stat(ctx context.Context, bucket, key string) (*fluidpath.ObjectInfo, error) {
	attrs, err := s.client.Bucket(bucket).Object(key).Attrs(ctx)
	if err != nil {
		return nil, mapGCSError("stat", bucket, key, err)
	}

	return &fluidpath.ObjectInfo{
		Key:     attrs.Name,
		Size:    attrs.Size,
		ModTime: attrs.Updated,
	}, nil
}

// Get implements fluidpath.ObjectStore
func (s *Store) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	reader, err := s.client.Bucket(bucket).Object(key).NewReader(ctx)
	if err != nil {
		return nil, mapGCSError("read", bucket, key, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, mapGCSError("read", bucket, key, err)
	}
	return data, nil
}

// Put implements fluidpath.ObjectStore
func (s *Store) Put(ctx context.Context, bucket, key string, data []byte) error {
	writer := s.client.Bucket(bucket).Object(key).NewWriter(ctx)
	writer.ContentType = fluidpath.ContentType(key, data)

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return mapGCSError("write", bucket, key, err)
	}

	// Close the writer to complete the upload
	if err := writer.Close(); err != nil {
		return mapGCSError("write", bucket, key, err)
	}
	return nil
}

// Delete implements fluidpath.ObjectStore
func (s *Store) Delete(ctx context.Context, bucket, key string) error {
	if err := s.client.Bucket(bucket).Object(key).Delete(ctx); err != nil {
		return mapGCSError("delete", bucket, key, err)
	}
	return nil
}

// List implements fluidpath.ObjectStore. GCS returns names in lexicographic
// order.
func (s *Store) List(ctx context.Context, bucket, prefix string) iter.Seq2[fluidpath.ObjectInfo, error] {
	return func(yield func(fluidpath.ObjectInfo, error) bool) {
		query := &storage.Query{Prefix: prefix}
		if err := query.SetAttrSelection([]string{"Name", "Size", "Updated"}); err != nil {
			yield(fluidpath.ObjectInfo{}, mapGCSError("list", bucket, prefix, err))
			return
		}

		it := s.client.Bucket(bucket).Objects(ctx, query)
		for {
			attrs, err := it.Next()
			if errors.Is(err, iterator.Done) {
				return
			}
			if err != nil {
				yield(fluidpath.ObjectInfo{}, mapGCSError("list", bucket, prefix, err))
				return
			}

			info := fluidpath.ObjectInfo{
				Key:     attrs.Name,
				Size:    attrs.Size,
				ModTime: attrs.Updated,
			}
			if !yield(info, nil) {
				return
			}
		}
	}
}

// Close releases the underlying client
func (s *Store) Close() error {
	return s.client.Close()
}

// mapGCSError maps GCS errors to fluidpath errors
func mapGCSError(op, bucket, key string, err error) error {
	p := fluidpath.ObjectURL("gs", bucket, key)

	if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
		return &fluidpath.PathError{
			Op:   op,
			Path: p,
			Err:  errors.Join(fluidpath.ErrNotExist, err),
		}
	}

	return &fluidpath.PathError{
		Op:   op,
		Path: p,
		Err:  err,
	}
}

// Ensure Store implements fluidpath.ObjectStore
var _ fluidpath.ObjectStore = (*Store)(nil)
