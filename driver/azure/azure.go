package azure

import (
	"context"
	"errors"
	"io"
	"iter"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/gobeaver/fluidpath"
)

// Store provides an Azure Blob Storage implementation of
// fluidpath.ObjectStore. Buckets are containers.
type Store struct {
	client *azblob.Client
}

// New creates a new Azure Blob Storage object store
func New(client *azblob.Client) *Store {
	return &Store{client: client}
}

// Scheme implements fluidpath.ObjectStore
func (s *Store) Scheme() string {
	return "az"
}

// Stat implements fluidpath.ObjectStore
func (s *Store) Stat(ctx context.Context, bucket, key string) (*fluidpath.ObjectInfo, error) {
	blobClient := s.client.ServiceClient().NewContainerClient(bucket).NewBlobClient(key)
	props, err := blobClient.GetProperties(ctx, nil)
	if err != nil {
		return nil, mapAzureError("stat", bucket, key, err)
	}

	info := &fluidpath.ObjectInfo{Key: key}
	if props.ContentLength != nil {
		info.Size = *props.ContentLength
	}
	if props.LastModified != nil {
		info.ModTime = *props.LastModified
	}
	return info, nil
}

// Get implements fluidpath.ObjectStore
func (s *Store) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	resp, err := s.client.DownloadStream(ctx, bucket, key, nil)
	if err != nil {
		return nil, mapAzureError("read", bucket, key, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, mapAzureError("read", bucket, key, err)
	}
	return data, nil
}

// Put implements fluidpath.ObjectStore
func (s *Store) Put(ctx context.Context, bucket, key string, data []byte) error {
	contentType := fluidpath.ContentType(key, data)
	_, err := s.client.UploadBuffer(ctx, bucket, key, data, &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType: &contentType,
		},
	})
	if err != nil {
		return mapAzureError("write", bucket, key, err)
	}
	return nil
}

// Delete implements fluidpath.ObjectStore
func (s *Store) Delete(ctx context.Context, bucket, key string) error {
	if _, err := s.client.DeleteBlob(ctx, bucket, key, nil); err != nil {
		return mapAzureError("delete", bucket, key, err)
	}
	return nil
}

// List implements fluidpath.ObjectStore. Flat listings come back in
// lexicographic blob-name order.
func (s *Store) List(ctx context.Context, bucket, prefix string) iter.Seq2[fluidpath.ObjectInfo, error] {
	return func(yield func(fluidpath.ObjectInfo, error) bool) {
		pager := s.client.NewListBlobsFlatPager(bucket, &azblob.ListBlobsFlatOptions{
			Prefix: &prefix,
		})

		for pager.More() {
			resp, err := pager.NextPage(ctx)
			if err != nil {
				yield(fluidpath.ObjectInfo{}, mapAzureError("list", bucket, prefix, err))
				return
			}

			for _, item := range resp.Segment.BlobItems {
				if item.Name == nil {
					continue
				}

				info := fluidpath.ObjectInfo{Key: *item.Name}
				if props := item.Properties; props != nil {
					if props.ContentLength != nil {
						info.Size = *props.ContentLength
					}
					if props.LastModified != nil {
						info.ModTime = *props.LastModified
					}
				}
				if !yield(info, nil) {
					return
				}
			}
		}
	}
}

// mapAzureError maps Azure errors to fluidpath errors
func mapAzureError(op, bucket, key string, err error) error {
	p := fluidpath.ObjectURL("az", bucket, key)

	if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
		return fluidpath.NewPathError(op, p, errors.Join(fluidpath.ErrNotExist, err))
	}

	// HEAD responses carry no error code
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound {
		return fluidpath.NewPathError(op, p, errors.Join(fluidpath.ErrNotExist, err))
	}

	return fluidpath.NewPathError(op, p, err)
}

// Ensure Store implements fluidpath.ObjectStore
var _ fluidpath.ObjectStore = (*Store)(nil)
