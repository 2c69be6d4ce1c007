package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"iter"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/gobeaver/fluidpath"
)

// Client is the subset of *s3.Client the store calls
type Client interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	s3.ListObjectsV2APIClient
}

// Store provides an Amazon S3 implementation of fluidpath.ObjectStore
type Store struct {
	client Client
}

// New creates a new S3 object store
func New(client Client) *Store {
	return &Store{client: client}
}

// Scheme implements fluidpath.ObjectStore
func (s *Store) Scheme() string {
	return "s3"
}

// Stat implements fluidpath.ObjectStore
func (s *Store) Stat(ctx context.Context, bucket, key string) (*fluidpath.ObjectInfo, error) {
	result, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, mapS3Error("stat", bucket, key, err)
	}

	return &fluidpath.ObjectInfo{
		Key:     key,
		Size:    aws.ToInt64(result.ContentLength),
		ModTime: aws.ToTime(result.LastModified),
	}, nil
}

// Get implements fluidpath.ObjectStore
func (s *Store) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, mapS3Error("read", bucket, key, err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, mapS3Error("read", bucket, key, err)
	}
	return data, nil
}

// Put implements fluidpath.ObjectStore
func (s *Store) Put(ctx context.Context, bucket, key string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(fluidpath.ContentType(key, data)),
	})
	if err != nil {
		return mapS3Error("write", bucket, key, err)
	}
	return nil
}

// Delete implements fluidpath.ObjectStore. S3 does not report deletes of
// absent keys.
func (s *Store) Delete(ctx context.Context, bucket, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return mapS3Error("delete", bucket, key, err)
	}
	return nil
}

// List implements fluidpath.ObjectStore. ListObjectsV2 returns keys in
// UTF-8 binary order.
func (s *Store) List(ctx context.Context, bucket, prefix string) iter.Seq2[fluidpath.ObjectInfo, error] {
	return func(yield func(fluidpath.ObjectInfo, error) bool) {
		paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
			Bucket: aws.String(bucket),
			Prefix: aws.String(prefix),
		})

		for paginator.HasMorePages() {
			page, err := paginator.NextPage(ctx)
			if err != nil {
				yield(fluidpath.ObjectInfo{}, mapS3Error("list", bucket, prefix, err))
				return
			}

			for _, obj := range page.Contents {
				info := fluidpath.ObjectInfo{
					Key:     aws.ToString(obj.Key),
					Size:    aws.ToInt64(obj.Size),
					ModTime: aws.ToTime(obj.LastModified),
				}
				if !yield(info, nil) {
					return
				}
			}
		}
	}
}

// mapS3Error maps S3 errors to fluidpath errors
func mapS3Error(op, bucket, key string, err error) error {
	p := fluidpath.ObjectURL("s3", bucket, key)

	var nsk *types.NoSuchKey
	var notFound *types.NotFound
	var noBucket *types.NoSuchBucket
	if errors.As(err, &nsk) || errors.As(err, &notFound) || errors.As(err, &noBucket) {
		return fluidpath.NewPathError(op, p, errors.Join(fluidpath.ErrNotExist, err))
	}

	// HeadObject errors carry no modeled type, only the code
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey", "NoSuchBucket":
			return fluidpath.NewPathError(op, p, errors.Join(fluidpath.ErrNotExist, err))
		}
	}

	return fluidpath.NewPathError(op, p, err)
}

// Ensure Store implements fluidpath.ObjectStore
var _ fluidpath.ObjectStore = (*Store)(nil)
