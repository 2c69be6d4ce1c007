package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/gobeaver/fluidpath"
)

// fakeClient keeps objects in memory and pages listings two keys at a time.
type fakeClient struct {
	mu      sync.Mutex
	objects map[string][]byte
	puts    []*s3.PutObjectInput
}

func newFakeClient() *fakeClient {
	return &fakeClient{objects: make(map[string][]byte)}
}

func (f *fakeClient) HeadObject(ctx context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &smithy.GenericAPIError{Code: "NotFound", Message: "Not Found"}
	}
	return &s3.HeadObjectOutput{
		ContentLength: aws.Int64(int64(len(data))),
		LastModified:  aws.Time(time.Unix(0, 0)),
	}, nil
}

func (f *fakeClient) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeClient) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	f.puts = append(f.puts, in)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeClient) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeClient) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	bucket := aws.ToString(in.Bucket) + "/"
	var keys []string
	for k := range f.objects {
		if key, ok := strings.CutPrefix(k, bucket); ok && strings.HasPrefix(key, aws.ToString(in.Prefix)) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	start := 0
	if in.ContinuationToken != nil {
		start, _ = strconv.Atoi(*in.ContinuationToken)
	}
	end := min(start+2, len(keys))

	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(end < len(keys))}
	if end < len(keys) {
		out.NextContinuationToken = aws.String(strconv.Itoa(end))
	}
	for _, key := range keys[start:end] {
		out.Contents = append(out.Contents, types.Object{
			Key:  aws.String(key),
			Size: aws.Int64(int64(len(f.objects[bucket+key]))),
		})
	}
	return out, nil
}

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("put then get and stat", func(t *testing.T) {
		client := newFakeClient()
		s := New(client)

		if err := s.Put(ctx, "bucket", "dir/a.json", []byte(`{}`)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := aws.ToString(client.puts[0].ContentType); got != "application/json" {
			t.Errorf("expected application/json content type, got %q", got)
		}

		data, err := s.Get(ctx, "bucket", "dir/a.json")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != "{}" {
			t.Errorf("expected {}, got %q", data)
		}

		info, err := s.Stat(ctx, "bucket", "dir/a.json")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if info.Size != 2 {
			t.Errorf("expected size 2, got %d", info.Size)
		}
	})

	t.Run("missing objects map to ErrNotExist", func(t *testing.T) {
		s := New(newFakeClient())

		if _, err := s.Stat(ctx, "bucket", "nope"); !fluidpath.IsNotExist(err) {
			t.Errorf("expected not exist from Stat, got: %v", err)
		}
		if _, err := s.Get(ctx, "bucket", "nope"); !fluidpath.IsNotExist(err) {
			t.Errorf("expected not exist from Get, got: %v", err)
		}
	})

	t.Run("list walks every page in order", func(t *testing.T) {
		client := newFakeClient()
		s := New(client)
		for _, key := range []string{"d/3", "d/1", "d/2", "d/4", "d/5", "other"} {
			_ = s.Put(ctx, "bucket", key, []byte("x"))
		}

		var keys []string
		for info, err := range s.List(ctx, "bucket", "d/") {
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			keys = append(keys, info.Key)
		}

		want := "d/1,d/2,d/3,d/4,d/5"
		if got := strings.Join(keys, ","); got != want {
			t.Errorf("expected %s, got %s", want, got)
		}
	})

	t.Run("works through ObjectPath", func(t *testing.T) {
		s := New(newFakeClient())
		_ = s.Put(ctx, "bucket", "dir/a.txt", []byte("a"))

		dir := fluidpath.NewObjectPath(s, "bucket", "dir")
		isDir, err := dir.IsDir(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !isDir {
			t.Error("expected dir to be a directory")
		}
	})
}

func TestMapS3Error(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		notExist bool
	}{
		{"no such key", &types.NoSuchKey{}, true},
		{"not found", &types.NotFound{}, true},
		{"no such bucket", &types.NoSuchBucket{}, true},
		{"api code", &smithy.GenericAPIError{Code: "NoSuchBucket"}, true},
		{"access denied", &smithy.GenericAPIError{Code: "AccessDenied"}, false},
		{"plain", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapS3Error("stat", "bucket", "key", tt.err)
			if fluidpath.IsNotExist(err) != tt.notExist {
				t.Errorf("IsNotExist = %v, want %v (err: %v)", !tt.notExist, tt.notExist, err)
			}
			if !errors.Is(err, tt.err) {
				t.Error("expected original error to be preserved")
			}
		})
	}
}

func TestS3Options(t *testing.T) {
	cfg := fluidpath.DefaultConfig()
	cfg.S3Endpoint = "http://localhost:9000"
	cfg.S3ForcePathStyle = true

	var o s3.Options
	s3Options(cfg)(&o)

	if aws.ToString(o.BaseEndpoint) != "http://localhost:9000" {
		t.Errorf("expected endpoint to be set, got %q", aws.ToString(o.BaseEndpoint))
	}
	if !o.UsePathStyle {
		t.Error("expected path style addressing")
	}
}
