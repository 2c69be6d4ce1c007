package fluidpath_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/gobeaver/fluidpath"
	"github.com/gobeaver/fluidpath/driver/memory"
)

func newClient(t *testing.T, store *memory.Store) *fluidpath.Client {
	t.Helper()

	client, err := fluidpath.New(fluidpath.DefaultConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	client.Use(store)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNew(t *testing.T) {
	t.Run("nil config uses defaults", func(t *testing.T) {
		client, err := fluidpath.New(nil)
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		defer client.Close()

		if got := client.Config().Concurrency; got != 1 {
			t.Errorf("Concurrency = %d, want 1", got)
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := fluidpath.DefaultConfig()
		cfg.Concurrency = 0

		if _, err := fluidpath.New(cfg); err == nil {
			t.Error("expected error for zero concurrency")
		}
	})
}

func TestGlobalInstance(t *testing.T) {
	fluidpath.Reset()
	defer fluidpath.Reset()

	cfg := fluidpath.DefaultConfig()
	cfg.Concurrency = 3
	if err := fluidpath.Init(cfg); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	c1, err := fluidpath.Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	c2, _ := fluidpath.Default()
	if c1 != c2 {
		t.Error("Default() should return the same instance")
	}
	if c1.Config().Concurrency != 3 {
		t.Errorf("Concurrency = %d, want 3", c1.Config().Concurrency)
	}

	// Init is a no-op once the global client exists.
	if err := fluidpath.Init(fluidpath.DefaultConfig()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if c3, _ := fluidpath.Default(); c3 != c1 {
		t.Error("second Init() should not replace the global client")
	}

	fluidpath.Reset()
	t.Setenv("BEAVER_FLUIDPATH_CONCURRENCY", "5")
	c4, err := fluidpath.Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if c4 == c1 {
		t.Error("Reset() should clear the global client")
	}
	if c4.Config().Concurrency != 5 {
		t.Errorf("Concurrency = %d, want 5", c4.Config().Concurrency)
	}
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv("BEAVER_FLUIDPATH_LOG_FORMAT", "yaml")

	if _, err := fluidpath.NewFromEnv(); err == nil {
		t.Error("expected error for unknown log format")
	}
}

func TestClientCopy(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	client := newClient(t, store)
	_ = store.Put(ctx, "bucket", "src/a.txt", []byte("a"))
	_ = store.Put(ctx, "bucket", "src/sub/b.txt", []byte("b"))

	dst := filepath.Join(t.TempDir(), "out")
	if err := client.Copy(ctx, "mem://bucket/src", dst); err != nil {
		t.Fatalf("Copy() error = %v", err)
	}

	mustRead(t, fluidpath.NewLocalPath(filepath.Join(dst, "a.txt")), "a")
	mustRead(t, fluidpath.NewLocalPath(filepath.Join(dst, "sub", "b.txt")), "b")
	if n := store.ObjectCount("bucket"); n != 2 {
		t.Errorf("source should be untouched, got %d objects", n)
	}

	if err := client.Copy(ctx, "mem://bucket/missing", dst); !fluidpath.IsInvalidArgument(err) {
		t.Errorf("expected invalid argument for missing source, got: %v", err)
	}
	if err := client.Copy(ctx, "mem://bucket/src", "ftp://host/x"); err == nil {
		t.Error("expected error for unsupported scheme")
	}
}

func TestClientMove(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	client := newClient(t, store)
	_ = store.Put(ctx, "bucket", "a.txt", []byte("a"))

	if err := client.Move(ctx, "mem://bucket/a.txt", "mem://other/b.txt"); err != nil {
		t.Fatalf("Move() error = %v", err)
	}

	if keys := store.Keys("bucket"); len(keys) != 0 {
		t.Errorf("expected source to be gone, got %v", keys)
	}
	data, err := store.Get(ctx, "other", "b.txt")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(data) != "a" {
		t.Errorf("expected a, got %q", data)
	}
}

func TestClientRemove(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	client := newClient(t, store)
	_ = store.Put(ctx, "bucket", "dir/x.txt", []byte("x"))
	_ = store.Put(ctx, "bucket", "keep.txt", []byte("k"))

	if err := client.Remove(ctx, "mem://bucket/dir", true); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if keys := store.Keys("bucket"); len(keys) != 1 || keys[0] != "keep.txt" {
		t.Errorf("expected only keep.txt to remain, got %v", keys)
	}

	if err := client.Remove(ctx, "mem://bucket/dir", false); err != nil {
		t.Errorf("non-strict remove of missing path: %v", err)
	}
	if err := client.Remove(ctx, "mem://bucket/dir", true); err == nil {
		t.Error("expected error for strict remove of missing path")
	}
}
