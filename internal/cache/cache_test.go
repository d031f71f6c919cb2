package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestKey(t *testing.T) {
	t.Parallel()

	a := Key([]byte("ab"), []byte("c"))
	b := Key([]byte("a"), []byte("bc"))
	if a == b {
		t.Error("Key() collides across part boundaries")
	}
	if a != Key([]byte("ab"), []byte("c")) {
		t.Error("Key() is not deterministic")
	}
	if !strings.HasPrefix(a, KeyPrefix+":") {
		t.Errorf("Key() = %q, want %s: prefix", a, KeyPrefix)
	}
	if got := len(strings.TrimPrefix(a, KeyPrefix+":")); got != 64 {
		t.Errorf("hash length = %d, want 64", got)
	}
}

func TestNullCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := NewNullCache()
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, ok, err := c.Get(ctx, "k"); ok || err != nil {
		t.Errorf("Get() = %v, %v; want miss", ok, err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestFileCache - Round trip, expiry and corruption
// ---------------------------------------------------------------------------

func TestFileCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "cache")
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	t.Run("miss", func(t *testing.T) {
		if _, ok, err := c.Get(ctx, "absent"); ok || err != nil {
			t.Errorf("Get() = %v, %v; want miss", ok, err)
		}
	})

	t.Run("hit", func(t *testing.T) {
		if err := c.Set(ctx, "k", []byte("%PDF"), 0); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		got, ok, err := c.Get(ctx, "k")
		if err != nil || !ok || string(got) != "%PDF" {
			t.Errorf("Get() = %q, %v, %v; want %%PDF hit", got, ok, err)
		}
	})

	t.Run("expired", func(t *testing.T) {
		if err := c.Set(ctx, "ttl", []byte("x"), time.Minute); err != nil {
			t.Fatal(err)
		}
		if _, ok, _ := c.Get(ctx, "ttl"); !ok {
			t.Fatal("Get() miss before expiry")
		}
		later := now.Add(2 * time.Minute)
		c.now = func() time.Time { return later }
		defer func() { c.now = func() time.Time { return now } }()

		if _, ok, err := c.Get(ctx, "ttl"); ok || err != nil {
			t.Errorf("Get() = %v, %v; want expired miss", ok, err)
		}
		if _, err := os.Stat(c.path("ttl")); !os.IsNotExist(err) {
			t.Error("expired entry not removed")
		}
	})

	t.Run("corrupt entry", func(t *testing.T) {
		path := c.path("bad")
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, ok, err := c.Get(ctx, "bad"); ok || err != nil {
			t.Errorf("Get() = %v, %v; want miss", ok, err)
		}
	})
}

func TestOpen(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    Options
		wantErr error
	}{
		{name: "empty backend", opts: Options{}},
		{name: "none", opts: Options{Backend: BackendNone}},
		{name: "file", opts: Options{Backend: BackendFile, Dir: t.TempDir()}},
		{name: "unknown", opts: Options{Backend: "memcached"}, wantErr: ErrUnknownBackend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, err := Open(context.Background(), tt.opts)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Open() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			_ = c.Close()
		})
	}
}
