package cheatmark

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alnah/go-cheatmark/internal/toolchain"
)

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	gomaxprocs := runtime.GOMAXPROCS(0)

	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{
			name:    "explicit takes priority",
			workers: 4,
			want:    4,
		},
		{
			name:    "explicit=1 for sequential",
			workers: 1,
			want:    1,
		},
		{
			name:    "explicit can exceed max",
			workers: 32,
			want:    32,
		},
		{
			name:    "zero uses auto calculation",
			workers: 0,
			want:    min(max(gomaxprocs, MinPoolSize), MaxPoolSize),
		},
		{
			name:    "negative uses auto calculation",
			workers: -3,
			want:    min(max(gomaxprocs, MinPoolSize), MaxPoolSize),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ResolvePoolSize(tt.workers)
			if got != tt.want {
				t.Errorf("ResolvePoolSize(%d) = %d, want %d", tt.workers, got, tt.want)
			}
		})
	}
}

func newTestPool(t *testing.T, n int, tex *mockRunner) *ConverterPool {
	t.Helper()
	pool, err := NewConverterPool(n)
	if err != nil {
		t.Fatalf("NewConverterPool() error = %v", err)
	}
	withRunners(pool.Converter(), pandocReturning(testBody), tex)
	t.Cleanup(func() { _ = pool.Close() })
	return pool
}

func TestNewConverterPool(t *testing.T) {
	t.Parallel()

	t.Run("clamps size to one", func(t *testing.T) {
		t.Parallel()

		pool, err := NewConverterPool(0)
		if err != nil {
			t.Fatal(err)
		}
		defer pool.Close()
		if pool.Size() != 1 {
			t.Errorf("Size() = %d, want 1", pool.Size())
		}
	})

	t.Run("propagates option errors", func(t *testing.T) {
		t.Parallel()

		_, err := NewConverterPool(2, WithSkeleton("nonexistent"))
		if !errors.Is(err, ErrSkeletonSetNotFound) {
			t.Errorf("error = %v, want ErrSkeletonSetNotFound", err)
		}
	})
}

func TestConverterPool_BoundsConcurrency(t *testing.T) {
	t.Parallel()

	const size = 2
	var active, peak atomic.Int32
	tex := &mockRunner{fn: func(_ context.Context, c toolchain.Command) (toolchain.Output, error) {
		n := active.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		active.Add(-1)
		_ = os.WriteFile(filepath.Join(c.Dir, "document.pdf"), []byte(testPDF), 0o600)
		return toolchain.Output{}, nil
	}}
	pool := newTestPool(t, size, tex)

	var wg sync.WaitGroup
	errs := make(chan error, 6)
	for range 6 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := pool.Convert(context.Background(), Input{Markdown: "x"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("Convert() error = %v", err)
		}
	}
	if got := peak.Load(); got > size {
		t.Errorf("peak concurrency = %d, want <= %d", got, size)
	}
	if got := len(tex.Calls()); got != 6 {
		t.Errorf("pdflatex calls = %d, want 6", got)
	}
}

func TestConverterPool_ContextWhileWaiting(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	started := make(chan struct{})
	tex := &mockRunner{fn: func(_ context.Context, c toolchain.Command) (toolchain.Output, error) {
		close(started)
		<-release
		_ = os.WriteFile(filepath.Join(c.Dir, "document.pdf"), []byte(testPDF), 0o600)
		return toolchain.Output{}, nil
	}}
	pool := newTestPool(t, 1, tex)

	done := make(chan error, 1)
	go func() {
		_, err := pool.Convert(context.Background(), Input{Markdown: "x"})
		done <- err
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := pool.Convert(ctx, Input{Markdown: "y"}); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("waiting Convert() error = %v, want DeadlineExceeded", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Errorf("first Convert() error = %v", err)
	}
}

func TestConverterPool_Close(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t, 2, texWriting(testPDF, ""))

	if err := pool.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := pool.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if _, err := pool.Convert(context.Background(), Input{Markdown: "x"}); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Convert() after Close error = %v, want ErrPoolClosed", err)
	}
}
