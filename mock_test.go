package cheatmark

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/alnah/go-cheatmark/internal/toolchain"
)

// ---------------------------------------------------------------------------
// Mock Implementations
// ---------------------------------------------------------------------------

// mockRunner records commands and delegates to fn.
type mockRunner struct {
	mu    sync.Mutex
	calls []toolchain.Command
	fn    func(ctx context.Context, c toolchain.Command) (toolchain.Output, error)
}

func (m *mockRunner) Run(ctx context.Context, c toolchain.Command) (toolchain.Output, error) {
	m.mu.Lock()
	m.calls = append(m.calls, c)
	m.mu.Unlock()
	if m.fn == nil {
		return toolchain.Output{}, nil
	}
	return m.fn(ctx, c)
}

func (m *mockRunner) Calls() []toolchain.Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]toolchain.Command(nil), m.calls...)
}

// pandocReturning emulates pandoc writing body to stdout.
func pandocReturning(body string) *mockRunner {
	return &mockRunner{fn: func(context.Context, toolchain.Command) (toolchain.Output, error) {
		return toolchain.Output{Stdout: []byte(body)}, nil
	}}
}

// texWriting emulates pdflatex writing pdf and log into the work directory.
func texWriting(pdf, log string) *mockRunner {
	return &mockRunner{fn: func(_ context.Context, c toolchain.Command) (toolchain.Output, error) {
		_ = os.WriteFile(filepath.Join(c.Dir, toolchain.JobName+".pdf"), []byte(pdf), 0o600)
		_ = os.WriteFile(filepath.Join(c.Dir, toolchain.JobName+".log"), []byte(log), 0o600)
		return toolchain.Output{}, nil
	}}
}

type mockRenderer struct {
	mu    sync.Mutex
	calls int
	png   []byte
	err   error
	panic bool
}

func (m *mockRenderer) RenderPNG(ctx context.Context, dot []byte) ([]byte, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.panic {
		panic("renderer exploded")
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.png, nil
}

// memCache is an in-memory Cache that can be told to fail.
type memCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	gets    int
	sets    int
	failGet bool
	failSet bool
}

var errCacheDown = errors.New("cache down")

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.failGet {
		return nil, false, errCacheDown
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	if m.failSet {
		return errCacheDown
	}
	m.data[key] = data
	return nil
}

func (m *memCache) Close() error { return nil }

// withRunners swaps the toolchain command runners after construction.
func withRunners(c *Converter, pandoc, tex toolchain.CommandRunner) *Converter {
	c.pandoc.Runner = pandoc
	c.pdflatex.Runner = tex
	return c
}
