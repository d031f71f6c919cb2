package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-cheatmark"
	"github.com/alnah/go-cheatmark/internal/toolchain"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Fake pool, runner and environment
// ---------------------------------------------------------------------------

const fakePDF = "%PDF-1.5 fake"

// fakePool records every input and answers with fn (default: a fixed PDF).
type fakePool struct {
	mu     sync.Mutex
	size   int
	opts   int
	inputs []cheatmark.Input
	closed bool
	fn     func(in cheatmark.Input) (*cheatmark.ConvertResult, error)
}

func (p *fakePool) Convert(_ context.Context, in cheatmark.Input) (*cheatmark.ConvertResult, error) {
	p.mu.Lock()
	p.inputs = append(p.inputs, in)
	p.mu.Unlock()
	if p.fn != nil {
		return p.fn(in)
	}
	return &cheatmark.ConvertResult{PDF: []byte(fakePDF), TeX: []byte("TEX:" + in.Markdown)}, nil
}

func (p *fakePool) Size() int { return p.size }

func (p *fakePool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *fakePool) Inputs() []cheatmark.Input {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]cheatmark.Input(nil), p.inputs...)
}

// fakeRunner answers --version probes.
type fakeRunner struct {
	out toolchain.Output
	err error
}

func (r *fakeRunner) Run(context.Context, toolchain.Command) (toolchain.Output, error) {
	return r.out, r.err
}

type testEnvironment struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	pool   *fakePool
}

// newTestEnv returns an environment whose NewPool hands out pool.
func newTestEnv(pool *fakePool) *testEnvironment {
	if pool == nil {
		pool = &fakePool{}
	}
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	return &testEnvironment{
		Environment: &Environment{
			Now:    func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) },
			Stdout: stdout,
			Stderr: stderr,
			NewPool: func(n int, opts ...cheatmark.Option) (Pool, error) {
				pool.size = n
				pool.opts = len(opts)
				return pool, nil
			},
			Runner:   &fakeRunner{out: toolchain.Output{Stdout: []byte("tool 1.0\nmore\n")}},
			LookPath: func(name string) (string, error) { return "/usr/bin/" + name, nil },
		},
		stdout: stdout,
		stderr: stderr,
		pool:   pool,
	}
}

// writeFile creates path under dir with content and returns the full path.
func writeFile(t *testing.T, dir, path, content string) string {
	t.Helper()
	full := filepath.Join(dir, path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return full
}
