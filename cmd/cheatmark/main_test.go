package main

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/alnah/go-cheatmark"
)

// ---------------------------------------------------------------------------
// TestRunMain - Command dispatch and exit codes
// ---------------------------------------------------------------------------

func TestRunMain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{"no command", []string{"cheatmark"}, ExitUsage, "", "Usage: cheatmark"},
		{"unknown command", []string{"cheatmark", "compile"}, ExitUsage, "", "unknown command: compile"},
		{"version", []string{"cheatmark", "version"}, ExitSuccess, "cheatmark " + Version, ""},
		{"help", []string{"cheatmark", "help"}, ExitSuccess, "Commands:", ""},
		{"help convert", []string{"cheatmark", "help", "convert"}, ExitSuccess, "--tex-only", ""},
		{"help render", []string{"cheatmark", "help", "render"}, ExitSuccess, "Usage: cheatmark render", ""},
		{"help serve", []string{"cheatmark", "help", "serve"}, ExitSuccess, "--data-dir", ""},
		{"help unknown", []string{"cheatmark", "help", "nope"}, ExitSuccess, "", "Unknown command: nope"},
		{"convert --help", []string{"cheatmark", "convert", "--help"}, ExitSuccess, "", "Usage: cheatmark convert"},
		{"convert without input", []string{"cheatmark", "convert"}, ExitIO, "", "error: no input specified"},
		{"render bad flag", []string{"cheatmark", "render", "--passes", "x"}, ExitUsage, "", "invalid usage"},
		{"serve with args", []string{"cheatmark", "serve", "extra"}, ExitUsage, "", "serve takes no arguments"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(nil)
			code := runMain(context.Background(), tt.args, env.Environment)
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d (stderr: %s)", code, tt.wantCode, env.stderr)
			}
			if tt.wantStdout != "" && !strings.Contains(env.stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want it to contain %q", env.stdout, tt.wantStdout)
			}
			if tt.wantStderr != "" && !strings.Contains(env.stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want it to contain %q", env.stderr, tt.wantStderr)
			}
		})
	}
}

func TestRunMain_Hint(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := writeFile(t, dir, "a.md", "x")

	env := newTestEnv(nil)
	env.NewPool = func(int, ...cheatmark.Option) (Pool, error) {
		return nil, fmt.Errorf("%w: nonexistent", cheatmark.ErrSkeletonSetNotFound)
	}
	code := runMain(context.Background(), []string{"cheatmark", "convert", src, "-s", "nonexistent"}, env.Environment)
	if code != ExitUsage {
		t.Errorf("exit code = %d, want %d", code, ExitUsage)
	}
	if !strings.Contains(env.stderr.String(), "hint: available: default") {
		t.Errorf("stderr = %q, want skeleton hint", env.stderr)
	}
}

func TestWantsVerbose(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"cheatmark", "convert", "-v"}, true},
		{[]string{"cheatmark", "serve", "--verbose"}, true},
		{[]string{"cheatmark", "convert", "--", "-v"}, false},
		{[]string{"cheatmark", "convert"}, false},
	}
	for _, tt := range tests {
		if got := wantsVerbose(tt.args); got != tt.want {
			t.Errorf("wantsVerbose(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestRunServe - Service startup and shutdown
// ---------------------------------------------------------------------------

func TestRunServe_ShutsDownOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	env := newTestEnv(nil)
	err := runServe(ctx, []string{"--addr", "127.0.0.1:0", "--data-dir", t.TempDir(), "-w", "2"}, env.Environment)
	if err != nil {
		t.Fatalf("runServe() error = %v", err)
	}
	if env.pool.size != 2 || !env.pool.closed {
		t.Errorf("pool size = %d, closed = %v", env.pool.size, env.pool.closed)
	}
	if !strings.Contains(env.stderr.String(), "starting cheatmark") {
		t.Errorf("stderr = %q", env.stderr)
	}
}
