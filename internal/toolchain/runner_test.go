//go:build !windows

package toolchain

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"
)

// These tests need a POSIX shell; they exercise the real process handling.

func TestExecRunner_Run(t *testing.T) {
	t.Parallel()

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	r := &ExecRunner{}

	t.Run("captures streams and stdin", func(t *testing.T) {
		t.Parallel()

		out, err := r.Run(context.Background(), Command{
			Name:  "sh",
			Args:  []string{"-c", "cat; echo err >&2"},
			Stdin: []byte("hello"),
		})
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if string(out.Stdout) != "hello" {
			t.Errorf("Stdout = %q, want hello", out.Stdout)
		}
		if string(out.Stderr) != "err\n" {
			t.Errorf("Stderr = %q, want err\\n", out.Stderr)
		}
		if out.ExitCode != 0 {
			t.Errorf("ExitCode = %d, want 0", out.ExitCode)
		}
	})

	t.Run("non-zero exit", func(t *testing.T) {
		t.Parallel()

		out, err := r.Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "exit 3"}})
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			t.Fatalf("Run() error = %v, want *exec.ExitError", err)
		}
		if out.ExitCode != 3 {
			t.Errorf("ExitCode = %d, want 3", out.ExitCode)
		}
	})

	t.Run("working directory", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		out, err := r.Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "pwd -P"}, Dir: dir})
		if err != nil {
			t.Fatal(err)
		}
		if len(out.Stdout) == 0 {
			t.Error("pwd printed nothing")
		}
	})

	t.Run("missing tool", func(t *testing.T) {
		t.Parallel()

		_, err := r.Run(context.Background(), Command{Name: "cheatmark-no-such-tool"})
		if !errors.Is(err, ErrToolNotFound) {
			t.Errorf("Run() error = %v, want ErrToolNotFound", err)
		}
	})

	t.Run("timeout kills process group", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		start := time.Now()
		// The child sleep inherits the group; it must die with the shell.
		_, err := r.Run(ctx, Command{Name: "sh", Args: []string{"-c", "sleep 30 & wait"}})
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("Run() error = %v, want DeadlineExceeded", err)
		}
		if elapsed := time.Since(start); elapsed > 5*time.Second {
			t.Errorf("Run() returned after %v, want prompt cancellation", elapsed)
		}
	})
}

func TestVersion(t *testing.T) {
	t.Parallel()

	runner := &mockRunner{fn: func(context.Context, Command) (Output, error) {
		return Output{Stdout: []byte("pandoc 3.1.9\nFeatures: +server\n")}, nil
	}}
	got, err := Version(context.Background(), runner, "pandoc")
	if err != nil {
		t.Fatalf("Version() error = %v", err)
	}
	if got != "pandoc 3.1.9" {
		t.Errorf("Version() = %q, want %q", got, "pandoc 3.1.9")
	}
}

func TestLookPath_Missing(t *testing.T) {
	t.Parallel()

	if _, err := LookPath("cheatmark-no-such-tool"); !errors.Is(err, ErrToolNotFound) {
		t.Errorf("LookPath() error = %v, want ErrToolNotFound", err)
	}
}
