package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"time"

	"github.com/alnah/go-cheatmark/internal/process"
)

// DefaultWaitDelay bounds how long Run waits for output pipes after the
// process group has been killed.
const DefaultWaitDelay = 2 * time.Second

// Command describes one subprocess invocation.
type Command struct {
	Name  string
	Args  []string
	Dir   string // working directory; empty means the current directory
	Stdin []byte
}

// Output is the captured result of a Command.
type Output struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int // -1 if the process never started or was killed
}

// CommandRunner abstracts command execution to enable testing without real subprocesses.
type CommandRunner interface {
	// Run executes c and blocks until it exits or ctx is done.
	// A non-zero exit is reported as an *exec.ExitError alongside the output.
	// A done context is reported as ctx.Err().
	Run(ctx context.Context, c Command) (Output, error)
}

// ExecRunner implements CommandRunner using os/exec.
type ExecRunner struct {
	WaitDelay time.Duration // zero means DefaultWaitDelay
}

// Run starts c in its own process group and kills the group when ctx is done.
func (r *ExecRunner) Run(ctx context.Context, c Command) (Output, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...) // #nosec G204 -- tool paths come from configuration
	cmd.Dir = c.Dir
	if c.Stdin != nil {
		cmd.Stdin = bytes.NewReader(c.Stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	process.SetGroup(cmd)
	cmd.Cancel = func() error {
		return process.KillProcessGroup(cmd.Process.Pid)
	}
	cmd.WaitDelay = r.WaitDelay
	if cmd.WaitDelay == 0 {
		cmd.WaitDelay = DefaultWaitDelay
	}

	err := cmd.Run()
	out := Output{Stdout: stdout.Bytes(), Stderr: stderr.Bytes(), ExitCode: -1}
	if cmd.ProcessState != nil {
		out.ExitCode = cmd.ProcessState.ExitCode()
	}
	if err == nil {
		return out, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return out, ctxErr
	}
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return out, fmt.Errorf("%w: %s", ErrToolNotFound, c.Name)
	}
	return out, err
}

// Compile-time interface check.
var _ CommandRunner = (*ExecRunner)(nil)
