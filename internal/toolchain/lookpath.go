package toolchain

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// LookPath resolves a tool executable.
// Returns ErrToolNotFound if it is not installed or not in PATH.
func LookPath(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	return path, nil
}

// Version runs "<path> --version" and returns the first output line.
func Version(ctx context.Context, runner CommandRunner, path string) (string, error) {
	out, err := runner.Run(ctx, Command{Name: path, Args: []string{"--version"}})
	if err != nil {
		return "", fmt.Errorf("%s --version: %w", path, err)
	}
	sc := bufio.NewScanner(bytes.NewReader(out.Stdout))
	if sc.Scan() {
		return strings.TrimSpace(sc.Text()), nil
	}
	return "", nil
}
