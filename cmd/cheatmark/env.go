package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/alnah/go-cheatmark"
	"github.com/alnah/go-cheatmark/internal/toolchain"
)

// Pool is the subset of *cheatmark.ConverterPool used by the CLI.
type Pool interface {
	Convert(ctx context.Context, input cheatmark.Input) (*cheatmark.ConvertResult, error)
	Size() int
	Close() error
}

// Compile-time interface implementation check.
var _ Pool = (*cheatmark.ConverterPool)(nil)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now      func() time.Time
	Stdout   io.Writer
	Stderr   io.Writer
	NewPool  func(n int, opts ...cheatmark.Option) (Pool, error)
	Runner   toolchain.CommandRunner // doctor --version probes
	LookPath func(name string) (string, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		NewPool: func(n int, opts ...cheatmark.Option) (Pool, error) {
			return cheatmark.NewConverterPool(n, opts...)
		},
		Runner:   &toolchain.ExecRunner{},
		LookPath: toolchain.LookPath,
	}
}
