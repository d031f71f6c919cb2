package toolchain

import (
	"context"
	"errors"
	"os/exec"
	"strings"
)

// DefaultPandocPath is the pandoc executable looked up in PATH.
const DefaultPandocPath = "pandoc"

// pandocFrom disables fancy_lists so that "A)" style markers stay literal text.
const pandocFrom = "markdown-fancy_lists"

// Pandoc converts Markdown to a LaTeX fragment by invoking the pandoc CLI.
type Pandoc struct {
	Path    string   // executable; empty means DefaultPandocPath
	Filters []string // passed as --filter, in order
	Runner  CommandRunner
}

// NewPandoc creates a Pandoc with a real command runner.
func NewPandoc(path string, filters ...string) *Pandoc {
	return &Pandoc{Path: path, Filters: filters, Runner: &ExecRunner{}}
}

// Args returns the pandoc argument list used by ToLaTeX.
func (p *Pandoc) Args() []string {
	args := []string{"--from=" + pandocFrom, "--to=latex"}
	for _, f := range p.Filters {
		args = append(args, "--filter", f)
	}
	return args
}

// ToLaTeX converts markdown to a LaTeX body (no preamble). Markdown is fed on
// stdin and pandoc runs in dir, so relative image paths resolve against it.
// Returns a *Failure on a non-zero exit or a done context.
func (p *Pandoc) ToLaTeX(ctx context.Context, markdown, dir string) (string, error) {
	if strings.TrimSpace(markdown) == "" {
		return "", ErrEmptySource
	}

	name := p.Path
	if name == "" {
		name = DefaultPandocPath
	}

	out, err := p.Runner.Run(ctx, Command{
		Name:  name,
		Args:  p.Args(),
		Dir:   dir,
		Stdin: []byte(markdown),
	})
	if err != nil {
		if errors.Is(err, ErrToolNotFound) {
			return "", err
		}
		return "", newFailure(StagePandoc, out, err, string(out.Stderr))
	}

	return string(out.Stdout), nil
}

// newFailure builds a Failure from a runner error. A plain non-zero exit
// is fully described by the exit code, so only other causes are kept in Err.
func newFailure(stage string, out Output, err error, log string) *Failure {
	f := &Failure{Stage: stage, ExitCode: out.ExitCode, Log: log}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		f.ExitCode = exitErr.ExitCode()
	} else {
		f.Err = err
	}
	return f
}
