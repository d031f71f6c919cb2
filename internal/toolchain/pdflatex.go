package toolchain

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// DefaultPDFLaTeXPath is the pdflatex executable looked up in PATH.
const DefaultPDFLaTeXPath = "pdflatex"

// JobName is the base name of every file pdflatex reads or writes.
const JobName = "document"

// MaxPasses bounds PDFLaTeX.Passes.
const MaxPasses = 5

// PDFLaTeX compiles a LaTeX document by invoking the pdflatex CLI.
type PDFLaTeX struct {
	Path   string // executable; empty means DefaultPDFLaTeXPath
	Passes int    // runs per compile, 1..MaxPasses; zero means 1
	// Strict stops at the first TeX error. When false, a run that exits
	// non-zero but still writes a PDF succeeds and the error report is
	// returned as the log.
	Strict bool
	Runner CommandRunner
}

// NewPDFLaTeX creates a strict single-pass PDFLaTeX with a real command runner.
func NewPDFLaTeX(path string) *PDFLaTeX {
	return &PDFLaTeX{Path: path, Passes: 1, Strict: true, Runner: &ExecRunner{}}
}

// Args returns the pdflatex argument list used by Compile.
func (p *PDFLaTeX) Args() []string {
	args := []string{"-interaction=nonstopmode", "-file-line-error"}
	if p.Strict {
		args = append(args, "-halt-on-error")
	}
	return append(args, "-jobname="+JobName, JobName+".tex")
}

// Compile writes source to the workspace as document.tex, runs pdflatex and
// returns the PDF bytes with the warnings (or, when not strict, the error
// report) found in the run. A failure returns a *Failure carrying the full
// pdflatex log.
func (p *PDFLaTeX) Compile(ctx context.Context, ws *Workspace, source string) ([]byte, string, error) {
	if strings.TrimSpace(source) == "" {
		return nil, "", ErrEmptySource
	}
	if err := ws.AddAsset(JobName+".tex", []byte(source)); err != nil {
		return nil, "", err
	}

	name := p.Path
	if name == "" {
		name = DefaultPDFLaTeXPath
	}
	passes := p.Passes
	if passes <= 0 {
		passes = 1
	}
	if passes > MaxPasses {
		passes = MaxPasses
	}

	var report string
	for range passes {
		out, err := p.Runner.Run(ctx, Command{Name: name, Args: p.Args(), Dir: ws.Dir()})
		if err == nil {
			continue
		}
		if errors.Is(err, ErrToolNotFound) {
			return nil, "", err
		}

		log := p.readLog(ws, out)
		if ctx.Err() != nil || p.Strict || !p.hasPDF(ws) {
			return nil, "", newFailure(StagePDFLaTeX, out, err, log)
		}
		report = errorReport(newFailure(StagePDFLaTeX, out, err, log), out)
	}

	pdf, err := ws.ReadFile(JobName + ".pdf")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", &Failure{Stage: StagePDFLaTeX, ExitCode: 0, Log: p.readLog(ws, Output{}), Err: ErrNoArtifact}
		}
		return nil, "", fmt.Errorf("reading output: %w", err)
	}

	if report != "" {
		return pdf, report, nil
	}
	logText, _ := ws.ReadFile(JobName + ".log")
	return pdf, Warnings(string(logText)), nil
}

func (p *PDFLaTeX) readLog(ws *Workspace, out Output) string {
	if data, err := ws.ReadFile(JobName + ".log"); err == nil && len(data) > 0 {
		return string(data)
	}
	return string(out.Stdout)
}

func (p *PDFLaTeX) hasPDF(ws *Workspace) bool {
	data, err := ws.ReadFile(JobName + ".pdf")
	return err == nil && len(data) > 0
}

// reportPrefix starts every tolerated error report.
const reportPrefix = "pdflatex error (exit "

// IsErrorReport reports whether log is the error report of a lenient
// compile rather than a list of warnings.
func IsErrorReport(log string) bool {
	return strings.HasPrefix(log, reportPrefix)
}

// errorReport formats a tolerated pdflatex failure for the error log.
func errorReport(f *Failure, out Output) string {
	details := strings.TrimSpace(string(out.Stderr) + "\n" + string(out.Stdout))
	if details == "" {
		details = strings.TrimSpace(f.Log)
	}
	if details == "" {
		details = "pdflatex failed without error output"
	}
	return fmt.Sprintf(reportPrefix+"%d):\nInput file: %s.tex\nError details:\n%s",
		f.ExitCode, JobName, details)
}

// Warnings extracts the warning and error lines from a pdflatex log.
func Warnings(log string) string {
	var kept []string
	for line := range strings.Lines(log) {
		line = strings.TrimRight(line, "\r\n")
		switch {
		case strings.Contains(line, "Warning:"),
			strings.HasPrefix(line, "Overfull "),
			strings.HasPrefix(line, "Underfull "),
			strings.HasPrefix(line, "! "),
			strings.HasPrefix(line, "./"+JobName+".tex:"):
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
