package toolchain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for toolchain operations.
var (
	// ErrConversion indicates an external tool failed or timed out.
	ErrConversion = errors.New("conversion failed")

	// ErrToolNotFound indicates the executable is not installed or not in PATH.
	ErrToolNotFound = errors.New("tool not found")

	// ErrNoArtifact indicates the tool exited cleanly but produced no output file.
	ErrNoArtifact = errors.New("no output produced")

	// ErrInvalidAssetName indicates a workspace file name that is not a
	// local, relative path.
	ErrInvalidAssetName = errors.New("invalid workspace file name")

	// ErrEmptySource indicates empty input given to a tool.
	ErrEmptySource = errors.New("source cannot be empty")
)

// Stages reported by Failure.
const (
	StagePandoc   = "pandoc"
	StagePDFLaTeX = "pdflatex"
)

// Failure describes a failed tool run. Log holds the tool's output verbatim:
// stderr for pandoc, the .log file (or stdout) for pdflatex.
type Failure struct {
	Stage    string
	ExitCode int // -1 when the process did not exit normally
	Log      string
	Err      error // underlying cause, e.g. context.DeadlineExceeded
}

func (f *Failure) Error() string {
	var b strings.Builder
	b.WriteString(f.Stage)
	if f.ExitCode >= 0 {
		fmt.Fprintf(&b, " exited with status %d", f.ExitCode)
	} else {
		b.WriteString(" failed")
	}
	if f.Err != nil {
		fmt.Fprintf(&b, ": %v", f.Err)
	}
	return b.String()
}

// Unwrap exposes ErrConversion and the underlying cause to errors.Is.
func (f *Failure) Unwrap() []error {
	if f.Err == nil {
		return []error{ErrConversion}
	}
	return []error{ErrConversion, f.Err}
}

// Tail returns the last n non-empty lines of Log.
func (f *Failure) Tail(n int) string {
	return tail(f.Log, n)
}

func tail(text string, n int) string {
	if n <= 0 {
		return ""
	}
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	kept := make([]string, 0, n)
	for i := len(lines) - 1; i >= 0 && len(kept) < n; i-- {
		if strings.TrimSpace(lines[i]) != "" {
			kept = append(kept, lines[i])
		}
	}
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}
	return strings.Join(kept, "\n")
}
