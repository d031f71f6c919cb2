// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-cheatmark/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// installHints maps a tool to its install suggestion.
var installHints = map[string]string{
	"pandoc":   "install pandoc (https://pandoc.org/installing.html)",
	"pdflatex": "install a TeX distribution with pdflatex (TeX Live, MiKTeX)",
}

// envOverrides maps a tool to the environment variable that locates it.
var envOverrides = map[string]string{
	"pandoc":   "CHEATMARK_PANDOC",
	"pdflatex": "CHEATMARK_PDFLATEX",
}

// ForToolNotFound returns hints for a missing external tool.
// In containers it points at the packages the image needs.
func ForToolNotFound(tool string) string {
	var hints []string

	if IsInContainer() {
		switch tool {
		case "pdflatex":
			hints = append(hints, "add texlive-latex-extra to the image")
		case "pandoc":
			hints = append(hints, "add pandoc to the image")
		}
	} else if install, ok := installHints[tool]; ok {
		hints = append(hints, install)
	}

	if env, ok := envOverrides[tool]; ok && os.Getenv(env) == "" {
		hints = append(hints, "or set "+env+" to its path")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout() string {
	return format("for large documents, use --timeout flag")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/cheatmark/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/cheatmark") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForSkeletonNotFound returns hints for skeleton set not found errors.
func ForSkeletonNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForMissingVariable returns hints for a skeleton placeholder with no value.
func ForMissingVariable(known []string) string {
	if len(known) == 0 {
		return format("write $$ for a literal dollar sign")
	}
	return format("known variables: " + strings.Join(known, ", ") + "; write $$ for a literal dollar sign")
}

// ForUnterminatedConditional returns hints for unbalanced $if_X_start/$if_X_end markers.
func ForUnterminatedConditional() string {
	return format("close every $if_X_start with $if_X_end in the same skeleton file")
}

// ForTeXError returns hints for a pdflatex failure.
func ForTeXError() string {
	return format("rerun with --verbose for the full log, or --lenient to keep a partial PDF")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
