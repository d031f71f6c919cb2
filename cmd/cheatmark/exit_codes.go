package main

import (
	"context"
	"errors"
	"os"
	"slices"
	"strings"

	"github.com/alnah/go-cheatmark"
	"github.com/alnah/go-cheatmark/internal/config"
	"github.com/alnah/go-cheatmark/internal/hints"
	"github.com/alnah/go-cheatmark/internal/logging"
)

// Exit codes for the cheatmark CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess   = 0 // Successful conversion
	ExitGeneral   = 1 // General/unexpected error
	ExitUsage     = 2 // Invalid flags, config, template values or skeletons
	ExitIO        = 3 // File not found, permission denied
	ExitToolchain = 4 // pandoc/pdflatex missing, failing or timing out
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Toolchain errors (exit 4)
	if errors.Is(err, cheatmark.ErrToolNotFound) ||
		errors.Is(err, cheatmark.ErrConversion) ||
		errors.Is(err, context.DeadlineExceeded) {
		return ExitToolchain
	}

	// Usage/config/render errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, logging.ErrInvalidFormat) ||
		errors.Is(err, cheatmark.ErrEmptyMarkdown) ||
		errors.Is(err, cheatmark.ErrInvalidOrientation) ||
		errors.Is(err, cheatmark.ErrInvalidFontSize) ||
		errors.Is(err, cheatmark.ErrInvalidLineSpacing) ||
		errors.Is(err, cheatmark.ErrInvalidColumnNum) ||
		errors.Is(err, cheatmark.ErrInvalidLength) ||
		errors.Is(err, cheatmark.ErrMissingVariable) ||
		errors.Is(err, cheatmark.ErrUnterminatedConditional) ||
		errors.Is(err, cheatmark.ErrUnsupportedValue) ||
		errors.Is(err, cheatmark.ErrDiagramRender) ||
		errors.Is(err, cheatmark.ErrSkeletonSetNotFound) ||
		errors.Is(err, cheatmark.ErrIncompleteSkeletonSet) ||
		errors.Is(err, cheatmark.ErrInvalidAssetPath) ||
		errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidExtension) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadMarkdown) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	return ExitGeneral
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, cheatmark.ErrToolNotFound):
		tool := "pandoc"
		if strings.Contains(err.Error(), "pdflatex") {
			tool = "pdflatex"
		}
		return hints.ForToolNotFound(tool)
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, cheatmark.ErrConversion):
		return hints.ForTeXError()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(triedPaths(err))
	case errors.Is(err, cheatmark.ErrSkeletonSetNotFound):
		return hints.ForSkeletonNotFound(cheatmark.BuiltinSkeletons())
	case errors.Is(err, cheatmark.ErrMissingVariable):
		return hints.ForMissingVariable(knownVariables())
	case errors.Is(err, cheatmark.ErrUnterminatedConditional):
		return hints.ForUnterminatedConditional()
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	}
	return ""
}

// triedPaths extracts the search list from a "tried a, b" config error.
func triedPaths(err error) []string {
	_, list, ok := strings.Cut(err.Error(), "tried ")
	if !ok {
		return nil
	}
	return strings.Split(list, ", ")
}

// knownVariables lists the placeholders a TemplateConfig provides.
func knownVariables() []string {
	vars := cheatmark.DefaultTemplateConfig().Vars()
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, "$"+name)
	}
	slices.Sort(names)
	return names
}
