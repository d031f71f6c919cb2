package cheatmark

import (
	"errors"

	"github.com/alnah/go-cheatmark/internal/pipeline"
	"github.com/alnah/go-cheatmark/internal/skeleton"
	"github.com/alnah/go-cheatmark/internal/toolchain"
)

// Sentinel errors for library operations.
var (
	ErrEmptyMarkdown = errors.New("markdown content cannot be empty")
	ErrPoolClosed    = errors.New("converter pool is closed")

	// TemplateConfig validation errors.
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidFontSize    = errors.New("invalid font size")
	ErrInvalidLineSpacing = errors.New("invalid line spacing")
	ErrInvalidColumnNum   = errors.New("invalid column count")
	ErrInvalidLength      = errors.New("invalid length")

	// Asset loading errors.
	ErrSkeletonSetNotFound   = errors.New("skeleton set not found")
	ErrIncompleteSkeletonSet = errors.New("skeleton set missing header")
	ErrInvalidAssetPath      = errors.New("invalid asset path")
)

// Rendering and conversion errors, shared with the internal packages so
// errors.Is matches across layers.
var (
	ErrMissingVariable         = skeleton.ErrMissingVariable
	ErrUnterminatedConditional = skeleton.ErrUnterminatedConditional
	ErrUnsupportedValue        = skeleton.ErrUnsupportedValue
	ErrConversion              = toolchain.ErrConversion
	ErrToolNotFound            = toolchain.ErrToolNotFound
	ErrDiagramRender           = pipeline.ErrDiagramRender
)

// VariableError reports a skeleton placeholder with no value.
type VariableError = skeleton.VariableError

// ConditionalError reports an unbalanced $if_X_start/$if_X_end marker.
type ConditionalError = skeleton.ConditionalError

// ConversionFailure reports a failed or timed out pandoc or pdflatex run.
// Log carries the tool output verbatim.
type ConversionFailure = toolchain.Failure
