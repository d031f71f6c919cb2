package skeleton

import (
	"errors"
	"fmt"
)

// Sentinel errors for skeleton parsing and rendering.
var (
	// ErrMissingVariable indicates a placeholder with no value in Vars.
	ErrMissingVariable = errors.New("missing template variable")

	// ErrUnterminatedConditional indicates a $if_X_start without its
	// $if_X_end, or an $if_X_end without an open $if_X_start.
	ErrUnterminatedConditional = errors.New("unterminated conditional block")

	// ErrUnsupportedValue indicates a variable value that has no plain-text form.
	ErrUnsupportedValue = errors.New("unsupported variable value")
)

// VariableError reports a placeholder that could not be resolved.
type VariableError struct {
	Skeleton string // skeleton name, for diagnostics
	Name     string // placeholder name without the leading $
	Line     int
	Col      int
}

func (e *VariableError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %v: $%s", e.Skeleton, e.Line, e.Col, ErrMissingVariable, e.Name)
}

// Unwrap returns ErrMissingVariable for errors.Is matching.
func (e *VariableError) Unwrap() error {
	return ErrMissingVariable
}

// ConditionalError reports an unbalanced conditional marker.
type ConditionalError struct {
	Skeleton string
	Name     string // block name X in $if_X_start
	Marker   string // "start" or "end": the marker left without a partner
	Line     int
	Col      int
}

func (e *ConditionalError) Error() string {
	partner := "end"
	if e.Marker == markerEnd {
		partner = "start"
	}
	return fmt.Sprintf("%s:%d:%d: %v: $if_%s_%s has no matching $if_%s_%s",
		e.Skeleton, e.Line, e.Col, ErrUnterminatedConditional, e.Name, e.Marker, e.Name, partner)
}

// Unwrap returns ErrUnterminatedConditional for errors.Is matching.
func (e *ConditionalError) Unwrap() error {
	return ErrUnterminatedConditional
}
