// Package skeleton implements the $-placeholder template language used by
// document header and trailer skeletons.
//
// A skeleton is parsed once and executed many times. Execution runs two
// passes over the parsed tokens: the first resolves $if_X_start … $if_X_end
// blocks against Flags, the second substitutes the remaining placeholders
// from Vars. Substituted values are never re-scanned.
//
// A parsed *Skeleton is immutable and safe for concurrent use.
package skeleton

import (
	"fmt"
	"strconv"
	"strings"
)

// Vars maps placeholder names to values.
// Supported value types: string, bool, signed/unsigned integers, float32,
// float64 and fmt.Stringer.
type Vars map[string]any

// Flags maps conditional block names to their state.
// An absent block is treated as false.
type Flags map[string]bool

// Skeleton is a parsed template.
type Skeleton struct {
	name   string
	tokens []token
	match  []int // for tokenStart: index of its tokenEnd; -1 otherwise
}

// Parse lexes text and checks that conditional markers are balanced.
// The name is used only in error messages.
// Returns a *ConditionalError wrapping ErrUnterminatedConditional on imbalance.
func Parse(name, text string) (*Skeleton, error) {
	tokens := lex(text)
	match := make([]int, len(tokens))
	for i := range match {
		match[i] = -1
	}

	var open []int // indexes of unmatched start tokens
	for i, tok := range tokens {
		switch tok.kind {
		case tokenStart:
			open = append(open, i)
		case tokenEnd:
			if len(open) == 0 {
				return nil, conditionalError(name, tok, markerEnd)
			}
			top := open[len(open)-1]
			if tokens[top].text != tok.text {
				// A deeper block with this name means the top one was never closed.
				if hasOpen(tokens, open, tok.text) {
					return nil, conditionalError(name, tokens[top], markerStart)
				}
				return nil, conditionalError(name, tok, markerEnd)
			}
			match[top] = i
			open = open[:len(open)-1]
		}
	}
	if len(open) > 0 {
		return nil, conditionalError(name, tokens[open[0]], markerStart)
	}

	return &Skeleton{name: name, tokens: tokens, match: match}, nil
}

// MustParse is like Parse but panics on error.
// Intended for skeletons compiled into the binary.
func MustParse(name, text string) *Skeleton {
	s, err := Parse(name, text)
	if err != nil {
		panic(err)
	}
	return s
}

func hasOpen(tokens []token, open []int, name string) bool {
	for _, idx := range open {
		if tokens[idx].text == name {
			return true
		}
	}
	return false
}

func conditionalError(skeletonName string, tok token, marker string) *ConditionalError {
	return &ConditionalError{
		Skeleton: skeletonName,
		Name:     tok.text,
		Marker:   marker,
		Line:     tok.line,
		Col:      tok.col,
	}
}

// Name returns the skeleton name given to Parse.
func (s *Skeleton) Name() string {
	return s.name
}

// Variables returns the distinct placeholder names referenced by the
// skeleton, in order of first appearance, regardless of conditionals.
func (s *Skeleton) Variables() []string {
	seen := make(map[string]bool)
	var names []string
	for _, tok := range s.tokens {
		if tok.kind == tokenVar && !seen[tok.text] {
			seen[tok.text] = true
			names = append(names, tok.text)
		}
	}
	return names
}

// Blocks returns the distinct conditional block names, in order of first appearance.
func (s *Skeleton) Blocks() []string {
	seen := make(map[string]bool)
	var names []string
	for _, tok := range s.tokens {
		if tok.kind == tokenStart && !seen[tok.text] {
			seen[tok.text] = true
			names = append(names, tok.text)
		}
	}
	return names
}

// Execute renders the skeleton. No partial output is returned on error.
func (s *Skeleton) Execute(vars Vars, flags Flags) (string, error) {
	kept := s.resolveConditionals(flags)
	return s.substitute(kept, vars)
}

// resolveConditionals is the first pass: it drops markers and the regions of
// disabled blocks, returning the surviving text and placeholder tokens.
func (s *Skeleton) resolveConditionals(flags Flags) []token {
	kept := make([]token, 0, len(s.tokens))
	for i := 0; i < len(s.tokens); i++ {
		tok := s.tokens[i]
		switch tok.kind {
		case tokenStart:
			if !flags[tok.text] {
				i = s.match[i] // skip to the matching end; loop increment steps past it
			}
		case tokenEnd:
			// marker of an enabled block
		default:
			kept = append(kept, tok)
		}
	}
	return kept
}

// substitute is the second pass.
func (s *Skeleton) substitute(tokens []token, vars Vars) (string, error) {
	var b strings.Builder
	for _, tok := range tokens {
		if tok.kind == tokenText {
			b.WriteString(tok.text)
			continue
		}
		v, ok := vars[tok.text]
		if !ok {
			return "", &VariableError{Skeleton: s.name, Name: tok.text, Line: tok.line, Col: tok.col}
		}
		str, err := formatValue(tok.text, v)
		if err != nil {
			return "", fmt.Errorf("%s:%d:%d: %w", s.name, tok.line, tok.col, err)
		}
		b.WriteString(str)
	}
	return b.String(), nil
}

// formatValue renders v as plain, locale-independent text.
func formatValue(name string, v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case int:
		return strconv.Itoa(t), nil
	case int8:
		return strconv.FormatInt(int64(t), 10), nil
	case int16:
		return strconv.FormatInt(int64(t), 10), nil
	case int32:
		return strconv.FormatInt(int64(t), 10), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case uint:
		return strconv.FormatUint(uint64(t), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(t), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(t), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(t), 10), nil
	case uint64:
		return strconv.FormatUint(t, 10), nil
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case fmt.Stringer:
		return t.String(), nil
	}
	return "", fmt.Errorf("%w: $%s has type %T", ErrUnsupportedValue, name, v)
}

// Assemble renders header and trailer and concatenates
// header ++ body ++ trailer. The body is opaque and is not scanned.
// A nil trailer renders as the empty string.
func Assemble(header, trailer *Skeleton, vars Vars, flags Flags, body string) (string, error) {
	head, err := header.Execute(vars, flags)
	if err != nil {
		return "", err
	}

	var tail string
	if trailer != nil {
		tail, err = trailer.Execute(vars, flags)
		if err != nil {
			return "", err
		}
	}

	var b strings.Builder
	b.Grow(len(head) + len(body) + len(tail))
	b.WriteString(head)
	b.WriteString(body)
	b.WriteString(tail)
	return b.String(), nil
}

// Render parses header and trailer text and assembles the document.
// An empty trailer is allowed.
func Render(headerText, trailerText string, vars Vars, flags Flags, body string) (string, error) {
	header, err := Parse("header", headerText)
	if err != nil {
		return "", err
	}

	var trailer *Skeleton
	if trailerText != "" {
		trailer, err = Parse("trailer", trailerText)
		if err != nil {
			return "", err
		}
	}

	return Assemble(header, trailer, vars, flags, body)
}
