// Package logging builds the charmbracelet/log loggers used across cheatmark
// and carries them through context.Context.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// TimeFormat renders timestamps as "HH:MM:SS.ms" (e.g. "14:32:01.45").
const TimeFormat = "15:04:05.00"

// Output formats accepted by ParseFormat.
const (
	FormatText   = "text"
	FormatJSON   = "json"
	FormatLogfmt = "logfmt"
)

// ErrInvalidFormat indicates an unknown log format name.
var ErrInvalidFormat = errors.New("invalid log format")

// New creates a logger with timestamp formatting writing to w at level.
func New(w io.Writer, level log.Level) *log.Logger {
	return NewWithFormatter(w, level, log.TextFormatter)
}

// NewWithFormatter is like New with an explicit output formatter.
func NewWithFormatter(w io.Writer, level log.Level, f log.Formatter) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      TimeFormat,
		Level:           level,
		Formatter:       f,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel + 1})
}

// ParseLevel parses debug, info, warn, error or fatal. Empty means info.
func ParseLevel(s string) (log.Level, error) {
	if strings.TrimSpace(s) == "" {
		return log.InfoLevel, nil
	}
	return log.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
}

// ParseFormat parses text, json or logfmt. Empty means text.
func ParseFormat(s string) (log.Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", FormatText:
		return log.TextFormatter, nil
	case FormatJSON:
		return log.JSONFormatter, nil
	case FormatLogfmt:
		return log.LogfmtFormatter, nil
	}
	return log.TextFormatter, fmt.Errorf("%w: %q (valid: text, json, logfmt)", ErrInvalidFormat, s)
}

// ctxKey is the type for context keys used in this package.
type ctxKey int

const loggerKey ctxKey = 0

// WithLogger returns a new context with the given logger attached.
func WithLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext retrieves the logger attached with WithLogger, or fallback
// when there is none.
func FromContext(ctx context.Context, fallback *log.Logger) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok && l != nil {
		return l
	}
	return fallback
}

// Stage measures one conversion stage and logs its duration at debug level.
type Stage struct {
	logger *log.Logger
	name   string
	start  time.Time
}

// StartStage starts timing stage name.
func StartStage(l *log.Logger, name string) *Stage {
	return &Stage{logger: l, name: name, start: time.Now()}
}

// Done logs the elapsed time with optional key/value pairs.
func (s *Stage) Done(keyvals ...any) {
	kv := append([]any{"stage", s.name, "elapsed", time.Since(s.start).Round(time.Millisecond)}, keyvals...)
	s.logger.Debug("stage done", kv...)
}
