package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    log.Level
		wantErr bool
	}{
		{input: "", want: log.InfoLevel},
		{input: "debug", want: log.DebugLevel},
		{input: " WARN ", want: log.WarnLevel},
		{input: "error", want: log.ErrorLevel},
		{input: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseLevel(%q) = %v, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseLevel(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", "text", "JSON", "logfmt"} {
		if _, err := ParseFormat(name); err != nil {
			t.Errorf("ParseFormat(%q) error = %v", name, err)
		}
	}
	if _, err := ParseFormat("xml"); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("ParseFormat(xml) error = %v, want ErrInvalidFormat", err)
	}
}

func TestNew_FiltersByLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := New(&buf, log.WarnLevel)
	l.Info("hidden")
	l.Warn("shown", "key", "value")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message logged at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "key=value") {
		t.Errorf("warn message missing: %q", out)
	}
}

func TestNewWithFormatter_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := NewWithFormatter(&buf, log.InfoLevel, log.JSONFormatter)
	l.Info("request", "status", 200)

	if out := buf.String(); !strings.Contains(out, `"msg":"request"`) || !strings.Contains(out, `"status":200`) {
		t.Errorf("JSON output = %q", out)
	}
}

func TestContextLogger(t *testing.T) {
	t.Parallel()

	fallback := Discard()
	if FromContext(context.Background(), fallback) != fallback {
		t.Error("FromContext() without logger should return the fallback")
	}

	l := Discard()
	ctx := WithLogger(context.Background(), l)
	if FromContext(ctx, fallback) != l {
		t.Error("FromContext() did not return the attached logger")
	}
	if FromContext(WithLogger(context.Background(), nil), fallback) != fallback {
		t.Error("FromContext() with a nil logger should return the fallback")
	}
}

func TestStage_Done(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := New(&buf, log.DebugLevel)
	StartStage(l, "pdflatex").Done("bytes", 42)

	out := buf.String()
	for _, want := range []string{"stage done", "stage=pdflatex", "bytes=42", "elapsed="} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}
