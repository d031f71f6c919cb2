//go:build integration

package cheatmark

// Integration tests run the real pandoc and pdflatex. They skip when either
// tool is missing from PATH.

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
	"time"
)

const integrationTimeout = 60 * time.Second

func requireToolchain(t *testing.T) {
	t.Helper()
	for _, tool := range []string{"pandoc", "pdflatex"} {
		if _, err := exec.LookPath(tool); err != nil {
			t.Skipf("%s not installed", tool)
		}
	}
}

func TestConvert_Integration(t *testing.T) {
	requireToolchain(t)

	pool, err := NewConverterPool(2, WithTimeout(integrationTimeout))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = pool.Close() }()

	md := "# Git\n\n## Branches\n\n`git switch -c topic` creates a branch.\n\n" +
		"| cmd | effect |\n|---|---|\n| `git log` | history |\n"

	tests := []struct {
		name string
		cfg  *TemplateConfig
	}{
		{"default three columns", nil},
		{"single column portrait", &TemplateConfig{
			Orientation: OrientationPortrait, FontSize: 10, LineSpacing: 12,
			ColumnNum: 1, ColumnSep: "2mm", UpDown: "10mm", LeftRight: "10mm",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx, cancel := context.WithTimeout(context.Background(), integrationTimeout)
			defer cancel()

			res, err := pool.Convert(ctx, Input{Markdown: md, Config: tt.cfg})
			if err != nil {
				t.Fatalf("Convert() error = %v", err)
			}
			if !bytes.HasPrefix(res.PDF, []byte("%PDF-")) {
				t.Errorf("output is not a PDF: %q", res.PDF[:min(len(res.PDF), 16)])
			}
			tex := string(res.TeX)
			if !strings.Contains(tex, `\begin{document}`) || !strings.Contains(tex, "Branches") {
				t.Errorf("assembled TeX missing content:\n%s", tex)
			}
			if placeholderRe.MatchString(tex) {
				t.Errorf("unresolved placeholder in TeX:\n%s", tex)
			}
		})
	}
}

func TestConvert_HighlightedCode_Integration(t *testing.T) {
	requireToolchain(t)

	md := "# Python\n\n==Remember== the walrus:\n\n" +
		"```python\nif (n := len(a)) == 10:\n    print(f\"{n} items\")  # comment\n```\n\n" +
		"Inline `x == y`{.python} works too.\n"

	for _, name := range BuiltinSkeletons() {
		t.Run(name, func(t *testing.T) {
			conv, err := NewConverter(WithTimeout(integrationTimeout), WithSkeleton(name))
			if err != nil {
				t.Fatal(err)
			}
			defer func() { _ = conv.Close() }()

			ctx, cancel := context.WithTimeout(context.Background(), integrationTimeout)
			defer cancel()

			res, err := conv.Convert(ctx, Input{Markdown: md})
			if err != nil {
				var failure *ConversionFailure
				if errors.As(err, &failure) {
					t.Fatalf("Convert() error = %v\nlog:\n%s", err, failure.Log)
				}
				t.Fatalf("Convert() error = %v", err)
			}
			if !bytes.HasPrefix(res.PDF, []byte("%PDF-")) {
				t.Errorf("output is not a PDF: %q", res.PDF[:min(len(res.PDF), 16)])
			}
			tex := string(res.TeX)
			if !strings.Contains(tex, `\begin{Shaded}`) {
				t.Errorf("pandoc did not emit a highlighted block:\n%s", tex)
			}
			if !strings.Contains(tex, "==") {
				t.Error("== inside code must reach pandoc untouched")
			}
		})
	}
}

func TestConvert_TeXError_Integration(t *testing.T) {
	requireToolchain(t)

	conv, err := NewConverter(WithTimeout(integrationTimeout))
	if err != nil {
		t.Fatal(err)
	}

	_, err = conv.Convert(context.Background(), Input{Markdown: "```{=latex}\n\\undefinedmacro\n```\n"})
	if err == nil {
		t.Fatal("expected a conversion failure")
	}
	var failure *ConversionFailure
	if !errors.As(err, &failure) {
		t.Fatalf("error = %T %v, want *ConversionFailure", err, err)
	}
	if failure.Stage != "pdflatex" || !strings.Contains(failure.Log, "Undefined control sequence") {
		t.Errorf("failure = stage %q, log tail %q", failure.Stage, failure.Tail(5))
	}
}
