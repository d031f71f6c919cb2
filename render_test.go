package cheatmark

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRenderDocument(t *testing.T) {
	t.Parallel()

	header := "\\small\n$if_multicol_start\n\\begin{multicols}{$columnNum}\n$if_multicol_end"
	footer := "$if_multicol_start\n\\end{multicols}\n$if_multicol_end\\end{document}\n"
	set := NewSkeletonSet("test", header, footer)

	single := DefaultTemplateConfig()
	single.ColumnNum = 1
	double := DefaultTemplateConfig()
	double.ColumnNum = 2

	tests := []struct {
		name string
		cfg  *TemplateConfig
		body string
		want string
	}{
		{
			name: "multicol false removes region and markers",
			cfg:  single,
			body: "BODY\n",
			want: "\\small\nBODY\n\\end{document}\n",
		},
		{
			name: "multicol true keeps region",
			cfg:  double,
			body: "BODY\n",
			want: "\\small\n\n\\begin{multicols}{2}\nBODY\n\n\\end{multicols}\n\\end{document}\n",
		},
		{
			name: "nil config uses defaults",
			cfg:  nil,
			body: "",
			want: "\\small\n\n\\begin{multicols}{3}\n\n\\end{multicols}\n\\end{document}\n",
		},
		{
			name: "body is not scanned",
			cfg:  single,
			body: "$x = $fontSize$ and $if_multicol_start\n",
			want: "\\small\n$x = $fontSize$ and $if_multicol_start\n\\end{document}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := RenderDocument(tt.cfg, set, tt.body)
			if err != nil {
				t.Fatalf("RenderDocument() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("RenderDocument() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRenderDocument_HeaderOnly(t *testing.T) {
	t.Parallel()

	set := NewSkeletonSet("test", "\\small\n$if_multicol_start\n\\begin{multicols}{2}\n$if_multicol_end", "")
	cfg := DefaultTemplateConfig()
	cfg.ColumnNum = 1

	got, err := RenderDocument(cfg, set, "")
	if err != nil {
		t.Fatalf("RenderDocument() error = %v", err)
	}
	if got != "\\small\n" {
		t.Errorf("RenderDocument() = %q, want %q", got, "\\small\n")
	}
}

func TestRenderDocument_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     *TemplateConfig
		set     *SkeletonSet
		wantErr error
	}{
		{
			name:    "unknown placeholder",
			set:     NewSkeletonSet("t", "\\fontsize{$fontSize}{$baselineskip}", ""),
			wantErr: ErrMissingVariable,
		},
		{
			name:    "unknown placeholder in footer",
			set:     NewSkeletonSet("t", "ok", "$closing"),
			wantErr: ErrMissingVariable,
		},
		{
			name:    "unterminated header block",
			set:     NewSkeletonSet("t", "$if_multicol_start", ""),
			wantErr: ErrUnterminatedConditional,
		},
		{
			name:    "stray end in footer",
			set:     NewSkeletonSet("t", "ok", "$if_multicol_end"),
			wantErr: ErrUnterminatedConditional,
		},
		{
			name:    "invalid config",
			cfg:     &TemplateConfig{Orientation: "landscape"},
			set:     NewSkeletonSet("t", "ok", ""),
			wantErr: ErrInvalidFontSize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := RenderDocument(tt.cfg, tt.set, "body")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("RenderDocument() error = %v, want %v", err, tt.wantErr)
			}
			if got != "" {
				t.Errorf("RenderDocument() = %q, want no partial output", got)
			}
		})
	}
}

func TestRenderDocument_EmbeddedDefault(t *testing.T) {
	t.Parallel()

	loader, err := NewAssetLoader("")
	if err != nil {
		t.Fatal(err)
	}
	set, err := loader.LoadSkeletonSet(DefaultSkeleton)
	if err != nil {
		t.Fatal(err)
	}

	got, err := RenderDocument(nil, set, "BODY")
	if err != nil {
		t.Fatalf("RenderDocument() error = %v", err)
	}
	if loc := placeholderRe.FindStringIndex(got); loc != nil {
		t.Errorf("unresolved placeholder at %d", loc[0])
	}
	if strings.Contains(got, "if_multicol") {
		t.Error("conditional markers should not survive rendering")
	}
	head, tail, ok := strings.Cut(got, "BODY")
	if !ok {
		t.Fatal("body missing")
	}
	if !strings.Contains(head, "\\begin{multicols*}{3}") || !strings.Contains(tail, "\\end{multicols*}") {
		t.Error("multicols environment should open in the header and close in the footer")
	}
}
