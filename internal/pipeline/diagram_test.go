package pipeline

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// fakeRenderer returns "png:" + source, or err.
type fakeRenderer struct {
	err   error
	calls int
}

func (f *fakeRenderer) RenderPNG(_ context.Context, dot []byte) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]byte("png:"), dot...), nil
}

// ---------------------------------------------------------------------------
// TestRenderDiagrams - Block replacement with generated assets
// ---------------------------------------------------------------------------

func TestRenderDiagrams(t *testing.T) {
	t.Parallel()

	md := "# T\n\n```dot\na->b\n```\n\ntext\n\n~~~graphviz\nc\n~~~\n"
	r := &fakeRenderer{}

	got, assets, err := RenderDiagrams(context.Background(), md, r)
	if err != nil {
		t.Fatalf("RenderDiagrams() error = %v", err)
	}

	want := "# T\n\n![](diagram-1.png)\n\ntext\n\n![](diagram-2.png)\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("markdown mismatch (-want +got):\n%s", diff)
	}
	wantAssets := []Asset{
		{Name: "diagram-1.png", Data: []byte("png:a->b\n")},
		{Name: "diagram-2.png", Data: []byte("png:c\n")},
	}
	if diff := cmp.Diff(wantAssets, assets); diff != "" {
		t.Errorf("assets mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderDiagrams_Containers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		md   string
		want string
	}{
		{
			name: "blockquote",
			md:   "> quote\n>\n> ```dot\n> digraph{a->b}\n> ```\n> more\n",
			want: "> quote\n>\n> ![](diagram-1.png)\n> more\n",
		},
		{
			name: "list item",
			md:   "- item\n\n  ```dot\n  digraph{a->b}\n  ```\n- next\n",
			want: "- item\n\n  ![](diagram-1.png)\n- next\n",
		},
		{
			name: "fence on list marker line",
			md:   "- ```dot\n  a->b\n  ```\n- next\n",
			want: "- ![](diagram-1.png)\n- next\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, assets, err := RenderDiagrams(context.Background(), tt.md, &fakeRenderer{})
			if err != nil {
				t.Fatalf("RenderDiagrams() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("markdown mismatch (-want +got):\n%s", diff)
			}
			if len(assets) != 1 {
				t.Errorf("assets = %d, want 1", len(assets))
			}
		})
	}
}

func TestRenderDiagrams_NoDiagrams(t *testing.T) {
	t.Parallel()

	md := "# Plain\n\n```go\nx\n```\n"
	r := &fakeRenderer{}
	got, assets, err := RenderDiagrams(context.Background(), md, r)
	if err != nil {
		t.Fatal(err)
	}
	if got != md || assets != nil || r.calls != 0 {
		t.Errorf("RenderDiagrams() = %q, %v, calls=%d; want input unchanged", got, assets, r.calls)
	}
}

func TestRenderDiagrams_RenderError(t *testing.T) {
	t.Parallel()

	r := &fakeRenderer{err: errors.New("syntax error in line 1")}
	_, _, err := RenderDiagrams(context.Background(), "```dot\n{\n```\n", r)
	if !errors.Is(err, ErrDiagramRender) {
		t.Errorf("RenderDiagrams() error = %v, want ErrDiagramRender", err)
	}
}

func TestRenderDiagrams_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := RenderDiagrams(ctx, "```dot\na\n```\n", &fakeRenderer{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("RenderDiagrams() error = %v, want context.Canceled", err)
	}
}

func TestGraphvizRenderer_RenderPNG(t *testing.T) {
	t.Parallel()

	if testing.Short() {
		t.Skip("graphviz engine start-up is slow")
	}

	r := &GraphvizRenderer{}
	png, err := r.RenderPNG(context.Background(), []byte("digraph { a -> b }"))
	if err != nil {
		t.Fatalf("RenderPNG() error = %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Errorf("RenderPNG() output does not start with PNG signature: % x", png[:min(8, len(png))])
	}
}

func TestGraphvizRenderer_InvalidDOT(t *testing.T) {
	t.Parallel()

	if testing.Short() {
		t.Skip("graphviz engine start-up is slow")
	}

	r := &GraphvizRenderer{}
	if _, err := r.RenderPNG(context.Background(), []byte("digraph { a -> ")); err == nil {
		t.Error("RenderPNG() = nil error, want parse error")
	}
}
