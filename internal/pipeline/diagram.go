package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"
)

// ErrDiagramRender indicates a diagram block could not be rendered.
var ErrDiagramRender = errors.New("diagram render failed")

// Asset is a generated file the document references by Name.
type Asset struct {
	Name string
	Data []byte
}

// DiagramRenderer renders DOT source to PNG bytes.
type DiagramRenderer interface {
	RenderPNG(ctx context.Context, dot []byte) ([]byte, error)
}

// GraphvizRenderer renders DOT with the embedded Graphviz engine.
type GraphvizRenderer struct{}

// RenderPNG parses dot and renders it as PNG. A fresh engine is created per
// call; instances are not safe for concurrent use.
func (r *GraphvizRenderer) RenderPNG(ctx context.Context, dot []byte) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer func() { _ = gv.Close() }()

	g, err := graphviz.ParseBytes(dot)
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer func() { _ = g.Close() }()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// DiagramName returns the asset name of the n-th diagram, counting from 1.
func DiagramName(n int) string {
	return fmt.Sprintf("diagram-%d.png", n)
}

// RenderDiagrams replaces every DOT block in markdown with an image
// reference to a rendered PNG asset. The reference keeps the block's
// container prefix, so it stays inside its list item or blockquote. Markdown without diagrams is returned
// unchanged with no assets.
func RenderDiagrams(ctx context.Context, markdown string, renderer DiagramRenderer) (string, []Asset, error) {
	doc := Scan(markdown)
	if len(doc.Diagrams) == 0 {
		return markdown, nil, nil
	}

	var b strings.Builder
	b.Grow(len(markdown))
	assets := make([]Asset, 0, len(doc.Diagrams))
	prev := 0
	for i, block := range doc.Diagrams {
		if err := ctx.Err(); err != nil {
			return "", nil, err
		}
		png, err := renderer.RenderPNG(ctx, []byte(block.Source))
		if err != nil {
			return "", nil, fmt.Errorf("%w: block %d: %v", ErrDiagramRender, i+1, err)
		}
		name := DiagramName(i + 1)
		assets = append(assets, Asset{Name: name, Data: png})

		b.WriteString(markdown[prev:block.Start])
		fmt.Fprintf(&b, "%s![](%s)\n", block.Prefix, name)
		prev = block.End
	}
	b.WriteString(markdown[prev:])

	return b.String(), assets, nil
}

// Compile-time interface check.
var _ DiagramRenderer = (*GraphvizRenderer)(nil)
