package pipeline

import (
	"bytes"
	"slices"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// diagramLanguages are the fenced code block languages rendered as DOT.
var diagramLanguages = map[string]bool{
	"dot":      true,
	"graphviz": true,
}

// Block is a fenced diagram block. Start and End delimit the whole block in
// the source, fences included, so that src[Start:End] can be replaced.
// Prefix is the text before the opening fence on its line: indentation,
// blockquote markers or a list marker.
type Block struct {
	Language string
	Source   string
	Prefix   string
	Start    int
	End      int
}

// Span is a byte range [Start, End) of the source.
type Span struct {
	Start int
	End   int
}

// Document is what Scan found in a Markdown source.
type Document struct {
	Images   []string // image destinations in document order, as written
	Diagrams []Block  // in document order, non-overlapping
	Code     []Span   // code span and code block contents, sorted, non-overlapping
}

// Scan parses markdown with goldmark and collects image destinations,
// DOT diagram blocks and the ranges holding code.
func Scan(markdown string) Document {
	src := []byte(markdown)
	root := goldmark.DefaultParser().Parse(text.NewReader(src))

	var doc Document
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Image:
			doc.Images = append(doc.Images, string(node.Destination))
		case *ast.CodeSpan:
			doc.Code = appendCodeSpan(doc.Code, node)
			return ast.WalkSkipChildren, nil
		case *ast.CodeBlock:
			doc.Code = appendLines(doc.Code, node.Lines())
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock:
			doc.Code = appendLines(doc.Code, node.Lines())
			lang := strings.ToLower(string(node.Language(src)))
			if !diagramLanguages[lang] {
				return ast.WalkSkipChildren, nil
			}
			if block, ok := fencedBlock(src, node, lang); ok {
				doc.Diagrams = append(doc.Diagrams, block)
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	slices.SortFunc(doc.Code, func(a, b Span) int { return a.Start - b.Start })
	return doc
}

// appendLines records the range covered by a code block's content lines.
func appendLines(spans []Span, lines *text.Segments) []Span {
	if lines.Len() == 0 {
		return spans
	}
	return append(spans, Span{Start: lines.At(0).Start, End: lines.At(lines.Len() - 1).Stop})
}

// appendCodeSpan records the range between an inline code span's backticks.
func appendCodeSpan(spans []Span, node *ast.CodeSpan) []Span {
	sp := Span{Start: -1}
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		t, ok := c.(*ast.Text)
		if !ok {
			continue
		}
		if sp.Start < 0 {
			sp.Start = t.Segment.Start
		}
		sp.End = t.Segment.Stop
	}
	if sp.Start < 0 || sp.End <= sp.Start {
		return spans
	}
	return append(spans, sp)
}

// Overlapping returns the first span in sorted spans that intersects
// [start, end).
func Overlapping(spans []Span, start, end int) (Span, bool) {
	i := sort.Search(len(spans), func(i int) bool { return spans[i].End > start })
	if i < len(spans) && spans[i].Start < end {
		return spans[i], true
	}
	return Span{}, false
}

// fencedBlock recovers the byte range of a fenced code block. goldmark only
// records the info string and the content lines, so the fences are found
// by scanning outward from them.
func fencedBlock(src []byte, node *ast.FencedCodeBlock, lang string) (Block, bool) {
	if node.Info == nil {
		return Block{}, false
	}

	start := node.Info.Segment.Start
	for start > 0 && src[start-1] != '\n' {
		start--
	}
	prefix := fencePrefix(src[start:node.Info.Segment.Start])
	_, depth := stripContainer(prefix)

	var content bytes.Buffer
	lines := node.Lines()
	end := lineEnd(src, node.Info.Segment.Stop)
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		content.Write(seg.Value(src))
		end = seg.Stop
	}
	// Content lines end at their newline, except a last line at EOF.
	if end > 0 && end < len(src) && src[end-1] != '\n' {
		end = lineEnd(src, end)
	}

	if isClosingFence(src[end:lineEnd(src, end)], depth) {
		end = lineEnd(src, end)
	}

	return Block{Language: lang, Source: content.String(), Prefix: string(prefix), Start: start, End: end}, true
}

// fencePrefix cuts the fence and the spaces before the info string off
// the end of the opening line.
func fencePrefix(line []byte) []byte {
	i := len(line)
	for i > 0 && (line[i-1] == ' ' || line[i-1] == '\t') {
		i--
	}
	for i > 0 && (line[i-1] == '`' || line[i-1] == '~') {
		i--
	}
	return line[:i]
}

// stripContainer removes leading whitespace and blockquote markers and
// reports how many markers there were.
func stripContainer(line []byte) ([]byte, int) {
	depth := 0
	for len(line) > 0 {
		switch line[0] {
		case '>':
			depth++
		case ' ', '\t':
		default:
			return line, depth
		}
		line = line[1:]
	}
	return line, depth
}

// lineEnd returns the index just past the newline at or after i.
func lineEnd(src []byte, i int) int {
	if i >= len(src) {
		return len(src)
	}
	if j := bytes.IndexByte(src[i:], '\n'); j >= 0 {
		return i + j + 1
	}
	return len(src)
}

// isClosingFence reports whether line closes a fence opened at blockquote
// depth quoteDepth.
func isClosingFence(line []byte, quoteDepth int) bool {
	rest, depth := stripContainer(line)
	if depth != quoteDepth {
		return false
	}
	return bytes.HasPrefix(rest, []byte("```")) || bytes.HasPrefix(rest, []byte("~~~"))
}
