package pipeline

import (
	"context"
	"regexp"
	"strings"
)

// Precompiled regex patterns for performance.
var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Compress multiple blank lines to max 2
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)

	// Highlight syntax ==text==
	highlightPattern = regexp.MustCompile(`==([^=\n]+?)==`)
)

// MarkdownPreprocessor defines the contract for markdown preprocessing.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// PandocPreprocessor applies transformations before pandoc conversion.
type PandocPreprocessor struct{}

// PreprocessMarkdown applies all transformations to prepare Markdown for conversion.
func (p *PandocPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}

	content = Normalize(content)
	content = ConvertHighlights(content)
	return content
}

// Normalize converts \r\n and \r to \n and limits consecutive blank lines to 2.
func Normalize(content string) string {
	content = crlfOrCR.ReplaceAllString(content, "\n")
	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}

// ConvertHighlights rewrites ==text== as a pandoc span with the mark class,
// which the LaTeX writer emits as \hl{text} (soul package). Inline code and
// code blocks are left as written.
func ConvertHighlights(content string) string {
	if !strings.Contains(content, "==") {
		return content
	}
	code := Scan(content).Code

	var b strings.Builder
	prev, pos := 0, 0
	for pos < len(content) {
		loc := highlightPattern.FindStringSubmatchIndex(content[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if sp, ok := Overlapping(code, start, start+2); ok {
			pos = sp.End
			continue
		}
		if _, ok := Overlapping(code, end-2, end); ok {
			pos = start + 1
			continue
		}
		b.WriteString(content[prev:start])
		b.WriteByte('[')
		b.WriteString(content[pos+loc[2] : pos+loc[3]])
		b.WriteString("]{.mark}")
		prev, pos = end, end
	}
	if prev == 0 {
		return content
	}
	b.WriteString(content[prev:])
	return b.String()
}

// Compile-time interface check.
var _ MarkdownPreprocessor = (*PandocPreprocessor)(nil)
