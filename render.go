package cheatmark

import (
	"strings"

	"github.com/alnah/go-cheatmark/internal/skeleton"
)

// RenderDocument assembles header ++ body ++ footer with cfg substituted into
// both skeletons. A nil cfg means DefaultTemplateConfig(). The body is not
// scanned for placeholders.
//
// Returns a *VariableError (ErrMissingVariable) or *ConditionalError
// (ErrUnterminatedConditional) when a skeleton cannot be rendered.
func RenderDocument(cfg *TemplateConfig, set *SkeletonSet, body string) (string, error) {
	if cfg == nil {
		cfg = DefaultTemplateConfig()
	}
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	f, err := parseFrame(set)
	if err != nil {
		return "", err
	}
	head, tail, err := f.execute(cfg)
	if err != nil {
		return "", err
	}
	return join(head, body, tail), nil
}

// frame is a parsed skeleton set.
type frame struct {
	header *skeleton.Skeleton
	footer *skeleton.Skeleton // nil when the set has no footer
}

func parseFrame(set *SkeletonSet) (*frame, error) {
	header, err := skeleton.Parse(set.Name+"/header.tex", set.Header)
	if err != nil {
		return nil, err
	}
	f := &frame{header: header}
	if set.Footer != "" {
		f.footer, err = skeleton.Parse(set.Name+"/footer.tex", set.Footer)
		if err != nil {
			return nil, err
		}
	}
	return f, nil
}

// execute renders the header and footer for cfg.
func (f *frame) execute(cfg *TemplateConfig) (head, tail string, err error) {
	vars, flags := cfg.Vars(), cfg.Flags()
	head, err = f.header.Execute(vars, flags)
	if err != nil {
		return "", "", err
	}
	if f.footer != nil {
		tail, err = f.footer.Execute(vars, flags)
		if err != nil {
			return "", "", err
		}
	}
	return head, tail, nil
}

func join(head, body, tail string) string {
	var b strings.Builder
	b.Grow(len(head) + len(body) + len(tail))
	b.WriteString(head)
	b.WriteString(body)
	b.WriteString(tail)
	return b.String()
}
