package cheatmark

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/alnah/go-cheatmark/internal/assets"
	"github.com/alnah/go-cheatmark/internal/cache"
	"github.com/alnah/go-cheatmark/internal/logging"
	"github.com/alnah/go-cheatmark/internal/pipeline"
	"github.com/alnah/go-cheatmark/internal/toolchain"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.PandocPreprocessor)(nil)
	_ DiagramRenderer               = (*pipeline.GraphvizRenderer)(nil)
	_ Cache                         = (*cache.NullCache)(nil)
	_ Cache                         = (*cache.FileCache)(nil)
	_ Cache                         = (*cache.RedisCache)(nil)
)

// Converter orchestrates the markdown-to-PDF conversion pipeline.
// Create with NewConverter(), use Convert() for conversion, and Close() when done.
// A Converter is safe for concurrent use: each conversion gets its own work directory.
type Converter struct {
	cfg          converterConfig
	publicLoader SkeletonLoader // from WithAssetLoader
	frame        *frame
	preprocessor pipeline.MarkdownPreprocessor
	diagrams     DiagramRenderer
	pandoc       *toolchain.Pandoc
	pdflatex     *toolchain.PDFLaTeX
	cache        Cache
	logger       *log.Logger
}

// NewConverter creates a Converter with default configuration.
// Use options to customize behavior (e.g., WithTimeout, WithAssetPath, WithSkeleton).
// Returns error if the skeleton set cannot be loaded or parsed.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg:          converterConfig{timeout: defaultTimeout, skeletonName: DefaultSkeleton},
		preprocessor: &pipeline.PandocPreprocessor{},
		diagrams:     &pipeline.GraphvizRenderer{},
		cache:        cache.NewNullCache(),
		logger:       logging.Discard(),
	}

	for _, opt := range opts {
		opt(c)
	}

	set, err := c.loadSkeletonSet()
	if err != nil {
		return nil, err
	}
	c.frame, err = parseFrame(set)
	if err != nil {
		return nil, fmt.Errorf("parsing skeleton set %q: %w", set.Name, err)
	}

	c.pandoc = toolchain.NewPandoc(c.cfg.pandocPath, c.cfg.filters...)
	c.pdflatex = toolchain.NewPDFLaTeX(c.cfg.pdflatexPath)
	if c.cfg.passes > 0 {
		c.pdflatex.Passes = c.cfg.passes
	}
	c.pdflatex.Strict = !c.cfg.lenient

	return c, nil
}

// loadSkeletonSet resolves the configured set.
// Priority: WithSkeletonSet > WithAssetLoader > WithAssetPath > embedded.
func (c *Converter) loadSkeletonSet() (*SkeletonSet, error) {
	if c.cfg.skeletonSet != nil {
		if c.cfg.skeletonSet.Header == "" {
			return nil, fmt.Errorf("%w: %s", ErrIncompleteSkeletonSet, c.cfg.skeletonSet.Name)
		}
		return c.cfg.skeletonSet, nil
	}

	loader := c.publicLoader
	if loader == nil {
		resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		loader = &assetLoaderAdapter{resolver: resolver}
	}

	set, err := loader.LoadSkeletonSet(c.cfg.skeletonName)
	if err != nil {
		return nil, fmt.Errorf("loading skeleton set %q: %w", c.cfg.skeletonName, err)
	}
	return set, nil
}

// Convert runs the full pipeline and returns the result containing the
// assembled LaTeX source and the PDF.
// The context is used for cancellation; the converter timeout applies on top.
// If input.TeXOnly is true, pdflatex is skipped.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := c.validateInput(input); err != nil {
		return nil, err
	}
	cfg := input.Config
	if cfg == nil {
		cfg = DefaultTemplateConfig()
	}

	// Skeleton errors surface before any tool runs.
	head, tail, err := c.frame.execute(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.timeout)
	defer cancel()
	logger := logging.FromContext(ctx, c.logger)

	md := c.preprocessor.PreprocessMarkdown(ctx, input.Markdown)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	// Images are collected before diagram references are inserted.
	images, err := pipeline.CollectImages(pipeline.Scan(md), input.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("collecting images: %w", err)
	}

	stage := logging.StartStage(logger, "diagrams")
	md, diagrams, err := pipeline.RenderDiagrams(ctx, md, c.diagrams)
	if err != nil {
		return nil, err
	}
	stage.Done("count", len(diagrams))

	ws, err := toolchain.NewWorkspace(c.cfg.workDir)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := ws.Close(); cerr != nil {
			logger.Warn("removing work directory", "dir", ws.Dir(), "err", cerr)
		}
	}()

	for _, img := range images {
		if err := ws.CopyAsset(img.Path, img.Ref); err != nil {
			return nil, fmt.Errorf("copying image %q: %w", img.Ref, err)
		}
	}
	// Rendered diagrams win over source files with the same name.
	for _, d := range diagrams {
		if err := ws.AddAsset(d.Name, d.Data); err != nil {
			return nil, err
		}
	}

	stage = logging.StartStage(logger, toolchain.StagePandoc)
	body, err := c.pandoc.ToLaTeX(ctx, md, ws.Dir())
	if err != nil {
		return nil, err
	}
	stage.Done("bytes", len(body))

	tex := join(head, body, tail)
	res := &ConvertResult{TeX: []byte(tex)}
	if input.TeXOnly {
		return res, nil
	}

	key, err := c.cacheKey(ws, tex, diagrams, images)
	if err != nil {
		return nil, err
	}
	if pdf, ok := c.lookup(ctx, logger, key); ok {
		res.PDF = pdf
		res.Cached = true
		return res, nil
	}

	stage = logging.StartStage(logger, toolchain.StagePDFLaTeX)
	pdf, texLog, err := c.pdflatex.Compile(ctx, ws, tex)
	if err != nil {
		return nil, err
	}
	stage.Done("bytes", len(pdf))

	res.PDF = pdf
	res.Log = texLog
	// A tolerated error report means the PDF may be incomplete.
	if !toolchain.IsErrorReport(texLog) {
		c.store(ctx, logger, key, pdf)
	}
	return res, nil
}

// cacheKey hashes everything that shapes the PDF: the pdflatex settings,
// the source and each asset.
func (c *Converter) cacheKey(ws *toolchain.Workspace, tex string, diagrams []pipeline.Asset, images []pipeline.LocalImage) (string, error) {
	parts := make([][]byte, 0, 2+2*(len(diagrams)+len(images)))
	parts = append(parts, []byte(c.compileSettings()), []byte(tex))
	for _, d := range diagrams {
		parts = append(parts, []byte(d.Name), d.Data)
	}
	for _, img := range images {
		data, err := ws.ReadFile(img.Ref)
		if err != nil {
			return "", err
		}
		parts = append(parts, []byte(img.Ref), data)
	}
	return cache.Key(parts...), nil
}

// compileSettings describes the pdflatex invocation, e.g.
// "passes=2 -interaction=nonstopmode -file-line-error ...".
func (c *Converter) compileSettings() string {
	return "passes=" + strconv.Itoa(c.pdflatex.Passes) + " " + strings.Join(c.pdflatex.Args(), " ")
}

func (c *Converter) lookup(ctx context.Context, logger *log.Logger, key string) ([]byte, bool) {
	pdf, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache lookup failed", "err", err)
		return nil, false
	}
	if ok {
		logger.Debug("cache hit", "key", key)
	}
	return pdf, ok
}

func (c *Converter) store(ctx context.Context, logger *log.Logger, key string, pdf []byte) {
	if err := c.cache.Set(ctx, key, pdf, c.cfg.cacheTTL); err != nil {
		logger.Warn("cache store failed", "err", err)
	}
}

// Close releases converter resources. The cache given to WithCache is
// owned by the caller and left open.
func (c *Converter) Close() error {
	return nil
}

// validateInput checks that required fields are present and valid.
//
// This is a TRUST BOUNDARY for direct library users who build Input manually.
// CLI and HTTP users have their input validated earlier at config load or
// request decode time. Both paths converge here.
func (c *Converter) validateInput(input Input) error {
	if strings.TrimSpace(input.Markdown) == "" {
		return ErrEmptyMarkdown
	}
	return input.Config.Validate()
}

// IsTimeout reports whether err is a conversion that ran out of time.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
