package cheatmark

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/alnah/go-cheatmark/internal/skeleton"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// TemplateConfig defaults.
const (
	DefaultOrientation = OrientationLandscape
	DefaultFontSize    = 5.0
	DefaultLineSpacing = 5.0
	DefaultColumnNum   = 3
	DefaultLength      = "1mm"
)

// TemplateConfig bounds.
const (
	MaxFontSize  = 100.0
	MaxColumnNum = 10
)

// Skeleton variable and flag names.
const (
	VarOrientation = "orientation"
	VarFontSize    = "fontSize"
	VarLineSpacing = "lineSpacing"
	VarColumnNum   = "columnNum"
	VarColumnSep   = "columnSep"
	VarUpDown      = "upDown"
	VarLeftRight   = "leftRight"

	FlagMulticol = "multicol"
)

// TemplateConfig holds the values substituted into a skeleton.
// Font size and line spacing are in points; lengths are LaTeX lengths
// passed verbatim (e.g. "1mm", "0.2in").
type TemplateConfig struct {
	Orientation string  `json:"orientation"`
	FontSize    float64 `json:"fontSize"`
	LineSpacing float64 `json:"lineSpacing"`
	ColumnNum   int     `json:"columnNum"`
	ColumnSep   string  `json:"columnSep"`
	UpDown      string  `json:"upDown"`
	LeftRight   string  `json:"leftRight"`
}

// DefaultTemplateConfig returns a dense three-column landscape layout.
func DefaultTemplateConfig() *TemplateConfig {
	return &TemplateConfig{
		Orientation: DefaultOrientation,
		FontSize:    DefaultFontSize,
		LineSpacing: DefaultLineSpacing,
		ColumnNum:   DefaultColumnNum,
		ColumnSep:   DefaultLength,
		UpDown:      DefaultLength,
		LeftRight:   DefaultLength,
	}
}

// Validate checks that the config can be substituted safely.
// Returns nil if t is nil (nil means use defaults).
// Does not mutate - uses case-insensitive comparison.
func (t *TemplateConfig) Validate() error {
	if t == nil {
		return nil
	}

	switch strings.ToLower(t.Orientation) {
	case OrientationPortrait, OrientationLandscape:
	default:
		return fmt.Errorf("%w: %q (must be portrait or landscape)", ErrInvalidOrientation, t.Orientation)
	}

	if t.FontSize <= 0 || t.FontSize > MaxFontSize {
		return fmt.Errorf("%w: %g (must be in (0, %g])", ErrInvalidFontSize, t.FontSize, MaxFontSize)
	}
	if t.LineSpacing <= 0 || t.LineSpacing > MaxFontSize {
		return fmt.Errorf("%w: %g (must be in (0, %g])", ErrInvalidLineSpacing, t.LineSpacing, MaxFontSize)
	}
	if t.ColumnNum < 1 || t.ColumnNum > MaxColumnNum {
		return fmt.Errorf("%w: %d (must be between 1 and %d)", ErrInvalidColumnNum, t.ColumnNum, MaxColumnNum)
	}

	lengths := []struct{ name, value string }{
		{VarColumnSep, t.ColumnSep},
		{VarUpDown, t.UpDown},
		{VarLeftRight, t.LeftRight},
	}
	for _, l := range lengths {
		if err := validateLength(l.name, l.value); err != nil {
			return err
		}
	}

	return nil
}

// validateLength rejects values that would break out of a LaTeX argument.
// Unit syntax is left to LaTeX.
func validateLength(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s cannot be empty", ErrInvalidLength, name)
	}
	if strings.ContainsAny(value, "\\{}$%\n\r") {
		return fmt.Errorf("%w: %s %q contains a reserved character", ErrInvalidLength, name, value)
	}
	return nil
}

// Vars lowers the config into skeleton variables.
func (t *TemplateConfig) Vars() skeleton.Vars {
	return skeleton.Vars{
		VarOrientation: strings.ToLower(t.Orientation),
		VarFontSize:    t.FontSize,
		VarLineSpacing: t.LineSpacing,
		VarColumnNum:   t.ColumnNum,
		VarColumnSep:   t.ColumnSep,
		VarUpDown:      t.UpDown,
		VarLeftRight:   t.LeftRight,
	}
}

// Flags derives the skeleton conditional flags.
func (t *TemplateConfig) Flags() skeleton.Flags {
	return skeleton.Flags{FlagMulticol: t.ColumnNum > 1}
}

// Input contains conversion parameters.
type Input struct {
	Markdown  string          // Markdown content (required)
	SourceDir string          // Directory for resolving relative image paths (optional)
	Config    *TemplateConfig // Layout (optional, nil = defaults)
	TeXOnly   bool            // Skip pdflatex and return only the assembled source
}

// ConvertResult holds the output of a conversion.
type ConvertResult struct {
	PDF    []byte // empty when Input.TeXOnly is set
	TeX    []byte // assembled document source
	Log    string // pdflatex warnings, or the tolerated error report in lenient mode
	Cached bool   // PDF served from the cache
}

// Cache stores compiled PDFs. Errors are treated as misses.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Close() error
}

// DiagramRenderer renders Graphviz DOT source to PNG.
type DiagramRenderer interface {
	RenderPNG(ctx context.Context, dot []byte) ([]byte, error)
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout      time.Duration
	skeletonName string
	skeletonSet  *SkeletonSet
	assetPath    string
	pandocPath   string
	pdflatexPath string
	filters      []string
	passes       int
	lenient      bool
	workDir      string
	cacheTTL     time.Duration
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// errNilOption is the panic value for options given a nil dependency.
var errNilOption = errors.New("cheatmark: option value cannot be nil")

// WithTimeout sets the timeout of a whole conversion.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("cheatmark: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithSkeleton selects a skeleton set by name (default "default").
func WithSkeleton(name string) Option {
	return func(c *Converter) {
		c.cfg.skeletonName = name
	}
}

// WithSkeletonSet uses the given header and footer directly, bypassing
// the asset loader.
func WithSkeletonSet(set *SkeletonSet) Option {
	return func(c *Converter) {
		c.cfg.skeletonSet = set
	}
}

// WithAssetPath loads skeleton sets from dir/skeletons/, falling back to
// the embedded sets.
func WithAssetPath(dir string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = dir
	}
}

// WithAssetLoader sets a custom skeleton loader.
// Takes precedence over WithAssetPath.
func WithAssetLoader(loader SkeletonLoader) Option {
	if loader == nil {
		panic(errNilOption)
	}
	return func(c *Converter) {
		c.publicLoader = loader
	}
}

// WithPandocPath sets the pandoc executable.
func WithPandocPath(path string) Option {
	return func(c *Converter) {
		c.cfg.pandocPath = path
	}
}

// WithPDFLaTeXPath sets the pdflatex executable.
func WithPDFLaTeXPath(path string) Option {
	return func(c *Converter) {
		c.cfg.pdflatexPath = path
	}
}

// WithFilters adds pandoc filters (e.g. "mermaid-filter"), run in order.
func WithFilters(filters ...string) Option {
	return func(c *Converter) {
		c.cfg.filters = append(c.cfg.filters, filters...)
	}
}

// WithPasses sets how many times pdflatex runs, clamped to 1..5.
// Multiple passes resolve cross-references.
func WithPasses(n int) Option {
	return func(c *Converter) {
		c.cfg.passes = n
	}
}

// WithLenient keeps the PDF when pdflatex reports errors but still writes
// one. The error report is returned in ConvertResult.Log.
func WithLenient(lenient bool) Option {
	return func(c *Converter) {
		c.cfg.lenient = lenient
	}
}

// WithWorkDir sets the parent of the per-conversion work directories
// (default os.TempDir()).
func WithWorkDir(dir string) Option {
	return func(c *Converter) {
		c.cfg.workDir = dir
	}
}

// WithCache stores compiled PDFs in cache for ttl (zero means no expiry).
// The converter does not close the cache.
func WithCache(cache Cache, ttl time.Duration) Option {
	if cache == nil {
		panic(errNilOption)
	}
	return func(c *Converter) {
		c.cache = cache
		c.cfg.cacheTTL = ttl
	}
}

// WithLogger sets the logger for stage timings and cache diagnostics.
// The default discards everything.
func WithLogger(logger *log.Logger) Option {
	if logger == nil {
		panic(errNilOption)
	}
	return func(c *Converter) {
		c.logger = logger
	}
}

// WithDiagramRenderer replaces the Graphviz renderer used for dot blocks.
func WithDiagramRenderer(r DiagramRenderer) Option {
	if r == nil {
		panic(errNilOption)
	}
	return func(c *Converter) {
		c.diagrams = r
	}
}
