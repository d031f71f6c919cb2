package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// ErrUsage wraps flag parsing failures.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// templateFlags overrides the skeleton variables. Zero values are unset.
type templateFlags struct {
	orientation string
	fontSize    float64
	lineSpacing float64
	columns     int
	columnSep   string
	upDown      string
	leftRight   string
}

// toolchainFlags locates and tunes pandoc and pdflatex.
type toolchainFlags struct {
	pandoc   string
	pdflatex string
	filters  []string
	passes   int
	lenient  bool
	timeout  string
}

// assetFlags selects the skeleton set.
type assetFlags struct {
	assetPath string
	skeleton  string
}

// cacheFlags selects the artifact cache.
type cacheFlags struct {
	backend string
	dir     string
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common    commonFlags
	output    string
	workers   int
	texOnly   bool
	template  templateFlags
	toolchain toolchainFlags
	assets    assetFlags
	cache     cacheFlags
}

// renderFlags holds flags for the render command.
type renderFlags struct {
	common    commonFlags
	output    string
	template  templateFlags
	toolchain toolchainFlags
	assets    assetFlags
}

// serveFlags holds flags for the serve command.
type serveFlags struct {
	common    commonFlags
	addr      string
	dataDir   string
	workers   int
	logFormat string
	toolchain toolchainFlags
	assets    assetFlags
	cache     cacheFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show timings and toolchain logs")
}

// addTemplateFlags adds skeleton variable flags to a FlagSet.
func addTemplateFlags(fs *flag.FlagSet, f *templateFlags) {
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.Float64Var(&f.fontSize, "font-size", 0, "body font size in points")
	fs.Float64Var(&f.lineSpacing, "line-spacing", 0, "baseline skip in points")
	fs.IntVar(&f.columns, "columns", 0, "number of columns (1 disables multicol)")
	fs.StringVar(&f.columnSep, "column-sep", "", "space between columns (TeX length)")
	fs.StringVar(&f.upDown, "margin-y", "", "top and bottom margin (TeX length)")
	fs.StringVar(&f.leftRight, "margin-x", "", "left and right margin (TeX length)")
}

// addToolchainFlags adds pandoc/pdflatex flags to a FlagSet.
func addToolchainFlags(fs *flag.FlagSet, f *toolchainFlags) {
	fs.StringVar(&f.pandoc, "pandoc", "", "pandoc executable")
	fs.StringVar(&f.pdflatex, "pdflatex", "", "pdflatex executable")
	fs.StringSliceVar(&f.filters, "filter", nil, "pandoc filter (repeatable)")
	fs.IntVar(&f.passes, "passes", 0, "pdflatex runs (1-5)")
	fs.BoolVar(&f.lenient, "lenient", false, "keep a PDF produced despite TeX errors")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-document timeout (e.g., 30s, 2m)")
}

// addAssetFlags adds skeleton selection flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
	fs.StringVarP(&f.skeleton, "skeleton", "s", "", "skeleton set name")
}

// addCacheFlags adds cache flags to a FlagSet.
func addCacheFlags(fs *flag.FlagSet, f *cacheFlags) {
	fs.StringVar(&f.backend, "cache", "", "artifact cache: none, file, redis")
	fs.StringVar(&f.dir, "cache-dir", "", "file cache directory")
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string, usage io.Writer) (*convertFlags, []string, error) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	f := &convertFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel conversions (0 = auto)")
	fs.BoolVar(&f.texOnly, "tex-only", false, "write the assembled .tex instead of a PDF")

	addCommonFlags(fs, &f.common)
	addTemplateFlags(fs, &f.template)
	addToolchainFlags(fs, &f.toolchain)
	addAssetFlags(fs, &f.assets)
	addCacheFlags(fs, &f.cache)

	fs.SetOutput(usage)
	fs.Usage = func() { printConvertUsage(usage) }

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseRenderFlags parses render command flags and returns positional args.
func parseRenderFlags(args []string, usage io.Writer) (*renderFlags, []string, error) {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	f := &renderFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output file (default: stdout)")

	addCommonFlags(fs, &f.common)
	addTemplateFlags(fs, &f.template)
	addToolchainFlags(fs, &f.toolchain)
	addAssetFlags(fs, &f.assets)

	fs.SetOutput(usage)
	fs.Usage = func() { printRenderUsage(usage) }

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseServeFlags parses serve command flags.
func parseServeFlags(args []string, usage io.Writer) (*serveFlags, []string, error) {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	f := &serveFlags{}

	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (default: :8000)")
	fs.StringVarP(&f.dataDir, "data-dir", "d", "", "directory of markdown sources for path requests")
	fs.IntVarP(&f.workers, "workers", "w", 0, "concurrent conversions (0 = auto)")
	fs.StringVar(&f.logFormat, "log-format", "", "log format: text, json, logfmt")

	addCommonFlags(fs, &f.common)
	addToolchainFlags(fs, &f.toolchain)
	addAssetFlags(fs, &f.assets)
	addCacheFlags(fs, &f.cache)

	fs.SetOutput(usage)
	fs.Usage = func() { printServeUsage(usage) }

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parse runs fs.Parse, passing flag.ErrHelp through and wrapping other
// failures in ErrUsage.
func parse(fs *flag.FlagSet, args []string) error {
	err := fs.Parse(args)
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}
