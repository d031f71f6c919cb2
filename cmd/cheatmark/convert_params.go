package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/alnah/go-cheatmark"
	"github.com/alnah/go-cheatmark/internal/cache"
	"github.com/alnah/go-cheatmark/internal/config"
	"github.com/alnah/go-cheatmark/internal/logging"
)

// loadConfig resolves the config file (flag, then CHEATMARK_CONFIG), applies
// environment overrides and returns the result. No file means defaults.
func loadConfig(flagPath string, env *envConfig) (*config.Config, error) {
	name := flagPath
	if name == "" {
		name = env.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		var err error
		cfg, err = config.LoadConfig(name)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	applyEnvConfig(env, cfg)
	return cfg, nil
}

// mergeTemplateFlags applies set template flags over cfg.Template.
func mergeTemplateFlags(f templateFlags, cfg *config.Config) {
	setString(&cfg.Template.Orientation, f.orientation)
	if f.fontSize != 0 {
		cfg.Template.FontSize = f.fontSize
	}
	if f.lineSpacing != 0 {
		cfg.Template.LineSpacing = f.lineSpacing
	}
	if f.columns != 0 {
		cfg.Template.ColumnNum = f.columns
	}
	setString(&cfg.Template.ColumnSep, f.columnSep)
	setString(&cfg.Template.UpDown, f.upDown)
	setString(&cfg.Template.LeftRight, f.leftRight)
}

// mergeToolchainFlags applies set toolchain flags over cfg.Toolchain.
// Filters given on the command line replace the configured list.
func mergeToolchainFlags(f toolchainFlags, cfg *config.Config) {
	setString(&cfg.Toolchain.Pandoc, f.pandoc)
	setString(&cfg.Toolchain.PDFLaTeX, f.pdflatex)
	setString(&cfg.Toolchain.Timeout, f.timeout)
	if len(f.filters) > 0 {
		cfg.Toolchain.Filters = f.filters
	}
	if f.passes != 0 {
		cfg.Toolchain.Passes = f.passes
	}
	if f.lenient {
		cfg.Toolchain.Lenient = true
	}
}

func mergeAssetFlags(f assetFlags, cfg *config.Config) {
	setString(&cfg.Assets.BasePath, f.assetPath)
	setString(&cfg.Assets.Skeleton, f.skeleton)
}

func mergeCacheFlags(f cacheFlags, cfg *config.Config) {
	setString(&cfg.Cache.Backend, f.backend)
	setString(&cfg.Cache.Dir, f.dir)
}

// templateConfig returns the defaults overlaid with the set fields of cfg.Template.
func templateConfig(cfg *config.Config) *cheatmark.TemplateConfig {
	t := cheatmark.DefaultTemplateConfig()
	setString(&t.Orientation, cfg.Template.Orientation)
	if cfg.Template.FontSize != 0 {
		t.FontSize = cfg.Template.FontSize
	}
	if cfg.Template.LineSpacing != 0 {
		t.LineSpacing = cfg.Template.LineSpacing
	}
	if cfg.Template.ColumnNum != 0 {
		t.ColumnNum = cfg.Template.ColumnNum
	}
	setString(&t.ColumnSep, cfg.Template.ColumnSep)
	setString(&t.UpDown, cfg.Template.UpDown)
	setString(&t.LeftRight, cfg.Template.LeftRight)
	return t
}

// converterOptions translates cfg into converter options.
// cfg must already be validated.
func converterOptions(cfg *config.Config, logger *log.Logger) ([]cheatmark.Option, error) {
	timeout, err := cfg.Toolchain.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	opts := []cheatmark.Option{
		cheatmark.WithLogger(logger),
		cheatmark.WithLenient(cfg.Toolchain.Lenient),
	}
	if timeout > 0 {
		opts = append(opts, cheatmark.WithTimeout(timeout))
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, cheatmark.WithAssetPath(cfg.Assets.BasePath))
	}
	if cfg.Assets.Skeleton != "" {
		opts = append(opts, cheatmark.WithSkeleton(cfg.Assets.Skeleton))
	}
	if cfg.Toolchain.Pandoc != "" {
		opts = append(opts, cheatmark.WithPandocPath(cfg.Toolchain.Pandoc))
	}
	if cfg.Toolchain.PDFLaTeX != "" {
		opts = append(opts, cheatmark.WithPDFLaTeXPath(cfg.Toolchain.PDFLaTeX))
	}
	if len(cfg.Toolchain.Filters) > 0 {
		opts = append(opts, cheatmark.WithFilters(cfg.Toolchain.Filters...))
	}
	if cfg.Toolchain.Passes > 0 {
		opts = append(opts, cheatmark.WithPasses(cfg.Toolchain.Passes))
	}
	return opts, nil
}

// openCache opens the configured cache and returns it with its TTL.
func openCache(ctx context.Context, cfg *config.Config) (cache.Cache, time.Duration, error) {
	ttl, err := cfg.Cache.TTLDuration()
	if err != nil {
		return nil, 0, err
	}
	c, err := cache.Open(ctx, cache.Options{
		Backend: cfg.Cache.Backend,
		Dir:     cfg.Cache.Dir,
		Redis: cache.RedisOptions{
			Addr:     cfg.Cache.Addr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		},
	})
	if err != nil {
		return nil, 0, fmt.Errorf("opening cache: %w", err)
	}
	return c, ttl, nil
}

// newLogger builds the logger for cfg.Log. Verbose forces debug level.
func newLogger(w io.Writer, cfg *config.Config, verbose bool) (*log.Logger, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("%w: log level: %v", config.ErrInvalidValue, err)
	}
	if verbose {
		level = log.DebugLevel
	}
	formatter, err := logging.ParseFormat(cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	return logging.NewWithFormatter(w, level, formatter), nil
}
