package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/alnah/go-cheatmark"
	"github.com/alnah/go-cheatmark/internal/config"
	"github.com/alnah/go-cheatmark/internal/fileutil"
)

// runConvert converts one markdown file or every markdown file under a
// directory. Files are converted in parallel through a converter pool.
func runConvert(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if !flags.common.quiet {
		warnUnknownEnvVars(env.Stderr)
	}
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common.config, loadEnvConfig())
	if err != nil {
		return err
	}
	mergeTemplateFlags(flags.template, cfg)
	mergeToolchainFlags(flags.toolchain, cfg)
	mergeAssetFlags(flags.assets, cfg)
	mergeCacheFlags(flags.cache, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	tmpl := templateConfig(cfg)
	if err := tmpl.Validate(); err != nil {
		return err
	}

	inputPath, err := resolveInputPath(positional)
	if err != nil {
		return err
	}
	outputDir := flags.output
	if outputDir == "" {
		outputDir = cfg.Output.DefaultDir
	}
	ext := pdfExt
	if flags.texOnly {
		ext = texExt
	}

	files, err := discoverFiles(inputPath, outputDir, ext)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no markdown files found in %s", ErrNoInput, inputPath)
	}

	workers := flags.workers
	if workers == 0 {
		workers = cfg.Server.Workers
	}
	size := min(cheatmark.ResolvePoolSize(workers), len(files))

	logger, err := newLogger(env.Stderr, cfg, flags.common.verbose)
	if err != nil {
		return err
	}
	pool, closeAll, err := openPool(ctx, cfg, logger, size, env)
	if err != nil {
		return err
	}
	defer closeAll()

	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Pool size: %d\n", pool.Size())
	}

	results := convertBatch(ctx, pool, files, &batchParams{template: tmpl, texOnly: flags.texOnly})
	if failed := printResults(results, flags.common.quiet, flags.common.verbose, env); failed > 0 {
		return fmt.Errorf("%d conversion(s) failed: %w", failed, firstError(results))
	}
	return nil
}

// runRender writes the assembled LaTeX for one markdown file to stdout or
// to --output, without running pdflatex.
func runRender(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseRenderFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common.config, loadEnvConfig())
	if err != nil {
		return err
	}
	mergeTemplateFlags(flags.template, cfg)
	mergeToolchainFlags(flags.toolchain, cfg)
	mergeAssetFlags(flags.assets, cfg)
	cfg.Cache.Backend = "none"
	if err := cfg.Validate(); err != nil {
		return err
	}

	tmpl := templateConfig(cfg)
	if err := tmpl.Validate(); err != nil {
		return err
	}

	inputPath, err := resolveInputPath(positional)
	if err != nil {
		return err
	}
	if err := validateMarkdownExtension(inputPath); err != nil {
		return err
	}
	content, err := os.ReadFile(inputPath) // #nosec G304 -- user-provided path
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadMarkdown, err)
	}

	logger, err := newLogger(env.Stderr, cfg, flags.common.verbose)
	if err != nil {
		return err
	}
	pool, closeAll, err := openPool(ctx, cfg, logger, 1, env)
	if err != nil {
		return err
	}
	defer closeAll()

	res, err := pool.Convert(ctx, cheatmark.Input{
		Markdown:  string(content),
		SourceDir: filepath.Dir(inputPath),
		Config:    tmpl,
		TeXOnly:   true,
	})
	if err != nil {
		return err
	}

	if flags.output == "" {
		_, err = env.Stdout.Write(res.TeX)
		return err
	}
	if err := fileutil.WriteFile(flags.output, res.TeX, filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n", flags.output)
	}
	return nil
}

// openPool opens the cache, builds converter options from cfg and creates
// a pool of the given size. closeAll releases both.
func openPool(ctx context.Context, cfg *config.Config, logger *log.Logger, size int, env *Environment) (Pool, func(), error) {
	opts, err := converterOptions(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	c, ttl, err := openCache(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	opts = append(opts, cheatmark.WithCache(c, ttl))

	pool, err := env.NewPool(size, opts...)
	if err != nil {
		_ = c.Close()
		return nil, nil, err
	}

	closeAll := func() {
		if err := pool.Close(); err != nil {
			logger.Warn("closing pool", "err", err)
		}
		if err := c.Close(); err != nil {
			logger.Warn("closing cache", "err", err)
		}
	}
	return pool, closeAll, nil
}

// resolveInputPath returns the single positional input.
func resolveInputPath(args []string) (string, error) {
	switch len(args) {
	case 0:
		return "", ErrNoInput
	case 1:
		return args[0], nil
	}
	return "", fmt.Errorf("%w: expected one input, got %d", ErrUsage, len(args))
}
