package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alnah/go-cheatmark"
	"github.com/alnah/go-cheatmark/internal/server"
)

// runServe starts the HTTP service and blocks until ctx is canceled.
func runServe(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseServeFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: serve takes no arguments, got %q", ErrUsage, positional)
	}
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}
	warnUnknownEnvVars(env.Stderr)

	cfg, err := loadConfig(flags.common.config, loadEnvConfig())
	if err != nil {
		return err
	}
	setString(&cfg.Server.Addr, flags.addr)
	setString(&cfg.Server.DataDir, flags.dataDir)
	setString(&cfg.Log.Format, flags.logFormat)
	if flags.workers > 0 {
		cfg.Server.Workers = flags.workers
	}
	mergeToolchainFlags(flags.toolchain, cfg)
	mergeAssetFlags(flags.assets, cfg)
	mergeCacheFlags(flags.cache, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.Server.DataDir, dirPermissions); err != nil {
		return fmt.Errorf("%w: creating data directory: %v", ErrWriteOutput, err)
	}

	logger, err := newLogger(env.Stderr, cfg, flags.common.verbose)
	if err != nil {
		return err
	}
	pool, closeAll, err := openPool(ctx, cfg, logger, cheatmark.ResolvePoolSize(cfg.Server.Workers), env)
	if err != nil {
		return err
	}
	defer closeAll()

	logger.Info("starting cheatmark",
		"version", Version,
		"workers", pool.Size(),
		"data_dir", cfg.Server.DataDir,
		"cache", cfg.Cache.Backend,
	)

	srv := server.New(pool, server.Options{
		DataDir: cfg.Server.DataDir,
		Logger:  logger,
	})
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}
