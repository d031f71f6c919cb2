package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-cheatmark/internal/config"
)

// envPrefix marks cheatmark environment variables.
const envPrefix = "CHEATMARK_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	// Toolchain
	ConfigPath string // CHEATMARK_CONFIG: config file name or path
	Pandoc     string // CHEATMARK_PANDOC: pandoc executable
	PDFLaTeX   string // CHEATMARK_PDFLATEX: pdflatex executable
	Timeout    string // CHEATMARK_TIMEOUT: per-document timeout

	// Assets and output
	AssetPath string // CHEATMARK_ASSET_PATH: skeleton directory
	Skeleton  string // CHEATMARK_SKELETON: skeleton set name
	OutputDir string // CHEATMARK_OUTPUT_DIR: default output directory
	Workers   int    // CHEATMARK_WORKERS: parallel conversions

	// Service
	Addr          string // CHEATMARK_ADDR: listen address
	DataDir       string // CHEATMARK_DATA_DIR: markdown sources for path requests
	CacheBackend  string // CHEATMARK_CACHE: none, file, redis
	CacheDir      string // CHEATMARK_CACHE_DIR: file cache directory
	RedisAddr     string // CHEATMARK_REDIS_ADDR: redis host:port
	RedisPassword string // CHEATMARK_REDIS_PASSWORD: redis password
	LogLevel      string // CHEATMARK_LOG_LEVEL: debug, info, warn, error
	LogFormat     string // CHEATMARK_LOG_FORMAT: text, json, logfmt
}

// knownEnvVars lists valid CHEATMARK_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"CHEATMARK_CONFIG":         true,
	"CHEATMARK_PANDOC":         true,
	"CHEATMARK_PDFLATEX":       true,
	"CHEATMARK_TIMEOUT":        true,
	"CHEATMARK_ASSET_PATH":     true,
	"CHEATMARK_SKELETON":       true,
	"CHEATMARK_OUTPUT_DIR":     true,
	"CHEATMARK_WORKERS":        true,
	"CHEATMARK_ADDR":           true,
	"CHEATMARK_DATA_DIR":       true,
	"CHEATMARK_CACHE":          true,
	"CHEATMARK_CACHE_DIR":      true,
	"CHEATMARK_REDIS_ADDR":     true,
	"CHEATMARK_REDIS_PASSWORD": true,
	"CHEATMARK_LOG_LEVEL":      true,
	"CHEATMARK_LOG_FORMAT":     true,
	"CHEATMARK_CONTAINER":      true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed timeouts and worker counts are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:    os.Getenv("CHEATMARK_CONFIG"),
		Pandoc:        os.Getenv("CHEATMARK_PANDOC"),
		PDFLaTeX:      os.Getenv("CHEATMARK_PDFLATEX"),
		AssetPath:     os.Getenv("CHEATMARK_ASSET_PATH"),
		Skeleton:      os.Getenv("CHEATMARK_SKELETON"),
		OutputDir:     os.Getenv("CHEATMARK_OUTPUT_DIR"),
		Addr:          os.Getenv("CHEATMARK_ADDR"),
		DataDir:       os.Getenv("CHEATMARK_DATA_DIR"),
		CacheBackend:  os.Getenv("CHEATMARK_CACHE"),
		CacheDir:      os.Getenv("CHEATMARK_CACHE_DIR"),
		RedisAddr:     os.Getenv("CHEATMARK_REDIS_ADDR"),
		RedisPassword: os.Getenv("CHEATMARK_REDIS_PASSWORD"),
		LogLevel:      os.Getenv("CHEATMARK_LOG_LEVEL"),
		LogFormat:     os.Getenv("CHEATMARK_LOG_FORMAT"),
	}

	if timeout := os.Getenv("CHEATMARK_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = timeout
		}
	}

	if workers := os.Getenv("CHEATMARK_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized CHEATMARK_* variables.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig applies set environment variables over cfg.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via the merge functions).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	setString(&cfg.Toolchain.Pandoc, env.Pandoc)
	setString(&cfg.Toolchain.PDFLaTeX, env.PDFLaTeX)
	setString(&cfg.Toolchain.Timeout, env.Timeout)

	setString(&cfg.Assets.BasePath, env.AssetPath)
	setString(&cfg.Assets.Skeleton, env.Skeleton)
	setString(&cfg.Output.DefaultDir, env.OutputDir)
	if env.Workers > 0 {
		cfg.Server.Workers = env.Workers
	}

	setString(&cfg.Server.Addr, env.Addr)
	setString(&cfg.Server.DataDir, env.DataDir)
	setString(&cfg.Cache.Backend, env.CacheBackend)
	setString(&cfg.Cache.Dir, env.CacheDir)
	setString(&cfg.Cache.Addr, env.RedisAddr)
	setString(&cfg.Cache.Password, env.RedisPassword)
	setString(&cfg.Log.Level, env.LogLevel)
	setString(&cfg.Log.Format, env.LogFormat)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
