package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-cheatmark/internal/fileutil"
	"github.com/alnah/go-cheatmark/internal/logging"
	"github.com/alnah/go-cheatmark/internal/yamlutil"
)

// AppName names the user config directory (~/.config/cheatmark).
const AppName = "cheatmark"

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxPathLength        = 4096 // filesystem paths and executables
	MaxLengthLength      = 20   // TeX lengths: "1mm", "0.25in"
	MaxOrientationLength = 10   // "portrait", "landscape"
	MaxNameLength        = 64   // skeleton set names
	MaxAddrLength        = 255  // host:port
	MaxSecretLength      = 512  // redis password
	MaxFilters           = 10
	MaxWorkers           = 64
)

// Config holds all configuration for cheatmark.
// Zero values mean "use the built-in default".
type Config struct {
	Template  TemplateConfig  `yaml:"template"`
	Toolchain ToolchainConfig `yaml:"toolchain"`
	Assets    AssetsConfig    `yaml:"assets"`
	Output    OutputConfig    `yaml:"output"`
	Server    ServerConfig    `yaml:"server"`
	Cache     CacheConfig     `yaml:"cache"`
	Log       LogConfig       `yaml:"log"`
}

// TemplateConfig holds default values for the skeleton variables.
type TemplateConfig struct {
	Orientation string  `yaml:"orientation"` // "portrait", "landscape"
	FontSize    float64 `yaml:"fontSize"`    // points
	LineSpacing float64 `yaml:"lineSpacing"` // points
	ColumnNum   int     `yaml:"columnNum"`   // 1 disables multi-column layout
	ColumnSep   string  `yaml:"columnSep"`   // TeX length
	UpDown      string  `yaml:"upDown"`      // top/bottom margin, TeX length
	LeftRight   string  `yaml:"leftRight"`   // left/right margin, TeX length
}

// ToolchainConfig locates and tunes the external tools.
type ToolchainConfig struct {
	Pandoc   string   `yaml:"pandoc"`   // executable (default: pandoc in PATH)
	PDFLaTeX string   `yaml:"pdflatex"` // executable (default: pdflatex in PATH)
	Filters  []string `yaml:"filters"`  // pandoc --filter programs, in order
	Passes   int      `yaml:"passes"`   // pdflatex runs, 1-5 (default: 1)
	Lenient  bool     `yaml:"lenient"`  // keep a PDF produced despite TeX errors
	Timeout  string   `yaml:"timeout"`  // Go duration (default: 30s)
}

// AssetsConfig defines skeleton loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded skeletons
	Skeleton string `yaml:"skeleton"` // Skeleton set name (default: "default")
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Empty = same as source
}

// ServerConfig defines the HTTP service.
type ServerConfig struct {
	Addr    string `yaml:"addr"`    // listen address (default: ":8000")
	DataDir string `yaml:"dataDir"` // directory with <name>.md sources and outputs
	Workers int    `yaml:"workers"` // concurrent conversions (0 = auto)
}

// CacheConfig selects the artifact cache.
type CacheConfig struct {
	Backend  string `yaml:"backend"`  // "none", "file", "redis"
	Dir      string `yaml:"dir"`      // file backend directory
	Addr     string `yaml:"addr"`     // redis host:port
	Password string `yaml:"password"` // redis password
	DB       int    `yaml:"db"`       // redis database
	TTL      string `yaml:"ttl"`      // Go duration, empty = no expiry
}

// LogConfig defines logger output.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json, logfmt
}

// Validate checks field lengths, enums and ranges.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := c.Template.validate(); err != nil {
		return err
	}
	if err := c.Toolchain.validate(); err != nil {
		return err
	}

	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("assets.skeleton", c.Assets.Skeleton, MaxNameLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}

	if err := validateFieldLength("server.addr", c.Server.Addr, MaxAddrLength); err != nil {
		return err
	}
	if err := validateFieldLength("server.dataDir", c.Server.DataDir, MaxPathLength); err != nil {
		return err
	}
	if c.Server.Workers < 0 || c.Server.Workers > MaxWorkers {
		return fmt.Errorf("%w: server.workers: must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Server.Workers)
	}

	if err := c.Cache.validate(); err != nil {
		return err
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalidValue, err)
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		return fmt.Errorf("%w: log.format: %v", ErrInvalidValue, err)
	}

	return nil
}

func (t *TemplateConfig) validate() error {
	if err := validateFieldLength("template.orientation", t.Orientation, MaxOrientationLength); err != nil {
		return err
	}
	if t.Orientation != "" {
		switch strings.ToLower(t.Orientation) {
		case "portrait", "landscape":
			// valid
		default:
			return fmt.Errorf("%w: template.orientation: %q (must be portrait or landscape)", ErrInvalidValue, t.Orientation)
		}
	}
	if t.FontSize < 0 || t.FontSize > 100 {
		return fmt.Errorf("%w: template.fontSize: must be between 0 and 100, got %g", ErrInvalidValue, t.FontSize)
	}
	if t.LineSpacing < 0 || t.LineSpacing > 100 {
		return fmt.Errorf("%w: template.lineSpacing: must be between 0 and 100, got %g", ErrInvalidValue, t.LineSpacing)
	}
	if t.ColumnNum < 0 || t.ColumnNum > 10 {
		return fmt.Errorf("%w: template.columnNum: must be between 1 and 10, got %d", ErrInvalidValue, t.ColumnNum)
	}
	for name, v := range map[string]string{
		"template.columnSep": t.ColumnSep,
		"template.upDown":    t.UpDown,
		"template.leftRight": t.LeftRight,
	} {
		if err := validateFieldLength(name, v, MaxLengthLength); err != nil {
			return err
		}
	}
	return nil
}

func (t *ToolchainConfig) validate() error {
	if err := validateFieldLength("toolchain.pandoc", t.Pandoc, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("toolchain.pdflatex", t.PDFLaTeX, MaxPathLength); err != nil {
		return err
	}
	if len(t.Filters) > MaxFilters {
		return fmt.Errorf("%w: toolchain.filters: at most %d filters, got %d", ErrInvalidValue, MaxFilters, len(t.Filters))
	}
	for i, f := range t.Filters {
		if strings.TrimSpace(f) == "" {
			return fmt.Errorf("%w: toolchain.filters[%d]: empty", ErrInvalidValue, i)
		}
		if err := validateFieldLength(fmt.Sprintf("toolchain.filters[%d]", i), f, MaxPathLength); err != nil {
			return err
		}
	}
	if t.Passes < 0 || t.Passes > 5 {
		return fmt.Errorf("%w: toolchain.passes: must be between 1 and 5, got %d", ErrInvalidValue, t.Passes)
	}
	if _, err := t.TimeoutDuration(); err != nil {
		return err
	}
	return nil
}

// TimeoutDuration parses Timeout. Empty returns 0 (use the default).
func (t *ToolchainConfig) TimeoutDuration() (time.Duration, error) {
	return parseDuration("toolchain.timeout", t.Timeout)
}

func (c *CacheConfig) validate() error {
	switch c.Backend {
	case "", "none", "file", "redis":
		// valid
	default:
		return fmt.Errorf("%w: cache.backend: %q (must be none, file or redis)", ErrInvalidValue, c.Backend)
	}
	if err := validateFieldLength("cache.dir", c.Dir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("cache.addr", c.Addr, MaxAddrLength); err != nil {
		return err
	}
	if err := validateFieldLength("cache.password", c.Password, MaxSecretLength); err != nil {
		return err
	}
	if c.Backend == "redis" && c.Addr == "" {
		return fmt.Errorf("%w: cache.addr: required for the redis backend", ErrInvalidValue)
	}
	if c.DB < 0 || c.DB > 15 {
		return fmt.Errorf("%w: cache.db: must be between 0 and 15, got %d", ErrInvalidValue, c.DB)
	}
	if _, err := c.TTLDuration(); err != nil {
		return err
	}
	return nil
}

// TTLDuration parses TTL. Empty returns 0 (no expiry).
func (c *CacheConfig) TTLDuration() (time.Duration, error) {
	return parseDuration("cache.ttl", c.TTL)
}

func parseDuration(field, s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidValue, field, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: %s: must not be negative, got %s", ErrInvalidValue, field, s)
	}
	return d, nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a configuration where everything falls back to the
// built-in defaults, caching is off and logs are at info level.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8000", DataDir: "data"},
		Cache:  CacheConfig{Backend: "none"},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields absent from the file keep their DefaultConfig value.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	f, err := os.Open(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	cfg := DefaultConfig()
	if err := yamlutil.ReadStrict(f, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, configPath, yamlutil.FormatError(err))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/cheatmark/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, AppName, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
