// Package config loads settings for the image-vault-mcp server.
//
// Settings come from four layers, each overriding the one before:
//   - built-in defaults (Default)
//   - a YAML file named by --config or the IMAGE_VAULT_CONFIG environment
//     variable
//   - IMAGE_VAULT_* environment variables
//   - command-line flags, applied by the caller
//
// A missing config path is not an error: the server runs on defaults. A path
// that is given but cannot be read is.
package config

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/jmgilman/go/errors"
	"gopkg.in/yaml.v3"
)

// Environment variables consulted by Load.
const (
	EnvConfigPath  = "IMAGE_VAULT_CONFIG"
	EnvMaxMemoryMB = "IMAGE_VAULT_MAX_MEMORY_MB"
	EnvWorkers     = "IMAGE_VAULT_WORKERS"
	EnvLogLevel    = "IMAGE_VAULT_LOG_LEVEL"
)

// Config is the full server configuration.
type Config struct {
	// Cache sizes the image cache and its worker pool.
	Cache CacheConfig `yaml:"cache"`

	// Encoding tunes output encoders.
	Encoding EncodingConfig `yaml:"encoding"`

	// Log configures the stderr logger.
	Log LogConfig `yaml:"log"`
}

// CacheConfig configures the image cache.
type CacheConfig struct {
	// MaxMemoryMB is the memory budget in MiB.
	// Default: 100
	MaxMemoryMB int `yaml:"max_memory_mb"`

	// Workers is the size of the pixel worker pool. Zero uses one worker
	// per CPU.
	// Default: 0
	Workers int `yaml:"workers"`
}

// EncodingConfig configures output encoders.
type EncodingConfig struct {
	// JPEGQuality ranges 1-100.
	// Default: 90
	JPEGQuality int `yaml:"jpeg_quality"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	// Default: info
	Level string `yaml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Cache: CacheConfig{
			MaxMemoryMB: 100,
			Workers:     0,
		},
		Encoding: EncodingConfig{
			JPEGQuality: 90,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration from defaults, the config file and the
// environment.
//
// path is the value of --config. When empty, IMAGE_VAULT_CONFIG is
// consulted; when that is empty too, no file is read.
func Load(path string) (*Config, error) {
	return load(path, os.Getenv)
}

func load(path string, getenv func(string) string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = getenv(EnvConfigPath)
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads a single YAML file on top of the defaults. Environment
// variables are not applied.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.WithContext(
			errors.Wrap(err, errors.CodeInvalidConfig, "failed to read config file"), "path", path)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && err != io.EOF {
		return errors.WithContext(
			errors.Wrap(err, errors.CodeInvalidConfig, "failed to parse config file"), "path", path)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv(EnvMaxMemoryMB); v != "" {
		n, err := envInt(EnvMaxMemoryMB, v)
		if err != nil {
			return err
		}
		c.Cache.MaxMemoryMB = n
	}
	if v := getenv(EnvWorkers); v != "" {
		n, err := envInt(EnvWorkers, v)
		if err != nil {
			return err
		}
		c.Cache.Workers = n
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	return nil
}

func envInt(name, value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, errors.WithContext(
			errors.Wrapf(err, errors.CodeInvalidConfig, "%s must be an integer", name), "value", value)
	}
	return n, nil
}

// BudgetBytes returns the cache budget in bytes.
func (c *Config) BudgetBytes() int64 {
	return int64(c.Cache.MaxMemoryMB) << 20
}

// SlogLevel maps Log.Level to a slog.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	return ParseLevel(c.Log.Level)
}

// ParseLevel parses debug, info, warn or error, ignoring case.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, errors.Newf(errors.CodeInvalidConfig, "unknown log level %q", s)
}

// Validate checks the configuration for errors and reports all of them at
// once.
func (c *Config) Validate() error {
	var problems []string

	if c.Cache.MaxMemoryMB <= 0 {
		problems = append(problems, "cache.max_memory_mb must be positive, got "+strconv.Itoa(c.Cache.MaxMemoryMB))
	}
	if c.Cache.Workers < 0 {
		problems = append(problems, "cache.workers must not be negative, got "+strconv.Itoa(c.Cache.Workers))
	}
	if c.Encoding.JPEGQuality < 1 || c.Encoding.JPEGQuality > 100 {
		problems = append(problems, "encoding.jpeg_quality must be in 1..100, got "+strconv.Itoa(c.Encoding.JPEGQuality))
	}
	if _, err := c.SlogLevel(); err != nil {
		problems = append(problems, "log.level: "+err.Error())
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.New(errors.CodeInvalidConfig, "invalid configuration: "+strings.Join(problems, "; "))
}
