// Package config loads and resolves chemsafe's YAML configuration.
//
// Configuration lives at ~/.chemsafe/config.yaml by default. Every value
// has a sensible default, so a missing file is not an error, and a small
// set of CHEMSAFE_* environment variables override the file for scripting
// and tests.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	str2duration "github.com/xhit/go-str2duration/v2"
	"gopkg.in/yaml.v3"

	"github.com/chemsafe/chemsafe/internal/logging"
)

// Cache backend names.
const (
	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"
)

// Config is the full application configuration.
type Config struct {
	// DataDir is the root for the database, cache, and export output.
	DataDir string `yaml:"data_dir"`

	Database DatabaseConfig `yaml:"database"`
	Cache    CacheConfig    `yaml:"cache"`
	Scraper  ScraperConfig  `yaml:"scraper"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// CacheConfig selects and configures the response cache backend.
type CacheConfig struct {
	// Backend is "file" (default) or "redis".
	Backend string `yaml:"backend"`

	// Dir is the file backend's cache directory.
	Dir string `yaml:"dir"`

	// MaxAge is the entry lifetime in go-str2duration syntax, so day
	// units like "1d" or "2d12h" work.
	MaxAge string `yaml:"max_age"`

	Redis RedisConfig `yaml:"redis"`
}

// RedisConfig configures the Redis cache backend.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// ScraperConfig tunes the PubChem client. Empty values use the scraper's
// own defaults.
type ScraperConfig struct {
	BaseURL   string `yaml:"base_url"`
	ViewURL   string `yaml:"view_url"`
	Timeout   string `yaml:"timeout"`
	RateLimit string `yaml:"rate_limit"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// ConfigDir returns the chemsafe configuration directory: CHEMSAFE_HOME if
// set, otherwise ~/.chemsafe.
func ConfigDir() (string, error) {
	if home := os.Getenv("CHEMSAFE_HOME"); home != "" {
		return home, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(homeDir, ".chemsafe"), nil
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Default returns the built-in configuration, rooted under the chemsafe
// config directory.
func Default() (*Config, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}

	dataDir := filepath.Join(dir, "data")
	return &Config{
		DataDir: dataDir,
		Database: DatabaseConfig{
			Path: filepath.Join(dataDir, "chemicals.db"),
		},
		Cache: CacheConfig{
			Backend: CacheBackendFile,
			Dir:     filepath.Join(dataDir, "cache"),
			MaxAge:  "1d",
			Redis: RedisConfig{
				Addr: "localhost:6379",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}, nil
}

// Load reads the config file at path (the default location when path is
// empty) onto the defaults, then applies environment overrides. A missing
// file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overlays CHEMSAFE_* environment variables on the loaded config.
func (c *Config) applyEnv() {
	setStr := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setStr(&c.DataDir, "CHEMSAFE_DATA_DIR")
	setStr(&c.Database.Path, "CHEMSAFE_DB_PATH")
	setStr(&c.Cache.Backend, "CHEMSAFE_CACHE_BACKEND")
	setStr(&c.Cache.Dir, "CHEMSAFE_CACHE_DIR")
	setStr(&c.Cache.MaxAge, "CHEMSAFE_CACHE_MAX_AGE")
	setStr(&c.Cache.Redis.Addr, "CHEMSAFE_REDIS_ADDR")
	setStr(&c.Cache.Redis.Password, "CHEMSAFE_REDIS_PASSWORD")
	if v := os.Getenv("CHEMSAFE_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			c.Cache.Redis.DB = db
		}
	}
	setStr(&c.Logging.Level, "CHEMSAFE_LOG_LEVEL")
	setStr(&c.Logging.Format, "CHEMSAFE_LOG_FORMAT")
	setStr(&c.Logging.File, "CHEMSAFE_LOG_FILE")
}

// MaxAgeDuration parses the cache lifetime. An empty value means one day.
func (c *CacheConfig) MaxAgeDuration() (time.Duration, error) {
	if c.MaxAge == "" {
		return 24 * time.Hour, nil
	}

	d, err := str2duration.ParseDuration(c.MaxAge)
	if err != nil {
		return 0, fmt.Errorf("parsing cache max_age %q: %w", c.MaxAge, err)
	}
	return d, nil
}

// TimeoutDuration parses the scraper request timeout; zero means "use the
// scraper default".
func (s *ScraperConfig) TimeoutDuration() (time.Duration, error) {
	return parseOptionalDuration(s.Timeout, "scraper timeout")
}

// RateLimitDuration parses the pause between scraper fetches; zero means
// "use the scraper default".
func (s *ScraperConfig) RateLimitDuration() (time.Duration, error) {
	return parseOptionalDuration(s.RateLimit, "scraper rate_limit")
}

func parseOptionalDuration(value, what string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}

	d, err := str2duration.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parsing %s %q: %w", what, value, err)
	}
	return d, nil
}

// ToLoggingConfig bridges the YAML section to the logging package.
func (lc *LoggingConfig) ToLoggingConfig() logging.Config {
	return logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		File:   lc.File,
	}
}

// EnsureDirs creates the data directory tree the application writes to:
// the data root, the processed exports directory, and (for the file
// backend) the cache directory.
func (c *Config) EnsureDirs() error {
	dirs := []string{
		c.DataDir,
		filepath.Join(c.DataDir, "processed"),
	}
	if c.Cache.Backend != CacheBackendRedis && c.Cache.Dir != "" {
		dirs = append(dirs, c.Cache.Dir)
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("creating directory %q: %w", dir, err)
		}
	}
	return nil
}
