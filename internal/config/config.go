package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "MARQUEE"

// Config holds all application configuration
type Config struct {
	TMDB    TMDBConfig    `mapstructure:"tmdb"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	UI      UIConfig      `mapstructure:"ui"`
}

// TMDBConfig holds remote API configuration
type TMDBConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	APIKey          string        `mapstructure:"api_key"`
	Timeout         time.Duration `mapstructure:"timeout"`
	RateLimit       float64       `mapstructure:"rate_limit"` // Requests per second, 0 = unthrottled
	Burst           int           `mapstructure:"burst"`
	BreakerFailures uint32        `mapstructure:"breaker_failures"` // Consecutive failures that open the circuit
	BreakerTimeout  time.Duration `mapstructure:"breaker_timeout"`  // How long the circuit stays open
}

// CacheConfig holds local cache configuration
type CacheConfig struct {
	Backend string `mapstructure:"backend"` // "bolt", "badger" or "memory"
	Dir     string `mapstructure:"dir"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// MetricsConfig holds the Prometheus endpoint configuration
type MetricsConfig struct {
	Addr string `mapstructure:"addr"` // e.g. "127.0.0.1:9190", empty = disabled
}

// UIConfig holds UI configuration
type UIConfig struct {
	Accent         string        `mapstructure:"accent"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		TMDB: TMDBConfig{
			BaseURL:         "https://api.themoviedb.org/3",
			Timeout:         30 * time.Second,
			RateLimit:       20,
			Burst:           5,
			BreakerFailures: 5,
			BreakerTimeout:  30 * time.Second,
		},
		Cache: CacheConfig{
			Backend: "bolt",
			Dir:     defaultCachePath(),
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
		UI: UIConfig{
			Accent:         "#01B4E4",
			RequestTimeout: 15 * time.Second,
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "marquee", "marquee.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "marquee", "marquee.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "marquee")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "marquee")
	}
}

// defaultCachePath returns the default cache directory path for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "marquee", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "marquee", "cache")
	}
}

// LoadConfig loads configuration from file and environment.
// With an empty path config.yaml is searched for in the config directory and
// the working directory, and a missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	v := viper.New()
	setDefaults(v, cfg)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	// Environment variable overrides, e.g. MARQUEE_TMDB_API_KEY
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	cfg.Cache.Dir = expandHome(cfg.Cache.Dir)
	cfg.Logging.File = expandHome(cfg.Logging.File)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key so environment overrides reach Unmarshal
func setDefaults(v *viper.Viper, cfg *Config) {
	for key, value := range settings(cfg) {
		v.SetDefault(key, value)
	}
}

// settings flattens cfg into snake_case viper keys
func settings(cfg *Config) map[string]interface{} {
	return map[string]interface{}{
		"tmdb.base_url":         cfg.TMDB.BaseURL,
		"tmdb.api_key":          cfg.TMDB.APIKey,
		"tmdb.timeout":          cfg.TMDB.Timeout,
		"tmdb.rate_limit":       cfg.TMDB.RateLimit,
		"tmdb.burst":            cfg.TMDB.Burst,
		"tmdb.breaker_failures": cfg.TMDB.BreakerFailures,
		"tmdb.breaker_timeout":  cfg.TMDB.BreakerTimeout,
		"cache.backend":         cfg.Cache.Backend,
		"cache.dir":             cfg.Cache.Dir,
		"logging.file":          cfg.Logging.File,
		"logging.level":         cfg.Logging.Level,
		"metrics.addr":          cfg.Metrics.Addr,
		"ui.accent":             cfg.UI.Accent,
		"ui.request_timeout":    cfg.UI.RequestTimeout,
	}
}

// Validate rejects settings the rest of the program cannot work with
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case "", "bolt", "badger", "memory":
	default:
		return fmt.Errorf("invalid cache backend %q (want bolt, badger or memory)", c.Cache.Backend)
	}
	if c.TMDB.RateLimit < 0 {
		return fmt.Errorf("invalid tmdb rate_limit %v", c.TMDB.RateLimit)
	}
	if c.TMDB.Timeout < 0 || c.UI.RequestTimeout < 0 {
		return errors.New("timeouts must not be negative")
	}
	return nil
}

// SaveConfig writes cfg to path, or to config.yaml in the default config
// directory when path is empty
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		path = filepath.Join(defaultConfigPath(), "config.yaml")
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	for key, value := range settings(cfg) {
		switch d := value.(type) {
		case time.Duration:
			v.Set(key, d.String())
		default:
			v.Set(key, value)
		}
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// IsConfigured returns true if an API key is set
func (c *Config) IsConfigured() bool {
	return c.TMDB.APIKey != ""
}

// CachePath returns the configured cache directory
func (c *Config) CachePath() string {
	if c.Cache.Dir == "" {
		return defaultCachePath()
	}
	return c.Cache.Dir
}

// ClearCache removes all cached data under dir
func ClearCache(dir string) error {
	if dir == "" {
		dir = defaultCachePath()
	}
	if err := os.RemoveAll(dir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// GetCachePath returns the default cache directory path
func GetCachePath() string {
	return defaultCachePath()
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
