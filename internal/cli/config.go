package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/coursegraph/coursegraph/pkg/term"
)

// appName is the application name used for directories and display.
const appName = "coursegraph"

// duration wraps time.Duration so TTLs can be written as "24h" in TOML.
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Config holds CLI settings loaded from the TOML config file.
// Flags override config values, which override built-in defaults.
type Config struct {
	// TermDataURL is the base URL of the requisite data source.
	TermDataURL string `toml:"termdata_url"`

	// StatsURL is the base URL of the course statistics source.
	// Empty disables weighted metrics.
	StatsURL string `toml:"stats_url"`

	// ReferenceYear anchors plan year offsets to academic years.
	ReferenceYear int `toml:"reference_year"`

	// System is the default calendar system ("semester" or "quarter")
	// for plan files that don't declare one.
	System string `toml:"system"`

	// CacheTTL bounds the age of cached upstream responses.
	// Zero means entries never expire.
	CacheTTL duration `toml:"cache_ttl"`

	Serve ServeConfig `toml:"serve"`
}

// ServeConfig holds settings for the serve command.
type ServeConfig struct {
	// Addr is the listen address (host:port).
	Addr string `toml:"addr"`

	// Store selects the plan store backend: "memory" or "mongo".
	Store string `toml:"store"`

	// MongoURI is the MongoDB connection string, required when
	// Store is "mongo".
	MongoURI string `toml:"mongo_uri"`

	// RedisAddr enables Redis-backed response caching when set.
	// Empty falls back to the local file cache.
	RedisAddr string `toml:"redis_addr"`
}

// defaultConfig returns the built-in defaults applied before the config
// file is read.
func defaultConfig() Config {
	return Config{
		Serve: ServeConfig{
			Addr:  ":8080",
			Store: "memory",
		},
	}
}

// loadConfig reads the config file at path, or the default location when
// path is empty. A missing file is not an error; defaults apply.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	explicit := path != ""
	if path == "" {
		var err error
		if path, err = configPath(); err != nil {
			return cfg, err
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return cfg, fmt.Errorf("config file not found: %s", path)
		}
		cfg.applyEnv()
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// applyEnv lets connection strings with credentials stay out of the
// config file.
func (c *Config) applyEnv() {
	if v := os.Getenv("COURSEGRAPH_MONGO_URI"); v != "" {
		c.Serve.MongoURI = v
	}
	if v := os.Getenv("COURSEGRAPH_REDIS_ADDR"); v != "" {
		c.Serve.RedisAddr = v
	}
}

func (c *Config) validate() error {
	if c.System != "" {
		if _, err := term.ParseSystem(c.System); err != nil {
			return err
		}
	}
	switch c.Serve.Store {
	case "memory", "mongo":
	default:
		return fmt.Errorf("unknown store backend %q (want memory or mongo)", c.Serve.Store)
	}
	if c.Serve.Store == "mongo" && c.Serve.MongoURI == "" {
		return fmt.Errorf("store %q requires mongo_uri", c.Serve.Store)
	}
	return nil
}

// configPath returns the config file path using the XDG standard
// (~/.config/coursegraph/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// cacheDir returns the cache directory using the XDG standard
// (~/.cache/coursegraph/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
