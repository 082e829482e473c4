package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestCacheDir(t *testing.T) {
	// Clear XDG_CACHE_HOME to test default behavior
	t.Setenv("XDG_CACHE_HOME", "")
	os.Unsetenv("XDG_CACHE_HOME")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	customCache := "/tmp/custom-cache"
	t.Setenv("XDG_CACHE_HOME", customCache)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	expected := filepath.Join(customCache, appName)
	if dir != expected {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, expected)
	}
}

func TestConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/custom-config")

	path, err := configPath()
	if err != nil {
		t.Fatalf("configPath() error: %v", err)
	}

	expected := filepath.Join("/tmp/custom-config", appName, "config.toml")
	if path != expected {
		t.Errorf("configPath() = %q, want %q", path, expected)
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Serve.Addr != ":8080" {
		t.Errorf("Serve.Addr = %q, want %q", cfg.Serve.Addr, ":8080")
	}
	if cfg.Serve.Store != "memory" {
		t.Errorf("Serve.Store = %q, want %q", cfg.Serve.Store, "memory")
	}
}

func TestLoadConfigExplicitMissingFile(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatal("loadConfig() with an explicit missing path should fail")
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
termdata_url = "https://example.edu/terms"
stats_url = "https://example.edu/stats"
reference_year = 2024
system = "quarter"
cache_ttl = "24h"

[serve]
addr = ":9090"
store = "mongo"
mongo_uri = "mongodb://localhost:27017"
redis_addr = "localhost:6379"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}

	if cfg.TermDataURL != "https://example.edu/terms" {
		t.Errorf("TermDataURL = %q", cfg.TermDataURL)
	}
	if cfg.ReferenceYear != 2024 {
		t.Errorf("ReferenceYear = %d, want 2024", cfg.ReferenceYear)
	}
	if cfg.System != "quarter" {
		t.Errorf("System = %q, want quarter", cfg.System)
	}
	if cfg.CacheTTL.Duration != 24*time.Hour {
		t.Errorf("CacheTTL = %v, want 24h", cfg.CacheTTL.Duration)
	}
	if cfg.Serve.Addr != ":9090" {
		t.Errorf("Serve.Addr = %q, want :9090", cfg.Serve.Addr)
	}
	if cfg.Serve.Store != "mongo" {
		t.Errorf("Serve.Store = %q, want mongo", cfg.Serve.Store)
	}
	if cfg.Serve.RedisAddr != "localhost:6379" {
		t.Errorf("Serve.RedisAddr = %q", cfg.Serve.RedisAddr)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "unknown system",
			content: `system = "trimester"`,
			wantErr: "trimester",
		},
		{
			name:    "unknown store",
			content: "[serve]\nstore = \"postgres\"",
			wantErr: "postgres",
		},
		{
			name:    "mongo without uri",
			content: "[serve]\nstore = \"mongo\"",
			wantErr: "mongo_uri",
		},
		{
			name:    "bad ttl",
			content: `cache_ttl = "never"`,
			wantErr: "never",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, err := loadConfig(path)
			if err == nil {
				t.Fatal("loadConfig() should fail")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}
