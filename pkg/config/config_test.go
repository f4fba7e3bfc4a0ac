package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sceneforge/sceneforge/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sceneforge.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":8675" {
		t.Errorf("default addr = %q", cfg.Server.Addr)
	}
	if cfg.Render.Binary != "manim" || cfg.Render.Quality != "medium_quality" {
		t.Errorf("render defaults = %q/%q", cfg.Render.Binary, cfg.Render.Quality)
	}
	if cfg.Render.Timeout.Duration() != 120*time.Second {
		t.Errorf("render timeout = %v", cfg.Render.Timeout.Duration())
	}
	if cfg.Cache.Backend != "file" || cfg.Jobs.Store != "memory" {
		t.Errorf("backend defaults = %q/%q", cfg.Cache.Backend, cfg.Jobs.Store)
	}
	if cfg.Layout.TreeNodeCap != 7 {
		t.Errorf("tree cap = %d", cfg.Layout.TreeNodeCap)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
[server]
addr = ":9000"

[render]
quality = "high_quality"
timeout = "90s"

[cache]
backend = "redis"
redis_url = "redis://localhost:6379/0"
ttl = "1h"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Render.Quality != "high_quality" || cfg.Render.Timeout.Duration() != 90*time.Second {
		t.Errorf("render = %q/%v", cfg.Render.Quality, cfg.Render.Timeout.Duration())
	}
	if cfg.Cache.TTL.Duration() != time.Hour {
		t.Errorf("ttl = %v", cfg.Cache.TTL.Duration())
	}

	// Untouched sections keep their defaults.
	if cfg.Render.Binary != "manim" || cfg.Jobs.Store != "memory" {
		t.Errorf("defaults lost: %q/%q", cfg.Render.Binary, cfg.Jobs.Store)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown cache backend", func(c *Config) { c.Cache.Backend = "memcached" }},
		{"redis without url", func(c *Config) { c.Cache.Backend = "redis"; c.Cache.RedisURL = "" }},
		{"unknown job store", func(c *Config) { c.Jobs.Store = "postgres" }},
		{"mongo without uri", func(c *Config) { c.Jobs.Store = "mongo"; c.Jobs.MongoURI = "" }},
		{"zero tree cap", func(c *Config) { c.Layout.TreeNodeCap = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, errors.ErrCodeInvalidRequest) {
				t.Errorf("got %v, want INVALID_REQUEST", err)
			}
		})
	}
}
