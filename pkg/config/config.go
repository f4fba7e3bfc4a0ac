// Package config loads service configuration from a TOML file with sensible
// defaults for every field, so an empty or missing file still yields a
// runnable configuration.
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/sceneforge/sceneforge/pkg/errors"
)

// Config is the full service configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Jobs   JobsConfig   `toml:"jobs"`
	Layout LayoutConfig `toml:"layout"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string   `toml:"addr"`
	ShutdownTimeout duration `toml:"shutdown_timeout"`
}

// RenderConfig configures the external render runner.
type RenderConfig struct {
	Binary    string   `toml:"binary"`
	Quality   string   `toml:"quality"`
	Format    string   `toml:"format"`
	OutputDir string   `toml:"output_dir"`
	Timeout   duration `toml:"timeout"`

	// MinFreeMemoryMB gates render starts; renders are refused when the host
	// has less free memory than this. Zero disables the check.
	MinFreeMemoryMB uint64 `toml:"min_free_memory_mb"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend  string   `toml:"backend"` // "file", "redis", or "none"
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url"`
	TTL      duration `toml:"ttl"`
}

// JobsConfig selects and configures the job store.
type JobsConfig struct {
	Store      string `toml:"store"` // "memory" or "mongo"
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// LayoutConfig tunes layout limits.
type LayoutConfig struct {
	TreeNodeCap int `toml:"tree_node_cap"`
}

// duration wraps time.Duration so TOML values like "90s" decode directly.
type duration time.Duration

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = duration(parsed)
	return nil
}

// Duration converts the TOML wrapper back to a time.Duration.
func (d duration) Duration() time.Duration { return time.Duration(d) }

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8675",
			ShutdownTimeout: duration(10 * time.Second),
		},
		Render: RenderConfig{
			Binary:          "manim",
			Quality:         "medium_quality",
			Format:          "mp4",
			OutputDir:       "videos",
			Timeout:         duration(120 * time.Second),
			MinFreeMemoryMB: 256,
		},
		Cache: CacheConfig{
			Backend: "file",
			Dir:     ".sceneforge-cache",
			TTL:     duration(24 * time.Hour),
		},
		Jobs: JobsConfig{
			Store:      "memory",
			Database:   "sceneforge",
			Collection: "jobs",
		},
		Layout: LayoutConfig{
			TreeNodeCap: 7,
		},
	}
}

// Load reads a TOML config file on top of the defaults. An empty path returns
// the defaults unchanged; a missing file is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints the TOML decoder cannot express.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case "file", "redis", "none":
	default:
		return errors.New(errors.ErrCodeInvalidRequest, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Cache.RedisURL == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "cache backend redis needs redis_url")
	}

	switch c.Jobs.Store {
	case "memory", "mongo":
	default:
		return errors.New(errors.ErrCodeInvalidRequest, "unknown job store %q", c.Jobs.Store)
	}
	if c.Jobs.Store == "mongo" && c.Jobs.MongoURI == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "job store mongo needs mongo_uri")
	}

	if c.Layout.TreeNodeCap < 1 {
		return errors.New(errors.ErrCodeInvalidRequest, "tree_node_cap must be at least 1")
	}
	return nil
}
