// Package cli implements the sceneforge command-line interface.
//
// This package provides commands for generating animated diagram videos from
// request files, previewing scene plans as static diagrams, stepping through
// a plan's timeline interactively, and running the HTTP API. The CLI is built
// using cobra and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - init: Write a sample request file for a diagram kind
//   - generate: Build scene plans and render them to video
//   - preview: Render a static SVG preview of a scene plan
//   - steps: Step through a plan's timeline in the terminal
//   - serve: Run the HTTP API
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/sceneforge/sceneforge/pkg/buildinfo"
	"github.com/sceneforge/sceneforge/pkg/cache"
	"github.com/sceneforge/sceneforge/pkg/config"
	"github.com/sceneforge/sceneforge/pkg/diagram/layout"
	"github.com/sceneforge/sceneforge/pkg/pipeline"
	"github.com/sceneforge/sceneforge/pkg/render"
)

// appName is the application name used for directories and display.
const appName = "sceneforge"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Sceneforge turns diagram requests into animated videos",
		Long:         `Sceneforge is a tool for generating animated technical diagrams - HTTP flows, DNS resolution chains, data structures, and process flows - as rendered videos, from declarative request files.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.initCommand())
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.stepsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner from a loaded configuration. The caller
// owns closing the returned cache.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noCache bool) (*pipeline.Runner, cache.Cache, error) {
	store, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Layout.TreeNodeCap > 0 {
		layout.TreeNodeCap = cfg.Layout.TreeNodeCap
	}

	renderer := render.NewRunner(render.Options{
		Binary:          cfg.Render.Binary,
		Quality:         cfg.Render.Quality,
		Format:          cfg.Render.Format,
		OutputDir:       cfg.Render.OutputDir,
		Timeout:         cfg.Render.Timeout.Duration(),
		MinFreeMemoryMB: cfg.Render.MinFreeMemoryMB,
	})

	return pipeline.NewRunner(store, nil, renderer, c.Logger), store, nil
}

// newCache builds the configured cache backend.
func (c *CLI) newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case "redis":
		return cache.NewRedisCache(ctx, cfg.Cache.RedisURL)
	case "none":
		return cache.NewNullCache(), nil
	default:
		return cache.NewFileCache(cfg.Cache.Dir)
	}
}
