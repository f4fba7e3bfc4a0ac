package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/sceneforge/sceneforge/pkg/config"
	"github.com/sceneforge/sceneforge/pkg/jobs"
	"github.com/sceneforge/sceneforge/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		configPath string
		addr       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the sceneforge HTTP API.

The API exposes one generation endpoint per diagram family plus status,
video download, and health endpoints. Cache backend and job store come from
the config file; --addr overrides the configured listen address.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return c.runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to sceneforge.toml")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	return cmd
}

// runServe assembles the collaborators and serves until the context ends.
func (c *CLI) runServe(ctx context.Context, cfg *config.Config) error {
	runner, cacheStore, err := c.newRunner(ctx, cfg, false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer cacheStore.Close()

	jobStore, err := c.newJobStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize job store: %w", err)
	}
	defer jobStore.Close(context.Background())

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.New(runner, jobStore, c.Logger),
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("serving", "addr", cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		c.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// newJobStore builds the configured job store.
func (c *CLI) newJobStore(ctx context.Context, cfg *config.Config) (jobs.Store, error) {
	switch cfg.Jobs.Store {
	case "mongo":
		return jobs.NewMongoStore(ctx, cfg.Jobs.MongoURI, cfg.Jobs.Database, cfg.Jobs.Collection)
	default:
		return jobs.NewMemoryStore(), nil
	}
}
