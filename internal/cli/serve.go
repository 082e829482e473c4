package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/coursegraph/coursegraph/internal/api"
	"github.com/coursegraph/coursegraph/pkg/cache"
	"github.com/coursegraph/coursegraph/pkg/store"
)

// shutdownGrace bounds how long in-flight requests may run after the
// process receives a termination signal.
const shutdownGrace = 5 * time.Second

// newServeCmd creates the serve command, which runs the HTTP API over a
// plan store.
func newServeCmd(cfg *Config) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the plan analysis HTTP API.

The store backend, response cache, and upstream sources come from the
config file. The in-memory store is the default and loses plans on
restart; configure serve.store = "mongo" for persistence.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, cfg, firstNonEmpty(addr, cfg.Serve.Addr))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides serve.addr)")
	return cmd
}

func runServe(cmd *cobra.Command, cfg *Config, addr string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	runner, err := newRunner(cfg, false, logger)
	if err != nil {
		return err
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	responses, err := openResponseCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer responses.Close()

	server := &http.Server{
		Addr:              addr,
		Handler:           api.NewServer(st, runner, responses, logger).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr, "store", cfg.Serve.Store)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	prog := newProgress(logger)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	prog.done("Server stopped")
	return nil
}

// openStore builds the plan store named by the config.
func openStore(ctx context.Context, cfg *Config) (store.Store, error) {
	switch cfg.Serve.Store {
	case "mongo":
		return store.NewMongoStore(ctx, store.MongoConfig{URI: cfg.Serve.MongoURI})
	default:
		return store.NewMemoryStore(), nil
	}
}

// openResponseCache builds the analysis response cache: Redis when
// configured, otherwise a file cache under the shared cache directory.
func openResponseCache(ctx context.Context, cfg *Config) (cache.Cache, error) {
	if cfg.Serve.RedisAddr != "" {
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:   cfg.Serve.RedisAddr,
			Prefix: appName + ":",
		})
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(filepath.Join(dir, "responses"))
}
