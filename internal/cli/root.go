package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/coursegraph/coursegraph/pkg/buildinfo"
	"github.com/coursegraph/coursegraph/pkg/httputil"
	"github.com/coursegraph/coursegraph/pkg/pipeline"
	"github.com/coursegraph/coursegraph/pkg/stats"
	"github.com/coursegraph/coursegraph/pkg/termdata"
)

// Execute runs the coursegraph CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// The function sets up the root command with all subcommands, configures
// logging based on the --verbose flag, and loads the TOML config file
// before any command runs.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands via
// loggerFromContext.
func Execute(ctx context.Context) error {
	var (
		verbose    bool
		configFile string
	)
	cfg := defaultConfig()

	root := &cobra.Command{
		Use:          appName,
		Short:        "Coursegraph analyzes prerequisite structure in degree plans",
		Long:         `Coursegraph resolves course requisites against published term data and computes blocking, delay, complexity, and centrality metrics over the resulting prerequisite graph.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))

			loaded, err := loadConfig(configFile)
			if err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ~/.config/coursegraph/config.toml)")

	root.AddCommand(newAnalyzeCmd(&cfg))
	root.AddCommand(newExportCmd(&cfg))
	root.AddCommand(newBrowseCmd(&cfg))
	root.AddCommand(newServeCmd(&cfg))
	root.AddCommand(newPlansCmd(&cfg))
	root.AddCommand(newCacheCmd())
	root.AddCommand(newCompletionCmd())

	return root.ExecuteContext(ctx)
}

// newRunner builds a pipeline runner over the configured term data and
// statistics sources. With noCache, upstream responses land in a
// throwaway directory instead of the shared cache.
func newRunner(cfg *Config, noCache bool, logger *log.Logger) (*pipeline.Runner, error) {
	if cfg.TermDataURL == "" {
		return nil, fmt.Errorf("no term data source configured (set termdata_url in the config file)")
	}

	dir, err := cacheDir()
	if err != nil {
		return nil, fmt.Errorf("get cache dir: %w", err)
	}
	if noCache {
		if dir, err = os.MkdirTemp("", appName+"-nocache-"); err != nil {
			return nil, err
		}
	}

	httpCache, err := httputil.NewCache(dir, cfg.CacheTTL.Duration)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}

	terms := termdata.NewCache(termdata.NewClient(cfg.TermDataURL, httpCache))
	var provider stats.Provider
	if cfg.StatsURL != "" {
		provider = stats.NewClient(cfg.StatsURL, httpCache)
	}
	return pipeline.NewRunner(terms, provider, logger), nil
}
