package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/coursegraph/coursegraph/pkg/store"
)

// newPlansCmd creates the plans command for managing stored plans.
// It talks directly to the persistent store; the in-memory backend has
// nothing to manage between processes.
func newPlansCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plans",
		Short: "Manage plans in the persistent store",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), cfg, func(ctx context.Context, st store.Store) error {
				plans, err := st.List(ctx)
				if err != nil {
					return err
				}
				if len(plans) == 0 {
					printInfo("No stored plans")
					return nil
				}
				for _, p := range plans {
					printKeyValue(p.ID, fmt.Sprintf("%s  %s", p.Name, StyleDim.Render(p.UpdatedAt.Format("2006-01-02 15:04"))))
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <plan-id>",
		Short: "Print a stored plan document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), cfg, func(ctx context.Context, st store.Store) error {
				p, err := st.Get(ctx, args[0])
				if err != nil {
					return err
				}
				_, err = os.Stdout.Write(append(p.Document, '\n'))
				return err
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <plan-id>",
		Short: "Delete a stored plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), cfg, func(ctx context.Context, st store.Store) error {
				if err := st.Delete(ctx, args[0]); err != nil {
					return err
				}
				printSuccess("Deleted %s", args[0])
				return nil
			})
		},
	})

	return cmd
}

// withStore opens the configured persistent store, runs fn, and closes
// the store afterwards.
func withStore(ctx context.Context, cfg *Config, fn func(context.Context, store.Store) error) error {
	if cfg.Serve.Store != "mongo" {
		return fmt.Errorf("plans requires a persistent store (set serve.store = %q and serve.mongo_uri in the config file)", "mongo")
	}
	st, err := store.NewMongoStore(ctx, store.MongoConfig{URI: cfg.Serve.MongoURI})
	if err != nil {
		return err
	}
	defer st.Close(context.Background())
	return fn(ctx, st)
}
