package cli

import (
	"github.com/spf13/cobra"
)

func newMigrateCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create missing tables and the fixed rights rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			rt, err := openRuntime(ctx, version, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			if err := rt.store.Migrate(ctx); err != nil {
				return err
			}

			rt.logger.InfoContext(ctx, "schema is up to date", "dialect", rt.store.Dialect())

			return nil
		},
	}
}
