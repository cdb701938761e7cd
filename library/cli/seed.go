package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-lending/library/seed"
)

func newSeedCmd(version string) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load development users and books",
		Example: `  # built-in fixtures: Elena (librarian), Maria (student), Admin (admin)
  librarian seed

  # own fixtures
  librarian seed --file fixtures.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			fixtures, err := loadFixtures(file)
			if err != nil {
				return err
			}

			rt, err := openRuntime(ctx, version, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			if err := rt.store.Migrate(ctx); err != nil {
				return err
			}

			report, err := seed.NewSeeder(rt.store, seed.WithLogger(rt.logger)).Seed(ctx, fixtures)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "users inserted: %d, users skipped: %d, books inserted: %d\n",
				report.UsersInserted, report.UsersSkipped, report.BooksInserted)

			return err
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML fixture file (defaults to the built-in fixtures)")

	return cmd
}

func loadFixtures(file string) (seed.Fixtures, error) {
	if file == "" {
		return seed.Default()
	}

	f, err := os.Open(file)
	if err != nil {
		return seed.Fixtures{}, err
	}
	defer func() { _ = f.Close() }()

	return seed.Load(f)
}
