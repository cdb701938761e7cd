package cli

import (
	"os"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// ShutdownSignals are the signals that cancel the command context, `serve` drains connections on them.
func ShutdownSignals() []os.Signal {
	return []os.Signal{os.Interrupt, syscall.SIGTERM}
}

// NewRootCmd creates the librarian command tree.
func NewRootCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "librarian",
		Short: "Library lending backend",
		Long: `librarian runs the library lending REST backend.

Librarians manage the book catalog, students borrow and return copies,
and role-based rights gate which operations a user may perform.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// a missing .env file is fine
			_ = godotenv.Load()
		},
	}

	cmd.AddCommand(
		newServeCmd(version),
		newMigrateCmd(version),
		newSeedCmd(version),
		newUserCmd(version),
	)

	return cmd
}
