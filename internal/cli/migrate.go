package cli

import (
	"github.com/spf13/cobra"

	"github.com/iliyamo/restaurante/internal/config"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded schema to the configured database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, err := openMigrated(cmd.Context(), cfg, rootOpts.logger())
			if err != nil {
				return err
			}
			return db.Close()
		},
	}
}
