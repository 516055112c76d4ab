package cli

import (
	"github.com/spf13/cobra"

	"github.com/iliyamo/restaurante/internal/config"
	"github.com/iliyamo/restaurante/internal/seed"
)

// SeedOptions holds flags for the seed command.
type SeedOptions struct {
	*RootOptions
	File string
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert reference data from a YAML file",
		Long: `Insert roles, payment methods, categories, products and tables from a
YAML file. Rows that already exist are left untouched, so the command can
be run repeatedly.

Example:
  restaurante seed --file configs/seed.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := opts.logger()
			f, err := seed.Load(opts.File)
			if err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, err := openMigrated(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer db.Close()

			res, err := seed.Apply(cmd.Context(), db, f)
			if err != nil {
				return err
			}
			log.Info("seed applied",
				"file", opts.File,
				"roles", res.Roles,
				"metodos_pago", res.PaymentMethods,
				"categorias", res.Categories,
				"productos", res.Products,
				"mesas", res.Tables)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.File, "file", "configs/seed.yaml", "path to the seed YAML file")
	return cmd
}
