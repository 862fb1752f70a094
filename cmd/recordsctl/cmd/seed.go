package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Overland-East-Bay/transit-records/internal/adapters/seed"
	platformclock "github.com/Overland-East-Bay/transit-records/internal/platform/clock"
)

func (c *cli) newSeedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed default passengers and conductors where absent",
		Long: `Write default passengers and conductors to the primary store when their
keys are absent. Existing snapshots, including empty ones, are left alone.

Examples:
  recordsctl seed
  recordsctl seed --file fixtures/seed.yaml`,
		Args: cobra.NoArgs,
		RunE: c.withRuntime(func(cmd *cobra.Command, args []string) error {
			path := file
			if path == "" {
				path = c.rt.SeedFile
			}
			gen, err := seed.Open(platformclock.NewSystemClock(), path)
			if err != nil {
				return err
			}
			res, err := c.rt.Records.Bootstrap(cmd.Context(), gen)
			if err != nil {
				return err
			}
			return c.formatOutput(cmd.OutOrStdout(), map[string]bool{
				"passengers": res.SeededPassengers,
				"conductors": res.SeededConductors,
			})
		}),
	}
	cmd.Flags().StringVar(&file, "file", "", "YAML seed fixture (defaults to SEED_FILE)")
	return cmd
}
