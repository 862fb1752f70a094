package cmd

import (
	"errors"

	"github.com/spf13/cobra"
)

var errMigrationFailed = errors.New("migration failed; see logs")

func (c *cli) newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Move passengers and trips from the primary to the secondary store",
		Long: `Copy passengers and trips from the primary store into the secondary store,
then remove the primary passengers key. The primary trips key is kept.

Exits non-zero when the migration fails.`,
		Args: cobra.NoArgs,
		RunE: c.withRuntime(func(cmd *cobra.Command, args []string) error {
			ok := c.rt.Records.ForceDataMigration(cmd.Context())
			if err := c.formatOutput(cmd.OutOrStdout(), map[string]bool{"migrated": ok}); err != nil {
				return err
			}
			if !ok {
				return errMigrationFailed
			}
			return nil
		}),
	}
}
