package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) newClearCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every record key from the primary store",
		Long: `Remove every record key from the primary store. The secondary store is not
touched.

Examples:
  recordsctl clear --yes`,
		Args: cobra.NoArgs,
		RunE: c.withRuntime(func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to clear without --yes")
			}
			if err := c.rt.Records.ClearAll(cmd.Context()); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "primary store cleared")
			return err
		}),
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the clear")
	return cmd
}
