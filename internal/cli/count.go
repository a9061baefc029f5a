package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newCountCmd creates the count command.
func newCountCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Show how many chemicals are stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := a.openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			count, err := db.Count(cmd.Context())
			if err != nil {
				return err
			}

			noun := "chemicals"
			if count == 1 {
				noun = "chemical"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d %s stored\n", count, noun)
			return nil
		},
	}
}
