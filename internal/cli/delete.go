package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/chemsafe/chemsafe/internal/store"
)

// newDeleteCmd creates the delete command. The argument may be a record ID,
// a CAS number, or a name. Deletion asks for confirmation on a terminal
// unless --force is given.
func newDeleteCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id-or-chemical>",
		Short: "Delete a stored chemical",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			db, err := a.openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			id, parseErr := strconv.ParseInt(args[0], 10, 64)
			name := fmt.Sprintf("chemical %d", id)
			if parseErr != nil {
				c, err := findChemical(ctx, db, args[0])
				if err != nil {
					return err
				}
				id = c.ID
				name = fmt.Sprintf("%s (id %d)", c.Name, c.ID)
			}

			if !force {
				msg := fmt.Sprintf("Delete %s? This cannot be undone.", name)
				if !confirm(cmd.OutOrStdout(), cmd.InOrStdin(), msg) {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}

			if err := db.Delete(ctx, id); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("no chemical with id %d", id)
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s.\n", name)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "delete without confirmation")

	return cmd
}
