package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newUpdateCmd creates the update command, which re-scrapes a stored
// chemical from PubChem and overwrites the stored record.
func newUpdateCmd(a *app) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "update <chemical>",
		Short: "Re-fetch a stored chemical from PubChem",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			db, err := a.openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			existing, err := findChemical(ctx, db, args[0])
			if err != nil {
				return fmt.Errorf("%w (use search --store to add it first)", err)
			}

			cacheStore, closeCache, err := a.newCacheStore(ctx)
			if err != nil {
				return err
			}
			defer closeCache()

			pc, err := a.newScraper(cacheStore)
			if err != nil {
				return err
			}

			if refresh {
				// Drop cached responses so the fetches below go to the
				// network instead of replaying stale answers.
				if err := cacheStore.Clear(ctx); err != nil {
					a.logger.Warn().Err(err).Msg("cache clear failed, update may serve cached data")
				}
			}

			results, err := pc.SearchChemical(ctx, existing.Name)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				return fmt.Errorf("PubChem no longer returns results for %q", existing.Name)
			}

			c, err := pc.ExtractChemicalData(ctx, results[0].CID)
			if err != nil {
				return err
			}
			// Keep the stored CAS number authoritative: the scrape may
			// resolve a synonym to a different registry entry.
			if existing.CASNumber != "" {
				c.CASNumber = existing.CASNumber
			}

			id, err := db.Upsert(ctx, c)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (id %d).\n", c.Name, id)
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false,
		"bypass the response cache and fetch fresh data")

	return cmd
}
