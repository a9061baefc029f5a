package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/chemsafe/chemsafe/internal/chem"
	"github.com/chemsafe/chemsafe/internal/scraper"
)

// storePause spaces out the full-record fetches when search persists its
// results, on top of the scraper's own request throttle.
const storePause = 1 * time.Second

// newSearchCmd creates the search command. It checks the local database
// first (including known name variations) and falls back to PubChem when
// nothing is stored, optionally saving what it finds.
func newSearchCmd(a *app) *cobra.Command {
	var (
		localOnly bool
		persist   bool
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "search <name>",
		Short: "Search for a chemical by name, CAS number, or formula",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			query := strings.Join(args, " ")

			db, err := a.openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			// Try the raw query first, then its normalized form, then any
			// known alternative names.
			candidates := []string{query}
			if norm := chem.NormalizeName(query); norm != "" && norm != query {
				candidates = append(candidates, norm)
			}
			candidates = append(candidates, chem.Variations(query)...)

			var matches []*chem.Chemical
			for _, candidate := range candidates {
				var err error
				matches, err = db.Search(ctx, candidate)
				if err != nil {
					return err
				}
				if len(matches) > 0 {
					break
				}
			}

			if len(matches) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Found %d stored chemical(s):\n\n", len(matches))
				writeChemicalTable(cmd.OutOrStdout(), matches)
				return nil
			}

			if localOnly {
				fmt.Fprintf(cmd.OutOrStdout(), "No stored chemicals match %q.\n", query)
				return nil
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

			fmt.Fprintf(cmd.OutOrStdout(), "Nothing stored for %q, searching PubChem...\n", query)
			results, err := pc.SearchChemical(ctx, query)
			if err != nil {
				return err
			}
			if limit > 0 && len(results) > limit {
				results = results[:limit]
			}
			if len(results) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No PubChem results for %q.\n", query)
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Found %d PubChem result(s):\n\n", len(results))
			writeSearchResultTable(cmd, results)

			if !persist {
				fmt.Fprintln(cmd.OutOrStdout(), "\nRe-run with --store to save these chemicals.")
				return nil
			}

			for i, r := range results {
				if i > 0 {
					select {
					case <-time.After(storePause):
					case <-ctx.Done():
						return ctx.Err()
					}
				}

				c, err := pc.ExtractChemicalData(ctx, r.CID)
				if err != nil {
					a.logger.Warn().Err(err).Int64("cid", r.CID).Msg("skipping chemical")
					continue
				}
				if problems := chem.Validate(c); len(problems) > 0 {
					a.logger.Warn().
						Strs("problems", problems).
						Str("name", c.Name).
						Msg("storing chemical with validation warnings")
				}

				id, err := db.Upsert(ctx, c)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (id %d)\n", c.Name, id)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&localOnly, "local", false, "search only the local database")
	cmd.Flags().BoolVar(&persist, "store", false, "fetch full data for the results and store them")
	cmd.Flags().IntVar(&limit, "limit", 5, "maximum number of PubChem results")

	return cmd
}

func writeSearchResultTable(cmd *cobra.Command, results []scraper.SearchResult) {
	out := cmd.OutOrStdout()
	for i, r := range results {
		weight := ""
		if r.MolecularWeight != 0 {
			weight = fmt.Sprintf(", %.2f g/mol", r.MolecularWeight)
		}
		fmt.Fprintf(out, "  %d. %s (CID %d, %s%s)\n", i+1, r.Name, r.CID, r.Formula, weight)
	}
}
