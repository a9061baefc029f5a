package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/chemsafe/chemsafe/internal/chem"
	"github.com/chemsafe/chemsafe/internal/scraper"
	"github.com/chemsafe/chemsafe/internal/store"
)

// Pauses between scraped imports: a short one between chemicals and a
// longer one after each batch, to stay well inside PubChem's request
// limits on large imports.
const (
	importItemPause  = 1 * time.Second
	importBatchPause = 5 * time.Second
)

const defaultImportBatchSize = 10

// newImportCmd creates the import command, which reads chemical names from
// a file (one per line; a CSV's first column also works), scrapes each from
// PubChem, and stores the results.
func newImportCmd(a *app) *cobra.Command {
	var (
		skipExisting bool
		updateAll    bool
		batchSize    int
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import chemicals from a file of names",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			names, err := readImportNames(args[0])
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to import.")
				return nil
			}
			if batchSize <= 0 {
				batchSize = defaultImportBatchSize
			}

			db, err := a.openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			cacheStore, closeCache, err := a.newCacheStore(ctx)
			if err != nil {
				return err
			}
			defer closeCache()

			pc, err := a.newScraper(cacheStore)
			if err != nil {
				return err
			}

			// --update forces a re-fetch of names that are already stored.
			skip := skipExisting && !updateAll

			imported, skipped, failed := 0, 0, 0
			for i, name := range names {
				switch outcome := a.importOne(ctx, cmd, db, pc, name, skip); outcome {
				case importOutcomeStored:
					imported++
				case importOutcomeSkipped:
					skipped++
				case importOutcomeFailed:
					failed++
				}

				if i == len(names)-1 {
					break
				}
				pause := importItemPause
				if (i+1)%batchSize == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "Processed %d of %d, pausing...\n", i+1, len(names))
					pause = importBatchPause
				}
				select {
				case <-time.After(pause):
				case <-ctx.Done():
					return ctx.Err()
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\nImport finished: %d stored, %d skipped, %d failed.\n",
				imported, skipped, failed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipExisting, "skip-existing", false,
		"skip names that already match a stored chemical")
	cmd.Flags().BoolVar(&updateAll, "update", false,
		"re-fetch names even when already stored (overrides --skip-existing)")
	cmd.Flags().IntVar(&batchSize, "batch-size", defaultImportBatchSize,
		"chemicals to process between longer pauses")

	return cmd
}

type importOutcome int

const (
	importOutcomeStored importOutcome = iota
	importOutcomeSkipped
	importOutcomeFailed
)

func (a *app) importOne(
	ctx context.Context,
	cmd *cobra.Command,
	db *store.Store,
	pc *scraper.PubChem,
	name string,
	skipExisting bool,
) importOutcome {
	out := cmd.OutOrStdout()

	if skipExisting {
		matches, err := db.Search(ctx, name)
		if err == nil && len(matches) > 0 {
			fmt.Fprintf(out, "Skipping %s (already stored)\n", name)
			return importOutcomeSkipped
		}
	}

	results, err := pc.SearchChemical(ctx, name)
	if err != nil || len(results) == 0 {
		if err != nil {
			a.logger.Warn().Err(err).Str("name", name).Msg("search failed")
		}
		fmt.Fprintf(out, "No PubChem match for %s\n", name)
		return importOutcomeFailed
	}

	c, err := pc.ExtractChemicalData(ctx, results[0].CID)
	if err != nil {
		a.logger.Warn().Err(err).Str("name", name).Msg("extraction failed")
		fmt.Fprintf(out, "Failed to fetch %s\n", name)
		return importOutcomeFailed
	}
	if problems := chem.Validate(c); len(problems) > 0 {
		a.logger.Warn().
			Strs("problems", problems).
			Str("name", c.Name).
			Msg("storing chemical with validation warnings")
	}

	id, err := db.Upsert(ctx, c)
	if err != nil {
		a.logger.Error().Err(err).Str("name", name).Msg("store failed")
		fmt.Fprintf(out, "Failed to store %s\n", name)
		return importOutcomeFailed
	}

	fmt.Fprintf(out, "Stored %s (id %d)\n", c.Name, id)
	return importOutcomeStored
}

// readImportNames reads one chemical name per line, taking the first CSV
// column when a line contains commas. Blank lines and #-comments are
// ignored.
func readImportNames(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening import file: %w", err)
	}
	defer f.Close()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if comma := strings.IndexByte(line, ','); comma >= 0 {
			line = strings.TrimSpace(line[:comma])
		}
		if line == "" || strings.EqualFold(line, "name") {
			// Skip a CSV header row.
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading import file: %w", err)
	}

	return names, nil
}
