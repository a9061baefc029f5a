package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/chemsafe/chemsafe/internal/export"
	"github.com/chemsafe/chemsafe/internal/logging"
)

// newExportCmd creates the export command.
func newExportCmd(a *app) *cobra.Command {
	var (
		formatName string
		output     string
		filterExpr string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored chemicals to CSV, JSON, or Excel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := export.ParseFormat(formatName)
			if err != nil {
				return err
			}
			filter, err := export.ParseFilter(filterExpr)
			if err != nil {
				return err
			}

			db, err := a.openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			records, err := db.All(cmd.Context())
			if err != nil {
				return err
			}
			records = filter.Apply(records)
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No chemicals to export.")
				return nil
			}

			path := output
			if path == "" {
				path = export.DefaultPath(a.cfg.DataDir, format, time.Now())
			}

			writer := export.New(logging.ComponentLogger(a.logResult.Logger, "export"))
			if err := writer.Export(records, format, path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d chemical(s) to %s\n", len(records), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&formatName, "format", "f", "csv", "export format: csv, json, or xlsx")
	cmd.Flags().StringVarP(&output, "output", "o", "",
		"output file (default <data_dir>/processed/chemicals_export_<timestamp>.<ext>)")
	cmd.Flags().StringVar(&filterExpr, "filter", "",
		"only export records whose property equals a value, e.g. signal_word=Danger")

	return cmd
}
