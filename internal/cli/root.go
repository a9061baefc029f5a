// Package cli implements the chemsafe command line interface.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/chemsafe/chemsafe/internal/config"
	"github.com/chemsafe/chemsafe/internal/logging"
)

// app carries the state shared by every command for one CLI invocation.
// It is populated by the root command's PersistentPreRunE.
type app struct {
	cfg       *config.Config
	logger    zerolog.Logger
	logResult logging.Result
}

// NewRootCmd creates the root Cobra command for the chemsafe CLI.
func NewRootCmd(ver string) *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:     "chemsafe",
		Short:   "Chemical safety data manager",
		Long:    "chemsafe: look up, store, and export chemical safety data from PubChem",
		Version: ver,
		Example: rootCmdExample,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg

			loggingCfg := cfg.Logging
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				loggingCfg.Level = "debug"
				loggingCfg.Format = "console"
				loggingCfg.File = ""
			}

			a.logResult = logging.New(loggingCfg.ToLoggingConfig())
			a.logger = logging.ComponentLogger(a.logResult.Logger, "cli")

			ctx := a.logger.With().
				Str("trace_id", logging.NewTraceID()).
				Logger().WithContext(cmd.Context())
			cmd.SetContext(ctx)

			a.logger.Debug().Str("command", cmd.Name()).Msg("command started")
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return a.logResult.Close()
		},
	}

	cmd.PersistentFlags().String("config", "", "path to config file (default ~/.chemsafe/config.yaml)")
	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	cmd.AddCommand(
		newSearchCmd(a), newQueryCmd(a), newImportCmd(a), newExportCmd(a),
		newCountCmd(a), newDeleteCmd(a), newUpdateCmd(a), newCacheCmd(a),
		newVersionCmd(),
	)

	return cmd
}

const rootCmdExample = `  # Search PubChem (and the local database) for a chemical
  chemsafe search ethanol

  # Show everything stored for a chemical
  chemsafe query 64-17-5 --verbose

  # Import a list of chemical names, skipping ones already stored
  chemsafe import chemicals.txt --skip-existing

  # Export the database to Excel
  chemsafe export --format xlsx

  # Re-scrape a stored chemical
  chemsafe update 64-17-5 --refresh

  # Show cache usage and drop expired entries
  chemsafe cache stats
  chemsafe cache purge`
