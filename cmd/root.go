// =============================================================================
// Revenue Reconciler - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every other command
// is attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (reconciler)
//   ├── importCmd    (reconciler import)
//   ├── aggregateCmd (reconciler aggregate)
//   ├── totalsCmd    (reconciler totals)
//   ├── exportCmd    (reconciler export)
//   ├── codesCmd     (reconciler codes)
//   └── versionCmd   (reconciler version)
//
// CONFIGURATION:
//   The root command owns the global flags (--config, --verbose). Commands
//   that need configuration, logging or the report store call setupApp,
//   which loads all three in that order.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/airport-ops/revenue-reconciler/internal/config"
	"github.com/airport-ops/revenue-reconciler/internal/logger"
	"github.com/airport-ops/revenue-reconciler/internal/store"
	"github.com/airport-ops/revenue-reconciler/pkg/utils"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "reconciler",
	Short: "Revenue Reconciler - Daily airline revenue reports from accounting exports",

	Long: `Revenue Reconciler imports the daily accounting exports of an airport
ground-handling office, stores them as structured daily reports, and merges
any date range into a single report with per-carrier and airport totals.

Key Features:
  - XLSX and CSV exports, with legacy code-page decoding
  - Fixed billing code table for Wizz Air, Pegasus and Ajet
  - Daily and monthly report storage (SQLite or PostgreSQL)
  - Range aggregation with EUR/KM totals rounded to 2 decimals
  - Workbook export of any stored or aggregated report

Example Usage:
  reconciler import                          # Import every export in the input directory
  reconciler import ./export_05_11.xlsx      # Import a single export
  reconciler aggregate --month 2025-11 --save
  reconciler totals --from 2025-11-01 --to 2025-11-15
  reconciler export --month 2025-11 --carrier wizz`,

	// Failed imports and missing reports are not usage errors. Execute
	// prints the error itself.
	SilenceUsage:  true,
	SilenceErrors: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	// --config flag: path to the main configuration file (YAML or TOML).
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file (default is config.yaml)",
	)

	// --verbose flag: forces debug logging regardless of log_level.
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// =============================================================================
// APPLICATION SETUP
// =============================================================================

// app bundles what the commands share.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *store.GormStore
	files  *utils.FileManager
}

// setupApp loads configuration, builds the logger and opens the store.
//
// RETURNS:
//   - The assembled app. The caller must call Close.
//   - An error if any step fails.
func setupApp() (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load main config: %w", err)
	}

	log, err := logger.New(logger.FromAppConfig(cfg, verbose))
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	st, err := store.Open(cfg.Database, log)
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("failed to open report store: %w", err)
	}

	return &app{
		cfg:    cfg,
		logger: log,
		store:  st,
		files:  utils.NewFileManager(cfg.InputDir, cfg.OutputDir, cfg.InputArchiveDir),
	}, nil
}

// Close releases the store and flushes the logger.
func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close report store", zap.Error(err))
	}
	_ = a.logger.Sync()
}
