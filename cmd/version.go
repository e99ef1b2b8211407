// =============================================================================
// Revenue Reconciler - Version Command
// =============================================================================
//
// This file defines the 'version' command, which displays the build and the
// setup the other commands would run with.
//
// COMMAND USAGE:
//   reconciler version
//
// OUTPUT:
//   Revenue Reconciler 0.3.0 (built 2025-11-30, go1.24.11)
//   Billing codes: 22 (9 fee, 4 booking, 1 commission, 8 extra)
//   Config:        config.yaml
//   Store:         sqlite ./reports.db
//   Input dir:     ./input
//
// The config lines are replaced by a single "Config: ... (not loaded: ...)"
// line when the configuration cannot be read. The store is never opened.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/airport-ops/revenue-reconciler/internal/codemap"
	"github.com/airport-ops/revenue-reconciler/internal/config"
)

// Set at build time:
//   go build -ldflags "-X 'github.com/airport-ops/revenue-reconciler/cmd.Version=0.3.0'"
var (
	Version   = "0.3.0"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the version and active setup",
	Long: `Display the application version, the size of the billing code table and
the store and directories taken from the configuration file.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load(cfgFile)
		writeVersion(cmd.OutOrStdout(), codemap.Entries(), cfgFile, cfg, err)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// writeVersion prints the build line, the code table summary and either the
// loaded configuration or why it could not be loaded.
func writeVersion(w io.Writer, entries []codemap.Entry, cfgPath string, cfg *config.Config, cfgErr error) {
	fmt.Fprintf(w, "Revenue Reconciler %s (built %s, %s)\n", Version, BuildDate, runtime.Version())

	counts := map[codemap.Kind]int{}
	for _, e := range entries {
		counts[e.Kind]++
	}
	var kinds []string
	for _, k := range []codemap.Kind{codemap.KindFee, codemap.KindBooking, codemap.KindCommission, codemap.KindExtra} {
		kinds = append(kinds, fmt.Sprintf("%d %s", counts[k], k))
	}
	fmt.Fprintf(w, "Billing codes: %d (%s)\n", len(entries), strings.Join(kinds, ", "))

	if cfgErr != nil || cfg == nil {
		fmt.Fprintf(w, "Config:        %s (not loaded: %v)\n", cfgPath, cfgErr)
		return
	}
	fmt.Fprintf(w, "Config:        %s\n", cfgPath)
	fmt.Fprintf(w, "Store:         %s %s\n", cfg.Database.Driver, redactDSN(cfg.Database))
	fmt.Fprintf(w, "Input dir:     %s\n", cfg.InputDir)
}

// redactDSN hides the postgres connection string, which may carry a password.
func redactDSN(db config.DatabaseConfig) string {
	if db.Driver == "postgres" {
		return "(dsn hidden)"
	}
	return db.DSN
}
