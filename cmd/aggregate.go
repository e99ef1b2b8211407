// =============================================================================
// Revenue Reconciler - Aggregate Command
// =============================================================================
//
// This file defines the 'aggregate' command, which merges the stored daily
// reports of a month or date range into one report.
//
// COMMAND USAGE:
//   reconciler aggregate --month 2025-11 [--save] [--out report.json]
//   reconciler aggregate --from 2025-11-01 --to 2025-11-15
//
// FLAGS:
//   --save : Store the result as the MONTHLY report of its month
//   --out  : Write the report JSON to a file instead of stdout
//
// =============================================================================

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/airport-ops/revenue-reconciler/internal/service"
	"github.com/airport-ops/revenue-reconciler/internal/types"
)

var (
	aggregatePeriod periodFlags
	aggregateSave   bool
	aggregateOut    string
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Merge stored daily reports into one report",
	Long: `The aggregate command merges every DAILY report of a month or date range
into a single report: service quantities add up, each daily booking rollup
becomes one transaction, and airport slots add their quantities and amounts.

The merged report is printed as JSON. With --save it is also stored as the
MONTHLY report of its month.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runAggregate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(aggregateCmd)

	aggregatePeriod.register(aggregateCmd)

	// --save flag: persist the merge as the month's MONTHLY report.
	aggregateCmd.Flags().BoolVar(
		&aggregateSave,
		"save",
		false,
		"Store the merged report as the monthly report of its month",
	)

	// --out flag: JSON destination.
	aggregateCmd.Flags().StringVar(
		&aggregateOut,
		"out",
		"",
		"Write the report JSON to this file instead of stdout",
	)
}

func runAggregate(cmd *cobra.Command) error {
	if aggregatePeriod.date != "" || aggregatePeriod.stored {
		return fmt.Errorf("aggregate works on --month or --from/--to")
	}
	ctx := commandContext(cmd)

	a, err := setupApp()
	if err != nil {
		return err
	}
	defer a.Close()

	svc := service.NewReportService(a.store, a.logger)

	spinner, _ := pterm.DefaultSpinner.Start("Aggregating daily reports...")
	report, _, err := aggregatePeriod.resolve(ctx, svc)
	if err != nil {
		spinner.Fail(err.Error())
		return err
	}
	spinner.Success(fmt.Sprintf("Aggregated %s", report.Date))

	if aggregateSave {
		month, err := aggregatePeriod.monthOf()
		if err != nil {
			return err
		}
		if err := svc.SaveMonthly(ctx, month, report); err != nil {
			return err
		}
		pterm.Success.Printfln("Saved as monthly report %s", month.Format("2006-01"))
	}

	if aggregateOut == "" {
		return writeReportJSON(cmd.OutOrStdout(), report)
	}

	file, err := os.Create(aggregateOut)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", aggregateOut, err)
	}
	defer file.Close()
	if err := writeReportJSON(file, report); err != nil {
		return err
	}
	pterm.Success.Printfln("Report written to %s", aggregateOut)
	return nil
}

func writeReportJSON(w io.Writer, report *types.DailyReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}
