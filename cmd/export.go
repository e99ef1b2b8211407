// =============================================================================
// Revenue Reconciler - Export Command
// =============================================================================
//
// This file defines the 'export' command, which writes a report to an XLSX
// workbook.
//
// COMMAND USAGE:
//   reconciler export --month 2025-11 [--carrier wizz] [--out file.xlsx]
//
// FLAGS:
//   --carrier : Only this carrier's totals and sheet
//   --title   : Title written above the summary
//   --out     : Output path. Default: output_name_format in the output directory
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/airport-ops/revenue-reconciler/internal/service"
	"github.com/airport-ops/revenue-reconciler/internal/xlsxwriter"
)

var (
	exportPeriod  periodFlags
	exportCarrier string
	exportTitle   string
	exportOut     string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a report to an XLSX workbook",
	Long: `The export command renders a stored or aggregated report into a workbook
with a summary sheet and one sheet per carrier.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportPeriod.register(exportCmd)

	exportCmd.Flags().StringVar(&exportCarrier, "carrier", "", "Only export this carrier (e.g. wizz, pegasus, ajet)")
	exportCmd.Flags().StringVar(&exportTitle, "title", "", "Title written above the summary")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output workbook path")
}

func runExport(cmd *cobra.Command) error {
	a, err := setupApp()
	if err != nil {
		return err
	}
	defer a.Close()

	report, p, err := exportPeriod.resolve(commandContext(cmd), service.NewReportService(a.store, a.logger))
	if err != nil {
		return err
	}

	path := exportOut
	if path == "" {
		if err := a.files.EnsureDirectories(); err != nil {
			return err
		}
		kind := p.kind
		if exportCarrier != "" {
			kind += "_" + exportCarrier
		}
		path = a.files.OutputPath(a.cfg.OutputNameFormat, map[string]string{
			"type":   kind,
			"period": p.label,
		})
	}

	opts := xlsxwriter.Options{Title: exportTitle, Carrier: exportCarrier}
	if err := xlsxwriter.WriteFile(path, report, opts); err != nil {
		return fmt.Errorf("failed to export %s: %w", report.Date, err)
	}

	pterm.Success.Printfln("Exported %s to %s", report.Date, path)
	return nil
}
