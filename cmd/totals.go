// =============================================================================
// Revenue Reconciler - Totals Command
// =============================================================================
//
// This file defines the 'totals' command, which prints the per-carrier and
// airport totals of a report.
//
// COMMAND USAGE:
//   reconciler totals --date 2025-11-05
//   reconciler totals --month 2025-11 [--stored]
//   reconciler totals --from 2025-11-01 --to 2025-11-15 [--json]
//
// OUTPUT:
//   One row per carrier (services EUR, bookings EUR, total EUR,
//   remuneration KM, commission KM), then the airport level totals in KM.
//
// =============================================================================

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/airport-ops/revenue-reconciler/internal/aggregator"
	"github.com/airport-ops/revenue-reconciler/internal/service"
	"github.com/airport-ops/revenue-reconciler/internal/types"
)

var (
	totalsPeriod periodFlags
	totalsJSON   bool
)

var totalsCmd = &cobra.Command{
	Use:   "totals",
	Short: "Show carrier and airport totals of a report",
	Long: `The totals command computes the monthly totals of a report: for each
carrier the services and bookings in EUR with their sum, the airport
remuneration and commission in KM, and for the airport the slot amounts,
adjustments and grand total in KM. Every total is rounded to 2 decimals.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runTotals(cmd)
	},
}

func init() {
	rootCmd.AddCommand(totalsCmd)

	totalsPeriod.register(totalsCmd)

	// --json flag: machine-readable output.
	totalsCmd.Flags().BoolVar(
		&totalsJSON,
		"json",
		false,
		"Print totals as JSON",
	)
}

// totalsView is the JSON shape of the command output.
type totalsView struct {
	Period   string                       `json:"period"`
	Carriers map[string]aggregator.Totals `json:"carriers"`
	Airport  aggregator.AirportLevel      `json:"airport"`
}

func runTotals(cmd *cobra.Command) error {
	a, err := setupApp()
	if err != nil {
		return err
	}
	defer a.Close()

	report, _, err := totalsPeriod.resolve(commandContext(cmd), service.NewReportService(a.store, a.logger))
	if err != nil {
		return err
	}

	if totalsJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(newTotalsView(report)); err != nil {
			return fmt.Errorf("failed to encode totals: %w", err)
		}
		return nil
	}

	out, err := renderTotals(report)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

// newTotalsView computes the totals of every carrier that has a report.
func newTotalsView(report *types.DailyReport) totalsView {
	view := totalsView{
		Period:   report.Date,
		Carriers: make(map[string]aggregator.Totals, len(report.CarrierOrder)),
		Airport:  aggregator.AirportTotals(report),
	}
	for _, key := range report.CarrierOrder {
		if report.Carrier(key) != nil {
			view.Carriers[key] = aggregator.CarrierTotals(report, key)
		}
	}
	return view
}

// renderTotals formats the carrier and airport tables of report.
func renderTotals(report *types.DailyReport) (string, error) {
	carriers := pterm.TableData{{"Carrier", "Services EUR", "Bookings EUR", "Total EUR", "Remuneration KM", "Commission KM"}}
	for _, key := range report.CarrierOrder {
		carrier := report.Carrier(key)
		if carrier == nil {
			continue
		}
		t := aggregator.CarrierTotals(report, key)
		carriers = append(carriers, []string{
			carrier.Label,
			money(t.ServicesEur),
			money(t.BookingsEur),
			money(t.TotalEur),
			money(t.AirportRemunerationKm),
			money(t.CommissionKm),
		})
	}

	airport := aggregator.AirportTotals(report)
	airportData := pterm.TableData{
		{"Airport", "KM"},
		{"Services", money(airport.ServicesKm)},
		{"Adjustments", money(airport.AdjustmentsKm)},
		{"Remuneration", money(airport.RemunerationKm)},
		{"Commission", money(airport.CommissionKm)},
		{pterm.Bold.Sprint("Total"), pterm.Bold.Sprint(money(airport.TotalKm))},
	}

	carrierTable, err := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithRightAlignment().
		WithData(carriers).
		Srender()
	if err != nil {
		return "", fmt.Errorf("failed to render carrier totals: %w", err)
	}
	airportTable, err := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithRightAlignment().
		WithData(airportData).
		Srender()
	if err != nil {
		return "", fmt.Errorf("failed to render airport totals: %w", err)
	}

	return pterm.DefaultBox.
		WithTitle(report.Date).
		WithBoxStyle(pterm.NewStyle(pterm.FgCyan)).
		Sprint(carrierTable + "\n\n" + airportTable), nil
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
