// =============================================================================
// Revenue Reconciler - Report Aggregator
// =============================================================================
//
// This module merges any number of reports (usually the daily reports of a
// month) into one range report.
//
// MERGE RULES:
//   - Airport services are matched by slot id; qty and amountOverride add up
//   - Carriers keep the order in which they were first seen
//   - A carrier's label is taken from the last report that names it
//   - Carrier services are matched with types.SameService; qty and
//     amountOverride add up, unmatched items are appended with a new id
//   - Each input report contributes at most one synthetic booking
//     transaction per carrier, holding that report's folded totals
//   - Adjustments add up
//
// GUARANTEES:
//   Quantities and money are conserved, and merging is associative:
//   Aggregate([Aggregate([a, b]), c]) has the same totals as
//   Aggregate([a, b, c]). Inputs are never modified.
//
// =============================================================================

package aggregator

import (
	"errors"
	"sort"

	"github.com/airport-ops/revenue-reconciler/internal/types"
)

// ErrNoReports is returned when there is nothing to aggregate. Callers
// should treat it as "no data for this period".
var ErrNoReports = errors.New("no reports to aggregate")

// Aggregate merges reports into one report labelled label.
// Nil entries are skipped; a list with no non-nil report yields ErrNoReports.
func Aggregate(reports []*types.DailyReport, label string) (*types.DailyReport, error) {
	present := 0
	for _, r := range reports {
		if r != nil {
			present++
		}
	}
	if present == 0 {
		return nil, ErrNoReports
	}

	out := &types.DailyReport{
		Date:            label,
		CarrierOrder:    []types.CarrierKey{},
		Carriers:        map[types.CarrierKey]*types.CarrierReport{},
		AirportServices: scaffold(),
	}

	for _, r := range reports {
		if r == nil {
			continue
		}
		out.AdjustmentsAmount += r.AdjustmentsAmount
		mergeAirport(out, r.AirportServices)

		for _, key := range carrierKeys(r) {
			src := r.Carriers[key]
			dst := out.EnsureCarrier(key, src.Label)
			if src.Label != "" {
				dst.Label = src.Label
			}
			mergeServices(dst, src.Services)

			if totals := src.Totals(); !totals.IsZero() {
				dst.Bookings.Transactions = append(dst.Bookings.Transactions, types.NewBookingTransaction(totals))
			}
		}
	}

	return out, nil
}

// scaffold returns the airport slots zeroed, so slots with no activity in the
// whole range still appear.
func scaffold() []types.ServiceItem {
	items := types.DefaultAirportServices()
	for i := range items {
		items[i].Qty = 0
		if items[i].AmountOverride != nil {
			items[i].AmountOverride = types.Float(0)
		}
	}
	return items
}

func mergeAirport(out *types.DailyReport, items []types.ServiceItem) {
	for _, item := range items {
		target := out.AirportService(item.ID)
		if target == nil {
			added := item
			added.Qty = 0
			added.AmountOverride = nil
			if added.ID == "" {
				added = types.NewServiceItem(added)
			}
			out.AirportServices = append(out.AirportServices, added)
			target = &out.AirportServices[len(out.AirportServices)-1]
		}
		target.Qty += item.Qty
		if item.AmountOverride != nil {
			target.AddOverride(*item.AmountOverride)
		}
	}
}

func mergeServices(dst *types.CarrierReport, items []types.ServiceItem) {
	for _, item := range items {
		if existing := types.FindService(dst.Services, item); existing != nil {
			existing.Qty += item.Qty
			if item.AmountOverride != nil {
				existing.AddOverride(*item.AmountOverride)
			}
			continue
		}
		dst.Services = append(dst.Services, types.NewServiceItem(item))
	}
}

// carrierKeys returns the carriers of r in report order. Carriers missing
// from CarrierOrder follow in key order so the result never depends on map
// iteration.
func carrierKeys(r *types.DailyReport) []types.CarrierKey {
	keys := make([]types.CarrierKey, 0, len(r.Carriers))
	seen := make(map[types.CarrierKey]bool, len(r.Carriers))
	for _, key := range r.CarrierOrder {
		if seen[key] || r.Carriers[key] == nil {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}
	var rest []types.CarrierKey
	for key, c := range r.Carriers {
		if !seen[key] && c != nil {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}
