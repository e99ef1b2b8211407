package types

import (
	"sort"

	"github.com/google/uuid"
)

// Clone returns a deep copy of the report. Service ids are kept.
func (r *DailyReport) Clone() *DailyReport {
	if r == nil {
		return nil
	}
	out := &DailyReport{
		Date:              r.Date,
		CarrierOrder:      append([]CarrierKey{}, r.CarrierOrder...),
		Carriers:          make(map[CarrierKey]*CarrierReport, len(r.Carriers)),
		AirportServices:   cloneServices(r.AirportServices),
		AdjustmentsAmount: r.AdjustmentsAmount,
	}
	for key, c := range r.Carriers {
		if c == nil {
			continue
		}
		out.Carriers[key] = &CarrierReport{
			Label:    c.Label,
			Services: cloneServices(c.Services),
			Bookings: Bookings{Transactions: append([]BookingTransaction{}, c.Bookings.Transactions...)},
		}
	}
	return out
}

func cloneServices(items []ServiceItem) []ServiceItem {
	out := make([]ServiceItem, len(items))
	for i, item := range items {
		item.AmountOverride = copyFloat(item.AmountOverride)
		out[i] = item
	}
	return out
}

// Normalize repairs a report decoded from storage or from a hand-edited
// file so that the rest of the pipeline can rely on its shape:
//   - a missing CarrierOrder is rebuilt from the carrier keys (sorted)
//   - carriers listed in CarrierOrder but absent are created empty
//   - carriers present but missing from CarrierOrder are appended (sorted)
//   - nil slices become empty, missing ids are generated
//   - empty labels fall back to the known label or the key
//   - a missing airport scaffold is replaced by the default slots
//
// The report is modified in place and returned.
func Normalize(r *DailyReport) *DailyReport {
	if r == nil {
		return nil
	}
	if r.Carriers == nil {
		r.Carriers = map[CarrierKey]*CarrierReport{}
	}

	seen := make(map[CarrierKey]bool, len(r.CarrierOrder))
	order := make([]CarrierKey, 0, len(r.Carriers))
	for _, key := range r.CarrierOrder {
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		order = append(order, key)
	}
	var extra []CarrierKey
	for key := range r.Carriers {
		if !seen[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	r.CarrierOrder = append(order, extra...)

	for _, key := range r.CarrierOrder {
		c := r.Carriers[key]
		if c == nil {
			c = NewCarrierReport(CarrierLabel(key))
			r.Carriers[key] = c
		}
		if c.Label == "" {
			c.Label = CarrierLabel(key)
		}
		if c.Services == nil {
			c.Services = []ServiceItem{}
		}
		if c.Bookings.Transactions == nil {
			c.Bookings.Transactions = []BookingTransaction{}
		}
		ensureIDs(c.Services)
		for i := range c.Bookings.Transactions {
			if c.Bookings.Transactions[i].ID == "" {
				c.Bookings.Transactions[i].ID = uuid.NewString()
			}
		}
	}

	if r.AirportServices == nil {
		r.AirportServices = DefaultAirportServices()
	}
	ensureIDs(r.AirportServices)
	return r
}

func ensureIDs(items []ServiceItem) {
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.NewString()
		}
	}
}
