package validation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airport-ops/revenue-reconciler/internal/types"
)

func fields(errs []*ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Field
	}
	return out
}

func TestValidate_FreshReportIsValid(t *testing.T) {
	r := types.NewDailyReport("2025-11-05")
	errs := Validate(r, Options{RequireISODate: true})
	assert.Empty(t, errs)
	assert.False(t, HasErrors(errs))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(r *types.DailyReport)
		opts       Options
		wantField  string
		wantErrors bool
	}{
		{
			name:       "non ISO date",
			mutate:     func(r *types.DailyReport) { r.Date = "05.11.2025" },
			opts:       Options{RequireISODate: true},
			wantField:  "date",
			wantErrors: true,
		},
		{
			name:       "empty range label",
			mutate:     func(r *types.DailyReport) { r.Date = " " },
			wantField:  "date",
			wantErrors: true,
		},
		{
			name:       "carrier listed twice",
			mutate:     func(r *types.DailyReport) { r.CarrierOrder = append(r.CarrierOrder, types.CarrierWizz) },
			wantField:  "carrierOrder[3]",
			wantErrors: true,
		},
		{
			name:       "ordered carrier without report",
			mutate:     func(r *types.DailyReport) { r.CarrierOrder = append(r.CarrierOrder, "ghost") },
			wantField:  "carrierOrder[3]",
			wantErrors: true,
		},
		{
			name:       "carrier missing from order",
			mutate:     func(r *types.DailyReport) { r.Carriers["ghost"] = types.NewCarrierReport("Ghost") },
			wantField:  "carriers.ghost",
			wantErrors: true,
		},
		{
			name: "duplicate service code",
			mutate: func(r *types.DailyReport) {
				r.Carriers[types.CarrierWizz].Services = []types.ServiceItem{
					{ID: "1", Code: "US1035", Label: "Check in"},
					{ID: "2", Code: "US1035", Label: "Check in again"},
				}
			},
			wantField:  "carriers.wizz.services[1]",
			wantErrors: true,
		},
		{
			name: "duplicate service tuple",
			mutate: func(r *types.DailyReport) {
				item := types.ServiceItem{Label: "Bag", Price: 10, Currency: "EUR", Unit: "bag"}
				r.Carriers[types.CarrierAjet].Services = []types.ServiceItem{item, item}
			},
			wantField:  "carriers.ajet.services[1]",
			wantErrors: true,
		},
		{
			name:       "duplicate airport slot",
			mutate:     func(r *types.DailyReport) { r.AirportServices = append(r.AirportServices, r.AirportServices[0]) },
			wantField:  "airportServices[4]",
			wantErrors: true,
		},
		{
			name: "non finite amount",
			mutate: func(r *types.DailyReport) {
				r.Carriers[types.CarrierPegasus].Bookings.Transactions = []types.BookingTransaction{{AmountEur: math.Inf(1)}}
			},
			wantField:  "carriers.pegasus.bookings.transactions[0].amountEur",
			wantErrors: true,
		},
		{
			name:       "non finite adjustments",
			mutate:     func(r *types.DailyReport) { r.AdjustmentsAmount = math.NaN() },
			wantField:  "adjustmentsAmount",
			wantErrors: true,
		},
		{
			name: "negative quantity is a warning",
			mutate: func(r *types.DailyReport) {
				r.Carriers[types.CarrierWizz].Services = []types.ServiceItem{{Code: "US1035", Qty: -1}}
			},
			wantField:  "carriers.wizz.services[0].qty",
			wantErrors: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := types.NewDailyReport("2025-11-05")
			tt.mutate(r)

			errs := Validate(r, tt.opts)
			require.NotEmpty(t, errs)
			assert.Contains(t, fields(errs), tt.wantField)
			assert.Equal(t, tt.wantErrors, HasErrors(errs))
		})
	}
}

func TestValidate_NilReport(t *testing.T) {
	errs := Validate(nil, Options{})
	require.Len(t, errs, 1)
	assert.True(t, HasErrors(errs))
}

func TestFormatErrors(t *testing.T) {
	assert.Equal(t, "No validation errors.", FormatErrors(nil))

	out := FormatErrors([]*ValidationError{{Severity: SeverityError, Field: "date", Message: "bad"}})
	assert.Contains(t, out, "Found 1 validation problem(s)")
	assert.Contains(t, out, "[error] date: bad")
}
