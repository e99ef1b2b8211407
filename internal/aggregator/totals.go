package aggregator

import (
	"github.com/shopspring/decimal"

	"github.com/airport-ops/revenue-reconciler/internal/types"
)

// Totals are the money figures of one carrier in a report.
type Totals struct {
	ServicesEur           float64 `json:"servicesEur"`
	BookingsEur           float64 `json:"bookingsEur"`
	TotalEur              float64 `json:"totalEur"`
	AirportRemunerationKm float64 `json:"airportRemunerationKm"`
	CommissionKm          float64 `json:"commissionKm"`
}

// AirportLevel are the airport-side figures of a report, all in KM.
type AirportLevel struct {
	ServicesKm     float64 `json:"servicesKm"`
	AdjustmentsKm  float64 `json:"adjustmentsKm"`
	RemunerationKm float64 `json:"remunerationKm"`
	CommissionKm   float64 `json:"commissionKm"`
	TotalKm        float64 `json:"totalKm"`
}

// CarrierTotals computes the totals of carrier key in report. A carrier that
// is not in the report yields zero totals.
func CarrierTotals(report *types.DailyReport, key types.CarrierKey) Totals {
	carrier := report.Carrier(key)
	if carrier == nil {
		return Totals{}
	}

	var t Totals
	for _, s := range carrier.Services {
		t.ServicesEur += s.Amount()
	}
	bookings := carrier.Totals()
	t.BookingsEur = bookings.AmountEur
	t.AirportRemunerationKm = bookings.AirportRemunerationKm
	t.CommissionKm = bookings.CommissionKm
	t.TotalEur = round2(t.ServicesEur + t.BookingsEur)
	return t
}

// AirportTotals sums the airport slots, the adjustments and the remuneration
// and commission booked across all carriers.
func AirportTotals(report *types.DailyReport) AirportLevel {
	var a AirportLevel
	if report == nil {
		return a
	}
	for _, s := range report.AirportServices {
		a.ServicesKm += s.Amount()
	}
	a.AdjustmentsKm = report.AdjustmentsAmount
	for _, key := range report.CarrierOrder {
		t := report.Carrier(key).Totals()
		a.RemunerationKm += t.AirportRemunerationKm
		a.CommissionKm += t.CommissionKm
	}
	a.TotalKm = round2(a.ServicesKm + a.AdjustmentsKm + a.RemunerationKm + a.CommissionKm)
	return a
}

// round2 rounds to cents, half away from zero.
func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
