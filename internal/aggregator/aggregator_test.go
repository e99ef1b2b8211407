package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airport-ops/revenue-reconciler/internal/types"
)

func checkIn(qty float64) types.ServiceItem {
	return types.NewServiceItem(types.ServiceItem{
		Label: "Airport Check in", Code: "US1035", Unit: "kom", Price: 40, Currency: types.CurrencyEUR, Qty: qty,
	})
}

func dayReport(date string, checkIns, pax, amount, commission, pvc, donation, adjustments float64) *types.DailyReport {
	r := types.NewDailyReport(date)
	wizz := r.Carriers[types.CarrierWizz]
	if checkIns != 0 {
		wizz.Services = append(wizz.Services, checkIn(checkIns))
	}
	if pax != 0 || amount != 0 || commission != 0 {
		wizz.Bookings.Transactions = append(wizz.Bookings.Transactions, types.NewBookingTransaction(types.BookingTotals{
			Pax: pax, AmountEur: amount, CommissionKm: commission,
		}))
	}
	r.AirportService(types.AirportPVC).Qty = pvc
	r.AirportService(types.AirportDonation).AmountOverride = types.Float(donation)
	r.AdjustmentsAmount = adjustments
	return r
}

// snapshot flattens the measured quantities of a report for comparison.
type snapshot struct {
	serviceQty  map[string]float64
	airportQty  map[string]float64
	airportAmt  map[string]float64
	bookings    map[types.CarrierKey]types.BookingTotals
	adjustments float64
}

func snap(r *types.DailyReport) snapshot {
	s := snapshot{
		serviceQty:  map[string]float64{},
		airportQty:  map[string]float64{},
		airportAmt:  map[string]float64{},
		bookings:    map[types.CarrierKey]types.BookingTotals{},
		adjustments: r.AdjustmentsAmount,
	}
	for _, key := range r.CarrierOrder {
		c := r.Carriers[key]
		for _, item := range c.Services {
			s.serviceQty[key+"/"+item.Code+"/"+item.Label] += item.Qty
		}
		s.bookings[key] = c.Totals()
	}
	for _, item := range r.AirportServices {
		s.airportQty[item.ID] += item.Qty
		s.airportAmt[item.ID] += item.Amount()
	}
	return s
}

func assertSameTotals(t *testing.T, want, got snapshot) {
	t.Helper()
	assert.InDelta(t, want.adjustments, got.adjustments, 1e-9)
	assert.Equal(t, len(want.serviceQty), len(got.serviceQty))
	for k, v := range want.serviceQty {
		assert.InDelta(t, v, got.serviceQty[k], 1e-9, k)
	}
	for k, v := range want.airportQty {
		assert.InDelta(t, v, got.airportQty[k], 1e-9, k)
		assert.InDelta(t, want.airportAmt[k], got.airportAmt[k], 1e-9, k)
	}
	for k, v := range want.bookings {
		g := got.bookings[k]
		assert.InDelta(t, v.Pax, g.Pax, 1e-9, k)
		assert.InDelta(t, v.AmountEur, g.AmountEur, 1e-9, k)
		assert.InDelta(t, v.CommissionKm, g.CommissionKm, 1e-9, k)
		assert.InDelta(t, v.AirportRemunerationKm, g.AirportRemunerationKm, 1e-9, k)
	}
}

func TestAggregate_NoReports(t *testing.T) {
	tests := []struct {
		name    string
		reports []*types.DailyReport
	}{
		{name: "nil list", reports: nil},
		{name: "empty list", reports: []*types.DailyReport{}},
		{name: "only nil entries", reports: []*types.DailyReport{nil, nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Aggregate(tt.reports, "2025-11-01 - 2025-11-30")
			assert.ErrorIs(t, err, ErrNoReports)
			assert.Nil(t, out)
		})
	}
}

func TestAggregate_FeeAccumulation(t *testing.T) {
	a := dayReport("2025-11-01", 10, 0, 0, 0, 0, 0, 0)
	b := dayReport("2025-11-02", 5, 0, 0, 0, 0, 0, 0)

	out, err := Aggregate([]*types.DailyReport{a, b}, "2025-11-01 - 2025-11-02")
	require.NoError(t, err)

	assert.Equal(t, "2025-11-01 - 2025-11-02", out.Date)
	services := out.Carriers[types.CarrierWizz].Services
	require.Len(t, services, 1)
	assert.Equal(t, "US1035", services[0].Code)
	assert.Equal(t, 15.0, services[0].Qty)
	assert.Equal(t, 600.0, services[0].Amount())
}

func TestAggregate_SingleInputIdentity(t *testing.T) {
	a := dayReport("2025-11-01", 3, 12, 480.5, 20, 4, 15, -7.5)

	out, err := Aggregate([]*types.DailyReport{a}, "2025-11-01 - 2025-11-01")
	require.NoError(t, err)

	assertSameTotals(t, snap(a), snap(out))
	assert.Equal(t, CarrierTotals(a, types.CarrierWizz), CarrierTotals(out, types.CarrierWizz))
}

func TestAggregate_Associative(t *testing.T) {
	a := dayReport("2025-11-01", 3, 12, 480.5, 20, 4, 15, -7.5)
	b := dayReport("2025-11-02", 0, 7, 210.25, 0, 1, 0, 2)
	c := dayReport("2025-11-03", 8, 0, 0, 5, 0, 30.1, 0)
	c.Carriers[types.CarrierAjet].Services = append(c.Carriers[types.CarrierAjet].Services,
		types.NewServiceItem(types.ServiceItem{Label: "Bag", Price: 10, Currency: types.CurrencyEUR, Unit: "kom", Qty: 2}))

	ab, err := Aggregate([]*types.DailyReport{a, b}, "ab")
	require.NoError(t, err)
	nested, err := Aggregate([]*types.DailyReport{ab, c}, "abc")
	require.NoError(t, err)
	flat, err := Aggregate([]*types.DailyReport{a, b, c}, "abc")
	require.NoError(t, err)

	assertSameTotals(t, snap(flat), snap(nested))
}

func TestAggregate_Conservation(t *testing.T) {
	inputs := []*types.DailyReport{
		dayReport("2025-11-01", 1, 2, 100.1, 1, 1, 1, 1),
		dayReport("2025-11-02", 2, 3, 200.2, 2, 2, 2, 2),
		dayReport("2025-11-03", 3, 4, 300.3, 3, 3, 3, 3),
	}

	out, err := Aggregate(inputs, "range")
	require.NoError(t, err)

	var qty, amount float64
	for _, r := range inputs {
		qty += r.Carriers[types.CarrierWizz].Services[0].Qty
		amount += r.Carriers[types.CarrierWizz].Totals().AmountEur
	}
	assert.InDelta(t, qty, out.Carriers[types.CarrierWizz].Services[0].Qty, 1e-9)
	assert.InDelta(t, amount, out.Carriers[types.CarrierWizz].Totals().AmountEur, 1e-9)
	assert.InDelta(t, 6.0, out.AirportService(types.AirportPVC).Qty, 1e-9)
	assert.InDelta(t, 6.0, *out.AirportService(types.AirportDonation).AmountOverride, 1e-9)
	assert.InDelta(t, 6.0, out.AdjustmentsAmount, 1e-9)
}

func TestAggregate_OneTransactionPerInputPerCarrier(t *testing.T) {
	a := dayReport("2025-11-01", 0, 2, 100, 0, 0, 0, 0)
	a.Carriers[types.CarrierWizz].Bookings.Transactions = append(a.Carriers[types.CarrierWizz].Bookings.Transactions,
		types.NewBookingTransaction(types.BookingTotals{Pax: 1, AmountEur: 50}))
	b := dayReport("2025-11-02", 0, 0, 0, 0, 0, 0, 0)
	c := dayReport("2025-11-03", 0, 1, 10, 0, 0, 0, 0)

	out, err := Aggregate([]*types.DailyReport{a, b, c}, "range")
	require.NoError(t, err)

	txns := out.Carriers[types.CarrierWizz].Bookings.Transactions
	require.Len(t, txns, 2)
	assert.Equal(t, 3.0, txns[0].Pax)
	assert.Equal(t, 150.0, txns[0].AmountEur)
	assert.Equal(t, 10.0, txns[1].AmountEur)
	assert.Empty(t, txns[0].PNR)
	assert.NotEqual(t, txns[0].ID, txns[1].ID)

	assert.Empty(t, out.Carriers[types.CarrierPegasus].Bookings.Transactions)
}

func TestAggregate_CarrierOrderAndLabels(t *testing.T) {
	a := types.NewDailyReport("2025-11-01")
	a.EnsureCarrier("tk", "Turkish")

	b := types.NewDailyReport("2025-11-02")
	b.CarrierOrder = []types.CarrierKey{types.CarrierAjet, "lh", types.CarrierWizz, types.CarrierPegasus}
	b.Carriers["lh"] = types.NewCarrierReport("Lufthansa")
	b.Carriers[types.CarrierWizz].Label = "Wizz Air Malta"

	out, err := Aggregate([]*types.DailyReport{a, b}, "range")
	require.NoError(t, err)

	assert.Equal(t, []types.CarrierKey{types.CarrierWizz, types.CarrierPegasus, types.CarrierAjet, "tk", "lh"}, out.CarrierOrder)
	assert.Equal(t, "Wizz Air Malta", out.Carriers[types.CarrierWizz].Label)
	assert.Equal(t, "Turkish", out.Carriers["tk"].Label)
}

func TestAggregate_CarriersOutsideOrderAreSorted(t *testing.T) {
	r := &types.DailyReport{
		Date: "2025-11-01",
		Carriers: map[types.CarrierKey]*types.CarrierReport{
			"zz": types.NewCarrierReport("Z"),
			"aa": types.NewCarrierReport("A"),
		},
	}

	out, err := Aggregate([]*types.DailyReport{r}, "range")
	require.NoError(t, err)
	assert.Equal(t, []types.CarrierKey{"aa", "zz"}, out.CarrierOrder)
}

func TestAggregate_TupleIdentityMerge(t *testing.T) {
	bag := types.ServiceItem{Label: "Bag", Price: 10, Currency: types.CurrencyEUR, Unit: "kom"}

	a := types.NewDailyReport("2025-11-01")
	item := bag
	item.Qty = 2
	a.Carriers[types.CarrierAjet].Services = []types.ServiceItem{types.NewServiceItem(item)}

	b := types.NewDailyReport("2025-11-02")
	item.Qty = 3
	pricier := bag
	pricier.Price = 12
	pricier.Qty = 1
	b.Carriers[types.CarrierAjet].Services = []types.ServiceItem{types.NewServiceItem(item), types.NewServiceItem(pricier)}

	out, err := Aggregate([]*types.DailyReport{a, b}, "range")
	require.NoError(t, err)

	services := out.Carriers[types.CarrierAjet].Services
	require.Len(t, services, 2)
	assert.Equal(t, 5.0, services[0].Qty)
	assert.Equal(t, 1.0, services[1].Qty)
	assert.NotEqual(t, a.Carriers[types.CarrierAjet].Services[0].ID, services[0].ID)
}

func TestAggregate_OverridesAdd(t *testing.T) {
	a := types.NewDailyReport("2025-11-01")
	a.Carriers[types.CarrierWizz].Services = []types.ServiceItem{
		{ID: "1", Code: "X1", Price: 10, Qty: 1, AmountOverride: types.Float(7)},
	}
	b := types.NewDailyReport("2025-11-02")
	b.Carriers[types.CarrierWizz].Services = []types.ServiceItem{
		{ID: "2", Code: "X1", Price: 10, Qty: 2, AmountOverride: types.Float(3)},
	}

	out, err := Aggregate([]*types.DailyReport{a, b}, "range")
	require.NoError(t, err)

	item := out.Carriers[types.CarrierWizz].Services[0]
	require.NotNil(t, item.AmountOverride)
	assert.Equal(t, 10.0, *item.AmountOverride)
	assert.Equal(t, 3.0, item.Qty)
}

// An override on either side becomes the merged item's amount; the computed
// Price*Qty of an item without one is not folded into it.
func TestAggregate_OverrideMeetsComputedAmount(t *testing.T) {
	plain := types.ServiceItem{Label: "Bag", Price: 10, Currency: types.CurrencyEUR, Unit: "kom", Qty: 1}
	overridden := plain
	overridden.AmountOverride = types.Float(1)

	tests := []struct {
		name   string
		first  types.ServiceItem
		second types.ServiceItem
	}{
		{name: "computed then override", first: plain, second: overridden},
		{name: "override then computed", first: overridden, second: plain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := types.NewDailyReport("2025-11-01")
			a.Carriers[types.CarrierAjet].Services = []types.ServiceItem{types.NewServiceItem(tt.first)}
			b := types.NewDailyReport("2025-11-02")
			b.Carriers[types.CarrierAjet].Services = []types.ServiceItem{types.NewServiceItem(tt.second)}

			out, err := Aggregate([]*types.DailyReport{a, b}, "range")
			require.NoError(t, err)

			services := out.Carriers[types.CarrierAjet].Services
			require.Len(t, services, 1)
			assert.Equal(t, 2.0, services[0].Qty)
			require.NotNil(t, services[0].AmountOverride)
			assert.Equal(t, 1.0, services[0].Amount())
		})
	}
}

func TestAggregate_AirportScaffoldAlwaysPresent(t *testing.T) {
	r := types.NewDailyReport("2025-11-01")
	r.AirportServices = nil

	out, err := Aggregate([]*types.DailyReport{r}, "range")
	require.NoError(t, err)

	require.Len(t, out.AirportServices, 4)
	for _, item := range out.AirportServices {
		assert.Zero(t, item.Qty, item.ID)
		assert.Zero(t, item.Amount(), item.ID)
	}
}

func TestAggregate_UnknownAirportSlotAppended(t *testing.T) {
	r := types.NewDailyReport("2025-11-01")
	r.AirportServices = append(r.AirportServices, types.ServiceItem{ID: "airport_lounge", Label: "Lounge", Price: 20, Qty: 2})

	out, err := Aggregate([]*types.DailyReport{r, r}, "range")
	require.NoError(t, err)

	lounge := out.AirportService("airport_lounge")
	require.NotNil(t, lounge)
	assert.Equal(t, 4.0, lounge.Qty)
	assert.Equal(t, 80.0, lounge.Amount())
}

func TestAggregate_PricedSlotKeepsComputedAmount(t *testing.T) {
	r := types.NewDailyReport("2025-11-01")
	r.AirportService(types.AirportPVC).Qty = 3

	out, err := Aggregate([]*types.DailyReport{r}, "range")
	require.NoError(t, err)

	assert.Equal(t, 15.0, out.AirportService(types.AirportPVC).Amount())
}

func TestAggregate_InputsUnchanged(t *testing.T) {
	a := dayReport("2025-11-01", 3, 12, 480.5, 20, 4, 15, -7.5)
	b := dayReport("2025-11-02", 2, 1, 10, 0, 1, 0, 2)
	wantA, wantB := a.Clone(), b.Clone()

	_, err := Aggregate([]*types.DailyReport{a, b}, "range")
	require.NoError(t, err)

	assert.Equal(t, wantA, a)
	assert.Equal(t, wantB, b)
}

func TestAggregate_SkipsNilReports(t *testing.T) {
	a := dayReport("2025-11-01", 1, 0, 0, 0, 0, 0, 0)

	out, err := Aggregate([]*types.DailyReport{nil, a, nil}, "range")
	require.NoError(t, err)
	assert.Equal(t, 1.0, out.Carriers[types.CarrierWizz].Services[0].Qty)
}
