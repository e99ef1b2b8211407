// =============================================================================
// Revenue Reconciler - Report Model
// =============================================================================
//
// This package contains the report types shared by every stage of the
// pipeline. Types defined here are produced by the importer, merged by the
// aggregator, persisted by the store and rendered by the exporter:
//   - ServiceItem        : one billable line (fee, airport service)
//   - BookingTransaction : one reservation-system revenue slice
//   - CarrierReport      : services and bookings of one carrier
//   - DailyReport        : the canonical report for a day or a range
//
// The JSON field names match the persisted report format.
//
// =============================================================================

package types

import (
	"github.com/google/uuid"
)

// =============================================================================
// CURRENCIES AND KEYS
// =============================================================================

// Currency labels an amount. Amounts are never converted between currencies.
const (
	CurrencyEUR = "EUR"
	CurrencyKM  = "KM"
)

// CarrierKey identifies a carrier inside a report (e.g. "wizz").
type CarrierKey = string

// Default carrier keys.
const (
	CarrierWizz    CarrierKey = "wizz"
	CarrierPegasus CarrierKey = "pegasus"
	CarrierAjet    CarrierKey = "ajet"
)

// Airport-level service slots. These ids are fixed and are the match key
// for airport services during aggregation.
const (
	AirportPVC      = "airport_pvc"
	AirportMasks    = "airport_masks"
	AirportInternet = "airport_internet"
	AirportDonation = "airport_donation"
)

// =============================================================================
// REPORT TYPES
// =============================================================================

// ServiceItem represents one billable line of a carrier or of the airport.
type ServiceItem struct {
	// ID is unique within a report. Imported and merged items get a uuid,
	// airport slots use their fixed slot id.
	ID string `json:"id"`

	// Label is the human readable service name (e.g. "Torba do 20KG").
	Label string `json:"label"`

	// Code is the billing code the item was created from. When set, it is
	// the identity of the item.
	Code string `json:"code,omitempty"`

	// Unit describes what Qty counts (e.g. "bag/flight").
	Unit string `json:"unit"`

	// Price is the per-unit price in Currency.
	Price float64 `json:"price"`

	// Currency is carried opaquely.
	Currency string `json:"currency"`

	// Qty is the accumulated quantity.
	Qty float64 `json:"qty"`

	// AmountOverride replaces Price*Qty when set. Used by amount-based
	// slots where a quantity is meaningless.
	AmountOverride *float64 `json:"amountOverride,omitempty"`
}

// BookingTransaction is one reservation-system revenue record. Imported and
// aggregated reports carry synthetic rollups with an empty PNR.
type BookingTransaction struct {
	ID                    string  `json:"id"`
	PNR                   string  `json:"pnr"`
	Pax                   float64 `json:"pax"`
	AmountEur             float64 `json:"amountEur"`
	AirportRemunerationKm float64 `json:"airportRemunerationKm"`
	CommissionKm          float64 `json:"commissionKm"`
}

// Bookings wraps the booking transactions of a carrier.
type Bookings struct {
	Transactions []BookingTransaction `json:"transactions"`
}

// CarrierReport holds everything recorded for one carrier.
type CarrierReport struct {
	Label    string        `json:"label"`
	Services []ServiceItem `json:"services"`
	Bookings Bookings      `json:"bookings"`
}

// DailyReport is the canonical report structure. For aggregated reports
// Date holds a range label instead of an ISO date.
type DailyReport struct {
	// Date is "YYYY-MM-DD" for a daily report or a range label.
	Date string `json:"date"`

	// CarrierOrder is the first-seen order of carriers. Output ordering
	// follows this slice, never map iteration.
	CarrierOrder []CarrierKey `json:"carrierOrder"`

	// Carriers maps carrier key to its report.
	Carriers map[CarrierKey]*CarrierReport `json:"carriers"`

	// AirportServices are airport-level slots not tied to a carrier.
	AirportServices []ServiceItem `json:"airportServices"`

	// AdjustmentsAmount is a manual correction for the whole report.
	AdjustmentsAmount float64 `json:"adjustmentsAmount"`
}

// BookingTotals is the folded sum of a list of booking transactions.
type BookingTotals struct {
	Pax                   float64
	AmountEur             float64
	AirportRemunerationKm float64
	CommissionKm          float64
}

// =============================================================================
// DEFAULTS
// =============================================================================

// DefaultCarrierOrder is the carrier order of a freshly created report.
var DefaultCarrierOrder = []CarrierKey{CarrierWizz, CarrierPegasus, CarrierAjet}

// CarrierLabels are the display labels of the known carriers.
var CarrierLabels = map[CarrierKey]string{
	CarrierWizz:    "Wizz Air",
	CarrierPegasus: "Pegasus",
	CarrierAjet:    "Ajet",
}

// DefaultAirportServices returns a fresh copy of the airport slot scaffold.
func DefaultAirportServices() []ServiceItem {
	return []ServiceItem{
		{ID: AirportPVC, Label: "PVC ZIP vrećice", Code: "PVC", Unit: "kom", Price: 5, Currency: CurrencyKM},
		{ID: AirportMasks, Label: "Higijenske maske", Code: "MASK", Unit: "kom", Price: 1, Currency: CurrencyKM},
		{ID: AirportInternet, Label: "Internet kodovi", Code: "NET", Unit: "kom", Price: 3, Currency: CurrencyKM},
		{ID: AirportDonation, Label: "Dječija nedelja", Code: "DON", Unit: "iznos", Price: 0, Currency: CurrencyKM, AmountOverride: Float(0)},
	}
}

// IsAmountSlot reports whether an airport slot accumulates amounts instead
// of quantities.
func IsAmountSlot(id string) bool {
	return id == AirportDonation
}

// CarrierLabel returns the known label for a carrier key, or the key itself.
func CarrierLabel(key CarrierKey) string {
	if label, ok := CarrierLabels[key]; ok {
		return label
	}
	return key
}

// =============================================================================
// CONSTRUCTORS
// =============================================================================

// NewDailyReport creates an empty report for the given date with the default
// carriers and the airport scaffold.
func NewDailyReport(date string) *DailyReport {
	r := &DailyReport{
		Date:            date,
		CarrierOrder:    []CarrierKey{},
		Carriers:        map[CarrierKey]*CarrierReport{},
		AirportServices: DefaultAirportServices(),
	}
	for _, key := range DefaultCarrierOrder {
		r.EnsureCarrier(key, CarrierLabel(key))
	}
	return r
}

// NewCarrierReport creates an empty carrier bucket.
func NewCarrierReport(label string) *CarrierReport {
	return &CarrierReport{
		Label:    label,
		Services: []ServiceItem{},
		Bookings: Bookings{Transactions: []BookingTransaction{}},
	}
}

// NewServiceItem returns a copy of item with a freshly generated id.
func NewServiceItem(item ServiceItem) ServiceItem {
	item.ID = uuid.NewString()
	item.AmountOverride = copyFloat(item.AmountOverride)
	return item
}

// NewBookingTransaction creates a synthetic transaction from folded totals.
func NewBookingTransaction(totals BookingTotals) BookingTransaction {
	return BookingTransaction{
		ID:                    uuid.NewString(),
		PNR:                   "",
		Pax:                   totals.Pax,
		AmountEur:             totals.AmountEur,
		AirportRemunerationKm: totals.AirportRemunerationKm,
		CommissionKm:          totals.CommissionKm,
	}
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return Float(*v)
}

// =============================================================================
// REPORT METHODS
// =============================================================================

// EnsureCarrier returns the carrier bucket for key, creating it and appending
// key to CarrierOrder on first sight.
func (r *DailyReport) EnsureCarrier(key CarrierKey, label string) *CarrierReport {
	if r.Carriers == nil {
		r.Carriers = map[CarrierKey]*CarrierReport{}
	}
	if c, ok := r.Carriers[key]; ok {
		return c
	}
	if label == "" {
		label = CarrierLabel(key)
	}
	c := NewCarrierReport(label)
	r.Carriers[key] = c
	r.CarrierOrder = append(r.CarrierOrder, key)
	return c
}

// Carrier returns the carrier bucket for key, or nil.
func (r *DailyReport) Carrier(key CarrierKey) *CarrierReport {
	if r == nil || r.Carriers == nil {
		return nil
	}
	return r.Carriers[key]
}

// AirportService returns a pointer to the airport slot with the given id.
func (r *DailyReport) AirportService(id string) *ServiceItem {
	for i := range r.AirportServices {
		if r.AirportServices[i].ID == id {
			return &r.AirportServices[i]
		}
	}
	return nil
}

// Amount is the computed amount of the item: AmountOverride when present,
// else Price*Qty.
func (s ServiceItem) Amount() float64 {
	if s.AmountOverride != nil {
		return *s.AmountOverride
	}
	return s.Price * s.Qty
}

// AddOverride adds v to the item's AmountOverride, creating it if needed.
func (s *ServiceItem) AddOverride(v float64) {
	if s.AmountOverride == nil {
		s.AmountOverride = Float(0)
	}
	*s.AmountOverride += v
}

// Totals folds the carrier's transactions.
func (c *CarrierReport) Totals() BookingTotals {
	var t BookingTotals
	if c == nil {
		return t
	}
	for _, txn := range c.Bookings.Transactions {
		t.Add(txn)
	}
	return t
}

// Add accumulates one transaction.
func (t *BookingTotals) Add(txn BookingTransaction) {
	t.Pax += txn.Pax
	t.AmountEur += txn.AmountEur
	t.AirportRemunerationKm += txn.AirportRemunerationKm
	t.CommissionKm += txn.CommissionKm
}

// IsZero reports whether every field is zero.
func (t BookingTotals) IsZero() bool {
	return t.Pax == 0 && t.AmountEur == 0 && t.AirportRemunerationKm == 0 && t.CommissionKm == 0
}
