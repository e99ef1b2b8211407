// =============================================================================
// Revenue Reconciler - Billing Code Mapping Table
// =============================================================================
//
// This package maps the opaque billing codes found in accounting exports to
// what they mean for the report:
//
//   | Kind       | Effect                                                  |
//   |------------|---------------------------------------------------------|
//   | fee        | qty added to a carrier service item keyed by the code   |
//   | booking    | pax and amount added to the carrier's booking rollup    |
//   | commission | amount added to the carrier's commission rollup         |
//   | extra      | airport slot qty/amount, or the report adjustments      |
//
// The table is built once at package init and never modified. Lookups work
// on the normalized code: the part of the raw cell before the first "-",
// trimmed of whitespace.
//
// =============================================================================

package codemap

import (
	"sort"
	"strings"

	"github.com/airport-ops/revenue-reconciler/internal/types"
)

// =============================================================================
// MAPPING TYPES
// =============================================================================

// Kind is the category a billing code maps to.
type Kind int

const (
	KindFee Kind = iota + 1
	KindBooking
	KindCommission
	KindExtra
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindFee:
		return "fee"
	case KindBooking:
		return "booking"
	case KindCommission:
		return "commission"
	case KindExtra:
		return "extra"
	default:
		return "unknown"
	}
}

// SlotAdjustments is the extra slot that targets DailyReport.AdjustmentsAmount
// instead of an airport service item.
const SlotAdjustments = "adjustments"

// Mapping is the meaning of one billing code. Which fields are set depends
// on Kind:
//   - fee:        Carrier, Label, Unit, Price
//   - booking:    Carrier
//   - commission: Carrier
//   - extra:      Slot
type Mapping struct {
	Kind    Kind
	Carrier types.CarrierKey
	Label   string
	Unit    string
	Price   float64
	Slot    string
}

// Entry is one row of the table, used for listing.
type Entry struct {
	Code string
	Mapping
}

// =============================================================================
// TABLE
// =============================================================================

func fee(carrier types.CarrierKey, label, unit string, price float64) Mapping {
	return Mapping{Kind: KindFee, Carrier: carrier, Label: label, Unit: unit, Price: price}
}

func booking(carrier types.CarrierKey) Mapping {
	return Mapping{Kind: KindBooking, Carrier: carrier}
}

func commission(carrier types.CarrierKey) Mapping {
	return Mapping{Kind: KindCommission, Carrier: carrier}
}

func extra(slot string) Mapping {
	return Mapping{Kind: KindExtra, Slot: slot}
}

var table = map[string]Mapping{
	"US1035": fee(types.CarrierWizz, "Airport Check in", "flight/pax", 40),
	"US1016": fee(types.CarrierWizz, "Torba do 20KG", "bag/flight", 70),
	"US1017": fee(types.CarrierWizz, "Torba do 32KG", "bag/flight", 120),
	"US1043": fee(types.CarrierWizz, "Kabinska Torba na check-in", "bag/flight", 55),
	"US1044": fee(types.CarrierWizz, "PRB", "flight/pax", 65),
	"US0004": fee(types.CarrierWizz, "Infant", "flight/pax", 31),
	"US1037": fee(types.CarrierWizz, "Missed Flight Fee", "flight/pax", 80),
	"US0006": fee(types.CarrierWizz, "Name change fee", "flight/pax", 60),
	"US1036": fee(types.CarrierWizz, "Doplata 1kg", "bag/flight", 13),

	"US0015": booking(types.CarrierWizz),
	"US0017": booking(types.CarrierWizz),
	"US0016": commission(types.CarrierWizz),
	"US1053": booking(types.CarrierPegasus),
	"US1054": booking(types.CarrierAjet),

	"RB0001": extra(types.AirportPVC),
	"RB0002": extra(types.AirportMasks),
	"US0038": extra(types.AirportInternet),
	"US1004": extra(types.AirportInternet),
	"US1005": extra(SlotAdjustments),
	"000022": extra(types.AirportDonation),
	"000023": extra(types.AirportDonation),
	"000024": extra(types.AirportDonation),
}

// =============================================================================
// LOOKUP
// =============================================================================

// Normalize extracts the billing code from a raw code cell such as
// "US1035-Airport check in": the text before the first "-", trimmed.
func Normalize(raw string) string {
	code, _, _ := strings.Cut(raw, "-")
	return strings.TrimSpace(code)
}

// Lookup normalizes raw and returns its mapping. The normalized code is
// returned in both cases so callers can report unmatched codes.
func Lookup(raw string) (code string, m Mapping, ok bool) {
	code = Normalize(raw)
	if code == "" {
		return code, Mapping{}, false
	}
	m, ok = table[code]
	return code, m, ok
}

// Entries returns the whole table sorted by code.
func Entries() []Entry {
	entries := make([]Entry, 0, len(table))
	for code, m := range table {
		entries = append(entries, Entry{Code: code, Mapping: m})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Code < entries[j].Code })
	return entries
}
