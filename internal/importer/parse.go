// =============================================================================
// Revenue Reconciler - Accounting Export Parser
// =============================================================================
//
// This module turns the rows of one accounting export (one calendar day)
// into one DailyReport.
//
// PARSING STEPS:
//   1. Detect the report date: the first DD.MM.YYYY found in any cell
//   2. For every row, look up the code cell in the billing code table
//   3. Fee rows add their quantity to the carrier's service item for the code
//   4. Booking rows add pax and amount to the carrier's running rollup
//   5. Commission rows add their amount to the same rollup
//   6. Extra rows feed airport slots or the report adjustments
//   7. Each carrier with a non-zero rollup gets one synthetic transaction
//
// DATA QUALITY:
//   Parsing never fails on row content. Unknown codes skip the row,
//   non-numeric cells count as 0, a missing date falls back to today with a
//   warning. Only an unreadable document is an error (see file.go).
//
// =============================================================================

package importer

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/airport-ops/revenue-reconciler/internal/codemap"
	"github.com/airport-ops/revenue-reconciler/internal/config"
	"github.com/airport-ops/revenue-reconciler/internal/types"
)

// WarningDateNotFound is returned when no cell carries a report date.
const WarningDateNotFound = "date not found, defaulted to today"

var datePattern = regexp.MustCompile(`(\d{2})\.(\d{2})\.(\d{4})`)

// =============================================================================
// OPTIONS AND RESULT
// =============================================================================

// Options controls how rows are read.
type Options struct {
	// Columns is the positional layout of a row.
	// Default: config.DefaultColumns()
	Columns config.Columns

	// Now supplies the fallback date when the export has none.
	// Default: time.Now
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Columns == (config.Columns{}) {
		o.Columns = config.DefaultColumns()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Result is the outcome of parsing one export.
type Result struct {
	// Report is the parsed daily report.
	Report *types.DailyReport

	// Warnings are non-fatal data problems.
	Warnings []string

	// Unmatched lists the distinct codes that had no mapping, in the order
	// they were first seen. Rows with these codes contributed nothing.
	Unmatched []string

	// DateDetected is false when the date fell back to today.
	DateDetected bool

	// RowsScanned and RowsApplied count all rows and rows that contributed.
	RowsScanned int
	RowsApplied int
}

// =============================================================================
// PARSER
// =============================================================================

// parser holds the state of one ParseRows call.
type parser struct {
	opts      Options
	report    *types.DailyReport
	rollups   map[types.CarrierKey]*types.BookingTotals
	unmatched map[string]bool
	result    *Result
}

// ParseRows builds a DailyReport from the raw rows of an export.
func ParseRows(rows [][]string, opts Options) Result {
	opts = opts.withDefaults()

	date, ok := findDate(rows)
	if !ok {
		date = opts.Now().Format(time.DateOnly)
	}

	p := &parser{
		opts:      opts,
		report:    types.NewDailyReport(date),
		rollups:   map[types.CarrierKey]*types.BookingTotals{},
		unmatched: map[string]bool{},
		result:    &Result{DateDetected: ok},
	}

	for _, row := range rows {
		p.result.RowsScanned++
		if p.applyRow(row) {
			p.result.RowsApplied++
		}
	}

	p.finalize()

	if !ok {
		p.result.Warnings = append(p.result.Warnings, WarningDateNotFound)
	}
	p.result.Report = p.report
	return *p.result
}

// applyRow applies one row and reports whether it contributed.
func (p *parser) applyRow(row []string) bool {
	rawCode := cell(row, p.opts.Columns.Code)
	if strings.TrimSpace(rawCode) == "" {
		return false
	}

	code, mapping, ok := codemap.Lookup(rawCode)
	if !ok {
		if code != "" && !p.unmatched[code] {
			p.unmatched[code] = true
			p.result.Unmatched = append(p.result.Unmatched, code)
		}
		return false
	}

	qty := asNumber(cell(row, p.opts.Columns.Quantity))
	amount := asNumber(cell(row, p.opts.Columns.Amount))

	switch mapping.Kind {
	case codemap.KindFee:
		carrier := p.report.EnsureCarrier(mapping.Carrier, "")
		item := types.FindService(carrier.Services, types.ServiceItem{Code: code})
		if item == nil {
			carrier.Services = append(carrier.Services, types.NewServiceItem(types.ServiceItem{
				Label:    mapping.Label,
				Code:     code,
				Unit:     mapping.Unit,
				Price:    mapping.Price,
				Currency: types.CurrencyEUR,
			}))
			item = &carrier.Services[len(carrier.Services)-1]
		}
		item.Qty += qty

	case codemap.KindBooking:
		rollup := p.rollup(mapping.Carrier)
		rollup.Pax += qty
		rollup.AmountEur += amount

	case codemap.KindCommission:
		p.rollup(mapping.Carrier).CommissionKm += amount

	case codemap.KindExtra:
		if mapping.Slot == codemap.SlotAdjustments {
			p.report.AdjustmentsAmount += amount
			return true
		}
		slot := p.report.AirportService(mapping.Slot)
		if slot == nil {
			p.result.Warnings = append(p.result.Warnings, fmt.Sprintf("code %s maps to unknown airport slot %q", code, mapping.Slot))
			return false
		}
		if types.IsAmountSlot(mapping.Slot) {
			slot.AddOverride(amount)
		} else {
			slot.Qty += qty
		}

	default:
		return false
	}

	return true
}

// rollup returns the running booking totals of a carrier.
func (p *parser) rollup(key types.CarrierKey) *types.BookingTotals {
	p.report.EnsureCarrier(key, "")
	t, ok := p.rollups[key]
	if !ok {
		t = &types.BookingTotals{}
		p.rollups[key] = t
	}
	return t
}

// finalize appends one synthetic transaction per carrier with a non-zero
// rollup, in carrier order.
func (p *parser) finalize() {
	for _, key := range p.report.CarrierOrder {
		t, ok := p.rollups[key]
		if !ok || t.IsZero() {
			continue
		}
		carrier := p.report.Carriers[key]
		carrier.Bookings.Transactions = append(carrier.Bookings.Transactions, types.NewBookingTransaction(*t))
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// findDate returns the first valid DD.MM.YYYY found in any cell as
// YYYY-MM-DD.
func findDate(rows [][]string) (string, bool) {
	for _, row := range rows {
		for _, value := range row {
			for _, m := range datePattern.FindAllStringSubmatch(value, -1) {
				iso := m[3] + "-" + m[2] + "-" + m[1]
				if _, err := time.Parse(time.DateOnly, iso); err == nil {
					return iso, true
				}
			}
		}
	}
	return "", false
}

// cell returns the value at index, or "" for short rows.
func cell(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return row[index]
}

// asNumber coerces a cell to a number. Anything unparseable is 0. A comma
// is accepted as the decimal separator.
func asNumber(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	value = strings.Replace(value, ",", ".", 1)
	n, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}
