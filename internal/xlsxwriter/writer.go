// =============================================================================
// Revenue Reconciler - Workbook Writer
// =============================================================================
//
// This module renders a report (daily or range) into an XLSX workbook.
//
// WORKBOOK STRUCTURE:
//
//   Summary                      <- always the first sheet
//     title, period
//     per-carrier totals         (EUR services, EUR bookings, EUR total,
//                                 KM remuneration, KM commission)
//     airport slots              (qty, price, amount KM)
//     adjustments, airport total
//
//   <carrier label>              <- one sheet per carrier, in carrier order
//     service items              (code, label, unit, price, currency, qty,
//                                 amount)
//     booking transactions       (PNR, pax, amount EUR, remuneration KM,
//                                 commission KM)
//
// A single-carrier workbook contains only that carrier's totals and sheet,
// plus the airport section.
//
// =============================================================================

package xlsxwriter

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/airport-ops/revenue-reconciler/internal/aggregator"
	"github.com/airport-ops/revenue-reconciler/internal/types"
)

// SummarySheet is the name of the first sheet.
const SummarySheet = "Summary"

// maxSheetNameLen is the Excel limit on sheet names.
const maxSheetNameLen = 31

// ErrCarrierNotFound is returned when Options.Carrier is not in the report.
var ErrCarrierNotFound = errors.New("carrier not found in report")

// Options controls what is rendered.
type Options struct {
	// Title is written above the summary. Default: "Billing report".
	Title string

	// Carrier restricts the workbook to one carrier. Empty means all.
	Carrier types.CarrierKey
}

// =============================================================================
// PUBLIC API
// =============================================================================

// Write renders report and writes the workbook to w.
func Write(w io.Writer, report *types.DailyReport, opts Options) error {
	f, err := Build(report, opts)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// WriteFile renders report into a workbook at path.
func WriteFile(path string, report *types.DailyReport, opts Options) error {
	f, err := Build(report, opts)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

// Build renders report into a new workbook. The caller closes it.
func Build(report *types.DailyReport, opts Options) (*excelize.File, error) {
	if report == nil {
		return nil, errors.New("no report to export")
	}

	var carriers []types.CarrierKey
	for _, key := range report.CarrierOrder {
		if report.Carrier(key) != nil {
			carriers = append(carriers, key)
		}
	}
	if opts.Carrier != "" {
		if report.Carrier(opts.Carrier) == nil {
			return nil, fmt.Errorf("%w: %s", ErrCarrierNotFound, opts.Carrier)
		}
		carriers = []types.CarrierKey{opts.Carrier}
	}
	if opts.Title == "" {
		opts.Title = "Billing report"
	}

	f := excelize.NewFile()
	b := &builder{f: f, report: report, used: map[string]bool{strings.ToLower(SummarySheet): true}}

	if err := b.init(); err != nil {
		f.Close()
		return nil, err
	}
	if err := b.summary(opts.Title, carriers); err != nil {
		f.Close()
		return nil, err
	}
	for _, key := range carriers {
		if err := b.carrierSheet(key); err != nil {
			f.Close()
			return nil, err
		}
	}
	f.SetActiveSheet(0)

	return f, nil
}

// =============================================================================
// BUILDER
// =============================================================================

type builder struct {
	f      *excelize.File
	report *types.DailyReport
	used   map[string]bool

	boldStyle   int
	moneyStyle  int
	headerStyle int
}

func (b *builder) init() error {
	if err := b.f.SetSheetName(b.f.GetSheetName(0), SummarySheet); err != nil {
		return fmt.Errorf("failed to name summary sheet: %w", err)
	}

	var err error
	if b.boldStyle, err = b.f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 13}}); err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}
	if b.headerStyle, err = b.f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDEBF7"}},
	}); err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}
	if b.moneyStyle, err = b.f.NewStyle(&excelize.Style{NumFmt: 4}); err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}
	return nil
}

// row writes values starting at column A of the given 1-based row.
func (b *builder) row(sheet string, n int, values ...interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	return b.f.SetSheetRow(sheet, cell, &values)
}

// header writes a styled header row.
func (b *builder) header(sheet string, n int, titles ...interface{}) error {
	if err := b.row(sheet, n, titles...); err != nil {
		return err
	}
	first, _ := excelize.CoordinatesToCellName(1, n)
	last, _ := excelize.CoordinatesToCellName(len(titles), n)
	return b.f.SetCellStyle(sheet, first, last, b.headerStyle)
}

// money applies the amount format to columns from..to of row n.
func (b *builder) money(sheet string, n, from, to int) error {
	first, _ := excelize.CoordinatesToCellName(from, n)
	last, _ := excelize.CoordinatesToCellName(to, n)
	return b.f.SetCellStyle(sheet, first, last, b.moneyStyle)
}

func (b *builder) summary(title string, carriers []types.CarrierKey) error {
	s := SummarySheet
	r := b.report

	if err := b.row(s, 1, title); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	if err := b.f.SetCellStyle(s, "A1", "A1", b.boldStyle); err != nil {
		return err
	}
	if err := b.row(s, 2, "Period", r.Date); err != nil {
		return err
	}

	n := 4
	if err := b.header(s, n, "Carrier", "Services EUR", "Bookings EUR", "Total EUR", "Remuneration KM", "Commission KM"); err != nil {
		return err
	}
	for _, key := range carriers {
		n++
		t := aggregator.CarrierTotals(r, key)
		if err := b.row(s, n, r.Carriers[key].Label, t.ServicesEur, t.BookingsEur, t.TotalEur, t.AirportRemunerationKm, t.CommissionKm); err != nil {
			return err
		}
		if err := b.money(s, n, 2, 6); err != nil {
			return err
		}
	}

	n += 2
	if err := b.header(s, n, "Airport service", "Qty", "Price KM", "Amount KM"); err != nil {
		return err
	}
	for _, item := range r.AirportServices {
		n++
		if err := b.row(s, n, item.Label, item.Qty, item.Price, item.Amount()); err != nil {
			return err
		}
		if err := b.money(s, n, 3, 4); err != nil {
			return err
		}
	}

	airport := aggregator.AirportTotals(r)
	n++
	if err := b.row(s, n, "Adjustments", nil, nil, airport.AdjustmentsKm); err != nil {
		return err
	}
	n++
	if err := b.row(s, n, "Airport total", nil, nil, airport.TotalKm); err != nil {
		return err
	}
	if err := b.money(s, n-1, 4, 4); err != nil {
		return err
	}
	if err := b.money(s, n, 4, 4); err != nil {
		return err
	}

	return b.f.SetColWidth(s, "A", "A", 28)
}

func (b *builder) carrierSheet(key types.CarrierKey) error {
	carrier := b.report.Carriers[key]
	name := b.sheetName(carrier.Label, key)
	if _, err := b.f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", name, err)
	}

	if err := b.row(name, 1, carrier.Label); err != nil {
		return err
	}
	if err := b.f.SetCellStyle(name, "A1", "A1", b.boldStyle); err != nil {
		return err
	}

	n := 3
	if err := b.header(name, n, "Code", "Service", "Unit", "Price", "Currency", "Qty", "Amount"); err != nil {
		return err
	}
	for _, item := range carrier.Services {
		n++
		if err := b.row(name, n, item.Code, item.Label, item.Unit, item.Price, item.Currency, item.Qty, item.Amount()); err != nil {
			return err
		}
		if err := b.money(name, n, 7, 7); err != nil {
			return err
		}
	}

	n += 2
	if err := b.header(name, n, "PNR", "Pax", "Amount EUR", "Remuneration KM", "Commission KM"); err != nil {
		return err
	}
	for _, txn := range carrier.Bookings.Transactions {
		n++
		if err := b.row(name, n, txn.PNR, txn.Pax, txn.AmountEur, txn.AirportRemunerationKm, txn.CommissionKm); err != nil {
			return err
		}
		if err := b.money(name, n, 3, 5); err != nil {
			return err
		}
	}

	return b.f.SetColWidth(name, "B", "B", 30)
}

// sheetName derives a unique, valid sheet name from a carrier label.
func (b *builder) sheetName(label string, key types.CarrierKey) string {
	base := strings.TrimSpace(strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]'`, r) {
			return '_'
		}
		return r
	}, label))
	if base == "" {
		base = key
	}
	base = truncate(base, maxSheetNameLen)

	name := base
	for i := 2; b.used[strings.ToLower(name)] || strings.EqualFold(name, SummarySheet); i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		name = truncate(base, maxSheetNameLen-len(suffix)) + suffix
	}
	b.used[strings.ToLower(name)] = true
	return name
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
