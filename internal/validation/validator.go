// =============================================================================
// Revenue Reconciler - Report Validation
// =============================================================================
//
// This module checks the structural invariants of a DailyReport before it is
// stored or exported:
//   - A daily report's date is an ISO date (YYYY-MM-DD)
//   - CarrierOrder and Carriers describe the same set of carriers
//   - No carrier lists the same service twice (by code, else by the
//     label/price/currency/unit tuple)
//   - Airport slot ids are unique
//   - Every number is finite
//
// ERROR HANDLING:
//   - Problems are collected, not returned one at a time
//   - "error" severity blocks a store write
//   - "warning" severity is logged and the report is kept
//
// =============================================================================

package validation

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/airport-ops/revenue-reconciler/internal/types"
)

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single validation problem.
type ValidationError struct {
	// Severity is SeverityError or SeverityWarning.
	Severity string

	// Field is a path to the offending value, e.g. "carriers.wizz.services[2].qty".
	Field string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Field, e.Message)
}

// =============================================================================
// VALIDATOR
// =============================================================================

// Options selects which checks apply.
type Options struct {
	// RequireISODate requires Date to be YYYY-MM-DD. Set for daily reports;
	// range reports carry a free-form label.
	RequireISODate bool
}

type collector struct {
	errs []*ValidationError
}

func (c *collector) add(severity, field, format string, args ...any) {
	c.errs = append(c.errs, &ValidationError{
		Severity: severity,
		Field:    field,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Validate checks a report and returns every problem found.
func Validate(r *types.DailyReport, opts Options) []*ValidationError {
	c := &collector{}
	if r == nil {
		c.add(SeverityError, "report", "report is nil")
		return c.errs
	}

	if opts.RequireISODate {
		if _, err := time.Parse(time.DateOnly, r.Date); err != nil {
			c.add(SeverityError, "date", "%q is not a YYYY-MM-DD date", r.Date)
		}
	} else if strings.TrimSpace(r.Date) == "" {
		c.add(SeverityError, "date", "date label is empty")
	}

	checkNumber(c, "adjustmentsAmount", r.AdjustmentsAmount)

	seen := make(map[types.CarrierKey]bool, len(r.CarrierOrder))
	for i, key := range r.CarrierOrder {
		field := fmt.Sprintf("carrierOrder[%d]", i)
		if seen[key] {
			c.add(SeverityError, field, "carrier %q listed twice", key)
			continue
		}
		seen[key] = true
		if r.Carriers[key] == nil {
			c.add(SeverityError, field, "carrier %q has no report", key)
		}
	}
	for key := range r.Carriers {
		if !seen[key] {
			c.add(SeverityError, "carriers."+key, "carrier missing from carrierOrder")
		}
	}

	for _, key := range r.CarrierOrder {
		carrier := r.Carriers[key]
		if carrier == nil {
			continue
		}
		prefix := "carriers." + key
		checkServices(c, prefix+".services", carrier.Services)
		for i, txn := range carrier.Bookings.Transactions {
			field := fmt.Sprintf("%s.bookings.transactions[%d]", prefix, i)
			checkNumber(c, field+".pax", txn.Pax)
			checkNumber(c, field+".amountEur", txn.AmountEur)
			checkNumber(c, field+".airportRemunerationKm", txn.AirportRemunerationKm)
			checkNumber(c, field+".commissionKm", txn.CommissionKm)
		}
	}

	ids := make(map[string]bool, len(r.AirportServices))
	for i, item := range r.AirportServices {
		field := fmt.Sprintf("airportServices[%d]", i)
		if ids[item.ID] {
			c.add(SeverityError, field, "airport slot %q listed twice", item.ID)
		}
		ids[item.ID] = true
		checkItemNumbers(c, field, item)
	}

	return c.errs
}

// checkServices reports duplicate identities and bad numbers in a service list.
func checkServices(c *collector, prefix string, items []types.ServiceItem) {
	for i, item := range items {
		field := fmt.Sprintf("%s[%d]", prefix, i)
		for j := 0; j < i; j++ {
			if types.SameService(items[j], item) {
				c.add(SeverityError, field, "duplicates %s[%d] (%s)", prefix, j, describe(item))
				break
			}
		}
		if item.Code == "" && item.Label == "" {
			c.add(SeverityWarning, field, "service has neither code nor label")
		}
		if item.Qty < 0 {
			c.add(SeverityWarning, field+".qty", "negative quantity %v", item.Qty)
		}
		checkItemNumbers(c, field, item)
	}
}

func checkItemNumbers(c *collector, field string, item types.ServiceItem) {
	checkNumber(c, field+".qty", item.Qty)
	checkNumber(c, field+".price", item.Price)
	if item.AmountOverride != nil {
		checkNumber(c, field+".amountOverride", *item.AmountOverride)
	}
}

func checkNumber(c *collector, field string, v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		c.add(SeverityError, field, "value is not finite")
	}
}

func describe(item types.ServiceItem) string {
	if item.Code != "" {
		return "code " + item.Code
	}
	return fmt.Sprintf("%s @ %v %s/%s", item.Label, item.Price, item.Currency, item.Unit)
}

// =============================================================================
// RESULT HELPERS
// =============================================================================

// HasErrors reports whether any problem has error severity.
func HasErrors(errs []*ValidationError) bool {
	for _, e := range errs {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

// FormatErrors renders problems one per line.
func FormatErrors(errs []*ValidationError) string {
	if len(errs) == 0 {
		return "No validation errors."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d validation problem(s):\n", len(errs))
	for _, e := range errs {
		b.WriteString("  ")
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return b.String()
}
