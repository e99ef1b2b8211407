// =============================================================================
// Revenue Reconciler - Period Selection
// =============================================================================
//
// The aggregate, totals and export commands all work on one report chosen
// by the same set of flags:
//
//   --date 2025-11-05                  stored DAILY report of that date
//   --month 2025-11                    aggregate of the month's DAILY reports
//   --month 2025-11 --stored           stored MONTHLY report
//   --from 2025-11-01 --to 2025-11-15  aggregate of the range (inclusive)
//
// =============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/airport-ops/revenue-reconciler/internal/service"
	"github.com/airport-ops/revenue-reconciler/internal/store"
	"github.com/airport-ops/revenue-reconciler/internal/types"
)

// periodFlags holds the period selection of one command.
type periodFlags struct {
	date   string
	month  string
	from   string
	to     string
	stored bool
}

// period is a resolved selection.
type period struct {
	kind  string // daily, monthly or range
	label string
}

func (p *periodFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.date, "date", "", "Use the stored daily report of this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&p.month, "month", "", "Use a calendar month (YYYY-MM)")
	cmd.Flags().StringVar(&p.from, "from", "", "Start of a date range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&p.to, "to", "", "End of a date range, inclusive (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&p.stored, "stored", false, "With --month, load the saved monthly report instead of aggregating")
}

// validate checks that exactly one selection was made.
func (p *periodFlags) validate() error {
	set := 0
	if p.date != "" {
		set++
	}
	if p.month != "" {
		set++
	}
	if p.from != "" || p.to != "" {
		if p.from == "" || p.to == "" {
			return errors.New("--from and --to must be used together")
		}
		set++
	}
	if set != 1 {
		return errors.New("select exactly one of --date, --month or --from/--to")
	}
	if p.stored && p.month == "" {
		return errors.New("--stored requires --month")
	}
	return nil
}

// resolve loads or builds the selected report.
func (p *periodFlags) resolve(ctx context.Context, svc *service.ReportService) (*types.DailyReport, period, error) {
	if err := p.validate(); err != nil {
		return nil, period{}, err
	}

	switch {
	case p.date != "":
		day, err := store.ParseDay(p.date)
		if err != nil {
			return nil, period{}, err
		}
		report, err := svc.Load(ctx, store.TypeDaily, day)
		return report, period{kind: "daily", label: p.date}, err

	case p.month != "":
		month, err := store.ParseMonth(p.month)
		if err != nil {
			return nil, period{}, err
		}
		if p.stored {
			report, err := svc.Load(ctx, store.TypeMonthly, month)
			return report, period{kind: "monthly", label: p.month}, err
		}
		report, err := svc.BuildMonth(ctx, month)
		return report, period{kind: "monthly", label: p.month}, err

	default:
		from, err := store.ParseDay(p.from)
		if err != nil {
			return nil, period{}, err
		}
		to, err := store.ParseDay(p.to)
		if err != nil {
			return nil, period{}, err
		}
		report, err := svc.BuildRange(ctx, from, to)
		return report, period{kind: "range", label: p.from + "_" + p.to}, err
	}
}

// monthOf returns the month selected with --month, or the month a --from/--to
// range lies in when both ends share it.
func (p *periodFlags) monthOf() (time.Time, error) {
	if p.month != "" {
		return store.ParseMonth(p.month)
	}
	if p.from != "" && p.to != "" {
		from, err := store.ParseDay(p.from)
		if err != nil {
			return time.Time{}, err
		}
		to, err := store.ParseDay(p.to)
		if err != nil {
			return time.Time{}, err
		}
		if store.MonthStart(from).Equal(store.MonthStart(to)) {
			return store.MonthStart(from), nil
		}
	}
	return time.Time{}, fmt.Errorf("--save needs --month or a range within one month")
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
