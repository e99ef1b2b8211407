package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/airport-ops/revenue-reconciler/internal/aggregator"
	"github.com/airport-ops/revenue-reconciler/internal/store"
	"github.com/airport-ops/revenue-reconciler/internal/types"
)

// ErrInvalidRange is returned when a range ends before it starts.
var ErrInvalidRange = errors.New("range end is before range start")

// ReportService builds range reports from stored daily reports.
type ReportService struct {
	store  store.ReportStore
	logger *zap.Logger
}

// NewReportService creates a ReportService over st.
func NewReportService(st store.ReportStore, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{store: st, logger: logger.Named("reports")}
}

// RangeLabel is the date label of a range report.
func RangeLabel(from, to time.Time) string {
	return from.Format(time.DateOnly) + " - " + to.Format(time.DateOnly)
}

// BuildRange merges the DAILY reports from..to (inclusive) into one report
// labelled with RangeLabel. A range without reports yields
// aggregator.ErrNoReports.
func (s *ReportService) BuildRange(ctx context.Context, from, to time.Time) (*types.DailyReport, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRange, RangeLabel(from, to))
	}

	reports, err := s.store.FindRange(ctx, store.TypeDaily, from, to)
	if err != nil {
		return nil, fmt.Errorf("could not load daily reports: %w", err)
	}

	label := RangeLabel(from, to)
	merged, err := aggregator.Aggregate(reports, label)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}

	s.logger.Info("range aggregated",
		zap.String("range", label),
		zap.Int("daily_reports", len(reports)),
		zap.Strings("carriers", merged.CarrierOrder),
	)
	return merged, nil
}

// BuildMonth merges every DAILY report of month's calendar month.
func (s *ReportService) BuildMonth(ctx context.Context, month time.Time) (*types.DailyReport, error) {
	from := store.MonthStart(month)
	to := from.AddDate(0, 1, -1)
	return s.BuildRange(ctx, from, to)
}

// SaveMonthly stores report as the MONTHLY report of month's calendar month.
func (s *ReportService) SaveMonthly(ctx context.Context, month time.Time, report *types.DailyReport) error {
	period := store.MonthStart(month)
	if err := s.store.Upsert(ctx, store.TypeMonthly, period, report); err != nil {
		return fmt.Errorf("could not save monthly report: %w", err)
	}
	s.logger.Info("monthly report saved", zap.String("period_start", period.Format(time.DateOnly)))
	return nil
}

// Load returns one stored report.
func (s *ReportService) Load(ctx context.Context, typ store.ReportType, period time.Time) (*types.DailyReport, error) {
	if typ == store.TypeMonthly {
		period = store.MonthStart(period)
	}
	report, err := s.store.FindByPeriod(ctx, typ, period)
	if err != nil {
		return nil, fmt.Errorf("could not load %s report %s: %w", typ, period.Format(time.DateOnly), err)
	}
	return report, nil
}
