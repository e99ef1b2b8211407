// =============================================================================
// Revenue Reconciler - Report Store
// =============================================================================
//
// This module persists reports. One row holds one report, keyed by
// (type, period_start):
//
//   | type    | period_start | data (JSON DailyReport) |
//   |---------|--------------|-------------------------|
//   | DAILY   | 2025-11-05   | {...}                   |
//   | MONTHLY | 2025-11-01   | {...}                   |
//
// Saving a report for an existing key replaces it. Period starts are stored
// as YYYY-MM-DD text so range queries compare lexically on every driver.
//
// =============================================================================

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/airport-ops/revenue-reconciler/internal/config"
	applog "github.com/airport-ops/revenue-reconciler/internal/logger"
	"github.com/airport-ops/revenue-reconciler/internal/types"
)

// ReportType distinguishes daily from monthly reports.
type ReportType string

const (
	TypeDaily   ReportType = "DAILY"
	TypeMonthly ReportType = "MONTHLY"
)

// ErrNotFound is returned when no report exists for a key.
var ErrNotFound = errors.New("report not found")

// =============================================================================
// INTERFACE
// =============================================================================

// ReportStore is the persistence contract used by the import and range
// services.
//
//go:generate mockgen -destination=mocks/mock_store.go -package=mocks -source=store.go ReportStore
type ReportStore interface {
	// FindByPeriod returns the report stored for (typ, periodStart).
	FindByPeriod(ctx context.Context, typ ReportType, periodStart time.Time) (*types.DailyReport, error)

	// FindRange returns reports of typ with from <= periodStart <= to,
	// ascending by period.
	FindRange(ctx context.Context, typ ReportType, from, to time.Time) ([]*types.DailyReport, error)

	// Upsert stores report under (typ, periodStart), replacing any existing one.
	Upsert(ctx context.Context, typ ReportType, periodStart time.Time, report *types.DailyReport) error
}

// =============================================================================
// GORM MODEL
// =============================================================================

// ReportModel is the GORM model for a stored report.
type ReportModel struct {
	ID          uint      `gorm:"primaryKey"`
	Type        string    `gorm:"type:varchar(16);not null;uniqueIndex:idx_report_period"`
	PeriodStart string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_report_period"`
	Data        string    `gorm:"type:text;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for the model.
func (ReportModel) TableName() string {
	return "billing_reports"
}

// GormStore is the ReportStore backed by GORM.
type GormStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

// Open connects to the configured database and migrates the schema.
func Open(cfg config.DatabaseConfig, logger *zap.Logger) (*GormStore, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: applog.NewGormLogger(logger, gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}

	return New(db, logger)
}

// New wraps an open database and migrates the schema.
func New(db *gorm.DB, logger *zap.Logger) (*GormStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := db.AutoMigrate(&ReportModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate report table: %w", err)
	}
	return &GormStore{db: db, logger: logger}, nil
}

// Close releases the underlying connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// =============================================================================
// OPERATIONS
// =============================================================================

// FindByPeriod implements ReportStore.
func (s *GormStore) FindByPeriod(ctx context.Context, typ ReportType, periodStart time.Time) (*types.DailyReport, error) {
	var model ReportModel
	err := s.db.WithContext(ctx).
		Where("type = ? AND period_start = ?", string(typ), periodKey(periodStart)).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s report %s: %w", typ, periodKey(periodStart), err)
	}
	return decode(model)
}

// FindRange implements ReportStore.
func (s *GormStore) FindRange(ctx context.Context, typ ReportType, from, to time.Time) ([]*types.DailyReport, error) {
	var models []ReportModel
	err := s.db.WithContext(ctx).
		Where("type = ? AND period_start >= ? AND period_start <= ?", string(typ), periodKey(from), periodKey(to)).
		Order("period_start ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load %s reports %s..%s: %w", typ, periodKey(from), periodKey(to), err)
	}

	reports := make([]*types.DailyReport, 0, len(models))
	for _, m := range models {
		r, err := decode(m)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, nil
}

// Upsert implements ReportStore.
func (s *GormStore) Upsert(ctx context.Context, typ ReportType, periodStart time.Time, report *types.DailyReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	model := &ReportModel{
		Type:        string(typ),
		PeriodStart: periodKey(periodStart),
		Data:        string(data),
	}

	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "type"}, {Name: "period_start"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to save %s report %s: %w", typ, model.PeriodStart, err)
	}

	s.logger.Debug("report saved",
		zap.String("type", string(typ)),
		zap.String("period_start", model.PeriodStart),
		zap.Int("bytes", len(data)),
	)
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func periodKey(t time.Time) string {
	return t.Format(time.DateOnly)
}

func decode(m ReportModel) (*types.DailyReport, error) {
	var r types.DailyReport
	if err := json.Unmarshal([]byte(m.Data), &r); err != nil {
		return nil, fmt.Errorf("failed to decode %s report %s: %w", m.Type, m.PeriodStart, err)
	}
	return types.Normalize(&r), nil
}

// MonthStart returns the first day of t's month, the period key of a
// monthly report.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD period.
func ParseDay(value string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return t, nil
}

// ParseMonth parses a YYYY-MM month into its first day.
func ParseMonth(value string) (time.Time, error) {
	t, err := time.Parse("2006-01", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q, expected YYYY-MM", value)
	}
	return MonthStart(t), nil
}
