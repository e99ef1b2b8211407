// =============================================================================
// Revenue Reconciler - Import Pipeline
// =============================================================================
//
// This module runs one accounting export through the whole import pipeline.
//
// IMPORT PIPELINE:
//   1. Read and parse the export into a DailyReport
//   2. Validate the report structure
//   3. Save the report as the DAILY report of its date (replacing any
//      earlier import of the same day)
//   4. Archive the export
//
// CONCURRENCY:
//   Steps 1-2 (Prepare) hold no shared state and may run for many files at
//   once. Steps 3-4 (Commit) write the store; callers that import several
//   exports commit them one at a time in input order so that the last export
//   of a date is the one stored.
//
// =============================================================================

package importer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/airport-ops/revenue-reconciler/internal/config"
	"github.com/airport-ops/revenue-reconciler/internal/store"
	"github.com/airport-ops/revenue-reconciler/internal/types"
	"github.com/airport-ops/revenue-reconciler/internal/validation"
	"github.com/airport-ops/revenue-reconciler/pkg/utils"
)

// ErrInvalidReport is returned when a parsed report fails validation.
var ErrInvalidReport = errors.New("parsed report is invalid")

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// FileResult represents the outcome of importing a single export.
type FileResult struct {
	// FilePath is the export that was imported.
	FilePath string

	// ArchivePath is where the export was moved. Empty if it was not moved.
	ArchivePath string

	// Date is the date of the imported report.
	Date string

	// Success indicates whether the report was saved.
	Success bool

	// Error contains the error if the import failed.
	Error error

	// Warnings are data problems that did not stop the import.
	Warnings []string

	// Unmatched lists billing codes without a mapping.
	Unmatched []string

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about one import.
type ProcessingStats struct {
	RowsScanned        int
	RowsApplied        int
	ValidationWarnings int
	ProcessingTime     time.Duration
}

// =============================================================================
// IMPORTER
// =============================================================================

// Importer imports accounting exports into the report store.
type Importer struct {
	cfg    *config.Config
	store  store.ReportStore
	files  *utils.FileManager
	logger *zap.Logger
	opts   Options

	// DryRun parses and validates without saving or archiving.
	DryRun bool
}

// New creates an Importer. files may be nil, in which case exports are
// never archived.
func New(cfg *config.Config, st store.ReportStore, files *utils.FileManager, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{
		cfg:    cfg,
		store:  st,
		files:  files,
		logger: logger.Named("importer"),
		opts:   Options{Columns: cfg.Columns},
	}
}

// WithClock sets the clock used when an export carries no date.
func (im *Importer) WithClock(now func() time.Time) *Importer {
	im.opts.Now = now
	return im
}

// Pending is a parsed and validated export that has not been saved yet.
type Pending struct {
	// Result is the outcome so far. A failed parse or validation leaves
	// Result.Error set and nothing to save.
	Result FileResult

	report  *types.DailyReport
	parsed  Result
	elapsed time.Duration
}

// Run imports the export at path.
func (im *Importer) Run(ctx context.Context, path string) FileResult {
	return im.Commit(ctx, im.Prepare(path))
}

// Prepare parses and validates the export at path. It touches neither the
// store nor the file system, so many exports can be prepared at once.
func (im *Importer) Prepare(path string) *Pending {
	startTime := time.Now()
	p := &Pending{Result: FileResult{FilePath: path}}
	result := &p.Result
	log := im.logger.With(zap.String("file", filepath.Base(path)))

	defer func() {
		p.elapsed = time.Since(startTime)
		result.Stats.ProcessingTime = p.elapsed
	}()

	// =========================================================================
	// STEP 1: PARSE
	// =========================================================================

	parsed, err := ParseFile(path, im.cfg.CSV, im.opts)
	if err != nil {
		result.Error = err
		log.Error("import failed", zap.Error(err))
		return p
	}

	report := parsed.Report
	result.Date = report.Date
	result.Warnings = parsed.Warnings
	result.Unmatched = parsed.Unmatched
	result.Stats.RowsScanned = parsed.RowsScanned
	result.Stats.RowsApplied = parsed.RowsApplied

	for _, w := range parsed.Warnings {
		log.Warn(w, zap.String("date", report.Date))
	}
	if len(parsed.Unmatched) > 0 {
		log.Info("codes without mapping skipped", zap.Strings("codes", parsed.Unmatched))
	}

	// =========================================================================
	// STEP 2: VALIDATE
	// =========================================================================

	problems := validation.Validate(report, validation.Options{RequireISODate: true})
	for _, prob := range problems {
		if prob.Severity == validation.SeverityWarning {
			result.Stats.ValidationWarnings++
			result.Warnings = append(result.Warnings, prob.Error())
			log.Warn("validation warning", zap.String("field", prob.Field), zap.String("problem", prob.Message))
		}
	}
	if validation.HasErrors(problems) {
		result.Error = fmt.Errorf("%w: %s", ErrInvalidReport, validation.FormatErrors(problems))
		log.Error("import failed", zap.Error(result.Error))
		return p
	}

	p.report = report
	p.parsed = parsed
	return p
}

// Commit saves a prepared export as the DAILY report of its date and
// archives it. A Pending that failed to prepare is returned unchanged.
func (im *Importer) Commit(ctx context.Context, p *Pending) (result FileResult) {
	startTime := time.Now()
	result = p.Result
	if result.Error != nil || p.report == nil {
		return result
	}
	report := p.report
	path := result.FilePath
	log := im.logger.With(zap.String("file", filepath.Base(path)))

	defer func() {
		result.Stats.ProcessingTime = p.elapsed + time.Since(startTime)
	}()

	if im.DryRun {
		result.Success = true
		log.Info("dry run, report not saved",
			zap.String("date", report.Date),
			zap.Int("rows_applied", p.parsed.RowsApplied),
		)
		return result
	}

	// =========================================================================
	// STEP 3: SAVE
	// =========================================================================

	period, err := store.ParseDay(report.Date)
	if err != nil {
		result.Error = err
		return result
	}
	if err := im.store.Upsert(ctx, store.TypeDaily, period, report); err != nil {
		result.Error = err
		log.Error("import failed", zap.Error(err))
		return result
	}
	result.Success = true

	// =========================================================================
	// STEP 4: ARCHIVE
	// =========================================================================
	// The report is already saved, so a failed move only costs a warning.

	if im.files != nil && im.cfg.ShouldArchive() {
		archived, err := im.files.ArchiveInputFile(path)
		if err != nil {
			result.Warnings = append(result.Warnings, err.Error())
			log.Warn("failed to archive export", zap.Error(err))
		} else if archived != path {
			result.ArchivePath = archived
		}
	}

	log.Info("report imported",
		zap.String("date", report.Date),
		zap.Int("rows_scanned", p.parsed.RowsScanned),
		zap.Int("rows_applied", p.parsed.RowsApplied),
		zap.Int("unmatched_codes", len(p.parsed.Unmatched)),
	)
	return result
}
