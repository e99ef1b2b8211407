// =============================================================================
// Revenue Reconciler - Import Command
// =============================================================================
//
// This file defines the 'import' command, which turns accounting exports into
// stored DAILY reports.
//
// COMMAND USAGE:
//   reconciler import [files...] [flags]
//
// FLAGS:
//   --dry-run : Parse and validate without saving or archiving
//
// PROCESSING PIPELINE:
//   1. Load configuration, logger and report store
//   2. Use the given files, or discover exports in the input directory
//   3. Parse and validate every file (concurrently, at most max_concurrency
//      at once)
//   4. In input order, for each valid file:
//      a. Upsert it as the DAILY report of its date
//      b. Move the export to the input archive
//   5. Print one status line per file and write the run summary
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/airport-ops/revenue-reconciler/internal/importer"
	"github.com/airport-ops/revenue-reconciler/pkg/utils"
)

// exportExtensions are the file types picked up from the input directory.
var exportExtensions = []string{".xlsx", ".xlsm", ".csv"}

var (
	okMark   = color.New(color.FgGreen, color.Bold).SprintFunc()
	failMark = color.New(color.FgRed, color.Bold).SprintFunc()
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// dryRun parses and validates exports without saving them.
var dryRun bool

// =============================================================================
// IMPORT COMMAND DEFINITION
// =============================================================================

var importCmd = &cobra.Command{
	Use:   "import [files...]",
	Short: "Import accounting exports as daily reports",
	Long: `The import command parses accounting exports (XLSX or CSV) and stores each
one as the DAILY report of the date found in its header. Importing the same
date again replaces the stored report.

Without arguments every export in the input directory is imported.

On success:
  - The report is saved under its date
  - The export is moved to the input archive (unless archive_inputs is false)

On error:
  - The export stays where it is
  - Other files keep importing unless continue_on_error is false

A summary of the run is written to the output directory.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(commandContext(cmd), args)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	// --dry-run flag: parse and validate only.
	importCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Parse and validate exports without saving or archiving them",
	)
}

// =============================================================================
// MAIN IMPORT FUNCTION
// =============================================================================

func runImport(ctx context.Context, args []string) error {
	startTime := time.Now()

	a, err := setupApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.files.EnsureDirectories(); err != nil {
		return err
	}

	// =========================================================================
	// STEP 1: COLLECT INPUT FILES
	// =========================================================================

	inputFiles := args
	if len(inputFiles) == 0 {
		inputFiles, err = a.files.DiscoverInputFiles(exportExtensions...)
		if err != nil {
			return fmt.Errorf("failed to discover input files: %w", err)
		}
	}
	if len(inputFiles) == 0 {
		pterm.Info.Printfln("No exports found in %s", a.cfg.InputDir)
		return nil
	}
	pterm.Info.Printfln("Found %d export(s) to import", len(inputFiles))

	// =========================================================================
	// STEP 2: IMPORT
	// =========================================================================

	imp := importer.New(a.cfg, a.store, a.files, a.logger)
	imp.DryRun = dryRun

	results := importAll(ctx, imp, inputFiles, a.cfg.MaxConcurrency, a.cfg.ShouldContinueOnError())

	// =========================================================================
	// STEP 3: REPORT
	// =========================================================================

	summary := utils.ImportSummary{StartTime: startTime, TotalFiles: len(inputFiles)}
	for _, result := range results {
		name := filepath.Base(result.FilePath)
		summary.TotalRows += result.Stats.RowsScanned
		summary.Warnings += len(result.Warnings)

		if !result.Success {
			summary.FailedFiles++
			summary.FailedFilesList = append(summary.FailedFilesList, utils.FailedFileInfo{
				InputFile:    name,
				ErrorMessage: result.Error.Error(),
			})
			fmt.Printf("  %s %s: %v\n", failMark("✗"), name, result.Error)
			continue
		}

		summary.SuccessfulFiles++
		summary.AppliedRows += result.Stats.RowsApplied
		summary.ImportedFiles = append(summary.ImportedFiles, utils.ImportedFileInfo{
			InputFile:   name,
			ReportDate:  result.Date,
			ArchivePath: result.ArchivePath,
			Rows:        result.Stats.RowsScanned,
			AppliedRows: result.Stats.RowsApplied,
			Unmatched:   result.Unmatched,
			ProcessTime: result.Stats.ProcessingTime,
		})
		fmt.Printf("  %s %s -> %s (%d rows applied)\n", okMark("✓"), name, result.Date, result.Stats.RowsApplied)
		for _, w := range result.Warnings {
			pterm.Warning.Printfln("%s: %s", name, w)
		}
	}
	summary.EndTime = time.Now()

	fmt.Println()
	pterm.DefaultSection.Println("Import Complete")
	fmt.Printf("Total files:     %d\n", summary.TotalFiles)
	fmt.Printf("Successful:      %d\n", summary.SuccessfulFiles)
	fmt.Printf("Errors:          %d\n", summary.FailedFiles)
	fmt.Printf("Time elapsed:    %s\n", summary.EndTime.Sub(startTime).Round(time.Millisecond))

	if dryRun {
		pterm.Info.Println("Dry run: nothing was saved")
		return nil
	}

	summaryPath, err := a.files.WriteSummaryLog(summary)
	if err != nil {
		a.logger.Warn("could not write import summary", zap.Error(err))
	} else {
		pterm.Info.Printfln("Summary written to %s", summaryPath)
	}

	if summary.FailedFiles > 0 {
		return fmt.Errorf("%d of %d export(s) failed to import", summary.FailedFiles, summary.TotalFiles)
	}
	return nil
}

// importAll imports files in two phases. Exports are parsed and validated
// concurrently, at most limit at once. The prepared reports are then saved
// one by one in input order, so when several exports carry the same date the
// last one given wins, as it would in a sequential run.
//
// When continueOnError is false the first failure, in input order, skips
// every later file; skipped files fail with an error wrapping
// context.Canceled. Later files may already have been parsed by then, but
// nothing of theirs is saved or archived.
//
// RETURNS:
//   - One result per file, in input order.
func importAll(ctx context.Context, imp *importer.Importer, files []string, limit int, continueOnError bool) []importer.FileResult {
	if limit < 1 {
		limit = 1
	}

	// =========================================================================
	// PHASE 1: PREPARE CONCURRENTLY
	// =========================================================================

	pending := make([]*importer.Pending, len(files))
	var wg sync.WaitGroup
	sem := make(chan struct{}, limit)

	for i, file := range files {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}
			if ctx.Err() != nil {
				return
			}
			pending[i] = imp.Prepare(path)
		}(i, file)
	}
	wg.Wait()

	// =========================================================================
	// PHASE 2: COMMIT IN INPUT ORDER
	// =========================================================================

	results := make([]importer.FileResult, len(files))
	savedBy := make(map[string]string)
	stopped := false

	for i, path := range files {
		if stopped {
			results[i] = skipped(path, context.Canceled)
			continue
		}
		if err := ctx.Err(); err != nil {
			results[i] = skipped(path, err)
			continue
		}
		if pending[i] == nil {
			results[i] = skipped(path, context.Canceled)
			continue
		}

		result := imp.Commit(ctx, pending[i])
		if result.Success {
			if earlier, ok := savedBy[result.Date]; ok {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("replaces %s, imported earlier in this run for %s", earlier, result.Date))
			}
			savedBy[result.Date] = filepath.Base(path)
		} else if !continueOnError {
			stopped = true
		}
		results[i] = result
	}
	return results
}

func skipped(path string, cause error) importer.FileResult {
	return importer.FileResult{FilePath: path, Error: fmt.Errorf("skipped: %w", cause)}
}
