// =============================================================================
// Revenue Reconciler - File Manager Utility
// =============================================================================
//
// This module provides file management utilities for the CLI, including:
//   - Export discovery in the input directory
//   - Archival of imported exports
//   - Output file naming
//   - Run summary generation
//
// ARCHIVAL STRATEGY:
//   - Exports are moved to input_archive after a successful import
//   - Failed exports remain in the input directory for a retry
//   - An export whose name already exists in the archive is stored with a
//     numeric suffix instead of overwriting the earlier copy
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for the import and export commands.
type FileManager struct {
	// InputDir is the directory where accounting exports are placed.
	InputDir string

	// OutputDir is the directory where workbooks and summaries are written.
	OutputDir string

	// InputArchiveDir is the directory for imported exports.
	InputArchiveDir string

	// UseTimestampSubdirs creates date-based subdirectories in the archive.
	// Example: input_archive/2025/11/05/export.xlsx
	UseTimestampSubdirs bool

	// ArchiveOnSuccess determines whether imported exports are moved away.
	ArchiveOnSuccess bool

	// Now is the clock used for archive subdirectories and file names.
	Now func() time.Time
}

// NewFileManager creates a new FileManager with the specified directories.
func NewFileManager(inputDir, outputDir, inputArchiveDir string) *FileManager {
	return &FileManager{
		InputDir:         inputDir,
		OutputDir:        outputDir,
		InputArchiveDir:  inputArchiveDir,
		ArchiveOnSuccess: true,
		Now:              time.Now,
	}
}

func (fm *FileManager) now() time.Time {
	if fm.Now == nil {
		return time.Now()
	}
	return fm.Now()
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates all required directories if they don't exist.
func (fm *FileManager) EnsureDirectories() error {
	for _, dir := range []string{fm.InputDir, fm.OutputDir, fm.InputArchiveDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// DiscoverInputFiles lists the files in the input directory whose extension
// is one of extensions (case-insensitive), sorted by name. Subdirectories are
// not scanned. Lock files left behind by spreadsheet editors ("~$...") are
// skipped.
//
// PARAMETERS:
//   - extensions: Extensions including the dot, e.g. ".xlsx", ".csv".
//
// RETURNS:
//   - A slice of file paths.
//   - An error if the directory cannot be read.
func (fm *FileManager) DiscoverInputFiles(extensions ...string) ([]string, error) {
	entries, err := os.ReadDir(fm.InputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan input directory: %w", err)
	}

	wanted := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		wanted[strings.ToLower(ext)] = true
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "~$") {
			continue
		}
		if len(wanted) > 0 && !wanted[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		files = append(files, filepath.Join(fm.InputDir, name))
	}

	sort.Strings(files)
	return files, nil
}

// =============================================================================
// FILE ARCHIVAL
// =============================================================================

// ArchiveInputFile moves an imported export to the archive directory.
//
// PARAMETERS:
//   - filePath: The path to the file to archive.
//
// RETURNS:
//   - The path to the archived file, or filePath when archiving is disabled.
//   - An error if archival fails.
func (fm *FileManager) ArchiveInputFile(filePath string) (string, error) {
	if !fm.ArchiveOnSuccess {
		return filePath, nil
	}

	archivePath := fm.getArchivePath(filePath)
	if err := os.MkdirAll(filepath.Dir(archivePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	if err := os.Rename(filePath, archivePath); err != nil {
		// Rename fails across devices; fall back to copy and delete.
		if err := copyFile(filePath, archivePath); err != nil {
			return "", fmt.Errorf("failed to copy file to archive: %w", err)
		}
		if err := os.Remove(filePath); err != nil {
			return "", fmt.Errorf("failed to remove original file: %w", err)
		}
	}

	return archivePath, nil
}

// getArchivePath constructs a free archive path for a file.
func (fm *FileManager) getArchivePath(filePath string) string {
	dir := fm.InputArchiveDir
	if fm.UseTimestampSubdirs {
		now := fm.now()
		dir = filepath.Join(dir,
			fmt.Sprintf("%d", now.Year()),
			fmt.Sprintf("%02d", now.Month()),
			fmt.Sprintf("%02d", now.Day()),
		)
	}

	fileName := filepath.Base(filePath)
	candidate := filepath.Join(dir, fileName)
	ext := filepath.Ext(fileName)
	stem := strings.TrimSuffix(fileName, ext)
	for i := 1; FileExists(candidate); i++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, i, ext))
	}
	return candidate
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeName turns a free-form label (such as a range label
// "2025-11-01 - 2025-11-30") into a string safe for a file name.
func SanitizeName(label string) string {
	name := unsafeNameChars.ReplaceAllString(strings.TrimSpace(label), "_")
	name = strings.Trim(name, "_")
	if name == "" {
		return "report"
	}
	return name
}

// GenerateOutputFileName generates a unique output file name.
//
// PARAMETERS:
//   - format: The format string for the file name.
//             Placeholders:
//               {uuid}      - A random UUID
//               {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//               {date}      - Current date (YYYYMMDD)
//               {type}      - Report type
//               {period}    - Period label
//   - params: A map of placeholder values. Values are sanitized.
//
// RETURNS:
//   - The generated file name, always ending in .xlsx.
//
// EXAMPLE:
//   format: "{type}_{period}_{uuid}.xlsx"
//   params: {"type": "monthly", "period": "2025-11"}
//   output: "monthly_2025-11_a1b2c3d4-e5f6-7890-abcd-ef1234567890.xlsx"
func (fm *FileManager) GenerateOutputFileName(format string, params map[string]string) string {
	now := fm.now()

	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
	}
	for key, value := range params {
		replacements["{"+key+"}"] = SanitizeName(value)
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	if !strings.HasSuffix(strings.ToLower(result), ".xlsx") {
		result += ".xlsx"
	}

	return result
}

// OutputPath joins a generated file name onto the output directory.
func (fm *FileManager) OutputPath(format string, params map[string]string) string {
	return filepath.Join(fm.OutputDir, fm.GenerateOutputFileName(format, params))
}

// =============================================================================
// IMPORT SUMMARY
// =============================================================================

// ImportSummary contains summary information about an import run.
type ImportSummary struct {
	StartTime       time.Time
	EndTime         time.Time
	TotalFiles      int
	SuccessfulFiles int
	FailedFiles     int
	TotalRows       int
	AppliedRows     int
	Warnings        int
	ImportedFiles   []ImportedFileInfo
	FailedFilesList []FailedFileInfo
}

// ImportedFileInfo contains information about a successfully imported export.
type ImportedFileInfo struct {
	InputFile   string
	ReportDate  string
	ArchivePath string
	Rows        int
	AppliedRows int
	Unmatched   []string
	ProcessTime time.Duration
}

// FailedFileInfo contains information about a failed export.
type FailedFileInfo struct {
	InputFile    string
	ErrorMessage string
}

// WriteSummaryLog writes an import summary to a text file in the output
// directory.
//
// RETURNS:
//   - The path to the summary file.
//   - An error if writing fails.
func (fm *FileManager) WriteSummaryLog(summary ImportSummary) (string, error) {
	timestamp := fm.now().Format("20060102_150405")
	summaryPath := filepath.Join(fm.OutputDir, fmt.Sprintf("import_summary_%s.txt", timestamp))

	file, err := os.Create(summaryPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	if err := writeSummary(file, summary); err != nil {
		return "", fmt.Errorf("failed to write summary file: %w", err)
	}
	return summaryPath, nil
}

func writeSummary(w io.Writer, summary ImportSummary) error {
	writer := bufio.NewWriter(w)

	duration := summary.EndTime.Sub(summary.StartTime)
	fmt.Fprintf(writer, "Revenue Reconciler - Import Summary\n"+
		"================================================================================\n\n"+
		"Run Information:\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n\n"+
		"Statistics:\n"+
		"  Total Files:    %d\n"+
		"  Successful:     %d\n"+
		"  Failed:         %d\n"+
		"  Rows Scanned:   %d\n"+
		"  Rows Applied:   %d\n"+
		"  Warnings:       %d\n\n",
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		duration.String(),
		summary.TotalFiles,
		summary.SuccessfulFiles,
		summary.FailedFiles,
		summary.TotalRows,
		summary.AppliedRows,
		summary.Warnings)

	if len(summary.ImportedFiles) > 0 {
		writer.WriteString("Imported Files:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, f := range summary.ImportedFiles {
			fmt.Fprintf(writer, "  Input:        %s\n", f.InputFile)
			fmt.Fprintf(writer, "  Report Date:  %s\n", f.ReportDate)
			if f.ArchivePath != "" && f.ArchivePath != f.InputFile {
				fmt.Fprintf(writer, "  Archived To:  %s\n", f.ArchivePath)
			}
			fmt.Fprintf(writer, "  Rows:         %d (%d applied)\n", f.Rows, f.AppliedRows)
			if len(f.Unmatched) > 0 {
				fmt.Fprintf(writer, "  Unmatched:    %s\n", strings.Join(f.Unmatched, ", "))
			}
			fmt.Fprintf(writer, "  Process Time: %s\n\n", f.ProcessTime.String())
		}
	}

	if len(summary.FailedFilesList) > 0 {
		writer.WriteString("Failed Files:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, f := range summary.FailedFilesList {
			fmt.Fprintf(writer, "  File:  %s\n", f.InputFile)
			fmt.Fprintf(writer, "  Error: %s\n\n", f.ErrorMessage)
		}
	}

	writer.WriteString("================================================================================\n" +
		"End of Summary\n")

	return writer.Flush()
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	return destFile.Sync()
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
