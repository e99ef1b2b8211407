// =============================================================================
// Revenue Reconciler - XLSX Export Reader
// =============================================================================
//
// This module reads accounting exports saved as XLSX workbooks. Only the
// first sheet is read, and it is returned as raw rows of cell text so the
// importer can scan it positionally:
//
//   | Column A | Column B | Column C          | ... | Column F | ... | Column H |
//   |----------|----------|-------------------|-----|----------|-----|----------|
//   | ...      | ...      | US1035-Check in   | ... | 12       | ... | 480      |
//
// Cells are read with their raw values. Number formats (thousands
// separators, currency symbols) would otherwise make numeric cells
// unparseable.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// =============================================================================
// READER FUNCTIONS
// =============================================================================

// ReadFile opens the workbook at path and returns the rows of its first sheet.
//
// RETURNS:
//   - The rows of the first sheet; trailing empty cells are omitted per row.
//   - An error if the file cannot be opened or has no sheets.
func ReadFile(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return firstSheetRows(f)
}

// Read decodes a workbook from r and returns the rows of its first sheet.
// Used when the export arrives as an upload body rather than a file.
func Read(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode workbook: %w", err)
	}
	defer f.Close()

	return firstSheetRows(f)
}

// firstSheetRows reads every row of the first sheet of an open workbook.
func firstSheetRows(f *excelize.File) ([][]string, error) {
	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of sheet %q: %w", sheetName, err)
	}

	return rows, nil
}
