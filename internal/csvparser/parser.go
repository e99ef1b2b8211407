// =============================================================================
// Revenue Reconciler - CSV Export Reader
// =============================================================================
//
// This module reads accounting exports saved as CSV. The accounting system
// can write the same export as CSV instead of XLSX; the row layout is the
// same, so the rows are returned raw and scanned positionally by the
// importer. It handles:
//   - Different delimiters (comma, semicolon, pipe, tab)
//   - Legacy single-byte encodings (Windows-1250 and friends)
//   - A UTF-8 byte order mark at the start of the file
//   - Rows with varying field counts
//
// =============================================================================

package csvparser

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/airport-ops/revenue-reconciler/internal/config"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// =============================================================================
// READER FUNCTIONS
// =============================================================================

// ReadFile reads a CSV export from disk.
func ReadFile(path string, settings config.CSVSettings) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Read(file, settings)
}

// Read reads every row of a CSV export.
//
// RETURNS:
//   - The rows as raw cell text.
//   - An error if the encoding is unknown or the CSV is malformed beyond
//     what lazy quoting tolerates.
func Read(r io.Reader, settings config.CSVSettings) ([][]string, error) {
	dec, err := decoder(settings.Encoding)
	if err != nil {
		return nil, err
	}

	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	var src io.Reader = br
	if dec != nil {
		src = transform.NewReader(br, dec.NewDecoder())
	}

	csvReader := csv.NewReader(src)
	configureReader(csvReader, settings)

	rows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	return rows, nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.CSVSettings) {
	switch settings.Delimiter {
	case "\\t", "\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if len(settings.Delimiter) > 0 {
			reader.Comma = rune(settings.Delimiter[0])
		} else {
			reader.Comma = ','
		}
	}

	// Export rows have varying field counts (title rows, totals rows).
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}

// decoder returns the charmap for a legacy encoding, or nil for UTF-8.
func decoder(name string) (encoding.Encoding, error) {
	switch strings.ToUpper(strings.ReplaceAll(name, "_", "-")) {
	case "", "UTF-8", "UTF8":
		return nil, nil
	case "WINDOWS-1250", "CP1250":
		return charmap.Windows1250, nil
	case "WINDOWS-1252", "CP1252":
		return charmap.Windows1252, nil
	case "ISO-8859-1", "LATIN1":
		return charmap.ISO8859_1, nil
	case "ISO-8859-2", "LATIN2":
		return charmap.ISO8859_2, nil
	default:
		return nil, fmt.Errorf("unsupported CSV encoding %q", name)
	}
}
