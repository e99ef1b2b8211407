package importer

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/airport-ops/revenue-reconciler/internal/config"
	"github.com/airport-ops/revenue-reconciler/internal/csvparser"
	"github.com/airport-ops/revenue-reconciler/internal/xlsxparser"
)

// ErrUnsupportedFormat is returned for exports that are neither XLSX nor CSV.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Format is the container format of an export.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// FormatOf infers the export format from a file name.
func FormatOf(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".csv", ".txt":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(name))
	}
}

// ParseFile reads the export at path and parses it. The error is non-nil
// only when the document itself cannot be read.
func ParseFile(path string, csv config.CSVSettings, opts Options) (Result, error) {
	format, err := FormatOf(path)
	if err != nil {
		return Result{}, err
	}

	var rows [][]string
	switch format {
	case FormatXLSX:
		rows, err = xlsxparser.ReadFile(path)
	case FormatCSV:
		rows, err = csvparser.ReadFile(path, csv)
	}
	if err != nil {
		return Result{}, fmt.Errorf("failed to read export %s: %w", filepath.Base(path), err)
	}

	return ParseRows(rows, opts), nil
}

// Parse reads an export of the given format from r and parses it.
func Parse(r io.Reader, format Format, csv config.CSVSettings, opts Options) (Result, error) {
	var (
		rows [][]string
		err  error
	)
	switch format {
	case FormatXLSX:
		rows, err = xlsxparser.Read(r)
	case FormatCSV:
		rows, err = csvparser.Read(r, csv)
	default:
		return Result{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return Result{}, fmt.Errorf("failed to read export: %w", err)
	}

	return ParseRows(rows, opts), nil
}
