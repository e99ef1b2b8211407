// =============================================================================
// Revenue Reconciler - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Revenue Reconciler CLI. It delegates
// command execution to the cmd package.
//
// USAGE:
//   reconciler import       - Import accounting exports as daily reports
//   reconciler aggregate    - Merge daily reports of a month or range
//   reconciler totals       - Show carrier and airport totals
//   reconciler export       - Write a report to an XLSX workbook
//   reconciler codes        - List the billing code table
//   reconciler version      - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Report model, import, aggregation, storage, export
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/airport-ops/revenue-reconciler/cmd"
)

func main() {
	cmd.Execute()
}
