// =============================================================================
// Revenue Reconciler - Codes Command
// =============================================================================
//
// This file defines the 'codes' command, which lists the billing code table.
//
// COMMAND USAGE:
//   reconciler codes [--kind fee|booking|commission|extra]
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/airport-ops/revenue-reconciler/internal/codemap"
)

var codesKind string

var codesCmd = &cobra.Command{
	Use:   "codes",
	Short: "List the billing code table",
	Long: `The codes command lists every billing code the importer recognises, with
the carrier, service and price it maps to. Codes missing from this table are
skipped on import and listed as unmatched.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := renderCodes(codemap.Entries(), codesKind)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(codesCmd)

	codesCmd.Flags().StringVar(&codesKind, "kind", "", "Only list codes of this kind")
}

// renderCodes formats entries as a table, keeping only kind when set.
func renderCodes(entries []codemap.Entry, kind string) (string, error) {
	data := pterm.TableData{{"Code", "Kind", "Target", "Label", "Unit", "Price"}}
	for _, e := range entries {
		if kind != "" && e.Kind.String() != kind {
			continue
		}
		target := e.Carrier
		price := ""
		if e.Kind == codemap.KindExtra {
			target = e.Slot
		}
		if e.Kind == codemap.KindFee {
			price = money(e.Price)
		}
		data = append(data, []string{e.Code, e.Kind.String(), target, e.Label, e.Unit, price})
	}

	table, err := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(data).
		Srender()
	if err != nil {
		return "", fmt.Errorf("failed to render code table: %w", err)
	}
	return table, nil
}
