package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/birkin/schema"
	"github.com/olekukonko/tablewriter"
)

// writeFactorsText displays the multipliers as a table followed by the formulas.
func writeFactorsText(w io.Writer, model *schema.FactorsRenderModel) error {
	if _, err := fmt.Fprintf(w, "👜 Birkin Index Pricing Factors\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "==============================\n\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s\n\n", model.Description); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Dimension", "Value", "Factor"})
	for _, f := range model.Factors {
		if err := table.Append([]string{f.Dimension, f.Value, formatFactor(f.Factor)}); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "\n📐 Summary formulas\n"); err != nil {
		return err
	}
	for _, formula := range model.Formulas {
		if _, err := fmt.Fprintf(w, "   %s\n", formula); err != nil {
			return err
		}
	}
	return nil
}

// writeFactorsCSV writes one row per multiplier.
func writeFactorsCSV(w io.Writer, model *schema.FactorsRenderModel) error {
	return writeCSVWithHeader(w, []string{"dimension", "value", "factor"}, func(cw *csv.Writer) error {
		for _, f := range model.Factors {
			if err := cw.Write([]string{f.Dimension, f.Value, formatFactor(f.Factor)}); err != nil {
				return err
			}
		}
		return nil
	})
}

// formatFactor prints the shortest form that round-trips, e.g. "1.1" or "0.85".
func formatFactor(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
