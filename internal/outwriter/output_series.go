package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/birkin/internal/contract"
	"github.com/huangsam/birkin/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// seriesCSVHeader is the column order for CSV series output.
var seriesCSVHeader = []string{"label", "year", "month", "price"}

// writeSeriesCSV writes one row per display point.
func writeSeriesCSV(w io.Writer, result *schema.SeriesResult) error {
	return writeCSVWithHeader(w, seriesCSVHeader, func(cw *csv.Writer) error {
		for _, p := range result.Points {
			row := []string{
				p.Label,
				strconv.Itoa(p.Year),
				p.Month,
				strconv.FormatInt(p.Price, 10),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeSeriesText prints the selection header, the points table and the summary block.
func writeSeriesText(w io.Writer, result *schema.SeriesResult, cfg *contract.Config, duration time.Duration) error {
	sel := result.Selection
	if _, err := fmt.Fprintf(w, "👜 %s (%s regime, %s listing)\n", sel.Key(), sel.Regime, sel.Listing); err != nil {
		return err
	}

	if len(result.Points) == 0 {
		if _, err := fmt.Fprintln(w, "No price history for this selection."); err != nil {
			return err
		}
	} else if err := writeSeriesTable(w, result, isCompact(cfg)); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "\nSpot valuation:   %s\n", formatUSD(result.Summary.SpotValuation)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Net exit floor:   %s\n", formatUSD(result.Summary.NetExitFloor)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Annualized yield: %s\n\n", yieldText(result.Summary.AnnualizedYield, cfg)); err != nil {
		return err
	}

	if result.Degraded {
		warning := "⚠️  Live pricing is unavailable, showing an empty dataset."
		if cfg.UseColors {
			warning = contract.DegradeColor.Sprint(warning)
		}
		if _, err := fmt.Fprintln(w, warning); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Data as of %s from %s in %v. Cache backend: %s\n",
		result.LastUpdated, result.Source, duration.Round(time.Millisecond), cfg.CacheBackend)
	return err
}

// writeSeriesTable renders the display points. Compact tables keep only the label and price.
func writeSeriesTable(w io.Writer, result *schema.SeriesResult, compact bool) error {
	table := tablewriter.NewWriter(w)

	headers := []string{"#", "Label", "Year", "Month", "Price"}
	if compact {
		headers = []string{"Label", "Price"}
	}
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(result.Points))
	for i, p := range result.Points {
		if compact {
			data = append(data, []string{p.Label, formatUSD(p.Price)})
			continue
		}
		month := p.Month
		if month == "" {
			month = "-"
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			p.Label,
			strconv.Itoa(p.Year),
			month,
			formatUSD(p.Price),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
