// Package outwriter has output and writer logic.
package outwriter

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/birkin/internal/contract"
	"github.com/huangsam/birkin/internal/parquet"
	"github.com/huangsam/birkin/schema"
)

// ErrParquetNeedsFile is returned when parquet output has nowhere to go.
var ErrParquetNeedsFile = errors.New("parquet output requires --output-file")

// WriteSeriesResult prints a series and its summary, dispatching based on the output format configured.
func WriteSeriesResult(result *schema.SeriesResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON series"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.YAMLOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeYAML(w, result)
		}, "Wrote YAML series"); err != nil {
			return fmt.Errorf("error writing YAML output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSeriesCSV(w, result)
		}, "Wrote CSV series"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return ErrParquetNeedsFile
		}
		if err := parquet.WriteSeriesParquet(result, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		contract.Logger.Info().Str("file", cfg.OutputFile).Int("points", len(result.Points)).Msg("Wrote Parquet series")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSeriesText(w, result, cfg, duration)
		}, "Wrote table")
	}
	return nil
}

// WriteFactors prints the multiplier table and summary formulas.
// Parquet has no factor layout, so it falls back to the text form.
func WriteFactors(model *schema.FactorsRenderModel, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, model)
		}, "Wrote JSON")
	case schema.YAMLOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeYAML(w, model)
		}, "Wrote YAML")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeFactorsCSV(w, model)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeFactorsText(w, model)
		}, "Wrote text")
	}
}

// WriteConsultOutcome prints the inline status of a consultation request.
func WriteConsultOutcome(outcome schema.ConsultOutcome, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(stdout, outcome)
	case schema.YAMLOut:
		return writeYAML(stdout, outcome)
	default:
		return writeConsultText(stdout, outcome, cfg)
	}
}

// WriteChartNotice tells the user where the chart went and what it shows.
func WriteChartNotice(path string, result *schema.SeriesResult, cfg *contract.Config) error {
	_, err := fmt.Fprintf(stdout, "📈 Chart of %s (%d points, yield %s) written to %s\n",
		result.Selection.Key(), len(result.Points), yieldText(result.Summary.AnnualizedYield, cfg), path)
	return err
}
