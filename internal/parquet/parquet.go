// Package parquet provides data structures and functions for exporting birkin
// pricing data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/birkin/schema"
	"github.com/parquet-go/parquet-go"
)

// FetchRun represents a single recorded network fetch.
// This struct maps to the birkin_fetch_runs database table.
type FetchRun struct {
	// RunID is the unique identifier for this fetch
	RunID int64 `parquet:"run_id,snappy"`

	// FetchedAt is when the fetch completed (stored as TIMESTAMP with nanosecond precision)
	FetchedAt time.Time `parquet:"fetched_at,snappy"`

	// Day is the local calendar day the snapshot was stamped with
	Day string `parquet:"day,snappy"`

	// Degraded is true when the fetch failed and an empty dataset was stored
	Degraded bool `parquet:"degraded,snappy"`

	// Reason is the failure message (nullable)
	Reason *string `parquet:"reason,optional,snappy"`

	SeriesCount int32 `parquet:"series_count,snappy"`
	PointCount  int32 `parquet:"point_count,snappy"`
}

// PricePoint represents one raw observation captured by a fetch.
// This struct maps to the birkin_price_points database table.
type PricePoint struct {
	RunID    int64  `parquet:"run_id,snappy"`
	Model    string `parquet:"model,snappy,dict"`
	Hardware string `parquet:"hardware,snappy,dict"`
	Special  string `parquet:"special,snappy,dict"`

	// Seq is the position of the point inside its series, oldest first
	Seq  int32 `parquet:"seq,snappy"`
	Year int32 `parquet:"year,snappy"`

	// Month is empty for annual observations (nullable)
	Month *string `parquet:"month,optional,snappy"`

	// Price is the unadjusted USD value
	Price float64 `parquet:"price,snappy"`
}

// SeriesPoint is one adjusted chart point together with the selection that produced it.
type SeriesPoint struct {
	Regime   string  `parquet:"regime,snappy,dict"`
	Model    string  `parquet:"model,snappy,dict"`
	Hardware string  `parquet:"hardware,snappy,dict"`
	Special  string  `parquet:"special,snappy,dict"`
	Listing  string  `parquet:"listing,snappy,dict"`
	Label    string  `parquet:"label,snappy"`
	Year     int32   `parquet:"year,snappy"`
	Month    *string `parquet:"month,optional,snappy"`
	Price    int64   `parquet:"price,snappy"`
}

// writeParquet writes rows of any struct type to a new Parquet file at outputPath.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the struct tags of T
	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteFetchRunsParquet writes a slice of FetchRun structs to a Parquet file.
func WriteFetchRunsParquet(data []FetchRun, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WritePricePointsParquet writes a slice of PricePoint structs to a Parquet file.
func WritePricePointsParquet(data []PricePoint, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteSeriesParquet writes the adjusted points of one series result to a Parquet file.
func WriteSeriesParquet(result *schema.SeriesResult, outputPath string) error {
	return writeParquet(ConvertSeriesResult(result), outputPath)
}

// ConvertFetchRunRecords converts schema.FetchRunRecord to FetchRun for Parquet export.
func ConvertFetchRunRecords(records []schema.FetchRunRecord) []FetchRun {
	result := make([]FetchRun, len(records))
	for i, record := range records {
		result[i] = FetchRun{
			RunID:       record.RunID,
			FetchedAt:   record.FetchedAt,
			Day:         record.Day,
			Degraded:    record.Degraded,
			Reason:      record.Reason,
			SeriesCount: record.SeriesCount,
			PointCount:  record.PointCount,
		}
	}
	return result
}

// ConvertPricePointRecords converts schema.PricePointRecord to PricePoint for Parquet export.
func ConvertPricePointRecords(records []schema.PricePointRecord) []PricePoint {
	result := make([]PricePoint, len(records))
	for i, record := range records {
		result[i] = PricePoint{
			RunID:    record.RunID,
			Model:    record.Model,
			Hardware: record.Hardware,
			Special:  record.Special,
			Seq:      record.Seq,
			Year:     record.Year,
			Month:    record.Month,
			Price:    record.Price,
		}
	}
	return result
}

// ConvertSeriesResult flattens a series result into one row per point.
func ConvertSeriesResult(result *schema.SeriesResult) []SeriesPoint {
	sel := result.Selection
	rows := make([]SeriesPoint, len(result.Points))
	for i, p := range result.Points {
		var month *string
		if p.Month != "" {
			m := p.Month
			month = &m
		}
		rows[i] = SeriesPoint{
			Regime:   string(sel.Regime),
			Model:    string(sel.Model),
			Hardware: string(sel.Hardware),
			Special:  string(sel.Special),
			Listing:  string(sel.Listing),
			Label:    p.Label,
			Year:     int32(p.Year),
			Month:    month,
			Price:    p.Price,
		}
	}
	return rows
}
