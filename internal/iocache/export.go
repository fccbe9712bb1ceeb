package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/birkin/internal/contract"
	"github.com/huangsam/birkin/internal/parquet"
)

// ExecuteHistoryExport writes every recorded fetch run and price point to Parquet files
// named after outputFile.
func ExecuteHistoryExport(w io.Writer, store contract.HistoryStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("history tracking is disabled. Set --history-backend to enable it")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no fetch history found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total fetch runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total price points: %d\n", status.TableSizes[pricePointsTable])

	runs, err := store.GetAllFetchRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve fetch runs: %w", err)
	}
	points, err := store.GetAllPricePoints()
	if err != nil {
		return fmt.Errorf("failed to retrieve price points: %w", err)
	}

	runsFile := outputFile + ".fetch_runs.parquet"
	if err := parquet.WriteFetchRunsParquet(parquet.ConvertFetchRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write fetch runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d fetch runs to: %s\n", len(runs), runsFile)

	pointsFile := outputFile + ".price_points.parquet"
	if err := parquet.WritePricePointsParquet(parquet.ConvertPricePointRecords(points), pointsFile); err != nil {
		return fmt.Errorf("failed to write price points: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d price points to: %s\n", len(points), pointsFile)

	return nil
}
