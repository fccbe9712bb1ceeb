package iocache

import (
	"cmp"
	"database/sql"
	"fmt"
	"slices"
	"time"

	"github.com/huangsam/birkin/internal/contract"
	"github.com/huangsam/birkin/schema"
)

// Table names for fetch history tracking.
const (
	fetchRunsTable   = "birkin_fetch_runs"
	pricePointsTable = "birkin_price_points"
)

// historyTables lists every history table in creation order.
var historyTables = []string{fetchRunsTable, pricePointsTable}

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &HistoryStoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr, GetHistoryDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := createHistoryTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &HistoryStoreImpl{db: db, backend: backend}, nil
}

// createHistoryTables creates the fetch history tables.
func createHistoryTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{fetchRunsTable, getCreateFetchRunsQuery(backend)},
		{pricePointsTable, getCreatePricePointsQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateFetchRunsQuery returns the CREATE TABLE query for birkin_fetch_runs.
func getCreateFetchRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(fetchRunsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				fetched_at DATETIME(6) NOT NULL,
				day CHAR(10) NOT NULL,
				degraded BOOLEAN NOT NULL,
				reason TEXT,
				series_count INT NOT NULL,
				point_count INT NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				fetched_at TIMESTAMPTZ NOT NULL,
				day TEXT NOT NULL,
				degraded BOOLEAN NOT NULL,
				reason TEXT,
				series_count INT NOT NULL,
				point_count INT NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				fetched_at TEXT NOT NULL,
				day TEXT NOT NULL,
				degraded INTEGER NOT NULL,
				reason TEXT,
				series_count INTEGER NOT NULL,
				point_count INTEGER NOT NULL
			);
		`, quotedTableName)
	}
}

// getCreatePricePointsQuery returns the CREATE TABLE query for birkin_price_points.
func getCreatePricePointsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(pricePointsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				model VARCHAR(32) NOT NULL,
				hardware VARCHAR(32) NOT NULL,
				special VARCHAR(32) NOT NULL,
				seq INT NOT NULL,
				year INT NOT NULL,
				month VARCHAR(32),
				price DOUBLE NOT NULL,
				PRIMARY KEY (run_id, model, hardware, special, seq)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				model TEXT NOT NULL,
				hardware TEXT NOT NULL,
				special TEXT NOT NULL,
				seq INT NOT NULL,
				year INT NOT NULL,
				month TEXT,
				price DOUBLE PRECISION NOT NULL,
				PRIMARY KEY (run_id, model, hardware, special, seq)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				model TEXT NOT NULL,
				hardware TEXT NOT NULL,
				special TEXT NOT NULL,
				seq INTEGER NOT NULL,
				year INTEGER NOT NULL,
				month TEXT,
				price REAL NOT NULL,
				PRIMARY KEY (run_id, model, hardware, special, seq)
			);
		`, quotedTableName)
	}
}

// sortedSeriesKeys returns the dataset's leaf keys in a stable order.
func sortedSeriesKeys(data schema.PriceDataset) []schema.SeriesKey {
	var keys []schema.SeriesKey
	for model, byHardware := range data {
		for hardware, bySpecial := range byHardware {
			for special := range bySpecial {
				keys = append(keys, schema.SeriesKey{Model: model, Hardware: hardware, Special: special})
			}
		}
	}
	slices.SortFunc(keys, func(a, b schema.SeriesKey) int {
		if c := cmp.Compare(string(a.Model), string(b.Model)); c != 0 {
			return c
		}
		if c := cmp.Compare(string(a.Hardware), string(b.Hardware)); c != 0 {
			return c
		}
		return cmp.Compare(string(a.Special), string(b.Special))
	})
	return keys
}

// RecordFetch stores the run and every point of its dataset in one transaction.
func (hs *HistoryStoreImpl) RecordFetch(fetchedAt time.Time, day string, result schema.FetchResult) (int64, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return 0, nil
	}

	seriesCount, pointCount := result.Data.Counts()
	var reason *string
	if result.Err != nil {
		msg := result.Err.Error()
		reason = &msg
	}

	tx, err := hs.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin history transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	runsTable := quoteTableName(fetchRunsTable, hs.backend)
	runArgs := []any{formatTime(fetchedAt, hs.backend), day, result.Degraded(), reason, seriesCount, pointCount}
	runColumns := "fetched_at, day, degraded, reason, series_count, point_count"

	var runID int64
	switch hs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING run_id`, runsTable, runColumns, placeholders(hs.backend, len(runArgs)))
		err = tx.QueryRow(query, runArgs...).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`, runsTable, runColumns, placeholders(hs.backend, len(runArgs)))
		var res sql.Result
		res, err = tx.Exec(query, runArgs...)
		if err == nil {
			runID, err = res.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert fetch run: %w", err)
	}

	pointsQuery := fmt.Sprintf(`INSERT INTO %s (run_id, model, hardware, special, seq, year, month, price) VALUES (%s)`,
		quoteTableName(pricePointsTable, hs.backend), placeholders(hs.backend, 8))
	stmt, err := tx.Prepare(pointsQuery)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare price point insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, key := range sortedSeriesKeys(result.Data) {
		for seq, p := range result.Data.Series(key) {
			var month *string
			if p.Month != "" {
				m := p.Month
				month = &m
			}
			if _, err := stmt.Exec(runID, string(key.Model), string(key.Hardware), string(key.Special), seq, p.Year, month, p.Price); err != nil {
				return 0, fmt.Errorf("failed to insert price point %s #%d: %w", key, seq, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit history transaction: %w", err)
	}
	return runID, nil
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}

	if hs.backend == schema.NoneBackend || hs.db == nil {
		return status, nil
	}

	runsTable := quoteTableName(fetchRunsTable, hs.backend)

	countQuery := fmt.Sprintf("SELECT COUNT(*), COALESCE(SUM(CASE WHEN degraded THEN 1 ELSE 0 END), 0), COALESCE(SUM(point_count), 0) FROM %s", runsTable)
	if err := hs.db.QueryRow(countQuery).Scan(&status.TotalRuns, &status.DegradedRuns, &status.TotalPoints); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		var lastRaw, oldestRaw any
		lastQuery := fmt.Sprintf("SELECT run_id, fetched_at FROM %s ORDER BY run_id DESC LIMIT 1", runsTable)
		if err := hs.db.QueryRow(lastQuery).Scan(&status.LastRunID, &lastRaw); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		lastRunTime, err := scanTime(lastRaw)
		if err != nil {
			return status, fmt.Errorf("failed to parse last run time: %w", err)
		}
		status.LastRunTime = lastRunTime

		oldestQuery := fmt.Sprintf("SELECT fetched_at FROM %s ORDER BY run_id ASC LIMIT 1", runsTable)
		if err := hs.db.QueryRow(oldestQuery).Scan(&oldestRaw); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		oldestRunTime, err := scanTime(oldestRaw)
		if err != nil {
			return status, fmt.Errorf("failed to parse oldest run time: %w", err)
		}
		status.OldestRunTime = oldestRunTime
	}

	for _, table := range historyTables {
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, hs.backend))
		var count int64
		if err := hs.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// GetAllFetchRuns retrieves every recorded run, oldest first.
func (hs *HistoryStoreImpl) GetAllFetchRuns() ([]schema.FetchRunRecord, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT run_id, fetched_at, day, degraded, reason, series_count, point_count FROM %s ORDER BY run_id",
		quoteTableName(fetchRunsTable, hs.backend))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query fetch runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.FetchRunRecord
	for rows.Next() {
		var record schema.FetchRunRecord
		var fetchedRaw any
		if err := rows.Scan(&record.RunID, &fetchedRaw, &record.Day, &record.Degraded, &record.Reason,
			&record.SeriesCount, &record.PointCount); err != nil {
			return nil, fmt.Errorf("failed to scan fetch run: %w", err)
		}
		fetchedAt, err := scanTime(fetchedRaw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse fetched_at: %w", err)
		}
		record.FetchedAt = fetchedAt
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fetch runs: %w", err)
	}
	return results, nil
}

// GetAllPricePoints retrieves every recorded point ordered by run and series.
func (hs *HistoryStoreImpl) GetAllPricePoints() ([]schema.PricePointRecord, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, model, hardware, special, seq, year, month, price
		FROM %s ORDER BY run_id, model, hardware, special, seq`, quoteTableName(pricePointsTable, hs.backend))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query price points: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.PricePointRecord
	for rows.Next() {
		var record schema.PricePointRecord
		if err := rows.Scan(&record.RunID, &record.Model, &record.Hardware, &record.Special,
			&record.Seq, &record.Year, &record.Month, &record.Price); err != nil {
			return nil, fmt.Errorf("failed to scan price point: %w", err)
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price points: %w", err)
	}
	return results, nil
}
