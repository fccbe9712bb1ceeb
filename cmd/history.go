package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/birkin/internal/contract"
	"github.com/huangsam/birkin/internal/iocache"
	"github.com/huangsam/birkin/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historyBackendFromConfig reads the history backend, treating empty as none.
func historyBackendFromConfig() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backend := schema.DatabaseBackend(viper.GetString("history-backend"))
	if backend == "" {
		backend = schema.NoneBackend
	}
	connStr := viper.GetString("history-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// historySetup loads minimal configuration needed for history operations.
func historySetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := historyBackendFromConfig()
	if err != nil {
		return err
	}

	// Initialize stores with the loaded config (no snapshot cache for history commands)
	if err := iocache.InitStores(schema.NoneBackend, "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// historyMigrateSetup does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func historyMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := historyBackendFromConfig()
	if err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend {
		connStr = sqlitePath(connStr, iocache.GetHistoryDBFilePath())
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	return nil
}

// historyCmd focused on fetch history management.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the record of every pricing fetch",
	Long: `Manage the optional fetch history.

When --history-backend is set, every network fetch is recorded with:
- Run metadata (time, day, degraded flag and reason, counts)
- Every raw price point of every series

Cache hits are not recorded. The history can be exported to Parquet for
analysis in DuckDB, pandas or a BI tool.

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show history statistics
  export  - Export runs and points to Parquet
  clear   - Remove all history
  migrate - Run database schema migrations

Examples:
  birkin history status --history-backend sqlite
  birkin history export --history-backend sqlite --output-file birkin`,
}

// historyClearCmd clears the history data.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded fetch runs and price points",
	Long: `Delete every recorded fetch run and price point.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  birkin history export --output-file backup
  birkin history clear`,
	PreRunE: historySetup,
	Run: func(_ *cobra.Command, _ []string) {
		// The open store would hold the SQLite file
		iocache.CloseCaching()
		if err := iocache.ClearHistory(cfg.HistoryBackend, sqlitePath(cfg.HistoryDBConnect, iocache.GetHistoryDBFilePath()), cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear fetch history", err)
		}
		fmt.Println("Fetch history cleared successfully.")
	},
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display fetch history statistics and connection details",
	Long: `Show the backend, connection state, run counts, degraded runs, last
and oldest run times and table sizes of the fetch history.

Examples:
  birkin history status`,
	PreRunE: historySetup,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetHistoryStore()
		if store == nil {
			iocache.PrintHistoryStatus(os.Stdout, schema.HistoryStatus{Backend: string(cfg.HistoryBackend)})
			return
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		iocache.PrintHistoryStatus(os.Stdout, status)
	},
}

// historyExportCmd exports history data to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export fetch history to Parquet",
	Long: `Export all recorded fetch runs and price points to two Parquet files
named <output-file>.fetch_runs.parquet and <output-file>.price_points.parquet.

Requires: --output-file parameter

Examples:
  birkin history export --output-file birkin
  duckdb -c "SELECT model, year, avg(price) FROM 'birkin.price_points.parquet' GROUP BY ALL"`,
	PreRunE: historySetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteHistoryExport(os.Stdout, iocache.Manager.GetHistoryStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export fetch history", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage schema versions of the fetch history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  birkin history migrate --history-backend postgresql --history-db-connect "..."

  # Rollback to the initial state
  birkin history migrate --target-version 0`,
	PreRunE: historyMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		msg, err := iocache.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, viper.GetInt("target-version"))
		if err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
		fmt.Println(msg)
	},
}
