package iocache

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/huangsam/birkin/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetGlobals lets a test run InitStores and CloseCaching again.
func resetGlobals(t *testing.T) {
	t.Helper()
	initOnce = sync.Once{}
	closeOnce = sync.Once{}
	Manager = &StoreManager{}
	t.Cleanup(func() {
		CloseCaching()
		initOnce = sync.Once{}
		closeOnce = sync.Once{}
		Manager = &StoreManager{}
	})
}

func TestInitStores(t *testing.T) {
	t.Run("sqlite snapshot and history", func(t *testing.T) {
		resetGlobals(t)
		dir := t.TempDir()
		cachePath := filepath.Join(dir, "cache.db")
		historyPath := filepath.Join(dir, "history.db")

		err := InitStores(schema.SQLiteBackend, cachePath, schema.SQLiteBackend, historyPath)
		require.NoError(t, err)

		assert.NotNil(t, Manager.GetSnapshotStore())
		assert.NotNil(t, Manager.GetHistoryStore())

		_, err = os.Stat(cachePath)
		assert.NoError(t, err, "Cache database file should be created")
		_, err = os.Stat(historyPath)
		assert.NoError(t, err, "History database file should be created")
	})

	t.Run("history disabled", func(t *testing.T) {
		resetGlobals(t)
		err := InitStores(schema.SQLiteBackend, filepath.Join(t.TempDir(), "cache.db"), "", "")
		require.NoError(t, err)

		assert.NotNil(t, Manager.GetSnapshotStore())
		assert.Nil(t, Manager.GetHistoryStore(), "History store should be a nil interface")
	})

	t.Run("none backend leaves snapshot unset", func(t *testing.T) {
		resetGlobals(t)
		require.NoError(t, InitStores(schema.NoneBackend, "", schema.NoneBackend, ""))
		assert.Nil(t, Manager.GetSnapshotStore())
		assert.Nil(t, Manager.GetHistoryStore())
	})

	t.Run("idempotent", func(t *testing.T) {
		resetGlobals(t)
		path := filepath.Join(t.TempDir(), "cache.db")
		assert.NoError(t, InitStores(schema.SQLiteBackend, path, "", ""))
		assert.NoError(t, InitStores(schema.SQLiteBackend, path, "", ""))
		first := Manager.GetSnapshotStore()
		assert.NoError(t, InitStores(schema.MySQLBackend, "bogus", "", ""))
		assert.Same(t, first, Manager.GetSnapshotStore(), "Later calls should not replace stores")

		CloseCaching()
		CloseCaching()
	})

	t.Run("unsupported backend", func(t *testing.T) {
		resetGlobals(t)
		err := InitStores("redis", "", "", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to initialize snapshot caching")
	})

	t.Run("history failure closes snapshot", func(t *testing.T) {
		resetGlobals(t)
		err := InitStores(schema.SQLiteBackend, filepath.Join(t.TempDir(), "cache.db"), "redis", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to initialize history store")
		assert.Nil(t, Manager.GetSnapshotStore())
	})
}

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name    string
		table   string
		wantErr bool
	}{
		{"simple", "birkin_snapshot", false},
		{"leading underscore", "_cache", false},
		{"digits", "cache2", false},
		{"empty", "", true},
		{"leading digit", "2cache", true},
		{"hyphen", "birkin-snapshot", true},
		{"injection", "cache; DROP TABLE users", true},
		{"quote", `cache"`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTableName(tt.table)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, `"birkin_snapshot"`, quoteTableName("birkin_snapshot", schema.SQLiteBackend))
	assert.Equal(t, `"birkin_snapshot"`, quoteTableName("birkin_snapshot", schema.PostgreSQLBackend))
	assert.Equal(t, "`birkin_snapshot`", quoteTableName("birkin_snapshot", schema.MySQLBackend))
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "?", placeholders(schema.SQLiteBackend, 1))
	assert.Equal(t, "?, ?, ?", placeholders(schema.MySQLBackend, 3))
	assert.Equal(t, "$1, $2, $3", placeholders(schema.PostgreSQLBackend, 3))
	assert.Equal(t, "", placeholders(schema.SQLiteBackend, 0))
}

func TestSQLiteBackendOperations(t *testing.T) {
	t.Run("set and get", func(t *testing.T) {
		store, err := NewCacheStore("test_table", schema.SQLiteBackend, ":memory:")
		require.NoError(t, err, "Failed to create SQLite store")
		defer func() { _ = store.Close() }()

		payload := []byte(`{"data":{},"lastUpdated":"2025-03-14"}`)
		require.NoError(t, store.Set("birkinData", payload, 1, 1741939200))

		value, version, timestamp, err := store.Get("birkinData")
		require.NoError(t, err)
		assert.Equal(t, string(payload), string(value))
		assert.Equal(t, 1, version)
		assert.Equal(t, int64(1741939200), timestamp)
	})

	t.Run("upsert overwrites whole row", func(t *testing.T) {
		store, err := NewCacheStore("test_table", schema.SQLiteBackend, ":memory:")
		require.NoError(t, err)
		defer func() { _ = store.Close() }()

		require.NoError(t, store.Set("birkinData", []byte("old"), 1, 1000))
		require.NoError(t, store.Set("birkinData", []byte("new"), 2, 2000))

		value, version, timestamp, err := store.Get("birkinData")
		require.NoError(t, err)
		assert.Equal(t, "new", string(value))
		assert.Equal(t, 2, version)
		assert.Equal(t, int64(2000), timestamp)
	})

	t.Run("missing key", func(t *testing.T) {
		store, err := NewCacheStore("test_table", schema.SQLiteBackend, ":memory:")
		require.NoError(t, err)
		defer func() { _ = store.Close() }()

		_, _, _, err = store.Get("birkinData")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	t.Run("survives reopen", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cache.db")
		store, err := NewCacheStore("test_table", schema.SQLiteBackend, path)
		require.NoError(t, err)
		require.NoError(t, store.Set("birkinData", []byte("persisted"), 1, 42))
		require.NoError(t, store.Close())

		reopened, err := NewCacheStore("test_table", schema.SQLiteBackend, path)
		require.NoError(t, err)
		defer func() { _ = reopened.Close() }()
		value, _, _, err := reopened.Get("birkinData")
		require.NoError(t, err)
		assert.Equal(t, "persisted", string(value))
	})
}

func TestNewCacheStoreErrors(t *testing.T) {
	_, err := NewCacheStore("bad-name", schema.SQLiteBackend, ":memory:")
	assert.Error(t, err)

	_, err = NewCacheStore("birkin_snapshot", "redis", "")
	assert.Error(t, err)

	_, err = NewCacheStore("birkin_snapshot", schema.SQLiteBackend, filepath.Join(t.TempDir(), "missing", "dir", "cache.db"))
	assert.Error(t, err)
}

func TestNoneBackendStore(t *testing.T) {
	store, err := NewCacheStore("birkin_snapshot", schema.NoneBackend, "")
	require.NoError(t, err)

	assert.NoError(t, store.Set("birkinData", []byte("x"), 1, 1))
	_, _, _, err = store.Get("birkinData")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "none", status.Backend)
	assert.False(t, status.Connected)
	assert.NoError(t, store.Close())
}

func TestGetCreateTableQuery(t *testing.T) {
	assert.Contains(t, getCreateTableQuery("birkin_snapshot", schema.SQLiteBackend), "cache_value BLOB")
	assert.Contains(t, getCreateTableQuery("birkin_snapshot", schema.MySQLBackend), "cache_value LONGBLOB")
	assert.Contains(t, getCreateTableQuery("birkin_snapshot", schema.PostgreSQLBackend), "cache_value BYTEA")
}

func TestGetUpsertQuery(t *testing.T) {
	tests := []struct {
		backend schema.DatabaseBackend
		want    string
	}{
		{schema.SQLiteBackend, "INSERT OR REPLACE"},
		{schema.MySQLBackend, "ON DUPLICATE KEY UPDATE"},
		{schema.PostgreSQLBackend, "ON CONFLICT (cache_key) DO UPDATE"},
	}
	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			ps := &CacheStoreImpl{tableName: "birkin_snapshot", backend: tt.backend}
			assert.Contains(t, ps.getUpsertQuery(), tt.want)
		})
	}
}

func TestCacheStoreGetStatus(t *testing.T) {
	store, err := NewCacheStore("test_table", schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", status.Backend)
	assert.True(t, status.Connected)
	assert.Equal(t, 0, status.TotalEntries)

	require.NoError(t, store.Set("a", []byte("1"), 1, 1000))
	require.NoError(t, store.Set("b", []byte("2"), 1, 3000))

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 2, status.TotalEntries)
	assert.Equal(t, int64(1000), status.OldestEntryTime.Unix())
	assert.Equal(t, int64(3000), status.LastEntryTime.Unix())
	assert.Greater(t, status.TableSizeBytes, int64(0))
}

func TestClearCache(t *testing.T) {
	t.Run("sqlite removes file", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "cache.db")
		store, err := NewCacheStore(snapshotTable, schema.SQLiteBackend, dbPath)
		require.NoError(t, err)
		require.NoError(t, store.Close())

		require.NoError(t, ClearCache(schema.SQLiteBackend, dbPath, ""))
		_, err = os.Stat(dbPath)
		assert.True(t, os.IsNotExist(err), "Database file should be removed")
	})

	t.Run("sqlite missing file", func(t *testing.T) {
		assert.NoError(t, ClearCache(schema.SQLiteBackend, filepath.Join(t.TempDir(), "nope.db"), ""))
	})

	t.Run("sqlite empty path", func(t *testing.T) {
		assert.Error(t, ClearCache(schema.SQLiteBackend, "", ""))
	})

	t.Run("none backend", func(t *testing.T) {
		assert.NoError(t, ClearCache(schema.NoneBackend, "", ""))
	})

	t.Run("unsupported backend", func(t *testing.T) {
		assert.Error(t, ClearCache("redis", "", ""))
	})
}

func TestStoreManagerConcurrency(t *testing.T) {
	resetGlobals(t)
	require.NoError(t, InitStores(schema.SQLiteBackend, filepath.Join(t.TempDir(), "cache.db"), "", ""))

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NotNil(t, Manager.GetSnapshotStore())
			assert.Nil(t, Manager.GetHistoryStore())
		}()
	}
	wg.Wait()
}
