//go:build basic

// Package integration contains integration tests for birkin.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
package integration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/birkin/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSeriesFetchesOncePerDay runs series twice against the default SQLite cache.
func TestSeriesFetchesOncePerDay(t *testing.T) {
	home := t.TempDir()
	srv, calls := pricingServer(t)
	env := []string{"BIRKIN_ENDPOINT=" + srv.URL}

	out, err := runBirkin(t, home, env, "series", "--output", "json")
	require.NoError(t, err)
	var first schema.SeriesResult
	require.NoError(t, json.Unmarshal([]byte(out), &first))
	assert.Equal(t, schema.NetworkSource, first.Source)
	assert.Equal(t, int64(15000), first.Summary.SpotValuation)
	assert.Equal(t, int64(13800), first.Summary.NetExitFloor)
	assert.Equal(t, int64(17), first.Summary.AnnualizedYield)

	out, err = runBirkin(t, home, env, "series", "--output", "json", "--regime", "Expansion")
	require.NoError(t, err)
	var second schema.SeriesResult
	require.NoError(t, json.Unmarshal([]byte(out), &second))
	assert.Equal(t, schema.CacheSource, second.Source)
	assert.Equal(t, int64(17250), second.Summary.SpotValuation)

	assert.Equal(t, int32(1), calls.Load())
	_, err = os.Stat(filepath.Join(home, ".birkin_cache.db"))
	assert.NoError(t, err)
}

// TestRefreshAndHistoryExport records two fetches and exports them.
func TestRefreshAndHistoryExport(t *testing.T) {
	home := t.TempDir()
	srv, calls := pricingServer(t)
	env := []string{"BIRKIN_ENDPOINT=" + srv.URL, "BIRKIN_HISTORY_BACKEND=sqlite"}

	_, err := runBirkin(t, home, env, "series")
	require.NoError(t, err)
	_, err = runBirkin(t, home, env, "refresh")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())

	out, err := runBirkin(t, home, env, "history", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Runs: 2")

	prefix := filepath.Join(home, "birkin")
	_, err = runBirkin(t, home, env, "history", "export", "--output-file", prefix)
	require.NoError(t, err)
	_, err = os.Stat(prefix + ".fetch_runs.parquet")
	assert.NoError(t, err)
	_, err = os.Stat(prefix + ".price_points.parquet")
	assert.NoError(t, err)
}

// TestDegradedFetchIsCached checks that a failing endpoint is not retried the same day.
func TestDegradedFetchIsCached(t *testing.T) {
	home := t.TempDir()
	env := []string{"BIRKIN_ENDPOINT=http://127.0.0.1:1/unreachable"}

	out, err := runBirkin(t, home, env, "series", "--output", "json")
	require.NoError(t, err)
	var got schema.SeriesResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.True(t, got.Degraded)
	assert.Empty(t, got.Points)

	out, err = runBirkin(t, home, env, "series", "--output", "json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, schema.CacheSource, got.Source)
}

// TestFactorsAndVersion covers the commands that need no pricing data.
func TestFactorsAndVersion(t *testing.T) {
	home := t.TempDir()

	out, err := runBirkin(t, home, nil, "factors", "--output", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "hardware,Brushed Gold,1.25")

	out, err = runBirkin(t, home, nil, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "birkin CLI")
}
