package core

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/huangsam/birkin/internal/contract"
	"github.com/huangsam/birkin/internal/iocache"
	"github.com/huangsam/birkin/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pricingBody = `{"success":true,"data":{"Birkin 25":{"Palladium":{"Precious Skin":[
	{"year":2020,"price":10000},
	{"year":2021,"month":"June","price":12000},
	{"year":2024,"price":15000}
]}}}}`

func pricingServer(t *testing.T, body string, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func noStoresManager() *iocache.MockCacheManager {
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetSnapshotStore").Return(nil)
	mgr.On("GetHistoryStore").Return(nil)
	return mgr
}

func TestBuildSeries(t *testing.T) {
	t.Run("selected leaf", func(t *testing.T) {
		got := BuildSeries(sampleDataset(), schema.DefaultSelection())
		assert.Equal(t, []string{"2020", "June 2021", "2024"}, labels(got.Points))
		assert.Equal(t, int64(15000), got.Summary.SpotValuation)
	})

	t.Run("premium hardware leaf", func(t *testing.T) {
		got := BuildSeries(sampleDataset(), premiumSelectionFor(schema.CollectorLE))
		require.Len(t, got.Points, 1)
		assert.Equal(t, int64(15813), got.Points[0].Price)
	})

	t.Run("missing leaf is empty", func(t *testing.T) {
		sel := schema.DefaultSelection()
		sel.Model = schema.Birkin40
		got := BuildSeries(sampleDataset(), sel)
		assert.Empty(t, got.Points)
		assert.Equal(t, schema.Summary{}, got.Summary)
	})

	t.Run("nil dataset", func(t *testing.T) {
		got := BuildSeries(nil, schema.DefaultSelection())
		assert.Empty(t, got.Points)
	})
}

func premiumSelectionFor(special schema.SpecialCategory) schema.Selection {
	sel := premiumSelection
	sel.Special = special
	return sel
}

func TestBuildFactorsRenderModel(t *testing.T) {
	model := BuildFactorsRenderModel()
	require.Len(t, model.Factors, len(schema.AllRegimes)+len(schema.AllHardware)+len(schema.AllListings))
	assert.InDelta(t, 0.92, model.ExitHaircut, 1e-9)
	assert.Len(t, model.Formulas, 3)

	byValue := map[string]float64{}
	for _, f := range model.Factors {
		byValue[f.Dimension+"/"+f.Value] = f.Factor
	}
	assert.InDelta(t, 1.15, byValue["regime/Expansion"], 1e-9)
	assert.InDelta(t, 0.85, byValue["regime/Contraction"], 1e-9)
	assert.InDelta(t, 1.0, byValue["hardware/Gold"], 1e-9)
	assert.InDelta(t, 1.25, byValue["hardware/Rose Gold"], 1e-9)
	assert.InDelta(t, 1.10, byValue["listing/Secondary"], 1e-9)
}

func TestGetSeriesResult(t *testing.T) {
	var calls atomic.Int32
	srv := pricingServer(t, pricingBody, &calls)
	cfg := &contract.Config{Selection: schema.DefaultSelection(), Endpoint: srv.URL}
	mgr := noStoresManager()

	result, err := GetSeriesResult(context.Background(), cfg, mgr, day1)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, schema.NetworkSource, result.Source)
	assert.Equal(t, "2025-03-14", result.LastUpdated)
	assert.Equal(t, []int64{10000, 12000, 15000}, prices(result.Points))
	assert.Equal(t, int64(17), result.Summary.AnnualizedYield)
	mgr.AssertExpectations(t)
}

func TestGetSeriesResultDegraded(t *testing.T) {
	var calls atomic.Int32
	srv := pricingServer(t, `{"success":false,"error":"quota exceeded"}`, &calls)
	cfg := &contract.Config{Selection: schema.DefaultSelection(), Endpoint: srv.URL}

	result, err := GetSeriesResult(context.Background(), cfg, noStoresManager(), day1)
	require.NoError(t, err)
	assert.True(t, result.Degraded)
	assert.Empty(t, result.Points)
	assert.Equal(t, schema.Summary{}, result.Summary)
}

func TestConfiguredLoaderUsesSnapshotStore(t *testing.T) {
	var calls atomic.Int32
	srv := pricingServer(t, pricingBody, &calls)
	store, err := iocache.NewCacheStore("birkin_snapshot", schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetSnapshotStore").Return(store)
	mgr.On("GetHistoryStore").Return(nil)
	cfg := &contract.Config{Selection: schema.DefaultSelection(), Endpoint: srv.URL}

	// Separate loaders share state only through the durable store
	_, err = GetSeriesResult(context.Background(), cfg, mgr, day1)
	require.NoError(t, err)
	second, err := GetSeriesResult(context.Background(), cfg, mgr, day1)
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, schema.CacheSource, second.Source)
}
