package core

import (
	"testing"

	"github.com/huangsam/birkin/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeriesMemo(t *testing.T) {
	m := NewSeriesMemo()
	sel := schema.DefaultSelection()
	raw := sampleDataset().Series(sel.Key())
	built := BuildSeries(sampleDataset(), sel)

	_, _, ok := m.Get(sel, "2025-03-14", raw)
	assert.False(t, ok)

	m.Set(sel, "2025-03-14", raw, built.Points, built.Summary)
	points, summary, ok := m.Get(sel, "2025-03-14", raw)
	require.True(t, ok)
	assert.Equal(t, built.Points, points)
	assert.Equal(t, built.Summary, summary)

	t.Run("other day misses", func(t *testing.T) {
		_, _, ok := m.Get(sel, "2025-03-15", raw)
		assert.False(t, ok)
	})

	t.Run("other selection misses", func(t *testing.T) {
		other := sel
		other.Regime = schema.ExpansionRegime
		_, _, ok := m.Get(other, "2025-03-14", raw)
		assert.False(t, ok)
	})

	t.Run("changed raw series misses", func(t *testing.T) {
		changed := append([]schema.PricePoint(nil), raw...)
		changed[0].Price++
		_, _, ok := m.Get(sel, "2025-03-14", changed)
		assert.False(t, ok)
	})

	t.Run("caller mutations do not leak", func(t *testing.T) {
		built.Points[0].Price = -1
		points, _, _ := m.Get(sel, "2025-03-14", raw)
		assert.Equal(t, int64(10000), points[0].Price)
	})

	t.Run("empty series stays non-nil", func(t *testing.T) {
		empty := schema.Selection{Regime: schema.StandardRegime, Model: schema.Birkin40, Hardware: schema.Gold, Special: schema.ClassicLeather, Listing: schema.RetailListing}
		m.Set(empty, "2025-03-14", nil, []schema.DisplayPoint{}, schema.Summary{})
		points, _, ok := m.Get(empty, "2025-03-14", nil)
		require.True(t, ok)
		assert.NotNil(t, points)
		assert.Empty(t, points)
	})

	m.Flush()
	assert.Equal(t, 0, m.Len())
}
