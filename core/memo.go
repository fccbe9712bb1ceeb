package core

import (
	"fmt"
	"slices"
	"time"

	"github.com/huangsam/birkin/schema"
	"github.com/patrickmn/go-cache"
)

// Memo entries live at most one day since the dataset day rolls over.
const (
	memoExpiration = 24 * time.Hour
	memoCleanup    = time.Hour
)

// memoEntry is the selection-dependent part of a SeriesResult.
type memoEntry struct {
	Raw     []schema.PricePoint
	Points  []schema.DisplayPoint
	Summary schema.Summary
}

// SeriesMemo caches transformed series per selection and dataset day.
// An entry is only served when its raw series equals the caller's.
type SeriesMemo struct {
	cache *cache.Cache
}

// NewSeriesMemo creates an empty memo.
func NewSeriesMemo() *SeriesMemo {
	return &SeriesMemo{cache: cache.New(memoExpiration, memoCleanup)}
}

func memoKey(sel schema.Selection, day string) string {
	return fmt.Sprintf("%s|%s|%s|%s|%s|%s", day, sel.Regime, sel.Model, sel.Hardware, sel.Special, sel.Listing)
}

// Get returns the cached points and summary for a selection over raw.
func (m *SeriesMemo) Get(sel schema.Selection, day string, raw []schema.PricePoint) ([]schema.DisplayPoint, schema.Summary, bool) {
	v, found := m.cache.Get(memoKey(sel, day))
	if !found {
		return nil, schema.Summary{}, false
	}
	entry := v.(memoEntry)
	if !slices.Equal(entry.Raw, raw) {
		return nil, schema.Summary{}, false
	}
	points := make([]schema.DisplayPoint, len(entry.Points))
	copy(points, entry.Points)
	return points, entry.Summary, true
}

// Set stores the points and summary computed from raw for a selection.
func (m *SeriesMemo) Set(sel schema.Selection, day string, raw []schema.PricePoint, points []schema.DisplayPoint, summary schema.Summary) {
	m.cache.Set(memoKey(sel, day), memoEntry{
		Raw:     slices.Clone(raw),
		Points:  slices.Clone(points),
		Summary: summary,
	}, cache.DefaultExpiration)
}

// Flush drops every entry. Called whenever a new dataset is fetched.
func (m *SeriesMemo) Flush() {
	m.cache.Flush()
}

// Len reports the number of cached selections.
func (m *SeriesMemo) Len() int {
	return m.cache.ItemCount()
}
