package core

import (
	"testing"

	"github.com/huangsam/birkin/schema"
	"github.com/stretchr/testify/assert"
)

var premiumSelection = schema.Selection{
	Regime:   schema.ExpansionRegime,
	Model:    schema.Birkin25,
	Hardware: schema.BrushedGold,
	Special:  schema.PreciousSkin,
	Listing:  schema.SecondaryListing,
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name   string
		raw    []schema.PricePoint
		sel    schema.Selection
		expect schema.Summary
	}{
		{
			name:   "empty series",
			raw:    nil,
			sel:    schema.DefaultSelection(),
			expect: schema.Summary{},
		},
		{
			name:   "single point",
			raw:    []schema.PricePoint{{Year: 2024, Price: 20000}},
			sel:    schema.DefaultSelection(),
			expect: schema.Summary{SpotValuation: 20000, NetExitFloor: 18400, AnnualizedYield: 0},
		},
		{
			name:   "two points divide by count",
			raw:    []schema.PricePoint{{Year: 2020, Price: 10000}, {Year: 2024, Price: 15000}},
			sel:    schema.DefaultSelection(),
			expect: schema.Summary{SpotValuation: 15000, NetExitFloor: 13800, AnnualizedYield: 25},
		},
		{
			name:   "negative return rounds half up",
			raw:    []schema.PricePoint{{Year: 2020, Price: 20000}, {Year: 2021, Price: 18000}, {Year: 2022, Price: 15000}, {Year: 2023, Price: 14000}},
			sel:    schema.DefaultSelection(),
			expect: schema.Summary{SpotValuation: 14000, NetExitFloor: 12880, AnnualizedYield: -7},
		},
		{
			name:   "duplicates removed before counting",
			raw:    []schema.PricePoint{{Year: 2020, Price: 10000}, {Year: 2020, Price: 50000}, {Year: 2024, Price: 15000}},
			sel:    schema.DefaultSelection(),
			expect: schema.Summary{SpotValuation: 15000, NetExitFloor: 13800, AnnualizedYield: 25},
		},
		{
			name:   "adjusted prices feed the summary",
			raw:    []schema.PricePoint{{Year: 2024, Price: 10000}},
			sel:    premiumSelection,
			expect: schema.Summary{SpotValuation: 15813, NetExitFloor: 14548, AnnualizedYield: 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points := ComputeDisplaySeries(tt.raw, tt.sel.Regime, tt.sel.Hardware, tt.sel.Listing)
			assert.Equal(t, tt.expect, Summarize(points))
		})
	}
}

func TestSummarizeZeroFirstPrice(t *testing.T) {
	points := []schema.DisplayPoint{{Label: "2020", Price: 0}, {Label: "2021", Price: 100}}
	got := Summarize(points)
	assert.Equal(t, int64(0), got.AnnualizedYield)
	assert.Equal(t, int64(100), got.SpotValuation)
	assert.Equal(t, int64(92), got.NetExitFloor)
}

func TestSummaryYieldLabel(t *testing.T) {
	assert.Equal(t, "0%", Summarize(nil).YieldLabel())
	assert.Equal(t, "25%", schema.Summary{AnnualizedYield: 25}.YieldLabel())
}
