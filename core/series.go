package core

import (
	"context"
	"time"

	"github.com/huangsam/birkin/internal/contract"
	"github.com/huangsam/birkin/internal/source"
	"github.com/huangsam/birkin/schema"
)

// BuildSeries looks up the selected leaf series, transforms it and summarizes it.
// Missing leaves produce an empty series with zeroed statistics.
func BuildSeries(dataset schema.PriceDataset, sel schema.Selection) schema.SeriesResult {
	raw := dataset.Series(sel.Key())
	points := ComputeDisplaySeries(raw, sel.Regime, sel.Hardware, sel.Listing)
	return schema.SeriesResult{
		Selection: sel,
		Points:    points,
		Summary:   Summarize(points),
	}
}

// NewConfiguredLoader wires the pricing client, the snapshot store and the
// optional history store from cfg and mgr.
func NewConfiguredLoader(cfg *contract.Config, mgr contract.CacheManager) *Loader {
	var history contract.HistoryStore
	if mgr != nil {
		history = mgr.GetHistoryStore()
	}
	return NewLoader(
		source.NewClient(cfg.Endpoint, cfg.APIKey),
		envelopeCacheFor(mgr),
		history,
		cfg.HitDelay,
	)
}

// GetSeriesResult runs load, transform and summary for the configured selection.
func GetSeriesResult(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, now time.Time) (*schema.SeriesResult, error) {
	return NewConfiguredLoader(cfg, mgr).SeriesFor(ctx, cfg.Selection, now)
}

// BuildFactorsRenderModel lists every multiplier and the summary formulas.
func BuildFactorsRenderModel() *schema.FactorsRenderModel {
	model := &schema.FactorsRenderModel{
		Description: "Adjusted price = round(raw x regime x hardware x listing)",
		ExitHaircut: ExitHaircut.InexactFloat64(),
		Formulas: []string{
			"spot valuation = last adjusted price",
			"net exit floor = round(spot valuation x 0.92)",
			"annualized yield = round(((last / first - 1) x 100) / points), 0 below 2 points",
		},
	}
	for _, r := range schema.AllRegimes {
		model.Factors = append(model.Factors, schema.FactorRow{
			Dimension: "regime", Value: string(r), Factor: RegimeFactor(r).InexactFloat64(),
		})
	}
	for _, h := range schema.AllHardware {
		model.Factors = append(model.Factors, schema.FactorRow{
			Dimension: "hardware", Value: string(h), Factor: HardwareFactor(h).InexactFloat64(),
		})
	}
	for _, l := range schema.AllListings {
		model.Factors = append(model.Factors, schema.FactorRow{
			Dimension: "listing", Value: string(l), Factor: ListingFactor(l).InexactFloat64(),
		})
	}
	return model
}
