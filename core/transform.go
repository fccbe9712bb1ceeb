package core

import (
	"strconv"
	"strings"

	"github.com/huangsam/birkin/schema"
	"github.com/shopspring/decimal"
)

// Multipliers applied by ComputeData, held as exact decimals.
var (
	regimeFactors = map[schema.Regime]decimal.Decimal{
		schema.ExpansionRegime:   decimal.RequireFromString("1.15"),
		schema.StandardRegime:    decimal.RequireFromString("1"),
		schema.ContractionRegime: decimal.RequireFromString("0.85"),
	}
	listingFactors = map[schema.ListingCategory]decimal.Decimal{
		schema.RetailListing:    decimal.RequireFromString("1"),
		schema.SecondaryListing: decimal.RequireFromString("1.10"),
	}
	baseHardwareFactor    = decimal.RequireFromString("1")
	premiumHardwareFactor = decimal.RequireFromString("1.25")

	half = decimal.RequireFromString("0.5")
)

// RegimeFactor returns the market regime multiplier, or 1 for unknown regimes.
func RegimeFactor(regime schema.Regime) decimal.Decimal {
	if f, ok := regimeFactors[regime]; ok {
		return f
	}
	return decimal.NewFromInt(1)
}

// HardwareFactor is 1 for Palladium and Gold and 1.25 for every other finish.
func HardwareFactor(hardware schema.Hardware) decimal.Decimal {
	if hardware == schema.Palladium || hardware == schema.Gold {
		return baseHardwareFactor
	}
	return premiumHardwareFactor
}

// ListingFactor returns the sales channel multiplier, or 1 for unknown channels.
func ListingFactor(listing schema.ListingCategory) decimal.Decimal {
	if f, ok := listingFactors[listing]; ok {
		return f
	}
	return decimal.NewFromInt(1)
}

// Multiplier is the combined adjustment for one selection.
func Multiplier(regime schema.Regime, hardware schema.Hardware, listing schema.ListingCategory) decimal.Decimal {
	return RegimeFactor(regime).Mul(HardwareFactor(hardware)).Mul(ListingFactor(listing))
}

// roundHalfUp rounds to the nearest integer with ties going toward +Inf.
func roundHalfUp(d decimal.Decimal) int64 {
	return d.Add(half).Floor().IntPart()
}

// pointLabel is "<Month> <Year>" when a month is present, else "<Year>".
// Only the first whitespace-delimited token of the month is used.
func pointLabel(p schema.PricePoint) string {
	year := strconv.Itoa(p.Year)
	fields := strings.Fields(p.Month)
	if len(fields) == 0 {
		return year
	}
	return fields[0] + " " + year
}

// CleanData labels every point and drops any point whose label was already
// seen, keeping the first occurrence. Output order follows input order.
func CleanData(raw []schema.PricePoint) []schema.DisplayPoint {
	out := make([]schema.DisplayPoint, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, p := range raw {
		label := pointLabel(p)
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}

		month := ""
		if fields := strings.Fields(p.Month); len(fields) > 0 {
			month = fields[0]
		}
		out = append(out, schema.DisplayPoint{
			Year:     p.Year,
			Month:    month,
			Price:    roundHalfUp(decimal.NewFromFloat(p.Price)),
			Label:    label,
			RawPrice: p.Price,
		})
	}
	return out
}

// ComputeData replaces each price with round(raw x regime x hardware x listing).
// Labels and ordering are preserved. The input slice is not modified.
func ComputeData(points []schema.DisplayPoint, regime schema.Regime, hardware schema.Hardware, listing schema.ListingCategory) []schema.DisplayPoint {
	mult := Multiplier(regime, hardware, listing)
	out := make([]schema.DisplayPoint, len(points))
	for i, p := range points {
		p.Price = roundHalfUp(decimal.NewFromFloat(p.RawPrice).Mul(mult))
		out[i] = p
	}
	return out
}

// ComputeDisplaySeries runs both transform stages over a raw series.
func ComputeDisplaySeries(raw []schema.PricePoint, regime schema.Regime, hardware schema.Hardware, listing schema.ListingCategory) []schema.DisplayPoint {
	return ComputeData(CleanData(raw), regime, hardware, listing)
}
