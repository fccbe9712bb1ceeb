package core

import (
	"github.com/huangsam/birkin/schema"
	"github.com/shopspring/decimal"
)

// ExitHaircut is the liquidation factor applied to the spot valuation.
var ExitHaircut = decimal.RequireFromString("0.92")

var hundred = decimal.NewFromInt(100)

// Summarize derives the headline statistics from an adjusted series.
// An empty series yields all zeros.
func Summarize(points []schema.DisplayPoint) schema.Summary {
	if len(points) == 0 {
		return schema.Summary{}
	}
	spot := points[len(points)-1].Price
	return schema.Summary{
		SpotValuation:   spot,
		NetExitFloor:    roundHalfUp(decimal.NewFromInt(spot).Mul(ExitHaircut)),
		AnnualizedYield: annualizedYield(points),
	}
}

// annualizedYield divides the total return percentage by the point count,
// not by elapsed years. A zero first price reports 0.
func annualizedYield(points []schema.DisplayPoint) int64 {
	n := len(points)
	if n < 2 {
		return 0
	}
	first, last := points[0].Price, points[n-1].Price
	if first == 0 {
		return 0
	}
	ratio := decimal.NewFromInt(last).Div(decimal.NewFromInt(first))
	totalPct := ratio.Sub(decimal.NewFromInt(1)).Mul(hundred)
	return roundHalfUp(totalPct.Div(decimal.NewFromInt(int64(n))))
}
