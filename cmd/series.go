package cmd

import (
	"github.com/huangsam/birkin/core"
	"github.com/huangsam/birkin/internal/contract"
	"github.com/spf13/cobra"
)

// seriesCmd prints the adjusted price series and its summary.
var seriesCmd = &cobra.Command{
	Use:   "series",
	Short: "Show the adjusted price history and summary for one bag configuration.",
	Long: `Load today's pricing snapshot and show the selected series.

The snapshot is fetched at most once per calendar day. Later runs on the same
day read it from the cache backend after a short delay (--hit-delay).

Each price is multiplied by the regime, hardware and listing factors and
rounded once to whole dollars. The summary shows:
- Spot valuation: the latest adjusted price
- Net exit floor: spot valuation after an 8% exit haircut
- Annualized yield: total growth divided by the number of points

Examples:
  # Default selection (Birkin 25, Palladium, Precious Skin)
  birkin series

  # Bullish secondary-market view of a Brushed Gold 30
  birkin series --model "Birkin 30" --hardware "Brushed Gold" --regime Expansion --listing Secondary

  # Export for a spreadsheet
  birkin series --output csv --output-file birkin25.csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSeries(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot show series", err)
		}
	},
}

// refreshCmd forces a new fetch regardless of the cached day.
var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Fetch a new pricing snapshot now and show the selected series.",
	Long: `Fetch the pricing snapshot even if today's copy is already cached.

The new snapshot replaces the cached one as a whole. If the pricing
endpoint fails, an empty dataset is cached for the rest of the day and the
output is marked as degraded.

Examples:
  birkin refresh
  birkin refresh --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRefresh(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot refresh snapshot", err)
		}
	},
}

// factorsCmd lists the pricing multipliers.
var factorsCmd = &cobra.Command{
	Use:   "factors",
	Short: "Display every pricing multiplier and the summary formulas.",
	Long: `Show the regime, hardware and listing multipliers and how the summary
statistics are derived. No pricing data is fetched.

Examples:
  birkin factors
  birkin factors --output yaml`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteFactors(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot display factors", err)
		}
	},
}

// chartCmd renders the selected series to a PNG.
var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Render the selected series as a PNG area chart.",
	Long: `Draw the adjusted price series as an area chart with one x tick per
label and "$Nk" y ticks.

Examples:
  birkin chart --chart-file b25.png
  birkin chart --hardware Gold --chart-width 1600 --chart-height 800`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteChart(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot render chart", err)
		}
	},
}
