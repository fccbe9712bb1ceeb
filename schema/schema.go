// Package schema holds the shared data model for birkin.
package schema

import (
	"fmt"
	"slices"
	"time"
)

// PricePoint is one historical resale observation in USD.
// An empty Month marks an annual observation.
type PricePoint struct {
	Year  int     `json:"year" yaml:"year"`
	Month string  `json:"month,omitempty" yaml:"month,omitempty"`
	Price float64 `json:"price" yaml:"price"`
}

// SeriesKey addresses one leaf series inside a PriceDataset.
type SeriesKey struct {
	Model    Model           `json:"model"`
	Hardware Hardware        `json:"hardware"`
	Special  SpecialCategory `json:"special"`
}

// String renders the key the way selectors display it.
func (k SeriesKey) String() string {
	return fmt.Sprintf("%s / %s / %s", k.Model, k.Hardware, k.Special)
}

// PriceDataset is the full fetched snapshot, nested model -> hardware -> special.
// Each leaf is ordered oldest first. Absent leaves read as empty.
type PriceDataset map[Model]map[Hardware]map[SpecialCategory][]PricePoint

// Series returns the leaf sequence for key, or nil when any level is absent.
func (d PriceDataset) Series(key SeriesKey) []PricePoint {
	if d == nil {
		return nil
	}
	byHardware, ok := d[key.Model]
	if !ok {
		return nil
	}
	bySpecial, ok := byHardware[key.Hardware]
	if !ok {
		return nil
	}
	return bySpecial[key.Special]
}

// Clone returns a deep copy of the dataset. A nil dataset stays nil.
func (d PriceDataset) Clone() PriceDataset {
	if d == nil {
		return nil
	}
	out := make(PriceDataset, len(d))
	for model, byHardware := range d {
		hardware := make(map[Hardware]map[SpecialCategory][]PricePoint, len(byHardware))
		for hw, bySpecial := range byHardware {
			special := make(map[SpecialCategory][]PricePoint, len(bySpecial))
			for sp, pts := range bySpecial {
				special[sp] = slices.Clone(pts)
			}
			hardware[hw] = special
		}
		out[model] = hardware
	}
	return out
}

// Counts returns the number of non-empty leaf series and the total point count.
func (d PriceDataset) Counts() (series int, points int) {
	for _, byHardware := range d {
		for _, bySpecial := range byHardware {
			for _, pts := range bySpecial {
				if len(pts) == 0 {
					continue
				}
				series++
				points += len(pts)
			}
		}
	}
	return series, points
}

// CacheEnvelope is the sole unit of durable state. It is always written whole.
type CacheEnvelope struct {
	Data        PriceDataset `json:"data"`
	LastUpdated string       `json:"lastUpdated"` // YYYY-MM-DD
}

// DisplayPoint is a cleaned and adjusted chart point. It is never persisted.
// RawPrice keeps the unadjusted observation so adjustment rounds only once.
type DisplayPoint struct {
	Year     int     `json:"year" yaml:"year"`
	Month    string  `json:"month,omitempty" yaml:"month,omitempty"`
	Price    int64   `json:"price" yaml:"price"`
	Label    string  `json:"label" yaml:"label"`
	RawPrice float64 `json:"-" yaml:"-"`
}

// Selection is the process-local filter state.
type Selection struct {
	Regime   Regime          `json:"regime" yaml:"regime"`
	Model    Model           `json:"model" yaml:"model"`
	Hardware Hardware        `json:"hardware" yaml:"hardware"`
	Special  SpecialCategory `json:"special" yaml:"special"`
	Listing  ListingCategory `json:"listing" yaml:"listing"`
}

// Key returns the series key this selection reads from.
func (s Selection) Key() SeriesKey {
	return SeriesKey{Model: s.Model, Hardware: s.Hardware, Special: s.Special}
}

// DefaultSelection mirrors the dashboard's initial filter state.
func DefaultSelection() Selection {
	return Selection{
		Regime:   StandardRegime,
		Model:    Birkin25,
		Hardware: Palladium,
		Special:  PreciousSkin,
		Listing:  RetailListing,
	}
}

// Summary holds the three headline statistics derived from a display series.
type Summary struct {
	SpotValuation   int64 `json:"spot_valuation" yaml:"spot_valuation"`
	NetExitFloor    int64 `json:"net_exit_floor" yaml:"net_exit_floor"`
	AnnualizedYield int64 `json:"annualized_yield" yaml:"annualized_yield"`
}

// YieldLabel renders the yield as a whole percentage, e.g. "25%".
func (s Summary) YieldLabel() string {
	return fmt.Sprintf("%d%%", s.AnnualizedYield)
}

// FetchResult is the explicit outcome of one pricing fetch.
// Err is nil on success. A failed fetch always carries an empty Data.
type FetchResult struct {
	Data PriceDataset
	Err  error
}

// Degraded reports whether the fetch failed and Data is a stand-in.
func (r FetchResult) Degraded() bool {
	return r.Err != nil
}

// LoadResult is what the freshness policy hands back to callers.
type LoadResult struct {
	Dataset     PriceDataset
	LastUpdated string
	Source      DataSource
	Degraded    bool
	Reason      string
}

// SeriesResult is the chart-ready output for one selection.
type SeriesResult struct {
	Selection   Selection      `json:"selection" yaml:"selection"`
	Points      []DisplayPoint `json:"points" yaml:"points"`
	Summary     Summary        `json:"summary" yaml:"summary"`
	LastUpdated string         `json:"last_updated" yaml:"last_updated"`
	Source      DataSource     `json:"source" yaml:"source"`
	Degraded    bool           `json:"degraded" yaml:"degraded"`
}

// FactorRow describes one pricing multiplier for display.
type FactorRow struct {
	Dimension string  `json:"dimension" yaml:"dimension"`
	Value     string  `json:"value" yaml:"value"`
	Factor    float64 `json:"factor" yaml:"factor"`
}

// FactorsRenderModel is the full multiplier table plus the summary constants.
type FactorsRenderModel struct {
	Description string      `json:"description" yaml:"description"`
	Factors     []FactorRow `json:"factors" yaml:"factors"`
	ExitHaircut float64     `json:"exit_haircut" yaml:"exit_haircut"`
	Formulas    []string    `json:"formulas" yaml:"formulas"`
}

// FetchRunRecord represents a row from the fetch runs table.
type FetchRunRecord struct {
	RunID       int64
	FetchedAt   time.Time
	Day         string
	Degraded    bool
	Reason      *string
	SeriesCount int32
	PointCount  int32
}

// PricePointRecord represents a row from the price points table.
type PricePointRecord struct {
	RunID    int64
	Model    string
	Hardware string
	Special  string
	Seq      int32
	Year     int32
	Month    *string
	Price    float64
}
