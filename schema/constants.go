package schema

// Custom string types for type safety.
type (
	// Model is a Birkin bag size in centimeters.
	Model string

	// Hardware is the metal finish of the bag's hardware.
	Hardware string

	// SpecialCategory is the leather grade or collector status of a series.
	SpecialCategory string

	// Regime is the market regime scenario applied to prices.
	Regime string

	// ListingCategory is the sales channel a price is quoted for.
	ListingCategory string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string

	// DataSource tells where a loaded dataset came from.
	DataSource string

	// ConsultStatus is the terminal state of a consultation request.
	ConsultStatus string
)

// All bag models supported.
const (
	Birkin25 Model = "Birkin 25" // default
	Birkin30 Model = "Birkin 30"
	Birkin35 Model = "Birkin 35"
	Birkin40 Model = "Birkin 40"
)

// All hardware finishes supported.
const (
	Palladium   Hardware = "Palladium" // default
	Gold        Hardware = "Gold"
	RoseGold    Hardware = "Rose Gold"
	BrushedGold Hardware = "Brushed Gold"
)

// All special categories supported.
const (
	ClassicLeather SpecialCategory = "Classic Leather"
	PreciousSkin   SpecialCategory = "Precious Skin" // default
	CollectorLE    SpecialCategory = "Collector/LE"
)

// All market regimes supported.
const (
	ExpansionRegime   Regime = "Expansion"
	StandardRegime    Regime = "Standard" // default
	ContractionRegime Regime = "Contraction"
)

// All listing categories supported.
const (
	RetailListing    ListingCategory = "Retail" // default
	SecondaryListing ListingCategory = "Secondary"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	YAMLOut    OutputMode = "yaml"
	ParquetOut OutputMode = "parquet"
)

// All cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Where a dataset was read from.
const (
	CacheSource   DataSource = "cache"
	NetworkSource DataSource = "network"
)

// Consultation outcomes.
const (
	ConsultSuccess ConsultStatus = "success"
	ConsultError   ConsultStatus = "error"
)

// Display order used by selectors, tables and tools.
var (
	AllModels            = []Model{Birkin25, Birkin30, Birkin35, Birkin40}
	AllHardware          = []Hardware{Palladium, Gold, RoseGold, BrushedGold}
	AllSpecialCategories = []SpecialCategory{ClassicLeather, PreciousSkin, CollectorLE}
	AllRegimes           = []Regime{ExpansionRegime, StandardRegime, ContractionRegime}
	AllListings          = []ListingCategory{RetailListing, SecondaryListing}
)

// ValidModels lists all valid bag models.
var ValidModels = map[Model]struct{}{
	Birkin25: {},
	Birkin30: {},
	Birkin35: {},
	Birkin40: {},
}

// ValidHardware lists all valid hardware finishes.
var ValidHardware = map[Hardware]struct{}{
	Palladium:   {},
	Gold:        {},
	RoseGold:    {},
	BrushedGold: {},
}

// ValidSpecialCategories lists all valid special categories.
var ValidSpecialCategories = map[SpecialCategory]struct{}{
	ClassicLeather: {},
	PreciousSkin:   {},
	CollectorLE:    {},
}

// ValidRegimes lists all valid market regimes.
var ValidRegimes = map[Regime]struct{}{
	ExpansionRegime:   {},
	StandardRegime:    {},
	ContractionRegime: {},
}

// ValidListings lists all valid listing categories.
var ValidListings = map[ListingCategory]struct{}{
	RetailListing:    {},
	SecondaryListing: {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	YAMLOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
