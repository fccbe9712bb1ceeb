package contract

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/huangsam/birkin/schema"
	"github.com/robfig/cron/v3"
)

// Default values for configuration.
const (
	DefaultHitDelay       = 500 * time.Millisecond
	MaxHitDelay           = 10 * time.Second
	DefaultSchedule       = "0 5 0 * * *" // 00:05:00 every day
	DefaultLeadsPerMinute = 6
	DefaultChartWidth     = 1024
	DefaultChartHeight    = 512
	DefaultUploadPreset   = "birkin_unsigned"
	DefaultFormEndpoint   = "https://formspree.io/f/xyzlyaoz"
	DefaultLogLevel       = "warn"
)

// DateFormat is the calendar-day layout used for freshness checks.
const DateFormat = "2006-01-02"

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// cronParser accepts the same six-field specs the scheduler runs with.
var cronParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration.
// This struct remains the "final, validated" config.
type Config struct {
	Selection schema.Selection

	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	Endpoint string
	APIKey   string // Please use env var as this is plaintext
	HitDelay time.Duration

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	FormEndpoint   string
	UploadEndpoint string
	UploadPreset   string
	LeadsPerMinute int

	MailgunDomain string
	MailgunAPIKey string // Please use env var as this is plaintext
	SenderEmail   string
	AdvisorEmail  string

	Schedule string

	ChartFile   string
	ChartWidth  int
	ChartHeight int

	LogLevel string

	// Consult is filled from the consult flags and validated by the lead package.
	Consult schema.ConsultRequest
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Regime           string `mapstructure:"regime"`
	Model            string `mapstructure:"model"`
	Hardware         string `mapstructure:"hardware"`
	Special          string `mapstructure:"special"`
	Listing          string `mapstructure:"listing"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Width            int    `mapstructure:"width"`
	Color            string `mapstructure:"color"`
	Endpoint         string `mapstructure:"endpoint"`
	APIKey           string `mapstructure:"api-key"`
	HitDelay         string `mapstructure:"hit-delay"`
	CacheBackend     string `mapstructure:"cache-backend"`
	CacheDBConnect   string `mapstructure:"cache-db-connect"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
	LogLevel         string `mapstructure:"log-level"`

	// --- Lead capture settings, usually from the config file or env ---
	FormEndpoint   string `mapstructure:"form-endpoint"`
	UploadEndpoint string `mapstructure:"upload-endpoint"`
	UploadPreset   string `mapstructure:"upload-preset"`
	LeadsPerMinute int    `mapstructure:"leads-per-minute"`
	MailgunDomain  string `mapstructure:"mailgun-domain"`
	MailgunAPIKey  string `mapstructure:"mailgun-api-key"`
	SenderEmail    string `mapstructure:"sender-email"`
	AdvisorEmail   string `mapstructure:"advisor-email"`

	// --- Fields from consultCmd.Flags() ---
	Name    string `mapstructure:"name"`
	Email   string `mapstructure:"email"`
	Leather string `mapstructure:"leather"`
	Size    string `mapstructure:"size"`
	Message string `mapstructure:"message"`
	Image   string `mapstructure:"image"`

	// --- Fields from scheduleCmd.Flags() ---
	Schedule string `mapstructure:"schedule"`

	// --- Fields from chartCmd.Flags() ---
	ChartFile   string `mapstructure:"chart-file"`
	ChartWidth  int    `mapstructure:"chart-width"`
	ChartHeight int    `mapstructure:"chart-height"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateSelection(cfg, input); err != nil {
		return err
	}
	if err := validateSourceConfig(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := validateLeadConfig(cfg, input); err != nil {
		return err
	}
	if err := validateSchedule(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateSelection checks every filter dimension against the known constants.
func ValidateSelection(sel schema.Selection) error {
	if _, ok := schema.ValidRegimes[sel.Regime]; !ok {
		return fmt.Errorf("invalid regime '%s'. must be Expansion, Standard, Contraction", sel.Regime)
	}
	if _, ok := schema.ValidModels[sel.Model]; !ok {
		return fmt.Errorf("invalid model '%s'. must be Birkin 25, Birkin 30, Birkin 35, Birkin 40", sel.Model)
	}
	if _, ok := schema.ValidHardware[sel.Hardware]; !ok {
		return fmt.Errorf("invalid hardware '%s'. must be Palladium, Gold, Rose Gold, Brushed Gold", sel.Hardware)
	}
	if _, ok := schema.ValidSpecialCategories[sel.Special]; !ok {
		return fmt.Errorf("invalid special category '%s'. must be Classic Leather, Precious Skin, Collector/LE", sel.Special)
	}
	if _, ok := schema.ValidListings[sel.Listing]; !ok {
		return fmt.Errorf("invalid listing '%s'. must be Retail, Secondary", sel.Listing)
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ValidateEndpoint checks that an endpoint is an absolute http(s) URL.
func ValidateEndpoint(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid %s %q: scheme must be http or https", name, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid %s %q: missing host", name, raw)
	}
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// validateSimpleInputs processes output, color and logging fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, yaml, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for parquet output")
	}

	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}

	cfg.LogLevel = input.LogLevel
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if err := SetLogLevel(cfg.LogLevel); err != nil {
		return err
	}

	cfg.ChartFile = input.ChartFile
	cfg.ChartWidth = input.ChartWidth
	cfg.ChartHeight = input.ChartHeight
	if cfg.ChartWidth <= 0 {
		cfg.ChartWidth = DefaultChartWidth
	}
	if cfg.ChartHeight <= 0 {
		cfg.ChartHeight = DefaultChartHeight
	}
	return nil
}

// validateSelection resolves the filter flags into a Selection.
func validateSelection(cfg *Config, input *ConfigRawInput) error {
	sel := schema.DefaultSelection()
	if input.Regime != "" {
		sel.Regime = schema.Regime(input.Regime)
	}
	if input.Model != "" {
		sel.Model = schema.Model(input.Model)
	}
	if input.Hardware != "" {
		sel.Hardware = schema.Hardware(input.Hardware)
	}
	if input.Special != "" {
		sel.Special = schema.SpecialCategory(input.Special)
	}
	if input.Listing != "" {
		sel.Listing = schema.ListingCategory(input.Listing)
	}
	if err := ValidateSelection(sel); err != nil {
		return err
	}
	cfg.Selection = sel
	return nil
}

// validateSourceConfig handles the pricing endpoint and the cache-hit delay.
func validateSourceConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.Endpoint = strings.TrimSpace(input.Endpoint)
	if cfg.Endpoint != "" {
		if err := ValidateEndpoint("endpoint", cfg.Endpoint); err != nil {
			return err
		}
	}
	cfg.APIKey = input.APIKey

	cfg.HitDelay = DefaultHitDelay
	if input.HitDelay != "" {
		d, err := time.ParseDuration(input.HitDelay)
		if err != nil {
			return fmt.Errorf("invalid hit-delay '%s': %w", input.HitDelay, err)
		}
		if d < 0 || d > MaxHitDelay {
			return fmt.Errorf("hit-delay must be between 0 and %s (received %s)", MaxHitDelay, d)
		}
		cfg.HitDelay = d
	}
	return nil
}

// validateBackendConfigs validates cache and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// --- History Backend Validation ---
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return err
	}

	// SQLite files are resolved so the default paths cannot collide.
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.HistoryBackend == schema.SQLiteBackend {
		cacheDBPath := cfg.CacheDBConnect
		if cacheDBPath == "" {
			cacheDBPath = GetCacheDBFilePath()
		}
		historyDBPath := cfg.HistoryDBConnect
		if historyDBPath == "" {
			historyDBPath = GetHistoryDBFilePath()
		}
		if cacheDBPath == historyDBPath {
			return fmt.Errorf("cache and history storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
		}
	}
	return nil
}

// validateLeadConfig handles the consultation endpoints and optional Mailgun settings.
func validateLeadConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.FormEndpoint = input.FormEndpoint
	if cfg.FormEndpoint == "" {
		cfg.FormEndpoint = DefaultFormEndpoint
	}
	if err := ValidateEndpoint("form-endpoint", cfg.FormEndpoint); err != nil {
		return err
	}

	cfg.UploadEndpoint = input.UploadEndpoint
	if cfg.UploadEndpoint != "" {
		if err := ValidateEndpoint("upload-endpoint", cfg.UploadEndpoint); err != nil {
			return err
		}
	}
	cfg.UploadPreset = input.UploadPreset
	if cfg.UploadPreset == "" {
		cfg.UploadPreset = DefaultUploadPreset
	}

	cfg.LeadsPerMinute = input.LeadsPerMinute
	if cfg.LeadsPerMinute == 0 {
		cfg.LeadsPerMinute = DefaultLeadsPerMinute
	}
	if cfg.LeadsPerMinute < 0 {
		return fmt.Errorf("leads-per-minute must be positive (received %d)", input.LeadsPerMinute)
	}

	cfg.MailgunDomain = input.MailgunDomain
	cfg.MailgunAPIKey = input.MailgunAPIKey
	cfg.SenderEmail = input.SenderEmail
	cfg.AdvisorEmail = input.AdvisorEmail
	if cfg.MailgunDomain != "" && (cfg.MailgunAPIKey == "" || cfg.SenderEmail == "" || cfg.AdvisorEmail == "") {
		return fmt.Errorf("mailgun-domain requires mailgun-api-key, sender-email and advisor-email")
	}

	cfg.Consult = schema.ConsultRequest{
		Name:      strings.TrimSpace(input.Name),
		Email:     strings.TrimSpace(input.Email),
		Model:     cfg.Selection.Model,
		Hardware:  cfg.Selection.Hardware,
		Leather:   schema.SpecialCategory(input.Leather),
		Size:      input.Size,
		Message:   input.Message,
		ImagePath: input.Image,
	}
	return nil
}

// validateSchedule parses the refresh cron spec.
func validateSchedule(cfg *Config, input *ConfigRawInput) error {
	cfg.Schedule = input.Schedule
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultSchedule
	}
	if _, err := cronParser.Parse(cfg.Schedule); err != nil {
		return fmt.Errorf("invalid schedule '%s': %w", cfg.Schedule, err)
	}
	return nil
}
