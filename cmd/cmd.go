// Package cmd defines the command-line interface for birkin.
package cmd

import (
	"github.com/huangsam/birkin/internal/contract"
	"github.com/huangsam/birkin/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(seriesCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(factorsCmd)
	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(consultCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(historyCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("regime", string(schema.StandardRegime), "Market regime: Expansion or Standard or Contraction")
	rootCmd.PersistentFlags().String("model", string(schema.Birkin25), "Bag model: Birkin 25 or Birkin 30 or Birkin 35 or Birkin 40")
	rootCmd.PersistentFlags().String("hardware", string(schema.Palladium), "Hardware: Palladium or Gold or Rose Gold or Brushed Gold")
	rootCmd.PersistentFlags().String("special", string(schema.PreciousSkin), "Special category: Classic Leather or Precious Skin or Collector/LE")
	rootCmd.PersistentFlags().String("listing", string(schema.RetailListing), "Listing category: Retail or Secondary")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or yaml or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored yields in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("endpoint", "", "Pricing endpoint URL")
	rootCmd.PersistentFlags().String("hit-delay", contract.DefaultHitDelay.String(), "Delay applied when serving today's cached snapshot")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Snapshot cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("history-backend", "", "Fetch history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for fetch history (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Diagnostics level on stderr: debug or info or warn or error")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of chartCmd to Viper
	chartCmd.Flags().String("chart-file", "", "PNG file to write (default birkin_chart.png)")
	chartCmd.Flags().Int("chart-width", contract.DefaultChartWidth, "Chart width in pixels")
	chartCmd.Flags().Int("chart-height", contract.DefaultChartHeight, "Chart height in pixels")
	if err := viper.BindPFlags(chartCmd.Flags()); err != nil {
		contract.LogFatal("Error binding chart flags", err)
	}

	// Bind all flags of consultCmd to Viper
	consultCmd.Flags().String("name", "", "Your full name")
	consultCmd.Flags().String("email", "", "Email address the advisor should reply to")
	consultCmd.Flags().String("leather", "", "Leather: Classic Leather or Precious Skin or Collector/LE")
	consultCmd.Flags().String("size", "", "Preferred size or notes on size")
	consultCmd.Flags().String("message", "", "Anything else the advisor should know")
	consultCmd.Flags().String("image", "", "Optional reference image to upload")
	if err := viper.BindPFlags(consultCmd.Flags()); err != nil {
		contract.LogFatal("Error binding consult flags", err)
	}

	// Bind all flags of scheduleCmd to Viper
	scheduleCmd.Flags().String("schedule", contract.DefaultSchedule, "Six-field cron spec (with seconds) for snapshot refreshes")
	if err := viper.BindPFlags(scheduleCmd.Flags()); err != nil {
		contract.LogFatal("Error binding schedule flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
