// Package cmd defines the command-line interface for abtrend.
package cmd

import (
	"github.com/huangsam/abtrend/internal/contract"
	"github.com/huangsam/abtrend/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(seriesCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Add the config subcommands to the parent config command
	configCmd.AddCommand(configShowCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("data", "", "Path to the experiment JSON (defaults to the bundled sample)")
	rootCmd.PersistentFlags().String("granularity", string(schema.DayGranularity), "Series granularity: day or week")
	rootCmd.PersistentFlags().String("select", "all", "Comma-separated variations to show (original,variantA,variantB,variantC) or all")
	rootCmd.PersistentFlags().String("theme", string(schema.LightTheme), "Chart theme: light or dark")
	rootCmd.PersistentFlags().String("line-style", string(schema.LineStyleLine), "Line style: line or smooth or area")
	rootCmd.PersistentFlags().Float64("zoom-factor", schema.DefaultZoomFactor, "Fraction of the visible span removed or added per zoom step")
	rootCmd.PersistentFlags().Float64("min-range-days", schema.DefaultMinZoomDays, "Narrowest visible span in days")
	rootCmd.PersistentFlags().String("variant-a-id", "", "Override the variation id used for Variation A")
	rootCmd.PersistentFlags().String("variant-b-id", "", "Override the variation id used for Variation B")
	rootCmd.PersistentFlags().String("variant-c-id", "", "Override the variation id used for Variation C")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for rates")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("export-dir", ".", "Directory for exported PNG charts")
	rootCmd.PersistentFlags().Int("pixel-ratio", contract.DefaultPixelRatio, "Pixel ratio for exported PNG charts")
	rootCmd.PersistentFlags().Int("chart-width", contract.DefaultChartWidth, "Exported chart width in logical pixels")
	rootCmd.PersistentFlags().Int("chart-height", contract.DefaultChartHeight, "Exported chart height in logical pixels")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("history-backend", "", "Export history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for export history (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("color", "yes", "Highlight the best rate in text output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// view, export and inspect share the zoom key; sharedSetup binds the running one
	viewCmd.Flags().String("zoom", "", "Comma-separated zoom operations applied in order (in, out, reset)")
	exportCmd.Flags().String("zoom", "", "Comma-separated zoom operations applied before export (in, out, reset)")
	inspectCmd.Flags().String("zoom", "", "Comma-separated zoom operations applied before the lookup (in, out, reset)")

	// Bind all flags of inspectCmd to Viper
	inspectCmd.Flags().String("at", "", "Date to inspect (YYYY-MM-DD)")
	if err := viper.BindPFlags(inspectCmd.Flags()); err != nil {
		contract.LogFatal("Error binding inspect flags", err)
	}

	// Bind all flags of sessionCmd to Viper
	sessionCmd.Flags().String("script", "", "Path to an event script (defaults to stdin)")
	if err := viper.BindPFlags(sessionCmd.Flags()); err != nil {
		contract.LogFatal("Error binding session flags", err)
	}

	// Bind all flags of historyListCmd to Viper
	historyListCmd.Flags().Int("limit", contract.DefaultHistoryLimit, "Number of exports to list (0 = all)")
	if err := viper.BindPFlags(historyListCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history list flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
