package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/abtrend/internal/contract"
	"github.com/huangsam/abtrend/internal/iocache"
	"github.com/huangsam/abtrend/internal/outwriter"
	"github.com/huangsam/abtrend/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historyBackendFromViper reads the history backend, treating empty as disabled.
func historyBackendFromViper() (schema.DatabaseBackend, string, error) {
	backendStr := viper.GetString("history-backend")
	connStr := viper.GetString("history-db-connect")

	// Handle empty backend as NoneBackend
	backend := schema.NoneBackend
	if backendStr != "" {
		backend = schema.DatabaseBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// historySetup loads minimal configuration needed for history operations.
// This is used by commands that need history access without full shared setup.
func historySetup(cmd *cobra.Command) error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	if cmd != nil {
		if err := viper.BindPFlags(cmd.LocalFlags()); err != nil {
			return fmt.Errorf("failed to bind %s flags: %w", cmd.Name(), err)
		}
	}

	backend, connStr, err := historyBackendFromViper()
	if err != nil {
		return err
	}

	// Initialize stores with the loaded config (no series cache for history commands)
	if err := iocache.InitStores(schema.NoneBackend, "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}

	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}
	colors, err := contract.ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = input.OutputFile
	cfg.Output = schema.OutputMode(input.Output)
	cfg.Precision = input.Precision
	cfg.Width = input.Width
	cfg.UseColors = colors
	cfg.HistoryLimit = input.Limit
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.HistoryLimit < 0 {
		return fmt.Errorf("limit cannot be negative (received %d)", input.Limit)
	}

	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(cmd *cobra.Command, _ []string) error {
	return historySetup(cmd)
}

// historyMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func historyMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend, connStr, err := historyBackendFromViper()
	if err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetHistoryDBFilePath()
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr

	return nil
}

// historyMigrateSetupWrapper wraps historyMigrateSetup to provide PreRunE for migrate command.
func historyMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return historyMigrateSetup()
}

// historyStoreOrFatal returns the configured history store.
func historyStoreOrFatal() contract.HistoryStore {
	store := iocache.Manager.GetHistoryStore()
	if store == nil {
		contract.LogFatal("History tracking is disabled", fmt.Errorf("set --history-backend to enable it"))
	}
	return store
}

// historyCmd focused on export history management.
//
// Note: History subcommands use minimal initialization (historySetup) instead of
// the full sharedSetup used by chart commands. This avoids dataset loading
// and chart validation for simple history operations.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the record of exported charts",
	Long: `Manage the history of PNG exports.

When enabled, abtrend records every export attempt, storing:
- When it ran and where the file was written
- The granularity, selection, theme and line style
- The visible domain and how many points were drawn
- Whether it succeeded, and the error when it did not

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, the default)

Subcommands:
  status  - Show history statistics
  list    - List recent exports
  export  - Export history to Parquet for analytics
  clear   - Remove all history
  migrate - Run database schema migrations

Examples:
  # Enable history for one export
  abtrend export --history-backend sqlite

  # Show the last five exports
  ABTREND_HISTORY_BACKEND=sqlite abtrend history list --limit 5`,
}

// historyClearCmd clears the export history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all export history",
	Long: `Delete every recorded export.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  abtrend history export --output-file backup.parquet
  abtrend history clear`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearHistory(cfg.HistoryBackend, contract.GetHistoryDBFilePath(), cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear history", err)
		}
		fmt.Println("History cleared successfully.")
	},
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display export history statistics and connection details",
	Long: `Show detailed information about the export history.

Displays:
- Backend type and connection status
- Total and failed export counts
- Last and oldest export timestamps

Examples:
  # Check history status
  abtrend history status`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := historyStoreOrFatal().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		iocache.PrintHistoryStatus(os.Stdout, status)
	},
}

// historyListCmd prints recent exports.
var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent chart exports, newest first",
	Long: `Print the most recent exports as a table, CSV, JSON or Parquet.

Examples:
  # Last 20 exports (default)
  abtrend history list

  # Everything as CSV
  abtrend history list --limit 0 --output csv`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		records, err := historyStoreOrFatal().ListExports(cfg.HistoryLimit)
		if err != nil {
			contract.LogFatal("Failed to list exports", err)
		}
		if err := outwriter.NewOutWriter().WriteHistory(records, cfg); err != nil {
			contract.LogFatal("Failed to print exports", err)
		}
	},
}

// historyExportCmd exports history data to Parquet.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the full history to Parquet for BI tools and analytics",
	Long: `Write every recorded export to a Parquet file.

Requires: --output-file parameter

Examples:
  # Export all data
  abtrend history export --output-file exports.parquet

  # Use with DuckDB for analysis
  duckdb -c "SELECT theme, count(*) FROM read_parquet('exports.parquet') GROUP BY theme"`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteHistoryExport(os.Stdout, historyStoreOrFatal(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export history", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the export history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  abtrend history migrate --history-backend sqlite

  # Rollback to the initial state
  abtrend history migrate --history-backend sqlite --target-version 0`,
	PreRunE: historyMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
