package cmd

import (
	"fmt"

	"github.com/apexmetrics/stintlab/internal/contract"
	"github.com/apexmetrics/stintlab/internal/iostore"
	"github.com/apexmetrics/stintlab/internal/outwriter"
	"github.com/apexmetrics/stintlab/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runsSetup loads minimal configuration needed for run-store operations.
// This is used by commands that need store access without full shared setup.
func runsSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get store-related config values
	backendStr := viper.GetString("store-backend")
	connStr := viper.GetString("store-db-connect")

	// Handle empty backend as NoneBackend
	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Get output-related config values (used by list and export)
	outputFile := viper.GetString("output-file")
	outputMode := schema.OutputMode(viper.GetString("output"))

	// Initialize the store with the loaded config
	if err := iostore.InitStore(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize run tracking: %w", err)
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	cfg.OutputFile = outputFile
	if outputMode != "" {
		cfg.Output = outputMode
	}
	if cfg.Precision == 0 {
		cfg.Precision = contract.DefaultPrecision
	}

	return nil
}

// runsSetupWrapper wraps runsSetup to provide PreRunE for runs commands.
func runsSetupWrapper(_ *cobra.Command, _ []string) error {
	return runsSetup()
}

// runsMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize the store or create
// tables, allowing migrations to run on a fresh database.
func runsMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backendStr := viper.GetString("store-backend")
	connStr := viper.GetString("store-db-connect")

	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetStoreDBFilePath()
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr

	return nil
}

// runsMigrateSetupWrapper wraps runsMigrateSetup to provide PreRunE for the migrate command.
func runsMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return runsMigrateSetup()
}

// runsCmd focused on run tracking data management.
//
// Note: runs subcommands use minimal initialization (runsSetup) instead of
// the full sharedSetup used by analysis commands. This avoids session path
// validation and config processing for simple store operations.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage stored analysis runs and exports",
	Long: `Manage historical analysis data used for trend tracking and reporting.

When enabled, stintlab tracks every analysis run, storing:
- Run metadata (timestamp, configuration, duration)
- Per-driver raw metrics (laps, brake peaks, degradation)
- Per-driver sub-scores, composite score, rank and tier

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  list    - Show recent stored runs
  status  - Show run tracking statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all tracking data
  migrate - Run database schema migrations

Examples:
  # Check tracking status
  stintlab runs status

  # Export for analysis in pandas/DuckDB
  stintlab runs export --output-file stintlab-data`,
}

// runsListCmd lists recent stored analysis runs.
var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show recent stored analysis runs",
	Long: `List the most recent analysis runs stored in the tracking backend.

Displays run id, start time, duration and the number of drivers scored.

Examples:
  # Show the latest runs
  stintlab runs list

  # Show more history as CSV
  stintlab runs list --runs-limit 100 --output csv`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iostore.GetStore()
		if store == nil {
			contract.LogFatal("Run tracking is disabled", fmt.Errorf("backend is %s", cfg.StoreBackend))
		}
		runs, err := store.ListRuns(viper.GetInt("runs-limit"))
		if err != nil {
			contract.LogFatal("Failed to list runs", err)
		}
		if err := outwriter.PrintRunRecords(runs, cfg); err != nil {
			contract.LogFatal("Failed to print runs", err)
		}
	},
}

// runsStatusCmd shows run tracking status.
var runsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run tracking statistics and connection details",
	Long: `Show detailed information about historical run tracking.

Displays:
- Backend type and connection status
- Total number of analysis runs stored
- Last and oldest run timestamps
- Total drivers scored across all runs
- Database table sizes

Examples:
  # Check run tracking status
  stintlab runs status`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iostore.GetStore()
		if store == nil {
			contract.LogFatal("Run tracking is disabled", fmt.Errorf("backend is %s", cfg.StoreBackend))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		iostore.PrintStoreStatus(status)
	},
}

// runsClearCmd clears the stored run data.
var runsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored run tracking data",
	Long: `Delete all stored analysis runs and per-driver history.

This removes:
- All run metadata
- Historical per-driver metrics
- Historical per-driver scores and placements

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  stintlab runs export --output-file backup
  stintlab runs clear`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iostore.ClearRuns(cfg.StoreBackend, contract.GetStoreDBFilePath(), cfg.StoreDBConnect); err != nil {
			contract.LogFatal("Failed to clear run data", err)
		}
		fmt.Println("Run data cleared successfully.")
	},
}

// runsExportCmd exports stored run data to Parquet files.
var runsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored runs to Parquet for BI tools and analytics",
	Long: `Export all stored run data to Parquet format for use with analytics tools.

Exports two datasets:
- Analysis runs - metadata about each analysis execution
- Driver scores - sub-scores, composite, rank and tier per driver per run

Requires: --output-file parameter (used as the file prefix)

Examples:
  # Export all data
  stintlab runs export --output-file stintlab-data

  # Use with DuckDB for analysis
  stintlab runs export --output-file data
  duckdb -c "SELECT * FROM read_parquet('data.driver_scores.parquet') LIMIT 10"`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iostore.ExecuteRunExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export run data", err)
		}
	},
}

// runsMigrateCmd runs database migrations for the run store.
var runsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run tracking store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  stintlab runs migrate

  # Migrate to specific version
  stintlab runs migrate --target-version 1

  # Rollback to previous version
  stintlab runs migrate --target-version 0`,
	PreRunE: runsMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iostore.MigrateRuns(cfg.StoreBackend, cfg.StoreDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
