// Package cmd defines the command-line interface for stintlab.
package cmd

import (
	"github.com/apexmetrics/stintlab/internal/contract"
	"github.com/apexmetrics/stintlab/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(standingsCmd)
	rootCmd.AddCommand(zonesCmd)
	rootCmd.AddCommand(degradationCmd)
	rootCmd.AddCommand(consistencyCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runsCmd)

	// Add the runs subcommands to the parent runs command
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsStatusCmd)
	runsCmd.AddCommand(runsClearCmd)
	runsCmd.AddCommand(runsExportCmd)
	runsCmd.AddCommand(runsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().Bool("detail", false, "Print per-driver detail columns")
	rootCmd.PersistentFlags().StringP("drivers", "d", "", "Comma-separated list of driver ids to analyze (empty = all)")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().Float64("brake-threshold", 10.0, "Brake activation threshold for zone extraction (0-100)")
	rootCmd.PersistentFlags().Float64("throttle-threshold", 50.0, "Throttle activation threshold for zone extraction (0-100)")
	rootCmd.PersistentFlags().Int("min-zone-samples", 2, "Minimum samples for a zone to count")
	rootCmd.PersistentFlags().Int("rolling-window", 5, "Rolling window size for consistency analysis")
	rootCmd.PersistentFlags().Float64("trend-epsilon", 0.01, "Slope magnitude below which a trend counts as stable")
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "Run tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("emoji", "yes", "Enable emojis in output headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of zonesCmd to Viper
	zonesCmd.Flags().String("channel", string(schema.BrakeChannel), "Telemetry channel to segment: brake or throttle or corner")
	if err := viper.BindPFlags(zonesCmd.Flags()); err != nil {
		contract.LogFatal("Error binding zones flags", err)
	}

	// Bind all flags of runsListCmd to Viper
	runsListCmd.Flags().Int("runs-limit", contract.DefaultResultLimit, "Number of stored runs to display")
	if err := viper.BindPFlags(runsListCmd.Flags()); err != nil {
		contract.LogFatal("Error binding runs list flags", err)
	}

	// Bind all flags of runsMigrateCmd to Viper
	runsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(runsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding runs migrate flags", err)
	}
}
