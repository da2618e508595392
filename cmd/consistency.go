package cmd

import (
	"github.com/apexmetrics/stintlab/core"
	"github.com/apexmetrics/stintlab/internal/contract"
	"github.com/spf13/cobra"
)

// consistencyCmd profiles lap time dispersion per driver.
var consistencyCmd = &cobra.Command{
	Use:   "consistency [session-path]",
	Short: "Show lap time dispersion, outliers and stability per driver.",
	Long: `Profile each driver's lap time series for repeatability.

Reports the coefficient of variation with its rating band, rolling-window CV
(best, worst and average window), outlier laps flagged by the 1.5*IQR rule
with fast/slow typing, and a stability score derived from rolling variance.

Examples:
  # Consistency profile for the field
  stintlab consistency ./sessions/monza-fp2

  # Rolling window detail and outlier laps
  stintlab consistency ./sessions/monza-fp2 --detail

  # Wider rolling window
  stintlab consistency ./sessions/monza-fp2 --rolling-window 8`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteConsistency(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot run consistency analysis", err)
		}
	},
}
