package cmd

import (
	"github.com/apexmetrics/stintlab/core"
	"github.com/apexmetrics/stintlab/internal/contract"
	"github.com/spf13/cobra"
)

// degradationCmd fits per-stint tire degradation trends.
var degradationCmd = &cobra.Command{
	Use:   "degradation [session-path]",
	Short: "Show tire degradation trends fitted per stint.",
	Long: `Derive stints from consecutive same-compound laps and fit a lap-time trend
within each one.

For every stint: the fitted degradation rate in seconds per lap, the trend
direction, the lap-time correlation and the performance cliff lap if one was
detected. Stints shorter than three timed laps report insufficient data
instead of a rate.

Examples:
  # Degradation across the field
  stintlab degradation ./sessions/monza-fp2

  # One driver with stint boundaries and correlation
  stintlab degradation ./sessions/monza-fp2 --drivers HAM --detail

  # Export to CSV
  stintlab degradation ./sessions/monza-fp2 --output csv --output-file stints.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteDegradation(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot run degradation analysis", err)
		}
	},
}
