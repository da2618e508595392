package cmd

import (
	"github.com/apexmetrics/stintlab/core"
	"github.com/apexmetrics/stintlab/internal/contract"
	"github.com/apexmetrics/stintlab/internal/iostore"
	"github.com/spf13/cobra"
)

// standingsCmd runs the full session analysis and ranks the field.
var standingsCmd = &cobra.Command{
	Use:   "standings [session-path]",
	Short: "Rank every driver in a session by composite performance score.",
	Long: `Run the full analysis pipeline over a session directory and rank drivers.

Each driver is scored on four dimensions, then fused into a weighted composite:
- Pace: fastest lap relative to the field best
- Consistency: lap time dispersion and outlier profile
- Technical: braking zone repeatability and efficiency from telemetry
- Adaptation: pace evolution from early to late session phases

Drivers missing data for a dimension are scored on what remains; drivers with
no valid dimension at all are listed as omitted rather than given a default.

Examples:
  # Rank the full field
  stintlab standings ./sessions/monza-fp2

  # Focus on two drivers with detail columns
  stintlab standings ./sessions/monza-fp2 --drivers VER,LEC --detail

  # Export findings to CSV for tracking
  stintlab standings ./sessions/monza-fp2 --output csv --output-file standings.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteStandings(rootCtx, cfg, iostore.GetStore()); err != nil {
			contract.LogFatal("Cannot run standings analysis", err)
		}
	},
}
