package cmd

import (
	"github.com/apexmetrics/stintlab/core"
	"github.com/apexmetrics/stintlab/internal/contract"
	"github.com/apexmetrics/stintlab/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// zonesCmd extracts and prints per-lap telemetry zones.
var zonesCmd = &cobra.Command{
	Use:   "zones [session-path]",
	Short: "Show per-lap zones where a telemetry channel stayed above threshold.",
	Long: `Segment each lap's telemetry trace into activation zones and print their metrics.

For every zone: start/end distance, peak and average magnitude, sample count
and buildup rate. Braking zones additionally report speed reduction, braking
distance and an efficiency ratio.

Channels:
  brake     - brake pressure above --brake-threshold (default)
  throttle  - throttle application above --throttle-threshold
  corner    - derived low-speed ranges, useful for corner detection

Examples:
  # Braking zones for the whole field
  stintlab zones ./sessions/monza-fp2

  # Throttle application zones for one driver
  stintlab zones ./sessions/monza-fp2 --channel throttle --drivers VER

  # Include braking detail columns
  stintlab zones ./sessions/monza-fp2 --detail`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		channel := schema.SignalChannel(viper.GetString("channel"))
		if err := core.ExecuteZones(rootCtx, cfg, channel); err != nil {
			contract.LogFatal("Cannot run zone analysis", err)
		}
	},
}
