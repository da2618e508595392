package cmd

import (
	"github.com/apexmetrics/stintlab/core"
	"github.com/apexmetrics/stintlab/internal/contract"
	"github.com/spf13/cobra"
)

// metricsCmd displays the formal definitions of all scoring dimensions.
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Display definitions and weights for all scoring dimensions",
	Long: `Show the formal definitions, inputs and weights for all scoring dimensions.

Provides complete transparency into how drivers are ranked, including:
- Dimension purpose and the raw inputs it consumes
- Active composite weights, including .stintlab.yaml overrides
- Lap-time CV rating band edges
- Percentile tier cutoffs

No session data is read - this is purely informational.

Examples:
  # Show default scoring definitions
  stintlab metrics

  # View with custom weights from config file
  stintlab metrics --config .stintlab.yaml`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMetrics(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot display metrics", err)
		}
	},
}
