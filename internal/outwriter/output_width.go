// Package outwriter has output and writer logic.
package outwriter

import (
	"os"

	"github.com/apexmetrics/stintlab/internal/contract"
	"golang.org/x/term"
)

// GetMaxTableNoteWidth calculates the maximum width for free-form note
// columns (diagnostics, curve labels) in table output based on terminal width
// and table configuration.
func GetMaxTableNoteWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		// Get terminal width
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for fixed columns with table formatting
	baseWidth := 40 // Rank + Driver + Composite + Tier with borders/padding

	// Add the sub-score columns with formatting
	baseWidth += 30

	// Add detail columns with formatting
	if cfg.Detail {
		baseWidth += 40 // Fastest + Average + CV + Laps + Curve with formatting
	}

	// Reserve generous space for table borders, separators, and padding
	baseWidth += 10

	// Calculate available space for notes
	available := termWidth - baseWidth
	if available < 15 {
		// Minimum reasonable note width
		return 15
	}
	if available > 60 {
		// Maximum note width to prevent overly long cells
		return 60
	}
	return available
}
