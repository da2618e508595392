package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/apexmetrics/stintlab/schema"
)

// Color variables for console output.
var (
	EliteColor      = color.New(color.FgHiYellow, color.Bold) // eliteColor marks the top of the field.
	ExcellentColor  = color.New(color.FgGreen, color.Bold)    // excellentColor marks strong performers.
	GoodColor       = color.New(color.FgCyan)                 // goodColor marks solid midfield pace.
	AverageColor    = color.New(color.FgYellow)               // averageColor marks the lower midfield.
	DevelopingColor = color.New(color.FgMagenta)              // developingColor marks the back of the field.
)

// GetPlainTierLabel returns the plain text label for a tier. This is the core
// logic used for CSV, JSON, and table printing.
func GetPlainTierLabel(tier schema.Tier) string {
	switch tier {
	case schema.TierElite:
		return "Elite"
	case schema.TierExcellent:
		return "Excellent"
	case schema.TierGood:
		return "Good"
	case schema.TierAverage:
		return "Average"
	default:
		return "Developing"
	}
}

// GetColorTierLabel returns a colored tier label for console output (table).
// It uses GetPlainTierLabel to determine the string, and then applies the
// appropriate color.
func GetColorTierLabel(tier schema.Tier) string {
	text := GetPlainTierLabel(tier)

	switch tier {
	case schema.TierElite:
		return EliteColor.Sprint(text)
	case schema.TierExcellent:
		return ExcellentColor.Sprint(text)
	case schema.TierGood:
		return GoodColor.Sprint(text)
	case schema.TierAverage:
		return AverageColor.Sprint(text)
	default:
		return DevelopingColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It falls back to os.Stdout for an empty path.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetStoreDBFilePath returns the path to the SQLite DB file for run tracking.
func GetStoreDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".stintlab_runs.db"
	}
	return filepath.Join(homeDir, ".stintlab_runs.db")
}

// LogAnalysisHeader prints a summary of the analysis configuration before the
// run starts.
func LogAnalysisHeader(cfg *Config) {
	prefix := ""
	if cfg.UseEmojis {
		prefix = "🏁 "
	}
	fmt.Printf("%sAnalyzing session %s\n", prefix, cfg.SessionPath)
	if len(cfg.Drivers) > 0 {
		fmt.Printf("   Drivers: %s\n", strings.Join(cfg.Drivers, ", "))
	}
	fmt.Printf("   Workers: %d | Rolling window: %d | Trend epsilon: %g\n",
		cfg.Workers, cfg.RollingWindow, cfg.TrendEpsilon)
}

// TruncateText shortens free-form text to maxWidth runes, keeping the head
// and appending "..." as the truncation marker.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
