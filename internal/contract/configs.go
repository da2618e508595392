package contract

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/apexmetrics/stintlab/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit = 25
	MaxResultLimit     = 200
	DefaultPrecision   = 2
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// WeightsRawInput holds composite weight overrides from the YAML config file.
// Use float64 pointers so an absent key keeps the default.
type WeightsRawInput struct {
	Pace        *float64 `mapstructure:"pace"`
	Consistency *float64 `mapstructure:"consistency"`
	Technical   *float64 `mapstructure:"technical"`
	Adaptation  *float64 `mapstructure:"adaptation"`
}

// BandsRawInput holds consistency rating band overrides from the YAML config
// file. Each value is the upper CV edge of that band.
type BandsRawInput struct {
	Excellent *float64 `mapstructure:"excellent"`
	Good      *float64 `mapstructure:"good"`
	Average   *float64 `mapstructure:"average"`
}

// Config holds the runtime configuration for the analysis.
// This struct remains the "final, validated" config.
type Config struct {
	SessionPath string
	Drivers     []string // Empty means every driver in the session
	ResultLimit int
	Workers     int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Detail      bool
	Width       int // Terminal width override (0 = auto-detect)

	BrakeThreshold    float64
	ThrottleThreshold float64
	MinZoneSamples    int
	RollingWindow     int
	TrendEpsilon      float64

	// Weights is the final composite weight map, defaults plus overrides.
	Weights map[schema.Dimension]float64

	LapTimeBands schema.RatingBands
	TierCutoffs  []schema.TierCutoff

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	SessionPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Drivers        string `mapstructure:"drivers"`
	OutputFile     string `mapstructure:"output-file"`
	Limit          int    `mapstructure:"limit"`
	Workers        int    `mapstructure:"workers"`
	Precision      int    `mapstructure:"precision"`
	Output         string `mapstructure:"output"`
	Detail         bool   `mapstructure:"detail"`
	Width          int    `mapstructure:"width"`
	StoreBackend   string `mapstructure:"store-backend"`
	StoreDBConnect string `mapstructure:"store-db-connect"`
	Emoji          string `mapstructure:"emoji"`
	Color          string `mapstructure:"color"`

	// --- Segmentation and trend tuning ---
	BrakeThreshold    float64 `mapstructure:"brake-threshold"`
	ThrottleThreshold float64 `mapstructure:"throttle-threshold"`
	MinZoneSamples    int     `mapstructure:"min-zone-samples"`
	RollingWindow     int     `mapstructure:"rolling-window"`
	TrendEpsilon      float64 `mapstructure:"trend-epsilon"`

	// --- Composite weight overrides from config file ---
	Weights WeightsRawInput `mapstructure:"weights"`

	// --- Consistency band overrides from config file ---
	Bands BandsRawInput `mapstructure:"bands"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Drivers != nil {
		clone.Drivers = make([]string, len(c.Drivers))
		copy(clone.Drivers, c.Drivers)
	}
	if c.Weights != nil {
		clone.Weights = make(map[schema.Dimension]float64, len(c.Weights))
		maps.Copy(clone.Weights, c.Weights)
	}
	if c.TierCutoffs != nil {
		clone.TierCutoffs = make([]schema.TierCutoff, len(c.TierCutoffs))
		copy(clone.TierCutoffs, c.TierCutoffs)
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct. Every configuration error is caught
// here, before any analysis runs.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processThresholds(cfg, input); err != nil {
		return err
	}
	if err := processWeights(cfg, input); err != nil {
		return err
	}
	if err := processBands(cfg, input); err != nil {
		return err
	}
	cfg.TierCutoffs = schema.GetDefaultTierCutoffs()
	return resolveSessionPath(cfg, input)
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Detail = input.Detail
	cfg.Width = input.Width

	if input.Drivers != "" {
		for p := range strings.SplitSeq(input.Drivers, ",") {
			if d := strings.TrimSpace(p); d != "" {
				cfg.Drivers = append(cfg.Drivers, d)
			}
		}
	}

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	if input.Precision < 1 || input.Precision > 3 {
		return fmt.Errorf("precision must be between 1 and 3 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}

	return validateBackendConfig(cfg, input)
}

// validateBackendConfig validates the run-tracking store configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.StoreBackend = schema.DatabaseBackend(strings.ToLower(input.StoreBackend))
	if _, ok := schema.ValidBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	return ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect)
}

// ValidateDatabaseConnectionString validates the format of database
// connection strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// processThresholds validates segmentation and trend tuning values.
func processThresholds(cfg *Config, input *ConfigRawInput) error {
	if input.BrakeThreshold < 0 || input.BrakeThreshold > 100 {
		return fmt.Errorf("brake-threshold must be within [0,100] (received %.1f)", input.BrakeThreshold)
	}
	cfg.BrakeThreshold = input.BrakeThreshold

	if input.ThrottleThreshold < 0 || input.ThrottleThreshold > 100 {
		return fmt.Errorf("throttle-threshold must be within [0,100] (received %.1f)", input.ThrottleThreshold)
	}
	cfg.ThrottleThreshold = input.ThrottleThreshold

	if input.MinZoneSamples < 1 {
		return fmt.Errorf("min-zone-samples must be at least 1 (received %d)", input.MinZoneSamples)
	}
	cfg.MinZoneSamples = input.MinZoneSamples

	if input.RollingWindow < 2 {
		return fmt.Errorf("rolling-window must be at least 2 (received %d)", input.RollingWindow)
	}
	cfg.RollingWindow = input.RollingWindow

	if input.TrendEpsilon <= 0 {
		return fmt.Errorf("trend-epsilon must be positive (received %g)", input.TrendEpsilon)
	}
	cfg.TrendEpsilon = input.TrendEpsilon
	return nil
}

// processWeights merges weight overrides from the config file onto the
// defaults and checks the merged map still sums to 1.
func processWeights(cfg *Config, input *ConfigRawInput) error {
	weights := schema.GetDefaultWeights()
	overrides := map[schema.Dimension]*float64{
		schema.PaceDimension:        input.Weights.Pace,
		schema.ConsistencyDimension: input.Weights.Consistency,
		schema.TechnicalDimension:   input.Weights.Technical,
		schema.AdaptationDimension:  input.Weights.Adaptation,
	}
	for dim, v := range overrides {
		if v == nil {
			continue
		}
		if *v < 0 {
			return fmt.Errorf("weight for %s must not be negative (received %.3f)", dim, *v)
		}
		weights[dim] = *v
	}

	var sum float64
	for _, w := range weights {
		sum += w
	}
	if sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("composite weights must sum to 1.0 (received %.3f)", sum)
	}
	cfg.Weights = weights
	return nil
}

// processBands merges rating band overrides onto the lap-time defaults and
// checks the merged edges stay strictly ascending.
func processBands(cfg *Config, input *ConfigRawInput) error {
	bands := schema.GetDefaultLapTimeBands()
	if input.Bands.Excellent != nil {
		bands.Edges[0] = *input.Bands.Excellent
	}
	if input.Bands.Good != nil {
		bands.Edges[1] = *input.Bands.Good
	}
	if input.Bands.Average != nil {
		bands.Edges[2] = *input.Bands.Average
	}
	if bands.Edges[0] <= 0 || bands.Edges[0] >= bands.Edges[1] || bands.Edges[1] >= bands.Edges[2] {
		return fmt.Errorf("band edges must be positive and strictly ascending (received %v)", bands.Edges)
	}
	cfg.LapTimeBands = bands
	return nil
}

// resolveSessionPath checks the session data directory exists and is a
// directory.
func resolveSessionPath(cfg *Config, input *ConfigRawInput) error {
	path := input.SessionPathStr
	if path == "" {
		path = "."
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("cannot resolve session path %q: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("cannot access session path %q: %w", abs, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("session path %q is not a directory", abs)
	}
	cfg.SessionPath = abs
	return nil
}
