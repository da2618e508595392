package contract

import (
	"testing"

	"github.com/apexmetrics/stintlab/schema"
	"github.com/stretchr/testify/assert"
)

// validRawInput returns a raw input that passes every validation step.
func validRawInput(t *testing.T) *ConfigRawInput {
	t.Helper()
	return &ConfigRawInput{
		SessionPathStr:    t.TempDir(),
		Limit:             25,
		Workers:           4,
		Precision:         2,
		Output:            "text",
		StoreBackend:      "none",
		Emoji:             "yes",
		Color:             "no",
		BrakeThreshold:    10.0,
		ThrottleThreshold: 50.0,
		MinZoneSamples:    2,
		RollingWindow:     5,
		TrendEpsilon:      0.01,
	}
}

func TestProcessAndValidate_Success(t *testing.T) {
	cfg := &Config{}
	input := validRawInput(t)

	err := ProcessAndValidate(cfg, input)

	assert.NoError(t, err)
	assert.Equal(t, 25, cfg.ResultLimit)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Equal(t, schema.NoneBackend, cfg.StoreBackend)
	assert.True(t, cfg.UseEmojis)
	assert.False(t, cfg.UseColors)
	assert.Equal(t, schema.GetDefaultWeights(), cfg.Weights)
	assert.Equal(t, schema.GetDefaultLapTimeBands(), cfg.LapTimeBands)
	assert.NotEmpty(t, cfg.TierCutoffs)
	assert.NotEmpty(t, cfg.SessionPath)
}

func TestProcessAndValidate_DriverList(t *testing.T) {
	cfg := &Config{}
	input := validRawInput(t)
	input.Drivers = "VER, HAM ,LEC,"

	err := ProcessAndValidate(cfg, input)

	assert.NoError(t, err)
	assert.Equal(t, []string{"VER", "HAM", "LEC"}, cfg.Drivers)
}

func TestProcessAndValidate_Limits(t *testing.T) {
	t.Run("zero limit rejected", func(t *testing.T) {
		input := validRawInput(t)
		input.Limit = 0
		assert.ErrorContains(t, ProcessAndValidate(&Config{}, input), "limit")
	})

	t.Run("limit over maximum rejected", func(t *testing.T) {
		input := validRawInput(t)
		input.Limit = MaxResultLimit + 1
		assert.ErrorContains(t, ProcessAndValidate(&Config{}, input), "limit")
	})

	t.Run("zero workers rejected", func(t *testing.T) {
		input := validRawInput(t)
		input.Workers = 0
		assert.ErrorContains(t, ProcessAndValidate(&Config{}, input), "workers")
	})

	t.Run("precision out of range rejected", func(t *testing.T) {
		input := validRawInput(t)
		input.Precision = 5
		assert.ErrorContains(t, ProcessAndValidate(&Config{}, input), "precision")
	})
}

func TestProcessAndValidate_OutputMode(t *testing.T) {
	input := validRawInput(t)
	input.Output = "XML"

	assert.ErrorContains(t, ProcessAndValidate(&Config{}, input), "invalid output format")

	input.Output = "JSON" // Case-insensitive
	cfg := &Config{}
	assert.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, schema.JSONOut, cfg.Output)
}

func TestProcessAndValidate_Thresholds(t *testing.T) {
	t.Run("brake threshold out of range", func(t *testing.T) {
		input := validRawInput(t)
		input.BrakeThreshold = 150
		assert.ErrorContains(t, ProcessAndValidate(&Config{}, input), "brake-threshold")
	})

	t.Run("rolling window too small", func(t *testing.T) {
		input := validRawInput(t)
		input.RollingWindow = 1
		assert.ErrorContains(t, ProcessAndValidate(&Config{}, input), "rolling-window")
	})

	t.Run("epsilon must be positive", func(t *testing.T) {
		input := validRawInput(t)
		input.TrendEpsilon = 0
		assert.ErrorContains(t, ProcessAndValidate(&Config{}, input), "trend-epsilon")
	})
}

func TestProcessAndValidate_WeightOverrides(t *testing.T) {
	t.Run("override keeping the sum", func(t *testing.T) {
		input := validRawInput(t)
		pace, cons := 0.40, 0.15
		input.Weights.Pace = &pace
		input.Weights.Consistency = &cons

		cfg := &Config{}
		assert.NoError(t, ProcessAndValidate(cfg, input))
		assert.Equal(t, 0.40, cfg.Weights[schema.PaceDimension])
		assert.Equal(t, 0.15, cfg.Weights[schema.ConsistencyDimension])
		assert.Equal(t, 0.25, cfg.Weights[schema.TechnicalDimension])
	})

	t.Run("override breaking the sum", func(t *testing.T) {
		input := validRawInput(t)
		pace := 0.90
		input.Weights.Pace = &pace
		assert.ErrorContains(t, ProcessAndValidate(&Config{}, input), "sum to 1.0")
	})

	t.Run("negative override", func(t *testing.T) {
		input := validRawInput(t)
		pace := -0.1
		input.Weights.Pace = &pace
		assert.ErrorContains(t, ProcessAndValidate(&Config{}, input), "negative")
	})
}

func TestProcessAndValidate_BandOverrides(t *testing.T) {
	t.Run("custom edges", func(t *testing.T) {
		input := validRawInput(t)
		excellent := 0.005
		input.Bands.Excellent = &excellent

		cfg := &Config{}
		assert.NoError(t, ProcessAndValidate(cfg, input))
		assert.Equal(t, 0.005, cfg.LapTimeBands.Edges[0])
	})

	t.Run("edges must stay ascending", func(t *testing.T) {
		input := validRawInput(t)
		excellent := 0.05 // Above the default good edge
		input.Bands.Excellent = &excellent
		assert.ErrorContains(t, ProcessAndValidate(&Config{}, input), "ascending")
	})
}

func TestProcessAndValidate_SessionPath(t *testing.T) {
	input := validRawInput(t)
	input.SessionPathStr = "/nonexistent/session/dir"

	assert.ErrorContains(t, ProcessAndValidate(&Config{}, input), "cannot access session path")
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	t.Run("sqlite and none need nothing", func(t *testing.T) {
		assert.NoError(t, ValidateDatabaseConnectionString(schema.SQLiteBackend, ""))
		assert.NoError(t, ValidateDatabaseConnectionString(schema.NoneBackend, ""))
	})

	t.Run("mysql format", func(t *testing.T) {
		assert.Error(t, ValidateDatabaseConnectionString(schema.MySQLBackend, ""))
		assert.Error(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "user:pass@host/db"))
		assert.NoError(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "user:pass@tcp(localhost:3306)/stintlab"))
	})

	t.Run("postgresql format", func(t *testing.T) {
		assert.Error(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, ""))
		assert.Error(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "host=localhost"))
		assert.NoError(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "host=localhost dbname=stintlab"))
	})
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{
		Drivers:     []string{"VER"},
		Weights:     schema.GetDefaultWeights(),
		TierCutoffs: schema.GetDefaultTierCutoffs(),
	}

	clone := cfg.Clone()
	clone.Drivers[0] = "HAM"
	clone.Weights[schema.PaceDimension] = 0.99

	assert.Equal(t, "VER", cfg.Drivers[0])
	assert.Equal(t, 0.30, cfg.Weights[schema.PaceDimension])
}
