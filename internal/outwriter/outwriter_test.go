package outwriter

import (
	"bytes"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/apexmetrics/stintlab/internal/contract"
	"github.com/apexmetrics/stintlab/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableConfig() *contract.Config {
	return &contract.Config{
		ResultLimit: 25,
		Precision:   2,
		Workers:     4,
		Output:      schema.TextOut,
		Width:       80,
	}
}

func sampleStandings() *schema.SessionAnalysis {
	return &schema.SessionAnalysis{
		Standings: []schema.DriverResult{
			{
				Driver:    "VER",
				Composite: 88.5,
				Rank:      1,
				Tier:      schema.TierElite,
				SubScores: map[schema.Dimension]float64{
					schema.PaceDimension:        95,
					schema.ConsistencyDimension: 95,
					schema.TechnicalDimension:   85,
					schema.AdaptationDimension:  75,
				},
			},
			{
				Driver:    "HAM",
				Composite: 76.0,
				Rank:      2,
				Tier:      schema.TierExcellent,
				SubScores: map[schema.Dimension]float64{
					schema.PaceDimension: 75,
				},
			},
		},
		Omitted: []schema.DriverOmission{
			{Driver: "SAR", Reason: "no dimension produced a valid sub-score"},
		},
		Field: schema.FieldStats{Mean: 82.25, Median: 82.25, Spread: 12.5, Competitiveness: 92.4},
	}
}

func TestWriteStandingsTable(t *testing.T) {
	var buf bytes.Buffer
	fmtFloat, intFmt := createFormatters(2)

	err := writeStandingsTable(sampleStandings(), tableConfig(), fmtFloat, intFmt, 50*time.Millisecond, &buf)

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "VER")
	assert.Contains(t, out, "88.50")
	assert.Contains(t, out, "Elite")
	// Missing sub-scores render as a dash, never a zero.
	assert.Contains(t, out, "-")
	assert.Contains(t, out, "Omitted SAR")
	assert.Contains(t, out, "competitiveness 92.40")
}

func TestWriteStandingsCSVRows(t *testing.T) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	fmtFloat, intFmt := createFormatters(2)

	err := writeStandingsCSVRows(w, sampleStandings().Standings, fmtFloat, intFmt)
	w.Flush()

	require.NoError(t, err)
	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3) // Header plus two drivers
	assert.Equal(t, "rank", records[0][0])
	assert.Equal(t, "learning_curve", records[0][12])
	assert.Equal(t, []string{"1", "VER", "88.50", "Elite"}, records[1][:4])
	assert.Equal(t, "-", records[2][5]) // HAM has no consistency sub-score
}

func TestLimitStandings(t *testing.T) {
	standings := sampleStandings().Standings

	assert.Len(t, limitStandings(standings, 1), 1)
	assert.Len(t, limitStandings(standings, 10), 2)
	assert.Len(t, limitStandings(standings, 0), 2)
}

func TestBuildupCell(t *testing.T) {
	fmtFloat, _ := createFormatters(2)

	gradual := schema.ZoneMetrics{BuildupRate: 45.0}
	assert.Equal(t, "45.00", buildupCell(&gradual, fmtFloat))

	instant := schema.ZoneMetrics{BuildupRate: math.Inf(1)}
	assert.Equal(t, "instant", buildupCell(&instant, fmtFloat))
}

func TestWriteZonesTable(t *testing.T) {
	reports := []schema.DriverZoneReport{
		{
			Driver:  "VER",
			Channel: schema.BrakeChannel,
			Laps: []schema.LapZoneReport{
				{
					LapNumber: 3,
					Zones: []schema.ZoneMetrics{
						{
							Zone:        schema.Zone{StartDist: 120, EndDist: 180, Peak: 92, Average: 61, Samples: 6},
							BuildupRate: math.Inf(1),
						},
					},
				},
			},
		},
	}

	var buf bytes.Buffer
	fmtFloat, intFmt := createFormatters(2)
	err := writeZonesTable(reports, tableConfig(), fmtFloat, intFmt, 10*time.Millisecond, &buf)

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "VER")
	assert.Contains(t, out, "instant")
	assert.Contains(t, out, "Showing 1 zones across 1 drivers")
}

func TestPrintZoneReportsJSON(t *testing.T) {
	reports := []schema.DriverZoneReport{
		{
			Driver:  "VER",
			Channel: schema.BrakeChannel,
			Laps: []schema.LapZoneReport{
				{
					LapNumber: 3,
					Zones: []schema.ZoneMetrics{
						{
							Zone:        schema.Zone{StartDist: 120, EndDist: 180, Peak: 92, Average: 61, Samples: 6},
							BuildupRate: math.Inf(1),
						},
						{
							Zone:        schema.Zone{StartDist: 400, EndDist: 460, Peak: 85, Average: 55, Samples: 5},
							BuildupRate: 42.5,
						},
					},
				},
			},
		},
	}

	cfg := tableConfig()
	cfg.Output = schema.JSONOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "zones.json")

	require.NoError(t, PrintZoneReports(reports, cfg, 10*time.Millisecond))

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `"BuildupRate": "instant"`)
	assert.Contains(t, out, `"BuildupRate": 42.5`)
}

func TestGetMaxTableNoteWidth(t *testing.T) {
	t.Run("explicit width override", func(t *testing.T) {
		cfg := tableConfig()
		cfg.Width = 200
		assert.Equal(t, 60, GetMaxTableNoteWidth(cfg)) // Clamped to the maximum
	})

	t.Run("narrow terminal clamps low", func(t *testing.T) {
		cfg := tableConfig()
		cfg.Width = 50
		assert.Equal(t, 15, GetMaxTableNoteWidth(cfg))
	})
}

func TestCreateFormatters(t *testing.T) {
	fmtFloat, intFmt := createFormatters(3)
	assert.Equal(t, "1.235", fmtFloat(1.2345))
	assert.Equal(t, "%d", intFmt)
}
