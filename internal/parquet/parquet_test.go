package parquet

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/apexmetrics/stintlab/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAnalysisRunsParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.parquet")

	err := WriteAnalysisRunsParquet(MockFetchAnalysisRuns(), path)

	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestWriteDriverScoresParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.parquet")

	err := WriteDriverScoresParquet(MockFetchDriverScores(), path)

	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestWriteParquet_EmptyData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.parquet")
	assert.NoError(t, WriteAnalysisRunsParquet(nil, path))
}

func TestMockFetchers(t *testing.T) {
	runs := MockFetchAnalysisRuns()
	require.NotEmpty(t, runs)
	// The last mock run is still in flight, with no end time recorded.
	assert.Nil(t, runs[len(runs)-1].EndTime)

	scores := MockFetchDriverScores()
	require.NotEmpty(t, scores)
	for _, s := range scores {
		assert.NotEmpty(t, s.Driver)
		assert.NotEmpty(t, s.TierLabel)
	}
}

func TestConvertRunRecords(t *testing.T) {
	end := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	duration := int32(1500)
	params := `{"workers":4}`
	records := []schema.RunRecord{
		{
			RunID:        3,
			StartTime:    end.Add(-2 * time.Second),
			EndTime:      &end,
			DurationMs:   &duration,
			TotalDrivers: 20,
			ConfigParams: &params,
		},
		{RunID: 4, StartTime: end},
	}

	converted := ConvertRunRecords(records)

	require.Len(t, converted, 2)
	assert.Equal(t, int64(3), converted[0].RunID)
	assert.Equal(t, int32(20), converted[0].TotalDrivers)
	require.NotNil(t, converted[0].RunDurationMs)
	assert.Equal(t, int32(1500), *converted[0].RunDurationMs)
	assert.Nil(t, converted[1].EndTime)
	assert.Nil(t, converted[1].ConfigParams)
}

func TestConvertDriverScoreRecords(t *testing.T) {
	records := []schema.DriverScoreRecord{
		{
			RunID:          7,
			Driver:         "VER",
			AnalysisTime:   time.Now(),
			CompositeScore: 88.5,
			Rank:           1,
			TierLabel:      "elite",
		},
	}

	converted := ConvertDriverScoreRecords(records)

	require.Len(t, converted, 1)
	assert.Equal(t, "VER", converted[0].Driver)
	assert.Equal(t, 88.5, converted[0].CompositeScore)
	assert.Equal(t, int32(1), converted[0].FinalRank)
	assert.Equal(t, "elite", converted[0].TierLabel)
}
