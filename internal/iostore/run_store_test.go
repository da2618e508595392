package iostore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/apexmetrics/stintlab/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore opens a SQLite store backed by a file in the test temp dir.
func newTestStore(t *testing.T) *RunStoreImpl {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	store, err := NewRunStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store.(*RunStoreImpl)
}

func TestRunStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	start := time.Now().UTC()

	runID, err := store.BeginRun(start, map[string]any{"workers": 4})
	require.NoError(t, err)
	assert.Greater(t, runID, int64(0))

	metrics := schema.DriverMetricsRow{
		AnalysisTime: start,
		ValidLaps:    20,
		FastestLap:   89.95,
		AverageLap:   90.42,
		LapTimeCV:    0.004,
		PeakBrake:    98.5,
		BrakingZones: 140,
	}
	require.NoError(t, store.RecordDriverMetrics(runID, "VER", metrics))

	scores := schema.DriverScoreRow{
		AnalysisTime:     start,
		PaceScore:        95,
		ConsistencyScore: 95,
		TechnicalScore:   85,
		AdaptationScore:  75,
		CompositeScore:   88.5,
		Rank:             1,
		TierLabel:        "elite",
	}
	require.NoError(t, store.RecordDriverScores(runID, "VER", scores))
	require.NoError(t, store.EndRun(runID, start.Add(2*time.Second), 1))

	runs, err := store.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].RunID)
	assert.Equal(t, int32(1), runs[0].TotalDrivers)
	require.NotNil(t, runs[0].EndTime)
	require.NotNil(t, runs[0].DurationMs)
	assert.Equal(t, int32(2000), *runs[0].DurationMs)
	require.NotNil(t, runs[0].ConfigParams)
	assert.Contains(t, *runs[0].ConfigParams, "workers")

	rows, err := store.ListDriverScores(runID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "VER", rows[0].Driver)
	assert.Equal(t, 88.5, rows[0].CompositeScore)
	assert.Equal(t, int32(1), rows[0].Rank)
	assert.Equal(t, "elite", rows[0].TierLabel)
}

func TestRunStore_ListRunsNewestFirst(t *testing.T) {
	store := newTestStore(t)
	start := time.Now().UTC()

	first, err := store.BeginRun(start, nil)
	require.NoError(t, err)
	second, err := store.BeginRun(start.Add(time.Minute), nil)
	require.NoError(t, err)

	runs, err := store.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second, runs[0].RunID)
	assert.Equal(t, first, runs[1].RunID)

	limited, err := store.ListRuns(1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestRunStore_GetStatus(t *testing.T) {
	store := newTestStore(t)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Zero(t, status.TotalRuns)

	runID, err := store.BeginRun(time.Now().UTC(), nil)
	require.NoError(t, err)
	require.NoError(t, store.RecordDriverScores(runID, "HAM", schema.DriverScoreRow{AnalysisTime: time.Now().UTC()}))

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 1, status.TotalRuns)
	assert.Equal(t, runID, status.LastRunID)
	assert.Equal(t, 1, status.DriversScored)
	assert.Equal(t, int64(1), status.TableSizes[driverScoresTable])
}

func TestRunStore_NoneBackend(t *testing.T) {
	store, err := NewRunStore(schema.NoneBackend, "")
	require.NoError(t, err)

	runID, err := store.BeginRun(time.Now(), nil)
	assert.NoError(t, err)
	assert.Zero(t, runID)
	assert.NoError(t, store.RecordDriverScores(0, "VER", schema.DriverScoreRow{}))
	assert.NoError(t, store.EndRun(0, time.Now(), 0))

	runs, err := store.ListRuns(5)
	assert.NoError(t, err)
	assert.Empty(t, runs)

	status, err := store.GetStatus()
	assert.NoError(t, err)
	assert.False(t, status.Connected)
	assert.NoError(t, store.Close())
}

func TestRunStore_UnsupportedBackend(t *testing.T) {
	_, err := NewRunStore(schema.DatabaseBackend("oracle"), "")
	assert.ErrorContains(t, err, "unsupported backend")
}

func TestValidateTableName(t *testing.T) {
	assert.NoError(t, validateTableName("stintlab_analysis_runs"))
	assert.Error(t, validateTableName(""))
	assert.Error(t, validateTableName("drop table; --"))
}
