package schema

import "time"

// DriverMetricsRow holds the raw per-driver measurements recorded for one
// analysis run.
type DriverMetricsRow struct {
	AnalysisTime   time.Time
	ValidLaps      int
	FastestLap     float64 // Seconds
	AverageLap     float64 // Seconds
	LapTimeCV      float64
	PeakBrake      float64
	BrakingZones   int
	AdaptationRaw  float64 // 0-100 phase-comparison score before rating
	StintCount     int
	DegradationAvg float64 // Mean fitted slope across stints, seconds per lap
}

// DriverScoreRow holds the final per-driver scores recorded for one analysis
// run.
type DriverScoreRow struct {
	AnalysisTime     time.Time
	PaceScore        float64
	ConsistencyScore float64
	TechnicalScore   float64
	AdaptationScore  float64
	CompositeScore   float64
	Rank             int
	TierLabel        string
}

// RunRecord is one row from the stintlab_analysis_runs table.
type RunRecord struct {
	RunID        int64
	StartTime    time.Time
	EndTime      *time.Time
	DurationMs   *int32
	TotalDrivers int32
	ConfigParams *string
}

// StoreStatus reports the state of the analysis run store.
type StoreStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     int64            `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	DriversScored int              `json:"drivers_scored"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}

// DriverScoreRecord is one row from the stintlab_driver_scores table joined
// with its run, used by the parquet exporter.
type DriverScoreRecord struct {
	RunID            int64
	Driver           string
	AnalysisTime     time.Time
	PaceScore        float64
	ConsistencyScore float64
	TechnicalScore   float64
	AdaptationScore  float64
	CompositeScore   float64
	Rank             int32
	TierLabel        string
}
