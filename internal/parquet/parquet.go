// Package parquet provides data structures and functions for exporting
// stintlab analysis data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/apexmetrics/stintlab/schema"
	"github.com/parquet-go/parquet-go"
)

// AnalysisRun represents a single analysis run with metadata.
// This struct maps to the stintlab_analysis_runs database table.
type AnalysisRun struct {
	// RunID is the unique identifier for this analysis run
	RunID int64 `parquet:"run_id,snappy"`

	// StartTime is when the analysis began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the analysis completed (nullable, stored as TIMESTAMP with nanosecond precision)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the analysis run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// TotalDrivers is the number of drivers analyzed in this run
	TotalDrivers int32 `parquet:"total_drivers,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// DriverScores represents the sub-scores and placement for a single driver in
// an analysis run. This struct maps to the stintlab_driver_scores database table.
type DriverScores struct {
	// RunID references the parent analysis run
	RunID int64 `parquet:"run_id,snappy"`

	// Driver is the driver identifier
	Driver string `parquet:"driver_id,snappy"`

	// AnalysisTime is when this driver was scored (stored as TIMESTAMP with nanosecond precision)
	AnalysisTime time.Time `parquet:"analysis_time,snappy"`

	// PaceScore is the 0-100 pace sub-score
	PaceScore float64 `parquet:"pace_score,snappy"`

	// ConsistencyScore is the 0-100 consistency sub-score
	ConsistencyScore float64 `parquet:"consistency_score,snappy"`

	// TechnicalScore is the 0-100 technical sub-score
	TechnicalScore float64 `parquet:"technical_score,snappy"`

	// AdaptationScore is the 0-100 adaptation sub-score
	AdaptationScore float64 `parquet:"adaptation_score,snappy"`

	// CompositeScore is the weighted composite score
	CompositeScore float64 `parquet:"composite_score,snappy"`

	// FinalRank is the 1-based placement in the session
	FinalRank int32 `parquet:"final_rank,snappy"`

	// TierLabel is the percentile tier assigned after ranking
	TierLabel string `parquet:"tier_label,snappy"`
}

// WriteAnalysisRunsParquet writes a slice of AnalysisRun structs to a Parquet file.
func WriteAnalysisRunsParquet(data []AnalysisRun, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the AnalysisRun struct tags
	writer := parquet.NewGenericWriter[AnalysisRun](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	// The Write method accepts a variadic slice
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteDriverScoresParquet writes a slice of DriverScores structs to a Parquet file.
func WriteDriverScoresParquet(data []DriverScores, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the DriverScores struct tags
	writer := parquet.NewGenericWriter[DriverScores](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	// The Write method accepts a variadic slice
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// MockFetchAnalysisRuns generates sample AnalysisRun data for demonstration.
func MockFetchAnalysisRuns() []AnalysisRun {
	now := time.Now()
	startTime1 := now.Add(-2 * time.Hour)
	endTime1 := now.Add(-1*time.Hour - 55*time.Minute)
	durationMs1 := int32(endTime1.Sub(startTime1).Milliseconds())
	configParams1 := `{"session_path":"./sessions/monza-fp2","workers":8,"rolling_window":5}`

	startTime2 := now.Add(-24 * time.Hour)
	endTime2 := now.Add(-24*time.Hour + 3*time.Minute)
	durationMs2 := int32(endTime2.Sub(startTime2).Milliseconds())
	configParams2 := `{"session_path":"./sessions/spa-race","workers":4,"rolling_window":8}`

	startTime3 := now.Add(-10 * time.Minute)
	// Note: endTime3, durationMs3, configParams3 are nil to demonstrate nullable fields

	return []AnalysisRun{
		{
			RunID:         1,
			StartTime:     startTime1,
			EndTime:       &endTime1,
			RunDurationMs: &durationMs1,
			TotalDrivers:  20,
			ConfigParams:  &configParams1,
		},
		{
			RunID:         2,
			StartTime:     startTime2,
			EndTime:       &endTime2,
			RunDurationMs: &durationMs2,
			TotalDrivers:  18,
			ConfigParams:  &configParams2,
		},
		{
			RunID:         3,
			StartTime:     startTime3,
			EndTime:       nil, // Still running - nullable field
			RunDurationMs: nil, // Not yet calculated - nullable field
			TotalDrivers:  0,
			ConfigParams:  nil, // No config stored - nullable field
		},
	}
}

// MockFetchDriverScores generates sample DriverScores data for demonstration.
func MockFetchDriverScores() []DriverScores {
	now := time.Now()

	return []DriverScores{
		{
			RunID:            1,
			Driver:           "VER",
			AnalysisTime:     now.Add(-2 * time.Hour),
			PaceScore:        95,
			ConsistencyScore: 95,
			TechnicalScore:   85,
			AdaptationScore:  75,
			CompositeScore:   88.5,
			FinalRank:        1,
			TierLabel:        "elite",
		},
		{
			RunID:            1,
			Driver:           "LEC",
			AnalysisTime:     now.Add(-2 * time.Hour),
			PaceScore:        75,
			ConsistencyScore: 95,
			TechnicalScore:   75,
			AdaptationScore:  95,
			CompositeScore:   84.0,
			FinalRank:        2,
			TierLabel:        "excellent",
		},
		{
			RunID:            2,
			Driver:           "HAM",
			AnalysisTime:     now.Add(-24 * time.Hour),
			PaceScore:        65,
			ConsistencyScore: 75,
			TechnicalScore:   65,
			AdaptationScore:  45,
			CompositeScore:   63.5,
			FinalRank:        5,
			TierLabel:        "good",
		},
	}
}

// ConvertRunRecords converts schema.RunRecord to AnalysisRun for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []AnalysisRun {
	result := make([]AnalysisRun, len(records))
	for i, record := range records {
		result[i] = AnalysisRun{
			RunID:         record.RunID,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.DurationMs,
			TotalDrivers:  record.TotalDrivers,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertDriverScoreRecords converts schema.DriverScoreRecord to DriverScores for Parquet export.
func ConvertDriverScoreRecords(records []schema.DriverScoreRecord) []DriverScores {
	result := make([]DriverScores, len(records))
	for i, record := range records {
		result[i] = DriverScores{
			RunID:            record.RunID,
			Driver:           record.Driver,
			AnalysisTime:     record.AnalysisTime,
			PaceScore:        record.PaceScore,
			ConsistencyScore: record.ConsistencyScore,
			TechnicalScore:   record.TechnicalScore,
			AdaptationScore:  record.AdaptationScore,
			CompositeScore:   record.CompositeScore,
			FinalRank:        record.Rank,
			TierLabel:        record.TierLabel,
		}
	}
	return result
}
