// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/apexmetrics/stintlab/schema"
)

// SessionProvider defines the operations for loading one session's lap and
// telemetry tables. The analysis core treats the returned data as validated
// and time-ordered; parsing raw provider formats happens behind this
// interface.
type SessionProvider interface {
	// Drivers returns the identifiers of every driver in the session.
	Drivers(ctx context.Context) ([]string, error)

	// Laps returns one driver's lap records in lap-number order, without
	// telemetry samples attached.
	Laps(ctx context.Context, driver string) ([]schema.Lap, error)

	// Telemetry returns the time-ordered telemetry sequence for one lap.
	// A lap without telemetry returns an empty slice, not an error.
	Telemetry(ctx context.Context, driver string, lapNumber int) ([]schema.TelemetrySample, error)
}

// AnalysisStore defines the interface for tracking analysis runs and storing
// per-driver metrics and scores.
type AnalysisStore interface {
	// BeginRun creates a new analysis run and returns its unique ID
	BeginRun(startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the analysis run with completion data
	EndRun(runID int64, endTime time.Time, totalDrivers int) error

	// RecordDriverMetrics stores raw measurements for a driver
	RecordDriverMetrics(runID int64, driver string, metrics schema.DriverMetricsRow) error

	// RecordDriverScores stores final scores for a driver
	RecordDriverScores(runID int64, driver string, scores schema.DriverScoreRow) error

	// ListRuns returns the most recent runs, newest first
	ListRuns(limit int) ([]schema.RunRecord, error)

	// ListDriverScores returns the score rows for one run
	ListDriverScores(runID int64) ([]schema.DriverScoreRecord, error)

	// GetStatus returns status information about the store
	GetStatus() (schema.StoreStatus, error)

	// Close closes the underlying connection
	Close() error
}
