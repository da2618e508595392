// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/apexmetrics/stintlab/internal/contract"
	"github.com/apexmetrics/stintlab/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteStandings prints the ranked session standings using the configured output format.
func (ow *OutWriter) WriteStandings(analysis *schema.SessionAnalysis, cfg *contract.Config, duration time.Duration) error {
	return PrintStandings(analysis, cfg, duration)
}

// WriteZones prints per-lap zone reports using the configured output format.
func (ow *OutWriter) WriteZones(reports []schema.DriverZoneReport, cfg *contract.Config, duration time.Duration) error {
	return PrintZoneReports(reports, cfg, duration)
}

// WriteDegradation prints per-stint degradation reports using the configured output format.
func (ow *OutWriter) WriteDegradation(reports []schema.DriverDegradationReport, cfg *contract.Config, duration time.Duration) error {
	return PrintDegradationReports(reports, cfg, duration)
}

// WriteConsistency prints per-driver consistency reports using the configured output format.
func (ow *OutWriter) WriteConsistency(reports []schema.DriverConsistencyReport, cfg *contract.Config, duration time.Duration) error {
	return PrintConsistencyReports(reports, cfg, duration)
}

// WriteMetrics prints scoring dimension definitions using the configured output format.
func (ow *OutWriter) WriteMetrics(activeWeights map[schema.Dimension]float64, cfg *contract.Config) error {
	return PrintMetricsDefinitions(activeWeights, cfg)
}

// WriteRuns prints stored analysis runs using the configured output format.
func (ow *OutWriter) WriteRuns(runs []schema.RunRecord, cfg *contract.Config) error {
	return PrintRunRecords(runs, cfg)
}
