package iostore

import (
	"time"

	"github.com/apexmetrics/stintlab/internal/contract"
	"github.com/apexmetrics/stintlab/schema"
	"github.com/stretchr/testify/mock"
)

// MockRunStore is a mock implementation of AnalysisStore for testing.
type MockRunStore struct {
	mock.Mock
}

var _ contract.AnalysisStore = &MockRunStore{} // Compile-time check

// BeginRun implements the AnalysisStore interface.
func (m *MockRunStore) BeginRun(startTime time.Time, configParams map[string]any) (int64, error) {
	args := m.Called(startTime, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// EndRun implements the AnalysisStore interface.
func (m *MockRunStore) EndRun(runID int64, endTime time.Time, totalDrivers int) error {
	args := m.Called(runID, endTime, totalDrivers)
	return args.Error(0)
}

// RecordDriverMetrics implements the AnalysisStore interface.
func (m *MockRunStore) RecordDriverMetrics(runID int64, driver string, metrics schema.DriverMetricsRow) error {
	args := m.Called(runID, driver, metrics)
	return args.Error(0)
}

// RecordDriverScores implements the AnalysisStore interface.
func (m *MockRunStore) RecordDriverScores(runID int64, driver string, scores schema.DriverScoreRow) error {
	args := m.Called(runID, driver, scores)
	return args.Error(0)
}

// ListRuns implements the AnalysisStore interface.
func (m *MockRunStore) ListRuns(limit int) ([]schema.RunRecord, error) {
	args := m.Called(limit)
	records, _ := args.Get(0).([]schema.RunRecord)
	return records, args.Error(1)
}

// ListDriverScores implements the AnalysisStore interface.
func (m *MockRunStore) ListDriverScores(runID int64) ([]schema.DriverScoreRecord, error) {
	args := m.Called(runID)
	records, _ := args.Get(0).([]schema.DriverScoreRecord)
	return records, args.Error(1)
}

// GetStatus implements the AnalysisStore interface.
func (m *MockRunStore) GetStatus() (schema.StoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// Close implements the AnalysisStore interface.
func (m *MockRunStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
