package contract

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/apexmetrics/stintlab/schema"
)

// MockSessionProvider implements the SessionProvider interface for testing.
type MockSessionProvider struct {
	mock.Mock
}

var _ SessionProvider = &MockSessionProvider{} // Compile-time check

// Drivers mocks the driver listing.
func (m *MockSessionProvider) Drivers(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	drivers, _ := args.Get(0).([]string)
	return drivers, args.Error(1)
}

// Laps mocks one driver's lap table.
func (m *MockSessionProvider) Laps(ctx context.Context, driver string) ([]schema.Lap, error) {
	args := m.Called(ctx, driver)
	laps, _ := args.Get(0).([]schema.Lap)
	return laps, args.Error(1)
}

// Telemetry mocks one lap's telemetry trace.
func (m *MockSessionProvider) Telemetry(ctx context.Context, driver string, lapNumber int) ([]schema.TelemetrySample, error) {
	args := m.Called(ctx, driver, lapNumber)
	samples, _ := args.Get(0).([]schema.TelemetrySample)
	return samples, args.Error(1)
}
