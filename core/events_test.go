package core

import (
	"testing"

	"github.com/apexmetrics/stintlab/schema"
	"github.com/stretchr/testify/assert"
)

func TestExtractZoneMetrics_BuildupRate(t *testing.T) {
	samples := brakeTrace(0, 40, 85, 90, 10)
	opts := SegmentOptions{Threshold: 20, MinSamples: 2}

	metrics := ExtractAllZoneMetrics(samples, schema.BrakeChannel, opts)

	assert.Len(t, metrics, 1)
	m := metrics[0]
	// Peak of 90 reached two samples after zone entry.
	assert.InDelta(t, 45.0, m.BuildupRate, 1e-9)
	assert.False(t, m.InstantBuildup())
}

func TestExtractZoneMetrics_InstantBuildup(t *testing.T) {
	samples := brakeTrace(90, 60, 10)
	opts := SegmentOptions{Threshold: 20, MinSamples: 2}

	metrics := ExtractAllZoneMetrics(samples, schema.BrakeChannel, opts)

	assert.Len(t, metrics, 1)
	assert.True(t, metrics[0].InstantBuildup())
}

func TestExtractZoneMetrics_BrakingMetrics(t *testing.T) {
	samples := []schema.TelemetrySample{
		{Distance: 0, Speed: 280, Brake: 0},
		{Distance: 50, Speed: 270, Brake: 60},
		{Distance: 100, Speed: 180, Brake: 90},
		{Distance: 150, Speed: 120, Brake: 40},
		{Distance: 200, Speed: 110, Brake: 0},
	}
	opts := SegmentOptions{Threshold: 20, MinSamples: 2}

	metrics := ExtractAllZoneMetrics(samples, schema.BrakeChannel, opts)

	assert.Len(t, metrics, 1)
	m := metrics[0]
	assert.Equal(t, 1, m.StartIndex)
	assert.Equal(t, 4, m.EndIndex)
	assert.InDelta(t, 160.0, m.SpeedReduction, 1e-9) // 270 entering, 110 leaving
	assert.InDelta(t, 150.0, m.BrakingDist, 1e-9)
	assert.Greater(t, m.Efficiency, 0.0)
}

func TestExtractZoneMetrics_ThrottleZoneSkipsBrakingFields(t *testing.T) {
	samples := []schema.TelemetrySample{
		{Distance: 0, Speed: 100, Throttle: 0},
		{Distance: 10, Speed: 150, Throttle: 80},
		{Distance: 20, Speed: 200, Throttle: 100},
		{Distance: 30, Speed: 210, Throttle: 0},
	}
	opts := SegmentOptions{Threshold: 50, MinSamples: 2}

	metrics := ExtractAllZoneMetrics(samples, schema.ThrottleChannel, opts)

	assert.Len(t, metrics, 1)
	assert.Zero(t, metrics[0].SpeedReduction)
	assert.Zero(t, metrics[0].Efficiency)
}

func TestCountBrakeIntensity(t *testing.T) {
	samples := brakeTrace(0, 10, 30, 50, 80, 95, 100)

	heavy, moderate, light := countBrakeIntensity(samples)

	assert.Equal(t, 2, heavy)    // 95, 100
	assert.Equal(t, 2, moderate) // 50, 80
	assert.Equal(t, 2, light)    // 10, 30
}

func TestZoneRepeatability(t *testing.T) {
	t.Run("identical zones are fully repeatable", func(t *testing.T) {
		zones := []schema.ZoneMetrics{
			{Zone: schema.Zone{Peak: 90, Samples: 10}},
			{Zone: schema.Zone{Peak: 90, Samples: 10}},
			{Zone: schema.Zone{Peak: 90, Samples: 10}},
		}
		assert.InDelta(t, 1.0, zoneRepeatability(zones), 1e-9)
	})

	t.Run("fewer than two zones score zero", func(t *testing.T) {
		zones := []schema.ZoneMetrics{{Zone: schema.Zone{Peak: 90, Samples: 10}}}
		assert.Zero(t, zoneRepeatability(zones))
		assert.Zero(t, zoneRepeatability(nil))
	})

	t.Run("scattered zones score lower", func(t *testing.T) {
		zones := []schema.ZoneMetrics{
			{Zone: schema.Zone{Peak: 20, Samples: 2}},
			{Zone: schema.Zone{Peak: 90, Samples: 30}},
			{Zone: schema.Zone{Peak: 50, Samples: 8}},
		}
		score := zoneRepeatability(zones)
		assert.Greater(t, score, 0.0)
		assert.Less(t, score, 0.9)
	})
}
