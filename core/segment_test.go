package core

import (
	"testing"

	"github.com/apexmetrics/stintlab/schema"
	"github.com/stretchr/testify/assert"
)

// brakeTrace builds a telemetry trace from brake magnitudes, with samples
// spaced 10 meters apart.
func brakeTrace(brake ...float64) []schema.TelemetrySample {
	samples := make([]schema.TelemetrySample, len(brake))
	for i, b := range brake {
		samples[i] = schema.TelemetrySample{
			Time:     float64(i) * 0.1,
			Distance: float64(i) * 10,
			Speed:    200 - b,
			Brake:    b,
		}
	}
	return samples
}

func TestSegmentZones_SingleZone(t *testing.T) {
	samples := brakeTrace(0, 0, 40, 85, 90, 60, 10, 0)
	opts := SegmentOptions{Threshold: 20, MinSamples: 2}

	zones := SegmentZones(samples, schema.BrakeChannel, opts)

	assert.Len(t, zones, 1)
	z := zones[0]
	assert.Equal(t, 2, z.StartIndex)
	// The release sample at index 6 (brake 10, at or below threshold) closes
	// the zone and is included in its span.
	assert.Equal(t, 6, z.EndIndex)
	assert.Equal(t, 5, z.Samples)
	assert.Equal(t, 90.0, z.Peak)
	assert.InDelta(t, 57.0, z.Average, 1e-9)
	assert.Equal(t, 20.0, z.StartDist)
	assert.Equal(t, 60.0, z.EndDist)
}

func TestSegmentZones_MultipleZonesDoNotOverlap(t *testing.T) {
	samples := brakeTrace(0, 50, 60, 0, 0, 0, 0, 50, 70, 0)
	opts := SegmentOptions{Threshold: 20, MinSamples: 2}

	zones := SegmentZones(samples, schema.BrakeChannel, opts)

	assert.Len(t, zones, 2)
	assert.Equal(t, 1, zones[0].StartIndex)
	assert.Equal(t, 3, zones[0].EndIndex)
	assert.Equal(t, 7, zones[1].StartIndex)
	assert.Equal(t, 9, zones[1].EndIndex)
	assert.Less(t, zones[0].EndIndex, zones[1].StartIndex)
}

func TestSegmentZones_MergeGap(t *testing.T) {
	samples := brakeTrace(0, 50, 60, 0, 0, 0, 0, 50, 70, 0)
	opts := SegmentOptions{Threshold: 20, MinSamples: 2, MergeGap: 100}

	zones := SegmentZones(samples, schema.BrakeChannel, opts)

	// The two applications sit 40 meters apart, under the merge gap, so they
	// collapse into one zone spanning both.
	assert.Len(t, zones, 1)
	assert.Equal(t, 1, zones[0].StartIndex)
	assert.Equal(t, 9, zones[0].EndIndex)
	assert.Equal(t, 9, zones[0].Samples)
	assert.Equal(t, 70.0, zones[0].Peak)
}

func TestSegmentZones_MinSamplesFilter(t *testing.T) {
	samples := brakeTrace(0, 90, 0)
	opts := SegmentOptions{Threshold: 20, MinSamples: 3}

	zones := SegmentZones(samples, schema.BrakeChannel, opts)
	assert.Empty(t, zones)
}

func TestSegmentZones_OpenAtLapEnd(t *testing.T) {
	samples := brakeTrace(0, 30, 40)
	opts := SegmentOptions{Threshold: 20, MinSamples: 2}

	zones := SegmentZones(samples, schema.BrakeChannel, opts)

	assert.Len(t, zones, 1)
	assert.Equal(t, 1, zones[0].StartIndex)
	assert.Equal(t, 2, zones[0].EndIndex)
	assert.Equal(t, 40.0, zones[0].Peak)
}

func TestSegmentZones_EmptyInput(t *testing.T) {
	zones := SegmentZones(nil, schema.BrakeChannel, DefaultSegmentOptions(schema.BrakeChannel))
	assert.Empty(t, zones)
}

func TestSegmentZones_ThrottleChannel(t *testing.T) {
	samples := []schema.TelemetrySample{
		{Distance: 0, Throttle: 0},
		{Distance: 10, Throttle: 80},
		{Distance: 20, Throttle: 100},
		{Distance: 30, Throttle: 40},
		{Distance: 40, Throttle: 0},
	}
	opts := SegmentOptions{Threshold: 50, MinSamples: 2}

	zones := SegmentZones(samples, schema.ThrottleChannel, opts)

	assert.Len(t, zones, 1)
	assert.Equal(t, 1, zones[0].StartIndex)
	assert.Equal(t, 3, zones[0].EndIndex)
	assert.Equal(t, 100.0, zones[0].Peak)
	assert.Equal(t, schema.ThrottleChannel, zones[0].Channel)
}

func TestSegmentZones_CornerChannel(t *testing.T) {
	// Speed dips below the 30th percentile in the middle of the trace; the
	// derived corner channel should flag that range.
	samples := []schema.TelemetrySample{
		{Distance: 0, Speed: 250},
		{Distance: 10, Speed: 240},
		{Distance: 20, Speed: 120},
		{Distance: 30, Speed: 100},
		{Distance: 40, Speed: 110},
		{Distance: 50, Speed: 245},
		{Distance: 60, Speed: 250},
		{Distance: 70, Speed: 255},
	}
	opts := SegmentOptions{Threshold: 0, MinSamples: 2}

	zones := SegmentZones(samples, schema.CornerChannel, opts)

	assert.Len(t, zones, 1)
	assert.Equal(t, 2, zones[0].StartIndex)
	assert.GreaterOrEqual(t, zones[0].EndIndex, 4)
}

func TestDefaultSegmentOptions(t *testing.T) {
	brake := DefaultSegmentOptions(schema.BrakeChannel)
	assert.Equal(t, DefaultBrakeThreshold, brake.Threshold)
	assert.Equal(t, DefaultMinZoneSamples, brake.MinSamples)

	throttle := DefaultSegmentOptions(schema.ThrottleChannel)
	assert.Equal(t, DefaultThrottleThreshold, throttle.Threshold)

	corner := DefaultSegmentOptions(schema.CornerChannel)
	assert.Equal(t, 0.0, corner.Threshold)
	assert.Equal(t, DefaultCornerMergeGap, corner.MergeGap)
}
