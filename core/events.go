package core

import (
	"math"

	"github.com/apexmetrics/stintlab/schema"
)

// Brake application intensity bucket edges, in brake-magnitude percent.
const (
	heavyBrakeEdge    = 80.0
	moderateBrakeEdge = 30.0
)

// ExtractZoneMetrics computes the derived event metrics for one zone against
// the telemetry that produced it. BuildupRate is +Inf when the peak lands on
// the zone's first sample; callers special-case that instead of treating it
// as an error. Braking zones additionally get speed reduction, distance
// covered and an efficiency ratio.
func ExtractZoneMetrics(zone schema.Zone, samples []schema.TelemetrySample) schema.ZoneMetrics {
	m := schema.ZoneMetrics{Zone: zone}
	if zone.Samples == 0 || zone.EndIndex >= len(samples) {
		return m
	}

	m.BuildupRate = buildupRate(zone, samples)

	if zone.Channel == schema.BrakeChannel {
		entry := samples[zone.StartIndex].Speed
		exit := samples[zone.EndIndex].Speed
		m.SpeedReduction = entry - exit
		m.BrakingDist = zone.EndDist - zone.StartDist

		// Speed shed per unit of brake work (average magnitude held over the
		// zone's duration). Feeds the technical dimension.
		work := zone.Average * float64(zone.Samples)
		if work > 0 {
			m.Efficiency = math.Max(0, m.SpeedReduction) / work
		}
	}

	return m
}

// buildupRate returns peak magnitude divided by samples-to-peak, or +Inf for
// an instantaneous peak on the first sample.
func buildupRate(zone schema.Zone, samples []schema.TelemetrySample) float64 {
	peakAt := zone.StartIndex
	for i := zone.StartIndex; i <= zone.EndIndex; i++ {
		if channelValue(&samples[i], zone.Channel, 0) > channelValue(&samples[peakAt], zone.Channel, 0) {
			peakAt = i
		}
	}
	steps := peakAt - zone.StartIndex
	if steps == 0 {
		return math.Inf(1)
	}
	return zone.Peak / float64(steps)
}

// ExtractAllZoneMetrics segments a lap on the given channel and extracts the
// metrics for every resulting zone in one pass.
func ExtractAllZoneMetrics(samples []schema.TelemetrySample, channel schema.SignalChannel, opts SegmentOptions) []schema.ZoneMetrics {
	zones := SegmentZones(samples, channel, opts)
	if len(zones) == 0 {
		return nil
	}
	out := make([]schema.ZoneMetrics, 0, len(zones))
	for _, z := range zones {
		out = append(out, ExtractZoneMetrics(z, samples))
	}
	return out
}

// countBrakeIntensity buckets every sample of a lap by brake application
// intensity: heavy (>80), moderate (30-80], light (0-30].
func countBrakeIntensity(samples []schema.TelemetrySample) (heavy, moderate, light int) {
	for i := range samples {
		b := samples[i].Brake
		switch {
		case b > heavyBrakeEdge:
			heavy++
		case b > moderateBrakeEdge:
			moderate++
		case b > 0:
			light++
		}
	}
	return heavy, moderate, light
}

// zoneRepeatability scores how repeatable a lap's braking events are: the
// mean of (1 - CV of zone peaks) and (1 - CV of zone durations), clamped to
// [0,1]. One or zero zones score 0, matching the insufficient-sample rule.
func zoneRepeatability(zones []schema.ZoneMetrics) float64 {
	if len(zones) < 2 {
		return 0
	}
	peaks := make([]float64, len(zones))
	durations := make([]float64, len(zones))
	for i, z := range zones {
		peaks[i] = z.Peak
		durations[i] = float64(z.Samples)
	}
	pc := clamp01(1 - coefficientOfVariation(peaks))
	dc := clamp01(1 - coefficientOfVariation(durations))
	return (pc + dc) / 2
}
