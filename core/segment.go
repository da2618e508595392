// Package core has the analytics engine: signal segmentation, event metrics,
// trend and degradation fitting, consistency scoring, and composite ranking.
// Everything in this package is a pure function of its inputs; no state is
// retained between analysis calls and no I/O happens here.
package core

import (
	"github.com/apexmetrics/stintlab/schema"
)

// SegmentOptions controls how zones are extracted from a telemetry trace.
type SegmentOptions struct {
	// Threshold is the activation level a channel must exceed for a zone to
	// be open. Same units as the channel (0-100 for pedals).
	Threshold float64

	// MinSamples discards zones spanning fewer samples than this; short
	// blips on a pedal trace are sensor noise, not events.
	MinSamples int

	// MergeGap merges two zones separated by less than this many meters into
	// one. Zero disables merging.
	MergeGap float64
}

// Default segmentation tuning per channel. The brake channel triggers on
// light pressure; throttle only counts meaningful application.
const (
	DefaultBrakeThreshold    = 10.0
	DefaultThrottleThreshold = 50.0
	DefaultMinZoneSamples    = 2
	DefaultBrakeMergeGap     = 50.0  // meters
	DefaultCornerMergeGap    = 100.0 // meters
)

// DefaultSegmentOptions returns the default tuning for a channel.
func DefaultSegmentOptions(channel schema.SignalChannel) SegmentOptions {
	switch channel {
	case schema.ThrottleChannel:
		return SegmentOptions{Threshold: DefaultThrottleThreshold, MinSamples: DefaultMinZoneSamples, MergeGap: DefaultBrakeMergeGap}
	case schema.CornerChannel:
		return SegmentOptions{Threshold: 0, MinSamples: DefaultMinZoneSamples, MergeGap: DefaultCornerMergeGap}
	default:
		return SegmentOptions{Threshold: DefaultBrakeThreshold, MinSamples: DefaultMinZoneSamples, MergeGap: DefaultBrakeMergeGap}
	}
}

// channelValue reads the monitored channel from a sample. The corner channel
// is derived: speed inverted around the given ceiling, so slow ranges look
// like high-magnitude ranges.
func channelValue(s *schema.TelemetrySample, channel schema.SignalChannel, speedCeiling float64) float64 {
	switch channel {
	case schema.ThrottleChannel:
		return s.Throttle
	case schema.CornerChannel:
		return speedCeiling - s.Speed
	default:
		return s.Brake
	}
}

// SegmentZones walks a lap's samples in order and extracts the contiguous
// zones where the channel exceeds opts.Threshold. A zone closes on the first
// sample at or below the threshold, and that release sample bounds the zone
// as its end index; a zone still open at the last sample is closed at lap
// end. Zones shorter than opts.MinSamples are dropped, and adjacent zones
// closer than opts.MergeGap meters are merged.
//
// An empty telemetry sequence yields an empty slice, not an error: provider
// data gaps are a normal condition that downstream stages tolerate.
func SegmentZones(samples []schema.TelemetrySample, channel schema.SignalChannel, opts SegmentOptions) []schema.Zone {
	if len(samples) == 0 {
		return nil
	}

	// The corner channel segments on inverted speed: anything below the 30th
	// percentile of the lap's speed trace counts as cornering.
	speedCeiling := 0.0
	if channel == schema.CornerChannel {
		speeds := make([]float64, len(samples))
		for i := range samples {
			speeds[i] = samples[i].Speed
		}
		speedCeiling = percentile(speeds, 30)
	}

	var zones []schema.Zone
	open := false
	start := 0

	for i := range samples {
		v := channelValue(&samples[i], channel, speedCeiling)
		switch {
		case v > opts.Threshold && !open:
			open = true
			start = i
		case v <= opts.Threshold && open:
			open = false
			zones = appendZone(zones, samples, channel, start, i, opts)
		}
	}
	if open {
		// Implicit close at lap end.
		zones = appendZone(zones, samples, channel, start, len(samples)-1, opts)
	}

	return finalizeZones(zones, samples, channel, opts, speedCeiling)
}

// appendZone materializes the [start,end] range as a zone, merging it into
// the previous zone when the distance gap is under opts.MergeGap.
func appendZone(zones []schema.Zone, samples []schema.TelemetrySample, channel schema.SignalChannel, start, end int, opts SegmentOptions) []schema.Zone {
	if n := len(zones); n > 0 && opts.MergeGap > 0 {
		prev := &zones[n-1]
		if samples[start].Distance-prev.EndDist < opts.MergeGap {
			prev.EndIndex = end
			prev.EndDist = samples[end].Distance
			return zones
		}
	}
	return append(zones, schema.Zone{
		Channel:    channel,
		StartIndex: start,
		EndIndex:   end,
		StartDist:  samples[start].Distance,
		EndDist:    samples[end].Distance,
	})
}

// finalizeZones drops zones under the minimum duration and fills in the
// per-zone aggregates. Merging happens before the duration filter so a pair
// of short bursts across a small gap still counts as one real zone.
func finalizeZones(zones []schema.Zone, samples []schema.TelemetrySample, channel schema.SignalChannel, opts SegmentOptions, speedCeiling float64) []schema.Zone {
	out := zones[:0]
	for _, z := range zones {
		z.Samples = z.EndIndex - z.StartIndex + 1
		if z.Samples < opts.MinSamples {
			continue
		}
		var sum, peak float64
		for i := z.StartIndex; i <= z.EndIndex; i++ {
			v := channelValue(&samples[i], channel, speedCeiling)
			sum += v
			if v > peak {
				peak = v
			}
		}
		z.Peak = peak
		z.Average = sum / float64(z.Samples)
		out = append(out, z)
	}
	return out
}
