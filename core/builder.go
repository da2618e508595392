package core

import (
	"context"
	"fmt"

	"github.com/apexmetrics/stintlab/internal/contract"
	"github.com/apexmetrics/stintlab/schema"
)

// DriverResultBuilder builds one driver's metric set from provider data.
type DriverResultBuilder struct {
	ctx      context.Context
	cfg      *contract.Config
	provider contract.SessionProvider
	result   *schema.DriverResult
	driver   string

	// Internal data collected during the build process
	laps     []schema.Lap
	lapTimes []float64
}

// NewDriverResultBuilder is the starting point for building driver metrics.
func NewDriverResultBuilder(ctx context.Context, cfg *contract.Config, provider contract.SessionProvider, driver string) *DriverResultBuilder {
	return &DriverResultBuilder{
		ctx:      ctx,
		cfg:      cfg,
		provider: provider,
		result:   &schema.DriverResult{Driver: driver},
		driver:   driver,
	}
}

// LoadLaps fetches the driver's lap table once and caches the timed-lap
// series for the later steps.
func (b *DriverResultBuilder) LoadLaps() *DriverResultBuilder {
	laps, err := b.provider.Laps(b.ctx, b.driver)
	if err != nil {
		contract.LogWarn(fmt.Sprintf("Failed to load laps for %s", b.driver), err)
		return b
	}
	b.laps = laps
	for i := range laps {
		if laps[i].HasTime() {
			b.lapTimes = append(b.lapTimes, laps[i].LapTime)
		}
	}
	return b
}

// ComputePaceStats fills the basic pace profile: fastest and average lap,
// sector statistics and the theoretical-best gap.
func (b *DriverResultBuilder) ComputePaceStats() *DriverResultBuilder {
	if len(b.lapTimes) == 0 {
		return b
	}
	pace := &schema.PaceStats{
		FastestLap:   minOf(b.lapTimes),
		AverageLap:   mean(b.lapTimes),
		LapTimeRange: maxOf(b.lapTimes) - minOf(b.lapTimes),
		ValidLaps:    len(b.lapTimes),
	}

	var sectorMeans []float64
	var bestSum float64
	allSectors := true
	for s := 0; s < 3; s++ {
		times := b.sectorTimes(s)
		if len(times) == 0 {
			allSectors = false
			continue
		}
		pace.Sectors[s] = schema.SectorStats{
			Best:    minOf(times),
			Average: mean(times),
			StdDev:  stddev(times),
			Count:   len(times),
		}
		sectorMeans = append(sectorMeans, pace.Sectors[s].Average)
		bestSum += pace.Sectors[s].Best
	}
	if len(sectorMeans) == 3 {
		pace.SectorBalance = clamp01(1 - coefficientOfVariation(sectorMeans))
	}
	if allSectors && bestSum > 0 {
		pace.TheoreticalGap = pace.FastestLap - bestSum
	}

	b.result.Pace = pace
	return b
}

func (b *DriverResultBuilder) sectorTimes(sector int) []float64 {
	var times []float64
	for i := range b.laps {
		var t float64
		switch sector {
		case 0:
			t = b.laps[i].Sector1
		case 1:
			t = b.laps[i].Sector2
		default:
			t = b.laps[i].Sector3
		}
		if t > 0 {
			times = append(times, t)
		}
	}
	return times
}

// ComputeConsistency runs the dispersion analysis over the timed-lap series.
func (b *DriverResultBuilder) ComputeConsistency() *DriverResultBuilder {
	if len(b.lapTimes) < 2 {
		return b
	}
	opts := DefaultConsistencyOptions()
	opts.Window = b.cfg.RollingWindow
	opts.Bands = b.cfg.LapTimeBands
	stats := AnalyzeConsistency(b.lapTimes, opts)
	b.result.Consistency = &stats
	return b
}

// ComputeTechnical segments every lap's brake trace into zones and
// aggregates the zone metrics into the technical profile. Laps without
// telemetry are skipped; a driver without any telemetry gets no technical
// block at all.
func (b *DriverResultBuilder) ComputeTechnical() *DriverResultBuilder {
	opts := SegmentOptions{
		Threshold:  b.cfg.BrakeThreshold,
		MinSamples: b.cfg.MinZoneSamples,
		MergeGap:   DefaultBrakeMergeGap,
	}

	tech := schema.TechnicalStats{}
	var allZones []schema.ZoneMetrics
	var zoneAverages []float64
	var lapEfficiencies []float64

	for i := range b.laps {
		samples, err := b.provider.Telemetry(b.ctx, b.driver, b.laps[i].Number)
		if err != nil {
			contract.LogWarn(fmt.Sprintf("Failed to load telemetry for %s lap %d", b.driver, b.laps[i].Number), err)
			continue
		}
		if len(samples) == 0 {
			continue
		}

		metrics := ExtractAllZoneMetrics(samples, schema.BrakeChannel, opts)
		tech.LapsAnalyzed++

		heavy, moderate, light := countBrakeIntensity(samples)
		tech.HeavyEvents += heavy
		tech.ModerateEvents += moderate
		tech.LightEvents += light

		var lapEff []float64
		for _, m := range metrics {
			allZones = append(allZones, m)
			zoneAverages = append(zoneAverages, m.Average)
			if m.Peak > tech.PeakBrake {
				tech.PeakBrake = m.Peak
			}
			if m.Efficiency > 0 {
				lapEff = append(lapEff, m.Efficiency)
			}
		}
		if len(lapEff) > 0 {
			lapEfficiencies = append(lapEfficiencies, mean(lapEff))
		}
	}

	if tech.LapsAnalyzed == 0 {
		return b
	}

	tech.ZonesPerLap = float64(len(allZones)) / float64(tech.LapsAnalyzed)
	tech.AvgBrake = mean(zoneAverages)
	tech.BrakeConsistency = zoneRepeatability(allZones)
	tech.Efficiency = mean(lapEfficiencies)
	tech.EfficiencyTrend = schema.TrendInsufficientData
	if trend, err := FitTrend(lapEfficiencies, b.cfg.TrendEpsilon); err == nil {
		tech.EfficiencyTrend = trend.Direction
	}

	b.result.Technical = &tech
	return b
}

// ComputeDegradation derives stints from the lap table and fits the lap-time
// trend within each.
func (b *DriverResultBuilder) ComputeDegradation() *DriverResultBuilder {
	stints := DeriveStints(b.laps)
	if len(stints) == 0 {
		return b
	}
	b.result.Degradation = AnalyzeDegradation(stints, b.cfg.TrendEpsilon)
	return b
}

// ComputeAdaptation phases the session and classifies the learning curve.
func (b *DriverResultBuilder) ComputeAdaptation() *DriverResultBuilder {
	stats := AnalyzeAdaptation(b.lapTimes)
	if stats.Curve == schema.CurveInsufficientData && len(b.lapTimes) < MinTrendPoints {
		return b
	}
	b.result.Adaptation = &stats
	return b
}

// ComputePositionStats summarizes track-position movement when the lap table
// carries positions.
func (b *DriverResultBuilder) ComputePositionStats() *DriverResultBuilder {
	var positions []float64
	for i := range b.laps {
		if b.laps[i].Position > 0 {
			positions = append(positions, float64(b.laps[i].Position))
		}
	}
	if len(positions) < 2 {
		return b
	}

	var swings float64
	for i := 1; i < len(positions); i++ {
		swings += abs(positions[i] - positions[i-1])
	}

	b.result.Position = &schema.PositionStats{
		Gain:       positions[0] - positions[len(positions)-1],
		Average:    mean(positions),
		Best:       minOf(positions),
		Worst:      maxOf(positions),
		Volatility: swings / float64(len(positions)-1),
	}
	return b
}

// Build finalizes the construction and returns the completed metric set.
func (b *DriverResultBuilder) Build() schema.DriverResult {
	return *b.result
}
