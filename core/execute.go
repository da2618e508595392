package core

import (
	"context"
	"fmt"
	"time"

	"github.com/apexmetrics/stintlab/internal/contract"
	"github.com/apexmetrics/stintlab/internal/outwriter"
	"github.com/apexmetrics/stintlab/internal/provider"
	"github.com/apexmetrics/stintlab/schema"
)

// ExecuteStandings runs the full session analysis and prints the ranked
// standings. It serves as the main entry point for the 'standings' command.
func ExecuteStandings(ctx context.Context, cfg *contract.Config, store contract.AnalysisStore) error {
	start := time.Now()
	contract.LogAnalysisHeader(cfg)
	sess := provider.NewSessionDir(cfg.SessionPath)
	analysis, err := AnalyzeSession(ctx, cfg, sess, store)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.PrintStandings(analysis, cfg, duration)
}

// segmentOptionsForChannel maps the configured thresholds onto one channel's
// segmentation tuning.
func segmentOptionsForChannel(cfg *contract.Config, channel schema.SignalChannel) SegmentOptions {
	opts := DefaultSegmentOptions(channel)
	opts.MinSamples = cfg.MinZoneSamples
	switch channel {
	case schema.BrakeChannel:
		opts.Threshold = cfg.BrakeThreshold
	case schema.ThrottleChannel:
		opts.Threshold = cfg.ThrottleThreshold
	}
	return opts
}

// ExecuteZones extracts per-lap zones for one channel across the session and
// prints them. It serves as the main entry point for the 'zones' command.
func ExecuteZones(ctx context.Context, cfg *contract.Config, channel schema.SignalChannel) error {
	switch channel {
	case schema.BrakeChannel, schema.ThrottleChannel, schema.CornerChannel:
	default:
		return fmt.Errorf("unknown channel %q: expected brake, throttle or corner", channel)
	}

	start := time.Now()
	sess := provider.NewSessionDir(cfg.SessionPath)
	drivers, err := resolveDrivers(ctx, cfg, sess)
	if err != nil {
		return err
	}

	opts := segmentOptionsForChannel(cfg, channel)
	var reports []schema.DriverZoneReport
	for _, driver := range drivers {
		laps, err := sess.Laps(ctx, driver)
		if err != nil {
			contract.LogWarn(fmt.Sprintf("Skipping %s", driver), err)
			continue
		}
		report := schema.DriverZoneReport{Driver: driver, Channel: channel}
		for _, lap := range laps {
			samples, err := sess.Telemetry(ctx, driver, lap.Number)
			if err != nil {
				contract.LogWarn(fmt.Sprintf("Skipping %s lap %d", driver, lap.Number), err)
				continue
			}
			if len(samples) == 0 {
				continue
			}
			zones := ExtractAllZoneMetrics(samples, channel, opts)
			if len(zones) == 0 {
				continue
			}
			report.Laps = append(report.Laps, schema.LapZoneReport{LapNumber: lap.Number, Zones: zones})
		}
		reports = append(reports, report)
	}

	duration := time.Since(start)
	return outwriter.PrintZoneReports(reports, cfg, duration)
}

// ExecuteDegradation derives stints and fits per-stint degradation trends for
// every driver. It serves as the main entry point for the 'degradation' command.
func ExecuteDegradation(ctx context.Context, cfg *contract.Config) error {
	start := time.Now()
	sess := provider.NewSessionDir(cfg.SessionPath)
	drivers, err := resolveDrivers(ctx, cfg, sess)
	if err != nil {
		return err
	}

	var reports []schema.DriverDegradationReport
	for _, driver := range drivers {
		laps, err := sess.Laps(ctx, driver)
		if err != nil {
			contract.LogWarn(fmt.Sprintf("Skipping %s", driver), err)
			continue
		}
		stints := DeriveStints(laps)
		reports = append(reports, schema.DriverDegradationReport{
			Driver: driver,
			Stints: AnalyzeDegradation(stints, cfg.TrendEpsilon),
		})
	}

	duration := time.Since(start)
	return outwriter.PrintDegradationReports(reports, cfg, duration)
}

// ExecuteConsistency profiles lap time dispersion for every driver. It serves
// as the main entry point for the 'consistency' command.
func ExecuteConsistency(ctx context.Context, cfg *contract.Config) error {
	start := time.Now()
	sess := provider.NewSessionDir(cfg.SessionPath)
	drivers, err := resolveDrivers(ctx, cfg, sess)
	if err != nil {
		return err
	}

	var reports []schema.DriverConsistencyReport
	for _, driver := range drivers {
		laps, err := sess.Laps(ctx, driver)
		if err != nil {
			contract.LogWarn(fmt.Sprintf("Skipping %s", driver), err)
			continue
		}
		var lapTimes []float64
		for i := range laps {
			if laps[i].HasTime() {
				lapTimes = append(lapTimes, laps[i].LapTime)
			}
		}
		opts := DefaultConsistencyOptions()
		opts.Window = cfg.RollingWindow
		opts.Bands = cfg.LapTimeBands
		reports = append(reports, schema.DriverConsistencyReport{
			Driver:    driver,
			ValidLaps: len(lapTimes),
			Stats:     AnalyzeConsistency(lapTimes, opts),
		})
	}

	duration := time.Since(start)
	return outwriter.PrintConsistencyReports(reports, cfg, duration)
}

// ExecuteMetrics displays the scoring dimension definitions. No session data
// is read.
func ExecuteMetrics(_ context.Context, cfg *contract.Config) error {
	return outwriter.PrintMetricsDefinitions(cfg.Weights, cfg)
}
