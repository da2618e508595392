package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/apexmetrics/stintlab/internal/contract"
	"github.com/apexmetrics/stintlab/schema"
)

// AnalyzeSession runs the full pipeline for one session: per-driver metric
// building in parallel, then sub-score derivation, composite fusion, ranking
// and tiering once every driver has finished. A nil store disables run
// tracking. Configuration errors abort before any driver is analyzed; a
// single driver's data gap never aborts the batch.
func AnalyzeSession(ctx context.Context, cfg *contract.Config, provider contract.SessionProvider, store contract.AnalysisStore) (*schema.SessionAnalysis, error) {
	if err := ValidateWeights(cfg.Weights); err != nil {
		return nil, fmt.Errorf("invalid weight configuration: %w", err)
	}
	if err := ValidateTierCutoffs(cfg.TierCutoffs); err != nil {
		return nil, fmt.Errorf("invalid tier configuration: %w", err)
	}

	drivers, err := resolveDrivers(ctx, cfg, provider)
	if err != nil {
		return nil, err
	}
	if len(drivers) == 0 {
		return nil, errors.New("no drivers found in session")
	}

	var runID int64
	if store != nil {
		configParams := map[string]any{
			"session_path":   cfg.SessionPath,
			"workers":        cfg.Workers,
			"rolling_window": cfg.RollingWindow,
			"trend_epsilon":  cfg.TrendEpsilon,
		}
		runID, err = store.BeginRun(time.Now(), configParams)
		if err != nil {
			contract.LogWarn("Run tracking initialization failed", err)
			runID = 0
		}
	}

	results := analyzeDrivers(ctx, cfg, provider, drivers)

	analysis := scoreAndRank(cfg, results)

	if store != nil && runID > 0 {
		for i := range analysis.Standings {
			recordDriverAnalysis(store, runID, &analysis.Standings[i])
		}
		if err := store.EndRun(runID, time.Now(), len(analysis.Standings)); err != nil {
			contract.LogWarn("Failed to finalize run tracking", err)
		}
	}

	return analysis, nil
}

// resolveDrivers returns the configured driver filter, or every driver the
// provider knows about when no filter is set.
func resolveDrivers(ctx context.Context, cfg *contract.Config, provider contract.SessionProvider) ([]string, error) {
	if len(cfg.Drivers) > 0 {
		return cfg.Drivers, nil
	}
	drivers, err := provider.Drivers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list session drivers: %w", err)
	}
	return drivers, nil
}

// analyzeDrivers processes all drivers in parallel using a worker pool.
// It spawns cfg.Workers goroutines and aggregates their results into a
// single slice. Driver analyses share no state, so the only synchronization
// is the pool drain itself.
func analyzeDrivers(ctx context.Context, cfg *contract.Config, provider contract.SessionProvider, drivers []string) []schema.DriverResult {
	driverCh := make(chan string, len(drivers))
	resultCh := make(chan schema.DriverResult, len(drivers))
	var wg sync.WaitGroup

	for range cfg.Workers {
		wg.Go(func() {
			for d := range driverCh {
				resultCh <- analyzeDriver(ctx, cfg, provider, d)
			}
		})
	}

	for _, d := range drivers {
		driverCh <- d
	}
	close(driverCh)

	wg.Wait()
	close(resultCh)

	results := make([]schema.DriverResult, 0, len(drivers))
	for r := range resultCh {
		results = append(results, r)
	}
	return results
}

// analyzeDriver computes all metric blocks for a single driver.
func analyzeDriver(ctx context.Context, cfg *contract.Config, provider contract.SessionProvider, driver string) schema.DriverResult {
	builder := NewDriverResultBuilder(ctx, cfg, provider, driver)

	builder.
		LoadLaps().            // Fetches the lap table
		ComputePaceStats().    // Fastest/average lap and sectors
		ComputeConsistency().  // Dispersion profile
		ComputeTechnical().    // Telemetry zone metrics
		ComputeDegradation().  // Per-stint trend fits
		ComputeAdaptation().   // Session phase comparison
		ComputePositionStats() // Track position movement

	return builder.Build()
}

// scoreAndRank is the synchronization barrier of the pipeline: it needs every
// driver's raw metrics before sub-scores can be derived against the field's
// best lap and the standings ordered.
func scoreAndRank(cfg *contract.Config, results []schema.DriverResult) *schema.SessionAnalysis {
	fieldBest := 0.0
	for i := range results {
		if p := results[i].Pace; p != nil && p.FastestLap > 0 {
			if fieldBest == 0 || p.FastestLap < fieldBest {
				fieldBest = p.FastestLap
			}
		}
	}

	analysis := &schema.SessionAnalysis{}
	for i := range results {
		r := &results[i]
		DeriveSubScores(r, fieldBest, cfg.LapTimeBands)

		composite, ok := CompositeScore(r.SubScores, cfg.Weights)
		if !ok {
			analysis.Omitted = append(analysis.Omitted, schema.DriverOmission{
				Driver: r.Driver,
				Reason: "no dimension produced a valid sub-score",
			})
			continue
		}
		r.Composite = composite
		r.HasComposite = true
		analysis.Standings = append(analysis.Standings, *r)
	}

	RankDrivers(analysis.Standings, cfg.TierCutoffs)
	analysis.Field = FieldStatistics(analysis.Standings)

	sort.Slice(analysis.Omitted, func(i, j int) bool {
		return analysis.Omitted[i].Driver < analysis.Omitted[j].Driver
	})

	return analysis
}

// recordDriverAnalysis records one driver's metrics and scores to the store.
func recordDriverAnalysis(store contract.AnalysisStore, runID int64, r *schema.DriverResult) {
	now := time.Now()

	metrics := schema.DriverMetricsRow{AnalysisTime: now}
	if r.Pace != nil {
		metrics.ValidLaps = r.Pace.ValidLaps
		metrics.FastestLap = r.Pace.FastestLap
		metrics.AverageLap = r.Pace.AverageLap
	}
	if r.Consistency != nil {
		metrics.LapTimeCV = r.Consistency.CV
	}
	if r.Technical != nil {
		metrics.PeakBrake = r.Technical.PeakBrake
		metrics.BrakingZones = int(r.Technical.ZonesPerLap * float64(r.Technical.LapsAnalyzed))
	}
	if r.Adaptation != nil {
		metrics.AdaptationRaw = r.Adaptation.Score
	}
	if len(r.Degradation) > 0 {
		var rates []float64
		for _, d := range r.Degradation {
			rates = append(rates, d.RatePerLap)
		}
		metrics.StintCount = len(r.Degradation)
		metrics.DegradationAvg = mean(rates)
	}
	if err := store.RecordDriverMetrics(runID, r.Driver, metrics); err != nil {
		contract.LogWarn(fmt.Sprintf("Failed to record metrics for %s", r.Driver), err)
	}

	scores := schema.DriverScoreRow{
		AnalysisTime:     now,
		PaceScore:        r.SubScores[schema.PaceDimension],
		ConsistencyScore: r.SubScores[schema.ConsistencyDimension],
		TechnicalScore:   r.SubScores[schema.TechnicalDimension],
		AdaptationScore:  r.SubScores[schema.AdaptationDimension],
		CompositeScore:   r.Composite,
		Rank:             r.Rank,
		TierLabel:        string(r.Tier),
	}
	if err := store.RecordDriverScores(runID, r.Driver, scores); err != nil {
		contract.LogWarn(fmt.Sprintf("Failed to record scores for %s", r.Driver), err)
	}
}
