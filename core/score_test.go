package core

import (
	"testing"

	"github.com/apexmetrics/stintlab/schema"
	"github.com/stretchr/testify/assert"
)

func TestValidateWeights(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, ValidateWeights(schema.GetDefaultWeights()))
	})

	t.Run("empty map rejected", func(t *testing.T) {
		assert.Error(t, ValidateWeights(nil))
	})

	t.Run("negative weight rejected", func(t *testing.T) {
		weights := map[schema.Dimension]float64{
			schema.PaceDimension:        1.25,
			schema.ConsistencyDimension: -0.25,
		}
		assert.ErrorContains(t, ValidateWeights(weights), "negative weight")
	})

	t.Run("unknown dimension rejected", func(t *testing.T) {
		weights := map[schema.Dimension]float64{"charisma": 1.0}
		assert.ErrorContains(t, ValidateWeights(weights), "unknown dimension")
	})

	t.Run("sum off by too much rejected", func(t *testing.T) {
		weights := map[schema.Dimension]float64{
			schema.PaceDimension:        0.5,
			schema.ConsistencyDimension: 0.6,
		}
		assert.ErrorContains(t, ValidateWeights(weights), "sum")
	})
}

func TestCompositeScore(t *testing.T) {
	weights := schema.GetDefaultWeights()

	t.Run("all dimensions present", func(t *testing.T) {
		subScores := map[schema.Dimension]float64{
			schema.PaceDimension:        95,
			schema.ConsistencyDimension: 75,
			schema.TechnicalDimension:   65,
			schema.AdaptationDimension:  45,
		}
		score, ok := CompositeScore(subScores, weights)
		assert.True(t, ok)
		assert.InDelta(t, 72.5, score, 1e-9)
	})

	t.Run("missing dimension renormalizes", func(t *testing.T) {
		subScores := map[schema.Dimension]float64{
			schema.PaceDimension:        80,
			schema.ConsistencyDimension: 70,
			schema.AdaptationDimension:  60,
		}
		score, ok := CompositeScore(subScores, weights)
		assert.True(t, ok)
		// (0.30*80 + 0.25*70 + 0.20*60) / 0.75
		assert.InDelta(t, 71.3333, score, 1e-3)
	})

	t.Run("no valid dimension", func(t *testing.T) {
		_, ok := CompositeScore(map[schema.Dimension]float64{}, weights)
		assert.False(t, ok)
	})
}

func TestRatePace(t *testing.T) {
	assert.Equal(t, schema.RatingExcellent, RatePace(0.004))
	assert.Equal(t, schema.RatingGood, RatePace(0.005))
	assert.Equal(t, schema.RatingGood, RatePace(0.014))
	assert.Equal(t, schema.RatingAverage, RatePace(0.02))
	assert.Equal(t, schema.RatingNeedsImprovement, RatePace(0.05))
}

func TestRatingMidpoints(t *testing.T) {
	assert.Equal(t, 95.0, schema.RatingExcellent.Midpoint())
	assert.Equal(t, 75.0, schema.RatingGood.Midpoint())
	assert.Equal(t, 65.0, schema.RatingAverage.Midpoint())
	assert.Equal(t, 45.0, schema.RatingNeedsImprovement.Midpoint())
}

func TestDeriveSubScores(t *testing.T) {
	bands := schema.GetDefaultLapTimeBands()

	t.Run("full data scores every dimension", func(t *testing.T) {
		r := &schema.DriverResult{
			Driver:      "VER",
			Pace:        &schema.PaceStats{FastestLap: 90.0, ValidLaps: 10},
			Consistency: &schema.ConsistencyStats{CV: 0.005, RollingCV: []float64{0.004, 0.006}},
			Technical:   &schema.TechnicalStats{LapsAnalyzed: 10, BrakeConsistency: 0.85, Efficiency: 0.7},
			Adaptation:  &schema.AdaptationStats{Score: 75, Curve: schema.CurveConsistentImprovement},
		}
		DeriveSubScores(r, 90.0, bands)

		assert.Len(t, r.SubScores, 4)
		assert.Equal(t, 95.0, r.SubScores[schema.PaceDimension]) // Field best, zero gap
		assert.Equal(t, 95.0, r.SubScores[schema.ConsistencyDimension])
		assert.Equal(t, 85.0, r.SubScores[schema.TechnicalDimension]) // Mean of excellent and good
		assert.Equal(t, 75.0, r.SubScores[schema.AdaptationDimension])
		assert.Empty(t, r.Diagnostics)
	})

	t.Run("missing blocks record diagnostics, never zero-fill", func(t *testing.T) {
		r := &schema.DriverResult{Driver: "GAS"}
		DeriveSubScores(r, 90.0, bands)

		assert.Empty(t, r.SubScores)
		assert.Len(t, r.Diagnostics, 4)
	})

	t.Run("no field best disables pace", func(t *testing.T) {
		r := &schema.DriverResult{
			Driver: "HUL",
			Pace:   &schema.PaceStats{FastestLap: 91.0, ValidLaps: 5},
		}
		DeriveSubScores(r, 0, bands)

		_, hasPace := r.SubScores[schema.PaceDimension]
		assert.False(t, hasPace)
	})
}

func BenchmarkCompositeScore(b *testing.B) {
	subScores := map[schema.Dimension]float64{
		schema.PaceDimension:        80,
		schema.ConsistencyDimension: 70,
		schema.TechnicalDimension:   60,
		schema.AdaptationDimension:  50,
	}
	weights := schema.GetDefaultWeights()

	for b.Loop() {
		CompositeScore(subScores, weights)
	}
}

func BenchmarkSegmentZones(b *testing.B) {
	samples := brakeTrace(0, 10, 45, 80, 95, 90, 60, 20, 0, 0, 30, 70, 85, 40, 5, 0)
	opts := DefaultSegmentOptions(schema.BrakeChannel)

	for b.Loop() {
		SegmentZones(samples, schema.BrakeChannel, opts)
	}
}
