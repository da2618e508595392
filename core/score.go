package core

import (
	"fmt"
	"math"

	"github.com/apexmetrics/stintlab/schema"
)

// weightSumTolerance is the allowed deviation of a weight map's sum from 1.
const weightSumTolerance = 0.001

// ValidateWeights rejects a weight map whose entries are negative, name an
// unknown dimension, or do not sum to 1 within tolerance. Called before any
// analysis work starts so a bad configuration never fails mid-batch.
func ValidateWeights(weights map[schema.Dimension]float64) error {
	if len(weights) == 0 {
		return fmt.Errorf("empty weight map")
	}
	var sum float64
	for dim, w := range weights {
		if !isScoredDimension(dim) {
			return fmt.Errorf("unknown dimension %q in weight map", dim)
		}
		if w < 0 {
			return fmt.Errorf("negative weight %.3f for dimension %q", w, dim)
		}
		sum += w
	}
	if math.Abs(sum-1) > weightSumTolerance {
		return fmt.Errorf("weights sum to %.3f, want 1.0", sum)
	}
	return nil
}

func isScoredDimension(dim schema.Dimension) bool {
	for _, d := range schema.AllDimensions {
		if d == dim {
			return true
		}
	}
	return false
}

// CompositeScore fuses the available sub-scores into one weighted 0-100
// value. Dimensions missing from subScores are excluded and the remaining
// weights renormalized to sum to 1, so a driver with partial data competes on
// the dimensions it has instead of being dragged to zero. Returns false when
// no weighted dimension has a value.
func CompositeScore(subScores, weights map[schema.Dimension]float64) (float64, bool) {
	var weightedSum, weightSum float64
	for dim, w := range weights {
		score, ok := subScores[dim]
		if !ok || w == 0 {
			continue
		}
		weightedSum += score * w
		weightSum += w
	}
	if weightSum == 0 {
		return 0, false
	}
	return weightedSum / weightSum, true
}

// Rating thresholds below are defaults taken from observed F1 practice
// session spreads, not derived constants. Tune per series.

// RatePace bands the fractional gap to the field's best lap.
func RatePace(gapFraction float64) schema.Rating {
	switch {
	case gapFraction < 0.005:
		return schema.RatingExcellent
	case gapFraction < 0.015:
		return schema.RatingGood
	case gapFraction < 0.03:
		return schema.RatingAverage
	default:
		return schema.RatingNeedsImprovement
	}
}

// RateBrakingConsistency bands a [0,1] zone repeatability value.
func RateBrakingConsistency(repeatability float64) schema.Rating {
	switch {
	case repeatability > 0.8:
		return schema.RatingExcellent
	case repeatability > 0.7:
		return schema.RatingGood
	case repeatability > 0.6:
		return schema.RatingAverage
	default:
		return schema.RatingNeedsImprovement
	}
}

// RateBrakingEfficiency bands a [0,1] mean braking efficiency.
func RateBrakingEfficiency(efficiency float64) schema.Rating {
	switch {
	case efficiency > 0.8:
		return schema.RatingExcellent
	case efficiency > 0.6:
		return schema.RatingGood
	case efficiency > 0.4:
		return schema.RatingAverage
	default:
		return schema.RatingNeedsImprovement
	}
}

// RateAdaptation bands a 0-100 adaptation score.
func RateAdaptation(score float64) schema.Rating {
	switch {
	case score >= 80:
		return schema.RatingExcellent
	case score >= 70:
		return schema.RatingGood
	case score >= 60:
		return schema.RatingAverage
	default:
		return schema.RatingNeedsImprovement
	}
}

// DeriveSubScores fills r.SubScores from the driver's stat blocks, recording
// a diagnostic for every dimension that could not be scored. fieldBestLap is
// the session's overall fastest lap; a zero value disables the pace
// dimension for every driver, which only happens when no driver set a time.
// Each sub-score is the numeric midpoint of its dimension's rating band so
// every dimension speaks the same 0-100 language.
func DeriveSubScores(r *schema.DriverResult, fieldBestLap float64, bands schema.RatingBands) {
	r.SubScores = make(map[schema.Dimension]float64, len(schema.AllDimensions))

	if r.Pace != nil && r.Pace.FastestLap > 0 && fieldBestLap > 0 {
		gap := (r.Pace.FastestLap - fieldBestLap) / fieldBestLap
		r.SubScores[schema.PaceDimension] = RatePace(gap).Midpoint()
	} else {
		r.AddDiagnostic(schema.PaceDimension, "no timed laps")
	}

	if r.Consistency != nil && len(r.Consistency.RollingCV) > 0 {
		r.SubScores[schema.ConsistencyDimension] = bands.Classify(r.Consistency.CV).Midpoint()
	} else {
		r.AddDiagnostic(schema.ConsistencyDimension, "fewer than two timed laps")
	}

	if r.Technical != nil && r.Technical.LapsAnalyzed > 0 {
		score := RateBrakingConsistency(r.Technical.BrakeConsistency).Midpoint()
		if r.Technical.Efficiency > 0 {
			score = (score + RateBrakingEfficiency(r.Technical.Efficiency).Midpoint()) / 2
		}
		r.SubScores[schema.TechnicalDimension] = score
	} else {
		r.AddDiagnostic(schema.TechnicalDimension, "no telemetry available")
	}

	if r.Adaptation != nil && r.Adaptation.Curve != schema.CurveInsufficientData {
		r.SubScores[schema.AdaptationDimension] = RateAdaptation(r.Adaptation.Score).Midpoint()
	} else {
		r.AddDiagnostic(schema.AdaptationDimension, "session too short to phase")
	}
}
