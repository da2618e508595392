package core

import (
	"fmt"
	"sort"

	"github.com/apexmetrics/stintlab/schema"
)

// RankDrivers orders results by composite score descending and assigns ranks
// and tiers in place. Ties break on the pace sub-score, then on driver id,
// so re-running the same field always yields the same order. Results without
// a composite must be filtered out before calling.
func RankDrivers(results []schema.DriverResult, cutoffs []schema.TierCutoff) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := &results[i], &results[j]
		if a.Composite != b.Composite {
			return a.Composite > b.Composite
		}
		ap, bp := a.SubScores[schema.PaceDimension], b.SubScores[schema.PaceDimension]
		if ap != bp {
			return ap > bp
		}
		return a.Driver < b.Driver
	})

	n := len(results)
	for i := range results {
		results[i].Rank = i + 1
		results[i].Tier = TierForPosition(i+1, n, cutoffs)
	}
}

// TierForPosition maps a 1-based rank within a field of the given size to the
// first tier whose cumulative cutoff covers that position's field fraction.
func TierForPosition(rank, fieldSize int, cutoffs []schema.TierCutoff) schema.Tier {
	if fieldSize <= 0 || rank <= 0 {
		return schema.TierDeveloping
	}
	fraction := float64(rank) / float64(fieldSize)
	for _, c := range cutoffs {
		if fraction <= c.Fraction {
			return c.Tier
		}
	}
	return cutoffs[len(cutoffs)-1].Tier
}

// ValidateTierCutoffs rejects cutoff lists that are empty, unordered, leave
// part of the field uncovered, or fall outside (0,1].
func ValidateTierCutoffs(cutoffs []schema.TierCutoff) error {
	if len(cutoffs) == 0 {
		return fmt.Errorf("empty tier cutoff list")
	}
	prev := 0.0
	for _, c := range cutoffs {
		if c.Fraction <= prev || c.Fraction > 1 {
			return fmt.Errorf("tier cutoff %q at %.2f not in ascending (0,1] order", c.Tier, c.Fraction)
		}
		prev = c.Fraction
	}
	if cutoffs[len(cutoffs)-1].Fraction != 1 {
		return fmt.Errorf("last tier cutoff covers %.2f of the field, want 1.0", prev)
	}
	return nil
}

// FieldStatistics summarizes the composite-score distribution of the ranked
// field. Competitiveness is max(0, 1-CV) scaled to 0-100; a tightly bunched
// field scores high.
func FieldStatistics(results []schema.DriverResult) schema.FieldStats {
	if len(results) == 0 {
		return schema.FieldStats{}
	}
	scores := make([]float64, len(results))
	for i, r := range results {
		scores[i] = r.Composite
	}
	cv := coefficientOfVariation(scores)
	return schema.FieldStats{
		Mean:            mean(scores),
		Median:          median(scores),
		StdDev:          stddev(scores),
		Min:             minOf(scores),
		Max:             maxOf(scores),
		Spread:          maxOf(scores) - minOf(scores),
		Competitiveness: clampScore((1 - cv) * 100),
	}
}
