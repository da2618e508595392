package core

import (
	"sort"

	"github.com/apexmetrics/stintlab/schema"
)

// DefaultRollingWindow is the default window size for rolling dispersion.
const DefaultRollingWindow = 5

// ConsistencyOptions controls dispersion analysis for one scalar series.
type ConsistencyOptions struct {
	Window    int                // Rolling window size; 0 means DefaultRollingWindow
	IQRFactor float64            // Outlier fence multiplier; 0 means 1.5
	Bands     schema.RatingBands // CV edges for the rating classification
}

// DefaultConsistencyOptions returns the standard lap-time configuration.
func DefaultConsistencyOptions() ConsistencyOptions {
	return ConsistencyOptions{
		Window:    DefaultRollingWindow,
		IQRFactor: 1.5,
		Bands:     schema.GetDefaultLapTimeBands(),
	}
}

// AnalyzeConsistency computes the dispersion profile of one ordered scalar
// series: overall CV, rolling-window CV, IQR outliers and a stability index.
// A series shorter than two values has no dispersion and reports zero CV
// with the best rating.
func AnalyzeConsistency(values []float64, opts ConsistencyOptions) schema.ConsistencyStats {
	if opts.Window <= 0 {
		opts.Window = DefaultRollingWindow
	}
	if opts.IQRFactor <= 0 {
		opts.IQRFactor = 1.5
	}

	stats := schema.ConsistencyStats{
		CV:     coefficientOfVariation(values),
		Rating: opts.Bands.Classify(coefficientOfVariation(values)),
	}
	if len(values) < 2 {
		return stats
	}

	stats.Outliers = detectOutliers(values, opts.IQRFactor)

	rollingCV, rollingStd := rollingDispersion(values, opts.Window)
	stats.RollingCV = rollingCV
	if len(rollingCV) > 0 {
		stats.RollingAvg = mean(rollingCV)
		stats.RollingBest = minOf(rollingCV)
		stats.RollingWorst = maxOf(rollingCV)
	}
	if len(rollingStd) > 0 {
		stats.Stability = 1 / (1 + variance(rollingStd))
	}
	return stats
}

// rollingDispersion slides a window over the series and returns the CV and
// stddev of each full window. Series shorter than the window yield a single
// pair over the whole series.
func rollingDispersion(values []float64, window int) (cvs, stds []float64) {
	if len(values) <= window {
		return []float64{coefficientOfVariation(values)}, []float64{stddev(values)}
	}
	n := len(values) - window + 1
	cvs = make([]float64, 0, n)
	stds = make([]float64, 0, n)
	for i := 0; i < n; i++ {
		w := values[i : i+window]
		cvs = append(cvs, coefficientOfVariation(w))
		stds = append(stds, stddev(w))
	}
	return cvs, stds
}

// detectOutliers flags values outside the factor*IQR fences around the
// quartiles. For lap times a low outlier is a standout fast lap, a high one a
// mistake or traffic.
func detectOutliers(values []float64, factor float64) []schema.Outlier {
	if len(values) < 4 {
		return nil
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	q1 := percentileSorted(sorted, 25)
	q3 := percentileSorted(sorted, 75)
	iqr := q3 - q1
	lower := q1 - factor*iqr
	upper := q3 + factor*iqr
	med := percentileSorted(sorted, 50)

	var out []schema.Outlier
	for i, v := range values {
		switch {
		case v < lower:
			out = append(out, schema.Outlier{Index: i, Value: v, Kind: schema.FastOutlier, Deviation: med - v})
		case v > upper:
			out = append(out, schema.Outlier{Index: i, Value: v, Kind: schema.SlowOutlier, Deviation: v - med})
		}
	}
	return out
}
