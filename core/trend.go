package core

import (
	"errors"

	"github.com/apexmetrics/stintlab/schema"
)

// ErrInsufficientData marks a statistical operation handed fewer points than
// its minimum. Callers surface it in diagnostics; it never aborts a batch.
var ErrInsufficientData = errors.New("insufficient data")

// MinTrendPoints is the minimum series length for a linear fit. Two points
// always fit perfectly and say nothing about a trend.
const MinTrendPoints = 3

// DefaultTrendEpsilon is the default slope sensitivity for classifying a
// lap-time series as improving or declining, in time-units per lap.
const DefaultTrendEpsilon = 0.01

// FitTrend fits a first-order linear trend (ordinary least squares against
// the 0-based index) over an ordered scalar series and classifies the slope
// against epsilon. Series shorter than MinTrendPoints return
// ErrInsufficientData with a zero-valued result carrying the
// insufficient-data direction; they never panic on empty input.
func FitTrend(values []float64, epsilon float64) (schema.TrendResult, error) {
	n := len(values)
	if n < MinTrendPoints {
		return schema.TrendResult{Direction: schema.TrendInsufficientData, Points: n}, ErrInsufficientData
	}

	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}
	slope := olsSlope(xs, values)
	r := pearson(xs, values)

	return schema.TrendResult{
		Slope:     slope,
		Direction: classifySlope(slope, epsilon),
		Strength:  abs(slope),
		RSquared:  r * r,
		Points:    n,
	}, nil
}

// olsSlope returns the least-squares slope of ys against xs.
func olsSlope(xs, ys []float64) float64 {
	mx, my := mean(xs), mean(ys)
	var sxy, sxx float64
	for i := range xs {
		dx := xs[i] - mx
		sxy += dx * (ys[i] - my)
		sxx += dx * dx
	}
	if sxx == 0 {
		return 0
	}
	return sxy / sxx
}

// classifySlope maps a slope to a direction given the sensitivity epsilon.
// For lap-time series a negative slope means the driver is getting faster.
func classifySlope(slope, epsilon float64) schema.TrendDirection {
	switch {
	case slope < -epsilon:
		return schema.TrendImproving
	case slope > epsilon:
		return schema.TrendDeclining
	default:
		return schema.TrendStable
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// DeriveStints splits one driver's lap sequence into maximal runs of
// consecutive laps on the same tire compound. Laps without a compound break
// the current stint; laps without a time keep the stint alive but contribute
// no point to the fit.
func DeriveStints(laps []schema.Lap) []schema.Stint {
	var stints []schema.Stint
	var cur *schema.Stint

	flush := func() {
		if cur != nil {
			stints = append(stints, *cur)
			cur = nil
		}
	}

	for i := range laps {
		lap := &laps[i]
		if lap.Compound == "" {
			flush()
			continue
		}
		if cur == nil || cur.Compound != lap.Compound {
			flush()
			cur = &schema.Stint{
				Driver:   lap.Driver,
				Compound: lap.Compound,
				StartLap: lap.Number,
			}
		}
		cur.EndLap = lap.Number
		if lap.HasTime() {
			cur.LapTimes = append(cur.LapTimes, lap.LapTime)
		}
	}
	flush()
	return stints
}

// AnalyzeDegradation fits the lap-time trend within each stint. The
// degradation rate is the fitted slope in seconds per lap; stints with fewer
// than MinTrendPoints timed laps report a rate of 0 and the
// insufficient-data direction rather than fitting a degenerate line.
func AnalyzeDegradation(stints []schema.Stint, epsilon float64) []schema.StintDegradation {
	out := make([]schema.StintDegradation, 0, len(stints))
	for _, s := range stints {
		d := schema.StintDegradation{Stint: s, Direction: schema.TrendInsufficientData}
		if trend, err := FitTrend(s.LapTimes, epsilon); err == nil {
			d.RatePerLap = trend.Slope
			d.Direction = trend.Direction
			xs := make([]float64, len(s.LapTimes))
			for i := range xs {
				xs[i] = float64(i)
			}
			d.Correlation = pearson(xs, s.LapTimes)
			d.CliffLap = detectCliff(s.LapTimes)
		}
		out = append(out, d)
	}
	return out
}

// detectCliff returns the 1-based stint lap where the lap-time delta first
// exceeds mean+2*stddev of all deltas, or 0 when no cliff shows. Marks the
// point where tire performance stops degrading gradually and falls away.
func detectCliff(lapTimes []float64) int {
	if len(lapTimes) < 4 {
		return 0
	}
	deltas := make([]float64, len(lapTimes)-1)
	for i := 1; i < len(lapTimes); i++ {
		deltas[i-1] = lapTimes[i] - lapTimes[i-1]
	}
	threshold := mean(deltas) + 2*stddev(deltas)
	for i, d := range deltas {
		if d > threshold && d > 0 {
			return i + 2 // Delta i is between stint laps i+1 and i+2
		}
	}
	return 0
}

// AnalyzeAdaptation splits a session's timed laps into three equal phases and
// compares phase averages to classify the driver's learning curve. Sessions
// with fewer than three timed laps per phase boundary (nine total) still
// classify as long as each phase holds at least one lap; below three laps the
// result is the insufficient-data curve.
func AnalyzeAdaptation(lapTimes []float64) schema.AdaptationStats {
	stats := schema.AdaptationStats{Curve: schema.CurveInsufficientData}
	n := len(lapTimes)
	if n < MinTrendPoints {
		return stats
	}

	third := n / 3
	bounds := [4]int{0, third, 2 * third, n}
	for p := 0; p < 3; p++ {
		phase := lapTimes[bounds[p]:bounds[p+1]]
		if len(phase) == 0 {
			return stats
		}
		stats.Phases[p] = schema.PhaseStats{
			AverageLap: mean(phase),
			BestLap:    minOf(phase),
			StdDev:     stddev(phase),
			Laps:       len(phase),
		}
	}

	early := stats.Phases[0].AverageLap
	late := stats.Phases[2].AverageLap

	// Positive adaptation when lap times came down over the session; 50 is
	// neutral, a second of improvement is worth ten points.
	stats.Score = clampScore(50 + (early-late)*10)
	stats.Curve = classifyCurve(stats.Phases)
	return stats
}

// classifyCurve labels the phase-average shape of a session.
func classifyCurve(phases [3]schema.PhaseStats) schema.LearningCurve {
	e, m, l := phases[0].AverageLap, phases[1].AverageLap, phases[2].AverageLap
	switch {
	case e > m && m > l:
		return schema.CurveConsistentImprovement
	case e < m && m < l:
		return schema.CurveConsistentDecline
	case m < e && m < l:
		return schema.CurveMidSessionPeak
	default:
		return schema.CurveVariable
	}
}

func minOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
