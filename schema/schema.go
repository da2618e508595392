// Package schema has the data model, typed constants and default weights for
// all parts of stintlab.
package schema

import (
	"encoding/json"
	"math"
)

// TelemetrySample is one time-stamped car state reading within a lap.
// Samples are ordered by time and Distance is monotonically non-decreasing
// within a lap. All values use fixed units: seconds, meters, km/h and 0-100
// percentages.
type TelemetrySample struct {
	Time     float64 // Seconds since the start of the lap
	Distance float64 // Meters from the start line
	Speed    float64 // km/h
	Throttle float64 // Pedal application, 0-100
	Brake    float64 // Brake pressure, 0-100
	Gear     int     // Selected gear
	RPM      float64 // Engine revolutions per minute
}

// Lap couples one driver's timing record with its telemetry trace.
// A lap without a lap time is invalid for scoring but is still usable for
// telemetry-only analysis.
type Lap struct {
	Driver   string  // Driver identifier (e.g. "VER")
	Number   int     // Lap number within the session, 1-based
	LapTime  float64 // Lap time in seconds; 0 means no time was set
	Sector1  float64 // Sector 1 time in seconds; 0 means missing
	Sector2  float64 // Sector 2 time in seconds; 0 means missing
	Sector3  float64 // Sector 3 time in seconds; 0 means missing
	Compound string  // Tire compound name (e.g. "SOFT"); empty means unknown
	TyreLife int     // Laps already run on the fitted set
	Position int     // Track position at the end of the lap; 0 means unknown

	Samples []TelemetrySample // Time-ordered telemetry; may be empty
}

// HasTime reports whether the lap set a valid lap time.
func (l *Lap) HasTime() bool {
	return l.LapTime > 0
}

// Zone is a contiguous sub-range of a lap's samples where a monitored channel
// stayed above its activation threshold. Zones are derived per analysis pass
// and never outlive the lap that produced them.
type Zone struct {
	Channel    SignalChannel // Channel that triggered the zone
	StartIndex int           // Index of the first sample in the zone
	EndIndex   int           // Index of the last sample in the zone (inclusive)
	StartDist  float64       // Distance of the first sample, meters
	EndDist    float64       // Distance of the last sample, meters
	Peak       float64       // Maximum channel value inside the zone
	Average    float64       // Mean channel value inside the zone
	Samples    int           // Number of samples spanned
}

// ZoneMetrics extends a Zone with derived event metrics. BuildupRate is
// math.Inf(1) when the peak lands on the zone's first sample; callers must
// treat that as instantaneous application, not an error.
type ZoneMetrics struct {
	Zone
	BuildupRate    float64 // Peak magnitude divided by samples-to-peak
	SpeedReduction float64 // Entry speed minus exit speed, km/h (braking zones)
	BrakingDist    float64 // Distance covered inside the zone, meters (braking zones)
	Efficiency     float64 // Speed reduction per unit of applied brake work
}

// InstantBuildup reports whether the peak was reached on the first sample.
func (m *ZoneMetrics) InstantBuildup() bool {
	return math.IsInf(m.BuildupRate, 1)
}

// MarshalJSON emits BuildupRate as the string "instant" for instantaneous
// application, since JSON has no representation for +Inf.
func (m ZoneMetrics) MarshalJSON() ([]byte, error) {
	type plain ZoneMetrics
	row := struct {
		plain
		BuildupRate any
	}{plain(m), m.BuildupRate}
	if m.InstantBuildup() {
		row.BuildupRate = "instant"
	}
	return json.Marshal(row)
}

// Stint is a maximal run of consecutive laps by one driver on one tire
// compound. Derived from the lap table, never stored.
type Stint struct {
	Driver   string
	Compound string
	StartLap int       // First lap number of the stint
	EndLap   int       // Last lap number of the stint
	LapTimes []float64 // Valid lap times in stint order, seconds
}

// Laps returns the number of timed laps in the stint.
func (s *Stint) Laps() int {
	return len(s.LapTimes)
}

// TrendResult is the output of a first-order linear fit across an ordered
// scalar series.
type TrendResult struct {
	Slope     float64        // Fitted slope per index step
	Direction TrendDirection // Classification of the slope against epsilon
	Strength  float64        // Absolute slope
	RSquared  float64        // Goodness of fit, [0,1]
	Points    int            // Number of points used in the fit
}

// StintDegradation reports tire degradation fitted within a single stint.
// RatePerLap is 0 and Direction is InsufficientData for stints shorter than
// three timed laps.
type StintDegradation struct {
	Stint
	RatePerLap  float64        // Fitted slope in seconds per lap
	Direction   TrendDirection // Trend classification of the stint
	Correlation float64        // Pearson correlation of lap time vs. lap index
	CliffLap    int            // Stint-relative lap where performance fell off; 0 = none
}

// Outlier marks one value flagged by the 1.5*IQR rule.
type Outlier struct {
	Index     int         // Position in the input series
	Value     float64     // The flagged value
	Kind      OutlierKind // Fast (below lower fence) or slow (above upper fence)
	Deviation float64     // Absolute distance from the series median
}

// ConsistencyStats is the dispersion profile of one scalar series.
type ConsistencyStats struct {
	CV           float64   // Coefficient of variation (stddev / mean)
	RollingCV    []float64 // CV per rolling window
	RollingAvg   float64   // Mean of RollingCV
	RollingBest  float64   // Minimum of RollingCV (steadiest window)
	RollingWorst float64   // Maximum of RollingCV
	Outliers     []Outlier
	Rating       Rating  // Band the CV falls into
	Stability    float64 // 1 / (1 + variance of rolling stddevs), [0,1]
}

// SectorStats summarizes one sector's times across a driver's laps.
type SectorStats struct {
	Best    float64 // Fastest sector time, seconds
	Average float64 // Mean sector time, seconds
	StdDev  float64 // Population standard deviation, seconds
	Count   int     // Number of laps with this sector recorded
}

// PaceStats is the basic pace profile of one driver in one session.
type PaceStats struct {
	FastestLap     float64        // Seconds
	AverageLap     float64        // Seconds
	LapTimeRange   float64        // Slowest minus fastest, seconds
	ValidLaps      int            // Laps with a set time
	Sectors        [3]SectorStats // Indexed sector 1..3 at 0..2
	SectorBalance  float64        // 1 - CV of mean sector times, [0,1]
	TheoreticalGap float64        // Best lap minus sum of best sectors, seconds
}

// PhaseStats summarizes one third of a session.
type PhaseStats struct {
	AverageLap float64
	BestLap    float64
	StdDev     float64
	Laps       int
}

// AdaptationStats describes how a driver's pace evolved across the early,
// middle and late phases of a session.
type AdaptationStats struct {
	Phases [3]PhaseStats // Early, middle, late
	Score  float64       // 0-100; 50 is neutral
	Curve  LearningCurve
}

// TechnicalStats aggregates zone-derived braking metrics across a driver's
// laps.
type TechnicalStats struct {
	LapsAnalyzed     int     // Laps that contributed telemetry
	ZonesPerLap      float64 // Mean braking zones per analyzed lap
	PeakBrake        float64 // Session maximum brake magnitude, 0-100
	AvgBrake         float64 // Mean of per-zone averages, 0-100
	BrakeConsistency float64 // Zone repeatability, [0,1]
	Efficiency       float64 // Mean braking efficiency across laps
	EfficiencyTrend  TrendDirection
	HeavyEvents      int // Samples with brake > 80
	ModerateEvents   int // Samples with brake in (30, 80]
	LightEvents      int // Samples with brake in (0, 30]
}

// PositionStats describes track-position movement across a session. It feeds
// the standings detail view and diagnostics, not the composite score.
type PositionStats struct {
	Gain       float64 // Start position minus end position; positive = places gained
	Average    float64
	Best       float64
	Worst      float64
	Volatility float64 // Mean absolute lap-to-lap position change
}

// Diagnostic explains why a sub-score was degraded or omitted for a driver.
type Diagnostic struct {
	Dimension Dimension `json:"dimension"`
	Reason    string    `json:"reason"`
}

// DriverResult is the aggregated output for one driver across one session:
// raw stat blocks, per-dimension sub-scores, and the composite placement.
// Nil stat blocks mean the dimension had no usable data.
type DriverResult struct {
	Driver string `json:"driver_id"`

	Pace        *PaceStats         `json:"pace_stats,omitempty"`
	Consistency *ConsistencyStats  `json:"consistency_stats,omitempty"`
	Technical   *TechnicalStats    `json:"technical_stats,omitempty"`
	Adaptation  *AdaptationStats   `json:"adaptation_stats,omitempty"`
	Position    *PositionStats     `json:"position_stats,omitempty"`
	Degradation []StintDegradation `json:"degradation,omitempty"`

	// SubScores holds the 0-100 score per dimension; a missing key means the
	// dimension had no valid value and was excluded from the composite.
	SubScores map[Dimension]float64 `json:"sub_scores"`

	Composite    float64 `json:"composite_score"`
	HasComposite bool    `json:"-"`
	Rank         int     `json:"rank"`
	Tier         Tier    `json:"tier"`

	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// AddDiagnostic records why a dimension was degraded or omitted.
func (r *DriverResult) AddDiagnostic(dim Dimension, reason string) {
	r.Diagnostics = append(r.Diagnostics, Diagnostic{Dimension: dim, Reason: reason})
}

// FieldStats summarizes the distribution of composite scores across the
// analyzed field.
type FieldStats struct {
	Mean            float64 `json:"mean"`
	Median          float64 `json:"median"`
	StdDev          float64 `json:"std_dev"`
	Min             float64 `json:"min"`
	Max             float64 `json:"max"`
	Spread          float64 `json:"spread"`
	Competitiveness float64 `json:"competitiveness"` // max(0, 1-CV) * 100
}

// DriverOmission records a driver excluded from the ranking entirely.
type DriverOmission struct {
	Driver string `json:"driver_id"`
	Reason string `json:"reason"`
}

// SessionAnalysis is the full result of one analysis request. Standings is
// ordered by rank; drivers without a single valid sub-score appear in Omitted
// instead of being assigned a default score.
type SessionAnalysis struct {
	Standings []DriverResult   `json:"standings"`
	Omitted   []DriverOmission `json:"omitted,omitempty"`
	Field     FieldStats       `json:"field"`
}
