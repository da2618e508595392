package schema

// Custom string types for type safety.
type (
	// SignalChannel names a telemetry channel the segmenter can monitor.
	SignalChannel string

	// Dimension represents one scored performance dimension.
	Dimension string

	// TrendDirection classifies a fitted slope.
	TrendDirection string

	// LearningCurve classifies phase-to-phase pace evolution.
	LearningCurve string

	// Rating is the ordered qualitative band shared by every scorer.
	Rating string

	// Tier is a percentile-based performance bucket assigned after ranking.
	Tier string

	// OutlierKind distinguishes fast and slow outliers.
	OutlierKind string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for run tracking.
	DatabaseBackend string
)

// Telemetry channels the segmenter understands.
const (
	BrakeChannel    SignalChannel = "brake"
	ThrottleChannel SignalChannel = "throttle"
	// CornerChannel is a derived channel: inverted speed, so that low-speed
	// ranges segment like high-magnitude ranges on the pedal channels.
	CornerChannel SignalChannel = "corner"
)

// Scored performance dimensions.
const (
	PaceDimension        Dimension = "pace"
	ConsistencyDimension Dimension = "consistency"
	TechnicalDimension   Dimension = "technical"
	AdaptationDimension  Dimension = "adaptation"
)

// AllDimensions lists the scored dimensions in weight order.
var AllDimensions = []Dimension{PaceDimension, ConsistencyDimension, TechnicalDimension, AdaptationDimension}

// Trend classifications.
const (
	TrendImproving        TrendDirection = "improving"
	TrendDeclining        TrendDirection = "declining"
	TrendStable           TrendDirection = "stable"
	TrendInsufficientData TrendDirection = "insufficient_data"
)

// Learning-curve classifications for the phase analysis.
const (
	CurveConsistentImprovement LearningCurve = "consistent_improvement"
	CurveConsistentDecline     LearningCurve = "consistent_decline"
	CurveMidSessionPeak        LearningCurve = "mid_session_peak"
	CurveVariable              LearningCurve = "variable"
	CurveInsufficientData      LearningCurve = "insufficient_data"
)

// Ordered rating bands, best first.
const (
	RatingExcellent        Rating = "excellent"
	RatingGood             Rating = "good"
	RatingAverage          Rating = "average"
	RatingNeedsImprovement Rating = "needs_improvement"
)

// AllRatings lists the rating bands best-first.
var AllRatings = []Rating{RatingExcellent, RatingGood, RatingAverage, RatingNeedsImprovement}

// Midpoint returns the numeric 0-100 score associated with a rating band.
// Every dimension converts a band to a score through this single mapping so
// the semantics stay identical across scorers.
func (r Rating) Midpoint() float64 {
	switch r {
	case RatingExcellent:
		return 95
	case RatingGood:
		return 75
	case RatingAverage:
		return 65
	default: // RatingNeedsImprovement
		return 45
	}
}

// Performance tiers, best first.
const (
	TierElite      Tier = "elite"
	TierExcellent  Tier = "excellent"
	TierGood       Tier = "good"
	TierAverage    Tier = "average"
	TierDeveloping Tier = "developing"
)

// Outlier kinds.
const (
	FastOutlier OutlierKind = "fast"
	SlowOutlier OutlierKind = "slow"
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	CSVOut     OutputMode = "csv"
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All run-tracking backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	CSVOut:     {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidBackends lists all valid run-tracking backends.
var ValidBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// GetDefaultWeights returns the default composite weight map. The weights sum
// to 1.0; callers may override any subset through configuration as long as the
// overridden map still sums to ~1.0.
func GetDefaultWeights() map[Dimension]float64 {
	return map[Dimension]float64{
		PaceDimension:        0.30,
		ConsistencyDimension: 0.25,
		TechnicalDimension:   0.25,
		AdaptationDimension:  0.20,
	}
}

// TierCutoff pairs a tier with its cumulative field fraction. Cutoffs scale
// with field size so a 5-car and a 20-car field tier identically.
type TierCutoff struct {
	Tier     Tier
	Fraction float64 // Cumulative fraction of the field, top-down
}

// GetDefaultTierCutoffs returns the default percentile tier cutoffs:
// top 10% elite, next 15% excellent, next 25% good, next 25% average,
// remainder developing.
func GetDefaultTierCutoffs() []TierCutoff {
	return []TierCutoff{
		{TierElite, 0.10},
		{TierExcellent, 0.25},
		{TierGood, 0.50},
		{TierAverage, 0.75},
		{TierDeveloping, 1.00},
	}
}

// RatingBands holds the upper CV edge per band, best band first. A CV below
// Edges[i] falls into band i; anything above the last edge is the worst band.
// Band edges are configuration, not constants: lap-time, sector-time and
// brake-magnitude series use different sensitivities.
type RatingBands struct {
	Edges [3]float64 // excellent < Edges[0] <= good < Edges[1] <= average < Edges[2]
}

// Classify maps a coefficient of variation to its rating band.
func (b RatingBands) Classify(cv float64) Rating {
	switch {
	case cv < b.Edges[0]:
		return RatingExcellent
	case cv < b.Edges[1]:
		return RatingGood
	case cv < b.Edges[2]:
		return RatingAverage
	default:
		return RatingNeedsImprovement
	}
}

// GetDefaultLapTimeBands returns the default CV band edges for lap-time
// series. The magnitudes come from observed race traces and should be treated
// as tunable defaults rather than physical constants.
func GetDefaultLapTimeBands() RatingBands {
	return RatingBands{Edges: [3]float64{0.01, 0.02, 0.04}}
}
