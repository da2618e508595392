package schema

// LapZoneReport groups the zones extracted from one lap's telemetry.
type LapZoneReport struct {
	LapNumber int           `json:"lap"`
	Zones     []ZoneMetrics `json:"zones"`
}

// DriverZoneReport is the zones view for one driver: per-lap zone metrics for
// a single monitored channel.
type DriverZoneReport struct {
	Driver  string          `json:"driver_id"`
	Channel SignalChannel   `json:"channel"`
	Laps    []LapZoneReport `json:"laps"`
}

// TotalZones returns the zone count across all reported laps.
func (r *DriverZoneReport) TotalZones() int {
	total := 0
	for _, lap := range r.Laps {
		total += len(lap.Zones)
	}
	return total
}

// DriverDegradationReport is the degradation view for one driver: fitted
// trends per stint.
type DriverDegradationReport struct {
	Driver string             `json:"driver_id"`
	Stints []StintDegradation `json:"stints"`
}

// DriverConsistencyReport is the consistency view for one driver.
type DriverConsistencyReport struct {
	Driver    string           `json:"driver_id"`
	ValidLaps int              `json:"valid_laps"`
	Stats     ConsistencyStats `json:"stats"`
}

// DimensionInfo describes one scored dimension for the metrics command.
type DimensionInfo struct {
	Name    string   `json:"name"`
	Purpose string   `json:"purpose"`
	Inputs  []string `json:"inputs"`
}

// DimensionInfoWithData pairs a dimension description with its active weight.
type DimensionInfoWithData struct {
	DimensionInfo
	Weight float64 `json:"weight"`
}

// MetricsRenderModel is the full render model for the metrics command.
type MetricsRenderModel struct {
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Dimensions  []DimensionInfoWithData `json:"dimensions"`
	Formula     string                  `json:"formula"`
	BandEdges   [3]float64              `json:"band_edges"`
	TierCutoffs []TierCutoff            `json:"tier_cutoffs"`
}
