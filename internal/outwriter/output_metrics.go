package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/apexmetrics/stintlab/internal/contract"
	"github.com/apexmetrics/stintlab/schema"
)

// getDisplayNameForDimension returns the display name with emoji for a given dimension.
func getDisplayNameForDimension(dim schema.Dimension) string {
	switch dim {
	case schema.PaceDimension:
		return "🚀 PACE"
	case schema.ConsistencyDimension:
		return "🎯 CONSISTENCY"
	case schema.TechnicalDimension:
		return "🔧 TECHNICAL"
	case schema.AdaptationDimension:
		return "📈 ADAPTATION"
	default:
		return strings.ToUpper(string(dim))
	}
}

// getDisplayWeights returns the weights to display, overriding the defaults
// with active weights where provided.
func getDisplayWeights(activeWeights map[schema.Dimension]float64) map[schema.Dimension]float64 {
	weights := schema.GetDefaultWeights()
	for dim, w := range activeWeights {
		weights[dim] = w
	}
	return weights
}

// formatWeightFormula formats the composite formula from the active weights.
func formatWeightFormula(weights map[schema.Dimension]float64) string {
	var parts []string
	for _, dim := range schema.AllDimensions {
		if w, ok := weights[dim]; ok && w > 0 {
			parts = append(parts, fmt.Sprintf("%.2f*%s", w, string(dim)))
		}
	}
	return strings.Join(parts, "+")
}

// PrintMetricsDefinitions displays the formal definitions of all scoring dimensions.
// This is a static display that does not require session data.
func PrintMetricsDefinitions(activeWeights map[schema.Dimension]float64, cfg *contract.Config) error {
	renderModel := buildMetricsRenderModel(activeWeights, cfg)

	switch cfg.Output {
	case schema.JSONOut:
		return printMetricsJSON(renderModel, cfg)
	case schema.CSVOut:
		return printMetricsCSV(renderModel, cfg)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return printMetricsText(w, renderModel)
		}, "Wrote text")
	}
}

// buildMetricsRenderModel constructs the complete render model with all processed data.
func buildMetricsRenderModel(activeWeights map[schema.Dimension]float64, cfg *contract.Config) *schema.MetricsRenderModel {
	dims := []schema.DimensionInfo{
		{
			Name:    string(schema.PaceDimension),
			Purpose: "Raw speed - fastest lap relative to the field best",
			Inputs:  []string{"FastestLap", "FieldBest", "SectorBests"},
		},
		{
			Name:    string(schema.ConsistencyDimension),
			Purpose: "Repeatability - lap time dispersion and outliers",
			Inputs:  []string{"LapTimeCV", "RollingCV", "Outliers", "Stability"},
		},
		{
			Name:    string(schema.TechnicalDimension),
			Purpose: "Car control - braking zone repeatability and efficiency",
			Inputs:  []string{"ZonePeaks", "ZoneDurations", "SpeedReduction", "BrakingDistance"},
		},
		{
			Name:    string(schema.AdaptationDimension),
			Purpose: "Session evolution - pace change from early to late phase",
			Inputs:  []string{"PhaseAverages", "LearningCurve"},
		},
	}

	weights := getDisplayWeights(activeWeights)
	withData := make([]schema.DimensionInfoWithData, len(dims))
	for i, d := range dims {
		withData[i] = schema.DimensionInfoWithData{
			DimensionInfo: d,
			Weight:        weights[schema.Dimension(d.Name)],
		}
	}

	return &schema.MetricsRenderModel{
		Title:       "Stintlab Scoring Dimensions",
		Description: "Composite = weighted sum of available 0-100 sub-scores, renormalized over present dimensions",
		Dimensions:  withData,
		Formula:     formatWeightFormula(weights),
		BandEdges:   cfg.LapTimeBands.Edges,
		TierCutoffs: cfg.TierCutoffs,
	}
}

// printMetricsText displays metrics in human-readable text format.
func printMetricsText(w io.Writer, renderModel *schema.MetricsRenderModel) error {
	if _, err := fmt.Fprintf(w, "🏁 %s\n", renderModel.Title); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "===========================\n\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s\n\n", renderModel.Description); err != nil {
		return err
	}

	for _, dim := range renderModel.Dimensions {
		displayName := getDisplayNameForDimension(schema.Dimension(dim.Name))
		if _, err := fmt.Fprintf(w, "%s (weight %.2f): %s\n", displayName, dim.Weight, dim.Purpose); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "   Inputs: %s\n\n", strings.Join(dim.Inputs, ", ")); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "Composite = %s\n", renderModel.Formula); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Lap-time CV bands: excellent < %g <= good < %g <= average < %g\n",
		renderModel.BandEdges[0], renderModel.BandEdges[1], renderModel.BandEdges[2]); err != nil {
		return err
	}
	for _, c := range renderModel.TierCutoffs {
		if _, err := fmt.Fprintf(w, "Tier %s: top %.0f%% of the field\n", contract.GetPlainTierLabel(c.Tier), c.Fraction*100); err != nil {
			return err
		}
	}
	return nil
}

// printMetricsJSON displays metrics in JSON format.
func printMetricsJSON(renderModel *schema.MetricsRenderModel, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, renderModel)
	}, "Wrote JSON")
}

// printMetricsCSV displays metrics in CSV format.
func printMetricsCSV(renderModel *schema.MetricsRenderModel, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		writer := csv.NewWriter(w)
		defer writer.Flush()
		return writeCSVMetrics(writer, renderModel)
	}, "Wrote CSV")
}

// writeCSVMetrics writes the metrics definitions in CSV format.
func writeCSVMetrics(w *csv.Writer, renderModel *schema.MetricsRenderModel) error {
	header := []string{"Dimension", "Weight", "Purpose", "Inputs"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, dim := range renderModel.Dimensions {
		record := []string{
			dim.Name,
			fmt.Sprintf("%.2f", dim.Weight),
			dim.Purpose,
			strings.Join(dim.Inputs, "|"),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	return nil
}
