package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/apexmetrics/stintlab/internal/contract"
	"github.com/apexmetrics/stintlab/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintStandings outputs the ranked standings, dispatching based on the output format configured.
func PrintStandings(analysis *schema.SessionAnalysis, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := printStandingsJSON(analysis, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printStandingsCSV(analysis, cfg, fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeStandingsTable(analysis, cfg, fmtFloat, intFmt, duration, w)
		}, "Wrote table")
	}
	return nil
}

// limitStandings applies the configured result limit to the ranked slice.
func limitStandings(standings []schema.DriverResult, limit int) []schema.DriverResult {
	if limit > 0 && len(standings) > limit {
		return standings[:limit]
	}
	return standings
}

// subScoreCell formats one dimension's sub-score, or "-" when the dimension
// was excluded from the composite.
func subScoreCell(r *schema.DriverResult, dim schema.Dimension, fmtFloat func(float64) string) string {
	if score, ok := r.SubScores[dim]; ok {
		return fmtFloat(score)
	}
	return "-"
}

// tierCell picks the colored or plain tier label depending on configuration.
func tierCell(tier schema.Tier, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorTierLabel(tier)
	}
	return contract.GetPlainTierLabel(tier)
}

// writeStandingsTable generates and writes the human-readable standings table.
func writeStandingsTable(analysis *schema.SessionAnalysis, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	// 1. Define Headers
	headers := []string{"Rank", "Driver", "Composite", "Tier", "Pace", "Cons", "Tech", "Adapt"}
	if cfg.Detail {
		headers = append(headers, "Fastest", "Average", "CV", "Laps", "Curve")
	}
	table.Header(headers)

	// 2. Configure Separators/Borders to match a minimal look
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	standings := limitStandings(analysis.Standings, cfg.ResultLimit)
	var data [][]string
	for _, r := range standings {
		row := []string{
			strconv.Itoa(r.Rank),
			r.Driver,
			fmtFloat(r.Composite),
			tierCell(r.Tier, cfg),
			subScoreCell(&r, schema.PaceDimension, fmtFloat),
			subScoreCell(&r, schema.ConsistencyDimension, fmtFloat),
			subScoreCell(&r, schema.TechnicalDimension, fmtFloat),
			subScoreCell(&r, schema.AdaptationDimension, fmtFloat),
		}
		if cfg.Detail {
			fastest, average, cv, laps, curve := "-", "-", "-", "0", "-"
			if r.Pace != nil {
				fastest = fmtFloat(r.Pace.FastestLap)
				average = fmtFloat(r.Pace.AverageLap)
				laps = fmt.Sprintf(intFmt, r.Pace.ValidLaps)
			}
			if r.Consistency != nil {
				cv = fmt.Sprintf("%.4f", r.Consistency.CV)
			}
			if r.Adaptation != nil {
				curve = contract.TruncateText(string(r.Adaptation.Curve), GetMaxTableNoteWidth(cfg))
			}
			row = append(row, fastest, average, cv, laps, curve)
		}
		data = append(data, row)
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	// Field summary below the table
	f := analysis.Field
	if _, err := fmt.Fprintf(writer, "Field: mean %s | median %s | spread %s | competitiveness %s\n",
		fmtFloat(f.Mean), fmtFloat(f.Median), fmtFloat(f.Spread), fmtFloat(f.Competitiveness)); err != nil {
		return err
	}
	for _, o := range analysis.Omitted {
		if _, err := fmt.Fprintf(writer, "Omitted %s: %s\n", o.Driver, o.Reason); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(writer, "Analysis completed in %v with %d workers. Store backend: %s\n", duration, cfg.Workers, cfg.StoreBackend); err != nil {
		return err
	}
	return nil
}

// printStandingsCSV handles opening the file and calling the CSV writer.
func printStandingsCSV(analysis *schema.SessionAnalysis, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeStandingsCSVRows(csvWriter, limitStandings(analysis.Standings, cfg.ResultLimit), fmtFloat, intFmt)
	}, "Wrote CSV")
}

// writeStandingsCSVRows writes the standings in CSV format.
func writeStandingsCSVRows(w *csv.Writer, standings []schema.DriverResult, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"rank",
		"driver",
		"composite",
		"tier",
		"pace_score",
		"consistency_score",
		"technical_score",
		"adaptation_score",
		"fastest_lap",
		"average_lap",
		"lap_time_cv",
		"valid_laps",
		"learning_curve",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range standings {
		fastest, average, cv, laps, curve := "", "", "", "0", ""
		if r.Pace != nil {
			fastest = fmtFloat(r.Pace.FastestLap)
			average = fmtFloat(r.Pace.AverageLap)
			laps = fmt.Sprintf(intFmt, r.Pace.ValidLaps)
		}
		if r.Consistency != nil {
			cv = fmt.Sprintf("%.6f", r.Consistency.CV)
		}
		if r.Adaptation != nil {
			curve = string(r.Adaptation.Curve)
		}
		rec := []string{
			strconv.Itoa(r.Rank),
			r.Driver,
			fmtFloat(r.Composite),
			contract.GetPlainTierLabel(r.Tier),
			subScoreCell(&r, schema.PaceDimension, fmtFloat),
			subScoreCell(&r, schema.ConsistencyDimension, fmtFloat),
			subScoreCell(&r, schema.TechnicalDimension, fmtFloat),
			subScoreCell(&r, schema.AdaptationDimension, fmtFloat),
			fastest,
			average,
			cv,
			laps,
			curve,
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// printStandingsJSON handles opening the file and calling the JSON writer.
func printStandingsJSON(analysis *schema.SessionAnalysis, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		limited := schema.SessionAnalysis{
			Standings: limitStandings(analysis.Standings, cfg.ResultLimit),
			Omitted:   analysis.Omitted,
			Field:     analysis.Field,
		}
		return writeJSON(w, limited)
	}, "Wrote JSON")
}
