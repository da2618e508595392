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

// PrintDegradationReports outputs per-stint degradation trends, dispatching based on the output format configured.
func PrintDegradationReports(reports []schema.DriverDegradationReport, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := printDegradationJSON(reports, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printDegradationCSV(reports, cfg, fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeDegradationTable(reports, cfg, fmtFloat, intFmt, duration, w)
		}, "Wrote table")
	}
	return nil
}

// cliffCell formats the cliff lap, or "-" when no cliff was detected.
func cliffCell(cliffLap int) string {
	if cliffLap == 0 {
		return "-"
	}
	return strconv.Itoa(cliffLap)
}

// writeDegradationTable generates and writes the human-readable degradation table.
func writeDegradationTable(reports []schema.DriverDegradationReport, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	headers := []string{"Driver", "Compound", "Laps", "Rate", "Direction", "Cliff"}
	if cfg.Detail {
		headers = append(headers, "Corr", "Start", "End")
	}
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	totalStints := 0
	for _, r := range reports {
		for _, s := range r.Stints {
			totalStints++
			row := []string{
				r.Driver,
				s.Compound,
				fmt.Sprintf(intFmt, s.Laps()),
				fmt.Sprintf("%+.3f", s.RatePerLap),
				string(s.Direction),
				cliffCell(s.CliffLap),
			}
			if cfg.Detail {
				row = append(row,
					fmtFloat(s.Correlation),
					strconv.Itoa(s.StartLap),
					strconv.Itoa(s.EndLap),
				)
			}
			data = append(data, row)
		}
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "Showing %d stints across %d drivers\n", totalStints, len(reports)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Degradation analysis completed in %v with %d workers\n", duration, cfg.Workers); err != nil {
		return err
	}
	return nil
}

// printDegradationCSV handles opening the file and calling the CSV writer.
func printDegradationCSV(reports []schema.DriverDegradationReport, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"driver",
		"compound",
		"start_lap",
		"end_lap",
		"timed_laps",
		"rate_per_lap",
		"direction",
		"correlation",
		"cliff_lap",
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			for _, r := range reports {
				for _, s := range r.Stints {
					rec := []string{
						r.Driver,
						s.Compound,
						strconv.Itoa(s.StartLap),
						strconv.Itoa(s.EndLap),
						fmt.Sprintf(intFmt, s.Laps()),
						fmt.Sprintf("%.6f", s.RatePerLap),
						string(s.Direction),
						fmtFloat(s.Correlation),
						strconv.Itoa(s.CliffLap),
					}
					if err := csvWriter.Write(rec); err != nil {
						return err
					}
				}
			}
			return nil
		})
	}, "Wrote CSV")
}

// printDegradationJSON handles opening the file and calling the JSON writer.
func printDegradationJSON(reports []schema.DriverDegradationReport, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, reports)
	}, "Wrote JSON")
}
