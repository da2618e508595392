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

// PrintZoneReports outputs per-lap zone analysis, dispatching based on the output format configured.
func PrintZoneReports(reports []schema.DriverZoneReport, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := printZonesJSON(reports, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printZonesCSV(reports, cfg, fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeZonesTable(reports, cfg, fmtFloat, intFmt, duration, w)
		}, "Wrote table")
	}
	return nil
}

// buildupCell formats a zone's buildup rate, marking instantaneous
// application instead of printing +Inf.
func buildupCell(m *schema.ZoneMetrics, fmtFloat func(float64) string) string {
	if m.InstantBuildup() {
		return "instant"
	}
	return fmtFloat(m.BuildupRate)
}

// writeZonesTable generates and writes the human-readable zones table.
func writeZonesTable(reports []schema.DriverZoneReport, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	headers := []string{"Driver", "Lap", "Zone", "Start", "End", "Peak", "Avg", "Samples", "Buildup"}
	if cfg.Detail {
		headers = append(headers, "SpeedRed", "Dist", "Eff")
	}
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, r := range reports {
		for _, lap := range r.Laps {
			for i, z := range lap.Zones {
				row := []string{
					r.Driver,
					strconv.Itoa(lap.LapNumber),
					strconv.Itoa(i + 1),
					fmtFloat(z.StartDist),
					fmtFloat(z.EndDist),
					fmtFloat(z.Peak),
					fmtFloat(z.Average),
					fmt.Sprintf(intFmt, z.Samples),
					buildupCell(&z, fmtFloat),
				}
				if cfg.Detail {
					row = append(row,
						fmtFloat(z.SpeedReduction),
						fmtFloat(z.BrakingDist),
						fmtFloat(z.Efficiency),
					)
				}
				data = append(data, row)
			}
		}
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	totalZones := 0
	for _, r := range reports {
		totalZones += r.TotalZones()
	}
	if _, err := fmt.Fprintf(writer, "Showing %d zones across %d drivers\n", totalZones, len(reports)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Zone analysis completed in %v with %d workers\n", duration, cfg.Workers); err != nil {
		return err
	}
	return nil
}

// printZonesCSV handles opening the file and calling the CSV writer.
func printZonesCSV(reports []schema.DriverZoneReport, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"driver",
		"channel",
		"lap",
		"zone",
		"start_dist",
		"end_dist",
		"peak",
		"average",
		"samples",
		"buildup_rate",
		"speed_reduction",
		"braking_dist",
		"efficiency",
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			for _, r := range reports {
				for _, lap := range r.Laps {
					for i, z := range lap.Zones {
						rec := []string{
							r.Driver,
							string(r.Channel),
							strconv.Itoa(lap.LapNumber),
							strconv.Itoa(i + 1),
							fmtFloat(z.StartDist),
							fmtFloat(z.EndDist),
							fmtFloat(z.Peak),
							fmtFloat(z.Average),
							fmt.Sprintf(intFmt, z.Samples),
							buildupCell(&z, fmtFloat),
							fmtFloat(z.SpeedReduction),
							fmtFloat(z.BrakingDist),
							fmtFloat(z.Efficiency),
						}
						if err := csvWriter.Write(rec); err != nil {
							return err
						}
					}
				}
			}
			return nil
		})
	}, "Wrote CSV")
}

// printZonesJSON handles opening the file and calling the JSON writer.
func printZonesJSON(reports []schema.DriverZoneReport, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, reports)
	}, "Wrote JSON")
}
