package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/apexmetrics/stintlab/internal/contract"
	"github.com/apexmetrics/stintlab/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintRunRecords outputs stored analysis runs, dispatching based on the output format configured.
func PrintRunRecords(runs []schema.RunRecord, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, runs)
		}, "Wrote JSON")
	case schema.CSVOut:
		return printRunsCSV(runs, cfg)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRunsTable(runs, w)
		}, "Wrote table")
	}
}

// durationCell formats a run duration, or "-" while the run is still open.
func durationCell(durationMs *int32) string {
	if durationMs == nil {
		return "-"
	}
	return fmt.Sprintf("%dms", *durationMs)
}

// writeRunsTable generates and writes the human-readable runs table.
func writeRunsTable(runs []schema.RunRecord, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Run", "Started", "Duration", "Drivers"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, run := range runs {
		data = append(data, []string{
			strconv.FormatInt(run.RunID, 10),
			run.StartTime.Format(contract.DateTimeFormat),
			durationCell(run.DurationMs),
			strconv.Itoa(int(run.TotalDrivers)),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(writer, "Showing %d stored runs\n", len(runs))
	return err
}

// printRunsCSV handles opening the file and calling the CSV writer.
func printRunsCSV(runs []schema.RunRecord, cfg *contract.Config) error {
	header := []string{"run_id", "start_time", "end_time", "duration_ms", "total_drivers", "config_params"}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			for _, run := range runs {
				endTime := ""
				if run.EndTime != nil {
					endTime = run.EndTime.Format(contract.DateTimeFormat)
				}
				durationMs := ""
				if run.DurationMs != nil {
					durationMs = strconv.Itoa(int(*run.DurationMs))
				}
				configParams := ""
				if run.ConfigParams != nil {
					configParams = *run.ConfigParams
				}
				rec := []string{
					strconv.FormatInt(run.RunID, 10),
					run.StartTime.Format(contract.DateTimeFormat),
					endTime,
					durationMs,
					strconv.Itoa(int(run.TotalDrivers)),
					configParams,
				}
				if err := csvWriter.Write(rec); err != nil {
					return err
				}
			}
			return nil
		})
	}, "Wrote CSV")
}
