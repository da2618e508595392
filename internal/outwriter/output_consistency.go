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

// PrintConsistencyReports outputs per-driver consistency profiles, dispatching based on the output format configured.
func PrintConsistencyReports(reports []schema.DriverConsistencyReport, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := printConsistencyJSON(reports, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printConsistencyCSV(reports, cfg, fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeConsistencyTable(reports, cfg, fmtFloat, intFmt, duration, w)
		}, "Wrote table")
	}
	return nil
}

// ratingCell maps a rating band to its colored label when colors are on.
func ratingCell(rating schema.Rating, cfg *contract.Config) string {
	if !cfg.UseColors {
		return string(rating)
	}
	switch rating {
	case schema.RatingExcellent:
		return contract.ExcellentColor.Sprint(string(rating))
	case schema.RatingGood:
		return contract.GoodColor.Sprint(string(rating))
	case schema.RatingAverage:
		return contract.AverageColor.Sprint(string(rating))
	default:
		return contract.DevelopingColor.Sprint(string(rating))
	}
}

// writeConsistencyTable generates and writes the human-readable consistency table.
func writeConsistencyTable(reports []schema.DriverConsistencyReport, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	headers := []string{"Driver", "Laps", "CV", "Rating", "Stability", "Outliers"}
	if cfg.Detail {
		headers = append(headers, "RollAvg", "RollBest", "RollWorst")
	}
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, r := range reports {
		row := []string{
			r.Driver,
			fmt.Sprintf(intFmt, r.ValidLaps),
			fmt.Sprintf("%.4f", r.Stats.CV),
			ratingCell(r.Stats.Rating, cfg),
			fmtFloat(r.Stats.Stability),
			fmt.Sprintf(intFmt, len(r.Stats.Outliers)),
		}
		if cfg.Detail {
			row = append(row,
				fmt.Sprintf("%.4f", r.Stats.RollingAvg),
				fmt.Sprintf("%.4f", r.Stats.RollingBest),
				fmt.Sprintf("%.4f", r.Stats.RollingWorst),
			)
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	// Outlier detail lines, only when asked for
	if cfg.Detail {
		for _, r := range reports {
			for _, o := range r.Stats.Outliers {
				if _, err := fmt.Fprintf(writer, "Outlier %s lap %d: %s by %ss (%s)\n",
					r.Driver, o.Index+1, fmtFloat(o.Value), fmtFloat(o.Deviation), o.Kind); err != nil {
					return err
				}
			}
		}
	}
	if _, err := fmt.Fprintf(writer, "Consistency analysis completed in %v with %d workers\n", duration, cfg.Workers); err != nil {
		return err
	}
	return nil
}

// printConsistencyCSV handles opening the file and calling the CSV writer.
func printConsistencyCSV(reports []schema.DriverConsistencyReport, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"driver",
		"valid_laps",
		"cv",
		"rating",
		"stability",
		"rolling_avg_cv",
		"rolling_best_cv",
		"rolling_worst_cv",
		"outliers",
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			for _, r := range reports {
				rec := []string{
					r.Driver,
					fmt.Sprintf(intFmt, r.ValidLaps),
					fmt.Sprintf("%.6f", r.Stats.CV),
					string(r.Stats.Rating),
					fmtFloat(r.Stats.Stability),
					fmt.Sprintf("%.6f", r.Stats.RollingAvg),
					fmt.Sprintf("%.6f", r.Stats.RollingBest),
					fmt.Sprintf("%.6f", r.Stats.RollingWorst),
					strconv.Itoa(len(r.Stats.Outliers)),
				}
				if err := csvWriter.Write(rec); err != nil {
					return err
				}
			}
			return nil
		})
	}, "Wrote CSV")
}

// printConsistencyJSON handles opening the file and calling the JSON writer.
func printConsistencyJSON(reports []schema.DriverConsistencyReport, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, reports)
	}, "Wrote JSON")
}
