package iostore

import (
	"errors"
	"fmt"

	"github.com/apexmetrics/stintlab/internal/parquet"
	"github.com/apexmetrics/stintlab/schema"
)

// ExecuteRunExport exports all stored runs and driver scores to Parquet files.
func ExecuteRunExport(outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	store := GetStore()
	if store == nil {
		return errors.New("run tracking is disabled; enable a store backend first")
	}

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}

	if status.TotalRuns == 0 {
		return errors.New("no analysis runs found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total analysis runs: %d\n", status.TotalRuns)
	fmt.Printf("Total driver records: %d\n", status.TableSizes[driverScoresTable])

	// Retrieve all stored runs
	runs, err := store.ListRuns(int(status.TotalRuns))
	if err != nil {
		return fmt.Errorf("failed to retrieve analysis runs: %w", err)
	}

	// Retrieve the score rows for every run
	var scores []schema.DriverScoreRecord
	for _, run := range runs {
		runScores, err := store.ListDriverScores(run.RunID)
		if err != nil {
			return fmt.Errorf("failed to retrieve driver scores for run %d: %w", run.RunID, err)
		}
		scores = append(scores, runScores...)
	}

	// Convert to Parquet format
	parquetRuns := parquet.ConvertRunRecords(runs)
	parquetScores := parquet.ConvertDriverScoreRecords(scores)

	// Write analysis runs to Parquet
	runsFile := outputFile + ".analysis_runs.parquet"
	if err := parquet.WriteAnalysisRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write analysis runs: %w", err)
	}
	fmt.Printf("Exported %d analysis runs to: %s\n", len(parquetRuns), runsFile)

	// Write driver scores to Parquet
	scoresFile := outputFile + ".driver_scores.parquet"
	if err := parquet.WriteDriverScoresParquet(parquetScores, scoresFile); err != nil {
		return fmt.Errorf("failed to write driver scores: %w", err)
	}
	fmt.Printf("Exported %d driver score records to: %s\n", len(parquetScores), scoresFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
