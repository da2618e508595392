// Package main provides a performance benchmarking tool for the stintlab CLI.
// It generates synthetic session directories of different field sizes, measures
// execution times across command types, treating the first successful run as
// cold and averaging the rest as warm, and writes CSV output for performance
// analysis and documentation.
//
// Prerequisites:
// - stintlab binary installed and available in PATH
//
// Usage: go run benchmark/main.go [session-base-dir]
//
//	session-base-dir: Directory where synthetic sessions are generated
package main

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (cold run and average of warm runs).
type BenchmarkResult struct {
	Session  string
	Command  string
	ColdTime string
	WarmTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	SessionBase string
	Timeout     time.Duration
	Workers     int
	Runs        int
	FieldSizes  map[string]int // session name -> driver count
	LapsPer     int
	SamplesPer  int
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [session-base-dir]\n", os.Args[0])
		os.Exit(1)
	}

	cfg := BenchmarkConfig{
		SessionBase: os.Args[1],
		Timeout:     2 * time.Minute,
		Workers:     4,
		Runs:        4,
		FieldSizes: map[string]int{
			"club-sprint":  5,
			"national-gp":  20,
			"endurance-60": 60,
		},
		LapsPer:    30,
		SamplesPer: 600,
	}

	if _, err := exec.LookPath("stintlab"); err != nil {
		fmt.Println("stintlab binary not found in PATH:", err)
		os.Exit(1)
	}

	var results []BenchmarkResult
	for name, drivers := range cfg.FieldSizes {
		dir := filepath.Join(cfg.SessionBase, name)
		fmt.Printf("Generating session %s (%d drivers)...\n", name, drivers)
		if err := generateSession(dir, drivers, cfg.LapsPer, cfg.SamplesPer); err != nil {
			fmt.Println("Failed to generate session:", err)
			os.Exit(1)
		}

		for _, command := range []string{"standings", "zones", "degradation", "consistency"} {
			result, err := benchmarkCommand(cfg, name, dir, command)
			if err != nil {
				fmt.Printf("Benchmark %s/%s failed: %v\n", name, command, err)
				continue
			}
			results = append(results, result)
		}
	}

	if err := writeResults(results); err != nil {
		fmt.Println("Failed to write results:", err)
		os.Exit(1)
	}
}

// benchmarkCommand runs one stintlab command repeatedly against a session and
// records cold and warm timings.
func benchmarkCommand(cfg BenchmarkConfig, name, dir, command string) (BenchmarkResult, error) {
	var cold time.Duration
	var warm time.Duration
	warmRuns := 0

	for i := range cfg.Runs {
		elapsed, err := timeCommand(cfg, dir, command)
		if err != nil {
			return BenchmarkResult{}, err
		}
		if i == 0 {
			cold = elapsed
		} else {
			warm += elapsed
			warmRuns++
		}
	}
	if warmRuns > 0 {
		warm /= time.Duration(warmRuns)
	}

	fmt.Printf("  %s %s: cold %v, warm %v\n", name, command, cold, warm)
	return BenchmarkResult{
		Session:  name,
		Command:  command,
		ColdTime: cold.String(),
		WarmTime: warm.String(),
	}, nil
}

// timeCommand executes one stintlab invocation and returns its wall time.
func timeCommand(cfg BenchmarkConfig, dir, command string) (time.Duration, error) {
	args := []string{
		command, dir,
		"--workers", fmt.Sprint(cfg.Workers),
		"--store-backend", "none",
		"--output-file", os.DevNull,
	}
	cmd := exec.Command("stintlab", args...)

	start := time.Now()
	done := make(chan error, 1)
	if err := cmd.Start(); err != nil {
		return 0, err
	}
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		if err != nil {
			return 0, fmt.Errorf("command failed: %w", err)
		}
		return time.Since(start), nil
	case <-time.After(cfg.Timeout):
		_ = cmd.Process.Kill()
		return 0, fmt.Errorf("command timed out after %v", cfg.Timeout)
	}
}

// generateSession writes a synthetic laps.csv and telemetry traces for the
// requested field size. Lap times follow a per-driver base pace with noise
// and mild degradation so the analysis has realistic structure.
func generateSession(dir string, drivers, laps, samples int) error {
	rng := rand.New(rand.NewSource(42))
	if err := os.MkdirAll(filepath.Join(dir, "telemetry"), 0o755); err != nil {
		return err
	}

	lapsFile, err := os.Create(filepath.Join(dir, "laps.csv"))
	if err != nil {
		return err
	}
	defer func() { _ = lapsFile.Close() }()

	w := csv.NewWriter(lapsFile)
	defer w.Flush()
	if err := w.Write([]string{"driver", "lap", "lap_time", "sector1", "sector2", "sector3", "compound", "tyre_life", "position"}); err != nil {
		return err
	}

	for d := range drivers {
		driver := fmt.Sprintf("D%02d", d+1)
		basePace := 88.0 + rng.Float64()*4
		for lap := 1; lap <= laps; lap++ {
			compound := "SOFT"
			if lap > laps/2 {
				compound = "HARD"
			}
			lapTime := basePace + float64(lap%15)*0.05 + rng.Float64()*0.6
			s1 := lapTime * 0.3
			s2 := lapTime * 0.45
			s3 := lapTime - s1 - s2
			row := []string{
				driver,
				fmt.Sprint(lap),
				fmt.Sprintf("%.3f", lapTime),
				fmt.Sprintf("%.3f", s1),
				fmt.Sprintf("%.3f", s2),
				fmt.Sprintf("%.3f", s3),
				compound,
				fmt.Sprint(lap % 15),
				fmt.Sprint(d + 1),
			}
			if err := w.Write(row); err != nil {
				return err
			}
			if err := generateTrace(dir, driver, lap, samples, rng); err != nil {
				return err
			}
		}
	}
	return nil
}

// generateTrace writes one lap's telemetry CSV with a few synthetic braking
// events per lap.
func generateTrace(dir, driver string, lap, samples int, rng *rand.Rand) error {
	path := filepath.Join(dir, "telemetry", fmt.Sprintf("%s_%d.csv", driver, lap))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	defer w.Flush()
	if err := w.Write([]string{"time", "distance", "speed", "throttle", "brake", "gear", "rpm"}); err != nil {
		return err
	}

	for i := range samples {
		t := float64(i) * 0.15
		dist := float64(i) * 9.5
		// Four brake applications per lap, sinusoidal speed profile
		phase := math.Sin(float64(i) / float64(samples) * 8 * math.Pi)
		speed := 210 + 80*phase + rng.Float64()*5
		brake := 0.0
		throttle := 80 + 20*phase
		if phase < -0.6 {
			brake = 70 + rng.Float64()*30
			throttle = 0
		}
		row := []string{
			fmt.Sprintf("%.2f", t),
			fmt.Sprintf("%.1f", dist),
			fmt.Sprintf("%.1f", speed),
			fmt.Sprintf("%.1f", throttle),
			fmt.Sprintf("%.1f", brake),
			fmt.Sprint(3 + i%5),
			fmt.Sprintf("%.0f", 8000+2000*phase),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// writeResults writes the benchmark results as CSV to stdout.
func writeResults(results []BenchmarkResult) error {
	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"session", "command", "cold_time", "warm_time"}); err != nil {
		return err
	}
	for _, r := range results {
		if err := w.Write([]string{r.Session, r.Command, r.ColdTime, r.WarmTime}); err != nil {
			return err
		}
	}
	return nil
}
