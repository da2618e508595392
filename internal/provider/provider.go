// Package provider loads session data from a directory of CSV files.
//
// A session directory contains a laps.csv table with one row per (driver,
// lap) and a telemetry/ subdirectory with one <driver>_<lap>.csv trace per
// recorded lap. Columns are validated once on first load; the analysis core
// receives only well-formed, ordered records.
package provider

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"github.com/apexmetrics/stintlab/schema"
)

// File layout inside a session directory.
const (
	LapsFileName = "laps.csv"
	TelemetryDir = "telemetry"
)

var lapsHeader = []string{"driver", "lap", "lap_time", "sector1", "sector2", "sector3", "compound", "tyre_life", "position"}

var telemetryHeader = []string{"time", "distance", "speed", "throttle", "brake", "gear", "rpm"}

// SessionDir reads one session's lap and telemetry tables from disk. The lap
// table is parsed once and cached; telemetry traces are read on demand.
// Safe for concurrent use by the analysis worker pool.
type SessionDir struct {
	root string

	once    sync.Once
	loadErr error
	laps    map[string][]schema.Lap
	drivers []string
}

// NewSessionDir returns a provider rooted at the given session directory.
func NewSessionDir(root string) *SessionDir {
	return &SessionDir{root: root}
}

// Drivers returns every driver in the lap table, sorted for determinism.
func (p *SessionDir) Drivers(ctx context.Context) ([]string, error) {
	if err := p.load(ctx); err != nil {
		return nil, err
	}
	return p.drivers, nil
}

// Laps returns one driver's lap records in file order. An unknown driver
// yields an empty slice, not an error.
func (p *SessionDir) Laps(ctx context.Context, driver string) ([]schema.Lap, error) {
	if err := p.load(ctx); err != nil {
		return nil, err
	}
	return p.laps[driver], nil
}

// Telemetry reads the trace file for one lap. A missing file means the lap
// simply was not recorded and yields an empty slice.
func (p *SessionDir) Telemetry(ctx context.Context, driver string, lapNumber int) ([]schema.TelemetrySample, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(p.root, TelemetryDir, fmt.Sprintf("%s_%d.csv", driver, lapNumber))
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open telemetry %s: %w", path, err)
	}
	defer f.Close()

	samples, err := parseTelemetry(f)
	if err != nil {
		return nil, fmt.Errorf("malformed telemetry %s: %w", path, err)
	}
	return samples, nil
}

func (p *SessionDir) load(ctx context.Context) error {
	p.once.Do(func() {
		if err := ctx.Err(); err != nil {
			p.loadErr = err
			return
		}

		path := filepath.Join(p.root, LapsFileName)
		f, err := os.Open(path)
		if err != nil {
			p.loadErr = fmt.Errorf("failed to open lap table %s: %w", path, err)
			return
		}
		defer f.Close()

		laps, err := parseLaps(f)
		if err != nil {
			p.loadErr = fmt.Errorf("malformed lap table %s: %w", path, err)
			return
		}

		p.laps = make(map[string][]schema.Lap)
		for _, lap := range laps {
			p.laps[lap.Driver] = append(p.laps[lap.Driver], lap)
		}
		for d := range p.laps {
			p.drivers = append(p.drivers, d)
		}
		sort.Strings(p.drivers)
	})
	return p.loadErr
}

// parseLaps reads and validates the lap table.
func parseLaps(r io.Reader) ([]schema.Lap, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("missing header row: %w", err)
	}
	if err := checkHeader(header, lapsHeader); err != nil {
		return nil, err
	}

	var laps []schema.Lap
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		lap := schema.Lap{Driver: record[0], Compound: record[6]}
		if lap.Driver == "" {
			return nil, fmt.Errorf("line %d: empty driver id", line)
		}
		if lap.Number, err = strconv.Atoi(record[1]); err != nil {
			return nil, fmt.Errorf("line %d: bad lap number %q", line, record[1])
		}
		if lap.LapTime, err = parseOptionalFloat(record[2]); err != nil {
			return nil, fmt.Errorf("line %d: bad lap time %q", line, record[2])
		}
		if lap.Sector1, err = parseOptionalFloat(record[3]); err != nil {
			return nil, fmt.Errorf("line %d: bad sector1 %q", line, record[3])
		}
		if lap.Sector2, err = parseOptionalFloat(record[4]); err != nil {
			return nil, fmt.Errorf("line %d: bad sector2 %q", line, record[4])
		}
		if lap.Sector3, err = parseOptionalFloat(record[5]); err != nil {
			return nil, fmt.Errorf("line %d: bad sector3 %q", line, record[5])
		}
		if lap.TyreLife, err = parseOptionalInt(record[7]); err != nil {
			return nil, fmt.Errorf("line %d: bad tyre life %q", line, record[7])
		}
		if lap.Position, err = parseOptionalInt(record[8]); err != nil {
			return nil, fmt.Errorf("line %d: bad position %q", line, record[8])
		}
		laps = append(laps, lap)
	}
	return laps, nil
}

// parseTelemetry reads and validates one lap's telemetry trace, enforcing
// monotonically non-decreasing distance.
func parseTelemetry(r io.Reader) ([]schema.TelemetrySample, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("missing header row: %w", err)
	}
	if err := checkHeader(header, telemetryHeader); err != nil {
		return nil, err
	}

	var samples []schema.TelemetrySample
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		var s schema.TelemetrySample
		fields := []struct {
			dst  *float64
			name string
			raw  string
		}{
			{&s.Time, "time", record[0]},
			{&s.Distance, "distance", record[1]},
			{&s.Speed, "speed", record[2]},
			{&s.Throttle, "throttle", record[3]},
			{&s.Brake, "brake", record[4]},
			{&s.RPM, "rpm", record[6]},
		}
		for _, f := range fields {
			if *f.dst, err = strconv.ParseFloat(f.raw, 64); err != nil {
				return nil, fmt.Errorf("line %d: bad %s %q", line, f.name, f.raw)
			}
		}
		if s.Gear, err = parseOptionalInt(record[5]); err != nil {
			return nil, fmt.Errorf("line %d: bad gear %q", line, record[5])
		}

		if n := len(samples); n > 0 && s.Distance < samples[n-1].Distance {
			return nil, fmt.Errorf("line %d: distance %.1f goes backwards", line, s.Distance)
		}
		samples = append(samples, s)
	}
	return samples, nil
}

func checkHeader(got, want []string) error {
	if len(got) != len(want) {
		return fmt.Errorf("expected %d columns, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			return fmt.Errorf("expected column %d to be %q, got %q", i, want[i], got[i])
		}
	}
	return nil
}

// parseOptionalFloat treats an empty cell as absent data.
func parseOptionalFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// parseOptionalInt treats an empty cell as absent data.
func parseOptionalInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
