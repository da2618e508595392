package provider

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lapsCSV = `driver,lap,lap_time,sector1,sector2,sector3,compound,tyre_life,position
VER,1,90.123,28.1,33.2,28.8,SOFT,1,1
VER,2,89.950,28.0,33.1,28.8,SOFT,2,1
HAM,1,90.500,28.3,33.3,28.9,MEDIUM,1,2
HAM,2,,,,,MEDIUM,2,2
`

const telemetryCSV = `time,distance,speed,throttle,brake,gear,rpm
0.0,0.0,280.5,100,0,8,11200
0.1,7.8,279.0,100,0,8,11150
0.2,15.5,250.2,0,85,7,10400
0.3,22.9,210.8,0,90,6,9800
`

// writeSession lays out a session directory with a lap table and one
// telemetry trace.
func writeSession(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, LapsFileName), []byte(lapsCSV), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, TelemetryDir), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, TelemetryDir, "VER_1.csv"), []byte(telemetryCSV), 0o644))
	return dir
}

func TestSessionDir_Drivers(t *testing.T) {
	p := NewSessionDir(writeSession(t))

	drivers, err := p.Drivers(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, []string{"HAM", "VER"}, drivers) // Sorted for determinism
}

func TestSessionDir_Laps(t *testing.T) {
	p := NewSessionDir(writeSession(t))

	laps, err := p.Laps(context.Background(), "VER")
	assert.NoError(t, err)
	require.Len(t, laps, 2)
	assert.Equal(t, 1, laps[0].Number)
	assert.InDelta(t, 90.123, laps[0].LapTime, 1e-9)
	assert.Equal(t, "SOFT", laps[0].Compound)
	assert.Equal(t, 1, laps[0].Position)
	assert.True(t, laps[0].HasTime())

	// Empty lap time cell means the lap set no time.
	hamLaps, err := p.Laps(context.Background(), "HAM")
	assert.NoError(t, err)
	require.Len(t, hamLaps, 2)
	assert.False(t, hamLaps[1].HasTime())
}

func TestSessionDir_UnknownDriver(t *testing.T) {
	p := NewSessionDir(writeSession(t))

	laps, err := p.Laps(context.Background(), "XXX")

	assert.NoError(t, err)
	assert.Empty(t, laps)
}

func TestSessionDir_Telemetry(t *testing.T) {
	p := NewSessionDir(writeSession(t))

	samples, err := p.Telemetry(context.Background(), "VER", 1)

	assert.NoError(t, err)
	require.Len(t, samples, 4)
	assert.InDelta(t, 280.5, samples[0].Speed, 1e-9)
	assert.InDelta(t, 85.0, samples[2].Brake, 1e-9)
	assert.Equal(t, 7, samples[2].Gear)
	assert.InDelta(t, 22.9, samples[3].Distance, 1e-9)
}

func TestSessionDir_MissingTelemetry(t *testing.T) {
	p := NewSessionDir(writeSession(t))

	samples, err := p.Telemetry(context.Background(), "VER", 99)

	assert.NoError(t, err)
	assert.Empty(t, samples)
}

func TestSessionDir_MissingLapTable(t *testing.T) {
	p := NewSessionDir(t.TempDir())

	_, err := p.Drivers(context.Background())

	assert.ErrorContains(t, err, "failed to open lap table")
}

func TestSessionDir_BadLapsHeader(t *testing.T) {
	dir := t.TempDir()
	bad := "pilot,lap,lap_time,sector1,sector2,sector3,compound,tyre_life,position\nVER,1,90,,,,SOFT,,\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, LapsFileName), []byte(bad), 0o644))

	_, err := NewSessionDir(dir).Drivers(context.Background())

	assert.ErrorContains(t, err, "malformed lap table")
}

func TestSessionDir_BackwardsDistance(t *testing.T) {
	dir := writeSession(t)
	bad := "time,distance,speed,throttle,brake,gear,rpm\n0.0,100.0,280,100,0,8,11000\n0.1,50.0,270,100,0,8,10900\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, TelemetryDir, "VER_2.csv"), []byte(bad), 0o644))

	_, err := NewSessionDir(dir).Telemetry(context.Background(), "VER", 2)

	assert.ErrorContains(t, err, "goes backwards")
}

func TestSessionDir_BadLapNumber(t *testing.T) {
	dir := t.TempDir()
	bad := "driver,lap,lap_time,sector1,sector2,sector3,compound,tyre_life,position\nVER,one,90,,,,SOFT,,\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, LapsFileName), []byte(bad), 0o644))

	_, err := NewSessionDir(dir).Drivers(context.Background())

	assert.ErrorContains(t, err, "bad lap number")
}
