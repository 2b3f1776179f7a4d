package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rideGPX = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1"><trk><trkseg>
<trkpt lat="45.0000" lon="-75.0"><ele>100.0</ele><time>2023-11-14T22:13:20Z</time></trkpt>
<trkpt lat="45.0001" lon="-75.0"><ele>100.5</ele><time>2023-11-14T22:13:21Z</time></trkpt>
<trkpt lat="45.0002" lon="-75.0"><ele>101.0</ele><time>2023-11-14T22:13:22Z</time></trkpt>
</trkseg></trk></gpx>
`

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunUsage(t *testing.T) {
	code, _, stderr := runCLI(t)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "Usage:")

	code, _, _ = runCLI(t, "--no-such-flag")
	assert.Equal(t, 2, code)

	code, _, stderr = runCLI(t, "--range", "9,2", "x.gpx")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "invalid range")
}

func TestRunVersion(t *testing.T) {
	code, stdout, _ := runCLI(t, "--version")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, version)
}

func TestRunSummary(t *testing.T) {
	in := filepath.Join(t.TempDir(), "ride.gpx")
	require.NoError(t, os.WriteFile(in, []byte(rideGPX), 0o644))

	code, stdout, stderr := runCLI(t, "--summary", in)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "      numTrkPts: 3\n")
	assert.Contains(t, stdout, "      totalTime: 00:00:02\n")
}

func TestRunWritesFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "ride.gpx")
	out := filepath.Join(dir, "ride.csv")
	require.NoError(t, os.WriteFile(in, []byte(rideGPX), 0o644))

	code, stdout, stderr := runCLI(t, "--output-format", "csv", "--rel-time", "hms", "--output-file", out, in)
	require.Equal(t, 0, code, stderr)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[3], ",00:00:02,")
}

func TestRunBinaryFormatNeedsFile(t *testing.T) {
	code, _, stderr := runCLI(t, "--output-format", "fit", "ride.gpx")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "--output-file")
}

func TestRunReportsFailure(t *testing.T) {
	code, _, stderr := runCLI(t, filepath.Join(t.TempDir(), "missing.gpx"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "trackfix failed:")
}
