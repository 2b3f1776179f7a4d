package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasjlepore/trackfix"
	"github.com/lucasjlepore/trackfix/output"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "gpx", cfg.OutputFormat)
	assert.Equal(t, "simple", cfg.XMAMethod)
	assert.Nil(t, cfg.MaxGrade)

	pc, err := cfg.Processor(nil)
	require.NoError(t, err)
	assert.False(t, pc.MaxGrade.Valid)
	assert.False(t, pc.Smoothing.Enabled())

	oc, err := cfg.Output()
	require.NoError(t, err)
	assert.Equal(t, output.FormatGPX, oc.Format)
	assert.Equal(t, trackfix.MetricAll, oc.Include)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TRACKFIX_OUTPUT_FORMAT", "csv")
	t.Setenv("TRACKFIX_MAX_GRADE", "12.5")
	t.Setenv("TRACKFIX_QUIET", "true")
	t.Setenv("TRACKFIX_XMA_WINDOW", "5")
	t.Setenv("TRACKFIX_CREATOR", "fixer")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "csv", cfg.OutputFormat)
	require.NotNil(t, cfg.MaxGrade)
	assert.Equal(t, 12.5, *cfg.MaxGrade)
	assert.True(t, cfg.Quiet)
	assert.Equal(t, "fixer", cfg.Creator)

	pc, err := cfg.Processor(nil)
	require.NoError(t, err)
	assert.Equal(t, trackfix.Some(12.5), pc.MaxGrade)
	assert.Equal(t, 5, pc.Smoothing.Window)
	assert.Equal(t, trackfix.SmoothElevation, pc.Smoothing.Metric)
}

func TestLoadFileAndOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trackfix.yaml")
	body := "output_format: tcx\nname: Alpe\nset_speed: 18\nrange: \"2,9\"\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path, map[string]string{"output-format": "shiz", "min_grade": "-8"})
	require.NoError(t, err)
	assert.Equal(t, "shiz", cfg.OutputFormat)
	assert.Equal(t, "Alpe", cfg.Name)
	require.NotNil(t, cfg.MinGrade)
	assert.Equal(t, -8.0, *cfg.MinGrade)

	pc, err := cfg.Processor(nil)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, pc.SetSpeed, 1e-9)
	assert.Equal(t, trackfix.IndexRange{From: 2, To: 9}, pc.Range)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestProcessorRejectsBadOptions(t *testing.T) {
	for name, cfg := range map[string]Config{
		"range":      {Range: "5"},
		"reversed":   {Range: "9,2"},
		"start":      {StartTime: "yesterday"},
		"window":     {XMAWindow: 4, XMAMethod: "simple", XMAMetric: "grade"},
		"method":     {XMAWindow: 3, XMAMethod: "median", XMAMetric: "grade"},
		"trim alone": {Trim: true},
	} {
		_, err := cfg.Processor(nil)
		assert.Error(t, err, name)
	}
}

func TestOutputOptions(t *testing.T) {
	cfg := Config{OutputFormat: "csv", OutputFilter: "0x0c", RelTime: "hms", ActivityType: "run", Summary: true, Creator: "Garmin Edge"}
	oc, err := cfg.Output()
	require.NoError(t, err)
	assert.Equal(t, trackfix.MetricTemperature|trackfix.MetricCadence, oc.Include)
	assert.Equal(t, output.RelTimeSeconds, oc.RelTime)
	assert.Equal(t, trackfix.ActivityRun, oc.Activity)
	assert.True(t, oc.Summary)
	assert.Equal(t, "Garmin Edge", oc.Creator)

	_, err = Config{OutputFilter: "0x30"}.Output()
	assert.Error(t, err)
}

func TestParseStartTime(t *testing.T) {
	clock := func() time.Time { return time.Unix(1700000000, 0) }

	v, err := ParseStartTime("now", clock)
	require.NoError(t, err)
	assert.Equal(t, trackfix.Some(1700000000), v)

	v, err = ParseStartTime("2023-11-14T22:13:20", clock)
	require.NoError(t, err)
	assert.Equal(t, trackfix.Some(1700000000), v)

	v, err = ParseStartTime("", clock)
	require.NoError(t, err)
	assert.False(t, v.Valid)
}
