// Package config loads trackfix options from an optional config file and
// TRACKFIX_* environment variables, and converts them to the processor and
// output settings.
package config

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/lucasjlepore/trackfix"
	"github.com/lucasjlepore/trackfix/output"
)

// StartTimeLayout is the accepted --start-time format, read as UTC.
const StartTimeLayout = "2006-01-02T15:04:05"

// Config holds every option in its raw form, as read from the config file,
// the environment or command-line overrides.
type Config struct {
	ActivityType   string   `mapstructure:"activity_type"`
	CloseGap       int      `mapstructure:"close_gap"`
	Creator        string   `mapstructure:"creator"`
	MaxGrade       *float64 `mapstructure:"max_grade"`
	MinGrade       *float64 `mapstructure:"min_grade"`
	MaxGradeChange *float64 `mapstructure:"max_grade_change"`
	Name           string   `mapstructure:"name"`
	NoElevAdjust   bool     `mapstructure:"no_elev_adjust"`
	OutputFile     string   `mapstructure:"output_file"`
	OutputFilter   string   `mapstructure:"output_filter"` // hex mask of metrics to drop
	OutputFormat   string   `mapstructure:"output_format"`
	Quiet          bool     `mapstructure:"quiet"`
	Range          string   `mapstructure:"range"` // "from,to"
	RelTime        string   `mapstructure:"rel_time"`
	SetSpeed       float64  `mapstructure:"set_speed"` // km/h
	StartTime      string   `mapstructure:"start_time"`
	Summary        bool     `mapstructure:"summary"`
	Trim           bool     `mapstructure:"trim"`
	Verbatim       bool     `mapstructure:"verbatim"`
	XMAMethod      string   `mapstructure:"xma_method"`
	XMAMetric      string   `mapstructure:"xma_metric"`
	XMAWindow      int      `mapstructure:"xma_window"`
}

var keys = []string{
	"activity_type", "close_gap", "creator", "max_grade", "min_grade", "max_grade_change",
	"name", "no_elev_adjust", "output_file", "output_filter", "output_format",
	"quiet", "range", "rel_time", "set_speed", "start_time", "summary", "trim",
	"verbatim", "xma_method", "xma_metric", "xma_window",
}

// Load reads path (when not empty) and the environment. Entries in
// overrides win over both; their keys use the underscore form.
func Load(path string, overrides map[string]string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TRACKFIX")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return Config{}, err
		}
	}

	v.SetDefault("output_format", string(output.FormatGPX))
	v.SetDefault("output_filter", "0")
	v.SetDefault("xma_method", "simple")
	v.SetDefault("xma_metric", "elevation")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	for k, val := range overrides {
		v.Set(strings.ReplaceAll(k, "-", "_"), val)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// Keys lists the option names that Load understands.
func Keys() []string {
	return append([]string(nil), keys...)
}

// Activity parses the activity-type override. An empty value leaves the
// type read from the input.
func (c Config) Activity() (trackfix.ActivityType, error) {
	if strings.TrimSpace(c.ActivityType) == "" {
		return trackfix.ActivityUndefined, nil
	}
	return trackfix.ParseActivityType(c.ActivityType)
}

// Processor converts the options to a trackfix.Config and validates it.
func (c Config) Processor(logger *slog.Logger) (trackfix.Config, error) {
	pc := trackfix.Config{
		Verbatim:          c.Verbatim,
		Quiet:             c.Quiet,
		Trim:              c.Trim,
		CloseGap:          c.CloseGap,
		SetSpeed:          c.SetSpeed / 3.6,
		NoElevationAdjust: c.NoElevAdjust,
		Logger:            logger,
	}

	var err error
	if pc.Range, err = ParseRange(c.Range); err != nil {
		return trackfix.Config{}, err
	}
	if pc.StartTime, err = ParseStartTime(c.StartTime, time.Now); err != nil {
		return trackfix.Config{}, err
	}
	if c.MaxGrade != nil {
		pc.MaxGrade = trackfix.Some(*c.MaxGrade)
	}
	if c.MinGrade != nil {
		pc.MinGrade = trackfix.Some(*c.MinGrade)
	}
	if c.MaxGradeChange != nil {
		pc.MaxGradeChange = trackfix.Some(*c.MaxGradeChange)
	}

	if c.XMAWindow != 0 {
		method, err := trackfix.ParseSmoothMethod(c.XMAMethod)
		if err != nil {
			return trackfix.Config{}, err
		}
		metric, err := trackfix.ParseSmoothMetric(c.XMAMetric)
		if err != nil {
			return trackfix.Config{}, err
		}
		pc.Smoothing = trackfix.Smoothing{Method: method, Metric: metric, Window: c.XMAWindow}
	}

	if err := pc.Validate(); err != nil {
		return trackfix.Config{}, err
	}
	return pc, nil
}

// Output converts the options to output.Options. The summary mode always
// reports times relative to the start.
func (c Config) Output() (output.Options, error) {
	format, err := output.ParseFormat(c.OutputFormat)
	if err != nil {
		return output.Options{}, err
	}
	rel, err := output.ParseRelTime(c.RelTime)
	if err != nil {
		return output.Options{}, err
	}
	if c.Summary {
		rel = output.RelTimeSeconds
	}
	suppress, err := ParseMetricMask(c.OutputFilter)
	if err != nil {
		return output.Options{}, err
	}
	act, err := c.Activity()
	if err != nil {
		return output.Options{}, err
	}
	return output.Options{
		Format:   format,
		Include:  trackfix.MetricAll &^ suppress,
		RelTime:  rel,
		Name:     c.Name,
		Activity: act,
		Summary:  c.Summary,
		Creator:  c.Creator,
	}, nil
}

// ParseRange parses "from,to" track point indices. An empty value means no
// range.
func ParseRange(v string) (trackfix.IndexRange, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return trackfix.IndexRange{}, nil
	}
	from, to, ok := strings.Cut(v, ",")
	if !ok {
		return trackfix.IndexRange{}, fmt.Errorf("invalid range %q (expected from,to)", v)
	}
	a, err := strconv.Atoi(strings.TrimSpace(from))
	if err != nil {
		return trackfix.IndexRange{}, fmt.Errorf("invalid range start %q", from)
	}
	b, err := strconv.Atoi(strings.TrimSpace(to))
	if err != nil {
		return trackfix.IndexRange{}, fmt.Errorf("invalid range end %q", to)
	}
	r := trackfix.IndexRange{From: a, To: b}
	return r, r.Validate()
}

// ParseStartTime accepts "now" or a UTC time in StartTimeLayout.
func ParseStartTime(v string, clock func() time.Time) (trackfix.Float, error) {
	v = strings.TrimSpace(v)
	switch v {
	case "":
		return trackfix.Float{}, nil
	case "now":
		return trackfix.Some(float64(clock().Unix())), nil
	}
	ts, err := time.Parse(StartTimeLayout, v)
	if err != nil {
		return trackfix.Float{}, fmt.Errorf("invalid start time %q (expected %s or now)", v, StartTimeLayout)
	}
	return trackfix.Some(float64(ts.Unix())), nil
}

// ParseMetricMask parses a hex bitmask of sensor metrics such as "0x0c".
func ParseMetricMask(v string) (trackfix.Metric, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(v), "0x"), 16, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid metric mask %q", v)
	}
	m := trackfix.Metric(n)
	if m&^trackfix.MetricAll != 0 {
		return 0, fmt.Errorf("invalid metric mask %q: unknown bits", v)
	}
	return m, nil
}
