// Package output renders a processed trackfix.Track in one of the
// supported file formats, or as a plain-text summary.
package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/lucasjlepore/trackfix"
)

// Format names an output file format.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatGPX     Format = "gpx"
	FormatTCX     Format = "tcx"
	FormatShiz    Format = "shiz"
	FormatFIT     Format = "fit"
	FormatGeoJSON Format = "geojson"
	FormatParquet Format = "parquet"
)

// ParseFormat parses a format name, case-insensitively. An empty name
// selects GPX.
func ParseFormat(v string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(v)))
	switch f {
	case FormatCSV, FormatGPX, FormatTCX, FormatShiz, FormatFIT, FormatGeoJSON, FormatParquet:
		return f, nil
	case "":
		return FormatGPX, nil
	}
	return "", fmt.Errorf("unsupported output format %q (expected csv|gpx|tcx|shiz|fit|geojson|parquet)", v)
}

// Binary reports whether the format is not text.
func (f Format) Binary() bool {
	return f == FormatFIT || f == FormatParquet
}

// RelTime selects how timestamps are printed in the CSV layout.
type RelTime int

const (
	RelTimeNone    RelTime = iota // absolute epoch seconds
	RelTimeSeconds                // seconds since the first sample
	RelTimeHMS                    // hh:mm:ss since the first sample
)

// ParseRelTime parses the relative timestamp mode: "", none, sec or hms.
func ParseRelTime(v string) (RelTime, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "none":
		return RelTimeNone, nil
	case "sec":
		return RelTimeSeconds, nil
	case "hms":
		return RelTimeHMS, nil
	}
	return RelTimeNone, fmt.Errorf("unsupported relative time format %q (expected sec|hms)", v)
}

// Options controls how Write renders a track.
type Options struct {
	Format   Format
	Include  trackfix.Metric // sensor metrics written to the output
	RelTime  RelTime
	Name     string
	Activity trackfix.ActivityType // overrides the activity read from the input
	Summary  bool                  // print the summary text instead of samples
	Creator  string // GPX creator and TCX author; defaults to "trackfix"
}

var now = time.Now

// Write renders t to w.
func Write(w io.Writer, t *trackfix.Track, opts Options) error {
	if t.Len() == 0 {
		return trackfix.ErrNoSamples
	}
	if opts.Summary {
		_, err := io.WriteString(w, Summary(t))
		return err
	}

	var err error
	switch opts.Format {
	case FormatCSV:
		err = writeCSV(w, t, opts)
	case FormatGPX, "":
		err = writeGPX(w, t, opts)
	case FormatTCX:
		err = writeTCX(w, t, opts)
	case FormatShiz:
		err = writeShiz(w, t)
	case FormatFIT:
		err = writeFIT(w, t, opts)
	case FormatGeoJSON:
		err = writeGeoJSON(w, t, opts)
	case FormatParquet:
		err = writeParquet(w, t, opts)
	default:
		return fmt.Errorf("unsupported output format %q", opts.Format)
	}
	if err != nil {
		return fmt.Errorf("write %s output: %w", opts.Format, err)
	}
	return nil
}

// included reports whether metric m was read and is requested.
func included(t *trackfix.Track, opts Options, m trackfix.Metric) bool {
	return t.InputMask.Has(m) && opts.Include.Has(m)
}

func activity(t *trackfix.Track, opts Options) trackfix.ActivityType {
	return opts.Activity.Or(t.Activity).Or(trackfix.ActivityRide)
}

func creator(opts Options) string {
	if opts.Creator != "" {
		return opts.Creator
	}
	return "trackfix"
}

func formatFloat(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}

func formatOptional(v trackfix.Float, prec int) string {
	if !v.Valid {
		return ""
	}
	return formatFloat(v.Value, prec)
}

// formatHMS prints whole seconds as hh:mm:ss. Hours are not wrapped.
func formatHMS(seconds float64) string {
	total := int64(seconds)
	if total < 0 {
		total = 0
	}
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// utcTime converts epoch seconds to a UTC time with millisecond precision.
func utcTime(ts float64) time.Time {
	ms := int64(ts*1000 + 0.5)
	if ts < 0 {
		ms = int64(ts*1000 - 0.5)
	}
	return time.UnixMilli(ms).UTC()
}

func mpsToKmh(v float64) float64 {
	return v * 3.6
}

func mToKm(v float64) float64 {
	return v / 1000
}
