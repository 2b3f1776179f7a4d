package pipeline

import (
	"io"

	"github.com/lucasjlepore/trackfix"
	"github.com/lucasjlepore/trackfix/output"
)

// Options configures a trackfix run over one or more input files.
type Options struct {
	Inputs     []string
	OutputPath string    // empty writes to Stdout
	Stdout     io.Writer // defaults to os.Stdout
	Stderr     io.Writer // diagnostics, defaults to os.Stderr
	Processing trackfix.Config
	Output     output.Options
}

// Result reports the counters and totals of a finished run.
type Result struct {
	OutputPath        string  `json:"output_path,omitempty"`
	Samples           int     `json:"samples"`
	Duplicates        int     `json:"duplicates"`
	Trimmed           int     `json:"trimmed"`
	Discarded         int     `json:"discarded"`
	ElevationAdjusted int     `json:"elevation_adjusted"`
	DistanceM         float64 `json:"distance_m"`
	TimeS             float64 `json:"time_s"`
	ElevationGainM    float64 `json:"elevation_gain_m"`
}

// BytesOptions configures an in-memory run, used by the browser build.
type BytesOptions struct {
	SourceFileName string
	Data           []byte
	Processing     trackfix.Config
	Output         output.Options
}

// BytesResult carries the rendered output and the diagnostics logged while
// processing.
type BytesResult struct {
	Result
	Output   []byte   `json:"-"`
	Warnings []string `json:"warnings,omitempty"`
}
