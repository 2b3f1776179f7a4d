package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/lucasjlepore/trackfix/config"
	"github.com/lucasjlepore/trackfix/pipeline"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	name := filepath.Base(os.Args[0])
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		configPath = fs.String("config", "", "Path to a YAML/TOML/JSON config file")
		showVer    = fs.Bool("version", false, "Print the version and exit")
	)
	fs.String("activity-type", "", "Activity type: ride|hike|run|walk|vride|other or a GPX type code")
	fs.Int("close-gap", 0, "Close the time gap in front of this track point")
	fs.String("creator", "", "Creator recorded in GPX and TCX output (default trackfix)")
	fs.Float64("max-grade", 0, "Maximum grade in percent")
	fs.Float64("min-grade", 0, "Minimum grade in percent")
	fs.Float64("max-grade-change", 0, "Maximum grade change between track points, in percent")
	fs.String("name", "", "Activity name written to the output")
	fs.Bool("no-elev-adjust", false, "Keep the original elevations of grade-limited track points")
	fs.String("output-file", "", "Output file (default stdout)")
	fs.String("output-filter", "0", "Hex mask of metrics to drop: 0x01 atemp, 0x02 cadence, 0x04 hr, 0x08 power")
	fs.String("output-format", "gpx", "Output format: csv|gpx|tcx|shiz|fit|geojson|parquet")
	fs.Bool("quiet", false, "Suppress warnings")
	fs.String("range", "", "Track point range from,to for --trim and the smoothing/grade passes")
	fs.String("rel-time", "", "Relative CSV timestamps: sec|hms")
	fs.Float64("set-speed", 0, "Average speed in km/h used to synthesize missing timestamps")
	fs.String("start-time", "", "Activity start time (UTC) as 2006-01-02T15:04:05 or now")
	fs.Bool("summary", false, "Print the activity summary instead of the track points")
	fs.Bool("trim", false, "Remove the track points in --range")
	fs.Bool("verbatim", false, "Keep duplicate and non-advancing track points")
	fs.String("xma-method", "simple", "Moving average: simple|weighted")
	fs.String("xma-metric", "elevation", "Moving average metric: elevation|grade|power|speed")
	fs.Int("xma-window", 0, "Moving average window, odd and at least 3")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s [options] <inFile>...\n", name)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if *showVer {
		fmt.Fprintf(stdout, "%s %s\n", name, version)
		return 0
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	overrides := map[string]string{}
	fs.Visit(func(f *flag.Flag) {
		if f.Name != "config" && f.Name != "version" {
			overrides[f.Name] = f.Value.String()
		}
	})
	cfg, err := config.Load(*configPath, overrides)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", name, err)
		return 2
	}
	proc, err := cfg.Processor(nil)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", name, err)
		return 2
	}
	out, err := cfg.Output()
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", name, err)
		return 2
	}
	if out.Format.Binary() && !out.Summary && cfg.OutputFile == "" {
		fmt.Fprintf(stderr, "%s: %s output needs --output-file\n", name, out.Format)
		return 2
	}

	_, err = pipeline.Run(ctx, pipeline.Options{
		Inputs:     fs.Args(),
		OutputPath: cfg.OutputFile,
		Stdout:     stdout,
		Stderr:     stderr,
		Processing: proc,
		Output:     out,
	})
	if err != nil {
		fmt.Fprintf(stderr, "trackfix failed: %v\n", err)
		return 1
	}
	return 0
}
