package pipeline

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lucasjlepore/trackfix"
	"github.com/lucasjlepore/trackfix/ingest"
	"github.com/lucasjlepore/trackfix/output"
)

// Run reads every input into one track, processes it and writes the
// rendered output. Diagnostics go to opts.Stderr.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if len(opts.Inputs) == 0 {
		return nil, errors.New("at least one input file is required")
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	proc, err := newProcessor(opts.Processing, stderr)
	if err != nil {
		return nil, err
	}

	t := trackfix.NewTrack()
	t.Activity = opts.Output.Activity
	for _, path := range opts.Inputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := ingest.ReadFile(path, t); err != nil {
			return nil, err
		}
	}
	if err := proc.Process(t); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if opts.OutputPath == "" {
		stdout := opts.Stdout
		if stdout == nil {
			stdout = os.Stdout
		}
		if err := render(stdout, t, opts.Output); err != nil {
			return nil, err
		}
	} else if err := writeOutputFile(opts.OutputPath, t, opts.Output); err != nil {
		return nil, err
	}

	res := resultFor(t)
	res.OutputPath = opts.OutputPath
	return &res, nil
}

// RunBytes processes a single in-memory file and returns the rendered
// output together with the logged diagnostics.
func RunBytes(ctx context.Context, opts BytesOptions) (*BytesResult, error) {
	if len(opts.Data) == 0 {
		return nil, errors.New("input file bytes are required")
	}
	name := strings.TrimSpace(opts.SourceFileName)
	if name == "" {
		return nil, errors.New("source file name is required")
	}

	var diag bytes.Buffer
	proc, err := newProcessor(opts.Processing, &diag)
	if err != nil {
		return nil, err
	}

	t := trackfix.NewTrack()
	t.Activity = opts.Output.Activity
	if err := ingest.ReadBytes(name, opts.Data, t); err != nil {
		return nil, err
	}
	if err := proc.Process(t); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := output.Write(&out, t, opts.Output); err != nil {
		return nil, err
	}
	return &BytesResult{
		Result:   resultFor(t),
		Output:   out.Bytes(),
		Warnings: diagnosticLines(diag.String()),
	}, nil
}

func newProcessor(cfg trackfix.Config, diag io.Writer) (*trackfix.Processor, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(diag, nil))
	}
	proc, err := trackfix.NewProcessor(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return proc, nil
}

func render(w io.Writer, t *trackfix.Track, opts output.Options) error {
	bw := bufio.NewWriter(w)
	if err := output.Write(bw, t, opts); err != nil {
		return err
	}
	return bw.Flush()
}

func writeOutputFile(path string, t *trackfix.Track, opts output.Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := render(f, t, opts); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output file: %w", err)
	}
	return nil
}

func resultFor(t *trackfix.Track) Result {
	return Result{
		Samples:           t.Len(),
		Duplicates:        t.Duplicates,
		Trimmed:           t.Trimmed,
		Discarded:         t.Discarded,
		ElevationAdjusted: t.ElevationAdjusted,
		DistanceM:         t.Distance,
		TimeS:             t.Time,
		ElevationGainM:    t.ElevationGain,
	}
}

func diagnosticLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
