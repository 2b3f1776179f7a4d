// Package ingest reads activity files into a trackfix.Track.
package ingest

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/lucasjlepore/trackfix"
)

// Reader appends the samples of one input stream to t, in stream order.
// Implementations assign indices with t.NextIndex, record the record or
// line number of every sample, set t.InputMask for the sensor metrics they
// find, and convert to meters, m/s and epoch seconds.
type Reader interface {
	Read(r io.Reader, source string, t *trackfix.Track) error
}

var readers = map[string]Reader{
	".csv": CSV{},
	".fit": FIT{},
	".gpx": GPX{},
	".tcx": TCX{},
}

// ForPath picks a reader from the file extension.
func ForPath(path string) (Reader, error) {
	ext := strings.ToLower(filepath.Ext(path))
	r, ok := readers[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported input file %q (expected .csv|.fit|.gpx|.tcx)", path)
	}
	return r, nil
}

// ReadFile appends the samples in path to t.
func ReadFile(path string, t *trackfix.Track) error {
	r, err := ForPath(path)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open input file: %w", err)
	}
	defer f.Close()

	before := t.Len()
	if err := r.Read(f, filepath.Base(path), t); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if t.Len() == before {
		return fmt.Errorf("read %s: %w", path, trackfix.ErrNoSamples)
	}
	return nil
}

// ReadBytes appends the samples of an in-memory file named name to t.
func ReadBytes(name string, data []byte, t *trackfix.Track) error {
	r, err := ForPath(name)
	if err != nil {
		return err
	}
	before := t.Len()
	if err := r.Read(bytes.NewReader(data), name, t); err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if t.Len() == before {
		return fmt.Errorf("read %s: %w", name, trackfix.ErrNoSamples)
	}
	return nil
}

func epochSeconds(ts time.Time) float64 {
	return float64(ts.UnixNano()) / 1e9
}

func parseOptional(v string) (trackfix.Float, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return trackfix.Float{}, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return trackfix.Float{}, err
	}
	return trackfix.Some(f), nil
}
