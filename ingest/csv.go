package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lucasjlepore/trackfix"
)

// CSV reads files in the trackfix CSV layout. Distance is converted from
// km and speed from km/h. Derived columns are recomputed, not read.
type CSV struct{}

const (
	csvTime     = 3
	csvLat      = 4
	csvLon      = 5
	csvEle      = 6
	csvPower    = 7
	csvAtemp    = 8
	csvCadence  = 9
	csvHR       = 10
	csvDistance = 15
	csvSpeed    = 16
	csvGrade    = 17
)

func (CSV) Read(r io.Reader, source string, t *trackfix.Track) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(trackfix.CSVHeader)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return fmt.Errorf("read CSV header: %w", err)
	}
	for i, col := range trackfix.CSVHeader {
		if strings.TrimSpace(header[i]) != col {
			return fmt.Errorf("unexpected CSV header column %d: got %q want %q", i, header[i], col)
		}
	}

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read CSV: %w", err)
		}
		line, _ := cr.FieldPos(0)
		s, err := csvSample(row, t.NextIndex(), source, line, &t.InputMask)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		t.Append(s)
	}
}

func csvSample(row []string, index int, source string, line int, mask *trackfix.Metric) (*trackfix.Sample, error) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(row[csvLat]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude %q", row[csvLat])
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(row[csvLon]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude %q", row[csvLon])
	}
	s := trackfix.NewSample(index, source, line, lat, lon)

	if s.Timestamp, err = parseCSVTime(row[csvTime]); err != nil {
		return nil, fmt.Errorf("invalid time %q", row[csvTime])
	}

	fields := []struct {
		col  int
		dst  *trackfix.Float
		bit  trackfix.Metric
		unit float64
	}{
		{csvEle, &s.Elevation, 0, 1},
		{csvPower, &s.Power, trackfix.MetricPower, 1},
		{csvAtemp, &s.Temperature, trackfix.MetricTemperature, 1},
		{csvCadence, &s.Cadence, trackfix.MetricCadence, 1},
		{csvHR, &s.HeartRate, trackfix.MetricHeartRate, 1},
		{csvDistance, &s.Distance, 0, 1000},
		{csvSpeed, &s.Speed, 0, 1 / 3.6},
		{csvGrade, &s.Grade, 0, 1},
	}
	for _, f := range fields {
		v, err := parseOptional(row[f.col])
		if err != nil {
			return nil, fmt.Errorf("invalid %s value %q", trackfix.CSVHeader[f.col], row[f.col])
		}
		if !v.Valid {
			continue
		}
		f.dst.Set(v.Value * f.unit)
		*mask |= f.bit
	}
	return s, nil
}

// parseCSVTime accepts epoch seconds or an h:mm:ss offset.
func parseCSVTime(v string) (trackfix.Float, error) {
	v = strings.TrimSpace(v)
	if !strings.Contains(v, ":") {
		return parseOptional(v)
	}
	parts := strings.Split(v, ":")
	if len(parts) != 3 {
		return trackfix.Float{}, fmt.Errorf("invalid time %q", v)
	}
	total := 0.0
	for _, p := range parts {
		n, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return trackfix.Float{}, err
		}
		total = total*60 + n
	}
	return trackfix.Some(total), nil
}
