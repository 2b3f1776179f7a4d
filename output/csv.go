package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/lucasjlepore/trackfix"
)

func writeCSV(w io.Writer, t *trackfix.Track, opts Options) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(trackfix.CSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	sensor := func(v trackfix.Float, m trackfix.Metric) string {
		if !included(t, opts, m) {
			return ""
		}
		return formatOptional(v, -1)
	}

	var prev *trackfix.Sample
	for s := t.First(); s != nil; prev, s = s, t.Next(s) {
		deltaG := 0.0
		if prev != nil {
			deltaG = math.Abs(s.Grade.Value - prev.Grade.Value)
		}
		row := []string{
			s.Source,
			strconv.Itoa(s.Line),
			strconv.Itoa(s.Index),
			csvTime(t, s, opts.RelTime),
			formatFloat(s.Lat, 10),
			formatFloat(s.Lon, 10),
			formatOptional(s.Elevation, 10),
			sensor(s.Power, trackfix.MetricPower),
			sensor(s.Temperature, trackfix.MetricTemperature),
			sensor(s.Cadence, trackfix.MetricCadence),
			sensor(s.HeartRate, trackfix.MetricHeartRate),
			formatFloat(s.DeltaT, 10),
			formatFloat(s.Run, 3),
			formatFloat(s.Rise, 10),
			formatFloat(s.Dist, 10),
			formatFloat(mToKm(s.Distance.Value), 10),
			formatFloat(mpsToKmh(s.Speed.Value), 10),
			formatFloat(s.Grade.Value, 2),
			formatFloat(deltaG, 2),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func csvTime(t *trackfix.Track, s *trackfix.Sample, rel RelTime) string {
	switch rel {
	case RelTimeSeconds:
		return formatFloat(s.Time()-t.BaseTime, 3)
	case RelTimeHMS:
		return formatHMS(s.Time() - t.BaseTime)
	}
	return formatFloat(s.Time(), 3)
}
