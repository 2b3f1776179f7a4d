//go:build !js

package output

import (
	"io"
	"math"

	parquetbuffer "github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/lucasjlepore/trackfix"
)

type sampleParquetRow struct {
	Source       string  `parquet:"name=source, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Line         int64   `parquet:"name=line, type=INT64"`
	Index        int64   `parquet:"name=trkpt, type=INT64"`
	TimeS        float64 `parquet:"name=time_s, type=DOUBLE"`
	Lat          float64 `parquet:"name=lat, type=DOUBLE"`
	Lon          float64 `parquet:"name=lon, type=DOUBLE"`
	ElevationM   float64 `parquet:"name=elevation_m, type=DOUBLE"`
	PowerW       float64 `parquet:"name=power_w, type=DOUBLE"`
	TemperatureC float64 `parquet:"name=temperature_c, type=DOUBLE"`
	CadenceRPM   float64 `parquet:"name=cadence_rpm, type=DOUBLE"`
	HRBPM        float64 `parquet:"name=hr_bpm, type=DOUBLE"`
	DeltaTS      float64 `parquet:"name=delta_t_s, type=DOUBLE"`
	RunM         float64 `parquet:"name=run_m, type=DOUBLE"`
	RiseM        float64 `parquet:"name=rise_m, type=DOUBLE"`
	DistM        float64 `parquet:"name=dist_m, type=DOUBLE"`
	DistanceM    float64 `parquet:"name=distance_m, type=DOUBLE"`
	SpeedMPS     float64 `parquet:"name=speed_mps, type=DOUBLE"`
	GradePct     float64 `parquet:"name=grade_pct, type=DOUBLE"`
	BearingDeg   float64 `parquet:"name=bearing_deg, type=DOUBLE"`
	Adjusted     bool    `parquet:"name=grade_adjusted, type=BOOLEAN"`
}

func writeParquet(w io.Writer, t *trackfix.Track, opts Options) error {
	data, err := marshalSamplesParquet(t, opts)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func marshalSamplesParquet(t *trackfix.Track, opts Options) ([]byte, error) {
	fw := parquetbuffer.NewBufferFile()
	pw, err := writer.NewParquetWriter(fw, new(sampleParquetRow), 4)
	if err != nil {
		return nil, err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	sensor := func(v trackfix.Float, m trackfix.Metric) float64 {
		if !included(t, opts, m) {
			return math.NaN()
		}
		return valueOrNaN(v)
	}
	for s := t.First(); s != nil; s = t.Next(s) {
		row := sampleParquetRow{
			Source:       s.Source,
			Line:         int64(s.Line),
			Index:        int64(s.Index),
			TimeS:        s.Time(),
			Lat:          s.Lat,
			Lon:          s.Lon,
			ElevationM:   valueOrNaN(s.Elevation),
			PowerW:       sensor(s.Power, trackfix.MetricPower),
			TemperatureC: sensor(s.Temperature, trackfix.MetricTemperature),
			CadenceRPM:   sensor(s.Cadence, trackfix.MetricCadence),
			HRBPM:        sensor(s.HeartRate, trackfix.MetricHeartRate),
			DeltaTS:      s.DeltaT,
			RunM:         s.Run,
			RiseM:        s.Rise,
			DistM:        s.Dist,
			DistanceM:    s.Distance.Value,
			SpeedMPS:     s.Speed.Value,
			GradePct:     s.Grade.Value,
			BearingDeg:   s.Bearing,
			Adjusted:     s.GradeAdjusted,
		}
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			return nil, err
		}
	}
	if err := pw.WriteStop(); err != nil {
		return nil, err
	}
	if err := fw.Close(); err != nil {
		return nil, err
	}
	return append([]byte(nil), fw.Bytes()...), nil
}

func valueOrNaN(v trackfix.Float) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Value
}
