package trackfix

import "math"

// Aggregate sweeps the track once and fills in the per-metric extremes,
// the sums used for averages, elevation gain and loss, and moving time.
// Sensor metrics are only considered when the input carried them.
func (p *Processor) Aggregate(t *Track) {
	t.Elevation, t.Speed, t.Grade = Span{}, Span{}, Span{}
	t.Cadence, t.HeartRate, t.Power, t.Temperature = Span{}, Span{}, Span{}, Span{}
	t.ElevationGain, t.ElevationLoss = 0, 0
	t.MovingTime, t.StoppedTime = 0, 0
	t.MaxDeltaG = Extreme{}

	var prev *Sample
	for s := t.First(); s != nil; prev, s = s, t.Next(s) {
		t.Elevation.observe(s.Elevation.Value, s, false)
		if t.InputMask.Has(MetricTemperature) && s.Temperature.Valid {
			t.Temperature.observe(s.Temperature.Value, s, false)
			t.Temperature.add(s.Temperature.Value)
		}
		if t.InputMask.Has(MetricCadence) && s.Cadence.Valid {
			t.Cadence.observe(s.Cadence.Value, s, true)
			t.Cadence.add(s.Cadence.Value)
		}
		if t.InputMask.Has(MetricHeartRate) && s.HeartRate.Valid {
			t.HeartRate.observe(s.HeartRate.Value, s, true)
			t.HeartRate.add(s.HeartRate.Value)
		}
		if t.InputMask.Has(MetricPower) && s.Power.Valid {
			t.Power.observe(s.Power.Value, s, true)
			t.Power.add(s.Power.Value)
		}

		if prev == nil {
			continue
		}
		speed := s.Speed.Or(0)
		t.Speed.observe(speed, s, true)
		t.Grade.observe(s.Grade.Value, s, false)
		t.Grade.add(s.Grade.Value)

		if s.Rise > 0 {
			t.ElevationGain += s.Rise
		} else {
			t.ElevationLoss += math.Abs(s.Rise)
		}
		t.MaxDeltaG.above(s.DeltaGrade, s)

		if speed > 0 {
			t.MovingTime += s.DeltaT
		} else {
			t.StoppedTime += s.DeltaT
		}
	}
}

// observe folds v into the span's extremes. With ignoreZeroMin a zero
// reading never becomes the minimum.
func (sp *Span) observe(v float64, s *Sample, ignoreZeroMin bool) {
	sp.Max.above(v, s)
	if ignoreZeroMin && v == 0 {
		return
	}
	sp.Min.below(v, s)
}

func (sp *Span) add(v float64) {
	sp.Sum += v
	sp.N++
}
