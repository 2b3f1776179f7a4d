package trackfix

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// MovingAverage returns the windowed mean of values around index i with n
// neighbours on each side. The window is truncated at either end of the
// slice. Weighted averaging gives the centre weight n+1 and each step away
// one less.
func MovingAverage(values []float64, i, n int, method SmoothMethod) float64 {
	lo := max(0, i-n)
	hi := min(len(values)-1, i+n)
	window := values[lo : hi+1]
	weights := make([]float64, len(window))
	for j := range weights {
		if method == SmoothWeighted {
			d := lo + j - i
			if d < 0 {
				d = -d
			}
			weights[j] = float64(n + 1 - d)
		} else {
			weights[j] = 1
		}
	}
	return floats.Dot(window, weights) / floats.Sum(weights)
}

// Smooth rewrites one metric with its moving average. Averages are taken
// over the values as they were before the pass. It returns the number of
// samples whose value changed.
func (p *Processor) Smooth(t *Track, metric SmoothMetric) int {
	cfg := p.cfg.Smoothing
	if !cfg.Enabled() {
		return 0
	}
	if metric == SmoothPower && !t.InputMask.Has(MetricPower) {
		return 0
	}

	samples := t.Samples()
	values := make([]float64, len(samples))
	for i, s := range samples {
		values[i] = metricValue(s, metric)
	}

	n := (cfg.Window - 1) / 2
	changed := make([]bool, len(samples))
	count := 0
	for i, s := range samples {
		if !p.cfg.Range.Contains(s.Index) {
			continue
		}
		v := MovingAverage(values, i, n, cfg.Method)
		if v == values[i] {
			continue
		}
		setMetricValue(s, metric, v)
		changed[i] = true
		count++
		if metric == SmoothGrade {
			s.GradeAdjusted = true
		}
	}

	if metric == SmoothElevation && t.kinematics {
		for i := 1; i < len(samples); i++ {
			if changed[i] || changed[i-1] {
				rederive(samples[i-1], samples[i])
			}
		}
	}
	if metric == SmoothGrade {
		for i := 1; i < len(samples); i++ {
			samples[i].DeltaGrade = math.Abs(samples[i].Grade.Value - samples[i-1].Grade.Value)
		}
	}
	p.log.Debug("moving average applied", "metric", metric.String(), "method", cfg.Method.String(),
		"window", cfg.Window, "changed", count)
	return count
}

// rederive recomputes rise, dist and grade of p2 after an elevation change.
func rederive(p1, p2 *Sample) {
	p2.Rise = p2.Elevation.Value - p1.Elevation.Value
	if p2.Run != 0 {
		p2.Grade.Set(clampGrade(p2.Rise * 100 / p2.Run))
		p2.Dist = math.Sqrt(p2.Run*p2.Run + p2.Rise*p2.Rise)
	} else {
		p2.Grade.Set(p1.Grade.Value)
	}
	p2.DeltaGrade = math.Abs(p2.Grade.Value - p1.Grade.Value)
}

func metricValue(s *Sample, metric SmoothMetric) float64 {
	switch metric {
	case SmoothGrade:
		return s.Grade.Or(0)
	case SmoothPower:
		return s.Power.Or(0)
	case SmoothSpeed:
		return s.Speed.Or(0)
	}
	return s.Elevation.Or(0)
}

func setMetricValue(s *Sample, metric SmoothMetric, v float64) {
	switch metric {
	case SmoothGrade:
		s.Grade.Set(v)
	case SmoothPower:
		s.Power.Set(v)
	case SmoothSpeed:
		s.Speed.Set(v)
	default:
		s.Elevation.Set(v)
	}
}
