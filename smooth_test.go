package trackfix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovingAverageWindow(t *testing.T) {
	values := []float64{10, 20, 30, 40, 50}
	assert.Equal(t, 30.0, MovingAverage(values, 2, 2, SmoothSimple))
	assert.Equal(t, 30.0, MovingAverage(values, 2, 2, SmoothWeighted))

	// truncated at the boundaries
	assert.InDelta(t, 20.0, MovingAverage(values, 0, 2, SmoothSimple), 1e-12)
	assert.InDelta(t, (3*10.0+2*20+30)/6, MovingAverage(values, 0, 2, SmoothWeighted), 1e-12)
	assert.InDelta(t, 45.0, MovingAverage(values, 4, 1, SmoothSimple), 1e-12)
}

func TestMovingAverageWeights(t *testing.T) {
	values := []float64{0, 0, 9, 0, 0}
	// weights 1,2,3,2,1
	assert.InDelta(t, 27.0/9, MovingAverage(values, 2, 2, SmoothWeighted), 1e-12)
	// truncated window keeps weights 2,3,2,1
	assert.InDelta(t, 18.0/8, MovingAverage(values, 1, 2, SmoothWeighted), 1e-12)
}

func TestSmoothUsesOriginalValues(t *testing.T) {
	tr := buildTrack(
		point{lat: 45, lon: 7, ele: 10, ts: epoch},
		point{lat: 45.0001, lon: 7, ele: 20, ts: epoch + 1},
		point{lat: 45.0002, lon: 7, ele: 30, ts: epoch + 2},
		point{lat: 45.0003, lon: 7, ele: 40, ts: epoch + 3},
		point{lat: 45.0004, lon: 7, ele: 50, ts: epoch + 4},
	)
	p, err := NewProcessor(Config{Smoothing: Smoothing{Method: SmoothSimple, Metric: SmoothElevation, Window: 5}})
	require.NoError(t, err)
	p.Smooth(tr, SmoothElevation)

	got := make([]float64, 0, 5)
	for _, s := range tr.Samples() {
		got = append(got, s.Elevation.Value)
	}
	assert.InDeltaSlice(t, []float64{20, 25, 30, 35, 40}, got, 1e-12)
}

func TestSmoothElevationRederivesGrade(t *testing.T) {
	tr := climbTrack(7)
	tr.Samples()[3].Elevation.Value += 20
	cfg := Config{Smoothing: Smoothing{Method: SmoothWeighted, Metric: SmoothElevation, Window: 3}}
	p, err := NewProcessor(cfg)
	require.NoError(t, err)
	p.Kinematics(tr)
	p.Smooth(tr, SmoothElevation)

	samples := tr.Samples()
	for i := 1; i < len(samples); i++ {
		s := samples[i]
		assert.InDelta(t, s.Elevation.Value-samples[i-1].Elevation.Value, s.Rise, 1e-9)
		assert.InDelta(t, s.Rise*100/s.Run, s.Grade.Value, 1e-9)
		assert.InDelta(t, s.Dist*s.Dist, s.Run*s.Run+s.Rise*s.Rise, 1e-6)
	}
}

func TestSmoothGradeMarksAdjusted(t *testing.T) {
	tr := climbTrack(5)
	tr.Samples()[2].Elevation.Value += 3
	p, err := NewProcessor(Config{Smoothing: Smoothing{Metric: SmoothGrade, Window: 3}})
	require.NoError(t, err)
	p.Kinematics(tr)
	require.Positive(t, p.Smooth(tr, SmoothGrade))
	assert.True(t, tr.Samples()[2].GradeAdjusted)
}

func TestSmoothPowerNeedsInput(t *testing.T) {
	tr := climbTrack(5)
	for i, s := range tr.Samples() {
		s.Power.Set(float64(100 + 100*(i%2)))
	}
	p, err := NewProcessor(Config{Smoothing: Smoothing{Metric: SmoothPower, Window: 3}})
	require.NoError(t, err)
	assert.Zero(t, p.Smooth(tr, SmoothPower))

	tr.InputMask |= MetricPower
	assert.Positive(t, p.Smooth(tr, SmoothPower))
	assert.InDelta(t, (100.0+200+100)/3, tr.Samples()[1].Power.Value, 1e-9)
}

func TestSmoothRangeFilter(t *testing.T) {
	tr := climbTrack(9)
	for i, s := range tr.Samples() {
		if i%2 == 1 {
			s.Elevation.Value += 10
		}
	}
	before := tr.Samples()[2].Elevation.Value
	p, err := NewProcessor(Config{
		Range:     IndexRange{From: 4, To: 6},
		Smoothing: Smoothing{Window: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, p.Smooth(tr, SmoothElevation))
	assert.Equal(t, before, tr.Samples()[2].Elevation.Value)
}

func TestParseSmoothing(t *testing.T) {
	m, err := ParseSmoothMethod("weighed")
	require.NoError(t, err)
	assert.Equal(t, SmoothWeighted, m)
	_, err = ParseSmoothMethod("median")
	assert.Error(t, err)

	metric, err := ParseSmoothMetric("speed")
	require.NoError(t, err)
	assert.Equal(t, SmoothSpeed, metric)
	_, err = ParseSmoothMetric("cadence")
	assert.Error(t, err)
}
