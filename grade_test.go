package trackfix

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rollingTrack alternates steep climbs and descents.
func rollingTrack(n int) *Track {
	pts := make([]point, n)
	for i := range pts {
		pts[i] = point{
			lat: 45 + float64(i)*0.0001,
			lon: 7,
			ele: 500 + 4*math.Sin(float64(i)*0.9) + float64(i%3),
			ts:  epoch + float64(i),
		}
	}
	return buildTrack(pts...)
}

func TestGradeBounds(t *testing.T) {
	tr := rollingTrack(40)
	process(t, tr, Config{MaxGrade: Some(5), MinGrade: Some(-4)})

	adjusted := 0
	for _, s := range tr.Samples() {
		assert.LessOrEqual(t, s.Grade.Value, 5.0, "trkpt #%d", s.Index)
		assert.GreaterOrEqual(t, s.Grade.Value, -4.0, "trkpt #%d", s.Index)
		if s.GradeAdjusted {
			adjusted++
		}
	}
	assert.Positive(t, adjusted)
	assert.Positive(t, tr.ElevationAdjusted)
}

func TestGradeChangeBound(t *testing.T) {
	tr := rollingTrack(40)
	process(t, tr, Config{MaxGrade: Some(20), MinGrade: Some(-20), MaxGradeChange: Some(1.5)})

	samples := tr.Samples()
	for i := 1; i < len(samples); i++ {
		d := math.Abs(samples[i].Grade.Value - samples[i-1].Grade.Value)
		assert.LessOrEqual(t, d, 1.5+1e-9, "trkpt #%d", samples[i].Index)
		assert.LessOrEqual(t, samples[i].Grade.Value, 20.0)
		assert.GreaterOrEqual(t, samples[i].Grade.Value, -20.0)
	}
}

func TestGradeChangeKeepsDirection(t *testing.T) {
	tr := climbTrack(3)
	p, err := NewProcessor(Config{MaxGradeChange: Some(2)})
	require.NoError(t, err)
	p.Kinematics(tr)
	s := tr.Samples()
	s[1].Grade.Set(1)
	s[2].Grade.Set(-6)
	p.LimitGrades(tr)
	assert.InDelta(t, -1.0, s[2].Grade.Value, 1e-12)
	assert.True(t, s[2].GradeAdjusted)
	assert.InDelta(t, 2.0, s[2].DeltaGrade, 1e-12)
}

func TestGradeLimitsRespectRange(t *testing.T) {
	tr := rollingTrack(20)
	p, err := NewProcessor(Config{MaxGrade: Some(1), Range: IndexRange{From: 5, To: 8}})
	require.NoError(t, err)
	p.Kinematics(tr)
	p.LimitGrades(tr)
	for _, s := range tr.Samples() {
		if s.Index < 5 || s.Index > 8 {
			assert.False(t, s.GradeAdjusted, "trkpt #%d", s.Index)
			continue
		}
		assert.LessOrEqual(t, s.Grade.Value, 1.0)
	}
}

func TestElevationAdjustment(t *testing.T) {
	tr := climbTrack(4)
	p, err := NewProcessor(Config{MaxGrade: Some(2)})
	require.NoError(t, err)
	p.Kinematics(tr)
	require.Equal(t, 3, p.LimitGrades(tr))
	p.AdjustElevations(tr)
	assert.Equal(t, 3, tr.ElevationAdjusted)

	s := tr.Samples()
	for i := 1; i < len(s); i++ {
		assert.InDelta(t, s[i].Run*0.02, s[i].Rise, 1e-12)
		assert.InDelta(t, s[i-1].Elevation.Value+s[i].Rise, s[i].Elevation.Value, 1e-12)
		assert.InDelta(t, math.Hypot(s[i].Run, s[i].Rise), s[i].Dist, 1e-9)
	}

	// already consistent: nothing changes
	p.AdjustElevations(tr)
	assert.Equal(t, 3, tr.ElevationAdjusted)
}

func TestElevationAdjustmentDisabled(t *testing.T) {
	tr := climbTrack(4)
	process(t, tr, Config{MaxGrade: Some(2), NoElevationAdjust: true})
	assert.Zero(t, tr.ElevationAdjusted)
	assert.InDelta(t, 101.5, tr.Last().Elevation.Value, 1e-12)
}
