package output

import (
	"fmt"
	"strings"

	"github.com/lucasjlepore/trackfix"
)

// Summary renders the diagnostic counters, time and distance totals, and
// the per-metric extremes with the track point each one came from.
func Summary(t *trackfix.Track) string {
	var b strings.Builder

	fmt.Fprintf(&b, "      numTrkPts: %d\n", t.Len())
	fmt.Fprintf(&b, "   numDupTrkPts: %d\n", t.Duplicates)
	fmt.Fprintf(&b, "  numTrimTrkPts: %d\n", t.Trimmed)
	fmt.Fprintf(&b, "  numDiscTrkPts: %d\n", t.Discarded)
	fmt.Fprintf(&b, "     numElevAdj: %d\n", t.ElevationAdjusted)

	if first := t.First(); first != nil {
		fmt.Fprintf(&b, "    dateAndTime: %s\n", utcTime(first.Time()).Format("2006-01-02T15:04:05"))
	}
	fmt.Fprintf(&b, "    elapsedTime: %s\n", formatHMS(t.EndTime-t.StartTime))
	fmt.Fprintf(&b, "      totalTime: %s\n", formatHMS(t.Time))
	fmt.Fprintf(&b, "     movingTime: %s\n", formatHMS(t.MovingTime))
	fmt.Fprintf(&b, "    stoppedTime: %s\n", formatHMS(t.StoppedTime))

	fmt.Fprintf(&b, "       distance: %.3f km\n", mToKm(t.Distance))
	fmt.Fprintf(&b, "       elevGain: %.3f m\n", t.ElevationGain)
	fmt.Fprintf(&b, "       elevLoss: %.3f m\n", t.ElevationLoss)

	extreme(&b, t, "maxElev", "%.3f m", t.Elevation.Max)
	extreme(&b, t, "minElev", "%.3f m", t.Elevation.Min)

	speedDetail := func(s *trackfix.Sample) string {
		return fmt.Sprintf(", deltaD = %.3f m, deltaT = %.3f s", s.Dist, s.DeltaT)
	}
	extremeWith(&b, t, "maxSpeed", "%.3f km/h", mpsToKmh(t.Speed.Max.Value), t.Speed.Max.Sample, speedDetail)
	extremeWith(&b, t, "minSpeed", "%.3f km/h", mpsToKmh(t.Speed.Min.Value), t.Speed.Min.Sample, speedDetail)
	avgSpeed := 0.0
	if t.Time > 0 {
		avgSpeed = t.Distance / t.Time
	}
	fmt.Fprintf(&b, "       avgSpeed: %.3f km/h\n", mpsToKmh(avgSpeed))

	gradeDetail := func(s *trackfix.Sample) string {
		return fmt.Sprintf(", run = %.3f m, rise = %.3f m", s.Run, s.Rise)
	}
	extremeWith(&b, t, "maxGrade", "%.2f%%", t.Grade.Max.Value, t.Grade.Max.Sample, gradeDetail)
	extremeWith(&b, t, "minGrade", "%.2f%%", t.Grade.Min.Value, t.Grade.Min.Sample, gradeDetail)
	fmt.Fprintf(&b, "       avgGrade: %.2f%%\n", t.Grade.Avg())

	sensors := []struct {
		m     trackfix.Metric
		label string
		unit  string
		span  trackfix.Span
	}{
		{trackfix.MetricCadence, "Cadence", "rpm", t.Cadence},
		{trackfix.MetricHeartRate, "HR", "bpm", t.HeartRate},
		{trackfix.MetricPower, "Power", "watts", t.Power},
		{trackfix.MetricTemperature, "Temp", "C", t.Temperature},
	}
	for _, sn := range sensors {
		if !t.InputMask.Has(sn.m) {
			continue
		}
		format := "%.0f " + sn.unit
		extreme(&b, t, "max"+sn.label, format, sn.span.Max)
		extreme(&b, t, "min"+sn.label, format, sn.span.Min)
		fmt.Fprintf(&b, "%15s: %.0f %s\n", "avg"+sn.label, sn.span.Avg(), sn.unit)
	}

	extreme(&b, t, "maxDeltaD", "%.3f m", t.MaxDeltaD)
	extreme(&b, t, "maxDeltaT", "%.3f sec", t.MaxDeltaT)
	extreme(&b, t, "maxDeltaG", "%.2f%%", t.MaxDeltaG)

	return b.String()
}

func extreme(b *strings.Builder, t *trackfix.Track, label, format string, e trackfix.Extreme) {
	extremeWith(b, t, label, format, e.Value, e.Sample, nil)
}

// extremeWith prints one "label: value @ TrkPt #n (file:line) : ..." line.
// Nothing is printed when no sample was observed.
func extremeWith(b *strings.Builder, t *trackfix.Track, label, format string, v float64, s *trackfix.Sample, detail func(*trackfix.Sample) string) {
	if s == nil {
		return
	}
	fmt.Fprintf(b, "%15s: "+format+" @ TrkPt #%d (%s) : time = %d s, distance = %.3f km",
		label, v, s.Index, s.Loc(), int64(s.Time()-t.BaseTime), mToKm(s.Distance.Value))
	if detail != nil {
		b.WriteString(detail(s))
	}
	b.WriteByte('\n')
}
