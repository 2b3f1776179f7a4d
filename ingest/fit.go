package ingest

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/tormoder/fit"

	"github.com/lucasjlepore/trackfix"
)

// FIT reads record messages from activity FIT files.
type FIT struct{}

func (FIT) Read(r io.Reader, source string, t *trackfix.Track) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if err := checkFITHeader(data); err != nil {
		return err
	}

	decoded, err := fit.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode FIT file: %w", err)
	}
	activity, err := decoded.Activity()
	if err != nil {
		return fmt.Errorf("activity FIT expected: %w", err)
	}

	if t.Activity == trackfix.ActivityUndefined && len(activity.Sessions) > 0 {
		session := activity.Sessions[0]
		t.Activity = activityFromSport(session.Sport, session.SubSport)
	}
	// Strava exports carry records without a fix or altitude while paused.
	strava := decoded.FileId.Manufacturer == fit.ManufacturerStrava

	for i, rec := range activity.Records {
		if rec.PositionLat.Invalid() || rec.PositionLong.Invalid() {
			continue
		}
		alt, altOK := extractAltitude(rec)
		if strava && !altOK {
			continue
		}

		s := trackfix.NewSample(t.NextIndex(), source, i+1, rec.PositionLat.Degrees(), rec.PositionLong.Degrees())
		if ts := validTimeOrZero(rec.Timestamp); !ts.IsZero() {
			s.Timestamp.Set(epochSeconds(ts))
		}
		if altOK {
			s.Elevation.Set(alt)
		}
		if d := rec.GetDistanceScaled(); isFinite(d) {
			s.Distance.Set(d)
		}
		if v, ok := extractSpeed(rec); ok {
			s.Speed.Set(v)
		}
		if g := rec.GetGradeScaled(); isFinite(g) {
			s.Grade.Set(g)
		}
		if v, ok := extractPower(rec); ok {
			s.Power.Set(v)
			t.InputMask |= trackfix.MetricPower
		}
		if v, ok := extractHeartRate(rec); ok {
			s.HeartRate.Set(v)
			t.InputMask |= trackfix.MetricHeartRate
		}
		if v, ok := extractCadence(rec); ok {
			s.Cadence.Set(v)
			t.InputMask |= trackfix.MetricCadence
		}
		if rec.Temperature != math.MaxInt8 {
			s.Temperature.Set(float64(rec.Temperature))
			t.InputMask |= trackfix.MetricTemperature
		}
		t.Append(s)
	}
	return nil
}

func activityFromSport(sport fit.Sport, sub fit.SubSport) trackfix.ActivityType {
	switch sport {
	case fit.SportCycling:
		if sub == fit.SubSportVirtualActivity || sub == fit.SubSportIndoorCycling {
			return trackfix.ActivityVirtualRide
		}
		return trackfix.ActivityRide
	case fit.SportRunning:
		return trackfix.ActivityRun
	case fit.SportWalking:
		return trackfix.ActivityWalk
	case fit.SportHiking:
		return trackfix.ActivityHike
	case fit.SportInvalid, fit.SportGeneric:
		return trackfix.ActivityUndefined
	}
	return trackfix.ActivityOther
}

func extractAltitude(rec *fit.RecordMsg) (float64, bool) {
	alt := rec.GetEnhancedAltitudeScaled()
	if isFinite(alt) {
		return alt, true
	}
	alt = rec.GetAltitudeScaled()
	if isFinite(alt) {
		return alt, true
	}
	return 0, false
}

func extractPower(rec *fit.RecordMsg) (float64, bool) {
	if rec.Power == math.MaxUint16 {
		return 0, false
	}
	return float64(rec.Power), true
}

func extractHeartRate(rec *fit.RecordMsg) (float64, bool) {
	if rec.HeartRate == math.MaxUint8 {
		return 0, false
	}
	return float64(rec.HeartRate), true
}

func extractCadence(rec *fit.RecordMsg) (float64, bool) {
	if rec.Cadence == math.MaxUint8 {
		return 0, false
	}
	return float64(rec.Cadence), true
}

func extractSpeed(rec *fit.RecordMsg) (float64, bool) {
	speed := rec.GetEnhancedSpeedScaled()
	if isFinite(speed) && speed >= 0 {
		return speed, true
	}
	speed = rec.GetSpeedScaled()
	if isFinite(speed) && speed >= 0 {
		return speed, true
	}
	return 0, false
}

func validTimeOrZero(t time.Time) time.Time {
	if t.IsZero() || fit.IsBaseTime(t) {
		return time.Time{}
	}
	return t
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
