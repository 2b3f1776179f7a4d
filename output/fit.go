package output

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/tormoder/fit"

	"github.com/lucasjlepore/trackfix"
)

// writeFIT encodes an activity file with one record per sample and a
// single session carrying the track totals.
func writeFIT(w io.Writer, t *trackfix.Track, opts Options) error {
	header := fit.NewHeader(fit.V20, true)
	file, err := fit.NewFile(fit.FileTypeActivity, header)
	if err != nil {
		return fmt.Errorf("new fit file: %w", err)
	}
	file.FileId.Manufacturer = fit.ManufacturerDevelopment
	file.FileId.TimeCreated = now().UTC()

	act, err := file.Activity()
	if err != nil {
		return fmt.Errorf("activity accessor: %w", err)
	}

	for s := t.First(); s != nil; s = t.Next(s) {
		rec := fit.NewRecordMsg()
		rec.Timestamp = utcTime(s.Time())
		rec.PositionLat = fit.NewLatitudeDegrees(s.Lat)
		rec.PositionLong = fit.NewLongitudeDegrees(s.Lon)
		if s.Elevation.Valid {
			rec.EnhancedAltitude = scaledUint32((s.Elevation.Value + 500) * 5)
		}
		rec.Distance = scaledUint32(s.Distance.Value * 100)
		rec.EnhancedSpeed = scaledUint32(s.Speed.Value * 1000)
		rec.Grade = int16(max(math.MinInt16+1, min(math.MaxInt16-1, math.Round(s.Grade.Value*100))))
		if included(t, opts, trackfix.MetricPower) && s.Power.Valid {
			rec.Power = uint16(max(0, min(math.MaxUint16-1, math.Round(s.Power.Value))))
		}
		if included(t, opts, trackfix.MetricHeartRate) && s.HeartRate.Valid {
			rec.HeartRate = scaledUint8(s.HeartRate.Value)
		}
		if included(t, opts, trackfix.MetricCadence) && s.Cadence.Valid {
			rec.Cadence = scaledUint8(s.Cadence.Value)
		}
		if included(t, opts, trackfix.MetricTemperature) && s.Temperature.Valid {
			rec.Temperature = int8(max(math.MinInt8, min(math.MaxInt8-1, math.Round(s.Temperature.Value))))
		}
		act.Records = append(act.Records, rec)
	}

	first, last := t.First(), t.Last()
	session := fit.NewSessionMsg()
	session.Timestamp = utcTime(last.Time())
	session.StartTime = utcTime(first.Time())
	session.Sport, session.SubSport = fitSport(activity(t, opts))
	session.TotalElapsedTime = scaledUint32((t.EndTime - t.StartTime) * 1000)
	session.TotalTimerTime = scaledUint32(t.Time * 1000)
	session.TotalDistance = scaledUint32(t.Distance * 100)
	session.TotalAscent = uint16(max(0, min(math.MaxUint16-1, math.Round(t.ElevationGain))))
	session.TotalDescent = uint16(max(0, min(math.MaxUint16-1, math.Round(t.ElevationLoss))))
	session.MaxSpeed = uint16(max(0, min(math.MaxUint16-1, math.Round(t.Speed.Max.Value*1000))))
	act.Sessions = append(act.Sessions, session)

	summary := fit.NewActivityMsg()
	summary.Timestamp = session.Timestamp
	summary.NumSessions = 1
	summary.TotalTimerTime = session.TotalTimerTime
	act.Activity = summary

	if err := fit.Encode(w, file, binary.LittleEndian); err != nil {
		return fmt.Errorf("encode fit: %w", err)
	}
	return nil
}

func fitSport(a trackfix.ActivityType) (fit.Sport, fit.SubSport) {
	switch a {
	case trackfix.ActivityRide:
		return fit.SportCycling, fit.SubSportGeneric
	case trackfix.ActivityVirtualRide:
		return fit.SportCycling, fit.SubSportVirtualActivity
	case trackfix.ActivityRun:
		return fit.SportRunning, fit.SubSportGeneric
	case trackfix.ActivityWalk:
		return fit.SportWalking, fit.SubSportGeneric
	case trackfix.ActivityHike:
		return fit.SportHiking, fit.SubSportGeneric
	}
	return fit.SportGeneric, fit.SubSportGeneric
}

// scaledUint32 rounds v into the valid range of a FIT uint32 field. The top
// value is reserved as the invalid marker.
func scaledUint32(v float64) uint32 {
	return uint32(max(0, min(math.MaxUint32-1, math.Round(v))))
}

func scaledUint8(v float64) uint8 {
	return uint8(max(0, min(math.MaxUint8-1, math.Round(v))))
}
