package ingest

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/lucasjlepore/trackfix"
)

// TCX reads Garmin Training Center trackpoints. Namespaced extension
// elements such as ns3:TPX match on their local name.
type TCX struct{}

type tcxTrackpoint struct {
	Time     string `xml:"Time"`
	Position *struct {
		Lat float64 `xml:"LatitudeDegrees"`
		Lon float64 `xml:"LongitudeDegrees"`
	} `xml:"Position"`
	AltitudeMeters *float64 `xml:"AltitudeMeters"`
	DistanceMeters *float64 `xml:"DistanceMeters"`
	HeartRateBpm   *struct {
		Value float64 `xml:"Value"`
	} `xml:"HeartRateBpm"`
	Cadence    *float64 `xml:"Cadence"`
	Extensions struct {
		TPX struct {
			Speed *float64 `xml:"Speed"`
			Watts *float64 `xml:"Watts"`
		} `xml:"TPX"`
	} `xml:"Extensions"`
}

func (TCX) Read(r io.Reader, source string, t *trackfix.Track) error {
	dec := xml.NewDecoder(r)
	sawRoot := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("parse TCX: %w", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "TrainingCenterDatabase":
			sawRoot = true
		case "Activity":
			if t.Activity != trackfix.ActivityUndefined {
				continue
			}
			for _, attr := range se.Attr {
				if attr.Name.Local == "Sport" {
					t.Activity = trackfix.ActivityFromTCXSport(attr.Value)
				}
			}
		case "Trackpoint":
			if !sawRoot {
				return errors.New("parse TCX: missing TrainingCenterDatabase root element")
			}
			line, _ := dec.InputPos()
			var tp tcxTrackpoint
			if err := dec.DecodeElement(&tp, &se); err != nil {
				return fmt.Errorf("parse TCX trackpoint at line %d: %w", line, err)
			}
			if tp.Position == nil {
				continue
			}
			s, err := tp.sample(t.NextIndex(), source, line, &t.InputMask)
			if err != nil {
				return err
			}
			t.Append(s)
		}
	}
	if !sawRoot {
		return errors.New("parse TCX: missing TrainingCenterDatabase root element")
	}
	return nil
}

func (tp tcxTrackpoint) sample(index int, source string, line int, mask *trackfix.Metric) (*trackfix.Sample, error) {
	s := trackfix.NewSample(index, source, line, tp.Position.Lat, tp.Position.Lon)
	if tp.Time != "" {
		ts, err := time.Parse(time.RFC3339Nano, tp.Time)
		if err != nil {
			return nil, fmt.Errorf("parse TCX time at line %d: %w", line, err)
		}
		s.Timestamp.Set(epochSeconds(ts))
	}
	if tp.AltitudeMeters != nil {
		s.Elevation.Set(*tp.AltitudeMeters)
	}
	if tp.DistanceMeters != nil {
		s.Distance.Set(*tp.DistanceMeters)
	}
	if tp.HeartRateBpm != nil {
		s.HeartRate.Set(tp.HeartRateBpm.Value)
		*mask |= trackfix.MetricHeartRate
	}
	if tp.Cadence != nil {
		s.Cadence.Set(*tp.Cadence)
		*mask |= trackfix.MetricCadence
	}
	if v := tp.Extensions.TPX.Speed; v != nil {
		s.Speed.Set(*v)
	}
	if v := tp.Extensions.TPX.Watts; v != nil {
		s.Power.Set(*v)
		*mask |= trackfix.MetricPower
	}
	return s, nil
}
