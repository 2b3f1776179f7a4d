package output

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/lucasjlepore/trackfix"
)

type tcxDatabase struct {
	XMLName    xml.Name      `xml:"TrainingCenterDatabase"`
	Xmlns      string        `xml:"xmlns,attr"`
	XmlnsNs3   string        `xml:"xmlns:ns3,attr"`
	XmlnsXsi   string        `xml:"xmlns:xsi,attr"`
	Activities []tcxActivity `xml:"Activities>Activity"`
	Author     tcxAuthor     `xml:"Author"`
}

type tcxActivity struct {
	Sport string `xml:"Sport,attr"`
	ID    string `xml:"Id"`
	Lap   tcxLap `xml:"Lap"`
}

type tcxLap struct {
	StartTime        string       `xml:"StartTime,attr"`
	TotalTimeSeconds string       `xml:"TotalTimeSeconds"`
	DistanceMeters   string       `xml:"DistanceMeters"`
	MaximumSpeed     string       `xml:"MaximumSpeed"`
	AverageHeartRate *tcxValue    `xml:"AverageHeartRateBpm,omitempty"`
	MaximumHeartRate *tcxValue    `xml:"MaximumHeartRateBpm,omitempty"`
	Cadence          string       `xml:"Cadence,omitempty"`
	TriggerMethod    string       `xml:"TriggerMethod"`
	Trackpoints      []tcxTrackpt `xml:"Track>Trackpoint"`
}

type tcxValue struct {
	Value string `xml:"Value"`
}

type tcxTrackpt struct {
	Time           string      `xml:"Time"`
	Position       tcxPosition `xml:"Position"`
	AltitudeMeters string      `xml:"AltitudeMeters,omitempty"`
	DistanceMeters string      `xml:"DistanceMeters"`
	HeartRate      *tcxValue   `xml:"HeartRateBpm,omitempty"`
	Cadence        string      `xml:"Cadence,omitempty"`
	TPX            tcxTPX      `xml:"Extensions>ns3:TPX"`
}

type tcxPosition struct {
	Lat string `xml:"LatitudeDegrees"`
	Lon string `xml:"LongitudeDegrees"`
}

type tcxTPX struct {
	Speed string `xml:"ns3:Speed"`
	Watts string `xml:"ns3:Watts,omitempty"`
}

type tcxAuthor struct {
	Type   string `xml:"xsi:type,attr"`
	Name   string `xml:"Name"`
	LangID string `xml:"LangID"`
}

func writeTCX(w io.Writer, t *trackfix.Track, opts Options) error {
	stamp := now().UTC().Format("2006-01-02T15:04:05Z")
	lap := tcxLap{
		StartTime:        stamp,
		TotalTimeSeconds: formatFloat(t.Time, 3),
		DistanceMeters:   formatFloat(t.Distance, 10),
		MaximumSpeed:     formatFloat(t.Speed.Max.Value, 10),
		TriggerMethod:    "Manual",
	}
	if included(t, opts, trackfix.MetricHeartRate) {
		lap.AverageHeartRate = &tcxValue{Value: formatFloat(t.HeartRate.Avg(), 0)}
		lap.MaximumHeartRate = &tcxValue{Value: formatFloat(t.HeartRate.Max.Value, 0)}
	}
	// The lap-level Cadence element carries the maximum cadence.
	if included(t, opts, trackfix.MetricCadence) {
		lap.Cadence = formatFloat(t.Cadence.Max.Value, 0)
	}

	for s := t.First(); s != nil; s = t.Next(s) {
		tp := tcxTrackpt{
			Time:           utcTime(s.Time()).Format("2006-01-02T15:04:05.000Z"),
			Position:       tcxPosition{Lat: formatFloat(s.Lat, 10), Lon: formatFloat(s.Lon, 10)},
			AltitudeMeters: formatOptional(s.Elevation, 10),
			DistanceMeters: formatFloat(s.Distance.Value, 10),
			TPX:            tcxTPX{Speed: formatFloat(s.Speed.Value, 10)},
		}
		if included(t, opts, trackfix.MetricHeartRate) && s.HeartRate.Valid {
			tp.HeartRate = &tcxValue{Value: formatFloat(s.HeartRate.Value, 0)}
		}
		if included(t, opts, trackfix.MetricCadence) {
			tp.Cadence = formatOptional(s.Cadence, 0)
		}
		if included(t, opts, trackfix.MetricPower) {
			tp.TPX.Watts = formatOptional(s.Power, 0)
		}
		lap.Trackpoints = append(lap.Trackpoints, tp)
	}

	doc := tcxDatabase{
		Xmlns:    "http://www.garmin.com/xmlschemas/TrainingCenterDatabase/v2",
		XmlnsNs3: "http://www.garmin.com/xmlschemas/ActivityExtension/v2",
		XmlnsXsi: "http://www.w3.org/2001/XMLSchema-instance",
		Activities: []tcxActivity{{
			Sport: activity(t, opts).TCXSport(),
			ID:    stamp,
			Lap:   lap,
		}},
		Author: tcxAuthor{Type: "Application_t", Name: creator(opts), LangID: "en"},
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode tcx: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
