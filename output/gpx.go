package output

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"github.com/tkrajina/gpxgo/gpx"

	"github.com/lucasjlepore/trackfix"
)

const trackPointExtensionNS = "http://www.garmin.com/xmlschemas/TrackPointExtension/v1"

func writeGPX(w io.Writer, t *trackfix.Track, opts Options) error {
	created := now().UTC()
	doc := &gpx.GPX{
		Version: "1.1",
		Creator: creator(opts),
		Name:    opts.Name,
		Time:    &created,
	}

	seg := gpx.GPXTrackSegment{}
	for s := t.First(); s != nil; s = t.Next(s) {
		pt := gpx.GPXPoint{
			Point:     gpx.Point{Latitude: s.Lat, Longitude: s.Lon},
			Timestamp: utcTime(s.Time()),
		}
		if s.Elevation.Valid {
			pt.Elevation = *gpx.NewNullableFloat64(s.Elevation.Value)
		}
		pt.Extensions.Nodes = gpxExtensions(t, s, opts)
		seg.Points = append(seg.Points, pt)
	}

	doc.Tracks = []gpx.GPXTrack{{
		Name:     opts.Name,
		Type:     strconv.Itoa(int(activity(t, opts))),
		Segments: []gpx.GPXTrackSegment{seg},
	}}

	data, err := doc.ToXml(gpx.ToXmlParams{Version: "1.1", Indent: true})
	if err != nil {
		return fmt.Errorf("encode gpx: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// gpxExtensions builds the <power> element and the Garmin
// TrackPointExtension block for the sensor metrics that are included.
func gpxExtensions(t *trackfix.Track, s *trackfix.Sample, opts Options) []gpx.ExtensionNode {
	var nodes []gpx.ExtensionNode
	if included(t, opts, trackfix.MetricPower) && s.Power.Valid {
		nodes = append(nodes, extNode("", "power", s.Power.Value))
	}

	var tpx []gpx.ExtensionNode
	if included(t, opts, trackfix.MetricTemperature) && s.Temperature.Valid {
		tpx = append(tpx, extNode(trackPointExtensionNS, "atemp", s.Temperature.Value))
	}
	if included(t, opts, trackfix.MetricHeartRate) && s.HeartRate.Valid {
		tpx = append(tpx, extNode(trackPointExtensionNS, "hr", s.HeartRate.Value))
	}
	if included(t, opts, trackfix.MetricCadence) && s.Cadence.Valid {
		tpx = append(tpx, extNode(trackPointExtensionNS, "cad", s.Cadence.Value))
	}
	if len(tpx) > 0 {
		nodes = append(nodes, gpx.ExtensionNode{
			XMLName: xml.Name{Space: trackPointExtensionNS, Local: "TrackPointExtension"},
			Nodes:   tpx,
		})
	}
	return nodes
}

func extNode(space, local string, v float64) gpx.ExtensionNode {
	return gpx.ExtensionNode{
		XMLName: xml.Name{Space: space, Local: local},
		Data:    formatFloat(v, -1),
	}
}
