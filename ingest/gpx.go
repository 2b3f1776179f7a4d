package ingest

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tkrajina/gpxgo/gpx"

	"github.com/lucasjlepore/trackfix"
)

// GPX reads track and route points from GPX 1.0/1.1 files, including the
// <power> and Garmin TrackPointExtension sensor values.
type GPX struct{}

func (GPX) Read(r io.Reader, source string, t *trackfix.Track) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	doc, err := gpx.ParseBytes(data)
	if err != nil {
		return fmt.Errorf("parse GPX: %w", err)
	}

	rec := 0
	add := func(pt gpx.GPXPoint) {
		rec++
		s := trackfix.NewSample(t.NextIndex(), source, rec, pt.Latitude, pt.Longitude)
		if pt.Elevation.NotNull() {
			s.Elevation.Set(pt.Elevation.Value())
		}
		if !pt.Timestamp.IsZero() {
			s.Timestamp.Set(epochSeconds(pt.Timestamp))
		}
		readGPXExtensions(pt.Extensions.Nodes, s, &t.InputMask)
		t.Append(s)
	}

	for _, trk := range doc.Tracks {
		if t.Activity == trackfix.ActivityUndefined {
			if n, err := strconv.Atoi(strings.TrimSpace(trk.Type)); err == nil {
				t.Activity = trackfix.ActivityType(n)
			}
		}
		for _, seg := range trk.Segments {
			for _, pt := range seg.Points {
				add(pt)
			}
		}
	}
	for _, rte := range doc.Routes {
		for _, pt := range rte.Points {
			add(pt)
		}
	}
	return nil
}

func readGPXExtensions(nodes []gpx.ExtensionNode, s *trackfix.Sample, mask *trackfix.Metric) {
	for _, n := range nodes {
		if len(n.Nodes) > 0 {
			readGPXExtensions(n.Nodes, s, mask)
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(n.Data), 64)
		if err != nil {
			continue
		}
		switch strings.ToLower(n.XMLName.Local) {
		case "power":
			s.Power.Set(v)
			*mask |= trackfix.MetricPower
		case "atemp":
			s.Temperature.Set(v)
			*mask |= trackfix.MetricTemperature
		case "hr":
			s.HeartRate.Set(v)
			*mask |= trackfix.MetricHeartRate
		case "cad":
			s.Cadence.Set(v)
			*mask |= trackfix.MetricCadence
		}
	}
}
