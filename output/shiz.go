package output

import (
	"encoding/json"
	"io"

	"github.com/lucasjlepore/trackfix"
)

// shizDoc follows the FulGaz .shiz layout: durations in hh:mm:ss, distance
// in km, elevation in m and speed in km/h.
type shizDoc struct {
	Extra shizExtra `json:"extra"`
	GPX   shizGPX   `json:"gpx"`
}

type shizExtra struct {
	Duration        string      `json:"duration"`
	Distance        json.Number `json:"distance"`
	Toughness       string      `json:"toughness"`
	ElevationGain   uint        `json:"elevation_gain"`
	DateProcessed   string      `json:"date_processed"`
	SpeedFilter     string      `json:"speed_filter"`
	ElevationFilter string      `json:"elevation_filter"`
	GradeFilter     string      `json:"grade_filter"`
	Timeshift       string      `json:"timeshift"`
}

type shizGPX struct {
	Trk struct {
		Trkseg struct {
			Trkpt []shizPoint `json:"trkpt"`
		} `json:"trkseg"`
	} `json:"trk"`
	Seg []struct{} `json:"seg"`
}

type shizPoint struct {
	Lon      string `json:"-lon"`
	Lat      string `json:"-lat"`
	Speed    string `json:"speed"`
	Ele      string `json:"ele"`
	Distance string `json:"distance"`
	Bearing  string `json:"bearing"`
	Slope    string `json:"slope"`
	Time     string `json:"time"`
	Index    int    `json:"index"`
	Cadence  int    `json:"cadence"`
	P        int    `json:"p"`
}

func writeShiz(w io.Writer, t *trackfix.Track) error {
	doc := shizDoc{
		Extra: shizExtra{
			Duration:        formatHMS(t.Time),
			Distance:        json.Number(formatFloat(mToKm(t.Distance), 5)),
			Toughness:       "100",
			ElevationGain:   uint(t.ElevationGain),
			DateProcessed:   now().UTC().Format("Monday, January 02, 2006"),
			SpeedFilter:     "0",
			ElevationFilter: "0",
			GradeFilter:     "0",
			Timeshift:       "0",
		},
	}
	doc.GPX.Seg = []struct{}{}

	base := t.First().Time()
	points := make([]shizPoint, 0, t.Len())
	for s := t.First(); s != nil; s = t.Next(s) {
		points = append(points, shizPoint{
			Lon:      formatFloat(s.Lon, 7),
			Lat:      formatFloat(s.Lat, 7),
			Speed:    formatFloat(mpsToKmh(s.Speed.Value), 1),
			Ele:      formatFloat(s.Elevation.Value, 3),
			Distance: formatFloat(mToKm(s.Distance.Value), 5),
			Bearing:  formatFloat(s.Bearing, 2),
			Slope:    formatFloat(s.Grade.Value, 1),
			Time:     formatHMS(s.Time() - base),
			Index:    s.Index,
			Cadence:  int(s.Cadence.Or(0)),
		})
	}
	doc.GPX.Trk.Trkseg.Trkpt = points

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(doc)
}
