package output

import (
	"encoding/json"
	"io"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/lucasjlepore/trackfix"
)

// writeGeoJSON emits the track as a single LineString feature. Totals go in
// the feature properties and per-sample times in a coordinate-aligned array.
func writeGeoJSON(w io.Writer, t *trackfix.Track, opts Options) error {
	line := make(orb.LineString, 0, t.Len())
	times := make([]float64, 0, t.Len())
	elevations := make([]float64, 0, t.Len())
	for s := t.First(); s != nil; s = t.Next(s) {
		line = append(line, orb.Point{s.Lon, s.Lat})
		times = append(times, s.Time())
		elevations = append(elevations, s.Elevation.Value)
	}

	f := geojson.NewFeature(line)
	f.BBox = geojson.NewBBox(t.Bound())
	f.Properties["name"] = opts.Name
	f.Properties["activity"] = activity(t, opts).String()
	f.Properties["distance_m"] = t.Distance
	f.Properties["time_s"] = t.Time
	f.Properties["moving_time_s"] = t.MovingTime
	f.Properties["elevation_gain_m"] = t.ElevationGain
	f.Properties["elevation_loss_m"] = t.ElevationLoss
	f.Properties["max_speed_mps"] = t.Speed.Max.Value
	f.Properties["times"] = times
	f.Properties["elevations"] = elevations
	if included(t, opts, trackfix.MetricPower) {
		f.Properties["avg_power_w"] = t.Power.Avg()
	}
	if included(t, opts, trackfix.MetricHeartRate) {
		f.Properties["avg_hr_bpm"] = t.HeartRate.Avg()
	}

	fc := geojson.NewFeatureCollection()
	fc.Append(f)

	data, err := json.Marshal(fc)
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
