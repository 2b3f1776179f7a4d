package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/lucasjlepore/trackfix"
	"github.com/lucasjlepore/trackfix/ingest"
)

const epoch = 1700000000.0

// processedTrack returns a five point climb sampled once a second with
// power and heart rate.
func processedTrack(t *testing.T) *trackfix.Track {
	t.Helper()
	tr := trackfix.NewTrack()
	for i := 0; i < 5; i++ {
		s := trackfix.NewSample(tr.NextIndex(), "ride.gpx", i+1, 45+float64(i)*0.0001, -75)
		s.Elevation.Set(100 + float64(i)*0.5)
		s.Timestamp.Set(epoch + float64(i))
		s.Power.Set(200 + float64(i))
		s.HeartRate.Set(130 + float64(i))
		tr.Append(s)
	}
	tr.InputMask = trackfix.MetricPower | trackfix.MetricHeartRate
	tr.Activity = trackfix.ActivityRide

	p, err := trackfix.NewProcessor(trackfix.Config{})
	require.NoError(t, err)
	require.NoError(t, p.Process(tr))
	return tr
}

func render(t *testing.T, tr *trackfix.Track, opts Options) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, tr, opts))
	return buf.Bytes()
}

func TestMain(m *testing.M) {
	now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	m.Run()
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("TCX")
	require.NoError(t, err)
	assert.Equal(t, FormatTCX, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatGPX, f)
	assert.True(t, FormatParquet.Binary())

	_, err = ParseFormat("kml")
	assert.Error(t, err)
}

func TestParseRelTime(t *testing.T) {
	r, err := ParseRelTime("hms")
	require.NoError(t, err)
	assert.Equal(t, RelTimeHMS, r)

	_, err = ParseRelTime("ms")
	assert.Error(t, err)
}

func TestFormatHMS(t *testing.T) {
	assert.Equal(t, "00:00:00", formatHMS(-3))
	assert.Equal(t, "01:02:03", formatHMS(3723.9))
	assert.Equal(t, "27:00:00", formatHMS(27*3600))
}

func TestCSVRoundTrip(t *testing.T) {
	tr := processedTrack(t)
	data := render(t, tr, Options{Format: FormatCSV, Include: trackfix.MetricAll})

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, strings.Join(trackfix.CSVHeader, ","), lines[0])

	back := trackfix.NewTrack()
	require.NoError(t, ingest.ReadBytes("out.csv", data, back))
	require.Equal(t, tr.Len(), back.Len())

	want, got := tr.Samples(), back.Samples()
	for i := range want {
		assert.InDelta(t, want[i].Lat, got[i].Lat, 1e-9)
		assert.InDelta(t, want[i].Lon, got[i].Lon, 1e-9)
		assert.InDelta(t, want[i].Elevation.Value, got[i].Elevation.Value, 1e-9)
		assert.Equal(t, want[i].Power, got[i].Power)
		assert.Equal(t, want[i].HeartRate, got[i].HeartRate)
		assert.InDelta(t, want[i].Time(), got[i].Timestamp.Value, 1e-3)
	}
	assert.Equal(t, tr.InputMask, back.InputMask)
}

func TestCSVFilterAndRelativeTime(t *testing.T) {
	tr := processedTrack(t)
	data := render(t, tr, Options{Format: FormatCSV, Include: trackfix.MetricHeartRate, RelTime: RelTimeHMS})

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	last := strings.Split(lines[len(lines)-1], ",")
	assert.Equal(t, "00:00:04", last[3])
	assert.Equal(t, "", last[7], "power is filtered out")
	assert.Equal(t, "134", last[10])
}

func TestGPXRoundTrip(t *testing.T) {
	tr := processedTrack(t)
	data := render(t, tr, Options{Format: FormatGPX, Include: trackfix.MetricAll, Name: "Climb"})
	assert.Contains(t, string(data), `creator="trackfix"`)
	assert.Contains(t, string(data), "<type>1</type>")
	assert.Contains(t, string(data), "TrackPointExtension")

	back := trackfix.NewTrack()
	require.NoError(t, ingest.ReadBytes("out.gpx", data, back))
	require.Equal(t, tr.Len(), back.Len())
	assert.Equal(t, trackfix.ActivityRide, back.Activity)
	assert.Equal(t, trackfix.MetricPower|trackfix.MetricHeartRate, back.InputMask)
	assert.Equal(t, trackfix.Some(204), back.Last().Power)
	assert.InDelta(t, tr.Last().Time(), back.Last().Timestamp.Value, 1e-3)
	assert.InDelta(t, tr.Last().Lat, back.Last().Lat, 1e-9)
	assert.InDelta(t, tr.Last().Lon, back.Last().Lon, 1e-9)
}

func TestTCXRoundTrip(t *testing.T) {
	tr := processedTrack(t)
	data := render(t, tr, Options{Format: FormatTCX, Include: trackfix.MetricAll, Activity: trackfix.ActivityRun})
	assert.Contains(t, string(data), `Sport="Running"`)
	assert.Contains(t, string(data), "<TriggerMethod>Manual</TriggerMethod>")

	data = render(t, tr, Options{Format: FormatTCX, Creator: "Garmin Edge"})
	assert.Contains(t, string(data), "<Name>Garmin Edge</Name>")

	back := trackfix.NewTrack()
	require.NoError(t, ingest.ReadBytes("out.tcx", data, back))
	require.Equal(t, tr.Len(), back.Len())
	assert.Equal(t, trackfix.ActivityRun, back.Activity)
	assert.InDelta(t, tr.Distance, back.Last().Distance.Value, 1e-6)
	assert.Equal(t, trackfix.Some(134), back.Last().HeartRate)
	assert.Equal(t, trackfix.Some(204), back.Last().Power)
}

func TestFITRoundTrip(t *testing.T) {
	tr := processedTrack(t)
	data := render(t, tr, Options{Format: FormatFIT, Include: trackfix.MetricAll})

	back := trackfix.NewTrack()
	require.NoError(t, ingest.ReadBytes("out.fit", data, back))
	require.Equal(t, tr.Len(), back.Len())
	assert.Equal(t, trackfix.ActivityRide, back.Activity)

	want, got := tr.Samples(), back.Samples()
	for i := range want {
		assert.InDelta(t, want[i].Lat, got[i].Lat, 1e-6)
		assert.InDelta(t, want[i].Lon, got[i].Lon, 1e-6)
		assert.Equal(t, want[i].Power, got[i].Power)
		assert.InDelta(t, want[i].Elevation.Value, got[i].Elevation.Value, 0.2)
	}
}

func TestShizLayout(t *testing.T) {
	tr := processedTrack(t)
	data := render(t, tr, Options{Format: FormatShiz})
	require.True(t, gjson.ValidBytes(data))

	doc := gjson.ParseBytes(data)
	assert.Equal(t, "00:00:04", doc.Get("extra.duration").String())
	assert.Equal(t, "100", doc.Get("extra.toughness").String())
	assert.Equal(t, "Friday, March 01, 2024", doc.Get("extra.date_processed").String())
	assert.InDelta(t, tr.Distance/1000, doc.Get("extra.distance").Float(), 1e-5)
	assert.True(t, doc.Get("gpx.seg").IsArray())

	pts := doc.Get("gpx.trk.trkseg.trkpt").Array()
	require.Len(t, pts, 5)
	assert.Equal(t, "-75.0000000", pts[0].Get("-lon").String())
	assert.Equal(t, "00:00:03", pts[3].Get("time").String())
	assert.Equal(t, int64(3), pts[3].Get("index").Int())
}

func TestGeoJSONFeature(t *testing.T) {
	tr := processedTrack(t)
	data := render(t, tr, Options{Format: FormatGeoJSON, Include: trackfix.MetricAll, Name: "Climb"})

	doc := gjson.ParseBytes(data)
	assert.Equal(t, "FeatureCollection", doc.Get("type").String())
	feature := doc.Get("features.0")
	assert.Equal(t, "LineString", feature.Get("geometry.type").String())
	assert.Len(t, feature.Get("geometry.coordinates").Array(), 5)
	assert.Equal(t, "Climb", feature.Get("properties.name").String())
	assert.InDelta(t, tr.Distance, feature.Get("properties.distance_m").Float(), 1e-9)
	assert.InDelta(t, 202, feature.Get("properties.avg_power_w").Float(), 1e-9)
	assert.Len(t, feature.Get("bbox").Array(), 4)
}

func TestParquetOutput(t *testing.T) {
	tr := processedTrack(t)
	data := render(t, tr, Options{Format: FormatParquet, Include: trackfix.MetricAll})
	require.Greater(t, len(data), 8)
	assert.Equal(t, "PAR1", string(data[:4]))
	assert.Equal(t, "PAR1", string(data[len(data)-4:]))
}

func TestSummary(t *testing.T) {
	tr := processedTrack(t)
	out := string(render(t, tr, Options{Format: FormatCSV, Summary: true}))

	assert.Contains(t, out, "      numTrkPts: 5\n")
	assert.Contains(t, out, "    dateAndTime: 2023-11-14T22:13:20\n")
	assert.Contains(t, out, "      totalTime: 00:00:04\n")
	assert.Contains(t, out, "        maxElev: 102.000 m @ TrkPt #4 (ride.gpx:5) : time = 4 s")
	assert.Contains(t, out, "       maxPower: 204 watts @ TrkPt #4")
	assert.Contains(t, out, "       minPower: 200 watts @ TrkPt #0")
	assert.Contains(t, out, "          avgHR: 132 bpm\n")
	assert.NotContains(t, out, "Cadence")
	assert.NotContains(t, out, "<inFile>")
}

func TestWriteEmptyTrack(t *testing.T) {
	err := Write(&bytes.Buffer{}, trackfix.NewTrack(), Options{Format: FormatCSV})
	assert.ErrorIs(t, err, trackfix.ErrNoSamples)
}
