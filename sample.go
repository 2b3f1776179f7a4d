package trackfix

import "fmt"

// Float is an optional float64 reading. The zero value is unset.
type Float struct {
	Value float64
	Valid bool
}

// Some returns a set Float.
func Some(v float64) Float {
	return Float{Value: v, Valid: true}
}

// Or returns the value when set and def otherwise.
func (f Float) Or(def float64) float64 {
	if !f.Valid {
		return def
	}
	return f.Value
}

// Set stores v and marks the value present.
func (f *Float) Set(v float64) {
	f.Value = v
	f.Valid = true
}

// Sample is one track point: a recorded observation plus the values derived
// from its predecessor.
type Sample struct {
	Index  int
	Source string
	Line   int

	Timestamp   Float // seconds since epoch
	Lat         float64
	Lon         float64
	Elevation   Float // m
	Temperature Float // C
	Cadence     Float // rpm
	HeartRate   Float // bpm
	Power       Float // W
	Speed       Float // m/s
	Distance    Float // m from start
	Grade       Float // %

	Run        float64 // horizontal displacement from the previous sample, m
	Rise       float64 // vertical displacement, m
	Dist       float64 // true displacement, m
	DeltaT     float64 // s
	Bearing    float64 // degrees in [0, 360)
	DeltaGrade float64

	GradeAdjusted bool
	AdjustedTime  Float

	slot    int
	removed bool
}

// NewSample returns a sample with the given identity and position.
func NewSample(index int, source string, line int, lat, lon float64) *Sample {
	return &Sample{
		Index:  index,
		Source: source,
		Line:   line,
		Lat:    lat,
		Lon:    lon,
		slot:   -1,
	}
}

// Loc formats the provenance of the sample as file:line.
func (s *Sample) Loc() string {
	if s == nil {
		return ""
	}
	return fmt.Sprintf("%s:%d", s.Source, s.Line)
}

// Time returns the timestamp used for output: the adjusted one when present.
func (s *Sample) Time() float64 {
	if s.AdjustedTime.Valid {
		return s.AdjustedTime.Value
	}
	return s.Timestamp.Or(0)
}

// CSVHeader is the column banner of the trackfix CSV layout. Distance is
// written in km and speed in km/h.
var CSVHeader = []string{
	"<inFile>", "<line#>", "<trkpt>", "<time>", "<lat>", "<lon>", "<ele>",
	"<power>", "<atemp>", "<cadence>", "<hr>", "<deltaT>", "<run>", "<rise>",
	"<dist>", "<distance>", "<speed>", "<grade>", "<deltaG>",
}
