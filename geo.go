package trackfix

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// EarthMeanRadius is the radius used for great-circle distances, in meters.
const EarthMeanRadius = 6372797.560856

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Distance returns the haversine great-circle distance between two samples
// in meters.
func Distance(p1, p2 *Sample) float64 {
	return HaversineDistance(p1.Lat, p1.Lon, p2.Lat, p2.Lon)
}

// HaversineDistance returns the great-circle distance between two points
// given in decimal degrees.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	if lat1 == lat2 && lon1 == lon2 {
		return 0
	}
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)
	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(radians(lat1))*math.Cos(radians(lat2))*sinLon*sinLon
	// rounding can leave h a hair outside [0, 1]
	h = math.Min(math.Max(h, 0), 1)
	return 2 * EarthMeanRadius * math.Asin(math.Sqrt(h))
}

// Bearing returns the initial bearing from p1 to p2 in degrees, in [0, 360).
func Bearing(p1, p2 *Sample) float64 {
	b := geo.Bearing(orb.Point{p1.Lon, p1.Lat}, orb.Point{p2.Lon, p2.Lat})
	b = math.Mod(b+360, 360)
	if b >= 360 {
		b = 0
	}
	return b
}
