package geo

import "math"

// EarthRadiusMeters is the mean earth radius used by HaversineDistance.
const EarthRadiusMeters = 6371000

// distanceEpsilon absorbs float noise when comparing a distance to a radius.
const distanceEpsilon = 1e-6

type Point struct {
	Latitude  float64
	Longitude float64
}

// HaversineDistance returns the great-circle distance between two points in meters.
func HaversineDistance(a, b Point) float64 {
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	lat1Rad := toRadians(a.Latitude)
	lat2Rad := toRadians(b.Latitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}

// Circle is a geofence: everything at most RadiusMeters from Center is inside.
type Circle struct {
	Center       Point
	RadiusMeters float64
}

// Contains reports whether p lies inside c and the distance from the center.
// The boundary is inclusive.
func (c Circle) Contains(p Point) (bool, float64) {
	d := HaversineDistance(c.Center, p)
	return d <= c.RadiusMeters+distanceEpsilon, d
}

// Offset returns the point reached by moving meters north (negative: south) and
// east (negative: west) of p. Accurate for the short distances used by geofences.
func Offset(p Point, northMeters, eastMeters float64) Point {
	lat := p.Latitude + toDegrees(northMeters/EarthRadiusMeters)
	lon := p.Longitude + toDegrees(eastMeters/(EarthRadiusMeters*math.Cos(toRadians(p.Latitude))))
	return Point{Latitude: lat, Longitude: lon}
}

func ValidLatitude(lat float64) bool  { return lat >= -90 && lat <= 90 }
func ValidLongitude(lon float64) bool { return lon >= -180 && lon <= 180 }

// ValidCoordinates reports whether lat/lon are within WGS84 bounds.
func ValidCoordinates(lat, lon float64) bool {
	return ValidLatitude(lat) && ValidLongitude(lon)
}

func toRadians(deg float64) float64 { return deg * (math.Pi / 180.0) }
func toDegrees(rad float64) float64 { return rad * (180.0 / math.Pi) }
