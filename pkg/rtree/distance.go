package rtree

import "math"

// earthRadiusKm is the mean radius used by the spherical calculator,
// matching the teacher's Haversine constant (WGS-84 mean radius,
// 6371.0088 km).
const earthRadiusKm = 6371.0088

// DistanceCalculator computes the minimum distance from a point to an
// MBR, returning 0 when the point lies inside the rectangle (edges
// inclusive). It is the pluggable metric used by Nearest for both
// pruning and the final answer.
type DistanceCalculator interface {
	Distance(x, y float64, m MBR) float64
}

// EuclideanPlane measures distance on a flat plane.
var EuclideanPlane DistanceCalculator = euclideanPlane{}

// SphericalEarth measures great-circle distance in kilometers,
// interpreting x as latitude and y as longitude in degrees, and is
// antimeridian-aware.
var SphericalEarth DistanceCalculator = sphericalEarth{}

type euclideanPlane struct{}

func (euclideanPlane) Distance(x, y float64, m MBR) float64 {
	cx, cy := m.Center()
	halfW := (float64(m.X2) - float64(m.X1)) / 2
	halfH := (float64(m.Y2) - float64(m.Y1)) / 2
	dx := math.Max(math.Abs(cx-x)-halfW, 0)
	dy := math.Max(math.Abs(cy-y)-halfH, 0)
	return math.Sqrt(dx*dx + dy*dy)
}

type sphericalEarth struct{}

func (sphericalEarth) Distance(lat, lon float64, m MBR) float64 {
	latMin, latMax := float64(m.X1), float64(m.X2)
	lonMin, lonMax := float64(m.Y1), float64(m.Y2)

	latIn := lat >= latMin && lat <= latMax
	lonIn := lon >= lonMin && lon <= lonMax

	switch {
	case latIn && lonIn:
		return 0
	case latIn && !lonIn:
		// Same latitude band: the nearer of the two longitude edges.
		// haversine is periodic in the longitude delta, so it already
		// yields the short way around the antimeridian without any
		// explicit unwrapping.
		return math.Min(
			haversineKm(lat, lon, lat, lonMin),
			haversineKm(lat, lon, lat, lonMax),
		)
	case lonIn && !latIn:
		// Same longitude band: the nearer of the two latitude edges,
		// measured along the meridian.
		return math.Min(
			haversineKm(lat, lon, latMin, lon),
			haversineKm(lat, lon, latMax, lon),
		)
	default:
		best := math.Inf(1)
		for _, corner := range [4][2]float64{
			{latMin, lonMin}, {latMin, lonMax},
			{latMax, lonMin}, {latMax, lonMax},
		} {
			if d := haversineKm(lat, lon, corner[0], corner[1]); d < best {
				best = d
			}
		}
		return best
	}
}

// haversineKm computes the great-circle distance between two lat/lon
// points, in kilometers, on a sphere of radius earthRadiusKm.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lon1Rad := lon1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	lon2Rad := lon2 * math.Pi / 180

	dLat := lat2Rad - lat1Rad
	dLon := lon2Rad - lon1Rad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}
