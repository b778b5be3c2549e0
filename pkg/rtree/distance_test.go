package rtree

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEuclideanPlaneInside(t *testing.T) {
	m := MBR{X1: 0, Y1: 0, X2: 2, Y2: 2}
	assert.Equal(t, 0.0, EuclideanPlane.Distance(1, 1, m))
	assert.Equal(t, 0.0, EuclideanPlane.Distance(0, 0, m), "edges are inclusive")
}

func TestEuclideanPlaneOutside(t *testing.T) {
	m := MBR{X1: 0, Y1: 0, X2: 1, Y2: 1}

	// Scenario B: two unit squares at (0,0)-(1,1) and (2,2)-(3,3); the
	// query point (1.5, 1.5) is equidistant, d = sqrt(0.5^2+0.5^2).
	d := EuclideanPlane.Distance(1.5, 1.5, m)
	assert.InDelta(t, math.Sqrt(0.5), d, 1e-9)
}

func TestSphericalEarthInside(t *testing.T) {
	m := MBR{X1: 0, Y1: 0, X2: 1, Y2: 1}
	assert.Equal(t, 0.0, SphericalEarth.Distance(0.5, 0.5, m))
	assert.Equal(t, 0.0, SphericalEarth.Distance(0, 0, m), "edges are inclusive")
}

func TestSphericalEarthAntimeridian(t *testing.T) {
	// Scenario E: entry spans lat 0..1, lon 179..180. The query point
	// sits just across the dateline; the true distance is the short
	// ~55.6km hop, not the ~39900km long way around.
	m := MBR{X1: 0, Y1: 179, X2: 1, Y2: 180}

	got := SphericalEarth.Distance(0.5, -179.5, m)
	want := haversineKm(0.5, -179.5, 0.5, 180)

	assert.InDelta(t, want, got, 0.1)
	assert.Less(t, got, 100.0, "must take the short way across the antimeridian")
}

func TestSphericalEarthCornerBound(t *testing.T) {
	m := MBR{X1: 10, Y1: 10, X2: 20, Y2: 20}
	lat, lon := 0.0, 0.0

	got := SphericalEarth.Distance(lat, lon, m)

	minCorner := math.Inf(1)
	for _, c := range [4][2]float64{{10, 10}, {10, 20}, {20, 10}, {20, 20}} {
		if d := haversineKm(lat, lon, c[0], c[1]); d < minCorner {
			minCorner = d
		}
	}

	assert.LessOrEqual(t, got, minCorner+0.1)
}

func TestSphericalEarthLatitudeBandOutsideLongitude(t *testing.T) {
	m := MBR{X1: 10, Y1: 0, X2: 12, Y2: 2}
	got := SphericalEarth.Distance(11, 50, m)

	want := math.Min(haversineKm(11, 50, 11, 0), haversineKm(11, 50, 11, 2))
	assert.InDelta(t, want, got, 0.1)
}
