// Package rtree implements an immutable, bulk-loaded, in-memory R-Tree
// over axis-aligned rectangles carrying an arbitrary comparable payload.
// The tree is built once by Build (or Merge/Diff/Update, which build a
// fresh tree from an old one) and never mutated in place; all read
// operations are safe for concurrent use without synchronization.
package rtree

import "math"

// MBR is a minimum bounding rectangle: x1 <= x2 and y1 <= y2 for every
// non-empty rectangle. Coordinates are 32-bit floats, matching the
// storage width of the leaf records they bound.
type MBR struct {
	X1, Y1, X2, Y2 float32
}

// EmptyMBR is the canonical empty rectangle: it never intersects a point
// or another rectangle, including itself.
var EmptyMBR = MBR{
	X1: float32(math.Inf(1)), Y1: float32(math.Inf(1)),
	X2: float32(math.Inf(-1)), Y2: float32(math.Inf(-1)),
}

// IntersectsPoint reports whether (x, y) lies within m, edges inclusive.
func (m MBR) IntersectsPoint(x, y float64) bool {
	return float64(m.X1) <= x && x <= float64(m.X2) &&
		float64(m.Y1) <= y && y <= float64(m.Y2)
}

// IntersectsRect reports whether m and o overlap, edges inclusive.
func (m MBR) IntersectsRect(o MBR) bool {
	return m.X1 <= o.X2 && o.X1 <= m.X2 && m.Y1 <= o.Y2 && o.Y1 <= m.Y2
}

// UnionMBR returns the smallest rectangle covering both a and b.
func UnionMBR(a, b MBR) MBR {
	return MBR{
		X1: minf32(a.X1, b.X1),
		Y1: minf32(a.Y1, b.Y1),
		X2: maxf32(a.X2, b.X2),
		Y2: maxf32(a.Y2, b.Y2),
	}
}

// Area returns the rectangle's area. For EmptyMBR both extents are
// -Inf, so its area is +Inf.
func (m MBR) Area() float64 {
	return float64(m.X2-m.X1) * float64(m.Y2-m.Y1)
}

// Center returns the rectangle's midpoint, used as the STR loader's
// sort key.
func (m MBR) Center() (x, y float64) {
	return (float64(m.X1) + float64(m.X2)) / 2, (float64(m.Y1) + float64(m.Y2)) / 2
}

func minf32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
