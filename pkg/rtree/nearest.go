package rtree

import (
	"math"
	"sort"
)

// Nearest returns the entry of minimum distance under calc, or false if
// the tree is empty. Equivalent to NearestWithin with an unbounded
// maxDistance.
func (t Tree[T]) Nearest(x, y float64, calc DistanceCalculator) (Entry[T], float64, bool) {
	return t.NearestWithin(x, y, math.Inf(1), calc)
}

// NearestWithin returns the entry of minimum distance under calc among
// those strictly closer than maxDistance, or false if none qualifies
// (including on an empty tree). Ties between equidistant entries are
// broken deterministically: the first one visited under the
// distance-ordered recursion wins.
func (t Tree[T]) NearestWithin(x, y, maxDistance float64, calc DistanceCalculator) (Entry[T], float64, bool) {
	st := nearestSearch[T]{x: x, y: y, calc: calc, best: maxDistance}
	st.visit(&t.root)
	return st.entry, st.best, st.found
}

type nearestSearch[T comparable] struct {
	x, y  float64
	calc  DistanceCalculator
	best  float64
	found bool
	entry Entry[T]
}

type childDistance struct {
	index int
	dist  float64
}

func (s *nearestSearch[T]) visit(n *Node[T]) {
	d := s.calc.Distance(s.x, s.y, n.MBR)
	if d >= s.best {
		return
	}
	if n.IsLeaf() {
		s.best = d
		s.found = true
		s.entry = n.entry
		return
	}

	order := make([]childDistance, len(n.children))
	for i := range n.children {
		order[i] = childDistance{index: i, dist: s.calc.Distance(s.x, s.y, n.children[i].MBR)}
	}
	sort.Slice(order, func(i, j int) bool { return order[i].dist < order[j].dist })

	for _, o := range order {
		s.visit(&n.children[o.index])
	}
}
