package rtree

import (
	"fmt"
	"math"
	"sort"
)

// Build bulk-loads entries into a balanced tree of the given node
// capacity using Sort-Tile-Recursive packing (§4.4). capacity must be
// at least 2; any other input, including an empty entries slice, is
// accepted.
func Build[T comparable](entries []Entry[T], capacity int) (Tree[T], error) {
	if capacity < 2 {
		return Tree[T]{}, fmt.Errorf("rtree: node capacity must be >= 2, got %d", capacity)
	}

	level := make([]Node[T], len(entries))
	for i, e := range entries {
		level[i] = leafNode(e)
	}

	root := packLevel(level, capacity)
	return Tree[T]{root: root, capacity: capacity, size: len(entries)}, nil
}

// packLevel applies one or more rounds of STR tiling to level (a
// homogeneous sequence of either leaf nodes or branch nodes from the
// level below) until it collapses into a single root node.
func packLevel[T comparable](level []Node[T], capacity int) Node[T] {
	switch {
	case len(level) == 0:
		return emptyNode[T]()
	case len(level) == 1:
		return level[0]
	case len(level) <= capacity:
		return branchOf(level)
	default:
		return packLevel(strTile(level, capacity), capacity)
	}
}

// strTile partitions level into vertical slices sorted by MBR center
// x, then tiles within each slice sorted by MBR center y, producing one
// branch per tile (§4.4 steps 3-6). The last slice and the last tile of
// each slice may be shorter than the nominal size, never empty.
func strTile[T comparable](level []Node[T], capacity int) []Node[T] {
	n := len(level)
	tiles := ceilDiv(n, capacity)
	slices := int(math.Ceil(math.Sqrt(float64(tiles))))
	sliceSize := ceilDiv(n, slices)

	sorted := make([]Node[T], n)
	copy(sorted, level)
	sort.SliceStable(sorted, func(i, j int) bool {
		xi, _ := sorted[i].MBR.Center()
		xj, _ := sorted[j].MBR.Center()
		return xi < xj
	})

	out := make([]Node[T], 0, tiles)
	for start := 0; start < n; start += sliceSize {
		end := start + sliceSize
		if end > n {
			end = n
		}
		slice := sorted[start:end]
		sort.SliceStable(slice, func(i, j int) bool {
			_, yi := slice[i].MBR.Center()
			_, yj := slice[j].MBR.Center()
			return yi < yj
		})
		for ts := 0; ts < len(slice); ts += capacity {
			te := ts + capacity
			if te > len(slice) {
				te = len(slice)
			}
			out = append(out, branchOf(slice[ts:te]))
		}
	}
	return out
}

func ceilDiv(n, d int) int {
	return (n + d - 1) / d
}
