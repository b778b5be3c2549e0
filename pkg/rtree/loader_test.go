package rtree

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitSquare(x, y int, payload string) Entry[string] {
	return Entry[string]{
		MBR:     MBR{X1: float32(x), Y1: float32(y), X2: float32(x + 1), Y2: float32(y + 1)},
		Payload: payload,
	}
}

func TestBuildRejectsSmallCapacity(t *testing.T) {
	_, err := Build([]Entry[string]{}, 1)
	assert.Error(t, err)
}

func TestBuildEmpty(t *testing.T) {
	tree, err := Build([]Entry[string](nil), 4)
	require.NoError(t, err)

	assert.Equal(t, 0, tree.Size())
	assert.Equal(t, EmptyMBR, tree.Root().MBR)
	assert.Empty(t, tree.Entries())
}

func TestBuildSingleEntry(t *testing.T) {
	e := unitSquare(0, 0, "a")
	tree, err := Build([]Entry[string]{e}, 4)
	require.NoError(t, err)

	assert.Equal(t, 1, tree.Size())
	assert.True(t, tree.Root().IsLeaf())
	assert.Equal(t, e, tree.Root().Entry())
}

func TestBuildRoundTrip(t *testing.T) {
	var entries []Entry[string]
	for i := 0; i < 500; i++ {
		entries = append(entries, unitSquare(i%32, i/32, fmt.Sprintf("e%d", i)))
	}

	tree, err := Build(entries, 8)
	require.NoError(t, err)

	assert.Equal(t, len(entries), tree.Size())
	assertSameMultiset(t, entries, tree.Entries())
}

func TestBuildInvariants(t *testing.T) {
	var entries []Entry[string]
	for i := 0; i < 1000; i++ {
		entries = append(entries, unitSquare(i%32, i/32, fmt.Sprintf("e%d", i)))
	}

	capacity := 16
	tree, err := Build(entries, capacity)
	require.NoError(t, err)

	assertBalanced(t, &tree)
	assertMBRsCoverChildren(t, tree.Root())
	assertCapacityRespected(t, tree.Root(), capacity, true)
}

// Scenario C: unit squares filling a 32x32 grid (1024), capacity 16; a
// rectangle query covering (-0.5..1.5, -0.5..1.5) touches exactly the
// four squares at (0,0), (0,1), (1,0), (1,1).
func TestBuildScenarioC(t *testing.T) {
	var entries []Entry[string]
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			entries = append(entries, unitSquare(x, y, fmt.Sprintf("%d,%d", x, y)))
		}
	}
	tree, err := Build(entries, 16)
	require.NoError(t, err)

	results := tree.SearchAllRect(MBR{X1: -0.5, Y1: -0.5, X2: 1.5, Y2: 1.5})
	wantPayloads := map[string]bool{"0,0": true, "1,0": true, "0,1": true, "1,1": true}
	gotPayloads := map[string]bool{}
	for _, e := range results {
		gotPayloads[e.Payload] = true
	}
	assert.Equal(t, wantPayloads, gotPayloads)
}

func TestBuildDeterministicForSameInput(t *testing.T) {
	var entries []Entry[int]
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 300; i++ {
		x := float32(r.Intn(100))
		y := float32(r.Intn(100))
		entries = append(entries, Entry[int]{MBR: MBR{X1: x, Y1: y, X2: x + 1, Y2: y + 1}, Payload: i})
	}

	t1, err := Build(entries, 6)
	require.NoError(t, err)
	t2, err := Build(entries, 6)
	require.NoError(t, err)

	assert.Equal(t, t1.Entries(), t2.Entries(), "same input order and capacity must produce the same traversal order")
}

func assertSameMultiset[T comparable](t *testing.T, want, got []Entry[T]) {
	t.Helper()
	counts := make(map[Entry[T]]int, len(want))
	for _, e := range want {
		counts[e]++
	}
	for _, e := range got {
		counts[e]--
	}
	for e, c := range counts {
		assert.Zero(t, c, "multiset mismatch for entry %+v", e)
	}
	assert.Len(t, got, len(want))
}

func assertBalanced[T comparable](t *testing.T, tree *Tree[T]) {
	t.Helper()
	depth := -1
	var walk func(n *Node[T], d int)
	walk = func(n *Node[T], d int) {
		if n.IsLeaf() {
			if depth == -1 {
				depth = d
			} else {
				assert.Equal(t, depth, d, "all leaves must be at the same depth")
			}
			return
		}
		for i := range n.children {
			walk(&n.children[i], d+1)
		}
	}
	root := tree.Root()
	walk(&root, 0)
}

func assertMBRsCoverChildren[T comparable](t *testing.T, n Node[T]) {
	t.Helper()
	if n.IsLeaf() {
		return
	}
	if len(n.children) == 0 {
		return
	}
	want := n.children[0].MBR
	for _, c := range n.children[1:] {
		want = UnionMBR(want, c.MBR)
	}
	assert.Equal(t, want, n.MBR)
	for _, c := range n.children {
		assertMBRsCoverChildren(t, c)
	}
}

func assertCapacityRespected[T comparable](t *testing.T, n Node[T], capacity int, isRoot bool) {
	t.Helper()
	if n.IsLeaf() {
		return
	}
	assert.LessOrEqual(t, len(n.children), capacity)
	if !isRoot {
		assert.GreaterOrEqual(t, len(n.children), 1)
	}
	for _, c := range n.children {
		assertCapacityRespected(t, c, capacity, false)
	}
}
