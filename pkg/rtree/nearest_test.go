package rtree

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNearestEmptyTree(t *testing.T) {
	tree, err := Build([]Entry[string](nil), 4)
	require.NoError(t, err)

	_, _, ok := tree.Nearest(0, 0, EuclideanPlane)
	assert.False(t, ok)
}

func TestNearestHitsContainingEntry(t *testing.T) {
	entries := []Entry[string]{
		{MBR: MBR{X1: 0, Y1: 0, X2: 1, Y2: 1}, Payload: "a"},
		{MBR: MBR{X1: 2, Y1: 2, X2: 3, Y2: 3}, Payload: "b"},
	}
	tree, err := Build(entries, 4)
	require.NoError(t, err)

	e, d, ok := tree.Nearest(0.5, 0.5, EuclideanPlane)
	require.True(t, ok)
	assert.Equal(t, "a", e.Payload)
	assert.Equal(t, 0.0, d)
}

// Scenario B: two unit squares, query point equidistant at ~0.707.
func TestNearestScenarioB(t *testing.T) {
	entries := []Entry[string]{
		{MBR: MBR{X1: 0, Y1: 0, X2: 1, Y2: 1}, Payload: "a"},
		{MBR: MBR{X1: 2, Y1: 2, X2: 3, Y2: 3}, Payload: "b"},
	}
	tree, err := Build(entries, 4)
	require.NoError(t, err)

	e, d, ok := tree.Nearest(1.5, 1.5, EuclideanPlane)
	require.True(t, ok)
	assert.Contains(t, []string{"a", "b"}, e.Payload)
	assert.InDelta(t, math.Sqrt(0.5), d, 1e-9)
}

func TestNearestIsDeterministicAcrossRuns(t *testing.T) {
	entries := []Entry[string]{
		{MBR: MBR{X1: 0, Y1: 0, X2: 1, Y2: 1}, Payload: "a"},
		{MBR: MBR{X1: 2, Y1: 2, X2: 3, Y2: 3}, Payload: "b"},
	}
	tree, err := Build(entries, 4)
	require.NoError(t, err)

	first, _, _ := tree.Nearest(1.5, 1.5, EuclideanPlane)
	for i := 0; i < 10; i++ {
		got, _, _ := tree.Nearest(1.5, 1.5, EuclideanPlane)
		assert.Equal(t, first, got)
	}
}

func TestNearestMatchesBruteForce(t *testing.T) {
	var entries []Entry[int]
	for i := 0; i < 300; i++ {
		x := float32((i * 37) % 97)
		y := float32((i * 53) % 89)
		entries = append(entries, Entry[int]{MBR: MBR{X1: x, Y1: y, X2: x + 1, Y2: y + 1}, Payload: i})
	}
	tree, err := Build(entries, 6)
	require.NoError(t, err)

	qx, qy := 42.3, 17.9
	_, got, ok := tree.Nearest(qx, qy, EuclideanPlane)
	require.True(t, ok)

	want := math.Inf(1)
	for _, e := range entries {
		if d := EuclideanPlane.Distance(qx, qy, e.MBR); d < want {
			want = d
		}
	}
	assert.InDelta(t, want, got, 1e-6)
}

func TestNearestWithinLimit(t *testing.T) {
	entries := []Entry[string]{
		{MBR: MBR{X1: 0, Y1: 0, X2: 1, Y2: 1}, Payload: "a"},
	}
	tree, err := Build(entries, 4)
	require.NoError(t, err)

	// Unconstrained distance from (5,0) to the unit square is 4.
	_, _, ok := tree.NearestWithin(5, 0, 3, EuclideanPlane)
	assert.False(t, ok, "limit tighter than the true distance must miss")

	_, d, ok := tree.NearestWithin(5, 0, 5, EuclideanPlane)
	require.True(t, ok)
	assert.InDelta(t, 4.0, d, 1e-9)
}
