package rtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDepthEmptyTree(t *testing.T) {
	tree, err := Build[string](nil, 4)
	assert.NoError(t, err)
	assert.Equal(t, 0, tree.Size())
	assert.Equal(t, 0, tree.Depth())
}

func TestDepthSingleEntry(t *testing.T) {
	tree, err := Build([]Entry[string]{
		{MBR: MBR{X1: 0, Y1: 0, X2: 1, Y2: 1}, Payload: "a"},
	}, 4)
	assert.NoError(t, err)
	assert.Equal(t, 1, tree.Depth())
}

func TestDepthMultiLevel(t *testing.T) {
	entries := make([]Entry[int], 100)
	for i := range entries {
		x := float32(i)
		entries[i] = Entry[int]{MBR: MBR{X1: x, Y1: x, X2: x, Y2: x}, Payload: i}
	}
	tree, err := Build(entries, 4)
	assert.NoError(t, err)
	assert.Greater(t, tree.Depth(), 1)
}
