// Package geoidx layers a persistent, hash-keyed lookup on top of the
// entry sequence produced by an rtree.Tree. It is not part of the
// tree's own search surface: it answers "does this exact entry exist,
// and how many copies" without rescanning the sequence, which is the
// question rtree.Diff asks once per removal.
//
// The index is immutable per version, mirroring the tree it describes:
// Remove returns a new Index and leaves the receiver untouched.
package geoidx

import (
	"encoding/binary"
	"fmt"
	"math"

	iradix "github.com/hashicorp/go-immutable-radix"
	"github.com/zeebo/xxh3"

	"github.com/kass/go-geo-index/pkg/rtree"
)

// Index is a persistent multiset of entries, keyed by a hash of their
// (MBR, payload) pair.
type Index[T comparable] struct {
	tree *iradix.Tree
}

// Build constructs an Index over entries. Duplicate entries (equal MBR
// and payload) accumulate a count rather than overwriting each other,
// so Remove and Subtract can cancel removals one instance at a time.
func Build[T comparable](entries []rtree.Entry[T]) *Index[T] {
	txn := iradix.New().Txn()
	for _, entry := range entries {
		key := entryKey(entry)
		if raw, ok := txn.Get(key); ok {
			txn.Insert(key, raw.(int)+1)
		} else {
			txn.Insert(key, 1)
		}
	}
	return &Index[T]{tree: txn.Commit()}
}

// Count returns how many copies of entry are present in the index.
func (idx *Index[T]) Count(entry rtree.Entry[T]) int {
	raw, ok := idx.tree.Get(entryKey(entry))
	if !ok {
		return 0
	}
	return raw.(int)
}

// Remove returns a new Index with one fewer copy of entry. Removing an
// entry that is not present (or already exhausted) is a no-op, matching
// rtree.Diff's "silently ignored" contract for unmatched removals.
func (idx *Index[T]) Remove(entry rtree.Entry[T]) *Index[T] {
	key := entryKey(entry)
	txn := idx.tree.Txn()
	if raw, ok := txn.Get(key); ok {
		if raw.(int) <= 1 {
			txn.Delete(key)
		} else {
			txn.Insert(key, raw.(int)-1)
		}
	}
	return &Index[T]{tree: txn.Commit()}
}

// Len reports the number of distinct (entry, count>0) keys, not the
// total multiset cardinality.
func (idx *Index[T]) Len() int {
	return idx.tree.Len()
}

// Subtract applies a multiset difference (entries \ removals) using
// the index for membership, returning the surviving entries in their
// original order. It is the geoidx-backed equivalent of the plain-map
// approach rtree.Diff uses internally; callers that already maintain a
// long-lived Index across repeated diffs benefit from the structural
// sharing iradix gives Remove.
func Subtract[T comparable](entries, removals []rtree.Entry[T]) []rtree.Entry[T] {
	idx := Build(removals)
	remaining := make([]rtree.Entry[T], 0, len(entries))
	for _, entry := range entries {
		if idx.Count(entry) > 0 {
			idx = idx.Remove(entry)
			continue
		}
		remaining = append(remaining, entry)
	}
	return remaining
}

// entryKey hashes an entry's bounding rectangle and payload into a
// 16-byte radix key. The payload is folded in via its default string
// representation since T carries no generic serialization of its own.
func entryKey[T comparable](entry rtree.Entry[T]) []byte {
	var buf [16]byte
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(entry.MBR.X1))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(entry.MBR.Y1))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(entry.MBR.X2))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(entry.MBR.Y2))

	payload := []byte(fmt.Sprintf("%v", entry.Payload))
	data := append(buf[:], payload...)

	sum := xxh3.Hash128(data)
	key := make([]byte, 16)
	binary.LittleEndian.PutUint64(key[0:8], sum.Hi)
	binary.LittleEndian.PutUint64(key[8:16], sum.Lo)
	return key
}
