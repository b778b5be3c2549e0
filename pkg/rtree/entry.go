package rtree

import "fmt"

// Entry is a leaf record: a bounding rectangle plus an opaque payload.
// Entries are value types; the tree copies them into leaves and into
// any sequence it returns.
//
// T must be comparable because Diff and Update match removals against
// the existing entry set by structural equality (§4.6/§9: bitwise
// coordinate equality plus payload equality).
type Entry[T comparable] struct {
	MBR     MBR
	Payload T
}

// Equal reports structural equality: identical coordinates (bitwise)
// and an equal payload. Callers wanting coordinate tolerance must
// pre-round before building entries.
func (e Entry[T]) Equal(o Entry[T]) bool {
	return e.MBR == o.MBR && e.Payload == o.Payload
}

// Less gives entries a deterministic total order (by MBR, then by the
// payload's formatted representation), for callers that want a
// canonical ordering over Entries() output rather than relying on
// traversal order.
func (e Entry[T]) Less(o Entry[T]) bool {
	if e.MBR != o.MBR {
		return lessMBR(e.MBR, o.MBR)
	}
	return fmt.Sprint(e.Payload) < fmt.Sprint(o.Payload)
}

func lessMBR(a, b MBR) bool {
	switch {
	case a.X1 != b.X1:
		return a.X1 < b.X1
	case a.Y1 != b.Y1:
		return a.Y1 < b.Y1
	case a.X2 != b.X2:
		return a.X2 < b.X2
	default:
		return a.Y2 < b.Y2
	}
}
