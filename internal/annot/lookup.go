package annot

import (
	"sort"

	"lark/internal/source"
)

// Cursor is a monotonic read position over a sorted map. Lookups
// consume entries: whatever falls behind the cursor is unreachable
// afterwards, which is what lets a consumer scan a file left to right
// in one pass. Cursors are values; the advanced cursor returned by
// Lookup is the only way forward.
type Cursor struct {
	m   *Map
	idx int
}

// Cursor returns a cursor at the start of the table. The map must be
// sorted; reading an unsorted map is a caller bug and yields garbage
// groupings rather than an error.
func (m *Map) Cursor() Cursor {
	return Cursor{m: m}
}

// Remaining reports how many entries the cursor has not consumed.
func (c Cursor) Remaining() int {
	if c.m == nil {
		return 0
	}
	return len(c.m.entries) - c.idx
}

// Lookup resolves the annotations whose span starts exactly at pos.
//
// Entries starting before pos are skipped permanently. Co-located
// candidates collapse to one winner per priority bucket (the highest
// rank in the bucket wins), implicit-argument docs fold into every
// surviving reference, and the survivors come back in ascending
// bucket order together with the advanced cursor. An empty result
// means no information at pos; that is a normal outcome, not an
// error.
func (c Cursor) Lookup(pos source.Pos) ([]Entry, Cursor) {
	if c.m == nil {
		return nil, c
	}
	entries := c.m.entries
	i := c.idx
	for i < len(entries) && entries[i].Span.StartPos().Before(pos) {
		i++
	}
	lo := i
	for i < len(entries) && entries[i].Span.StartPos() == pos {
		i++
	}
	next := Cursor{m: c.m, idx: i}
	if lo == i {
		return nil, next
	}
	candidates := entries[lo:i]

	// Implicit bundles are donors: pull their docs out in encountered
	// order and drop them from the tie-break entirely.
	var implicitDocs []string
	kept := make([]Entry, 0, len(candidates))
	for _, e := range candidates {
		if imp, ok := e.Annot.(Implicits); ok {
			implicitDocs = append(implicitDocs, imp.Doc)
			continue
		}
		kept = append(kept, e)
	}
	if len(kept) == 0 {
		return nil, next
	}

	sort.SliceStable(kept, func(a, b int) bool {
		return rank(kept[a].Annot) < rank(kept[b].Annot)
	})

	// Ranks ascend, so buckets form runs; the last entry of a run is
	// the highest-ranked in its bucket.
	results := make([]Entry, 0, 4)
	for idx, e := range kept {
		if idx+1 < len(kept) && bucket(rank(kept[idx+1].Annot)) == bucket(rank(e.Annot)) {
			continue
		}
		results = append(results, e)
	}

	if len(implicitDocs) > 0 {
		for ri, e := range results {
			ref, ok := e.Annot.(Ref)
			if !ok {
				continue
			}
			docs := make([]string, 0, len(ref.Docs)+len(implicitDocs))
			docs = append(docs, ref.Docs...)
			docs = append(docs, implicitDocs...)
			ref.Docs = docs
			results[ri].Annot = ref
		}
	}
	return results, next
}
