package annot

import (
	"sort"

	"lark/internal/names"
	"lark/internal/source"
)

// Entry pairs a span with the annotation recorded for it.
type Entry struct {
	Span  source.Span
	Annot Annot
}

// Map is the annotation table for one pass over one or more files.
// It is append-only until Sort, then read through a Cursor. Not safe
// for concurrent use; independent files get independent maps.
type Map struct {
	entries []Entry
	hidden  names.HiddenFunc
	sorted  bool
}

// New creates an empty map. The hidden predicate decides which names
// are suppressed at insert time; nil keeps every name.
func New(hidden names.HiddenFunc) *Map {
	if hidden == nil {
		hidden = names.NeverHidden
	}
	return &Map{hidden: hidden}
}

// FromEntries builds a map that takes ownership of already-processed
// entries, skipping insert-time filtering and marker synthesis.
// Codecs use it to rehydrate tables whose entries went through Insert
// when first recorded. The result counts as unsorted.
func FromEntries(entries []Entry) *Map {
	return &Map{entries: entries, hidden: names.NeverHidden}
}

func (m *Map) Len() int {
	return len(m.entries)
}

// Sorted reports whether the map has been sorted since the last
// insert or merge.
func (m *Map) Sorted() bool {
	return m.sorted
}

// Entries returns the underlying entries in current order. Callers
// must not modify the slice.
func (m *Map) Entries() []Entry {
	return m.entries
}

// Insert records an annotation for span. Declarations and references
// whose name the hidden predicate rejects are dropped. A reference to
// an atomic empty construct (unit, nil, a tuple constructor) also
// records a zero-width marker at the span's end, so the closing token
// of the literal resolves to the same reference as the opening one.
func (m *Map) Insert(span source.Span, a Annot) {
	switch v := a.(type) {
	case Decl:
		if m.hidden(v.Name) {
			return
		}
	case Ref:
		if m.hidden(v.Name) {
			return
		}
	}

	m.entries = append(m.entries, Entry{Span: span, Annot: a})
	if ref, ok := a.(Ref); ok && names.IsAtomicLiteral(ref.Name) {
		marker := source.Span{File: span.File, Start: span.End, End: span.End}
		m.entries = append(m.entries, Entry{Span: marker, Annot: a})
	}
	m.sorted = false
}

// Merge appends every entry of other, preserving relative order in
// both operands. Used to combine tables from independently processed
// branches or files before the final sort. The receiver keeps its own
// hidden predicate; other's entries were already filtered at their
// insert time.
func (m *Map) Merge(other *Map) {
	if other == nil || len(other.entries) == 0 {
		return
	}
	m.entries = append(m.entries, other.entries...)
	m.sorted = false
}

// Sort orders entries by span start only. Entries sharing a start
// keep their relative order; span ends never participate. Call once
// after the walk completes and before the first Cursor.
func (m *Map) Sort() {
	sort.SliceStable(m.entries, func(i, j int) bool {
		return m.entries[i].Span.StartPos().Before(m.entries[j].Span.StartPos())
	})
	m.sorted = true
}

// Rebase rewrites the file component of every span through remap.
// Files missing from remap keep their id. Entry order is unchanged,
// but the map must be re-sorted before lookup since file ids take
// part in position order.
func (m *Map) Rebase(remap map[source.FileID]source.FileID) {
	if len(remap) == 0 {
		return
	}
	for i := range m.entries {
		if id, ok := remap[m.entries[i].Span.File]; ok {
			m.entries[i].Span.File = id
		}
	}
	m.sorted = false
}
