package testkit

import (
	"fmt"

	"lark/internal/annot"
	"lark/internal/source"
)

// CheckMapInvariants runs a minimal set of invariants on an annotation map:
// 1) every entry has a well-formed span (Start <= End) and a non-nil annotation
// 2) references never carry a nil info variant
// 3) if the map claims to be sorted, entries are non-decreasing by start position
func CheckMapInvariants(m *annot.Map) error {
	if m == nil {
		return fmt.Errorf("nil map")
	}

	entries := m.Entries()
	for i, e := range entries {
		if e.Annot == nil {
			return fmt.Errorf("nil annotation at index %d", i)
		}
		if e.Span.Start > e.Span.End {
			return fmt.Errorf("inverted span at index %d: %v", i, e.Span)
		}
		if ref, ok := e.Annot.(annot.Ref); ok && ref.Info == nil {
			return fmt.Errorf("reference without info at index %d: %s", i, ref.Name)
		}
	}

	if m.Sorted() {
		for i := 1; i < len(entries); i++ {
			prev, cur := entries[i-1].Span.StartPos(), entries[i].Span.StartPos()
			if cur.Before(prev) {
				return fmt.Errorf("order violation at index %d: %v before %v", i, entries[i].Span, entries[i-1].Span)
			}
		}
	}
	return nil
}

// CheckLookupResults verifies what a cursor lookup may return:
// 1) no implicit-bundle entries leak into results
// 2) every result span starts exactly at the queried position
func CheckLookupResults(pos source.Pos, results []annot.Entry) error {
	for i, e := range results {
		if _, ok := e.Annot.(annot.Implicits); ok {
			return fmt.Errorf("implicit bundle in results at index %d", i)
		}
		if e.Span.StartPos() != pos {
			return fmt.Errorf("result span %v at index %d does not start at offset %d", e.Span, i, pos.Off)
		}
	}
	return nil
}
