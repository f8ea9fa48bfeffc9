package fuzztests

import (
	"bytes"
	"testing"

	"lark/internal/annot"
	"lark/internal/diag"
	"lark/internal/names"
	"lark/internal/source"
	"lark/internal/testkit"
	"lark/internal/types"
)

// FuzzCursorLookups drives the store with an insert script decoded
// from raw bytes, then consumes the sorted map with a single forward
// cursor, checking the lookup contract at every position: results
// start exactly at the queried position and implicit bundles never
// surface.
func FuzzCursorLookups(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0, 4, 0, 0, 2, 3, 4, 6, 2, 4, 0, 7})
	f.Add(bytes.Repeat([]byte{7, 0, 3}, 40))
	f.Add([]byte{9, 0, 2, 9, 0, 12, 9, 3, 4})

	f.Fuzz(func(t *testing.T, script []byte) {
		if len(script) > maxFuzzInput {
			script = script[:maxFuzzInput]
		}

		m := annot.New(names.DefaultHidden)
		maxEnd := uint32(0)
		for len(script) >= 3 {
			start := uint32(script[0])
			span := source.Span{File: 0, Start: start, End: start + uint32(script[1]%8)}
			kind := script[2]
			script = script[3:]
			if span.End > maxEnd {
				maxEnd = span.End
			}

			switch kind % 5 {
			case 0:
				name := names.Unqualified("x")
				if kind%4 == 0 {
					name = names.Unqualified("@gen") // must be filtered out
				}
				m.Insert(span, annot.Decl{Kind: annot.DeclKind(kind % 6), Name: name})
			case 1:
				m.Insert(span, annot.Block{Kind: annot.BlockKind(kind % 3)})
			case 2:
				if kind%2 == 0 {
					// Atomic literal: insert also synthesizes an end marker.
					m.Insert(span, annot.Ref{Name: names.Unqualified(names.Unit), Info: annot.ConInfo{Type: types.UnitType}})
				} else {
					m.Insert(span, annot.Ref{
						Name:  names.Qualified("demo", "f"),
						Info:  annot.ValueInfo{Type: types.IntType},
						IsDef: kind%3 == 0,
					})
				}
			case 3:
				m.Insert(span, annot.Implicits{Doc: "inferred argument"})
			case 4:
				m.Insert(span, annot.Diag{Severity: diag.SevError, Message: "boom"})
			}
		}

		m.Sort()
		if err := testkit.CheckMapInvariants(m); err != nil {
			t.Fatalf("map violates invariants after sort: %v", err)
		}

		cursor := m.Cursor()
		for off := uint32(0); off <= maxEnd+1; off++ {
			pos := source.Pos{File: 0, Off: off}
			results, next := cursor.Lookup(pos)
			if err := testkit.CheckLookupResults(pos, results); err != nil {
				t.Fatalf("lookup at offset %d: %v", off, err)
			}
			cursor = next
		}
		if cursor.Remaining() != 0 {
			t.Fatalf("cursor left %d entries unconsumed after a full scan", cursor.Remaining())
		}
	})
}
