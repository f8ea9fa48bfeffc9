package annot

import (
	"testing"

	"lark/internal/diag"
	"lark/internal/source"
)

func TestDiagReporter(t *testing.T) {
	m := New(nil)
	var r diag.Reporter = DiagReporter{Map: m}

	r.Report(diag.SevError, sp(0, 3, 9), "undefined name")
	r.Report(diag.SevWarning, sp(0, 12, 15), "unused import")

	if m.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", m.Len())
	}

	d, ok := m.Entries()[0].Annot.(Diag)
	if !ok {
		t.Fatalf("entry[0] is %T, want Diag", m.Entries()[0].Annot)
	}
	if d.Severity != diag.SevError || d.Message != "undefined name" {
		t.Errorf("entry[0] = %+v", d)
	}

	// A nil map drops reports instead of panicking.
	DiagReporter{}.Report(diag.SevError, source.Span{}, "dropped")
}
