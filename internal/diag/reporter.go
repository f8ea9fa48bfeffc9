package diag

import "lark/internal/source"

// Reporter is the minimal contract for receiving diagnostics from
// pipeline phases. Implementations: BagReporter (stores into a Bag),
// NopReporter, and annot.DiagReporter (records into an annotation map).
type Reporter interface {
	Report(sev Severity, span source.Span, msg string)
}

// BagReporter adapts a *Bag to the Reporter interface.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(sev Severity, span source.Span, msg string) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(Diagnostic{Severity: sev, Span: span, Message: msg})
}

// NopReporter drops every diagnostic.
type NopReporter struct{}

func (NopReporter) Report(Severity, source.Span, string) {}
