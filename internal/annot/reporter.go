package annot

import (
	"lark/internal/diag"
	"lark/internal/source"
)

// DiagReporter adapts a *Map to diag.Reporter: reported findings are
// recorded as annotations so they surface in position next to hover
// data instead of in a separate stream.
type DiagReporter struct{ Map *Map }

func (r DiagReporter) Report(sev diag.Severity, span source.Span, msg string) {
	if r.Map == nil {
		return
	}
	r.Map.Insert(span, Diag{Severity: sev, Message: msg})
}
