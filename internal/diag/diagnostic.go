// Package diag defines the diagnostic model shared by the snapshot
// pipeline. Diagnostics are data: producers report them through a
// Reporter, consumers render or store them. No formatting or IO lives
// here.
package diag

import (
	"lark/internal/source"
)

// Diagnostic is one compiler finding attached to a source span.
type Diagnostic struct {
	Severity Severity
	Span     source.Span
	Message  string
}
