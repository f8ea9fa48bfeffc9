// Package annotfmt renders annotation entries for terminals and JSON
// consumers. Text output is one line per entry so it stays grep-able:
//
//	<path>:<line>:<col>-<line>:<col>  <label>  <detail>
//
// Files whose content is not loaded fall back to byte offsets.
package annotfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"lark/internal/annot"
	"lark/internal/source"
)

const labelWidth = 9 // the widest label, "implicits"

var (
	declColor      = color.New(color.FgGreen)
	blockColor     = color.New(color.FgMagenta)
	refColor       = color.New(color.FgCyan)
	implicitsColor = color.New(color.FgHiBlack)
	warningColor   = color.New(color.FgYellow, color.Bold)
	errorColor     = color.New(color.FgRed, color.Bold)
	docColor       = color.New(color.FgHiBlack)
)

// FormatEntry renders a single entry without a trailing newline.
func FormatEntry(fs *source.FileSet, e annot.Entry, opts Options) string {
	label, rest := renderAnnot(e.Annot)
	padded := runewidth.FillRight(label, labelWidth)
	return fmt.Sprintf("%s  %s %s", formatSpan(fs, e.Span, opts.PathMode), opts.paint(labelColor(label), padded), rest)
}

// FormatEntries writes one line per entry, plus doc lines when
// ShowDocs is set.
func FormatEntries(w io.Writer, fs *source.FileSet, entries []annot.Entry, opts Options) {
	for _, e := range entries {
		fmt.Fprintln(w, FormatEntry(fs, e, opts))
		writeDocs(w, e.Annot, "    ", opts)
	}
}

// FormatLookup writes a position header followed by the entries that
// resolved there.
func FormatLookup(w io.Writer, fs *source.FileSet, pos source.Pos, results []annot.Entry, opts Options) {
	header := formatPos(fs, pos, opts.PathMode)
	if len(results) == 0 {
		fmt.Fprintf(w, "%s: no annotations\n", header)
		return
	}
	noun := "annotations"
	if len(results) == 1 {
		noun = "annotation"
	}
	fmt.Fprintf(w, "%s: %d %s\n", header, len(results), noun)
	for _, e := range results {
		fmt.Fprintf(w, "  %s\n", FormatEntry(fs, e, opts))
		writeDocs(w, e.Annot, "      ", opts)
	}
}

func writeDocs(w io.Writer, a annot.Annot, indent string, opts Options) {
	if !opts.ShowDocs {
		return
	}
	ref, ok := a.(annot.Ref)
	if !ok {
		return
	}
	for _, doc := range ref.Docs {
		fmt.Fprintf(w, "%s%s\n", indent, opts.paint(docColor, "doc: "+doc))
	}
}

func renderAnnot(a annot.Annot) (label, rest string) {
	switch a := a.(type) {
	case annot.Decl:
		rest = a.Kind.String() + " " + a.Name.String()
		if a.Related != a.Name && a.Related.Name != "" {
			rest += " [" + a.Related.String() + "]"
		}
		return "decl", rest
	case annot.Block:
		return "block", a.Kind.String() + " context"
	case annot.Ref:
		rest = a.Name.String()
		if a.IsDef {
			rest += " (def)"
		}
		return "ref", rest + refDetail(a.Info)
	case annot.Implicits:
		return "implicits", a.Doc
	case annot.Diag:
		return strings.ToLower(a.Severity.String()), a.Message
	default:
		return "unknown", ""
	}
}

func refDetail(info annot.RefInfo) string {
	switch info := info.(type) {
	case annot.ValueInfo:
		if info.Type != nil {
			return " : " + info.Type.String()
		}
	case annot.ConInfo:
		if info.Type != nil {
			return " : " + info.Type.String()
		}
	case annot.TypeConInfo:
		if info.Kind != nil {
			return " :: " + info.Kind.String()
		}
	case annot.TypeVarInfo:
		if info.Kind != nil {
			return " :: " + info.Kind.String()
		}
	case annot.ModuleInfo:
		return " (module)"
	case annot.KindInfo:
		return " (kind)"
	}
	return ""
}

func labelColor(label string) *color.Color {
	switch label {
	case "decl":
		return declColor
	case "block":
		return blockColor
	case "ref":
		return refColor
	case "implicits":
		return implicitsColor
	case "warning":
		return warningColor
	case "error":
		return errorColor
	default:
		return docColor
	}
}

func formatSpan(fs *source.FileSet, span source.Span, mode PathMode) string {
	if int(span.File) >= fs.Len() {
		return fmt.Sprintf("file#%d:#%d-%d", span.File, span.Start, span.End)
	}
	f := fs.Get(span.File)
	path := formatPath(f, fs, mode)
	if !f.HasContent() {
		return fmt.Sprintf("%s:#%d-%d", path, span.Start, span.End)
	}
	start, end := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d-%d:%d", path, start.Line, start.Col, end.Line, end.Col)
}

func formatPos(fs *source.FileSet, pos source.Pos, mode PathMode) string {
	if int(pos.File) >= fs.Len() {
		return fmt.Sprintf("file#%d:#%d", pos.File, pos.Off)
	}
	f := fs.Get(pos.File)
	path := formatPath(f, fs, mode)
	if !f.HasContent() {
		return fmt.Sprintf("%s:#%d", path, pos.Off)
	}
	start, _ := fs.Resolve(source.Span{File: pos.File, Start: pos.Off, End: pos.Off})
	return fmt.Sprintf("%s:%d:%d", path, start.Line, start.Col)
}
