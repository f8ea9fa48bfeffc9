package annotfmt

import (
	"encoding/json"
	"io"

	"lark/internal/annot"
	"lark/internal/source"
)

// LocationJSON is a span with optional line/column positions.
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// EntryJSON is one rendered annotation.
type EntryJSON struct {
	Label     string       `json:"label"`
	Location  LocationJSON `json:"location"`
	Name      string       `json:"name,omitempty"`
	Related   string       `json:"related,omitempty"`
	DeclKind  string       `json:"decl_kind,omitempty"`
	BlockKind string       `json:"block_kind,omitempty"`
	Info      string       `json:"info,omitempty"`
	Detail    string       `json:"detail,omitempty"`
	Severity  string       `json:"severity,omitempty"`
	Message   string       `json:"message,omitempty"`
	IsDef     bool         `json:"is_def,omitempty"`
	Docs      []string     `json:"docs,omitempty"`
}

// EntriesOutput is the root of the JSON output.
type EntriesOutput struct {
	Entries []EntryJSON `json:"entries"`
	Count   int         `json:"count"`
}

func makeLocation(span source.Span, fs *source.FileSet, mode PathMode) LocationJSON {
	loc := LocationJSON{
		StartByte: span.Start,
		EndByte:   span.End,
	}
	if int(span.File) >= fs.Len() {
		return loc
	}
	f := fs.Get(span.File)
	loc.File = formatPath(f, fs, mode)
	if f.HasContent() {
		start, end := fs.Resolve(span)
		loc.StartLine = start.Line
		loc.StartCol = start.Col
		loc.EndLine = end.Line
		loc.EndCol = end.Col
	}
	return loc
}

// BuildEntriesOutput assembles the JSON structure without serializing.
func BuildEntriesOutput(fs *source.FileSet, entries []annot.Entry, opts Options) EntriesOutput {
	out := EntriesOutput{Entries: make([]EntryJSON, 0, len(entries))}
	for _, e := range entries {
		row := EntryJSON{Location: makeLocation(e.Span, fs, opts.PathMode)}
		switch a := e.Annot.(type) {
		case annot.Decl:
			row.Label = "decl"
			row.DeclKind = a.Kind.String()
			row.Name = a.Name.String()
			if a.Related != a.Name && a.Related.Name != "" {
				row.Related = a.Related.String()
			}
		case annot.Block:
			row.Label = "block"
			row.BlockKind = a.Kind.String()
		case annot.Ref:
			row.Label = "ref"
			row.Name = a.Name.String()
			row.IsDef = a.IsDef
			row.Info, row.Detail = refInfoJSON(a.Info)
			if opts.ShowDocs && len(a.Docs) > 0 {
				row.Docs = append([]string(nil), a.Docs...)
			}
		case annot.Implicits:
			row.Label = "implicits"
			row.Message = a.Doc
		case annot.Diag:
			row.Label = "diag"
			row.Severity = a.Severity.String()
			row.Message = a.Message
		default:
			row.Label = "unknown"
		}
		out.Entries = append(out.Entries, row)
	}
	out.Count = len(out.Entries)
	return out
}

func refInfoJSON(info annot.RefInfo) (kind, detail string) {
	switch info := info.(type) {
	case annot.ValueInfo:
		if info.Type != nil {
			return "value", info.Type.String()
		}
		return "value", ""
	case annot.ConInfo:
		if info.Type != nil {
			return "con", info.Type.String()
		}
		return "con", ""
	case annot.TypeConInfo:
		if info.Kind != nil {
			return "typecon", info.Kind.String()
		}
		return "typecon", ""
	case annot.TypeVarInfo:
		if info.Kind != nil {
			return "typevar", info.Kind.String()
		}
		return "typevar", ""
	case annot.ModuleInfo:
		return "module", ""
	case annot.KindInfo:
		return "kind", ""
	default:
		return "", ""
	}
}

// WriteJSON serializes entries as indented JSON.
func WriteJSON(w io.Writer, fs *source.FileSet, entries []annot.Entry, opts Options) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildEntriesOutput(fs, entries, opts))
}
