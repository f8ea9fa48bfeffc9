package annotfmt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"lark/internal/annot"
	"lark/internal/diag"
	"lark/internal/names"
	"lark/internal/source"
	"lark/internal/types"
)

// testFileSet builds a two-line file:
//
//	fun main() {
//	  print(unit)
//	}
func testFileSet(t *testing.T) (*source.FileSet, source.FileID) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("main.lk", []byte("fun main() {\n  print(unit)\n}\n"))
	return fs, id
}

func TestFormatEntry(t *testing.T) {
	fs, id := testFileSet(t)
	opts := Options{PathMode: PathModeBasename}

	printType := types.Fun{Params: []types.Type{types.StringType}, Result: types.UnitType}

	tests := []struct {
		name  string
		entry annot.Entry
		want  string
	}{
		{
			name: "decl",
			entry: annot.Entry{
				Span:  source.Span{File: id, Start: 4, End: 8},
				Annot: annot.Decl{Kind: annot.DeclFun, Name: names.Qualified("demo/main", "main")},
			},
			want: "main.lk:1:5-1:9  decl      fun demo/main/main",
		},
		{
			name: "decl with related",
			entry: annot.Entry{
				Span: source.Span{File: id, Start: 4, End: 8},
				Annot: annot.Decl{
					Kind:    annot.DeclVal,
					Name:    names.Qualified("demo", "x"),
					Related: names.Qualified("demo", "x2"),
				},
			},
			want: "main.lk:1:5-1:9  decl      val demo/x [demo/x2]",
		},
		{
			name: "block",
			entry: annot.Entry{
				Span:  source.Span{File: id, Start: 21, End: 25},
				Annot: annot.Block{Kind: annot.BlockTypeContext},
			},
			want: "main.lk:2:9-2:13  block     type context",
		},
		{
			name: "value ref",
			entry: annot.Entry{
				Span: source.Span{File: id, Start: 15, End: 20},
				Annot: annot.Ref{
					Name: names.Qualified("demo/console", "print"),
					Info: annot.ValueInfo{Type: printType},
				},
			},
			want: "main.lk:2:3-2:8  ref       demo/console/print : string -> ()",
		},
		{
			name: "defining ref",
			entry: annot.Entry{
				Span: source.Span{File: id, Start: 4, End: 8},
				Annot: annot.Ref{
					Name:  names.Qualified("demo/main", "main"),
					Info:  annot.ValueInfo{Type: types.IntType},
					IsDef: true,
				},
			},
			want: "main.lk:1:5-1:9  ref       demo/main/main (def) : int",
		},
		{
			name: "constructor ref",
			entry: annot.Entry{
				Span: source.Span{File: id, Start: 21, End: 25},
				Annot: annot.Ref{
					Name: names.Unqualified("()"),
					Info: annot.ConInfo{Type: types.UnitType},
				},
			},
			want: "main.lk:2:9-2:13  ref       () : ()",
		},
		{
			name: "type constructor ref",
			entry: annot.Entry{
				Span: source.Span{File: id, Start: 21, End: 25},
				Annot: annot.Ref{
					Name: names.Unqualified("list"),
					Info: annot.TypeConInfo{Kind: types.ArrowKind(types.Star, types.Star)},
				},
			},
			want: "main.lk:2:9-2:13  ref       list :: * -> *",
		},
		{
			name: "module ref",
			entry: annot.Entry{
				Span:  source.Span{File: id, Start: 15, End: 20},
				Annot: annot.Ref{Name: names.Unqualified("std/core"), Info: annot.ModuleInfo{}},
			},
			want: "main.lk:2:3-2:8  ref       std/core (module)",
		},
		{
			name: "warning",
			entry: annot.Entry{
				Span:  source.Span{File: id, Start: 15, End: 20},
				Annot: annot.Diag{Severity: diag.SevWarning, Message: "unused parameter"},
			},
			want: "main.lk:2:3-2:8  warning   unused parameter",
		},
		{
			name: "error",
			entry: annot.Entry{
				Span:  source.Span{File: id, Start: 15, End: 20},
				Annot: annot.Diag{Severity: diag.SevError, Message: "undefined name"},
			},
			want: "main.lk:2:3-2:8  error     undefined name",
		},
		{
			name: "implicits",
			entry: annot.Entry{
				Span:  source.Span{File: id, Start: 15, End: 20},
				Annot: annot.Implicits{Doc: "inferred: eq = int/eq"},
			},
			want: "main.lk:2:3-2:8  implicits inferred: eq = int/eq",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatEntry(fs, tt.entry, opts); got != tt.want {
				t.Errorf("FormatEntry() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatEntryMetaOnlyFile(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddMeta("src/lib.lk", [32]byte{1})

	entry := annot.Entry{
		Span:  source.Span{File: id, Start: 4, End: 7},
		Annot: annot.Block{Kind: annot.BlockKindContext},
	}
	got := FormatEntry(fs, entry, Options{PathMode: PathModeBasename})
	want := "lib.lk:#4-7  block     kind context"
	if got != want {
		t.Errorf("FormatEntry() = %q, want %q", got, want)
	}
}

func TestFormatEntriesShowDocs(t *testing.T) {
	fs, id := testFileSet(t)
	entries := []annot.Entry{
		{
			Span: source.Span{File: id, Start: 15, End: 20},
			Annot: annot.Ref{
				Name: names.Qualified("demo/console", "print"),
				Info: annot.ValueInfo{Type: types.UnitType},
				Docs: []string{"prints a line", "inferred: out = console"},
			},
		},
	}

	var buf bytes.Buffer
	FormatEntries(&buf, fs, entries, Options{PathMode: PathModeBasename, ShowDocs: true})
	out := buf.String()

	if !strings.Contains(out, "doc: prints a line") {
		t.Errorf("output missing first doc:\n%s", out)
	}
	if !strings.Contains(out, "doc: inferred: out = console") {
		t.Errorf("output missing second doc:\n%s", out)
	}

	buf.Reset()
	FormatEntries(&buf, fs, entries, Options{PathMode: PathModeBasename})
	if strings.Contains(buf.String(), "doc:") {
		t.Error("docs rendered without ShowDocs")
	}
}

func TestFormatLookup(t *testing.T) {
	fs, id := testFileSet(t)
	pos := source.Pos{File: id, Off: 15}
	results := []annot.Entry{
		{
			Span:  source.Span{File: id, Start: 15, End: 20},
			Annot: annot.Decl{Kind: annot.DeclFun, Name: names.Unqualified("print")},
		},
		{
			Span:  source.Span{File: id, Start: 15, End: 20},
			Annot: annot.Diag{Severity: diag.SevWarning, Message: "shadowed binding"},
		},
	}

	var buf bytes.Buffer
	FormatLookup(&buf, fs, pos, results, Options{PathMode: PathModeBasename})
	out := buf.String()

	if !strings.HasPrefix(out, "main.lk:2:3: 2 annotations\n") {
		t.Errorf("unexpected header:\n%s", out)
	}
	if !strings.Contains(out, "  main.lk:2:3-2:8  decl") {
		t.Errorf("missing indented decl line:\n%s", out)
	}

	buf.Reset()
	FormatLookup(&buf, fs, pos, results[:1], Options{PathMode: PathModeBasename})
	if !strings.HasPrefix(buf.String(), "main.lk:2:3: 1 annotation\n") {
		t.Errorf("singular header wrong:\n%s", buf.String())
	}

	buf.Reset()
	FormatLookup(&buf, fs, pos, nil, Options{PathMode: PathModeBasename})
	if got := buf.String(); got != "main.lk:2:3: no annotations\n" {
		t.Errorf("empty lookup = %q", got)
	}
}

func TestFormatEntryColored(t *testing.T) {
	old := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = old }()

	fs, id := testFileSet(t)
	entry := annot.Entry{
		Span:  source.Span{File: id, Start: 15, End: 20},
		Annot: annot.Diag{Severity: diag.SevError, Message: "undefined name"},
	}

	colored := FormatEntry(fs, entry, Options{PathMode: PathModeBasename, Color: true})
	if !strings.Contains(colored, "\x1b[") {
		t.Errorf("colored output has no escape codes: %q", colored)
	}

	plain := FormatEntry(fs, entry, Options{PathMode: PathModeBasename})
	if strings.Contains(plain, "\x1b[") {
		t.Errorf("plain output has escape codes: %q", plain)
	}
}
