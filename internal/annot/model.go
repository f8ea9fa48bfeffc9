package annot

import (
	"lark/internal/diag"
	"lark/internal/names"
	"lark/internal/types"
)

// DeclKind classifies a binding site.
type DeclKind uint8

const (
	DeclFun DeclKind = iota
	DeclVal
	DeclType
	DeclAlias
	DeclCotype
	DeclRectype
)

func (k DeclKind) String() string {
	switch k {
	case DeclFun:
		return "fun"
	case DeclVal:
		return "val"
	case DeclType:
		return "type"
	case DeclAlias:
		return "alias"
	case DeclCotype:
		return "cotype"
	case DeclRectype:
		return "rectype"
	default:
		return "invalid"
	}
}

// Valid reports whether k is one of the defined declaration kinds.
// Decoders use it to reject snapshots from a different schema.
func (k DeclKind) Valid() bool {
	return k <= DeclRectype
}

// BlockKind classifies a non-leaf syntactic region.
type BlockKind uint8

const (
	BlockTypeContext BlockKind = iota
	BlockKindContext
	BlockPatternContext
)

func (k BlockKind) String() string {
	switch k {
	case BlockTypeContext:
		return "type"
	case BlockKindContext:
		return "kind"
	case BlockPatternContext:
		return "pattern"
	default:
		return "invalid"
	}
}

// Valid reports whether k is one of the defined block kinds.
func (k BlockKind) Valid() bool {
	return k <= BlockPatternContext
}

// Annot is the closed set of annotation payloads.
type Annot interface {
	isAnnot()
}

// Decl marks a binding site.
type Decl struct {
	Kind DeclKind
	Name names.QName
	// Related is the associated binding, e.g. the type a constructor
	// belongs to, or the name itself for top-level declarations.
	Related names.QName
}

// Block marks a syntactic region with no identity beyond its kind.
type Block struct {
	Kind BlockKind
}

// Diag attaches a compiler finding to a span. Diagnostics are data
// here, routed through the table so they render in position.
type Diag struct {
	Severity diag.Severity
	Message  string
}

// Ref marks an occurrence of a name, with what the checker resolved it
// to. Docs holds supplementary tooltip content in display order.
type Ref struct {
	Name  names.QName
	Info  RefInfo
	Docs  []string
	IsDef bool
}

// Implicits documents arguments the checker inferred and elided from
// the source. It is never a lookup result itself: its doc is folded
// into co-located references.
type Implicits struct {
	Doc string
}

func (Decl) isAnnot()      {}
func (Block) isAnnot()     {}
func (Diag) isAnnot()      {}
func (Ref) isAnnot()       {}
func (Implicits) isAnnot() {}

// RefInfo classifies what a referenced name denotes. Value and Con
// carry the substitutable type payload; the rest are untouched by the
// substitution pass (kinds are never substituted).
type RefInfo interface {
	isRefInfo()
}

// ValueInfo is a term-level binding with its type.
type ValueInfo struct {
	Type types.Type
}

// ConInfo is a data constructor with its type.
type ConInfo struct {
	Type types.Type
}

// TypeConInfo is a type constructor with its kind.
type TypeConInfo struct {
	Kind types.Kind
}

// TypeVarInfo is a type variable occurrence with its kind.
type TypeVarInfo struct {
	Kind types.Kind
}

// ModuleInfo is a module reference.
type ModuleInfo struct{}

// KindInfo is a kind occurrence.
type KindInfo struct{}

func (ValueInfo) isRefInfo()   {}
func (ConInfo) isRefInfo()     {}
func (TypeConInfo) isRefInfo() {}
func (TypeVarInfo) isRefInfo() {}
func (ModuleInfo) isRefInfo()  {}
func (KindInfo) isRefInfo()    {}
