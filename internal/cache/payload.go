// Package cache defines the snapshot wire format the compiler writes
// per file (.lam payloads) and the disk cache the merge driver keeps
// for already-combined projects. Payloads are msgpack with interned
// string, kind, and type tables, so annotation entries stay flat and
// repeated hover types are stored once.
package cache

import "errors"

// SchemaVersion guards payload compatibility. Increment on any change
// to the wire structs below; decoders reject other versions.
const SchemaVersion uint16 = 1

var (
	// ErrSchemaMismatch marks a payload written by a different schema.
	ErrSchemaMismatch = errors.New("snapshot schema mismatch")
	// ErrCorrupt marks a payload that fails structural validation.
	ErrCorrupt = errors.New("corrupt snapshot")
)

// Annotation wire tags.
const (
	tagDecl uint8 = iota
	tagBlock
	tagDiag
	tagRef
	tagImplicits
)

// Reference info wire tags.
const (
	infoValue uint8 = iota
	infoCon
	infoTypeCon
	infoTypeVar
	infoModule
	infoKind
)

// Kind table tags.
const (
	kindConTag uint8 = iota
	kindArrowTag
)

// Type table tags.
const (
	typeVarTag uint8 = iota
	typeConTag
	typeAppTag
	typeFunTag
	typeForallTag
)

// FileMeta names one source file covered by the payload. Content is
// never stored, only the hash, so consumers can detect staleness.
type FileMeta struct {
	Path string
	Hash Digest
}

// KindEntry is one row of the kind table. Rows reference only earlier
// rows, so a single forward pass decodes the table.
type KindEntry struct {
	Tag  uint8
	Name uint32 // kindConTag: string index
	From uint32 // kindArrowTag: kind index
	To   uint32 // kindArrowTag: kind index
}

// TypeEntry is one row of the type table. Same forward-only indexing
// as KindEntry; which fields are live depends on Tag.
type TypeEntry struct {
	Tag    uint8
	VarID  uint32   // typeVarTag
	Kind   uint32   // typeVarTag, typeConTag: kind index
	Name   uint32   // typeConTag: string index
	Fn     uint32   // typeAppTag: type index
	Args   []uint32 // typeAppTag: type indices
	Params []uint32 // typeFunTag: type indices
	Result uint32   // typeFunTag: type index
	Vars   []uint32 // typeForallTag: type indices, each a typeVarTag row
	Body   uint32   // typeForallTag: type index
}

// EntryDTO is one annotation entry on the wire. File indexes the
// payload's Files table; names, messages, and docs index Strings.
type EntryDTO struct {
	File  uint32
	Start uint32
	End   uint32
	Tag   uint8

	DeclKind  uint8
	BlockKind uint8
	Severity  uint8
	NameMod   uint32
	Name      uint32
	RelMod    uint32
	Rel       uint32
	Message   uint32
	InfoTag   uint8
	TypeIdx   uint32
	KindIdx   uint32
	Docs      []uint32
	IsDef     bool
}

// Payload is the complete snapshot for one compiler pass: which files
// it covered, the interned tables, and the annotation entries.
type Payload struct {
	Schema  uint16
	Module  string
	Files   []FileMeta
	Strings []string
	Kinds   []KindEntry
	Types   []TypeEntry
	Entries []EntryDTO
}
