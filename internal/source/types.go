package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about how a file entered the set.
	FileFlags uint8
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota
	// FileMetaOnly indicates only path and hash are known; content was not loaded.
	FileMetaOnly
	FileHadBOM
	FileNormalizedCRLF
)

// File captures metadata and content for a single source file.
// Meta-only files (rehydrated from snapshot file tables) carry an empty
// Content and LineIdx; position resolution on them falls back to raw
// byte offsets.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// HasContent reports whether line/column resolution is possible.
func (f *File) HasContent() bool {
	return f != nil && f.Flags&FileMetaOnly == 0
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based, in bytes
}

// Pos is an absolute position: a byte offset inside one file of a
// FileSet. Positions are totally ordered by (File, Off).
type Pos struct {
	File FileID
	Off  uint32
}

// Before reports whether p precedes q in the (File, Off) order.
func (p Pos) Before(q Pos) bool {
	if p.File != q.File {
		return p.File < q.File
	}
	return p.Off < q.Off
}

// Compare returns -1, 0, or +1 ordering p against q.
func (p Pos) Compare(q Pos) int {
	switch {
	case p.File < q.File:
		return -1
	case p.File > q.File:
		return 1
	case p.Off < q.Off:
		return -1
	case p.Off > q.Off:
		return 1
	default:
		return 0
	}
}
