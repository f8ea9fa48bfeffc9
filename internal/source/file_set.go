package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// FileSet manages a collection of source files and resolves spans to
// human-readable positions. Files decoded from snapshot tables may be
// meta-only (path and hash, no content); such files still get ids and
// participate in span rebasing, they just cannot resolve line/column.
type FileSet struct {
	files   []File
	index   map[string]FileID // path -> id
	baseDir string            // base for relative path rendering
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0),
		index: make(map[string]FileID),
	}
}

// NewFileSetWithBase creates a FileSet with a fixed base directory.
func NewFileSetWithBase(baseDir string) *FileSet {
	return &FileSet{
		files:   make([]File, 0),
		index:   make(map[string]FileID),
		baseDir: baseDir,
	}
}

// SetBaseDir sets the base directory used for relative path rendering.
func (fileSet *FileSet) SetBaseDir(dir string) {
	fileSet.baseDir = dir
}

// BaseDir returns the base directory, falling back to the working
// directory when none was set.
func (fileSet *FileSet) BaseDir() string {
	if fileSet.baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return fileSet.baseDir
}

// Add stores a file from normalized bytes, computes LineIdx and Hash,
// and returns a new FileID. It always creates a new FileID even if a
// file with the same path already exists; the path index tracks the
// latest version.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	hash := sha256.Sum256(content)
	lineIdx := buildLineIndex(content)
	normalizedPath := normalizePath(path)

	lenFiles, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(lenFiles)
	fileSet.files = append(fileSet.files, File{
		ID:      id,
		Path:    normalizedPath,
		Content: content,
		LineIdx: lineIdx,
		Hash:    hash,
		Flags:   flags,
	})
	fileSet.index[normalizedPath] = id
	return id
}

// AddMeta registers a file known only by path and content hash, as
// recorded in a snapshot file table. If the path is already present
// the existing id is returned, so merging several snapshots that
// mention the same file converges on one id.
func (fileSet *FileSet) AddMeta(path string, hash [32]byte) FileID {
	normalizedPath := normalizePath(path)
	if id, ok := fileSet.index[normalizedPath]; ok {
		return id
	}

	lenFiles, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(lenFiles)
	fileSet.files = append(fileSet.files, File{
		ID:    id,
		Path:  normalizedPath,
		Hash:  hash,
		Flags: FileMetaOnly,
	})
	fileSet.index[normalizedPath] = id
	return id
}

// Hydrate attaches content to a meta-only file so spans over it can
// resolve to line and column positions. Raw bytes are normalized the
// same way Load normalizes them and must hash to the value recorded in
// the file table; a mismatch means the file changed after the snapshot
// was taken.
func (fileSet *FileSet) Hydrate(id FileID, raw []byte) error {
	f := &fileSet.files[id]
	if f.HasContent() {
		return nil
	}

	content, hadBOM := removeBOM(raw)
	content, hadCRLF := normalizeCRLF(content)
	if sha256.Sum256(content) != f.Hash {
		return fmt.Errorf("%s: content does not match the recorded hash", f.Path)
	}

	f.Content = content
	f.LineIdx = buildLineIndex(content)
	f.Flags &^= FileMetaOnly
	if hadBOM {
		f.Flags |= FileHadBOM
	}
	if hadCRLF {
		f.Flags |= FileNormalizedCRLF
	}
	return nil
}

// Load reads a file from disk, normalizes CRLF/BOM, and calls Add.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)

	flags := FileFlags(0)
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return fileSet.Add(path, content, flags), nil
}

// AddVirtual adds a virtual file (stdin, test, or generated) with the FileVirtual flag.
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	return fileSet.Add(name, content, FileVirtual)
}

// Get returns the file metadata for the given ID.
func (fileSet *FileSet) Get(id FileID) *File {
	return &fileSet.files[id]
}

// GetByPath returns the latest *File registered under the given path.
func (fileSet *FileSet) GetByPath(path string) (*File, bool) {
	if id, ok := fileSet.index[normalizePath(path)]; ok {
		return &fileSet.files[id], true
	}
	return nil, false
}

// HasFile reports whether a file with the given path is registered.
func (fileSet *FileSet) HasFile(path string) bool {
	_, ok := fileSet.index[normalizePath(path)]
	return ok
}

// Len returns the number of files in the set.
func (fileSet *FileSet) Len() int {
	return len(fileSet.files)
}

// Files returns the files in id order. The slice is owned by the set;
// callers must not mutate it.
func (fileSet *FileSet) Files() []File {
	return fileSet.files
}

// Resolve converts a span into line and column positions. Callers
// should check HasContent on the file first; for meta-only files the
// result degenerates to offsets on line 1.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fileSet.files[span.File]
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// OffsetAt converts a line/column position into an absolute position
// in the given file. Positions past the end of a line or the file are
// clamped rather than rejected.
func (fileSet *FileSet) OffsetAt(id FileID, lc LineCol) (Pos, error) {
	f := &fileSet.files[id]
	if !f.HasContent() {
		return Pos{}, fmt.Errorf("file %s has no content loaded", f.Path)
	}
	contentLen, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		return Pos{}, fmt.Errorf("content length overflow: %w", err)
	}
	return Pos{File: id, Off: offsetOf(f.LineIdx, contentLen, lc)}, nil
}

// FormatPath renders the file path for display.
// mode: "absolute", "relative", "basename", "auto".
func (f *File) FormatPath(mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := AbsolutePath(f.Path); err == nil {
			return abs
		}
		return f.Path

	case "relative":
		if baseDir == "" {
			if wd, err := os.Getwd(); err == nil {
				baseDir = wd
			}
		}
		if rel, err := RelativePath(f.Path, baseDir); err == nil {
			return rel
		}
		return f.Path

	case "basename":
		return BaseName(f.Path)

	case "auto":
		// Short or relative paths read fine as-is; long absolute ones
		// collapse to the basename.
		if len(f.Path) < 40 || !filepath.IsAbs(f.Path) {
			return f.Path
		}
		return BaseName(f.Path)

	default:
		return f.Path
	}
}
