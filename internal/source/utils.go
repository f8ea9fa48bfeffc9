package source

import (
	"crypto/sha256"
	"path/filepath"
	"slices"
	"strings"
)

// HashContent returns the hash Add would record for raw file bytes:
// BOM stripped and CRLF normalized before hashing. Snapshot file
// tables carry this hash, so it is the key for staleness checks.
func HashContent(raw []byte) [32]byte {
	content, _ := removeBOM(raw)
	content, _ = normalizeCRLF(content)
	return sha256.Sum256(content)
}

// normalizeCRLF replaces every \r\n with \n, leaving lone \r alone.
// The second result reports whether anything changed.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !slices.Contains(content, '\r') {
		return content, false
	}

	out := make([]byte, 0, len(content))
	changed := false

	i := 0
	for i < len(content) {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			out = append(out, '\n')
			i += 2
			changed = true
		} else {
			out = append(out, content[i])
			i++
		}
	}
	return out, changed
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) < 3 {
		return content, false
	}

	if content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}

	return content, false
}

// buildLineIndex records the offset of every \n in content. Line i
// (0-based) spans [lineIdx[i-1]+1, lineIdx[i]].
func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, 64)
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i))
		}
	}
	return out
}

func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// No newlines: the whole file is one line.
	if len(lineIdx) == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}

	// Binary search for the largest lineIdx[i] <= off.
	lo, hi := 0, len(lineIdx)-1
	for lo <= hi {
		mid := (lo + hi) >> 1
		if lineIdx[mid] <= off {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	line := hi

	if line < 0 {
		return LineCol{Line: 1, Col: off + 1}
	}

	var startOff uint32
	if line == 0 {
		startOff = 0
	} else {
		startOff = lineIdx[line-1] + 1
	}

	return LineCol{Line: uint32(line + 1), Col: off - startOff + 1}
}

// offsetOf is the inverse of toLineCol. It clamps lc to the file: a
// line past the end maps to len(content), a column past the end of its
// line maps to the line's last valid offset.
func offsetOf(lineIdx []uint32, contentLen uint32, lc LineCol) uint32 {
	if lc.Line < 1 {
		lc.Line = 1
	}
	if lc.Col < 1 {
		lc.Col = 1
	}

	var lineStart uint32
	if lc.Line > 1 {
		idx := int(lc.Line) - 2
		if idx >= len(lineIdx) {
			return contentLen
		}
		lineStart = lineIdx[idx] + 1
	}

	var lineEnd uint32
	if int(lc.Line)-1 < len(lineIdx) {
		lineEnd = lineIdx[lc.Line-1]
	} else {
		lineEnd = contentLen
	}

	off := lineStart + lc.Col - 1
	if off > lineEnd {
		off = lineEnd
	}
	return off
}

func normalizePath(p string) string {
	// One canonical form so cross-platform diffs stay stable.
	return filepath.ToSlash(filepath.Clean(p))
}

// AbsolutePath returns the normalized absolute form of p.
func AbsolutePath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return normalizePath(abs), nil
}

// RelativePath renders target relative to base. Targets outside base
// fall back to the absolute path instead of a ../.. chain.
func RelativePath(target, base string) (string, error) {
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return "", err
	}
	absBase, err := filepath.Abs(base)
	if err != nil {
		return "", err
	}

	rel, err := filepath.Rel(absBase, absTarget)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return normalizePath(absTarget), nil
	}
	return normalizePath(rel), nil
}

// BaseName returns the last element of the path.
func BaseName(p string) string {
	return filepath.Base(p)
}
