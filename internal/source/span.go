package source

import (
	"fmt"
)

// Span is a half-open byte range [Start, End) inside one file.
type Span struct {
	File  FileID
	Start uint32 // inclusive, in bytes
	End   uint32 // exclusive, in bytes
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// StartPos returns the span's start as an absolute position.
func (s Span) StartPos() Pos {
	return Pos{File: s.File, Off: s.Start}
}

// EndPos returns the span's end as an absolute position.
func (s Span) EndPos() Pos {
	return Pos{File: s.File, Off: s.End}
}

// Contains reports whether p falls inside the span. Empty spans
// contain exactly their start position, so markers placed at the end
// of an atomic construct still answer queries at that point.
func (s Span) Contains(p Pos) bool {
	if p.File != s.File {
		return false
	}
	if s.Empty() {
		return p.Off == s.Start
	}
	return s.Start <= p.Off && p.Off < s.End
}

// Cover extends s to also cover other. Spans in different files do not
// merge; s is returned unchanged.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// Rebase returns the span with its file id replaced. Used when merging
// per-file snapshot tables into one set with fresh ids.
func (s Span) Rebase(file FileID) Span {
	s.File = file
	return s
}
