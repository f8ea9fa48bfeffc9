package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"lark/internal/annot"
	"lark/internal/cache"
	"lark/internal/project"
	"lark/internal/source"
)

// cacheAppName is the directory under the user cache the tool owns.
const cacheAppName = "lark"

// loadedSnapshot pairs a decoded payload with a file set rebuilt from
// its file table. AddMeta assigns ids in table order, so entry spans
// reference the right files without rebasing.
type loadedSnapshot struct {
	path    string
	payload *cache.Payload
	digest  cache.Digest
	fs      *source.FileSet
	m       *annot.Map
}

func snapshotFromPayload(path string, payload *cache.Payload, digest cache.Digest) (*loadedSnapshot, error) {
	m, err := cache.Decode(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.Sort()
	fs := source.NewFileSet()
	for _, meta := range payload.Files {
		fs.AddMeta(meta.Path, meta.Hash)
	}
	return &loadedSnapshot{path: path, payload: payload, digest: digest, fs: fs, m: m}, nil
}

// openSnapshot reads and decodes one .lam file.
func openSnapshot(path string) (*loadedSnapshot, error) {
	payload, digest, err := cache.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return snapshotFromPayload(path, payload, digest)
}

// findSourceFile locates the file-table entry a source path refers to.
// Compilers record root-relative paths, so the match tries the path as
// given, its absolute form, the form relative to root, and finally a
// basename scan that must be unambiguous.
func (s *loadedSnapshot) findSourceFile(sourcePath, root string) (*source.File, error) {
	if f, ok := s.fs.GetByPath(sourcePath); ok {
		return f, nil
	}
	abs, err := filepath.Abs(sourcePath)
	if err == nil {
		if f, ok := s.fs.GetByPath(abs); ok {
			return f, nil
		}
		if root != "" {
			if rel, relErr := filepath.Rel(root, abs); relErr == nil {
				if f, ok := s.fs.GetByPath(rel); ok {
					return f, nil
				}
			}
		}
	}

	base := filepath.Base(sourcePath)
	var match *source.File
	for _, f := range s.fs.Files() {
		if filepath.Base(f.Path) != base {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("%s: several files named %s in the snapshot, pass the recorded path", s.path, base)
		}
		match = s.fs.Get(f.ID)
	}
	if match == nil {
		return nil, fmt.Errorf("%s: snapshot does not cover %s", s.path, sourcePath)
	}
	return match, nil
}

// resolveSourceSnapshot maps a source file to its snapshot through the
// nearest lark.toml. When the snapshot file itself is gone, the disk
// cache is probed with the source content hash, which store records
// for single-file snapshots.
func resolveSourceSnapshot(sourcePath string, raw []byte) (snap *loadedSnapshot, projectRoot string, err error) {
	abs, err := filepath.Abs(sourcePath)
	if err != nil {
		return nil, "", err
	}
	tomlPath, ok, err := project.FindLarkToml(filepath.Dir(abs))
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return nil, "", fmt.Errorf("no lark.toml found above %s", sourcePath)
	}
	manifest, err := project.LoadManifest(tomlPath)
	if err != nil {
		return nil, "", err
	}
	projectRoot = filepath.Dir(tomlPath)
	snapPath, err := manifest.SnapshotPath(projectRoot, abs)
	if err != nil {
		return nil, "", err
	}

	snap, err = openSnapshot(snapPath)
	if err == nil {
		return snap, projectRoot, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, "", err
	}

	key := cache.Digest(source.HashContent(raw))
	if cached, ok := snapshotFromCache(key); ok {
		return cached, projectRoot, nil
	}
	return nil, "", fmt.Errorf("no snapshot for %s (expected at %s): compile the file or store its snapshot", sourcePath, snapPath)
}

func snapshotFromCache(key cache.Digest) (*loadedSnapshot, bool) {
	dc, err := cache.OpenDiskCache(cacheAppName)
	if err != nil {
		return nil, false
	}
	var payload cache.Payload
	hit, err := dc.Get(key, &payload)
	if err != nil || !hit {
		return nil, false
	}
	snap, err := snapshotFromPayload("(cached) "+key.String()[:12], &payload, key)
	if err != nil {
		return nil, false
	}
	return snap, true
}
