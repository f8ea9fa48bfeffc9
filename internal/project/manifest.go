package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"

	"lark/internal/cache"
)

// DefaultAnnotDir is where compilers drop snapshots when the manifest
// does not say otherwise.
const DefaultAnnotDir = ".lark/annot"

// Manifest carries the lark.toml fields the annotation tooling needs.
type Manifest struct {
	Name     string // [package].name
	Root     string // [package].root, "." when absent
	AnnotDir string // [annotations].dir, DefaultAnnotDir when absent
}

var (
	// ErrPackageSectionMissing indicates that [package] is missing in lark.toml.
	ErrPackageSectionMissing = errors.New("missing [package]")
	// ErrPackageNameMissing indicates that [package].name is missing in lark.toml.
	ErrPackageNameMissing = errors.New("missing [package].name")
)

type manifestFile struct {
	Package struct {
		Name string `toml:"name"`
		Root string `toml:"root"`
	} `toml:"package"`
	Annotations struct {
		Dir string `toml:"dir"`
	} `toml:"annotations"`
}

// LoadManifest parses lark.toml at path.
func LoadManifest(path string) (Manifest, error) {
	var cfg manifestFile
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Manifest{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return Manifest{}, fmt.Errorf("%s: %w", path, ErrPackageSectionMissing)
	}
	name := strings.TrimSpace(cfg.Package.Name)
	if !meta.IsDefined("package", "name") || name == "" {
		return Manifest{}, fmt.Errorf("%s: %w", path, ErrPackageNameMissing)
	}
	if !IsValidPackageName(name) {
		return Manifest{}, fmt.Errorf("%s: invalid package name %q", path, name)
	}

	m := Manifest{Name: name, Root: ".", AnnotDir: DefaultAnnotDir}
	if root := strings.TrimSpace(cfg.Package.Root); root != "" {
		m.Root = root
	}
	if dir := strings.TrimSpace(cfg.Annotations.Dir); dir != "" {
		m.AnnotDir = dir
	}
	return m, nil
}

// RootDir resolves the package source root against the project root.
// The directory must exist.
func (m Manifest) RootDir(projectRoot string) (string, error) {
	dir, err := resolveUnder(projectRoot, m.Root, "[package].root")
	if err != nil {
		return "", err
	}
	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("invalid [package].root %q: %w", m.Root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("invalid [package].root %q: not a directory", m.Root)
	}
	return dir, nil
}

// AnnotationsDir resolves the snapshot directory against the project
// root. It may not exist yet: the compiler creates it on first emit.
func (m Manifest) AnnotationsDir(projectRoot string) (string, error) {
	return resolveUnder(projectRoot, m.AnnotDir, "[annotations].dir")
}

// SnapshotPath maps a source file under the package root to the
// snapshot the compiler writes for it: the source's root-relative path
// mirrored below the annotations directory, with ".lam" appended.
func (m Manifest) SnapshotPath(projectRoot, sourcePath string) (string, error) {
	rootDir, err := resolveUnder(projectRoot, m.Root, "[package].root")
	if err != nil {
		return "", err
	}
	annotDir, err := m.AnnotationsDir(projectRoot)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(sourcePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", sourcePath, err)
	}
	rel, err := filepath.Rel(rootDir, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%q is outside the package root", sourcePath)
	}
	return filepath.Join(annotDir, rel) + cache.SnapshotExt, nil
}

func resolveUnder(projectRoot, rel, what string) (string, error) {
	rel = strings.TrimSpace(rel)
	if rel == "" {
		return "", fmt.Errorf("invalid %s: empty", what)
	}
	if filepath.IsAbs(rel) {
		return "", fmt.Errorf("invalid %s %q: must be relative", what, rel)
	}
	clean := filepath.Clean(filepath.FromSlash(rel))
	if clean == "." {
		return filepath.Clean(projectRoot), nil
	}
	path := filepath.Join(projectRoot, clean)
	if !pathWithin(projectRoot, path) {
		return "", fmt.Errorf("invalid %s %q: escapes project root", what, rel)
	}
	return path, nil
}

// IsValidPackageName accepts slash-separated identifier segments, the
// shape reference names use for their module part.
func IsValidPackageName(name string) bool {
	if name == "" {
		return false
	}
	for _, seg := range strings.Split(name, "/") {
		if !isValidIdent(seg) {
			return false
		}
	}
	return true
}

func isValidIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
		if i == 0 && r != '_' && !unicode.IsLetter(r) {
			return false
		}
		if i > 0 && r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func pathWithin(root, path string) bool {
	if root == "" || path == "" {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return !strings.HasPrefix(rel, "..") && rel != ".."
}
