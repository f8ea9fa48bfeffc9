package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "lark.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Manifest
		wantErr error
	}{
		{
			name: "full",
			content: `[package]
name = "demo/main"
root = "src"

[annotations]
dir = "build/annot"
`,
			want: Manifest{Name: "demo/main", Root: "src", AnnotDir: "build/annot"},
		},
		{
			name: "defaults",
			content: `[package]
name = "demo"
`,
			want: Manifest{Name: "demo", Root: ".", AnnotDir: DefaultAnnotDir},
		},
		{
			name:    "missing package section",
			content: `[annotations]` + "\n" + `dir = "x"` + "\n",
			wantErr: ErrPackageSectionMissing,
		},
		{
			name:    "missing name",
			content: `[package]` + "\n" + `root = "src"` + "\n",
			wantErr: ErrPackageNameMissing,
		},
		{
			name:    "blank name",
			content: `[package]` + "\n" + `name = "  "` + "\n",
			wantErr: ErrPackageNameMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tt.content)
			got, err := LoadManifest(path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("LoadManifest error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadManifest returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("LoadManifest = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLoadManifestRejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "invalid toml", content: "[package\nname="},
		{name: "invalid package name", content: "[package]\nname = \"9lives\"\n"},
		{name: "empty name segment", content: "[package]\nname = \"demo//main\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tt.content)
			if _, err := LoadManifest(path); err == nil {
				t.Error("LoadManifest accepted a bad manifest")
			}
		})
	}
}

func TestFindLarkToml(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	want := writeManifest(t, root, "[package]\nname = \"demo\"\n")

	got, ok, err := FindLarkToml(nested)
	if err != nil {
		t.Fatalf("FindLarkToml returned error: %v", err)
	}
	if !ok {
		t.Fatal("FindLarkToml did not find the manifest")
	}
	if got != want {
		t.Errorf("FindLarkToml = %q, want %q", got, want)
	}

	projRoot, ok, err := FindProjectRoot(nested)
	if err != nil || !ok {
		t.Fatalf("FindProjectRoot = (%v, %v)", ok, err)
	}
	if projRoot != root {
		t.Errorf("FindProjectRoot = %q, want %q", projRoot, root)
	}
}

func TestFindLarkTomlAbsent(t *testing.T) {
	_, ok, err := FindLarkToml(t.TempDir())
	if err != nil {
		t.Fatalf("FindLarkToml returned error: %v", err)
	}
	if ok {
		t.Error("FindLarkToml reported a manifest in an empty tree")
	}
}

func TestRootDir(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "src"), 0o755); err != nil {
		t.Fatal(err)
	}

	dir, err := Manifest{Name: "demo", Root: "src"}.RootDir(root)
	if err != nil {
		t.Fatalf("RootDir returned error: %v", err)
	}
	if dir != filepath.Join(root, "src") {
		t.Errorf("RootDir = %q", dir)
	}

	dir, err = Manifest{Name: "demo", Root: "."}.RootDir(root)
	if err != nil {
		t.Fatalf("RootDir(.) returned error: %v", err)
	}
	if dir != filepath.Clean(root) {
		t.Errorf("RootDir(.) = %q, want %q", dir, root)
	}

	if _, err := (Manifest{Name: "demo", Root: "missing"}).RootDir(root); err == nil {
		t.Error("RootDir accepted a directory that does not exist")
	}
	if _, err := (Manifest{Name: "demo", Root: "/abs"}).RootDir(root); err == nil {
		t.Error("RootDir accepted an absolute root")
	}
	if _, err := (Manifest{Name: "demo", Root: "../out"}).RootDir(root); err == nil {
		t.Error("RootDir accepted a root that escapes the project")
	}
}

func TestSnapshotPath(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "src"), 0o755); err != nil {
		t.Fatal(err)
	}
	m := Manifest{Name: "demo", Root: "src", AnnotDir: DefaultAnnotDir}

	got, err := m.SnapshotPath(root, filepath.Join(root, "src", "pkg", "main.lk"))
	if err != nil {
		t.Fatalf("SnapshotPath returned error: %v", err)
	}
	want := filepath.Join(root, DefaultAnnotDir, "pkg", "main.lk") + ".lam"
	if got != want {
		t.Errorf("SnapshotPath = %q, want %q", got, want)
	}

	if _, err := m.SnapshotPath(root, filepath.Join(root, "other", "a.lk")); err == nil {
		t.Error("SnapshotPath accepted a source outside the package root")
	}
}

func TestIsValidPackageName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"demo", true},
		{"demo/main", true},
		{"std/core/list", true},
		{"_internal", true},
		{"a1/b2", true},
		{"", false},
		{"9lives", false},
		{"demo//main", false},
		{"demo/", false},
		{"/demo", false},
		{"dem o", false},
		{"déjà", false},
	}
	for _, tt := range tests {
		if got := IsValidPackageName(tt.name); got != tt.want {
			t.Errorf("IsValidPackageName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
