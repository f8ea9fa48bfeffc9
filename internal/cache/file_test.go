package cache

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestWriteReadFileRoundTrip(t *testing.T) {
	m := buildFullMap()
	payload, err := Encode("demo/main", testFiles(), m)
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}

	path := filepath.Join(t.TempDir(), "nested", "main"+SnapshotExt)
	if err := WriteFile(path, payload); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}

	got, digest, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile returned error: %v", err)
	}
	if digest.IsZero() {
		t.Error("ReadFile produced a zero digest")
	}
	if !reflect.DeepEqual(payload, got) {
		t.Errorf("round trip changed payload:\n before: %+v\n after:  %+v", payload, got)
	}

	// Re-reading identical bytes must yield an identical digest.
	_, again, err := ReadFile(path)
	if err != nil {
		t.Fatalf("second ReadFile returned error: %v", err)
	}
	if digest != again {
		t.Errorf("digest changed between reads: %s vs %s", digest, again)
	}
}

func TestReadFileMissing(t *testing.T) {
	_, _, err := ReadFile(filepath.Join(t.TempDir(), "absent.lam"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ReadFile error = %v, want not-exist", err)
	}
	if IsSnapshot(err) {
		t.Error("IsSnapshot treated an IO failure as a payload problem")
	}
}

func TestReadFileCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.lam")
	if err := os.WriteFile(path, []byte("\xc1 definitely not msgpack"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err := ReadFile(path)
	if !errors.Is(err, ErrCorrupt) {
		t.Errorf("ReadFile error = %v, want ErrCorrupt", err)
	}
	if !IsSnapshot(err) {
		t.Error("IsSnapshot rejected a corrupt payload error")
	}
}

func TestReadFileStaleSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.lam")
	if err := WriteFile(path, &Payload{Schema: SchemaVersion + 1, Module: "demo"}); err != nil {
		t.Fatal(err)
	}

	_, _, err := ReadFile(path)
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Errorf("ReadFile error = %v, want ErrSchemaMismatch", err)
	}
	if !IsSnapshot(err) {
		t.Error("IsSnapshot rejected a schema mismatch")
	}
}

func TestWriteFileLeavesNoTemp(t *testing.T) {
	dir := t.TempDir()
	if err := WriteFile(filepath.Join(dir, "out.lam"), &Payload{Schema: SchemaVersion}); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "out.lam" {
		t.Errorf("directory holds %v, want only out.lam", entries)
	}
}
