package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

// SnapshotExt is the extension the compiler gives per-file payloads.
const SnapshotExt = ".lam"

// WriteFile serializes the payload to path atomically: the bytes land
// in a temp file in the same directory, then rename into place.
func WriteFile(path string, p *Payload) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(p); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// ReadFile loads and schema-checks a payload. The second result is the
// digest of the raw bytes, used as a merge cache key.
func ReadFile(path string) (*Payload, Digest, error) {
	// #nosec G304 -- path is provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Digest{}, err
	}
	digest := Sum(data)

	var p Payload
	if err := msgpack.Unmarshal(data, &p); err != nil {
		return nil, digest, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if p.Schema != SchemaVersion {
		return nil, digest, fmt.Errorf("%w: got %d, want %d", ErrSchemaMismatch, p.Schema, SchemaVersion)
	}
	return &p, digest, nil
}

// IsSnapshot reports whether the error indicates a payload problem
// rather than plain IO trouble.
func IsSnapshot(err error) bool {
	return errors.Is(err, ErrCorrupt) || errors.Is(err, ErrSchemaMismatch)
}
