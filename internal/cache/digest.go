package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest is a sha256 content hash.
type Digest [32]byte

// Sum hashes raw bytes.
func Sum(data []byte) Digest {
	return sha256.Sum256(data)
}

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// IsZero reports whether the digest is all zeroes, which no real
// content hashes to.
func (d Digest) IsZero() bool {
	var z Digest
	return d == z
}

// Combine folds several digests into one: H(d1 || d2 || ...). Callers
// must pass the parts in a deterministic order.
func Combine(parts ...Digest) Digest {
	h := sha256.New()
	for _, d := range parts {
		h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
