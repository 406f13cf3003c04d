package project

import (
	"crypto/sha256"
	"encoding/binary"
)

// Digest is a sha256 value.
type Digest [sha256.Size]byte

// Combine hashes content followed by each dep in order. Callers keep deps
// in a deterministic order.
func Combine(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range deps {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Uint64 renders v as a digest so integers can be fed to Combine.
func Uint64(v uint64) Digest {
	var d Digest
	binary.BigEndian.PutUint64(d[len(d)-8:], v)
	return d
}
