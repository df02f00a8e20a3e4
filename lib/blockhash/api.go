// Package blockhash computes the content digest carried by Block.Hash.
//
// Hashing is an external collaborator per the scan core's scope (the core
// only stores and compares hash.Hash values); this package is a concrete
// BLAKE3 implementation. No other package or test in the repository
// imports it.
package blockhash

import (
	"io"

	"github.com/zeebo/blake3"

	"github.com/arrayguard/parityscan/lib/hash"
)

// Sum reads r to EOF and returns its BLAKE3-256 digest.
func Sum(r io.Reader) (hash.Hash, error) {
	h := blake3.New()
	buf := make([]byte, 64*1024)
	if _, err := io.CopyBuffer(h, r, buf); err != nil {
		return hash.Hash{}, err
	}
	var out hash.Hash
	copy(out[:], h.Sum(nil))
	return out, nil
}

// SumBytes hashes data directly, for use over an already-read block buffer.
func SumBytes(data []byte) hash.Hash {
	digest := blake3.Sum256(data)
	var out hash.Hash
	copy(out[:], digest[:])
	return out
}
