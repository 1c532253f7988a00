package rosegold

import (
	"encoding/binary"
	mrand "math/rand"

	"golang.org/x/crypto/sha3"
)

// substitutionTable builds a bijection over the full byte range from the
// layer-2 key and a per-message seed. The table is a Fisher-Yates shuffle of
// the identity permutation driven by a deterministic PRNG, so encrypt and
// decrypt regenerate identical tables without transmitting all 256 entries.
func substitutionTable(key [32]byte, seed []byte) [256]byte {
	h := sha3.New256()
	h.Write(key[:])
	h.Write(seed)
	digest := h.Sum(nil)

	rng := mrand.New(mrand.NewSource(int64(binary.BigEndian.Uint64(digest[:8]))))

	var table [256]byte
	for i := range table {
		table[i] = byte(i)
	}
	for i := len(table) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		table[i], table[j] = table[j], table[i]
	}
	return table
}

// invertTable returns the inverse mapping. Inversion is total because the
// table is a bijection.
func invertTable(table [256]byte) [256]byte {
	var inverse [256]byte
	for i, v := range table {
		inverse[v] = byte(i)
	}
	return inverse
}
