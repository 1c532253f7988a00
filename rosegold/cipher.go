// Package rosegold implements the Rose Gold triple-layer cipher: an XOR
// transform under a per-instance key, a bijective byte substitution under a
// per-message key, and a keyed SHA3-256 integrity digest.
//
// Decrypt deliberately never fails on a digest mismatch: it reports tampering
// through the verified boolean and still returns the best-effort plaintext so
// partial forensic recovery remains possible. Callers must reject output when
// verified is false.
package rosegold

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"

	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"
)

const (
	masterKeySize = 32
	seedSize      = 8
	digestSize    = 32
)

// Cipher holds the derived layer keys. It has no mutable state after
// construction and is safe for concurrent use.
type Cipher struct {
	layer1Key   [32]byte
	layer2Key   [32]byte
	macKey      [32]byte
	fingerprint [32]byte
}

// Payload is the output of Encrypt: the stage-1/2 ciphertext, the per-message
// substitution seed, and the integrity digest over both. It is consumed whole
// by Decrypt, never partially.
type Payload struct {
	Ciphertext []byte `json:"ciphertext"`
	Seed       []byte `json:"seed"`
	Digest     []byte `json:"digest"`
}

// New derives the layer keys from masterKey. When masterKey is empty a fresh
// 32-byte key is drawn from the system CSPRNG.
func New(masterKey []byte) (*Cipher, error) {
	if len(masterKey) == 0 {
		masterKey = make([]byte, masterKeySize)
		if _, err := rand.Read(masterKey); err != nil {
			return nil, errors.Wrap(err, "generating master key")
		}
	}

	c := &Cipher{
		layer1Key:   deriveKey(masterKey, "layer1"),
		layer2Key:   deriveKey(masterKey, "layer2"),
		macKey:      deriveKey(masterKey, "layer3"),
		fingerprint: sha3.Sum256(masterKey),
	}
	return c, nil
}

// Fingerprint returns the hex SHA3-256 of the master key, for key
// identification without revealing key material.
func (c *Cipher) Fingerprint() string {
	return hex.EncodeToString(c.fingerprint[:])
}

// Encrypt applies the three stages in order. It succeeds for any input,
// including empty; the only failure source is the entropy read for the
// per-message seed.
func (c *Cipher) Encrypt(plaintext []byte) (Payload, error) {
	seed := make([]byte, seedSize)
	if _, err := rand.Read(seed); err != nil {
		return Payload{}, errors.Wrap(err, "generating substitution seed")
	}

	// Stage 1: XOR against the repeating instance key.
	out := xorKeystream(plaintext, c.layer1Key)

	// Stage 2: bijective substitution under the per-message table.
	table := substitutionTable(c.layer2Key, seed)
	for i, b := range out {
		out[i] = table[b]
	}

	return Payload{
		Ciphertext: out,
		Seed:       seed,
		Digest:     c.integrityDigest(seed, out),
	}, nil
}

// Decrypt reverses the stages. The returned boolean is false when the
// recomputed digest does not match the stored one; the plaintext is still
// produced best-effort in that case.
func (c *Cipher) Decrypt(p Payload) ([]byte, bool) {
	expected := c.integrityDigest(p.Seed, p.Ciphertext)
	verified := subtle.ConstantTimeCompare(expected, p.Digest) == 1

	inverse := invertTable(substitutionTable(c.layer2Key, p.Seed))
	out := make([]byte, len(p.Ciphertext))
	for i, b := range p.Ciphertext {
		out[i] = inverse[b]
	}
	out = xorKeystream(out, c.layer1Key)

	return out, verified
}

// integrityDigest computes the keyed stage-3 digest. The seed is covered as
// well as the ciphertext, so a tampered seed is flagged just like a flipped
// ciphertext bit.
func (c *Cipher) integrityDigest(seed, ciphertext []byte) []byte {
	h := sha3.New256()
	h.Write(seed)
	h.Write(ciphertext)
	h.Write(c.macKey[:])
	return h.Sum(nil)
}

func deriveKey(master []byte, label string) [32]byte {
	h := sha3.New256()
	h.Write(master)
	h.Write([]byte(label))
	var key [32]byte
	copy(key[:], h.Sum(nil))
	return key
}

// xorKeystream is its own inverse: applying the identical key a second time
// restores the original bytes.
func xorKeystream(data []byte, key [32]byte) []byte {
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = b ^ key[i%len(key)]
	}
	return out
}
