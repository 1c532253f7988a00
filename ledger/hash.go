package ledger

import (
	"encoding/binary"
	"io"
	"sort"

	"golang.org/x/crypto/sha3"
)

func uint64ToBytes(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}

func writeLenPrefixed(h io.Writer, data []byte) {
	h.Write(uint64ToBytes(uint64(len(data))))
	h.Write(data)
}

// HashTransaction computes a deterministic SHA3-256 digest of a transaction.
// Every field is length-prefixed so adjacent fields cannot be confused.
func HashTransaction(tx *Transaction) Hash32 {
	h := sha3.New256()
	writeLenPrefixed(h, []byte(tx.From))
	writeLenPrefixed(h, []byte(tx.To))
	writeLenPrefixed(h, []byte(tx.Amount.String()))
	writeLenPrefixed(h, []byte(tx.Type))
	h.Write(uint64ToBytes(uint64(len(tx.Metadata))))
	for _, k := range sortedKeys(tx.Metadata) {
		writeLenPrefixed(h, []byte(k))
		writeLenPrefixed(h, []byte(tx.Metadata[k]))
	}
	var hash Hash32
	copy(hash[:], h.Sum(nil))
	return hash
}

// HashBlock computes the block digest over index, timestamp, transactions,
// previous hash and nonce. The stored Hash field is not an input.
func HashBlock(b *Block) Hash32 {
	h := sha3.New256()
	h.Write(uint64ToBytes(b.Index))
	h.Write(uint64ToBytes(uint64(b.Timestamp)))
	h.Write(b.PreviousHash[:])
	h.Write(uint64ToBytes(uint64(len(b.Transactions))))
	for i := range b.Transactions {
		txHash := HashTransaction(&b.Transactions[i])
		h.Write(txHash[:])
	}
	h.Write(uint64ToBytes(b.Nonce))
	var hash Hash32
	copy(hash[:], h.Sum(nil))
	return hash
}

// HashMeetsDifficulty reports whether the digest's leading `difficulty` hex
// characters are all zero. Each byte covers two hex characters.
func HashMeetsDifficulty(hash Hash32, difficulty int) bool {
	if difficulty <= 0 {
		return true
	}
	if difficulty > 2*len(hash) {
		return false
	}
	for i := 0; i < difficulty/2; i++ {
		if hash[i] != 0 {
			return false
		}
	}
	if difficulty%2 == 1 && hash[difficulty/2]>>4 != 0 {
		return false
	}
	return true
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
