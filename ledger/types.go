package ledger

import (
	"encoding/hex"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// RewardSender is the sender identifier used for mining reward transactions.
const RewardSender = "system"

type Hash32 [32]byte

// MarshalText renders the hash as lowercase hex, so JSON output matches
// the digest prefix callers compare against.
func (h Hash32) MarshalText() ([]byte, error) {
	return []byte(hex.EncodeToString(h[:])), nil
}

func (h *Hash32) UnmarshalText(text []byte) error {
	raw, err := hex.DecodeString(string(text))
	if err != nil {
		return errors.Wrap(err, "decoding hash")
	}
	if len(raw) != len(h) {
		return errors.Errorf("hash must be %d bytes, got %d", len(h), len(raw))
	}
	copy(h[:], raw)
	return nil
}

func (h Hash32) String() string {
	return hex.EncodeToString(h[:])
}

// Transaction is a transfer record. From, To and a non-negative Amount are
// required; Type and Metadata are free-form. Once included in a block a
// transaction is never mutated.
type Transaction struct {
	From     string            `json:"from"`
	To       string            `json:"to"`
	Amount   decimal.Decimal   `json:"amount"`
	Type     string            `json:"type,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// CheckRequired reports which required field, if any, is missing or invalid.
func (tx *Transaction) CheckRequired() error {
	if tx.From == "" {
		return errors.Wrap(ErrMalformedTransaction, "missing sender")
	}
	if tx.To == "" {
		return errors.Wrap(ErrMalformedTransaction, "missing recipient")
	}
	if tx.Amount.IsNegative() {
		return errors.Wrap(ErrMalformedTransaction, "negative amount")
	}
	return nil
}

// Block is an immutable record of ordered transactions plus linkage metadata.
// Hash is the digest of {index, timestamp, transactions, previous hash, nonce}
// and is fixed once the block is sealed by mining.
type Block struct {
	Index        uint64        `json:"index"`
	Timestamp    int64         `json:"timestamp"`
	Transactions []Transaction `json:"transactions"`
	PreviousHash Hash32        `json:"previous_hash"`
	Nonce        uint64        `json:"nonce"`
	Hash         Hash32        `json:"hash"`
}
