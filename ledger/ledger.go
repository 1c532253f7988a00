// Package ledger implements the hash-chained transaction ledger: sealed
// blocks linked by SHA3-256 digests, a pending-transaction buffer, and
// proof-of-work mining against a leading-zero hex difficulty.
package ledger

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	DefaultDifficulty = 4
	defaultReward     = 100
)

// Config holds the construction-time parameters of a Ledger.
type Config struct {
	// Difficulty is the number of leading zero hex characters a block
	// digest must have. Held constant after construction unless reset
	// through SetDifficulty.
	Difficulty int

	// MiningReward is credited to the miner in every sealed block.
	MiningReward decimal.Decimal
}

// Ledger owns an ordered sequence of sealed blocks and a pending-transaction
// buffer. Blocks are never mutated after being appended; mining produces a
// fully-formed block or nothing.
type Ledger struct {
	mu      sync.RWMutex
	blocks  []*Block
	pending []Transaction

	// mineMu serializes miners so two concurrent mining calls cannot both
	// read the same tip and append conflicting successors. The state lock
	// is not held during the nonce search.
	mineMu sync.Mutex

	difficulty int
	reward     decimal.Decimal
}

// ChainInfo is a point-in-time summary of the chain.
type ChainInfo struct {
	Length       int    `json:"length"`
	Difficulty   int    `json:"difficulty"`
	Valid        bool   `json:"is_valid"`
	PendingCount int    `json:"pending_transactions"`
	TipIndex     uint64 `json:"tip_index"`
	TipHash      Hash32 `json:"tip_hash"`
	TipTimestamp int64  `json:"tip_timestamp"`
}

// New constructs a ledger and mines its genesis block at the configured
// difficulty. Genesis carries no transactions and a zero previous hash.
func New(cfg Config) *Ledger {
	if cfg.Difficulty <= 0 {
		cfg.Difficulty = DefaultDifficulty
	}
	if cfg.MiningReward.IsZero() {
		cfg.MiningReward = decimal.NewFromInt(defaultReward)
	}

	l := &Ledger{
		difficulty: cfg.Difficulty,
		reward:     cfg.MiningReward,
	}

	genesis := &Block{
		Index:        0,
		Timestamp:    time.Now().Unix(),
		Transactions: nil,
		PreviousHash: Hash32{},
	}
	// Genesis mining cannot be cancelled; construction either completes or
	// the process is stuck on a difficulty it could never mine under anyway.
	if err := mineNonce(context.Background(), genesis, l.difficulty); err != nil {
		log.Fatalf("LEDGER\tfailed to mine genesis block: %v", err)
	}
	l.blocks = []*Block{genesis}

	log.Printf("LEDGER\tgenesis block sealed, difficulty=%d hash=%s", l.difficulty, genesis.Hash)
	return l
}

// AddTransaction appends tx to the pending buffer. The only validation is
// that required fields are present; anything further (balances, compliance)
// belongs to the caller.
func (l *Ledger) AddTransaction(tx Transaction) error {
	if err := tx.CheckRequired(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.pending = append(l.pending, tx)
	return nil
}

// MinePendingTransactions seals the pending buffer plus a reward transaction
// crediting miner into a new block, appends it and clears the buffer. It
// fails with ErrNoWork when the buffer is empty, mutating nothing. The nonce
// search blocks until it succeeds or ctx is cancelled.
func (l *Ledger) MinePendingTransactions(ctx context.Context, miner string) (*Block, error) {
	if miner == "" {
		return nil, errors.New("miner identifier must not be empty")
	}

	l.mineMu.Lock()
	defer l.mineMu.Unlock()

	l.mu.Lock()
	if len(l.pending) == 0 {
		l.mu.Unlock()
		return nil, ErrNoWork
	}
	txs := make([]Transaction, len(l.pending), len(l.pending)+1)
	copy(txs, l.pending)
	tip := l.blocks[len(l.blocks)-1]
	candidate := &Block{
		Index:        uint64(len(l.blocks)),
		Timestamp:    time.Now().Unix(),
		Transactions: append(txs, Transaction{
			From:   RewardSender,
			To:     miner,
			Amount: l.reward,
			Type:   "mining_reward",
		}),
		PreviousHash: tip.Hash,
	}
	difficulty := l.difficulty
	l.mu.Unlock()

	start := time.Now()
	if err := mineNonce(ctx, candidate, difficulty); err != nil {
		return nil, err
	}
	log.Printf("MINING\tblock %d sealed in %s, nonce=%d hash=%s",
		candidate.Index, time.Since(start).Round(time.Millisecond), candidate.Nonce, candidate.Hash)

	l.mu.Lock()
	defer l.mu.Unlock()
	// Miners are serialized and only mining appends, so the tip cannot have
	// moved. Checked anyway so a future writer cannot corrupt the chain.
	if l.blocks[len(l.blocks)-1].Hash != candidate.PreviousHash {
		return nil, ErrStaleTip
	}
	l.blocks = append(l.blocks, candidate)
	l.pending = nil
	return candidate, nil
}

// Validate recomputes every block's digest and checks digest equality,
// linkage to the previous block and the proof-of-work prefix. It returns nil
// for a valid chain or a *ValidationError naming the first failing index.
func (l *Ledger) Validate() error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for i := 1; i < len(l.blocks); i++ {
		current := l.blocks[i]
		previous := l.blocks[i-1]

		if recomputed := HashBlock(current); recomputed != current.Hash {
			return &ValidationError{Index: current.Index, Reason: "stored hash does not match recomputed digest"}
		}
		if current.PreviousHash != previous.Hash {
			return &ValidationError{Index: current.Index, Reason: "previous-hash link broken"}
		}
		if !HashMeetsDifficulty(current.Hash, l.difficulty) {
			return &ValidationError{Index: current.Index, Reason: "digest does not meet difficulty"}
		}
	}
	return nil
}

// IsChainValid is the boolean form of Validate.
func (l *Ledger) IsChainValid() bool {
	return l.Validate() == nil
}

// Balance walks the whole chain and nets every transaction touching addr.
func (l *Ledger) Balance(addr string) decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()

	balance := decimal.Zero
	for _, block := range l.blocks {
		for i := range block.Transactions {
			tx := &block.Transactions[i]
			if tx.From == addr {
				balance = balance.Sub(tx.Amount)
			}
			if tx.To == addr {
				balance = balance.Add(tx.Amount)
			}
		}
	}
	return balance
}

// Tip returns the most recent sealed block.
func (l *Ledger) Tip() *Block {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.blocks[len(l.blocks)-1]
}

// Block returns the sealed block at index, or an error if out of range.
func (l *Ledger) Block(index uint64) (*Block, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if index >= uint64(len(l.blocks)) {
		return nil, errors.Errorf("block index %d out of range (height %d)", index, len(l.blocks))
	}
	return l.blocks[index], nil
}

// Blocks returns a copy of the chain slice. The blocks themselves are shared
// read-only; callers must not mutate them.
func (l *Ledger) Blocks() []*Block {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*Block, len(l.blocks))
	copy(out, l.blocks)
	return out
}

// Height returns the number of sealed blocks, genesis included.
func (l *Ledger) Height() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.blocks)
}

// PendingCount returns the size of the pending buffer.
func (l *Ledger) PendingCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.pending)
}

// PendingTransactions returns a snapshot of the pending buffer.
func (l *Ledger) PendingTransactions() []Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Transaction, len(l.pending))
	copy(out, l.pending)
	return out
}

// Difficulty returns the current difficulty.
func (l *Ledger) Difficulty() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.difficulty
}

// SetDifficulty resets the difficulty. There is no retargeting algorithm;
// this is an explicit external reset and affects future blocks and future
// validation only.
func (l *Ledger) SetDifficulty(difficulty int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if difficulty < 0 {
		difficulty = 0
	}
	l.difficulty = difficulty
}

// Info returns a point-in-time summary of the chain.
func (l *Ledger) Info() ChainInfo {
	valid := l.IsChainValid()

	l.mu.RLock()
	defer l.mu.RUnlock()
	tip := l.blocks[len(l.blocks)-1]
	return ChainInfo{
		Length:       len(l.blocks),
		Difficulty:   l.difficulty,
		Valid:        valid,
		PendingCount: len(l.pending),
		TipIndex:     tip.Index,
		TipHash:      tip.Hash,
		TipTimestamp: tip.Timestamp,
	}
}
