package ledger

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrMalformedTransaction is returned by AddTransaction when a required
	// field is missing. Wrapped errors name the offending field.
	ErrMalformedTransaction = errors.New("malformed transaction")

	// ErrNoWork is returned when mining is attempted with an empty pending
	// buffer. Mining with zero transactions would attach the miner's reward
	// alone with no auditable source, so it is rejected outright.
	ErrNoWork = errors.New("no pending transactions to mine")

	// ErrStaleTip is returned when a sealed block no longer links to the
	// current chain tip at append time.
	ErrStaleTip = errors.New("sealed block does not extend the current tip")
)

// ValidationError identifies the first block that failed chain validation.
type ValidationError struct {
	Index  uint64
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("chain validation failed at block %d: %s", e.Index, e.Reason)
}
