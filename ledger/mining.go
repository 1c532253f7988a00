package ledger

import (
	"context"

	"github.com/pkg/errors"
)

// cancelCheckInterval is how many nonce attempts run between context checks.
// The search is otherwise unbounded, so this is the only way out under a
// difficulty the hardware cannot satisfy in reasonable time.
const cancelCheckInterval = 4096

// mineNonce searches nonce values starting at 0, recomputing the block digest
// each time, until the digest meets the difficulty prefix. The block's Nonce
// and Hash fields are set on success. The search is deterministic: identical
// block contents and difficulty always reproduce the same nonce and digest.
func mineNonce(ctx context.Context, b *Block, difficulty int) error {
	b.Nonce = 0
	for attempts := 0; ; attempts++ {
		if attempts%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return errors.Wrap(err, "mining cancelled")
			}
		}
		hash := HashBlock(b)
		if HashMeetsDifficulty(hash, difficulty) {
			b.Hash = hash
			return nil
		}
		b.Nonce++
	}
}
