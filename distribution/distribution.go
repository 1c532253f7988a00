// Package distribution implements the treasury's allocation strategies:
// pure arithmetic over a participant list, recorded for audit.
package distribution

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type Strategy string

const (
	StrategyEqual        Strategy = "equal"
	StrategyProportional Strategy = "proportional"
	StrategyNeedBased    Strategy = "need_based"
	StrategyHybrid       Strategy = "hybrid"
	StrategyAbundance    Strategy = "galactic_abundance"
)

var (
	ErrNoParticipants    = errors.New("no participants provided for distribution")
	ErrNonPositiveAmount = errors.New("total amount must be positive")
)

// Participant is one allocation target. Stake and ContributionScore weight
// the proportional strategies; NeedScore weights the need-based one.
type Participant struct {
	Address           string          `json:"address"`
	Stake             decimal.Decimal `json:"stake"`
	NeedScore         decimal.Decimal `json:"need_score"`
	ContributionScore decimal.Decimal `json:"contribution_score"`
}

// Record is one completed distribution, kept in history for audit.
type Record struct {
	ID         string                     `json:"id"`
	Timestamp  time.Time                  `json:"timestamp"`
	Strategy   Strategy                   `json:"strategy"`
	Total      decimal.Decimal            `json:"total_amount"`
	Allocation map[string]decimal.Decimal `json:"allocation"`
}

// Distributor allocates amounts across participants under a configured
// default strategy.
type Distributor struct {
	mu               sync.Mutex
	strategy         Strategy
	history          []Record
	totalDistributed decimal.Decimal
}

func New(strategy Strategy) *Distributor {
	if strategy == "" {
		strategy = StrategyEqual
	}
	return &Distributor{strategy: strategy, totalDistributed: decimal.Zero}
}

// Distribute allocates total across participants using the default strategy.
func (d *Distributor) Distribute(total decimal.Decimal, participants []Participant) (map[string]decimal.Decimal, error) {
	return d.DistributeWith(d.strategy, total, participants)
}

// DistributeWith allocates total across participants using an explicit
// strategy, records the result and updates the running total.
func (d *Distributor) DistributeWith(strategy Strategy, total decimal.Decimal, participants []Participant) (map[string]decimal.Decimal, error) {
	if len(participants) == 0 {
		return nil, ErrNoParticipants
	}
	if !total.IsPositive() {
		return nil, ErrNonPositiveAmount
	}

	allocation, err := allocate(strategy, total, participants)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.history = append(d.history, Record{
		ID:         uuid.NewString(),
		Timestamp:  time.Now(),
		Strategy:   strategy,
		Total:      total,
		Allocation: allocation,
	})
	d.totalDistributed = d.totalDistributed.Add(total)

	return allocation, nil
}

// History returns a copy of the distribution records in order.
func (d *Distributor) History() []Record {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Record, len(d.history))
	copy(out, d.history)
	return out
}

// TotalDistributed returns the running sum across all recorded distributions.
func (d *Distributor) TotalDistributed() decimal.Decimal {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.totalDistributed
}

func allocate(strategy Strategy, total decimal.Decimal, participants []Participant) (map[string]decimal.Decimal, error) {
	switch strategy {
	case StrategyEqual:
		return equalSplit(total, participants), nil
	case StrategyProportional:
		return proportionalSplit(total, participants), nil
	case StrategyNeedBased:
		return needBasedSplit(total, participants), nil
	case StrategyHybrid:
		return hybridSplit(total, participants), nil
	case StrategyAbundance:
		return abundanceSplit(total, participants), nil
	default:
		return nil, errors.Errorf("unknown distribution strategy %q", strategy)
	}
}

func equalSplit(total decimal.Decimal, participants []Participant) map[string]decimal.Decimal {
	share := total.Div(decimal.NewFromInt(int64(len(participants))))
	allocation := make(map[string]decimal.Decimal, len(participants))
	for _, p := range participants {
		allocation[p.Address] = share
	}
	return allocation
}

// proportionalSplit weights by stake plus contribution, falling back to an
// equal split when every weight is zero.
func proportionalSplit(total decimal.Decimal, participants []Participant) map[string]decimal.Decimal {
	totalWeight := decimal.Zero
	for _, p := range participants {
		totalWeight = totalWeight.Add(p.Stake).Add(p.ContributionScore)
	}
	if totalWeight.IsZero() {
		return equalSplit(total, participants)
	}

	allocation := make(map[string]decimal.Decimal, len(participants))
	for _, p := range participants {
		weight := p.Stake.Add(p.ContributionScore)
		allocation[p.Address] = weight.Mul(total).Div(totalWeight)
	}
	return allocation
}

// needBasedSplit weights by need score, falling back to an equal split when
// no participant reports need.
func needBasedSplit(total decimal.Decimal, participants []Participant) map[string]decimal.Decimal {
	totalNeed := decimal.Zero
	for _, p := range participants {
		totalNeed = totalNeed.Add(p.NeedScore)
	}
	if totalNeed.IsZero() {
		return equalSplit(total, participants)
	}

	allocation := make(map[string]decimal.Decimal, len(participants))
	for _, p := range participants {
		allocation[p.Address] = p.NeedScore.Mul(total).Div(totalNeed)
	}
	return allocation
}

var (
	hybridProportionalWeight = decimal.RequireFromString("0.4")
	hybridNeedWeight         = decimal.RequireFromString("0.4")
	hybridEqualWeight        = decimal.RequireFromString("0.2")
	abundanceBaseShare       = decimal.RequireFromString("0.6")
	abundanceMeritShare      = decimal.RequireFromString("0.4")
)

// hybridSplit combines 40% proportional, 40% need-based and 20% equal.
func hybridSplit(total decimal.Decimal, participants []Participant) map[string]decimal.Decimal {
	proportional := proportionalSplit(total, participants)
	needBased := needBasedSplit(total, participants)
	equal := equalSplit(total, participants)

	allocation := make(map[string]decimal.Decimal, len(participants))
	for _, p := range participants {
		allocation[p.Address] = hybridProportionalWeight.Mul(proportional[p.Address]).
			Add(hybridNeedWeight.Mul(needBased[p.Address])).
			Add(hybridEqualWeight.Mul(equal[p.Address]))
	}
	return allocation
}

// abundanceSplit grants a universal equal base (60%) plus a proportional
// merit share (40%).
func abundanceSplit(total decimal.Decimal, participants []Participant) map[string]decimal.Decimal {
	base := equalSplit(total.Mul(abundanceBaseShare), participants)
	merit := proportionalSplit(total.Mul(abundanceMeritShare), participants)

	allocation := make(map[string]decimal.Decimal, len(participants))
	for _, p := range participants {
		allocation[p.Address] = base[p.Address].Add(merit[p.Address])
	}
	return allocation
}
