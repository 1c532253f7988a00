package distribution

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Stats is an aggregate view over the recorded distribution history.
type Stats struct {
	TotalDistributions  int             `json:"total_distributions"`
	TotalDistributed    decimal.Decimal `json:"total_distributed"`
	AverageDistribution decimal.Decimal `json:"average_distribution"`
	UniqueRecipients    int             `json:"unique_recipients"`
	CurrentStrategy     Strategy        `json:"current_strategy"`
}

// Stats aggregates the distribution history. An empty history yields zeroes
// with the configured strategy.
func (d *Distributor) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()

	stats := Stats{
		TotalDistributions:  len(d.history),
		TotalDistributed:    d.totalDistributed,
		AverageDistribution: decimal.Zero,
		CurrentStrategy:     d.strategy,
	}

	recipients := make(map[string]struct{})
	for _, record := range d.history {
		for address := range record.Allocation {
			recipients[address] = struct{}{}
		}
	}
	stats.UniqueRecipients = len(recipients)

	if len(d.history) > 0 {
		stats.AverageDistribution = d.totalDistributed.Div(decimal.NewFromInt(int64(len(d.history))))
	}
	return stats
}

// GiniCoefficient measures the inequality of an allocation: 0 for a perfectly
// equal split, approaching 1 as one recipient takes everything. Empty or
// zero-sum allocations score 0.
func GiniCoefficient(allocation map[string]decimal.Decimal) decimal.Decimal {
	if len(allocation) == 0 {
		return decimal.Zero
	}

	values := make([]decimal.Decimal, 0, len(allocation))
	sum := decimal.Zero
	for _, amount := range allocation {
		values = append(values, amount)
		sum = sum.Add(amount)
	}
	if sum.IsZero() {
		return decimal.Zero
	}

	sort.Slice(values, func(i, j int) bool { return values[i].LessThan(values[j]) })

	// Weighted cumulative sum over the ascending values: the i-th smallest
	// value carries weight n-i.
	n := decimal.NewFromInt(int64(len(values)))
	cumulative := decimal.Zero
	for i, value := range values {
		weight := decimal.NewFromInt(int64(len(values) - i))
		cumulative = cumulative.Add(weight.Mul(value))
	}

	one := decimal.NewFromInt(1)
	two := decimal.NewFromInt(2)
	return n.Add(one).Div(n).Sub(two.Mul(cumulative).Div(n.Mul(sum)))
}
