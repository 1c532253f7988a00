package distribution

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsEmptyHistory(t *testing.T) {
	d := New(StrategyHybrid)

	stats := d.Stats()
	assert.Equal(t, 0, stats.TotalDistributions)
	assert.True(t, stats.TotalDistributed.IsZero())
	assert.True(t, stats.AverageDistribution.IsZero())
	assert.Equal(t, 0, stats.UniqueRecipients)
	assert.Equal(t, StrategyHybrid, stats.CurrentStrategy)
}

func TestStatsAggregatesHistory(t *testing.T) {
	d := New(StrategyEqual)

	_, err := d.Distribute(decimal.NewFromInt(300), []Participant{
		{Address: "alice"}, {Address: "bob"},
	})
	require.NoError(t, err)
	_, err = d.Distribute(decimal.NewFromInt(100), []Participant{
		{Address: "bob"}, {Address: "carol"},
	})
	require.NoError(t, err)

	stats := d.Stats()
	assert.Equal(t, 2, stats.TotalDistributions)
	assert.True(t, stats.TotalDistributed.Equal(decimal.NewFromInt(400)))
	assert.True(t, stats.AverageDistribution.Equal(decimal.NewFromInt(200)))
	// bob appears in both distributions but counts once.
	assert.Equal(t, 3, stats.UniqueRecipients)
	assert.Equal(t, StrategyEqual, stats.CurrentStrategy)
}

func TestGiniCoefficient(t *testing.T) {
	tests := []struct {
		name       string
		allocation map[string]decimal.Decimal
		want       string
	}{
		{
			name: "perfect equality",
			allocation: map[string]decimal.Decimal{
				"a": decimal.NewFromInt(25), "b": decimal.NewFromInt(25),
				"c": decimal.NewFromInt(25), "d": decimal.NewFromInt(25),
			},
			want: "0",
		},
		{
			name: "one takes all of two",
			allocation: map[string]decimal.Decimal{
				"a": decimal.NewFromInt(100), "b": decimal.Zero,
			},
			want: "0.5",
		},
		{
			name: "one takes all of four",
			allocation: map[string]decimal.Decimal{
				"a": decimal.NewFromInt(100), "b": decimal.Zero,
				"c": decimal.Zero, "d": decimal.Zero,
			},
			want: "0.75",
		},
		{
			name:       "empty allocation",
			allocation: nil,
			want:       "0",
		},
		{
			name: "zero-sum allocation",
			allocation: map[string]decimal.Decimal{
				"a": decimal.Zero, "b": decimal.Zero,
			},
			want: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gini := GiniCoefficient(tt.allocation)
			assert.True(t, gini.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", gini, tt.want)
		})
	}
}

func TestGiniOrdersStrategiesByInequality(t *testing.T) {
	participants := []Participant{
		{Address: "whale", Stake: decimal.NewFromInt(900)},
		{Address: "minnow", Stake: decimal.NewFromInt(100)},
	}
	d := New(StrategyEqual)

	equal, err := d.DistributeWith(StrategyEqual, decimal.NewFromInt(1000), participants)
	require.NoError(t, err)
	proportional, err := d.DistributeWith(StrategyProportional, decimal.NewFromInt(1000), participants)
	require.NoError(t, err)
	abundance, err := d.DistributeWith(StrategyAbundance, decimal.NewFromInt(1000), participants)
	require.NoError(t, err)

	equalGini := GiniCoefficient(equal)
	abundanceGini := GiniCoefficient(abundance)
	proportionalGini := GiniCoefficient(proportional)

	// The universal base share dampens inequality below pure proportionality.
	assert.True(t, equalGini.IsZero())
	assert.True(t, abundanceGini.GreaterThan(equalGini))
	assert.True(t, proportionalGini.GreaterThan(abundanceGini))
}
