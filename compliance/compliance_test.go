package compliance

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qfs/ledger"
)

func compliantTransaction() ledger.Transaction {
	return ledger.Transaction{
		From:   "treasury",
		To:     "citizen_001",
		Amount: decimal.NewFromInt(1000),
		Type:   "ubi",
	}
}

func TestCompliantTransaction(t *testing.T) {
	e := NewEngine()

	report := e.Check("treasury", compliantTransaction())
	assert.True(t, report.Compliant)
	assert.Equal(t, StatusCompliant, report.Overall)
	assert.Equal(t, len(Rules), report.RulesChecked)
	assert.Len(t, report.Results, len(Rules))
	assert.Empty(t, report.Violations)
}

func TestTransparencyViolation(t *testing.T) {
	e := NewEngine()

	tx := compliantTransaction()
	tx.Type = ""
	report := e.Check("treasury", tx)

	assert.False(t, report.Compliant)
	assert.Equal(t, StatusNonCompliant, report.Overall)
	assert.Contains(t, report.Violations, "TRANSPARENCY")
}

func TestMetadataDrivenViolations(t *testing.T) {
	tests := []struct {
		name      string
		metadata  map[string]string
		violation string
	}{
		{"redistribution disabled", map[string]string{"redistribution": "disabled"}, "WEALTH_REDISTRIBUTION"},
		{"consent withdrawn", map[string]string{"consent": "false"}, "SOVEREIGN_RIGHTS"},
		{"security disabled", map[string]string{"quantum_secure": "false"}, "QUANTUM_SECURITY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine()
			tx := compliantTransaction()
			tx.Metadata = tt.metadata

			report := e.Check("entity", tx)
			assert.False(t, report.Compliant)
			assert.Contains(t, report.Violations, tt.violation)
		})
	}
}

func TestAlignmentGoesToReviewNotViolation(t *testing.T) {
	e := NewEngine()
	tx := compliantTransaction()
	tx.Metadata = map[string]string{"galactic_compliant": "false"}

	report := e.Check("entity", tx)
	// Pending review is not a violation; the transaction remains compliant.
	assert.True(t, report.Compliant)
	var alignment *RuleResult
	for i := range report.Results {
		if report.Results[i].RuleID == "GALACTIC_ALIGNMENT" {
			alignment = &report.Results[i]
		}
	}
	require.NotNil(t, alignment)
	assert.Equal(t, StatusPendingReview, alignment.Status)
}

func TestExemptions(t *testing.T) {
	e := NewEngine()
	e.Exempt("sovereign_001", "TRANSPARENCY")

	tx := compliantTransaction()
	tx.Type = "" // would violate transparency
	report := e.Check("sovereign_001", tx)

	assert.True(t, report.Compliant)
	assert.NotContains(t, report.Violations, "TRANSPARENCY")

	// Another entity gets no benefit from the exemption.
	report = e.Check("citizen_002", tx)
	assert.False(t, report.Compliant)

	// Removing the exemption restores enforcement.
	e.RemoveExemption("sovereign_001", "TRANSPARENCY")
	report = e.Check("sovereign_001", tx)
	assert.False(t, report.Compliant)
}

func TestRecordsRetained(t *testing.T) {
	e := NewEngine()
	e.Check("a", compliantTransaction())
	e.Check("b", compliantTransaction())

	records := e.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0].EntityID)
	assert.Equal(t, "b", records[1].EntityID)
}

func TestSummarizeEmpty(t *testing.T) {
	e := NewEngine()

	summary := e.Summarize()
	assert.Equal(t, 0, summary.TotalChecks)
	assert.Equal(t, 0, summary.CompliantCount)
	assert.Equal(t, 0, summary.NonCompliantCount)
	assert.Equal(t, 0.0, summary.ComplianceRate)
	assert.Equal(t, len(Rules), summary.TotalRules)
}

func TestSummarizeAggregatesChecks(t *testing.T) {
	e := NewEngine()
	e.Check("a", compliantTransaction())
	e.Check("b", compliantTransaction())
	e.Check("c", compliantTransaction())

	bad := compliantTransaction()
	bad.Type = ""
	e.Check("d", bad)

	summary := e.Summarize()
	assert.Equal(t, 4, summary.TotalChecks)
	assert.Equal(t, 3, summary.CompliantCount)
	assert.Equal(t, 1, summary.NonCompliantCount)
	assert.InDelta(t, 0.75, summary.ComplianceRate, 1e-9)
	assert.Equal(t, len(Rules), summary.TotalRules)
}
