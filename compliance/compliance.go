// Package compliance evaluates transactions against the fixed treasury rule
// set: pure predicate checks producing a pass/fail report with reasons.
package compliance

import (
	"sync"

	"qfs/ledger"
)

type Status string

const (
	StatusCompliant     Status = "compliant"
	StatusNonCompliant  Status = "non_compliant"
	StatusPendingReview Status = "pending_review"
	StatusExempt        Status = "exempt"
)

// Rule is one compliance rule. Required rules contribute to the overall
// verdict; advisory rules only show up in the per-rule results.
type Rule struct {
	ID          string `json:"rule_id"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Required    bool   `json:"required"`
}

// Rules is the fixed rule set, checked in order.
var Rules = []Rule{
	{ID: "DEBT_ELIMINATION", Description: "Ensure debt elimination and forgiveness protocols", Category: "financial_justice", Required: true},
	{ID: "WEALTH_REDISTRIBUTION", Description: "Implement fair wealth redistribution mechanisms", Category: "abundance", Required: true},
	{ID: "TRANSPARENCY", Description: "Maintain transparent financial operations", Category: "governance", Required: true},
	{ID: "UNIVERSAL_PROSPERITY", Description: "Ensure universal access to prosperity", Category: "abundance", Required: true},
	{ID: "SOVEREIGN_RIGHTS", Description: "Protect individual sovereign financial rights", Category: "rights", Required: true},
	{ID: "QUANTUM_SECURITY", Description: "Implement quantum-resistant security measures", Category: "security", Required: true},
	{ID: "GALACTIC_ALIGNMENT", Description: "Align with Galactic Federation financial standards", Category: "interstellar", Required: true},
}

// RuleResult is the outcome of a single rule check.
type RuleResult struct {
	RuleID  string `json:"rule_id"`
	Status  Status `json:"status"`
	Message string `json:"message"`
}

// Report is the outcome of checking one transaction for one entity.
type Report struct {
	EntityID     string       `json:"entity_id"`
	Overall      Status       `json:"overall_status"`
	RulesChecked int          `json:"rules_checked"`
	Violations   []string     `json:"violations"`
	Results      []RuleResult `json:"detailed_results"`
	Compliant    bool         `json:"compliant"`
}

// Engine evaluates the rule set and retains reports in order. Entities can
// hold per-rule exemptions.
type Engine struct {
	mu         sync.Mutex
	records    []Report
	exemptions map[string]map[string]bool
}

func NewEngine() *Engine {
	return &Engine{exemptions: make(map[string]map[string]bool)}
}

// Exempt marks entity as exempt from the given rule.
func (e *Engine) Exempt(entityID, ruleID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.exemptions[entityID] == nil {
		e.exemptions[entityID] = make(map[string]bool)
	}
	e.exemptions[entityID][ruleID] = true
}

// RemoveExemption clears a previously granted exemption.
func (e *Engine) RemoveExemption(entityID, ruleID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.exemptions[entityID], ruleID)
}

// Check evaluates every rule against tx on behalf of entityID and records
// the resulting report.
func (e *Engine) Check(entityID string, tx ledger.Transaction) Report {
	e.mu.Lock()
	defer e.mu.Unlock()

	report := Report{
		EntityID:     entityID,
		Overall:      StatusCompliant,
		RulesChecked: len(Rules),
	}

	for _, rule := range Rules {
		if e.exemptions[entityID][rule.ID] {
			report.Results = append(report.Results, RuleResult{
				RuleID:  rule.ID,
				Status:  StatusExempt,
				Message: "entity exempt from " + rule.Description,
			})
			continue
		}

		result := checkRule(rule, tx)
		report.Results = append(report.Results, result)
		if result.Status == StatusNonCompliant && rule.Required {
			report.Overall = StatusNonCompliant
			report.Violations = append(report.Violations, rule.ID)
		}
	}

	report.Compliant = report.Overall == StatusCompliant
	e.records = append(e.records, report)
	return report
}

// Summary is an aggregate view over every retained report.
type Summary struct {
	TotalChecks       int     `json:"total_checks"`
	CompliantCount    int     `json:"compliant_count"`
	NonCompliantCount int     `json:"non_compliant_count"`
	ComplianceRate    float64 `json:"compliance_rate"`
	TotalRules        int     `json:"total_rules"`
}

// Summarize aggregates the retained reports. With no checks recorded the
// rate is 0.
func (e *Engine) Summarize() Summary {
	e.mu.Lock()
	defer e.mu.Unlock()

	summary := Summary{
		TotalChecks: len(e.records),
		TotalRules:  len(Rules),
	}
	for _, report := range e.records {
		if report.Compliant {
			summary.CompliantCount++
		} else {
			summary.NonCompliantCount++
		}
	}
	if summary.TotalChecks > 0 {
		summary.ComplianceRate = float64(summary.CompliantCount) / float64(summary.TotalChecks)
	}
	return summary
}

// Records returns a copy of all retained reports in check order.
func (e *Engine) Records() []Report {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Report, len(e.records))
	copy(out, e.records)
	return out
}

func checkRule(rule Rule, tx ledger.Transaction) RuleResult {
	switch rule.ID {
	case "DEBT_ELIMINATION":
		return checkDebtElimination(tx)
	case "WEALTH_REDISTRIBUTION":
		return checkRedistribution(tx)
	case "TRANSPARENCY":
		return checkTransparency(tx)
	case "UNIVERSAL_PROSPERITY":
		return RuleResult{RuleID: rule.ID, Status: StatusCompliant, Message: "universal prosperity principles upheld"}
	case "SOVEREIGN_RIGHTS":
		return checkSovereignRights(tx)
	case "QUANTUM_SECURITY":
		return checkSecurity(tx)
	case "GALACTIC_ALIGNMENT":
		return checkAlignment(tx)
	default:
		return RuleResult{RuleID: rule.ID, Status: StatusPendingReview, Message: "rule validation pending"}
	}
}

func checkDebtElimination(tx ledger.Transaction) RuleResult {
	if tx.Type == "debt_forgiveness" || tx.Type == "debt_elimination" || !tx.Amount.IsNegative() {
		return RuleResult{RuleID: "DEBT_ELIMINATION", Status: StatusCompliant, Message: "debt elimination protocols verified"}
	}
	return RuleResult{RuleID: "DEBT_ELIMINATION", Status: StatusNonCompliant, Message: "negative amount outside debt relief"}
}

// Redistribution is on unless the transaction explicitly opts out.
func checkRedistribution(tx ledger.Transaction) RuleResult {
	if tx.Metadata["redistribution"] == "disabled" {
		return RuleResult{RuleID: "WEALTH_REDISTRIBUTION", Status: StatusNonCompliant, Message: "redistribution not enabled"}
	}
	return RuleResult{RuleID: "WEALTH_REDISTRIBUTION", Status: StatusCompliant, Message: "wealth redistribution verified"}
}

func checkTransparency(tx ledger.Transaction) RuleResult {
	if tx.From == "" || tx.To == "" || tx.Type == "" {
		return RuleResult{RuleID: "TRANSPARENCY", Status: StatusNonCompliant, Message: "missing required fields"}
	}
	return RuleResult{RuleID: "TRANSPARENCY", Status: StatusCompliant, Message: "transparency requirements met"}
}

// Consent is assumed unless explicitly withdrawn.
func checkSovereignRights(tx ledger.Transaction) RuleResult {
	if tx.Metadata["consent"] == "false" {
		return RuleResult{RuleID: "SOVEREIGN_RIGHTS", Status: StatusNonCompliant, Message: "consent not verified"}
	}
	return RuleResult{RuleID: "SOVEREIGN_RIGHTS", Status: StatusCompliant, Message: "sovereign rights protected"}
}

func checkSecurity(tx ledger.Transaction) RuleResult {
	if tx.Metadata["quantum_secure"] == "false" {
		return RuleResult{RuleID: "QUANTUM_SECURITY", Status: StatusNonCompliant, Message: "quantum security not enabled"}
	}
	return RuleResult{RuleID: "QUANTUM_SECURITY", Status: StatusCompliant, Message: "quantum security enabled"}
}

// Alignment failures go to review, not rejection.
func checkAlignment(tx ledger.Transaction) RuleResult {
	if tx.Metadata["galactic_compliant"] == "false" {
		return RuleResult{RuleID: "GALACTIC_ALIGNMENT", Status: StatusPendingReview, Message: "pending galactic review"}
	}
	return RuleResult{RuleID: "GALACTIC_ALIGNMENT", Status: StatusCompliant, Message: "federation standards met"}
}
