package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssessmentSummary is the headline section of an assessment document.
type AssessmentSummary struct {
	FinalDecision  DecisionStatus `json:"final_decision"`
	OverallScore   float64        `json:"overall_score"`
	Recommendation string         `json:"recommendation"`
}

// FinancialProjections holds the optional financial outlook attached to an
// assessment when the underlying signals are known.
type FinancialProjections struct {
	EstimatedMonthlyRevenue *decimal.Decimal `json:"estimated_monthly_revenue,omitempty"`
	EstimatedMonthlyUnits   *int             `json:"estimated_monthly_units,omitempty"`
	EstimatedProfitMargin   *float64         `json:"estimated_profit_margin,omitempty"`
}

// OpportunityAssessment is the final structured verdict for one product and
// keyword. It is constructed exactly once per evaluation and read-only
// afterwards. The section grouping (summary, rules, factors, projections,
// next steps) is part of the serialized contract consumed by report writers
// and dashboards; do not regroup fields.
type OpportunityAssessment struct {
	ID          string      `json:"id"`
	ProductID   string      `json:"product_id"`
	Keyword     string      `json:"keyword"`
	Marketplace Marketplace `json:"marketplace"`
	AnalyzedAt  time.Time   `json:"analyzed_at"`

	Summary AssessmentSummary `json:"summary"`

	// Rules holds the result of every evaluator that ran, keyed by rule name.
	// price_barrier, brand_dominance and keyword_volume are always present;
	// the remaining keys appear only when their input data was available.
	Rules map[string]*RuleResult `json:"rules"`

	RiskFactors        []string `json:"risk_factors"`
	OpportunityFactors []string `json:"opportunity_factors"`

	Projections *FinancialProjections `json:"projections,omitempty"`

	NextSteps []string `json:"next_steps"`
}

// Rule returns the named rule result, or nil if that evaluator was skipped.
func (a *OpportunityAssessment) Rule(name string) *RuleResult {
	if a == nil {
		return nil
	}
	return a.Rules[name]
}

// Equal reports whether two assessments describe the same verdict. The
// analysis timestamp is deliberately excluded so that repeated evaluations of
// identical inputs compare equal.
func (a *OpportunityAssessment) Equal(b *OpportunityAssessment) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.ID != b.ID || a.ProductID != b.ProductID || a.Keyword != b.Keyword ||
		a.Marketplace != b.Marketplace {
		return false
	}
	if a.Summary != b.Summary {
		return false
	}
	if len(a.Rules) != len(b.Rules) {
		return false
	}
	for name, ra := range a.Rules {
		rb, ok := b.Rules[name]
		if !ok || ra.Status != rb.Status || ra.Score != rb.Score || ra.Reason != rb.Reason {
			return false
		}
	}
	if !equalStrings(a.RiskFactors, b.RiskFactors) ||
		!equalStrings(a.OpportunityFactors, b.OpportunityFactors) ||
		!equalStrings(a.NextSteps, b.NextSteps) {
		return false
	}
	return true
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
