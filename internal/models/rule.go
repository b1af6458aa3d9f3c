package models

// Rule name identifiers. These are the keys under which results appear in an
// assessment document; downstream report and dashboard collaborators depend
// on them staying stable.
const (
	RulePriceBarrier       = "price_barrier"
	RuleBrandDominance     = "brand_dominance"
	RuleKeywordVolume      = "keyword_volume"
	RuleTriangulation      = "triangulation"
	RuleTitleDensity       = "title_density"
	RuleReviewVelocity     = "review_velocity"
	RuleClickConcentration = "click_concentration"
)

// PriceBarrierDetail carries the auxiliary data of a price-barrier check.
type PriceBarrierDetail struct {
	Currency              CurrencyZone `json:"currency"`
	Marketplace           Marketplace  `json:"marketplace"`
	PriceToThresholdRatio float64      `json:"price_to_threshold_ratio"`
}

// DominanceDetail carries the auxiliary data of a brand-dominance check.
type DominanceDetail struct {
	ClickConcentration    *float64 `json:"click_concentration,omitempty"`
	TopBrandShare         *float64 `json:"top_brand_share,omitempty"`
	PlatformBrandDetected bool     `json:"platform_brand_detected"`
	Keyword               string   `json:"keyword"`
}

// VolumeDetail carries the auxiliary data of a keyword-volume check.
type VolumeDetail struct {
	VolumeRatio  float64 `json:"volume_ratio"`
	BroadVolume  *int    `json:"broad_volume,omitempty"`
	PhraseVolume *int    `json:"phrase_volume,omitempty"`
}

// QuantityTriangulation summarizes cross-source agreement for one quantity.
type QuantityTriangulation struct {
	SourceCount int                `json:"source_count"`
	Estimates   map[string]float64 `json:"estimates,omitempty"`
	Mean        float64            `json:"mean"`
	VariancePct float64            `json:"variance_pct"`
	StdDev      float64            `json:"std_dev"`
}

// CompetitionDetail is the qualitative competition estimate produced by the
// triangulation check. Informational only, never scored.
type CompetitionDetail struct {
	SourceCount        int      `json:"source_count"`
	TitleDensity       *float64 `json:"title_density,omitempty"`
	ClickConcentration *float64 `json:"click_concentration,omitempty"`
	Level              string   `json:"level"` // "low", "medium", "high", "unknown"
}

// TriangulationDetail carries the auxiliary data of a triangulation check.
type TriangulationDetail struct {
	Sales       QuantityTriangulation `json:"sales"`
	Volume      QuantityTriangulation `json:"volume"`
	Competition CompetitionDetail     `json:"competition"`
	Issues      []string              `json:"issues,omitempty"`
}

// RuleResult is the uniform output of one rule evaluator. Exactly one of the
// typed detail fields is set, matching the rule that produced the result; the
// Notes map is reserved for small evaluator-specific diagnostics.
type RuleResult struct {
	RuleName       string         `json:"rule_name"`
	Status         DecisionStatus `json:"status"`
	Score          float64        `json:"score"`
	Reason         string         `json:"reason"`
	ThresholdValue *float64       `json:"threshold_value,omitempty"`
	ActualValue    *float64       `json:"actual_value,omitempty"`

	PriceBarrier  *PriceBarrierDetail  `json:"price_barrier,omitempty"`
	Dominance     *DominanceDetail     `json:"dominance,omitempty"`
	Volume        *VolumeDetail        `json:"volume,omitempty"`
	Triangulation *TriangulationDetail `json:"triangulation,omitempty"`

	Notes map[string]string `json:"notes,omitempty"`
}

// IsKillSwitch reports whether this result forces the final decision to RED
// regardless of the weighted score. Only the three mandatory checks act as
// kill switches.
func (r *RuleResult) IsKillSwitch() bool {
	if r == nil || r.Status != StatusRed {
		return false
	}
	switch r.RuleName {
	case RulePriceBarrier, RuleBrandDominance, RuleKeywordVolume:
		return true
	}
	return false
}

// Float64Ptr returns a pointer to v. Convenience for optional fields.
func Float64Ptr(v float64) *float64 { return &v }

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }
