package analyzers

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/nichepilot/nichepilot-go/internal/models"
	"github.com/nichepilot/nichepilot-go/internal/providers"
)

// Secondary evaluators run only when their supporting data exists; a nil
// result means "skipped", never a zero contribution.

// TitleDensityAnalyzer scores keyword competitiveness from the number of top
// listings carrying the exact keyword in their title.
type TitleDensityAnalyzer struct {
	intel  providers.KeywordIntel
	logger *logrus.Logger
}

// NewTitleDensityAnalyzer creates a title-density analyzer.
func NewTitleDensityAnalyzer(intel providers.KeywordIntel, logger *logrus.Logger) *TitleDensityAnalyzer {
	return &TitleDensityAnalyzer{intel: intel, logger: logger}
}

// Analyze returns nil when no title density signal is available.
func (a *TitleDensityAnalyzer) Analyze(ctx context.Context, keyword *models.Keyword, marketplace models.Marketplace) *models.RuleResult {
	density := keyword.TitleDensity
	if a.intel != nil {
		if td, err := a.intel.TitleDensity(ctx, keyword.Term, marketplace); err == nil && td != nil {
			density = td
		}
	}
	if density == nil {
		return nil
	}

	var (
		score  float64
		status models.DecisionStatus
		reason string
	)
	switch d := *density; {
	case d < 5:
		score = 100
		status = models.StatusGreen
		reason = fmt.Sprintf("Low title density (%.0f). Great SEO opportunity.", d)
	case d < 7:
		score = 60
		status = models.StatusYellow
		reason = fmt.Sprintf("Medium title density (%.0f). Competitive but manageable.", d)
	default:
		score = 20
		status = models.StatusRed
		reason = fmt.Sprintf("High title density (%.0f). Very competitive keyword.", d)
	}

	return &models.RuleResult{
		RuleName:       models.RuleTitleDensity,
		Status:         status,
		Score:          score,
		Reason:         reason,
		ThresholdValue: models.Float64Ptr(5.0),
		ActualValue:    density,
	}
}

// ReviewVelocityAnalyzer scores how quickly incumbent listings accumulate
// reviews. A fast-reviewing niche is hard to catch up in.
type ReviewVelocityAnalyzer struct {
	logger *logrus.Logger
}

// NewReviewVelocityAnalyzer creates a review-velocity analyzer.
func NewReviewVelocityAnalyzer(logger *logrus.Logger) *ReviewVelocityAnalyzer {
	return &ReviewVelocityAnalyzer{logger: logger}
}

// Analyze returns nil when the product carries no review-velocity signal.
func (a *ReviewVelocityAnalyzer) Analyze(product *models.Product) *models.RuleResult {
	if product.ReviewVelocity == nil {
		return nil
	}

	var (
		score  float64
		status models.DecisionStatus
		reason string
	)
	switch v := *product.ReviewVelocity; {
	case v < 5:
		score = 90
		status = models.StatusGreen
		reason = fmt.Sprintf("Low review velocity (%.1f/month). Incumbents grow slowly; a new listing can catch up.", v)
	case v < 15:
		score = 60
		status = models.StatusYellow
		reason = fmt.Sprintf("Moderate review velocity (%.1f/month). Catching up requires a sustained launch push.", v)
	default:
		score = 20
		status = models.StatusRed
		reason = fmt.Sprintf("High review velocity (%.1f/month). Incumbents compound social proof too fast to overtake.", v)
	}

	return &models.RuleResult{
		RuleName:       models.RuleReviewVelocity,
		Status:         status,
		Score:          score,
		Reason:         reason,
		ThresholdValue: models.Float64Ptr(5.0),
		ActualValue:    product.ReviewVelocity,
	}
}

// ClickConcentrationAnalyzer reports the raw concentration signal as its own
// informational check. It carries no weight in the overall score; the scored
// treatment of concentration lives in the brand-dominance rule.
type ClickConcentrationAnalyzer struct {
	intel  providers.KeywordIntel
	logger *logrus.Logger
}

// NewClickConcentrationAnalyzer creates a click-concentration analyzer.
func NewClickConcentrationAnalyzer(intel providers.KeywordIntel, logger *logrus.Logger) *ClickConcentrationAnalyzer {
	return &ClickConcentrationAnalyzer{intel: intel, logger: logger}
}

// Analyze returns nil when no concentration signal is available.
func (a *ClickConcentrationAnalyzer) Analyze(ctx context.Context, product *models.Product, keyword *models.Keyword) *models.RuleResult {
	concentration := product.ClickConcentration
	if a.intel != nil {
		if cc, err := a.intel.ClickConcentration(ctx, keyword.Term, product.Marketplace); err == nil && cc != nil {
			concentration = cc
		}
	}
	if concentration == nil {
		return nil
	}

	var (
		score  float64
		status models.DecisionStatus
		reason string
	)
	switch cc := *concentration; {
	case cc < 0.4:
		score = 90
		status = models.StatusGreen
		reason = fmt.Sprintf("Clicks are well distributed (%.1f%% top-3 share).", cc*100)
	case cc < 0.6:
		score = 60
		status = models.StatusYellow
		reason = fmt.Sprintf("Clicks are moderately concentrated (%.1f%% top-3 share).", cc*100)
	default:
		score = 20
		status = models.StatusRed
		reason = fmt.Sprintf("Clicks are heavily concentrated (%.1f%% top-3 share).", cc*100)
	}

	return &models.RuleResult{
		RuleName:       models.RuleClickConcentration,
		Status:         status,
		Score:          score,
		Reason:         reason,
		ThresholdValue: models.Float64Ptr(0.6),
		ActualValue:    concentration,
	}
}
