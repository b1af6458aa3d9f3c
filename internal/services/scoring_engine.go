package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/nichepilot/nichepilot-go/internal/analyzers"
	"github.com/nichepilot/nichepilot-go/internal/config"
	"github.com/nichepilot/nichepilot-go/internal/models"
	"github.com/nichepilot/nichepilot-go/internal/providers"
	"github.com/nichepilot/nichepilot-go/internal/utils"
)

// Fixed cost model for margin estimation: roughly 35% of the price goes to
// marketplace fees and 33% to cost of goods; the remainder is margin.
const (
	feeShare  = 0.35
	cogsShare = 0.33
)

// ScoringEngine orchestrates the rule evaluators and combines their results
// into a single opportunity assessment. It is stateless across evaluations:
// the same inputs and configuration always yield the same assessment apart
// from the analysis timestamp.
type ScoringEngine struct {
	cfg    *config.Config
	logger *logrus.Logger
	tracer trace.Tracer

	price              *analyzers.PriceBarrierAnalyzer
	dominance          *analyzers.BrandDominanceAnalyzer
	volume             *analyzers.KeywordVolumeAnalyzer
	triangulation      *analyzers.TriangulationAnalyzer
	titleDensity       *analyzers.TitleDensityAnalyzer
	reviewVelocity     *analyzers.ReviewVelocityAnalyzer
	clickConcentration *analyzers.ClickConcentrationAnalyzer
}

// NewScoringEngine creates a scoring engine. intel may be nil; every lookup
// then resolves to unknown and the affected evaluators degrade or skip.
func NewScoringEngine(cfg *config.Config, intel providers.KeywordIntel, logger *logrus.Logger) *ScoringEngine {
	a := &cfg.Analysis
	return &ScoringEngine{
		cfg:                cfg,
		logger:             logger,
		tracer:             otel.Tracer("nichepilot/scoring"),
		price:              analyzers.NewPriceBarrierAnalyzer(a, logger),
		dominance:          analyzers.NewBrandDominanceAnalyzer(a, intel, logger),
		volume:             analyzers.NewKeywordVolumeAnalyzer(a, logger),
		triangulation:      analyzers.NewTriangulationAnalyzer(a, intel, logger),
		titleDensity:       analyzers.NewTitleDensityAnalyzer(intel, logger),
		reviewVelocity:     analyzers.NewReviewVelocityAnalyzer(logger),
		clickConcentration: analyzers.NewClickConcentrationAnalyzer(intel, logger),
	}
}

// AnalyzeProduct runs the full evaluation for one product and keyword and
// returns the assessment. It fails fast on caller contract violations and
// never returns a partial assessment.
func (e *ScoringEngine) AnalyzeProduct(ctx context.Context, product *models.Product, keyword *models.Keyword) (*models.OpportunityAssessment, error) {
	if err := validateInputs(product, keyword); err != nil {
		return nil, err
	}

	ctx, span := e.tracer.Start(ctx, "scoring.AnalyzeProduct",
		trace.WithAttributes(
			attribute.String("product.id", product.ID),
			attribute.String("keyword", keyword.Term),
			attribute.String("marketplace", string(product.Marketplace)),
		))
	defer span.End()

	log := e.logger.WithFields(logrus.Fields{
		"product_id":  product.ID,
		"keyword":     keyword.Term,
		"marketplace": product.Marketplace,
	})
	log.Info("Starting opportunity analysis")

	priceCheck := e.price.Analyze(product)
	dominanceCheck := e.dominance.Analyze(ctx, product, keyword)
	volumeCheck := e.volume.Analyze(keyword)
	triangulationCheck := e.triangulation.Analyze(ctx, product, keyword)

	// Secondary checks; nil means skipped for lack of data.
	titleDensityCheck := e.titleDensity.Analyze(ctx, keyword, product.Marketplace)
	reviewVelocityCheck := e.reviewVelocity.Analyze(product)
	clickConcentrationCheck := e.clickConcentration.Analyze(ctx, product, keyword)

	overallScore := e.weightedScore(priceCheck, dominanceCheck, volumeCheck,
		triangulationCheck, reviewVelocityCheck, titleDensityCheck)

	finalDecision := e.finalDecision(log, overallScore, priceCheck, dominanceCheck, volumeCheck)

	riskFactors := collectFactors(riskFactor,
		priceCheck, dominanceCheck, volumeCheck, triangulationCheck,
		reviewVelocityCheck, clickConcentrationCheck)
	opportunityFactors := collectFactors(opportunityFactor,
		priceCheck, dominanceCheck, volumeCheck, titleDensityCheck)

	rules := map[string]*models.RuleResult{
		models.RulePriceBarrier:   priceCheck,
		models.RuleBrandDominance: dominanceCheck,
		models.RuleKeywordVolume:  volumeCheck,
		models.RuleTriangulation:  triangulationCheck,
	}
	for _, check := range []*models.RuleResult{titleDensityCheck, reviewVelocityCheck, clickConcentrationCheck} {
		if check != nil {
			rules[check.RuleName] = check
		}
	}

	assessment := &models.OpportunityAssessment{
		ID:          product.ID,
		ProductID:   product.ID,
		Keyword:     keyword.Term,
		Marketplace: product.Marketplace,
		AnalyzedAt:  now(),
		Summary: models.AssessmentSummary{
			FinalDecision:  finalDecision,
			OverallScore:   overallScore,
			Recommendation: recommendation(finalDecision, overallScore, riskFactors, opportunityFactors),
		},
		Rules:              rules,
		RiskFactors:        riskFactors,
		OpportunityFactors: opportunityFactors,
		Projections:        e.projections(product),
		NextSteps:          nextSteps(finalDecision, riskFactors),
	}

	span.SetAttributes(
		attribute.String("decision", string(finalDecision)),
		attribute.Float64("overall_score", overallScore),
	)
	log.WithFields(logrus.Fields{
		"decision":      finalDecision,
		"overall_score": overallScore,
	}).Info("Opportunity analysis complete")

	return assessment, nil
}

func validateInputs(product *models.Product, keyword *models.Keyword) error {
	if product == nil {
		return utils.NewValidationError("product is required")
	}
	if product.ID == "" {
		return utils.NewValidationError("product id is required")
	}
	if !product.Marketplace.Valid() {
		return utils.NewValidationErrorf("unknown marketplace %q", string(product.Marketplace))
	}
	if keyword == nil || keyword.Term == "" {
		return utils.NewValidationError("keyword term is required")
	}
	if keyword.ExactSearchVolume == nil {
		return utils.NewValidationErrorf("keyword %q has no exact search volume", keyword.Term)
	}
	return nil
}

// weightedScore combines the scores of every evaluator that ran, using the
// configured weights, and clamps the sum to [0, 100]. Weights are applied as
// configured without normalization.
func (e *ScoringEngine) weightedScore(price, dominance, volume, triangulation, reviewVelocity, titleDensity *models.RuleResult) float64 {
	w := &e.cfg.Analysis.Weights

	score := price.Score*w.PriceBarrier +
		dominance.Score*w.BrandDominance +
		volume.Score*w.KeywordVolume +
		triangulation.Score*w.Triangulation

	if reviewVelocity != nil {
		score += reviewVelocity.Score * w.ReviewVelocity
	}
	if titleDensity != nil {
		score += titleDensity.Score * w.TitleDensity
	}

	return math.Max(0, math.Min(100, score))
}

// finalDecision applies the kill switches before the score bands: a RED on
// any mandatory check forces a RED verdict regardless of the weighted score.
func (e *ScoringEngine) finalDecision(log *logrus.Entry, overallScore float64, checks ...*models.RuleResult) models.DecisionStatus {
	for _, check := range checks {
		if check.IsKillSwitch() {
			log.WithField("rule", check.RuleName).Warn("Kill switch triggered, forcing RED verdict")
			return models.StatusRed
		}
	}

	switch {
	case overallScore >= e.cfg.Analysis.GreenThreshold:
		return models.StatusGreen
	case overallScore >= e.cfg.Analysis.YellowThreshold:
		return models.StatusYellow
	default:
		return models.StatusRed
	}
}

type factorKind int

const (
	riskFactor factorKind = iota
	opportunityFactor
)

// collectFactors formats risk or opportunity entries from the checks that
// ran, preserving the given order.
func collectFactors(kind factorKind, checks ...*models.RuleResult) []string {
	factors := []string{}
	for _, check := range checks {
		if check == nil {
			continue
		}
		switch kind {
		case riskFactor:
			if check.Status == models.StatusRed || check.Status == models.StatusYellow {
				factors = append(factors, fmt.Sprintf("%s: %s", check.RuleName, check.Reason))
			}
		case opportunityFactor:
			if check.Status == models.StatusGreen && check.Score >= 80 {
				factors = append(factors, fmt.Sprintf("%s: %s", check.RuleName, check.Reason))
			}
		}
	}
	return factors
}

func recommendation(decision models.DecisionStatus, score float64, risks, opportunities []string) string {
	switch decision {
	case models.StatusRed:
		return fmt.Sprintf(
			"REJECT - Overall score: %.1f/100. This product fails critical criteria and should not "+
				"be pursued. Key issues: %d risk factor(s) identified. Recommend searching for "+
				"alternative products.", score, len(risks))
	case models.StatusYellow:
		return fmt.Sprintf(
			"CAUTION - Overall score: %.1f/100. This product shows potential but has %d concern(s). "+
				"Requires deeper manual analysis and validation; consider a differentiation strategy "+
				"before proceeding.", score, len(risks))
	default:
		return fmt.Sprintf(
			"APPROVE - Overall score: %.1f/100. This product meets all criteria and shows strong "+
				"potential. %d positive factor(s) identified. Proceed with product development and "+
				"supplier sourcing.", score, len(opportunities))
	}
}

func nextSteps(decision models.DecisionStatus, risks []string) []string {
	switch decision {
	case models.StatusRed:
		return []string{
			"Abandon this product opportunity",
			"Search for alternative products in the niche",
			"Review analysis criteria for learning",
		}
	case models.StatusYellow:
		steps := []string{
			"Conduct manual review of competitor listings",
			"Analyze negative reviews for differentiation opportunities",
			"Calculate detailed financial projections",
			"Develop unique value proposition",
		}
		for _, r := range risks {
			lower := strings.ToLower(r)
			if strings.Contains(lower, "monopol") || strings.Contains(lower, "dominance") {
				steps = append(steps, "Verify the platform operator's private-label presence manually")
				break
			}
		}
		return steps
	default:
		return []string{
			"Source suppliers and request product samples",
			"Calculate landed costs and margins",
			"Design packaging and branding",
			"Plan product launch strategy",
			"Prepare advertising campaign",
		}
	}
}

// projections assembles the financial outlook from the available signals.
// Returns nil when nothing is known.
func (e *ScoringEngine) projections(product *models.Product) *models.FinancialProjections {
	p := &models.FinancialProjections{
		EstimatedMonthlyRevenue: product.MonthlyRevenue,
	}

	if len(product.SalesEstimates) > 0 {
		sum := 0
		for _, est := range product.SalesEstimates {
			sum += est.Units
		}
		units := int(math.Round(float64(sum) / float64(len(product.SalesEstimates))))
		p.EstimatedMonthlyUnits = &units
	}

	if product.Price.GreaterThan(decimal.Zero) {
		price := product.Price.InexactFloat64()
		profit := price - price*feeShare - price*cogsShare
		margin := math.Max(0, math.Min(100, profit/price*100))
		p.EstimatedProfitMargin = &margin
	}

	if p.EstimatedMonthlyRevenue == nil && p.EstimatedMonthlyUnits == nil && p.EstimatedProfitMargin == nil {
		return nil
	}
	return p
}
