// Package analyzers contains the independent rule evaluators that feed the
// scoring engine. Each evaluator is a stateless function of its inputs and
// the read-only analysis configuration: it never errors on business outcomes
// and always returns a score in [0, 100].
package analyzers

import (
	"fmt"
	"math"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/nichepilot/nichepilot-go/internal/config"
	"github.com/nichepilot/nichepilot-go/internal/models"
)

// PriceBarrierAnalyzer checks whether a product's price supports sustainable
// margins after marketplace fees. The floor is currency-zone dependent.
//
// The rule of three behind the floor: roughly one third of the price goes to
// cost of goods, one third to marketplace fees, one third is margin. Below
// the floor the fee share erodes the margin first.
type PriceBarrierAnalyzer struct {
	minPriceUSD float64
	minPriceEUR float64
	logger      *logrus.Logger
}

// NewPriceBarrierAnalyzer creates a price-barrier analyzer from the analysis
// configuration.
func NewPriceBarrierAnalyzer(cfg *config.AnalysisConfig, logger *logrus.Logger) *PriceBarrierAnalyzer {
	return &PriceBarrierAnalyzer{
		minPriceUSD: cfg.PriceBarrierUSD,
		minPriceEUR: cfg.PriceBarrierEUR,
		logger:      logger,
	}
}

// Threshold returns the price floor for a marketplace's currency zone.
func (a *PriceBarrierAnalyzer) Threshold(marketplace models.Marketplace) float64 {
	if marketplace.CurrencyZone() == models.ZoneUSD {
		return a.minPriceUSD
	}
	return a.minPriceEUR
}

// RecommendedPriceRange returns the floor and the optimal price point for a
// marketplace.
func (a *PriceBarrierAnalyzer) RecommendedPriceRange(marketplace models.Marketplace) (min, optimal float64) {
	threshold := a.Threshold(marketplace)
	return threshold, threshold * 1.5
}

// Analyze scores the product price against the currency-zone floor.
func (a *PriceBarrierAnalyzer) Analyze(product *models.Product) *models.RuleResult {
	price := product.Price.InexactFloat64()
	threshold := a.Threshold(product.Marketplace)
	zone := product.Marketplace.CurrencyZone()

	a.logger.WithFields(logrus.Fields{
		"product_id": product.ID,
		"price":      price,
		"threshold":  threshold,
	}).Debug("Analyzing price barrier")

	ratio := 0.0
	if threshold > 0 {
		ratio = price / threshold
	}

	var (
		score  float64
		status models.DecisionStatus
		reason string
	)

	switch {
	case price < threshold*0.7:
		score = 0
		status = models.StatusRed
		reason = fmt.Sprintf(
			"Price $%.2f is severely below the $%s barrier. "+
				"Profit margins will be unsustainable after referral, fulfillment, storage and ad fees.",
			price, formatAmount(threshold))

	case price < threshold:
		score = ratio * 50 // 0-50 range
		status = models.StatusYellow
		reason = fmt.Sprintf(
			"Price $%.2f is below the recommended $%s threshold. "+
				"Tight margins expected; consider only for lightweight products with low fulfillment fees.",
			price, formatAmount(threshold))

	case threshold > 0 && price < threshold*1.5:
		score = 50 + ((price-threshold)/(threshold*0.5))*30 // 50-80 range
		status = models.StatusGreen
		reason = fmt.Sprintf(
			"Price $%.2f meets the barrier requirement. Adequate potential for a 20-30%% margin after fees.",
			price)

	default:
		extra := 0.0
		if threshold > 0 {
			extra = ((price - threshold*1.5) / threshold) * 20
		}
		score = math.Min(100, 80+extra)
		status = models.StatusGreen
		reason = fmt.Sprintf(
			"Price $%.2f is well above threshold. Strong margin potential (30%%+), excellent price point.",
			price)
	}

	return &models.RuleResult{
		RuleName:       models.RulePriceBarrier,
		Status:         status,
		Score:          clampScore(score),
		Reason:         reason,
		ThresholdValue: models.Float64Ptr(threshold),
		ActualValue:    models.Float64Ptr(price),
		PriceBarrier: &models.PriceBarrierDetail{
			Currency:              zone,
			Marketplace:           product.Marketplace,
			PriceToThresholdRatio: ratio,
		},
	}
}

// formatAmount renders a threshold without trailing zeros, so a 39.0 floor
// reads as "39" in reason texts.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// clampScore bounds a score to [0, 100].
func clampScore(s float64) float64 {
	return math.Max(0, math.Min(100, s))
}
