package analyzers

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/nichepilot/nichepilot-go/internal/config"
	"github.com/nichepilot/nichepilot-go/internal/models"
	"github.com/nichepilot/nichepilot-go/internal/providers"
)

// platformBrandAliases are the platform operator's known private-label brand
// names. A top-3 hit on any of these is an unconditional reject regardless of
// numeric concentration.
var platformBrandAliases = []string{
	"amazon",
	"amazonbasics",
	"basics",
	"amazon essentials",
	"essentials",
	"solimo",
	"presto!",
	"mama bear",
	"wag",
	"goodthreads",
	"peak velocity",
	"amazon commercial",
}

// BrandDominanceAnalyzer assesses whether a niche is monopolized by a single
// brand or by the platform operator itself. It consumes click concentration
// and competitor rankings through an injected KeywordIntel collaborator and
// degrades to product-level signals when the collaborator is absent.
type BrandDominanceAnalyzer struct {
	dominanceThreshold float64
	intel              providers.KeywordIntel
	logger             *logrus.Logger
}

// NewBrandDominanceAnalyzer creates a dominance analyzer. intel may be nil;
// the analyzer then falls back to the signals embedded in the product.
func NewBrandDominanceAnalyzer(cfg *config.AnalysisConfig, intel providers.KeywordIntel, logger *logrus.Logger) *BrandDominanceAnalyzer {
	return &BrandDominanceAnalyzer{
		dominanceThreshold: cfg.DominanceThreshold,
		intel:              intel,
		logger:             logger,
	}
}

// isPlatformBrand matches a competitor brand against the known alias list.
func isPlatformBrand(brand string) bool {
	b := strings.ToLower(strings.TrimSpace(brand))
	if b == "" {
		return false
	}
	for _, alias := range platformBrandAliases {
		if b == alias || strings.Contains(b, "amazon") {
			return true
		}
	}
	return false
}

// Analyze applies the dominance precedence chain: platform private-label in
// the top 3 always wins, then the numeric concentration bands.
func (a *BrandDominanceAnalyzer) Analyze(ctx context.Context, product *models.Product, keyword *models.Keyword) *models.RuleResult {
	log := a.logger.WithFields(logrus.Fields{
		"keyword":     keyword.Term,
		"marketplace": product.Marketplace,
	})
	log.Debug("Analyzing brand dominance")

	clickConcentration := a.lookupClickConcentration(ctx, product, keyword)
	competitors := a.lookupCompetitors(ctx, product, keyword)

	platformDetected := false
	for i, comp := range competitors {
		if i >= 3 {
			break
		}
		if isPlatformBrand(comp.Brand) {
			platformDetected = true
			break
		}
	}

	topBrandShare := topBrandShare(competitors)

	// Click concentration is the primary metric; the top brand's share of the
	// top-10 set is the fallback.
	dominance := 0.0
	switch {
	case clickConcentration != nil:
		dominance = *clickConcentration
	case topBrandShare != nil:
		dominance = *topBrandShare
	}

	detail := &models.DominanceDetail{
		ClickConcentration:    clickConcentration,
		TopBrandShare:         topBrandShare,
		PlatformBrandDetected: platformDetected,
		Keyword:               keyword.Term,
	}

	var (
		score  float64
		status models.DecisionStatus
		reason string
	)

	switch {
	case platformDetected:
		score = 0
		status = models.StatusRed
		reason = "Platform private-label brand detected in top positions. " +
			"High risk of direct competition from the marketplace operator, which runs hundreds " +
			"of own brands and mines seller data for product development. Avoid this niche."
		log.Warn("Platform private-label detected in top competitors")

	case dominance >= 0.70:
		score = 10
		status = models.StatusRed
		reason = fmt.Sprintf(
			"Market is highly monopolized (%.1f%% concentration). The top products capture 70%%+ "+
				"of traffic; breaking in would require exceptional ad spend.", dominance*100)

	case dominance >= a.dominanceThreshold:
		score = 30
		status = models.StatusYellow
		reason = fmt.Sprintf(
			"Moderate market monopoly detected (%.1f%% concentration). Significant competition from "+
				"established brands; consider only with a strong differentiation strategy.", dominance*100)

	case dominance >= 0.40:
		score = 60
		status = models.StatusYellow
		reason = fmt.Sprintf(
			"Market has some concentration (%.1f%%). Competitive but penetrable with good product "+
				"differentiation; monitor for the platform operator's entry.", dominance*100)

	default:
		score = 90
		status = models.StatusGreen
		reason = fmt.Sprintf(
			"Low market concentration (%.1f%%). Fragmented market with no dominant player; good "+
				"opportunity for new entrants with a quality product.", dominance*100)
	}

	return &models.RuleResult{
		RuleName:       models.RuleBrandDominance,
		Status:         status,
		Score:          clampScore(score),
		Reason:         reason,
		ThresholdValue: models.Float64Ptr(a.dominanceThreshold),
		ActualValue:    models.Float64Ptr(dominance),
		Dominance:      detail,
	}
}

// PlatformPresence summarizes how many of the top competing listings belong
// to the platform operator's private-label brands.
type PlatformPresence struct {
	Detected         bool                   `json:"detected"`
	ProductCount     int                    `json:"product_count"`
	TotalCompetitors int                    `json:"total_competitors"`
	Confidence       float64                `json:"confidence"`
	Listings         []providers.Competitor `json:"listings,omitempty"`
}

// CheckPlatformPresence scans a wider competitor set (top 20) for platform
// private-label listings. Informational helper, not part of the scored chain.
func (a *BrandDominanceAnalyzer) CheckPlatformPresence(ctx context.Context, keyword *models.Keyword, marketplace models.Marketplace) PlatformPresence {
	if a.intel == nil {
		return PlatformPresence{}
	}
	competitors, err := a.intel.TopCompetitors(ctx, keyword.Term, marketplace, 20)
	if err != nil || len(competitors) == 0 {
		return PlatformPresence{}
	}

	var hits []providers.Competitor
	for _, comp := range competitors {
		if isPlatformBrand(comp.Brand) {
			hits = append(hits, comp)
		}
	}
	if len(hits) > 5 {
		hits = hits[:5]
	}

	return PlatformPresence{
		Detected:         len(hits) > 0,
		ProductCount:     len(hits),
		TotalCompetitors: len(competitors),
		Confidence:       float64(len(hits)) / float64(len(competitors)),
		Listings:         hits,
	}
}

func (a *BrandDominanceAnalyzer) lookupClickConcentration(ctx context.Context, product *models.Product, keyword *models.Keyword) *float64 {
	if a.intel != nil {
		cc, err := a.intel.ClickConcentration(ctx, keyword.Term, product.Marketplace)
		if err != nil {
			a.logger.WithError(err).Warn("Click concentration lookup failed, treating as unknown")
		} else if cc != nil {
			return cc
		}
	}
	return product.ClickConcentration
}

func (a *BrandDominanceAnalyzer) lookupCompetitors(ctx context.Context, product *models.Product, keyword *models.Keyword) []providers.Competitor {
	if a.intel == nil {
		return nil
	}
	competitors, err := a.intel.TopCompetitors(ctx, keyword.Term, product.Marketplace, 10)
	if err != nil {
		a.logger.WithError(err).Warn("Competitor lookup failed, treating as unknown")
		return nil
	}
	return competitors
}

// topBrandShare computes the leading brand's share of the top-10 competitor
// set, or nil when the ranking is unknown.
func topBrandShare(competitors []providers.Competitor) *float64 {
	if len(competitors) == 0 {
		return nil
	}
	top := competitors
	if len(top) > 10 {
		top = top[:10]
	}
	leader := top[0].Brand
	count := 0
	for _, c := range top {
		if c.Brand == leader {
			count++
		}
	}
	share := float64(count) / float64(len(top))
	return &share
}
