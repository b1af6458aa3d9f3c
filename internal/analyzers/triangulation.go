package analyzers

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/nichepilot/nichepilot-go/internal/config"
	"github.com/nichepilot/nichepilot-go/internal/models"
	"github.com/nichepilot/nichepilot-go/internal/providers"
)

// TriangulationAnalyzer cross-validates independent estimates of monthly
// sales and keyword volume and scores how well the sources agree. A single
// source caps the contribution at 50; disagreement beyond the variance
// threshold degrades it to 70 or 30.
type TriangulationAnalyzer struct {
	varianceThreshold float64
	intel             providers.KeywordIntel
	logger            *logrus.Logger
}

// NewTriangulationAnalyzer creates a triangulation analyzer. intel may be
// nil; the live search-volume source is then simply absent.
func NewTriangulationAnalyzer(cfg *config.AnalysisConfig, intel providers.KeywordIntel, logger *logrus.Logger) *TriangulationAnalyzer {
	return &TriangulationAnalyzer{
		varianceThreshold: cfg.VarianceThreshold,
		intel:             intel,
		logger:            logger,
	}
}

// Analyze triangulates sales and volume estimates and reports an overall
// confidence score with per-quantity detail.
func (a *TriangulationAnalyzer) Analyze(ctx context.Context, product *models.Product, keyword *models.Keyword) *models.RuleResult {
	a.logger.WithFields(logrus.Fields{
		"product_id": product.ID,
		"keyword":    keyword.Term,
	}).Debug("Analyzing data triangulation")

	sales := a.triangulateSales(product)
	volume := a.triangulateVolume(ctx, keyword, product.Marketplace)
	competition := a.assessCompetition(ctx, product, keyword)

	var confidences []float64
	var issues []string

	appendQuantity := func(name string, q models.QuantityTriangulation) {
		switch {
		case q.SourceCount >= 2:
			switch {
			case q.VariancePct <= a.varianceThreshold:
				confidences = append(confidences, 100)
			case q.VariancePct <= a.varianceThreshold*2:
				confidences = append(confidences, 70)
				issues = append(issues, fmt.Sprintf("Moderate %s variance: %.1f%%", name, q.VariancePct*100))
			default:
				confidences = append(confidences, 30)
				issues = append(issues, fmt.Sprintf("High %s variance: %.1f%%", name, q.VariancePct*100))
			}
		case q.SourceCount == 1:
			confidences = append(confidences, 50)
			issues = append(issues, fmt.Sprintf("Only one data source for %s", name))
		}
	}

	appendQuantity("sales estimate", sales)
	appendQuantity("keyword volume", volume)

	overall := 0.0
	if len(confidences) > 0 {
		sum := 0.0
		for _, c := range confidences {
			sum += c
		}
		overall = sum / float64(len(confidences))
	}

	var (
		status models.DecisionStatus
		reason string
	)
	switch {
	case overall >= 80:
		status = models.StatusGreen
		reason = fmt.Sprintf(
			"Data triangulation successful with %.0f%% confidence. Cross-validation from %d sales "+
				"and %d keyword volume sources; data consistency verified.",
			overall, sales.SourceCount, volume.SourceCount)
	case overall >= 60:
		status = models.StatusYellow
		reason = fmt.Sprintf(
			"Moderate data confidence (%.0f%%). Some variance between sources: %s. "+
				"Proceed with caution and manual verification.",
			overall, strings.Join(issues, ", "))
	default:
		status = models.StatusRed
		reason = fmt.Sprintf(
			"Low data confidence (%.0f%%). Significant discrepancies: %s. "+
				"Data reliability is questionable; additional research recommended.",
			overall, strings.Join(issues, ", "))
	}

	return &models.RuleResult{
		RuleName:       models.RuleTriangulation,
		Status:         status,
		Score:          clampScore(overall),
		Reason:         reason,
		ThresholdValue: models.Float64Ptr(a.varianceThreshold),
		ActualValue:    models.Float64Ptr(overall / 100),
		Triangulation: &models.TriangulationDetail{
			Sales:       sales,
			Volume:      volume,
			Competition: competition,
			Issues:      issues,
		},
	}
}

func (a *TriangulationAnalyzer) triangulateSales(product *models.Product) models.QuantityTriangulation {
	estimates := make(map[string]float64, len(product.SalesEstimates))
	for _, e := range product.SalesEstimates {
		estimates[e.Source] = float64(e.Units)
	}
	return summarize(estimates)
}

func (a *TriangulationAnalyzer) triangulateVolume(ctx context.Context, keyword *models.Keyword, marketplace models.Marketplace) models.QuantityTriangulation {
	estimates := make(map[string]float64, len(keyword.VolumeEstimates)+1)
	for _, e := range keyword.VolumeEstimates {
		estimates[e.Source] = float64(e.Volume)
	}
	if a.intel != nil {
		live, err := a.intel.SearchVolume(ctx, keyword.Term, marketplace)
		if err != nil {
			a.logger.WithError(err).Warn("Search volume lookup failed, treating as unknown")
		} else if live != nil {
			estimates["intel"] = float64(*live)
		}
	}
	return summarize(estimates)
}

// summarize computes source count, mean, relative spread and sample standard
// deviation for a set of estimates.
func summarize(estimates map[string]float64) models.QuantityTriangulation {
	q := models.QuantityTriangulation{SourceCount: len(estimates)}
	if len(estimates) == 0 {
		return q
	}
	q.Estimates = estimates

	min, max, sum := math.Inf(1), math.Inf(-1), 0.0
	for _, v := range estimates {
		min = math.Min(min, v)
		max = math.Max(max, v)
		sum += v
	}
	q.Mean = sum / float64(len(estimates))
	if q.Mean > 0 {
		q.VariancePct = (max - min) / q.Mean
	}
	if len(estimates) > 1 {
		ss := 0.0
		for _, v := range estimates {
			d := v - q.Mean
			ss += d * d
		}
		q.StdDev = math.Sqrt(ss / float64(len(estimates)-1))
	}
	return q
}

// assessCompetition derives a qualitative competition level from title
// density and click concentration. Purely informational.
func (a *TriangulationAnalyzer) assessCompetition(ctx context.Context, product *models.Product, keyword *models.Keyword) models.CompetitionDetail {
	titleDensity := keyword.TitleDensity
	clickConcentration := product.ClickConcentration
	if a.intel != nil {
		if td, err := a.intel.TitleDensity(ctx, keyword.Term, product.Marketplace); err == nil && td != nil {
			titleDensity = td
		}
		if cc, err := a.intel.ClickConcentration(ctx, keyword.Term, product.Marketplace); err == nil && cc != nil {
			clickConcentration = cc
		}
	}

	detail := models.CompetitionDetail{
		TitleDensity:       titleDensity,
		ClickConcentration: clickConcentration,
		Level:              "unknown",
	}

	var buckets []float64
	if titleDensity != nil {
		detail.SourceCount++
		switch td := *titleDensity; {
		case td < 5:
			buckets = append(buckets, 1)
		case td < 7:
			buckets = append(buckets, 2)
		default:
			buckets = append(buckets, 3)
		}
	}
	if clickConcentration != nil {
		detail.SourceCount++
		switch cc := *clickConcentration; {
		case cc < 0.4:
			buckets = append(buckets, 1)
		case cc < 0.6:
			buckets = append(buckets, 2)
		default:
			buckets = append(buckets, 3)
		}
	}

	if len(buckets) == 0 {
		return detail
	}
	sum := 0.0
	for _, b := range buckets {
		sum += b
	}
	switch avg := sum / float64(len(buckets)); {
	case avg < 1.5:
		detail.Level = "low"
	case avg < 2.5:
		detail.Level = "medium"
	default:
		detail.Level = "high"
	}
	return detail
}
