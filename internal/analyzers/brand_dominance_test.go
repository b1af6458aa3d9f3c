package analyzers

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nichepilot/nichepilot-go/internal/config"
	"github.com/nichepilot/nichepilot-go/internal/models"
	"github.com/nichepilot/nichepilot-go/internal/providers"
)

func newDominanceAnalyzer(intel providers.KeywordIntel) *BrandDominanceAnalyzer {
	cfg := config.Default()
	return NewBrandDominanceAnalyzer(&cfg.Analysis, intel, testLogger())
}

func dominanceProduct(clickConcentration *float64) *models.Product {
	return &models.Product{
		ID:                 "B0TEST1234",
		Title:              "Test Product",
		Price:              decimal.RequireFromString("49.99"),
		Marketplace:        models.MarketplaceUS,
		ClickConcentration: clickConcentration,
	}
}

func dominanceKeyword() *models.Keyword {
	return &models.Keyword{Term: "yoga mat", ExactSearchVolume: models.IntPtr(8000)}
}

func snapshotIntel(snap providers.KeywordSnapshot) *providers.SnapshotStore {
	store := providers.NewSnapshotStore()
	store.Put("yoga mat", models.MarketplaceUS, snap)
	return store
}

func TestBrandDominanceLowConcentration(t *testing.T) {
	analyzer := newDominanceAnalyzer(nil)
	result := analyzer.Analyze(context.Background(), dominanceProduct(models.Float64Ptr(0.25)), dominanceKeyword())

	assert.Equal(t, models.RuleBrandDominance, result.RuleName)
	assert.Equal(t, models.StatusGreen, result.Status)
	assert.Equal(t, 90.0, result.Score)
	assert.Contains(t, result.Reason, "Low market concentration")
}

func TestBrandDominanceSomeConcentration(t *testing.T) {
	analyzer := newDominanceAnalyzer(nil)
	result := analyzer.Analyze(context.Background(), dominanceProduct(models.Float64Ptr(0.45)), dominanceKeyword())

	assert.Equal(t, models.StatusYellow, result.Status)
	assert.Equal(t, 60.0, result.Score)
}

func TestBrandDominanceModerateMonopoly(t *testing.T) {
	analyzer := newDominanceAnalyzer(nil)
	result := analyzer.Analyze(context.Background(), dominanceProduct(models.Float64Ptr(0.55)), dominanceKeyword())

	assert.Equal(t, models.StatusYellow, result.Status)
	assert.Equal(t, 30.0, result.Score)
	assert.Contains(t, result.Reason, "Moderate market monopoly")
}

func TestBrandDominanceHighMonopoly(t *testing.T) {
	analyzer := newDominanceAnalyzer(nil)
	result := analyzer.Analyze(context.Background(), dominanceProduct(models.Float64Ptr(0.75)), dominanceKeyword())

	assert.Equal(t, models.StatusRed, result.Status)
	assert.Equal(t, 10.0, result.Score)
	assert.True(t, result.IsKillSwitch())
}

func TestBrandDominanceUnknownSignalsScoreGreen(t *testing.T) {
	analyzer := newDominanceAnalyzer(nil)
	result := analyzer.Analyze(context.Background(), dominanceProduct(nil), dominanceKeyword())

	assert.Equal(t, models.StatusGreen, result.Status)
	require.NotNil(t, result.ActualValue)
	assert.Equal(t, 0.0, *result.ActualValue)
}

func TestBrandDominancePlatformBrandOverride(t *testing.T) {
	intel := snapshotIntel(providers.KeywordSnapshot{
		ClickConcentration: models.Float64Ptr(0.10), // otherwise green
		Competitors: []providers.Competitor{
			{Rank: 1, Brand: "AmazonBasics"},
			{Rank: 2, Brand: "Gaiam"},
		},
	})

	analyzer := newDominanceAnalyzer(intel)
	result := analyzer.Analyze(context.Background(), dominanceProduct(nil), dominanceKeyword())

	assert.Equal(t, models.StatusRed, result.Status)
	assert.Equal(t, 0.0, result.Score)
	assert.Contains(t, result.Reason, "Platform private-label brand detected")
	require.NotNil(t, result.Dominance)
	assert.True(t, result.Dominance.PlatformBrandDetected)
	assert.True(t, result.IsKillSwitch())
}

func TestBrandDominancePlatformBrandOutsideTopThreeIgnored(t *testing.T) {
	intel := snapshotIntel(providers.KeywordSnapshot{
		ClickConcentration: models.Float64Ptr(0.10),
		Competitors: []providers.Competitor{
			{Rank: 1, Brand: "Gaiam"},
			{Rank: 2, Brand: "Manduka"},
			{Rank: 3, Brand: "BalanceFrom"},
			{Rank: 4, Brand: "AmazonBasics"},
		},
	})

	analyzer := newDominanceAnalyzer(intel)
	result := analyzer.Analyze(context.Background(), dominanceProduct(nil), dominanceKeyword())

	assert.Equal(t, models.StatusGreen, result.Status)
	assert.False(t, result.Dominance.PlatformBrandDetected)
}

func TestBrandDominanceTopBrandShareFallback(t *testing.T) {
	// No click concentration anywhere; the leader holds 6 of 10 slots.
	competitors := []providers.Competitor{
		{Rank: 1, Brand: "Gaiam"}, {Rank: 2, Brand: "Gaiam"}, {Rank: 3, Brand: "Gaiam"},
		{Rank: 4, Brand: "Gaiam"}, {Rank: 5, Brand: "Gaiam"}, {Rank: 6, Brand: "Gaiam"},
		{Rank: 7, Brand: "Manduka"}, {Rank: 8, Brand: "BalanceFrom"},
		{Rank: 9, Brand: "Heathyoga"}, {Rank: 10, Brand: "Jade"},
	}
	intel := snapshotIntel(providers.KeywordSnapshot{Competitors: competitors})

	analyzer := newDominanceAnalyzer(intel)
	result := analyzer.Analyze(context.Background(), dominanceProduct(nil), dominanceKeyword())

	require.NotNil(t, result.Dominance.TopBrandShare)
	assert.InDelta(t, 0.6, *result.Dominance.TopBrandShare, 1e-9)
	assert.Equal(t, models.StatusYellow, result.Status)
	assert.Equal(t, 30.0, result.Score)
}

func TestIsPlatformBrand(t *testing.T) {
	assert.True(t, isPlatformBrand("AmazonBasics"))
	assert.True(t, isPlatformBrand("amazon essentials"))
	assert.True(t, isPlatformBrand(" Solimo "))
	assert.True(t, isPlatformBrand("Amazon Commercial"))
	assert.False(t, isPlatformBrand("Gaiam"))
	assert.False(t, isPlatformBrand(""))
}

func TestCheckPlatformPresence(t *testing.T) {
	competitors := []providers.Competitor{
		{Rank: 1, Brand: "Gaiam"},
		{Rank: 2, Brand: "AmazonBasics"},
		{Rank: 3, Brand: "Solimo"},
		{Rank: 4, Brand: "Manduka"},
	}
	intel := snapshotIntel(providers.KeywordSnapshot{Competitors: competitors})

	analyzer := newDominanceAnalyzer(intel)
	presence := analyzer.CheckPlatformPresence(context.Background(), dominanceKeyword(), models.MarketplaceUS)

	assert.True(t, presence.Detected)
	assert.Equal(t, 2, presence.ProductCount)
	assert.Equal(t, 4, presence.TotalCompetitors)
	assert.InDelta(t, 0.5, presence.Confidence, 1e-9)
}

func TestCheckPlatformPresenceWithoutIntel(t *testing.T) {
	analyzer := newDominanceAnalyzer(nil)
	presence := analyzer.CheckPlatformPresence(context.Background(), dominanceKeyword(), models.MarketplaceUS)
	assert.False(t, presence.Detected)
}
