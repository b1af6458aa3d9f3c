// Package providers defines the synchronous read interfaces through which the
// scoring engine consumes externally resolved market intelligence. The
// network clients that populate these signals live outside this repository;
// the engine only ever sees resolved values and treats a nil value as
// "unknown".
package providers

import (
	"context"

	"github.com/nichepilot/nichepilot-go/internal/models"
)

// Competitor is one ranked competing listing for a keyword.
type Competitor struct {
	Rank       int      `json:"rank"`
	Brand      string   `json:"brand"`
	ProductID  string   `json:"product_id,omitempty"`
	Title      string   `json:"title,omitempty"`
	ClickShare *float64 `json:"click_share,omitempty"`
}

// KeywordIntel exposes the auxiliary keyword signals the rule evaluators may
// look up during an evaluation. Implementations must be safe for concurrent
// use and must return (nil, nil) for signals they cannot resolve; callers
// degrade gracefully on nil values and on errors alike.
type KeywordIntel interface {
	// ClickConcentration returns the top-3 click share for the keyword as a
	// fraction in [0, 1], or nil when unknown.
	ClickConcentration(ctx context.Context, keyword string, marketplace models.Marketplace) (*float64, error)

	// TopCompetitors returns up to limit competing listings ordered by rank.
	// An empty slice means the ranking is unknown.
	TopCompetitors(ctx context.Context, keyword string, marketplace models.Marketplace, limit int) ([]Competitor, error)

	// TitleDensity returns the count of top listings whose titles contain the
	// exact keyword, or nil when unknown.
	TitleDensity(ctx context.Context, keyword string, marketplace models.Marketplace) (*float64, error)

	// SearchVolume returns an independent monthly search volume estimate, or
	// nil when unknown.
	SearchVolume(ctx context.Context, keyword string, marketplace models.Marketplace) (*int, error)
}
