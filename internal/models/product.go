package models

import (
	"github.com/shopspring/decimal"
)

// SalesEstimate is one external source's estimate of monthly unit sales.
type SalesEstimate struct {
	Source string `json:"source"`
	Units  int    `json:"units"`
}

// VolumeEstimate is one external source's estimate of monthly search volume.
type VolumeEstimate struct {
	Source string `json:"source"`
	Volume int    `json:"volume"`
}

// Product is an immutable snapshot of one candidate item. It is assembled by
// the external data-fetch layer before an evaluation; the scoring engine never
// mutates it. Every externally sourced signal is optional and modelled as a
// pointer so that "unknown" never collapses into a zero value.
type Product struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Marketplace Marketplace     `json:"marketplace"`

	// Demand and revenue signals
	MonthlyRevenue *decimal.Decimal `json:"monthly_revenue,omitempty"`
	SalesEstimates []SalesEstimate  `json:"sales_estimates,omitempty"`
	SearchVolume   *int             `json:"search_volume,omitempty"`

	// Social proof signals
	ReviewCount    *int     `json:"review_count,omitempty"`
	Rating         *float64 `json:"rating,omitempty"`
	ReviewVelocity *float64 `json:"review_velocity,omitempty"` // new reviews per month

	// Competition signals
	ClickConcentration *float64 `json:"click_concentration,omitempty"` // top-3 click share, 0..1
	SellerCount        *int     `json:"seller_count,omitempty"`
	OfferCount         *int     `json:"offer_count,omitempty"`
	SalesRank          *int     `json:"sales_rank,omitempty"`

	// Price history aggregates
	PriceAvg30d *decimal.Decimal `json:"price_avg_30d,omitempty"`
	PriceAvg90d *decimal.Decimal `json:"price_avg_90d,omitempty"`
	BuyBoxOwner *string          `json:"buy_box_owner,omitempty"`
}

// Keyword is the target search term with its volume and competition signals.
// ExactSearchVolume is the only mandatory signal; a nil value is a caller
// contract violation and fails the evaluation before any rule runs.
type Keyword struct {
	Term string `json:"term"`

	ExactSearchVolume  *int `json:"exact_search_volume"`
	BroadSearchVolume  *int `json:"broad_search_volume,omitempty"`
	PhraseSearchVolume *int `json:"phrase_search_volume,omitempty"`

	TitleDensity      *float64         `json:"title_density,omitempty"`
	CompetingProducts *int             `json:"competing_products,omitempty"`
	CPCEstimate       *decimal.Decimal `json:"cpc_estimate,omitempty"`

	// Cross-source volume estimates used by triangulation.
	VolumeEstimates []VolumeEstimate `json:"volume_estimates,omitempty"`
}
