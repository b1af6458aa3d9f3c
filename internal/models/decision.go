package models

// DecisionStatus is the verdict of a single rule or of a whole assessment.
type DecisionStatus string

const (
	StatusRed    DecisionStatus = "RED"    // reject, do not pursue
	StatusYellow DecisionStatus = "YELLOW" // caution, needs manual review
	StatusGreen  DecisionStatus = "GREEN"  // approve
)

// Valid reports whether s is one of the three known statuses.
func (s DecisionStatus) Valid() bool {
	switch s {
	case StatusRed, StatusYellow, StatusGreen:
		return true
	}
	return false
}

// Marketplace is a target marketplace region.
type Marketplace string

const (
	MarketplaceUS Marketplace = "US"
	MarketplaceUK Marketplace = "UK"
	MarketplaceDE Marketplace = "DE"
	MarketplaceFR Marketplace = "FR"
	MarketplaceIT Marketplace = "IT"
	MarketplaceES Marketplace = "ES"
	MarketplaceCA Marketplace = "CA"
	MarketplaceJP Marketplace = "JP"
)

// Valid reports whether m is a supported marketplace.
func (m Marketplace) Valid() bool {
	switch m {
	case MarketplaceUS, MarketplaceUK, MarketplaceDE, MarketplaceFR,
		MarketplaceIT, MarketplaceES, MarketplaceCA, MarketplaceJP:
		return true
	}
	return false
}

// CurrencyZone groups marketplaces by the currency used for price floors.
type CurrencyZone string

const (
	ZoneUSD CurrencyZone = "USD"
	ZoneEUR CurrencyZone = "EUR"
)

// CurrencyZone returns the price-floor currency zone for the marketplace.
// US and CA use the USD floor, everything else the EUR floor.
func (m Marketplace) CurrencyZone() CurrencyZone {
	switch m {
	case MarketplaceUS, MarketplaceCA:
		return ZoneUSD
	}
	return ZoneEUR
}
