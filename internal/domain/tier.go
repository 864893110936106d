package domain

// TierID identifies a service tier in the static catalog.
type TierID string

const (
	TierStandard  TierID = "standard"
	TierExecutive TierID = "executive"
)

// ServiceTier is a static catalog entry. The catalog is immutable and loaded
// once per process; BasePrice is in minor currency units.
type ServiceTier struct {
	ID        TierID
	Name      string
	BasePrice int64
	Features  []string // display only
}

// PriceQuote is the derived price breakdown for a trip under a tier.
// It is never persisted as its own entity. All values are minor currency
// units; Total is rounded to a whole currency unit before it reaches any
// payment API.
type PriceQuote struct {
	TierID               TierID
	BasePrice            int64
	PerPersonSurcharge   int64
	DurationSurcharge    int64
	DestinationSurcharge int64
	Total                int64
}
