package models

// SortField enumerates screener sort fields
type SortField string

const (
	SortBySymbol    SortField = "symbol"
	SortByName      SortField = "name"
	SortByPrice     SortField = "price"
	SortByDistance  SortField = "distance"
	SortByMarketCap SortField = "market_cap"
	SortByChange    SortField = "change"
)

// SortOrder enumerates sort directions
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// MAPosition classifies a price relative to its moving average
type MAPosition string

const (
	PositionAbove MAPosition = "above"
	PositionBelow MAPosition = "below"
	PositionAt    MAPosition = "at"
)

// ScreenerRequest is one screening pass over the universe
type ScreenerRequest struct {
	MAWindow     MAWindow  `json:"ma_filter"`
	DistancePct  float64   `json:"distance_pct"`
	IncludeBelow bool      `json:"include_below"`
	IncludeAbove bool      `json:"include_above"`
	SortBy       SortField `json:"sort_by"`
	SortOrder    SortOrder `json:"sort_order"`
	Limit        int       `json:"limit"`
	Offset       int       `json:"offset"`
}

// DefaultScreenerRequest returns a request with the standard defaults
func DefaultScreenerRequest() ScreenerRequest {
	return ScreenerRequest{
		MAWindow:     MA20W,
		DistancePct:  5.0,
		IncludeBelow: true,
		IncludeAbove: true,
		SortBy:       SortByDistance,
		SortOrder:    SortAsc,
		Limit:        100,
		Offset:       0,
	}
}

// ScreenerResult is a single row of a screening pass. Derived per run,
// never persisted, only cached.
type ScreenerResult struct {
	Symbol          string     `json:"symbol"`
	Name            string     `json:"name"`
	Sector          string     `json:"sector,omitempty"`
	Price           float64    `json:"price"`
	Change          float64    `json:"change"`
	ChangePercent   float64    `json:"change_percent"`
	MarketCap       *int64     `json:"market_cap,omitempty"`
	MAValue         float64    `json:"ma_value"`
	MAWindow        MAWindow   `json:"ma_period"`
	Distance        float64    `json:"distance"`
	DistancePercent float64    `json:"distance_percent"`
	Position        MAPosition `json:"position"`
}

// ScreenerResponse is the outcome of one screening pass
type ScreenerResponse struct {
	Results        []ScreenerResult `json:"results"`
	Total          int              `json:"total"`
	Filters        ScreenerRequest  `json:"filters"`
	Cached         bool             `json:"cached"`
	CacheTimestamp string           `json:"cache_timestamp,omitempty"`
}
