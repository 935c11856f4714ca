package models

import (
	"time"
)

// Bar represents a single OHLCV bar. Bars are immutable once produced and
// sequences are expected to be sorted ascending by timestamp.
type Bar struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
}

// TimeFrame identifies the chart cadence
type TimeFrame string

const (
	TimeFrameDaily  TimeFrame = "1D"
	TimeFrameWeekly TimeFrame = "1W"
)

// Period identifies a trailing historical window
type Period string

const (
	PeriodThreeMonths Period = "3M"
	PeriodSixMonths   Period = "6M"
	PeriodOneYear     Period = "1Y"
	PeriodTwoYears    Period = "2Y"
	PeriodFiveYears   Period = "5Y"
)

// periodDays maps a Period to an approximate count of trading days
var periodDays = map[Period]int{
	PeriodThreeMonths: 63,
	PeriodSixMonths:   126,
	PeriodOneYear:     252,
	PeriodTwoYears:    504,
	PeriodFiveYears:   1260,
}

// TradingDays returns the approximate number of trading days in the period.
// Unknown periods fall back to one year.
func (p Period) TradingDays() int {
	if days, ok := periodDays[p]; ok {
		return days
	}
	return 252
}

// Valid reports whether the period is a known value
func (p Period) Valid() bool {
	_, ok := periodDays[p]
	return ok
}

// Quote is a point-in-time market quote for a symbol
type Quote struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	Volume        int64     `json:"volume"`
	AvgVolume     *int64    `json:"avg_volume,omitempty"`
	MarketCap     *int64    `json:"market_cap,omitempty"`
	High52w       *float64  `json:"high_52w,omitempty"`
	Low52w        *float64  `json:"low_52w,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// StockInfo holds basic descriptive information about a listing
type StockInfo struct {
	Symbol    string `json:"symbol"`
	Name      string `json:"name"`
	Sector    string `json:"sector,omitempty"`
	Industry  string `json:"industry,omitempty"`
	Exchange  string `json:"exchange,omitempty"`
	MarketCap *int64 `json:"market_cap,omitempty"`
	Currency  string `json:"currency"`
}

// UniverseEntry is a symbol eligible for screening and signal detection
type UniverseEntry struct {
	Symbol    string `json:"symbol"`
	Name      string `json:"name"`
	Sector    string `json:"sector,omitempty"`
	MarketCap *int64 `json:"market_cap,omitempty"`
	Exchange  string `json:"exchange,omitempty"`
	IsActive  bool   `json:"is_active"`
}

// StockData bundles info, quote and bars for a single symbol
type StockData struct {
	Info  StockInfo `json:"info"`
	Quote Quote     `json:"quote"`
	OHLCV []Bar     `json:"ohlcv"`
}

// ChartData is OHLCV plus the indicator payload aligned to the same cadence
type ChartData struct {
	Symbol     string        `json:"symbol"`
	TimeFrame  TimeFrame     `json:"timeframe"`
	Period     Period        `json:"period"`
	OHLCV      []Bar         `json:"ohlcv"`
	Indicators IndicatorData `json:"indicators"`
}
