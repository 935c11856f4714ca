package models

import "time"

// MAType identifies the moving average flavor
type MAType string

const (
	MATypeSMA MAType = "SMA"
	MATypeEMA MAType = "EMA"
)

// MAWindow is a weekly-equivalent moving average window
type MAWindow string

const (
	MA20W  MAWindow = "20W"
	MA50W  MAWindow = "50W"
	MA100W MAWindow = "100W"
	MA200W MAWindow = "200W"
)

// maWindowDays maps a weekly window to its daily-bar equivalent
// (weeks x 5 trading days)
var maWindowDays = map[MAWindow]int{
	MA20W:  100,
	MA50W:  250,
	MA100W: 500,
	MA200W: 1000,
}

// AllMAWindows lists the supported windows in ascending order
var AllMAWindows = []MAWindow{MA20W, MA50W, MA100W, MA200W}

// Days returns the number of daily bars the window spans, or 0 if unknown
func (w MAWindow) Days() int {
	return maWindowDays[w]
}

// Valid reports whether the window is a known value
func (w MAWindow) Valid() bool {
	_, ok := maWindowDays[w]
	return ok
}

// TimePoint is one position of an indicator value series.
// A nil Value marks a position where insufficient history exists.
type TimePoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     *float64  `json:"value"`
}

// MovingAverageResult is the computed state of a single moving average
type MovingAverageResult struct {
	Period          int         `json:"period"`
	MAType          MAType      `json:"ma_type"`
	Values          []TimePoint `json:"values"`
	CurrentValue    *float64    `json:"current_value"`
	CurrentPrice    *float64    `json:"current_price"`
	DistancePercent *float64    `json:"distance_percent"`
}

// RSIResult is the computed state of the RSI oscillator
type RSIResult struct {
	Period       int         `json:"period"`
	Values       []TimePoint `json:"values"`
	CurrentValue *float64    `json:"current_value"`
	IsOverbought bool        `json:"is_overbought"`
	IsOversold   bool        `json:"is_oversold"`
}

// MACDResult is the computed state of the MACD indicator
type MACDResult struct {
	FastPeriod       int         `json:"fast_period"`
	SlowPeriod       int         `json:"slow_period"`
	SignalPeriod     int         `json:"signal_period"`
	MACDLine         []TimePoint `json:"macd_line"`
	SignalLine       []TimePoint `json:"signal_line"`
	Histogram        []TimePoint `json:"histogram"`
	CurrentMACD      *float64    `json:"current_macd"`
	CurrentSignal    *float64    `json:"current_signal"`
	CurrentHistogram *float64    `json:"current_histogram"`
}

// IndicatorData is the combined indicator payload for a symbol.
// Sections not requested are nil.
type IndicatorData struct {
	Symbol string               `json:"symbol"`
	MA20W  *MovingAverageResult `json:"ma_20w,omitempty"`
	MA50W  *MovingAverageResult `json:"ma_50w,omitempty"`
	MA100W *MovingAverageResult `json:"ma_100w,omitempty"`
	MA200W *MovingAverageResult `json:"ma_200w,omitempty"`
	RSI    *RSIResult           `json:"rsi,omitempty"`
	MACD   *MACDResult          `json:"macd,omitempty"`
}

// MA returns the moving average result for the given window, or nil
func (d *IndicatorData) MA(window MAWindow) *MovingAverageResult {
	switch window {
	case MA20W:
		return d.MA20W
	case MA50W:
		return d.MA50W
	case MA100W:
		return d.MA100W
	case MA200W:
		return d.MA200W
	}
	return nil
}

// Float64Ptr returns a pointer to v
func Float64Ptr(v float64) *float64 {
	return &v
}

// Int64Ptr returns a pointer to v
func Int64Ptr(v int64) *int64 {
	return &v
}
