package models

import (
	"time"
)

// SignalType enumerates the discrete signal events the detector can emit
type SignalType string

const (
	SignalMACrossoverBullish SignalType = "ma_crossover_bullish"
	SignalMACrossoverBearish SignalType = "ma_crossover_bearish"
	SignalRSIOversold        SignalType = "rsi_oversold"
	SignalRSIOverbought      SignalType = "rsi_overbought"
	SignalMACDBullishCross   SignalType = "macd_bullish_cross"
	SignalMACDBearishCross   SignalType = "macd_bearish_cross"
	SignalNear52wHigh        SignalType = "near_52w_high"
	SignalNear52wLow         SignalType = "near_52w_low"
	SignalNew52wHigh         SignalType = "new_52w_high"
	SignalNew52wLow          SignalType = "new_52w_low"
)

// IsBullish reports whether the signal type leans bullish
func (t SignalType) IsBullish() bool {
	switch t {
	case SignalMACrossoverBullish, SignalMACDBullishCross, SignalRSIOversold,
		SignalNear52wLow, SignalNew52wHigh:
		return true
	}
	return false
}

// IsBearish reports whether the signal type leans bearish
func (t SignalType) IsBearish() bool {
	switch t {
	case SignalMACrossoverBearish, SignalMACDBearishCross, SignalRSIOverbought,
		SignalNear52wHigh, SignalNew52wLow:
		return true
	}
	return false
}

// SignalCandidate is a detected-but-not-yet-accepted signal emission
type SignalCandidate struct {
	Symbol  string                 `json:"symbol"`
	Type    SignalType             `json:"signal_type"`
	Price   float64                `json:"price"`
	Details map[string]interface{} `json:"details"`
}

// Signal is an accepted, persisted signal event. Immutable after creation.
type Signal struct {
	ID        string                 `json:"id"`
	Symbol    string                 `json:"symbol"`
	Type      SignalType             `json:"signal_type"`
	Timestamp time.Time              `json:"timestamp"`
	Price     float64                `json:"price"`
	Details   map[string]interface{} `json:"details"`
	CreatedAt time.Time              `json:"created_at"`
}

// SignalFilter narrows signal listing queries
type SignalFilter struct {
	Types   []SignalType
	Symbols []string
	Since   time.Time
	Limit   int
}
