package models

import "errors"

var (
	// ErrNotFound indicates the requested symbol or series does not exist
	ErrNotFound = errors.New("not found")

	// ErrMarketDataUnavailable indicates the upstream data provider timed out or failed
	ErrMarketDataUnavailable = errors.New("market data unavailable")

	// ErrCacheUnavailable indicates the cache backend could not be reached (best-effort, never fatal)
	ErrCacheUnavailable = errors.New("cache unavailable")

	// ErrStorageFailure indicates a durable store write failed
	ErrStorageFailure = errors.New("storage failure")

	// ErrInvalidSymbol is returned when a symbol is empty or malformed
	ErrInvalidSymbol = errors.New("invalid symbol")

	// ErrInvalidWindow is returned for an unknown moving-average window
	ErrInvalidWindow = errors.New("invalid moving average window")

	// ErrInvalidPeriod is returned for an unknown lookback period
	ErrInvalidPeriod = errors.New("invalid period")

	// ErrEmptyUniverse indicates the screening universe could not be obtained at all
	ErrEmptyUniverse = errors.New("universe unavailable")
)
