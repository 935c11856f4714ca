package cache

import (
	"time"

	"github.com/mohamedkhairy/argus/internal/config"
)

// TTLPolicy derives entry TTLs from configuration and market hours.
// Quote, indicator, chart and screener entries stretch by the off-hours
// multiplier when the market is closed; OHLCV history and the universe use
// fixed TTLs regardless of market state.
type TTLPolicy struct {
	cfg config.CacheConfig
	now func() time.Time
}

// NewTTLPolicy creates a TTL policy backed by the wall clock
func NewTTLPolicy(cfg config.CacheConfig) *TTLPolicy {
	return &TTLPolicy{cfg: cfg, now: time.Now}
}

// NewTTLPolicyWithClock creates a TTL policy with an injected clock (tests)
func NewTTLPolicyWithClock(cfg config.CacheConfig, now func() time.Time) *TTLPolicy {
	return &TTLPolicy{cfg: cfg, now: now}
}

func (p *TTLPolicy) multiplier() time.Duration {
	if IsMarketHours(p.now()) {
		return 1
	}
	m := p.cfg.OffHoursMultiplier
	if m < 1 {
		m = 1
	}
	return time.Duration(m)
}

// Quote returns the TTL for quote entries
func (p *TTLPolicy) Quote() time.Duration {
	return p.cfg.QuoteTTL * p.multiplier()
}

// Indicators returns the TTL for indicator payloads
func (p *TTLPolicy) Indicators() time.Duration {
	return p.cfg.IndicatorsTTL * p.multiplier()
}

// Screener returns the TTL for screener result pages
func (p *TTLPolicy) Screener() time.Duration {
	return p.cfg.ScreenerTTL * p.multiplier()
}

// Chart returns the TTL for chart payloads
func (p *TTLPolicy) Chart() time.Duration {
	return p.cfg.ChartTTL * p.multiplier()
}

// OHLCVDaily returns the fixed TTL for daily bar history
func (p *TTLPolicy) OHLCVDaily() time.Duration {
	return p.cfg.OHLCVDailyTTL
}

// OHLCVWeekly returns the fixed TTL for weekly bar history
func (p *TTLPolicy) OHLCVWeekly() time.Duration {
	return p.cfg.OHLCVWeeklyTTL
}

// Universe returns the fixed TTL for the cached universe
func (p *TTLPolicy) Universe() time.Duration {
	return p.cfg.UniverseTTL
}

// StockInfo returns the fixed TTL for stock info entries
func (p *TTLPolicy) StockInfo() time.Duration {
	return 24 * time.Hour
}

// Search returns the fixed TTL for search results
func (p *TTLPolicy) Search() time.Duration {
	return time.Hour
}
