// Package stocks serves per-symbol market data: quotes, listing info, chart
// payloads with aligned indicators, and symbol search. Everything is read
// through the cache; the market data provider is the source of truth.
package stocks

import (
	"context"
	"fmt"
	"strings"

	"github.com/mohamedkhairy/argus/internal/cache"
	"github.com/mohamedkhairy/argus/internal/indicator"
	"github.com/mohamedkhairy/argus/internal/marketdata"
	"github.com/mohamedkhairy/argus/internal/models"
	"github.com/mohamedkhairy/argus/internal/resample"
	"github.com/mohamedkhairy/argus/pkg/logger"
)

// chartLookback is the history fetched for chart requests: the longest MA
// window must be computable before slicing down to the requested period.
var chartLookback = models.MA200W.Days() + models.PeriodOneYear.TradingDays()

// Service provides cached access to per-symbol market data
type Service struct {
	provider marketdata.Provider
	cache    cache.Store
	ttl      *cache.TTLPolicy
}

// NewService creates a stocks service
func NewService(provider marketdata.Provider, cacheStore cache.Store, ttl *cache.TTLPolicy) *Service {
	return &Service{provider: provider, cache: cacheStore, ttl: ttl}
}

// GetQuote returns the current quote for a symbol, cache first
func (s *Service) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	symbol = normalizeSymbol(symbol)
	if symbol == "" {
		return nil, models.ErrInvalidSymbol
	}

	key := cache.QuoteKey(symbol)
	var cached models.Quote
	if ok, err := cache.GetJSON(ctx, s.cache, key, &cached); err != nil {
		logger.Warn("Quote cache read failed", logger.String("symbol", symbol), logger.ErrorField(err))
	} else if ok {
		return &cached, nil
	}

	quote, err := s.provider.GetQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	if err := cache.SetJSON(ctx, s.cache, key, quote, s.ttl.Quote()); err != nil {
		logger.Warn("Quote cache write failed", logger.String("symbol", symbol), logger.ErrorField(err))
	}
	return quote, nil
}

// GetStockInfo returns listing details for a symbol, cache first
func (s *Service) GetStockInfo(ctx context.Context, symbol string) (*models.StockInfo, error) {
	symbol = normalizeSymbol(symbol)
	if symbol == "" {
		return nil, models.ErrInvalidSymbol
	}

	key := cache.StockInfoKey(symbol)
	var cached models.StockInfo
	if ok, err := cache.GetJSON(ctx, s.cache, key, &cached); err != nil {
		logger.Warn("Info cache read failed", logger.String("symbol", symbol), logger.ErrorField(err))
	} else if ok {
		return &cached, nil
	}

	info, err := s.provider.GetStockInfo(ctx, symbol)
	if err != nil {
		return nil, err
	}

	if err := cache.SetJSON(ctx, s.cache, key, info, s.ttl.StockInfo()); err != nil {
		logger.Warn("Info cache write failed", logger.String("symbol", symbol), logger.ErrorField(err))
	}
	return info, nil
}

// getDailyBars fetches the full daily history through the OHLCV cache.
// History spans the longest MA window, so one entry serves every period.
func (s *Service) getDailyBars(ctx context.Context, symbol string) ([]models.Bar, error) {
	key := cache.OHLCVKey(symbol, models.TimeFrameDaily, models.PeriodFiveYears)
	var cached []models.Bar
	if ok, err := cache.GetJSON(ctx, s.cache, key, &cached); err != nil {
		logger.Warn("OHLCV cache read failed", logger.String("symbol", symbol), logger.ErrorField(err))
	} else if ok {
		return cached, nil
	}

	bars, err := s.provider.GetBars(ctx, symbol, chartLookback)
	if err != nil {
		return nil, err
	}

	if err := cache.SetJSON(ctx, s.cache, key, bars, s.ttl.OHLCVDaily()); err != nil {
		logger.Warn("OHLCV cache write failed", logger.String("symbol", symbol), logger.ErrorField(err))
	}
	return bars, nil
}

// GetChart returns OHLCV bars plus aligned indicators for a symbol.
// Indicators are computed over the full fetched history before the payload is
// sliced to the requested period, so long-window values stay correct at the
// left edge. Weekly charts resample the bars and realign every series to the
// weekly cadence.
func (s *Service) GetChart(ctx context.Context, symbol string, timeframe models.TimeFrame, period models.Period, opts indicator.Options) (*models.ChartData, error) {
	symbol = normalizeSymbol(symbol)
	if symbol == "" {
		return nil, models.ErrInvalidSymbol
	}
	if !period.Valid() {
		return nil, fmt.Errorf("%w: %s", models.ErrInvalidPeriod, period)
	}
	if timeframe != models.TimeFrameDaily && timeframe != models.TimeFrameWeekly {
		return nil, fmt.Errorf("%w: unknown timeframe %s", models.ErrInvalidPeriod, timeframe)
	}

	key := cache.ChartKey(symbol, timeframe, period, opts.IncludeMA, opts.IncludeRSI, opts.IncludeMACD)
	var cached models.ChartData
	if ok, err := cache.GetJSON(ctx, s.cache, key, &cached); err != nil {
		logger.Warn("Chart cache read failed", logger.String("symbol", symbol), logger.ErrorField(err))
	} else if ok {
		return &cached, nil
	}

	bars, err := s.getDailyBars(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: no bars for %s", models.ErrNotFound, symbol)
	}

	series := indicator.NewSeries(bars)
	indicators := indicator.Calculate(symbol, series, opts)

	days := period.TradingDays()
	chartBars := resample.SliceTail(bars, days)
	indicators = resample.SliceIndicators(indicators, days)

	if timeframe == models.TimeFrameWeekly {
		chartBars = s.getWeeklyBars(ctx, symbol, period, chartBars)
		indicators = resample.AlignIndicators(indicators, chartBars)
	}

	chart := &models.ChartData{
		Symbol:     symbol,
		TimeFrame:  timeframe,
		Period:     period,
		OHLCV:      chartBars,
		Indicators: indicators,
	}

	if err := cache.SetJSON(ctx, s.cache, key, chart, s.ttl.Chart()); err != nil {
		logger.Warn("Chart cache write failed", logger.String("symbol", symbol), logger.ErrorField(err))
	}
	return chart, nil
}

// getWeeklyBars resamples the period's daily bars to the weekly cadence
// through the OHLCV cache. Weekly bars only move at week close, so they carry
// the longer fixed TTL.
func (s *Service) getWeeklyBars(ctx context.Context, symbol string, period models.Period, daily []models.Bar) []models.Bar {
	key := cache.OHLCVKey(symbol, models.TimeFrameWeekly, period)
	var cached []models.Bar
	if ok, err := cache.GetJSON(ctx, s.cache, key, &cached); err != nil {
		logger.Warn("OHLCV cache read failed", logger.String("symbol", symbol), logger.ErrorField(err))
	} else if ok {
		return cached
	}

	weekly := resample.ToWeekly(daily)
	if err := cache.SetJSON(ctx, s.cache, key, weekly, s.ttl.OHLCVWeekly()); err != nil {
		logger.Warn("OHLCV cache write failed", logger.String("symbol", symbol), logger.ErrorField(err))
	}
	return weekly
}

// GetIndicators returns the combined indicator payload for a symbol at the
// daily cadence, cache first
func (s *Service) GetIndicators(ctx context.Context, symbol string, opts indicator.Options) (*models.IndicatorData, error) {
	symbol = normalizeSymbol(symbol)
	if symbol == "" {
		return nil, models.ErrInvalidSymbol
	}

	key := cache.IndicatorsKey(symbol, models.TimeFrameDaily)
	var cached models.IndicatorData
	if ok, err := cache.GetJSON(ctx, s.cache, key, &cached); err != nil {
		logger.Warn("Indicators cache read failed", logger.String("symbol", symbol), logger.ErrorField(err))
	} else if ok {
		return &cached, nil
	}

	bars, err := s.getDailyBars(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: no bars for %s", models.ErrNotFound, symbol)
	}

	data := indicator.Calculate(symbol, indicator.NewSeries(bars), opts)

	if err := cache.SetJSON(ctx, s.cache, key, data, s.ttl.Indicators()); err != nil {
		logger.Warn("Indicators cache write failed", logger.String("symbol", symbol), logger.ErrorField(err))
	}
	return &data, nil
}

// Search returns listings matching the query, cache first
func (s *Service) Search(ctx context.Context, query string) ([]models.StockInfo, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.StockInfo{}, nil
	}

	key := cache.SearchKey(query)
	var cached []models.StockInfo
	if ok, err := cache.GetJSON(ctx, s.cache, key, &cached); err != nil {
		logger.Warn("Search cache read failed", logger.ErrorField(err))
	} else if ok {
		return cached, nil
	}

	infos, err := s.provider.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	if err := cache.SetJSON(ctx, s.cache, key, infos, s.ttl.Search()); err != nil {
		logger.Warn("Search cache write failed", logger.ErrorField(err))
	}
	return infos, nil
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
