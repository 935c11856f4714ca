// Package screener evaluates the symbol universe against a
// distance-from-moving-average filter under bounded parallelism.
package screener

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mohamedkhairy/argus/internal/cache"
	"github.com/mohamedkhairy/argus/internal/config"
	"github.com/mohamedkhairy/argus/internal/indicator"
	"github.com/mohamedkhairy/argus/internal/marketdata"
	"github.com/mohamedkhairy/argus/internal/models"
	"github.com/mohamedkhairy/argus/pkg/logger"
)

var (
	screenerRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "argus_screener_runs_total",
			Help: "Total number of screening passes",
		},
		[]string{"status"}, // "success", "cached", "error"
	)

	screenerSymbolsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "argus_screener_symbols_total",
			Help: "Per-symbol outcomes across screening passes",
		},
		[]string{"outcome"}, // "evaluated", "skipped"
	)

	screenerDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "argus_screener_duration_seconds",
			Help:    "Screening pass duration in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)
)

// UniverseSource yields the symbols eligible for screening
type UniverseSource interface {
	ListActive(ctx context.Context) ([]models.UniverseEntry, error)
}

// Screener runs distance-from-MA screening passes over the universe
type Screener struct {
	cfg        config.ScreenerConfig
	universe   UniverseSource
	marketData marketdata.Provider
	cache      cache.Store
	ttl        *cache.TTLPolicy
	now        func() time.Time
}

// NewScreener creates a screening pipeline
func NewScreener(cfg config.ScreenerConfig, universe UniverseSource, marketData marketdata.Provider, cacheStore cache.Store, ttl *cache.TTLPolicy) *Screener {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 10
	}
	if cfg.AtBandPercent <= 0 {
		cfg.AtBandPercent = 0.5
	}
	return &Screener{
		cfg:        cfg,
		universe:   universe,
		marketData: marketData,
		cache:      cacheStore,
		ttl:        ttl,
		now:        time.Now,
	}
}

// Screen runs one screening pass. Cached pages are served as-is with the
// cached flag set; otherwise the full universe is evaluated, filtered,
// sorted, paginated and the page cached.
func (s *Screener) Screen(ctx context.Context, req models.ScreenerRequest) (*models.ScreenerResponse, error) {
	req = s.normalize(req)
	if !req.MAWindow.Valid() {
		return nil, fmt.Errorf("%w: %s", models.ErrInvalidWindow, req.MAWindow)
	}

	key := cache.ScreenerKey(req)
	var cached models.ScreenerResponse
	if ok, err := cache.GetJSON(ctx, s.cache, key, &cached); err != nil {
		logger.Warn("Screener cache read failed", logger.ErrorField(err))
	} else if ok {
		cached.Cached = true
		screenerRunsTotal.WithLabelValues("cached").Inc()
		return &cached, nil
	}

	start := s.now()

	entries, err := s.universe.ListActive(ctx)
	if err != nil {
		screenerRunsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	if len(entries) == 0 {
		screenerRunsTotal.WithLabelValues("error").Inc()
		return nil, models.ErrEmptyUniverse
	}

	rows := s.evaluate(ctx, entries, req)

	filtered := filterRows(rows, req)
	sortRows(filtered, req.SortBy, req.SortOrder)

	total := len(filtered)
	page := paginate(filtered, req.Offset, req.Limit)

	response := &models.ScreenerResponse{
		Results:        page,
		Total:          total,
		Filters:        req,
		Cached:         false,
		CacheTimestamp: s.now().UTC().Format(time.RFC3339),
	}

	if err := cache.SetJSON(ctx, s.cache, key, response, s.ttl.Screener()); err != nil {
		logger.Warn("Screener cache write failed", logger.ErrorField(err))
	}

	duration := s.now().Sub(start)
	screenerDuration.Observe(duration.Seconds())
	screenerRunsTotal.WithLabelValues("success").Inc()

	logger.Info("Screening pass complete",
		logger.String("ma_window", string(req.MAWindow)),
		logger.Int("universe", len(entries)),
		logger.Int("matched", total),
		logger.Duration("duration", duration),
	)

	return response, nil
}

// evaluate fans out per-symbol evaluation under the concurrency ceiling.
// Symbols that cannot produce a complete row contribute nothing.
func (s *Screener) evaluate(ctx context.Context, entries []models.UniverseEntry, req models.ScreenerRequest) []models.ScreenerResult {
	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		sem  = make(chan struct{}, s.cfg.Concurrency)
		rows []models.ScreenerResult
	)

	for _, entry := range entries {
		wg.Add(1)
		sem <- struct{}{}

		go func(entry models.UniverseEntry) {
			defer wg.Done()
			defer func() { <-sem }()

			row := s.evaluateSymbol(ctx, entry, req.MAWindow)
			if row == nil {
				screenerSymbolsTotal.WithLabelValues("skipped").Inc()
				return
			}
			screenerSymbolsTotal.WithLabelValues("evaluated").Inc()

			mu.Lock()
			rows = append(rows, *row)
			mu.Unlock()
		}(entry)
	}

	wg.Wait()
	return rows
}

// evaluateSymbol builds one screener row: bars, MA distance, then quote.
// Any missing piece, the quote included, yields nil rather than an error.
func (s *Screener) evaluateSymbol(ctx context.Context, entry models.UniverseEntry, window models.MAWindow) *models.ScreenerResult {
	bars, err := s.marketData.GetBars(ctx, entry.Symbol, window.Days())
	if err != nil || len(bars) == 0 {
		return nil
	}

	series := indicator.NewSeries(bars)
	price, maValue, distancePct := indicator.MADistance(series, window)
	if price == nil || maValue == nil || distancePct == nil {
		return nil
	}

	quote, err := s.marketData.GetQuote(ctx, entry.Symbol)
	if err != nil {
		return nil
	}

	row := &models.ScreenerResult{
		Symbol:          entry.Symbol,
		Name:            entry.Name,
		Sector:          entry.Sector,
		Price:           *price,
		MarketCap:       entry.MarketCap,
		MAValue:         *maValue,
		MAWindow:        window,
		Distance:        indicator.Round2(*price - *maValue),
		DistancePercent: *distancePct,
		Position:        s.classify(*distancePct),
		Change:          quote.Change,
		ChangePercent:   quote.ChangePercent,
	}
	if quote.MarketCap != nil {
		row.MarketCap = quote.MarketCap
	}

	return row
}

// classify maps a distance percent to a qualitative position
func (s *Screener) classify(distancePct float64) models.MAPosition {
	if math.Abs(distancePct) < s.cfg.AtBandPercent {
		return models.PositionAt
	}
	if distancePct > 0 {
		return models.PositionAbove
	}
	return models.PositionBelow
}

// normalize fills defaults and clamps pagination
func (s *Screener) normalize(req models.ScreenerRequest) models.ScreenerRequest {
	defaults := models.DefaultScreenerRequest()
	if req.MAWindow == "" {
		req.MAWindow = defaults.MAWindow
	}
	if req.DistancePct <= 0 {
		req.DistancePct = defaults.DistancePct
	}
	if req.SortBy == "" {
		req.SortBy = defaults.SortBy
	}
	if req.SortOrder != models.SortAsc && req.SortOrder != models.SortDesc {
		req.SortOrder = defaults.SortOrder
	}
	if req.Limit <= 0 {
		req.Limit = s.cfg.DefaultLimit
	}
	if s.cfg.MaxLimit > 0 && req.Limit > s.cfg.MaxLimit {
		req.Limit = s.cfg.MaxLimit
	}
	if req.Offset < 0 {
		req.Offset = 0
	}
	return req
}

// filterRows keeps rows within the distance band and matching the
// above/below include flags. "At" rows count as above: the at band is a
// refinement of the above side, not a third bucket.
func filterRows(rows []models.ScreenerResult, req models.ScreenerRequest) []models.ScreenerResult {
	filtered := make([]models.ScreenerResult, 0, len(rows))
	for _, row := range rows {
		if math.Abs(row.DistancePercent) > req.DistancePct {
			continue
		}
		switch row.Position {
		case models.PositionAbove, models.PositionAt:
			if !req.IncludeAbove {
				continue
			}
		case models.PositionBelow:
			if !req.IncludeBelow {
				continue
			}
		}
		filtered = append(filtered, row)
	}
	return filtered
}

// sortRows orders rows by the requested field. Distance sorts by magnitude;
// absent market caps sort as zero.
func sortRows(rows []models.ScreenerResult, field models.SortField, order models.SortOrder) {
	less := func(i, j int) bool {
		switch field {
		case models.SortBySymbol:
			return rows[i].Symbol < rows[j].Symbol
		case models.SortByName:
			return rows[i].Name < rows[j].Name
		case models.SortByPrice:
			return rows[i].Price < rows[j].Price
		case models.SortByMarketCap:
			return marketCapOrZero(rows[i].MarketCap) < marketCapOrZero(rows[j].MarketCap)
		case models.SortByChange:
			return rows[i].ChangePercent < rows[j].ChangePercent
		default:
			return math.Abs(rows[i].DistancePercent) < math.Abs(rows[j].DistancePercent)
		}
	}

	if order == models.SortDesc {
		sort.SliceStable(rows, func(i, j int) bool { return less(j, i) })
		return
	}
	sort.SliceStable(rows, less)
}

func marketCapOrZero(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

// paginate slices one page out of the filtered rows
func paginate(rows []models.ScreenerResult, offset, limit int) []models.ScreenerResult {
	if offset >= len(rows) {
		return []models.ScreenerResult{}
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}
