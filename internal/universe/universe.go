// Package universe manages the set of symbols eligible for screening and
// signal detection. The durable store is authoritative; the cache holds a
// read-through copy of the active list.
package universe

import (
	"context"
	"strings"

	"github.com/mohamedkhairy/argus/internal/cache"
	"github.com/mohamedkhairy/argus/internal/marketdata"
	"github.com/mohamedkhairy/argus/internal/models"
	"github.com/mohamedkhairy/argus/internal/storage"
	"github.com/mohamedkhairy/argus/pkg/logger"
)

// defaultSymbols seeds an empty universe with a large-cap starter set
var defaultSymbols = []models.UniverseEntry{
	{Symbol: "AAPL", Name: "Apple Inc.", Sector: "Technology", Exchange: "NASDAQ"},
	{Symbol: "MSFT", Name: "Microsoft Corporation", Sector: "Technology", Exchange: "NASDAQ"},
	{Symbol: "GOOGL", Name: "Alphabet Inc.", Sector: "Communication Services", Exchange: "NASDAQ"},
	{Symbol: "AMZN", Name: "Amazon.com, Inc.", Sector: "Consumer Cyclical", Exchange: "NASDAQ"},
	{Symbol: "NVDA", Name: "NVIDIA Corporation", Sector: "Technology", Exchange: "NASDAQ"},
	{Symbol: "META", Name: "Meta Platforms, Inc.", Sector: "Communication Services", Exchange: "NASDAQ"},
	{Symbol: "TSLA", Name: "Tesla, Inc.", Sector: "Consumer Cyclical", Exchange: "NASDAQ"},
	{Symbol: "BRK-B", Name: "Berkshire Hathaway Inc.", Sector: "Financial Services", Exchange: "NYSE"},
	{Symbol: "JPM", Name: "JPMorgan Chase & Co.", Sector: "Financial Services", Exchange: "NYSE"},
	{Symbol: "V", Name: "Visa Inc.", Sector: "Financial Services", Exchange: "NYSE"},
	{Symbol: "JNJ", Name: "Johnson & Johnson", Sector: "Healthcare", Exchange: "NYSE"},
	{Symbol: "WMT", Name: "Walmart Inc.", Sector: "Consumer Defensive", Exchange: "NYSE"},
	{Symbol: "UNH", Name: "UnitedHealth Group Incorporated", Sector: "Healthcare", Exchange: "NYSE"},
	{Symbol: "XOM", Name: "Exxon Mobil Corporation", Sector: "Energy", Exchange: "NYSE"},
	{Symbol: "PG", Name: "The Procter & Gamble Company", Sector: "Consumer Defensive", Exchange: "NYSE"},
	{Symbol: "HD", Name: "The Home Depot, Inc.", Sector: "Consumer Cyclical", Exchange: "NYSE"},
	{Symbol: "MA", Name: "Mastercard Incorporated", Sector: "Financial Services", Exchange: "NYSE"},
	{Symbol: "KO", Name: "The Coca-Cola Company", Sector: "Consumer Defensive", Exchange: "NYSE"},
	{Symbol: "PEP", Name: "PepsiCo, Inc.", Sector: "Consumer Defensive", Exchange: "NASDAQ"},
	{Symbol: "COST", Name: "Costco Wholesale Corporation", Sector: "Consumer Defensive", Exchange: "NASDAQ"},
}

// Service provides cached access to the symbol universe
type Service struct {
	store    storage.UniverseStore
	cache    cache.Store
	ttl      *cache.TTLPolicy
	provider marketdata.Provider
}

// NewService creates a universe service
func NewService(store storage.UniverseStore, cacheStore cache.Store, ttl *cache.TTLPolicy, provider marketdata.Provider) *Service {
	return &Service{store: store, cache: cacheStore, ttl: ttl, provider: provider}
}

// ListActive returns the active universe, served from cache when possible.
// Cache failures degrade to a direct store read.
func (s *Service) ListActive(ctx context.Context) ([]models.UniverseEntry, error) {
	key := cache.UniverseKey()

	var cached []models.UniverseEntry
	if ok, err := cache.GetJSON(ctx, s.cache, key, &cached); err != nil {
		logger.Warn("Universe cache read failed", logger.ErrorField(err))
	} else if ok {
		return cached, nil
	}

	entries, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	if err := cache.SetJSON(ctx, s.cache, key, entries, s.ttl.Universe()); err != nil {
		logger.Warn("Universe cache write failed", logger.ErrorField(err))
	}
	return entries, nil
}

// Initialize seeds the default universe when the store is empty
func (s *Service) Initialize(ctx context.Context) error {
	entries, err := s.store.ListActive(ctx)
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		return nil
	}

	logger.Info("Seeding default universe", logger.Int("symbols", len(defaultSymbols)))
	for _, entry := range defaultSymbols {
		if err := s.store.Upsert(ctx, entry); err != nil {
			return err
		}
	}
	return s.invalidate(ctx)
}

// Add upserts a symbol into the universe, resolving listing details from the
// market data provider when the entry carries no name
func (s *Service) Add(ctx context.Context, entry models.UniverseEntry) error {
	entry.Symbol = strings.ToUpper(strings.TrimSpace(entry.Symbol))
	if entry.Symbol == "" {
		return models.ErrInvalidSymbol
	}

	if entry.Name == "" && s.provider != nil {
		if info, err := s.provider.GetStockInfo(ctx, entry.Symbol); err == nil {
			entry.Name = info.Name
			if entry.Sector == "" {
				entry.Sector = info.Sector
			}
			if entry.Exchange == "" {
				entry.Exchange = info.Exchange
			}
			if entry.MarketCap == nil {
				entry.MarketCap = info.MarketCap
			}
		}
	}

	if err := s.store.Upsert(ctx, entry); err != nil {
		return err
	}
	return s.invalidate(ctx)
}

// Remove deactivates a symbol; returns false when unknown
func (s *Service) Remove(ctx context.Context, symbol string) (bool, error) {
	ok, err := s.store.Deactivate(ctx, symbol)
	if err != nil {
		return false, err
	}
	if ok {
		if err := s.invalidate(ctx); err != nil {
			return true, err
		}
	}
	return ok, nil
}

// UpdateMarketCaps refreshes the market cap of every active symbol from
// current quotes. Per-symbol failures are logged and skipped.
func (s *Service) UpdateMarketCaps(ctx context.Context) (int, error) {
	entries, err := s.store.ListActive(ctx)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, entry := range entries {
		quote, err := s.provider.GetQuote(ctx, entry.Symbol)
		if err != nil || quote.MarketCap == nil {
			continue
		}
		ok, err := s.store.UpdateMarketCap(ctx, entry.Symbol, *quote.MarketCap)
		if err != nil {
			logger.Warn("Market cap update failed",
				logger.String("symbol", entry.Symbol),
				logger.ErrorField(err),
			)
			continue
		}
		if ok {
			updated++
		}
	}

	if updated > 0 {
		if err := s.invalidate(ctx); err != nil {
			return updated, err
		}
	}
	return updated, nil
}

// invalidate drops the cached universe list
func (s *Service) invalidate(ctx context.Context) error {
	if err := s.cache.Delete(ctx, cache.UniverseKey()); err != nil {
		logger.Warn("Universe cache invalidation failed", logger.ErrorField(err))
	}
	return nil
}
