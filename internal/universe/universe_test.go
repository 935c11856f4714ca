package universe

import (
	"context"
	"testing"
	"time"

	"github.com/mohamedkhairy/argus/internal/cache"
	"github.com/mohamedkhairy/argus/internal/config"
	"github.com/mohamedkhairy/argus/internal/marketdata"
	"github.com/mohamedkhairy/argus/internal/models"
	"github.com/mohamedkhairy/argus/internal/storage"
)

func newFixture(t *testing.T) (*Service, *storage.MockUniverseStore, *marketdata.MockProvider) {
	t.Helper()

	store := storage.NewMockUniverseStore()
	provider := marketdata.NewMockProvider()
	ttl := cache.NewTTLPolicy(config.CacheConfig{
		UniverseTTL:        24 * time.Hour,
		OffHoursMultiplier: 12,
	})
	service := NewService(store, cache.NewMemoryStore(), ttl, provider)
	return service, store, provider
}

func TestListActiveServedFromCache(t *testing.T) {
	service, store, _ := newFixture(t)
	ctx := context.Background()

	if err := store.Upsert(ctx, models.UniverseEntry{Symbol: "AAPL", Name: "Apple"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	first, err := service.ListActive(ctx)
	if err != nil {
		t.Fatalf("first list: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(first))
	}

	// mutate the store behind the cache: the stale list keeps serving
	if err := store.Upsert(ctx, models.UniverseEntry{Symbol: "MSFT", Name: "Microsoft"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	second, err := service.ListActive(ctx)
	if err != nil {
		t.Fatalf("second list: %v", err)
	}
	if len(second) != 1 {
		t.Errorf("expected cached list of 1, got %d", len(second))
	}
}

func TestAddInvalidatesCache(t *testing.T) {
	service, store, _ := newFixture(t)
	ctx := context.Background()

	if err := store.Upsert(ctx, models.UniverseEntry{Symbol: "AAPL", Name: "Apple"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := service.ListActive(ctx); err != nil {
		t.Fatalf("warm cache: %v", err)
	}

	if err := service.Add(ctx, models.UniverseEntry{Symbol: "msft", Name: "Microsoft"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	entries, err := service.ListActive(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected fresh list of 2 after add, got %d", len(entries))
	}
}

func TestAddResolvesNameFromProvider(t *testing.T) {
	service, store, provider := newFixture(t)
	ctx := context.Background()

	provider.SetInfo("NVDA", &models.StockInfo{
		Symbol: "NVDA",
		Name:   "NVIDIA Corporation",
		Sector: "Technology",
	})

	if err := service.Add(ctx, models.UniverseEntry{Symbol: "nvda"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	entries, err := store.ListActive(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "NVIDIA Corporation" {
		t.Errorf("expected resolved name, got %+v", entries)
	}
}

func TestAddRejectsEmptySymbol(t *testing.T) {
	service, _, _ := newFixture(t)
	if err := service.Add(context.Background(), models.UniverseEntry{Symbol: "  "}); err != models.ErrInvalidSymbol {
		t.Errorf("expected ErrInvalidSymbol, got %v", err)
	}
}

func TestRemoveInvalidatesCache(t *testing.T) {
	service, store, _ := newFixture(t)
	ctx := context.Background()

	store.Upsert(ctx, models.UniverseEntry{Symbol: "AAPL", Name: "Apple"})
	store.Upsert(ctx, models.UniverseEntry{Symbol: "MSFT", Name: "Microsoft"})
	if _, err := service.ListActive(ctx); err != nil {
		t.Fatalf("warm cache: %v", err)
	}

	ok, err := service.Remove(ctx, "aapl")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !ok {
		t.Fatal("expected removal of a known symbol")
	}

	entries, _ := service.ListActive(ctx)
	if len(entries) != 1 || entries[0].Symbol != "MSFT" {
		t.Errorf("expected only MSFT after removal, got %+v", entries)
	}
}

func TestRemoveUnknownSymbol(t *testing.T) {
	service, _, _ := newFixture(t)
	ok, err := service.Remove(context.Background(), "GHOST")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if ok {
		t.Error("expected false for unknown symbol")
	}
}

func TestInitializeSeedsEmptyStore(t *testing.T) {
	service, store, _ := newFixture(t)
	ctx := context.Background()

	if err := service.Initialize(ctx); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	entries, err := store.ListActive(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != len(defaultSymbols) {
		t.Errorf("expected %d seeded entries, got %d", len(defaultSymbols), len(entries))
	}
}

func TestInitializeSkipsNonEmptyStore(t *testing.T) {
	service, store, _ := newFixture(t)
	ctx := context.Background()

	store.Upsert(ctx, models.UniverseEntry{Symbol: "AAPL", Name: "Apple"})
	if err := service.Initialize(ctx); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	entries, _ := store.ListActive(ctx)
	if len(entries) != 1 {
		t.Errorf("expected seeding skipped, got %d entries", len(entries))
	}
}

func TestUpdateMarketCaps(t *testing.T) {
	service, store, provider := newFixture(t)
	ctx := context.Background()

	store.Upsert(ctx, models.UniverseEntry{Symbol: "AAPL", Name: "Apple"})
	store.Upsert(ctx, models.UniverseEntry{Symbol: "MSFT", Name: "Microsoft"})
	provider.SetQuote("AAPL", &models.Quote{
		Symbol:    "AAPL",
		Price:     190,
		MarketCap: models.Int64Ptr(3_000_000_000_000),
	})

	updated, err := service.UpdateMarketCaps(ctx)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated != 1 {
		t.Errorf("expected 1 update, got %d", updated)
	}

	entries, _ := store.ListActive(ctx)
	for _, entry := range entries {
		if entry.Symbol == "AAPL" {
			if entry.MarketCap == nil || *entry.MarketCap != 3_000_000_000_000 {
				t.Errorf("expected market cap set, got %+v", entry.MarketCap)
			}
		}
	}
}
