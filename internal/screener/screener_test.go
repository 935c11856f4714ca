package screener

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mohamedkhairy/argus/internal/cache"
	"github.com/mohamedkhairy/argus/internal/config"
	"github.com/mohamedkhairy/argus/internal/marketdata"
	"github.com/mohamedkhairy/argus/internal/models"
	"github.com/mohamedkhairy/argus/internal/storage"
)

func testConfig() config.ScreenerConfig {
	return config.ScreenerConfig{
		Concurrency:   10,
		DefaultLimit:  100,
		MaxLimit:      500,
		AtBandPercent: 0.5,
	}
}

func testTTL() *cache.TTLPolicy {
	return cache.NewTTLPolicy(config.CacheConfig{
		ScreenerTTL:        5 * time.Minute,
		OffHoursMultiplier: 12,
	})
}

// barsEndingAt yields 100 flat bars at base with the final close replaced,
// putting the last price at a known distance from the 20W moving average
func barsEndingAt(base, final float64) []models.Bar {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, 100)
	for i := range bars {
		price := base
		if i == len(bars)-1 {
			price = final
		}
		bars[i] = models.Bar{Timestamp: start.AddDate(0, 0, i), Open: price, High: price, Low: price, Close: price, Volume: 100}
	}
	return bars
}

func newScreenerFixture(t *testing.T) (*Screener, *marketdata.MockProvider, *cache.MemoryStore) {
	t.Helper()

	universeStore := storage.NewMockUniverseStore()
	for _, symbol := range []string{"AAA", "BBB", "CCC"} {
		if err := universeStore.Upsert(context.Background(), models.UniverseEntry{Symbol: symbol, Name: symbol + " Corp"}); err != nil {
			t.Fatalf("seed universe: %v", err)
		}
	}

	provider := marketdata.NewMockProvider()
	// AAA sits on its MA, BBB above, CCC below
	provider.SetBars("AAA", barsEndingAt(100, 100))
	provider.SetBars("BBB", barsEndingAt(100, 104))
	provider.SetBars("CCC", barsEndingAt(100, 97))
	provider.SetQuote("AAA", &models.Quote{Symbol: "AAA", Price: 100})
	provider.SetQuote("BBB", &models.Quote{Symbol: "BBB", Price: 104, Change: 4, ChangePercent: 4})
	provider.SetQuote("CCC", &models.Quote{Symbol: "CCC", Price: 97, Change: -3, ChangePercent: -3})

	store := cache.NewMemoryStore()
	s := NewScreener(testConfig(), universeStore, provider, store, testTTL())
	return s, provider, store
}

func TestScreenDefaultRequest(t *testing.T) {
	s, _, _ := newScreenerFixture(t)

	response, err := s.Screen(context.Background(), models.DefaultScreenerRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if response.Total != 3 {
		t.Fatalf("expected 3 rows within 5%%, got %d", response.Total)
	}
	if response.Cached {
		t.Error("expected fresh result not marked cached")
	}
	if response.CacheTimestamp == "" {
		t.Error("expected cache timestamp on a fresh result")
	}

	// distance ascending by magnitude: AAA (0), CCC (~3), BBB (~4)
	got := []string{response.Results[0].Symbol, response.Results[1].Symbol, response.Results[2].Symbol}
	want := []string{"AAA", "CCC", "BBB"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}

	if response.Results[0].Position != models.PositionAt {
		t.Errorf("expected AAA at its MA, got %s", response.Results[0].Position)
	}
	if response.Results[1].Position != models.PositionBelow {
		t.Errorf("expected CCC below, got %s", response.Results[1].Position)
	}
	if response.Results[2].Position != models.PositionAbove {
		t.Errorf("expected BBB above, got %s", response.Results[2].Position)
	}
}

func TestScreenSecondCallCached(t *testing.T) {
	s, provider, _ := newScreenerFixture(t)
	req := models.DefaultScreenerRequest()

	if _, err := s.Screen(context.Background(), req); err != nil {
		t.Fatalf("first pass: %v", err)
	}
	callsAfterFirst := provider.BarsCalls

	response, err := s.Screen(context.Background(), req)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if !response.Cached {
		t.Error("expected second identical request served from cache")
	}
	if provider.BarsCalls != callsAfterFirst {
		t.Error("expected no provider calls on a cache hit")
	}
	if response.Total != 3 {
		t.Errorf("expected cached total 3, got %d", response.Total)
	}
}

func TestScreenExcludeBelow(t *testing.T) {
	s, _, _ := newScreenerFixture(t)
	req := models.DefaultScreenerRequest()
	req.IncludeBelow = false

	response, err := s.Screen(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, row := range response.Results {
		if row.Position == models.PositionBelow {
			t.Errorf("unexpected below row %s with include_below=false", row.Symbol)
		}
	}
	if response.Total != 2 {
		t.Errorf("expected 2 rows, got %d", response.Total)
	}
}

func TestScreenExcludeAboveDropsAtRows(t *testing.T) {
	s, _, _ := newScreenerFixture(t)
	req := models.DefaultScreenerRequest()
	req.IncludeAbove = false

	response, err := s.Screen(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// AAA sits exactly on its MA: the at band is the above side, so it goes
	// with BBB when above rows are excluded
	if response.Total != 1 {
		t.Fatalf("expected only the below row, got %d rows", response.Total)
	}
	if response.Results[0].Symbol != "CCC" {
		t.Errorf("expected CCC, got %s", response.Results[0].Symbol)
	}
}

func TestScreenDistanceBand(t *testing.T) {
	s, _, _ := newScreenerFixture(t)
	req := models.DefaultScreenerRequest()
	req.DistancePct = 1.0

	response, err := s.Screen(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if response.Total != 1 || response.Results[0].Symbol != "AAA" {
		t.Errorf("expected only AAA within 1%%, got %+v", response.Results)
	}
}

func TestScreenPagination(t *testing.T) {
	s, _, _ := newScreenerFixture(t)
	req := models.DefaultScreenerRequest()
	req.Limit = 1
	req.Offset = 1

	response, err := s.Screen(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if response.Total != 3 {
		t.Errorf("expected total 3 before pagination, got %d", response.Total)
	}
	if len(response.Results) != 1 || response.Results[0].Symbol != "CCC" {
		t.Errorf("expected page [CCC], got %+v", response.Results)
	}
}

func TestScreenSortDescending(t *testing.T) {
	s, _, _ := newScreenerFixture(t)
	req := models.DefaultScreenerRequest()
	req.SortBy = models.SortBySymbol
	req.SortOrder = models.SortDesc

	response, err := s.Screen(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if response.Results[0].Symbol != "CCC" {
		t.Errorf("expected CCC first in descending symbol order, got %s", response.Results[0].Symbol)
	}
}

func TestScreenInvalidWindow(t *testing.T) {
	s, _, _ := newScreenerFixture(t)
	req := models.DefaultScreenerRequest()
	req.MAWindow = models.MAWindow("13W")

	if _, err := s.Screen(context.Background(), req); !errors.Is(err, models.ErrInvalidWindow) {
		t.Errorf("expected ErrInvalidWindow, got %v", err)
	}
}

func TestScreenEmptyUniverse(t *testing.T) {
	universeStore := storage.NewMockUniverseStore()
	s := NewScreener(testConfig(), universeStore, marketdata.NewMockProvider(), cache.NewMemoryStore(), testTTL())

	if _, err := s.Screen(context.Background(), models.DefaultScreenerRequest()); !errors.Is(err, models.ErrEmptyUniverse) {
		t.Errorf("expected ErrEmptyUniverse, got %v", err)
	}
}

func TestScreenSymbolsWithoutDataContributeNothing(t *testing.T) {
	universeStore := storage.NewMockUniverseStore()
	for _, symbol := range []string{"AAA", "GHOST"} {
		if err := universeStore.Upsert(context.Background(), models.UniverseEntry{Symbol: symbol, Name: symbol}); err != nil {
			t.Fatalf("seed universe: %v", err)
		}
	}
	provider := marketdata.NewMockProvider()
	provider.SetBars("AAA", barsEndingAt(100, 100))
	provider.SetQuote("AAA", &models.Quote{Symbol: "AAA", Price: 100})

	s := NewScreener(testConfig(), universeStore, provider, cache.NewMemoryStore(), testTTL())

	response, err := s.Screen(context.Background(), models.DefaultScreenerRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if response.Total != 1 || response.Results[0].Symbol != "AAA" {
		t.Errorf("expected only AAA, got %+v", response.Results)
	}
}

func TestScreenExcludesSymbolsWithoutQuote(t *testing.T) {
	universeStore := storage.NewMockUniverseStore()
	for _, symbol := range []string{"AAA", "NOQUOTE"} {
		if err := universeStore.Upsert(context.Background(), models.UniverseEntry{Symbol: symbol, Name: symbol}); err != nil {
			t.Fatalf("seed universe: %v", err)
		}
	}
	provider := marketdata.NewMockProvider()
	provider.SetBars("AAA", barsEndingAt(100, 100))
	provider.SetQuote("AAA", &models.Quote{Symbol: "AAA", Price: 100})
	// NOQUOTE has full bar history but no quote: the row is incomplete
	provider.SetBars("NOQUOTE", barsEndingAt(100, 102))

	s := NewScreener(testConfig(), universeStore, provider, cache.NewMemoryStore(), testTTL())

	response, err := s.Screen(context.Background(), models.DefaultScreenerRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if response.Total != 1 || response.Results[0].Symbol != "AAA" {
		t.Errorf("expected only AAA, got %+v", response.Results)
	}
}
