package signal

import (
	"context"
	"testing"
	"time"

	"github.com/mohamedkhairy/argus/internal/marketdata"
	"github.com/mohamedkhairy/argus/internal/models"
	"github.com/mohamedkhairy/argus/internal/storage"
)

func newSweepFixture(t *testing.T, symbols ...string) (*Sweeper, *storage.MockSignalStore, *marketdata.MockProvider) {
	t.Helper()

	universeStore := storage.NewMockUniverseStore()
	for _, symbol := range symbols {
		if err := universeStore.Upsert(context.Background(), models.UniverseEntry{Symbol: symbol, Name: symbol}); err != nil {
			t.Fatalf("seed universe: %v", err)
		}
	}

	signalStore := storage.NewMockSignalStore()
	provider := marketdata.NewMockProvider()
	sweeper := NewSweeper(
		testDetector(),
		NewAcceptor(signalStore, 24*time.Hour),
		universeStore,
		provider,
		5,
	)
	return sweeper, signalStore, provider
}

// jumpBars yields a flat history with a final jump: fires the 20W crossover,
// the RSI overbought crossing and the MACD bullish cross
func jumpBars() []models.Bar {
	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, 102)
	for i := range bars {
		price := 10.0
		if i == len(bars)-1 {
			price = 50.0
		}
		bars[i] = models.Bar{Timestamp: base.AddDate(0, 0, i), Open: price, High: price, Low: price, Close: price, Volume: 100}
	}
	return bars
}

func TestSweepDetectsAndAccepts(t *testing.T) {
	sweeper, store, provider := newSweepFixture(t, "AAA", "BBB")
	provider.SetBars("AAA", jumpBars())
	provider.SetBars("BBB", jumpBars())

	result, err := sweeper.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Scanned != 2 {
		t.Errorf("expected 2 scanned, got %d", result.Scanned)
	}
	if result.Failed != 0 {
		t.Errorf("expected 0 failed, got %d", result.Failed)
	}
	// 3 signals per symbol, quotes absent so 52-week checks are skipped
	if result.Detected != 6 || result.Accepted != 6 {
		t.Errorf("expected 6 detected and accepted, got %d/%d", result.Detected, result.Accepted)
	}
	if store.Count() != 6 {
		t.Errorf("expected 6 persisted signals, got %d", store.Count())
	}
}

func TestSweepSecondRunSuppressed(t *testing.T) {
	sweeper, store, provider := newSweepFixture(t, "AAA")
	provider.SetBars("AAA", jumpBars())

	if _, err := sweeper.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}

	result, err := sweeper.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if result.Detected != 3 {
		t.Errorf("expected 3 detected on rerun, got %d", result.Detected)
	}
	if result.Accepted != 0 || result.Suppressed != 3 {
		t.Errorf("expected all suppressed on rerun, got accepted=%d suppressed=%d", result.Accepted, result.Suppressed)
	}
	if store.Count() != 3 {
		t.Errorf("expected 3 persisted signals, got %d", store.Count())
	}
}

func TestSweepIsolatesSymbolFailures(t *testing.T) {
	// MISSING has no seeded bars: that symbol fails, the others proceed
	sweeper, store, provider := newSweepFixture(t, "AAA", "MISSING", "BBB")
	provider.SetBars("AAA", jumpBars())
	provider.SetBars("BBB", jumpBars())

	result, err := sweeper.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Failed != 1 {
		t.Errorf("expected 1 failed symbol, got %d", result.Failed)
	}
	if result.Accepted != 6 {
		t.Errorf("expected the healthy symbols to contribute 6 signals, got %d", result.Accepted)
	}
	if store.Count() != 6 {
		t.Errorf("expected 6 persisted signals, got %d", store.Count())
	}
}

func TestSweepEmptyUniverse(t *testing.T) {
	sweeper, store, _ := newSweepFixture(t)

	result, err := sweeper.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Scanned != 0 || result.Detected != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
	if store.Count() != 0 {
		t.Errorf("expected no signals, got %d", store.Count())
	}
}

func TestDetectSymbolReturnsAcceptedSignals(t *testing.T) {
	sweeper, store, provider := newSweepFixture(t, "AAA")
	provider.SetBars("AAA", jumpBars())

	signals, err := sweeper.DetectSymbol(context.Background(), "AAA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(signals) != 3 {
		t.Fatalf("expected 3 accepted signals, got %d", len(signals))
	}
	if store.Count() != 3 {
		t.Errorf("expected 3 persisted signals, got %d", store.Count())
	}

	// rerun inside the dedupe window: nothing new, no error
	signals, err = sweeper.DetectSymbol(context.Background(), "AAA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(signals) != 0 {
		t.Errorf("expected no new signals on rerun, got %d", len(signals))
	}
}

func TestDetectSymbolUnknown(t *testing.T) {
	sweeper, _, _ := newSweepFixture(t)

	if _, err := sweeper.DetectSymbol(context.Background(), "GHOST"); err == nil {
		t.Error("expected an error for a symbol without bar history")
	}
}

func TestSweepUses52WeekFromQuote(t *testing.T) {
	sweeper, _, provider := newSweepFixture(t, "AAA")
	provider.SetBars("AAA", jumpBars())
	provider.SetQuote("AAA", &models.Quote{
		Symbol:  "AAA",
		Price:   50,
		High52w: models.Float64Ptr(45),
		Low52w:  models.Float64Ptr(8),
	})

	result, err := sweeper.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// the quote adds the new-52w-high on top of the three transition signals
	if result.Detected != 4 {
		t.Errorf("expected 4 detected with a quote, got %d", result.Detected)
	}
}
