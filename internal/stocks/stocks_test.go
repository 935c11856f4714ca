package stocks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mohamedkhairy/argus/internal/cache"
	"github.com/mohamedkhairy/argus/internal/config"
	"github.com/mohamedkhairy/argus/internal/indicator"
	"github.com/mohamedkhairy/argus/internal/marketdata"
	"github.com/mohamedkhairy/argus/internal/models"
)

func newFixture(t *testing.T) (*Service, *marketdata.MockProvider) {
	t.Helper()

	provider := marketdata.NewMockProvider()
	ttl := cache.NewTTLPolicy(config.CacheConfig{
		QuoteTTL:           5 * time.Minute,
		IndicatorsTTL:      5 * time.Minute,
		ChartTTL:           5 * time.Minute,
		OffHoursMultiplier: 12,
	})
	return NewService(provider, cache.NewMemoryStore(), ttl), provider
}

// twoWeekBars spans two ISO weeks of trading days
func twoWeekBars() []models.Bar {
	days := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC),
	}
	bars := make([]models.Bar, len(days))
	for i, day := range days {
		price := 100 + float64(i)
		bars[i] = models.Bar{Timestamp: day, Open: price, High: price + 1, Low: price - 1, Close: price, Volume: 100}
	}
	return bars
}

func TestGetQuoteCached(t *testing.T) {
	service, provider := newFixture(t)
	provider.SetQuote("AAPL", &models.Quote{Symbol: "AAPL", Price: 190})
	ctx := context.Background()

	first, err := service.GetQuote(ctx, "aapl")
	if err != nil {
		t.Fatalf("first get: %v", err)
	}
	if first.Price != 190 {
		t.Errorf("expected price 190, got %v", first.Price)
	}

	if _, err := service.GetQuote(ctx, "AAPL"); err != nil {
		t.Fatalf("second get: %v", err)
	}
	if provider.QuoteCalls != 1 {
		t.Errorf("expected 1 provider call, got %d", provider.QuoteCalls)
	}
}

func TestGetQuoteUnknownSymbol(t *testing.T) {
	service, _ := newFixture(t)
	if _, err := service.GetQuote(context.Background(), "GHOST"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetQuoteEmptySymbol(t *testing.T) {
	service, _ := newFixture(t)
	if _, err := service.GetQuote(context.Background(), "  "); !errors.Is(err, models.ErrInvalidSymbol) {
		t.Errorf("expected ErrInvalidSymbol, got %v", err)
	}
}

func TestGetChartDaily(t *testing.T) {
	service, provider := newFixture(t)
	provider.SetBars("AAPL", twoWeekBars())

	chart, err := service.GetChart(context.Background(), "AAPL", models.TimeFrameDaily, models.PeriodOneYear, indicator.AllOptions())
	if err != nil {
		t.Fatalf("get chart: %v", err)
	}

	if chart.TimeFrame != models.TimeFrameDaily {
		t.Errorf("expected daily timeframe, got %s", chart.TimeFrame)
	}
	if len(chart.OHLCV) != 10 {
		t.Errorf("expected 10 daily bars, got %d", len(chart.OHLCV))
	}
	if chart.Indicators.RSI == nil {
		t.Fatal("expected RSI section")
	}
}

func TestGetChartWeeklyResamples(t *testing.T) {
	service, provider := newFixture(t)
	provider.SetBars("AAPL", twoWeekBars())

	chart, err := service.GetChart(context.Background(), "AAPL", models.TimeFrameWeekly, models.PeriodOneYear, indicator.AllOptions())
	if err != nil {
		t.Fatalf("get chart: %v", err)
	}

	if len(chart.OHLCV) != 2 {
		t.Fatalf("expected 2 weekly bars from 10 daily, got %d", len(chart.OHLCV))
	}
	// every aligned series carries exactly one point per weekly bar
	if got := len(chart.Indicators.MA20W.Values); got != 2 {
		t.Errorf("expected 2 aligned MA positions, got %d", got)
	}
	if got := len(chart.Indicators.RSI.Values); got != 2 {
		t.Errorf("expected 2 aligned RSI positions, got %d", got)
	}
	// 10 bars cannot warm a 100-day window: positions exist but are absent
	for i, point := range chart.Indicators.MA20W.Values {
		if point.Value != nil {
			t.Errorf("position %d: expected absent MA value, got %v", i, *point.Value)
		}
	}
}

func TestGetChartInvalidPeriod(t *testing.T) {
	service, _ := newFixture(t)
	_, err := service.GetChart(context.Background(), "AAPL", models.TimeFrameDaily, models.Period("9Y"), indicator.AllOptions())
	if !errors.Is(err, models.ErrInvalidPeriod) {
		t.Errorf("expected ErrInvalidPeriod, got %v", err)
	}
}

func TestGetIndicatorsCached(t *testing.T) {
	service, provider := newFixture(t)
	provider.SetBars("AAPL", twoWeekBars())
	ctx := context.Background()

	data, err := service.GetIndicators(ctx, "AAPL", indicator.AllOptions())
	if err != nil {
		t.Fatalf("first get: %v", err)
	}
	if data.Symbol != "AAPL" {
		t.Errorf("expected symbol AAPL, got %s", data.Symbol)
	}

	if _, err := service.GetIndicators(ctx, "AAPL", indicator.AllOptions()); err != nil {
		t.Fatalf("second get: %v", err)
	}
	if provider.BarsCalls != 1 {
		t.Errorf("expected 1 provider call, got %d", provider.BarsCalls)
	}
}

func TestDailyBarsSharedAcrossReads(t *testing.T) {
	service, provider := newFixture(t)
	provider.SetBars("AAPL", twoWeekBars())
	ctx := context.Background()

	if _, err := service.GetChart(ctx, "AAPL", models.TimeFrameDaily, models.PeriodOneYear, indicator.AllOptions()); err != nil {
		t.Fatalf("get chart: %v", err)
	}
	if _, err := service.GetIndicators(ctx, "AAPL", indicator.AllOptions()); err != nil {
		t.Fatalf("get indicators: %v", err)
	}

	// both reads draw from the same cached daily history
	if provider.BarsCalls != 1 {
		t.Errorf("expected 1 provider call across chart and indicators, got %d", provider.BarsCalls)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	service, _ := newFixture(t)
	results, err := service.Search(context.Background(), "   ")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected empty results, got %d", len(results))
	}
}

func TestSearchMatches(t *testing.T) {
	service, provider := newFixture(t)
	provider.SetInfo("AAPL", &models.StockInfo{Symbol: "AAPL", Name: "Apple Inc."})

	results, err := service.Search(context.Background(), "apple")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 || results[0].Symbol != "AAPL" {
		t.Errorf("expected AAPL, got %+v", results)
	}
}
