package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/mohamedkhairy/argus/internal/config"
	"github.com/mohamedkhairy/argus/internal/models"
	"github.com/mohamedkhairy/argus/pkg/logger"
)

// YahooProvider implements Provider against the Yahoo Finance public API
type YahooProvider struct {
	baseURL string
	client  *http.Client
}

// NewYahooProvider creates a Yahoo Finance provider
func NewYahooProvider(cfg config.MarketDataConfig) *YahooProvider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://query1.finance.yahoo.com"
	}
	return &YahooProvider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// yahooChart is the response structure of the Yahoo chart API
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency           string  `json:"currency"`
				Symbol             string  `json:"symbol"`
				ExchangeName       string  `json:"exchangeName"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				ChartPreviousClose float64 `json:"chartPreviousClose"`
				FiftyTwoWeekHigh   float64 `json:"fiftyTwoWeekHigh"`
				FiftyTwoWeekLow    float64 `json:"fiftyTwoWeekLow"`
				RegularMarketVolume int64  `json:"regularMarketVolume"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// yahooSearch is the response structure of the Yahoo search API
type yahooSearch struct {
	Quotes []struct {
		Symbol    string `json:"symbol"`
		ShortName string `json:"shortname"`
		LongName  string `json:"longname"`
		Exchange  string `json:"exchange"`
		Sector    string `json:"sector"`
		Industry  string `json:"industry"`
		QuoteType string `json:"quoteType"`
	} `json:"quotes"`
}

// GetBars fetches daily bars via the chart API. Null bars (holidays) are
// dropped; the result is sorted ascending and trimmed to lookbackDays.
func (p *YahooProvider) GetBars(ctx context.Context, symbol string, lookbackDays int) ([]models.Bar, error) {
	chart, err := p.fetchChart(ctx, symbol, "1d", rangeForDays(lookbackDays))
	if err != nil {
		return nil, err
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w: no quote data for %s", models.ErrNotFound, symbol)
	}
	quote := result.Indicators.Quote[0]

	bars := make([]models.Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		bar := models.Bar{
			Timestamp: time.Unix(ts, 0).UTC(),
			Close:     *quote.Close[i],
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			bar.Open = *quote.Open[i]
		}
		if i < len(quote.High) && quote.High[i] != nil {
			bar.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			bar.Low = *quote.Low[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			bar.Volume = *quote.Volume[i]
		}
		bars = append(bars, bar)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Timestamp.Before(bars[j].Timestamp) })

	if lookbackDays > 0 && len(bars) > lookbackDays {
		bars = bars[len(bars)-lookbackDays:]
	}
	return bars, nil
}

// GetQuote builds a quote from the chart API metadata
func (p *YahooProvider) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	chart, err := p.fetchChart(ctx, symbol, "1d", "5d")
	if err != nil {
		return nil, err
	}

	meta := chart.Chart.Result[0].Meta
	quote := &models.Quote{
		Symbol:    strings.ToUpper(symbol),
		Price:     meta.RegularMarketPrice,
		Volume:    meta.RegularMarketVolume,
		UpdatedAt: time.Now().UTC(),
	}
	if meta.ChartPreviousClose > 0 {
		quote.Change = meta.RegularMarketPrice - meta.ChartPreviousClose
		quote.ChangePercent = quote.Change / meta.ChartPreviousClose * 100
	}
	if meta.FiftyTwoWeekHigh > 0 {
		quote.High52w = models.Float64Ptr(meta.FiftyTwoWeekHigh)
	}
	if meta.FiftyTwoWeekLow > 0 {
		quote.Low52w = models.Float64Ptr(meta.FiftyTwoWeekLow)
	}
	return quote, nil
}

// GetStockInfo resolves listing details via the search API plus chart metadata
func (p *YahooProvider) GetStockInfo(ctx context.Context, symbol string) (*models.StockInfo, error) {
	matches, err := p.Search(ctx, symbol)
	if err != nil {
		return nil, err
	}
	for i := range matches {
		if strings.EqualFold(matches[i].Symbol, symbol) {
			return &matches[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", models.ErrNotFound, symbol)
}

// Search queries the Yahoo symbol search endpoint
func (p *YahooProvider) Search(ctx context.Context, query string) ([]models.StockInfo, error) {
	u := fmt.Sprintf("%s/v1/finance/search?q=%s&quotesCount=10&newsCount=0", p.baseURL, url.QueryEscape(query))

	body, err := p.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var search yahooSearch
	if err := json.Unmarshal(body, &search); err != nil {
		return nil, fmt.Errorf("%w: decode search response: %v", models.ErrMarketDataUnavailable, err)
	}

	var infos []models.StockInfo
	for _, q := range search.Quotes {
		if q.QuoteType != "" && q.QuoteType != "EQUITY" && q.QuoteType != "ETF" {
			continue
		}
		name := q.LongName
		if name == "" {
			name = q.ShortName
		}
		infos = append(infos, models.StockInfo{
			Symbol:   strings.ToUpper(q.Symbol),
			Name:     name,
			Sector:   q.Sector,
			Industry: q.Industry,
			Exchange: q.Exchange,
			Currency: "USD",
		})
	}
	return infos, nil
}

func (p *YahooProvider) fetchChart(ctx context.Context, symbol, interval, rng string) (*yahooChart, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		p.baseURL, url.PathEscape(strings.ToUpper(symbol)), interval, rng)

	body, err := p.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("%w: decode chart response: %v", models.ErrMarketDataUnavailable, err)
	}
	if chart.Chart.Error != nil {
		if chart.Chart.Error.Code == "Not Found" {
			return nil, fmt.Errorf("%w: %s", models.ErrNotFound, symbol)
		}
		return nil, fmt.Errorf("%w: %s", models.ErrMarketDataUnavailable, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w: %s", models.ErrNotFound, symbol)
	}
	return &chart, nil
}

func (p *YahooProvider) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", models.ErrMarketDataUnavailable, err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := p.client.Do(req)
	if err != nil {
		logger.Warn("Market data request failed", logger.String("url", u), logger.ErrorField(err))
		return nil, fmt.Errorf("%w: %v", models.ErrMarketDataUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", models.ErrMarketDataUnavailable, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: status 404", models.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", models.ErrMarketDataUnavailable, resp.StatusCode)
	}
	return body, nil
}

// rangeForDays maps a trailing day count onto a Yahoo chart range token
func rangeForDays(days int) string {
	switch {
	case days <= 0:
		return "1y"
	case days <= 30:
		return "1mo"
	case days <= 90:
		return "3mo"
	case days <= 180:
		return "6mo"
	case days <= 365:
		return "1y"
	case days <= 730:
		return "2y"
	case days <= 1825:
		return "5y"
	default:
		return "10y"
	}
}
