package marketdata

import (
	"context"
	"strings"
	"sync"

	"github.com/mohamedkhairy/argus/internal/models"
)

// MockProvider is an in-memory Provider for testing
type MockProvider struct {
	mu     sync.Mutex
	bars   map[string][]models.Bar
	quotes map[string]*models.Quote
	infos  map[string]*models.StockInfo

	BarsErr  error
	QuoteErr error
	InfoErr  error

	BarsCalls  int
	QuoteCalls int
}

// NewMockProvider creates an empty mock provider
func NewMockProvider() *MockProvider {
	return &MockProvider{
		bars:   make(map[string][]models.Bar),
		quotes: make(map[string]*models.Quote),
		infos:  make(map[string]*models.StockInfo),
	}
}

// SetBars seeds the bar history for a symbol
func (m *MockProvider) SetBars(symbol string, bars []models.Bar) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bars[strings.ToUpper(symbol)] = bars
}

// SetQuote seeds the quote for a symbol
func (m *MockProvider) SetQuote(symbol string, quote *models.Quote) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quotes[strings.ToUpper(symbol)] = quote
}

// SetInfo seeds the stock info for a symbol
func (m *MockProvider) SetInfo(symbol string, info *models.StockInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infos[strings.ToUpper(symbol)] = info
}

// GetBars returns the seeded bars trimmed to lookbackDays
func (m *MockProvider) GetBars(ctx context.Context, symbol string, lookbackDays int) ([]models.Bar, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BarsCalls++

	if m.BarsErr != nil {
		return nil, m.BarsErr
	}
	bars, ok := m.bars[strings.ToUpper(symbol)]
	if !ok {
		return nil, models.ErrNotFound
	}
	if lookbackDays > 0 && len(bars) > lookbackDays {
		bars = bars[len(bars)-lookbackDays:]
	}
	out := make([]models.Bar, len(bars))
	copy(out, bars)
	return out, nil
}

// GetQuote returns the seeded quote
func (m *MockProvider) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.QuoteCalls++

	if m.QuoteErr != nil {
		return nil, m.QuoteErr
	}
	quote, ok := m.quotes[strings.ToUpper(symbol)]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *quote
	return &cp, nil
}

// GetStockInfo returns the seeded info
func (m *MockProvider) GetStockInfo(ctx context.Context, symbol string) (*models.StockInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.InfoErr != nil {
		return nil, m.InfoErr
	}
	info, ok := m.infos[strings.ToUpper(symbol)]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *info
	return &cp, nil
}

// Search returns seeded infos whose symbol or name contains the query
func (m *MockProvider) Search(ctx context.Context, query string) ([]models.StockInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	q := strings.ToLower(query)
	var out []models.StockInfo
	for _, info := range m.infos {
		if strings.Contains(strings.ToLower(info.Symbol), q) ||
			strings.Contains(strings.ToLower(info.Name), q) {
			out = append(out, *info)
		}
	}
	return out, nil
}
