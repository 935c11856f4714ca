package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mohamedkhairy/argus/internal/models"
)

// MockSignalStore is an in-memory SignalStore for testing
type MockSignalStore struct {
	mu      sync.Mutex
	signals []*models.Signal

	InsertErr error
	FindErr   error
	ListErr   error
}

// NewMockSignalStore creates an empty in-memory signal store
func NewMockSignalStore() *MockSignalStore {
	return &MockSignalStore{}
}

// InsertSignal appends the signal to the in-memory log
func (m *MockSignalStore) InsertSignal(ctx context.Context, signal *models.Signal) error {
	if m.InsertErr != nil {
		return m.InsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *signal
	m.signals = append(m.signals, &cp)
	return nil
}

// FindSignal returns the most recent (symbol, type) event at or after since
func (m *MockSignalStore) FindSignal(ctx context.Context, symbol string, signalType models.SignalType, since time.Time) (*models.Signal, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var found *models.Signal
	for _, s := range m.signals {
		if !strings.EqualFold(s.Symbol, symbol) || s.Type != signalType {
			continue
		}
		if s.Timestamp.Before(since) {
			continue
		}
		if found == nil || s.Timestamp.After(found.Timestamp) {
			found = s
		}
	}
	if found == nil {
		return nil, nil
	}
	cp := *found
	return &cp, nil
}

// ListSignals returns matching events, newest first
func (m *MockSignalStore) ListSignals(ctx context.Context, filter models.SignalFilter) ([]*models.Signal, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*models.Signal
	for _, s := range m.signals {
		if len(filter.Types) > 0 && !containsType(filter.Types, s.Type) {
			continue
		}
		if len(filter.Symbols) > 0 && !containsSymbol(filter.Symbols, s.Symbol) {
			continue
		}
		if !filter.Since.IsZero() && s.Timestamp.Before(filter.Since) {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Count returns the number of stored signals
func (m *MockSignalStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.signals)
}

func containsType(types []models.SignalType, t models.SignalType) bool {
	for _, v := range types {
		if v == t {
			return true
		}
	}
	return false
}

func containsSymbol(symbols []string, s string) bool {
	for _, v := range symbols {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// MockUniverseStore is an in-memory UniverseStore for testing
type MockUniverseStore struct {
	mu      sync.Mutex
	entries map[string]models.UniverseEntry

	ListErr   error
	UpsertErr error
}

// NewMockUniverseStore creates an empty in-memory universe store
func NewMockUniverseStore() *MockUniverseStore {
	return &MockUniverseStore{entries: make(map[string]models.UniverseEntry)}
}

// ListActive returns active entries ordered by symbol
func (m *MockUniverseStore) ListActive(ctx context.Context) ([]models.UniverseEntry, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.UniverseEntry
	for _, e := range m.entries {
		if e.IsActive {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out, nil
}

// Upsert inserts or reactivates/updates an entry
func (m *MockUniverseStore) Upsert(ctx context.Context, entry models.UniverseEntry) error {
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	entry.Symbol = strings.ToUpper(entry.Symbol)
	entry.IsActive = true
	m.entries[entry.Symbol] = entry
	return nil
}

// Deactivate marks a symbol inactive; returns false when unknown
func (m *MockUniverseStore) Deactivate(ctx context.Context, symbol string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToUpper(symbol)
	entry, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	entry.IsActive = false
	m.entries[key] = entry
	return true, nil
}

// UpdateMarketCap sets the market cap for a symbol; returns false when unknown
func (m *MockUniverseStore) UpdateMarketCap(ctx context.Context, symbol string, marketCap int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToUpper(symbol)
	entry, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	entry.MarketCap = models.Int64Ptr(marketCap)
	m.entries[key] = entry
	return true, nil
}
