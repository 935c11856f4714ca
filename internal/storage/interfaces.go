package storage

import (
	"context"
	"time"

	"github.com/mohamedkhairy/argus/internal/models"
)

// SignalStore defines the durable store contract for signal events
type SignalStore interface {
	// InsertSignal persists an accepted signal event
	InsertSignal(ctx context.Context, signal *models.Signal) error

	// FindSignal returns the most recent event of (symbol, type) at or after
	// since, or nil when none exists
	FindSignal(ctx context.Context, symbol string, signalType models.SignalType, since time.Time) (*models.Signal, error)

	// ListSignals returns events matching the filter, newest first
	ListSignals(ctx context.Context, filter models.SignalFilter) ([]*models.Signal, error)
}

// UniverseStore defines the durable store contract for the symbol universe
type UniverseStore interface {
	// ListActive returns the active universe entries ordered by symbol
	ListActive(ctx context.Context) ([]models.UniverseEntry, error)

	// Upsert inserts or reactivates/updates a universe entry
	Upsert(ctx context.Context, entry models.UniverseEntry) error

	// Deactivate marks a symbol inactive; returns false when unknown
	Deactivate(ctx context.Context, symbol string) (bool, error)

	// UpdateMarketCap sets the market cap for a symbol; returns false when unknown
	UpdateMarketCap(ctx context.Context, symbol string, marketCap int64) (bool, error)
}
