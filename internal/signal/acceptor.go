package signal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mohamedkhairy/argus/internal/models"
	"github.com/mohamedkhairy/argus/internal/storage"
)

// Acceptor applies the deduplication policy before persisting signal events.
// A candidate matching an existing (symbol, type) event within the trailing
// dedupe window is discarded.
type Acceptor struct {
	store        storage.SignalStore
	dedupeWindow time.Duration
	now          func() time.Time
}

// NewAcceptor creates an acceptor backed by the wall clock
func NewAcceptor(store storage.SignalStore, dedupeWindow time.Duration) *Acceptor {
	return &Acceptor{store: store, dedupeWindow: dedupeWindow, now: time.Now}
}

// NewAcceptorWithClock creates an acceptor with an injected clock (tests)
func NewAcceptorWithClock(store storage.SignalStore, dedupeWindow time.Duration, now func() time.Time) *Acceptor {
	return &Acceptor{store: store, dedupeWindow: dedupeWindow, now: now}
}

// Accept persists the candidate unless a duplicate exists within the dedupe
// window. Returns the persisted event and true when accepted, nil and false
// when suppressed. Storage failures propagate.
func (a *Acceptor) Accept(ctx context.Context, candidate models.SignalCandidate) (*models.Signal, bool, error) {
	now := a.now().UTC()
	since := now.Add(-a.dedupeWindow)

	existing, err := a.store.FindSignal(ctx, candidate.Symbol, candidate.Type, since)
	if err != nil {
		return nil, false, fmt.Errorf("dedupe lookup for %s/%s: %w", candidate.Symbol, candidate.Type, err)
	}
	if existing != nil {
		return nil, false, nil
	}

	signal := &models.Signal{
		ID:        uuid.NewString(),
		Symbol:    strings.ToUpper(candidate.Symbol),
		Type:      candidate.Type,
		Timestamp: now,
		Price:     candidate.Price,
		Details:   candidate.Details,
		CreatedAt: now,
	}

	if err := a.store.InsertSignal(ctx, signal); err != nil {
		return nil, false, fmt.Errorf("persist signal %s/%s: %w", signal.Symbol, signal.Type, err)
	}

	return signal, true, nil
}
