package signal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mohamedkhairy/argus/internal/models"
	"github.com/mohamedkhairy/argus/internal/storage"
)

func testCandidate() models.SignalCandidate {
	return models.SignalCandidate{
		Symbol: "AAPL",
		Type:   models.SignalRSIOversold,
		Price:  123.45,
		Details: map[string]interface{}{
			"rsi_value": 28.5,
			"threshold": 30.0,
		},
	}
}

func TestAcceptorFirstEmissionAccepted(t *testing.T) {
	store := storage.NewMockSignalStore()
	acceptor := NewAcceptor(store, 24*time.Hour)

	signal, accepted, err := acceptor.Accept(context.Background(), testCandidate())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !accepted {
		t.Fatal("expected first emission accepted")
	}
	if signal.ID == "" {
		t.Error("expected generated signal ID")
	}
	if signal.Symbol != "AAPL" || signal.Type != models.SignalRSIOversold {
		t.Errorf("unexpected signal identity: %s/%s", signal.Symbol, signal.Type)
	}
	if store.Count() != 1 {
		t.Errorf("expected 1 persisted signal, got %d", store.Count())
	}
}

func TestAcceptorDuplicateWithinWindowSuppressed(t *testing.T) {
	store := storage.NewMockSignalStore()
	now := time.Date(2024, 3, 5, 15, 0, 0, 0, time.UTC)
	acceptor := NewAcceptorWithClock(store, 24*time.Hour, func() time.Time { return now })

	if _, accepted, _ := acceptor.Accept(context.Background(), testCandidate()); !accepted {
		t.Fatal("expected first emission accepted")
	}

	now = now.Add(6 * time.Hour)
	signal, accepted, err := acceptor.Accept(context.Background(), testCandidate())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if accepted || signal != nil {
		t.Error("expected duplicate within the window suppressed")
	}
	if store.Count() != 1 {
		t.Errorf("expected 1 persisted signal, got %d", store.Count())
	}
}

func TestAcceptorAcceptsAgainAfterWindow(t *testing.T) {
	store := storage.NewMockSignalStore()
	now := time.Date(2024, 3, 5, 15, 0, 0, 0, time.UTC)
	acceptor := NewAcceptorWithClock(store, 24*time.Hour, func() time.Time { return now })

	if _, accepted, _ := acceptor.Accept(context.Background(), testCandidate()); !accepted {
		t.Fatal("expected first emission accepted")
	}

	now = now.Add(25 * time.Hour)
	_, accepted, err := acceptor.Accept(context.Background(), testCandidate())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !accepted {
		t.Error("expected acceptance after the window elapsed")
	}
	if store.Count() != 2 {
		t.Errorf("expected 2 persisted signals, got %d", store.Count())
	}
}

func TestAcceptorDistinctTypesIndependent(t *testing.T) {
	store := storage.NewMockSignalStore()
	acceptor := NewAcceptor(store, 24*time.Hour)

	first := testCandidate()
	second := testCandidate()
	second.Type = models.SignalMACDBullishCross

	if _, accepted, _ := acceptor.Accept(context.Background(), first); !accepted {
		t.Fatal("expected first type accepted")
	}
	if _, accepted, _ := acceptor.Accept(context.Background(), second); !accepted {
		t.Error("expected a different type accepted within the window")
	}
}

func TestAcceptorPropagatesStorageFailure(t *testing.T) {
	store := storage.NewMockSignalStore()
	store.FindErr = errors.New("connection refused")
	acceptor := NewAcceptor(store, 24*time.Hour)

	_, accepted, err := acceptor.Accept(context.Background(), testCandidate())
	if err == nil {
		t.Fatal("expected storage failure to propagate")
	}
	if accepted {
		t.Error("expected not accepted on storage failure")
	}
}
