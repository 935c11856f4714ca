package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	value, ok, err := store.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if value != "v" {
		t.Errorf("expected v, got %s", value)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2024, 1, 9, 15, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	if err := store.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	now = now.Add(2 * time.Minute)
	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Error("expected expired entry to miss")
	}
	if store.Len() != 0 {
		t.Errorf("expected expired entry evicted, got %d entries", store.Len())
	}
}

func TestMemoryStoreDeleteByPrefix(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.Set(ctx, "argus:quote:AAPL", "1", 0)
	store.Set(ctx, "argus:quote:MSFT", "2", 0)
	store.Set(ctx, "argus:universe", "3", 0)

	if err := store.DeleteByPrefix(ctx, "argus:quote:"); err != nil {
		t.Fatalf("delete by prefix: %v", err)
	}

	if _, ok, _ := store.Get(ctx, "argus:quote:AAPL"); ok {
		t.Error("expected prefixed key removed")
	}
	if _, ok, _ := store.Get(ctx, "argus:universe"); !ok {
		t.Error("expected unrelated key kept")
	}
}

func TestGetSetJSON(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	if err := SetJSON(ctx, store, "k", payload{Name: "x", Count: 3}, time.Minute); err != nil {
		t.Fatalf("set json: %v", err)
	}

	var got payload
	ok, err := GetJSON(ctx, store, "k", &got)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if got.Name != "x" || got.Count != 3 {
		t.Errorf("unexpected payload %+v", got)
	}

	ok, err = GetJSON(ctx, store, "missing", &got)
	if err != nil || ok {
		t.Errorf("expected clean miss, got ok=%v err=%v", ok, err)
	}
}
