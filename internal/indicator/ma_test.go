package indicator

import (
	"math"
	"testing"
	"time"

	"github.com/mohamedkhairy/argus/internal/models"
)

func barsFromCloses(closes []float64) []models.Bar {
	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, len(closes))
	for i, c := range closes {
		bars[i] = models.Bar{
			Timestamp: base.AddDate(0, 0, i),
			Open:      c,
			High:      c,
			Low:       c,
			Close:     c,
			Volume:    1000,
		}
	}
	return bars
}

func floatEquals(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

func TestSMASeriesWarmup(t *testing.T) {
	values := smaSeries([]float64{10, 20, 30, 40, 50}, 3)

	if values[0] != nil || values[1] != nil {
		t.Errorf("expected first 2 positions absent, got %v, %v", values[0], values[1])
	}

	expected := []float64{20, 30, 40}
	for i, want := range expected {
		got := values[i+2]
		if got == nil {
			t.Fatalf("expected value at position %d, got absent", i+2)
		}
		if *got != want {
			t.Errorf("position %d: expected %v, got %v", i+2, want, *got)
		}
	}
}

func TestSMASeriesInsufficientHistory(t *testing.T) {
	values := smaSeries([]float64{10, 20}, 3)
	for i, v := range values {
		if v != nil {
			t.Errorf("position %d: expected absent, got %v", i, *v)
		}
	}
}

func TestEMASeriesSeededAtFirstClose(t *testing.T) {
	values := emaSeries([]float64{10, 20, 30, 40, 50}, 3)

	// multiplier 2/(3+1) = 0.5
	expected := []float64{10, 15, 22.5, 31.25, 40.625}
	for i, want := range expected {
		if !floatEquals(values[i], want, 1e-9) {
			t.Errorf("position %d: expected %v, got %v", i, want, values[i])
		}
	}
}

func TestEMASeriesMaskedWarmup(t *testing.T) {
	values := emaSeriesMasked([]float64{10, 20, 30, 40, 50}, 3)

	if values[0] != nil || values[1] != nil {
		t.Error("expected warm-up positions absent")
	}
	if values[2] == nil || !floatEquals(*values[2], 22.5, 1e-9) {
		t.Errorf("expected 22.5 at position 2, got %v", values[2])
	}
}

func TestCalculateMAInsufficientHistory(t *testing.T) {
	s := NewSeries(barsFromCloses([]float64{10, 20}))
	result := CalculateMA(s, 3, models.MATypeSMA)

	if len(result.Values) != 0 {
		t.Errorf("expected empty value series, got %d values", len(result.Values))
	}
	if result.CurrentValue != nil {
		t.Errorf("expected absent current value, got %v", *result.CurrentValue)
	}
	if result.DistancePercent != nil {
		t.Errorf("expected absent distance, got %v", *result.DistancePercent)
	}
}

func TestCalculateMADistancePercent(t *testing.T) {
	s := NewSeries(barsFromCloses([]float64{10, 20}))
	result := CalculateMA(s, 2, models.MATypeSMA)

	if result.CurrentValue == nil || *result.CurrentValue != 15 {
		t.Fatalf("expected current MA 15, got %v", result.CurrentValue)
	}
	if result.CurrentPrice == nil || *result.CurrentPrice != 20 {
		t.Fatalf("expected current price 20, got %v", result.CurrentPrice)
	}
	// (20 - 15) / 15 * 100 = 33.33...
	if result.DistancePercent == nil || *result.DistancePercent != 33.33 {
		t.Errorf("expected distance 33.33, got %v", result.DistancePercent)
	}
}

func TestCalculateMAValuesRounded(t *testing.T) {
	s := NewSeries(barsFromCloses([]float64{10.111, 10.222, 10.333}))
	result := CalculateMA(s, 3, models.MATypeSMA)

	if len(result.Values) != 3 {
		t.Fatalf("expected 3 positions, got %d", len(result.Values))
	}
	v := result.Values[2].Value
	if v == nil || *v != 10.22 {
		t.Errorf("expected rounded value 10.22, got %v", v)
	}
}

func TestMADistanceUnknownWindow(t *testing.T) {
	s := NewSeries(barsFromCloses([]float64{10, 20, 30}))
	price, ma, dist := MADistance(s, models.MAWindow("7W"))
	if price != nil || ma != nil || dist != nil {
		t.Error("expected all absent for unknown window")
	}
}
