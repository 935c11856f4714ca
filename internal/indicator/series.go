package indicator

import (
	"time"

	"github.com/mohamedkhairy/argus/internal/models"
)

// Series is an ordered, read-only view over daily bars. The engine assumes
// the bars are sorted ascending by timestamp; it never mutates them.
type Series struct {
	bars []models.Bar
}

// NewSeries wraps a sorted-ascending bar slice
func NewSeries(bars []models.Bar) *Series {
	return &Series{bars: bars}
}

// Len returns the number of bars
func (s *Series) Len() int {
	return len(s.bars)
}

// Bars returns the underlying bar slice
func (s *Series) Bars() []models.Bar {
	return s.bars
}

// Bar returns the bar at index i
func (s *Series) Bar(i int) models.Bar {
	return s.bars[i]
}

// Closes returns the close-price view of the series
func (s *Series) Closes() []float64 {
	closes := make([]float64, len(s.bars))
	for i, b := range s.bars {
		closes[i] = b.Close
	}
	return closes
}

// Timestamps returns the timestamp of every bar
func (s *Series) Timestamps() []time.Time {
	ts := make([]time.Time, len(s.bars))
	for i, b := range s.bars {
		ts[i] = b.Timestamp
	}
	return ts
}

// LastClose returns the most recent close, or false when the series is empty
func (s *Series) LastClose() (float64, bool) {
	if len(s.bars) == 0 {
		return 0, false
	}
	return s.bars[len(s.bars)-1].Close, true
}
