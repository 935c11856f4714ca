package indicator

import (
	"math"

	"github.com/mohamedkhairy/argus/internal/models"
)

// smaSeries computes a simple moving average over closes. Positions before a
// full window has accumulated are nil.
func smaSeries(closes []float64, period int) []*float64 {
	values := make([]*float64, len(closes))
	if period < 1 || len(closes) < period {
		return values
	}

	var sum float64
	for i, price := range closes {
		sum += price
		if i >= period {
			sum -= closes[i-period]
		}
		if i >= period-1 {
			v := sum / float64(period)
			values[i] = &v
		}
	}
	return values
}

// emaSeries computes a recursively weighted moving average with smoothing
// factor 2/(period+1), seeded at the first close.
func emaSeries(closes []float64, period int) []float64 {
	values := make([]float64, len(closes))
	if len(closes) == 0 {
		return values
	}

	multiplier := 2.0 / float64(period+1)
	values[0] = closes[0]
	for i := 1; i < len(closes); i++ {
		values[i] = (closes[i]-values[i-1])*multiplier + values[i-1]
	}
	return values
}

// emaSeriesMasked is emaSeries with the warm-up window marked absent:
// a value appears only once period observations have accumulated.
func emaSeriesMasked(closes []float64, period int) []*float64 {
	raw := emaSeries(closes, period)
	values := make([]*float64, len(closes))
	if len(closes) < period {
		return values
	}
	for i := period - 1; i < len(raw); i++ {
		v := raw[i]
		values[i] = &v
	}
	return values
}

// maSeries dispatches on the MA type
func maSeries(closes []float64, period int, maType models.MAType) []*float64 {
	if maType == models.MATypeEMA {
		return emaSeriesMasked(closes, period)
	}
	return smaSeries(closes, period)
}

// round2 rounds to 2 decimals. Rounding is a presentation concern applied at
// the engine boundary, never mid-computation.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// round4 rounds to 4 decimals
func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// roundPtr2 rounds a possibly-absent value to 2 decimals
func roundPtr2(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := round2(*v)
	return &r
}
