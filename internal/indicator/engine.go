package indicator

import (
	"github.com/mohamedkhairy/argus/internal/models"
)

// Default oscillator parameters
const (
	DefaultRSIPeriod   = 14
	DefaultMACDFast    = 12
	DefaultMACDSlow    = 26
	DefaultMACDSignal  = 9
	RSIOverboughtLevel = 70.0
	RSIOversoldLevel   = 30.0
)

// Options selects which indicator sections a combined calculation includes.
// Each section is computed independently; warm-up windows never leak across.
type Options struct {
	IncludeMA   bool
	IncludeRSI  bool
	IncludeMACD bool
}

// AllOptions requests every indicator section
func AllOptions() Options {
	return Options{IncludeMA: true, IncludeRSI: true, IncludeMACD: true}
}

// CalculateMA computes a moving average result for the given period.
// A series shorter than the period yields an empty value series, an absent
// current value and an absent distance.
func CalculateMA(s *Series, period int, maType models.MAType) models.MovingAverageResult {
	result := models.MovingAverageResult{
		Period: period,
		MAType: maType,
		Values: []models.TimePoint{},
	}
	if s.Len() == 0 || s.Len() < period {
		return result
	}

	closes := s.Closes()
	raw := maSeries(closes, period, maType)

	result.Values = toTimePoints(s, raw, round2)

	currentMA := raw[len(raw)-1]
	currentPrice := closes[len(closes)-1]

	result.CurrentValue = roundPtr2(currentMA)
	result.CurrentPrice = models.Float64Ptr(round2(currentPrice))

	if currentMA != nil && *currentMA != 0 {
		result.DistancePercent = models.Float64Ptr(round2((currentPrice - *currentMA) / *currentMA * 100))
	}

	return result
}

// CalculateRSI computes an RSI result. Needs period+1 closes for the first
// delta window; below that the value series is empty.
func CalculateRSI(s *Series, period int) models.RSIResult {
	result := models.RSIResult{
		Period: period,
		Values: []models.TimePoint{},
	}
	if s.Len() == 0 || s.Len() < period+1 {
		return result
	}

	raw := rsiSeries(s.Closes(), period)
	result.Values = toTimePoints(s, raw, round2)

	current := raw[len(raw)-1]
	if current != nil {
		result.CurrentValue = models.Float64Ptr(round2(*current))
		result.IsOverbought = *current > RSIOverboughtLevel
		result.IsOversold = *current < RSIOversoldLevel
	}

	return result
}

// CalculateMACD computes a MACD result. The minimum history is the slow
// period plus the signal period; below that all three series are empty.
func CalculateMACD(s *Series, fastPeriod, slowPeriod, signalPeriod int) models.MACDResult {
	result := models.MACDResult{
		FastPeriod:   fastPeriod,
		SlowPeriod:   slowPeriod,
		SignalPeriod: signalPeriod,
		MACDLine:     []models.TimePoint{},
		SignalLine:   []models.TimePoint{},
		Histogram:    []models.TimePoint{},
	}
	minBars := slowPeriod + signalPeriod
	if s.Len() == 0 || s.Len() < minBars {
		return result
	}

	line, signal, histogram := macdSeries(s.Closes(), fastPeriod, slowPeriod, signalPeriod)

	result.MACDLine = rawToTimePoints(s, line, round4)
	result.SignalLine = rawToTimePoints(s, signal, round4)
	result.Histogram = rawToTimePoints(s, histogram, round4)

	last := s.Len() - 1
	result.CurrentMACD = models.Float64Ptr(round4(line[last]))
	result.CurrentSignal = models.Float64Ptr(round4(signal[last]))
	result.CurrentHistogram = models.Float64Ptr(round4(histogram[last]))

	return result
}

// Calculate computes the requested indicator subset for a symbol.
// MA sections cover the four weekly-equivalent windows.
func Calculate(symbol string, s *Series, opts Options) models.IndicatorData {
	result := models.IndicatorData{Symbol: symbol}

	if opts.IncludeMA {
		ma20 := CalculateMA(s, models.MA20W.Days(), models.MATypeSMA)
		ma50 := CalculateMA(s, models.MA50W.Days(), models.MATypeSMA)
		ma100 := CalculateMA(s, models.MA100W.Days(), models.MATypeSMA)
		ma200 := CalculateMA(s, models.MA200W.Days(), models.MATypeSMA)
		result.MA20W = &ma20
		result.MA50W = &ma50
		result.MA100W = &ma100
		result.MA200W = &ma200
	}

	if opts.IncludeRSI {
		rsi := CalculateRSI(s, DefaultRSIPeriod)
		result.RSI = &rsi
	}

	if opts.IncludeMACD {
		macd := CalculateMACD(s, DefaultMACDFast, DefaultMACDSlow, DefaultMACDSignal)
		result.MACD = &macd
	}

	return result
}

// MADistance returns (current price, MA value, distance percent) for one
// window. All three are absent when the window is unknown or history is
// insufficient.
func MADistance(s *Series, window models.MAWindow) (price, maValue, distancePct *float64) {
	period := window.Days()
	if period == 0 || s.Len() < period {
		return nil, nil, nil
	}

	result := CalculateMA(s, period, models.MATypeSMA)
	return result.CurrentPrice, result.CurrentValue, result.DistancePercent
}

// toTimePoints pairs an absent-marked value slice with the series timestamps
func toTimePoints(s *Series, raw []*float64, round func(float64) float64) []models.TimePoint {
	points := make([]models.TimePoint, len(raw))
	for i, v := range raw {
		points[i] = models.TimePoint{Timestamp: s.Bar(i).Timestamp}
		if v != nil {
			points[i].Value = models.Float64Ptr(round(*v))
		}
	}
	return points
}

// rawToTimePoints pairs a dense value slice with the series timestamps
func rawToTimePoints(s *Series, raw []float64, round func(float64) float64) []models.TimePoint {
	points := make([]models.TimePoint, len(raw))
	for i, v := range raw {
		points[i] = models.TimePoint{
			Timestamp: s.Bar(i).Timestamp,
			Value:     models.Float64Ptr(round(v)),
		}
	}
	return points
}
