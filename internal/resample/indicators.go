package resample

import (
	"github.com/mohamedkhairy/argus/internal/models"
)

// SliceIndicators trims every value series in the payload to the trailing n
// positions. Bars and indicator series keyed off the same requested window
// must always be sliced together — callers pair this with SliceTail on the
// raw bars, never one without the other.
func SliceIndicators(data models.IndicatorData, n int) models.IndicatorData {
	if n <= 0 {
		return data
	}

	data.MA20W = sliceMA(data.MA20W, n)
	data.MA50W = sliceMA(data.MA50W, n)
	data.MA100W = sliceMA(data.MA100W, n)
	data.MA200W = sliceMA(data.MA200W, n)

	if data.RSI != nil {
		rsi := *data.RSI
		rsi.Values = sliceSeriesTail(rsi.Values, n)
		data.RSI = &rsi
	}
	if data.MACD != nil {
		macd := *data.MACD
		macd.MACDLine = sliceSeriesTail(macd.MACDLine, n)
		macd.SignalLine = sliceSeriesTail(macd.SignalLine, n)
		macd.Histogram = sliceSeriesTail(macd.Histogram, n)
		data.MACD = &macd
	}

	return data
}

// AlignIndicators re-aligns every value series in the payload onto the weekly
// bars, preserving positional correspondence between weekly OHLC and weekly
// indicator arrays.
func AlignIndicators(data models.IndicatorData, weekly []models.Bar) models.IndicatorData {
	data.MA20W = alignMA(data.MA20W, weekly)
	data.MA50W = alignMA(data.MA50W, weekly)
	data.MA100W = alignMA(data.MA100W, weekly)
	data.MA200W = alignMA(data.MA200W, weekly)

	if data.RSI != nil {
		rsi := *data.RSI
		rsi.Values = AlignSeries(rsi.Values, weekly)
		data.RSI = &rsi
	}
	if data.MACD != nil {
		macd := *data.MACD
		macd.MACDLine = AlignSeries(macd.MACDLine, weekly)
		macd.SignalLine = AlignSeries(macd.SignalLine, weekly)
		macd.Histogram = AlignSeries(macd.Histogram, weekly)
		data.MACD = &macd
	}

	return data
}

func sliceMA(ma *models.MovingAverageResult, n int) *models.MovingAverageResult {
	if ma == nil {
		return nil
	}
	sliced := *ma
	sliced.Values = sliceSeriesTail(sliced.Values, n)
	return &sliced
}

func alignMA(ma *models.MovingAverageResult, weekly []models.Bar) *models.MovingAverageResult {
	if ma == nil {
		return nil
	}
	aligned := *ma
	aligned.Values = AlignSeries(aligned.Values, weekly)
	return &aligned
}
