package indicator

// macdSeries computes the MACD line, signal line and histogram.
// MACD line = EMA(fast) - EMA(slow); signal = EMA(signalPeriod) of the MACD
// line; histogram = MACD line - signal line. The component EMAs are seeded at
// the first observation, so every position carries a value; callers gate on
// the minimum-bars requirement before trusting the early positions.
func macdSeries(closes []float64, fastPeriod, slowPeriod, signalPeriod int) (line, signal, histogram []float64) {
	fast := emaSeries(closes, fastPeriod)
	slow := emaSeries(closes, slowPeriod)

	line = make([]float64, len(closes))
	for i := range closes {
		line[i] = fast[i] - slow[i]
	}

	signal = emaSeries(line, signalPeriod)

	histogram = make([]float64, len(closes))
	for i := range closes {
		histogram[i] = line[i] - signal[i]
	}

	return line, signal, histogram
}
