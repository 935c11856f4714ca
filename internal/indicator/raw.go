package indicator

// SMASeries returns the unrounded simple moving average series aligned to the
// bar series. Positions before the warm-up window are nil.
func SMASeries(s *Series, period int) []*float64 {
	if s.Len() == 0 || s.Len() < period {
		return nil
	}
	return smaSeries(s.Closes(), period)
}

// RSISeries returns the unrounded RSI series aligned to the bar series.
// Positions before the warm-up window are nil.
func RSISeries(s *Series, period int) []*float64 {
	if s.Len() == 0 || s.Len() < period+1 {
		return nil
	}
	return rsiSeries(s.Closes(), period)
}

// MACDLines returns the unrounded MACD line and signal line aligned to the
// bar series. Both are empty when history is below the minimum.
func MACDLines(s *Series, fastPeriod, slowPeriod, signalPeriod int) (line, signal []float64) {
	if s.Len() == 0 || s.Len() < slowPeriod+signalPeriod {
		return nil, nil
	}
	line, signal, _ = macdSeries(s.Closes(), fastPeriod, slowPeriod, signalPeriod)
	return line, signal
}

// Round2 rounds to two decimals
func Round2(v float64) float64 {
	return round2(v)
}

// Round4 rounds to four decimals
func Round4(v float64) float64 {
	return round4(v)
}
