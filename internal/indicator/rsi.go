package indicator

// rsiSeries computes the Relative Strength Index using simple rolling means
// of gains and losses. Positions before a full delta window has accumulated
// are nil (the first delta needs two closes, so the first `period` positions
// are absent).
//
// Edge policy: a window with losses averaging exactly zero but positive gains
// saturates to 100. A flat window (no gains and no losses) is pinned to a
// neutral 50 instead of the undefined 100 a naive formula would produce.
func rsiSeries(closes []float64, period int) []*float64 {
	values := make([]*float64, len(closes))
	if period < 1 || len(closes) < period+1 {
		return values
	}

	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	for i := period; i < len(closes); i++ {
		var sumGain, sumLoss float64
		for j := i - period + 1; j <= i; j++ {
			sumGain += gains[j]
			sumLoss += losses[j]
		}
		avgGain := sumGain / float64(period)
		avgLoss := sumLoss / float64(period)

		var rsi float64
		switch {
		case avgGain == 0 && avgLoss == 0:
			rsi = 50
		case avgLoss == 0:
			rsi = 100
		default:
			rs := avgGain / avgLoss
			rsi = 100 - 100/(1+rs)
		}
		v := rsi
		values[i] = &v
	}

	return values
}
