package signal

import (
	"github.com/mohamedkhairy/argus/internal/config"
	"github.com/mohamedkhairy/argus/internal/indicator"
	"github.com/mohamedkhairy/argus/internal/models"
)

// Detector turns indicator transitions into discrete signal candidates.
// Detection is stateless per call; deduplication happens at acceptance.
type Detector struct {
	lookback         int
	near52wThreshold float64
}

// NewDetector creates a detector from signal configuration
func NewDetector(cfg config.SignalsConfig) *Detector {
	lookback := cfg.CrossoverLookback
	if lookback < 1 {
		lookback = 2
	}
	threshold := cfg.Near52wThreshold
	if threshold <= 0 {
		threshold = 5.0
	}
	return &Detector{lookback: lookback, near52wThreshold: threshold}
}

// DetectMACrossover checks the trailing lookback window for a close crossing
// the moving average of the given window. Only the first qualifying crossing
// is reported. Returns nil when history is insufficient.
func (d *Detector) DetectMACrossover(symbol string, s *indicator.Series, window models.MAWindow) *models.SignalCandidate {
	period := window.Days()
	if period == 0 || s.Len() < period+d.lookback {
		return nil
	}

	closes := s.Closes()
	ma := indicator.SMASeries(s, period)

	for i := s.Len() - d.lookback; i < s.Len(); i++ {
		prevMA, curMA := ma[i-1], ma[i]
		if prevMA == nil || curMA == nil {
			continue
		}

		if closes[i-1] <= *prevMA && closes[i] > *curMA {
			return &models.SignalCandidate{
				Symbol: symbol,
				Type:   models.SignalMACrossoverBullish,
				Price:  closes[i],
				Details: map[string]interface{}{
					"ma_window": string(window),
					"ma_period": period,
					"ma_value":  indicator.Round2(*curMA),
				},
			}
		}
		if closes[i-1] >= *prevMA && closes[i] < *curMA {
			return &models.SignalCandidate{
				Symbol: symbol,
				Type:   models.SignalMACrossoverBearish,
				Price:  closes[i],
				Details: map[string]interface{}{
					"ma_window": string(window),
					"ma_period": period,
					"ma_value":  indicator.Round2(*curMA),
				},
			}
		}
	}

	return nil
}

// DetectRSI checks for a threshold crossing of the RSI oscillator between the
// previous and current bar. When the previous value is absent it falls back
// to the current value so the first valid bar can still qualify on equality.
func (d *Detector) DetectRSI(symbol string, s *indicator.Series) *models.SignalCandidate {
	period := indicator.DefaultRSIPeriod
	if s.Len() < period+1 {
		return nil
	}

	raw := indicator.RSISeries(s, period)
	cur := raw[len(raw)-1]
	if cur == nil {
		return nil
	}
	prev := raw[len(raw)-2]
	if prev == nil {
		prev = cur
	}

	price, _ := s.LastClose()

	if *prev >= indicator.RSIOversoldLevel && *cur < indicator.RSIOversoldLevel {
		return &models.SignalCandidate{
			Symbol: symbol,
			Type:   models.SignalRSIOversold,
			Price:  price,
			Details: map[string]interface{}{
				"rsi_value": indicator.Round2(*cur),
				"threshold": indicator.RSIOversoldLevel,
			},
		}
	}
	if *prev <= indicator.RSIOverboughtLevel && *cur > indicator.RSIOverboughtLevel {
		return &models.SignalCandidate{
			Symbol: symbol,
			Type:   models.SignalRSIOverbought,
			Price:  price,
			Details: map[string]interface{}{
				"rsi_value": indicator.Round2(*cur),
				"threshold": indicator.RSIOverboughtLevel,
			},
		}
	}

	return nil
}

// DetectMACD checks for the MACD line crossing its signal line between the
// previous and current bar
func (d *Detector) DetectMACD(symbol string, s *indicator.Series) *models.SignalCandidate {
	minBars := indicator.DefaultMACDSlow + indicator.DefaultMACDSignal
	if s.Len() < minBars {
		return nil
	}

	line, signal := indicator.MACDLines(s, indicator.DefaultMACDFast, indicator.DefaultMACDSlow, indicator.DefaultMACDSignal)
	last := len(line) - 1
	if last < 1 {
		return nil
	}

	price, _ := s.LastClose()
	details := map[string]interface{}{
		"macd":   indicator.Round4(line[last]),
		"signal": indicator.Round4(signal[last]),
	}

	if line[last-1] <= signal[last-1] && line[last] > signal[last] {
		return &models.SignalCandidate{
			Symbol:  symbol,
			Type:    models.SignalMACDBullishCross,
			Price:   price,
			Details: details,
		}
	}
	if line[last-1] >= signal[last-1] && line[last] < signal[last] {
		return &models.SignalCandidate{
			Symbol:  symbol,
			Type:    models.SignalMACDBearishCross,
			Price:   price,
			Details: details,
		}
	}

	return nil
}

// Detect52Week evaluates the current price against the supplied 52-week
// extremes. The high and low checks are independent; a new extreme suppresses
// the corresponding near signal.
func (d *Detector) Detect52Week(symbol string, price float64, high52w, low52w *float64) []models.SignalCandidate {
	var candidates []models.SignalCandidate

	if high52w != nil && *high52w > 0 {
		details := map[string]interface{}{
			"high_52w": *high52w,
			"current":  price,
		}
		if price >= *high52w {
			candidates = append(candidates, models.SignalCandidate{
				Symbol: symbol, Type: models.SignalNew52wHigh, Price: price, Details: details,
			})
		} else if price >= *high52w*(1-d.near52wThreshold/100) {
			candidates = append(candidates, models.SignalCandidate{
				Symbol: symbol, Type: models.SignalNear52wHigh, Price: price, Details: details,
			})
		}
	}

	if low52w != nil && *low52w > 0 {
		details := map[string]interface{}{
			"low_52w": *low52w,
			"current": price,
		}
		if price <= *low52w {
			candidates = append(candidates, models.SignalCandidate{
				Symbol: symbol, Type: models.SignalNew52wLow, Price: price, Details: details,
			})
		} else if price <= *low52w*(1+d.near52wThreshold/100) {
			candidates = append(candidates, models.SignalCandidate{
				Symbol: symbol, Type: models.SignalNear52wLow, Price: price, Details: details,
			})
		}
	}

	return candidates
}

// DetectAll runs every detector for one symbol and unions the fired signals.
// MA crossovers are evaluated independently for each supported window. The
// quote supplies the 52-week extremes; a nil quote skips those checks.
func (d *Detector) DetectAll(symbol string, s *indicator.Series, quote *models.Quote) []models.SignalCandidate {
	var candidates []models.SignalCandidate

	for _, window := range models.AllMAWindows {
		if c := d.DetectMACrossover(symbol, s, window); c != nil {
			candidates = append(candidates, *c)
		}
	}

	if c := d.DetectRSI(symbol, s); c != nil {
		candidates = append(candidates, *c)
	}
	if c := d.DetectMACD(symbol, s); c != nil {
		candidates = append(candidates, *c)
	}

	if quote != nil {
		candidates = append(candidates, d.Detect52Week(symbol, quote.Price, quote.High52w, quote.Low52w)...)
	}

	return candidates
}
