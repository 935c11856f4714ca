package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/mohamedkhairy/argus/internal/models"
)

// KeyPrefix is the namespace every cache key lives under
const KeyPrefix = "argus"

// QuoteKey returns the cache key for a stock quote
func QuoteKey(symbol string) string {
	return KeyPrefix + ":quote:" + strings.ToUpper(symbol)
}

// OHLCVKey returns the cache key for bar history
func OHLCVKey(symbol string, timeframe models.TimeFrame, period models.Period) string {
	return KeyPrefix + ":ohlcv:" + strings.ToUpper(symbol) + ":" + string(timeframe) + ":" + string(period)
}

// IndicatorsKey returns the cache key for the combined indicator payload
func IndicatorsKey(symbol string, timeframe models.TimeFrame) string {
	return KeyPrefix + ":indicators:" + strings.ToUpper(symbol) + ":" + string(timeframe)
}

// ChartKey returns the cache key for chart data. The query parameters are
// canonicalized and hashed to keep key length bounded.
func ChartKey(symbol string, timeframe models.TimeFrame, period models.Period, includeMA, includeRSI, includeMACD bool) string {
	params := map[string]interface{}{
		"timeframe":    string(timeframe),
		"period":       string(period),
		"include_ma":   includeMA,
		"include_rsi":  includeRSI,
		"include_macd": includeMACD,
	}
	return KeyPrefix + ":chart:" + strings.ToUpper(symbol) + ":" + hashParams(params)
}

// ScreenerKey returns the cache key for a screener request
func ScreenerKey(req models.ScreenerRequest) string {
	params := map[string]interface{}{
		"ma_filter":     string(req.MAWindow),
		"distance_pct":  req.DistancePct,
		"include_below": req.IncludeBelow,
		"include_above": req.IncludeAbove,
		"sort_by":       string(req.SortBy),
		"sort_order":    string(req.SortOrder),
		"limit":         req.Limit,
		"offset":        req.Offset,
	}
	return KeyPrefix + ":screener:" + hashParams(params)
}

// UniverseKey returns the cache key for the active universe
func UniverseKey() string {
	return KeyPrefix + ":universe"
}

// StockInfoKey returns the cache key for stock info
func StockInfoKey(symbol string) string {
	return KeyPrefix + ":info:" + strings.ToUpper(symbol)
}

// SearchKey returns the cache key for a symbol search query
func SearchKey(query string) string {
	return KeyPrefix + ":search:" + hashParams(map[string]interface{}{"q": strings.ToLower(query)})
}

// hashParams canonicalizes a parameter set into a short stable hash.
// encoding/json sorts map keys, so insertion order never leaks into the key.
func hashParams(params map[string]interface{}) string {
	data, err := json.Marshal(params)
	if err != nil {
		// Marshal of plain scalars cannot fail; keep a defined fallback anyway
		data = []byte("{}")
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:12]
}
