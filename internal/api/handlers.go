package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/mohamedkhairy/argus/internal/indicator"
	"github.com/mohamedkhairy/argus/internal/models"
	"github.com/mohamedkhairy/argus/internal/screener"
	"github.com/mohamedkhairy/argus/internal/signal"
	"github.com/mohamedkhairy/argus/internal/stocks"
	"github.com/mohamedkhairy/argus/internal/storage"
	"github.com/mohamedkhairy/argus/internal/universe"
)

// StockHandler handles per-symbol market data endpoints
type StockHandler struct {
	stocks *stocks.Service
}

// NewStockHandler creates a stock handler
func NewStockHandler(stocksService *stocks.Service) *StockHandler {
	return &StockHandler{stocks: stocksService}
}

// GetStock handles GET /api/v1/stocks/{symbol}
func (h *StockHandler) GetStock(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	info, err := h.stocks.GetStockInfo(r.Context(), symbol)
	if err != nil {
		respondWithMappedError(w, err)
		return
	}
	quote, err := h.stocks.GetQuote(r.Context(), symbol)
	if err != nil {
		respondWithMappedError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, models.StockData{
		Info:  *info,
		Quote: *quote,
	})
}

// GetQuote handles GET /api/v1/stocks/{symbol}/quote
func (h *StockHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	quote, err := h.stocks.GetQuote(r.Context(), mux.Vars(r)["symbol"])
	if err != nil {
		respondWithMappedError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, quote)
}

// GetChart handles GET /api/v1/stocks/{symbol}/chart
func (h *StockHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	query := r.URL.Query()

	timeframe := models.TimeFrame(defaultString(query.Get("timeframe"), string(models.TimeFrameDaily)))
	period := models.Period(defaultString(query.Get("period"), string(models.PeriodOneYear)))
	opts := indicatorOptions(query)

	chart, err := h.stocks.GetChart(r.Context(), symbol, timeframe, period, opts)
	if err != nil {
		respondWithMappedError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, chart)
}

// GetIndicators handles GET /api/v1/stocks/{symbol}/indicators
func (h *StockHandler) GetIndicators(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	opts := indicatorOptions(r.URL.Query())

	data, err := h.stocks.GetIndicators(r.Context(), symbol, opts)
	if err != nil {
		respondWithMappedError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, data)
}

// Search handles GET /api/v1/search
func (h *StockHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if strings.TrimSpace(query) == "" {
		respondWithError(w, http.StatusBadRequest, "Missing query parameter q")
		return
	}

	infos, err := h.stocks.Search(r.Context(), query)
	if err != nil {
		respondWithMappedError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"results": infos,
		"count":   len(infos),
	})
}

// ScreenerHandler handles screening endpoints
type ScreenerHandler struct {
	screener *screener.Screener
}

// NewScreenerHandler creates a screener handler
func NewScreenerHandler(s *screener.Screener) *ScreenerHandler {
	return &ScreenerHandler{screener: s}
}

// Screen handles GET /api/v1/screener
func (h *ScreenerHandler) Screen(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := models.DefaultScreenerRequest()

	if v := query.Get("ma_filter"); v != "" {
		req.MAWindow = models.MAWindow(strings.ToUpper(v))
	}
	if v := query.Get("distance_pct"); v != "" {
		pct, err := strconv.ParseFloat(v, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid distance_pct")
			return
		}
		req.DistancePct = pct
	}
	if v := query.Get("include_below"); v != "" {
		req.IncludeBelow = v == "true" || v == "1"
	}
	if v := query.Get("include_above"); v != "" {
		req.IncludeAbove = v == "true" || v == "1"
	}
	if v := query.Get("sort_by"); v != "" {
		req.SortBy = models.SortField(v)
	}
	if v := query.Get("sort_order"); v != "" {
		req.SortOrder = models.SortOrder(v)
	}
	if v := query.Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			req.Limit = limit
		}
	}
	if v := query.Get("offset"); v != "" {
		if offset, err := strconv.Atoi(v); err == nil {
			req.Offset = offset
		}
	}

	response, err := h.screener.Screen(r.Context(), req)
	if err != nil {
		respondWithMappedError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, response)
}

// SignalHandler handles signal listing and sweep endpoints
type SignalHandler struct {
	store   storage.SignalStore
	sweeper *signal.Sweeper
}

// NewSignalHandler creates a signal handler
func NewSignalHandler(store storage.SignalStore, sweeper *signal.Sweeper) *SignalHandler {
	return &SignalHandler{store: store, sweeper: sweeper}
}

// ListSignals handles GET /api/v1/signals
func (h *SignalHandler) ListSignals(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := models.SignalFilter{}

	if v := query.Get("types"); v != "" {
		for _, t := range strings.Split(v, ",") {
			filter.Types = append(filter.Types, models.SignalType(strings.TrimSpace(t)))
		}
	}
	if v := query.Get("symbols"); v != "" {
		for _, s := range strings.Split(v, ",") {
			filter.Symbols = append(filter.Symbols, strings.ToUpper(strings.TrimSpace(s)))
		}
	}
	if v := query.Get("since"); v != "" {
		since, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid since timestamp, expected RFC3339")
			return
		}
		filter.Since = since
	}
	if v := query.Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			filter.Limit = limit
		}
	}

	signals, err := h.store.ListSignals(r.Context(), filter)
	if err != nil {
		respondWithMappedError(w, err)
		return
	}
	if signals == nil {
		signals = []*models.Signal{}
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"signals": signals,
		"count":   len(signals),
	})
}

// DetectSymbol handles POST /api/v1/signals/detect/{symbol}
func (h *SignalHandler) DetectSymbol(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	signals, err := h.sweeper.DetectSymbol(r.Context(), symbol)
	if err != nil {
		respondWithMappedError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"symbol":  strings.ToUpper(symbol),
		"signals": signals,
		"count":   len(signals),
	})
}

// RunSweep handles POST /api/v1/signals/sweep
func (h *SignalHandler) RunSweep(w http.ResponseWriter, r *http.Request) {
	result, err := h.sweeper.Run(r.Context())
	if err != nil {
		respondWithMappedError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// UniverseHandler handles universe management endpoints
type UniverseHandler struct {
	universe *universe.Service
}

// NewUniverseHandler creates a universe handler
func NewUniverseHandler(u *universe.Service) *UniverseHandler {
	return &UniverseHandler{universe: u}
}

// ListUniverse handles GET /api/v1/universe
func (h *UniverseHandler) ListUniverse(w http.ResponseWriter, r *http.Request) {
	entries, err := h.universe.ListActive(r.Context())
	if err != nil {
		respondWithMappedError(w, err)
		return
	}
	if entries == nil {
		entries = []models.UniverseEntry{}
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"symbols": entries,
		"count":   len(entries),
	})
}

// AddSymbol handles POST /api/v1/universe
func (h *UniverseHandler) AddSymbol(w http.ResponseWriter, r *http.Request) {
	var entry models.UniverseEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.universe.Add(r.Context(), entry); err != nil {
		respondWithMappedError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, map[string]string{
		"symbol": strings.ToUpper(entry.Symbol),
		"status": "added",
	})
}

// RemoveSymbol handles DELETE /api/v1/universe/{symbol}
func (h *UniverseHandler) RemoveSymbol(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	ok, err := h.universe.Remove(r.Context(), symbol)
	if err != nil {
		respondWithMappedError(w, err)
		return
	}
	if !ok {
		respondWithError(w, http.StatusNotFound, "Symbol not in universe")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{
		"symbol": strings.ToUpper(symbol),
		"status": "removed",
	})
}

// RefreshMarketCaps handles POST /api/v1/universe/refresh-market-caps
func (h *UniverseHandler) RefreshMarketCaps(w http.ResponseWriter, r *http.Request) {
	updated, err := h.universe.UpdateMarketCaps(r.Context())
	if err != nil {
		respondWithMappedError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]int{"updated": updated})
}

// HealthHandler handles GET /health
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// indicatorOptions parses include flags, defaulting every section on
func indicatorOptions(query map[string][]string) indicator.Options {
	get := func(key string) string {
		if vals, ok := query[key]; ok && len(vals) > 0 {
			return vals[0]
		}
		return ""
	}
	parse := func(key string) bool {
		v := get(key)
		return v == "" || v == "true" || v == "1"
	}
	return indicator.Options{
		IncludeMA:   parse("include_ma"),
		IncludeRSI:  parse("include_rsi"),
		IncludeMACD: parse("include_macd"),
	}
}

func defaultString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
