package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter assembles the HTTP route table with the standard middleware chain
func NewRouter(stock *StockHandler, screener *ScreenerHandler, signals *SignalHandler, universe *UniverseHandler) http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/health", HealthHandler).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	v1 := router.PathPrefix("/api/v1").Subrouter()

	v1.HandleFunc("/stocks/{symbol}", stock.GetStock).Methods("GET")
	v1.HandleFunc("/stocks/{symbol}/quote", stock.GetQuote).Methods("GET")
	v1.HandleFunc("/stocks/{symbol}/chart", stock.GetChart).Methods("GET")
	v1.HandleFunc("/stocks/{symbol}/indicators", stock.GetIndicators).Methods("GET")
	v1.HandleFunc("/search", stock.Search).Methods("GET")

	v1.HandleFunc("/screener", screener.Screen).Methods("GET")

	v1.HandleFunc("/signals", signals.ListSignals).Methods("GET")
	v1.HandleFunc("/signals/sweep", signals.RunSweep).Methods("POST")
	v1.HandleFunc("/signals/detect/{symbol}", signals.DetectSymbol).Methods("POST")

	v1.HandleFunc("/universe", universe.ListUniverse).Methods("GET")
	v1.HandleFunc("/universe", universe.AddSymbol).Methods("POST")
	v1.HandleFunc("/universe/refresh-market-caps", universe.RefreshMarketCaps).Methods("POST")
	v1.HandleFunc("/universe/{symbol}", universe.RemoveSymbol).Methods("DELETE")

	chain := ChainMiddleware(
		RecoveryMiddleware(),
		LoggingMiddleware(),
		CORSMiddleware(),
	)
	return chain(router)
}
