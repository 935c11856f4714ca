package signal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mohamedkhairy/argus/internal/indicator"
	"github.com/mohamedkhairy/argus/internal/models"
	"github.com/mohamedkhairy/argus/pkg/logger"
)

var (
	sweepRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "argus_signal_sweep_runs_total",
			Help: "Total number of signal detection sweeps",
		},
		[]string{"status"},
	)

	sweepSignalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "argus_signal_sweep_signals_total",
			Help: "Signal candidates handled by the sweep",
		},
		[]string{"outcome"}, // "detected", "accepted", "suppressed"
	)

	sweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "argus_signal_sweep_duration_seconds",
			Help:    "Signal sweep duration in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		},
	)
)

// MarketData is the provider surface the sweep needs
type MarketData interface {
	GetBars(ctx context.Context, symbol string, lookbackDays int) ([]models.Bar, error)
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)
}

// UniverseSource yields the symbols eligible for detection
type UniverseSource interface {
	ListActive(ctx context.Context) ([]models.UniverseEntry, error)
}

// sweepLookbackDays covers the longest MA window plus the crossover lookback
const sweepLookbackDays = 1260

// SweepResult summarizes one detection sweep across the universe
type SweepResult struct {
	Scanned    int           `json:"scanned"`
	Detected   int           `json:"detected"`
	Accepted   int           `json:"accepted"`
	Suppressed int           `json:"suppressed"`
	Failed     int           `json:"failed"`
	Duration   time.Duration `json:"duration"`
}

// Sweeper runs signal detection across the active universe under bounded
// concurrency. Per-symbol failures are isolated; only a failure to obtain the
// universe escalates.
type Sweeper struct {
	detector    *Detector
	acceptor    *Acceptor
	universe    UniverseSource
	marketData  MarketData
	concurrency int
}

// NewSweeper creates a sweep orchestrator
func NewSweeper(detector *Detector, acceptor *Acceptor, universe UniverseSource, marketData MarketData, concurrency int) *Sweeper {
	if concurrency < 1 {
		concurrency = 5
	}
	return &Sweeper{
		detector:    detector,
		acceptor:    acceptor,
		universe:    universe,
		marketData:  marketData,
		concurrency: concurrency,
	}
}

// Run sweeps every active symbol once and returns aggregate counters
func (s *Sweeper) Run(ctx context.Context) (*SweepResult, error) {
	start := time.Now()

	entries, err := s.universe.ListActive(ctx)
	if err != nil {
		sweepRunsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	result := &SweepResult{Scanned: len(entries)}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, s.concurrency)
	)

	for _, entry := range entries {
		wg.Add(1)
		sem <- struct{}{}

		go func(symbol string) {
			defer wg.Done()
			defer func() { <-sem }()

			detected, accepted, err := s.sweepSymbol(ctx, symbol)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed++
				logger.Warn("Signal sweep failed for symbol",
					logger.String("symbol", symbol),
					logger.ErrorField(err),
				)
				return
			}
			result.Detected += detected
			result.Accepted += accepted
			result.Suppressed += detected - accepted
		}(entry.Symbol)
	}

	wg.Wait()

	result.Duration = time.Since(start)
	sweepDuration.Observe(result.Duration.Seconds())
	sweepRunsTotal.WithLabelValues("success").Inc()
	sweepSignalsTotal.WithLabelValues("detected").Add(float64(result.Detected))
	sweepSignalsTotal.WithLabelValues("accepted").Add(float64(result.Accepted))
	sweepSignalsTotal.WithLabelValues("suppressed").Add(float64(result.Suppressed))

	logger.Info("Signal sweep complete",
		logger.Int("scanned", result.Scanned),
		logger.Int("detected", result.Detected),
		logger.Int("accepted", result.Accepted),
		logger.Int("suppressed", result.Suppressed),
		logger.Int("failed", result.Failed),
		logger.Duration("duration", result.Duration),
	)

	return result, nil
}

// DetectSymbol runs detection and acceptance for a single symbol on demand and
// returns the newly accepted signals. Duplicates inside the dedupe window are
// dropped silently, same as the sweep.
func (s *Sweeper) DetectSymbol(ctx context.Context, symbol string) ([]*models.Signal, error) {
	bars, err := s.marketData.GetBars(ctx, symbol, sweepLookbackDays)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: no bar history for %s", models.ErrNotFound, symbol)
	}

	quote, err := s.marketData.GetQuote(ctx, symbol)
	if err != nil {
		quote = nil
	}

	series := indicator.NewSeries(bars)
	candidates := s.detector.DetectAll(symbol, series, quote)

	accepted := make([]*models.Signal, 0, len(candidates))
	for _, candidate := range candidates {
		signal, ok, err := s.acceptor.Accept(ctx, candidate)
		if err != nil {
			return nil, err
		}
		if ok {
			accepted = append(accepted, signal)
		}
	}
	return accepted, nil
}

// sweepSymbol runs detection and acceptance for one symbol. Acceptance opens
// one storage scope per symbol rather than sharing one across the sweep.
func (s *Sweeper) sweepSymbol(ctx context.Context, symbol string) (detected, accepted int, err error) {
	bars, err := s.marketData.GetBars(ctx, symbol, sweepLookbackDays)
	if err != nil {
		return 0, 0, err
	}
	if len(bars) == 0 {
		return 0, 0, nil
	}

	quote, err := s.marketData.GetQuote(ctx, symbol)
	if err != nil {
		// 52-week checks degrade; the rest of the detectors still run
		quote = nil
	}

	series := indicator.NewSeries(bars)
	candidates := s.detector.DetectAll(symbol, series, quote)

	for _, candidate := range candidates {
		detected++
		_, ok, err := s.acceptor.Accept(ctx, candidate)
		if err != nil {
			return detected, accepted, err
		}
		if ok {
			accepted++
		}
	}

	return detected, accepted, nil
}
