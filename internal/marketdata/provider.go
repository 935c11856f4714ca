package marketdata

import (
	"context"

	"github.com/mohamedkhairy/argus/internal/models"
)

// Provider defines the interface for upstream market data providers
type Provider interface {
	// GetBars returns up to lookbackDays daily bars sorted ascending by
	// timestamp. An unknown symbol yields ErrNotFound; transport failures
	// yield ErrMarketDataUnavailable.
	GetBars(ctx context.Context, symbol string, lookbackDays int) ([]models.Bar, error)

	// GetQuote returns the current quote including 52-week extremes
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)

	// GetStockInfo returns descriptive listing information
	GetStockInfo(ctx context.Context, symbol string) (*models.StockInfo, error)

	// Search returns listings matching the query
	Search(ctx context.Context, query string) ([]models.StockInfo, error)
}
