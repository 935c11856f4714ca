package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mohamedkhairy/argus/internal/config"
	"github.com/mohamedkhairy/argus/internal/models"
	"github.com/mohamedkhairy/argus/pkg/logger"
)

var (
	// Metrics for durable store operations
	storageWriteTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "argus_storage_write_total",
			Help: "Total number of durable store write operations",
		},
		[]string{"operation", "status"}, // status: "success" or "error"
	)

	storageQueryLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "argus_storage_query_latency_seconds",
			Help:    "Durable store query latency in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		},
		[]string{"operation"},
	)
)

// PostgresClient implements SignalStore and UniverseStore on PostgreSQL
type PostgresClient struct {
	db *sql.DB
}

// NewPostgresClient opens a connection pool and verifies connectivity
func NewPostgresClient(cfg config.DatabaseConfig) (*PostgresClient, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info("Connected to PostgreSQL",
		logger.String("host", cfg.Host),
		logger.Int("port", cfg.Port),
		logger.String("database", cfg.Database),
	)

	return &PostgresClient{db: db}, nil
}

// EnsureSchema creates the signals and universe tables when absent
func (p *PostgresClient) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS signals (
			id TEXT PRIMARY KEY,
			symbol TEXT NOT NULL,
			signal_type TEXT NOT NULL,
			timestamp TIMESTAMPTZ NOT NULL,
			price DOUBLE PRECISION NOT NULL,
			details JSONB,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_symbol_type_ts
			ON signals (symbol, signal_type, timestamp DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_ts ON signals (timestamp DESC)`,
		`CREATE TABLE IF NOT EXISTS universe (
			symbol TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			sector TEXT,
			market_cap BIGINT,
			exchange TEXT,
			is_active BOOLEAN NOT NULL DEFAULT TRUE
		)`,
	}

	for _, stmt := range statements {
		if _, err := p.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}

// InsertSignal persists an accepted signal event
func (p *PostgresClient) InsertSignal(ctx context.Context, signal *models.Signal) error {
	start := time.Now()

	details, err := json.Marshal(signal.Details)
	if err != nil {
		return fmt.Errorf("failed to marshal signal details: %w", err)
	}

	_, err = p.db.ExecContext(ctx, `
		INSERT INTO signals (id, symbol, signal_type, timestamp, price, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		signal.ID, signal.Symbol, string(signal.Type), signal.Timestamp,
		signal.Price, details, signal.CreatedAt,
	)

	storageQueryLatency.WithLabelValues("insert_signal").Observe(time.Since(start).Seconds())
	if err != nil {
		storageWriteTotal.WithLabelValues("insert_signal", "error").Inc()
		return fmt.Errorf("failed to insert signal: %w", err)
	}
	storageWriteTotal.WithLabelValues("insert_signal", "success").Inc()
	return nil
}

// FindSignal returns the most recent (symbol, type) event at or after since
func (p *PostgresClient) FindSignal(ctx context.Context, symbol string, signalType models.SignalType, since time.Time) (*models.Signal, error) {
	start := time.Now()
	defer func() {
		storageQueryLatency.WithLabelValues("find_signal").Observe(time.Since(start).Seconds())
	}()

	row := p.db.QueryRowContext(ctx, `
		SELECT id, symbol, signal_type, timestamp, price, details, created_at
		FROM signals
		WHERE symbol = $1 AND signal_type = $2 AND timestamp >= $3
		ORDER BY timestamp DESC
		LIMIT 1`,
		strings.ToUpper(symbol), string(signalType), since,
	)

	signal, err := scanSignal(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find signal: %w", err)
	}
	return signal, nil
}

// ListSignals returns events matching the filter, newest first
func (p *PostgresClient) ListSignals(ctx context.Context, filter models.SignalFilter) ([]*models.Signal, error) {
	start := time.Now()
	defer func() {
		storageQueryLatency.WithLabelValues("list_signals").Observe(time.Since(start).Seconds())
	}()

	query := `
		SELECT id, symbol, signal_type, timestamp, price, details, created_at
		FROM signals`

	var conditions []string
	var args []interface{}

	if len(filter.Types) > 0 {
		placeholders := make([]string, len(filter.Types))
		for i, t := range filter.Types {
			args = append(args, string(t))
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		conditions = append(conditions, "signal_type IN ("+strings.Join(placeholders, ", ")+")")
	}
	if len(filter.Symbols) > 0 {
		placeholders := make([]string, len(filter.Symbols))
		for i, s := range filter.Symbols {
			args = append(args, strings.ToUpper(s))
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		conditions = append(conditions, "symbol IN ("+strings.Join(placeholders, ", ")+")")
	}
	if !filter.Since.IsZero() {
		args = append(args, filter.Since)
		conditions = append(conditions, fmt.Sprintf("timestamp >= $%d", len(args)))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY timestamp DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list signals: %w", err)
	}
	defer rows.Close()

	var signals []*models.Signal
	for rows.Next() {
		signal, err := scanSignal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan signal: %w", err)
		}
		signals = append(signals, signal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate signals: %w", err)
	}

	return signals, nil
}

// ListActive returns the active universe entries ordered by symbol
func (p *PostgresClient) ListActive(ctx context.Context) ([]models.UniverseEntry, error) {
	start := time.Now()
	defer func() {
		storageQueryLatency.WithLabelValues("list_active_universe").Observe(time.Since(start).Seconds())
	}()

	rows, err := p.db.QueryContext(ctx, `
		SELECT symbol, name, COALESCE(sector, ''), market_cap, COALESCE(exchange, ''), is_active
		FROM universe
		WHERE is_active = TRUE
		ORDER BY symbol`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list universe: %w", err)
	}
	defer rows.Close()

	var entries []models.UniverseEntry
	for rows.Next() {
		var entry models.UniverseEntry
		var marketCap sql.NullInt64
		if err := rows.Scan(&entry.Symbol, &entry.Name, &entry.Sector, &marketCap, &entry.Exchange, &entry.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan universe entry: %w", err)
		}
		if marketCap.Valid {
			entry.MarketCap = models.Int64Ptr(marketCap.Int64)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate universe: %w", err)
	}

	return entries, nil
}

// Upsert inserts or reactivates/updates a universe entry
func (p *PostgresClient) Upsert(ctx context.Context, entry models.UniverseEntry) error {
	start := time.Now()

	var marketCap sql.NullInt64
	if entry.MarketCap != nil {
		marketCap = sql.NullInt64{Int64: *entry.MarketCap, Valid: true}
	}

	_, err := p.db.ExecContext(ctx, `
		INSERT INTO universe (symbol, name, sector, market_cap, exchange, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		ON CONFLICT (symbol) DO UPDATE SET
			name = EXCLUDED.name,
			sector = EXCLUDED.sector,
			market_cap = EXCLUDED.market_cap,
			exchange = EXCLUDED.exchange,
			is_active = TRUE`,
		strings.ToUpper(entry.Symbol), entry.Name, entry.Sector, marketCap, entry.Exchange,
	)

	storageQueryLatency.WithLabelValues("upsert_universe").Observe(time.Since(start).Seconds())
	if err != nil {
		storageWriteTotal.WithLabelValues("upsert_universe", "error").Inc()
		return fmt.Errorf("failed to upsert universe entry: %w", err)
	}
	storageWriteTotal.WithLabelValues("upsert_universe", "success").Inc()
	return nil
}

// Deactivate marks a symbol inactive; returns false when unknown
func (p *PostgresClient) Deactivate(ctx context.Context, symbol string) (bool, error) {
	result, err := p.db.ExecContext(ctx,
		`UPDATE universe SET is_active = FALSE WHERE symbol = $1`,
		strings.ToUpper(symbol),
	)
	if err != nil {
		storageWriteTotal.WithLabelValues("deactivate_universe", "error").Inc()
		return false, fmt.Errorf("failed to deactivate %s: %w", symbol, err)
	}
	storageWriteTotal.WithLabelValues("deactivate_universe", "success").Inc()

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}

// UpdateMarketCap sets the market cap for a symbol; returns false when unknown
func (p *PostgresClient) UpdateMarketCap(ctx context.Context, symbol string, marketCap int64) (bool, error) {
	result, err := p.db.ExecContext(ctx,
		`UPDATE universe SET market_cap = $2 WHERE symbol = $1`,
		strings.ToUpper(symbol), marketCap,
	)
	if err != nil {
		storageWriteTotal.WithLabelValues("update_market_cap", "error").Inc()
		return false, fmt.Errorf("failed to update market cap for %s: %w", symbol, err)
	}
	storageWriteTotal.WithLabelValues("update_market_cap", "success").Inc()

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}

// Close closes the database connection pool
func (p *PostgresClient) Close() error {
	return p.db.Close()
}

// scanner abstracts sql.Row and sql.Rows for scanSignal
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSignal(row scanner) (*models.Signal, error) {
	var signal models.Signal
	var signalType string
	var details []byte

	if err := row.Scan(&signal.ID, &signal.Symbol, &signalType, &signal.Timestamp,
		&signal.Price, &details, &signal.CreatedAt); err != nil {
		return nil, err
	}

	signal.Type = models.SignalType(signalType)
	if len(details) > 0 {
		if err := json.Unmarshal(details, &signal.Details); err != nil {
			return nil, fmt.Errorf("failed to unmarshal signal details: %w", err)
		}
	}
	return &signal, nil
}
