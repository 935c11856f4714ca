package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Common
	Environment string
	LogLevel    string

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Market Data
	MarketData MarketDataConfig

	// Cache TTLs
	Cache CacheConfig

	// Components
	Screener  ScreenerConfig
	Signals   SignalsConfig
	Scheduler SchedulerConfig
	API       APIConfig
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	SSLMode         string
	MaxConnections  int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host         string
	Port         int
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
}

// MarketDataConfig holds market data provider configuration
type MarketDataConfig struct {
	BaseURL string
	Timeout time.Duration
	// MaxRetries is read from the environment but deliberately not consulted:
	// a timed-out or failed fetch maps straight to an empty result.
	MaxRetries int
}

// CacheConfig holds cache TTL configuration
type CacheConfig struct {
	QuoteTTL       time.Duration
	OHLCVDailyTTL  time.Duration
	OHLCVWeeklyTTL time.Duration
	IndicatorsTTL  time.Duration
	ScreenerTTL    time.Duration
	UniverseTTL    time.Duration
	ChartTTL       time.Duration
	// OffHoursMultiplier stretches market-sensitive TTLs when the market is closed
	OffHoursMultiplier int
}

// ScreenerConfig holds screening pipeline configuration
type ScreenerConfig struct {
	Concurrency   int
	DefaultLimit  int
	MaxLimit      int
	AtBandPercent float64
}

// SignalsConfig holds signal detection configuration
type SignalsConfig struct {
	SweepConcurrency  int
	DedupeWindow      time.Duration
	CrossoverLookback int
	Near52wThreshold  float64
}

// SchedulerConfig holds cron scheduling configuration
type SchedulerConfig struct {
	Enabled         bool
	SweepSpec       string
	MarketCapSpec   string
	MarketCapEnable bool
}

// APIConfig holds REST API configuration
type APIConfig struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Load loads configuration from environment variables
// It automatically loads a .env file if one exists in the working directory
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Database:        getEnv("DB_NAME", "argus"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnvAsInt("REDIS_PORT", 6379),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 5),
		},
		MarketData: MarketDataConfig{
			BaseURL:    getEnv("MARKET_DATA_BASE_URL", "https://query1.finance.yahoo.com"),
			Timeout:    getEnvAsDuration("MARKET_DATA_TIMEOUT", 30*time.Second),
			MaxRetries: getEnvAsInt("MARKET_DATA_MAX_RETRIES", 3),
		},
		Cache: CacheConfig{
			QuoteTTL:           getEnvAsDuration("CACHE_TTL_QUOTE", 5*time.Minute),
			OHLCVDailyTTL:      getEnvAsDuration("CACHE_TTL_OHLCV_DAILY", 1*time.Hour),
			OHLCVWeeklyTTL:     getEnvAsDuration("CACHE_TTL_OHLCV_WEEKLY", 24*time.Hour),
			IndicatorsTTL:      getEnvAsDuration("CACHE_TTL_INDICATORS", 5*time.Minute),
			ScreenerTTL:        getEnvAsDuration("CACHE_TTL_SCREENER", 5*time.Minute),
			UniverseTTL:        getEnvAsDuration("CACHE_TTL_UNIVERSE", 24*time.Hour),
			ChartTTL:           getEnvAsDuration("CACHE_TTL_CHART", 5*time.Minute),
			OffHoursMultiplier: getEnvAsInt("CACHE_TTL_OFF_HOURS_MULTIPLIER", 12),
		},
		Screener: ScreenerConfig{
			Concurrency:   getEnvAsInt("SCREENER_CONCURRENCY", 10),
			DefaultLimit:  getEnvAsInt("SCREENER_DEFAULT_LIMIT", 100),
			MaxLimit:      getEnvAsInt("SCREENER_MAX_LIMIT", 500),
			AtBandPercent: getEnvAsFloat("SCREENER_AT_BAND_PERCENT", 0.5),
		},
		Signals: SignalsConfig{
			SweepConcurrency:  getEnvAsInt("SIGNALS_SWEEP_CONCURRENCY", 5),
			DedupeWindow:      getEnvAsDuration("SIGNALS_DEDUPE_WINDOW", 24*time.Hour),
			CrossoverLookback: getEnvAsInt("SIGNALS_CROSSOVER_LOOKBACK", 2),
			Near52wThreshold:  getEnvAsFloat("SIGNALS_NEAR_52W_THRESHOLD", 5.0),
		},
		Scheduler: SchedulerConfig{
			Enabled:         getEnvAsBool("SCHEDULER_ENABLED", true),
			SweepSpec:       getEnv("SCHEDULER_SWEEP_SPEC", "*/5 * * * *"),
			MarketCapSpec:   getEnv("SCHEDULER_MARKET_CAP_SPEC", "0 6 * * *"),
			MarketCapEnable: getEnvAsBool("SCHEDULER_MARKET_CAP_ENABLED", true),
		},
		API: APIConfig{
			Port:            getEnvAsInt("API_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("API_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("API_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("API_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an int or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsFloat retrieves an environment variable as a float64 or returns a default value
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a bool or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsDuration retrieves an environment variable as a time.Duration or returns a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
