// Package config handles application configuration from environment variables
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Port     string
	Env      string // "development", "staging", "production"
	LogLevel string

	// Database
	DatabaseURL string // PostgreSQL connection string (optional, uses in-memory if not set)

	// Chain data providers
	EtherscanAPIKey string
	EtherscanURL    string
	RPCURL          string
	ChainID         int64

	// AI commentary
	GeminiAPIKey string
	GeminiModel  string

	// Analysis settings
	CacheTTL        time.Duration // analysis response cache lifetime
	CacheSize       int           // max cached analyses
	ProviderTimeout time.Duration

	// Security
	RateLimitRPS int
	AdminSecret  string // Admin API secret

	// Tracing
	OTLPEndpoint string
}

// Ethereum mainnet defaults
const (
	DefaultEtherscanURL    = "https://api.etherscan.io/api"
	DefaultRPCURL          = "https://eth.llamarpc.com"
	DefaultChainID         = 1
	DefaultPort            = "8080"
	DefaultEnv             = "development"
	DefaultLogLevel        = "info"
	DefaultGeminiModel     = "gemini-2.0-flash"
	DefaultRateLimit       = 100
	DefaultCacheTTL        = 5 * time.Minute
	DefaultCacheSize       = 1024
	DefaultProviderTimeout = 15 * time.Second
)

// Load reads configuration from environment variables
// It loads .env file if present (for local development)
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not present)
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv("PORT", DefaultPort),
		Env:             getEnv("ENV", DefaultEnv),
		LogLevel:        getEnv("LOG_LEVEL", DefaultLogLevel),
		DatabaseURL:     os.Getenv("DATABASE_URL"), // Optional, uses in-memory if not set
		EtherscanAPIKey: os.Getenv("ETHERSCAN_API_KEY"),
		EtherscanURL:    getEnv("ETHERSCAN_URL", DefaultEtherscanURL),
		RPCURL:          getEnv("RPC_URL", DefaultRPCURL),
		ChainID:         getEnvInt64("CHAIN_ID", DefaultChainID),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"), // Optional, commentary disabled if not set
		GeminiModel:     getEnv("GEMINI_MODEL", DefaultGeminiModel),
		CacheTTL:        getEnvDuration("CACHE_TTL", DefaultCacheTTL),
		CacheSize:       int(getEnvInt64("CACHE_SIZE", DefaultCacheSize)),
		ProviderTimeout: getEnvDuration("PROVIDER_TIMEOUT", DefaultProviderTimeout),
		RateLimitRPS:    int(getEnvInt64("RATE_LIMIT_RPS", int64(DefaultRateLimit))),
		AdminSecret:     os.Getenv("ADMIN_SECRET"),
		OTLPEndpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all required configuration is present
func (c *Config) Validate() error {
	if c.EtherscanAPIKey == "" {
		return fmt.Errorf("ETHERSCAN_API_KEY is required")
	}

	if c.RPCURL == "" {
		return fmt.Errorf("RPC_URL is required")
	}

	if c.CacheSize <= 0 {
		return fmt.Errorf("CACHE_SIZE must be positive (got %d)", c.CacheSize)
	}

	return nil
}

// CommentaryEnabled reports whether AI commentary can be generated
func (c *Config) CommentaryEnabled() bool {
	return c.GeminiAPIKey != ""
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
