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

	// Chain data
	SolanaRPCURL string // Solana JSON-RPC endpoint (Helius, public mainnet, ...)
	RPCTimeout   time.Duration
	DataSource   string // "remote" or "synthetic", chosen once at startup

	// AI insights (optional; insights endpoints return a sentinel error when unset)
	LLMAPIURL      string
	LLMAPIKey      string
	LLMModel       string
	LLMTemperature float64
	LLMMaxTokens   int
	LLMTimeout     time.Duration

	// RPC monitoring
	MonitorInterval time.Duration // 0 disables the background monitor loop

	// Security
	CORSOrigins  string // comma-separated allowed origins
	RateLimitRPM int

	// Tracing
	OTLPEndpoint string
}

// Defaults
const (
	DefaultPort         = "8080"
	DefaultEnv          = "development"
	DefaultLogLevel     = "info"
	DefaultSolanaRPCURL = "https://api.mainnet-beta.solana.com"
	DefaultDataSource   = "remote"
	DefaultLLMModel     = "gpt-4o-mini"
	DefaultRateLimit    = 120
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
		SolanaRPCURL:    getEnv("SOLANA_RPC_URL", DefaultSolanaRPCURL),
		RPCTimeout:      getEnvDuration("RPC_TIMEOUT", 15*time.Second),
		DataSource:      getEnv("DATA_SOURCE", DefaultDataSource),
		LLMAPIURL:       os.Getenv("LLM_API_URL"),
		LLMAPIKey:       os.Getenv("LLM_API_KEY"),
		LLMModel:        getEnv("LLM_MODEL", DefaultLLMModel),
		LLMTemperature:  getEnvFloat("LLM_TEMPERATURE", 0.3),
		LLMMaxTokens:    int(getEnvInt64("LLM_MAX_TOKENS", 600)),
		LLMTimeout:      getEnvDuration("LLM_TIMEOUT", 30*time.Second),
		MonitorInterval: getEnvDuration("MONITOR_INTERVAL", 0),
		CORSOrigins:     getEnv("CORS_ORIGINS", "*"),
		RateLimitRPM:    int(getEnvInt64("RATE_LIMIT_RPM", int64(DefaultRateLimit))),
		OTLPEndpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all required configuration is present
func (c *Config) Validate() error {
	switch c.DataSource {
	case "remote":
		if c.SolanaRPCURL == "" {
			return fmt.Errorf("SOLANA_RPC_URL is required when DATA_SOURCE=remote")
		}
	case "synthetic":
		// No RPC endpoint needed
	default:
		return fmt.Errorf("DATA_SOURCE must be \"remote\" or \"synthetic\", got %q", c.DataSource)
	}

	if c.RPCTimeout <= 0 {
		return fmt.Errorf("RPC_TIMEOUT must be positive")
	}

	return nil
}

// InsightsEnabled returns true if an LLM endpoint is configured
func (c *Config) InsightsEnabled() bool {
	return c.LLMAPIURL != "" && c.LLMAPIKey != ""
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

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
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
