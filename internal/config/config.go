package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fernet/fernet-go"
	"github.com/joho/godotenv"

	"github.com/quantfolio/Portfolio-Valuation-Recorder/internal/apperrors"
)

// Price source names accepted in PRICE_SOURCE.
const (
	PriceSourceSimulated = "simulated"
	PriceSourceYahoo     = "yahoo"
	PriceSourceFinnhub   = "finnhub"
)

// Config holds all configuration for the application
type Config struct {
	Database  DatabaseConfig
	Scheduler SchedulerConfig
	Status    StatusConfig
	Pricing   PricingConfig
	Run       RunConfig
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// SchedulerConfig holds the daemon-mode schedule. An empty Schedule means
// run once and exit.
type SchedulerConfig struct {
	Schedule string
}

// StatusConfig holds the daemon-mode status API configuration.
type StatusConfig struct {
	Addr           string
	AllowedOrigins []string
}

// PricingConfig selects and configures the current-price source.
type PricingConfig struct {
	Source  string
	Token   string // Finnhub API token, already decrypted if supplied encrypted
	Timeout time.Duration
}

// RunConfig bounds the per-run fan-out.
type RunConfig struct {
	MaxConcurrentUsers   int
	MaxConcurrentLookups int
}

// Load reads configuration from environment variables and .env file.
// Configuration errors here are unrecoverable: the caller should exit
// nonzero without starting a run.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	timeoutSeconds, err := getEnvInt("PRICE_TIMEOUT_SECONDS", 10)
	if err != nil {
		return nil, err
	}
	maxUsers, err := getEnvInt("MAX_CONCURRENT_USERS", 4)
	if err != nil {
		return nil, err
	}
	maxLookups, err := getEnvInt("MAX_CONCURRENT_LOOKUPS", 8)
	if err != nil {
		return nil, err
	}

	config := &Config{
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/valuation_recorder.db"),
		},
		Scheduler: SchedulerConfig{
			Schedule: getEnv("RUN_SCHEDULE", ""),
		},
		Status: StatusConfig{
			Addr:           getEnv("STATUS_ADDR", "localhost:5001"),
			AllowedOrigins: strings.Split(getEnv("STATUS_ALLOWED_ORIGINS", "http://localhost:3000"), ","),
		},
		Pricing: PricingConfig{
			Source:  getEnv("PRICE_SOURCE", PriceSourceSimulated),
			Timeout: time.Duration(timeoutSeconds) * time.Second,
		},
		Run: RunConfig{
			MaxConcurrentUsers:   maxUsers,
			MaxConcurrentLookups: maxLookups,
		},
	}

	if err := loadPriceToken(&config.Pricing); err != nil {
		return nil, err
	}

	switch config.Pricing.Source {
	case PriceSourceSimulated, PriceSourceYahoo:
	case PriceSourceFinnhub:
		if config.Pricing.Token == "" {
			return nil, fmt.Errorf("%w: finnhub requires FINNHUB_TOKEN or FINNHUB_TOKEN_ENCRYPTED", apperrors.ErrMissingPriceToken)
		}
	default:
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownPriceSource, config.Pricing.Source)
	}

	return config, nil
}

// loadPriceToken resolves the Finnhub API token. A plaintext FINNHUB_TOKEN
// wins; otherwise FINNHUB_TOKEN_ENCRYPTED is decrypted with the fernet key
// in PRICE_TOKEN_KEY, so the token at rest (CI secrets, unit files) stays
// encrypted.
func loadPriceToken(cfg *PricingConfig) error {
	if token := os.Getenv("FINNHUB_TOKEN"); token != "" {
		cfg.Token = token
		return nil
	}

	encrypted := os.Getenv("FINNHUB_TOKEN_ENCRYPTED")
	if encrypted == "" {
		return nil
	}

	key, err := fernet.DecodeKey(os.Getenv("PRICE_TOKEN_KEY"))
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidTokenKey, err)
	}

	token := fernet.VerifyAndDecrypt([]byte(encrypted), 0, []*fernet.Key{key})
	if token == nil {
		return fmt.Errorf("%w: token did not verify", apperrors.ErrInvalidTokenKey)
	}

	cfg.Token = string(token)
	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets an integer environment variable or returns a default value.
func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}
