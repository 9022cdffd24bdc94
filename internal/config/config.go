package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

const (
	SigningModeHMAC    = "hmac"
	SigningModeEd25519 = "ed25519"

	MockOrdersSynthetic = "synthetic"
	MockOrdersEmpty     = "empty"
)

// Config is loaded once at startup and shared read-only for the life of the
// process. No component mutates it.
type Config struct {
	TelegramBotToken string
	DatabaseURL      string
	RedisURL         string
	HTTPPort         int

	// Robinhood crypto trading credentials.
	APIKey        string
	SharedSecret  string
	PrivateSeed   string // base64, 32 bytes once decoded
	AccountNumber string
	CryptoBaseURL string
	SigningMode   string
	LiveTrading   bool
	MockOrders    string

	// Public (unsigned) quote and options feed.
	QuoteAPIURL string
}

func Load() *Config {
	cfg := &Config{
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		APIKey:           os.Getenv("RH_API_KEY"),
		SharedSecret:     os.Getenv("RH_SHARED_SECRET"),
		PrivateSeed:      os.Getenv("RH_PRIVATE_SEED"),
		AccountNumber:    os.Getenv("RH_ACCOUNT_NUMBER"),
	}

	if cfg.TelegramBotToken == "" {
		log.Println("Warning: TELEGRAM_BOT_TOKEN not set")
	}
	if cfg.DatabaseURL == "" {
		log.Println("Warning: DATABASE_URL not set, watchlists disabled")
	}
	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, defaulting to localhost:6379")
		cfg.RedisURL = "localhost:6379"
	}

	cfg.HTTPPort = 8080
	if v := strings.TrimSpace(os.Getenv("HTTP_PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HTTPPort = n
		}
	}

	cfg.CryptoBaseURL = strings.TrimSpace(os.Getenv("RH_BASE_URL"))
	if cfg.CryptoBaseURL == "" {
		cfg.CryptoBaseURL = "https://trading.robinhood.com"
	}
	cfg.CryptoBaseURL = strings.TrimRight(cfg.CryptoBaseURL, "/")

	cfg.QuoteAPIURL = strings.TrimSpace(os.Getenv("QUOTE_API_URL"))
	if cfg.QuoteAPIURL == "" {
		cfg.QuoteAPIURL = "https://api.tradier.com"
	}
	cfg.QuoteAPIURL = strings.TrimRight(cfg.QuoteAPIURL, "/")

	cfg.SigningMode = strings.ToLower(strings.TrimSpace(os.Getenv("SIGNING_MODE")))
	if cfg.SigningMode == "" {
		cfg.SigningMode = SigningModeEd25519
	}
	if cfg.SigningMode != SigningModeHMAC && cfg.SigningMode != SigningModeEd25519 {
		log.Printf("Warning: unsupported SIGNING_MODE=%q, defaulting to %s", cfg.SigningMode, SigningModeEd25519)
		cfg.SigningMode = SigningModeEd25519
	}

	cfg.LiveTrading = strings.EqualFold(strings.TrimSpace(os.Getenv("LIVE_TRADING")), "true")

	cfg.MockOrders = strings.ToLower(strings.TrimSpace(os.Getenv("MOCK_ORDER_POLICY")))
	if cfg.MockOrders == "" {
		cfg.MockOrders = MockOrdersSynthetic
	}
	if cfg.MockOrders != MockOrdersSynthetic && cfg.MockOrders != MockOrdersEmpty {
		log.Printf("Warning: unsupported MOCK_ORDER_POLICY=%q, defaulting to %s", cfg.MockOrders, MockOrdersSynthetic)
		cfg.MockOrders = MockOrdersSynthetic
	}

	if cfg.LiveTrading && !cfg.HasCredentials() {
		log.Println("Warning: LIVE_TRADING=true but credentials are incomplete, order listing will fall back to mock data")
	}

	return cfg
}

// HasCredentials reports whether the signing strategy selected by
// SigningMode has the secret material it needs.
func (c *Config) HasCredentials() bool {
	if c.APIKey == "" {
		return false
	}
	if c.SigningMode == SigningModeHMAC {
		return c.SharedSecret != ""
	}
	return c.PrivateSeed != ""
}
