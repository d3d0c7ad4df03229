package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the handlers need from the environment. It is
// loaded once in main and injected; nothing reads os.Getenv past startup.
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string

	Gateway GatewayConfig

	// MinWithdrawal is the smallest amount a seller may withdraw, in minor units.
	MinWithdrawal int64
}

// GatewayConfig configures the hosted-invoice payment gateway.
type GatewayConfig struct {
	APIURL string
	APIKey string

	// CallbackToken is the shared secret the gateway echoes back in the
	// x-callback-token header on webhook deliveries.
	CallbackToken string

	// RedirectBaseURL is the buyer-facing origin; success/failure redirects
	// point at <base>/invoices/<code> on it.
	RedirectBaseURL string

	Timeout time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		Gateway: GatewayConfig{
			APIURL:          os.Getenv("GATEWAY_API_URL"),
			APIKey:          os.Getenv("GATEWAY_API_KEY"),
			CallbackToken:   os.Getenv("GATEWAY_CALLBACK_TOKEN"),
			RedirectBaseURL: os.Getenv("GATEWAY_REDIRECT_BASE_URL"),
			Timeout:         15 * time.Second,
		},
		MinWithdrawal: 10000,
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			os.Getenv("DB_HOST"), os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_NAME"), getEnv("DB_PORT", "5432"),
		)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}
	if cfg.Gateway.APIURL == "" || cfg.Gateway.APIKey == "" {
		return nil, fmt.Errorf("gateway configuration missing")
	}
	if cfg.Gateway.CallbackToken == "" {
		return nil, fmt.Errorf("GATEWAY_CALLBACK_TOKEN is not set")
	}

	if v := os.Getenv("GATEWAY_TIMEOUT_SECONDS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid GATEWAY_TIMEOUT_SECONDS: %v", err)
		}
		cfg.Gateway.Timeout = time.Duration(secs) * time.Second
	}
	if v := os.Getenv("MIN_WITHDRAWAL"); v != "" {
		min, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid MIN_WITHDRAWAL: %v", err)
		}
		cfg.MinWithdrawal = min
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
