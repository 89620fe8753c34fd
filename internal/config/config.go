package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

const defaultJWTTTL = "24h"

// Config is loaded once at startup. Every processor credential is required:
// a marketplace that cannot sign webhooks or create payment intents must
// refuse to start rather than degrade silently.
type Config struct {
	DatabaseURL string
	JWTSecret   string
	JWTTTL      time.Duration

	StripeSecretKey      string
	StripePublishableKey string
	StripeWebhookSecret  string

	AppBaseURL string
}

func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:          strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:            strings.TrimSpace(os.Getenv("JWT_SECRET")),
		StripeSecretKey:      strings.TrimSpace(os.Getenv("STRIPE_SECRET_KEY")),
		StripePublishableKey: strings.TrimSpace(os.Getenv("STRIPE_PUBLISHABLE_KEY")),
		StripeWebhookSecret:  strings.TrimSpace(os.Getenv("STRIPE_WEBHOOK_SECRET")),
		AppBaseURL:           strings.TrimSpace(os.Getenv("APP_BASE_URL")),
	}

	required := map[string]string{
		"DATABASE_URL":           cfg.DatabaseURL,
		"JWT_SECRET":             cfg.JWTSecret,
		"STRIPE_SECRET_KEY":      cfg.StripeSecretKey,
		"STRIPE_PUBLISHABLE_KEY": cfg.StripePublishableKey,
		"STRIPE_WEBHOOK_SECRET":  cfg.StripeWebhookSecret,
		"APP_BASE_URL":           cfg.AppBaseURL,
	}
	var missing []string
	for name, v := range required {
		if v == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("missing required environment: %s", strings.Join(missing, ", "))
	}
	cfg.AppBaseURL = strings.TrimRight(cfg.AppBaseURL, "/")

	ttlRaw := os.Getenv("JWT_TTL")
	if ttlRaw == "" {
		ttlRaw = defaultJWTTTL
	}
	ttl, err := time.ParseDuration(ttlRaw)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL %q: %w", ttlRaw, err)
	}
	cfg.JWTTTL = ttl

	return cfg, nil
}
