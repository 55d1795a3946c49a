package config

import (
	"os"
	"strconv"
	"time"
)

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
	// PriceIDs maps a plan tier to its Stripe price.
	PriceIDs map[string]string
}

type EmailConfig struct {
	APIKey      string
	FromAddress string
	FromName    string
}

type BoothConfig struct {
	// JoinBaseURL is the attendee web runtime the QR codes point at,
	// e.g. "https://pixbooth.app/e/".
	JoinBaseURL string
	// GalleryGraceDays is how long a gallery stays downloadable after the
	// event expires.
	GalleryGraceDays int
	// ArchiveMaxAge is the freshness window for a cached ZIP album.
	ArchiveMaxAge time.Duration
	// ArchiveURLTTL is the validity of presigned album download URLs.
	ArchiveURLTTL time.Duration
	// CleanupInterval is the period of the purge scheduler.
	CleanupInterval time.Duration
	// CleanupLogRetentionDays bounds the cleanup audit tables; 0 keeps
	// rows forever.
	CleanupLogRetentionDays int
	// ExpiryWarningDays is how far ahead of gallery expiry the warning
	// email goes out.
	ExpiryWarningDays int
}

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	JWTSecret   string
	JWTIssuer   string
	R2          R2Config
	Stripe      StripeConfig
	Email       EmailConfig
	Booth       BoothConfig
}

func LoadConfig() *Config {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("APP_ENV", "production"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		JWTIssuer:   getEnv("JWT_ISSUER", "pixbooth"),
	}

	cfg.R2.AccountID = os.Getenv("R2_ACCOUNT_ID")
	cfg.R2.AccessKeyID = os.Getenv("R2_ACCESS_KEY_ID")
	cfg.R2.SecretAccessKey = os.Getenv("R2_SECRET_ACCESS_KEY")
	cfg.R2.Bucket = os.Getenv("R2_BUCKET")

	cfg.Stripe.SecretKey = os.Getenv("STRIPE_SECRET_KEY")
	cfg.Stripe.WebhookSecret = os.Getenv("STRIPE_WEBHOOK_SECRET")
	cfg.Stripe.SuccessURL = getEnv("STRIPE_SUCCESS_URL", "https://pixbooth.app/checkout/success?session_id={CHECKOUT_SESSION_ID}")
	cfg.Stripe.CancelURL = getEnv("STRIPE_CANCEL_URL", "https://pixbooth.app/checkout/cancel")
	cfg.Stripe.PriceIDs = map[string]string{
		"basic":   os.Getenv("STRIPE_PRICE_BASIC"),
		"pro":     os.Getenv("STRIPE_PRICE_PRO"),
		"premium": os.Getenv("STRIPE_PRICE_PREMIUM"),
	}

	cfg.Email.APIKey = os.Getenv("RESEND_API_KEY")
	cfg.Email.FromAddress = getEnv("EMAIL_FROM_ADDRESS", "hello@pixbooth.app")
	cfg.Email.FromName = getEnv("EMAIL_FROM_NAME", "PixBooth")

	cfg.Booth.JoinBaseURL = getEnv("BOOTH_JOIN_BASE_URL", "https://pixbooth.app/e/")
	cfg.Booth.GalleryGraceDays = getEnvInt("GALLERY_GRACE_DAYS", 15)
	cfg.Booth.ArchiveMaxAge = getEnvDuration("ARCHIVE_MAX_AGE", 24*time.Hour)
	cfg.Booth.ArchiveURLTTL = getEnvDuration("ARCHIVE_URL_TTL", 24*time.Hour)
	cfg.Booth.CleanupInterval = getEnvDuration("CLEANUP_INTERVAL", 24*time.Hour)
	cfg.Booth.CleanupLogRetentionDays = getEnvInt("CLEANUP_LOG_RETENTION_DAYS", 90)
	cfg.Booth.ExpiryWarningDays = getEnvInt("EXPIRY_WARNING_DAYS", 3)

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
