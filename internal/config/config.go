package config

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port            string
	Env             string
	LogLevel        string
	DatabaseURL     string
	DefaultTimezone string
	AllowedOrigins  []string
	JWTSecret       string

	// Google Sheets webhook; empty disables forwarding
	SheetsWebhookURL string
	WebhookTimeout   time.Duration

	// SendGrid Email Configuration
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	OperatorEmail     string
	DigestCron        string

	// Twilio SMS Configuration
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string

	// Google Calendar OAuth
	GoogleClientID       string
	GoogleClientSecret   string
	GoogleRedirectURL    string
	CalendarEventSummary string
	ConsentStateSecret   string

	BookingRatePerMinute int
	BookingRateBurst     int
	// Key the limiter on X-Forwarded-For; only safe behind a proxy that sets it.
	TrustForwardedFor bool
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		DefaultTimezone: getEnv("DEFAULT_TIMEZONE", "America/Argentina/Buenos_Aires"),
		AllowedOrigins:  getEnvAsList("ALLOWED_ORIGINS", []string{"*"}),
		JWTSecret:       getEnv("JWT_SECRET", ""),

		SheetsWebhookURL: getEnv("GOOGLE_SHEETS_WEBHOOK", ""),
		WebhookTimeout:   getEnvAsDuration("WEBHOOK_TIMEOUT", 10*time.Second),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Innova Solutions"),
		OperatorEmail:     getEnv("OPERATOR_EMAIL", ""),
		DigestCron:        getEnv("DIGEST_CRON", "0 8 * * 1-5"),

		TwilioAccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioFromNumber: getEnv("TWILIO_FROM_NUMBER", ""),

		GoogleClientID:       getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:   getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:    getEnv("GOOGLE_REDIRECT_URL", ""),
		CalendarEventSummary: getEnv("CALENDAR_EVENT_SUMMARY", "Consulta Gratuita - Innova Solutions"),
		ConsentStateSecret:   getEnv("CONSENT_STATE_SECRET", ""),

		BookingRatePerMinute: getEnvAsInt("BOOKING_RATE_PER_MINUTE", 10),
		BookingRateBurst:     getEnvAsInt("BOOKING_RATE_BURST", 5),
		TrustForwardedFor:    getEnvAsBool("TRUST_FORWARDED_FOR", false),
	}
}

// Validate checks the keys the HTTP server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL not set"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET not set"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// CalendarEnabled reports whether the OAuth client is configured.
func (c *Config) CalendarEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.GoogleRedirectURL != ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// ConsentSecret is the key for calendar consent state. Without
// CONSENT_STATE_SECRET it is derived from JWT_SECRET so the two never match.
func (c *Config) ConsentSecret() string {
	if c.ConsentStateSecret != "" {
		return c.ConsentStateSecret
	}
	mac := hmac.New(sha256.New, []byte(c.JWTSecret))
	mac.Write([]byte("calendar-consent-state"))
	return hex.EncodeToString(mac.Sum(nil))
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
