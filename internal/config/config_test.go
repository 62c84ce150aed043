package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "GOOGLE_SHEETS_WEBHOOK", "WEBHOOK_TIMEOUT", "ALLOWED_ORIGINS", "BOOKING_RATE_BURST", "TRUST_FORWARDED_FOR"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Empty(t, cfg.SheetsWebhookURL)
	assert.Equal(t, 10*time.Second, cfg.WebhookTimeout)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, 5, cfg.BookingRateBurst)
	assert.Equal(t, "America/Argentina/Buenos_Aires", cfg.DefaultTimezone)
	assert.False(t, cfg.TrustForwardedFor)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GOOGLE_SHEETS_WEBHOOK", "https://script.google.com/macros/s/abc/exec")
	t.Setenv("WEBHOOK_TIMEOUT", "3s")
	t.Setenv("ALLOWED_ORIGINS", "https://innova.example, https://www.innova.example ,")
	t.Setenv("BOOKING_RATE_BURST", "not-a-number")
	t.Setenv("TRUST_FORWARDED_FOR", "true")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "https://script.google.com/macros/s/abc/exec", cfg.SheetsWebhookURL)
	assert.Equal(t, 3*time.Second, cfg.WebhookTimeout)
	assert.Equal(t, []string{"https://innova.example", "https://www.innova.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 5, cfg.BookingRateBurst)
	assert.True(t, cfg.TrustForwardedFor)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	assert.ErrorContains(t, err, "DATABASE_URL")
	assert.ErrorContains(t, err, "JWT_SECRET")

	cfg = &Config{DatabaseURL: "postgres://localhost/agenda", JWTSecret: "s3cret"}
	assert.NoError(t, cfg.Validate())
}

func TestCalendarEnabled(t *testing.T) {
	cfg := &Config{GoogleClientID: "id", GoogleClientSecret: "secret"}
	assert.False(t, cfg.CalendarEnabled())
	cfg.GoogleRedirectURL = "https://innova.example/api/calendar/callback"
	assert.True(t, cfg.CalendarEnabled())
}

func TestConsentSecret(t *testing.T) {
	cfg := &Config{JWTSecret: "s3cret"}
	derived := cfg.ConsentSecret()
	assert.NotEmpty(t, derived)
	assert.NotEqual(t, cfg.JWTSecret, derived)
	assert.Equal(t, derived, cfg.ConsentSecret())

	cfg.ConsentStateSecret = "consent"
	assert.Equal(t, "consent", cfg.ConsentSecret())
}
