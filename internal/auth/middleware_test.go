package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestAdminAuthMiddleware(t *testing.T) {
	var seen string
	h := AdminAuthMiddleware("s3cret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = AdminEmail(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	exp := time.Now().Add(time.Hour).Unix()
	valid := sign(t, "s3cret", jwt.MapClaims{"email": "ops@innova.example", "aud": AdminAudience, "exp": exp})
	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid", "Bearer " + valid, http.StatusNoContent},
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + sign(t, "other", jwt.MapClaims{"aud": AdminAudience, "exp": exp}), http.StatusUnauthorized},
		{"expired", "Bearer " + sign(t, "s3cret", jwt.MapClaims{"aud": AdminAudience, "exp": time.Now().Add(-time.Minute).Unix()}), http.StatusUnauthorized},
		{"no exp", "Bearer " + sign(t, "s3cret", jwt.MapClaims{"email": "x", "aud": AdminAudience}), http.StatusUnauthorized},
		{"no audience", "Bearer " + sign(t, "s3cret", jwt.MapClaims{"email": "x", "exp": exp}), http.StatusUnauthorized},
		{"other audience", "Bearer " + sign(t, "s3cret", jwt.MapClaims{"sub": "b-1", "aud": []string{"calendar-consent"}, "exp": exp}), http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/bookings", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
	assert.Equal(t, "ops@innova.example", seen)
}

func TestAdminAuthMiddlewareWithoutSecret(t *testing.T) {
	h := AdminAuthMiddleware("")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))
	req := httptest.NewRequest(http.MethodGet, "/admin/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+sign(t, "s3cret", jwt.MapClaims{"aud": AdminAudience, "exp": time.Now().Add(time.Hour).Unix()}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
