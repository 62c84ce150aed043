package service

import (
	"agenda/internal/entities"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func TestForwardDisabledWithoutURL(t *testing.T) {
	f := NewSheetsForwarder("", time.Second)
	res := f.Forward(context.Background(), entities.SheetRow{Name: "Ana"})

	assert.False(t, f.Enabled())
	assert.False(t, res.Attempted)
	assert.False(t, res.Failed())
}

func TestForwardDelivered(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, decodeJSON(r, &body))
		w.Write([]byte(`{"result":"success"}`))
	}))
	defer srv.Close()

	created := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	res := NewSheetsForwarder(srv.URL, time.Second).Forward(context.Background(), entities.SheetRow{
		Name: "Ana", Email: "ana@example.com", Phone: "1", Date: "2026-10-19", Time: "10:00",
		Timezone: "UTC", CreatedAt: created,
	})

	assert.True(t, res.Delivered)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.NoError(t, res.Err)
	assert.Equal(t, "2026-10-16T12:00:00Z", body["created_at"])
	assert.Equal(t, "UTC", body["timezone"])
}

func TestForwardNon2xxIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	res := NewSheetsForwarder(srv.URL, time.Second).Forward(context.Background(), entities.SheetRow{})
	assert.True(t, res.Failed())
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.ErrorContains(t, res.Err, "status 500")
}

func TestForwardTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	res := NewSheetsForwarder(srv.URL, 50*time.Millisecond).Forward(context.Background(), entities.SheetRow{})
	assert.True(t, res.Failed())
	assert.Error(t, res.Err)
}
