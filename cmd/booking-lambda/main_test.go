package main

import (
	"agenda/internal/api"
	"agenda/internal/calendar"
	"agenda/internal/db"
	"agenda/internal/service"
	"context"
	"encoding/base64"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memStore struct {
	mu       sync.Mutex
	bookings []db.Booking
}

func (m *memStore) CreateBooking(_ context.Context, b *db.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings = append(m.bookings, *b)
	return nil
}

func (m *memStore) GetBookingByID(context.Context, string) (*db.Booking, error) {
	return nil, nil
}

func newTestApp(store *memStore) *app {
	svc := service.NewBookingService(store, nil, nil, nil, "America/Argentina/Buenos_Aires", nil)
	return &app{
		bookings: api.NewBookingHandler(svc, nil),
		calendar: api.NewCalendarHandler(svc, nil, nil, nil, calendar.Organizer{Name: "Innova Solutions", Email: "contacto@innovasolutions.com"}, nil),
		logger:   zap.NewNop(),
	}
}

func request(method, path, body string, b64 bool) events.APIGatewayV2HTTPRequest {
	evt := events.APIGatewayV2HTTPRequest{
		RawPath:         path,
		Body:            body,
		IsBase64Encoded: b64,
		Headers:         map[string]string{"content-type": "application/json"},
	}
	evt.RequestContext.HTTP.Method = method
	return evt
}

func weekdayAfterToday() string {
	loc, _ := time.LoadLocation("America/Argentina/Buenos_Aires")
	d := time.Now().In(loc).AddDate(0, 0, 1)
	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, 1)
	}
	return d.Format("2006-01-02")
}

func TestHandlePreflight(t *testing.T) {
	resp, err := newTestApp(&memStore{}).handle(context.Background(), request(http.MethodOptions, "/create-booking", "", false))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
	assert.Equal(t, "authorization, x-client-info, apikey, content-type", resp.Headers["Access-Control-Allow-Headers"])
}

func TestHandleCreateBookingBase64(t *testing.T) {
	store := &memStore{}
	body := `{"name":"Ana Pérez","email":"ana@example.com","phone":"+54 9 11 1234-5678","date":"` + weekdayAfterToday() + `","time":"10:00","timezone":"America/Argentina/Buenos_Aires"}`

	resp, err := newTestApp(store).handle(context.Background(), request(http.MethodPost, "/create-booking", base64.StdEncoding.EncodeToString([]byte(body)), true))

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Body, `"success":true`)
	assert.Equal(t, "application/json", resp.Headers["content-type"])
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
	assert.Len(t, store.bookings, 1)
}

func TestHandleCreateBookingMissingField(t *testing.T) {
	store := &memStore{}
	resp, err := newTestApp(store).handle(context.Background(), request(http.MethodPost, "/bookings", `{"name":"Ana"}`, false))

	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Missing required fields"}`, resp.Body)
	assert.Empty(t, store.bookings)
}

func TestHandleCalendarEvent(t *testing.T) {
	body := `{"name":"Ana Pérez","email":"ana@example.com","dateTime":"2026-10-19T13:00:00Z","timezone":"America/Argentina/Buenos_Aires"}`
	resp, err := newTestApp(&memStore{}).handle(context.Background(), request(http.MethodPost, "/create-calendar-event", body, false))

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Body, "BEGIN:VCALENDAR")
}

func TestHandleRouting(t *testing.T) {
	a := newTestApp(&memStore{})

	resp, err := a.handle(context.Background(), request(http.MethodPost, "/unknown", "{}", false))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = a.handle(context.Background(), request(http.MethodGet, "/create-booking", "", false))
	require.NoError(t, err)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, err = a.handle(context.Background(), request(http.MethodPost, "/create-booking", "%%%", true))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
