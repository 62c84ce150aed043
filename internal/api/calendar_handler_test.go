package api

import (
	"agenda/internal/calendar"
	"agenda/internal/db"
	"agenda/internal/entities"
	"agenda/internal/repository"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
)

type bookingMap map[string]db.Booking

func (m bookingMap) GetBooking(_ context.Context, id string) (*db.Booking, error) {
	b, ok := m[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	return &b, nil
}

type calendarFixture struct {
	handler *CalendarHandler
	signer  *calendar.StateSigner
	inserts *atomic.Int32
	authURL string
}

func newCalendarFixture(t *testing.T) *calendarFixture {
	t.Helper()
	inserts := &atomic.Int32{}
	tokens := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.Form.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"ya29.test","token_type":"Bearer","expires_in":3600}`))
	}))
	events := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inserts.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"evt-1"}`))
	}))
	t.Cleanup(func() {
		tokens.Close()
		events.Close()
	})

	loader := calendar.NewLoader(func(context.Context) (*oauth2.Config, error) {
		return &oauth2.Config{
			ClientID:     "id",
			ClientSecret: "secret",
			RedirectURL:  "https://innova.example/api/calendar/callback",
			Scopes:       []string{calendar.Scope},
			Endpoint:     oauth2.Endpoint{AuthURL: tokens.URL + "/auth", TokenURL: tokens.URL + "/token"},
		}, nil
	})
	integration := calendar.NewIntegration(loader, "Consulta Gratuita - Innova Solutions", nil, nil, option.WithEndpoint(events.URL+"/"))
	signer := calendar.NewStateSigner("s3cret", 10*time.Minute)
	bookings := bookingMap{"b-1": {
		ID: "b-1", Name: "Ana Pérez", Email: "ana@example.com", Phone: "+54 9 11 1234-5678",
		Date: "2026-10-19", Time: "10:00", Timezone: buenosAires, Status: db.StatusPending,
	}}
	org := calendar.Organizer{Name: "Innova Solutions", Email: "contacto@innovasolutions.com"}

	return &calendarFixture{
		handler: NewCalendarHandler(bookings, loader, integration, signer, org, nil),
		signer:  signer,
		inserts: inserts,
		authURL: tokens.URL + "/auth",
	}
}

func get(h http.HandlerFunc, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestConnectRedirectsToConsent(t *testing.T) {
	f := newCalendarFixture(t)

	rec := get(f.handler.Connect, "/api/calendar/connect?booking_id=b-1")

	require.Equal(t, http.StatusFound, rec.Code)
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(loc.String(), f.authURL))
	assert.Equal(t, "consent", loc.Query().Get("prompt"))
	assert.Equal(t, calendar.Scope, loc.Query().Get("scope"))

	id, err := f.signer.Verify(loc.Query().Get("state"))
	require.NoError(t, err)
	assert.Equal(t, "b-1", id)
}

func TestConnectErrors(t *testing.T) {
	f := newCalendarFixture(t)

	assert.Equal(t, http.StatusBadRequest, get(f.handler.Connect, "/api/calendar/connect").Code)
	assert.Equal(t, http.StatusNotFound, get(f.handler.Connect, "/api/calendar/connect?booking_id=nope").Code)

	unconfigured := NewCalendarHandler(bookingMap{"b-1": {ID: "b-1"}}, calendar.NewLoader(calendar.GoogleInit("", "", "")), nil, f.signer, calendar.Organizer{}, nil)
	assert.Equal(t, http.StatusServiceUnavailable, get(unconfigured.Connect, "/api/calendar/connect?booking_id=b-1").Code)
}

func callbackURL(t *testing.T, f *calendarFixture, params url.Values) string {
	t.Helper()
	state, err := f.signer.Sign("b-1")
	require.NoError(t, err)
	params.Set("state", state)
	return "/api/calendar/callback?" + params.Encode()
}

func TestCallbackAddsEvent(t *testing.T) {
	f := newCalendarFixture(t)

	rec := get(f.handler.Callback, callbackURL(t, f, url.Values{"code": {"good-code"}}))

	require.Equal(t, http.StatusOK, rec.Code)
	var res entities.CalendarResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.True(t, res.Success)
	assert.False(t, res.Retry)
	assert.EqualValues(t, 1, f.inserts.Load())
}

func TestCallbackConsentDenied(t *testing.T) {
	f := newCalendarFixture(t)

	rec := get(f.handler.Callback, callbackURL(t, f, url.Values{"error": {"access_denied"}}))

	require.Equal(t, http.StatusBadGateway, rec.Code)
	var res entities.CalendarResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.False(t, res.Success)
	assert.True(t, res.Retry)
	assert.Zero(t, f.inserts.Load())
}

func TestCallbackBadCode(t *testing.T) {
	f := newCalendarFixture(t)

	rec := get(f.handler.Callback, callbackURL(t, f, url.Values{"code": {"expired"}}))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Zero(t, f.inserts.Load())
}

func TestCallbackRejectsForgedState(t *testing.T) {
	f := newCalendarFixture(t)
	forged, err := calendar.NewStateSigner("other", time.Minute).Sign("b-1")
	require.NoError(t, err)

	rec := get(f.handler.Callback, "/api/calendar/callback?code=good-code&state="+url.QueryEscape(forged))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, f.inserts.Load())
}

func TestCreateInvite(t *testing.T) {
	f := newCalendarFixture(t)

	rec := postJSON(t, f.handler.CreateInvite, "/api/calendar-events", entities.CalendarInviteRequest{
		Name: "Ana Pérez", Email: "ana@example.com", DateTime: "2026-10-19T13:00:00Z", Timezone: buenosAires,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp entities.CalendarInviteResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 30, resp.Event.Duration)
	assert.Contains(t, resp.Event.ICSContent, "BEGIN:VCALENDAR")
	assert.Contains(t, resp.Event.ICSContent, "DTSTART:20261019T130000Z")
}

func TestCreateInviteMissingFields(t *testing.T) {
	f := newCalendarFixture(t)

	rec := postJSON(t, f.handler.CreateInvite, "/api/calendar-events", map[string]string{"name": "Ana"})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Missing required fields"}`, rec.Body.String())
}
