package main

import (
	"agenda/internal/api"
	"agenda/internal/calendar"
	"agenda/internal/config"
	"agenda/internal/logger"
	"agenda/internal/repository"
	"agenda/internal/service"
	"bytes"
	"context"
	"database/sql"
	"encoding/base64"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

type app struct {
	bookings *api.BookingHandler
	calendar *api.CalendarHandler
	// wait blocks until background notifications finish, before the
	// runtime freezes the instance.
	wait   func()
	logger *zap.Logger
}

func main() {
	godotenv.Load()
	cfg := config.Load()

	zl, err := logger.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	if cfg.DatabaseURL == "" {
		zl.Fatal("DATABASE_URL not set")
	}
	conn, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		zl.Fatal("failed to open DB", zap.Error(err))
	}

	var mailer service.Mailer
	if sg := service.NewSendGridMailer(cfg.SendGridAPIKey, cfg.SendGridFromEmail, cfg.SendGridFromName); sg != nil {
		mailer = sg
	}
	var texter service.Texter
	if tw := service.NewTwilioTexter(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber); tw != nil {
		texter = tw
	}
	sender := service.NewSenderService(mailer, texter, zl)

	var forwarder service.Forwarder
	if fwd := service.NewSheetsForwarder(cfg.SheetsWebhookURL, cfg.WebhookTimeout); fwd.Enabled() {
		forwarder = fwd
	}

	svc := service.NewBookingService(repository.NewBookingRepository(conn), forwarder, sender, nil, cfg.DefaultTimezone, zl)
	organizer := calendar.Organizer{Name: cfg.SendGridFromName, Email: cfg.SendGridFromEmail}

	a := &app{
		bookings: api.NewBookingHandler(svc, zl),
		calendar: api.NewCalendarHandler(svc, nil, nil, nil, organizer, zl),
		wait:     sender.Wait,
		logger:   zl,
	}
	lambda.Start(a.handle)
}

func (a *app) handle(ctx context.Context, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	start := time.Now()
	method := strings.ToUpper(strings.TrimSpace(evt.RequestContext.HTTP.Method))
	path := strings.TrimSpace(evt.RawPath)
	if path == "" {
		path = strings.TrimSpace(evt.RequestContext.HTTP.Path)
	}

	if method == http.MethodOptions {
		return withCORS(events.APIGatewayV2HTTPResponse{StatusCode: http.StatusOK, Body: "ok"}), nil
	}

	var handler http.HandlerFunc
	switch path {
	case "/create-booking", "/bookings":
		handler = a.bookings.CreateBooking
	case "/create-calendar-event":
		handler = a.calendar.CreateInvite
	default:
		return withCORS(events.APIGatewayV2HTTPResponse{StatusCode: http.StatusNotFound}), nil
	}
	if method != http.MethodPost {
		return withCORS(events.APIGatewayV2HTTPResponse{StatusCode: http.StatusMethodNotAllowed}), nil
	}

	body, err := decodeBody(evt)
	if err != nil {
		return withCORS(events.APIGatewayV2HTTPResponse{StatusCode: http.StatusBadRequest, Body: `{"error":"Invalid request body"}`}), nil
	}

	req, err := http.NewRequestWithContext(ctx, method, path, bytes.NewReader(body))
	if err != nil {
		return withCORS(events.APIGatewayV2HTTPResponse{StatusCode: http.StatusInternalServerError}), nil
	}
	for k, v := range evt.Headers {
		req.Header.Set(k, v)
	}

	rw := newResponseBuffer()
	handler(rw, req)
	if a.wait != nil {
		a.wait()
	}

	out := events.APIGatewayV2HTTPResponse{
		StatusCode: rw.status,
		Body:       rw.body.String(),
		Headers:    map[string]string{},
	}
	if ct := rw.header.Get("Content-Type"); ct != "" {
		out.Headers["content-type"] = ct
	}
	a.logger.Info("lambda request", zap.String("path", path), zap.Int("status", rw.status), zap.Duration("took", time.Since(start)))
	return withCORS(out), nil
}

func withCORS(resp events.APIGatewayV2HTTPResponse) events.APIGatewayV2HTTPResponse {
	if resp.Headers == nil {
		resp.Headers = map[string]string{}
	}
	resp.Headers["Access-Control-Allow-Origin"] = "*"
	resp.Headers["Access-Control-Allow-Headers"] = strings.Join(api.AllowedHeaders, ", ")
	return resp
}

func decodeBody(evt events.APIGatewayV2HTTPRequest) ([]byte, error) {
	if !evt.IsBase64Encoded {
		return []byte(evt.Body), nil
	}
	return base64.StdEncoding.DecodeString(evt.Body)
}

// responseBuffer collects what an http.Handler writes so it can be returned
// as an API Gateway response.
type responseBuffer struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newResponseBuffer() *responseBuffer {
	return &responseBuffer{header: http.Header{}, status: http.StatusOK}
}

func (r *responseBuffer) Header() http.Header { return r.header }

func (r *responseBuffer) Write(b []byte) (int, error) { return r.body.Write(b) }

func (r *responseBuffer) WriteHeader(status int) { r.status = status }
