package main

import (
	"agenda/internal/api"
	"agenda/internal/calendar"
	"agenda/internal/config"
	"agenda/internal/db"
	"agenda/internal/logger"
	"agenda/internal/metrics"
	"agenda/internal/repository"
	"agenda/internal/service"
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const consentStateTTL = 10 * time.Minute

func main() {
	godotenv.Load()
	cfg := config.Load()

	zl, err := logger.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zl.Sync()

	if err := cfg.Validate(); err != nil {
		zl.Fatal("invalid configuration", zap.Error(err))
	}

	conn, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		zl.Fatal("failed to open DB", zap.Error(err))
	}
	defer conn.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := conn.PingContext(ctx); err != nil {
		zl.Fatal("failed to connect to DB", zap.Error(err))
	}
	if err := db.EnsureSchema(ctx, conn); err != nil {
		zl.Fatal("failed to prepare schema", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	m := metrics.NewBookingMetrics(registry)

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
	} else {
		zl.Info("sheets webhook not configured, forwarding disabled")
	}

	bookingRepo := repository.NewBookingRepository(conn)
	bookingService := service.NewBookingService(bookingRepo, forwarder, sender, m, cfg.DefaultTimezone, zl)
	authService := service.NewAdminAuthService(repository.NewAdminAuthRepository(conn), cfg.JWTSecret)

	loader := calendar.NewLoader(calendar.GoogleInit(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL))
	if !cfg.CalendarEnabled() {
		zl.Info("google calendar not configured, connect endpoint will answer 503")
	}
	integration := calendar.NewIntegration(loader, cfg.CalendarEventSummary, m, zl)
	organizer := calendar.Organizer{Name: cfg.SendGridFromName, Email: cfg.SendGridFromEmail}

	limiter := api.NewRateLimiter(cfg.BookingRatePerMinute, cfg.BookingRateBurst, cfg.TrustForwardedFor, m, zl)
	router := api.NewRouter(api.Handlers{
		Bookings:  api.NewBookingHandler(bookingService, zl),
		Calendar:  api.NewCalendarHandler(bookingService, loader, integration, calendar.NewStateSigner(cfg.ConsentSecret(), consentStateTTL), organizer, zl),
		AdminAuth: api.NewAdminAuthHandler(authService, zl),
		Admin:     api.NewAdminHandler(repository.NewAdminRepository(conn), zl),
		Limiter:   limiter,
		Metrics:   metrics.Handler(registry),
		JWTSecret: cfg.JWTSecret,
	})

	jobs := cron.New()
	jobService := service.NewJobService(repository.NewJobRepository(conn), mailer, cfg.OperatorEmail, zl)
	if _, err := jobService.Schedule(jobs, cfg.DigestCron); err != nil {
		zl.Fatal("invalid DIGEST_CRON", zap.String("spec", cfg.DigestCron), zap.Error(err))
	}
	if _, err := limiter.Schedule(jobs, 5*time.Minute, 10*time.Minute); err != nil {
		zl.Fatal("scheduling rate limiter sweep", zap.Error(err))
	}
	jobs.Start()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.Wrap(router, cfg.AllowedOrigins, zl),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		zl.Info("server running", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("server shutdown", zap.Error(err))
	}
	<-jobs.Stop().Done()
	sender.Wait()
}
