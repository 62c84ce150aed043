package calendar

import (
	"agenda/internal/db"
	"agenda/internal/logger"
	"agenda/internal/metrics"
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const primaryCalendar = "primary"

// Adder is what the booking wizard needs from the integration.
type Adder interface {
	AddToCalendar(ctx context.Context, b db.Booking) bool
}

// Integration inserts a booking into the end user's own calendar. Every
// failure, from configuration to consent to the insert itself, is reported as
// false; nothing is retried and no token survives the call.
type Integration struct {
	loader  *Loader
	summary string
	opts    []option.ClientOption
	metrics *metrics.BookingMetrics
	logger  *zap.Logger
}

// NewIntegration takes extra client options, used to point the API client at
// a different endpoint.
func NewIntegration(loader *Loader, summary string, m *metrics.BookingMetrics, log *zap.Logger, opts ...option.ClientOption) *Integration {
	return &Integration{
		loader:  loader,
		summary: summary,
		opts:    opts,
		metrics: m,
		logger:  logger.OrNop(log),
	}
}

func (i *Integration) AddToCalendar(ctx context.Context, consent Consenter, b db.Booking) bool {
	err := i.insert(ctx, consent, b)
	i.metrics.ObserveCalendar(err == nil)
	if err != nil {
		i.logger.Warn("calendar event not created", zap.String("booking_id", b.ID), zap.Error(err))
		return false
	}
	i.logger.Info("calendar event created", zap.String("booking_id", b.ID))
	return true
}

func (i *Integration) insert(ctx context.Context, consent Consenter, b db.Booking) error {
	cfg, err := i.loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading calendar client: %w", err)
	}
	if consent == nil {
		return ErrConsentDenied
	}
	tok, err := consent.RequestToken(ctx, cfg)
	if err != nil {
		return err
	}
	if tok == nil || tok.AccessToken == "" {
		return errors.New("provider returned no access token")
	}

	event, err := BuildEvent(b, i.summary)
	if err != nil {
		return fmt.Errorf("building event: %w", err)
	}

	opts := append([]option.ClientOption{option.WithHTTPClient(cfg.Client(ctx, tok))}, i.opts...)
	svc, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return fmt.Errorf("creating calendar service: %w", err)
	}
	if _, err := svc.Events.Insert(primaryCalendar, event).Context(ctx).Do(); err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}
	return nil
}

// For binds a consent source, giving the wizard a plain Adder.
func (i *Integration) For(consent Consenter) Adder {
	return boundAdder{integration: i, consent: consent}
}

type boundAdder struct {
	integration *Integration
	consent     Consenter
}

func (a boundAdder) AddToCalendar(ctx context.Context, b db.Booking) bool {
	return a.integration.AddToCalendar(ctx, a.consent, b)
}
