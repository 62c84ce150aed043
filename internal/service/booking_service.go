package service

import (
	"agenda/internal/db"
	"agenda/internal/entities"
	"agenda/internal/logger"
	"agenda/internal/metrics"
	"agenda/internal/utils"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	msgMissingFields = "Missing required fields"
	msgSaveFailed    = "Failed to save booking"
)

var (
	ErrValidation  = errors.New("invalid booking")
	ErrPersistence = errors.New("booking store failure")
)

// ValidationError carries the client-facing reason a submission was rejected.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

type BookingStore interface {
	CreateBooking(ctx context.Context, b *db.Booking) error
	GetBookingByID(ctx context.Context, id string) (*db.Booking, error)
}

type Forwarder interface {
	Forward(ctx context.Context, row entities.SheetRow) ForwardResult
}

// Notifier is told about every stored booking. Implementations must not block.
type Notifier interface {
	BookingCreated(b db.Booking)
}

type BookingService struct {
	Repo      BookingStore
	forwarder Forwarder
	notifier  Notifier
	metrics   *metrics.BookingMetrics
	logger    *zap.Logger
	validate  *validator.Validate
	defaultTZ string
	now       func() time.Time
}

// NewBookingService wires the store with its optional side effects; forwarder
// and notifier may be nil.
func NewBookingService(repo BookingStore, forwarder Forwarder, notifier Notifier, m *metrics.BookingMetrics, defaultTZ string, log *zap.Logger) *BookingService {
	return &BookingService{
		Repo:      repo,
		forwarder: forwarder,
		notifier:  notifier,
		metrics:   m,
		logger:    logger.OrNop(log),
		validate:  validator.New(),
		defaultTZ: defaultTZ,
		now:       time.Now,
	}
}

// CreateBooking validates and stores one pending booking, then forwards it to
// the spreadsheet webhook and the notifier. Neither side effect can fail the
// call once the row is stored. Identical submissions create distinct rows.
func (s *BookingService) CreateBooking(ctx context.Context, req entities.BookingRequest) (*db.Booking, error) {
	req = req.Normalize()
	s.logger.Info("creating booking",
		zap.String("email", req.Email),
		zap.String("date", req.Date),
		zap.String("time", req.Time),
		zap.String("timezone", req.Timezone),
	)

	loc, err := s.checkRequest(req)
	if err != nil {
		s.metrics.ObserveBooking("invalid")
		s.logger.Warn("booking rejected", zap.Error(err))
		return nil, err
	}

	booking := &db.Booking{
		ID:       uuid.NewString(),
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Date:     req.Date,
		Time:     req.Time,
		Timezone: loc.String(),
		Status:   db.StatusPending,
	}
	if err := s.Repo.CreateBooking(ctx, booking); err != nil {
		s.metrics.ObserveBooking("store_error")
		s.logger.Error("database error", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	s.metrics.ObserveBooking("created")
	s.logger.Info("booking saved", zap.String("booking_id", booking.ID))

	s.forward(context.WithoutCancel(ctx), *booking)
	if s.notifier != nil {
		s.notifier.BookingCreated(*booking)
	}
	return booking, nil
}

// PublicMessage is the text a client is shown for a CreateBooking error.
func PublicMessage(err error) string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	return msgSaveFailed
}

func (s *BookingService) GetBooking(ctx context.Context, id string) (*db.Booking, error) {
	return s.Repo.GetBookingByID(ctx, id)
}

func (s *BookingService) checkRequest(req entities.BookingRequest) (*time.Location, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, &ValidationError{Message: msgMissingFields}
	}
	loc, err := utils.LoadLocation(req.Timezone, s.defaultTZ)
	if err != nil {
		return nil, &ValidationError{Message: "Invalid timezone"}
	}
	date, err := utils.ParseDate(req.Date, loc)
	if err != nil {
		return nil, &ValidationError{Message: "Invalid date format, expected YYYY-MM-DD"}
	}
	if utils.IsPast(date, s.now()) {
		return nil, &ValidationError{Message: "Date cannot be in the past"}
	}
	if utils.IsWeekend(date) {
		return nil, &ValidationError{Message: "Bookings are not available on weekends"}
	}
	if !utils.IsSlot(req.Time) {
		return nil, &ValidationError{Message: "Time is not an available slot"}
	}
	return loc, nil
}

func (s *BookingService) forward(ctx context.Context, b db.Booking) {
	if s.forwarder == nil {
		s.metrics.ObserveWebhook("disabled")
		return
	}
	res := s.forwarder.Forward(ctx, entities.SheetRow{
		Name:      b.Name,
		Email:     b.Email,
		Phone:     b.Phone,
		Date:      b.Date,
		Time:      b.Time,
		Timezone:  b.Timezone,
		CreatedAt: s.now().UTC(),
	})
	switch {
	case !res.Attempted:
		s.metrics.ObserveWebhook("disabled")
	case res.Failed():
		s.metrics.ObserveWebhook("failed")
		s.logger.Error("sheets webhook error",
			zap.String("booking_id", b.ID),
			zap.Int("status", res.StatusCode),
			zap.Error(res.Err),
		)
	default:
		s.metrics.ObserveWebhook("delivered")
		s.logger.Info("booking sent to sheets", zap.String("booking_id", b.ID))
	}
}
