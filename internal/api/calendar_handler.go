package api

import (
	"agenda/internal/calendar"
	"agenda/internal/db"
	"agenda/internal/entities"
	apperrors "agenda/internal/errors"
	"agenda/internal/logger"
	"agenda/internal/repository"
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	msgCalendarAdded = "Evento agregado a tu calendario"
	msgCalendarRetry = "No pudimos agregar el evento a tu calendario. Intentá de nuevo."
)

type BookingReader interface {
	GetBooking(ctx context.Context, id string) (*db.Booking, error)
}

type CalendarHandler struct {
	bookings    BookingReader
	loader      *calendar.Loader
	integration *calendar.Integration
	states      *calendar.StateSigner
	organizer   calendar.Organizer
	now         func() time.Time
	logger      *zap.Logger
}

func NewCalendarHandler(bookings BookingReader, loader *calendar.Loader, integration *calendar.Integration, states *calendar.StateSigner, org calendar.Organizer, log *zap.Logger) *CalendarHandler {
	return &CalendarHandler{
		bookings:    bookings,
		loader:      loader,
		integration: integration,
		states:      states,
		organizer:   org,
		now:         time.Now,
		logger:      logger.OrNop(log),
	}
}

// Connect sends the browser to the provider's consent screen for one booking.
func (h *CalendarHandler) Connect(w http.ResponseWriter, r *http.Request) {
	bookingID := r.URL.Query().Get("booking_id")
	if bookingID == "" {
		writeError(w, apperrors.ErrBadRequest("booking_id required"))
		return
	}
	if _, herr := h.booking(r.Context(), bookingID); herr != nil {
		writeError(w, herr)
		return
	}

	cfg, err := h.loader.Load(r.Context())
	if err != nil {
		h.logger.Warn("calendar connect unavailable", zap.Error(err))
		writeError(w, apperrors.Wrap(http.StatusServiceUnavailable, "Calendar integration not available", err))
		return
	}
	state, err := h.states.Sign(bookingID)
	if err != nil {
		h.logger.Error("signing consent state", zap.Error(err))
		writeError(w, apperrors.ErrInternal("Could not start calendar consent"))
		return
	}
	http.Redirect(w, r, calendar.ConsentURL(cfg, state), http.StatusFound)
}

// Callback completes the consent round trip and inserts the event. A denied
// consent is reported exactly like a failed insert.
func (h *CalendarHandler) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	bookingID, err := h.states.Verify(q.Get("state"))
	if err != nil {
		h.logger.Warn("calendar callback with bad state", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, entities.CalendarResult{Message: "Invalid state"})
		return
	}
	booking, herr := h.booking(r.Context(), bookingID)
	if herr != nil {
		writeError(w, herr)
		return
	}

	var consent calendar.Consenter = calendar.CodeExchange{Code: q.Get("code")}
	if reason := q.Get("error"); reason != "" {
		consent = calendar.Denied{Reason: reason}
	}

	if !h.integration.AddToCalendar(r.Context(), consent, *booking) {
		writeJSON(w, http.StatusBadGateway, entities.CalendarResult{Retry: true, Message: msgCalendarRetry})
		return
	}
	writeJSON(w, http.StatusOK, entities.CalendarResult{Success: true, Message: msgCalendarAdded})
}

// CreateInvite returns a downloadable ICS invite for a consultation.
func (h *CalendarHandler) CreateInvite(w http.ResponseWriter, r *http.Request) {
	var req entities.CalendarInviteRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, apperrors.ErrInternal("Invalid request body"))
		return
	}

	invite, err := calendar.NewInvite(req, h.organizer, h.now())
	if err != nil {
		h.logger.Warn("calendar invite rejected", zap.Error(err))
		msg := "Invalid dateTime"
		if errors.Is(err, calendar.ErrMissingFields) {
			msg = err.Error()
		}
		writeError(w, apperrors.Wrap(http.StatusInternalServerError, msg, err))
		return
	}

	h.logger.Info("calendar invite created", zap.String("email", invite.Email), zap.String("date_time", invite.DateTime))
	writeJSON(w, http.StatusOK, entities.CalendarInviteResponse{
		Success: true,
		Message: "Calendar event created successfully",
		Event:   *invite,
	})
}

func (h *CalendarHandler) booking(ctx context.Context, id string) (*db.Booking, *apperrors.HTTPError) {
	b, err := h.bookings.GetBooking(ctx, id)
	if errors.Is(err, repository.ErrBookingNotFound) {
		return nil, apperrors.ErrNotFound("Booking not found")
	}
	if err != nil {
		h.logger.Error("loading booking", zap.String("booking_id", id), zap.Error(err))
		return nil, apperrors.ErrInternal("Database error")
	}
	return b, nil
}
