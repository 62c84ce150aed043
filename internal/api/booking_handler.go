package api

import (
	"agenda/internal/db"
	"agenda/internal/entities"
	apperrors "agenda/internal/errors"
	"agenda/internal/logger"
	"agenda/internal/service"
	"agenda/internal/utils"
	"context"
	"net/http"

	"go.uber.org/zap"
)

type BookingCreator interface {
	CreateBooking(ctx context.Context, req entities.BookingRequest) (*db.Booking, error)
}

type BookingHandler struct {
	Service BookingCreator
	logger  *zap.Logger
}

func NewBookingHandler(svc BookingCreator, log *zap.Logger) *BookingHandler {
	return &BookingHandler{Service: svc, logger: logger.OrNop(log)}
}

// CreateBooking answers 200 with the stored booking or 500 with {error}. The
// public contract has no 4xx: validation and store failures look the same to
// the client apart from the message.
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req entities.BookingRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.logger.Warn("invalid booking body", zap.Error(err))
		writeError(w, apperrors.ErrInternal("Invalid request body"))
		return
	}

	booking, err := h.Service.CreateBooking(r.Context(), req)
	if err != nil {
		writeError(w, apperrors.Wrap(http.StatusInternalServerError, service.PublicMessage(err), err))
		return
	}

	writeJSON(w, http.StatusOK, entities.BookingResponse{
		Success: true,
		Message: "Booking created successfully",
		Booking: booking,
	})
}

type slotsResponse struct {
	Slots           []string `json:"slots"`
	DurationMinutes int      `json:"duration_minutes"`
}

func (h *BookingHandler) Slots(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, slotsResponse{
		Slots:           utils.Slots,
		DurationMinutes: int(utils.MeetingDuration.Minutes()),
	})
}
