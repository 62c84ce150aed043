package api

import (
	"agenda/internal/db"
	apperrors "agenda/internal/errors"
	"agenda/internal/logger"
	"agenda/internal/utils"
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type BookingLister interface {
	ListBookings(ctx context.Context, date, status string) ([]db.Booking, error)
}

type AdminHandler struct {
	Repo   BookingLister
	logger *zap.Logger
}

func NewAdminHandler(repo BookingLister, log *zap.Logger) *AdminHandler {
	return &AdminHandler{Repo: repo, logger: logger.OrNop(log)}
}

func (h *AdminHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	status := r.URL.Query().Get("status")
	if date != "" {
		if _, err := utils.ParseDate(date, time.UTC); err != nil {
			writeError(w, apperrors.ErrBadRequest("Invalid date, expected YYYY-MM-DD"))
			return
		}
	}

	bookings, err := h.Repo.ListBookings(r.Context(), date, status)
	if err != nil {
		h.logger.Error("listing bookings", zap.Error(err))
		writeError(w, apperrors.ErrInternal("Database error"))
		return
	}
	if bookings == nil {
		bookings = []db.Booking{}
	}
	writeJSON(w, http.StatusOK, bookings)
}
