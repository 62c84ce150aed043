package entities

import "agenda/internal/db"

type BookingResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Booking *db.Booking `json:"booking,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
