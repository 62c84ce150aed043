package entities

import "strings"

type BookingRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	Date     string `json:"date" validate:"required"` // YYYY-MM-DD
	Time     string `json:"time" validate:"required"` // one of utils.Slots
	Timezone string `json:"timezone"`
}

// Normalize trims surrounding whitespace from every field.
func (r BookingRequest) Normalize() BookingRequest {
	return BookingRequest{
		Name:     strings.TrimSpace(r.Name),
		Email:    strings.TrimSpace(r.Email),
		Phone:    strings.TrimSpace(r.Phone),
		Date:     strings.TrimSpace(r.Date),
		Time:     strings.TrimSpace(r.Time),
		Timezone: strings.TrimSpace(r.Timezone),
	}
}
