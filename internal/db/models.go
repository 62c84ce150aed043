package db

import "time"

const StatusPending = "pending"

// Booking is a requested consultation slot. Date is YYYY-MM-DD, Time one of
// the published slots, Timezone an IANA zone name.
type Booking struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Timezone  string    `json:"timezone"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type Admin struct {
	ID           int
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
