package repository

import (
	"agenda/internal/db"
	"context"
	"database/sql"
	"strconv"
)

type AdminRepository struct {
	DB *sql.DB
}

func NewAdminRepository(db *sql.DB) *AdminRepository {
	return &AdminRepository{DB: db}
}

// ListBookings returns bookings newest first, optionally filtered by
// consultation date and status.
func (r *AdminRepository) ListBookings(ctx context.Context, date, status string) ([]db.Booking, error) {
	query := `
	SELECT id, name, email, phone, date, time, timezone, status, created_at
	FROM bookings
	WHERE 1=1`
	args := []interface{}{}
	idx := 1

	if date != "" {
		query += " AND date = $" + strconv.Itoa(idx)
		args = append(args, date)
		idx++
	}
	if status != "" {
		query += " AND status = $" + strconv.Itoa(idx)
		args = append(args, status)
		idx++
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanBookings(rows)
}
