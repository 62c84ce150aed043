package repository

import (
	"agenda/internal/db"
	"context"
	"database/sql"
	"fmt"
	"time"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{DB: db}
}

// ListBookingsCreatedSince returns bookings created at or after since, oldest first.
func (r *JobRepository) ListBookingsCreatedSince(ctx context.Context, since time.Time) ([]db.Booking, error) {
	query := `
		SELECT id, name, email, phone, date, time, timezone, status, created_at
		FROM bookings
		WHERE created_at >= $1
		ORDER BY created_at`
	rows, err := r.DB.QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("error querying bookings created since %s: %w", since.Format(time.RFC3339), err)
	}
	return scanBookings(rows)
}
