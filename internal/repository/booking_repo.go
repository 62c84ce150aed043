package repository

import (
	"agenda/internal/db"
	"agenda/internal/utils"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrBookingNotFound = errors.New("booking not found")

type BookingRepository struct {
	DB *sql.DB
}

func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{DB: db}
}

// CreateBooking inserts b and fills in the server-assigned created_at.
func (r *BookingRepository) CreateBooking(ctx context.Context, b *db.Booking) error {
	query := `
		INSERT INTO bookings (id, name, email, phone, date, time, timezone, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`
	err := r.DB.QueryRowContext(ctx, query,
		b.ID,
		b.Name,
		b.Email,
		b.Phone,
		b.Date,
		b.Time,
		b.Timezone,
		b.Status,
	).Scan(&b.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting booking: %w", err)
	}
	return nil
}

// GetBookingByID returns ErrBookingNotFound for ids that are not UUIDs
// without querying, since the column would reject them.
func (r *BookingRepository) GetBookingByID(ctx context.Context, id string) (*db.Booking, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("booking %q: %w", id, ErrBookingNotFound)
	}
	query := `
		SELECT id, name, email, phone, date, time, timezone, status, created_at
		FROM bookings WHERE id = $1`
	b, err := scanBooking(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("booking %s: %w", id, ErrBookingNotFound)
		}
		return nil, fmt.Errorf("error querying booking: %w", err)
	}
	return b, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*db.Booking, error) {
	var (
		b    db.Booking
		date time.Time
	)
	if err := row.Scan(&b.ID, &b.Name, &b.Email, &b.Phone, &date, &b.Time, &b.Timezone, &b.Status, &b.CreatedAt); err != nil {
		return nil, err
	}
	b.Date = date.Format(utils.DateLayout)
	return &b, nil
}

func scanBookings(rows *sql.Rows) ([]db.Booking, error) {
	defer rows.Close()

	var bookings []db.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return bookings, nil
}
