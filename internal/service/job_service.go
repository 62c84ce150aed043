package service

import (
	"agenda/internal/db"
	"agenda/internal/logger"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const digestTimeout = time.Minute

type RecentBookings interface {
	ListBookingsCreatedSince(ctx context.Context, since time.Time) ([]db.Booking, error)
}

type JobService struct {
	Repo          RecentBookings
	mailer        Mailer
	operatorEmail string
	logger        *zap.Logger
	now           func() time.Time
}

func NewJobService(repo RecentBookings, mailer Mailer, operatorEmail string, log *zap.Logger) *JobService {
	return &JobService{
		Repo:          repo,
		mailer:        mailer,
		operatorEmail: operatorEmail,
		logger:        logger.OrNop(log),
		now:           time.Now,
	}
}

// SendDailyDigest emails the operator every booking created in the last 24
// hours. It does nothing when there is no mailer, no operator address or no
// new bookings.
func (s *JobService) SendDailyDigest(ctx context.Context) error {
	if s.mailer == nil || s.operatorEmail == "" {
		s.logger.Debug("digest skipped: mailer or operator email not configured")
		return nil
	}

	since := s.now().Add(-24 * time.Hour)
	bookings, err := s.Repo.ListBookingsCreatedSince(ctx, since)
	if err != nil {
		return fmt.Errorf("digest: failed to list recent bookings: %w", err)
	}
	if len(bookings) == 0 {
		s.logger.Info("digest: no new bookings")
		return nil
	}

	subject := fmt.Sprintf("%d nuevas solicitudes de consulta", len(bookings))
	body := digestBody(bookings)
	if err := s.mailer.SendEmail(s.operatorEmail, "", subject, body, ""); err != nil {
		return fmt.Errorf("digest: failed to send email: %w", err)
	}
	s.logger.Info("digest sent", zap.Int("bookings", len(bookings)))
	return nil
}

// Schedule registers the daily digest on c under the given cron spec.
func (s *JobService) Schedule(c *cron.Cron, spec string) (cron.EntryID, error) {
	return c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), digestTimeout)
		defer cancel()
		if err := s.SendDailyDigest(ctx); err != nil {
			s.logger.Error("digest job failed", zap.Error(err))
		}
	})
}

func digestBody(bookings []db.Booking) string {
	var b strings.Builder
	b.WriteString("Solicitudes recibidas en las últimas 24 horas:\n\n")
	for _, bk := range bookings {
		fmt.Fprintf(&b, "- %s %s (%s) | %s | %s | %s\n", bk.Date, bk.Time, bk.Timezone, bk.Name, bk.Email, bk.Phone)
	}
	return b.String()
}
