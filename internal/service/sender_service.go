package service

import (
	"agenda/internal/db"
	"agenda/internal/entities"
	"agenda/internal/logger"
	"agenda/internal/utils"
	"bytes"
	"fmt"
	"html/template"
	"sync"
	"time"

	"go.uber.org/zap"
)

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
  <h2>Hola {{.Name}},</h2>
  <p>Recibimos tu solicitud de consulta gratuita.</p>
  <p><strong>Fecha:</strong> {{.DateFormatted}}<br>
     <strong>Hora:</strong> {{.Time}} ({{.Timezone}})<br>
     <strong>Referencia:</strong> {{.BookingID}}</p>
  <p>Te contactaremos para confirmar el enlace de la reunión.</p>
  <p style="color:#888;font-size:12px;">&copy; {{.CurrentYear}} Innova Solutions</p>
</body>
</html>`))

// SenderService sends booking confirmations by email and SMS. Either channel
// may be nil, in which case it is skipped. Sends run in the background and
// their failures are only logged.
type SenderService struct {
	mailer Mailer
	texter Texter
	logger *zap.Logger
	wg     sync.WaitGroup
}

func NewSenderService(mailer Mailer, texter Texter, log *zap.Logger) *SenderService {
	return &SenderService{mailer: mailer, texter: texter, logger: logger.OrNop(log)}
}

func (s *SenderService) BookingCreated(b db.Booking) {
	if s.mailer != nil {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.sendConfirmationEmail(b)
		}()
	}
	if s.texter != nil {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.sendConfirmationSMS(b)
		}()
	}
}

// Wait blocks until every background send has finished.
func (s *SenderService) Wait() {
	s.wg.Wait()
}

func (s *SenderService) sendConfirmationEmail(b db.Booking) {
	data := entities.BookingEmailData{
		Name:          b.Name,
		BookingID:     b.ID,
		DateFormatted: formatBookingDate(b),
		Time:          b.Time,
		Timezone:      b.Timezone,
		CurrentYear:   time.Now().Year(),
	}

	subject := "Recibimos tu solicitud de consulta - Innova Solutions"
	plain := fmt.Sprintf(
		"Hola %s,\n\nRecibimos tu solicitud de consulta gratuita.\n\n"+
			"Fecha: %s\nHora: %s (%s)\nReferencia: %s\n\n"+
			"Te contactaremos para confirmar el enlace de la reunión.\n\nInnova Solutions",
		data.Name, data.DateFormatted, data.Time, data.Timezone, data.BookingID,
	)

	var html bytes.Buffer
	if err := confirmationTemplate.Execute(&html, data); err != nil {
		s.logger.Warn("confirmation template failed", zap.String("booking_id", b.ID), zap.Error(err))
	}

	if err := s.mailer.SendEmail(b.Email, b.Name, subject, plain, html.String()); err != nil {
		s.logger.Error("confirmation email failed", zap.String("booking_id", b.ID), zap.Error(err))
		return
	}
	s.logger.Info("confirmation email sent", zap.String("booking_id", b.ID))
}

func (s *SenderService) sendConfirmationSMS(b db.Booking) {
	msg := fmt.Sprintf("Innova Solutions: recibimos tu solicitud de consulta para el %s a las %s. Te contactaremos pronto.",
		formatBookingDate(b), b.Time)
	if err := s.texter.SendSMS(b.Phone, msg); err != nil {
		s.logger.Error("confirmation SMS failed", zap.String("booking_id", b.ID), zap.Error(err))
		return
	}
	s.logger.Info("confirmation SMS sent", zap.String("booking_id", b.ID))
}

func formatBookingDate(b db.Booking) string {
	d, err := utils.ParseDate(b.Date, time.UTC)
	if err != nil {
		return b.Date
	}
	return d.Format("02/01/2006")
}
