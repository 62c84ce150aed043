package service

import (
	"agenda/internal/db"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type sentEmail struct {
	to, name, subject, plain, html string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (m *fakeMailer) SendEmail(toEmail, toName, subject, plainText, html string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentEmail{toEmail, toName, subject, plainText, html})
	return m.err
}

type fakeTexter struct {
	mu   sync.Mutex
	to   []string
	body []string
	err  error
}

func (f *fakeTexter) SendSMS(toNumber, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.to = append(f.to, toNumber)
	f.body = append(f.body, body)
	return f.err
}

var sampleBooking = db.Booking{
	ID:       "b-1",
	Name:     "Ana Pérez",
	Email:    "ana@example.com",
	Phone:    "+54 9 11 1234-5678",
	Date:     "2026-10-19",
	Time:     "10:00",
	Timezone: "America/Argentina/Buenos_Aires",
	Status:   db.StatusPending,
}

func TestBookingCreatedSendsBothChannels(t *testing.T) {
	mailer := &fakeMailer{}
	texter := &fakeTexter{}
	s := NewSenderService(mailer, texter, nil)

	s.BookingCreated(sampleBooking)
	s.Wait()

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "ana@example.com", mailer.sent[0].to)
	assert.Contains(t, mailer.sent[0].plain, "19/10/2026")
	assert.Contains(t, mailer.sent[0].html, "Hola Ana Pérez")
	require.Len(t, texter.to, 1)
	assert.Equal(t, "+54 9 11 1234-5678", texter.to[0])
	assert.Contains(t, texter.body[0], "10:00")
}

func TestBookingCreatedSkipsMissingChannels(t *testing.T) {
	s := NewSenderService(nil, nil, nil)
	s.BookingCreated(sampleBooking)
	s.Wait()
}

func TestBookingCreatedLogsFailures(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s := NewSenderService(&fakeMailer{err: errors.New("quota")}, &fakeTexter{err: errors.New("unreachable")}, zap.New(core))

	s.BookingCreated(sampleBooking)
	s.Wait()

	assert.Equal(t, 1, logs.FilterMessage("confirmation email failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("confirmation SMS failed").Len())
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "+5491112345678", normalizePhone("+54 9 11 1234-5678"))
	assert.Equal(t, "1155550000", normalizePhone("(11) 5555-0000"))
	assert.Equal(t, "", normalizePhone("  "))
}

func TestNewSendersRequireCredentials(t *testing.T) {
	assert.Nil(t, NewSendGridMailer("", "from@innova.example", "Innova"))
	assert.NotNil(t, NewSendGridMailer("SG.key", "from@innova.example", "Innova"))
	assert.Nil(t, NewTwilioTexter("AC123", "", "+15550000000"))
	assert.NotNil(t, NewTwilioTexter("AC123", "token", "+15550000000"))
}

func TestTwilioTexterRejectsLocalNumbers(t *testing.T) {
	texter := NewTwilioTexter("AC123", "token", "+15550000000")
	err := texter.SendSMS("11 5555-0000", "hola")
	assert.ErrorContains(t, err, "E.164")
}
