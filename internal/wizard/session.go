package wizard

import (
	"agenda/internal/calendar"
	"agenda/internal/db"
	"agenda/internal/entities"
	"agenda/internal/logger"
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

const DefaultResetDelay = 300 * time.Millisecond

var (
	ErrClosed         = errors.New("wizard is closed")
	ErrWrongStep      = errors.New("action not available in the current step")
	ErrSubmitInFlight = errors.New("booking submission already in progress")
	ErrDiscarded      = errors.New("wizard closed before the result arrived")
)

type BookingClient interface {
	CreateBooking(ctx context.Context, req entities.BookingRequest) (*db.Booking, error)
}

type ToastKind int

const (
	ToastSuccess ToastKind = iota
	ToastError
)

// Toast is a transient notification. Retry marks the add-to-calendar failure
// toast, which offers to try again.
type Toast struct {
	Kind    ToastKind
	Title   string
	Message string
	Retry   bool
}

type Options struct {
	Timezone   string
	Location   *time.Location
	Now        func() time.Time
	ResetDelay time.Duration
	// AutoReset, when positive, resets the wizard that long after a
	// successful submission even if the user never closes it.
	AutoReset time.Duration
	Logger    *zap.Logger
}

// Session drives one booking wizard. It is safe for concurrent use; the
// booking and calendar requests run without holding the lock.
type Session struct {
	mu         sync.Mutex
	client     BookingClient
	adder      calendar.Adder
	picker     Picker
	timezone   string
	resetDelay time.Duration
	autoReset  time.Duration
	logger     *zap.Logger

	state      State
	open       bool
	generation uint64
	timer      *time.Timer
	toasts     []Toast
}

// NewSession builds a closed wizard. adder may be nil when calendar
// integration is not offered.
func NewSession(client BookingClient, adder calendar.Adder, opts Options) *Session {
	if opts.ResetDelay <= 0 {
		opts.ResetDelay = DefaultResetDelay
	}
	s := &Session{
		client:     client,
		adder:      adder,
		picker:     NewPicker(opts.Location, opts.Now),
		timezone:   opts.Timezone,
		resetDelay: opts.ResetDelay,
		autoReset:  opts.AutoReset,
		logger:     logger.OrNop(opts.Logger),
	}
	s.state = DateSelect{picker: s.picker}
	return s
}

// Open shows the wizard. A reset still pending from the last close is
// applied first.
func (s *Session) Open() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.open {
		return
	}
	if s.timer != nil && s.timer.Stop() {
		s.resetLocked()
	}
	s.timer = nil
	s.open = true
}

// Close hides the wizard from any step. Input is discarded after the reset
// delay and results of requests still in flight are ignored.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return
	}
	s.open = false
	s.generation++
	s.scheduleResetLocked(s.resetDelay)
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

func (s *Session) Toasts() []Toast {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Toast(nil), s.toasts...)
}

func (s *Session) SelectDate(date string) error {
	return s.transition(func(st State) (State, error) {
		ds, ok := st.(DateSelect)
		if !ok {
			return nil, ErrWrongStep
		}
		return ds.SelectDate(date)
	})
}

func (s *Session) SelectTime(slot string) error {
	return s.transition(func(st State) (State, error) {
		ts, ok := st.(TimeSelect)
		if !ok {
			return nil, ErrWrongStep
		}
		return ts.SelectTime(slot)
	})
}

func (s *Session) ChangeDate() error {
	return s.transition(func(st State) (State, error) {
		ts, ok := st.(TimeSelect)
		if !ok {
			return nil, ErrWrongStep
		}
		return ts.ChangeDate(), nil
	})
}

func (s *Session) ChangeTime() error {
	return s.transition(func(st State) (State, error) {
		switch cur := st.(type) {
		case ContactForm:
			return cur.ChangeTime(), nil
		case Error:
			return cur.Form().ChangeTime(), nil
		}
		return nil, ErrWrongStep
	})
}

// SetContact fills the contact step. Editing after a failed submission goes
// back to the form with the new values.
func (s *Session) SetContact(c Contact) error {
	return s.transition(func(st State) (State, error) {
		switch cur := st.(type) {
		case ContactForm:
			return cur.WithContact(c), nil
		case Error:
			return cur.Form().WithContact(c), nil
		}
		return nil, ErrWrongStep
	})
}

func (s *Session) transition(fn func(State) (State, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return ErrClosed
	}
	next, err := fn(s.state)
	if err != nil {
		return err
	}
	s.state = next
	return nil
}

// Submit sends the booking. While a submission is in flight a second call
// fails with ErrSubmitInFlight. A failure leaves the form intact for an
// immediate resubmission; nothing is retried automatically.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return ErrClosed
	}
	var (
		sub Submitting
		err error
	)
	switch cur := s.state.(type) {
	case ContactForm:
		sub, err = cur.Submit()
	case Error:
		sub, err = cur.Resubmit()
	case Submitting:
		err = ErrSubmitInFlight
	default:
		err = ErrWrongStep
	}
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.state = sub
	gen := s.generation
	s.mu.Unlock()

	booking, reqErr := s.client.CreateBooking(ctx, sub.Form().Request(s.timezone))

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		s.logger.Info("booking result discarded after close", zap.Bool("failed", reqErr != nil))
		return ErrDiscarded
	}
	if reqErr == nil && booking == nil {
		reqErr = errors.New("booking service returned no booking")
	}
	if reqErr != nil {
		s.state = sub.Failed(reqErr)
		s.toasts = append(s.toasts, Toast{
			Kind:    ToastError,
			Title:   "Error",
			Message: "No pudimos agendar tu consulta. Intentá de nuevo.",
		})
		s.logger.Warn("booking submission failed", zap.Error(reqErr))
		return reqErr
	}

	s.state = sub.Succeeded(*booking)
	s.toasts = append(s.toasts, Toast{
		Kind:    ToastSuccess,
		Title:   "¡Consulta agendada!",
		Message: "Te contactaremos para confirmar tu reunión.",
	})
	if s.autoReset > 0 {
		s.scheduleResetLocked(s.autoReset)
	}
	return nil
}

// AddToCalendar asks the calendar integration to insert the confirmed
// meeting. It reports the integration's boolean outcome; the booking itself
// stays successful either way.
func (s *Session) AddToCalendar(ctx context.Context) (bool, error) {
	s.mu.Lock()
	success, ok := s.state.(Success)
	gen := s.generation
	s.mu.Unlock()
	if !ok {
		return false, ErrWrongStep
	}

	added := s.adder != nil && s.adder.AddToCalendar(ctx, success.Booking())

	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.state.(Success)
	if gen != s.generation || !ok || cur.booking.ID != success.booking.ID {
		return added, ErrDiscarded
	}
	if added {
		cur.calendar = CalendarAdded
		s.toasts = append(s.toasts, Toast{
			Kind:    ToastSuccess,
			Title:   "Evento agregado",
			Message: "La reunión se agregó a tu calendario.",
		})
	} else {
		cur.calendar = CalendarFailed
		s.toasts = append(s.toasts, Toast{
			Kind:    ToastError,
			Title:   "Error",
			Message: "No pudimos agregar el evento a tu calendario.",
			Retry:   true,
		})
	}
	s.state = cur
	return added, nil
}

func (s *Session) scheduleResetLocked(d time.Duration) {
	if s.timer != nil {
		s.timer.Stop()
	}
	gen := s.generation
	var t *time.Timer
	t = time.AfterFunc(d, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.timer != t || s.generation != gen {
			return
		}
		s.resetLocked()
		s.timer = nil
	})
	s.timer = t
}

func (s *Session) resetLocked() {
	s.state = DateSelect{picker: s.picker}
}
