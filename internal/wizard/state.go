package wizard

import (
	"agenda/internal/db"
	"agenda/internal/entities"
	"agenda/internal/utils"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrDateNotAllowed    = errors.New("date is in the past or on a weekend")
	ErrSlotNotOffered    = errors.New("time is not an available slot")
	ErrIncompleteContact = errors.New("name, email and phone are required")
)

var validate = validator.New()

// Step numbers the visible steps of the wizard.
type Step int

const (
	StepDate Step = iota + 1
	StepTime
	StepContact
	StepSubmitting
	StepSuccess
	StepError
)

// State is one of DateSelect, TimeSelect, ContactForm, Submitting, Success or
// Error. Each transition is a method on the state it leaves, so a transition
// that makes no sense from a state does not exist there.
type State interface {
	Step() Step
	state()
}

type Contact struct {
	Name  string `validate:"required"`
	Email string `validate:"required,email"`
	Phone string `validate:"required"`
}

func (c Contact) trimmed() Contact {
	return Contact{
		Name:  strings.TrimSpace(c.Name),
		Email: strings.TrimSpace(c.Email),
		Phone: strings.TrimSpace(c.Phone),
	}
}

type DateSelect struct {
	picker Picker
}

func (DateSelect) Step() Step { return StepDate }
func (DateSelect) state() {}

func (s DateSelect) Picker() Picker { return s.picker }

func (s DateSelect) SelectDate(date string) (TimeSelect, error) {
	if !s.picker.Allowed(date) {
		return TimeSelect{}, ErrDateNotAllowed
	}
	return TimeSelect{picker: s.picker, date: date}, nil
}

type TimeSelect struct {
	picker  Picker
	date    string
	contact Contact
}

func (TimeSelect) Step() Step { return StepTime }
func (TimeSelect) state() {}

func (s TimeSelect) Date() string { return s.date }

func (s TimeSelect) Slots() []string { return utils.Slots }

func (s TimeSelect) SelectTime(slot string) (ContactForm, error) {
	if !utils.IsSlot(slot) {
		return ContactForm{}, ErrSlotNotOffered
	}
	return ContactForm{picker: s.picker, date: s.date, time: slot, contact: s.contact}, nil
}

// ChangeDate goes back to date selection; the chosen date and any time are
// dropped.
func (s TimeSelect) ChangeDate() DateSelect {
	return DateSelect{picker: s.picker}
}

type ContactForm struct {
	picker  Picker
	date    string
	time    string
	contact Contact
}

func (ContactForm) Step() Step { return StepContact }
func (ContactForm) state() {}

func (s ContactForm) Date() string { return s.date }
func (s ContactForm) Time() string { return s.time }
func (s ContactForm) Contact() Contact { return s.contact }

func (s ContactForm) WithContact(c Contact) ContactForm {
	s.contact = c
	return s
}

// ChangeTime goes back to time selection, keeping the date and contact
// details but not the slot.
func (s ContactForm) ChangeTime() TimeSelect {
	return TimeSelect{picker: s.picker, date: s.date, contact: s.contact}
}

func (s ContactForm) Submit() (Submitting, error) {
	c := s.contact.trimmed()
	if err := validate.Struct(c); err != nil {
		return Submitting{}, ErrIncompleteContact
	}
	s.contact = c
	return Submitting{form: s}, nil
}

// Request is the payload sent to the booking service.
func (s ContactForm) Request(timezone string) entities.BookingRequest {
	return entities.BookingRequest{
		Name:     s.contact.Name,
		Email:    s.contact.Email,
		Phone:    s.contact.Phone,
		Date:     s.date,
		Time:     s.time,
		Timezone: timezone,
	}
}

// Submitting is held while the booking request is in flight.
type Submitting struct {
	form ContactForm
}

func (Submitting) Step() Step { return StepSubmitting }
func (Submitting) state() {}

func (s Submitting) Form() ContactForm { return s.form }

func (s Submitting) Succeeded(b db.Booking) Success {
	return Success{booking: b}
}

func (s Submitting) Failed(err error) Error {
	return Error{form: s.form, err: err}
}

type Success struct {
	booking  db.Booking
	calendar CalendarStatus
}

func (Success) Step() Step { return StepSuccess }
func (Success) state() {}

func (s Success) Booking() db.Booking { return s.booking }
func (s Success) Calendar() CalendarStatus { return s.calendar }

// CalendarStatus is the outcome of the optional add-to-calendar action.
type CalendarStatus int

const (
	CalendarNotRequested CalendarStatus = iota
	CalendarAdded
	CalendarFailed
)

// Error keeps the submitted form so the user can fix it or resubmit.
type Error struct {
	form ContactForm
	err  error
}

func (Error) Step() Step { return StepError }
func (Error) state() {}

func (s Error) Err() error { return s.err }
func (s Error) Form() ContactForm { return s.form }
func (s Error) Resubmit() (Submitting, error) {
	return s.form.Submit()
}
