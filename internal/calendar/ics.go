package calendar

import (
	"agenda/internal/entities"
	"agenda/internal/utils"
	"errors"
	"fmt"
	"strings"
	"time"
)

const icsDateFormat = "20060102T150405Z"

var ErrMissingFields = errors.New("Missing required fields")

var icsEscaper = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\n", `\n`)

// Organizer identifies who sends ICS invites.
type Organizer struct {
	Name  string
	Email string
}

// NewInvite builds the downloadable ICS invite for a consultation starting at
// req.DateTime.
func NewInvite(req entities.CalendarInviteRequest, org Organizer, now time.Time) (*entities.CalendarInvite, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" || email == "" || strings.TrimSpace(req.DateTime) == "" {
		return nil, ErrMissingFields
	}
	start, err := time.Parse(time.RFC3339, req.DateTime)
	if err != nil {
		return nil, fmt.Errorf("invalid dateTime %q: %w", req.DateTime, err)
	}

	return &entities.CalendarInvite{
		Name:       name,
		Email:      email,
		DateTime:   req.DateTime,
		Duration:   int(utils.MeetingDuration / time.Minute),
		ICSContent: renderICS(name, email, start, org, now),
	}, nil
}

func renderICS(name, email string, start time.Time, org Organizer, now time.Time) string {
	end := start.Add(utils.MeetingDuration)
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Innova Solutions//Booking//ES",
		"CALSCALE:GREGORIAN",
		"METHOD:REQUEST",
		"BEGIN:VEVENT",
		fmt.Sprintf("UID:%d-%s", start.Unix(), email),
		"DTSTAMP:" + now.UTC().Format(icsDateFormat),
		"DTSTART:" + start.UTC().Format(icsDateFormat),
		"DTEND:" + end.UTC().Format(icsDateFormat),
		"SUMMARY:" + icsEscaper.Replace("Consulta Gratuita - "+org.Name),
		"DESCRIPTION:" + icsEscaper.Replace(fmt.Sprintf("Reunión de consulta gratuita con %s.\n\nContacto: %s", name, email)),
		"LOCATION:" + icsEscaper.Replace("Google Meet (link a confirmar)"),
		fmt.Sprintf("ORGANIZER;CN=%s:mailto:%s", icsEscaper.Replace(org.Name), org.Email),
		fmt.Sprintf("ATTENDEE;CUTYPE=INDIVIDUAL;ROLE=REQ-PARTICIPANT;PARTSTAT=NEEDS-ACTION;RSVP=TRUE;CN=%s:mailto:%s", icsEscaper.Replace(name), email),
		"STATUS:CONFIRMED",
		"SEQUENCE:0",
		"BEGIN:VALARM",
		"TRIGGER:-PT30M",
		"ACTION:DISPLAY",
		"DESCRIPTION:" + icsEscaper.Replace(fmt.Sprintf("Recordatorio: Consulta con %s en 30 minutos", name)),
		"END:VALARM",
		"END:VEVENT",
		"END:VCALENDAR",
	}
	return strings.Join(lines, "\r\n") + "\r\n"
}
