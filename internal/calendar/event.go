package calendar

import (
	"agenda/internal/db"
	"agenda/internal/utils"
	"fmt"
	"time"

	gcal "google.golang.org/api/calendar/v3"
)

const (
	ReminderDayBefore  = 24 * 60
	ReminderHourBefore = 60
)

// BuildEvent turns a stored booking into the event inserted in the user's
// calendar: a 30 minute meeting in the booking's timezone with popup
// reminders one day and one hour ahead.
func BuildEvent(b db.Booking, summary string) (*gcal.Event, error) {
	loc, err := utils.LoadLocation(b.Timezone, "UTC")
	if err != nil {
		return nil, err
	}
	start, err := utils.SlotStart(b.Date, b.Time, loc)
	if err != nil {
		return nil, err
	}
	end := start.Add(utils.MeetingDuration)

	return &gcal.Event{
		Summary:     summary,
		Description: fmt.Sprintf("Consulta gratuita con %s.\n\nEmail: %s\nTeléfono: %s", b.Name, b.Email, b.Phone),
		Start:       &gcal.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: loc.String()},
		End:         &gcal.EventDateTime{DateTime: end.Format(time.RFC3339), TimeZone: loc.String()},
		Reminders: &gcal.EventReminders{
			UseDefault: false,
			Overrides: []*gcal.EventReminder{
				{Method: "popup", Minutes: ReminderDayBefore},
				{Method: "popup", Minutes: ReminderHourBefore},
			},
			ForceSendFields: []string{"UseDefault"},
		},
	}, nil
}
