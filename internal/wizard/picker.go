package wizard

import (
	"agenda/internal/utils"
	"time"
)

// Picker decides which calendar days can be chosen: today onwards, Monday to
// Friday, in the user's timezone.
type Picker struct {
	loc *time.Location
	now func() time.Time
}

func NewPicker(loc *time.Location, now func() time.Time) Picker {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return Picker{loc: loc, now: now}
}

type Day struct {
	Date     string
	Weekday  time.Weekday
	Disabled bool
}

// Month lists every day of the month with past and weekend days disabled.
func (p Picker) Month(year int, month time.Month) []Day {
	first := time.Date(year, month, 1, 0, 0, 0, 0, p.location())
	var days []Day
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		days = append(days, Day{
			Date:     d.Format(utils.DateLayout),
			Weekday:  d.Weekday(),
			Disabled: !utils.Bookable(d, p.clock()),
		})
	}
	return days
}

func (p Picker) Allowed(date string) bool {
	d, err := utils.ParseDate(date, p.location())
	if err != nil {
		return false
	}
	return utils.Bookable(d, p.clock())
}

func (p Picker) location() *time.Location {
	if p.loc == nil {
		return time.UTC
	}
	return p.loc
}

func (p Picker) clock() time.Time {
	if p.now == nil {
		return time.Now()
	}
	return p.now()
}
