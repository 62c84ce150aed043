package utils

import (
	"fmt"
	"time"

	// Lambda runtimes may ship without a zoneinfo database.
	_ "time/tzdata"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	// MeetingDuration is the length of every consultation.
	MeetingDuration = 30 * time.Minute
)

// Slots are the published start times, with no consultations over lunch.
var Slots = []string{"09:00", "10:00", "11:00", "12:00", "14:00", "15:00", "16:00", "17:00"}

// IsSlot reports whether t is one of the published slots.
func IsSlot(t string) bool {
	for _, s := range Slots {
		if s == t {
			return true
		}
	}
	return false
}

// ParseDate parses a YYYY-MM-DD string as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	d, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

// Day truncates t to midnight in its own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func IsWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsPast reports whether the calendar day d is before the calendar day of now,
// both evaluated in d's location.
func IsPast(d, now time.Time) bool {
	return Day(d).Before(Day(now.In(d.Location())))
}

// Bookable combines the past-date and weekend rules.
func Bookable(d, now time.Time) bool {
	return !IsPast(d, now) && !IsWeekend(d)
}

// LoadLocation resolves an IANA zone, falling back to def when name is empty.
func LoadLocation(name, def string) (*time.Location, error) {
	if name == "" {
		name = def
	}
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return loc, nil
}

// SlotStart combines a date and a slot into a wall-clock instant in loc.
func SlotStart(date, slot string, loc *time.Location) (time.Time, error) {
	d, err := ParseDate(date, loc)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(TimeLayout, slot)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", slot, err)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, d.Location()), nil
}
