package booking

import (
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// ParseDate accepts "YYYY-MM-DD" or an RFC3339 timestamp and returns the
// calendar day as written, at midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, httperr.ErrBusiness(httperr.CodeInvalidDate)
		}
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// ParseClock validates an "HH:MM" wall-clock time.
func ParseClock(s string) (time.Time, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil || len(s) != len(ClockLayout) {
		return time.Time{}, httperr.ErrBusiness(httperr.CodeInvalidDate)
	}
	return t, nil
}

// SlotStart places day + clock on the shop's wall clock.
func SlotStart(day time.Time, clock string, loc *time.Location) (time.Time, error) {
	hm, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(
		day.Year(), day.Month(), day.Day(),
		hm.Hour(), hm.Minute(), 0, 0,
		loc,
	), nil
}
