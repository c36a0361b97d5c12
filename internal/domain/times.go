package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateFormat = "2006-01-02" // appointment_date
	TimeFormat = "15:04"      // opening_time, appointment_time, start_time, end_time
)

// TimeOfDay is a wall-clock time stored as minutes since midnight.
type TimeOfDay int

const minutesPerDay = 24 * 60

// ParseTimeOfDay reads "HH:MM". A trailing ":SS" part is ignored.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	if hm, sec, ok := strings.Cut(s, ":"); ok {
		if m, _, ok := strings.Cut(sec, ":"); ok {
			s = hm + ":" + m
		}
	}
	t, err := time.Parse(TimeFormat, s)
	if err != nil {
		return 0, fmt.Errorf("%w: time of day %q", ErrInvalid, s)
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

// MustTimeOfDay is for fixed literals.
func MustTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Add returns t shifted by minutes. The result may pass midnight; callers
// compare it against closing time before storing it.
func (t TimeOfDay) Add(minutes int) TimeOfDay {
	return t + TimeOfDay(minutes)
}

func (t TimeOfDay) Valid() bool {
	return t >= 0 && t < minutesPerDay
}

// On returns the instant of t on the given calendar day in loc.
func (t TimeOfDay) On(day time.Time, loc *time.Location) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc).Add(time.Duration(t) * time.Minute)
}

// ParseDate reads "YYYY-MM-DD" as a calendar day in UTC.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateFormat, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", ErrInvalid, s)
	}
	return d, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}
