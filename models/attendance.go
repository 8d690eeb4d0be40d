package models

import (
	"errors"
	"math"
	"time"
)

// DayFormat is the canonical calendar-day format for stored dates.
const DayFormat = "2006-01-02"

// legacyDayFormat matches dates written by old clients as Date.toDateString(),
// e.g. "Mon Jan 02 2006". Read-only compatibility; new writes always use DayFormat.
const legacyDayFormat = "Mon Jan 02 2006"

// ErrAlreadyCheckedIn signals a repeated check-in on the same calendar day.
var ErrAlreadyCheckedIn = errors.New("already checked in today")

// AttendanceState is the per-user attendance record. CurrentStreak counts
// consecutive calendar days with a check-in; LastDate is empty before the
// first check-in.
type AttendanceState struct {
	CurrentStreak int    `json:"currentStreak"`
	LastDate      string `json:"lastAttendanceDate,omitempty"`
	TotalDays     int    `json:"totalAttendanceDays"`
}

// Day formats t as a calendar day in its own location. Comparisons run on
// day strings, not 24-hour windows, so streaks survive DST transitions.
func Day(t time.Time) string {
	return t.Format(DayFormat)
}

// ParseDay parses a stored day string, accepting the legacy toDateString form.
func ParseDay(s string) (time.Time, bool) {
	if t, err := time.ParseInLocation(DayFormat, s, time.Local); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation(legacyDayFormat, s, time.Local); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// DaysBetween returns the number of calendar days from the stored day to now.
// Rounding absorbs the one-hour drift of DST boundaries.
func DaysBetween(last string, now time.Time) (int, bool) {
	t, ok := ParseDay(last)
	if !ok {
		return 0, false
	}
	a := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
	b := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return int(math.Round(b.Sub(a).Hours() / 24)), true
}

// Evaluate reports whether the user already checked in on the day of now and
// applies the gap-reset rule: any gap over one day zeroes the streak before
// the next check-in can be recorded. Idempotent for identical inputs.
func (s AttendanceState) Evaluate(now time.Time) (bool, AttendanceState) {
	if s.LastDate == "" {
		return false, s
	}
	gap, ok := DaysBetween(s.LastDate, now)
	if !ok {
		// unreadable stored date: treat the value as absent
		s.LastDate = ""
		return false, s
	}
	if gap == 0 {
		return true, s
	}
	if gap > 1 || gap < 0 {
		s.CurrentStreak = 0
	}
	return false, s
}

// CheckIn performs the daily check-in transition. A same-day repeat returns
// ErrAlreadyCheckedIn with the state untouched, which keeps rapid
// double-clicks from double counting.
func (s AttendanceState) CheckIn(now time.Time) (AttendanceState, error) {
	checked, next := s.Evaluate(now)
	if checked {
		return s, ErrAlreadyCheckedIn
	}
	next.CurrentStreak++
	next.TotalDays++
	next.LastDate = Day(now)
	return next, nil
}
