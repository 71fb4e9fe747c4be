package schedule

import (
	"fmt"
	"time"
)

// TimeOfDay is minutes since midnight. All slot arithmetic happens on this
// single unit so no locale or timezone parsing is involved.
type TimeOfDay int

// ParseTimeOfDay parses "HH:MM" (a trailing ":SS" is tolerated, as some
// stores render TIME columns that way).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if len(s) > 5 && s[5] == ':' {
		s = s[:5]
	}
	var h, m int
	if _, err := fmt.Sscanf(s, "%2d:%2d", &h, &m); err != nil || len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("invalid time of day %q: want HH:MM", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("time of day %q out of range", s)
	}
	return TimeOfDay(h*60 + m), nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

func (t TimeOfDay) Add(minutes int) TimeOfDay {
	return t + TimeOfDay(minutes)
}

// ParseDate validates an ISO calendar date and returns its midnight in the
// local zone. Dates stay strings everywhere else; this is only used for
// validation and the past-date check.
func ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return d, nil
}
