package market

import (
	"errors"
	"time"
)

var ErrInvalidWeekday = errors.New("market: invalid weekday name")

// Weekday is one of the seven day names, stored as the uppercase strings the
// existing documents already use.
type Weekday string

const (
	Sunday    Weekday = "SUNDAY"
	Monday    Weekday = "MONDAY"
	Tuesday   Weekday = "TUESDAY"
	Wednesday Weekday = "WEDNESDAY"
	Thursday  Weekday = "THURSDAY"
	Friday    Weekday = "FRIDAY"
	Saturday  Weekday = "SATURDAY"
)

// AllWeekdays lists the days in time.Weekday order (Sunday first).
var AllWeekdays = [7]Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// WeekdayOf maps a calendar date to its weekday name.
func WeekdayOf(t time.Time) Weekday {
	return AllWeekdays[int(t.Weekday())]
}

// ParseWeekday validates a raw day name.
func ParseWeekday(raw string) (Weekday, error) {
	for _, d := range AllWeekdays {
		if string(d) == raw {
			return d, nil
		}
	}
	return "", ErrInvalidWeekday
}

// Valid reports whether w is one of the seven day names.
func (w Weekday) Valid() bool {
	_, err := ParseWeekday(string(w))
	return err == nil
}
