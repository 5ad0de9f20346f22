package rental

import "time"

const dateKeyLayout = "2006-01-02"

// DateKey formats a calendar date the way the rentals collection stores it.
func DateKey(t time.Time) string {
	return t.Format(dateKeyLayout)
}

// ParseDateKey parses a yyyy-mm-dd key into a date-only UTC time.
func ParseDateKey(key string) (time.Time, error) {
	t, err := time.ParseInLocation(dateKeyLayout, key, time.UTC)
	if err != nil {
		return time.Time{}, ErrInvalidDateKey
	}
	return t, nil
}

// DateOnly truncates a timestamp to its calendar date in UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
