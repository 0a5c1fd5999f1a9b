package store

import (
	"fmt"
	"strconv"
	"strings"
)

// Date holds the literal calendar fields of an ISO date or date-time string.
// No timezone conversion is ever applied.
type Date struct {
	Year  int
	Month int
	Day   int
}

// ParseDate reads the YYYY-MM-DD part before any "T". Fields may be unpadded.
func ParseDate(iso string) (Date, error) {
	datePart, _, _ := strings.Cut(strings.TrimSpace(iso), "T")
	parts := strings.Split(datePart, "-")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrInvalidData, iso)
	}

	var fields [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Date{}, fmt.Errorf("%w: date %q has a non-numeric field", ErrInvalidData, iso)
		}
		fields[i] = n
	}

	d := Date{Year: fields[0], Month: fields[1], Day: fields[2]}
	if d.Month < 1 || d.Month > 12 || d.Day < 1 || d.Day > 31 {
		return Date{}, fmt.Errorf("%w: date %q is out of range", ErrInvalidData, iso)
	}
	return d, nil
}

// US renders the date as MM/DD/YYYY.
func (d Date) US() string {
	return fmt.Sprintf("%02d/%02d/%04d", d.Month, d.Day, d.Year)
}
