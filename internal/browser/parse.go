package browser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/nekogravitycat/roominglist-verifier/internal/verify"
)

var (
	countPattern = regexp.MustCompile(`\((\d+)\)`)
	datePattern  = regexp.MustCompile(`\b\d{2}/\d{2}/\d{4}\b`)
	phonePattern = regexp.MustCompile(`\+?[\d()][\d() .-]{5,}\d`)
)

// NormalizeRFPName strips the brackets the dashboard draws around card titles.
func NormalizeRFPName(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	return strings.TrimSpace(s)
}

// ParseBookingCount reads N from a "View Bookings (N)" label. A label without
// a count reads as zero.
func ParseBookingCount(label string) int {
	m := countPattern.FindStringSubmatch(label)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// ParseAgreement reads the type from an "Agreement: <type>" line.
func ParseAgreement(text string) string {
	s := strings.TrimSpace(text)
	if i := strings.Index(s, ":"); i >= 0 && strings.EqualFold(strings.TrimSpace(s[:i]), "agreement") {
		s = s[i+1:]
	}
	return strings.TrimSpace(s)
}

// ParseCutOffDay reads the day number of the card's date box. Zero means it
// could not be read.
func ParseCutOffDay(text string) int {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0
	}
	return n
}

// ParseBookingRow splits the text of a modal row into its fields. The first
// line is the guest name, the first two MM/DD/YYYY dates are check-in and
// check-out, and the phone number is the first phone-like token that is not
// part of a date.
func ParseBookingRow(text string) verify.ObservedBooking {
	var b verify.ObservedBooking

	lines := strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == '\r' })
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			b.GuestName = l
			break
		}
	}

	dates := datePattern.FindAllString(text, 2)
	if len(dates) > 0 {
		b.CheckIn = dates[0]
	}
	if len(dates) > 1 {
		b.CheckOut = dates[1]
	}

	rest := datePattern.ReplaceAllString(text, " ")
	rest = strings.Replace(rest, b.GuestName, " ", 1)
	if p := phonePattern.FindString(rest); p != "" {
		b.GuestPhoneNumber = strings.TrimSpace(p)
	}
	return b
}
