package store

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// RoomingListID is the unique key of a rooming list.
type RoomingListID string

// BookingID identifies a booking by its 1-based position in the load order.
// It is assigned once by Load and never recomputed.
type BookingID int

func (id BookingID) String() string {
	return fmt.Sprintf("%d", int(id))
}

// RoomingList is an event's room-block record (RFP).
type RoomingList struct {
	ID            RoomingListID
	EventName     string
	RFPName       string
	AgreementType string
	CutOffDate    string // YYYY-MM-DD as loaded
	Status        Status
}

// Booking is a single guest's reservation. Dates keep their ISO text form;
// only the date portion is significant.
type Booking struct {
	ID               BookingID
	GuestName        string
	GuestPhoneNumber string
	CheckInDate      string
	CheckOutDate     string
}

// JoinRow links a rooming list to one of its bookings.
type JoinRow struct {
	RoomingListID RoomingListID
	BookingID     BookingID
}

type Status uint8

const (
	StatusActive Status = 1 << iota
	StatusClosed
	StatusCancelled
)

// AllStatuses lists the statuses in the order the filter panel shows them.
var AllStatuses = []Status{StatusActive, StatusClosed, StatusCancelled}

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "Active"
	case StatusClosed:
		return "Closed"
	case StatusCancelled:
		return "Cancelled"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

// ParseStatus accepts any casing of Active, Closed or Cancelled.
func ParseStatus(v string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "active":
		return StatusActive, nil
	case "closed":
		return StatusClosed, nil
	case "cancelled", "canceled":
		return StatusCancelled, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownStatus, v)
	}
}

// MarshalText renders the display name, so statuses read "Active" in JSON.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	v, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// StatusSet is a value-type set of statuses. The empty set means no filter.
type StatusSet uint8

// NewStatusSet builds a set from the given statuses.
func NewStatusSet(statuses ...Status) StatusSet {
	var set StatusSet
	for _, s := range statuses {
		set = set.With(s)
	}
	return set
}

// ParseStatusSet parses a list of status names, ignoring blanks.
func ParseStatusSet(values []string) (StatusSet, error) {
	var set StatusSet
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		s, err := ParseStatus(v)
		if err != nil {
			return 0, err
		}
		set = set.With(s)
	}
	return set, nil
}

func (set StatusSet) Has(s Status) bool { return uint8(set)&uint8(s) != 0 }

func (set StatusSet) With(s Status) StatusSet { return StatusSet(uint8(set) | uint8(s)) }

func (set StatusSet) Without(s Status) StatusSet { return StatusSet(uint8(set) &^ uint8(s)) }

func (set StatusSet) IsEmpty() bool { return set == 0 }

// Toggle flips membership of s.
func (set StatusSet) Toggle(s Status) StatusSet {
	if set.Has(s) {
		return set.Without(s)
	}
	return set.With(s)
}

// Accepts reports whether a rooming list with status s passes the filter.
func (set StatusSet) Accepts(s Status) bool {
	return set.IsEmpty() || set.Has(s)
}

// Statuses returns the members in panel order.
func (set StatusSet) Statuses() []Status {
	out := make([]Status, 0, len(AllStatuses))
	for _, s := range AllStatuses {
		if set.Has(s) {
			out = append(out, s)
		}
	}
	return out
}

func (set StatusSet) Len() int {
	return len(set.Statuses())
}

func (set StatusSet) String() string {
	names := make([]string, 0, len(AllStatuses))
	for _, s := range set.Statuses() {
		names = append(names, s.String())
	}
	return "{" + strings.Join(names, ", ") + "}"
}

// MarshalJSON renders the set as a list of status names.
func (set StatusSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(set.Statuses())
}

func (set *StatusSet) UnmarshalJSON(b []byte) error {
	var names []string
	if err := json.Unmarshal(b, &names); err != nil {
		return err
	}
	parsed, err := ParseStatusSet(names)
	if err != nil {
		return err
	}
	*set = parsed
	return nil
}
