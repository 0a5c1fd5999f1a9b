// Package oracle resolves a rooming list to the booking rows the dashboard
// modal is expected to show.
package oracle

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/nekogravitycat/roominglist-verifier/internal/pkg/apperror"
	"github.com/nekogravitycat/roominglist-verifier/internal/store"
)

var ErrDanglingReference = apperror.New(http.StatusInternalServerError, "join table references a missing record")

// DanglingReferenceError is a data-integrity fault: a join row points at a
// record the store does not have. It is never retried or skipped.
type DanglingReferenceError struct {
	Table  string // "bookings" or "rooming_lists"
	ID     string
	Row    int // 1-based join row position
	Source store.RoomingListID
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("dangling reference: join row %d of rooming list %q points at %s id %s",
		e.Row, e.Source, e.Table, e.ID)
}

func (e *DanglingReferenceError) Unwrap() error {
	return ErrDanglingReference
}

// BookingView is one row of the bookings modal.
type BookingView struct {
	GuestName         string `json:"guest_name"`
	GuestPhoneNumber  string `json:"guest_phone_number"`
	CheckInFormatted  string `json:"check_in"`
	CheckOutFormatted string `json:"check_out"`
}

// FormatDate renders the calendar date of an ISO date-time as MM/DD/YYYY,
// using the literal fields of the input.
func FormatDate(iso string) (string, error) {
	d, err := store.ParseDate(iso)
	if err != nil {
		return "", err
	}
	return d.US(), nil
}

// Project builds the modal row for a booking.
func Project(b store.Booking) (BookingView, error) {
	in, err := FormatDate(b.CheckInDate)
	if err != nil {
		return BookingView{}, fmt.Errorf("booking %s check-in: %w", b.ID, err)
	}
	out, err := FormatDate(b.CheckOutDate)
	if err != nil {
		return BookingView{}, fmt.Errorf("booking %s check-out: %w", b.ID, err)
	}
	return BookingView{
		GuestName:         b.GuestName,
		GuestPhoneNumber:  b.GuestPhoneNumber,
		CheckInFormatted:  in,
		CheckOutFormatted: out,
	}, nil
}

// ResolveBookings returns the bookings of a rooming list in join order. The
// result has exactly one entry per join row; an unknown rooming list is a
// store.NotFoundError and a missing booking a *DanglingReferenceError.
func ResolveBookings(s *store.Store, id store.RoomingListID) ([]BookingView, error) {
	if _, err := s.RoomingListByID(id); err != nil {
		return nil, err
	}

	rows := s.JoinRowsFor(id)
	views := make([]BookingView, 0, len(rows))
	for i, row := range rows {
		b, err := s.BookingByID(row.BookingID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, &DanglingReferenceError{Table: "bookings", ID: row.BookingID.String(), Row: i + 1, Source: id}
			}
			return nil, err
		}
		v, err := Project(b)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

// Audit checks every join row against both sides of the relation and returns
// all dangling references joined together, or nil.
func Audit(s *store.Store) error {
	var errs []error
	perList := make(map[store.RoomingListID]int)

	for _, row := range s.JoinRows() {
		perList[row.RoomingListID]++
		pos := perList[row.RoomingListID]

		if _, err := s.RoomingListByID(row.RoomingListID); err != nil {
			errs = append(errs, &DanglingReferenceError{Table: "rooming_lists", ID: string(row.RoomingListID), Row: pos, Source: row.RoomingListID})
		}
		if _, err := s.BookingByID(row.BookingID); err != nil {
			errs = append(errs, &DanglingReferenceError{Table: "bookings", ID: row.BookingID.String(), Row: pos, Source: row.RoomingListID})
		}
	}
	return errors.Join(errs...)
}
