package store

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/nekogravitycat/roominglist-verifier/internal/fixture"
)

// Store is the read-only ground truth for one verification run. It is never
// mutated after Load, so it can be shared between goroutines without locking.
type Store struct {
	roomingLists []RoomingList
	bookings     []Booking
	join         []JoinRow

	byID       map[RoomingListID]int
	byName     map[string]int
	byBooking  map[BookingID]int
	joinByList map[RoomingListID][]int
}

// Load validates the raw record sets and builds a store that owns its own
// copies of them. Join references are not checked here; resolving a dangling
// reference is reported by the booking oracle.
func Load(set *fixture.Set) (*Store, error) {
	if set == nil {
		set = &fixture.Set{}
	}

	s := &Store{
		roomingLists: make([]RoomingList, 0, len(set.RoomingLists)),
		bookings:     make([]Booking, 0, len(set.Bookings)),
		join:         make([]JoinRow, 0, len(set.Join)),
		byID:         make(map[RoomingListID]int, len(set.RoomingLists)),
		byName:       make(map[string]int, len(set.RoomingLists)),
		byBooking:    make(map[BookingID]int, len(set.Bookings)),
		joinByList:   make(map[RoomingListID][]int),
	}

	activeNames := make(map[string]RoomingListID)
	for i, rec := range set.RoomingLists {
		rl, err := newRoomingList(rec)
		if err != nil {
			return nil, fmt.Errorf("rooming list #%d: %w", i+1, err)
		}
		if _, dup := s.byID[rl.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate roomingListId %q", ErrInvalidData, rl.ID)
		}
		if rl.Status == StatusActive {
			if other, dup := activeNames[rl.RFPName]; dup {
				return nil, fmt.Errorf("%w: active rooming lists %q and %q share rfpName %q",
					ErrInvalidData, other, rl.ID, rl.RFPName)
			}
			activeNames[rl.RFPName] = rl.ID
		}

		s.byID[rl.ID] = len(s.roomingLists)
		if _, seen := s.byName[rl.RFPName]; !seen {
			s.byName[rl.RFPName] = len(s.roomingLists)
		}
		s.roomingLists = append(s.roomingLists, rl)
	}

	for i, rec := range set.Bookings {
		b := Booking{
			ID:               BookingID(i + 1),
			GuestName:        rec.GuestName,
			GuestPhoneNumber: rec.GuestPhoneNumber,
			CheckInDate:      rec.CheckInDate,
			CheckOutDate:     rec.CheckOutDate,
		}
		if _, err := ParseDate(b.CheckInDate); err != nil {
			return nil, fmt.Errorf("booking %s checkInDate: %w", b.ID, err)
		}
		if _, err := ParseDate(b.CheckOutDate); err != nil {
			return nil, fmt.Errorf("booking %s checkOutDate: %w", b.ID, err)
		}
		s.byBooking[b.ID] = len(s.bookings)
		s.bookings = append(s.bookings, b)
	}

	for i, rec := range set.Join {
		n, err := strconv.Atoi(strings.TrimSpace(string(rec.BookingID)))
		if err != nil {
			return nil, fmt.Errorf("%w: join row #%d has non-numeric bookingId %q", ErrInvalidData, i+1, rec.BookingID)
		}
		row := JoinRow{
			RoomingListID: RoomingListID(strings.TrimSpace(string(rec.RoomingListID))),
			BookingID:     BookingID(n),
		}
		s.joinByList[row.RoomingListID] = append(s.joinByList[row.RoomingListID], len(s.join))
		s.join = append(s.join, row)
	}

	log.Debug().
		Int("rooming_lists", len(s.roomingLists)).
		Int("bookings", len(s.bookings)).
		Int("join_rows", len(s.join)).
		Msg("data store loaded")
	return s, nil
}

func newRoomingList(rec fixture.RoomingListRecord) (RoomingList, error) {
	id := RoomingListID(strings.TrimSpace(string(rec.RoomingListID)))
	if id == "" {
		return RoomingList{}, fmt.Errorf("%w: missing roomingListId", ErrInvalidData)
	}
	status, err := ParseStatus(rec.Status)
	if err != nil {
		return RoomingList{}, err
	}
	if _, err := ParseDate(rec.CutOffDate); err != nil {
		return RoomingList{}, fmt.Errorf("cutOffDate: %w", err)
	}
	return RoomingList{
		ID:            id,
		EventName:     strings.TrimSpace(rec.EventName),
		RFPName:       strings.TrimSpace(rec.RFPName),
		AgreementType: strings.TrimSpace(rec.AgreementType),
		CutOffDate:    strings.TrimSpace(rec.CutOffDate),
		Status:        status,
	}, nil
}

// RoomingLists returns all rooming lists in load order.
func (s *Store) RoomingLists() []RoomingList {
	return slices.Clone(s.roomingLists)
}

// Bookings returns all bookings in positional order.
func (s *Store) Bookings() []Booking {
	return slices.Clone(s.bookings)
}

// JoinRows returns the whole join table in load order.
func (s *Store) JoinRows() []JoinRow {
	return slices.Clone(s.join)
}

func (s *Store) RoomingListByID(id RoomingListID) (RoomingList, error) {
	i, ok := s.byID[id]
	if !ok {
		return RoomingList{}, &NotFoundError{Table: "rooming_lists", Key: string(id)}
	}
	return s.roomingLists[i], nil
}

// RoomingListByName returns the first rooming list in load order with the
// given rfpName.
func (s *Store) RoomingListByName(name string) (RoomingList, error) {
	i, ok := s.byName[name]
	if !ok {
		return RoomingList{}, &NotFoundError{Table: "rooming_lists", Key: name}
	}
	return s.roomingLists[i], nil
}

func (s *Store) BookingByID(id BookingID) (Booking, error) {
	i, ok := s.byBooking[id]
	if !ok {
		return Booking{}, &NotFoundError{Table: "bookings", Key: id.String()}
	}
	return s.bookings[i], nil
}

// JoinRowsFor returns the join rows of one rooming list in join order. An id
// without rows yields an empty slice.
func (s *Store) JoinRowsFor(id RoomingListID) []JoinRow {
	idx := s.joinByList[id]
	rows := make([]JoinRow, len(idx))
	for i, j := range idx {
		rows[i] = s.join[j]
	}
	return rows
}

// BookingCount is the number of join rows for id.
func (s *Store) BookingCount(id RoomingListID) int {
	return len(s.joinByList[id])
}
