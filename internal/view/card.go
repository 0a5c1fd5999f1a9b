// Package view builds the view-models the dashboard renders for rooming
// lists.
package view

import (
	"fmt"
	"time"

	"github.com/nekogravitycat/roominglist-verifier/internal/query"
	"github.com/nekogravitycat/roominglist-verifier/internal/store"
)

// Card is one rooming list card on the events page.
type Card struct {
	RoomingListID     store.RoomingListID `json:"rooming_list_id"`
	EventName         string              `json:"event_name"`
	RFPName           string              `json:"rfp_name"`
	AgreementType     string              `json:"agreement_type"`
	CutOffDateDisplay string              `json:"cut_off_date"`
	CutOffDay         int                 `json:"cut_off_day"`
	CutOffMonth       string              `json:"cut_off_month"`
	BookingCount      int                 `json:"booking_count"`
	Status            store.Status        `json:"status"`
}

// ViewBookingsLabel is the text of the card's bookings button.
func (c Card) ViewBookingsLabel() string {
	return fmt.Sprintf("View Bookings (%d)", c.BookingCount)
}

// NewCard projects a rooming list. The booking count is the number of join
// rows, so it always matches what the bookings modal lists.
func NewCard(s *store.Store, rl store.RoomingList) (Card, error) {
	d, err := store.ParseDate(rl.CutOffDate)
	if err != nil {
		return Card{}, fmt.Errorf("rooming list %s cutOffDate: %w", rl.ID, err)
	}
	return Card{
		RoomingListID:     rl.ID,
		EventName:         rl.EventName,
		RFPName:           rl.RFPName,
		AgreementType:     rl.AgreementType,
		CutOffDateDisplay: d.US(),
		CutOffDay:         d.Day,
		CutOffMonth:       time.Month(d.Month).String()[:3],
		BookingCount:      s.BookingCount(rl.ID),
		Status:            rl.Status,
	}, nil
}

// BuildCards projects every item of a query result in order. A result that
// has not run yields nil.
func BuildCards(s *store.Store, r query.Result) ([]Card, error) {
	if !r.HasRun() {
		return nil, nil
	}
	cards := make([]Card, 0, len(r.Items()))
	for _, rl := range r.Items() {
		c, err := NewCard(s, rl)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}
