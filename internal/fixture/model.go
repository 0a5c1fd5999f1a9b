package fixture

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/nekogravitycat/roominglist-verifier/internal/pkg/apperror"
)

var (
	ErrInvalidRecord = apperror.New(http.StatusUnprocessableEntity, "invalid fixture record")
	ErrSchemaMissing = apperror.New(http.StatusServiceUnavailable, "fixture tables are missing")
	ErrNotContiguous = apperror.New(http.StatusUnprocessableEntity, "bookings.id must be contiguous from 1")
)

// File names inside a fixture directory.
const (
	RoomingListsFile = "rooming-lists.json"
	BookingsFile     = "bookings.json"
	JoinFile         = "rooming-list-bookings.json"
)

// ID accepts either a JSON number or a JSON string and keeps its text form.
// The dashboard backend is inconsistent about which one it emits.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a number or string, got %s", b)
	}
	*id = ID(n.String())
	return nil
}

// RoomingListRecord is one entry of rooming-lists.json.
type RoomingListRecord struct {
	RoomingListID ID     `json:"roomingListId"`
	EventName     string `json:"eventName,omitempty"`
	RFPName       string `json:"rfpName"`
	AgreementType string `json:"agreementType"`
	CutOffDate    string `json:"cutOffDate"`
	Status        string `json:"status"`
}

// UnmarshalJSON also accepts the snake_case agreement_type key used by older
// exports of the backend.
func (r *RoomingListRecord) UnmarshalJSON(b []byte) error {
	type plain RoomingListRecord
	var aux struct {
		plain
		AgreementTypeSnake string `json:"agreement_type"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*r = RoomingListRecord(aux.plain)
	if r.AgreementType == "" {
		r.AgreementType = aux.AgreementTypeSnake
	}
	return nil
}

// BookingRecord is one entry of bookings.json. Its identity is its 1-based
// position in the file.
type BookingRecord struct {
	GuestName        string `json:"guestName"`
	GuestPhoneNumber string `json:"guestPhoneNumber"`
	CheckInDate      string `json:"checkInDate"`
	CheckOutDate     string `json:"checkOutDate"`
}

// JoinRecord is one entry of rooming-list-bookings.json.
type JoinRecord struct {
	RoomingListID ID `json:"roomingListId"`
	BookingID     ID `json:"bookingId"`
}

// Set is the raw, unvalidated content of the three record sets.
type Set struct {
	RoomingLists []RoomingListRecord
	Bookings     []BookingRecord
	Join         []JoinRecord
}
