package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/nekogravitycat/roominglist-verifier/internal/dashboard"
	"github.com/nekogravitycat/roominglist-verifier/internal/filter"
	"github.com/nekogravitycat/roominglist-verifier/internal/pkg/apperror"
	"github.com/nekogravitycat/roominglist-verifier/internal/store"
	"github.com/nekogravitycat/roominglist-verifier/internal/verify"
	"github.com/nekogravitycat/roominglist-verifier/internal/view"
)

var ErrBlankRoomingListID = apperror.New(http.StatusBadRequest, "rooming_list_id must not be blank")

// ListRoomingListsRequest defines query parameters for listing rooming lists.
// Status may be repeated or comma separated.
type ListRoomingListsRequest struct {
	Search string   `form:"search"`
	Status []string `form:"status"`

	statuses store.StatusSet
}

// Validate parses the status names.
func (r *ListRoomingListsRequest) Validate() error {
	set, err := parseStatuses(r.Status)
	if err != nil {
		return err
	}
	r.statuses = set
	return nil
}

func parseStatuses(values []string) (store.StatusSet, error) {
	var parts []string
	for _, v := range values {
		parts = append(parts, strings.Split(v, ",")...)
	}
	return store.ParseStatusSet(parts)
}

type SessionRoomingListsRequest struct {
	Search string `form:"search"`
}

type RoomingListResponse struct {
	view.Card
	ViewBookingsLabel string `json:"view_bookings_label"`
}

func NewRoomingListResponse(c view.Card) RoomingListResponse {
	return RoomingListResponse{Card: c, ViewBookingsLabel: c.ViewBookingsLabel()}
}

func newRoomingListResponses(cards []view.Card) []RoomingListResponse {
	items := make([]RoomingListResponse, len(cards))
	for i, c := range cards {
		items[i] = NewRoomingListResponse(c)
	}
	return items
}

type EventResponse struct {
	EventName    string                `json:"event_name"`
	RoomingLists []RoomingListResponse `json:"rooming_lists"`
}

func NewEventResponse(g view.EventGroup) EventResponse {
	return EventResponse{EventName: g.EventName, RoomingLists: newRoomingListResponses(g.Cards)}
}

type SessionResponse struct {
	ID        string       `json:"id"`
	Panel     filter.Panel `json:"panel"`
	CreatedAt time.Time    `json:"created_at"`
	ExpiresAt *time.Time   `json:"expires_at,omitempty"`
}

func NewSessionResponse(st dashboard.SessionState) SessionResponse {
	resp := SessionResponse{ID: st.ID, Panel: st.Panel, CreatedAt: st.CreatedAt}
	if !st.ExpiresAt.IsZero() {
		t := st.ExpiresAt
		resp.ExpiresAt = &t
	}
	return resp
}

type ToggleStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ObservedBookingBody struct {
	GuestName        string `json:"guest_name"`
	GuestPhoneNumber string `json:"guest_phone_number"`
	CheckIn          string `json:"check_in"`
	CheckOut         string `json:"check_out"`
}

type VerifyBookingsRequest struct {
	RoomingListID string                `json:"rooming_list_id" binding:"required"`
	Observed      []ObservedBookingBody `json:"observed"`
}

// Validate trims the id.
func (r *VerifyBookingsRequest) Validate() error {
	r.RoomingListID = strings.TrimSpace(r.RoomingListID)
	if r.RoomingListID == "" {
		return ErrBlankRoomingListID
	}
	return nil
}

func (r *VerifyBookingsRequest) observed() []verify.ObservedBooking {
	out := make([]verify.ObservedBooking, len(r.Observed))
	for i, o := range r.Observed {
		out[i] = verify.ObservedBooking{
			GuestName:        o.GuestName,
			GuestPhoneNumber: o.GuestPhoneNumber,
			CheckIn:          o.CheckIn,
			CheckOut:         o.CheckOut,
		}
	}
	return out
}

type VerifyVisibleRequest struct {
	Search           string   `json:"search"`
	Statuses         []string `json:"statuses"`
	ObservedNames    []string `json:"observed_names"`
	EmptyStateShown  *bool    `json:"empty_state_shown"`
	ObservedStatuses []string `json:"observed_statuses"`
}

func (r *VerifyVisibleRequest) check() (dashboard.VisibleCheck, error) {
	set, err := store.ParseStatusSet(r.Statuses)
	if err != nil {
		return dashboard.VisibleCheck{}, err
	}
	return dashboard.VisibleCheck{
		Search:           r.Search,
		Statuses:         set,
		ObservedNames:    r.ObservedNames,
		EmptyStateShown:  r.EmptyStateShown,
		ObservedStatuses: r.ObservedStatuses,
	}, nil
}

type VerdictResponse struct {
	Passed        bool                 `json:"passed"`
	Discrepancies []verify.Discrepancy `json:"discrepancies"`
}

func NewVerdictResponse(v dashboard.Verdict) VerdictResponse {
	d := v.Discrepancies
	if d == nil {
		d = []verify.Discrepancy{}
	}
	return VerdictResponse{Passed: v.Passed(), Discrepancies: d}
}
