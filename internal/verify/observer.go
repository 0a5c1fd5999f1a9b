package verify

import (
	"context"

	"github.com/nekogravitycat/roominglist-verifier/internal/store"
)

// ObservedBooking is one row read from the bookings modal.
type ObservedBooking struct {
	GuestName        string `json:"guest_name"`
	GuestPhoneNumber string `json:"guest_phone_number"`
	CheckIn          string `json:"check_in"`
	CheckOut         string `json:"check_out"`
}

// ObservedCard is one rooming list card as rendered.
type ObservedCard struct {
	RFPName       string `json:"rfp_name"`
	AgreementType string `json:"agreement_type"`
	CutOffDay     int    `json:"cut_off_day"`
	BookingCount  int    `json:"booking_count"`
	Status        string `json:"status"`
}

// ObservedPanel is the rendered filter dropdown.
type ObservedPanel struct {
	IsOpen  bool     `json:"is_open"`
	Checked []string `json:"checked"`
}

// Observer reads and drives the rendered dashboard. Implementations own all
// rendering and transport details; rfpNames they return are already
// normalized.
type Observer interface {
	// Reload navigates to a freshly loaded dashboard.
	Reload(ctx context.Context) error

	Cards(ctx context.Context) ([]ObservedCard, error)
	VisibleNames(ctx context.Context) ([]string, error)
	// EventHeadings returns the event group headings in page order.
	EventHeadings(ctx context.Context) ([]string, error)
	EmptyStateShown(ctx context.Context) (bool, error)
	StatusBadges(ctx context.Context) ([]string, error)

	// Bookings opens the modal of the named card, reads its rows and closes
	// it again.
	Bookings(ctx context.Context, rfpName string) ([]ObservedBooking, error)

	Search(ctx context.Context, term string) error

	OpenFilters(ctx context.Context) error
	FilterPanel(ctx context.Context) (ObservedPanel, error)
	ToggleStatus(ctx context.Context, s store.Status) error
	SaveFilters(ctx context.Context) error
	DismissFilters(ctx context.Context) error
}
