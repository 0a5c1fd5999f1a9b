package browser

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nekogravitycat/roominglist-verifier/internal/store"
)

// Selectors locate dashboard elements. Values are CSS selectors unless the
// field says otherwise. The defaults match the dashboard's current
// styled-components class names, which change with each frontend build, so
// they can be overridden from a YAML file.
type Selectors struct {
	Heading       string `yaml:"heading" json:"heading"`
	Card          string `yaml:"card" json:"card"`
	CardName      string `yaml:"card_name" json:"cardName"`
	CardAgreement string `yaml:"card_agreement" json:"cardAgreement"`
	CardCutOffDay string `yaml:"card_cut_off_day" json:"cardCutOffDay"`
	ViewBookings  string `yaml:"view_bookings" json:"viewBookings"`
	StatusBadge   string `yaml:"status_badge" json:"statusBadge"`
	EventHeading  string `yaml:"event_heading" json:"eventHeading"`

	BookingRow       string `yaml:"booking_row" json:"bookingRow"`
	BookingGuestName string `yaml:"booking_guest_name" json:"bookingGuestName"`
	BookingPhone     string `yaml:"booking_phone" json:"bookingPhone"`
	BookingCheckIn   string `yaml:"booking_check_in" json:"bookingCheckIn"`
	BookingCheckOut  string `yaml:"booking_check_out" json:"bookingCheckOut"`
	// ModalTitle is the exact text of the bookings modal heading; its
	// container holds the close button.
	ModalTitle string `yaml:"modal_title" json:"modalTitle"`

	SearchInput string `yaml:"search_input" json:"searchInput"`
	// EmptyStateText is matched against the page text.
	EmptyStateText string `yaml:"empty_state_text" json:"emptyStateText"`

	// FiltersButton and SaveButton are button labels, not selectors.
	FiltersButton string            `yaml:"filters_button" json:"filtersButton"`
	SaveButton    string            `yaml:"save_button" json:"saveButton"`
	Checkboxes    map[string]string `yaml:"checkboxes" json:"checkboxes"`
	// CheckedMarker is present inside a checkbox while it is checked.
	CheckedMarker string `yaml:"checked_marker" json:"checkedMarker"`
}

func DefaultSelectors() Selectors {
	return Selectors{
		Heading:       "h1",
		Card:          "div.sc-bmCFzp.kQijna",
		CardName:      ".sc-lpbaSe.guyUPL",
		CardAgreement: ".sc-bxjEGZ.coxujC",
		CardCutOffDay: ".sc-cNFqVt.fkZjea div",
		ViewBookings:  "button.sc-kRZjnb.uEwrw",
		StatusBadge:   `[class*="StatusBadge"]`,
		EventHeading:  `div[class*="sc-fOFsAX kHRNIv"]`,

		BookingRow: "div.sc-dKKIkQ.dxQRDf",
		ModalTitle: "Bookings",

		SearchInput:    `input[placeholder="Search"]`,
		EmptyStateText: "No rooming lists found",

		FiltersButton: "Filters",
		SaveButton:    "Save",
		Checkboxes: map[string]string{
			"active":    `[data-testid="active-checkbox"]`,
			"closed":    `[data-testid="closed-checkbox"]`,
			"cancelled": `[data-testid="cancelled-checkbox"]`,
		},
		CheckedMarker: "svg",
	}
}

// LoadSelectors reads overrides from a YAML file on top of the defaults. An
// empty path returns the defaults.
func LoadSelectors(path string) (Selectors, error) {
	sel := DefaultSelectors()
	if path == "" {
		return sel, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Selectors{}, fmt.Errorf("read selectors: %w", err)
	}
	defaults := sel.Checkboxes
	sel.Checkboxes = nil
	if err := yaml.Unmarshal(data, &sel); err != nil {
		return Selectors{}, fmt.Errorf("parse selectors %s: %w", path, err)
	}
	for k, v := range defaults {
		if _, ok := sel.Checkboxes[k]; !ok {
			if sel.Checkboxes == nil {
				sel.Checkboxes = make(map[string]string)
			}
			sel.Checkboxes[k] = v
		}
	}
	return sel, sel.Validate()
}

// Validate checks that every required selector is set.
func (s Selectors) Validate() error {
	required := map[string]string{
		"heading":          s.Heading,
		"card":             s.Card,
		"card_name":        s.CardName,
		"view_bookings":    s.ViewBookings,
		"booking_row":      s.BookingRow,
		"modal_title":      s.ModalTitle,
		"search_input":     s.SearchInput,
		"empty_state_text": s.EmptyStateText,
		"filters_button":   s.FiltersButton,
		"save_button":      s.SaveButton,
		"checked_marker":   s.CheckedMarker,
	}
	for name, v := range required {
		if v == "" {
			return fmt.Errorf("selector %s is empty", name)
		}
	}
	for _, st := range store.AllStatuses {
		if _, err := s.Checkbox(st); err != nil {
			return err
		}
	}
	return nil
}

// Checkbox returns the selector of a status checkbox.
func (s Selectors) Checkbox(st store.Status) (string, error) {
	key := statusKey(st)
	sel, ok := s.Checkboxes[key]
	if !ok || sel == "" {
		return "", fmt.Errorf("selector checkboxes.%s is empty", key)
	}
	return sel, nil
}

func statusKey(st store.Status) string {
	switch st {
	case store.StatusActive:
		return "active"
	case store.StatusClosed:
		return "closed"
	default:
		return "cancelled"
	}
}
