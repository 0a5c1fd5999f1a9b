// Package filter models the dashboard's status filter panel: a pending
// selection edited while the panel is open and an applied selection that
// drives the visible list.
package filter

import (
	"fmt"
	"net/http"

	"github.com/nekogravitycat/roominglist-verifier/internal/pkg/apperror"
	"github.com/nekogravitycat/roominglist-verifier/internal/query"
	"github.com/nekogravitycat/roominglist-verifier/internal/store"
)

var ErrInvalidTransition = apperror.New(http.StatusConflict, "invalid filter panel transition")

type State uint8

const (
	Closed State = iota
	Open
)

func (s State) String() string {
	if s == Open {
		return "Open"
	}
	return "Closed"
}

// InvalidStateTransitionError reports an operation called in a state that
// does not allow it.
type InvalidStateTransitionError struct {
	Op    string
	State State
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("filter: %s not allowed while %s", e.Op, e.State)
}

func (e *InvalidStateTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// Panel is what the filter dropdown shows.
type Panel struct {
	Pending []store.Status `json:"pending"`
	Applied []store.Status `json:"applied"`
	IsOpen  bool           `json:"is_open"`
}

// Machine holds one session's filter state. It is not safe for concurrent
// use; each session owns its own instance.
type Machine struct {
	state   State
	pending store.StatusSet
	applied store.StatusSet
}

// New returns a closed machine whose applied selection is initial. An empty
// initial selection shows every status.
func New(initial store.StatusSet) *Machine {
	return &Machine{state: Closed, pending: initial, applied: initial}
}

func (m *Machine) require(op string, want State) error {
	if m.state != want {
		return &InvalidStateTransitionError{Op: op, State: m.state}
	}
	return nil
}

// Open shows the panel with the pending selection reset to the applied one.
func (m *Machine) Open() error {
	if err := m.require("open", Closed); err != nil {
		return err
	}
	m.state = Open
	m.pending = m.applied
	return nil
}

// Toggle flips one status in the pending selection.
func (m *Machine) Toggle(s store.Status) error {
	if err := m.require("toggle", Open); err != nil {
		return err
	}
	m.pending = m.pending.Toggle(s)
	return nil
}

// Clear unchecks every status in the pending selection.
func (m *Machine) Clear() error {
	if err := m.require("clear", Open); err != nil {
		return err
	}
	m.pending = 0
	return nil
}

// Save closes the panel and applies the pending selection.
func (m *Machine) Save() (store.StatusSet, error) {
	if err := m.require("save", Open); err != nil {
		return m.applied, err
	}
	m.applied = m.pending
	m.state = Closed
	return m.applied, nil
}

// Dismiss closes the panel and discards the pending selection.
func (m *Machine) Dismiss() error {
	if err := m.require("dismiss", Open); err != nil {
		return err
	}
	m.pending = m.applied
	m.state = Closed
	return nil
}

func (m *Machine) State() State { return m.state }

func (m *Machine) IsOpen() bool { return m.state == Open }

func (m *Machine) Applied() store.StatusSet { return m.applied }

// Pending is the selection shown in the panel. While closed it mirrors the
// applied selection.
func (m *Machine) Pending() store.StatusSet {
	if m.state == Closed {
		return m.applied
	}
	return m.pending
}

func (m *Machine) Panel() Panel {
	return Panel{
		Pending: m.Pending().Statuses(),
		Applied: m.applied.Statuses(),
		IsOpen:  m.IsOpen(),
	}
}

// Visible returns the rooming lists shown for search under the applied
// selection. Pending edits have no effect until saved.
func (m *Machine) Visible(s *store.Store, search string) query.Result {
	return query.VisibleRoomingLists(s, search, m.applied)
}

// Apply runs a full open, clear, toggle, save cycle that leaves exactly
// statuses applied.
func (m *Machine) Apply(statuses store.StatusSet) error {
	if err := m.Open(); err != nil {
		return err
	}
	if err := m.Clear(); err != nil {
		return err
	}
	for _, s := range statuses.Statuses() {
		if err := m.Toggle(s); err != nil {
			return err
		}
	}
	_, err := m.Save()
	return err
}
