package verify

import (
	"context"
	"fmt"
	"strings"

	"github.com/nekogravitycat/roominglist-verifier/internal/store"
)

// fakeDashboard renders the store the way the real dashboard does, with
// switches that inject rendering faults.
type fakeDashboard struct {
	s *store.Store

	search     string
	prevSearch string
	applied    store.StatusSet
	pending    store.StatusSet
	open       bool

	lagProbes    int
	stale        int
	hideStatus   store.Status
	wrongPhone   bool
	forgetFilter bool
	headings     []string

	reloads   int
	snapshots []string
}

func newFakeDashboard(s *store.Store) *fakeDashboard {
	return &fakeDashboard{s: s}
}

func (f *fakeDashboard) visible(search string) []store.RoomingList {
	var out []store.RoomingList
	term := strings.ToLower(search)
	for _, rl := range f.s.RoomingLists() {
		if rl.Status == f.hideStatus {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(rl.RFPName), term) {
			continue
		}
		if f.applied != 0 && !f.applied.Has(rl.Status) {
			continue
		}
		out = append(out, rl)
	}
	return out
}

func (f *fakeDashboard) current() []store.RoomingList {
	if f.stale > 0 {
		f.stale--
		return f.visible(f.prevSearch)
	}
	return f.visible(f.search)
}

func (f *fakeDashboard) Reload(context.Context) error {
	f.reloads++
	f.search, f.prevSearch = "", ""
	f.applied, f.pending = 0, 0
	f.open = false
	f.stale = 0
	return nil
}

func (f *fakeDashboard) Cards(context.Context) ([]ObservedCard, error) {
	var out []ObservedCard
	for _, rl := range f.current() {
		d, err := store.ParseDate(rl.CutOffDate)
		if err != nil {
			return nil, err
		}
		out = append(out, ObservedCard{
			RFPName:       rl.RFPName,
			AgreementType: rl.AgreementType,
			CutOffDay:     d.Day,
			BookingCount:  len(f.s.JoinRowsFor(rl.ID)),
			Status:        rl.Status.String(),
		})
	}
	return out, nil
}

func (f *fakeDashboard) VisibleNames(context.Context) ([]string, error) {
	var out []string
	for _, rl := range f.current() {
		out = append(out, rl.RFPName)
	}
	return out, nil
}

func (f *fakeDashboard) EventHeadings(context.Context) ([]string, error) {
	if f.headings != nil {
		return f.headings, nil
	}
	var out []string
	seen := make(map[string]bool)
	for _, rl := range f.current() {
		if !seen[rl.EventName] {
			seen[rl.EventName] = true
			out = append(out, rl.EventName)
		}
	}
	return out, nil
}

func (f *fakeDashboard) EmptyStateShown(context.Context) (bool, error) {
	return len(f.visible(f.search)) == 0, nil
}

func (f *fakeDashboard) StatusBadges(context.Context) ([]string, error) {
	var out []string
	for _, rl := range f.current() {
		out = append(out, rl.Status.String())
	}
	return out, nil
}

func (f *fakeDashboard) Bookings(_ context.Context, rfpName string) ([]ObservedBooking, error) {
	rl, err := f.s.RoomingListByName(rfpName)
	if err != nil {
		return nil, err
	}
	var out []ObservedBooking
	for i, row := range f.s.JoinRowsFor(rl.ID) {
		b, err := f.s.BookingByID(row.BookingID)
		if err != nil {
			return nil, err
		}
		in, _ := store.ParseDate(b.CheckInDate)
		outDate, _ := store.ParseDate(b.CheckOutDate)
		phone := b.GuestPhoneNumber
		if f.wrongPhone && i == 0 {
			phone = "000-0000"
		}
		out = append(out, ObservedBooking{GuestName: b.GuestName, GuestPhoneNumber: phone, CheckIn: in.US(), CheckOut: outDate.US()})
	}
	return out, nil
}

func (f *fakeDashboard) Search(_ context.Context, term string) error {
	f.prevSearch = f.search
	f.search = term
	f.stale = f.lagProbes
	return nil
}

func (f *fakeDashboard) OpenFilters(context.Context) error {
	if f.open {
		return fmt.Errorf("dropdown already open")
	}
	f.open = true
	f.pending = f.applied
	if f.forgetFilter {
		f.pending = 0
	}
	return nil
}

func (f *fakeDashboard) FilterPanel(context.Context) (ObservedPanel, error) {
	p := ObservedPanel{IsOpen: f.open}
	if f.open {
		for _, s := range f.pending.Statuses() {
			p.Checked = append(p.Checked, s.String())
		}
	}
	return p, nil
}

func (f *fakeDashboard) ToggleStatus(_ context.Context, s store.Status) error {
	if !f.open {
		return fmt.Errorf("dropdown closed")
	}
	f.pending = f.pending.Toggle(s)
	return nil
}

func (f *fakeDashboard) SaveFilters(context.Context) error {
	f.applied = f.pending
	f.open = false
	return nil
}

func (f *fakeDashboard) DismissFilters(context.Context) error {
	f.open = false
	return nil
}

func (f *fakeDashboard) Snapshot(_ context.Context, name string) (string, error) {
	f.snapshots = append(f.snapshots, name)
	return "evidence/" + name + ".png", nil
}
