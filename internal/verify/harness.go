package verify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nekogravitycat/roominglist-verifier/internal/filter"
	"github.com/nekogravitycat/roominglist-verifier/internal/oracle"
	"github.com/nekogravitycat/roominglist-verifier/internal/query"
	"github.com/nekogravitycat/roominglist-verifier/internal/store"
	"github.com/nekogravitycat/roominglist-verifier/internal/view"
)

type Config struct {
	SettleWindow   time.Duration
	SettleInterval time.Duration
	InitialFilter  store.StatusSet
}

// Recorder receives the outcome of each scenario.
type Recorder interface {
	ScenarioFinished(scenario string, discrepancies int, err error, elapsed time.Duration)
}

// Snapshotter is implemented by observers that can save evidence of the
// rendered page. The returned string locates the saved artifact.
type Snapshotter interface {
	Snapshot(ctx context.Context, name string) (string, error)
}

type Option func(*Harness)

func WithRecorder(r Recorder) Option {
	return func(h *Harness) { h.recorder = r }
}

// Harness drives an Observer and the expected state in lockstep. Every
// interaction with the rendered filter panel is mirrored on the harness's own
// filter.Machine, so expected and observed state move together.
type Harness struct {
	store    *store.Store
	obs      Observer
	cfg      Config
	recorder Recorder

	machine *filter.Machine
	search  string
}

func NewHarness(s *store.Store, obs Observer, cfg Config, opts ...Option) *Harness {
	h := &Harness{
		store:   s,
		obs:     obs,
		cfg:     cfg,
		machine: filter.New(cfg.InitialFilter),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Machine exposes the mirrored filter state.
func (h *Harness) Machine() *filter.Machine {
	return h.machine
}

// Reset reloads the dashboard and starts over with a fresh filter machine and
// an empty search.
func (h *Harness) Reset(ctx context.Context) error {
	if err := h.obs.Reload(ctx); err != nil {
		return fmt.Errorf("reload dashboard: %w", err)
	}
	h.machine = filter.New(h.cfg.InitialFilter)
	h.search = ""
	return nil
}

func (h *Harness) settle(ctx context.Context, probe Probe) ([]Discrepancy, error) {
	return Settle(ctx, h.cfg.SettleWindow, h.cfg.SettleInterval, probe)
}

func (h *Harness) expected() query.Result {
	return h.machine.Visible(h.store, h.search)
}

func (h *Harness) visibleProbe(expected query.Result) Probe {
	return func(ctx context.Context) ([]Discrepancy, error) {
		names, err := h.obs.VisibleNames(ctx)
		if err != nil {
			return nil, err
		}
		shown, err := h.obs.EmptyStateShown(ctx)
		if err != nil {
			return nil, err
		}
		out := VerifyVisibleSet(expected.Items(), names)
		return append(out, VerifyEmptyState(expected, shown)...), nil
	}
}

// CheckCards compares every rendered card with its expected view-model.
func (h *Harness) CheckCards(ctx context.Context) ([]Discrepancy, error) {
	expected, err := view.BuildCards(h.store, h.expected())
	if err != nil {
		return nil, err
	}
	return h.settle(ctx, func(ctx context.Context) ([]Discrepancy, error) {
		observed, err := h.obs.Cards(ctx)
		if err != nil {
			return nil, err
		}
		return VerifyCards(expected, observed), nil
	})
}

// CheckEventGroups checks that the cards are grouped under one heading per
// event, in the order of each event's first card.
func (h *Harness) CheckEventGroups(ctx context.Context) ([]Discrepancy, error) {
	cards, err := view.BuildCards(h.store, h.expected())
	if err != nil {
		return nil, err
	}
	expected := view.EventNames(view.GroupByEvent(cards))
	return h.settle(ctx, func(ctx context.Context) ([]Discrepancy, error) {
		observed, err := h.obs.EventHeadings(ctx)
		if err != nil {
			return nil, err
		}
		return VerifyEventHeadings(expected, observed), nil
	})
}

// CheckBookingDetails opens the bookings modal of every rendered card and
// compares its rows with the oracle. A dangling join reference aborts the
// check.
func (h *Harness) CheckBookingDetails(ctx context.Context) ([]Discrepancy, error) {
	cards, err := h.obs.Cards(ctx)
	if err != nil {
		return nil, err
	}

	var out []Discrepancy
	for _, c := range cards {
		rl, err := h.store.RoomingListByName(c.RFPName)
		if errors.Is(err, store.ErrNotFound) {
			out = append(out, Discrepancy{Kind: KindUnknown, Subject: c.RFPName, Expected: "known rfpName", Observed: c.RFPName})
			continue
		}
		if err != nil {
			return out, err
		}

		expected, err := oracle.ResolveBookings(h.store, rl.ID)
		if err != nil {
			return out, err
		}
		observed, err := h.obs.Bookings(ctx, c.RFPName)
		if err != nil {
			return out, fmt.Errorf("read bookings of %q: %w", c.RFPName, err)
		}
		for _, d := range VerifyBookingDetails(expected, observed) {
			d.Subject = c.RFPName
			out = append(out, d)
		}
	}
	return out, nil
}

// CheckSearch types term into the search box and waits for the rendered list
// to match the expected result, including the empty state.
func (h *Harness) CheckSearch(ctx context.Context, term string) ([]Discrepancy, error) {
	if err := h.obs.Search(ctx, term); err != nil {
		return nil, fmt.Errorf("search %q: %w", term, err)
	}
	h.search = term
	return h.settle(ctx, h.visibleProbe(h.expected()))
}

// ApplyFilter unchecks every box, checks exactly statuses and saves, then
// checks the visible list and its status badges.
func (h *Harness) ApplyFilter(ctx context.Context, statuses store.StatusSet) ([]Discrepancy, error) {
	defer func() {
		if h.machine.IsOpen() {
			_ = h.machine.Dismiss()
		}
	}()

	if err := h.obs.OpenFilters(ctx); err != nil {
		return nil, fmt.Errorf("open filters: %w", err)
	}
	if err := h.machine.Open(); err != nil {
		return nil, err
	}

	panel, err := h.obs.FilterPanel(ctx)
	if err != nil {
		return nil, err
	}
	checked, err := store.ParseStatusSet(panel.Checked)
	if err != nil {
		return nil, fmt.Errorf("read filter panel: %w", err)
	}
	for _, st := range checked.Statuses() {
		if err := h.obs.ToggleStatus(ctx, st); err != nil {
			return nil, fmt.Errorf("uncheck %s: %w", st, err)
		}
	}
	if err := h.machine.Clear(); err != nil {
		return nil, err
	}

	for _, st := range statuses.Statuses() {
		if err := h.obs.ToggleStatus(ctx, st); err != nil {
			return nil, fmt.Errorf("check %s: %w", st, err)
		}
		if err := h.machine.Toggle(st); err != nil {
			return nil, err
		}
	}

	if err := h.obs.SaveFilters(ctx); err != nil {
		return nil, fmt.Errorf("save filters: %w", err)
	}
	applied, err := h.machine.Save()
	if err != nil {
		return nil, err
	}

	visible := h.visibleProbe(h.expected())
	return h.settle(ctx, func(ctx context.Context) ([]Discrepancy, error) {
		out, err := visible(ctx)
		if err != nil {
			return nil, err
		}
		badges, err := h.obs.StatusBadges(ctx)
		if err != nil {
			return nil, err
		}
		return append(out, VerifyStatuses(applied, badges)...), nil
	})
}

// CheckFilterPersistence applies statuses, reopens the dropdown and checks
// that the saved selection is still checked.
func (h *Harness) CheckFilterPersistence(ctx context.Context, statuses store.StatusSet) ([]Discrepancy, error) {
	out, err := h.ApplyFilter(ctx, statuses)
	if err != nil {
		return out, err
	}

	if err := h.obs.OpenFilters(ctx); err != nil {
		return out, fmt.Errorf("reopen filters: %w", err)
	}
	if err := h.machine.Open(); err != nil {
		return out, err
	}
	expected := h.machine.Panel()
	panel, err := h.settle(ctx, func(ctx context.Context) ([]Discrepancy, error) {
		observed, err := h.obs.FilterPanel(ctx)
		if err != nil {
			return nil, err
		}
		return VerifyFilterPanel(expected, observed), nil
	})
	out = append(out, panel...)
	if err != nil {
		return out, err
	}

	if err := h.obs.DismissFilters(ctx); err != nil {
		return out, fmt.Errorf("dismiss filters: %w", err)
	}
	return out, h.machine.Dismiss()
}

// CheckSearchAndFilter searches for term, then applies statuses, and checks
// that adding the filter never made a card appear.
func (h *Harness) CheckSearchAndFilter(ctx context.Context, term string, statuses store.StatusSet) ([]Discrepancy, error) {
	out, err := h.CheckSearch(ctx, term)
	if err != nil {
		return out, err
	}
	before, err := h.obs.VisibleNames(ctx)
	if err != nil {
		return out, err
	}

	filtered, err := h.ApplyFilter(ctx, statuses)
	out = append(out, filtered...)
	if err != nil {
		return out, err
	}

	after, err := h.obs.VisibleNames(ctx)
	if err != nil {
		return out, err
	}
	return append(out, VerifyNotGrown(before, after)...), nil
}
