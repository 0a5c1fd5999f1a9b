package verify

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nekogravitycat/roominglist-verifier/internal/store"
)

// Scenario is one named check run against a freshly loaded dashboard.
type Scenario struct {
	Name string
	Run  func(ctx context.Context, h *Harness) ([]Discrepancy, error)
}

// Combination is a search term applied together with a status filter.
type Combination struct {
	Term     string
	Statuses store.StatusSet
}

// Suite selects the scenarios of a verification run.
type Suite struct {
	Cards       bool
	Events      bool
	Bookings    bool
	SearchTerms []string
	Filters     []store.StatusSet
	Persistence []store.StatusSet
	Combined    []Combination
}

// DefaultSuite covers the cards, their event grouping, the bookings modal,
// each search term, a
// single and a multi-status filter, filter persistence and search combined
// with a filter.
func DefaultSuite(searchTerms []string) Suite {
	activeClosed := store.NewStatusSet(store.StatusActive, store.StatusClosed)
	s := Suite{
		Cards:       true,
		Events:      true,
		Bookings:    true,
		SearchTerms: searchTerms,
		Filters: []store.StatusSet{
			store.NewStatusSet(store.StatusCancelled),
			activeClosed,
			store.NewStatusSet(store.StatusActive),
		},
		Persistence: []store.StatusSet{activeClosed},
	}
	for _, term := range searchTerms {
		s.Combined = append(s.Combined, Combination{Term: term, Statuses: store.NewStatusSet(store.StatusActive)})
	}
	return s
}

// Scenarios expands the suite into its scenarios in run order.
func (s Suite) Scenarios() []Scenario {
	var out []Scenario
	if s.Cards {
		out = append(out, Scenario{Name: "cards", Run: func(ctx context.Context, h *Harness) ([]Discrepancy, error) {
			return h.CheckCards(ctx)
		}})
	}
	if s.Events {
		out = append(out, Scenario{Name: "event groups", Run: func(ctx context.Context, h *Harness) ([]Discrepancy, error) {
			return h.CheckEventGroups(ctx)
		}})
	}
	if s.Bookings {
		out = append(out, Scenario{Name: "booking details", Run: func(ctx context.Context, h *Harness) ([]Discrepancy, error) {
			return h.CheckBookingDetails(ctx)
		}})
	}
	for _, term := range s.SearchTerms {
		out = append(out, Scenario{Name: fmt.Sprintf("search %q", term), Run: func(ctx context.Context, h *Harness) ([]Discrepancy, error) {
			return h.CheckSearch(ctx, term)
		}})
	}
	for _, set := range s.Filters {
		out = append(out, Scenario{Name: "filter " + set.String(), Run: func(ctx context.Context, h *Harness) ([]Discrepancy, error) {
			return h.ApplyFilter(ctx, set)
		}})
	}
	for _, set := range s.Persistence {
		out = append(out, Scenario{Name: "filter persistence " + set.String(), Run: func(ctx context.Context, h *Harness) ([]Discrepancy, error) {
			return h.CheckFilterPersistence(ctx, set)
		}})
	}
	for _, c := range s.Combined {
		out = append(out, Scenario{Name: fmt.Sprintf("search %q with filter %s", c.Term, c.Statuses), Run: func(ctx context.Context, h *Harness) ([]Discrepancy, error) {
			return h.CheckSearchAndFilter(ctx, c.Term, c.Statuses)
		}})
	}
	return out
}

type ScenarioResult struct {
	Name          string        `json:"name"`
	Discrepancies []Discrepancy `json:"discrepancies"`
	Err           error         `json:"-"`
	Error         string        `json:"error,omitempty"`
	Evidence      string        `json:"evidence,omitempty"`
	Elapsed       time.Duration `json:"elapsed_ns"`
}

func (r ScenarioResult) Passed() bool {
	return r.Err == nil && len(r.Discrepancies) == 0
}

type Report struct {
	StartedAt   time.Time        `json:"started_at"`
	FinishedAt  time.Time        `json:"finished_at"`
	Interrupted bool             `json:"interrupted,omitempty"`
	Scenarios   []ScenarioResult `json:"scenarios"`
}

// Passed reports whether the whole suite ran and every scenario passed.
func (r Report) Passed() bool {
	if r.Interrupted {
		return false
	}
	for _, s := range r.Scenarios {
		if !s.Passed() {
			return false
		}
	}
	return true
}

func (r Report) DiscrepancyCount() int {
	n := 0
	for _, s := range r.Scenarios {
		n += len(s.Discrepancies)
	}
	return n
}

func (r Report) Failed() []ScenarioResult {
	var out []ScenarioResult
	for _, s := range r.Scenarios {
		if !s.Passed() {
			out = append(out, s)
		}
	}
	return out
}

// RunSuite runs every scenario of suite against a reloaded dashboard. A failed
// scenario does not stop the run; a cancelled context does.
func (h *Harness) RunSuite(ctx context.Context, suite Suite) Report {
	report := Report{StartedAt: time.Now()}

	for _, sc := range suite.Scenarios() {
		if ctx.Err() != nil {
			report.Interrupted = true
			break
		}
		res := h.runScenario(ctx, sc)
		report.Scenarios = append(report.Scenarios, res)
	}

	report.FinishedAt = time.Now()
	log.Info().
		Int("scenarios", len(report.Scenarios)).
		Int("failed", len(report.Failed())).
		Int("discrepancies", report.DiscrepancyCount()).
		Dur("elapsed", report.FinishedAt.Sub(report.StartedAt)).
		Msg("verification suite finished")
	return report
}

func (h *Harness) runScenario(ctx context.Context, sc Scenario) ScenarioResult {
	start := time.Now()
	res := ScenarioResult{Name: sc.Name}

	if err := h.Reset(ctx); err != nil {
		res.Err = err
	} else {
		res.Discrepancies, res.Err = sc.Run(ctx, h)
	}
	if res.Discrepancies == nil {
		res.Discrepancies = []Discrepancy{}
	}
	res.Elapsed = time.Since(start)
	if res.Err != nil {
		res.Error = res.Err.Error()
	}

	event := log.Info()
	if !res.Passed() {
		event = log.Warn()
		if snap, ok := h.obs.(Snapshotter); ok {
			path, err := snap.Snapshot(ctx, sc.Name)
			if err != nil {
				log.Error().Err(err).Str("scenario", sc.Name).Msg("failed to save evidence")
			}
			res.Evidence = path
		}
	}
	event.Str("scenario", sc.Name).
		Int("discrepancies", len(res.Discrepancies)).
		Err(res.Err).
		Dur("elapsed", res.Elapsed).
		Msg("scenario finished")
	for _, d := range res.Discrepancies {
		log.Debug().Str("scenario", sc.Name).Msg(d.String())
	}

	if h.recorder != nil {
		h.recorder.ScenarioFinished(sc.Name, len(res.Discrepancies), res.Err, res.Elapsed)
	}
	return res
}
