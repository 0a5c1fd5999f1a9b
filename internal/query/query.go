// Package query computes the rooming lists visible for a search term and a
// set of accepted statuses.
package query

import (
	"strings"

	"github.com/nekogravitycat/roominglist-verifier/internal/store"
)

type outcome uint8

const (
	notRun outcome = iota
	ran
)

// Result is the outcome of a query. The zero value is a query that has not
// run, which is distinct from a query that ran and matched nothing.
type Result struct {
	outcome outcome
	items   []store.RoomingList
}

// Ran wraps items as the result of an executed query.
func Ran(items []store.RoomingList) Result {
	if items == nil {
		items = []store.RoomingList{}
	}
	return Result{outcome: ran, items: items}
}

func (r Result) HasRun() bool {
	return r.outcome == ran
}

// Items returns the matched rooming lists in store load order, or nil when the
// query has not run.
func (r Result) Items() []store.RoomingList {
	return r.items
}

// NoResults reports whether the query ran and matched nothing. This is the
// condition under which the dashboard shows its empty state.
func (r Result) NoResults() bool {
	return r.outcome == ran && len(r.items) == 0
}

// Names returns the rfpName of every item in order.
func (r Result) Names() []string {
	names := make([]string, len(r.items))
	for i, rl := range r.items {
		names[i] = rl.RFPName
	}
	return names
}

// MatchesSearch reports whether rfpName contains search, ignoring case.
// Only the empty term matches everything; whitespace is part of the term.
func MatchesSearch(rfpName, search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(rfpName), strings.ToLower(search))
}

// VisibleRoomingLists returns every rooming list whose rfpName matches search
// and whose status is accepted. An empty accepted set applies no status
// filter.
func VisibleRoomingLists(s *store.Store, search string, accepted store.StatusSet) Result {
	all := s.RoomingLists()
	items := make([]store.RoomingList, 0, len(all))
	for _, rl := range all {
		if MatchesSearch(rl.RFPName, search) && accepted.Accepts(rl.Status) {
			items = append(items, rl)
		}
	}
	return Ran(items)
}
