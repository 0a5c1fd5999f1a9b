package dashboard

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nekogravitycat/roominglist-verifier/internal/filter"
	"github.com/nekogravitycat/roominglist-verifier/internal/pkg/apperror"
	"github.com/nekogravitycat/roominglist-verifier/internal/query"
	"github.com/nekogravitycat/roominglist-verifier/internal/store"
	"github.com/nekogravitycat/roominglist-verifier/internal/verify"
	"github.com/nekogravitycat/roominglist-verifier/internal/view"
)

var ErrSessionNotFound = apperror.New(http.StatusNotFound, "filter session not found")

// ListResult is one run of the rooming list query projected to cards.
type ListResult struct {
	Cards     []view.Card
	NoResults bool
}

func newListResult(s *store.Store, r query.Result) (ListResult, error) {
	cards, err := view.BuildCards(s, r)
	if err != nil {
		return ListResult{}, err
	}
	return ListResult{Cards: cards, NoResults: r.NoResults()}, nil
}

// SessionState is a snapshot of one filter session.
type SessionState struct {
	ID        string
	Panel     filter.Panel
	CreatedAt time.Time
	ExpiresAt time.Time
}

// VisibleCheck is what a client observed on the events page for one search
// and filter selection.
type VisibleCheck struct {
	Search           string
	Statuses         store.StatusSet
	ObservedNames    []string
	EmptyStateShown  *bool
	ObservedStatuses []string
}

// Verdict is the outcome of a verification request.
type Verdict struct {
	Discrepancies []verify.Discrepancy
}

func (v Verdict) Passed() bool { return len(v.Discrepancies) == 0 }

// session owns one filter machine. The registry lock only guards the map;
// each machine is guarded by its own mutex.
type session struct {
	mu       sync.Mutex
	id       string
	machine  *filter.Machine
	created  time.Time
	lastUsed atomic.Int64 // unix nanos
}

func (s *session) touch(t time.Time) { s.lastUsed.Store(t.UnixNano()) }

func (s *session) lastUsedAt() time.Time { return time.Unix(0, s.lastUsed.Load()) }
