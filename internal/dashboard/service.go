// Package dashboard serves the rooming list views, per-client filter
// sessions and verification checks over the loaded data store.
package dashboard

import (
	"context"
	"time"

	"github.com/nekogravitycat/roominglist-verifier/internal/oracle"
	"github.com/nekogravitycat/roominglist-verifier/internal/query"
	"github.com/nekogravitycat/roominglist-verifier/internal/store"
	"github.com/nekogravitycat/roominglist-verifier/internal/verify"
	"github.com/nekogravitycat/roominglist-verifier/internal/view"
)

// Service defines the business logic for the dashboard API.
type Service interface {
	ListRoomingLists(ctx context.Context, search string, statuses store.StatusSet) (ListResult, error)
	GetRoomingList(ctx context.Context, id string) (view.Card, error)
	ListBookings(ctx context.Context, id string) ([]oracle.BookingView, error)
	ListEvents(ctx context.Context, search string, statuses store.StatusSet) ([]view.EventGroup, error)

	CreateSession(ctx context.Context) (SessionState, error)
	GetSession(ctx context.Context, id string) (SessionState, error)
	DeleteSession(ctx context.Context, id string) error
	OpenFilter(ctx context.Context, id string) (SessionState, error)
	ToggleStatus(ctx context.Context, id string, status store.Status) (SessionState, error)
	ClearFilter(ctx context.Context, id string) (SessionState, error)
	SaveFilter(ctx context.Context, id string) (SessionState, error)
	DismissFilter(ctx context.Context, id string) (SessionState, error)
	SessionRoomingLists(ctx context.Context, id, search string) (ListResult, error)

	VerifyBookings(ctx context.Context, id string, observed []verify.ObservedBooking) (Verdict, error)
	VerifyVisible(ctx context.Context, check VisibleCheck) (Verdict, error)

	// RunJanitor expires idle sessions until ctx is done.
	RunJanitor(ctx context.Context, interval time.Duration)
}

type Option func(*service)

// WithSessionTTL sets how long an idle filter session survives. Zero keeps
// sessions until they are deleted.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *service) { s.sessions.ttl = ttl }
}

// WithInitialFilter sets the applied selection of new sessions.
func WithInitialFilter(set store.StatusSet) Option {
	return func(s *service) { s.sessions.initial = set }
}

func WithSessionMetrics(m SessionMetrics) Option {
	return func(s *service) { s.sessions.metrics = m }
}

func withClock(now func() time.Time) Option {
	return func(s *service) { s.sessions.now = now }
}

type service struct {
	store    *store.Store
	sessions *registry
}

func NewService(s *store.Store, opts ...Option) Service {
	svc := &service{
		store:    s,
		sessions: newRegistry(0, 0),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (s *service) ListRoomingLists(ctx context.Context, search string, statuses store.StatusSet) (ListResult, error) {
	return newListResult(s.store, query.VisibleRoomingLists(s.store, search, statuses))
}

func (s *service) GetRoomingList(ctx context.Context, id string) (view.Card, error) {
	rl, err := s.store.RoomingListByID(store.RoomingListID(id))
	if err != nil {
		return view.Card{}, err
	}
	return view.NewCard(s.store, rl)
}

func (s *service) ListBookings(ctx context.Context, id string) ([]oracle.BookingView, error) {
	return oracle.ResolveBookings(s.store, store.RoomingListID(id))
}

func (s *service) ListEvents(ctx context.Context, search string, statuses store.StatusSet) ([]view.EventGroup, error) {
	res, err := s.ListRoomingLists(ctx, search, statuses)
	if err != nil {
		return nil, err
	}
	return view.GroupByEvent(res.Cards), nil
}

func (s *service) CreateSession(ctx context.Context) (SessionState, error) {
	sess := s.sessions.create()
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.sessions.state(sess), nil
}

func (s *service) GetSession(ctx context.Context, id string) (SessionState, error) {
	return s.sessions.with(id, func(*session) error { return nil })
}

func (s *service) DeleteSession(ctx context.Context, id string) error {
	return s.sessions.remove(id)
}

func (s *service) OpenFilter(ctx context.Context, id string) (SessionState, error) {
	return s.sessions.with(id, func(sess *session) error {
		return sess.machine.Open()
	})
}

func (s *service) ToggleStatus(ctx context.Context, id string, status store.Status) (SessionState, error) {
	return s.sessions.with(id, func(sess *session) error {
		return sess.machine.Toggle(status)
	})
}

func (s *service) ClearFilter(ctx context.Context, id string) (SessionState, error) {
	return s.sessions.with(id, func(sess *session) error {
		return sess.machine.Clear()
	})
}

func (s *service) SaveFilter(ctx context.Context, id string) (SessionState, error) {
	return s.sessions.with(id, func(sess *session) error {
		_, err := sess.machine.Save()
		return err
	})
}

func (s *service) DismissFilter(ctx context.Context, id string) (SessionState, error) {
	return s.sessions.with(id, func(sess *session) error {
		return sess.machine.Dismiss()
	})
}

func (s *service) SessionRoomingLists(ctx context.Context, id, search string) (ListResult, error) {
	var r query.Result
	if _, err := s.sessions.with(id, func(sess *session) error {
		r = sess.machine.Visible(s.store, search)
		return nil
	}); err != nil {
		return ListResult{}, err
	}
	return newListResult(s.store, r)
}

func (s *service) VerifyBookings(ctx context.Context, id string, observed []verify.ObservedBooking) (Verdict, error) {
	expected, err := oracle.ResolveBookings(s.store, store.RoomingListID(id))
	if err != nil {
		return Verdict{}, err
	}
	return Verdict{Discrepancies: verify.VerifyBookingDetails(expected, observed)}, nil
}

func (s *service) VerifyVisible(ctx context.Context, check VisibleCheck) (Verdict, error) {
	r := query.VisibleRoomingLists(s.store, check.Search, check.Statuses)

	var out []verify.Discrepancy
	out = append(out, verify.VerifyVisibleSet(r.Items(), check.ObservedNames)...)
	if check.EmptyStateShown != nil {
		out = append(out, verify.VerifyEmptyState(r, *check.EmptyStateShown)...)
	}
	if check.ObservedStatuses != nil {
		out = append(out, verify.VerifyStatuses(check.Statuses, check.ObservedStatuses)...)
	}
	return Verdict{Discrepancies: out}, nil
}

func (s *service) RunJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		<-ctx.Done()
		return
	}
	s.sessions.janitor(ctx, interval)
}
