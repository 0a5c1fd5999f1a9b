package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/nekogravitycat/roominglist-verifier/internal/filter"
	"github.com/nekogravitycat/roominglist-verifier/internal/store"
)

// SessionMetrics is notified when sessions come and go.
type SessionMetrics interface {
	SessionOpened()
	SessionClosed()
}

type noopSessionMetrics struct{}

func (noopSessionMetrics) SessionOpened() {}
func (noopSessionMetrics) SessionClosed() {}

type registry struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	initial  store.StatusSet
	now      func() time.Time
	metrics  SessionMetrics
}

func newRegistry(ttl time.Duration, initial store.StatusSet) *registry {
	return &registry{
		sessions: make(map[string]*session),
		ttl:      ttl,
		initial:  initial,
		now:      time.Now,
		metrics:  noopSessionMetrics{},
	}
}

func (r *registry) expired(s *session, now time.Time) bool {
	return r.ttl > 0 && now.Sub(s.lastUsedAt()) > r.ttl
}

func (r *registry) create() *session {
	now := r.now()
	s := &session{
		id:      uuid.NewString(),
		machine: filter.New(r.initial),
		created: now,
	}
	s.touch(now)

	r.mu.Lock()
	r.sessions[s.id] = s
	r.mu.Unlock()

	r.metrics.SessionOpened()
	return s
}

func (r *registry) get(id string) (*session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if r.expired(s, r.now()) {
		delete(r.sessions, id)
		r.metrics.SessionClosed()
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// with runs fn while holding the session's lock and marks it used.
func (r *registry) with(id string, fn func(s *session) error) (SessionState, error) {
	s, err := r.get(id)
	if err != nil {
		return SessionState{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(s); err != nil {
		return SessionState{}, err
	}
	s.touch(r.now())
	return r.state(s), nil
}

// state must be called with s.mu held.
func (r *registry) state(s *session) SessionState {
	st := SessionState{
		ID:        s.id,
		Panel:     s.machine.Panel(),
		CreatedAt: s.created,
	}
	if r.ttl > 0 {
		st.ExpiresAt = s.lastUsedAt().Add(r.ttl)
	}
	return st
}

func (r *registry) remove(id string) error {
	r.mu.Lock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	r.metrics.SessionClosed()
	return nil
}

// expire drops every idle session and reports how many went.
func (r *registry) expire() int {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, s := range r.sessions {
		if r.expired(s, now) {
			delete(r.sessions, id)
			r.metrics.SessionClosed()
			n++
		}
	}
	return n
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// janitor expires idle sessions every interval until ctx is done.
func (r *registry) janitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.expire(); n > 0 {
				log.Debug().Int("expired", n).Msg("filter sessions expired")
			}
		}
	}
}
