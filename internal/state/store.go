package state

import (
	"sync"
	"time"

	"github.com/danhigham/tgcast/internal/domain"
)

const maxErrorLen = 200

// Store keeps in-memory counters for the current process. It implements
// broadcast.EventHandler and is safe to read from other goroutines while
// the broadcast loop writes to it.
type Store struct {
	mu     sync.RWMutex
	order  []string
	groups map[string]*domain.GroupStats
	cycles int
}

func New() *Store {
	return &Store{
		groups: make(map[string]*domain.GroupStats),
	}
}

func (s *Store) stats(group string) *domain.GroupStats {
	st, ok := s.groups[group]
	if !ok {
		st = &domain.GroupStats{Group: group}
		s.groups[group] = st
		s.order = append(s.order, group)
	}
	return st
}

func (s *Store) OnMembership(group string, member bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats(group).Member = member
}

func (s *Store) OnJoin(group string, res domain.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.stats(group)
	switch res.Outcome {
	case domain.OutcomeDone:
		st.Joined = true
		st.Member = true
	case domain.OutcomeRateLimited:
		st.RateLimited++
		st.LastError = truncate(res.Err)
	default:
		st.Failed++
		st.LastError = truncate(res.Err)
	}
}

func (s *Store) OnSend(group string, res domain.Result, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.stats(group)
	switch res.Outcome {
	case domain.OutcomeDone:
		st.Sent++
		st.LastSent = at
	case domain.OutcomeRateLimited:
		st.RateLimited++
		st.LastError = truncate(res.Err)
	default:
		st.Failed++
		st.LastError = truncate(res.Err)
	}
}

func (s *Store) OnCycleDone(cycle int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cycles = cycle
}

func (s *Store) Cycles() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cycles
}

// Snapshot returns a copy of the per-group counters in first-seen order.
func (s *Store) Snapshot() []domain.GroupStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.GroupStats, 0, len(s.order))
	for _, g := range s.order {
		out = append(out, *s.groups[g])
	}
	return out
}

// Totals sums the counters over all groups.
func (s *Store) Totals() (sent, failed, rateLimited int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, st := range s.groups {
		sent += st.Sent
		failed += st.Failed
		rateLimited += st.RateLimited
	}
	return sent, failed, rateLimited
}

func truncate(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if len(msg) > maxErrorLen {
		msg = msg[:maxErrorLen]
	}
	return msg
}
