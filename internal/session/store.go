// Package session owns the in-memory conversation state. All reads and
// writes for a given session id are serialized through its shard lock,
// so the monotonicity invariants on Session hold under concurrent
// webhook traffic.
package session

import (
	"hash/fnv"
	"sort"
	"sync"
	"time"

	"scambait-lab/internal/domain/models"
	"scambait-lab/pkg/logger"
)

const shardCount = 32

type shard struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
}

// Store is a sharded in-memory map from session id to Session. The
// Session pointers never escape the shard lock: mutation happens via
// Update closures and reads return copies.
type Store struct {
	shards [shardCount]*shard
	clock  func() time.Time
	logger *logger.Logger
}

// NewStore creates an empty store.
func NewStore(log *logger.Logger) *Store {
	s := &Store{
		clock:  time.Now,
		logger: log.WithComponent("session-store"),
	}
	for i := range s.shards {
		s.shards[i] = &shard{sessions: make(map[string]*models.Session)}
	}
	return s
}

// WithClock overrides the time source, for tests.
func (s *Store) WithClock(clock func() time.Time) *Store {
	s.clock = clock
	return s
}

func (s *Store) shardFor(id string) *shard {
	h := fnv.New32a()
	h.Write([]byte(id))
	return s.shards[h.Sum32()%shardCount]
}

// Update runs fn on the session for id under the shard's write lock,
// creating the session on first use. fn must not retain the pointer.
func (s *Store) Update(id string, fn func(*models.Session)) {
	sh := s.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	sess, ok := sh.sessions[id]
	if !ok {
		sess = models.NewSession(id, s.clock())
		sh.sessions[id] = sess
		s.logger.Debug().Str("session_id", id).Msg("session created")
	}
	fn(sess)
}

// UpdateIfPresent runs fn under the shard's write lock only if the
// session already exists, and reports whether it did.
func (s *Store) UpdateIfPresent(id string, fn func(*models.Session)) bool {
	sh := s.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	sess, ok := sh.sessions[id]
	if !ok {
		return false
	}
	fn(sess)
	return true
}

// Get returns a full copy of the session, if present. It never creates.
func (s *Store) Get(id string) (models.Detail, bool) {
	sh := s.shardFor(id)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	sess, ok := sh.sessions[id]
	if !ok {
		return models.Detail{}, false
	}
	return sess.Detail(), true
}

// Delete removes a session and reports whether it existed.
func (s *Store) Delete(id string) bool {
	sh := s.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if _, ok := sh.sessions[id]; !ok {
		return false
	}
	delete(sh.sessions, id)
	return true
}

// List returns monitoring snapshots of every session, ordered by
// start time then id for stable output.
func (s *Store) List() []models.Snapshot {
	var out []models.Snapshot
	for _, sh := range s.shards {
		sh.mu.RLock()
		for _, sess := range sh.sessions {
			out = append(out, sess.Snapshot())
		}
		sh.mu.RUnlock()
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.Before(out[j].StartedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		n += len(sh.sessions)
		sh.mu.RUnlock()
	}
	return n
}

// EvictOlderThan removes sessions started more than maxAge ago and
// returns how many were removed. Eviction takes the same shard locks
// as updates, so a session is never dropped mid-update.
func (s *Store) EvictOlderThan(maxAge time.Duration) int {
	cutoff := s.clock().Add(-maxAge)
	evicted := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		for id, sess := range sh.sessions {
			if sess.StartedAt.Before(cutoff) {
				delete(sh.sessions, id)
				evicted++
			}
		}
		sh.mu.Unlock()
	}
	if evicted > 0 {
		s.logger.Info().Int("evicted", evicted).Msg("swept aged sessions")
	}
	return evicted
}

// Stats summarizes the store for the monitoring endpoint.
type Stats struct {
	TotalSessions         int     `json:"total_sessions"`
	ScamDetected          int     `json:"scam_detected"`
	FinalizedSessions     int     `json:"finalized_sessions"`
	TotalMessages         int     `json:"total_messages"`
	AvgMessagesPerSession float64 `json:"avg_messages_per_session"`
}

// Stats computes aggregate statistics across all sessions.
func (s *Store) Stats() Stats {
	var st Stats
	for _, sh := range s.shards {
		sh.mu.RLock()
		for _, sess := range sh.sessions {
			st.TotalSessions++
			st.TotalMessages += sess.MessageCount
			if sess.ScamDetected {
				st.ScamDetected++
			}
			if sess.Finalized {
				st.FinalizedSessions++
			}
		}
		sh.mu.RUnlock()
	}
	if st.TotalSessions > 0 {
		avg := float64(st.TotalMessages) / float64(st.TotalSessions)
		st.AvgMessagesPerSession = float64(int(avg*100+0.5)) / 100
	}
	return st
}
