package store

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"bridge-voice-backend/internal/call"
)

var ErrNotFound = errors.New("session not found")

// Defaults for the eviction policy.
const (
	DefaultSessionTTL  = 2 * time.Hour
	DefaultMaxSessions = 10_000
)

type Options struct {
	// SessionTTL evicts a session this long after its last turn. Zero disables.
	SessionTTL time.Duration
	// MaxSessions caps live sessions; the least recently used idle session is
	// evicted to make room. Zero disables.
	MaxSessions int
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// MemoryStore keeps one session per call id. The store mutex only guards the
// map; each call has its own lock, held for a whole turn, so turns on
// different calls run in parallel while turns on the same call serialize.
type MemoryStore struct {
	mu          sync.Mutex
	entries     map[string]*entry
	ttl         time.Duration
	maxSessions int
	now         func() time.Time
}

type entry struct {
	mu       sync.Mutex
	session  *call.Session
	lastSeen time.Time // guarded by mu
	evicted  bool      // guarded by mu
}

func NewMemoryStore(opts Options) *MemoryStore {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{
		entries:     make(map[string]*entry),
		ttl:         opts.SessionTTL,
		maxSessions: opts.MaxSessions,
		now:         now,
	}
}

// Acquire returns the session for callID, creating it on first use, with
// the call's lock held. The caller must invoke release exactly once.
func (m *MemoryStore) Acquire(callID string) (*call.Session, func()) {
	for {
		e := m.lookup(callID, true)
		e.mu.Lock()
		if e.evicted {
			// Lost a race with the sweeper between lookup and lock.
			e.mu.Unlock()
			continue
		}
		release := func() {
			e.lastSeen = m.now()
			e.session.UpdatedAt = e.lastSeen
			e.mu.Unlock()
		}
		return e.session, release
	}
}

// Get returns a copy of the session for callID, or ErrNotFound when the call
// has not had a turn yet. It waits for an in-flight turn on the same call.
func (m *MemoryStore) Get(callID string) (call.Session, error) {
	e := m.lookup(callID, false)
	if e == nil {
		return call.Session{}, ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.evicted {
		return call.Session{}, ErrNotFound
	}
	return e.session.Clone(), nil
}

// Len reports how many sessions are live.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *MemoryStore) lookup(callID string, create bool) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[callID]; ok {
		return e
	}
	if !create {
		return nil
	}
	if m.maxSessions > 0 && len(m.entries) >= m.maxSessions {
		m.evictOldestLocked()
	}
	now := m.now()
	e := &entry{session: call.NewSession(callID, now), lastSeen: now}
	m.entries[callID] = e
	return e
}

// evictOldestLocked drops the least recently used session that is not in
// the middle of a turn. Callers hold m.mu.
func (m *MemoryStore) evictOldestLocked() {
	var (
		oldestID string
		oldest   *entry
	)
	for id, e := range m.entries {
		if !e.mu.TryLock() {
			continue
		}
		if oldest == nil || e.lastSeen.Before(oldest.lastSeen) {
			if oldest != nil {
				oldest.mu.Unlock()
			}
			oldestID, oldest = id, e
			continue
		}
		e.mu.Unlock()
	}
	if oldest == nil {
		return
	}
	oldest.evicted = true
	delete(m.entries, oldestID)
	oldest.mu.Unlock()
	log.Printf("[store] evicted session %s to stay under %d sessions", oldestID, m.maxSessions)
}

// Sweep evicts sessions idle for longer than the TTL and returns how many
// were removed. Sessions in the middle of a turn are skipped.
func (m *MemoryStore) Sweep() int {
	if m.ttl <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.ttl)
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, e := range m.entries {
		if !e.mu.TryLock() {
			continue
		}
		if e.lastSeen.Before(cutoff) {
			e.evicted = true
			delete(m.entries, id)
			removed++
		}
		e.mu.Unlock()
	}
	return removed
}

// Run sweeps expired sessions every interval until ctx is done.
func (m *MemoryStore) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 || m.ttl <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				log.Printf("[store] swept %d idle session(s)", n)
			}
		}
	}
}
