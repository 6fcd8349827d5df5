package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/nextdir/internal/logger"
)

// Sessions holds auth state per session id and fans changes out to
// subscribers.
type Sessions struct {
	mu      sync.Mutex
	entries map[string]*entry
	ttl     time.Duration
	now     func() time.Time
	logger  logger.Logger
}

type entry struct {
	state    State
	version  uint64
	subs     map[uint64]*subscriber
	nextSub  uint64
	lastSeen time.Time
}

// subscriber serializes deliveries to fn and drops any state older than
// the last one delivered.
type subscriber struct {
	fn        func(State)
	mu        sync.Mutex
	delivered bool
	last      uint64
}

func (sub *subscriber) deliver(st State, version uint64) {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.delivered && version <= sub.last {
		return
	}
	sub.delivered = true
	sub.last = version
	sub.fn(st)
}

func NewSessions(ttl time.Duration, log logger.Logger) *Sessions {
	return &Sessions{
		entries: make(map[string]*entry),
		ttl:     ttl,
		now:     time.Now,
		logger:  log.Named("sessions"),
	}
}

// NewID returns a fresh, unguessable session id.
func (s *Sessions) NewID() string {
	return uuid.NewString()
}

// Get returns the session for id, anonymous when unknown.
func (s *Sessions) Get(id string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return Session{ID: id}
	}
	e.lastSeen = s.now()
	return Session{ID: id, State: e.state}
}

// Begin marks a login as in progress.
func (s *Sessions) Begin(id string) {
	s.set(id, func(st *State) { st.IsLoading = true })
}

// SignIn stores the verified user for id.
func (s *Sessions) SignIn(id string, u *User) {
	s.logger.Debug("session signed in", logger.String("user", u.ID))
	s.set(id, func(st *State) {
		st.User = u
		st.IsLoading = false
	})
}

// SignOut clears the user for id.
func (s *Sessions) SignOut(id string) {
	s.logger.Debug("session signed out")
	s.set(id, func(st *State) {
		st.User = nil
		st.IsLoading = false
	})
}

// Subscribe calls fn with the current state and again on each change.
// States reach fn one at a time and in the order they were set; a state
// superseded before it could be delivered is skipped. fn must not change
// the session it is subscribed to.
// The returned release stops delivery; calling it more than once is safe.
func (s *Sessions) Subscribe(id string, fn func(State)) (release func()) {
	sub := &subscriber{fn: fn}

	s.mu.Lock()
	e := s.entryLocked(id)
	subID := e.nextSub
	e.nextSub++
	e.subs[subID] = sub
	current, version := e.state, e.version
	s.mu.Unlock()

	sub.deliver(current, version)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if e, ok := s.entries[id]; ok {
				delete(e.subs, subID)
				e.lastSeen = s.now()
			}
		})
	}
}

// Sweep drops sessions idle for longer than the TTL that have no
// subscribers. It returns the number removed.
func (s *Sessions) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for id, e := range s.entries {
		if len(e.subs) == 0 && e.lastSeen.Before(cutoff) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Sessions) set(id string, mutate func(*State)) {
	s.mu.Lock()
	e := s.entryLocked(id)
	mutate(&e.state)
	e.version++
	e.lastSeen = s.now()
	state, version := e.state, e.version
	subs := make([]*subscriber, 0, len(e.subs))
	for _, sub := range e.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub.deliver(state, version)
	}
}

func (s *Sessions) entryLocked(id string) *entry {
	e, ok := s.entries[id]
	if !ok {
		e = &entry{subs: make(map[uint64]*subscriber), lastSeen: s.now()}
		s.entries[id] = e
	}
	return e
}
