package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/MrSnakeDoc/nextdir/internal/logger"
)

func newSessions(ttl time.Duration) *Sessions {
	return NewSessions(ttl, logger.New("error", false))
}

// recorder collects delivered states.
type recorder struct {
	mu     sync.Mutex
	states []State
}

func (r *recorder) record(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func (r *recorder) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.states)
}

func (r *recorder) last() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.states[len(r.states)-1]
}

func TestSubscribeDeliversCurrentStateFirst(t *testing.T) {
	s := newSessions(time.Hour)
	s.SignIn("sid", &User{ID: "u1"})

	rec := &recorder{}
	release := s.Subscribe("sid", rec.record)
	defer release()

	if rec.len() != 1 || rec.last().User == nil || rec.last().User.ID != "u1" {
		t.Fatalf("initial delivery = %+v", rec.states)
	}
}

func TestSubscribeFollowsChanges(t *testing.T) {
	s := newSessions(time.Hour)
	rec := &recorder{}
	release := s.Subscribe("sid", rec.record)
	defer release()

	s.Begin("sid")
	if !rec.last().IsLoading {
		t.Error("Begin() should deliver IsLoading=true")
	}

	s.SignIn("sid", &User{ID: "u1"})
	if st := rec.last(); st.IsLoading || st.User == nil {
		t.Errorf("after SignIn = %+v", st)
	}

	s.SignOut("sid")
	if rec.last().User != nil {
		t.Error("SignOut() should deliver a nil user")
	}
	if rec.len() != 4 {
		t.Errorf("deliveries = %d, want 4", rec.len())
	}
}

func TestReleaseStopsDelivery(t *testing.T) {
	s := newSessions(time.Hour)
	rec := &recorder{}
	release := s.Subscribe("sid", rec.record)

	release()
	release() // idempotent

	s.SignIn("sid", &User{ID: "u1"})
	if rec.len() != 1 {
		t.Errorf("deliveries after release = %d, want only the initial one", rec.len())
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	s := newSessions(time.Hour)
	rec := &recorder{}
	release := s.Subscribe("a", rec.record)
	defer release()

	s.SignIn("b", &User{ID: "u2"})

	if rec.len() != 1 {
		t.Errorf("session a received %d deliveries for a change on b", rec.len())
	}
	if s.Get("a").SignedIn() {
		t.Error("session a should be anonymous")
	}
	if !s.Get("b").SignedIn() {
		t.Error("session b should be signed in")
	}
}

func TestStaleStateIsNotDeliveredLast(t *testing.T) {
	rec := &recorder{}
	sub := &subscriber{fn: rec.record}

	// a newer sign-in lands before the subscription's initial snapshot
	sub.deliver(State{User: &User{ID: "u1"}}, 2)
	sub.deliver(State{}, 1)

	if rec.len() != 1 || rec.last().User == nil {
		t.Fatalf("deliveries = %+v, want only the signed-in state", rec.states)
	}
}

func TestSubscribeRacingChangesEndsOnCurrentState(t *testing.T) {
	for i := 0; i < 50; i++ {
		s := newSessions(time.Hour)
		rec := &recorder{}

		var wg sync.WaitGroup
		wg.Add(2)
		var release func()
		go func() {
			defer wg.Done()
			release = s.Subscribe("sid", rec.record)
		}()
		go func() {
			defer wg.Done()
			s.Begin("sid")
			s.SignIn("sid", &User{ID: "u1"})
		}()
		wg.Wait()
		release()

		last := rec.last()
		if last.User == nil || last.User.ID != "u1" || last.IsLoading {
			t.Fatalf("run %d: last delivered state = %+v, want signed in", i, last)
		}
	}
}

func TestSweep(t *testing.T) {
	s := newSessions(time.Minute)
	now := time.Now()
	s.now = func() time.Time { return now }

	s.SignIn("idle", &User{ID: "u1"})
	s.SignIn("watched", &User{ID: "u2"})
	release := s.Subscribe("watched", func(State) {})
	defer release()

	now = now.Add(2 * time.Minute)
	s.SignIn("fresh", &User{ID: "u3"})

	if removed := s.Sweep(); removed != 1 {
		t.Errorf("Sweep() removed %d, want 1", removed)
	}
	if s.Get("idle").SignedIn() {
		t.Error("idle session should be gone")
	}
	if !s.Get("watched").SignedIn() || !s.Get("fresh").SignedIn() {
		t.Error("watched and fresh sessions must survive")
	}
}

func TestContextRoundTrip(t *testing.T) {
	if FromContext(context.Background()).SignedIn() {
		t.Error("empty context should be anonymous")
	}

	sess := Session{ID: "sid", State: State{User: &User{ID: "u1"}}}
	got := FromContext(WithSession(context.Background(), sess))
	if got.ID != "sid" || got.User().ID != "u1" {
		t.Errorf("FromContext() = %+v", got)
	}
}
