// Package session defines who is calling and tracks whether that is known
// yet.  Identity is passed explicitly to every service operation; Tracker
// holds the three-state lifecycle a client goes through while resolving it.
package session

import "sync"

// Identity is the authenticated caller.
type Identity struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"is_admin"`
}

// State is the resolution state of the current identity.
type State int

const (
	// Unknown means resolution has not completed; nothing protected may render.
	Unknown State = iota
	// Guest means resolution completed and nobody is signed in.
	Guest
	// Authenticated means an Identity is present.
	Authenticated
)

func (s State) String() string {
	switch s {
	case Guest:
		return "guest"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Snapshot is the tracker state at one instant.  Identity is nil unless
// State is Authenticated.
type Snapshot struct {
	State    State
	Identity *Identity
}

// IsAdmin reports whether the snapshot holds an admin identity.
func (s Snapshot) IsAdmin() bool {
	return s.State == Authenticated && s.Identity != nil && s.Identity.IsAdmin
}

// Tracker is a single observable session.  The zero value is not usable;
// call NewTracker.
type Tracker struct {
	mu     sync.Mutex
	snap   Snapshot
	subs   map[int]chan Snapshot
	nextID int
}

// NewTracker returns a tracker in the Unknown state.
func NewTracker() *Tracker {
	return &Tracker{subs: map[int]chan Snapshot{}}
}

// Snapshot returns the current state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snap
}

// Resolve completes resolution: nil means Guest.
func (t *Tracker) Resolve(id *Identity) {
	if id == nil {
		t.set(Snapshot{State: Guest})
		return
	}
	cp := *id
	t.set(Snapshot{State: Authenticated, Identity: &cp})
}

// Reset returns the tracker to Unknown, e.g. while a sign-in is in flight.
func (t *Tracker) Reset() { t.set(Snapshot{State: Unknown}) }

func (t *Tracker) set(s Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap = s
	for _, ch := range t.subs {
		offer(ch, s)
	}
}

// Subscribe returns a channel that always holds the latest snapshot,
// starting with the current one, and a function that ends the subscription.
// Slow readers skip intermediate states rather than block the tracker.
func (t *Tracker) Subscribe() (<-chan Snapshot, func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.nextID
	t.nextID++
	ch := make(chan Snapshot, 1)
	ch <- t.snap
	t.subs[id] = ch
	return ch, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if _, ok := t.subs[id]; ok {
			delete(t.subs, id)
			close(ch)
		}
	}
}

// offer replaces any unread snapshot in ch with s.
func offer(ch chan Snapshot, s Snapshot) {
	select {
	case <-ch:
	default:
	}
	ch <- s
}
