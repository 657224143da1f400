package session

import (
	"sync"
	"time"
)

type EventKind string

const (
	EventSignedIn  EventKind = "signed_in"
	EventSignedUp  EventKind = "signed_up"
	EventSignedOut EventKind = "signed_out"
)

// Event is a session transition.
type Event struct {
	Kind     EventKind
	Identity Identity
	At       time.Time
}

// Notifier fans session events out to subscribers. Safe for concurrent use.
type Notifier struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(Event)
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]func(Event))}
}

// Subscribe registers fn and returns a function that removes it.
func (n *Notifier) Subscribe(fn func(Event)) (unsubscribe func()) {
	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.subs[id] = fn
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs, id)
			n.mu.Unlock()
		})
	}
}

// Publish delivers ev to every subscriber synchronously.
func (n *Notifier) Publish(ev Event) {
	if n == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	n.mu.RLock()
	subs := make([]func(Event), 0, len(n.subs))
	for _, fn := range n.subs {
		subs = append(subs, fn)
	}
	n.mu.RUnlock()

	for _, fn := range subs {
		fn(ev)
	}
}
