package engine

import (
	"sync"
	"time"
)

// ChangeKind identifies which part of the engine state mutated.
type ChangeKind string

const (
	ChangeCatalog   ChangeKind = "catalog"
	ChangeHealth    ChangeKind = "health"
	ChangeSelection ChangeKind = "selection"
)

// ChangeEvent is delivered to subscribers whenever catalog, health, or
// selection state changes. Consumers re-query the facade on receipt; the
// event itself carries no payload.
type ChangeEvent struct {
	Kind ChangeKind
	At   time.Time
}

type notifier struct {
	mu   sync.Mutex
	subs map[int]chan ChangeEvent
	next int
}

func newNotifier() *notifier {
	return &notifier{subs: make(map[int]chan ChangeEvent)}
}

// subscribe registers a listener. The returned cancel func must be called to
// release the channel.
func (n *notifier) subscribe() (<-chan ChangeEvent, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.next
	n.next++

	ch := make(chan ChangeEvent, 8)
	n.subs[id] = ch

	cancel := func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if c, ok := n.subs[id]; ok {
			delete(n.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

// publish delivers the event without blocking. A subscriber that has fallen
// behind misses the event and catches up on its next re-query.
func (n *notifier) publish(kind ChangeKind) {
	ev := ChangeEvent{Kind: kind, At: time.Now()}

	n.mu.Lock()
	defer n.mu.Unlock()

	for _, ch := range n.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
