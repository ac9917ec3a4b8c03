// Package syncer relays "a transaction changed" to the stores that depend
// on it. Refreshes are fire-and-forget: nothing waits for them to settle
// before the mutation returns.
package syncer

import (
	"context"
	"sync"
)

// Event is a typed marker published after a successful transaction change.
type Event int

// Events.
const (
	// AccountsStale means account balances must be refetched.
	AccountsStale Event = iota + 1
	// SummaryStale means the period summary must be refetched.
	SummaryStale
)

func (e Event) String() string {
	switch e {
	case AccountsStale:
		return "accounts-stale"
	case SummaryStale:
		return "summary-stale"
	default:
		return "unknown"
	}
}

// Handler reacts to an event. It runs on the publisher's goroutine and
// must not block.
type Handler func(ctx context.Context, e Event)

// Bus delivers events to subscribed handlers.
type Bus struct {
	handlers map[Event]map[int]Handler
	next     int
	mu       sync.RWMutex
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: map[Event]map[int]Handler{}}
}

// Subscribe registers h for e and returns a function removing it.
func (b *Bus) Subscribe(e Event, h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.handlers[e] == nil {
		b.handlers[e] = map[int]Handler{}
	}
	id := b.next
	b.next++
	b.handlers[e][id] = h
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.handlers[e], id)
	}
}

// Publish calls every handler for e synchronously.
func (b *Bus) Publish(ctx context.Context, e Event) {
	b.mu.RLock()
	hs := make([]Handler, 0, len(b.handlers[e]))
	for _, h := range b.handlers[e] {
		hs = append(hs, h)
	}
	b.mu.RUnlock()

	for _, h := range hs {
		h(ctx, e)
	}
}

// TransactionChanged publishes both stale markers.
func (b *Bus) TransactionChanged(ctx context.Context) {
	b.Publish(ctx, AccountsStale)
	b.Publish(ctx, SummaryStale)
}
