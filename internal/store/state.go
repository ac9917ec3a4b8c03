// Package store holds the in-memory state of each entity for the running
// session. Every state change goes through a pure reducer function; stores
// apply reducers and notify subscribers.
package store

import (
	"slices"
	"sync"

	"github.com/Veraticus/wallet/internal/common"
	"github.com/Veraticus/wallet/internal/model"
)

// Status is the phase of the most recent async operation.
type Status string

// Operation phases.
const (
	StatusIdle      Status = "idle"
	StatusPending   Status = "pending"
	StatusFulfilled Status = "fulfilled"
	StatusRejected  Status = "rejected"
)

// State is the collection state shared by the list stores.
type State[T any] struct {
	Items   []T
	Error   string
	Status  Status
	Loading bool
}

// NewState returns the idle, empty state.
func NewState[T any]() State[T] {
	return State[T]{Status: StatusIdle}
}

// Pending sets loading and clears the previous error.
func Pending[T any](s State[T]) State[T] {
	s.Loading = true
	s.Error = ""
	s.Status = StatusPending
	return s
}

// Rejected clears loading and records the failure. Items are kept.
func Rejected[T any](s State[T], err error) State[T] {
	s.Loading = false
	s.Error = common.Message(err)
	s.Status = StatusRejected
	return s
}

// Loaded replaces the collection.
func Loaded[T any](s State[T], items []T) State[T] {
	s = fulfilled(s)
	s.Items = slices.Clone(items)
	return s
}

// Inserted appends item.
func Inserted[T any](s State[T], item T) State[T] {
	s = fulfilled(s)
	s.Items = append(slices.Clone(s.Items), item)
	return s
}

// Replaced swaps the element matching id for item. An unknown id leaves
// the collection unchanged.
func Replaced[T any](s State[T], id model.ID, item T, idOf func(T) model.ID) State[T] {
	s = fulfilled(s)
	if i := model.FindIndex(s.Items, id, idOf); i >= 0 {
		s.Items = slices.Clone(s.Items)
		s.Items[i] = item
	}
	return s
}

// Removed drops every element matching id.
func Removed[T any](s State[T], id model.ID, idOf func(T) model.ID) State[T] {
	s = fulfilled(s)
	s.Items = slices.DeleteFunc(slices.Clone(s.Items), func(item T) bool {
		return idOf(item).Matches(id)
	})
	return s
}

// Seeded fills an empty collection with defaults. Non-empty collections
// are returned unchanged.
func Seeded[T any](s State[T], defaults func() []T) State[T] {
	if len(s.Items) == 0 && defaults != nil {
		s.Items = defaults()
	}
	return s
}

func fulfilled[T any](s State[T]) State[T] {
	s.Loading = false
	s.Error = ""
	s.Status = StatusFulfilled
	return s
}

// Container is an observable holder of one state value.
type Container[S any] struct {
	subs  map[int]func(S)
	state S
	next  int
	mu    sync.RWMutex
}

// NewContainer creates a container holding initial.
func NewContainer[S any](initial S) *Container[S] {
	return &Container[S]{state: initial, subs: map[int]func(S){}}
}

// Snapshot returns the current state.
func (c *Container[S]) Snapshot() S {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Apply runs reduce on the current state, stores the result and notifies
// subscribers with it.
func (c *Container[S]) Apply(reduce func(S) S) S {
	c.mu.Lock()
	c.state = reduce(c.state)
	state := c.state
	subs := make([]func(S), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(state)
	}
	return state
}

// Subscribe registers fn for every state change. The returned function
// removes it.
func (c *Container[S]) Subscribe(fn func(S)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.next
	c.next++
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}
