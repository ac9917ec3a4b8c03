package store

import (
	"context"

	"github.com/Veraticus/wallet/internal/gateway"
	"github.com/Veraticus/wallet/internal/model"
)

// Collection is a list store over one gateway. When defaults is set, a
// rejected operation leaves the collection with at least the default set.
type Collection[T any] struct {
	*Container[State[T]]
	gw       gateway.Resource[T]
	idOf     func(T) model.ID
	defaults func() []T
}

// NewCollection creates a collection store.
func NewCollection[T any](gw gateway.Resource[T], idOf func(T) model.ID, defaults func() []T) *Collection[T] {
	return &Collection[T]{
		Container: NewContainer(NewState[T]()),
		gw:        gw,
		idOf:      idOf,
		defaults:  defaults,
	}
}

// Items returns the in-memory collection.
func (c *Collection[T]) Items() []T {
	return c.Snapshot().Items
}

// Fetch reloads the collection from the gateway.
func (c *Collection[T]) Fetch(ctx context.Context) error {
	c.Apply(Pending[T])
	items, err := c.gw.GetAll(ctx)
	if err != nil {
		c.reject(err)
		return err
	}
	c.Apply(func(s State[T]) State[T] { return Loaded(s, items) })
	return nil
}

// Get returns one record from the gateway without changing state.
func (c *Collection[T]) Get(ctx context.Context, id model.ID) (T, error) {
	return c.gw.GetByID(ctx, id)
}

// Add creates item and appends the result.
func (c *Collection[T]) Add(ctx context.Context, item T) (T, error) {
	c.Apply(Pending[T])
	created, err := c.gw.Add(ctx, item)
	if err != nil {
		c.reject(err)
		return created, err
	}
	c.Apply(func(s State[T]) State[T] { return Inserted(s, created) })
	return created, nil
}

// Update replaces item by identifier.
func (c *Collection[T]) Update(ctx context.Context, item T) (T, error) {
	c.Apply(Pending[T])
	updated, err := c.gw.Update(ctx, item)
	if err != nil {
		c.reject(err)
		return updated, err
	}
	c.Apply(func(s State[T]) State[T] { return Replaced(s, c.idOf(item), updated, c.idOf) })
	return updated, nil
}

// Delete removes the record with id.
func (c *Collection[T]) Delete(ctx context.Context, id model.ID) error {
	c.Apply(Pending[T])
	if err := c.gw.Delete(ctx, id); err != nil {
		c.reject(err)
		return err
	}
	c.Apply(func(s State[T]) State[T] { return Removed(s, id, c.idOf) })
	return nil
}

func (c *Collection[T]) reject(err error) {
	c.Apply(func(s State[T]) State[T] {
		return Seeded(Rejected(s, err), c.defaults)
	})
}
