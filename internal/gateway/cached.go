package gateway

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync/atomic"

	"github.com/Veraticus/wallet/internal/common"
	"github.com/Veraticus/wallet/internal/model"
)

// Snapshot reads and writes the cached copy of one collection.
type Snapshot[T any] struct {
	Load func(ctx context.Context) ([]T, error)
	Save func(ctx context.Context, items []T) error
}

// Cached decorates a Resource with the local cache. Successful calls
// refresh the cache. Network and server failures are absorbed: reads come
// from the cache, writes are applied to the cache only and reported as
// successes. Degraded tells the caller whether the last call fell back.
type Cached[T any] struct {
	next     Resource[T]
	snapshot Snapshot[T]
	idOf     func(T) model.ID
	withID   func(T, model.ID) T
	newID    func() model.ID
	defaults func() []T
	entity   string
	degraded atomic.Bool
}

// CachedConfig describes how Cached handles one entity.
type CachedConfig[T any] struct {
	Snapshot Snapshot[T]
	IDOf     func(T) model.ID
	WithID   func(T, model.ID) T
	NewID    func() model.ID
	Defaults func() []T
	Entity   string
}

// NewCached wraps next.
func NewCached[T any](next Resource[T], cfg CachedConfig[T]) *Cached[T] {
	return &Cached[T]{
		next:     next,
		snapshot: cfg.Snapshot,
		idOf:     cfg.IDOf,
		withID:   cfg.WithID,
		newID:    cfg.NewID,
		defaults: cfg.Defaults,
		entity:   cfg.Entity,
	}
}

// Degraded reports whether the most recent call was served from the cache.
func (c *Cached[T]) Degraded() bool { return c.degraded.Load() }

// GetAll implements Resource. With the API down and nothing cached, the
// default set is written to the cache and returned.
func (c *Cached[T]) GetAll(ctx context.Context) ([]T, error) {
	items, err := c.next.GetAll(ctx)
	if err == nil {
		c.degraded.Store(false)
		c.save(ctx, items)
		return items, nil
	}
	if !common.IsDegradable(err) {
		return nil, err
	}

	c.fallback("list", err)
	cached := c.load(ctx)
	if len(cached) == 0 && c.defaults != nil {
		cached = c.defaults()
		c.save(ctx, cached)
	}
	return cached, nil
}

// GetByID implements Resource.
func (c *Cached[T]) GetByID(ctx context.Context, id model.ID) (T, error) {
	item, err := c.next.GetByID(ctx, id)
	if err == nil {
		c.degraded.Store(false)
		return item, nil
	}
	if !common.IsDegradable(err) {
		return item, err
	}

	c.fallback("get", err)
	cached := c.load(ctx)
	if i := model.FindIndex(cached, id, c.idOf); i >= 0 {
		return cached[i], nil
	}
	var zero T
	return zero, &common.NotFoundError{Entity: c.entity, ID: id.String()}
}

// Add implements Resource. Offline adds receive a client-side identifier.
func (c *Cached[T]) Add(ctx context.Context, item T) (T, error) {
	created, err := c.next.Add(ctx, item)
	if err == nil {
		c.degraded.Store(false)
		c.save(ctx, append(c.load(ctx), created))
		return created, nil
	}
	if !common.IsDegradable(err) {
		return created, err
	}

	c.fallback("add", err)
	local := c.withID(item, c.newID())
	c.save(ctx, append(c.load(ctx), local))
	return local, nil
}

// Update implements Resource. Offline updates store item verbatim.
func (c *Cached[T]) Update(ctx context.Context, item T) (T, error) {
	updated, err := c.next.Update(ctx, item)
	if err == nil {
		c.degraded.Store(false)
		c.replace(ctx, c.idOf(item), updated)
		return updated, nil
	}
	if !common.IsDegradable(err) {
		return updated, err
	}

	c.fallback("update", err)
	c.replace(ctx, c.idOf(item), item)
	return item, nil
}

// Delete implements Resource. The cached entry is removed whether or not
// the API call succeeds.
func (c *Cached[T]) Delete(ctx context.Context, id model.ID) error {
	err := c.next.Delete(ctx, id)
	if err != nil && !common.IsDegradable(err) {
		return err
	}
	if err != nil {
		c.fallback("delete", err)
	} else {
		c.degraded.Store(false)
	}

	cached := c.load(ctx)
	c.save(ctx, slices.DeleteFunc(cached, func(item T) bool {
		return c.idOf(item).Matches(id)
	}))
	return nil
}

func (c *Cached[T]) replace(ctx context.Context, id model.ID, item T) {
	cached := c.load(ctx)
	if i := model.FindIndex(cached, id, c.idOf); i >= 0 {
		cached[i] = item
		c.save(ctx, cached)
	}
}

func (c *Cached[T]) load(ctx context.Context) []T {
	items, err := c.snapshot.Load(ctx)
	if err != nil {
		slog.Warn("Failed to read cache", "entity", c.entity, "error", err)
		return nil
	}
	return items
}

func (c *Cached[T]) save(ctx context.Context, items []T) {
	if err := c.snapshot.Save(ctx, items); err != nil {
		slog.Warn("Failed to write cache", "entity", c.entity, "error", err)
	}
}

func (c *Cached[T]) fallback(op string, err error) {
	c.degraded.Store(true)
	var netErr *common.NetworkError
	slog.Warn("API unavailable, using local cache",
		"entity", c.entity,
		"op", op,
		"network", errors.As(err, &netErr),
		"error", err)
}
