package gateway

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/Veraticus/wallet/internal/api"
	"github.com/Veraticus/wallet/internal/cache"
	"github.com/Veraticus/wallet/internal/common"
	"github.com/Veraticus/wallet/internal/model"
)

// Categories is the categories gateway. Errors that get past the cache
// carry a user-facing message.
type Categories struct {
	*Annotated[model.Category]
	cached *Cached[model.Category]
	client *api.Client
}

// NewCategories builds the categories gateway over client and store.
func NewCategories(client *api.Client, store *cache.Store) *Categories {
	remote := NewRemote(client, "category", api.PathCategories, model.CategoryID,
		func(c model.Category) error { return c.Validate() })

	cached := NewCached[model.Category](remote, CachedConfig[model.Category]{
		Entity: "category",
		Snapshot: Snapshot[model.Category]{
			Load: store.Categories,
			Save: store.SaveCategories,
		},
		IDOf: model.CategoryID,
		WithID: func(c model.Category, id model.ID) model.Category {
			c.ID = id
			return c
		},
		NewID:    NewLocalCategoryID,
		Defaults: model.DefaultCategories,
	})

	return &Categories{
		Annotated: NewAnnotated[model.Category](cached),
		cached:    cached,
		client:    client,
	}
}

// NewLocalCategoryID synthesizes a numeric identifier for a category added
// while offline. Category identifiers stay numeric everywhere.
func NewLocalCategoryID() model.ID {
	return model.RemoteID(time.Now().UnixMilli() + rand.Int64N(1000))
}

// Degraded reports whether the most recent call was served from the cache.
func (g *Categories) Degraded() bool { return g.cached.Degraded() }

// CreateDefaults asks the API to create the starter categories, falling
// back to caching the default set.
func (g *Categories) CreateDefaults(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := g.client.Post(ctx, api.PathCategoryDefaults, nil, &categories)
	if err == nil {
		g.cached.degraded.Store(false)
		g.cached.save(ctx, categories)
		return categories, nil
	}
	if !common.IsDegradable(err) {
		return nil, annotate(err)
	}

	g.cached.fallback("create-defaults", err)
	categories = model.DefaultCategories()
	g.cached.save(ctx, categories)
	return categories, nil
}
