// Package gateway translates domain operations into REST calls. Accounts
// and categories degrade to the local cache when the API fails.
package gateway

import (
	"context"

	"github.com/Veraticus/wallet/internal/api"
	"github.com/Veraticus/wallet/internal/common"
	"github.com/Veraticus/wallet/internal/model"
)

// Resource is the operation set every entity gateway exposes.
type Resource[T any] interface {
	GetAll(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id model.ID) (T, error)
	Add(ctx context.Context, item T) (T, error)
	Update(ctx context.Context, item T) (T, error)
	Delete(ctx context.Context, id model.ID) error
}

// Remote is a Resource backed only by the REST API.
type Remote[T any] struct {
	client   *api.Client
	idOf     func(T) model.ID
	validate func(T) error
	path     string
	entity   string
}

// NewRemote creates a remote resource rooted at path. validate runs before
// every add and update; it may be nil.
func NewRemote[T any](client *api.Client, entity, path string, idOf func(T) model.ID, validate func(T) error) *Remote[T] {
	return &Remote[T]{client: client, entity: entity, path: path, idOf: idOf, validate: validate}
}

// GetAll implements Resource.
func (r *Remote[T]) GetAll(ctx context.Context) ([]T, error) {
	var items []T
	if err := r.client.Get(ctx, r.path, nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// GetByID implements Resource.
func (r *Remote[T]) GetByID(ctx context.Context, id model.ID) (T, error) {
	var item T
	if !id.Valid() {
		return item, &common.ValidationError{Field: "id", Reason: "is not a valid identifier"}
	}
	err := r.client.Get(ctx, api.ResourcePath(r.path, id), nil, &item)
	return item, err
}

// Add implements Resource.
func (r *Remote[T]) Add(ctx context.Context, item T) (T, error) {
	var created T
	if err := r.check(item); err != nil {
		return created, err
	}
	err := r.client.Post(ctx, r.path, item, &created)
	return created, err
}

// Update implements Resource.
func (r *Remote[T]) Update(ctx context.Context, item T) (T, error) {
	var updated T
	if err := r.check(item); err != nil {
		return updated, err
	}
	id := r.idOf(item)
	if !id.Valid() {
		return updated, &common.ValidationError{Field: "id", Reason: "is not a valid identifier"}
	}
	err := r.client.Put(ctx, api.ResourcePath(r.path, id), item, &updated)
	return updated, err
}

// Delete implements Resource.
func (r *Remote[T]) Delete(ctx context.Context, id model.ID) error {
	if !id.Valid() {
		return &common.ValidationError{Field: "id", Reason: "is not a valid identifier"}
	}
	return r.client.Delete(ctx, api.ResourcePath(r.path, id))
}

func (r *Remote[T]) check(item T) error {
	if r.validate == nil {
		return nil
	}
	return r.validate(item)
}
