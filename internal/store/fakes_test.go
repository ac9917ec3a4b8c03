package store_test

import (
	"context"
	"sync"

	"github.com/Veraticus/wallet/internal/common"
	"github.com/Veraticus/wallet/internal/model"
)

var errNotFound = &common.NotFoundError{Entity: "item", ID: "unknown"}

// fakeResource is an in-memory gateway. When err is set every call fails
// with it.
type fakeResource[T any] struct {
	items  []T
	idOf   func(T) model.ID
	withID func(T, model.ID) T
	err    error
	next   int64
}

func (f *fakeResource[T]) GetAll(context.Context) ([]T, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]T(nil), f.items...), nil
}

func (f *fakeResource[T]) GetByID(_ context.Context, id model.ID) (T, error) {
	var zero T
	if f.err != nil {
		return zero, f.err
	}
	if i := model.FindIndex(f.items, id, f.idOf); i >= 0 {
		return f.items[i], nil
	}
	return zero, errNotFound
}

func (f *fakeResource[T]) Add(_ context.Context, item T) (T, error) {
	if f.err != nil {
		var zero T
		return zero, f.err
	}
	f.next++
	item = f.withID(item, model.RemoteID(100+f.next))
	f.items = append(f.items, item)
	return item, nil
}

func (f *fakeResource[T]) Update(_ context.Context, item T) (T, error) {
	if f.err != nil {
		var zero T
		return zero, f.err
	}
	return item, nil
}

func (f *fakeResource[T]) Delete(context.Context, model.ID) error {
	return f.err
}

type fakeAccounts struct {
	fakeResource[model.Account]
}

func newFakeAccounts(items ...model.Account) *fakeAccounts {
	return &fakeAccounts{fakeResource[model.Account]{
		items: items,
		idOf:  model.AccountID,
		withID: func(a model.Account, id model.ID) model.Account {
			a.ID = id
			return a
		},
	}}
}

func (f *fakeAccounts) CreateDefaults(context.Context) ([]model.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	return model.DefaultAccounts(), nil
}

type fakeCategories struct {
	fakeResource[model.Category]
}

func newFakeCategories(items ...model.Category) *fakeCategories {
	return &fakeCategories{fakeResource[model.Category]{
		items: items,
		idOf:  model.CategoryID,
		withID: func(c model.Category, id model.ID) model.Category {
			c.ID = id
			return c
		},
	}}
}

func (f *fakeCategories) CreateDefaults(context.Context) ([]model.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	return model.DefaultCategories(), nil
}

type fakeTransactions struct {
	fakeResource[model.Transaction]
	lastFilter model.TransactionFilter
}

func newFakeTransactions(items ...model.Transaction) *fakeTransactions {
	return &fakeTransactions{fakeResource: fakeResource[model.Transaction]{
		items: items,
		idOf:  model.TransactionID,
		withID: func(t model.Transaction, id model.ID) model.Transaction {
			t.ID = id
			return t
		},
	}}
}

func (f *fakeTransactions) List(ctx context.Context, filter model.TransactionFilter) ([]model.Transaction, error) {
	f.lastFilter = filter
	return f.GetAll(ctx)
}

type countingNotifier struct {
	mu    sync.Mutex
	calls int
}

func (n *countingNotifier) TransactionChanged(context.Context) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
}

func (n *countingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls
}
