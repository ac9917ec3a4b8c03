package store

import (
	"context"

	"github.com/Veraticus/wallet/internal/gateway"
	"github.com/Veraticus/wallet/internal/model"
)

// TransactionGateway is what the transactions store needs from its gateway.
type TransactionGateway interface {
	gateway.Resource[model.Transaction]
	List(ctx context.Context, filter model.TransactionFilter) ([]model.Transaction, error)
}

// ChangeNotifier is told about every successful transaction mutation.
type ChangeNotifier interface {
	TransactionChanged(ctx context.Context)
}

// Transactions is the transaction store. Failures are never absorbed; on a
// failed list the previous items stay in place next to the error.
type Transactions struct {
	*Collection[model.Transaction]
	gw       TransactionGateway
	notifier ChangeNotifier
	filter   model.TransactionFilter
}

// NewTransactions creates the transaction store. notifier may be nil.
func NewTransactions(gw TransactionGateway, notifier ChangeNotifier) *Transactions {
	return &Transactions{
		Collection: NewCollection[model.Transaction](gw, model.TransactionID, nil),
		gw:         gw,
		notifier:   notifier,
	}
}

// SetFilter changes the filter used by Fetch.
func (s *Transactions) SetFilter(filter model.TransactionFilter) {
	s.filter = filter
}

// Fetch reloads the transactions matching the current filter.
func (s *Transactions) Fetch(ctx context.Context) error {
	s.Apply(Pending[model.Transaction])
	items, err := s.gw.List(ctx, s.filter)
	if err != nil {
		s.reject(err)
		return err
	}
	s.Apply(func(st State[model.Transaction]) State[model.Transaction] { return Loaded(st, items) })
	return nil
}

// Add creates t and announces the change.
func (s *Transactions) Add(ctx context.Context, t model.Transaction) (model.Transaction, error) {
	created, err := s.Collection.Add(ctx, t)
	if err != nil {
		return created, err
	}
	s.changed(ctx)
	return created, nil
}

// Update replaces t and announces the change.
func (s *Transactions) Update(ctx context.Context, t model.Transaction) (model.Transaction, error) {
	updated, err := s.Collection.Update(ctx, t)
	if err != nil {
		return updated, err
	}
	s.changed(ctx)
	return updated, nil
}

// Delete removes the transaction and announces the change.
func (s *Transactions) Delete(ctx context.Context, id model.ID) error {
	if err := s.Collection.Delete(ctx, id); err != nil {
		return err
	}
	s.changed(ctx)
	return nil
}

func (s *Transactions) changed(ctx context.Context) {
	if s.notifier != nil {
		s.notifier.TransactionChanged(ctx)
	}
}
