package store

import (
	"context"

	"github.com/Veraticus/wallet/internal/gateway"
	"github.com/Veraticus/wallet/internal/model"
)

// AccountGateway is what the accounts store needs from its gateway.
type AccountGateway interface {
	gateway.Resource[model.Account]
	CreateDefaults(ctx context.Context) ([]model.Account, error)
}

// Accounts is the account store.
type Accounts struct {
	*Collection[model.Account]
	gw AccountGateway
}

// NewAccounts creates the account store.
func NewAccounts(gw AccountGateway) *Accounts {
	return &Accounts{
		Collection: NewCollection[model.Account](gw, model.AccountID, model.DefaultAccounts),
		gw:         gw,
	}
}

// CreateDefaults seeds the starter accounts and loads them.
func (s *Accounts) CreateDefaults(ctx context.Context) error {
	s.Apply(Pending[model.Account])
	accounts, err := s.gw.CreateDefaults(ctx)
	if err != nil {
		s.reject(err)
		return err
	}
	s.Apply(func(st State[model.Account]) State[model.Account] { return Loaded(st, accounts) })
	return nil
}

// Find returns the in-memory account with id.
func (s *Accounts) Find(id model.ID) (model.Account, bool) {
	items := s.Items()
	if i := model.FindIndex(items, id, model.AccountID); i >= 0 {
		return items[i], true
	}
	return model.Account{}, false
}

// Total sums every balance.
func (s *Accounts) Total() model.Money {
	var total model.Money
	for _, a := range s.Items() {
		total = total.Add(a.Balance)
	}
	return total
}
