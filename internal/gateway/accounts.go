package gateway

import (
	"context"

	"github.com/google/uuid"

	"github.com/Veraticus/wallet/internal/api"
	"github.com/Veraticus/wallet/internal/cache"
	"github.com/Veraticus/wallet/internal/common"
	"github.com/Veraticus/wallet/internal/model"
)

// Accounts is the accounts gateway.
type Accounts struct {
	*Cached[model.Account]
	client *api.Client
}

// NewAccounts builds the accounts gateway over client and store.
func NewAccounts(client *api.Client, store *cache.Store) *Accounts {
	remote := NewRemote(client, "account", api.PathAccounts, model.AccountID,
		func(a model.Account) error { return a.Validate() })

	return &Accounts{
		client: client,
		Cached: NewCached[model.Account](remote, CachedConfig[model.Account]{
			Entity: "account",
			Snapshot: Snapshot[model.Account]{
				Load: store.Accounts,
				Save: store.SaveAccounts,
			},
			IDOf: model.AccountID,
			WithID: func(a model.Account, id model.ID) model.Account {
				a.ID = id
				return a
			},
			NewID:    NewLocalAccountID,
			Defaults: model.DefaultAccounts,
		}),
	}
}

// NewLocalAccountID synthesizes an identifier for an account that only
// exists in the cache.
func NewLocalAccountID() model.ID {
	return model.LocalID(uuid.NewString())
}

// CreateDefaults asks the API to create the starter accounts. When the API
// is unavailable the default set is cached and returned instead.
func (g *Accounts) CreateDefaults(ctx context.Context) ([]model.Account, error) {
	var accounts []model.Account
	err := g.client.Post(ctx, api.PathAccountDefaults, nil, &accounts)
	if err == nil {
		g.degraded.Store(false)
		g.save(ctx, accounts)
		return accounts, nil
	}
	if !common.IsDegradable(err) {
		return nil, err
	}

	g.fallback("create-defaults", err)
	accounts = model.DefaultAccounts()
	g.save(ctx, accounts)
	return accounts, nil
}
