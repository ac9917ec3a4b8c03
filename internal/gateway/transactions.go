package gateway

import (
	"context"
	"net/url"

	"github.com/Veraticus/wallet/internal/api"
	"github.com/Veraticus/wallet/internal/model"
)

// Transactions is the transactions gateway. It has no cache fallback:
// every failure reaches the caller.
type Transactions struct {
	*Remote[model.Transaction]
}

// NewTransactions builds the transactions gateway.
func NewTransactions(client *api.Client) *Transactions {
	return &Transactions{
		Remote: NewRemote(client, "transaction", api.PathTransactions, model.TransactionID,
			func(t model.Transaction) error { return t.Validate() }),
	}
}

// List returns the transactions matching filter.
func (g *Transactions) List(ctx context.Context, filter model.TransactionFilter) ([]model.Transaction, error) {
	var items []model.Transaction
	if err := g.client.Get(ctx, api.PathTransactions, filterQuery(filter), &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Transaction{}
	}
	return items, nil
}

// Add validates t and creates it. Transfers go to the transfer endpoint.
func (g *Transactions) Add(ctx context.Context, t model.Transaction) (model.Transaction, error) {
	if err := t.Validate(); err != nil {
		return model.Transaction{}, err
	}
	t = t.Prepared()
	if t.Type != model.TransactionTypeTransfer {
		return g.Remote.Add(ctx, t)
	}

	var created model.Transaction
	err := g.client.Post(ctx, api.PathTransfer, t, &created)
	return created, err
}

// Update validates t and replaces the stored transaction.
func (g *Transactions) Update(ctx context.Context, t model.Transaction) (model.Transaction, error) {
	return g.Remote.Update(ctx, t.Prepared())
}

// Statistics returns per-category totals for a client period.
func (g *Transactions) Statistics(ctx context.Context, period string) (model.Statistics, error) {
	var stats model.Statistics
	query := url.Values{}
	if period != "" {
		query.Set("period", period)
	}
	err := g.client.Get(ctx, api.PathStatistics, query, &stats)
	return stats, err
}

func filterQuery(f model.TransactionFilter) url.Values {
	q := url.Values{}
	if f.Type != "" {
		q.Set("type", string(f.Type))
	}
	if f.Category.Valid() {
		q.Set("category", f.Category.String())
	}
	if f.DateFrom != "" {
		q.Set("date_from", f.DateFrom)
	}
	if f.DateTo != "" {
		q.Set("date_to", f.DateTo)
	}
	if f.AmountMin != nil {
		q.Set("amount_min", f.AmountMin.String())
	}
	if f.AmountMax != nil {
		q.Set("amount_max", f.AmountMax.String())
	}
	return q
}
