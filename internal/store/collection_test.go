package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/wallet/internal/common"
	"github.com/Veraticus/wallet/internal/model"
	"github.com/Veraticus/wallet/internal/store"
)

func TestAccounts_FetchAndTotal(t *testing.T) {
	gw := newFakeAccounts(
		model.Account{ID: model.RemoteID(1), Name: "Cash", Balance: model.MustMoney("150.25")},
		model.Account{ID: model.RemoteID(2), Name: "Card", Balance: model.NewMoney(1000)},
	)
	accounts := store.NewAccounts(gw)

	var statuses []store.Status
	accounts.Subscribe(func(s store.State[model.Account]) { statuses = append(statuses, s.Status) })

	require.NoError(t, accounts.Fetch(context.Background()))

	assert.Equal(t, []store.Status{store.StatusPending, store.StatusFulfilled}, statuses)
	assert.Len(t, accounts.Items(), 2)
	assert.Equal(t, "1150.25", accounts.Total().String())

	card, ok := accounts.Find(model.ParseID("2"))
	require.True(t, ok)
	assert.Equal(t, "Card", card.Name)

	_, ok = accounts.Find(model.RemoteID(3))
	assert.False(t, ok)
}

func TestAccounts_RejectSeedsDefaults(t *testing.T) {
	gw := newFakeAccounts()
	gw.err = common.NewUserError("server error: 500", errors.New("boom"))
	accounts := store.NewAccounts(gw)

	err := accounts.Fetch(context.Background())
	require.Error(t, err)

	state := accounts.Snapshot()
	assert.Equal(t, store.StatusRejected, state.Status)
	assert.Equal(t, "server error: 500", state.Error)
	assert.Len(t, state.Items, len(model.DefaultAccounts()))
}

func TestAccounts_Mutations(t *testing.T) {
	gw := newFakeAccounts(model.Account{ID: model.RemoteID(1), Name: "Cash"})
	accounts := store.NewAccounts(gw)
	ctx := context.Background()
	require.NoError(t, accounts.Fetch(ctx))

	created, err := accounts.Add(ctx, model.Account{Name: "Savings"})
	require.NoError(t, err)
	assert.Len(t, accounts.Items(), 2)

	created.Name = "Rainy day"
	_, err = accounts.Update(ctx, created)
	require.NoError(t, err)
	found, ok := accounts.Find(created.ID)
	require.True(t, ok)
	assert.Equal(t, "Rainy day", found.Name)

	require.NoError(t, accounts.Delete(ctx, model.RemoteID(1)))
	require.Len(t, accounts.Items(), 1)
	assert.Equal(t, "Rainy day", accounts.Items()[0].Name)
}

func TestAccounts_CreateDefaults(t *testing.T) {
	accounts := store.NewAccounts(newFakeAccounts())

	require.NoError(t, accounts.CreateDefaults(context.Background()))

	assert.Len(t, accounts.Items(), 2)
	assert.Equal(t, store.StatusFulfilled, accounts.Snapshot().Status)
}

func TestCategories_ForTypeAndSeeding(t *testing.T) {
	gw := newFakeCategories()
	gw.err = errors.New("offline")
	categories := store.NewCategories(gw)

	require.Error(t, categories.Fetch(context.Background()))

	assert.Len(t, categories.ForType(model.TransactionTypeIncome), 4)
	assert.Len(t, categories.ForType(model.TransactionTypeExpense), 6)
	assert.Empty(t, categories.ForType(model.TransactionTypeTransfer))

	salary, ok := categories.Find(model.RemoteID(1001))
	require.True(t, ok)
	assert.Equal(t, "Salary", salary.Name)
}

func validExpense() model.Transaction {
	return model.Transaction{
		Type:     model.TransactionTypeExpense,
		Amount:   model.NewMoney(100),
		Account:  model.RemoteID(1),
		Category: model.RemoteID(5),
		Date:     "2026-03-01",
	}
}

func TestTransactions_NotifyOnSuccessOnly(t *testing.T) {
	ctx := context.Background()

	t.Run("every successful mutation notifies once", func(t *testing.T) {
		notifier := &countingNotifier{}
		txs := store.NewTransactions(newFakeTransactions(), notifier)

		created, err := txs.Add(ctx, validExpense())
		require.NoError(t, err)
		assert.Equal(t, 1, notifier.count())

		_, err = txs.Update(ctx, created)
		require.NoError(t, err)
		assert.Equal(t, 2, notifier.count())

		require.NoError(t, txs.Delete(ctx, created.ID))
		assert.Equal(t, 3, notifier.count())
		assert.Empty(t, txs.Items())
	})

	t.Run("failures do not notify", func(t *testing.T) {
		notifier := &countingNotifier{}
		gw := newFakeTransactions()
		gw.err = &common.NetworkError{Op: "POST /api/transactions/", Err: errors.New("refused")}
		txs := store.NewTransactions(gw, notifier)

		_, err := txs.Add(ctx, validExpense())
		assert.ErrorIs(t, err, common.ErrNetwork)
		require.Error(t, txs.Delete(ctx, model.RemoteID(1)))
		assert.Zero(t, notifier.count())
	})

	t.Run("nil notifier", func(t *testing.T) {
		txs := store.NewTransactions(newFakeTransactions(), nil)
		_, err := txs.Add(ctx, validExpense())
		assert.NoError(t, err)
	})
}

func TestTransactions_FetchUsesFilterAndKeepsItemsOnFailure(t *testing.T) {
	gw := newFakeTransactions(validExpense())
	txs := store.NewTransactions(gw, nil)
	ctx := context.Background()

	filter := model.TransactionFilter{Type: model.TransactionTypeExpense, DateFrom: "2026-03-01"}
	txs.SetFilter(filter)
	require.NoError(t, txs.Fetch(ctx))
	assert.Equal(t, filter, gw.lastFilter)
	require.Len(t, txs.Items(), 1)

	gw.err = errors.New("server error: 500")
	require.Error(t, txs.Fetch(ctx))

	state := txs.Snapshot()
	assert.Equal(t, store.StatusRejected, state.Status)
	assert.Len(t, state.Items, 1, "no defaults and no clearing for transactions")
}
