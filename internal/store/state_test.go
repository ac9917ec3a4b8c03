package store_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/wallet/internal/common"
	"github.com/Veraticus/wallet/internal/model"
	"github.com/Veraticus/wallet/internal/store"
)

func accountState(accounts ...model.Account) store.State[model.Account] {
	return store.Loaded(store.NewState[model.Account](), accounts)
}

func TestReducers_Phases(t *testing.T) {
	s := store.NewState[model.Account]()
	assert.Equal(t, store.StatusIdle, s.Status)

	s = store.Pending(s)
	assert.True(t, s.Loading)
	assert.Equal(t, store.StatusPending, s.Status)

	s = store.Rejected(s, common.NewUserError("cannot reach server", errors.New("dial tcp")))
	assert.False(t, s.Loading)
	assert.Equal(t, store.StatusRejected, s.Status)
	assert.Equal(t, "cannot reach server", s.Error)

	s = store.Pending(s)
	assert.Empty(t, s.Error, "pending clears the previous error")

	s = store.Loaded(s, []model.Account{{ID: model.RemoteID(1)}})
	assert.Equal(t, store.StatusFulfilled, s.Status)
	assert.False(t, s.Loading)
	assert.Len(t, s.Items, 1)
}

func TestReducers_RejectedKeepsItems(t *testing.T) {
	s := accountState(model.Account{ID: model.RemoteID(1), Name: "Cash"})

	s = store.Rejected(store.Pending(s), errors.New("boom"))

	require.Len(t, s.Items, 1)
	assert.Equal(t, "boom", s.Error)
}

func TestReducers_DoNotMutateInput(t *testing.T) {
	before := accountState(
		model.Account{ID: model.RemoteID(1), Name: "Cash"},
		model.Account{ID: model.RemoteID(2), Name: "Card"},
	)

	_ = store.Inserted(before, model.Account{ID: model.RemoteID(3)})
	_ = store.Replaced(before, model.RemoteID(1), model.Account{ID: model.RemoteID(1), Name: "Wallet"}, model.AccountID)
	_ = store.Removed(before, model.RemoteID(2), model.AccountID)

	require.Len(t, before.Items, 2)
	assert.Equal(t, "Cash", before.Items[0].Name)
	assert.Equal(t, "Card", before.Items[1].Name)
}

func TestReducers_Replaced(t *testing.T) {
	s := accountState(model.Account{ID: model.RemoteID(1), Name: "Cash"})

	s = store.Replaced(s, model.RemoteID(1), model.Account{ID: model.RemoteID(1), Name: "Wallet"}, model.AccountID)
	assert.Equal(t, "Wallet", s.Items[0].Name)

	s = store.Replaced(s, model.RemoteID(9), model.Account{ID: model.RemoteID(9), Name: "Ghost"}, model.AccountID)
	require.Len(t, s.Items, 1)
	assert.Equal(t, "Wallet", s.Items[0].Name)
}

func TestReducers_RemovedMatchesAcrossForms(t *testing.T) {
	s := accountState(
		model.Account{ID: model.RemoteID(7)},
		model.Account{ID: model.LocalID("abc")},
	)

	s = store.Removed(s, model.ParseID("7"), model.AccountID)
	require.Len(t, s.Items, 1)

	s = store.Removed(s, model.NullID(), model.AccountID)
	assert.Len(t, s.Items, 1, "null ids match nothing")

	s = store.Removed(s, model.ParseID("local-abc"), model.AccountID)
	assert.Empty(t, s.Items)
}

func TestReducers_Seeded(t *testing.T) {
	empty := store.NewState[model.Account]()
	seeded := store.Seeded(empty, model.DefaultAccounts)
	assert.Len(t, seeded.Items, len(model.DefaultAccounts()))

	full := accountState(model.Account{ID: model.RemoteID(1)})
	assert.Len(t, store.Seeded(full, model.DefaultAccounts).Items, 1)

	assert.Empty(t, store.Seeded(empty, nil).Items)
}

func TestContainer_Subscribe(t *testing.T) {
	c := store.NewContainer(0)
	var seen []int
	unsubscribe := c.Subscribe(func(v int) { seen = append(seen, v) })

	c.Apply(func(v int) int { return v + 1 })
	c.Apply(func(v int) int { return v * 10 })
	unsubscribe()
	c.Apply(func(v int) int { return v + 1 })

	assert.Equal(t, []int{1, 10}, seen)
	assert.Equal(t, 11, c.Snapshot())
}
