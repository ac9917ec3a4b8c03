package gateway_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/wallet/internal/api"
	"github.com/Veraticus/wallet/internal/cache"
	"github.com/Veraticus/wallet/internal/common"
	"github.com/Veraticus/wallet/internal/gateway"
	"github.com/Veraticus/wallet/internal/model"
	"github.com/Veraticus/wallet/internal/testutil"
)

type harness struct {
	fake   *testutil.FakeAPI
	store  *cache.Store
	client *api.Client
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	fake := testutil.NewFakeAPI(t)
	store := testutil.SetupTestCache(t)
	return &harness{fake: fake, store: store, client: api.NewClient(fake.URL(), store)}
}

func TestAccounts_OnlineRefreshesCache(t *testing.T) {
	h := newHarness(t)
	h.fake.SeedAccounts(
		model.Account{Name: "Cash", Balance: model.NewMoney(100)},
		model.Account{Name: "Card", Balance: model.NewMoney(250)},
	)
	gw := gateway.NewAccounts(h.client, h.store)
	ctx := context.Background()

	accounts, err := gw.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.False(t, gw.Degraded())

	cached, err := h.store.Accounts(ctx)
	require.NoError(t, err)
	assert.Len(t, cached, 2)
	assert.True(t, cached[0].ID.IsRemote())
}

func TestAccounts_OfflineFallback(t *testing.T) {
	ctx := context.Background()

	t.Run("list seeds defaults into an empty cache", func(t *testing.T) {
		h := newHarness(t)
		h.fake.SetOffline(true)
		gw := gateway.NewAccounts(h.client, h.store)

		accounts, err := gw.GetAll(ctx)
		require.NoError(t, err)
		assert.True(t, gw.Degraded())
		assert.Len(t, accounts, len(model.DefaultAccounts()))

		cached, err := h.store.Accounts(ctx)
		require.NoError(t, err)
		assert.Len(t, cached, len(accounts))
	})

	t.Run("list returns the cached snapshot", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.store.SaveAccounts(ctx, []model.Account{{ID: model.RemoteID(9), Name: "Savings"}}))
		h.fake.FailWith(http.StatusBadGateway)
		gw := gateway.NewAccounts(h.client, h.store)

		accounts, err := gw.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, accounts, 1)
		assert.Equal(t, "Savings", accounts[0].Name)
	})

	t.Run("add receives a local id", func(t *testing.T) {
		h := newHarness(t)
		h.fake.SetOffline(true)
		gw := gateway.NewAccounts(h.client, h.store)

		created, err := gw.Add(ctx, model.Account{Name: "Wallet", Balance: model.NewMoney(100)})
		require.NoError(t, err)
		assert.True(t, created.ID.IsLocal())
		assert.True(t, strings.HasPrefix(created.ID.String(), model.LocalPrefix))

		cached, err := h.store.Accounts(ctx)
		require.NoError(t, err)
		require.Len(t, cached, 1)
		assert.True(t, cached[0].ID.Matches(created.ID))
	})

	t.Run("update replaces the cached entry", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.store.SaveAccounts(ctx, []model.Account{{ID: model.RemoteID(3), Name: "Old"}}))
		h.fake.SetOffline(true)
		gw := gateway.NewAccounts(h.client, h.store)

		updated, err := gw.Update(ctx, model.Account{ID: model.RemoteID(3), Name: "New"})
		require.NoError(t, err)
		assert.Equal(t, "New", updated.Name)

		cached, err := h.store.Accounts(ctx)
		require.NoError(t, err)
		assert.Equal(t, "New", cached[0].Name)
	})

	t.Run("delete removes the cached entry", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.store.SaveAccounts(ctx, []model.Account{
			{ID: model.RemoteID(1), Name: "Keep"},
			{ID: model.RemoteID(2), Name: "Drop"},
		}))
		h.fake.SetOffline(true)
		gw := gateway.NewAccounts(h.client, h.store)

		require.NoError(t, gw.Delete(ctx, model.RemoteID(2)))

		cached, err := h.store.Accounts(ctx)
		require.NoError(t, err)
		require.Len(t, cached, 1)
		assert.Equal(t, "Keep", cached[0].Name)
	})

	t.Run("get by id reads the cache", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.store.SaveAccounts(ctx, []model.Account{{ID: model.RemoteID(4), Name: "Cached"}}))
		h.fake.SetOffline(true)
		gw := gateway.NewAccounts(h.client, h.store)

		account, err := gw.GetByID(ctx, model.RemoteID(4))
		require.NoError(t, err)
		assert.Equal(t, "Cached", account.Name)

		_, err = gw.GetByID(ctx, model.RemoteID(5))
		var notFound *common.NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "account", notFound.Entity)
	})
}

func TestAccounts_FileBackendFallback(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	store, _ := testutil.SetupFileCache(t)
	gw := gateway.NewAccounts(api.NewClient(fake.URL(), store), store)
	ctx := context.Background()

	fake.SetOffline(true)
	created, err := gw.Add(ctx, model.Account{Name: "Jar"})
	require.NoError(t, err)

	accounts, err := gw.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.True(t, accounts[0].ID.Matches(created.ID))
}

func TestAccounts_ErrorsThatAreNotAbsorbed(t *testing.T) {
	ctx := context.Background()

	t.Run("validation happens before the request", func(t *testing.T) {
		h := newHarness(t)
		gw := gateway.NewAccounts(h.client, h.store)

		_, err := gw.Add(ctx, model.Account{Color: "blue"})
		assert.ErrorIs(t, err, common.ErrValidation)
		assert.Empty(t, h.fake.Requests())
	})

	t.Run("missing everywhere", func(t *testing.T) {
		h := newHarness(t)
		gw := gateway.NewAccounts(h.client, h.store)

		_, err := gw.GetByID(ctx, model.RemoteID(77))
		var notFound *common.NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "77", notFound.ID)
	})

	t.Run("canceled context passes through", func(t *testing.T) {
		h := newHarness(t)
		gw := gateway.NewAccounts(h.client, h.store)
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := gw.GetAll(canceled)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestAccounts_CreateDefaults(t *testing.T) {
	ctx := context.Background()

	t.Run("online", func(t *testing.T) {
		h := newHarness(t)
		gw := gateway.NewAccounts(h.client, h.store)

		accounts, err := gw.CreateDefaults(ctx)
		require.NoError(t, err)
		require.Len(t, accounts, 2)
		assert.True(t, accounts[0].ID.IsRemote())
		assert.Len(t, h.fake.Accounts(), 2)
	})

	t.Run("offline", func(t *testing.T) {
		h := newHarness(t)
		h.fake.SetOffline(true)
		gw := gateway.NewAccounts(h.client, h.store)

		accounts, err := gw.CreateDefaults(ctx)
		require.NoError(t, err)
		assert.True(t, accounts[0].ID.IsLocal())
		assert.True(t, gw.Degraded())
	})
}

func TestCategories_OfflineAddKeepsNumericID(t *testing.T) {
	h := newHarness(t)
	h.fake.SetOffline(true)
	gw := gateway.NewCategories(h.client, h.store)

	created, err := gw.Add(context.Background(), model.Category{Name: "Books", Type: model.CategoryTypeExpense})
	require.NoError(t, err)
	assert.True(t, created.ID.IsRemote())
	assert.True(t, gw.Degraded())
}

func TestCategories_OfflineDefaultsCoverBothTypes(t *testing.T) {
	h := newHarness(t)
	h.fake.SetOffline(true)
	gw := gateway.NewCategories(h.client, h.store)

	all, err := gw.GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, model.CategoriesForType(all, model.TransactionTypeIncome), 4)
	assert.Empty(t, model.CategoriesForType(all, model.TransactionTypeTransfer))
}

func TestCategories_ErrorsCarryUserMessage(t *testing.T) {
	h := newHarness(t)
	gw := gateway.NewCategories(h.client, h.store)

	_, err := gw.GetByID(context.Background(), model.RemoteID(404))

	var userErr *common.UserError
	require.ErrorAs(t, err, &userErr)
	assert.Equal(t, "resource not found", userErr.UserMessage)
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = gw.Add(context.Background(), model.Category{Name: "Nameless"})
	require.ErrorAs(t, err, &userErr)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"unauthorized", &common.ServerError{Status: http.StatusUnauthorized}, "authorization required"},
		{"forbidden", &common.ServerError{Status: http.StatusForbidden}, "access denied"},
		{"not found status", &common.ServerError{Status: http.StatusNotFound}, "resource not found"},
		{"other status", &common.ServerError{Status: http.StatusTeapot}, "server error: 418"},
		{"network", &common.NetworkError{Op: "GET /", Err: context.DeadlineExceeded}, "cannot reach server"},
		{"missing entity", &common.NotFoundError{Entity: "account", ID: "3"}, "resource not found"},
		{"validation", &common.ValidationError{Field: "name", Reason: "is required"}, "validation failed: name is required"},
		{"other", assert.AnError, assert.AnError.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, gateway.UserMessage(tt.err))
		})
	}
}

func TestTransactions_RoutesTransfers(t *testing.T) {
	h := newHarness(t)
	gw := gateway.NewTransactions(h.client)

	created, err := gw.Add(context.Background(), model.Transaction{
		Type:               model.TransactionTypeTransfer,
		Amount:             model.NewMoney(500),
		Account:            model.RemoteID(1),
		DestinationAccount: model.RemoteID(2),
		Date:               "2026-03-01",
	})
	require.NoError(t, err)
	assert.Equal(t, model.TransactionTypeTransfer, created.Type)
	assert.Equal(t, []string{"POST " + api.PathTransfer}, h.fake.Requests())
	assert.NotNil(t, created.Tags)
}

func TestTransactions_NoFallback(t *testing.T) {
	h := newHarness(t)
	h.fake.SetOffline(true)
	gw := gateway.NewTransactions(h.client)

	_, err := gw.Add(context.Background(), model.Transaction{
		Type:     model.TransactionTypeExpense,
		Amount:   model.NewMoney(10),
		Account:  model.RemoteID(1),
		Category: model.RemoteID(5),
		Date:     "2026-03-01",
	})
	assert.ErrorIs(t, err, common.ErrNetwork)
}

func TestTransactions_ListFilter(t *testing.T) {
	h := newHarness(t)
	h.fake.SeedTransactions(
		model.Transaction{Type: model.TransactionTypeExpense, Amount: model.NewMoney(10), Category: model.RemoteID(5), Date: "2026-02-10"},
		model.Transaction{Type: model.TransactionTypeExpense, Amount: model.NewMoney(20), Category: model.RemoteID(5), Date: "2026-03-10"},
		model.Transaction{Type: model.TransactionTypeIncome, Amount: model.NewMoney(30), Category: model.RemoteID(6), Date: "2026-03-11"},
	)
	gw := gateway.NewTransactions(h.client)

	items, err := gw.List(context.Background(), model.TransactionFilter{
		Type:     model.TransactionTypeExpense,
		Category: model.RemoteID(5),
		DateFrom: "2026-03-01",
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "20", items[0].Amount.String())
}

func TestDashboard_Data(t *testing.T) {
	tests := []struct {
		name        string
		body        map[string]any
		wantIncome  string
		wantExpense string
		wantLines   int
	}{
		{
			name:        "numbers",
			body:        map[string]any{"income": 5000, "expense": 1200.5},
			wantIncome:  "5000.00",
			wantExpense: "1200.50",
		},
		{
			name:        "numeric strings",
			body:        map[string]any{"income": "75.10", "expense": "0"},
			wantIncome:  "75.10",
			wantExpense: "0.00",
		},
		{
			name: "category lists",
			body: map[string]any{
				"income": []map[string]any{{"category": "Salary", "total": "5000"}},
				"expense": []map[string]any{
					{"category": "Food", "total": 3000},
					{"category": "Transport", "total": "800"},
				},
			},
			wantIncome:  "5000.00",
			wantExpense: "3800.00",
			wantLines:   2,
		},
		{
			name: "explicit totals win",
			body: map[string]any{
				"expense":       []map[string]any{{"category": "Food", "total": 10}},
				"expense_total": "12.00",
			},
			wantIncome:  "0.00",
			wantExpense: "12.00",
			wantLines:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.fake.SetDashboard(tt.body)
			gw := gateway.NewDashboard(h.client)

			data, err := gw.Data(context.Background(), "month", "", "")
			require.NoError(t, err)
			assert.Equal(t, "month", data.Period)
			assert.Equal(t, tt.wantIncome, data.IncomeTotal.StringFixed(2))
			assert.Equal(t, tt.wantExpense, data.ExpenseTotal.StringFixed(2))
			assert.Len(t, data.ExpenseCategories, tt.wantLines)
		})
	}
}

func TestDashboard_PeriodSummary(t *testing.T) {
	h := newHarness(t)
	h.fake.SetSummaries(
		model.PeriodSummary{PeriodType: model.PeriodMonthly, PeriodKey: "2026-03", IncomeAmount: model.NewMoney(900)},
		model.PeriodSummary{PeriodType: model.PeriodMonthly, PeriodKey: "2026-02", IncomeAmount: model.NewMoney(800)},
		model.PeriodSummary{PeriodType: model.PeriodYearly, PeriodKey: "2026"},
	)
	gw := gateway.NewDashboard(h.client)
	ctx := context.Background()

	latest, err := gw.PeriodSummary(ctx, "month")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "2026-03", latest.PeriodKey)

	none, err := gw.PeriodSummary(ctx, "week")
	require.NoError(t, err)
	assert.Nil(t, none)

	byKey, err := gw.PeriodSummaries(ctx, model.PeriodMonthly, "2026-02")
	require.NoError(t, err)
	require.Len(t, byKey, 1)
	assert.Equal(t, "800", byKey[0].IncomeAmount.String())
}

func TestDashboard_ErrorsPassThrough(t *testing.T) {
	h := newHarness(t)
	h.fake.FailWith(http.StatusInternalServerError)
	gw := gateway.NewDashboard(h.client)

	_, err := gw.Data(context.Background(), "month", "", "")
	assert.ErrorIs(t, err, common.ErrServer)
}

func TestAuth_LoginProfileLogout(t *testing.T) {
	h := newHarness(t)
	gw := gateway.NewAuth(h.client, h.store)
	ctx := context.Background()

	session, err := gw.Login(ctx, model.Credentials{Username: testutil.TestUsername, Password: testutil.TestPassword})
	require.NoError(t, err)
	assert.Equal(t, "Alice", session.FirstName)
	assert.Equal(t, "alice@example.com", session.Email)
	assert.NotEmpty(t, session.Access)

	stored, err := gw.Current(ctx)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, session.Access, stored.Access)

	require.NoError(t, gw.Logout(ctx))
	stored, err = gw.Current(ctx)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestAuth_LoginFailures(t *testing.T) {
	h := newHarness(t)
	gw := gateway.NewAuth(h.client, h.store)
	ctx := context.Background()

	_, err := gw.Login(ctx, model.Credentials{Username: testutil.TestUsername})
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Empty(t, h.fake.Requests())

	_, err = gw.Login(ctx, model.Credentials{Username: testutil.TestUsername, Password: "nope"})
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	stored, err := gw.Current(ctx)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestAuth_Register(t *testing.T) {
	h := newHarness(t)
	gw := gateway.NewAuth(h.client, h.store)
	ctx := context.Background()

	_, err := gw.Register(ctx, model.Registration{
		Username: testutil.TestUsername, Email: "a@example.com", Password: "password1", Password2: "password1",
	})
	var serverErr *common.ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, "username already taken", serverErr.Message)

	_, err = gw.Register(ctx, model.Registration{
		Username: "bob", Email: "b@example.com", Password: "password1", Password2: "password2",
	})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestAuth_ProfileRequiresSession(t *testing.T) {
	h := newHarness(t)
	gw := gateway.NewAuth(h.client, h.store)

	_, err := gw.Profile(context.Background())
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	assert.Empty(t, h.fake.Requests())
}
