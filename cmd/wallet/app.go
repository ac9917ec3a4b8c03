package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/wallet/internal/api"
	"github.com/Veraticus/wallet/internal/cache"
	"github.com/Veraticus/wallet/internal/cli"
	"github.com/Veraticus/wallet/internal/common"
	"github.com/Veraticus/wallet/internal/config"
	"github.com/Veraticus/wallet/internal/gateway"
	"github.com/Veraticus/wallet/internal/store"
	"github.com/Veraticus/wallet/internal/syncer"
)

// app is the wired client: cache, API client, gateways, stores and the
// synchronizer that refreshes balances after transaction changes.
type app struct {
	cfg   config.Config
	cache *cache.Store

	client         *api.Client
	accountsGW     *gateway.Accounts
	categoriesGW   *gateway.Categories
	transactionsGW *gateway.Transactions
	dashboardGW    *gateway.Dashboard

	auth         *store.Auth
	accounts     *store.Accounts
	categories   *store.Categories
	transactions *store.Transactions
	dashboard    *store.Dashboard
	settings     *store.Settings
	ui           *store.UI

	bus  *syncer.Bus
	sync *syncer.Synchronizer
}

func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	backend, err := cache.Open(ctx, cfg.CacheBackend, cfg.CachePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	c := cache.New(backend)

	a := &app{
		cfg:      cfg,
		cache:    c,
		settings: store.NewSettings(c),
		ui:       store.NewUI(nil),
		bus:      syncer.NewBus(),
	}

	// A 401 refreshes through the auth store so its phase tracks the
	// client; a rejected refresh leaves it anonymous.
	a.client = api.NewClient(cfg.APIURL, c,
		api.WithTimeout(cfg.APITimeout),
		api.WithRefresher(func(ctx context.Context) error { return a.auth.Refresh(ctx) }),
		api.WithSignedOutHandler(func() {
			slog.Warn("Session expired, run 'wallet login' to sign in again")
		}),
	)
	a.accountsGW = gateway.NewAccounts(a.client, c)
	a.categoriesGW = gateway.NewCategories(a.client, c)
	a.transactionsGW = gateway.NewTransactions(a.client)
	a.dashboardGW = gateway.NewDashboard(a.client)

	a.auth = store.NewAuth(gateway.NewAuth(a.client, c))
	a.accounts = store.NewAccounts(a.accountsGW)
	a.categories = store.NewCategories(a.categoriesGW)
	a.transactions = store.NewTransactions(a.transactionsGW, a.bus)
	a.dashboard = store.NewDashboard(a.dashboardGW)

	a.sync = syncer.New(a.accounts, a.dashboard, a.ui.Period)
	a.sync.Attach(a.bus)

	a.auth.Restore(ctx)
	a.settings.Load(ctx)
	if cfg.Currency != "" {
		a.settings.SetCurrency(cfg.Currency)
	}
	a.settings.SetNotifications(cfg.Notifications)
	if cfg.Period != "" {
		a.ui.SetPeriod(cfg.Period)
	}
	return a, nil
}

// Close waits for in-flight refreshes and releases the cache.
func (a *app) Close() error {
	a.sync.Wait()
	a.sync.Detach()
	return a.cache.Close()
}

// withApp builds the client for one command and tears it down afterwards.
func (r *root) withApp(ctx context.Context, fn func(*app) error) error {
	a, err := newApp(ctx, r.cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil {
			slog.Warn("Failed to close cache", "error", cerr)
		}
	}()
	return fn(a)
}

// requireLogin fails unless a session is stored.
func (a *app) requireLogin() error {
	if a.auth.Snapshot().Phase != store.PhaseAuthenticated {
		return common.NewUserError("not logged in, run 'wallet login' first", common.ErrUnauthorized)
	}
	return nil
}

func (a *app) currency() string {
	return a.settings.Snapshot().Currency
}

// offline reports whether the last account or category call was answered
// from the cache.
func (a *app) offline() bool {
	return a.accountsGW.Degraded() || a.categoriesGW.Degraded()
}

// formatError renders an error for the terminal, preferring the
// user-facing message when one exists.
func formatError(err error) string {
	var userErr *common.UserError
	if errors.As(err, &userErr) {
		return cli.FormatError(userErr.UserMessage)
	}
	msg := gateway.UserMessage(err)
	var serverErr *common.ServerError
	if errors.As(err, &serverErr) && serverErr.Message != "" {
		msg += " (" + serverErr.Message + ")"
	}
	return cli.FormatError(msg)
}
