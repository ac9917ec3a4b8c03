package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Veraticus/wallet/internal/model"
)

// Test credentials accepted by FakeAPI.
const (
	TestUsername = "alice"
	TestPassword = "secret123"
)

// FakeAPI is an in-memory implementation of the wallet REST API.
type FakeAPI struct {
	Server *httptest.Server

	accounts     *table[model.Account]
	categories   *table[model.Category]
	transactions *table[model.Transaction]

	summaries  []model.PeriodSummary
	statistics model.Statistics
	dashboard  map[string]any

	validAccess  map[string]bool
	validRefresh map[string]bool
	requests     []string

	failStatus    int
	tokenSeq      int
	refreshCalls  int
	offline       bool
	rejectRefresh bool

	mu sync.Mutex
}

// NewFakeAPI starts a fake API server that is closed when the test ends.
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()

	f := &FakeAPI{
		accounts: newTable(model.AccountID, func(a *model.Account, id model.ID) { a.ID = id }),
		categories: newTable(model.CategoryID, func(c *model.Category, id model.ID) {
			c.ID = id
		}),
		transactions: newTable(model.TransactionID, func(tx *model.Transaction, id model.ID) {
			tx.ID = id
		}),
		validAccess:  map[string]bool{},
		validRefresh: map[string]bool{},
		dashboard:    map[string]any{},
	}
	f.Server = httptest.NewServer(f.routes())
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the server's base URL.
func (f *FakeAPI) URL() string { return f.Server.URL }

// FailWith makes every API request except the health check answer status.
// Zero restores normal operation.
func (f *FakeAPI) FailWith(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failStatus = status
}

// SetOffline makes the server drop every connection without answering.
func (f *FakeAPI) SetOffline(offline bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.offline = offline
}

// ExpireAccessTokens invalidates every issued access token so the next
// authenticated request gets a 401.
func (f *FakeAPI) ExpireAccessTokens() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.validAccess = map[string]bool{}
}

// RejectRefresh makes the refresh endpoint answer 401.
func (f *FakeAPI) RejectRefresh(reject bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rejectRefresh = reject
}

// IssueTokens returns a valid access and refresh token pair.
func (f *FakeAPI) IssueTokens() (access, refresh string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.issueLocked()
}

// RefreshCalls counts refresh endpoint hits.
func (f *FakeAPI) RefreshCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refreshCalls
}

// Requests returns "METHOD path" for every request received.
func (f *FakeAPI) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

// SeedAccounts stores accounts, assigning ids to those without one.
func (f *FakeAPI) SeedAccounts(accounts ...model.Account) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range accounts {
		f.accounts.create(a)
	}
}

// SeedCategories stores categories.
func (f *FakeAPI) SeedCategories(categories ...model.Category) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range categories {
		f.categories.create(c)
	}
}

// SeedTransactions stores transactions.
func (f *FakeAPI) SeedTransactions(txs ...model.Transaction) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, tx := range txs {
		f.transactions.create(tx)
	}
}

// SetSummaries replaces the period summaries.
func (f *FakeAPI) SetSummaries(summaries ...model.PeriodSummary) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.summaries = summaries
}

// SetStatistics replaces the statistics response.
func (f *FakeAPI) SetStatistics(stats model.Statistics) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statistics = stats
}

// SetDashboard replaces the raw dashboard response body.
func (f *FakeAPI) SetDashboard(body map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dashboard = body
}

// Accounts returns the server-side accounts.
func (f *FakeAPI) Accounts() []model.Account {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Account(nil), f.accounts.items...)
}

// Transactions returns the server-side transactions.
func (f *FakeAPI) Transactions() []model.Transaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Transaction(nil), f.transactions.items...)
}

func (f *FakeAPI) issueLocked() (string, string) {
	f.tokenSeq++
	access := fmt.Sprintf("access-%d", f.tokenSeq)
	refresh := fmt.Sprintf("refresh-%d", f.tokenSeq)
	f.validAccess[access] = true
	f.validRefresh[refresh] = true
	return access, refresh
}

func (f *FakeAPI) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/public/health-check/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /api/auth/token/", f.handleToken)
	mux.HandleFunc("POST /api/auth/token/refresh/", f.handleRefresh)
	mux.HandleFunc("POST /api/auth/register/", f.handleRegister)
	mux.HandleFunc("POST /api/auth/logout/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusResetContent)
	})
	mux.HandleFunc("GET /api/auth/profile/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"id": 1, "username": TestUsername, "email": "alice@example.com", "first_name": "Alice",
		})
	})

	mountTable(mux, "/api/accounts/", f.accounts, nil)
	mux.HandleFunc("POST /api/accounts/create-defaults/", func(w http.ResponseWriter, _ *http.Request) {
		for _, a := range model.DefaultAccounts() {
			a.ID = model.NullID()
			f.accounts.create(a)
		}
		writeJSON(w, http.StatusCreated, f.accounts.items)
	})

	mountTable(mux, "/api/categories/", f.categories, nil)
	mux.HandleFunc("POST /api/categories/create-defaults/", func(w http.ResponseWriter, _ *http.Request) {
		for _, c := range model.DefaultCategories() {
			c.ID = model.NullID()
			f.categories.create(c)
		}
		writeJSON(w, http.StatusCreated, f.categories.items)
	})

	mountTable(mux, "/api/transactions/", f.transactions, f.handleTransactionList)
	mux.HandleFunc("POST /api/transactions/transfer/", func(w http.ResponseWriter, r *http.Request) {
		var tx model.Transaction
		if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": err.Error()})
			return
		}
		tx.Type = model.TransactionTypeTransfer
		writeJSON(w, http.StatusCreated, f.transactions.create(tx))
	})
	mux.HandleFunc("GET /api/transactions/statistics/", func(w http.ResponseWriter, r *http.Request) {
		stats := f.statistics
		if p := r.URL.Query().Get("period"); p != "" {
			stats.Period = p
		}
		writeJSON(w, http.StatusOK, stats)
	})

	mux.HandleFunc("GET /api/dashboard/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, f.dashboard)
	})
	mux.HandleFunc("GET /api/period-summaries/", func(w http.ResponseWriter, r *http.Request) {
		periodType := r.URL.Query().Get("period_type")
		key := r.URL.Query().Get("period_key")
		out := []model.PeriodSummary{}
		for _, s := range f.summaries {
			if string(s.PeriodType) == periodType && (key == "" || s.PeriodKey == key) {
				out = append(out, s)
			}
		}
		writeJSON(w, http.StatusOK, out)
	})

	return f.middleware(mux)
}

// middleware applies failure modes and token checks, and serializes
// handlers under the fake's lock.
func (f *FakeAPI) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		f.requests = append(f.requests, r.Method+" "+r.URL.Path)

		if f.offline {
			if hj, ok := w.(http.Hijacker); ok {
				if conn, _, err := hj.Hijack(); err == nil {
					conn.Close()
					return
				}
			}
		}

		if r.URL.Path == "/api/public/health-check/" {
			next.ServeHTTP(w, r)
			return
		}

		if f.failStatus != 0 {
			writeJSON(w, f.failStatus, map[string]string{"detail": http.StatusText(f.failStatus)})
			return
		}

		if auth := r.Header.Get("Authorization"); auth != "" {
			token := strings.TrimPrefix(auth, "Bearer ")
			if !f.validAccess[token] {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Given token not valid for any token type"})
				return
			}
		} else if r.URL.Path == "/api/auth/profile/" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Authentication credentials were not provided."})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (f *FakeAPI) handleToken(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil ||
		creds.Username != TestUsername || creds.Password != TestPassword {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "No active account found with the given credentials"})
		return
	}
	access, refresh := f.issueLocked()
	writeJSON(w, http.StatusOK, map[string]string{"access": access, "refresh": refresh})
}

func (f *FakeAPI) handleRefresh(w http.ResponseWriter, r *http.Request) {
	f.refreshCalls++
	var body struct {
		Refresh string `json:"refresh"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || f.rejectRefresh || !f.validRefresh[body.Refresh] {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token is invalid or expired"})
		return
	}
	access, _ := f.issueLocked()
	writeJSON(w, http.StatusOK, map[string]string{"access": access})
}

func (f *FakeAPI) handleRegister(w http.ResponseWriter, r *http.Request) {
	var reg model.Registration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": err.Error()})
		return
	}
	if reg.Username == TestUsername {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "username already taken"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": 2, "username": reg.Username})
}

func (f *FakeAPI) handleTransactionList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category := model.ParseID(q.Get("category"))
	out := []model.Transaction{}
	for _, tx := range f.transactions.items {
		if t := q.Get("type"); t != "" && string(tx.Type) != t {
			continue
		}
		if category.Valid() && !tx.Category.Matches(category) {
			continue
		}
		if from := q.Get("date_from"); from != "" && tx.Date < from {
			continue
		}
		if to := q.Get("date_to"); to != "" && tx.Date > to {
			continue
		}
		out = append(out, tx)
	}
	writeJSON(w, http.StatusOK, out)
}

type table[T any] struct {
	idOf   func(T) model.ID
	setID  func(*T, model.ID)
	items  []T
	nextID int64
}

func newTable[T any](idOf func(T) model.ID, setID func(*T, model.ID)) *table[T] {
	return &table[T]{idOf: idOf, setID: setID, nextID: 1}
}

func (t *table[T]) create(item T) T {
	if n, ok := t.idOf(item).Int64(); ok {
		t.nextID = max(t.nextID, n+1)
	} else {
		t.setID(&item, model.RemoteID(t.nextID))
		t.nextID++
	}
	t.items = append(t.items, item)
	return item
}

func (t *table[T]) find(id model.ID) int {
	return model.FindIndex(t.items, id, t.idOf)
}

// mountTable registers CRUD routes for t under prefix. list replaces the
// default list handler when set.
func mountTable[T any](mux *http.ServeMux, prefix string, t *table[T], list http.HandlerFunc) {
	notFound := func(w http.ResponseWriter) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
	}

	if list == nil {
		list = func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, append([]T{}, t.items...))
		}
	}
	mux.HandleFunc("GET "+prefix+"{$}", list)
	mux.HandleFunc("POST "+prefix+"{$}", func(w http.ResponseWriter, r *http.Request) {
		var item T
		if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": err.Error()})
			return
		}
		var zero model.ID
		t.setID(&item, zero)
		writeJSON(w, http.StatusCreated, t.create(item))
	})
	mux.HandleFunc("GET "+prefix+"{id}/", func(w http.ResponseWriter, r *http.Request) {
		i := t.find(model.ParseID(r.PathValue("id")))
		if i < 0 {
			notFound(w)
			return
		}
		writeJSON(w, http.StatusOK, t.items[i])
	})
	mux.HandleFunc("PUT "+prefix+"{id}/", func(w http.ResponseWriter, r *http.Request) {
		id := model.ParseID(r.PathValue("id"))
		i := t.find(id)
		if i < 0 {
			notFound(w)
			return
		}
		var item T
		if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": err.Error()})
			return
		}
		t.setID(&item, id)
		t.items[i] = item
		writeJSON(w, http.StatusOK, item)
	})
	mux.HandleFunc("DELETE "+prefix+"{id}/", func(w http.ResponseWriter, r *http.Request) {
		i := t.find(model.ParseID(r.PathValue("id")))
		if i < 0 {
			notFound(w)
			return
		}
		t.items = append(t.items[:i], t.items[i+1:]...)
		w.WriteHeader(http.StatusNoContent)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
