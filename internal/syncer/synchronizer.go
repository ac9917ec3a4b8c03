package syncer

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sourcegraph/conc"
)

// AccountsRefresher reloads the account list.
type AccountsRefresher interface {
	Fetch(ctx context.Context) error
}

// SummaryRefresher reloads the period summary for a client period.
type SummaryRefresher interface {
	FetchPeriodSummary(ctx context.Context, period string) error
}

// Synchronizer turns stale markers into asynchronous refreshes. The two
// refreshes are unordered relative to each other. A failed refresh only
// affects the store that ran it.
type Synchronizer struct {
	accounts AccountsRefresher
	summary  SummaryRefresher
	period   func() string
	wg       *conc.WaitGroup
	unsub    []func()
	mu       sync.Mutex
}

// New creates a synchronizer. period returns the currently selected
// client period at the time a summary refresh starts.
func New(accounts AccountsRefresher, summary SummaryRefresher, period func() string) *Synchronizer {
	return &Synchronizer{
		accounts: accounts,
		summary:  summary,
		period:   period,
		wg:       conc.NewWaitGroup(),
	}
}

// Attach subscribes to bus. Call Detach to stop relaying.
func (s *Synchronizer) Attach(bus *Bus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unsub = append(s.unsub,
		bus.Subscribe(AccountsStale, s.handle),
		bus.Subscribe(SummaryStale, s.handle),
	)
}

// Detach unsubscribes from every attached bus.
func (s *Synchronizer) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, fn := range s.unsub {
		fn()
	}
	s.unsub = nil
}

// Wait blocks until every refresh started so far has finished. Mutations
// never call it; it exists for shutdown and tests.
func (s *Synchronizer) Wait() {
	if r := s.wg.WaitAndRecover(); r != nil {
		slog.Error("Refresh panicked", "panic", r.Value, "stack", string(r.Stack))
	}
}

func (s *Synchronizer) handle(ctx context.Context, e Event) {
	// The mutation's context may end as soon as it returns.
	ctx = context.WithoutCancel(ctx)

	switch e {
	case AccountsStale:
		s.wg.Go(func() {
			if err := s.accounts.Fetch(ctx); err != nil {
				slog.Warn("Account refresh failed", "error", err)
			}
		})
	case SummaryStale:
		period := s.period()
		s.wg.Go(func() {
			if err := s.summary.FetchPeriodSummary(ctx, period); err != nil {
				slog.Warn("Period summary refresh failed", "period", period, "error", err)
			}
		})
	}
}
