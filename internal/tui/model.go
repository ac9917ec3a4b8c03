// Package tui is the live dashboard: account balances and the period
// summary, refreshed on a timer and whenever a transaction changes.
package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sourcegraph/conc"

	"github.com/Veraticus/wallet/internal/common"
	"github.com/Veraticus/wallet/internal/model"
	"github.com/Veraticus/wallet/internal/store"
	"github.com/Veraticus/wallet/internal/tui/themes"
)

// Periods cycled by the period key.
var Periods = []string{"today", "week", "month", "quarter", "year", "all"}

// AccountSource provides the account list.
type AccountSource interface {
	Fetch(ctx context.Context) error
	Items() []model.Account
	Total() model.Money
}

// SummarySource provides the period summary.
type SummarySource interface {
	FetchPeriodSummary(ctx context.Context, period string) error
	Snapshot() store.DashboardState
}

// Config wires the dashboard to its stores.
type Config struct {
	Accounts AccountSource
	Summary  SummarySource
	Settings *store.Settings
	UI       *store.UI
	Currency string
	Interval time.Duration
}

// Model is the bubbletea model of the dashboard.
type Model struct {
	ctx       context.Context
	cfg       Config
	theme     themes.Theme
	keymap    KeyMap
	help      help.Model
	spinner   spinner.Model
	updatedAt time.Time
	width     int
	loading   bool
	quitting  bool
}

// New creates the dashboard model.
func New(ctx context.Context, cfg Config) Model {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	theme := themes.For(cfg.Settings.Snapshot().Theme)
	sp.Style = lipgloss.NewStyle().Foreground(theme.Primary)

	return Model{
		ctx:     ctx,
		cfg:     cfg,
		theme:   theme,
		keymap:  DefaultKeyMap(),
		help:    help.New(),
		spinner: sp,
		loading: true,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.refresh())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case refreshedMsg:
		m.loading = false
		m.updatedAt = time.Now()
		if m.cfg.Settings.Snapshot().Notifications {
			for _, err := range msg.errs {
				m.cfg.UI.Notify(store.NotifyError, common.Message(err))
			}
		}
		return m, m.scheduleTick()

	case tickMsg:
		if m.loading {
			return m, nil
		}
		m.loading = true
		return m, m.refresh()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Refresh):
		if m.loading {
			return m, nil
		}
		m.loading = true
		return m, m.refresh()

	case key.Matches(msg, m.keymap.NextPeriod):
		if m.loading {
			return m, nil
		}
		m.cfg.UI.SetPeriod(nextPeriod(m.cfg.UI.Period()))
		m.loading = true
		return m, m.refresh()

	case key.Matches(msg, m.keymap.ToggleTheme):
		next := m.cfg.Settings.ToggleTheme(m.ctx)
		m.theme = themes.For(next)
		m.spinner.Style = lipgloss.NewStyle().Foreground(m.theme.Primary)
		return m, nil

	case key.Matches(msg, m.keymap.Dismiss):
		if n := m.cfg.UI.Snapshot().Notifications; len(n) > 0 {
			m.cfg.UI.Dismiss(n[0].ID)
		}
		return m, nil
	}
	return m, nil
}

// refresh reloads accounts and the summary concurrently.
func (m Model) refresh() tea.Cmd {
	ctx := m.ctx
	accounts := m.cfg.Accounts
	summary := m.cfg.Summary
	period := m.cfg.UI.Period()

	return func() tea.Msg {
		var accErr, sumErr error
		var wg conc.WaitGroup
		wg.Go(func() { accErr = accounts.Fetch(ctx) })
		wg.Go(func() { sumErr = summary.FetchPeriodSummary(ctx, period) })
		wg.Wait()

		var errs []error
		for _, err := range []error{accErr, sumErr} {
			if err != nil {
				errs = append(errs, err)
			}
		}
		return refreshedMsg{errs: errs}
	}
}

func (m Model) scheduleTick() tea.Cmd {
	return tea.Tick(m.cfg.Interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func nextPeriod(current string) string {
	i := slices.Index(Periods, current)
	return Periods[(i+1)%len(Periods)]
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	period := m.cfg.UI.Period()

	title := m.theme.Title.Render("wallet · " + period)
	if m.loading {
		title += " " + m.spinner.View()
	}
	b.WriteString(title + "\n")

	b.WriteString(m.theme.Box.Render(m.accountsView()) + "\n")
	b.WriteString(m.theme.Box.Render(m.summaryView()) + "\n")

	for _, n := range m.cfg.UI.Snapshot().Notifications {
		style := m.theme.Warning
		if n.Kind == store.NotifyError {
			style = m.theme.Error
		}
		b.WriteString(style.Render("• "+n.Message) + "\n")
	}

	if !m.updatedAt.IsZero() {
		b.WriteString(m.theme.Muted.Render("updated "+m.updatedAt.Format("15:04:05")) + "\n")
	}
	b.WriteString(m.help.View(m.keymap))
	return b.String()
}

func (m Model) accountsView() string {
	accounts := m.cfg.Accounts.Items()
	if len(accounts) == 0 {
		return m.theme.Muted.Render("no accounts")
	}

	nameWidth := 0
	for _, a := range accounts {
		nameWidth = max(nameWidth, lipgloss.Width(a.Name))
	}

	lines := []string{m.theme.Bold.Render("Accounts")}
	for _, a := range accounts {
		name := m.theme.Normal.Render(fmt.Sprintf("%-*s", nameWidth, a.Name))
		if a.ID.IsLocal() {
			name += m.theme.Muted.Render(" (local)")
		}
		lines = append(lines, fmt.Sprintf("%s  %s", name, m.money(a.Balance)))
	}
	lines = append(lines, m.theme.Bold.Render(fmt.Sprintf("%-*s  %s", nameWidth, "Total", m.money(m.cfg.Accounts.Total()))))
	return strings.Join(lines, "\n")
}

func (m Model) summaryView() string {
	state := m.cfg.Summary.Snapshot()
	if state.Summary == nil {
		if state.Error != "" {
			return m.theme.Error.Render(state.Error)
		}
		return m.theme.Muted.Render("no summary for this period")
	}

	s := state.Summary
	net := model.Money{Decimal: s.IncomeAmount.Sub(s.ExpenseAmount.Decimal)}
	return strings.Join([]string{
		m.theme.Bold.Render(fmt.Sprintf("Summary %s %s", s.PeriodType, s.PeriodKey)),
		"Income   " + m.theme.Income.Render(m.money(s.IncomeAmount)),
		"Expense  " + m.theme.Expense.Render(m.money(s.ExpenseAmount)),
		"Net      " + m.money(net),
	}, "\n")
}

func (m Model) money(v model.Money) string {
	return v.StringFixed(2) + " " + m.cfg.Currency
}
