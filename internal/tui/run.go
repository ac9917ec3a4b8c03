package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the dashboard in the alternate screen and blocks until the
// user quits or ctx ends.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Accounts == nil || cfg.Summary == nil {
		return errors.New("dashboard needs account and summary sources")
	}
	if cfg.Settings == nil || cfg.UI == nil {
		return errors.New("dashboard needs settings and ui stores")
	}

	p := tea.NewProgram(New(ctx, cfg), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return nil
}
