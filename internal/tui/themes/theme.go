// Package themes holds the light and dark palettes of the live dashboard.
package themes

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/wallet/internal/model"
)

// Theme defines the visual style for the TUI.
type Theme struct {
	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Normal     lipgloss.Style
	Bold       lipgloss.Style
	Income     lipgloss.Style
	Expense    lipgloss.Style
	Error      lipgloss.Style
	Warning    lipgloss.Style
	Muted      lipgloss.Style
	Box        lipgloss.Style
	Selected   lipgloss.Style
	Primary    lipgloss.Color
	Background lipgloss.Color
	Foreground lipgloss.Color
	Border     lipgloss.Color
}

func build(fg, muted, border, primary, income, expense, warning string) Theme {
	return Theme{
		Primary:    lipgloss.Color(primary),
		Foreground: lipgloss.Color(fg),
		Border:     lipgloss.Color(border),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(primary)).
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(muted)),
		Normal: lipgloss.NewStyle().
			Foreground(lipgloss.Color(fg)),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(fg)),
		Income: lipgloss.NewStyle().
			Foreground(lipgloss.Color(income)).
			Bold(true),
		Expense: lipgloss.NewStyle().
			Foreground(lipgloss.Color(expense)).
			Bold(true),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(expense)),
		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color(warning)),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color(muted)).
			Italic(true),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(border)).
			Padding(0, 1),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(primary)).
			Foreground(lipgloss.Color("#fafafa")).
			Bold(true),
	}
}

// Dark is the default theme.
var Dark = func() Theme {
	t := build("#fafafa", "#a3a3a3", "#404040", "#3b82f6", "#10b981", "#ef4444", "#f59e0b")
	t.Background = lipgloss.Color("#1a1a1a")
	return t
}()

// Light suits light terminal backgrounds.
var Light = func() Theme {
	t := build("#171717", "#525252", "#d4d4d4", "#2563eb", "#047857", "#b91c1c", "#b45309")
	t.Background = lipgloss.Color("#ffffff")
	return t
}()

// For returns the palette of a theme preference.
func For(theme model.Theme) Theme {
	if theme == model.ThemeLight {
		return Light
	}
	return Dark
}
