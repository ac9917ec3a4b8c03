package main

import (
	"github.com/spf13/cobra"

	"github.com/Veraticus/wallet/internal/cli"
	"github.com/Veraticus/wallet/internal/model"
)

func (r *root) settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change preferences",
	}
	cmd.AddCommand(r.themeCmd())
	return cmd
}

func (r *root) themeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|toggle]",
		Short:     "Show or set the color theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"light", "dark", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return r.withApp(ctx, func(a *app) error {
				out := cmd.OutOrStdout()
				if len(args) == 0 {
					return printLine(out, "Theme: "+string(a.settings.Snapshot().Theme))
				}

				if args[0] == "toggle" {
					next := a.settings.ToggleTheme(ctx)
					return printLine(out, cli.FormatSuccess("Theme set to "+string(next)))
				}
				theme, err := model.ParseTheme(args[0])
				if err != nil {
					return err
				}
				a.settings.SetTheme(ctx, theme)
				return printLine(out, cli.FormatSuccess("Theme set to "+string(theme)))
			})
		},
	}
}
