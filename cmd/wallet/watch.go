package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/wallet/internal/tui"
)

func (r *root) watchCmd() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Live dashboard of balances and the period summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return r.withApp(ctx, func(a *app) error {
				return tui.Run(ctx, tui.Config{
					Accounts: a.accounts,
					Summary:  a.dashboard,
					Settings: a.settings,
					UI:       a.ui,
					Currency: a.currency(),
					Interval: interval,
				})
			})
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 30*time.Second, "refresh interval")
	return cmd
}
