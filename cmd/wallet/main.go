package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/wallet/internal/common"
	"github.com/Veraticus/wallet/internal/config"
)

var version = "dev"

// root carries the state shared by every subcommand of one invocation.
type root struct {
	v       *viper.Viper
	cfgFile string
	cfg     config.Config
}

func newRootCmd() *cobra.Command {
	r := &root{v: viper.New()}

	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "👛 Personal finance client",
		Long: `wallet: a command line client for the personal finance API.

Accounts and categories keep working offline from the local cache and
are reconciled the next time the server is reachable.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: r.initConfig,
	}

	cmd.PersistentFlags().StringVar(&r.cfgFile, "config", "", "config file (default: $HOME/.config/wallet/config.yaml)")
	cmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	cmd.PersistentFlags().String("api-url", "", "API base URL")
	cmd.PersistentFlags().String("cache", "", "cache file path")
	cmd.PersistentFlags().String("currency", "", "display currency code (default KZT)")

	_ = r.v.BindPFlag("logging.level", cmd.PersistentFlags().Lookup("log-level"))
	_ = r.v.BindPFlag("logging.format", cmd.PersistentFlags().Lookup("log-format"))
	_ = r.v.BindPFlag("api.url", cmd.PersistentFlags().Lookup("api-url"))
	_ = r.v.BindPFlag("cache.path", cmd.PersistentFlags().Lookup("cache"))
	_ = r.v.BindPFlag("display.currency", cmd.PersistentFlags().Lookup("currency"))

	cmd.AddCommand(r.loginCmd())
	cmd.AddCommand(r.registerCmd())
	cmd.AddCommand(r.logoutCmd())
	cmd.AddCommand(r.profileCmd())
	cmd.AddCommand(r.statusCmd())
	cmd.AddCommand(r.accountsCmd())
	cmd.AddCommand(r.categoriesCmd())
	cmd.AddCommand(r.transactionsCmd())
	cmd.AddCommand(r.dashboardCmd())
	cmd.AddCommand(r.statsCmd())
	cmd.AddCommand(r.watchCmd())
	cmd.AddCommand(r.settingsCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down")
		cancel()
	}()

	err := newRootCmd().ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, formatError(err))
		os.Exit(1)
	}
}

func (r *root) initConfig(_ *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	if err := config.Init(r.v, r.cfgFile); err != nil {
		return err
	}

	cfg, err := config.FromViper(r.v)
	if err != nil {
		return err
	}
	r.cfg = cfg

	level, err := common.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	if err := common.SetupLogger(level, cfg.LogFormat); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "wallet", version)
			return err
		},
	}
}
