package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/wallet/internal/cli"
	"github.com/Veraticus/wallet/internal/model"
)

func (r *root) accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "accounts",
		Aliases: []string{"account"},
		Short:   "Manage accounts",
		Long: `List, add, update, and delete accounts.

When the server cannot be reached the cached accounts are used and new
accounts get a temporary local- identifier.`,
	}

	cmd.AddCommand(r.listAccountsCmd())
	cmd.AddCommand(r.showAccountCmd())
	cmd.AddCommand(r.addAccountCmd())
	cmd.AddCommand(r.updateAccountCmd())
	cmd.AddCommand(r.deleteAccountCmd())
	cmd.AddCommand(r.defaultAccountsCmd())
	return cmd
}

func (r *root) listAccountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return r.withApp(ctx, func(a *app) error {
				if err := a.accounts.Fetch(ctx); err != nil {
					return err
				}
				return writeAccounts(cmd, a)
			})
		},
	}
}

func (r *root) showAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg("account", args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			return r.withApp(ctx, func(a *app) error {
				account, err := a.accounts.Get(ctx, id)
				if err != nil {
					return err
				}
				content := fmt.Sprintf("ID:      %s\nName:    %s %s\nBalance: %s\nIcon:    %s",
					account.ID, cli.Swatch(account.Color), account.Name,
					cli.FormatAmount(account.Balance, a.currency()), account.Icon)
				return printLine(cmd.OutOrStdout(), cli.RenderBox("Account", content))
			})
		},
	}
}

type accountFlags struct {
	name    string
	balance string
	icon    string
	color   string
}

func (f *accountFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.name, "name", "n", "", "account name")
	cmd.Flags().StringVarP(&f.balance, "balance", "b", "0", "balance")
	cmd.Flags().StringVar(&f.icon, "icon", "", "icon name")
	cmd.Flags().StringVar(&f.color, "color", "", "hex color, e.g. #3b82f6")
}

// apply copies every flag the user set onto account.
func (f *accountFlags) apply(cmd *cobra.Command, account *model.Account) error {
	if cmd.Flags().Changed("name") {
		account.Name = f.name
	}
	if cmd.Flags().Changed("balance") {
		balance, err := model.ParseMoney(f.balance)
		if err != nil {
			return err
		}
		account.Balance = balance
	}
	if cmd.Flags().Changed("icon") {
		account.Icon = f.icon
	}
	if cmd.Flags().Changed("color") {
		account.Color = f.color
	}
	return nil
}

func (r *root) addAccountCmd() *cobra.Command {
	var flags accountFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			account := model.Account{Icon: "wallet", Color: "#3b82f6"}
			if err := flags.apply(cmd, &account); err != nil {
				return err
			}
			if err := account.Validate(); err != nil {
				return err
			}

			ctx := cmd.Context()
			return r.withApp(ctx, func(a *app) error {
				created, err := a.accounts.Add(ctx, account)
				if err != nil {
					return err
				}
				if err := printLine(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added account %s (%s)", created.Name, created.ID))); err != nil {
					return err
				}
				return warnOffline(cmd, a)
			})
		},
	}

	flags.register(cmd)
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func (r *root) updateAccountCmd() *cobra.Command {
	var flags accountFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg("account", args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			return r.withApp(ctx, func(a *app) error {
				account, err := a.accounts.Get(ctx, id)
				if err != nil {
					return err
				}
				if err := flags.apply(cmd, &account); err != nil {
					return err
				}

				updated, err := a.accounts.Update(ctx, account)
				if err != nil {
					return err
				}
				if err := printLine(cmd.OutOrStdout(), cli.FormatSuccess("Updated account "+updated.Name)); err != nil {
					return err
				}
				return warnOffline(cmd, a)
			})
		},
	}

	flags.register(cmd)
	return cmd
}

func (r *root) deleteAccountCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg("account", args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ok, err := confirm(cmd, yes, "Delete account "+id.String()+"?"); err != nil || !ok {
				return err
			}
			return r.withApp(ctx, func(a *app) error {
				if err := a.accounts.Delete(ctx, id); err != nil {
					return err
				}
				if err := printLine(cmd.OutOrStdout(), cli.FormatSuccess("Deleted account "+id.String())); err != nil {
					return err
				}
				return warnOffline(cmd, a)
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}

func (r *root) defaultAccountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "defaults",
		Short: "Create the starter accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return r.withApp(ctx, func(a *app) error {
				if err := a.accounts.CreateDefaults(ctx); err != nil {
					return err
				}
				return writeAccounts(cmd, a)
			})
		},
	}
}

func writeAccounts(cmd *cobra.Command, a *app) error {
	out := cmd.OutOrStdout()
	accounts := a.accounts.Items()
	if len(accounts) == 0 {
		return printLine(out, cli.SubtleStyle.Render("No accounts found. Use 'wallet accounts add' or 'wallet accounts defaults'."))
	}
	if err := printLine(out, cli.FormatTitle("Accounts")); err != nil {
		return err
	}
	if err := cli.WriteAccounts(out, accounts, a.currency()); err != nil {
		return err
	}
	if err := printLine(out, cli.BoldStyle.Render("Total: "+cli.FormatAmount(a.accounts.Total(), a.currency()))); err != nil {
		return err
	}
	return warnOffline(cmd, a)
}
