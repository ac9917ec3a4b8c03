package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/wallet/internal/cli"
	"github.com/Veraticus/wallet/internal/common"
	"github.com/Veraticus/wallet/internal/model"
	"github.com/Veraticus/wallet/internal/ofx"
)

func (r *root) transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"tx"},
		Short:   "Record and review income, expenses, and transfers",
		Long: `Record and review income, expenses, and transfers.

Every successful change refreshes account balances and the period
summary. Transactions always need the server; they are never cached.`,
	}

	cmd.AddCommand(r.listTransactionsCmd())
	cmd.AddCommand(r.addTransactionCmd())
	cmd.AddCommand(r.updateTransactionCmd())
	cmd.AddCommand(r.deleteTransactionCmd())
	cmd.AddCommand(r.importOFXCmd())
	return cmd
}

func (r *root) listTransactionsCmd() *cobra.Command {
	var txType, category, from, to, minAmount, maxAmount string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := model.TransactionFilter{
				Type:     model.TransactionType(txType),
				DateFrom: from,
				DateTo:   to,
			}
			for _, bound := range []struct {
				dst **model.Money
				raw string
			}{{&filter.AmountMin, minAmount}, {&filter.AmountMax, maxAmount}} {
				if bound.raw == "" {
					continue
				}
				m, err := model.ParseMoney(bound.raw)
				if err != nil {
					return err
				}
				*bound.dst = &m
			}

			ctx := cmd.Context()
			return r.withApp(ctx, func(a *app) error {
				if category != "" {
					id, err := resolveCategory(ctx, a, category, filter.Type)
					if err != nil {
						return err
					}
					filter.Category = id
				}

				a.transactions.SetFilter(filter)
				if err := a.transactions.Fetch(ctx); err != nil {
					return err
				}
				txs := a.transactions.Items()
				if len(txs) == 0 {
					return printLine(cmd.OutOrStdout(), cli.SubtleStyle.Render("No transactions found."))
				}
				return cli.WriteTransactions(cmd.OutOrStdout(), txs, a.currency())
			})
		},
	}

	cmd.Flags().StringVarP(&txType, "type", "t", "", "income, expense or transfer")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category id or name")
	cmd.Flags().StringVar(&from, "from", "", "first date, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last date, YYYY-MM-DD")
	cmd.Flags().StringVar(&minAmount, "min", "", "minimum amount")
	cmd.Flags().StringVar(&maxAmount, "max", "", "maximum amount")
	return cmd
}

type transactionFlags struct {
	txType      string
	amount      string
	account     string
	category    string
	destination string
	date        string
	comment     string
	tags        []string
}

func (f *transactionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.txType, "type", "t", string(model.TransactionTypeExpense), "income, expense or transfer")
	cmd.Flags().StringVarP(&f.amount, "amount", "a", "", "amount, greater than zero")
	cmd.Flags().StringVar(&f.account, "account", "", "account id or name")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "category id or name (not for transfers)")
	cmd.Flags().StringVar(&f.destination, "destination", "", "destination account id or name (transfers only)")
	cmd.Flags().StringVarP(&f.date, "date", "d", "", "date, YYYY-MM-DD (default today)")
	cmd.Flags().StringVarP(&f.comment, "comment", "m", "", "comment")
	cmd.Flags().StringSliceVar(&f.tags, "tag", nil, "tag, repeatable")
}

// apply copies every flag the user set onto the form draft, resolving names
// to ids, and returns the result. Switching the type drops a category that
// does not fit the new type.
func (f *transactionFlags) apply(ctx context.Context, cmd *cobra.Command, a *app) (model.Transaction, error) {
	changed := cmd.Flags().Changed

	if changed("type") {
		if err := a.categories.Fetch(ctx); err != nil {
			return model.Transaction{}, err
		}
		a.ui.SetDraftType(model.TransactionType(f.txType), a.categories.Items())
	}
	t := a.ui.Snapshot().Draft

	if changed("amount") {
		amount, err := model.ParseMoney(f.amount)
		if err != nil {
			return t, err
		}
		t.Amount = amount
	}
	if changed("account") {
		id, err := resolveAccount(ctx, a, f.account)
		if err != nil {
			return t, err
		}
		t.Account = id
	}
	if changed("destination") {
		id, err := resolveAccount(ctx, a, f.destination)
		if err != nil {
			return t, err
		}
		t.DestinationAccount = id
	}
	if changed("category") {
		id, err := resolveCategory(ctx, a, f.category, t.Type)
		if err != nil {
			return t, err
		}
		t.Category = id
	}
	if changed("date") {
		t.Date = f.date
	}
	if changed("comment") {
		t.Comment = f.comment
	}
	if changed("tag") {
		t.Tags = f.tags
	}
	return t, nil
}

func (r *root) addTransactionCmd() *cobra.Command {
	var flags transactionFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		Example: `  wallet tx add --amount 1500 --account Cash --category Groceries
  wallet tx add --type income --amount 250000 --account "Main card" --category Salary
  wallet tx add --type transfer --amount 5000 --account "Main card" --destination Cash`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return r.withApp(ctx, func(a *app) error {
				a.ui.ResetDraft()
				t, err := flags.apply(ctx, cmd, a)
				if err != nil {
					return err
				}

				created, err := a.transactions.Add(ctx, t)
				if err != nil {
					return err
				}
				return reportChange(cmd, a, fmt.Sprintf("Recorded %s %s", created.Type,
					cli.FormatAmount(created.Amount, a.currency())))
			})
		},
	}

	flags.register(cmd)
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("account")
	return cmd
}

func (r *root) updateTransactionCmd() *cobra.Command {
	var flags transactionFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg("transaction", args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			return r.withApp(ctx, func(a *app) error {
				existing, err := a.transactions.Get(ctx, id)
				if err != nil {
					return err
				}
				a.ui.EditDraft(existing)
				t, err := flags.apply(ctx, cmd, a)
				if err != nil {
					return err
				}

				if _, err := a.transactions.Update(ctx, t); err != nil {
					return err
				}
				return reportChange(cmd, a, "Updated transaction "+id.String())
			})
		},
	}

	flags.register(cmd)
	return cmd
}

func (r *root) deleteTransactionCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg("transaction", args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ok, err := confirm(cmd, yes, "Delete transaction "+id.String()+"?"); err != nil || !ok {
				return err
			}
			return r.withApp(ctx, func(a *app) error {
				if err := a.transactions.Delete(ctx, id); err != nil {
					return err
				}
				return reportChange(cmd, a, "Deleted transaction "+id.String())
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}

func (r *root) importOFXCmd() *cobra.Command {
	var account, incomeCategory, expenseCategory string
	var tags []string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import transactions from OFX/QFX files",
		Long: `Import transactions from OFX or QFX statements exported from your bank.

Debits are booked as expenses and credits as income. Each transaction is
tagged with its bank FITID; duplicates across files are skipped.

Examples:
  wallet tx import-ofx --account "Main card" --expense-category Other ~/Downloads/*.qfx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := expandFiles(args)
			if err != nil {
				return err
			}

			lines := parseStatements(cmd.Context(), files)
			if len(lines) == 0 {
				slog.Warn("No transactions found in any file")
				return nil
			}

			ctx := cmd.Context()
			return r.withApp(ctx, func(a *app) error {
				opts := ofx.DraftOptions{Tags: tags}
				if opts.Account, err = resolveAccount(ctx, a, account); err != nil {
					return err
				}
				if opts.IncomeCategory, err = resolveCategory(ctx, a, incomeCategory, model.TransactionTypeIncome); err != nil {
					return err
				}
				if opts.ExpenseCategory, err = resolveCategory(ctx, a, expenseCategory, model.TransactionTypeExpense); err != nil {
					return err
				}

				drafts := ofx.Drafts(lines, opts)
				if dryRun {
					return cli.WriteTransactions(cmd.OutOrStdout(), drafts, a.currency())
				}
				return importDrafts(cmd, a, drafts)
			})
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "account id or name to book into")
	cmd.Flags().StringVar(&incomeCategory, "income-category", "", "category id or name for credits")
	cmd.Flags().StringVar(&expenseCategory, "expense-category", "", "category id or name for debits")
	cmd.Flags().StringSliceVar(&tags, "tag", []string{"imported"}, "tag added to every transaction")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "preview without saving")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("income-category")
	_ = cmd.MarkFlagRequired("expense-category")
	return cmd
}

// expandFiles resolves globs, keeping plain paths that exist.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) > 0 {
			files = append(files, matches...)
			continue
		}
		if _, err := os.Stat(pattern); err == nil {
			files = append(files, pattern)
		} else {
			slog.Warn("No files found matching pattern", "pattern", pattern)
		}
	}
	if len(files) == 0 {
		return nil, errors.New("no files found to import")
	}
	return files, nil
}

// parseStatements reads every file, dropping lines whose FITID was seen
// in an earlier file.
func parseStatements(ctx context.Context, files []string) []ofx.Line {
	parser := ofx.NewParser()
	seen := make(map[string]bool)
	var lines []ofx.Line

	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			common.LogError(err, "Failed to open file", common.Fields{"file": path})
			continue
		}
		parsed, err := parser.ParseFile(ctx, f)
		_ = f.Close()
		if err != nil {
			common.LogError(err, "Failed to parse OFX file", common.Fields{"file": path})
			continue
		}

		added := 0
		for _, line := range parsed {
			if line.FITID != "" && seen[line.FITID] {
				continue
			}
			seen[line.FITID] = true
			lines = append(lines, line)
			added++
		}
		slog.Info("Processed file",
			"file", filepath.Base(path),
			"transactions_found", len(parsed),
			"added", added,
			"duplicates", len(parsed)-added)
	}
	return lines
}

func importDrafts(cmd *cobra.Command, a *app, drafts []model.Transaction) error {
	ctx := cmd.Context()
	bar := cli.NewProgress(cmd.ErrOrStderr(), len(drafts), "Importing")

	var failed int
	for _, t := range drafts {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, err := a.transactions.Add(ctx, t); err != nil {
			failed++
			common.LogError(err, "Failed to import transaction", common.Fields{"date": t.Date, "comment": t.Comment})
		}
		_ = bar.Add(1)
	}

	msg := fmt.Sprintf("Imported %d of %d transactions", len(drafts)-failed, len(drafts))
	if failed > 0 {
		if err := printLine(cmd.OutOrStdout(), cli.FormatWarning(msg)); err != nil {
			return err
		}
		return fmt.Errorf("%d transactions failed to import", failed)
	}
	return reportChange(cmd, a, msg)
}

// reportChange prints msg after the post-change refresh has finished,
// followed by the refreshed balance total.
func reportChange(cmd *cobra.Command, a *app, msg string) error {
	a.sync.Wait()
	out := cmd.OutOrStdout()
	if err := printLine(out, cli.FormatSuccess(msg)); err != nil {
		return err
	}
	return printLine(out, cli.SubtleStyle.Render("Total balance: "+cli.FormatAmount(a.accounts.Total(), a.currency())))
}

// resolveAccount accepts an account id or a case-insensitive name.
func resolveAccount(ctx context.Context, a *app, value string) (model.ID, error) {
	if id := model.ParseID(value); id.Valid() {
		return id, nil
	}
	if err := a.accounts.Fetch(ctx); err != nil {
		return model.NullID(), err
	}
	for _, account := range a.accounts.Items() {
		if strings.EqualFold(account.Name, value) {
			return account.ID, nil
		}
	}
	return model.NullID(), &common.NotFoundError{Entity: "account", ID: value}
}

// resolveCategory accepts the id or case-insensitive name of a category
// usable for txType. An empty txType allows any category.
func resolveCategory(ctx context.Context, a *app, value string, txType model.TransactionType) (model.ID, error) {
	if err := a.categories.Fetch(ctx); err != nil {
		return model.NullID(), err
	}
	candidates := a.categories.Items()
	if txType != "" {
		candidates = a.categories.ForType(txType)
	}

	if id := model.ParseID(value); id.Valid() {
		if model.FindIndex(candidates, id, model.CategoryID) >= 0 {
			return id, nil
		}
		if txType != "" && model.FindIndex(a.categories.Items(), id, model.CategoryID) >= 0 {
			return model.NullID(), &common.ValidationError{
				Field:  "category",
				Reason: fmt.Sprintf("%s cannot be used for %s transactions", value, txType),
			}
		}
		return model.NullID(), &common.NotFoundError{Entity: "category", ID: value}
	}

	for _, c := range candidates {
		if strings.EqualFold(c.Name, value) {
			return c.ID, nil
		}
	}
	return model.NullID(), &common.NotFoundError{Entity: "category", ID: value}
}
