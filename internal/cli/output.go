package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/wallet/internal/model"
)

// FormatAmount renders an amount with two decimals and a currency.
func FormatAmount(m model.Money, currency string) string {
	s := m.StringFixed(2)
	if currency == "" {
		return s
	}
	return s + " " + currency
}

// StyleAmount colors an amount by transaction type.
func StyleAmount(txType model.TransactionType, m model.Money, currency string) string {
	text := FormatAmount(m, currency)
	switch txType {
	case model.TransactionTypeIncome:
		return lipgloss.NewStyle().Foreground(IncomeColor).Render("+" + text)
	case model.TransactionTypeExpense:
		return lipgloss.NewStyle().Foreground(ExpenseColor).Render("-" + text)
	default:
		return lipgloss.NewStyle().Foreground(TransferColor).Render(text)
	}
}

// WriteAccounts prints accounts as a table.
func WriteAccounts(w io.Writer, accounts []model.Account, currency string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\t\tNAME\tBALANCE\tICON")
	fmt.Fprintln(tw, "--\t\t----\t-------\t----")
	for _, a := range accounts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			a.ID, Swatch(a.Color), a.Name, FormatAmount(a.Balance, currency), a.Icon)
	}
	return tw.Flush()
}

// WriteCategories prints categories as a table.
func WriteCategories(w io.Writer, categories []model.Category) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\t\tNAME\tTYPE\tICON")
	fmt.Fprintln(tw, "--\t\t----\t----\t----")
	for _, c := range categories {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", c.ID, Swatch(c.Color), c.Name, c.Type, c.Icon)
	}
	return tw.Flush()
}

// WriteTransactions prints transactions as a table.
func WriteTransactions(w io.Writer, txs []model.Transaction, currency string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tTYPE\tAMOUNT\tACCOUNT\tCATEGORY\tCOMMENT")
	fmt.Fprintln(tw, "--\t----\t----\t------\t-------\t--------\t-------")
	for _, tx := range txs {
		account := nameOr(tx.AccountName, tx.Account)
		if tx.Type == model.TransactionTypeTransfer {
			account += " → " + nameOr(tx.DestinationAccountName, tx.DestinationAccount)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			tx.ID, tx.Date, tx.Type, StyleAmount(tx.Type, tx.Amount, currency),
			account, nameOr(tx.CategoryName, tx.Category), truncate(tx.Comment, 40))
	}
	return tw.Flush()
}

// WriteStatistics prints the per-category breakdown.
func WriteStatistics(w io.Writer, stats model.Statistics, currency string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, side := range []struct {
		title string
		lines []model.CategoryTotal
	}{
		{"Income", stats.Income},
		{"Expense", stats.Expense},
	} {
		fmt.Fprintf(tw, "%s\t%s\n", BoldStyle.Render(side.title), FormatAmount(model.SumTotals(side.lines), currency))
		for _, line := range side.lines {
			fmt.Fprintf(tw, "  %s\t%s\n", line.Category, FormatAmount(line.Total, currency))
		}
	}
	return tw.Flush()
}

// WriteSummaries prints period summaries.
func WriteSummaries(w io.Writer, summaries []model.PeriodSummary, currency string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PERIOD\tINCOME\tEXPENSE\tNET")
	for _, s := range summaries {
		net := model.Money{Decimal: s.IncomeAmount.Sub(s.ExpenseAmount.Decimal)}
		fmt.Fprintf(tw, "%s %s\t%s\t%s\t%s\n", s.PeriodType, s.PeriodKey,
			FormatAmount(s.IncomeAmount, currency),
			FormatAmount(s.ExpenseAmount, currency),
			FormatAmount(net, currency))
	}
	return tw.Flush()
}

func nameOr(name string, id model.ID) string {
	if name != "" {
		return name
	}
	if !id.Valid() {
		return "-"
	}
	return "#" + id.String()
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}
