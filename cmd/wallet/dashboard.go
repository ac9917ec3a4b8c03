package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Veraticus/wallet/internal/charts"
	"github.com/Veraticus/wallet/internal/cli"
	"github.com/Veraticus/wallet/internal/model"
)

func (r *root) dashboardCmd() *cobra.Command {
	var period, from, to, chartPath string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show income and expense totals for a period",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return r.withApp(ctx, func(a *app) error {
				if period != "" {
					a.ui.SetPeriod(period)
				}
				if from != "" || to != "" {
					a.ui.SetDateRange(from, to)
				}
				ui := a.ui.Snapshot()

				if err := a.dashboard.FetchData(ctx, ui.Period, from, to); err != nil {
					return err
				}
				if err := a.dashboard.FetchPeriodSummary(ctx, ui.Period); err != nil {
					slog.Warn("Failed to load period summary", "period", ui.Period, "error", err)
				}
				state := a.dashboard.Snapshot()
				data := state.Data

				out := cmd.OutOrStdout()
				net := model.Money{Decimal: data.IncomeTotal.Sub(data.ExpenseTotal.Decimal)}
				content := fmt.Sprintf("Income:  %s\nExpense: %s\nNet:     %s",
					cli.StyleAmount(model.TransactionTypeIncome, data.IncomeTotal, a.currency()),
					cli.StyleAmount(model.TransactionTypeExpense, data.ExpenseTotal, a.currency()),
					cli.FormatAmount(net, a.currency()))
				title := cli.ChartIcon + " " + data.Period
				if data.StartDate != "" {
					title += fmt.Sprintf(" (%s to %s)", data.StartDate, data.EndDate)
				}
				if err := printLine(out, cli.RenderBox(title, content)); err != nil {
					return err
				}

				if len(data.IncomeCategories) > 0 || len(data.ExpenseCategories) > 0 {
					if err := cli.WriteStatistics(out, model.Statistics{
						Period:  data.Period,
						Income:  data.IncomeCategories,
						Expense: data.ExpenseCategories,
					}, a.currency()); err != nil {
						return err
					}
				}
				if s := state.Summary; s != nil {
					if err := cli.WriteSummaries(out, []model.PeriodSummary{*s}, a.currency()); err != nil {
						return err
					}
				}

				if chartPath == "" {
					return nil
				}
				png, err := charts.NewGenerator(a.currency()).Totals(data)
				if err != nil {
					return err
				}
				return writeChart(cmd, chartPath, png)
			})
		},
	}

	cmd.Flags().StringVarP(&period, "period", "p", "", "today, week, month, quarter, year or all")
	cmd.Flags().StringVar(&from, "from", "", "start date, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "end date, YYYY-MM-DD")
	cmd.Flags().StringVar(&chartPath, "chart", "", "write an income/expense bar chart PNG to this path")

	cmd.AddCommand(r.summariesCmd())
	return cmd
}

func (r *root) summariesCmd() *cobra.Command {
	var periodType, key string

	cmd := &cobra.Command{
		Use:   "summaries",
		Short: "List server computed period summaries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return r.withApp(ctx, func(a *app) error {
				pt := model.PeriodType(periodType)
				if pt == "" {
					pt = model.PeriodTypeFor(a.ui.Period())
				}
				summaries, err := a.dashboardGW.PeriodSummaries(ctx, pt, key)
				if err != nil {
					return err
				}
				if len(summaries) == 0 {
					return printLine(cmd.OutOrStdout(), cli.SubtleStyle.Render("No summaries for "+string(pt)))
				}
				return cli.WriteSummaries(cmd.OutOrStdout(), summaries, a.currency())
			})
		},
	}

	cmd.Flags().StringVarP(&periodType, "type", "t", "", "daily, weekly, monthly, quarterly, yearly or all")
	cmd.Flags().StringVarP(&key, "key", "k", "", "period key, e.g. 2026-03")
	return cmd
}

func (r *root) statsCmd() *cobra.Command {
	var period, chartPath string
	var income bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show per-category totals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return r.withApp(ctx, func(a *app) error {
				if period == "" {
					period = a.ui.Period()
				}
				stats, err := a.transactionsGW.Statistics(ctx, period)
				if err != nil {
					return err
				}
				if err := cli.WriteStatistics(cmd.OutOrStdout(), stats, a.currency()); err != nil {
					return err
				}

				if chartPath == "" {
					return nil
				}
				png, err := charts.NewGenerator(a.currency()).CategoryPie(stats, !income)
				if err != nil {
					return err
				}
				return writeChart(cmd, chartPath, png)
			})
		},
	}

	cmd.Flags().StringVarP(&period, "period", "p", "", "today, week, month, quarter, year or all")
	cmd.Flags().StringVar(&chartPath, "chart", "", "write a category pie chart PNG to this path")
	cmd.Flags().BoolVar(&income, "income", false, "chart income instead of expenses")
	return cmd
}

func writeChart(cmd *cobra.Command, path string, png []byte) error {
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	return printLine(cmd.OutOrStdout(), cli.FormatSuccess("Chart written to "+path))
}
