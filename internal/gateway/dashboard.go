package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"

	"github.com/Veraticus/wallet/internal/api"
	"github.com/Veraticus/wallet/internal/model"
)

// Dashboard reads the derived aggregates. Failures are not absorbed.
type Dashboard struct {
	client *api.Client
}

// NewDashboard builds the dashboard gateway.
func NewDashboard(client *api.Client) *Dashboard {
	return &Dashboard{client: client}
}

type dashboardResponse struct {
	IncomeTotal  *model.Money    `json:"income_total"`
	ExpenseTotal *model.Money    `json:"expense_total"`
	Period       string          `json:"period"`
	StartDate    string          `json:"start_date"`
	EndDate      string          `json:"end_date"`
	Income       json.RawMessage `json:"income"`
	Expense      json.RawMessage `json:"expense"`
}

// Data returns the income and expense totals for a period. The server may
// report each side as a number, a numeric string or a per-category list.
func (g *Dashboard) Data(ctx context.Context, period, startDate, endDate string) (model.DashboardData, error) {
	query := url.Values{}
	if period != "" {
		query.Set("period", period)
	}
	if startDate != "" {
		query.Set("start_date", startDate)
	}
	if endDate != "" {
		query.Set("end_date", endDate)
	}

	var resp dashboardResponse
	if err := g.client.Get(ctx, api.PathDashboard, query, &resp); err != nil {
		return model.DashboardData{}, err
	}

	data := model.DashboardData{
		Period:    resp.Period,
		StartDate: resp.StartDate,
		EndDate:   resp.EndDate,
	}
	if data.Period == "" {
		data.Period = period
	}
	data.IncomeTotal, data.IncomeCategories = decodeTotal(resp.Income)
	data.ExpenseTotal, data.ExpenseCategories = decodeTotal(resp.Expense)
	if resp.IncomeTotal != nil {
		data.IncomeTotal = *resp.IncomeTotal
	}
	if resp.ExpenseTotal != nil {
		data.ExpenseTotal = *resp.ExpenseTotal
	}
	return data, nil
}

func decodeTotal(raw json.RawMessage) (model.Money, []model.CategoryTotal) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return model.Money{}, nil
	}
	if raw[0] == '[' {
		var lines []model.CategoryTotal
		if err := json.Unmarshal(raw, &lines); err != nil {
			return model.Money{}, nil
		}
		return model.SumTotals(lines), lines
	}
	var m model.Money
	_ = json.Unmarshal(raw, &m)
	return m, nil
}

// PeriodSummaries lists the summaries of one period type, most recent first.
// key narrows to a single bucket and may be empty.
func (g *Dashboard) PeriodSummaries(ctx context.Context, periodType model.PeriodType, key string) ([]model.PeriodSummary, error) {
	query := url.Values{}
	query.Set("period_type", string(periodType))
	if key != "" {
		query.Set("period_key", key)
	}

	var summaries []model.PeriodSummary
	if err := g.client.Get(ctx, api.PathPeriodSummaries, query, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

// PeriodSummary returns the latest summary for a client period (today,
// week, month, quarter, year, all), or nil when the server has none.
func (g *Dashboard) PeriodSummary(ctx context.Context, clientPeriod string) (*model.PeriodSummary, error) {
	summaries, err := g.PeriodSummaries(ctx, model.PeriodTypeFor(clientPeriod), "")
	if err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return nil, nil
	}
	latest := summaries[0]
	return &latest, nil
}
