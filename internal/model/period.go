package model

// PeriodType is the bucket size of a period summary.
type PeriodType string

// Period types understood by the period-summaries endpoint.
const (
	PeriodDaily     PeriodType = "daily"
	PeriodWeekly    PeriodType = "weekly"
	PeriodMonthly   PeriodType = "monthly"
	PeriodQuarterly PeriodType = "quarterly"
	PeriodYearly    PeriodType = "yearly"
	PeriodAll       PeriodType = "all"
)

// DefaultPeriod is the client period selected when nothing else is.
const DefaultPeriod = "month"

// PeriodTypeFor maps a client period (today, week, month, quarter, year,
// all) to the server period type. Unknown values map to monthly.
func PeriodTypeFor(clientPeriod string) PeriodType {
	switch clientPeriod {
	case "today":
		return PeriodDaily
	case "week":
		return PeriodWeekly
	case "month":
		return PeriodMonthly
	case "quarter":
		return PeriodQuarterly
	case "year":
		return PeriodYearly
	case "all":
		return PeriodAll
	default:
		return PeriodMonthly
	}
}

// PeriodSummary is the server computed income and expense total of one bucket.
type PeriodSummary struct {
	ID            ID         `json:"id"`
	PeriodType    PeriodType `json:"period_type"`
	PeriodKey     string     `json:"period_key"`
	IncomeAmount  Money      `json:"income_amount"`
	ExpenseAmount Money      `json:"expense_amount"`
}

// CategoryTotal is one line of a per-category breakdown.
type CategoryTotal struct {
	Category string `json:"category"`
	Total    Money  `json:"total"`
}

// Statistics is the per-category breakdown for a period.
type Statistics struct {
	Period    string          `json:"period"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	Income    []CategoryTotal `json:"income"`
	Expense   []CategoryTotal `json:"expense"`
}

// DashboardData carries the income and expense totals for a period.
type DashboardData struct {
	Period            string
	StartDate         string
	EndDate           string
	IncomeTotal       Money
	ExpenseTotal      Money
	IncomeCategories  []CategoryTotal
	ExpenseCategories []CategoryTotal
}

// SumTotals adds up a category breakdown.
func SumTotals(lines []CategoryTotal) Money {
	var sum Money
	for _, l := range lines {
		sum = sum.Add(l.Total)
	}
	return sum
}
