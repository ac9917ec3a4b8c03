// Package charts renders statistics as PNG images.
package charts

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/Veraticus/wallet/internal/model"
)

// ErrNoData is returned when there is nothing to draw.
var ErrNoData = errors.New("no data to chart")

// minShare hides slices below this percentage of the total.
const minShare = 1.0

var background = chart.Style{
	Padding:   chart.Box{Top: 50, Left: 50, Right: 50, Bottom: 50},
	FillColor: chart.ColorWhite,
}

// Generator renders charts.
type Generator struct {
	Currency string
	Width    int
	Height   int
}

// NewGenerator creates a generator labelling amounts with currency.
func NewGenerator(currency string) *Generator {
	return &Generator{Currency: currency, Width: 1200, Height: 600}
}

// CategoryPie draws the income or expense breakdown of stats.
func (g *Generator) CategoryPie(stats model.Statistics, expense bool) ([]byte, error) {
	lines := stats.Income
	if expense {
		lines = stats.Expense
	}

	total, _ := model.SumTotals(lines).Float64()
	if total <= 0 {
		return nil, ErrNoData
	}

	values := make([]chart.Value, 0, len(lines))
	for _, line := range lines {
		amount, _ := line.Total.Float64()
		share := amount / total * 100
		if share <= minShare {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s: %s %s (%.1f%%)", line.Category, line.Total.StringFixed(0), g.Currency, share),
			Value: amount,
		})
	}
	if len(values) == 0 {
		return nil, ErrNoData
	}

	pie := chart.PieChart{
		Width:      g.Width,
		Height:     g.Height,
		Values:     values,
		Background: background,
	}

	buffer := bytes.NewBuffer(nil)
	if err := pie.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render category chart: %w", err)
	}
	return buffer.Bytes(), nil
}

// Totals draws income against expense for one dashboard period.
func (g *Generator) Totals(data model.DashboardData) ([]byte, error) {
	income, _ := data.IncomeTotal.Float64()
	expense, _ := data.ExpenseTotal.Float64()
	if income == 0 && expense == 0 {
		return nil, ErrNoData
	}

	bar := func(label string, v float64, c drawing.Color) chart.Value {
		return chart.Value{
			Label: fmt.Sprintf("%s: %.0f %s", label, v, g.Currency),
			Value: v,
			Style: chart.Style{StrokeColor: c, FillColor: c, FontSize: 12, FontColor: chart.ColorBlack},
		}
	}

	graph := chart.BarChart{
		Title:      "Period " + data.Period,
		TitleStyle: chart.Style{FontSize: 14, FontColor: chart.ColorBlack},
		Width:      g.Width,
		Height:     g.Height,
		BarWidth:   120,
		Background: background,
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.0f", v.(float64))
			},
		},
		Bars: []chart.Value{
			bar("Income", income, chart.ColorGreen),
			bar("Expense", expense, chart.ColorRed),
			bar("Net", income-expense, chart.ColorBlue),
		},
	}

	buffer := bytes.NewBuffer(nil)
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render totals chart: %w", err)
	}
	return buffer.Bytes(), nil
}
