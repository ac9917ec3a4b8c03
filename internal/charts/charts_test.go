package charts

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/wallet/internal/model"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestCategoryPie(t *testing.T) {
	g := NewGenerator("KZT")

	stats := model.Statistics{
		Period: "month",
		Expense: []model.CategoryTotal{
			{Category: "Groceries", Total: model.NewMoney(42000)},
			{Category: "Transport", Total: model.NewMoney(9000)},
		},
	}

	t.Run("renders expense breakdown", func(t *testing.T) {
		png, err := g.CategoryPie(stats, true)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(png, pngMagic))
	})

	t.Run("empty side has no data", func(t *testing.T) {
		_, err := g.CategoryPie(stats, false)
		assert.ErrorIs(t, err, ErrNoData)
	})
}

func TestTotals(t *testing.T) {
	g := NewGenerator("KZT")

	t.Run("renders totals", func(t *testing.T) {
		png, err := g.Totals(model.DashboardData{
			Period:       "month",
			IncomeTotal:  model.NewMoney(300000),
			ExpenseTotal: model.NewMoney(120000),
		})
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(png, pngMagic))
	})

	t.Run("zero totals have no data", func(t *testing.T) {
		_, err := g.Totals(model.DashboardData{Period: "month"})
		assert.ErrorIs(t, err, ErrNoData)
	})
}
