package ofx

import (
	"strings"

	"github.com/Veraticus/wallet/internal/model"
)

// DraftOptions chooses where imported lines are booked.
type DraftOptions struct {
	Account         model.ID
	IncomeCategory  model.ID
	ExpenseCategory model.ID
	Tags            []string
}

// Drafts converts statement lines into transactions ready to add. Each
// draft is tagged with its FITID so re-imports can be spotted.
func Drafts(lines []Line, opts DraftOptions) []model.Transaction {
	drafts := make([]model.Transaction, 0, len(lines))
	for _, line := range lines {
		category := opts.ExpenseCategory
		if line.Type == model.TransactionTypeIncome {
			category = opts.IncomeCategory
		}

		comment := line.Payee
		if line.Memo != "" && !strings.EqualFold(line.Memo, line.Payee) {
			comment += " (" + line.Memo + ")"
		}

		tags := append([]string{}, opts.Tags...)
		if line.FITID != "" {
			tags = append(tags, "fitid:"+line.FITID)
		}

		drafts = append(drafts, model.Transaction{
			Type:     line.Type,
			Amount:   line.Amount,
			Account:  opts.Account,
			Category: category,
			Date:     line.Date,
			Comment:  comment,
			Tags:     tags,
		})
	}
	return drafts
}
