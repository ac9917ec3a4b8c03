package model

import (
	"bytes"
	"encoding/json"
)

// CategoryType indicates whether a category is for income or expense.
// Transfers never carry a category.
type CategoryType string

const (
	// CategoryTypeIncome represents categories for income transactions.
	CategoryTypeIncome CategoryType = "income"
	// CategoryTypeExpense represents categories for expense transactions.
	CategoryTypeExpense CategoryType = "expense"
)

// Category groups income or expense transactions.
type Category struct {
	ID    ID           `json:"id"`
	Name  string       `json:"name" validate:"required,max=100"`
	Type  CategoryType `json:"type" validate:"required,oneof=income expense"`
	Color string       `json:"color,omitempty" validate:"omitempty,hexcolor"`
	Icon  string       `json:"icon,omitempty" validate:"omitempty,max=50"`
}

// UnmarshalJSON decodes a category and rehashes legacy string identifiers
// so every category carries a numeric ID.
func (c *Category) UnmarshalJSON(data []byte) error {
	type plain Category
	var raw struct {
		plain
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = Category(raw.plain)
	c.ID = idFromRaw(raw.ID)

	trimmed := bytes.TrimSpace(raw.ID)
	if !c.ID.Valid() && len(trimmed) > 0 && trimmed[0] == '"' {
		var legacy string
		if err := json.Unmarshal(trimmed, &legacy); err == nil && legacy != "" {
			c.ID = LegacyCategoryID(legacy)
		}
	}
	return nil
}

// Validate checks the category before it is sent anywhere.
func (c *Category) Validate() error {
	return validateStruct(c)
}

// CategoryID returns the category's identifier.
func CategoryID(c Category) ID { return c.ID }

// CategoriesForType returns the categories selectable for a transaction of
// the given type. Transfers take no category, so none are returned.
func CategoriesForType(categories []Category, txType TransactionType) []Category {
	var want CategoryType
	switch txType {
	case TransactionTypeIncome:
		want = CategoryTypeIncome
	case TransactionTypeExpense:
		want = CategoryTypeExpense
	default:
		return nil
	}

	var out []Category
	for _, c := range categories {
		if c.Type == want {
			out = append(out, c)
		}
	}
	return out
}
