package model

import (
	"github.com/Veraticus/wallet/internal/common"
)

// TransactionType classifies a transaction.
type TransactionType string

const (
	// TransactionTypeIncome adds money to an account.
	TransactionTypeIncome TransactionType = "income"
	// TransactionTypeExpense removes money from an account.
	TransactionTypeExpense TransactionType = "expense"
	// TransactionTypeTransfer moves money between two accounts.
	TransactionTypeTransfer TransactionType = "transfer"
)

// DateLayout is the wire format of transaction dates.
const DateLayout = "2006-01-02"

// Transaction is a single income, expense or transfer.
type Transaction struct {
	ID                 ID              `json:"id"`
	Type               TransactionType `json:"type" validate:"required,oneof=income expense transfer"`
	Amount             Money           `json:"amount"`
	Account            ID              `json:"account"`
	Category           ID              `json:"category"`
	DestinationAccount ID              `json:"destination_account"`
	Date               string          `json:"date" validate:"required,datetime=2006-01-02"`
	Comment            string          `json:"comment"`
	Tags               []string        `json:"tags"`

	// Read-only names the server adds to list responses.
	CategoryName           string `json:"category_name,omitempty"`
	AccountName            string `json:"account_name,omitempty"`
	DestinationAccountName string `json:"destination_account_name,omitempty"`
}

// Validate enforces the transaction invariants before any network call:
// a positive amount, a category for income and expense, and for transfers
// a destination account that differs from the origin and no category.
func (t *Transaction) Validate() error {
	if err := validateStruct(t); err != nil {
		return err
	}
	if !t.Amount.IsPositive() {
		return &common.ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}
	if !t.Account.Valid() {
		return &common.ValidationError{Field: "account", Reason: "is required"}
	}

	switch t.Type {
	case TransactionTypeTransfer:
		if !t.DestinationAccount.Valid() {
			return &common.ValidationError{Field: "destination_account", Reason: "is required for transfers"}
		}
		if t.DestinationAccount.Matches(t.Account) {
			return &common.ValidationError{Field: "destination_account", Reason: "must differ from account"}
		}
		if t.Category.Valid() {
			return &common.ValidationError{Field: "category", Reason: "must be empty for transfers"}
		}
	default:
		if !t.Category.Valid() {
			return &common.ValidationError{Field: "category", Reason: "is required"}
		}
	}
	return nil
}

// Prepared returns the payload sent to the server: tags are never nil and
// only transfers keep a destination account.
func (t Transaction) Prepared() Transaction {
	if t.Tags == nil {
		t.Tags = []string{}
	}
	if t.Type != TransactionTypeTransfer {
		t.DestinationAccount = NullID()
	}
	t.CategoryName = ""
	t.AccountName = ""
	t.DestinationAccountName = ""
	return t
}

// TransactionID returns the transaction's identifier.
func TransactionID(t Transaction) ID { return t.ID }

// TransactionFilter narrows a transaction listing.
type TransactionFilter struct {
	Type      TransactionType
	Category  ID
	DateFrom  string
	DateTo    string
	AmountMin *Money
	AmountMax *Money
}
