package model

// Account holds money. The balance is maintained by the server; the client
// only refreshes it after transactions change.
type Account struct {
	ID      ID     `json:"id"`
	Name    string `json:"name" validate:"required,max=100"`
	Balance Money  `json:"balance"`
	Icon    string `json:"icon,omitempty" validate:"omitempty,max=50"`
	Color   string `json:"color,omitempty" validate:"omitempty,hexcolor"`
}

// Validate checks the account before it is sent anywhere.
func (a *Account) Validate() error {
	return validateStruct(a)
}

// AccountID returns the account's identifier.
func AccountID(a Account) ID { return a.ID }
