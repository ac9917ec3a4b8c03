package model

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a decimal amount that always holds a finite value. Decoding is
// lenient: numbers, numeric strings and formatted strings such as
// "1 500.00 KZT" are accepted, anything unusable becomes zero.
type Money struct {
	decimal.Decimal
}

// NewMoney creates a whole-unit amount.
func NewMoney(units int64) Money {
	return Money{decimal.NewFromInt(units)}
}

// ParseMoney parses a strict decimal string.
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Money{}, err
	}
	return Money{d}, nil
}

// MustMoney is ParseMoney for constants; it panics on malformed input.
func MustMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// CoerceMoney parses s, dropping every character that is not a digit,
// a dot or a minus sign. Unparseable input yields zero.
func CoerceMoney(s string) Money {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	d, err := decimal.NewFromString(b.String())
	if err != nil {
		return Money{}
	}
	return Money{d}
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{m.Decimal.Add(other.Decimal)}
}

// MarshalJSON writes the amount as a bare JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts numbers, strings and null and never fails.
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*m = Money{}
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*m = Money{}
			return nil
		}
		*m = CoerceMoney(s)
	default:
		d, err := decimal.NewFromString(string(data))
		if err != nil {
			*m = Money{}
			return nil
		}
		*m = Money{d}
	}
	return nil
}
