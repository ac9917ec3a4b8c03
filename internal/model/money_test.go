package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyUnmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: `1500.5`, want: "1500.5"},
		{in: `"1500.50"`, want: "1500.5"},
		{in: `"1 500.00 KZT"`, want: "1500"},
		{in: `"-20"`, want: "-20"},
		{in: `"abc"`, want: "0"},
		{in: `null`, want: "0"},
		{in: `true`, want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var m Money
			require.NoError(t, json.Unmarshal([]byte(tt.in), &m))
			assert.Equal(t, tt.want, m.String())
		})
	}
}

func TestMoneyMarshalIsNumber(t *testing.T) {
	out, err := json.Marshal(struct {
		Amount Money `json:"amount"`
	}{MustMoney("42.10")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":42.1}`, string(out))
}

func TestMoneyArithmetic(t *testing.T) {
	sum := MustMoney("0.1").Add(MustMoney("0.2"))
	assert.Equal(t, "0.3", sum.String())

	total := SumTotals([]CategoryTotal{
		{Category: "a", Total: MustMoney("10.25")},
		{Category: "b", Total: NewMoney(5)},
	})
	assert.Equal(t, "15.25", total.StringFixed(2))
	assert.True(t, SumTotals(nil).IsZero())
}

func TestParseMoneyStrict(t *testing.T) {
	_, err := ParseMoney("12 KZT")
	assert.Error(t, err)
	assert.Equal(t, "12", CoerceMoney("12 KZT").String())
	assert.Panics(t, func() { MustMoney("x") })
}
