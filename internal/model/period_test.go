package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/wallet/internal/common"
)

func TestPeriodTypeFor(t *testing.T) {
	tests := map[string]PeriodType{
		"today":   PeriodDaily,
		"week":    PeriodWeekly,
		"month":   PeriodMonthly,
		"quarter": PeriodQuarterly,
		"year":    PeriodYearly,
		"all":     PeriodAll,
		"":        PeriodMonthly,
		"custom":  PeriodMonthly,
	}
	for in, want := range tests {
		assert.Equal(t, want, PeriodTypeFor(in), "period %q", in)
	}
}

func TestThemes(t *testing.T) {
	theme, err := ParseTheme(" Light ")
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, theme)
	assert.Equal(t, ThemeDark, theme.Toggle())
	assert.Equal(t, ThemeLight, ThemeDark.Toggle())

	_, err = ParseTheme("sepia")
	assert.Error(t, err)
}

func TestSession(t *testing.T) {
	var nilSession *Session
	assert.False(t, nilSession.Authenticated())
	assert.Nil(t, nilSession.Token())

	s := &Session{Username: "alice", Access: "a1", Refresh: "r1"}
	assert.True(t, s.Authenticated())
	assert.Equal(t, "Bearer", s.Token().Type())

	merged := s.WithProfile(Session{Username: "alice", Email: "alice@example.com", Access: "stale"})
	assert.Equal(t, "a1", merged.Access)
	assert.Equal(t, "r1", merged.Refresh)
	assert.Equal(t, "alice@example.com", merged.Email)
}

func TestCredentialsAndRegistration(t *testing.T) {
	var validationErr *common.ValidationError

	require.ErrorAs(t, (&Credentials{Username: "alice"}).Validate(), &validationErr)
	assert.Equal(t, "password", validationErr.Field)

	reg := Registration{Username: "bob", Email: "bob@example.com", Password: "longenough", Password2: "different"}
	require.ErrorAs(t, reg.Validate(), &validationErr)
	assert.Equal(t, "password2", validationErr.Field)

	reg.Password2 = reg.Password
	assert.NoError(t, reg.Validate())

	reg.Email = "not-an-email"
	require.ErrorAs(t, reg.Validate(), &validationErr)
	assert.Equal(t, "email", validationErr.Field)
}
