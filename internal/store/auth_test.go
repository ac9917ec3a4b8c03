package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/wallet/internal/common"
	"github.com/Veraticus/wallet/internal/model"
	"github.com/Veraticus/wallet/internal/store"
)

type fakeAuth struct {
	stored     *model.Session
	loginErr   error
	refreshErr error
	logoutErr  error
}

func (f *fakeAuth) Login(_ context.Context, creds model.Credentials) (model.Session, error) {
	if f.loginErr != nil {
		return model.Session{}, f.loginErr
	}
	s := model.Session{Username: creds.Username, Access: "access-1", Refresh: "refresh-1"}
	f.stored = &s
	return s, nil
}

func (f *fakeAuth) Register(ctx context.Context, reg model.Registration) (model.Session, error) {
	return f.Login(ctx, model.Credentials{Username: reg.Username, Password: reg.Password})
}

func (f *fakeAuth) Profile(context.Context) (model.Session, error) {
	if f.stored == nil {
		return model.Session{}, common.ErrUnauthorized
	}
	s := *f.stored
	s.FirstName = "Alice"
	return s, nil
}

func (f *fakeAuth) Refresh(context.Context) (model.Session, error) {
	if f.refreshErr != nil {
		f.stored = nil
		return model.Session{}, f.refreshErr
	}
	s := *f.stored
	s.Access = "access-2"
	return s, nil
}

func (f *fakeAuth) Logout(context.Context) error {
	f.stored = nil
	return f.logoutErr
}

func (f *fakeAuth) Current(context.Context) (*model.Session, error) {
	return f.stored, nil
}

func recordPhases(a *store.Auth) *[]store.AuthPhase {
	var phases []store.AuthPhase
	a.Subscribe(func(s store.AuthState) { phases = append(phases, s.Phase) })
	return &phases
}

func TestAuth_Restore(t *testing.T) {
	ctx := context.Background()

	anonymous := store.NewAuth(&fakeAuth{})
	anonymous.Restore(ctx)
	assert.Equal(t, store.PhaseAnonymous, anonymous.Snapshot().Phase)
	assert.Nil(t, anonymous.Snapshot().Session)

	restored := store.NewAuth(&fakeAuth{stored: &model.Session{Username: "alice", Access: "a"}})
	restored.Restore(ctx)
	require.NotNil(t, restored.Snapshot().Session)
	assert.Equal(t, store.PhaseAuthenticated, restored.Snapshot().Phase)
}

func TestAuth_LoginPhases(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		auth := store.NewAuth(&fakeAuth{})
		phases := recordPhases(auth)

		session, err := auth.Login(ctx, model.Credentials{Username: "alice", Password: "secret123"})
		require.NoError(t, err)
		assert.Equal(t, "alice", session.Username)
		assert.Equal(t, []store.AuthPhase{store.PhaseAuthenticating, store.PhaseAuthenticated}, *phases)
	})

	t.Run("failure", func(t *testing.T) {
		auth := store.NewAuth(&fakeAuth{loginErr: common.NewUserError("authorization required", common.ErrUnauthorized)})
		phases := recordPhases(auth)

		_, err := auth.Login(ctx, model.Credentials{Username: "alice", Password: "bad"})
		require.Error(t, err)
		assert.Equal(t, []store.AuthPhase{store.PhaseAuthenticating, store.PhaseAnonymous}, *phases)
		assert.Equal(t, "authorization required", auth.Snapshot().Error)
	})
}

func TestAuth_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("renews the token", func(t *testing.T) {
		gw := &fakeAuth{}
		auth := store.NewAuth(gw)
		_, err := auth.Login(ctx, model.Credentials{Username: "alice", Password: "secret123"})
		require.NoError(t, err)
		phases := recordPhases(auth)

		require.NoError(t, auth.Refresh(ctx))
		assert.Equal(t, []store.AuthPhase{store.PhaseRefreshing, store.PhaseAuthenticated}, *phases)
		assert.Equal(t, "access-2", auth.Snapshot().Session.Access)
	})

	t.Run("failure signs out", func(t *testing.T) {
		gw := &fakeAuth{refreshErr: errors.New("token is invalid or expired")}
		auth := store.NewAuth(gw)
		_, err := auth.Login(ctx, model.Credentials{Username: "alice", Password: "secret123"})
		require.NoError(t, err)

		require.Error(t, auth.Refresh(ctx))
		state := auth.Snapshot()
		assert.Equal(t, store.PhaseAnonymous, state.Phase)
		assert.Nil(t, state.Session)
	})
}

func TestAuth_LoadProfileAndLogout(t *testing.T) {
	ctx := context.Background()
	gw := &fakeAuth{}
	auth := store.NewAuth(gw)

	_, err := auth.LoadProfile(ctx)
	require.Error(t, err)
	assert.Equal(t, store.PhaseAnonymous, auth.Snapshot().Phase)
	assert.NotEmpty(t, auth.Snapshot().Error)

	_, err = auth.Register(ctx, model.Registration{Username: "bob", Password: "password1"})
	require.NoError(t, err)
	profile, err := auth.LoadProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Alice", profile.FirstName)
	assert.Equal(t, "Alice", auth.Snapshot().Session.FirstName)

	gw.logoutErr = errors.New("network down")
	assert.Error(t, auth.Logout(ctx))
	assert.Equal(t, store.PhaseAnonymous, auth.Snapshot().Phase)
	assert.Nil(t, auth.Snapshot().Session)
}
