package store

import (
	"context"
	"log/slog"

	"github.com/Veraticus/wallet/internal/common"
	"github.com/Veraticus/wallet/internal/model"
)

// AuthPhase is the login state machine.
type AuthPhase string

// Login phases.
const (
	PhaseAnonymous      AuthPhase = "anonymous"
	PhaseAuthenticating AuthPhase = "authenticating"
	PhaseAuthenticated  AuthPhase = "authenticated"
	PhaseRefreshing     AuthPhase = "refreshing"
)

// AuthGateway is what the auth store needs from its gateway.
type AuthGateway interface {
	Login(ctx context.Context, creds model.Credentials) (model.Session, error)
	Register(ctx context.Context, reg model.Registration) (model.Session, error)
	Profile(ctx context.Context) (model.Session, error)
	Refresh(ctx context.Context) (model.Session, error)
	Logout(ctx context.Context) error
	Current(ctx context.Context) (*model.Session, error)
}

// AuthState is the current user.
type AuthState struct {
	Session *model.Session
	Phase   AuthPhase
	Error   string
}

// Auth is the auth store.
type Auth struct {
	*Container[AuthState]
	gw AuthGateway
}

// NewAuth creates the auth store in the anonymous phase.
func NewAuth(gw AuthGateway) *Auth {
	return &Auth{
		Container: NewContainer(AuthState{Phase: PhaseAnonymous}),
		gw:        gw,
	}
}

func signedIn(session model.Session) func(AuthState) AuthState {
	return func(AuthState) AuthState {
		return AuthState{Session: &session, Phase: PhaseAuthenticated}
	}
}

func signedOut(err error) func(AuthState) AuthState {
	return func(AuthState) AuthState {
		return AuthState{Phase: PhaseAnonymous, Error: common.Message(err)}
	}
}

func entering(phase AuthPhase) func(AuthState) AuthState {
	return func(s AuthState) AuthState {
		s.Phase = phase
		s.Error = ""
		return s
	}
}

// Restore loads the stored session, if any.
func (a *Auth) Restore(ctx context.Context) {
	session, err := a.gw.Current(ctx)
	if err != nil {
		slog.Warn("Failed to read stored session", "error", err)
	}
	if session.Authenticated() {
		a.Apply(signedIn(*session))
		return
	}
	a.Apply(signedOut(nil))
}

// Login authenticates with credentials.
func (a *Auth) Login(ctx context.Context, creds model.Credentials) (model.Session, error) {
	a.Apply(entering(PhaseAuthenticating))
	session, err := a.gw.Login(ctx, creds)
	if err != nil {
		a.Apply(signedOut(err))
		return session, err
	}
	a.Apply(signedIn(session))
	return session, nil
}

// Register creates an account and logs in.
func (a *Auth) Register(ctx context.Context, reg model.Registration) (model.Session, error) {
	a.Apply(entering(PhaseAuthenticating))
	session, err := a.gw.Register(ctx, reg)
	if err != nil {
		a.Apply(signedOut(err))
		return session, err
	}
	a.Apply(signedIn(session))
	return session, nil
}

// Refresh renews the access token. Failure signs the user out.
func (a *Auth) Refresh(ctx context.Context) error {
	a.Apply(entering(PhaseRefreshing))
	session, err := a.gw.Refresh(ctx)
	if err != nil {
		a.Apply(signedOut(err))
		return err
	}
	a.Apply(signedIn(session))
	return nil
}

// LoadProfile refreshes the profile fields of the current session.
func (a *Auth) LoadProfile(ctx context.Context) (model.Session, error) {
	session, err := a.gw.Profile(ctx)
	if err != nil {
		a.Apply(func(s AuthState) AuthState {
			s.Error = common.Message(err)
			return s
		})
		return session, err
	}
	a.Apply(signedIn(session))
	return session, nil
}

// Logout signs out. The local session is dropped even if the API fails.
func (a *Auth) Logout(ctx context.Context) error {
	err := a.gw.Logout(ctx)
	a.Apply(signedOut(nil))
	return err
}
