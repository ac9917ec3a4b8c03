package gateway

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/wallet/internal/api"
	"github.com/Veraticus/wallet/internal/cache"
	"github.com/Veraticus/wallet/internal/common"
	"github.com/Veraticus/wallet/internal/model"
)

// Auth handles login, registration, profile and logout. The session record
// in the cache is the only record of who is logged in.
type Auth struct {
	client *api.Client
	store  *cache.Store
}

// NewAuth builds the auth gateway.
func NewAuth(client *api.Client, store *cache.Store) *Auth {
	return &Auth{client: client, store: store}
}

type tokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Login exchanges credentials for tokens, loads the profile and stores
// the session.
func (g *Auth) Login(ctx context.Context, creds model.Credentials) (model.Session, error) {
	if err := creds.Validate(); err != nil {
		return model.Session{}, err
	}

	var tokens tokenPair
	if err := g.client.Post(ctx, api.PathToken, creds, &tokens); err != nil {
		return model.Session{}, fmt.Errorf("login failed: %w", err)
	}
	if tokens.Access == "" {
		return model.Session{}, fmt.Errorf("login failed: %w", common.ErrUnauthorized)
	}

	session := model.Session{Username: creds.Username, Access: tokens.Access, Refresh: tokens.Refresh}
	g.persist(ctx, session)

	profile, err := g.Profile(ctx)
	if err != nil {
		slog.Warn("Logged in but failed to load profile", "error", err)
		return session, nil
	}
	return profile, nil
}

// Register creates the user and logs in with the same credentials.
func (g *Auth) Register(ctx context.Context, reg model.Registration) (model.Session, error) {
	if err := reg.Validate(); err != nil {
		return model.Session{}, err
	}
	if err := g.client.Post(ctx, api.PathRegister, reg, nil); err != nil {
		return model.Session{}, fmt.Errorf("registration failed: %w", err)
	}
	return g.Login(ctx, model.Credentials{Username: reg.Username, Password: reg.Password})
}

// Profile fetches the profile and merges it with the stored tokens.
func (g *Auth) Profile(ctx context.Context) (model.Session, error) {
	current, err := g.Current(ctx)
	if err != nil {
		return model.Session{}, err
	}
	if !current.Authenticated() {
		return model.Session{}, common.NewUserError("not logged in", common.ErrUnauthorized)
	}

	var profile model.Session
	if err := g.client.Get(ctx, api.PathProfile, nil, &profile); err != nil {
		return model.Session{}, err
	}

	// The request may have refreshed the tokens; merge with the latest copy.
	if latest, err := g.Current(ctx); err == nil && latest != nil {
		current = latest
	}
	merged := current.WithProfile(profile)
	g.persist(ctx, merged)
	return merged, nil
}

// Refresh renews the access token.
func (g *Auth) Refresh(ctx context.Context) (model.Session, error) {
	if _, err := g.client.Refresh(ctx); err != nil {
		return model.Session{}, err
	}
	current, err := g.Current(ctx)
	if err != nil || current == nil {
		return model.Session{}, fmt.Errorf("session missing after refresh: %w", common.ErrUnauthorized)
	}
	return *current, nil
}

// Logout tells the API and removes the stored session. The session is
// removed even when the API call fails.
func (g *Auth) Logout(ctx context.Context) error {
	current, _ := g.Current(ctx)
	if current.Authenticated() {
		body := map[string]string{"refresh": current.Refresh}
		if err := g.client.Post(ctx, api.PathLogout, body, nil); err != nil {
			slog.Debug("Remote logout failed", "error", err)
		}
	}
	return g.store.ClearSession(ctx)
}

// Current returns the stored session, or nil.
func (g *Auth) Current(ctx context.Context) (*model.Session, error) {
	return g.store.Session(ctx)
}

func (g *Auth) persist(ctx context.Context, session model.Session) {
	if err := g.store.SaveSession(ctx, session); err != nil {
		slog.Warn("Failed to store session", "error", err)
	}
}
