// Package api is the HTTP transport for the wallet REST API. It attaches
// the bearer token, refreshes it once on 401, and classifies failures into
// the common error taxonomy.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Veraticus/wallet/internal/common"
	"github.com/Veraticus/wallet/internal/model"
)

// DefaultTimeout bounds every request.
const DefaultTimeout = 10 * time.Second

// Endpoint paths.
const (
	PathAccounts         = "/api/accounts/"
	PathAccountDefaults  = "/api/accounts/create-defaults/"
	PathCategories       = "/api/categories/"
	PathCategoryDefaults = "/api/categories/create-defaults/"
	PathTransactions     = "/api/transactions/"
	PathTransfer         = "/api/transactions/transfer/"
	PathStatistics       = "/api/transactions/statistics/"
	PathPeriodSummaries  = "/api/period-summaries/"
	PathDashboard        = "/api/dashboard/"
	PathToken            = "/api/auth/token/"
	PathTokenRefresh     = "/api/auth/token/refresh/"
	PathRegister         = "/api/auth/register/"
	PathProfile          = "/api/auth/profile/"
	PathLogout           = "/api/auth/logout/"
	PathHealthCheck      = "/api/public/health-check/"
)

// SessionStore persists the token pair between requests.
type SessionStore interface {
	Session(ctx context.Context) (*model.Session, error)
	SaveSession(ctx context.Context, session model.Session) error
	ClearSession(ctx context.Context) error
}

// Client talks to the REST API.
type Client struct {
	httpClient  *http.Client
	sessions    SessionStore
	refresh     func(ctx context.Context) error
	onSignedOut func()
	baseURL     string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout replaces the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRefresher replaces the token refresh run on a 401. The auth store
// passes its own Refresh so the login phase follows the client.
func WithRefresher(fn func(ctx context.Context) error) Option {
	return func(c *Client) { c.refresh = fn }
}

// WithSignedOutHandler registers fn to run when a failed refresh clears
// the session. The CLI uses it to point the user at `wallet login`.
func WithSignedOutHandler(fn func()) Option {
	return func(c *Client) { c.onSignedOut = fn }
}

// NewClient creates a client for the API at baseURL.
func NewClient(baseURL string, sessions SessionStore, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		sessions:   sessions,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	c.refresh = func(ctx context.Context) error {
		_, err := c.Refresh(ctx)
		return err
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string { return c.baseURL }

// Get issues a GET and decodes the response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

// Put issues a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, nil, body, out)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// Do sends one request. A 401 on an authenticated request triggers one
// token refresh and one replay. Concurrent callers refresh independently.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	resp, authed, err := c.send(ctx, method, path, query, payload)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized && authed && !isAuthPath(path) {
		drain(resp)
		if refreshErr := c.refresh(ctx); refreshErr != nil {
			slog.Warn("Token refresh failed, signing out", "error", refreshErr)
			c.signOut(ctx)
			return &common.ServerError{Status: http.StatusUnauthorized, Message: "session expired"}
		}
		if resp, _, err = c.send(ctx, method, path, query, payload); err != nil {
			return err
		}
	}
	defer resp.Body.Close()

	return decodeResponse(resp, out)
}

// Refresh exchanges the stored refresh token for a new access token and
// saves the updated session.
func (c *Client) Refresh(ctx context.Context) (string, error) {
	session, err := c.currentSession(ctx)
	if err != nil {
		return "", err
	}
	if session == nil || session.Refresh == "" {
		return "", common.ErrNoRefreshToken
	}

	payload, err := json.Marshal(map[string]string{"refresh": session.Refresh})
	if err != nil {
		return "", fmt.Errorf("failed to encode refresh request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, PathTokenRefresh, nil, payload)
	if err != nil {
		return "", err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", classifyTransport(PathTokenRefresh, err)
	}
	defer resp.Body.Close()

	var tokens struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	if err := decodeResponse(resp, &tokens); err != nil {
		return "", err
	}
	if tokens.Access == "" {
		return "", fmt.Errorf("refresh response carried no access token: %w", common.ErrUnauthorized)
	}

	session.Access = tokens.Access
	if tokens.Refresh != "" {
		session.Refresh = tokens.Refresh
	}
	if err := c.sessions.SaveSession(ctx, *session); err != nil {
		slog.Warn("Failed to persist refreshed session", "error", err)
	}
	slog.Debug("Refreshed access token")
	return tokens.Access, nil
}

// CheckConnection reports whether the API answered at all. Any HTTP
// status counts as reachable.
func (c *Client) CheckConnection(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, PathHealthCheck, nil, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransport(PathHealthCheck, err)
	}
	drain(resp)
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte) (*http.Response, bool, error) {
	req, err := c.newRequest(ctx, method, path, query, payload)
	if err != nil {
		return nil, false, err
	}

	authed := false
	session, err := c.currentSession(ctx)
	if err != nil {
		slog.Warn("Failed to read session", "error", err)
	}
	if session.Authenticated() {
		session.Token().SetAuthHeader(req)
		authed = true
	}

	slog.Debug("API request", "method", method, "path", path, "query", query.Encode())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, authed, classifyTransport(method+" "+path, err)
	}
	return resp, authed, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, payload []byte) (*http.Request, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) currentSession(ctx context.Context) (*model.Session, error) {
	if c.sessions == nil {
		return nil, nil
	}
	return c.sessions.Session(ctx)
}

func (c *Client) signOut(ctx context.Context) {
	if c.sessions != nil {
		if err := c.sessions.ClearSession(ctx); err != nil {
			slog.Warn("Failed to clear session", "error", err)
		}
	}
	if c.onSignedOut != nil {
		c.onSignedOut()
	}
}

func isAuthPath(path string) bool {
	return path == PathToken || path == PathTokenRefresh || path == PathRegister
}

func classifyTransport(op string, err error) error {
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return &common.NetworkError{Op: op, Err: err}
}

func decodeResponse(resp *http.Response, out any) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &common.NetworkError{Op: "read response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &common.ServerError{Status: resp.StatusCode, Message: serverMessage(data)}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// serverMessage pulls detail, error or message out of an error body.
func serverMessage(data []byte) string {
	var body map[string]any
	if err := json.Unmarshal(data, &body); err == nil {
		for _, key := range []string{"detail", "error", "message"} {
			if s, ok := body[key].(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

// ResourcePath returns the detail path of id under a collection path.
func ResourcePath(collection string, id model.ID) string {
	return collection + url.PathEscape(id.String()) + "/"
}
