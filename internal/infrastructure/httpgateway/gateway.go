// Package httpgateway implements auth.Gateway against a remote kit auth
// server.
package httpgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kitdeneme/kit/internal/auth"
	"github.com/kitdeneme/kit/internal/authapi"
	"github.com/kitdeneme/kit/internal/log"
)

// DefaultTimeout bounds each request when no client is supplied.
const DefaultTimeout = 10 * time.Second

// StatusError is returned for error responses that don't map to an auth
// sentinel.
type StatusError struct {
	Status  int
	Code    string
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("auth server: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("auth server: %d %s", e.Status, http.StatusText(e.Status))
}

// Gateway is an auth.Gateway speaking JSON over HTTP.
type Gateway struct {
	baseURL string
	client  *http.Client
	tokens  auth.TokenStore
}

var _ auth.Gateway = (*Gateway)(nil)

// Option configures a Gateway.
type Option func(*Gateway)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) { g.client = c }
}

// WithTimeout sets the default client's timeout.
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.client = &http.Client{Timeout: d}
		}
	}
}

// New creates a Gateway for the server at baseURL.
func New(baseURL string, tokens auth.TokenStore, opts ...Option) *Gateway {
	g := &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: DefaultTimeout},
		tokens:  tokens,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Register implements auth.Gateway.
func (g *Gateway) Register(ctx context.Context, creds auth.Credentials) error {
	return g.do(ctx, http.MethodPost, authapi.PathAccounts, "", authapi.RegisterRequest{
		Username: creds.Username,
		Email:    creds.Email,
		Password: creds.Password,
	}, nil)
}

// SignIn implements auth.Gateway.
func (g *Gateway) SignIn(ctx context.Context, identifier, password string) (*auth.User, error) {
	var resp authapi.SessionResponse
	err := g.do(ctx, http.MethodPost, authapi.PathSessions, "", authapi.SignInRequest{
		Identifier: identifier,
		Password:   password,
	}, &resp)
	if err != nil {
		return nil, err
	}

	if old, err := g.tokens.Load(); err == nil && old != "" && old != resp.Token {
		if err := g.do(ctx, http.MethodDelete, authapi.PathCurrentSession, old, nil, nil); err != nil {
			log.ErrorErr(log.CatAuth, "Revoking previous session failed", err)
		}
	}

	if err := g.tokens.Save(resp.Token); err != nil {
		return nil, fmt.Errorf("saving session token: %w", err)
	}
	return resp.User.ToUser(), nil
}

// SignOut implements auth.Gateway. The local token is cleared whatever the
// server says.
func (g *Gateway) SignOut(ctx context.Context) error {
	token, err := g.tokens.Load()
	if err != nil {
		return err
	}

	var remoteErr error
	if token != "" {
		remoteErr = g.do(ctx, http.MethodDelete, authapi.PathCurrentSession, token, nil, nil)
		if errors.Is(remoteErr, auth.ErrNotSignedIn) {
			remoteErr = nil
		}
	}
	if err := g.tokens.Clear(); err != nil {
		return errors.Join(remoteErr, err)
	}
	return remoteErr
}

// CurrentUser implements auth.Gateway.
func (g *Gateway) CurrentUser(ctx context.Context) (*auth.User, error) {
	token, err := g.tokens.Load()
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, auth.ErrNotSignedIn
	}

	var u authapi.User
	err = g.do(ctx, http.MethodGet, authapi.PathCurrentSession, token, nil, &u)
	if errors.Is(err, auth.ErrNotSignedIn) {
		_ = g.tokens.Clear()
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	return u.ToUser(), nil
}

// ChangePassword implements auth.Gateway.
func (g *Gateway) ChangePassword(ctx context.Context, current, next string) error {
	token, err := g.tokens.Load()
	if err != nil {
		return err
	}
	if token == "" {
		return auth.ErrNotSignedIn
	}
	return g.do(ctx, http.MethodPut, authapi.PathCurrentPassword, token, authapi.ChangePasswordRequest{
		Current: current,
		Next:    next,
	}, nil)
}

func (g *Gateway) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	log.Debug(log.CatHTTP, "Auth server response",
		"method", method, "path", path, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var e authapi.ErrorResponse
	_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&e)

	if sentinel := authapi.ErrorFor(e.Code); sentinel != nil {
		return sentinel
	}
	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return auth.ErrThrottled
	case http.StatusUnauthorized:
		return auth.ErrNotSignedIn
	}
	return &StatusError{Status: resp.StatusCode, Code: e.Code, Message: e.Message}
}
