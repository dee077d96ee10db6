// Package localgateway implements auth.Gateway in-process, over the account
// service and a token store on this machine.
package localgateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/kitdeneme/kit/internal/accounts"
	"github.com/kitdeneme/kit/internal/auth"
	"github.com/kitdeneme/kit/internal/log"
)

// Gateway is an auth.Gateway over an accounts.Service.
type Gateway struct {
	svc    *accounts.Service
	tokens auth.TokenStore
}

var _ auth.Gateway = (*Gateway)(nil)

// New creates a Gateway.
func New(svc *accounts.Service, tokens auth.TokenStore) *Gateway {
	return &Gateway{svc: svc, tokens: tokens}
}

// Register implements auth.Gateway.
func (g *Gateway) Register(ctx context.Context, creds auth.Credentials) error {
	_, err := g.svc.Register(ctx, creds)
	return err
}

// SignIn implements auth.Gateway. A previous session on this device is
// revoked first.
func (g *Gateway) SignIn(ctx context.Context, identifier, password string) (*auth.User, error) {
	u, token, err := g.svc.Authenticate(ctx, identifier, password)
	if err != nil {
		return nil, err
	}

	if old, err := g.tokens.Load(); err == nil && old != "" {
		if err := g.svc.Revoke(ctx, old); err != nil {
			log.ErrorErr(log.CatAuth, "Revoking previous session failed", err)
		}
	}

	if err := g.tokens.Save(token); err != nil {
		_ = g.svc.Revoke(ctx, token)
		return nil, fmt.Errorf("saving session token: %w", err)
	}
	return &u, nil
}

// SignOut implements auth.Gateway. The local token is cleared even when the
// revoke fails; the revoke error is still returned.
func (g *Gateway) SignOut(ctx context.Context) error {
	token, err := g.tokens.Load()
	if err != nil {
		return err
	}

	revokeErr := g.svc.Revoke(ctx, token)
	if err := g.tokens.Clear(); err != nil {
		return errors.Join(revokeErr, err)
	}
	return revokeErr
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

	u, err := g.svc.Resolve(ctx, token)
	if errors.Is(err, auth.ErrNotSignedIn) {
		_ = g.tokens.Clear()
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ChangePassword implements auth.Gateway.
func (g *Gateway) ChangePassword(ctx context.Context, current, next string) error {
	token, err := g.tokens.Load()
	if err != nil {
		return err
	}
	return g.svc.ChangePassword(ctx, token, current, next)
}
