package ratelimit

import (
	"context"
	"strings"

	"github.com/kitdeneme/kit/internal/auth"
)

// Middleware throttles Register by username and SignIn by identifier. A
// throttled call returns auth.ErrThrottled without reaching next. Other
// operations pass through.
func Middleware(l *Limiter) auth.Middleware {
	return func(next auth.Gateway) auth.Gateway {
		return &throttled{Gateway: next, limiter: l}
	}
}

type throttled struct {
	auth.Gateway
	limiter *Limiter
}

func (t *throttled) Register(ctx context.Context, creds auth.Credentials) error {
	if !t.limiter.Allow("register:" + strings.ToLower(creds.Username)) {
		return auth.ErrThrottled
	}
	return t.Gateway.Register(ctx, creds)
}

func (t *throttled) SignIn(ctx context.Context, identifier, password string) (*auth.User, error) {
	if !t.limiter.Allow("signin:" + strings.ToLower(identifier)) {
		return nil, auth.ErrThrottled
	}
	return t.Gateway.SignIn(ctx, identifier, password)
}
