package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kitdeneme/kit/internal/accounts"
	"github.com/kitdeneme/kit/internal/auth"
	"github.com/kitdeneme/kit/internal/config"
	"github.com/kitdeneme/kit/internal/infrastructure/localgateway"
	"github.com/kitdeneme/kit/internal/infrastructure/sqlite"
	"github.com/kitdeneme/kit/internal/infrastructure/tokenfile"
	"github.com/kitdeneme/kit/internal/legal"
	"github.com/kitdeneme/kit/internal/mode"
	"github.com/kitdeneme/kit/internal/mode/shared"
	"github.com/kitdeneme/kit/internal/registration"
	"github.com/kitdeneme/kit/internal/session"
	"github.com/kitdeneme/kit/internal/validator"
)

// Now is the instant FixedClock-based services report.
var Now = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

// Services builds screen services over gw with default rules, no session
// caching and a clock fixed at Now. Pending sign-outs and submissions are
// awaited when the test ends.
func Services(t *testing.T, gw auth.Gateway) mode.Services {
	t.Helper()
	cfg := config.Defaults()
	rules := validator.DefaultRules()

	sess := session.NewController(gw, session.WithCacheTTL(0), session.WithRules(rules))
	wf := registration.New(gw, registration.WithRules(rules))
	t.Cleanup(func() {
		sess.Wait()
		wf.Wait()
	})

	return mode.Services{
		Workflow: wf,
		Session:  sess,
		Legal:    legal.NewResolver(cfg.Legal.TermsURL, cfg.Legal.PrivacyURL),
		Rules:    rules,
		Config:   &cfg,
		Clock:    shared.FixedClock(Now),
	}
}

// Stack is a complete local backend: SQLite database, account service,
// token file and gateway.
type Stack struct {
	DB      *sqlite.DB
	Service *accounts.Service
	Tokens  *tokenfile.Store
	Gateway *localgateway.Gateway
}

// NewStack creates a Stack in a temp dir.
func NewStack(t *testing.T) *Stack {
	t.Helper()
	db := NewTestDB(t)
	svc := accounts.NewService(db.Accounts(), accounts.WithBcryptCost(bcrypt.MinCost))
	tokens := tokenfile.New(filepath.Join(filepath.Dir(db.Path()), "session"))
	return &Stack{
		DB:      db,
		Service: svc,
		Tokens:  tokens,
		Gateway: localgateway.New(svc, tokens),
	}
}

// Accounts starts a Builder over the stack's repository.
func (s *Stack) Accounts(t *testing.T) *Builder {
	t.Helper()
	return NewBuilder(t, s.DB.Accounts())
}

// SignIn signs username in with DefaultPassword, writing the token file.
func (s *Stack) SignIn(t *testing.T, username string) *auth.User {
	t.Helper()
	u, err := s.Gateway.SignIn(context.Background(), username, DefaultPassword)
	require.NoError(t, err)
	return u
}

// Services builds screen services over the stack's gateway.
func (s *Stack) Services(t *testing.T) mode.Services {
	t.Helper()
	return Services(t, s.Gateway)
}
