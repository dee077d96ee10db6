// Package accounts is the account backend: it creates accounts, checks
// passwords, issues session tokens and verifies email addresses. Both the
// local gateway and the HTTP server are thin layers over Service.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/kitdeneme/kit/internal/auth"
	"github.com/kitdeneme/kit/internal/log"
)

const (
	DefaultSessionTTL      = 30 * 24 * time.Hour
	DefaultVerificationTTL = 48 * time.Hour
)

// ErrVerificationInvalid is returned for unknown or expired verification tokens.
var ErrVerificationInvalid = errors.New("verification link is invalid or expired")

// Service implements account operations over a Repository.
type Service struct {
	repo            Repository
	mailer          Mailer
	cost            int
	sessionTTL      time.Duration
	verificationTTL time.Duration
	now             func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithBcryptCost sets the hashing cost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(s *Service) { s.cost = cost }
}

// WithMailer replaces the default LogMailer.
func WithMailer(m Mailer) Option {
	return func(s *Service) { s.mailer = m }
}

// WithSessionTTL sets how long a session token stays valid.
func WithSessionTTL(d time.Duration) Option {
	return func(s *Service) { s.sessionTTL = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service.
func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:            repo,
		mailer:          LogMailer{},
		cost:            bcrypt.DefaultCost,
		sessionTTL:      DefaultSessionTTL,
		verificationTTL: DefaultVerificationTTL,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an account and sends a verification mail. A mail failure
// is logged; the account still exists.
func (s *Service) Register(ctx context.Context, creds auth.Credentials) (auth.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), s.cost)
	if err != nil {
		return auth.User{}, fmt.Errorf("hashing password: %w", err)
	}

	now := s.now().UTC()
	acct := Account{
		ID:           uuid.NewString(),
		Username:     creds.Username,
		Email:        normalizeEmail(creds.Email),
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.CreateAccount(ctx, acct); err != nil {
		return auth.User{}, err
	}
	log.Info(log.CatAuth, "Account created", "id", acct.ID, "username", acct.Username)

	v := Verification{
		Token:     uuid.NewString(),
		UserID:    acct.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.verificationTTL),
	}
	if err := s.repo.CreateVerification(ctx, v); err != nil {
		log.ErrorErr(log.CatAuth, "Creating verification token failed", err, "id", acct.ID)
		return toUser(acct), nil
	}
	if err := s.mailer.SendVerification(ctx, acct.Email, acct.Username, v.Token); err != nil {
		log.ErrorErr(log.CatAuth, "Sending verification mail failed", err, "id", acct.ID)
	}

	return toUser(acct), nil
}

// Authenticate checks a username-or-email and password and opens a session.
func (s *Service) Authenticate(ctx context.Context, identifier, password string) (auth.User, string, error) {
	acct, err := s.lookup(ctx, identifier)
	if errors.Is(err, ErrNotFound) {
		return auth.User{}, "", auth.ErrInvalidCredentials
	}
	if err != nil {
		return auth.User{}, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return auth.User{}, "", auth.ErrInvalidCredentials
	}

	now := s.now().UTC()
	sess := Session{
		Token:     uuid.NewString(),
		UserID:    acct.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.repo.CreateSession(ctx, sess); err != nil {
		return auth.User{}, "", fmt.Errorf("creating session: %w", err)
	}

	return toUser(acct), sess.Token, nil
}

// Resolve returns the user owning token. Unknown and expired tokens give
// auth.ErrNotSignedIn; expired ones are removed.
func (s *Service) Resolve(ctx context.Context, token string) (auth.User, error) {
	acct, _, err := s.session(ctx, token)
	if err != nil {
		return auth.User{}, err
	}
	return toUser(acct), nil
}

// Revoke ends the session identified by token. Unknown tokens are not an error.
func (s *Service) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.repo.DeleteSession(ctx, token); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("revoking session: %w", err)
	}
	return nil
}

// ChangePassword replaces the password of the session's user after checking
// current. Other sessions of the user are ended.
func (s *Service) ChangePassword(ctx context.Context, token, current, next string) error {
	acct, sess, err := s.session(ctx, token)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(current)); err != nil {
		return auth.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), s.cost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	if err := s.repo.UpdatePasswordHash(ctx, acct.ID, string(hash), s.now().UTC()); err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	if err := s.repo.DeleteSessionsExcept(ctx, acct.ID, sess.Token); err != nil {
		log.ErrorErr(log.CatAuth, "Ending other sessions failed", err, "id", acct.ID)
	}
	return nil
}

// VerifyEmail marks the address behind a verification token as verified.
func (s *Service) VerifyEmail(ctx context.Context, token string) (auth.User, error) {
	v, err := s.repo.ConsumeVerification(ctx, token)
	if errors.Is(err, ErrNotFound) {
		return auth.User{}, ErrVerificationInvalid
	}
	if err != nil {
		return auth.User{}, err
	}
	if !s.now().Before(v.ExpiresAt) {
		return auth.User{}, ErrVerificationInvalid
	}

	if err := s.repo.MarkEmailVerified(ctx, v.UserID, s.now().UTC()); err != nil {
		return auth.User{}, fmt.Errorf("marking email verified: %w", err)
	}
	acct, err := s.repo.AccountByID(ctx, v.UserID)
	if err != nil {
		return auth.User{}, err
	}
	log.Info(log.CatAuth, "Email verified", "id", acct.ID)
	return toUser(acct), nil
}

func (s *Service) lookup(ctx context.Context, identifier string) (Account, error) {
	if strings.Contains(identifier, "@") {
		return s.repo.AccountByEmail(ctx, normalizeEmail(identifier))
	}
	return s.repo.AccountByUsername(ctx, identifier)
}

func (s *Service) session(ctx context.Context, token string) (Account, Session, error) {
	if token == "" {
		return Account{}, Session{}, auth.ErrNotSignedIn
	}

	sess, err := s.repo.SessionByToken(ctx, token)
	if errors.Is(err, ErrNotFound) {
		return Account{}, Session{}, auth.ErrNotSignedIn
	}
	if err != nil {
		return Account{}, Session{}, err
	}

	if !s.now().Before(sess.ExpiresAt) {
		_ = s.repo.DeleteSession(ctx, token)
		return Account{}, Session{}, auth.ErrNotSignedIn
	}

	acct, err := s.repo.AccountByID(ctx, sess.UserID)
	if errors.Is(err, ErrNotFound) {
		return Account{}, Session{}, auth.ErrNotSignedIn
	}
	if err != nil {
		return Account{}, Session{}, err
	}
	return acct, sess, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUser(a Account) auth.User {
	return auth.User{
		ID:            a.ID,
		Username:      a.Username,
		Email:         a.Email,
		EmailVerified: a.EmailVerified,
		CreatedAt:     a.CreatedAt,
	}
}
