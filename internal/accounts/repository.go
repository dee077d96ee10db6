package accounts

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Repository lookups that match nothing.
var ErrNotFound = errors.New("not found")

// Account is a stored user row.
type Account struct {
	ID            string
	Username      string
	Email         string
	PasswordHash  string
	EmailVerified bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Session is a signed-in device.
type Session struct {
	Token     string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Verification is a pending email verification.
type Verification struct {
	Token     string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Repository persists accounts, sessions and verification tokens.
//
// CreateAccount returns auth.ErrDuplicateUsername or auth.ErrDuplicateEmail
// when a unique constraint is hit; when both clash it reports the username.
// Username and email lookups are case-insensitive.
type Repository interface {
	CreateAccount(ctx context.Context, a Account) error
	AccountByID(ctx context.Context, id string) (Account, error)
	AccountByUsername(ctx context.Context, username string) (Account, error)
	AccountByEmail(ctx context.Context, email string) (Account, error)
	UpdatePasswordHash(ctx context.Context, id, hash string, at time.Time) error
	MarkEmailVerified(ctx context.Context, id string, at time.Time) error

	CreateSession(ctx context.Context, s Session) error
	SessionByToken(ctx context.Context, token string) (Session, error)
	DeleteSession(ctx context.Context, token string) error
	// DeleteSessionsExcept removes every session of userID other than keep.
	DeleteSessionsExcept(ctx context.Context, userID, keep string) error

	CreateVerification(ctx context.Context, v Verification) error
	// ConsumeVerification deletes and returns the verification with token.
	ConsumeVerification(ctx context.Context, token string) (Verification, error)
}
