// Package auth defines the contract between kit and whatever issues and
// checks credentials. The rest of the code depends only on Gateway; concrete
// backends live under internal/infrastructure.
//
// This package has no infrastructure dependencies.
package auth

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrDuplicateUsername is returned when the username is already taken.
	ErrDuplicateUsername = errors.New("username already registered")
	// ErrDuplicateEmail is returned when the email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidCredentials is returned when sign-in or a password check fails.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotSignedIn is returned when an operation needs a session and there is none.
	ErrNotSignedIn = errors.New("not signed in")
	// ErrThrottled is returned when too many attempts were made in a short window.
	ErrThrottled = errors.New("too many attempts, try again later")
)

// Credentials is what a new account is created from.
type Credentials struct {
	Username string
	Email    string
	Password string
}

// User is an account as seen by the client.
type User struct {
	ID            string
	Username      string
	Email         string
	EmailVerified bool
	CreatedAt     time.Time
}

// Gateway is the authentication backend. Calls may block on network or disk;
// implementations must be safe for concurrent use.
type Gateway interface {
	// Register creates an account. It does not sign the new user in.
	Register(ctx context.Context, creds Credentials) error

	// SignIn authenticates by username or email and starts a session.
	SignIn(ctx context.Context, identifier, password string) (*User, error)

	// SignOut ends the current session.
	SignOut(ctx context.Context) error

	// CurrentUser returns the signed-in user or ErrNotSignedIn.
	CurrentUser(ctx context.Context) (*User, error)

	// ChangePassword replaces the signed-in user's password.
	ChangePassword(ctx context.Context, current, next string) error
}

// TokenStore keeps the session token between process runs.
type TokenStore interface {
	// Load returns the stored token, or "" when there is none.
	Load() (string, error)
	Save(token string) error
	Clear() error
}
