// Package authapi holds the JSON shapes and error codes shared by the kit
// auth server and its HTTP client.
package authapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/kitdeneme/kit/internal/accounts"
	"github.com/kitdeneme/kit/internal/auth"
)

// Routes.
const (
	PathAccounts        = "/v1/accounts"
	PathSessions        = "/v1/sessions"
	PathCurrentSession  = "/v1/sessions/current"
	PathCurrentPassword = "/v1/accounts/current/password"
	PathVerifications   = "/v1/verifications"
	PathHealth          = "/healthz"
)

// Error codes carried in ErrorResponse.Code.
const (
	CodeDuplicateUsername   = "duplicate_username"
	CodeDuplicateEmail      = "duplicate_email"
	CodeInvalidCredentials  = "invalid_credentials"
	CodeNotSignedIn         = "not_signed_in"
	CodeThrottled           = "throttled"
	CodeInvalidField        = "invalid_field"
	CodeBadRequest          = "bad_request"
	CodeVerificationInvalid = "verification_invalid"
	CodeInternal            = "internal"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type ChangePasswordRequest struct {
	Current string `json:"current"`
	Next    string `json:"next"`
}

type User struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
}

type SessionResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// ErrorResponse is the body of every non-2xx response. Field is set for
// CodeInvalidField.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// FromUser converts a domain user.
func FromUser(u auth.User) User {
	return User{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
	}
}

// ToUser converts back to a domain user.
func (u User) ToUser() *auth.User {
	return &auth.User{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
	}
}

// StatusFor maps a service error to an HTTP status and error code.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, auth.ErrDuplicateUsername):
		return http.StatusConflict, CodeDuplicateUsername
	case errors.Is(err, auth.ErrDuplicateEmail):
		return http.StatusConflict, CodeDuplicateEmail
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, CodeInvalidCredentials
	case errors.Is(err, auth.ErrNotSignedIn):
		return http.StatusUnauthorized, CodeNotSignedIn
	case errors.Is(err, auth.ErrThrottled):
		return http.StatusTooManyRequests, CodeThrottled
	case errors.Is(err, accounts.ErrVerificationInvalid):
		return http.StatusNotFound, CodeVerificationInvalid
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// ErrorFor maps an error code back to the sentinel it came from. Unknown
// codes give nil.
func ErrorFor(code string) error {
	switch code {
	case CodeDuplicateUsername:
		return auth.ErrDuplicateUsername
	case CodeDuplicateEmail:
		return auth.ErrDuplicateEmail
	case CodeInvalidCredentials:
		return auth.ErrInvalidCredentials
	case CodeNotSignedIn:
		return auth.ErrNotSignedIn
	case CodeThrottled:
		return auth.ErrThrottled
	case CodeVerificationInvalid:
		return accounts.ErrVerificationInvalid
	default:
		return nil
	}
}
