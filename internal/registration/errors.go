package registration

import (
	"fmt"

	"github.com/kitdeneme/kit/internal/validator"
)

// Reason says which field failed local validation.
type Reason int

const (
	UsernameInvalid Reason = iota + 1
	EmailInvalid
	PasswordInvalid
)

func (r Reason) String() string {
	switch r {
	case UsernameInvalid:
		return "username_invalid"
	case EmailInvalid:
		return "email_invalid"
	case PasswordInvalid:
		return "password_invalid"
	default:
		return "unknown"
	}
}

// Field returns the validator field the reason refers to.
func (r Reason) Field() validator.Field {
	switch r {
	case UsernameInvalid:
		return validator.FieldUsername
	case EmailInvalid:
		return validator.FieldEmail
	case PasswordInvalid:
		return validator.FieldPassword
	default:
		return validator.FieldNone
	}
}

func reasonFor(f validator.Field) (Reason, bool) {
	switch f {
	case validator.FieldUsername:
		return UsernameInvalid, true
	case validator.FieldEmail:
		return EmailInvalid, true
	case validator.FieldPassword:
		return PasswordInvalid, true
	default:
		return 0, false
	}
}

// ValidationError is reported when a request fails local validation. The
// gateway is never called for such a request.
type ValidationError struct {
	Reason Reason
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s", e.Reason.Field())
}

// RemoteError wraps whatever the gateway returned. The cause is not
// interpreted here; use errors.Is/As to inspect it.
type RemoteError struct {
	Cause error
}

func (e *RemoteError) Error() string {
	if e.Cause == nil {
		return "registration failed"
	}
	return "registration failed: " + e.Cause.Error()
}

func (e *RemoteError) Unwrap() error {
	return e.Cause
}
