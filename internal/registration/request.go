package registration

import (
	"fmt"

	"github.com/kitdeneme/kit/internal/auth"
)

// Request is one registration attempt as typed by the user. Fields are not
// trimmed or normalized.
type Request struct {
	username string
	email    string
	password string
}

// NewRequest builds a Request from raw field values.
func NewRequest(username, email, password string) Request {
	return Request{username: username, email: email, password: password}
}

func (r Request) Username() string { return r.username }
func (r Request) Email() string    { return r.email }
func (r Request) Password() string { return r.password }

// String omits the password so requests can be logged.
func (r Request) String() string {
	return fmt.Sprintf("Request{username=%q email=%q}", r.username, r.email)
}

func (r Request) credentials() auth.Credentials {
	return auth.Credentials{
		Username: r.username,
		Email:    r.email,
		Password: r.password,
	}
}
