package testutil

import "time"

// accountData holds all data for an account to be inserted.
type accountData struct {
	id        string
	username  string
	email     string
	password  string
	verified  bool
	createdAt time.Time
}

func defaultAccount(username string) accountData {
	return accountData{
		id:        "id-" + username,
		username:  username,
		email:     username + "@example.com",
		password:  DefaultPassword,
		createdAt: time.Now().UTC().Truncate(time.Second),
	}
}

// AccountOption configures an account.
type AccountOption func(*accountData)

// ID sets the account ID.
func ID(id string) AccountOption {
	return func(a *accountData) { a.id = id }
}

// Email sets the account email.
func Email(email string) AccountOption {
	return func(a *accountData) { a.email = email }
}

// Password sets the plain-text password the account is hashed from.
func Password(p string) AccountOption {
	return func(a *accountData) { a.password = p }
}

// Verified marks the email address as verified.
func Verified() AccountOption {
	return func(a *accountData) { a.verified = true }
}

// CreatedAt sets the account creation time.
func CreatedAt(at time.Time) AccountOption {
	return func(a *accountData) { a.createdAt = at }
}
