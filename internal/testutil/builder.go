package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kitdeneme/kit/internal/accounts"
)

// DefaultPassword is the password of accounts built without Password.
const DefaultPassword = "password1"

// Builder accumulates accounts and inserts them through a Repository.
type Builder struct {
	t        *testing.T
	repo     accounts.Repository
	accounts []accountData
}

// NewBuilder creates a builder for the given repository.
func NewBuilder(t *testing.T, repo accounts.Repository) *Builder {
	t.Helper()
	return &Builder{t: t, repo: repo}
}

// WithAccount adds an account with optional configuration.
func (b *Builder) WithAccount(username string, opts ...AccountOption) *Builder {
	a := defaultAccount(username)
	for _, opt := range opts {
		opt(&a)
	}
	b.accounts = append(b.accounts, a)
	return b
}

// Build inserts all accumulated accounts and returns them keyed by username.
func (b *Builder) Build() map[string]accounts.Account {
	b.t.Helper()
	out := make(map[string]accounts.Account, len(b.accounts))
	for _, a := range b.accounts {
		out[a.username] = b.insertAccount(a)
	}
	return out
}

func (b *Builder) insertAccount(a accountData) accounts.Account {
	b.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(a.password), bcrypt.MinCost)
	require.NoError(b.t, err)

	acc := accounts.Account{
		ID:            a.id,
		Username:      a.username,
		Email:         a.email,
		PasswordHash:  string(hash),
		EmailVerified: a.verified,
		CreatedAt:     a.createdAt,
		UpdatedAt:     a.createdAt,
	}
	require.NoError(b.t, b.repo.CreateAccount(context.Background(), acc))
	return acc
}
