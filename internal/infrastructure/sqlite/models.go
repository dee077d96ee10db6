package sqlite

import (
	"time"

	"github.com/kitdeneme/kit/internal/accounts"
)

// accountModel is a users row. Timestamps are Unix seconds.
type accountModel struct {
	ID            string
	Username      string
	Email         string
	PasswordHash  string
	EmailVerified bool
	CreatedAt     int64
	UpdatedAt     int64
}

func toAccountModel(a accounts.Account) accountModel {
	return accountModel{
		ID:            a.ID,
		Username:      a.Username,
		Email:         a.Email,
		PasswordHash:  a.PasswordHash,
		EmailVerified: a.EmailVerified,
		CreatedAt:     a.CreatedAt.Unix(),
		UpdatedAt:     a.UpdatedAt.Unix(),
	}
}

func (m accountModel) toDomain() accounts.Account {
	return accounts.Account{
		ID:            m.ID,
		Username:      m.Username,
		Email:         m.Email,
		PasswordHash:  m.PasswordHash,
		EmailVerified: m.EmailVerified,
		CreatedAt:     time.Unix(m.CreatedAt, 0).UTC(),
		UpdatedAt:     time.Unix(m.UpdatedAt, 0).UTC(),
	}
}

// tokenModel is a sessions or email_verifications row; both tables share a
// shape.
type tokenModel struct {
	Token     string
	UserID    string
	CreatedAt int64
	ExpiresAt int64
}

func (m tokenModel) toSession() accounts.Session {
	return accounts.Session{
		Token:     m.Token,
		UserID:    m.UserID,
		CreatedAt: time.Unix(m.CreatedAt, 0).UTC(),
		ExpiresAt: time.Unix(m.ExpiresAt, 0).UTC(),
	}
}

func (m tokenModel) toVerification() accounts.Verification {
	return accounts.Verification{
		Token:     m.Token,
		UserID:    m.UserID,
		CreatedAt: time.Unix(m.CreatedAt, 0).UTC(),
		ExpiresAt: time.Unix(m.ExpiresAt, 0).UTC(),
	}
}
