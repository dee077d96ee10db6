package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ncruces/go-sqlite3"

	"github.com/kitdeneme/kit/internal/accounts"
	"github.com/kitdeneme/kit/internal/auth"
)

const accountColumns = `id, username, email, password_hash, email_verified, created_at, updated_at`

// accountRepository implements accounts.Repository using SQLite.
type accountRepository struct {
	db *sql.DB
}

func newAccountRepository(db *sql.DB) *accountRepository {
	return &accountRepository{db: db}
}

var _ accounts.Repository = (*accountRepository)(nil)

func scanAccount(scanner interface{ Scan(...any) error }) (accountModel, error) {
	var m accountModel
	err := scanner.Scan(&m.ID, &m.Username, &m.Email, &m.PasswordHash, &m.EmailVerified, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

// CreateAccount inserts a users row, mapping unique violations to the auth
// duplicate errors. A clash on both columns reports the username.
func (r *accountRepository) CreateAccount(ctx context.Context, a accounts.Account) error {
	m := toAccountModel(a)
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (`+accountColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Username, m.Email, m.PasswordHash, m.EmailVerified, m.CreatedAt, m.UpdatedAt,
	)
	if err == nil {
		return nil
	}
	if !isUniqueViolation(err) {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	// SQLite names whichever index it checked first; ask for the username
	// explicitly so the answer does not depend on index order.
	_, lookupErr := r.AccountByUsername(ctx, m.Username)
	switch {
	case lookupErr == nil:
		return auth.ErrDuplicateUsername
	case !errors.Is(lookupErr, accounts.ErrNotFound):
		return lookupErr
	case strings.Contains(err.Error(), "users.email"):
		return auth.ErrDuplicateEmail
	default:
		return fmt.Errorf("failed to insert user: %w", err)
	}
}

func isUniqueViolation(err error) bool {
	var serr *sqlite3.Error
	return errors.As(err, &serr) && serr.ExtendedCode() == sqlite3.CONSTRAINT_UNIQUE
}

func (r *accountRepository) accountWhere(ctx context.Context, clause string, arg any) (accounts.Account, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM users WHERE `+clause, arg) //nolint:gosec // G202: clause is a constant
	m, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return accounts.Account{}, accounts.ErrNotFound
	}
	if err != nil {
		return accounts.Account{}, fmt.Errorf("failed to find user: %w", err)
	}
	return m.toDomain(), nil
}

// AccountByID looks up a user by id.
func (r *accountRepository) AccountByID(ctx context.Context, id string) (accounts.Account, error) {
	return r.accountWhere(ctx, `id = ?`, id)
}

// AccountByUsername looks up a user by username, ignoring case.
func (r *accountRepository) AccountByUsername(ctx context.Context, username string) (accounts.Account, error) {
	return r.accountWhere(ctx, `username = ?`, username)
}

// AccountByEmail looks up a user by email, ignoring case.
func (r *accountRepository) AccountByEmail(ctx context.Context, email string) (accounts.Account, error) {
	return r.accountWhere(ctx, `email = ?`, email)
}

func (r *accountRepository) updateUser(ctx context.Context, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return accounts.ErrNotFound
	}
	return nil
}

// UpdatePasswordHash replaces a user's password hash.
func (r *accountRepository) UpdatePasswordHash(ctx context.Context, id, hash string, at time.Time) error {
	return r.updateUser(ctx, `UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`, hash, at.Unix(), id)
}

// MarkEmailVerified flags a user's email as verified.
func (r *accountRepository) MarkEmailVerified(ctx context.Context, id string, at time.Time) error {
	return r.updateUser(ctx, `UPDATE users SET email_verified = 1, updated_at = ? WHERE id = ?`, at.Unix(), id)
}

// CreateSession inserts a session.
func (r *accountRepository) CreateSession(ctx context.Context, s accounts.Session) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (token, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		s.Token, s.UserID, s.CreatedAt.Unix(), s.ExpiresAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// SessionByToken looks up a session.
func (r *accountRepository) SessionByToken(ctx context.Context, token string) (accounts.Session, error) {
	var m tokenModel
	err := r.db.QueryRowContext(ctx,
		`SELECT token, user_id, created_at, expires_at FROM sessions WHERE token = ?`, token,
	).Scan(&m.Token, &m.UserID, &m.CreatedAt, &m.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return accounts.Session{}, accounts.ErrNotFound
	}
	if err != nil {
		return accounts.Session{}, fmt.Errorf("failed to find session: %w", err)
	}
	return m.toSession(), nil
}

// DeleteSession removes a session. Returns accounts.ErrNotFound if there was
// none.
func (r *accountRepository) DeleteSession(ctx context.Context, token string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return accounts.ErrNotFound
	}
	return nil
}

// DeleteSessionsExcept removes all of a user's sessions but keep.
func (r *accountRepository) DeleteSessionsExcept(ctx context.Context, userID, keep string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = ? AND token != ?`, userID, keep)
	if err != nil {
		return fmt.Errorf("failed to delete sessions: %w", err)
	}
	return nil
}

// CreateVerification inserts an email verification token.
func (r *accountRepository) CreateVerification(ctx context.Context, v accounts.Verification) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO email_verifications (token, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		v.Token, v.UserID, v.CreatedAt.Unix(), v.ExpiresAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert verification: %w", err)
	}
	return nil
}

// ConsumeVerification deletes a verification token and returns it.
func (r *accountRepository) ConsumeVerification(ctx context.Context, token string) (accounts.Verification, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return accounts.Verification{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var m tokenModel
	err = tx.QueryRowContext(ctx,
		`SELECT token, user_id, created_at, expires_at FROM email_verifications WHERE token = ?`, token,
	).Scan(&m.Token, &m.UserID, &m.CreatedAt, &m.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return accounts.Verification{}, accounts.ErrNotFound
	}
	if err != nil {
		return accounts.Verification{}, fmt.Errorf("failed to find verification: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM email_verifications WHERE token = ?`, token); err != nil {
		return accounts.Verification{}, fmt.Errorf("failed to delete verification: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return accounts.Verification{}, fmt.Errorf("failed to commit: %w", err)
	}
	return m.toVerification(), nil
}
