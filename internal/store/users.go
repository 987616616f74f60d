package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// tokenBytes yields 40 hex characters per key.
const tokenBytes = 20

// CreateUser inserts an active user.
func (s *Store) CreateUser(ctx context.Context, username string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errors.New("create user: username is required")
	}
	now := time.Now().UTC()
	res, err := s.execWithRetry(ctx,
		`INSERT INTO users (username, is_active, image, created_at) VALUES (?, 1, '', ?)`,
		username, formatTime(now),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", ErrUserExists, username)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &User{ID: id, Username: username, IsActive: true, CreatedAt: parseTime(formatTime(now))}, nil
}

// GetUserByUsername returns nil, nil when the user does not exist.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var row userRow
	err := s.db.GetContext(ensureContext(ctx), &row, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return row.user(), nil
}

// ListUsers returns all users ordered by username.
func (s *Store) ListUsers(ctx context.Context) ([]*User, error) {
	var rows []userRow
	if err := s.db.SelectContext(ensureContext(ctx), &rows, `SELECT `+userColumns+` FROM users ORDER BY username`); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	users := make([]*User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.user())
	}
	return users, nil
}

// SetUserActive enables or disables a user.
func (s *Store) SetUserActive(ctx context.Context, username string, active bool) error {
	return s.updateUser(ctx, `UPDATE users SET is_active = ? WHERE username = ?`, active, username)
}

// SetUserImage sets the profile image reference of a user.
func (s *Store) SetUserImage(ctx context.Context, username, image string) error {
	return s.updateUser(ctx, `UPDATE users SET image = ? WHERE username = ?`, strings.TrimSpace(image), username)
}

func (s *Store) updateUser(ctx context.Context, query string, value any, username string) error {
	res, err := s.execWithRetry(ctx, query, value, username)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: user %s", ErrNotFound, username)
	}
	return nil
}

// CreateToken issues a new key for the user, replacing any previous one.
func (s *Store) CreateToken(ctx context.Context, username string) (*Token, error) {
	key, err := newTokenKey()
	if err != nil {
		return nil, err
	}
	ctx = ensureContext(ctx)
	now := time.Now().UTC()
	var userID int64
	err = s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &userID, `SELECT id FROM users WHERE username = ?`, username); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: user %s", ErrNotFound, username)
			}
			return fmt.Errorf("load user: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM tokens WHERE user_id = ?`, userID); err != nil {
			return fmt.Errorf("revoke token: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tokens (key, user_id, created_at) VALUES (?, ?, ?)`,
			key, userID, formatTime(now),
		); err != nil {
			return fmt.Errorf("insert token: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Token{Key: key, UserID: userID, CreatedAt: parseTime(formatTime(now))}, nil
}

// UserByToken returns the owner of key, or nil, nil when the key is unknown.
func (s *Store) UserByToken(ctx context.Context, key string) (*User, error) {
	if key == "" {
		return nil, nil
	}
	var row userRow
	err := s.db.GetContext(ensureContext(ctx), &row,
		`SELECT u.id, u.username, u.is_active, u.image, u.created_at
		   FROM tokens t JOIN users u ON u.id = t.user_id
		  WHERE t.key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup token: %w", err)
	}
	return row.user(), nil
}

func newTokenKey() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
