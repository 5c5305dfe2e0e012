package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"todolist/internal/domain"
)

// GetByLogin retrieves a user by login.
func (d *DB) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	var (
		u         domain.User
		createdAt int64
	)
	err := d.sql.QueryRowContext(ctx,
		"SELECT id, login, password_hash, created_at FROM users WHERE login = ?",
		login,
	).Scan(&u.ID, &u.Login, &u.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.CreatedAt = fromMillis(createdAt)
	return &u, nil
}

// CreateUser creates a new user.
func (d *DB) CreateUser(ctx context.Context, login, passwordHash string) (*domain.User, error) {
	now := time.Now()
	res, err := d.sql.ExecContext(ctx,
		"INSERT INTO users (login, password_hash, created_at) VALUES (?, ?, ?)",
		login, passwordHash, toMillis(now),
	)
	if isUniqueViolation(err) {
		return nil, domain.ErrDuplicateUser
	}
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &domain.User{
		ID:           id,
		Login:        login,
		PasswordHash: passwordHash,
		CreatedAt:    fromMillis(toMillis(now)),
	}, nil
}
