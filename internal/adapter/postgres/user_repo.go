package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"todolist/internal/domain"
)

// GetByLogin retrieves a user by login.
func (d *DB) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	var u domain.User
	err := d.sql.QueryRowContext(ctx,
		"SELECT id, login, password_hash, created_at FROM users WHERE login = $1",
		login,
	).Scan(&u.ID, &u.Login, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser creates a new user.
func (d *DB) CreateUser(ctx context.Context, login, passwordHash string) (*domain.User, error) {
	var u domain.User
	err := d.sql.QueryRowContext(ctx,
		"INSERT INTO users (login, password_hash, created_at) VALUES ($1, $2, $3) RETURNING id, login, password_hash, created_at",
		login, passwordHash, time.Now().UTC(),
	).Scan(&u.ID, &u.Login, &u.PasswordHash, &u.CreatedAt)
	if isUniqueViolation(err) {
		return nil, domain.ErrDuplicateUser
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
