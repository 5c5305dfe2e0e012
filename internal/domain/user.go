// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"errors"
	"time"
)

// ErrDuplicateUser is returned when a login is already registered.
var ErrDuplicateUser = errors.New("user already exists")

// User represents a registered account. PasswordHash holds a bcrypt hash and
// is empty for users provisioned through SSO.
type User struct {
	ID           int64     `json:"id"`
	Login        string    `json:"login"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserRepository defines the port for user persistence operations.
// Lookups return nil, nil when no user matches.
type UserRepository interface {
	GetByLogin(ctx context.Context, login string) (*User, error)
	CreateUser(ctx context.Context, login, passwordHash string) (*User, error)
}
