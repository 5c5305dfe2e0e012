package app

import (
	"context"
	"errors"
	"fmt"

	"todolist/internal/domain"
)

// ErrNoSession indicates that a request carries no usable session: the token
// is missing, invalid or expired, or its login no longer resolves to a user.
var ErrNoSession = errors.New("no valid session")

// SessionGate resolves a session token into the user it was issued for.
type SessionGate struct {
	tokens *TokenService
	users  domain.UserRepository
}

// NewSessionGate creates a SessionGate.
func NewSessionGate(tokens *TokenService, users domain.UserRepository) *SessionGate {
	return &SessionGate{tokens: tokens, users: users}
}

// Resolve verifies rawToken and loads its user. It returns ErrNoSession when
// the request must be treated as anonymous; any other error comes from the
// user store.
func (g *SessionGate) Resolve(ctx context.Context, rawToken string) (*domain.User, error) {
	claims, ok := g.tokens.Verify(rawToken)
	if !ok {
		return nil, ErrNoSession
	}

	user, err := g.users.GetByLogin(ctx, claims.Data.Login)
	if err != nil {
		return nil, fmt.Errorf("resolve session user: %w", err)
	}
	if user == nil {
		return nil, ErrNoSession
	}
	return user, nil
}
