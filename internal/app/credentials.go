// Package app holds the application services and business logic.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"todolist/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials indicates that the provided login or password was incorrect.
	ErrInvalidCredentials = errors.New("invalid login or password")
	// ErrEmptyCredentials indicates a registration without login or password.
	ErrEmptyCredentials = errors.New("login and password are required")
)

// CredentialService registers users and checks their passwords.
type CredentialService struct {
	users domain.UserRepository
	cost  int
}

// NewCredentialService creates a CredentialService backed by the given repository.
func NewCredentialService(users domain.UserRepository) *CredentialService {
	return &CredentialService{users: users, cost: bcrypt.DefaultCost}
}

// WithCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (s *CredentialService) WithCost(cost int) *CredentialService {
	s.cost = cost
	return s
}

// RegisterUser hashes rawPassword and stores a new user. It returns
// domain.ErrDuplicateUser when the login is taken.
func (s *CredentialService) RegisterUser(ctx context.Context, login, rawPassword string) (*domain.User, error) {
	if strings.TrimSpace(login) == "" || rawPassword == "" {
		return nil, ErrEmptyCredentials
	}

	existing, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicateUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(rawPassword), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// The store's unique constraint still catches a concurrent registration.
	return s.users.CreateUser(ctx, login, string(hash))
}

// FindUserByLogin returns the user with exactly this login, or nil.
func (s *CredentialService) FindUserByLogin(ctx context.Context, login string) (*domain.User, error) {
	return s.users.GetByLogin(ctx, login)
}

// VerifyPassword reports whether rawPassword matches the user's stored hash.
// Users without a password hash never verify.
func (s *CredentialService) VerifyPassword(user *domain.User, rawPassword string) bool {
	if user == nil || user.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(rawPassword)) == nil
}

// Authenticate looks up login and verifies rawPassword against it.
func (s *CredentialService) Authenticate(ctx context.Context, login, rawPassword string) (*domain.User, error) {
	user, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !s.VerifyPassword(user, rawPassword) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// ProvisionExternalUser returns the user for an identity already verified by
// an SSO provider, creating it without a password when missing.
func (s *CredentialService) ProvisionExternalUser(ctx context.Context, login string) (*domain.User, error) {
	if strings.TrimSpace(login) == "" {
		return nil, ErrEmptyCredentials
	}
	user, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user != nil {
		return user, nil
	}

	user, err = s.users.CreateUser(ctx, login, "")
	if errors.Is(err, domain.ErrDuplicateUser) {
		// Lost a race with another callback for the same identity.
		return s.users.GetByLogin(ctx, login)
	}
	return user, err
}
