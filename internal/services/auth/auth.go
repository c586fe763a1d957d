// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"codeberg.org/oliverandrich/tokenapi/internal/apierror"
	"codeberg.org/oliverandrich/tokenapi/internal/models"
	"codeberg.org/oliverandrich/tokenapi/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserExists    = errors.New("user already exists")
	ErrEmptyName     = errors.New("user name must not be empty")
	ErrEmptyPassword = errors.New("password must not be empty")
)

// dummyHash is used for constant-time login to prevent timing attacks
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), bcrypt.DefaultCost)

// UserStore is the subset of the repository the credential store needs.
type UserStore interface {
	GetUserByName(ctx context.Context, name string) (*models.User, error)
	CreateUser(ctx context.Context, name, passwordHash string) (*models.User, error)
	UserExists(ctx context.Context, name string) (bool, error)
}

// Service verifies login/password pairs against stored users.
type Service struct {
	users UserStore
}

func NewService(users UserStore) *Service {
	return &Service{users: users}
}

// Authenticate returns the user whose name and password match. Unknown
// names and wrong passwords yield the same apierror.Unauthorized.
func (s *Service) Authenticate(ctx context.Context, login, password string) (*models.User, error) {
	if login == "" || password == "" {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, apierror.Unauthorized
	}

	user, err := s.users.GetUserByName(ctx, login)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Constant-time: always perform bcrypt comparison to prevent timing attacks
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			slog.WarnContext(ctx, "login_failed", "login", login, "reason", "user_not_found")
			return nil, apierror.Unauthorized
		}
		return nil, apierror.Internal(fmt.Errorf("failed to get user: %w", err))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		slog.WarnContext(ctx, "login_failed", "login", login, "reason", "invalid_password")
		return nil, apierror.Unauthorized
	}

	slog.InfoContext(ctx, "login_success", "user_id", user.ID)
	return user, nil
}

// CreateUser provisions a user with a bcrypt-hashed password.
func (s *Service) CreateUser(ctx context.Context, name, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if password == "" {
		return nil, ErrEmptyPassword
	}

	exists, err := s.users.UserExists(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check user: %w", err)
	}
	if exists {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, name, string(hash))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.InfoContext(ctx, "user_created", "user_id", user.ID, "name", user.Name)
	return user, nil
}
