// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"

	"codeberg.org/oliverandrich/tokenapi/internal/models"
)

// CreateUser creates a new user with an already hashed password.
func (r *Repository) CreateUser(ctx context.Context, name, passwordHash string) (*models.User, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (name, password_hash) VALUES (?, ?)`,
		name, passwordHash)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetUserByID(ctx, id)
}

// GetUserByID retrieves a user by ID.
func (r *Repository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE id = ?`, id); err != nil {
		return nil, wrapError(err)
	}
	return &user, nil
}

// GetUserByName retrieves a user by exact, case-sensitive name.
func (r *Repository) GetUserByName(ctx context.Context, name string) (*models.User, error) {
	var user models.User
	if err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE name = ?`, name); err != nil {
		return nil, wrapError(err)
	}
	return &user, nil
}

// UserExists checks if a user with the given name exists.
func (r *Repository) UserExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE name = ?)`, name)
	return exists, err
}
