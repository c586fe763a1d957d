// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package testutil provides test helpers and fixtures.
package testutil

import (
	"context"
	"testing"

	"codeberg.org/oliverandrich/tokenapi/internal/database"
	"codeberg.org/oliverandrich/tokenapi/internal/models"
	"codeberg.org/oliverandrich/tokenapi/internal/repository"
	"github.com/stretchr/testify/require"
	"github.com/vinovest/sqlx"
	"golang.org/x/crypto/bcrypt"
)

// NewTestDB creates an in-memory SQLite database for tests.
// Returns both the database connection and the repository for convenience.
func NewTestDB(t *testing.T) (*sqlx.DB, *repository.Repository) {
	t.Helper()
	db, err := database.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db, repository.New(db)
}

// NewTestUser creates a test user with the given password.
// bcrypt.MinCost keeps the suite fast.
func NewTestUser(t *testing.T, repo *repository.Repository, name, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user, err := repo.CreateUser(context.Background(), name, string(hash))
	require.NoError(t, err)
	return user
}

// CountTokenRecords returns how many token records a user has accumulated.
func CountTokenRecords(t *testing.T, db *sqlx.DB, userID int64) int64 {
	t.Helper()
	var count int64
	err := db.GetContext(context.Background(), &count, `SELECT COUNT(*) FROM oauth_tokens WHERE user_id = ?`, userID)
	require.NoError(t, err)
	return count
}
