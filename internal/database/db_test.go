// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"codeberg.org/oliverandrich/tokenapi/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_InMemory(t *testing.T) {
	db, err := database.Open(context.Background(), ":memory:")

	require.NoError(t, err)
	require.NotNil(t, db)

	require.NoError(t, db.Close())
}

func TestOpen_MigrationsApplied(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(ctx, ":memory:")
	require.NoError(t, err)
	defer func() {
		_ = db.Close()
	}()

	for _, table := range []string{"users", "oauth_tokens"} {
		var count int64
		err = db.GetContext(ctx, &count, "SELECT count(*) FROM sqlite_master WHERE type='table' AND name=?", table)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count, "table %s should exist", table)
	}

	version, err := database.Version(ctx, db.DB)
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)
}

func TestOpen_FileDatabase(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "subdir", "test.db")

	db, err := database.Open(ctx, dbPath)
	require.NoError(t, err)
	defer func() {
		_ = db.Close()
	}()

	var count int64
	err = db.GetContext(ctx, &count, "SELECT count(*) FROM sqlite_master WHERE type='table' AND name='oauth_tokens'")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestOpen_ReopenIsIdempotent(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := database.Open(ctx, dbPath)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = database.Open(ctx, dbPath)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func TestOpen_ForeignKeysEnabled(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(ctx, ":memory:")
	require.NoError(t, err)
	defer func() {
		_ = db.Close()
	}()

	var enabled int
	require.NoError(t, db.GetContext(ctx, &enabled, "PRAGMA foreign_keys"))
	assert.Equal(t, 1, enabled)

	_, err = db.ExecContext(ctx,
		`INSERT INTO oauth_tokens (user_id, secret_key, created_at) VALUES (999, 'x', CURRENT_TIMESTAMP)`)
	assert.Error(t, err, "token record for unknown user must be rejected")
}

func TestMigrateReset(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(ctx, ":memory:")
	require.NoError(t, err)
	defer func() {
		_ = db.Close()
	}()

	require.NoError(t, database.MigrateReset(ctx, db.DB))

	var count int64
	require.NoError(t, db.GetContext(ctx, &count, "SELECT count(*) FROM sqlite_master WHERE type='table' AND name='users'"))
	assert.Equal(t, int64(0), count)

	require.NoError(t, database.RunMigrations(ctx, db.DB))
	require.NoError(t, db.GetContext(ctx, &count, "SELECT count(*) FROM sqlite_master WHERE type='table' AND name='users'"))
	assert.Equal(t, int64(1), count)
}

func TestPing(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(ctx, ":memory:")
	require.NoError(t, err)

	require.NoError(t, database.Ping(ctx, db))

	require.NoError(t, db.Close())
	assert.Error(t, database.Ping(ctx, db))
}

func TestConnect_NoMigrations(t *testing.T) {
	ctx := context.Background()
	db, err := database.Connect(ctx, ":memory:")
	require.NoError(t, err)
	defer func() {
		_ = db.Close()
	}()

	var count int64
	require.NoError(t, db.GetContext(ctx, &count, "SELECT count(*) FROM sqlite_master WHERE type='table' AND name='users'"))
	assert.Equal(t, int64(0), count)

	require.NoError(t, database.RunMigrations(ctx, db.DB))
	version, err := database.Version(ctx, db.DB)
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)
}

func TestMigrateDown(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(ctx, ":memory:")
	require.NoError(t, err)
	defer func() {
		_ = db.Close()
	}()

	require.NoError(t, database.MigrateDown(ctx, db.DB))

	version, err := database.Version(ctx, db.DB)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	var count int64
	require.NoError(t, db.GetContext(ctx, &count, "SELECT count(*) FROM sqlite_master WHERE type='table' AND name='oauth_tokens'"))
	assert.Equal(t, int64(0), count)
}
