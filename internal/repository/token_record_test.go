// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository_test

import (
	"context"
	"testing"
	"time"

	"codeberg.org/oliverandrich/tokenapi/internal/repository"
	"codeberg.org/oliverandrich/tokenapi/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTokenRecord(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	user := testutil.NewTestUser(t, repo, "alice", "secret123")
	now := time.Date(2026, 10, 18, 9, 30, 0, 123456789, time.UTC)

	rec, err := repo.CreateTokenRecord(ctx, user.ID, "secret-a", now)

	require.NoError(t, err)
	assert.NotZero(t, rec.ID)
	assert.Equal(t, user.ID, rec.UserID)
	assert.Equal(t, "secret-a", rec.SecretKey)
	assert.True(t, now.Equal(rec.CreatedAt))
}

func TestCreateTokenRecord_UnknownUser(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	_, err := repo.CreateTokenRecord(context.Background(), 999, "secret-a", time.Now())

	assert.Error(t, err)
}

func TestLatestTokenRecord_NewestWins(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	user := testutil.NewTestUser(t, repo, "alice", "secret123")
	base := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

	_, err := repo.CreateTokenRecord(ctx, user.ID, "older", base)
	require.NoError(t, err)
	_, err = repo.CreateTokenRecord(ctx, user.ID, "newer", base.Add(time.Millisecond))
	require.NoError(t, err)

	latest, err := repo.LatestTokenRecord(ctx, user.ID)

	require.NoError(t, err)
	assert.Equal(t, "newer", latest.SecretKey)
	assert.True(t, base.Add(time.Millisecond).Equal(latest.CreatedAt))
}

func TestLatestTokenRecord_OrderIsByTimeNotInsertion(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	user := testutil.NewTestUser(t, repo, "alice", "secret123")
	base := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

	_, err := repo.CreateTokenRecord(ctx, user.ID, "later-clock", base.Add(time.Second))
	require.NoError(t, err)
	_, err = repo.CreateTokenRecord(ctx, user.ID, "earlier-clock", base)
	require.NoError(t, err)

	latest, err := repo.LatestTokenRecord(ctx, user.ID)

	require.NoError(t, err)
	assert.Equal(t, "later-clock", latest.SecretKey)
}

func TestLatestTokenRecord_SameInstantTieBreaksOnSequence(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	user := testutil.NewTestUser(t, repo, "alice", "secret123")
	instant := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

	first, err := repo.CreateTokenRecord(ctx, user.ID, "first", instant)
	require.NoError(t, err)
	second, err := repo.CreateTokenRecord(ctx, user.ID, "second", instant)
	require.NoError(t, err)
	require.Greater(t, second.ID, first.ID)

	latest, err := repo.LatestTokenRecord(ctx, user.ID)

	require.NoError(t, err)
	assert.Equal(t, "second", latest.SecretKey)
}

func TestLatestTokenRecord_None(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	user := testutil.NewTestUser(t, repo, "alice", "secret123")

	_, err := repo.LatestTokenRecord(context.Background(), user.ID)

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestLatestTokenRecord_ScopedToUser(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	alice := testutil.NewTestUser(t, repo, "alice", "secret123")
	bob := testutil.NewTestUser(t, repo, "bob", "hunter22")
	now := time.Now().UTC()

	_, err := repo.CreateTokenRecord(ctx, alice.ID, "alice-secret", now)
	require.NoError(t, err)
	_, err = repo.CreateTokenRecord(ctx, bob.ID, "bob-secret", now.Add(time.Second))
	require.NoError(t, err)

	latest, err := repo.LatestTokenRecord(ctx, alice.ID)

	require.NoError(t, err)
	assert.Equal(t, "alice-secret", latest.SecretKey)
}

func TestTokenRecords_HistoryRetained(t *testing.T) {
	db, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	user := testutil.NewTestUser(t, repo, "alice", "secret123")

	for i, secret := range []string{"a", "b", "c"} {
		_, err := repo.CreateTokenRecord(ctx, user.ID, secret, time.Now().Add(time.Duration(i)*time.Second))
		require.NoError(t, err)
	}

	assert.Equal(t, int64(3), testutil.CountTokenRecords(t, db, user.ID))
}
