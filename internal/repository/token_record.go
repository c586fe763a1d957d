// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"codeberg.org/oliverandrich/tokenapi/internal/models"
)

// CreateTokenRecord appends a token record for a user.
func (r *Repository) CreateTokenRecord(ctx context.Context, userID int64, secretKey string, createdAt time.Time) (*models.TokenRecord, error) {
	createdAt = createdAt.UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO oauth_tokens (user_id, secret_key, created_at) VALUES (?, ?, ?)`,
		userID, secretKey, createdAt)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.TokenRecord{
		ID:        id,
		UserID:    userID,
		SecretKey: secretKey,
		CreatedAt: createdAt,
	}, nil
}

// LatestTokenRecord returns the newest token record of a user. Records with
// the same creation time are ordered by insertion sequence.
func (r *Repository) LatestTokenRecord(ctx context.Context, userID int64) (*models.TokenRecord, error) {
	var rec models.TokenRecord
	err := r.db.GetContext(ctx, &rec,
		`SELECT * FROM oauth_tokens WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT 1`,
		userID)
	if err != nil {
		return nil, wrapError(err)
	}
	return &rec, nil
}
