// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import "time"

// TokenRecord is one issuance event. Only the newest record of a user
// (created_at, then id) is consulted during validation; older rows are kept.
type TokenRecord struct { //nolint:govet // fieldalignment: readability over optimization
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	SecretKey string    `db:"secret_key" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
