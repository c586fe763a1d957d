// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import (
	"strconv"
	"time"
)

// User is a credential principal. Rows are provisioned outside the API.
type User struct { //nolint:govet // fieldalignment not critical for models
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"-"`
}

// Identifier returns the stable identifier embedded in issued tokens.
func (u *User) Identifier() string {
	return strconv.FormatInt(u.ID, 10)
}

// Profile is the public view of a user.
type Profile struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Profile returns the fields safe to hand to clients.
func (u *User) Profile() Profile {
	return Profile{ID: u.ID, Name: u.Name}
}
