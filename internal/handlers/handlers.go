// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package handlers implements the HTTP endpoints and the error handler that
// wraps every outcome in a response envelope.
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"codeberg.org/oliverandrich/tokenapi/internal/apierror"
	"codeberg.org/oliverandrich/tokenapi/internal/config"
	"codeberg.org/oliverandrich/tokenapi/internal/database"
	"codeberg.org/oliverandrich/tokenapi/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/vinovest/sqlx"
)

// Authenticator checks a login/password pair.
type Authenticator interface {
	Authenticate(ctx context.Context, login, password string) (*models.User, error)
}

// TokenService issues and validates opaque tokens.
type TokenService interface {
	Issue(ctx context.Context, user *models.User) (string, error)
	Validate(ctx context.Context, presented string) (*models.User, error)
}

// Handlers contains all HTTP handlers.
type Handlers struct {
	db          *sqlx.DB
	credentials Authenticator
	tokens      TokenService
	tokenHeader string
	production  bool
	now         func() time.Time
}

// Option configures Handlers.
type Option func(*Handlers)

// WithClock overrides the clock used for x-server-current-time.
func WithClock(now func() time.Time) Option {
	return func(h *Handlers) { h.now = now }
}

// New creates a new Handlers instance.
func New(db *sqlx.DB, credentials Authenticator, tokens TokenService, cfg config.AuthConfig, opts ...Option) *Handlers {
	header := cfg.TokenHeader
	if header == "" {
		header = config.DefaultTokenHeader
	}
	h := &Handlers{
		db:          db,
		credentials: credentials,
		tokens:      tokens,
		tokenHeader: header,
		production:  cfg.IsProduction(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// TokenHeader returns the request header the token is read from.
func (h *Handlers) TokenHeader() string {
	return h.tokenHeader
}

// Health returns the health status.
func (h *Handlers) Health(c echo.Context) error {
	if h.db != nil {
		if err := database.Ping(c.Request().Context(), h.db); err != nil {
			return apierror.Internal(fmt.Errorf("database unavailable: %w", err))
		}
	}
	return h.respond(c, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
