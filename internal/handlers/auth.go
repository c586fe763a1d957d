// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"

	"codeberg.org/oliverandrich/tokenapi/internal/apierror"
	"codeberg.org/oliverandrich/tokenapi/internal/appcontext"
	"github.com/labstack/echo/v4"
)

// TokenRequest is the request body for creating a token.
type TokenRequest struct {
	Login    string `json:"login" form:"login"`
	Password string `json:"password" form:"password"`
}

// TokenResponse is the payload returned for a newly issued token.
type TokenResponse struct {
	Token string `json:"token"`
}

// CreateToken exchanges a login/password pair for a new opaque token.
// Issuing supersedes every token issued to the user before.
func (h *Handlers) CreateToken(c echo.Context) error {
	var req TokenRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	user, err := h.credentials.Authenticate(ctx, req.Login, req.Password)
	if err != nil {
		return err
	}

	tok, err := h.tokens.Issue(ctx, user)
	if err != nil {
		return err
	}

	return h.respond(c, http.StatusCreated, TokenResponse{Token: tok})
}

// RequireToken resolves the token header to a user before calling next.
func (h *Handlers) RequireToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		presented := c.Request().Header.Get(h.tokenHeader)
		user, err := h.tokens.Validate(c.Request().Context(), presented)
		if err != nil {
			return err
		}
		appcontext.SetUser(c, user)
		return next(c)
	}
}

// UserProfile returns the public profile of the authenticated user.
func (h *Handlers) UserProfile(c echo.Context) error {
	cc := appcontext.From(c)
	if !cc.IsAuthenticated() {
		return apierror.Unauthorized
	}
	return h.respond(c, http.StatusOK, cc.GetUser().Profile())
}
