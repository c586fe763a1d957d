// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package appcontext carries request-scoped values between middleware and
// handlers.
package appcontext

import (
	"codeberg.org/oliverandrich/tokenapi/internal/models"
	"github.com/labstack/echo/v4"
)

// Keys used with echo.Context.Set.
const (
	userKey = "appcontext.user"
	bodyKey = "appcontext.body"
)

// Context is a typed view of the request-scoped values.
type Context struct {
	echo.Context
	User *models.User // nil if not authenticated
	Body []byte       // request body as received, nil if none
}

// From returns the typed view of c.
func From(c echo.Context) *Context {
	if cc, ok := c.(*Context); ok {
		return cc
	}
	return &Context{
		Context: c,
		User:    GetUser(c),
		Body:    GetBody(c),
	}
}

// GetUser returns the authenticated user, or nil if not authenticated.
func (c *Context) GetUser() *models.User {
	return c.User
}

// IsAuthenticated returns true if the user is authenticated.
func (c *Context) IsAuthenticated() bool {
	return c.User != nil
}

// SetUser stores the user resolved from the request token.
func SetUser(c echo.Context, user *models.User) {
	c.Set(userKey, user)
}

// GetUser returns the user stored by SetUser.
func GetUser(c echo.Context) *models.User {
	user, _ := c.Get(userKey).(*models.User)
	return user
}

// SetBody stores the captured request body.
func SetBody(c echo.Context, body []byte) {
	c.Set(bodyKey, body)
}

// GetBody returns the body stored by SetBody.
func GetBody(c echo.Context) []byte {
	body, _ := c.Get(bodyKey).([]byte)
	return body
}
