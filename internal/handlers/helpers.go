// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"codeberg.org/oliverandrich/tokenapi/internal/appcontext"
	"codeberg.org/oliverandrich/tokenapi/internal/envelope"
	"github.com/labstack/echo/v4"
)

// respond writes payload wrapped in a success envelope.
func (h *Handlers) respond(c echo.Context, code int, payload any) error {
	return c.JSON(code, envelope.Success(h.requestInfo(c), code, payload, h.now()))
}

// requestInfo describes the current request for the envelope. The token
// header is redacted.
func (h *Handlers) requestInfo(c echo.Context) envelope.RequestInfo {
	info := envelope.NewRequestInfo(c.Request(), appcontext.GetBody(c), h.tokenHeader)
	info.ID = c.Response().Header().Get(echo.HeaderXRequestID)
	return info
}
