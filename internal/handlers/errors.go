// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"codeberg.org/oliverandrich/tokenapi/internal/apierror"
	"codeberg.org/oliverandrich/tokenapi/internal/envelope"
	"codeberg.org/oliverandrich/tokenapi/internal/i18n"
	"github.com/labstack/echo/v4"
)

// ErrorHandler is the echo.HTTPErrorHandler. It classifies err, logs it and
// writes a failure envelope with a localized message.
func (h *Handlers) ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code, messageID, kind := classify(err)
	ctx := c.Request().Context()
	h.logFailure(ctx, err, code, kind)

	env := envelope.Failure(h.requestInfo(c), code, i18n.T(ctx, messageID), h.now())

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(code)
	} else {
		writeErr = c.JSON(code, env)
	}
	if writeErr != nil {
		slog.ErrorContext(ctx, "failed to write error response", "error", writeErr)
	}
}

// classify returns the status code, the message ID and a kind label for
// logging. Routing errors raised by echo keep their own status code.
func classify(err error) (int, string, string) {
	var httpErr *echo.HTTPError
	if !apierror.IsClassified(err) && errors.As(err, &httpErr) {
		return httpErr.Code, messageForStatus(httpErr.Code), "http"
	}
	return apierror.StatusOf(err), apierror.MessageOf(err), apierror.KindOf(err).String()
}

func messageForStatus(code int) string {
	switch code {
	case http.StatusUnauthorized:
		return apierror.MsgAuthFailed
	case http.StatusNotFound:
		return apierror.MsgNotFound
	case http.StatusMethodNotAllowed:
		return apierror.MsgMethodNotAllowed
	case http.StatusRequestEntityTooLarge:
		return apierror.MsgEntityTooLarge
	}
	if code < http.StatusInternalServerError {
		return apierror.MsgBadRequest
	}
	return apierror.MsgInternalError
}

// logFailure logs a classified failure. Outside production the full error
// chain is included, along with the stack recorded where an internal fault
// was wrapped.
func (h *Handlers) logFailure(ctx context.Context, err error, code int, kind string) {
	attrs := []any{
		"code", code,
		"kind", kind,
	}
	if !h.production {
		attrs = append(attrs, "error", err.Error())
		if stack := apierror.StackOf(err); stack != "" {
			attrs = append(attrs, "trace", stack)
		}
	}

	level := slog.LevelWarn
	if code >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	slog.Log(ctx, level, "request_failed", attrs...)
}
