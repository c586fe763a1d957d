// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"codeberg.org/oliverandrich/tokenapi/internal/appcontext"
	"codeberg.org/oliverandrich/tokenapi/internal/config"
	"codeberg.org/oliverandrich/tokenapi/internal/envelope"
	"codeberg.org/oliverandrich/tokenapi/internal/i18n"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func setupMiddleware(e *echo.Echo, cfg *config.Config, tokenHeader string) {
	e.Pre(middleware.RemoveTrailingSlash())

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(i18nMiddleware())
	e.Use(requestLogger())
	e.Use(middleware.Secure())
	e.Use(middleware.BodyLimit(bodyLimit(cfg.Server.MaxBodySize)))
	e.Use(captureBody())
	e.Use(debugRequestLog(tokenHeader))
}

func bodyLimit(mb int) string {
	if mb <= 0 {
		mb = 1
	}
	return fmt.Sprintf("%dM", mb)
}

// requestLogger returns middleware that logs requests using slog.
func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			}

			switch {
			case v.Status >= http.StatusInternalServerError:
				if v.Error != nil {
					attrs = append(attrs, slog.String("error", v.Error.Error()))
				}
				slog.LogAttrs(c.Request().Context(), slog.LevelError, "request", attrs...)
			case v.Error != nil:
				slog.LogAttrs(c.Request().Context(), slog.LevelWarn, "request", attrs...)
			default:
				slog.LogAttrs(c.Request().Context(), slog.LevelInfo, "request", attrs...)
			}

			return nil
		},
	})
}

// captureBody reads the request body once, stores it for the response
// envelope and hands an identical reader to the handlers. It must run after
// the body limit.
func captureBody() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.Body == nil || req.Body == http.NoBody {
				return next(c)
			}

			body, err := io.ReadAll(req.Body)
			if err != nil {
				return err
			}
			req.Body = io.NopCloser(bytes.NewReader(body))
			appcontext.SetBody(c, body)

			return next(c)
		}
	}
}

// i18nMiddleware sets the locale based on Accept-Language header.
func i18nMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			acceptLang := c.Request().Header.Get("Accept-Language")
			lang := i18n.MatchLanguage(acceptLang)
			ctx := i18n.WithLocale(c.Request().Context(), lang)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// debugRequestLog logs query parameters and headers of every request at
// debug level. Credentials are redacted.
func debugRequestLog(tokenHeader string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			if slog.Default().Enabled(ctx, slog.LevelDebug) {
				slog.DebugContext(ctx, "request_params",
					"method", c.Request().Method,
					"path", c.Request().URL.Path,
					"query", c.QueryParams().Encode(),
					"headers", envelope.RedactedHeaders(c.Request(), tokenHeader),
				)
			}
			return next(c)
		}
	}
}
