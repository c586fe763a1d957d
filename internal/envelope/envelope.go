// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package envelope wraps every API outcome in the same three part body:
// meta, the echoed request and the response payload.
package envelope

import (
	"time"
)

// Envelope is the body of every API response.
type Envelope struct {
	Meta     Meta        `json:"meta"`
	Request  RequestInfo `json:"request"`
	Response any         `json:"response"`
}

// Meta carries the status code, the error detail and the server time.
type Meta struct { //nolint:govet // fieldalignment not critical for response structs
	Code              int       `json:"code"`
	Error             ErrorInfo `json:"error"`
	ServerCurrentTime time.Time `json:"x-server-current-time"`
	RequestID         string    `json:"request-id,omitempty"`
}

// ErrorInfo is empty on success and renders as {}.
type ErrorInfo struct {
	Code    int    `json:"error-code,omitempty"`
	Message string `json:"message,omitempty"`
}

type emptyObject struct{}

// Success builds the envelope for a successful outcome. A nil payload is
// rendered as an empty object.
func Success(req RequestInfo, code int, payload any, now time.Time) Envelope {
	if payload == nil {
		payload = emptyObject{}
	}
	return Envelope{
		Meta: Meta{
			Code:              code,
			ServerCurrentTime: now,
			RequestID:         req.ID,
		},
		Request:  req,
		Response: payload,
	}
}

// Failure builds the envelope for a failed outcome. The payload is always
// empty and the error section mirrors the status code.
func Failure(req RequestInfo, code int, message string, now time.Time) Envelope {
	return Envelope{
		Meta: Meta{
			Code:              code,
			Error:             ErrorInfo{Code: code, Message: message},
			ServerCurrentTime: now,
			RequestID:         req.ID,
		},
		Request:  req,
		Response: emptyObject{},
	}
}
