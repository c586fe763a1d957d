// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package envelope

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// Redacted replaces secret header values and body fields in the echo.
const Redacted = "[REDACTED]"

// RequestInfo is the echoed request section of an envelope.
type RequestInfo struct {
	ID          string   `json:"-"`
	Href        string   `json:"href"`
	Headers     []string `json:"headers"`
	QueryParams string   `json:"query-params"`
	Body        string   `json:"body"`
}

var sensitiveHeaders = []string{
	"Authorization",
	"Cookie",
	"Proxy-Authorization",
}

var sensitiveFields = map[string]bool{
	"password": true,
	"token":    true,
}

// NewRequestInfo describes r for the envelope. body is the request body as
// captured before binding. Values of the Authorization and Cookie headers and
// of any header named in extraSecret are redacted, as are password and token
// fields of JSON and form bodies.
func NewRequestInfo(r *http.Request, body []byte, extraSecret ...string) RequestInfo {
	secret := make(map[string]bool, len(sensitiveHeaders)+len(extraSecret))
	for _, h := range sensitiveHeaders {
		secret[http.CanonicalHeaderKey(h)] = true
	}
	for _, h := range extraSecret {
		secret[http.CanonicalHeaderKey(h)] = true
	}

	return RequestInfo{
		Href:        href(r),
		Headers:     headerLines(r, secret),
		QueryParams: r.URL.RawQuery,
		Body:        redactBody(r.Header.Get("Content-Type"), body),
	}
}

// RedactedHeaders returns the header lines of r with secret values hidden.
func RedactedHeaders(r *http.Request, extraSecret ...string) []string {
	return NewRequestInfo(r, nil, extraSecret...).Headers
}

func href(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}

// headerLines renders headers as sorted "NAME: value" lines using the CGI
// naming convention (upper case, dashes become underscores).
func headerLines(r *http.Request, secret map[string]bool) []string {
	lines := make([]string, 0, len(r.Header)+1)
	if r.Host != "" && r.Header.Get("Host") == "" {
		lines = append(lines, "HOST: "+r.Host)
	}
	for name, values := range r.Header {
		value := strings.Join(values, ", ")
		if secret[http.CanonicalHeaderKey(name)] {
			value = Redacted
		}
		cgiName := strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
		lines = append(lines, cgiName+": "+value)
	}
	sort.Strings(lines)
	return lines
}

func redactBody(contentType string, body []byte) string {
	if len(body) == 0 {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return string(body)
	}

	switch mediaType {
	case "application/json":
		if out, ok := redactJSON(body); ok {
			return out
		}
		return string(body)

	case "application/x-www-form-urlencoded":
		values, err := url.ParseQuery(string(body))
		if err != nil {
			return string(body)
		}
		changed := false
		for k := range values {
			if sensitiveFields[strings.ToLower(k)] {
				values.Set(k, Redacted)
				changed = true
			}
		}
		if !changed {
			return string(body)
		}
		return values.Encode()
	}

	return string(body)
}

// redactJSON hides sensitive fields at any depth. Numbers are kept as their
// literal text. ok is false when the body is unchanged or not a single JSON
// value.
func redactJSON(body []byte) (string, bool) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return "", false
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return "", false
	}
	if !redactValue(doc) {
		return "", false
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return "", false
	}
	return strings.TrimSuffix(buf.String(), "\n"), true
}

func redactValue(v any) bool {
	changed := false
	switch v := v.(type) {
	case map[string]any:
		for k, child := range v {
			if sensitiveFields[strings.ToLower(k)] {
				v[k] = Redacted
				changed = true
				continue
			}
			if redactValue(child) {
				changed = true
			}
		}
	case []any:
		for _, child := range v {
			if redactValue(child) {
				changed = true
			}
		}
	}
	return changed
}
