// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package token issues and validates opaque bearer tokens.
//
// A token is base64(user_id "::" created_at "::" signature), where signature
// is HMAC-SHA256 keyed with the secret of a stored token record. Tokens are
// never stored. Validation rebuilds the expected string from the newest
// record of the user, so issuing a new token supersedes all older ones.
package token

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"codeberg.org/oliverandrich/tokenapi/internal/apierror"
	"codeberg.org/oliverandrich/tokenapi/internal/models"
	"codeberg.org/oliverandrich/tokenapi/internal/repository"
)

const (
	// Delimiter separates the fields of the decoded token.
	Delimiter = "::"
	// SecretSize is the number of random bytes in a record secret.
	SecretSize = 32
)

var encoding = base64.StdEncoding

// Store is the persistence the token service depends on.
type Store interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	CreateTokenRecord(ctx context.Context, userID int64, secretKey string, createdAt time.Time) (*models.TokenRecord, error)
	LatestTokenRecord(ctx context.Context, userID int64) (*models.TokenRecord, error)
}

// Service issues and validates tokens.
type Service struct {
	store  Store
	now    func() time.Time
	random io.Reader
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the clock used for record creation times.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRandom overrides the source of record secrets.
func WithRandom(r io.Reader) Option {
	return func(s *Service) { s.random = r }
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		now:    func() time.Time { return time.Now().UTC() },
		random: rand.Reader,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue creates a new token record for user and returns its opaque token.
// Failures are returned as apierror.Internal faults.
func (s *Service) Issue(ctx context.Context, user *models.User) (string, error) {
	secret, err := s.newSecret()
	if err != nil {
		return "", apierror.Internal(fmt.Errorf("failed to generate token secret: %w", err))
	}

	rec, err := s.store.CreateTokenRecord(ctx, user.ID, secret, s.now())
	if err != nil {
		return "", apierror.Internal(fmt.Errorf("failed to store token record: %w", err))
	}

	userID := user.Identifier()
	createdAt := FormatTimestamp(rec.CreatedAt)
	token := Encode(userID, createdAt, Sign(rec.SecretKey, userID, createdAt))

	slog.InfoContext(ctx, "token_issued", "user_id", user.ID, "record_id", rec.ID)
	return token, nil
}

// Validate resolves a presented token to its user. Every credential failure
// returns apierror.Unauthorized; storage faults are apierror.Internal.
func (s *Service) Validate(ctx context.Context, presented string) (*models.User, error) {
	fields, ok := Decode(presented)
	if !ok {
		return nil, s.reject(ctx, "malformed")
	}

	id, err := strconv.ParseInt(fields.UserID, 10, 64)
	if err != nil {
		return nil, s.reject(ctx, "malformed_user_id")
	}

	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, s.reject(ctx, "unknown_user")
		}
		return nil, apierror.Internal(fmt.Errorf("failed to load user: %w", err))
	}

	rec, err := s.store.LatestTokenRecord(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, s.reject(ctx, "no_token_record")
		}
		return nil, apierror.Internal(fmt.Errorf("failed to load token record: %w", err))
	}

	expected := Encode(fields.UserID, fields.CreatedAt, Sign(rec.SecretKey, fields.UserID, fields.CreatedAt))
	if subtle.ConstantTimeCompare([]byte(expected), []byte(presented)) != 1 {
		return nil, s.reject(ctx, "signature_mismatch")
	}

	return user, nil
}

// reject logs the failed step server side and returns the shared error.
func (s *Service) reject(ctx context.Context, reason string) error {
	slog.DebugContext(ctx, "token_rejected", "reason", reason)
	return apierror.Unauthorized
}

func (s *Service) newSecret() (string, error) {
	buf := make([]byte, SecretSize)
	if _, err := io.ReadFull(s.random, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Fields are the decoded parts of a token.
type Fields struct {
	UserID    string
	CreatedAt string
	Signature string
}

// Sign computes the hex encoded HMAC-SHA256 of userID and createdAt keyed
// with the record secret.
func Sign(secret, userID, createdAt string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(userID + Delimiter + createdAt))
	return hex.EncodeToString(mac.Sum(nil))
}

// Encode joins the fields with Delimiter and base64 encodes the result.
func Encode(userID, createdAt, signature string) string {
	raw := strings.Join([]string{userID, createdAt, signature}, Delimiter)
	return encoding.EncodeToString([]byte(raw))
}

// Decode reverses Encode. It reports false for empty input, invalid base64
// and anything that does not split into exactly three non-empty fields.
func Decode(token string) (Fields, bool) {
	if token == "" {
		return Fields{}, false
	}
	raw, err := encoding.DecodeString(token)
	if err != nil {
		return Fields{}, false
	}
	parts := strings.Split(string(raw), Delimiter)
	if len(parts) != 3 {
		return Fields{}, false
	}
	for _, p := range parts {
		if p == "" {
			return Fields{}, false
		}
	}
	return Fields{UserID: parts[0], CreatedAt: parts[1], Signature: parts[2]}, true
}

// FormatTimestamp renders a record creation time as embedded in tokens.
func FormatTimestamp(t time.Time) string {
	return strconv.FormatInt(t.UnixNano(), 10)
}
