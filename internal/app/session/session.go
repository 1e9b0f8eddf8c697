// Copyright (c) 2026 Odara. All rights reserved.

/*
Package session implements the client-side authentication state store.

It is the single owner of the "who is signed in" question on the device:
it caches the bearer token and user profile in memory, persists them via
[credstore.Store], and keeps the API client's Authorization header in sync.

# Invariants

  - IsAuthenticated() true implies Token() is non-empty.
  - Initialize never fails: any storage or decode problem degrades to the
    signed-out state, and IsLoading() is false once it returns.
  - Initialize restores a session only when both the token and the cached
    profile are present and decodable; a half-session is torn down.
  - Logout is idempotent.
*/
package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/odara-app/odara/internal/app/credstore"
	"github.com/odara-app/odara/internal/users/auth"
)

// expiryBuffer is subtracted from the token's exp claim during validation so
// a token about to lapse mid-request is treated as already expired.
const expiryBuffer = 60 * time.Second

var (
	// ErrEmptyToken is returned by SetToken when the token is empty. An empty
	// token would break the authenticated-implies-token invariant.
	ErrEmptyToken = errors.New("session: token must not be empty")

	// ErrMissingUserID is returned by SetUser when the profile has no ID.
	ErrMissingUserID = errors.New("session: user must have an id")
)

// HeaderAuthority is the slice of the API client the session store drives:
// installing and clearing the default Authorization header.
type HeaderAuthority interface {
	SetAuthToken(token string)
	ClearAuthToken()
}

// Store holds the authentication state for the running client.
//
// All methods are safe for concurrent use.
type Store struct {
	creds  credstore.Store
	api    HeaderAuthority
	logger *slog.Logger

	// now is swappable for expiry tests.
	now func() time.Time

	mu              sync.RWMutex
	user            *auth.User
	token           string
	errMsg          string
	isAuthenticated bool
	isLoading       bool
}

// NewStore constructs a session [Store].
//
// The store starts in the loading state; call [Store.Initialize] to restore
// any persisted session.
func NewStore(creds credstore.Store, api HeaderAuthority, logger *slog.Logger) *Store {
	return &Store{
		creds:     creds,
		api:       api,
		logger:    logger,
		now:       time.Now,
		isLoading: true,
	}
}

// # State Accessors

// IsAuthenticated reports whether a session is active.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isAuthenticated
}

// IsLoading reports whether [Store.Initialize] has not finished yet.
func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isLoading
}

// Token returns the current bearer token, or "" when signed out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the cached profile, or nil when signed out.
func (s *Store) User() *auth.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// ErrorMessage returns the last surfaced auth error, or "" when clear.
func (s *Store) ErrorMessage() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

// SetError records a user-facing auth error message for the UI to display.
func (s *Store) SetError(message string) {
	s.mu.Lock()
	s.errMsg = message
	s.mu.Unlock()
}

// ClearError resets the surfaced auth error.
func (s *Store) ClearError() {
	s.mu.Lock()
	s.errMsg = ""
	s.mu.Unlock()
}

// # Mutations

// SetToken persists and activates a bearer token.
//
// The token is stored, the in-memory state flips to authenticated, and the
// API client's default header is installed. The expiry claim is decoded only
// for logging; an undecodable token is still accepted here because the
// server just issued it. ValidateToken is where expiry is enforced.
func (s *Store) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return ErrEmptyToken
	}

	if err := s.creds.Set(ctx, credstore.KeyUserToken, token); err != nil {
		return err
	}

	s.mu.Lock()
	s.token = token
	s.isAuthenticated = true
	s.mu.Unlock()

	s.api.SetAuthToken(token)

	if expiresAt, err := tokenExpiry(token); err != nil {
		s.logger.Warn("session_token_decode_failed", slog.Any("error", err))
	} else {
		s.logger.Debug("session_token_set", slog.Time("expires_at", expiresAt))
	}

	return nil
}

// SetUser persists and caches the user profile.
//
// A profile without an ID is rejected: every downstream consumer keys on it.
func (s *Store) SetUser(ctx context.Context, user *auth.User) error {
	if user == nil || user.ID == "" {
		return ErrMissingUserID
	}

	payload, err := json.Marshal(user)
	if err != nil {
		return err
	}

	if err := s.creds.Set(ctx, credstore.KeyUserData, string(payload)); err != nil {
		return err
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()

	return nil
}

/*
ValidateToken checks whether the persisted token is present and usable.

Description: Re-reads the token from storage rather than trusting the
in-memory copy, decodes the expiry claim without verifying the signature
(the server is the verifier; the client only needs the timestamp), and
applies a 60 second buffer so a token on the edge of expiry is rejected.

Returns:
  - bool: true only if a token exists, decodes, and has usable lifetime left
*/
func (s *Store) ValidateToken(ctx context.Context) bool {
	token, err := s.creds.Get(ctx, credstore.KeyUserToken)
	if err != nil {
		s.logger.Warn("session_token_read_failed", slog.Any("error", err))
		return false
	}
	if token == "" {
		return false
	}

	expiresAt, err := tokenExpiry(token)
	if err != nil {
		s.logger.Warn("session_token_decode_failed", slog.Any("error", err))
		return false
	}

	return s.now().Add(expiryBuffer).Before(expiresAt)
}

/*
Logout tears down the session.

Description: Deletes the persisted token and profile, clears the API
client's Authorization header, and resets the in-memory state. Idempotent;
storage failures are logged, never surfaced, so logout can always complete.
*/
func (s *Store) Logout(ctx context.Context) {
	if err := s.creds.Delete(ctx, credstore.KeyUserToken); err != nil {
		s.logger.Warn("session_logout_token_delete_failed", slog.Any("error", err))
	}
	if err := s.creds.Delete(ctx, credstore.KeyUserData); err != nil {
		s.logger.Warn("session_logout_user_delete_failed", slog.Any("error", err))
	}

	s.api.ClearAuthToken()

	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.errMsg = ""
	s.isAuthenticated = false
	s.mu.Unlock()
}

/*
Initialize restores a persisted session at startup.

Description: Reads the stored token, validates it, and either rehydrates
the authenticated state (token, profile, API header) or clears the stale
remnants via [Store.Logout]. It never returns an error: every failure path
lands in the signed-out state, and IsLoading() is guaranteed false on return.
*/
func (s *Store) Initialize(ctx context.Context) {
	defer func() {
		s.mu.Lock()
		s.isLoading = false
		s.mu.Unlock()
	}()

	token, err := s.creds.Get(ctx, credstore.KeyUserToken)
	if err != nil {
		s.logger.Warn("session_initialize_read_failed", slog.Any("error", err))
		return
	}
	if token == "" {
		return
	}

	if !s.ValidateToken(ctx) {
		s.logger.Info("session_initialize_stale_token")
		s.Logout(ctx)
		return
	}

	// Rehydrate the profile. A valid token without a readable profile is an
	// inconsistent half-session; tear it all down instead of restoring it.
	raw, err := s.creds.Get(ctx, credstore.KeyUserData)
	if err != nil {
		s.logger.Warn("session_initialize_user_read_failed", slog.Any("error", err))
		s.Logout(ctx)
		return
	}
	if raw == "" {
		s.logger.Info("session_initialize_user_missing")
		s.Logout(ctx)
		return
	}

	user := &auth.User{}
	if err := json.Unmarshal([]byte(raw), user); err != nil {
		s.logger.Warn("session_initialize_user_decode_failed", slog.Any("error", err))
		s.Logout(ctx)
		return
	}

	s.mu.Lock()
	s.token = token
	s.user = user
	s.isAuthenticated = true
	s.mu.Unlock()

	s.api.SetAuthToken(token)
}

// tokenExpiry decodes the exp claim from a JWT without verifying the signature.
func tokenExpiry(token string) (time.Time, error) {
	claims := &jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, jwt.ErrTokenInvalidClaims
	}
	return claims.ExpiresAt.Time, nil
}
