// Copyright (c) 2026 Odara. All rights reserved.

package session_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odara-app/odara/internal/app/credstore"
	"github.com/odara-app/odara/internal/app/session"
	"github.com/odara-app/odara/internal/platform/sec"
	"github.com/odara-app/odara/internal/users/auth"
)

// memStore is an in-memory credstore.Store with optional error injection.
type memStore struct {
	mu     sync.Mutex
	values map[string]string

	getErr    error
	setErr    error
	deleteErr error
}

func newMemStore() *memStore {
	return &memStore{values: map[string]string{}}
}

func (s *memStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return "", s.getErr
	}
	return s.values[key], nil
}

func (s *memStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.values[key] = value
	return nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.values, key)
	return nil
}

// headerRecorder records calls made through the session.HeaderAuthority interface.
type headerRecorder struct {
	mu         sync.Mutex
	token      string
	setCalls   int
	clearCalls int
}

func (r *headerRecorder) SetAuthToken(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.token = token
	r.setCalls++
}

func (r *headerRecorder) ClearAuthToken() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.token = ""
	r.clearCalls++
}

var testLogger = slog.New(slog.NewTextHandler(testWriter{}, &slog.HandlerOptions{Level: slog.LevelError}))

type testWriter struct{}

func (testWriter) Write(p []byte) (int, error) { return len(p), nil }

/* signedToken mints a real HS256 token with the given remaining lifetime. */
func signedToken(t *testing.T, timeToLive time.Duration) string {
	t.Helper()

	tokens, err := sec.NewTokenService("test-secret", "odara.app")
	require.NoError(t, err)

	token, err := tokens.GenerateAccessToken("user-1", "ava@odara.app", timeToLive)
	require.NoError(t, err)

	return token
}

/* tokenWithoutExpiry mints a syntactically valid JWT that carries no exp claim. */
func tokenWithoutExpiry(t *testing.T) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "user-1",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	return token
}

/* TestStore_NewStore verifies the store starts loading and signed out. */
func TestStore_NewStore(t *testing.T) {
	store := session.NewStore(newMemStore(), &headerRecorder{}, testLogger)

	assert.True(t, store.IsLoading())
	assert.False(t, store.IsAuthenticated())
	assert.Equal(t, "", store.Token())
	assert.Nil(t, store.User())
}

/* TestStore_SetToken verifies persistence, state, and header installation. */
func TestStore_SetToken(t *testing.T) {
	creds := newMemStore()
	api := &headerRecorder{}
	store := session.NewStore(creds, api, testLogger)
	token := signedToken(t, time.Hour)

	require.NoError(t, store.SetToken(context.Background(), token))

	assert.True(t, store.IsAuthenticated())
	assert.Equal(t, token, store.Token())
	assert.Equal(t, token, api.token)
	assert.Equal(t, token, creds.values[credstore.KeyUserToken])
}

/* TestStore_SetToken_EmptyRejected verifies an empty token cannot authenticate the store. */
func TestStore_SetToken_EmptyRejected(t *testing.T) {
	creds := newMemStore()
	api := &headerRecorder{}
	store := session.NewStore(creds, api, testLogger)

	err := store.SetToken(context.Background(), "")

	require.ErrorIs(t, err, session.ErrEmptyToken)
	assert.False(t, store.IsAuthenticated())
	assert.Equal(t, "", store.Token())
	assert.Zero(t, api.setCalls)
	assert.Empty(t, creds.values)
}

/* TestStore_SetToken_StorageFailure verifies a failed write leaves the store signed out. */
func TestStore_SetToken_StorageFailure(t *testing.T) {
	creds := newMemStore()
	creds.setErr = errors.New("disk full")
	api := &headerRecorder{}
	store := session.NewStore(creds, api, testLogger)

	err := store.SetToken(context.Background(), signedToken(t, time.Hour))

	require.Error(t, err)
	assert.False(t, store.IsAuthenticated())
	assert.Equal(t, "", store.Token())
	assert.Zero(t, api.setCalls)
}

/* TestStore_SetToken_UndecodableToken verifies a fresh but opaque token is still accepted. */
func TestStore_SetToken_UndecodableToken(t *testing.T) {
	store := session.NewStore(newMemStore(), &headerRecorder{}, testLogger)

	require.NoError(t, store.SetToken(context.Background(), "not-a-jwt"))

	assert.True(t, store.IsAuthenticated())
}

/* TestStore_SetUser verifies the profile roundtrips through storage. */
func TestStore_SetUser(t *testing.T) {
	creds := newMemStore()
	store := session.NewStore(creds, &headerRecorder{}, testLogger)
	user := &auth.User{ID: "user-1", FirstName: "Ava", Email: "ava@odara.app"}

	require.NoError(t, store.SetUser(context.Background(), user))

	assert.Equal(t, user, store.User())
	assert.Contains(t, creds.values[credstore.KeyUserData], `"ava@odara.app"`)
}

/* TestStore_SetUser_MissingID verifies a profile without an ID is rejected. */
func TestStore_SetUser_MissingID(t *testing.T) {
	creds := newMemStore()
	store := session.NewStore(creds, &headerRecorder{}, testLogger)

	t.Run("nil_user", func(t *testing.T) {
		err := store.SetUser(context.Background(), nil)

		require.ErrorIs(t, err, session.ErrMissingUserID)
	})

	t.Run("empty_id", func(t *testing.T) {
		err := store.SetUser(context.Background(), &auth.User{FirstName: "Ava"})

		require.ErrorIs(t, err, session.ErrMissingUserID)
		assert.Nil(t, store.User())
		assert.Empty(t, creds.values)
	})
}

/* TestStore_ErrorMessage covers the surfaced auth error lifecycle. */
func TestStore_ErrorMessage(t *testing.T) {
	store := session.NewStore(newMemStore(), &headerRecorder{}, testLogger)
	ctx := context.Background()

	assert.Equal(t, "", store.ErrorMessage())

	store.SetError("Invalid email or password")
	assert.Equal(t, "Invalid email or password", store.ErrorMessage())

	store.ClearError()
	assert.Equal(t, "", store.ErrorMessage())

	// Logout wipes any lingering error along with the rest of the state.
	store.SetError("Session expired")
	store.Logout(ctx)
	assert.Equal(t, "", store.ErrorMessage())
}

/* TestStore_ValidateToken exercises the expiry buffer edge cases. */
func TestStore_ValidateToken(t *testing.T) {
	tests := []struct {
		name  string
		token func(t *testing.T) string
		want  bool
	}{
		{"no_token", func(*testing.T) string { return "" }, false},
		{"valid_with_lifetime_left", func(t *testing.T) string { return signedToken(t, time.Hour) }, true},
		{"expired", func(t *testing.T) string { return signedToken(t, -time.Minute) }, false},
		{"inside_expiry_buffer", func(t *testing.T) string { return signedToken(t, 30*time.Second) }, false},
		{"just_outside_expiry_buffer", func(t *testing.T) string { return signedToken(t, 5*time.Minute) }, true},
		{"undecodable", func(*testing.T) string { return "not-a-jwt" }, false},
		{"missing_exp_claim", tokenWithoutExpiry, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			creds := newMemStore()
			if token := tc.token(t); token != "" {
				creds.values[credstore.KeyUserToken] = token
			}
			store := session.NewStore(creds, &headerRecorder{}, testLogger)

			assert.Equal(t, tc.want, store.ValidateToken(context.Background()))
		})
	}
}

/* TestStore_ValidateToken_StorageFailure verifies a read failure counts as invalid. */
func TestStore_ValidateToken_StorageFailure(t *testing.T) {
	creds := newMemStore()
	creds.getErr = errors.New("io error")
	store := session.NewStore(creds, &headerRecorder{}, testLogger)

	assert.False(t, store.ValidateToken(context.Background()))
}

/* TestStore_Logout verifies full teardown and idempotence. */
func TestStore_Logout(t *testing.T) {
	creds := newMemStore()
	api := &headerRecorder{}
	store := session.NewStore(creds, api, testLogger)
	ctx := context.Background()

	require.NoError(t, store.SetToken(ctx, signedToken(t, time.Hour)))
	require.NoError(t, store.SetUser(ctx, &auth.User{ID: "user-1"}))

	store.Logout(ctx)

	assert.False(t, store.IsAuthenticated())
	assert.Equal(t, "", store.Token())
	assert.Nil(t, store.User())
	assert.Equal(t, "", api.token)
	assert.Empty(t, creds.values)

	// Second logout is a no-op that must not panic or resurrect state.
	store.Logout(ctx)
	assert.False(t, store.IsAuthenticated())
}

/* TestStore_Logout_StorageFailure verifies logout completes even when deletes fail. */
func TestStore_Logout_StorageFailure(t *testing.T) {
	creds := newMemStore()
	api := &headerRecorder{}
	store := session.NewStore(creds, api, testLogger)
	ctx := context.Background()

	require.NoError(t, store.SetToken(ctx, signedToken(t, time.Hour)))
	creds.deleteErr = errors.New("io error")

	store.Logout(ctx)

	assert.False(t, store.IsAuthenticated())
	assert.Equal(t, 1, api.clearCalls)
}

/* TestStore_Initialize covers the startup restoration scenarios. */
func TestStore_Initialize(t *testing.T) {
	ctx := context.Background()

	t.Run("no_persisted_session", func(t *testing.T) {
		store := session.NewStore(newMemStore(), &headerRecorder{}, testLogger)

		store.Initialize(ctx)

		assert.False(t, store.IsLoading())
		assert.False(t, store.IsAuthenticated())
	})

	t.Run("valid_session_restored", func(t *testing.T) {
		creds := newMemStore()
		api := &headerRecorder{}
		token := signedToken(t, time.Hour)
		creds.values[credstore.KeyUserToken] = token
		creds.values[credstore.KeyUserData] = `{"id":"user-1","firstName":"Ava","email":"ava@odara.app"}`
		store := session.NewStore(creds, api, testLogger)

		store.Initialize(ctx)

		assert.False(t, store.IsLoading())
		assert.True(t, store.IsAuthenticated())
		assert.Equal(t, token, store.Token())
		assert.Equal(t, token, api.token)
		require.NotNil(t, store.User())
		assert.Equal(t, "Ava", store.User().FirstName)
	})

	t.Run("stale_token_cleared", func(t *testing.T) {
		creds := newMemStore()
		api := &headerRecorder{}
		creds.values[credstore.KeyUserToken] = signedToken(t, -time.Minute)
		creds.values[credstore.KeyUserData] = `{"id":"user-1"}`
		store := session.NewStore(creds, api, testLogger)

		store.Initialize(ctx)

		assert.False(t, store.IsLoading())
		assert.False(t, store.IsAuthenticated())
		assert.Empty(t, creds.values)
		assert.Equal(t, 1, api.clearCalls)
	})

	t.Run("corrupt_profile_tears_session_down", func(t *testing.T) {
		creds := newMemStore()
		api := &headerRecorder{}
		creds.values[credstore.KeyUserToken] = signedToken(t, time.Hour)
		creds.values[credstore.KeyUserData] = `{{{not json`
		store := session.NewStore(creds, api, testLogger)

		store.Initialize(ctx)

		assert.False(t, store.IsAuthenticated())
		assert.Equal(t, "", store.Token())
		assert.Nil(t, store.User())
		assert.Empty(t, creds.values)
		assert.Equal(t, 1, api.clearCalls)
	})

	t.Run("missing_profile_tears_session_down", func(t *testing.T) {
		creds := newMemStore()
		api := &headerRecorder{}
		creds.values[credstore.KeyUserToken] = signedToken(t, time.Hour)
		store := session.NewStore(creds, api, testLogger)

		store.Initialize(ctx)

		assert.False(t, store.IsAuthenticated())
		assert.Equal(t, "", store.Token())

		// The orphaned token must not survive for the next launch either.
		assert.Empty(t, creds.values)
		assert.Equal(t, 1, api.clearCalls)
	})

	t.Run("storage_failure_degrades_to_signed_out", func(t *testing.T) {
		creds := newMemStore()
		creds.getErr = errors.New("io error")
		store := session.NewStore(creds, &headerRecorder{}, testLogger)

		store.Initialize(ctx)

		assert.False(t, store.IsLoading())
		assert.False(t, store.IsAuthenticated())
	})
}

/* TestStore_AuthenticatedImpliesToken guards the core invariant across mutations. */
func TestStore_AuthenticatedImpliesToken(t *testing.T) {
	store := session.NewStore(newMemStore(), &headerRecorder{}, testLogger)
	ctx := context.Background()

	store.Initialize(ctx)
	if store.IsAuthenticated() {
		assert.NotEmpty(t, store.Token())
	}

	require.NoError(t, store.SetToken(ctx, signedToken(t, time.Hour)))
	if store.IsAuthenticated() {
		assert.NotEmpty(t, store.Token())
	}

	store.Logout(ctx)
	if store.IsAuthenticated() {
		assert.NotEmpty(t, store.Token())
	}
}
