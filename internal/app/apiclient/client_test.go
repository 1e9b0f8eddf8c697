// Copyright (c) 2026 Odara. All rights reserved.

package apiclient_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odara-app/odara/internal/app/apiclient"
	"github.com/odara-app/odara/internal/app/credstore"
)

var testLogger = slog.New(slog.NewTextHandler(discardWriter{}, &slog.HandlerOptions{Level: slog.LevelError}))

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// memStore is a map-backed credstore.Store.
type memStore struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemStore() *memStore { return &memStore{values: map[string]string{}} }

func (s *memStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key], nil
}

func (s *memStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

/* TestClient_BearerToken verifies how the Authorization header is resolved. */
func TestClient_BearerToken(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(client *apiclient.Client, creds *memStore)
		wantHeader string
	}{
		{
			"no_token_sends_no_header",
			func(*apiclient.Client, *memStore) {},
			"",
		},
		{
			"in_memory_token",
			func(client *apiclient.Client, _ *memStore) {
				client.SetAuthToken("mem-token")
			},
			"Bearer mem-token",
		},
		{
			"falls_back_to_persisted_token",
			func(_ *apiclient.Client, creds *memStore) {
				creds.values[credstore.KeyUserToken] = "stored-token"
			},
			"Bearer stored-token",
		},
		{
			"in_memory_wins_over_persisted",
			func(client *apiclient.Client, creds *memStore) {
				creds.values[credstore.KeyUserToken] = "stored-token"
				client.SetAuthToken("mem-token")
			},
			"Bearer mem-token",
		},
		{
			"cleared_token_falls_back",
			func(client *apiclient.Client, creds *memStore) {
				creds.values[credstore.KeyUserToken] = "stored-token"
				client.SetAuthToken("mem-token")
				client.ClearAuthToken()
			},
			"Bearer stored-token",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var gotHeader string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotHeader = r.Header.Get("Authorization")
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"id":"user-1","firstName":"Ava","lastName":"Stone","email":"ava@odara.app","isVerified":true}`))
			}))
			defer server.Close()

			creds := newMemStore()
			client := apiclient.New(server.URL, creds, testLogger)
			tc.setup(client, creds)

			_, err := client.Me(context.Background())

			require.NoError(t, err)
			assert.Equal(t, tc.wantHeader, gotHeader)
		})
	}
}

/* TestClient_Login verifies the login roundtrip decodes the flat payload. */
func TestClient_Login(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"jwt-abc","user":{"id":"user-1","email":"ava@odara.app"}}`))
	}))
	defer server.Close()

	client := apiclient.New(server.URL, newMemStore(), testLogger)

	result, err := client.Login(context.Background(), "ava@odara.app", "hunter22")

	require.NoError(t, err)
	assert.Equal(t, "jwt-abc", result.Token)
	require.NotNil(t, result.User)
	assert.Equal(t, "user-1", result.User.ID)
}

/* TestClient_MalformedSuccess verifies a 200 missing required fields is a
failure distinct from server rejections and transport errors. */
func TestClient_MalformedSuccess(t *testing.T) {
	newServer := func(body string) *httptest.Server {
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(body))
		}))
	}

	t.Run("login_without_token_and_user", func(t *testing.T) {
		server := newServer(`{}`)
		defer server.Close()
		client := apiclient.New(server.URL, newMemStore(), testLogger)

		result, err := client.Login(context.Background(), "ava@odara.app", "hunter22")

		require.ErrorIs(t, err, apiclient.ErrMalformedResponse)
		assert.Nil(t, result)

		// Not a server rejection: the APIError mapping must not apply.
		var apiErr *apiclient.APIError
		assert.False(t, errors.As(err, &apiErr))
	})

	t.Run("login_with_token_but_no_user", func(t *testing.T) {
		server := newServer(`{"token":"jwt-abc"}`)
		defer server.Close()
		client := apiclient.New(server.URL, newMemStore(), testLogger)

		_, err := client.Login(context.Background(), "ava@odara.app", "hunter22")

		require.ErrorIs(t, err, apiclient.ErrMalformedResponse)
	})

	t.Run("verify_otp_without_session", func(t *testing.T) {
		server := newServer(`{"success":true}`)
		defer server.Close()
		client := apiclient.New(server.URL, newMemStore(), testLogger)

		_, err := client.VerifyOTP(context.Background(), "ava@odara.app", "123456")

		require.ErrorIs(t, err, apiclient.ErrMalformedResponse)
	})

	t.Run("refresh_without_token", func(t *testing.T) {
		server := newServer(`{}`)
		defer server.Close()
		client := apiclient.New(server.URL, newMemStore(), testLogger)

		_, err := client.RefreshToken(context.Background())

		require.ErrorIs(t, err, apiclient.ErrMalformedResponse)
	})
}

/* TestClient_ErrorMapping verifies non-2xx responses become APIError values. */
func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{"server_message_used", http.StatusConflict, `{"message":"Email already registered"}`, "Email already registered"},
		{"empty_body_falls_back_to_status_text", http.StatusInternalServerError, ``, "Internal Server Error"},
		{"non_json_body_falls_back", http.StatusBadGateway, `<html>bad gateway</html>`, "Bad Gateway"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client := apiclient.New(server.URL, newMemStore(), testLogger)

			_, err := client.Me(context.Background())

			require.Error(t, err)
			apiErr, ok := err.(*apiclient.APIError)
			require.True(t, ok)
			assert.Equal(t, tc.status, apiErr.StatusCode)
			assert.Equal(t, tc.wantMessage, apiErr.Message)
		})
	}
}

/* TestClient_UnauthorizedHook verifies the 401 hook fires and the original
error still reaches the caller. */
func TestClient_UnauthorizedHook(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Session expired"}`))
	}))
	defer server.Close()

	client := apiclient.New(server.URL, newMemStore(), testLogger)

	var hookCalls int
	client.OnUnauthorized(func(context.Context) { hookCalls++ })

	_, err := client.Me(context.Background())

	require.Error(t, err)
	assert.True(t, apiclient.IsUnauthorized(err))
	assert.Equal(t, 1, hookCalls)

	apiErr, ok := err.(*apiclient.APIError)
	require.True(t, ok)
	assert.Equal(t, "Session expired", apiErr.Message)
}

/* TestClient_UnauthorizedHook_NotFiredOnOtherStatuses verifies only 401 triggers teardown. */
func TestClient_UnauthorizedHook_NotFiredOnOtherStatuses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"Please verify your email before logging in"}`))
	}))
	defer server.Close()

	client := apiclient.New(server.URL, newMemStore(), testLogger)

	var hookCalls int
	client.OnUnauthorized(func(context.Context) { hookCalls++ })

	_, err := client.Me(context.Background())

	require.Error(t, err)
	assert.False(t, apiclient.IsUnauthorized(err))
	assert.Zero(t, hookCalls)
}

/* TestClient_NoContent verifies 204 responses complete without decoding. */
func TestClient_NoContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/wishlist/prod-1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := apiclient.New(server.URL, newMemStore(), testLogger)

	require.NoError(t, client.AddToWishlist(context.Background(), "prod-1"))
}

/* TestClient_Products verifies query parameter encoding and page decoding. */
func TestClient_Products(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products", r.URL.Path)
		assert.Equal(t, "shoes", r.URL.Query().Get("category"))
		assert.Equal(t, "sneaker", r.URL.Query().Get("q"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Empty(t, r.URL.Query().Get("sortBy"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"items": [{"id":"prod-1","name":"Air Runner","slug":"air-runner","category":"shoes","priceCents":12900,"currency":"USD"}],
			"meta": {"page":2,"limit":20,"total":21,"total_pages":2}
		}`))
	}))
	defer server.Close()

	client := apiclient.New(server.URL, newMemStore(), testLogger)

	page, err := client.Products(context.Background(), apiclient.ProductQuery{
		Q:        "sneaker",
		Category: "shoes",
		Page:     2,
	})

	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "air-runner", page.Items[0].Slug)
	assert.Equal(t, 2, page.Meta.Page)
}
