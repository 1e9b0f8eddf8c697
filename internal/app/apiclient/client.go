// Copyright (c) 2026 Odara. All rights reserved.

/*
Package apiclient implements the typed HTTP client the app talks to the
Odara API with.

It owns the transport concerns the individual screens should never see:
attaching the bearer token to every request, decoding the flat JSON wire
format, mapping non-2xx responses to [*APIError], and firing the
session-expired hook when the server answers 401.

# Architecture

  - client.go: transport core (request building, auth header, error mapping).
  - endpoints.go: one typed method per API operation.
*/
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/odara-app/odara/internal/app/credstore"
)

// defaultTimeout bounds every API call end to end.
const defaultTimeout = 10 * time.Second

// ErrMalformedResponse marks a 2xx response whose body is missing fields the
// operation requires. It is distinct from [*APIError] (the server rejected
// the request) and from transport errors (the request never completed).
var ErrMalformedResponse = errors.New("apiclient: malformed response payload")

// APIError is a non-2xx response from the server.
//
// Message carries the server's top-level "message" field, which is the
// string the app surfaces to the user.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

// IsUnauthorized reports whether err is an [*APIError] with status 401.
func IsUnauthorized(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusUnauthorized
}

// UnauthorizedHandler is invoked once per 401 response, after which the
// original error is still returned to the caller.
type UnauthorizedHandler func(ctx context.Context)

// Client is the Odara API client.
//
// All methods are safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      credstore.Store
	logger     *slog.Logger

	mu             sync.RWMutex
	authToken      string
	onUnauthorized UnauthorizedHandler
}

// New constructs a [Client] against the given base URL (e.g.
// "https://api.odara.app").
//
// The credential store supplies the fallback bearer token for requests made
// before the session store has installed the in-memory one.
func New(baseURL string, creds credstore.Store, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		creds:      creds,
		logger:     logger,
	}
}

// # Header Authority

// SetAuthToken installs the default Authorization header for all requests.
func (c *Client) SetAuthToken(token string) {
	c.mu.Lock()
	c.authToken = token
	c.mu.Unlock()
}

// ClearAuthToken removes the default Authorization header.
func (c *Client) ClearAuthToken() {
	c.mu.Lock()
	c.authToken = ""
	c.mu.Unlock()
}

// OnUnauthorized registers the hook fired when the server answers 401.
//
// The session store registers its Logout here; the client never imports the
// session package, which keeps the dependency one-directional.
func (c *Client) OnUnauthorized(handler UnauthorizedHandler) {
	c.mu.Lock()
	c.onUnauthorized = handler
	c.mu.Unlock()
}

// bearerToken resolves the token to attach to a request.
//
// The in-memory token wins; otherwise the persisted one is read. A storage
// read failure is logged and the request proceeds unauthenticated rather
// than failing: the server's 401 is the authoritative answer.
func (c *Client) bearerToken(ctx context.Context) string {
	c.mu.RLock()
	token := c.authToken
	c.mu.RUnlock()

	if token != "" {
		return token
	}

	token, err := c.creds.Get(ctx, credstore.KeyUserToken)
	if err != nil {
		c.logger.Warn("apiclient_token_read_failed", slog.Any("error", err))
		return ""
	}
	return token
}

// # Transport Core

// do executes one API call: marshals body (if any), attaches the bearer
// token, decodes the response into out (if non-nil), and maps non-2xx
// responses to [*APIError].
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("apiclient: marshal failed: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("apiclient: build request failed: %w", err)
	}

	request.Header.Set("Accept", "application/json")
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token := c.bearerToken(ctx); token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("apiclient: %s %s failed: %w", method, path, err)
	}
	defer func() { _ = response.Body.Close() }()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		apiErr := decodeAPIError(response)

		// Session-expired hook. The original error is still returned so the
		// caller sees the failure; the hook only tears the session down.
		if response.StatusCode == http.StatusUnauthorized {
			c.mu.RLock()
			handler := c.onUnauthorized
			c.mu.RUnlock()
			if handler != nil {
				handler(ctx)
			}
		}

		return apiErr
	}

	if out == nil || response.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return fmt.Errorf("apiclient: decode %s %s response failed: %w", method, path, err)
	}

	return nil
}

// decodeAPIError extracts the server's "message" field from an error body.
func decodeAPIError(response *http.Response) *APIError {
	apiErr := &APIError{StatusCode: response.StatusCode}

	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(response.Body).Decode(&envelope); err == nil && envelope.Message != "" {
		apiErr.Message = envelope.Message
	} else {
		apiErr.Message = http.StatusText(response.StatusCode)
	}

	return apiErr
}
