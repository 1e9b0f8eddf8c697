// Copyright (c) 2026 Odara. All rights reserved.

package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/odara-app/odara/internal/catalog"
	"github.com/odara-app/odara/internal/users/auth"
	"github.com/odara-app/odara/pkg/pagination"
)

// # Wire Shapes

// RegisterInput is the signup payload.
type RegisterInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// MessageResult is a response carrying only a human-readable message.
type MessageResult struct {
	Message string `json:"message"`
}

// SuccessResult is a response carrying only a success flag.
type SuccessResult struct {
	Success bool `json:"success"`
}

// LoginResult is the login response.
type LoginResult struct {
	Token string     `json:"token"`
	User  *auth.User `json:"user"`
}

// VerifyOTPResult is the OTP verification response.
type VerifyOTPResult struct {
	Success bool       `json:"success"`
	Token   string     `json:"token"`
	User    *auth.User `json:"user"`
}

// TokenResult is the refresh response.
type TokenResult struct {
	Token string `json:"token"`
}

// UpdateProfileInput is the PATCH /users/me payload. Nil fields are omitted
// so the server leaves them unchanged.
type UpdateProfileInput struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

// ProductQuery holds the list endpoint's query parameters. Zero values are
// omitted from the request.
type ProductQuery struct {
	Q        string
	Category string
	SortBy   string
	SortDir  string
	Page     int
	Limit    int
}

// ProductPage is one page of the catalogue listing.
type ProductPage struct {
	Items []*catalog.Product `json:"items"`
	Meta  pagination.Meta    `json:"meta"`
}

// # Auth Endpoints

// Register creates a new account and triggers the verification email.
func (c *Client) Register(ctx context.Context, input RegisterInput) (*MessageResult, error) {
	out := &MessageResult{}
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", input, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Login authenticates and returns the session token plus profile.
//
// The caller (the session store) is responsible for persisting both.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	out := &LoginResult{}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, out); err != nil {
		return nil, err
	}
	if out.Token == "" || out.User == nil {
		return nil, fmt.Errorf("%w: login response missing token or user", ErrMalformedResponse)
	}
	return out, nil
}

// VerifyOTP confirms the signup code and returns a ready session.
func (c *Client) VerifyOTP(ctx context.Context, email, otp string) (*VerifyOTPResult, error) {
	body := map[string]string{"email": email, "otp": otp}
	out := &VerifyOTPResult{}
	if err := c.do(ctx, http.MethodPost, "/api/auth/verify-otp", body, out); err != nil {
		return nil, err
	}
	if out.Token == "" || out.User == nil {
		return nil, fmt.Errorf("%w: verify-otp response missing token or user", ErrMalformedResponse)
	}
	return out, nil
}

// VerifyResetOTP checks a password reset code without consuming it.
func (c *Client) VerifyResetOTP(ctx context.Context, email, otp string) (*SuccessResult, error) {
	body := map[string]string{"email": email, "otp": otp}
	out := &SuccessResult{}
	if err := c.do(ctx, http.MethodPost, "/api/auth/verify-reset-otp", body, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ForgotPassword requests a reset code for the given email.
func (c *Client) ForgotPassword(ctx context.Context, email string) (*SuccessResult, error) {
	body := map[string]string{"email": email}
	out := &SuccessResult{}
	if err := c.do(ctx, http.MethodPost, "/api/auth/forgot-password", body, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ResetPassword completes the recovery flow with the emailed code.
func (c *Client) ResetPassword(ctx context.Context, email, otp, newPassword string) (*SuccessResult, error) {
	body := map[string]string{"email": email, "otp": otp, "newPassword": newPassword}
	out := &SuccessResult{}
	if err := c.do(ctx, http.MethodPost, "/api/auth/reset-password", body, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ChangePassword rotates the authenticated user's password.
func (c *Client) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	body := map[string]string{"currentPassword": currentPassword, "newPassword": newPassword}
	return c.do(ctx, http.MethodPost, "/api/auth/change-password", body, nil)
}

// Logout reports the client-side logout to the server.
//
// The server acknowledges and does nothing; the session teardown happens
// locally regardless of whether this call succeeds.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

// RefreshToken exchanges the current bearer token for a fresh one.
func (c *Client) RefreshToken(ctx context.Context) (string, error) {
	out := &TokenResult{}
	if err := c.do(ctx, http.MethodPost, "/api/auth/refresh-token", nil, out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", fmt.Errorf("%w: refresh-token response missing token", ErrMalformedResponse)
	}
	return out.Token, nil
}

// # Account Endpoints

// Me fetches the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*auth.User, error) {
	out := &auth.User{}
	if err := c.do(ctx, http.MethodGet, "/api/users/me", nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateMe applies a partial profile update and returns the new profile.
func (c *Client) UpdateMe(ctx context.Context, input UpdateProfileInput) (*auth.User, error) {
	out := &auth.User{}
	if err := c.do(ctx, http.MethodPatch, "/api/users/me", input, out); err != nil {
		return nil, err
	}
	return out, nil
}

// # Catalog Endpoints

// Products fetches one page of the catalogue.
func (c *Client) Products(ctx context.Context, query ProductQuery) (*ProductPage, error) {
	values := url.Values{}
	if query.Q != "" {
		values.Set("q", query.Q)
	}
	if query.Category != "" {
		values.Set("category", query.Category)
	}
	if query.SortBy != "" {
		values.Set("sortBy", query.SortBy)
	}
	if query.SortDir != "" {
		values.Set("sortDir", query.SortDir)
	}
	if query.Page > 0 {
		values.Set("page", strconv.Itoa(query.Page))
	}
	if query.Limit > 0 {
		values.Set("limit", strconv.Itoa(query.Limit))
	}

	path := "/api/products"
	if encoded := values.Encode(); encoded != "" {
		path += "?" + encoded
	}

	out := &ProductPage{}
	if err := c.do(ctx, http.MethodGet, path, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Product fetches a single product by ID or slug.
func (c *Client) Product(ctx context.Context, idOrSlug string) (*catalog.Product, error) {
	out := &catalog.Product{}
	if err := c.do(ctx, http.MethodGet, "/api/products/"+url.PathEscape(idOrSlug), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Wishlist fetches the authenticated user's wishlist.
func (c *Client) Wishlist(ctx context.Context) ([]*catalog.Product, error) {
	var out []*catalog.Product
	if err := c.do(ctx, http.MethodGet, "/api/wishlist", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddToWishlist puts a product on the wishlist.
func (c *Client) AddToWishlist(ctx context.Context, productID string) error {
	return c.do(ctx, http.MethodPut, "/api/wishlist/"+url.PathEscape(productID), nil, nil)
}

// RemoveFromWishlist takes a product off the wishlist.
func (c *Client) RemoveFromWishlist(ctx context.Context, productID string) error {
	return c.do(ctx, http.MethodDelete, "/api/wishlist/"+url.PathEscape(productID), nil, nil)
}
