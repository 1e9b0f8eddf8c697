// Copyright (c) 2026 Odara. All rights reserved.

/*
Package auth implements the user identity and account lifecycle layer.

It defines the core domain entity (User) and the logic for registration,
login, OTP-based email verification, and password recovery.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.
*/
package auth

import "time"

// # Domain Entities

// User represents a registered member of the Odara storefront.
//
// JSON tags use camelCase because the mobile client persists this object
// verbatim and reads firstName/lastName/avatarUrl from it.
type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	AvatarURL    string    `json:"avatarUrl,omitempty"`
	IsVerified   bool      `json:"isVerified"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// # Field Identifiers

// Wire-level field names for validation and identity mapping in the auth domain.
const (
	FieldFirstName       = "firstName"
	FieldLastName        = "lastName"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldOTP             = "otp"
	FieldCurrentPassword = "currentPassword"
	FieldNewPassword     = "newPassword"
)
