// Copyright (c) 2026 Odara. All rights reserved.

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a brand-new user account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		UpdatePassword replaces only the user's password hash.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - newHash: string

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, userID, newHash string) error

	/*
		MarkVerified updates the user's status to isverified = true.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	MarkVerified(context context.Context, userID string) error
}

// # Volatile Data Access

// OTPRepository defines the contract for storing volatile six digit codes.
//
// Codes are keyed by the account's email address so a resend overwrites the
// previous code instead of accumulating valid codes.
type OTPRepository interface {

	/*
		Set stores a code for an email address with a limited lifetime.

		Parameters:
		  - context: context.Context
		  - email: string
		  - code: string
		  - ttl: time.Duration

		Returns:
		  - error: Persistence failures
	*/
	Set(context context.Context, email, code string, ttl time.Duration) error

	/*
		Get retrieves the active code for an email address.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - string: The stored code
		  - error: apperr.NotFound when absent or expired
	*/
	Get(context context.Context, email string) (string, error)

	/*
		Delete removes the code after successful use.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, email string) error
}
