// Copyright (c) 2026 Odara. All rights reserved.

/*
Package credstore provides the device-local persistent key-value store used
by the client SDK.

It is the Go counterpart of the mobile app's secure storage: the session
token, the cached user profile, and the onboarding flags all live here and
survive process restarts.

# Architecture

  - Store: the small contract the stores program against.
  - SQLiteStore: the file-backed implementation (modernc.org/sqlite, no cgo).
*/
package credstore

import "context"

// Well-known storage keys shared by the session and onboarding stores.
const (
	// KeyUserToken holds the raw bearer JWT.
	KeyUserToken = "userToken"
	// KeyUserData holds the cached user profile as JSON.
	KeyUserData = "userData"
	// KeyOnboardingCompleted holds "true" once the intro carousel was finished.
	KeyOnboardingCompleted = "onboardingCompleted"
	// KeyInitialAuthScreen holds which auth screen to land on ("Login" or "Signup").
	KeyInitialAuthScreen = "initialAuthScreen"
)

// Store is the persistence contract for device-local credentials and flags.
//
// Get returns ("", nil) for absent keys: a missing value is a normal state
// for every key this package stores, not an error.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
