// Copyright (c) 2026 Odara. All rights reserved.

/*
Package onboarding implements the client-side onboarding gate store.

First launches show the intro carousel; once the user finishes (or skips)
it, the completion flag is persisted and the carousel never shows again.
The store also remembers which auth screen the carousel handed off to, so
"Get started" lands on Signup while "I already have an account" lands on
Login after a restart.
*/
package onboarding

import (
	"context"
	"log/slog"
	"sync"

	"github.com/odara-app/odara/internal/app/credstore"
)

// AuthScreen identifies which auth screen the app should land on first.
type AuthScreen string

const (
	// ScreenLogin is the sign-in form. It is the default.
	ScreenLogin AuthScreen = "Login"
	// ScreenSignup is the account creation form.
	ScreenSignup AuthScreen = "Signup"
)

// completedValue is the persisted marker for a finished onboarding.
const completedValue = "true"

// Store holds the onboarding state for the running client.
//
// All methods are safe for concurrent use.
type Store struct {
	creds  credstore.Store
	logger *slog.Logger

	mu                sync.RWMutex
	isCompleted       bool
	initialAuthScreen AuthScreen
	isLoading         bool
}

// NewStore constructs an onboarding [Store].
//
// The store starts in the loading state; call [Store.Initialize] to restore
// the persisted flags.
func NewStore(creds credstore.Store, logger *slog.Logger) *Store {
	return &Store{
		creds:             creds,
		logger:            logger,
		initialAuthScreen: ScreenLogin,
		isLoading:         true,
	}
}

// # State Accessors

// IsCompleted reports whether the user has finished onboarding.
func (s *Store) IsCompleted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isCompleted
}

// IsLoading reports whether [Store.Initialize] has not finished yet.
func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isLoading
}

// InitialAuthScreen returns the auth screen to land on. Defaults to Login.
func (s *Store) InitialAuthScreen() AuthScreen {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialAuthScreen
}

// # Mutations

/*
Initialize restores the persisted onboarding flags at startup.

Description: Never returns an error. Storage failures are logged and leave
the defaults in place (onboarding not completed, Login screen), and
IsLoading() is guaranteed false on return.
*/
func (s *Store) Initialize(ctx context.Context) {
	defer func() {
		s.mu.Lock()
		s.isLoading = false
		s.mu.Unlock()
	}()

	completed, err := s.creds.Get(ctx, credstore.KeyOnboardingCompleted)
	if err != nil {
		s.logger.Warn("onboarding_initialize_read_failed", slog.Any("error", err))
		return
	}

	screen, err := s.creds.Get(ctx, credstore.KeyInitialAuthScreen)
	if err != nil {
		s.logger.Warn("onboarding_initialize_screen_read_failed", slog.Any("error", err))
	}

	s.mu.Lock()
	s.isCompleted = completed == completedValue
	// Unknown stored values fall back to Login
	if screen == string(ScreenSignup) {
		s.initialAuthScreen = ScreenSignup
	} else {
		s.initialAuthScreen = ScreenLogin
	}
	s.mu.Unlock()
}

// Complete marks onboarding as finished and records the auth screen the
// carousel handed off to.
//
// The flags are persisted before the in-memory state flips so a crash
// between the two leaves the durable state ahead, never behind.
func (s *Store) Complete(ctx context.Context, screen AuthScreen) error {
	if screen != ScreenSignup {
		screen = ScreenLogin
	}

	if err := s.creds.Set(ctx, credstore.KeyOnboardingCompleted, completedValue); err != nil {
		return err
	}
	if err := s.creds.Set(ctx, credstore.KeyInitialAuthScreen, string(screen)); err != nil {
		return err
	}

	s.mu.Lock()
	s.isCompleted = true
	s.initialAuthScreen = screen
	s.mu.Unlock()

	return nil
}

// Reset clears the onboarding state so the carousel shows again.
//
// Used by the debug settings screen.
func (s *Store) Reset(ctx context.Context) error {
	if err := s.creds.Delete(ctx, credstore.KeyOnboardingCompleted); err != nil {
		return err
	}
	if err := s.creds.Delete(ctx, credstore.KeyInitialAuthScreen); err != nil {
		return err
	}

	s.mu.Lock()
	s.isCompleted = false
	s.initialAuthScreen = ScreenLogin
	s.mu.Unlock()

	return nil
}
