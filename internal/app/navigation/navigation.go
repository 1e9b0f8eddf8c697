// Copyright (c) 2026 Odara. All rights reserved.

/*
Package navigation decides which top-level surface of the app is active.

The decision is a pure function of the session and onboarding state, which
keeps it trivially testable and guarantees exactly one surface is mounted
at any time.
*/
package navigation

import (
	"github.com/odara-app/odara/internal/app/onboarding"
)

// Route identifies one of the mutually exclusive top-level surfaces.
type Route string

const (
	// RouteLoading is the splash screen shown while the stores initialize.
	RouteLoading Route = "Loading"
	// RouteOnboarding is the first-launch intro carousel.
	RouteOnboarding Route = "Onboarding"
	// RouteAuthLogin is the sign-in form.
	RouteAuthLogin Route = "AuthLogin"
	// RouteAuthSignup is the account creation form.
	RouteAuthSignup Route = "AuthSignup"
	// RouteApp is the main authenticated shopping experience.
	RouteApp Route = "App"
)

// State is the input snapshot the gate decides on.
type State struct {
	SessionLoading      bool
	OnboardingLoading   bool
	OnboardingCompleted bool
	IsAuthenticated     bool
	InitialAuthScreen   onboarding.AuthScreen
}

// Resolve maps a state snapshot to exactly one [Route].
//
// # Precedence
//
//  1. Loading: until both stores have initialized nothing else may show,
//     otherwise the UI would flash the wrong surface before settling.
//  2. Onboarding: first launch wins over everything below.
//  3. Auth: signed-out users land on the screen onboarding handed off to.
//  4. App: the authenticated experience.
func Resolve(state State) Route {
	if state.SessionLoading || state.OnboardingLoading {
		return RouteLoading
	}

	if !state.OnboardingCompleted {
		return RouteOnboarding
	}

	if !state.IsAuthenticated {
		if state.InitialAuthScreen == onboarding.ScreenSignup {
			return RouteAuthSignup
		}
		return RouteAuthLogin
	}

	return RouteApp
}
