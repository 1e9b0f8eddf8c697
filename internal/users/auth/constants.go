// Copyright (c) 2026 Odara. All rights reserved.

package auth

import "time"

// # Token Lifetimes

const (
	// SessionTokenTTL is the lifetime of the bearer JWT issued on login,
	// OTP verification, and refresh. The mobile client refreshes well before
	// this window closes.
	SessionTokenTTL = 7 * 24 * time.Hour

	// OTPTTL is the lifetime of the six digit codes used for email
	// verification and password reset.
	OTPTTL = 10 * time.Minute
)

// # Email Content

const (
	verifyEmailSubject = "Your Odara verification code"
	resetEmailSubject  = "Your Odara password reset code"

	verifyEmailBody = "Welcome to Odara!\n\nYour verification code is: %s\n\nIt expires in 10 minutes."
	resetEmailBody  = "Your Odara password reset code is: %s\n\nIt expires in 10 minutes. If you did not request this, you can ignore this email."
)
