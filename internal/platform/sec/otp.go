// Copyright (c) 2026 Odara. All rights reserved.

package sec

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// OTPDigits is the length of every one-time code sent over email.
const OTPDigits = 6

// GenerateOTP returns a random zero-padded numeric one-time code.
//
// # Security
//
// crypto/rand is used rather than math/rand: OTP codes gate account
// verification and password resets, so predictability is not acceptable.
func GenerateOTP() (string, error) {
	upperBound := big.NewInt(1)
	for i := 0; i < OTPDigits; i++ {
		upperBound.Mul(upperBound, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, upperBound)
	if err != nil {
		return "", fmt.Errorf("sec: failed to generate otp: %w", err)
	}

	return fmt.Sprintf("%0*d", OTPDigits, n), nil
}
