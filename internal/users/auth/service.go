// Copyright (c) 2026 Odara. All rights reserved.

package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/odara-app/odara/internal/platform/apperr"
	"github.com/odara-app/odara/internal/platform/ctxutil"
	"github.com/odara-app/odara/internal/platform/sec"
	"github.com/odara-app/odara/pkg/uuidv7"
)

// # Contracts & Types

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - email: The email of the account.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an err if signing fails.
	GenerateAccessToken(userID, email string, timeToLive time.Duration) (string, error)
}

// Mailer defines the contract for delivering OTP emails.
//
// Declared here (not in the email package) so the service depends only on
// what it needs and tests can inject a recorder.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed by the security team.
type Service struct {
	userRepository UserRepository
	verifyOTPRepo  OTPRepository
	resetOTPRepo   OTPRepository
	tokenProvider  TokenProvider
	mailer         Mailer
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	verifyOTPRepo OTPRepository,
	resetOTPRepo OTPRepository,
	tokenProv TokenProvider,
	mailer Mailer,
) *Service {
	return &Service{
		userRepository: userRepo,
		verifyOTPRepo:  verifyOTPRepo,
		resetOTPRepo:   resetOTPRepo,
		tokenProvider:  tokenProv,
		mailer:         mailer,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Enrolls a new member, hashes the password, and emails a six
digit verification code. The account stays unverified until the code is
confirmed via [Service.VerifyEmailOTP].

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - err: Conflict (if identity exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {

	// Verify email uniqueness. Return a client-safe Conflict err.
	_, err := service.userRepository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuidv7.New(),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        strings.ToLower(input.Email),
		PasswordHash: hashedPassword,
		IsVerified:   false,
	}

	// Persist the user to the database
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	// Generate and deliver the verification code
	if err := service.issueOTP(context, user.Email, service.verifyOTPRepo, verifyEmailSubject, verifyEmailBody); err != nil {
		return nil, err
	}

	return user, nil
}

// issueOTP generates a code, stores it in the given repository, and emails it.
//
// Delivery failure is logged but not returned. The user can request a fresh
// code; failing the whole registration over a flaky SMTP relay would strand
// an already-created account.
func (service *Service) issueOTP(context context.Context, email string, repo OTPRepository, subject, bodyTemplate string) error {
	code, err := sec.GenerateOTP()
	if err != nil {
		return fmt.Errorf("auth_service_otp_generation_failed: %w", err)
	}

	if err := repo.Set(context, email, code, OTPTTL); err != nil {
		return fmt.Errorf("auth_service_otp_store_failed: %w", err)
	}

	if err := service.mailer.Send(context, email, subject, fmt.Sprintf(bodyTemplate, code)); err != nil {
		ctxutil.GetLogger(context).Warn("auth_otp_email_delivery_failed",
			slog.String("email", email),
			slog.Any("error", err),
		)
	}

	return nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

// LoginSession represents a successfully authenticated user.
type LoginSession struct {
	Token string
	User  *User
}

/*
Login validates user credentials and issues a bearer token.

Description: Verifies identity via constant-time password comparison and
issues a signed session JWT. Unverified accounts are rejected so the client
can route the user back to the OTP screen.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Transport-ready token and user profile
  - err: Unauthorized, Forbidden, or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {

	// If (err != nil) the user does not exist. Generic message to prevent enumeration.
	user, err := service.userRepository.FindByEmail(context, input.Email)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid email or password")
	}

	// Verify password hash using constant-time comparison in bcrypt to prevent timing attacks
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid email or password")
	}

	// Accounts must complete OTP verification before they can hold a session
	if !user.IsVerified {
		return nil, apperr.Forbidden("Please verify your email before logging in")
	}

	token, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Email, SessionTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	return &LoginSession{Token: token, User: user}, nil
}

/*
RefreshToken reissues a session token for an authenticated user.

Description: The session model is stateless, so refresh simply verifies the
account still exists and mints a fresh JWT with a full lifetime. The caller
is expected to hold a currently valid bearer token.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - string: The new bearer token
  - err: Unauthorized or signing failures
*/
func (service *Service) RefreshToken(context context.Context, userID string) (string, error) {

	// Re-resolve the account so deleted users cannot extend their session
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return "", apperr.Unauthorized("User not found or deactivated")
	}

	token, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Email, SessionTokenTTL)
	if err != nil {
		return "", fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	return token, nil
}

// # Email Verification

/*
VerifyEmailOTP confirms an account using the emailed six digit code.

Description: Compares the submitted code against the stored one, marks the
account verified, consumes the code, and issues a session token so the
client can log the user straight in.

Parameters:
  - context: context.Context
  - email: string
  - code: string

Returns:
  - *LoginSession: Fresh session for the now-verified account
  - err: Unauthorized (wrong/expired code) or storage failures
*/
func (service *Service) VerifyEmailOTP(context context.Context, email, code string) (*LoginSession, error) {

	if err := service.checkOTP(context, service.verifyOTPRepo, email, code); err != nil {
		return nil, err
	}

	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired code")
	}

	if err := service.userRepository.MarkVerified(context, user.ID); err != nil {
		return nil, fmt.Errorf("auth_service_verify_email_failed: %w", err)
	}
	user.IsVerified = true

	// Consume the code so it cannot be replayed
	_ = service.verifyOTPRepo.Delete(context, email)

	token, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Email, SessionTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_verify_token_failed: %w", err)
	}

	return &LoginSession{Token: token, User: user}, nil
}

// checkOTP compares a submitted code against the stored one in constant time.
func (service *Service) checkOTP(context context.Context, repo OTPRepository, email, code string) error {
	stored, err := repo.Get(context, email)
	if err != nil {
		return apperr.Unauthorized("Invalid or expired code")
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return apperr.Unauthorized("Invalid or expired code")
	}

	return nil
}

// # Password Recovery

/*
RequestPasswordReset initiates the forgot-password flow.

Description: Generates a reset code and emails it to the account.

NOTE: Returns nil when the email is unknown to prevent user enumeration.
The client shows the same "check your inbox" message either way.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - err: Generation or storage errors
*/
func (service *Service) RequestPasswordReset(context context.Context, email string) error {
	_, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		return nil
	}

	return service.issueOTP(context, strings.ToLower(email), service.resetOTPRepo, resetEmailSubject, resetEmailBody)
}

/*
VerifyResetOTP checks a reset code without consuming it.

Description: Lets the client confirm the code on its own screen before the
user types a new password. The code is only consumed by [Service.ResetPassword].

Parameters:
  - context: context.Context
  - email: string
  - code: string

Returns:
  - err: Unauthorized when the code is wrong or expired
*/
func (service *Service) VerifyResetOTP(context context.Context, email, code string) error {
	return service.checkOTP(context, service.resetOTPRepo, email, code)
}

/*
ResetPassword completes the forgot-password flow.

Description: Verifies the reset code, hashes the new password, updates the
account, and consumes the code.

Parameters:
  - context: context.Context
  - email: string
  - code: string
  - newPassword: string

Returns:
  - err: Validation or update failures
*/
func (service *Service) ResetPassword(context context.Context, email, code, newPassword string) error {

	if err := service.checkOTP(context, service.resetOTPRepo, email, code); err != nil {
		return err
	}

	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		return apperr.Unauthorized("Invalid or expired code")
	}

	// Hash the new password securely
	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_reset_password_hash_failed: %w", err)
	}

	// Update the user's password in persistent storage
	if err := service.userRepository.UpdatePassword(context, user.ID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_reset_password_update_failed: %w", err)
	}

	// Delete the used code from Redis
	_ = service.resetOTPRepo.Delete(context, email)

	return nil
}

/*
ChangePassword allows an authenticated user to update their credentials.

Description: Verifies the current password before applying the new hash.

Parameters:
  - context: context.Context
  - userID: string
  - currentPassword: string
  - newPassword: string

Returns:
  - err: Unauthorized or storage failures
*/
func (service *Service) ChangePassword(context context.Context, userID, currentPassword, newPassword string) error {

	// Fetch user by ID
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return err
	}

	// Verify the current password before allowing change
	if !sec.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperr.Unauthorized("Current password is incorrect")
	}

	// Hash the brand new password
	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_change_password_hash_failed: %w", err)
	}

	// Update the database with the new hash
	if err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_change_password_update_failed: %w", err)
	}

	return nil
}
