// Copyright (c) 2026 Odara. All rights reserved.

package auth_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odara-app/odara/internal/platform/apperr"
	"github.com/odara-app/odara/internal/platform/sec"
	"github.com/odara-app/odara/internal/users/auth"
)

// # Fakes

// fakeUserRepo is an in-memory auth.UserRepository. Email lookups are
// case-insensitive, matching the production store.
type fakeUserRepo struct {
	mu      sync.Mutex
	byID    map[string]*auth.User
	byEmail map[string]*auth.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    map[string]*auth.User{},
		byEmail: map[string]*auth.User{},
	}
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byID[id]
	if !ok {
		return nil, apperr.NotFound("User not found")
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, apperr.NotFound("User not found with this email")
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *auth.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *user
	r.byID[user.ID] = &copied
	r.byEmail[strings.ToLower(user.Email)] = &copied
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, userID, newHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byID[userID]
	if !ok {
		return apperr.NotFound("User not found")
	}
	user.PasswordHash = newHash
	return nil
}

func (r *fakeUserRepo) MarkVerified(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byID[userID]
	if !ok {
		return apperr.NotFound("User not found")
	}
	user.IsVerified = true
	return nil
}

// fakeOTPRepo is an in-memory auth.OTPRepository keyed by lowercased email.
type fakeOTPRepo struct {
	mu    sync.Mutex
	codes map[string]string
}

func newFakeOTPRepo() *fakeOTPRepo { return &fakeOTPRepo{codes: map[string]string{}} }

func (r *fakeOTPRepo) Set(_ context.Context, email, code string, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes[strings.ToLower(email)] = code
	return nil
}

func (r *fakeOTPRepo) Get(_ context.Context, email string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	code, ok := r.codes[strings.ToLower(email)]
	if !ok {
		return "", apperr.NotFound("Code is invalid or expired")
	}
	return code, nil
}

func (r *fakeOTPRepo) Delete(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.codes, strings.ToLower(email))
	return nil
}

// fakeTokens mints predictable tokens.
type fakeTokens struct{}

func (fakeTokens) GenerateAccessToken(userID, _ string, _ time.Duration) (string, error) {
	return "token-for-" + userID, nil
}

// recorderMailer records sends and optionally fails every delivery.
type recorderMailer struct {
	mu      sync.Mutex
	sendErr error
	sent    []sentMail
}

type sentMail struct {
	to      string
	subject string
	body    string
}

func (m *recorderMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

// testHarness bundles a service with its fakes for inspection.
type testHarness struct {
	service *auth.Service
	users   *fakeUserRepo
	verify  *fakeOTPRepo
	reset   *fakeOTPRepo
	mailer  *recorderMailer
}

func newHarness() *testHarness {
	users := newFakeUserRepo()
	verify := newFakeOTPRepo()
	reset := newFakeOTPRepo()
	mailer := &recorderMailer{}

	return &testHarness{
		service: auth.NewService(users, verify, reset, fakeTokens{}, mailer),
		users:   users,
		verify:  verify,
		reset:   reset,
		mailer:  mailer,
	}
}

// registerVerified enrolls and verifies an account, returning it signed in.
func registerVerified(t *testing.T, h *testHarness, email, password string) *auth.User {
	t.Helper()
	ctx := context.Background()

	_, err := h.service.Register(ctx, auth.RegisterInput{
		FirstName: "Ava",
		LastName:  "Stone",
		Email:     email,
		Password:  password,
	})
	require.NoError(t, err)

	code, err := h.verify.Get(ctx, email)
	require.NoError(t, err)

	session, err := h.service.VerifyEmailOTP(ctx, email, code)
	require.NoError(t, err)

	return session.User
}

// # Registration

/* TestService_Register verifies the enrollment happy path. */
func TestService_Register(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	user, err := h.service.Register(ctx, auth.RegisterInput{
		FirstName: "Ava",
		LastName:  "Stone",
		Email:     "Ava@Odara.app",
		Password:  "hunter22!",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "ava@odara.app", user.Email)
	assert.False(t, user.IsVerified)
	assert.NotEqual(t, "hunter22!", user.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("hunter22!", user.PasswordHash))

	// A verification code was stored and emailed.
	code, err := h.verify.Get(ctx, "ava@odara.app")
	require.NoError(t, err)
	require.Len(t, h.mailer.sent, 1)
	assert.Equal(t, "ava@odara.app", h.mailer.sent[0].to)
	assert.Contains(t, h.mailer.sent[0].body, code)
}

/* TestService_Register_DuplicateEmail verifies the conflict guard. */
func TestService_Register_DuplicateEmail(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	input := auth.RegisterInput{FirstName: "Ava", LastName: "Stone", Email: "ava@odara.app", Password: "hunter22!"}

	_, err := h.service.Register(ctx, input)
	require.NoError(t, err)

	_, err = h.service.Register(ctx, input)

	require.Error(t, err)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "CONFLICT", appErr.Code)
}

/* TestService_Register_MailFailureDoesNotStrandAccount verifies a flaky SMTP
relay does not fail the registration. */
func TestService_Register_MailFailureDoesNotStrandAccount(t *testing.T) {
	h := newHarness()
	h.mailer.sendErr = errors.New("smtp timeout")
	ctx := context.Background()

	user, err := h.service.Register(ctx, auth.RegisterInput{
		FirstName: "Ava", LastName: "Stone", Email: "ava@odara.app", Password: "hunter22!",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)

	// The code is stored even though delivery failed, so a resend can reuse the flow.
	_, err = h.verify.Get(ctx, "ava@odara.app")
	assert.NoError(t, err)
}

// # Login

/* TestService_Login covers credential verification outcomes. */
func TestService_Login(t *testing.T) {
	t.Run("verified_account_gets_session", func(t *testing.T) {
		h := newHarness()
		user := registerVerified(t, h, "ava@odara.app", "hunter22!")

		session, err := h.service.Login(context.Background(), auth.LoginInput{
			Email:    "ava@odara.app",
			Password: "hunter22!",
		})

		require.NoError(t, err)
		assert.Equal(t, "token-for-"+user.ID, session.Token)
		assert.Equal(t, user.ID, session.User.ID)
	})

	t.Run("wrong_password_is_generic_unauthorized", func(t *testing.T) {
		h := newHarness()
		registerVerified(t, h, "ava@odara.app", "hunter22!")

		_, err := h.service.Login(context.Background(), auth.LoginInput{
			Email:    "ava@odara.app",
			Password: "wrong",
		})

		appErr := apperr.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, "UNAUTHORIZED", appErr.Code)
		assert.Equal(t, "Invalid email or password", appErr.Message)
	})

	t.Run("unknown_email_is_same_generic_unauthorized", func(t *testing.T) {
		h := newHarness()

		_, err := h.service.Login(context.Background(), auth.LoginInput{
			Email:    "nobody@odara.app",
			Password: "hunter22!",
		})

		appErr := apperr.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, "Invalid email or password", appErr.Message)
	})

	t.Run("unverified_account_is_forbidden", func(t *testing.T) {
		h := newHarness()
		_, err := h.service.Register(context.Background(), auth.RegisterInput{
			FirstName: "Ava", LastName: "Stone", Email: "ava@odara.app", Password: "hunter22!",
		})
		require.NoError(t, err)

		_, err = h.service.Login(context.Background(), auth.LoginInput{
			Email:    "ava@odara.app",
			Password: "hunter22!",
		})

		appErr := apperr.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, "FORBIDDEN", appErr.Code)
	})
}

// # Email Verification

/* TestService_VerifyEmailOTP covers code confirmation and consumption. */
func TestService_VerifyEmailOTP(t *testing.T) {
	t.Run("correct_code_verifies_and_signs_in", func(t *testing.T) {
		h := newHarness()
		ctx := context.Background()
		user, err := h.service.Register(ctx, auth.RegisterInput{
			FirstName: "Ava", LastName: "Stone", Email: "ava@odara.app", Password: "hunter22!",
		})
		require.NoError(t, err)

		code, err := h.verify.Get(ctx, "ava@odara.app")
		require.NoError(t, err)

		session, err := h.service.VerifyEmailOTP(ctx, "ava@odara.app", code)

		require.NoError(t, err)
		assert.True(t, session.User.IsVerified)
		assert.Equal(t, "token-for-"+user.ID, session.Token)

		// The code is consumed and cannot be replayed.
		_, err = h.service.VerifyEmailOTP(ctx, "ava@odara.app", code)
		require.Error(t, err)
	})

	t.Run("wrong_code_is_unauthorized", func(t *testing.T) {
		h := newHarness()
		ctx := context.Background()
		_, err := h.service.Register(ctx, auth.RegisterInput{
			FirstName: "Ava", LastName: "Stone", Email: "ava@odara.app", Password: "hunter22!",
		})
		require.NoError(t, err)

		_, err = h.service.VerifyEmailOTP(ctx, "ava@odara.app", "000000")

		appErr := apperr.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, "UNAUTHORIZED", appErr.Code)
		assert.Equal(t, "Invalid or expired code", appErr.Message)
	})

	t.Run("no_code_issued_is_unauthorized", func(t *testing.T) {
		h := newHarness()

		_, err := h.service.VerifyEmailOTP(context.Background(), "nobody@odara.app", "123456")

		appErr := apperr.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, "UNAUTHORIZED", appErr.Code)
	})
}

// # Password Recovery

/* TestService_RequestPasswordReset verifies code issuance and the
anti-enumeration behavior for unknown addresses. */
func TestService_RequestPasswordReset(t *testing.T) {
	t.Run("known_email_gets_code", func(t *testing.T) {
		h := newHarness()
		registerVerified(t, h, "ava@odara.app", "hunter22!")
		mailsBefore := len(h.mailer.sent)

		require.NoError(t, h.service.RequestPasswordReset(context.Background(), "ava@odara.app"))

		code, err := h.reset.Get(context.Background(), "ava@odara.app")
		require.NoError(t, err)
		require.Len(t, h.mailer.sent, mailsBefore+1)
		assert.Contains(t, h.mailer.sent[mailsBefore].body, code)
	})

	t.Run("unknown_email_succeeds_silently", func(t *testing.T) {
		h := newHarness()

		err := h.service.RequestPasswordReset(context.Background(), "nobody@odara.app")

		require.NoError(t, err)
		assert.Empty(t, h.mailer.sent)
		_, err = h.reset.Get(context.Background(), "nobody@odara.app")
		assert.Error(t, err)
	})
}

/* TestService_ResetPassword walks the full recovery flow: the pre-check does
not consume the code, the reset does. */
func TestService_ResetPassword(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	registerVerified(t, h, "ava@odara.app", "hunter22!")
	require.NoError(t, h.service.RequestPasswordReset(ctx, "ava@odara.app"))

	code, err := h.reset.Get(ctx, "ava@odara.app")
	require.NoError(t, err)

	// The client-side pre-check leaves the code in place.
	require.NoError(t, h.service.VerifyResetOTP(ctx, "ava@odara.app", code))
	require.NoError(t, h.service.VerifyResetOTP(ctx, "ava@odara.app", code))

	require.NoError(t, h.service.ResetPassword(ctx, "ava@odara.app", code, "n3w-passw0rd"))

	// New password works, old one does not.
	_, err = h.service.Login(ctx, auth.LoginInput{Email: "ava@odara.app", Password: "n3w-passw0rd"})
	require.NoError(t, err)
	_, err = h.service.Login(ctx, auth.LoginInput{Email: "ava@odara.app", Password: "hunter22!"})
	require.Error(t, err)

	// The code was consumed by the reset.
	err = h.service.ResetPassword(ctx, "ava@odara.app", code, "another-one")
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "UNAUTHORIZED", appErr.Code)
}

/* TestService_ResetPassword_WrongCode verifies the code gate. */
func TestService_ResetPassword_WrongCode(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	registerVerified(t, h, "ava@odara.app", "hunter22!")
	require.NoError(t, h.service.RequestPasswordReset(ctx, "ava@odara.app"))

	err := h.service.ResetPassword(ctx, "ava@odara.app", "000000", "n3w-passw0rd")

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "UNAUTHORIZED", appErr.Code)

	// The old password still works.
	_, err = h.service.Login(ctx, auth.LoginInput{Email: "ava@odara.app", Password: "hunter22!"})
	require.NoError(t, err)
}

// # Authenticated Operations

/* TestService_ChangePassword verifies the current-password gate. */
func TestService_ChangePassword(t *testing.T) {
	t.Run("correct_current_password", func(t *testing.T) {
		h := newHarness()
		ctx := context.Background()
		user := registerVerified(t, h, "ava@odara.app", "hunter22!")

		require.NoError(t, h.service.ChangePassword(ctx, user.ID, "hunter22!", "n3w-passw0rd"))

		_, err := h.service.Login(ctx, auth.LoginInput{Email: "ava@odara.app", Password: "n3w-passw0rd"})
		require.NoError(t, err)
	})

	t.Run("wrong_current_password", func(t *testing.T) {
		h := newHarness()
		ctx := context.Background()
		user := registerVerified(t, h, "ava@odara.app", "hunter22!")

		err := h.service.ChangePassword(ctx, user.ID, "wrong", "n3w-passw0rd")

		appErr := apperr.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, "UNAUTHORIZED", appErr.Code)
		assert.Equal(t, "Current password is incorrect", appErr.Message)
	})
}

/* TestService_RefreshToken verifies the stateless reissue path. */
func TestService_RefreshToken(t *testing.T) {
	t.Run("existing_account", func(t *testing.T) {
		h := newHarness()
		user := registerVerified(t, h, "ava@odara.app", "hunter22!")

		token, err := h.service.RefreshToken(context.Background(), user.ID)

		require.NoError(t, err)
		assert.Equal(t, "token-for-"+user.ID, token)
	})

	t.Run("deleted_account_cannot_extend_session", func(t *testing.T) {
		h := newHarness()

		_, err := h.service.RefreshToken(context.Background(), "gone-user")

		appErr := apperr.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, "UNAUTHORIZED", appErr.Code)
	})
}
