// Copyright (c) 2026 Odara. All rights reserved.

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/odara-app/odara/internal/platform/constants"
	"github.com/odara-app/odara/internal/platform/middleware"
	requestutil "github.com/odara-app/odara/internal/platform/request"
	"github.com/odara-app/odara/internal/platform/respond"
	"github.com/odara-app/odara/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages everything related to the user lifecycle entry points
// (Registration, Login, OTP verification, Password recovery).
//
// # Wire Format
//
// Payloads are flat camelCase JSON. The mobile client pattern-matches on the
// exact keys (token, user, success, message), so handlers never wrap
// responses in an envelope.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//
// Several routes are registered under two paths (register/signup,
// verify-otp/verify-email) because both spellings shipped in released
// versions of the mobile client.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/signup", handler.register)
	router.Post("/login", handler.login)
	router.Post("/verify-otp", handler.verifyOTP)
	router.Post("/verify-email", handler.verifyOTP)
	router.Post("/verify-reset-otp", handler.verifyResetOTP)
	router.Post("/forgot-password", handler.forgotPassword)
	router.Post("/reset-password", handler.resetPassword)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/logout", handler.logout)
		r.Post("/change-password", handler.changePassword)
		r.Post("/refresh-token", handler.refreshToken)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type otpRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

/*
Register handles the creation of a new user account.

POST /api/auth/register (alias: /api/auth/signup)

Description: Validates input, checks for identity conflicts, persists a new
unverified profile, and emails a verification code.

Request:
  - Body: registerRequest (FirstName, LastName, Email, Password)

Response:
  - 201: Message: Code sent, proceed to OTP screen
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Email already exists
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldFirstName, input.FirstName).
		Required(FieldLastName, input.LastName).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, 8)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	_, err := handler.authService.Register(request.Context(), RegisterInput{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Password:  input.Password,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, map[string]string{
		constants.FieldMessage: "Account created. Check your email for the verification code.",
	})
}

/*
Login authenticates a user and issues a bearer token.

POST /api/auth/login

Description: Verifies credentials and returns the signed session JWT along
with the user profile, which the client persists.

Request:
  - Body: loginRequest (Email, Password)

Response:
  - 200: Session: {token, user}
  - 401: ErrUnauthorized: Invalid credentials
  - 403: ErrForbidden: Email not yet verified
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		constants.FieldToken: session.Token,
		constants.FieldUser:  session.User,
	})
}

/*
VerifyOTP confirms a user's email ownership with the emailed code.

POST /api/auth/verify-otp (alias: /api/auth/verify-email)

Description: Validates the six digit code, activates the account, and
returns a session so the client can log the user straight in.

Request:
  - Body: otpRequest (Email, OTP)

Response:
  - 200: Session: {success, token, user}
  - 401: ErrUnauthorized: Wrong or expired code
*/
func (handler *Handler) verifyOTP(writer http.ResponseWriter, request *http.Request) {
	var input otpRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldOTP, input.OTP).
		OTP(FieldOTP, input.OTP)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.VerifyEmailOTP(request.Context(), input.Email, input.OTP)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		constants.FieldSuccess: true,
		constants.FieldToken:   session.Token,
		constants.FieldUser:    session.User,
	})
}

/*
VerifyResetOTP checks a password reset code without consuming it.

POST /api/auth/verify-reset-otp

Description: Lets the client validate the code on its own screen before
prompting for the new password.

Request:
  - Body: otpRequest (Email, OTP)

Response:
  - 200: Success: {success}
  - 401: ErrUnauthorized: Wrong or expired code
*/
func (handler *Handler) verifyResetOTP(writer http.ResponseWriter, request *http.Request) {
	var input otpRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldOTP, input.OTP).
		OTP(FieldOTP, input.OTP)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.VerifyResetOTP(request.Context(), input.Email, input.OTP); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		constants.FieldSuccess: true,
	})
}

/*
ForgotPassword initiates the password recovery flow.

POST /api/auth/forgot-password

Description: Emails a reset code if the account exists. Always reports
success to prevent account enumeration.

Request:
  - Body: forgotPasswordRequest (Email)

Response:
  - 200: Success: {success} regardless of account existence
  - 400: ErrInvalidJSON: Invalid email format
*/
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	var input forgotPasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldEmail, input.Email).Email(FieldEmail, input.Email)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.RequestPasswordReset(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		constants.FieldSuccess: true,
	})
}

/*
ResetPassword completes the password recovery flow.

POST /api/auth/reset-password

Description: Validates the reset code and updates the user's password.

Request:
  - Body: resetPasswordRequest (Email, OTP, NewPassword)

Response:
  - 200: Success: {success}
  - 401: ErrUnauthorized: Wrong or expired code
  - 400: ErrInvalidJSON: Weak password or validation failure
*/
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	var input resetPasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldOTP, input.OTP).
		OTP(FieldOTP, input.OTP).
		Required(FieldNewPassword, input.NewPassword).
		MinLen(FieldNewPassword, input.NewPassword, 8)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ResetPassword(request.Context(), input.Email, input.OTP, input.NewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		constants.FieldSuccess: true,
	})
}

/*
ChangePassword updates the authenticated user's password.

POST /api/auth/change-password

Description: Verifies the current password before applying a new one.

Request:
  - Body: changePasswordRequest (CurrentPassword, NewPassword)

Response:
  - 200: Empty object
  - 401: ErrUnauthorized: Current password wrong or session invalid
  - 400: ErrInvalidJSON: Weak password or validation failure
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldCurrentPassword, input.CurrentPassword).
		Required(FieldNewPassword, input.NewPassword).
		MinLen(FieldNewPassword, input.NewPassword, 8)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.authService.ChangePassword(
		request.Context(),
		claims.UserID,
		input.CurrentPassword,
		input.NewPassword,
	)

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{})
}

/*
Logout acknowledges a client-side session teardown.

POST /api/auth/logout

Description: Sessions are stateless JWTs, so there is nothing to revoke
server-side. The endpoint exists so the client can report logouts and so
the route is reserved for future token denylisting.

Response:
  - 200: Empty object
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]any{})
}

/*
RefreshToken reissues a bearer token for the authenticated user.

POST /api/auth/refresh-token

Description: Mints a fresh JWT with a full lifetime. The client calls this
proactively when its stored token nears expiry.

Response:
  - 200: Token: {token}
  - 401: ErrUnauthorized: Account gone or token invalid
*/
func (handler *Handler) refreshToken(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	token, err := handler.authService.RefreshToken(request.Context(), claims.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		constants.FieldToken: token,
	})
}
