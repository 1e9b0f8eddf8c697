// Copyright (c) 2026 Odara. All rights reserved.

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/odara-app/odara/internal/platform/middleware"
	requestutil "github.com/odara-app/odara/internal/platform/request"
	"github.com/odara-app/odara/internal/platform/respond"
	"github.com/odara-app/odara/internal/platform/validate"
	"github.com/odara-app/odara/internal/users/auth"
)

// Handler implements the authenticated profile endpoints.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] for the /users subtree.
//
// All routes require an authenticated session.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", handler.me)
		r.Patch("/me", handler.updateMe)
		r.Delete("/me", handler.deleteMe)
	})

	return router
}

// # Request Payloads

type updateProfileRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	AvatarURL *string `json:"avatarUrl"`
}

/*
Me returns the authenticated user's profile.

GET /api/users/me

Response:
  - 200: auth.User: The caller's profile
  - 401: ErrUnauthorized: Missing or invalid session
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
UpdateMe applies partial changes to the caller's profile.

PATCH /api/users/me

Description: Only fields present in the body are modified.

Request:
  - Body: updateProfileRequest (FirstName?, LastName?, AvatarURL?)

Response:
  - 200: auth.User: The updated profile
  - 400: ErrInvalidJSON: Malformed body or empty names
  - 401: ErrUnauthorized: Missing or invalid session
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateProfileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	// Provided names may not be blanked out
	v := &validate.Validator{}
	if input.FirstName != nil {
		v.Required(auth.FieldFirstName, *input.FirstName)
	}
	if input.LastName != nil {
		v.Required(auth.FieldLastName, *input.LastName)
	}

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), userID, UpdateProfileInput{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		AvatarURL: input.AvatarURL,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
DeleteMe soft-deletes the caller's account.

DELETE /api/users/me

Response:
  - 204: No Content: Account deleted
  - 401: ErrUnauthorized: Missing or invalid session
*/
func (handler *Handler) deleteMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.DeleteAccount(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
