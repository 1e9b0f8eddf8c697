// Copyright (c) 2026 Odara. All rights reserved.

package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/odara-app/odara/internal/platform/apperr"
	"github.com/odara-app/odara/internal/platform/middleware"
	requestutil "github.com/odara-app/odara/internal/platform/request"
	"github.com/odara-app/odara/internal/platform/respond"
	"github.com/odara-app/odara/pkg/pagination"
)

// Handler implements the catalogue and wishlist HTTP endpoints.
type Handler struct {
	catalogService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{catalogService: service}
}

// ProductRoutes returns a [chi.Router] for the public /products subtree.
func (handler *Handler) ProductRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/{idOrSlug}", handler.detail)

	return router
}

// WishlistRoutes returns a [chi.Router] for the authenticated /wishlist subtree.
func (handler *Handler) WishlistRoutes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", handler.wishlist)
		r.Put("/{productID}", handler.wishlistAdd)
		r.Delete("/{productID}", handler.wishlistRemove)
	})

	return router
}

/*
List returns a filtered, paginated page of the catalogue.

GET /api/products?q=&category=&sortBy=&sortDir=&page=&limit=

Response:
  - 200: PaginatedEnvelope: {items, meta}
  - 400: ErrValidation: Unknown category
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	queryParams := request.URL.Query()

	filter := ProductFilter{
		Query:   queryParams.Get("q"),
		SortBy:  queryParams.Get("sortBy"),
		SortDir: queryParams.Get("sortDir"),
	}

	if rawCategory := queryParams.Get("category"); rawCategory != "" {
		category := Category(rawCategory)
		if !category.IsValid() {
			respond.Error(writer, request, apperr.ValidationError("Unknown category"))
			return
		}
		filter.Category = &category
	}

	params := pagination.FromRequest(request)

	products, total, err := handler.catalogService.ListProducts(request.Context(), filter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, products, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
Detail resolves a single product by ID or slug.

GET /api/products/{idOrSlug}

Response:
  - 200: Product
  - 404: ErrNotFound: No such product
*/
func (handler *Handler) detail(writer http.ResponseWriter, request *http.Request) {
	idOrSlug := requestutil.Param(request, "idOrSlug")

	product, err := handler.catalogService.GetProduct(request.Context(), idOrSlug)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, product)
}

/*
Wishlist returns the caller's hydrated wishlist.

GET /api/wishlist

Response:
  - 200: []Product
  - 401: ErrUnauthorized: Missing or invalid session
*/
func (handler *Handler) wishlist(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	products, err := handler.catalogService.GetWishlist(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, products)
}

/*
WishlistAdd puts a product on the caller's wishlist.

PUT /api/wishlist/{productID}

Response:
  - 204: No Content: Added (idempotent)
  - 404: ErrNotFound: No such product
  - 401: ErrUnauthorized: Missing or invalid session
*/
func (handler *Handler) wishlistAdd(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	productID := requestutil.Param(request, "productID")

	if err := handler.catalogService.AddToWishlist(request.Context(), userID, productID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
WishlistRemove takes a product off the caller's wishlist.

DELETE /api/wishlist/{productID}

Response:
  - 204: No Content: Removed (idempotent)
  - 401: ErrUnauthorized: Missing or invalid session
*/
func (handler *Handler) wishlistRemove(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	productID := requestutil.Param(request, "productID")

	if err := handler.catalogService.RemoveFromWishlist(request.Context(), userID, productID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
