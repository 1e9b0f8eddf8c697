// Copyright (c) 2026 Odara. All rights reserved.

package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/odara-app/odara/internal/platform/apperr"
	"github.com/odara-app/odara/pkg/pagination"
	"github.com/odara-app/odara/pkg/slug"
	"github.com/odara-app/odara/pkg/uuidv7"
)

// # Service Layer

// Service orchestrates catalogue browsing and wishlist use cases.
type Service struct {
	productRepository  ProductRepository
	wishlistRepository WishlistRepository
	logger             *slog.Logger
}

// NewService constructs a new catalog [Service] with its dependencies.
func NewService(
	productRepo ProductRepository,
	wishlistRepo WishlistRepository,
	logger *slog.Logger,
) *Service {
	return &Service{
		productRepository:  productRepo,
		wishlistRepository: wishlistRepo,
		logger:             logger,
	}
}

// # Browsing

/*
ListProducts returns a filtered, paginated page of the catalogue.

Parameters:
  - context: context.Context
  - filter: ProductFilter
  - params: pagination.Params

Returns:
  - []*Product: Matching products
  - int: Total count for the pagination metadata
  - error: Query failures
*/
func (service *Service) ListProducts(context context.Context, filter ProductFilter, params pagination.Params) ([]*Product, int, error) {
	products, total, err := service.productRepository.List(context, filter, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("catalog_service_list_failed: %w", err)
	}

	// Normalize nil to an empty slice so the JSON renders as []
	if products == nil {
		products = []*Product{}
	}

	return products, total, nil
}

/*
GetProduct resolves a product by ID or slug.

Description: Path parameters are ambiguous on this route. Anything that
parses as a UUID is treated as an ID; everything else is a slug lookup.

Parameters:
  - context: context.Context
  - idOrSlug: string

Returns:
  - *Product: Hydrated entity
  - error: apperr.NotFound or query failures
*/
func (service *Service) GetProduct(context context.Context, idOrSlug string) (*Product, error) {
	if uuidv7.IsValid(idOrSlug) {
		return service.productRepository.FindByID(context, idOrSlug)
	}
	return service.productRepository.FindBySlug(context, idOrSlug)
}

// # Catalogue Management

// CreateProductInput holds the data required to publish a new product.
type CreateProductInput struct {
	Name        string
	Description string
	Category    Category
	PriceCents  int64
	Currency    string
	ImageURL    string
	Stock       int
}

/*
CreateProduct publishes a new product to the catalogue.

Description: Derives the URL slug from the name and assigns a time-sortable
ID. Used by the seeding tool and back-office imports; there is no public
write endpoint.

Parameters:
  - context: context.Context
  - input: CreateProductInput

Returns:
  - *Product: Created entity
  - error: Validation, Conflict (duplicate slug), or storage failures
*/
func (service *Service) CreateProduct(context context.Context, input CreateProductInput) (*Product, error) {
	if !input.Category.IsValid() {
		return nil, apperr.ValidationError("Unknown category")
	}

	productSlug := slug.From(input.Name)
	if productSlug == "" {
		return nil, apperr.ValidationError("Product name must contain at least one alphanumeric character")
	}

	product := &Product{
		ID:          uuidv7.New(),
		Name:        input.Name,
		Slug:        productSlug,
		Description: input.Description,
		Category:    input.Category,
		PriceCents:  input.PriceCents,
		Currency:    input.Currency,
		ImageURL:    input.ImageURL,
		Stock:       input.Stock,
	}

	if err := service.productRepository.Create(context, product); err != nil {
		return nil, err
	}

	service.logger.Info("product_created",
		slog.String("product_id", product.ID),
		slog.String("slug", product.Slug),
	)

	return product, nil
}

// # Wishlist

/*
AddToWishlist adds a product to the user's wishlist.

Description: Verifies the product exists before recording membership so the
wishlist never accumulates dangling IDs from client bugs.

Parameters:
  - context: context.Context
  - userID: string
  - productID: string

Returns:
  - error: apperr.NotFound or storage failures
*/
func (service *Service) AddToWishlist(context context.Context, userID, productID string) error {
	if _, err := service.productRepository.FindByID(context, productID); err != nil {
		return err
	}

	if err := service.wishlistRepository.Add(context, userID, productID); err != nil {
		return fmt.Errorf("catalog_service_wishlist_add_failed: %w", err)
	}

	service.logger.Info("wishlist_item_added",
		slog.String("user_id", userID),
		slog.String("product_id", productID),
	)

	return nil
}

/*
RemoveFromWishlist removes a product from the user's wishlist.

Description: Idempotent. Removing a product that was never added succeeds.

Parameters:
  - context: context.Context
  - userID: string
  - productID: string

Returns:
  - error: Storage failures
*/
func (service *Service) RemoveFromWishlist(context context.Context, userID, productID string) error {
	if err := service.wishlistRepository.Remove(context, userID, productID); err != nil {
		return fmt.Errorf("catalog_service_wishlist_remove_failed: %w", err)
	}
	return nil
}

/*
GetWishlist returns the hydrated products on the user's wishlist.

Description: Reads the ID set from Redis and hydrates it from PostgreSQL.
Products deleted since they were wishlisted are dropped from the result.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []*Product: Wishlisted products
  - error: Storage failures
*/
func (service *Service) GetWishlist(context context.Context, userID string) ([]*Product, error) {
	ids, err := service.wishlistRepository.ListIDs(context, userID)
	if err != nil {
		return nil, fmt.Errorf("catalog_service_wishlist_list_failed: %w", err)
	}

	products, err := service.productRepository.FindByIDs(context, ids)
	if err != nil {
		return nil, fmt.Errorf("catalog_service_wishlist_hydrate_failed: %w", err)
	}

	if products == nil {
		products = []*Product{}
	}

	return products, nil
}
