// Copyright (c) 2026 Odara. All rights reserved.

package catalog

import "context"

// ProductRepository defines the data access contract for the catalogue.
//
// # Architecture
//
// The interface lives in the domain package because the service layer (the
// consumer) defines what it needs. The pgx implementation is in
// store_postgres.go.
type ProductRepository interface {
	// List returns a filtered, paginated slice of products and the total count.
	//
	// Returns:
	//   - []*Product: The list of products matching the filter.
	//   - int: Total count for pagination.
	//   - error: Database or connection errors.
	List(ctx context.Context, f ProductFilter, limit, offset int) ([]*Product, int, error)

	// FindByID returns the product with the given ID.
	//
	// It returns apperr.NotFound if the product is absent or soft-deleted.
	FindByID(ctx context.Context, id string) (*Product, error)

	// FindBySlug returns the product with the given slug.
	//
	// It returns apperr.NotFound if no match is found.
	FindBySlug(ctx context.Context, slug string) (*Product, error)

	// FindByIDs returns the products matching the given IDs.
	//
	// Missing IDs are silently skipped; the result preserves no particular order.
	FindByIDs(ctx context.Context, ids []string) ([]*Product, error)

	// Create persists a new product. Slug uniqueness is enforced by the store.
	Create(ctx context.Context, product *Product) error
}

// WishlistRepository defines the contract for the per-user wishlist.
//
// Backed by a Redis set per user, so membership operations are O(1) and
// idempotent by construction.
type WishlistRepository interface {
	// Add inserts a product into the user's wishlist. Adding an existing
	// member is a no-op.
	Add(ctx context.Context, userID, productID string) error

	// Remove deletes a product from the user's wishlist. Removing an absent
	// member is a no-op.
	Remove(ctx context.Context, userID, productID string) error

	// ListIDs returns all product IDs in the user's wishlist.
	ListIDs(ctx context.Context, userID string) ([]string, error)
}
