// Copyright (c) 2026 Odara. All rights reserved.

/*
Package catalog implements the product browsing surface of the storefront.

It covers the read-side catalogue (listing, search, product detail) and the
per-user wishlist.

# Architecture

  - Entities: Product, ProductFilter.
  - Storage: Products live in PostgreSQL; wishlists are Redis sets.
  - Delivery: Mounted under /api/products and /api/wishlist.
*/
package catalog

import "time"

// Category classifies a product into one of the storefront's top-level
// shopping sections.
type Category string

const (
	// CategoryClothing covers apparel.
	CategoryClothing Category = "clothing"
	// CategoryShoes covers footwear.
	CategoryShoes Category = "shoes"
	// CategoryAccessories covers bags, jewelry, and similar items.
	CategoryAccessories Category = "accessories"
	// CategoryBeauty covers cosmetics and skincare.
	CategoryBeauty Category = "beauty"
	// CategoryHome covers home and living goods.
	CategoryHome Category = "home"
)

// IsValid reports whether c is a recognised [Category] value.
func (c Category) IsValid() bool {
	switch c {
	case CategoryClothing, CategoryShoes, CategoryAccessories,
		CategoryBeauty, CategoryHome:
		return true
	}
	return false
}

// Product is the central aggregate of the catalog domain.
//
// Prices are stored as integer cents to avoid floating point drift; the
// client formats them with the currency code.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"` // URL-safe identifier (e.g. "linen-summer-dress").
	Description string    `json:"description"`
	Category    Category  `json:"category"`
	PriceCents  int64     `json:"priceCents"`
	Currency    string    `json:"currency"` // ISO 4217 code (e.g. "USD").
	ImageURL    string    `json:"imageUrl"`
	Rating      float64   `json:"rating"`
	RatingCount int       `json:"ratingCount"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProductFilter holds the parameters for a filtered product list query.
//
// # Sorting
//
// Available SortBy values: "price", "rating", "createdat".
// SortDir can be "asc" or "desc".
type ProductFilter struct {
	Query    string // Case-insensitive search term matched against the name.
	Category *Category
	SortBy   string
	SortDir  string
}
