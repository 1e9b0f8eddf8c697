// Copyright (c) 2026 Odara. All rights reserved.

package catalog

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/odara-app/odara/internal/platform/constants"
)

// RedisWishlistRepository implements WishlistRepository using Redis sets.
//
// One set per user, keyed by user ID, members are product IDs. Set semantics
// give idempotent add/remove for free.
type RedisWishlistRepository struct {
	client *redis.Client
}

// NewWishlistRepository creates a new Redis-backed WishlistRepository.
func NewWishlistRepository(client *redis.Client) *RedisWishlistRepository {
	return &RedisWishlistRepository{client: client}
}

// key builds the namespaced Redis key for a user's wishlist set.
func (repository *RedisWishlistRepository) key(userID string) string {
	return constants.RedisPrefixWishlist + userID
}

/*
Add inserts a product into the user's wishlist set.

Parameters:
  - ctx: context.Context
  - userID: string
  - productID: string

Returns:
  - error: Execution errors
*/
func (repository *RedisWishlistRepository) Add(ctx context.Context, userID, productID string) error {
	if err := repository.client.SAdd(ctx, repository.key(userID), productID).Err(); err != nil {
		return fmt.Errorf("redis_wishlist_add_failed: %w", err)
	}
	return nil
}

/*
Remove deletes a product from the user's wishlist set.

Parameters:
  - ctx: context.Context
  - userID: string
  - productID: string

Returns:
  - error: Execution errors
*/
func (repository *RedisWishlistRepository) Remove(ctx context.Context, userID, productID string) error {
	if err := repository.client.SRem(ctx, repository.key(userID), productID).Err(); err != nil {
		return fmt.Errorf("redis_wishlist_remove_failed: %w", err)
	}
	return nil
}

/*
ListIDs returns all product IDs in the user's wishlist.

Description: Returns an empty slice (not an error) when the set is empty or
the key does not exist.

Parameters:
  - ctx: context.Context
  - userID: string

Returns:
  - []string: Product IDs
  - error: Execution errors
*/
func (repository *RedisWishlistRepository) ListIDs(ctx context.Context, userID string) ([]string, error) {
	ids, err := repository.client.SMembers(ctx, repository.key(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis_wishlist_list_failed: %w", err)
	}
	return ids, nil
}
