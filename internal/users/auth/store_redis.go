// Copyright (c) 2026 Odara. All rights reserved.

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/odara-app/odara/internal/platform/apperr"
	"github.com/odara-app/odara/internal/platform/constants"
)

// RedisOTPRepository implements OTPRepository using Redis.
//
// The same implementation backs both the verification and the reset code
// stores. Only the key prefix differs, keeping the two flows isolated.
type RedisOTPRepository struct {
	client *redis.Client
	prefix string
}

// NewVerifyOTPRepository creates the Redis store for email verification codes.
func NewVerifyOTPRepository(client *redis.Client) *RedisOTPRepository {
	return &RedisOTPRepository{client: client, prefix: constants.RedisPrefixVerifyOTP}
}

// NewResetOTPRepository creates the Redis store for password reset codes.
func NewResetOTPRepository(client *redis.Client) *RedisOTPRepository {
	return &RedisOTPRepository{client: client, prefix: constants.RedisPrefixResetOTP}
}

// key builds the namespaced Redis key for an email address.
//
// Email is lowercased so lookups are case-insensitive like the account table.
func (repository *RedisOTPRepository) key(email string) string {
	return repository.prefix + strings.ToLower(email)
}

/*
Set stores a code for an email address with the given TTL.

Parameters:
  - context: context.Context
  - email: string
  - code: string
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (repository *RedisOTPRepository) Set(context context.Context, email, code string, ttl time.Duration) error {

	// Overwrites any previous code for this address
	if err := repository.client.Set(context, repository.key(email), code, ttl).Err(); err != nil {
		return fmt.Errorf("redis_otp_set_failed: %w", err)
	}

	return nil
}

/*
Get retrieves the active code for an email address.

Description: Returns apperr.NotFound if no code is stored or it has expired.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - string: The stored code
  - error: apperr.NotFound or connectivity errors
*/
func (repository *RedisOTPRepository) Get(context context.Context, email string) (string, error) {

	code, err := repository.client.Get(context, repository.key(email)).Result()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFound("Code is invalid or expired")
		}
		return "", fmt.Errorf("redis_otp_get_failed: %w", err)
	}

	return code, nil
}

/*
Delete removes the code from Redis.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - error: Deletion failures
*/
func (repository *RedisOTPRepository) Delete(context context.Context, email string) error {

	if err := repository.client.Del(context, repository.key(email)).Err(); err != nil {
		return fmt.Errorf("redis_otp_delete_failed: %w", err)
	}

	return nil
}
