// Copyright (c) 2026 Odara. All rights reserved.

package credstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odara-app/odara/internal/app/credstore"
)

/* newTestStore opens an ephemeral in-memory store and closes it with the test. */
func newTestStore(t *testing.T) *credstore.SQLiteStore {
	t.Helper()

	store, err := credstore.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

/* TestSQLiteStore_Get_AbsentKey verifies that a missing key is a normal state, not an error. */
func TestSQLiteStore_Get_AbsentKey(t *testing.T) {
	store := newTestStore(t)

	value, err := store.Get(context.Background(), credstore.KeyUserToken)

	require.NoError(t, err)
	assert.Equal(t, "", value)
}

/* TestSQLiteStore_SetGet verifies the basic persistence roundtrip. */
func TestSQLiteStore_SetGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, credstore.KeyUserToken, "token-abc"))

	value, err := store.Get(ctx, credstore.KeyUserToken)
	require.NoError(t, err)
	assert.Equal(t, "token-abc", value)
}

/* TestSQLiteStore_Set_Upsert verifies that setting an existing key overwrites its value. */
func TestSQLiteStore_Set_Upsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, credstore.KeyInitialAuthScreen, "Login"))
	require.NoError(t, store.Set(ctx, credstore.KeyInitialAuthScreen, "Signup"))

	value, err := store.Get(ctx, credstore.KeyInitialAuthScreen)
	require.NoError(t, err)
	assert.Equal(t, "Signup", value)
}

/* TestSQLiteStore_Delete verifies removal and that deleting twice is a no-op. */
func TestSQLiteStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, credstore.KeyUserData, `{"email":"a@b.com"}`))
	require.NoError(t, store.Delete(ctx, credstore.KeyUserData))

	value, err := store.Get(ctx, credstore.KeyUserData)
	require.NoError(t, err)
	assert.Equal(t, "", value)

	// Absent key: still a no-op.
	require.NoError(t, store.Delete(ctx, credstore.KeyUserData))
}

/* TestSQLiteStore_KeysAreIndependent verifies that keys do not clobber each other. */
func TestSQLiteStore_KeysAreIndependent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, credstore.KeyUserToken, "token"))
	require.NoError(t, store.Set(ctx, credstore.KeyOnboardingCompleted, "true"))
	require.NoError(t, store.Delete(ctx, credstore.KeyUserToken))

	value, err := store.Get(ctx, credstore.KeyOnboardingCompleted)
	require.NoError(t, err)
	assert.Equal(t, "true", value)
}
