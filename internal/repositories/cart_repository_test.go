package repositories_test

import (
	"context"
	"testing"
	"time"

	"personashop/internal/cache"
	"personashop/internal/models"
	"personashop/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageCartRepository_RoundTrip(t *testing.T) {
	store := cache.NewMemoryStorage()
	repo := repositories.NewStorageCartRepository(store, time.Hour)
	ctx := context.Background()

	items, err := repo.Get(ctx, "u-1")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	want := []models.CartItem{
		{ProductID: "p-1", Name: "Wool Scarf", Price: 39.99, Quantity: 2},
		{ProductID: "p-2", Name: "White Sneakers", Price: 79.99, Quantity: 1},
	}
	require.NoError(t, repo.Save(ctx, "u-1", want))

	got, err := repo.Get(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	raw, err := store.Get("cart:u-1")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"product_id":"p-1","name":"Wool Scarf","price":39.99,"quantity":2},{"product_id":"p-2","name":"White Sneakers","price":79.99,"quantity":1}]`, string(raw))

	require.NoError(t, repo.Save(ctx, "u-1", nil))
	raw, err = store.Get("cart:u-1")
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestStorageCartRepository_CancelledContext(t *testing.T) {
	repo := repositories.NewStorageCartRepository(cache.NewMemoryStorage(), 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Get(ctx, "u-1")
	assert.ErrorIs(t, err, context.Canceled)
}
