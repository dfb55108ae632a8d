package repositories

import (
	"context"
	"fmt"
	"time"

	"personashop/internal/cache"
	"personashop/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CartRepository persists each shopper's cart as a single list.
type CartRepository interface {
	Get(ctx context.Context, userID string) ([]models.CartItem, error)
	Save(ctx context.Context, userID string, items []models.CartItem) error
	Delete(ctx context.Context, userID string) error
}

// StorageCartRepository keeps carts as JSON arrays in a key-value store.
type StorageCartRepository struct {
	store fiber.Storage
	ttl   time.Duration
}

// NewStorageCartRepository creates a cart repository over store. Carts
// untouched for ttl expire; zero keeps them forever.
func NewStorageCartRepository(store fiber.Storage, ttl time.Duration) *StorageCartRepository {
	return &StorageCartRepository{store: store, ttl: ttl}
}

func cartKey(userID string) string {
	return "cart:" + userID
}

// Get returns the user's cart lines; a missing cart is empty.
func (r *StorageCartRepository) Get(ctx context.Context, userID string) ([]models.CartItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	items := make([]models.CartItem, 0)
	if _, err := cache.GetJSON(r.store, cartKey(userID), &items); err != nil {
		return nil, fmt.Errorf("failed to load cart for user %s: %w", userID, err)
	}
	return items, nil
}

// Save replaces the user's cart. An empty list deletes the key.
func (r *StorageCartRepository) Save(ctx context.Context, userID string, items []models.CartItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(items) == 0 {
		return r.Delete(ctx, userID)
	}
	if err := cache.SetJSON(r.store, cartKey(userID), items, r.ttl); err != nil {
		return fmt.Errorf("failed to save cart for user %s: %w", userID, err)
	}
	return nil
}

// Delete removes the user's cart.
func (r *StorageCartRepository) Delete(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.store.Delete(cartKey(userID)); err != nil {
		return fmt.Errorf("failed to delete cart for user %s: %w", userID, err)
	}
	return nil
}
