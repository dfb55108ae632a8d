// Package cache provides the key-value stores shared by the cart, the login
// limiter, token revocation and small read caches. Both implementations
// satisfy fiber.Storage.
package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

var (
	_ fiber.Storage = (*RedisStorage)(nil)
	_ fiber.Storage = (*MemoryStorage)(nil)
)

// GetJSON decodes the value stored under key into target. It reports false
// when the key is missing.
func GetJSON(store fiber.Storage, key string, target interface{}) (bool, error) {
	raw, err := store.Get(key)
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return false, fmt.Errorf("failed to decode cached %s: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes value as JSON and stores it under key.
func SetJSON(store fiber.Storage, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s for cache: %w", key, err)
	}
	return store.Set(key, raw, ttl)
}
