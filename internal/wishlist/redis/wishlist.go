// Package redis persists the wishlist as a single JSON array under a fixed
// key, with no expiry.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/PriyankaPriyadarsini7/ecommerce-dashboard/internal/domain"
)

// WishlistRepository implements wishlist.Repository using Redis.
type WishlistRepository struct {
	client *redis.Client
	key    string
}

// NewWishlistRepository creates a Redis-backed wishlist repository writing
// under the given key.
func NewWishlistRepository(client *redis.Client, key string) *WishlistRepository {
	return &WishlistRepository{
		client: client,
		key:    key,
	}
}

// Load reads the persisted wishlist. An absent key yields an empty list with
// no error; a malformed value is an error the caller is expected to treat as
// a fallback-to-empty.
func (r *WishlistRepository) Load(ctx context.Context) ([]domain.Product, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get wishlist: %w", err)
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("unmarshal wishlist: %w", err)
	}

	return products, nil
}

// Save overwrites the persisted wishlist with the given list. An empty list
// is written as an empty JSON array, which is distinct from a removed key.
func (r *WishlistRepository) Save(ctx context.Context, products []domain.Product) error {
	if products == nil {
		products = []domain.Product{}
	}

	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("marshal wishlist: %w", err)
	}

	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set wishlist: %w", err)
	}

	return nil
}

// Clear removes the persisted entry entirely.
func (r *WishlistRepository) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("redis del wishlist: %w", err)
	}

	return nil
}
