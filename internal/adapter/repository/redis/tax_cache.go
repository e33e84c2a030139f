package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/gomovements/internal/domain"
)

// TaxCache implements usecase.TaxCache using Redis.
type TaxCache struct {
	client *redis.Client
	prefix string
}

// NewTaxCache creates a new TaxCache.
func NewTaxCache(client *redis.Client) *TaxCache {
	return &TaxCache{
		client: client,
		prefix: "tax:",
	}
}

// Get retrieves a cached tax by ID. Returns ErrTaxNotFound on a miss.
func (c *TaxCache) Get(ctx context.Context, id string) (*domain.Tax, error) {
	data, err := c.client.Get(ctx, c.prefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrTaxNotFound
		}

		return nil, err
	}

	var tax domain.Tax
	if err := json.Unmarshal(data, &tax); err != nil {
		return nil, err
	}

	return &tax, nil
}

// Set caches a tax with TTL.
func (c *TaxCache) Set(ctx context.Context, tax *domain.Tax, ttl time.Duration) error {
	data, err := json.Marshal(tax)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, c.prefix+tax.ID, data, ttl).Err()
}

// Delete removes a cached tax.
func (c *TaxCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.prefix+id).Err()
}
