// Package cache is an optional read-through cache for service listings. A
// nil *ServiceListings is a valid no-op, so wiring stays optional. Writes to
// the service collection bump a generation counter instead of scanning for
// keys, which invalidates every cached listing at once.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sudo-init-do/skillmarket/internal/model"
	"github.com/sudo-init-do/skillmarket/internal/store"
)

const genKey = "services:gen"

type ServiceListings struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewServiceListings(rdb *redis.Client, ttl time.Duration) *ServiceListings {
	return &ServiceListings{rdb: rdb, ttl: ttl}
}

func (c *ServiceListings) key(ctx context.Context, f store.ServiceFilter) string {
	gen, err := c.rdb.Get(ctx, genKey).Int64()
	if err != nil {
		gen = 0
	}
	min, max := "", ""
	if f.MinPrice != nil {
		min = fmt.Sprintf("%g", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		max = fmt.Sprintf("%g", *f.MaxPrice)
	}
	return fmt.Sprintf("services:%d:%s|%s|%s|%s", gen, f.Category, min, max, f.Search)
}

// Get returns the cached listing for f, or ok=false on miss or any redis
// failure. Cache trouble never fails a read.
func (c *ServiceListings) Get(ctx context.Context, f store.ServiceFilter) ([]model.Service, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, c.key(ctx, f)).Bytes()
	if err != nil {
		return nil, false
	}
	var out []model.Service
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false
	}
	return out, true
}

func (c *ServiceListings) Set(ctx context.Context, f store.ServiceFilter, services []model.Service) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(services)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, c.key(ctx, f), raw, c.ttl).Err()
}

// Invalidate drops all cached listings by bumping the generation.
func (c *ServiceListings) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	_ = c.rdb.Incr(ctx, genKey).Err()
}
