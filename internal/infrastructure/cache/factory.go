package cache

import (
	"context"
	"fmt"
	"log"

	"github.com/aislemate/backend/internal/domain"
)

// Backend names accepted by New
const (
	TypeMemory = "memory"
	TypeRedis  = "redis"
	TypeBadger = "badger"
)

// Options selects and configures a cache backend
type Options struct {
	Type       string
	RedisURL   string
	BadgerPath string
}

// New builds the configured cache backend
func New(ctx context.Context, opts Options) (domain.CacheRepository, error) {
	switch opts.Type {
	case "", TypeMemory:
		log.Printf("[CACHE] Using in-memory cache")
		return NewMemoryCache(), nil
	case TypeRedis:
		c, err := NewRedisCache(ctx, opts.RedisURL)
		if err != nil {
			return nil, err
		}
		log.Printf("[CACHE] Using Redis cache")
		return c, nil
	case TypeBadger:
		return NewBadgerCache(opts.BadgerPath)
	default:
		return nil, fmt.Errorf("unknown cache type %q", opts.Type)
	}
}
