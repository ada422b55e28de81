package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations.
// Values are opaque encoded bytes so every backend stores the same representation.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Close() error
}

// IngredientExtractor turns a cooking request into ingredient requests.
// Implementations fail closed: they always return a non-empty request list.
type IngredientExtractor interface {
	Extract(ctx context.Context, utterance string) Extraction
}

// FallbackPolicy supplies the ingredient list used when extraction fails
type FallbackPolicy interface {
	Fallback(utterance string, cause error) []IngredientRequest
}

// CatalogProvider gives read access to the currently loaded catalog
type CatalogProvider interface {
	Catalog() (*Catalog, error)
}

// StaticFallback returns the same ingredient list for every failed extraction
type StaticFallback struct {
	Requests []IngredientRequest
}

// NewStaticFallback builds a fallback policy from "ingredient:quantity" specs
func NewStaticFallback(specs []string) *StaticFallback {
	reqs := make([]IngredientRequest, 0, len(specs))
	for _, s := range specs {
		reqs = append(reqs, ParseIngredientSpec(s))
	}
	return &StaticFallback{Requests: reqs}
}

// Fallback returns a copy of the configured list
func (f *StaticFallback) Fallback(string, error) []IngredientRequest {
	out := make([]IngredientRequest, len(f.Requests))
	copy(out, f.Requests)
	return out
}

// StaticCatalog serves a catalog loaded once at start-up
type StaticCatalog struct {
	catalog *Catalog
}

// NewStaticCatalog wraps a loaded catalog
func NewStaticCatalog(c *Catalog) *StaticCatalog {
	return &StaticCatalog{catalog: c}
}

// Catalog returns the wrapped catalog, or ErrCatalogUnavailable when none was loaded
func (s *StaticCatalog) Catalog() (*Catalog, error) {
	if s == nil || s.catalog == nil {
		return nil, ErrCatalogUnavailable
	}
	return s.catalog, nil
}
