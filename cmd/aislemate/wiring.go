package main

import (
	"context"
	"fmt"

	"github.com/aislemate/backend/internal/domain"
	"github.com/aislemate/backend/internal/infrastructure/cache"
	"github.com/aislemate/backend/internal/infrastructure/catalog"
	"github.com/aislemate/backend/internal/infrastructure/openai"
	"github.com/aislemate/backend/internal/usecase"
)

// services are the use cases a command runs against
type services struct {
	shopping *usecase.ShoppingService
	deals    *usecase.DealsService
	cache    domain.CacheRepository
}

func (s *services) Close() error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Close()
}

// services builds the use cases from the loaded configuration
func (a *app) services(ctx context.Context) (*services, error) {
	cfg := a.cfg

	products, err := catalog.LoadFile(cfg.Catalog.Path)
	if err != nil {
		return nil, err
	}
	catalogs := domain.NewStaticCatalog(products)

	extractionCache, err := cache.New(ctx, cache.Options{
		Type:       cfg.Cache.Type,
		RedisURL:   cfg.Cache.RedisURL,
		BadgerPath: cfg.Cache.BadgerPath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}

	extractor := openai.NewClient(
		openai.Config{
			APIKey:             cfg.LLM.APIKey,
			BaseURL:            cfg.LLM.BaseURL,
			Model:              cfg.LLM.Model,
			Temperature:        cfg.LLM.Temperature,
			Timeout:            cfg.LLM.Timeout,
			MaxRetries:         cfg.LLM.MaxRetries,
			RateLimitPerMinute: cfg.LLM.RateLimitPerMinute,
		},
		usecase.NewIngredientPreprocessor(cfg.Matching.EnableDebugLogging),
		domain.NewStaticFallback(cfg.Extraction.Fallback),
	)

	return &services{
		shopping: usecase.NewShoppingService(extractionCache, extractor, catalogs, usecase.ShoppingServiceConfig{
			CacheTTL:           cfg.Cache.TTL,
			MaxResultsPerItem:  cfg.Matching.MaxResultsPerItem,
			EnableDebugLogging: cfg.Matching.EnableDebugLogging,
		}),
		deals: usecase.NewDealsService(catalogs),
		cache: extractionCache,
	}, nil
}
