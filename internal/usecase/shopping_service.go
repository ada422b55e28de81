package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/aislemate/backend/internal/domain"
)

// ShoppingServiceConfig holds configuration for the shopping service
type ShoppingServiceConfig struct {
	CacheTTL           time.Duration
	MaxResultsPerItem  int
	EnableDebugLogging bool
}

// ShoppingService turns a cooking request into a matched shopping list
type ShoppingService struct {
	cache           domain.CacheRepository
	extractor       domain.IngredientExtractor
	catalogs        domain.CatalogProvider
	matchingService *MatchingService
	cacheTTL        time.Duration
}

// NewShoppingService creates a new shopping service with dependencies
func NewShoppingService(
	cache domain.CacheRepository,
	extractor domain.IngredientExtractor,
	catalogs domain.CatalogProvider,
	config ShoppingServiceConfig,
) *ShoppingService {
	matchingService := NewMatchingService(MatchConfig{
		MaxResultsPerItem:  config.MaxResultsPerItem,
		EnableDebugLogging: config.EnableDebugLogging,
	})

	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}

	return &ShoppingService{
		cache:           cache,
		extractor:       extractor,
		catalogs:        catalogs,
		matchingService: matchingService,
		cacheTTL:        cacheTTL,
	}
}

// BuildShoppingList extracts ingredients from the prompt and matches them against the catalog.
// Flow: check cache -> extract via LLM (or fallback) -> cache -> match -> return
func (s *ShoppingService) BuildShoppingList(
	ctx context.Context,
	request *domain.ShoppingListRequest,
) (*domain.ShoppingList, error) {
	if request == nil || strings.TrimSpace(request.Prompt) == "" {
		return nil, domain.ErrInvalidRequest
	}

	catalog, err := s.catalogs.Catalog()
	if err != nil {
		return nil, err
	}

	extraction := s.extract(ctx, request.Prompt)

	report := s.matchingService.MatchWithLimit(extraction.Requests, catalog, request.MaxResultsPerItem)

	list := &domain.ShoppingList{
		Prompt:      request.Prompt,
		Ingredients: extraction.Requests,
		Items:       report.Results,
		Source:      extraction.Source,
		Message:     fmt.Sprintf("Found %d items for your request", len(report.Results)),
	}
	for _, w := range report.Warnings {
		list.Warnings = append(list.Warnings, w.Message())
	}

	log.Printf("[SHOPPING] %q: %d ingredients (%s), %d items, %d warnings",
		request.Prompt, len(extraction.Requests), extraction.Source, len(report.Results), len(report.Warnings))

	return list, nil
}

// MatchIngredients matches caller-supplied ingredient requests against the catalog
func (s *ShoppingService) MatchIngredients(request *domain.MatchRequest) (domain.MatchReport, error) {
	if request == nil {
		return domain.MatchReport{}, domain.ErrInvalidRequest
	}

	catalog, err := s.catalogs.Catalog()
	if err != nil {
		return domain.MatchReport{}, err
	}

	return s.matchingService.MatchWithLimit(request.Ingredients, catalog, request.MaxResultsPerItem), nil
}

// extract returns cached ingredient requests for the prompt or asks the extractor.
// Fallback extractions are not cached.
func (s *ShoppingService) extract(ctx context.Context, prompt string) domain.Extraction {
	if normalizeForCacheKey(prompt) == "" {
		return s.extractor.Extract(ctx, prompt)
	}
	cacheKey := generateCacheKey(prompt)

	if cached, err := s.getFromCache(ctx, cacheKey); err == nil && len(cached) > 0 {
		return domain.Extraction{Requests: cached, Source: domain.SourceCache}
	}

	extraction := s.extractor.Extract(ctx, prompt)
	if extraction.Source == domain.SourceFallback {
		log.Printf("[SHOPPING] Using fallback ingredients for %q: %v", prompt, extraction.Err)
		return extraction
	}

	if err := s.setInCache(ctx, cacheKey, extraction.Requests); err != nil {
		log.Printf("[CACHE] Failed to cache extraction for %q: %v", prompt, err)
	}

	return extraction
}

// generateCacheKey creates a normalized cache key from the prompt.
// Format: "extraction:{normalized_prompt}"
func generateCacheKey(prompt string) string {
	return fmt.Sprintf("extraction:%s", normalizeForCacheKey(prompt))
}

// normalizeForCacheKey normalizes a string for use as cache key component.
// It NFKC-normalizes and case-folds, keeps letters and digits in any script,
// drops other characters and collapses whitespace.
func normalizeForCacheKey(s string) string {
	if s == "" {
		return ""
	}
	folded := cases.Fold().String(norm.NFKC.String(s))

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r), unicode.IsNumber(r), unicode.Is(unicode.Mn, r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// getFromCache retrieves extracted ingredients from cache
func (s *ShoppingService) getFromCache(ctx context.Context, key string) ([]domain.IngredientRequest, error) {
	if s.cache == nil {
		return nil, domain.ErrCacheMiss
	}

	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var requests []domain.IngredientRequest
	if err := json.Unmarshal(data, &requests); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheMiss, err)
	}

	return requests, nil
}

// setInCache stores extracted ingredients in cache
func (s *ShoppingService) setInCache(ctx context.Context, key string, requests []domain.IngredientRequest) error {
	if s.cache == nil {
		return nil
	}

	data, err := json.Marshal(requests)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, key, data, s.cacheTTL)
}
