package usecase

import (
	"log"
	"strings"

	"github.com/aislemate/backend/internal/domain"
	"golang.org/x/text/cases"
)

// DefaultMaxResultsPerItem is the match cap used when none is configured
const DefaultMaxResultsPerItem = 2

// MatchConfig holds configuration for the matching service
type MatchConfig struct {
	MaxResultsPerItem  int
	EnableDebugLogging bool
}

// MatchingService matches ingredient requests against the product catalog.
// It holds no mutable state and is safe for concurrent use.
type MatchingService struct {
	maxResultsPerItem  int
	enableDebugLogging bool
}

// NewMatchingService creates a new matching service with the given configuration
func NewMatchingService(config MatchConfig) *MatchingService {
	maxResults := config.MaxResultsPerItem
	if maxResults <= 0 {
		maxResults = DefaultMaxResultsPerItem
	}

	return &MatchingService{
		maxResultsPerItem:  maxResults,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// MaxResultsPerItem returns the configured match cap
func (s *MatchingService) MaxResultsPerItem() int {
	return s.maxResultsPerItem
}

// Match matches every request against the catalog using the configured cap.
func (s *MatchingService) Match(requests []domain.IngredientRequest, catalog *domain.Catalog) domain.MatchReport {
	return s.MatchWithLimit(requests, catalog, s.maxResultsPerItem)
}

// MatchWithLimit matches every request against the catalog, selecting at most
// limit rows per request. A non-positive limit uses the configured cap.
//
// Results are grouped by request in input order; within a group rows keep
// catalog order. A row matches when its tags contain the ingredient,
// compared case-insensitively. Requests without an ingredient and selected
// rows missing required fields are skipped and reported as warnings.
func (s *MatchingService) MatchWithLimit(
	requests []domain.IngredientRequest,
	catalog *domain.Catalog,
	limit int,
) domain.MatchReport {
	if limit <= 0 {
		limit = s.maxResultsPerItem
	}

	report := domain.MatchReport{Results: []domain.MatchResult{}}
	if len(requests) == 0 || catalog.Len() == 0 {
		return report
	}

	fold := cases.Fold()

	for reqIdx, req := range requests {
		if strings.TrimSpace(req.Ingredient) == "" {
			report.Warnings = append(report.Warnings, domain.MatchWarning{
				RequestIdx: reqIdx,
				RowIdx:     -1,
				Err:        domain.ErrMalformedRequest,
			})
			if s.enableDebugLogging {
				log.Printf("[MATCH] Skipping request %d: empty ingredient", reqIdx)
			}
			continue
		}

		needle := fold.String(req.Ingredient)
		found := 0

		for rowIdx := 0; rowIdx < catalog.Len() && found < limit; rowIdx++ {
			if !strings.Contains(catalog.FoldedTags(rowIdx), needle) {
				continue
			}

			row := catalog.At(rowIdx)
			if missing := row.MissingFields(); len(missing) > 0 {
				report.Warnings = append(report.Warnings, domain.MatchWarning{
					Ingredient: req.Ingredient,
					RequestIdx: reqIdx,
					RowIdx:     rowIdx,
					Fields:     missing,
					Err:        domain.ErrMissingRequiredField,
				})
				if s.enableDebugLogging {
					log.Printf("[MATCH] Skipping row %d for %q: missing %v", rowIdx, req.Ingredient, missing)
				}
				continue
			}

			report.Results = append(report.Results, toMatchResult(req, &row))
			found++

			if s.enableDebugLogging {
				log.Printf("[MATCH] %q -> row %d %q (%d/%d)", req.Ingredient, rowIdx, row.Name, found, limit)
			}
		}

		if s.enableDebugLogging && found == 0 {
			log.Printf("[MATCH] No products found for %q", req.Ingredient)
		}
	}

	return report
}

// toMatchResult copies the request and product fields into a result
func toMatchResult(req domain.IngredientRequest, row *domain.ProductRecord) domain.MatchResult {
	return domain.MatchResult{
		Ingredient: req.Ingredient,
		Quantity:   req.Quantity,
		Name:       row.Name,
		Brand:      row.Brand,
		Price:      row.Price.Decimal,
		Discount:   row.Discount(),
		Aisle:      row.Aisle,
		Category:   row.Category,
		ImageURL:   row.ImageURL,
	}
}
