package usecase

import (
	"strings"

	"github.com/aislemate/backend/internal/domain"
)

// Listing limits
const (
	DefaultDealsLimit = 20
	AisleDealsLimit   = 5
)

// allCategories disables the category filter
const allCategories = "all"

// DealsService lists discounted products from the catalog
type DealsService struct {
	catalogs domain.CatalogProvider
}

// NewDealsService creates a new deals service
func NewDealsService(catalogs domain.CatalogProvider) *DealsService {
	return &DealsService{catalogs: catalogs}
}

// ListDeals returns discounted products in catalog order, filtered by aisle and category.
// Rows missing required product fields are skipped.
func (s *DealsService) ListDeals(filter domain.DealFilter) ([]domain.Deal, error) {
	catalog, err := s.catalogs.Catalog()
	if err != nil {
		return nil, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultDealsLimit
	}

	aisle := strings.TrimSpace(filter.Aisle)
	category := strings.TrimSpace(filter.Category)
	if strings.EqualFold(category, allCategories) {
		category = ""
	}

	deals := []domain.Deal{}
	for i := 0; i < catalog.Len() && len(deals) < limit; i++ {
		row := catalog.At(i)

		if !row.Discount().IsPositive() {
			continue
		}
		if aisle != "" && row.Aisle != aisle {
			continue
		}
		if category != "" && !strings.EqualFold(row.Category, category) {
			continue
		}
		if len(row.MissingFields()) > 0 {
			continue
		}

		deals = append(deals, domain.Deal{
			Name:     row.Name,
			Brand:    row.Brand,
			Price:    row.Price.Decimal,
			Discount: row.Discount(),
			Aisle:    row.Aisle,
			Category: row.Category,
			ImageURL: row.ImageURL,
		})
	}

	return deals, nil
}

// ListAisleDeals returns up to AisleDealsLimit deals located in one aisle
func (s *DealsService) ListAisleDeals(aisle string) ([]domain.Deal, error) {
	if strings.TrimSpace(aisle) == "" {
		return nil, domain.ErrInvalidRequest
	}
	return s.ListDeals(domain.DealFilter{Aisle: aisle, Limit: AisleDealsLimit})
}
