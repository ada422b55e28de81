package usecase

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aislemate/backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deal(name, aisle, category string, discount int64) domain.ProductRecord {
	p := product(name, name)
	p.Aisle = aisle
	p.Category = category
	p.DiscountPercent = decimal.NewNullDecimal(decimal.NewFromInt(discount))
	return p
}

func dealsCatalog(rows ...domain.ProductRecord) *domain.StaticCatalog {
	return domain.NewStaticCatalog(domain.NewCatalog(rows))
}

func dealNames(deals []domain.Deal) []string {
	names := make([]string, 0, len(deals))
	for _, d := range deals {
		names = append(names, d.Name)
	}
	return names
}

func TestListDeals(t *testing.T) {
	rows := []domain.ProductRecord{
		deal("Jasmine Rice", "A7", "Pantry", 10),
		deal("Soy Sauce", "A7", "Condiments", 0),
		deal("Chicken Thighs", "B2", "Meat", 25),
		deal("Bok Choy", "C1", "Produce", 5),
		deal("Sesame Oil", "A7", "condiments", 15),
	}

	tests := []struct {
		name   string
		filter domain.DealFilter
		want   []string
	}{
		{
			name:   "no filter returns discounted rows in catalog order",
			filter: domain.DealFilter{},
			want:   []string{"Jasmine Rice", "Chicken Thighs", "Bok Choy", "Sesame Oil"},
		},
		{
			name:   "aisle filter",
			filter: domain.DealFilter{Aisle: "A7"},
			want:   []string{"Jasmine Rice", "Sesame Oil"},
		},
		{
			name:   "category filter ignores case",
			filter: domain.DealFilter{Category: "CONDIMENTS"},
			want:   []string{"Sesame Oil"},
		},
		{
			name:   "all category disables the filter",
			filter: domain.DealFilter{Category: "All"},
			want:   []string{"Jasmine Rice", "Chicken Thighs", "Bok Choy", "Sesame Oil"},
		},
		{
			name:   "aisle and category combine",
			filter: domain.DealFilter{Aisle: "A7", Category: "Pantry"},
			want:   []string{"Jasmine Rice"},
		},
		{
			name:   "limit caps results",
			filter: domain.DealFilter{Limit: 2},
			want:   []string{"Jasmine Rice", "Chicken Thighs"},
		},
		{
			name:   "unknown aisle returns empty",
			filter: domain.DealFilter{Aisle: "Z9"},
			want:   []string{},
		},
	}

	svc := NewDealsService(dealsCatalog(rows...))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deals, err := svc.ListDeals(tt.filter)
			require.NoError(t, err)
			require.NotNil(t, deals)
			assert.Equal(t, tt.want, dealNames(deals))
		})
	}
}

func TestListDealsDefaultLimit(t *testing.T) {
	rows := make([]domain.ProductRecord, 0, 30)
	for i := 0; i < 30; i++ {
		rows = append(rows, deal(fmt.Sprintf("Item %d", i), "A1", "Pantry", 10))
	}

	deals, err := NewDealsService(dealsCatalog(rows...)).ListDeals(domain.DealFilter{})
	require.NoError(t, err)
	assert.Len(t, deals, DefaultDealsLimit)
	assert.Equal(t, "Item 0", deals[0].Name)
}

func TestListDealsSkipsIncompleteRows(t *testing.T) {
	incomplete := deal("Mystery Box", "A1", "Pantry", 50)
	incomplete.Brand = ""

	deals, err := NewDealsService(dealsCatalog(incomplete, deal("Tofu", "A1", "Pantry", 20))).
		ListDeals(domain.DealFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Tofu"}, dealNames(deals))
	assert.True(t, deals[0].Discount.Equal(decimal.NewFromInt(20)))
}

func TestListDealsCatalogUnavailable(t *testing.T) {
	_, err := NewDealsService(domain.NewStaticCatalog(nil)).ListDeals(domain.DealFilter{})
	assert.True(t, errors.Is(err, domain.ErrCatalogUnavailable))
}

func TestListAisleDeals(t *testing.T) {
	rows := make([]domain.ProductRecord, 0, 8)
	for i := 0; i < 8; i++ {
		rows = append(rows, deal(fmt.Sprintf("Item %d", i), "A3", "Pantry", 10))
	}
	svc := NewDealsService(dealsCatalog(rows...))

	t.Run("caps at aisle limit", func(t *testing.T) {
		deals, err := svc.ListAisleDeals("A3")
		require.NoError(t, err)
		assert.Len(t, deals, AisleDealsLimit)
	})

	t.Run("rejects empty aisle", func(t *testing.T) {
		_, err := svc.ListAisleDeals("  ")
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	})
}
