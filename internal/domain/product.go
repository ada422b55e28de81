package domain

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

// ProductRecord is a single row of the product inventory.
// Empty strings and invalid NullDecimals mean the column was absent for the row.
type ProductRecord struct {
	Name            string              `json:"name"`
	Brand           string              `json:"brand"`
	Price           decimal.NullDecimal `json:"price"`
	DiscountPercent decimal.NullDecimal `json:"discount_percent"`
	Aisle           string              `json:"aisle"`
	Category        string              `json:"category"`
	ImageURL        string              `json:"image_url"`
	Tags            string              `json:"tags"`
}

// MissingFields lists the required columns absent on the record, in column order.
func (p *ProductRecord) MissingFields() []string {
	var missing []string
	if p.Name == "" {
		missing = append(missing, "name")
	}
	if p.Brand == "" {
		missing = append(missing, "brand")
	}
	if !p.Price.Valid {
		missing = append(missing, "price")
	}
	if p.Aisle == "" {
		missing = append(missing, "aisle")
	}
	if p.Category == "" {
		missing = append(missing, "category")
	}
	if p.ImageURL == "" {
		missing = append(missing, "image_url")
	}
	return missing
}

// Discount returns the discount percentage, or zero when the column was absent.
func (p *ProductRecord) Discount() decimal.Decimal {
	if !p.DiscountPercent.Valid {
		return decimal.Zero
	}
	return p.DiscountPercent.Decimal
}

// Catalog is an ordered, read-only collection of products.
// It is built once and may be shared by concurrent readers.
type Catalog struct {
	products   []ProductRecord
	foldedTags []string
}

// NewCatalog copies products into a new catalog and indexes their tags.
func NewCatalog(products []ProductRecord) *Catalog {
	c := &Catalog{
		products:   make([]ProductRecord, len(products)),
		foldedTags: make([]string, len(products)),
	}
	copy(c.products, products)

	fold := cases.Fold()
	for i := range c.products {
		c.foldedTags[i] = fold.String(c.products[i].Tags)
	}
	return c
}

// Len returns the number of rows in the catalog.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.products)
}

// At returns the row at index i. The returned value is a copy.
func (c *Catalog) At(i int) ProductRecord {
	return c.products[i]
}

// FoldedTags returns the case-folded tags of row i.
func (c *Catalog) FoldedTags(i int) string {
	return c.foldedTags[i]
}
