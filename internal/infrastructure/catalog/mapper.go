package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/aislemate/backend/internal/domain"
)

// Inventory column names, matched case-insensitively
const (
	ColumnName            = "name"
	ColumnBrand           = "brand"
	ColumnPrice           = "price"
	ColumnDiscountPercent = "discount_percent"
	ColumnAisle           = "aisle"
	ColumnCategory        = "category"
	ColumnImageURL        = "image_url"
	ColumnTags            = "tags"
)

// columnIndex maps known column names to their position in the header
type columnIndex map[string]int

// indexHeader locates the known columns in a header row. Unknown columns are ignored;
// the first occurrence of a duplicated column wins.
func indexHeader(header []string) columnIndex {
	idx := columnIndex{}
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		switch name {
		case ColumnName, ColumnBrand, ColumnPrice, ColumnDiscountPercent,
			ColumnAisle, ColumnCategory, ColumnImageURL, ColumnTags:
			if _, seen := idx[name]; !seen {
				idx[name] = i
			}
		}
	}
	return idx
}

// cell returns the trimmed value of column for the record, or "" when the column
// or the cell is absent.
func (c columnIndex) cell(record []string, column string) string {
	i, ok := c[column]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// mapToProductRecord converts one CSV record into a product row. It reports the
// numeric columns whose non-empty cells are unparseable or negative; those are left absent.
func mapToProductRecord(cols columnIndex, record []string) (domain.ProductRecord, []string) {
	var invalid []string

	parse := func(column string) decimal.NullDecimal {
		raw := cols.cell(record, column)
		if raw == "" {
			return decimal.NullDecimal{}
		}
		d, err := decimal.NewFromString(strings.TrimSuffix(strings.TrimPrefix(raw, "$"), "%"))
		if err != nil || d.IsNegative() {
			invalid = append(invalid, column)
			return decimal.NullDecimal{}
		}
		return decimal.NewNullDecimal(d)
	}

	row := domain.ProductRecord{
		Name:            cols.cell(record, ColumnName),
		Brand:           cols.cell(record, ColumnBrand),
		Price:           parse(ColumnPrice),
		DiscountPercent: parse(ColumnDiscountPercent),
		Aisle:           cols.cell(record, ColumnAisle),
		Category:        cols.cell(record, ColumnCategory),
		ImageURL:        cols.cell(record, ColumnImageURL),
		Tags:            cols.cell(record, ColumnTags),
	}

	return row, invalid
}
