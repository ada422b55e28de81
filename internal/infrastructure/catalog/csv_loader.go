package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/aislemate/backend/internal/domain"
)

// LoadFile reads the inventory CSV at path
func LoadFile(path string) (*domain.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogLoad, err)
	}
	defer f.Close()

	c, err := Load(f)
	if err != nil {
		return nil, err
	}

	log.Printf("[CATALOG] Loaded %d products from %s", c.Len(), path)
	return c, nil
}

// Load reads an inventory CSV with a header row. Columns are located by name in
// any order; short rows and absent columns leave the affected fields absent.
func Load(r io.Reader) (*domain.Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: missing header row", domain.ErrCatalogLoad)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogLoad, err)
	}

	cols := indexHeader(header)
	if len(cols) == 0 {
		return nil, fmt.Errorf("%w: header has no known columns", domain.ErrCatalogLoad)
	}

	var rows []domain.ProductRecord
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrCatalogLoad, err)
		}
		if isBlank(record) {
			continue
		}
		line, _ := reader.FieldPos(0)

		row, invalid := mapToProductRecord(cols, record)
		for _, column := range invalid {
			log.Printf("[CATALOG] Line %d: invalid %s %q treated as absent", line, column, cols.cell(record, column))
		}
		rows = append(rows, row)
	}

	return domain.NewCatalog(rows), nil
}

func isBlank(record []string) bool {
	for _, v := range record {
		if v != "" {
			return false
		}
	}
	return true
}
