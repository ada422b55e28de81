package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aislemate/backend/internal/domain"
)

const sampleInventory = `name,brand,price,discount_percent,aisle,category,image_url,tags
Jasmine Rice,Great Value,4.99,10,A7,Pantry,https://img.example.com/rice.png,"rice, jasmine, grain"
Soy Sauce,Kikkoman,3.49,0,A7,Condiments,https://img.example.com/soy.png,"soy sauce, condiment"
Chicken Thighs,Tyson,8.75,25,B2,Meat,https://img.example.com/chicken.png,"chicken, poultry"
`

func TestLoad(t *testing.T) {
	c, err := Load(strings.NewReader(sampleInventory))
	require.NoError(t, err)
	require.Equal(t, 3, c.Len())

	first := c.At(0)
	assert.Equal(t, "Jasmine Rice", first.Name)
	assert.Equal(t, "Great Value", first.Brand)
	assert.True(t, first.Price.Valid)
	assert.True(t, first.Price.Decimal.Equal(decimal.RequireFromString("4.99")))
	assert.True(t, first.Discount().Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "A7", first.Aisle)
	assert.Equal(t, "Pantry", first.Category)
	assert.Equal(t, "https://img.example.com/rice.png", first.ImageURL)
	assert.Equal(t, "rice, jasmine, grain", first.Tags)
	assert.Empty(t, first.MissingFields())

	assert.Equal(t, "Chicken Thighs", c.At(2).Name, "rows keep file order")
}

func TestLoad_ColumnOrderAndCase(t *testing.T) {
	input := "Tags, NAME ,Price,Extra,Brand\n" +
		"tofu,Silken Tofu,2.10,ignored,House\n"

	c, err := Load(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())

	row := c.At(0)
	assert.Equal(t, "Silken Tofu", row.Name)
	assert.Equal(t, "House", row.Brand)
	assert.Equal(t, "tofu", row.Tags)
	assert.True(t, row.Price.Decimal.Equal(decimal.RequireFromString("2.10")))
	assert.Equal(t, []string{"aisle", "category", "image_url"}, row.MissingFields())
	assert.False(t, row.DiscountPercent.Valid)
}

func TestLoad_ShortRows(t *testing.T) {
	input := "name,brand,price,discount_percent,aisle,category,image_url,tags\n" +
		"Bok Choy,Farm Fresh,1.99\n"

	c, err := Load(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())

	row := c.At(0)
	assert.Equal(t, "Bok Choy", row.Name)
	assert.Equal(t, "", row.Tags)
	assert.Equal(t, []string{"aisle", "category", "image_url"}, row.MissingFields())
}

func TestLoad_InvalidNumbersAreAbsent(t *testing.T) {
	input := "name,price,discount_percent,tags\n" +
		"Sesame Oil,n/a,lots,oil\n" +
		"Rice Vinegar,$2.50,15%,vinegar\n" +
		"Fish Sauce,-3.00,-20,fish sauce\n"

	c, err := Load(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 3, c.Len())

	oil := c.At(0)
	assert.False(t, oil.Price.Valid)
	assert.False(t, oil.DiscountPercent.Valid)
	assert.Contains(t, oil.MissingFields(), "price")

	vinegar := c.At(1)
	assert.True(t, vinegar.Price.Decimal.Equal(decimal.RequireFromString("2.50")))
	assert.True(t, vinegar.Discount().Equal(decimal.NewFromInt(15)))

	fishSauce := c.At(2)
	assert.False(t, fishSauce.Price.Valid, "negative price is absent")
	assert.False(t, fishSauce.DiscountPercent.Valid, "negative discount is absent")
	assert.Contains(t, fishSauce.MissingFields(), "price")
	assert.True(t, fishSauce.Discount().IsZero())
}

func TestLoad_SkipsBlankRecords(t *testing.T) {
	input := "name,tags\n,\nGinger,ginger\n\n"

	c, err := Load(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
}

func TestLoad_ByteOrderMark(t *testing.T) {
	c, err := Load(strings.NewReader("\ufeffname,tags\nGarlic,garlic\n"))
	require.NoError(t, err)
	assert.Equal(t, "Garlic", c.At(0).Name)
}

func TestLoad_HeaderOnly(t *testing.T) {
	c, err := Load(strings.NewReader("name,brand,price\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"no known columns", "foo,bar\n1,2\n"},
		{"malformed quoting", "name,tags\n\"Rice,rice\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, domain.ErrCatalogLoad)
		})
	}
}

func TestLoadFile(t *testing.T) {
	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "inventory.csv")
		require.NoError(t, os.WriteFile(path, []byte(sampleInventory), 0o644))

		c, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, 3, c.Len())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "nope.csv"))
		assert.ErrorIs(t, err, domain.ErrCatalogLoad)
	})
}
