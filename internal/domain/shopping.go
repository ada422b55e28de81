package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// IngredientRequest is one ingredient extracted from a cooking request
type IngredientRequest struct {
	Ingredient string `json:"ingredient"`
	Quantity   string `json:"quantity"`
}

// MatchResult joins one ingredient request with one matched catalog row
type MatchResult struct {
	Ingredient string          `json:"ingredient"`
	Quantity   string          `json:"quantity"`
	Name       string          `json:"name"`
	Brand      string          `json:"brand"`
	Price      decimal.Decimal `json:"price"`
	Discount   decimal.Decimal `json:"discount"`
	Aisle      string          `json:"aisle"`
	Category   string          `json:"category"`
	ImageURL   string          `json:"image_url"`
}

// MatchReport is the matcher output: results in request order, plus any skipped rows or requests
type MatchReport struct {
	Results  []MatchResult
	Warnings []MatchWarning
}

// Extraction sources
const (
	SourceLLM      = "llm"
	SourceCache    = "cache"
	SourceFallback = "fallback"
)

// Extraction is the outcome of turning an utterance into ingredient requests.
// Requests is never empty. Err carries the cause when Source is SourceFallback.
type Extraction struct {
	Requests []IngredientRequest
	Source   string
	Err      error
}

// ShoppingListRequest is the body of a shopping list request
type ShoppingListRequest struct {
	Prompt            string `json:"prompt" binding:"required"`
	MaxResultsPerItem int    `json:"max_results_per_item,omitempty"`
}

// MatchRequest is the body of a direct matching request
type MatchRequest struct {
	Ingredients       []IngredientRequest `json:"ingredients"`
	MaxResultsPerItem int                 `json:"max_results_per_item,omitempty"`
}

// ShoppingList is the full response for a cooking request
type ShoppingList struct {
	Prompt      string              `json:"prompt"`
	Ingredients []IngredientRequest `json:"ingredients"`
	Items       []MatchResult       `json:"items"`
	Warnings    []string            `json:"warnings,omitempty"`
	Source      string              `json:"source"`
	Message     string              `json:"message"`
}

// Deal is a discounted catalog product
type Deal struct {
	Name     string          `json:"name"`
	Brand    string          `json:"brand"`
	Price    decimal.Decimal `json:"price"`
	Discount decimal.Decimal `json:"discount"`
	Aisle    string          `json:"aisle"`
	Category string          `json:"category"`
	ImageURL string          `json:"image_url"`
}

// DealFilter narrows the deals listing. Empty fields mean no filter.
type DealFilter struct {
	Aisle    string
	Category string
	Limit    int
}

// ParseIngredientSpec parses an "ingredient:quantity" configuration entry.
// The quantity part is optional.
func ParseIngredientSpec(spec string) IngredientRequest {
	name, qty, _ := strings.Cut(spec, ":")
	return IngredientRequest{
		Ingredient: strings.TrimSpace(name),
		Quantity:   strings.TrimSpace(qty),
	}
}
