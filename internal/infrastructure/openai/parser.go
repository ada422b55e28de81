package openai

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aislemate/backend/internal/domain"
)

// ingredientItem is the object shape the model is asked to return
type ingredientItem struct {
	Ingredient string `json:"ingredient"`
	Quantity   string `json:"quantity"`
}

// parseIngredients decodes the model output into normalized ingredient requests.
// Entries whose ingredient normalizes to empty are dropped.
func parseIngredients(content string, normalizer Normalizer) ([]domain.IngredientRequest, error) {
	content = cleanJSONResponse(content)

	dec := json.NewDecoder(bytes.NewReader([]byte(content)))
	dec.DisallowUnknownFields()

	var items []ingredientItem
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("%w: failed to parse response: %v", domain.ErrLLMFailure, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after JSON list", domain.ErrLLMFailure)
	}

	requests := make([]domain.IngredientRequest, 0, len(items))
	for _, item := range items {
		name := strings.TrimSpace(normalizer.NormalizeIngredient(item.Ingredient))
		if name == "" {
			continue
		}
		requests = append(requests, domain.IngredientRequest{
			Ingredient: name,
			Quantity:   strings.TrimSpace(normalizer.NormalizeQuantity(item.Quantity)),
		})
	}

	if len(requests) == 0 {
		return nil, fmt.Errorf("%w: response contained no ingredients", domain.ErrLLMFailure)
	}

	return requests, nil
}

// cleanJSONResponse strips the markdown code fences models sometimes wrap JSON in
func cleanJSONResponse(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```") {
		if firstLineEnd := strings.Index(s, "\n"); firstLineEnd != -1 {
			s = s[firstLineEnd+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}

	return s
}
