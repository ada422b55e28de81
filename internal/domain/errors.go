package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedRequest is reported when an ingredient request has no ingredient name
	ErrMalformedRequest = errors.New("malformed ingredient request")

	// ErrMissingRequiredField is reported when a matched catalog row lacks a required product field
	ErrMissingRequiredField = errors.New("catalog row missing required field")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")

	// ErrLLMFailure is returned when the language model request fails or its output is unusable
	ErrLLMFailure = errors.New("language model request failed")

	// ErrCatalogLoad is returned when the product catalog cannot be read
	ErrCatalogLoad = errors.New("failed to load product catalog")

	// ErrCatalogUnavailable is returned when no catalog has been loaded
	ErrCatalogUnavailable = errors.New("product catalog unavailable")
)

// MatchWarning is a recoverable, request- or row-scoped problem found while matching.
type MatchWarning struct {
	Ingredient string   `json:"ingredient"`
	RequestIdx int      `json:"requestIndex"`
	RowIdx     int      `json:"rowIndex"` // -1 when the warning concerns the request itself
	Fields     []string `json:"fields,omitempty"`
	Err        error    `json:"-"`
}

func (w MatchWarning) Error() string {
	if len(w.Fields) > 0 {
		return fmt.Sprintf("%v: row %d (ingredient %q) lacks %s",
			w.Err, w.RowIdx, w.Ingredient, strings.Join(w.Fields, ", "))
	}
	return fmt.Sprintf("%v: request %d", w.Err, w.RequestIdx)
}

func (w MatchWarning) Unwrap() error {
	return w.Err
}

// Message is the human readable form used in API responses.
func (w MatchWarning) Message() string {
	return w.Error()
}
