package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aislemate/backend/internal/domain"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// ShoppingListBuilder builds shopping lists and matches ingredient lists
type ShoppingListBuilder interface {
	BuildShoppingList(ctx context.Context, request *domain.ShoppingListRequest) (*domain.ShoppingList, error)
	MatchIngredients(request *domain.MatchRequest) (domain.MatchReport, error)
}

// DealsLister lists discounted products
type DealsLister interface {
	ListDeals(filter domain.DealFilter) ([]domain.Deal, error)
	ListAisleDeals(aisle string) ([]domain.Deal, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	shopping ShoppingListBuilder
	deals    DealsLister
}

// NewHandler creates a new HTTP handler
func NewHandler(shopping ShoppingListBuilder, deals DealsLister) *Handler {
	return &Handler{
		shopping: shopping,
		deals:    deals,
	}
}

// MatchResponse is the body returned by MatchIngredients
type MatchResponse struct {
	Results  []domain.MatchResult `json:"results"`
	Warnings []string             `json:"warnings,omitempty"`
	Message  string               `json:"message"`
}

// DealsResponse is the body returned by the deals endpoints
type DealsResponse struct {
	Deals []domain.Deal `json:"deals"`
	Count int           `json:"count"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "aislemate-backend",
		"version": Version,
	})
}

// BuildShoppingList handles POST /api/v1/shopping-list
func (h *Handler) BuildShoppingList(c *gin.Context) {
	if h.shopping == nil {
		respondError(c, domain.ErrCatalogUnavailable)
		return
	}

	var req domain.ShoppingListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "prompt is required"})
		return
	}

	list, err := h.shopping.BuildShoppingList(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// MatchIngredients handles POST /api/v1/match
func (h *Handler) MatchIngredients(c *gin.Context) {
	if h.shopping == nil {
		respondError(c, domain.ErrCatalogUnavailable)
		return
	}

	var req domain.MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	report, err := h.shopping.MatchIngredients(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := MatchResponse{
		Results: report.Results,
		Message: matchMessage(len(report.Results)),
	}
	for _, w := range report.Warnings {
		resp.Warnings = append(resp.Warnings, w.Message())
	}

	c.JSON(http.StatusOK, resp)
}

// ListDeals handles GET /api/v1/deals?aisle=&category=
func (h *Handler) ListDeals(c *gin.Context) {
	if h.deals == nil {
		respondError(c, domain.ErrCatalogUnavailable)
		return
	}

	deals, err := h.deals.ListDeals(domain.DealFilter{
		Aisle:    c.Query("aisle"),
		Category: c.Query("category"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, DealsResponse{Deals: deals, Count: len(deals)})
}

// ListAisleDeals handles GET /api/v1/deals/aisle/:aisle
func (h *Handler) ListAisleDeals(c *gin.Context) {
	if h.deals == nil {
		respondError(c, domain.ErrCatalogUnavailable)
		return
	}

	deals, err := h.deals.ListAisleDeals(c.Param("aisle"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, DealsResponse{Deals: deals, Count: len(deals)})
}

// respondError maps domain errors to HTTP status codes
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrRateLimited):
		status, message = http.StatusTooManyRequests, err.Error()
	case errors.Is(err, domain.ErrCatalogUnavailable), errors.Is(err, domain.ErrCatalogLoad):
		status, message = http.StatusServiceUnavailable, domain.ErrCatalogUnavailable.Error()
	}

	if status >= http.StatusInternalServerError {
		log.Printf("[HTTP] %s %s failed: %v", c.Request.Method, c.FullPath(), err)
	}

	c.JSON(status, gin.H{"error": message})
}

func matchMessage(n int) string {
	if n == 0 {
		return "No matches found."
	}
	return fmt.Sprintf("Found %d items", n)
}
