package main

import (
	"fmt"
	"io"

	"github.com/aislemate/backend/internal/domain"
)

const noMatches = "No matches found."

// formatResult renders one match as
// "ingredient (quantity): name | brand | $price | Discount: d% | Aisle: a"
func formatResult(r domain.MatchResult) string {
	return fmt.Sprintf("%s (%s): %s | %s | $%s | Discount: %s%% | Aisle: %s",
		r.Ingredient, r.Quantity, r.Name, r.Brand, r.Price.String(), r.Discount.String(), r.Aisle)
}

func formatDeal(d domain.Deal) string {
	return fmt.Sprintf("%s | %s | $%s | Discount: %s%% | Aisle: %s | %s",
		d.Name, d.Brand, d.Price.String(), d.Discount.String(), d.Aisle, d.Category)
}

func printResults(w io.Writer, results []domain.MatchResult) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, noMatches)
		return err
	}
	for _, r := range results {
		if _, err := fmt.Fprintln(w, formatResult(r)); err != nil {
			return err
		}
	}
	return nil
}

func printDeals(w io.Writer, deals []domain.Deal) error {
	if len(deals) == 0 {
		_, err := fmt.Fprintln(w, "No deals found.")
		return err
	}
	for _, d := range deals {
		if _, err := fmt.Fprintln(w, formatDeal(d)); err != nil {
			return err
		}
	}
	return nil
}
