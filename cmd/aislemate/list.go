package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aislemate/backend/internal/domain"
)

func listCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list <request...>",
		Short: "Build a shopping list for a cooking request",
		Long: `Ask the language model which ingredients the request needs and print the
matching products, one line per product:

  ingredient (quantity): name | brand | $price | Discount: d% | Aisle: a`,
		Example: `  aislemate list cook chinese food for four
  aislemate list --max 1 "bake banana bread"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()

			list, err := svc.shopping.BuildShoppingList(cmd.Context(), &domain.ShoppingListRequest{
				Prompt: strings.Join(args, " "),
			})
			if err != nil {
				return fmt.Errorf("failed to build shopping list: %w", err)
			}

			if list.Source == domain.SourceFallback {
				fmt.Fprintln(cmd.ErrOrStderr(), "Note: ingredient extraction failed, showing default ingredients.")
			}
			for _, w := range list.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
			}

			return printResults(cmd.OutOrStdout(), list.Items)
		},
	}
}
