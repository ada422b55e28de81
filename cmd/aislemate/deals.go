package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aislemate/backend/internal/domain"
)

func dealsCmd(a *app) *cobra.Command {
	var filter domain.DealFilter

	cmd := &cobra.Command{
		Use:   "deals",
		Short: "List discounted products",
		Example: `  aislemate deals
  aislemate deals --aisle A7
  aislemate deals --category Produce --limit 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()

			deals, err := svc.deals.ListDeals(filter)
			if err != nil {
				return fmt.Errorf("failed to list deals: %w", err)
			}

			return printDeals(cmd.OutOrStdout(), deals)
		},
	}

	cmd.Flags().StringVar(&filter.Aisle, "aisle", "", "only deals in this aisle")
	cmd.Flags().StringVar(&filter.Category, "category", "", `only deals in this category ("All" for every category)`)
	cmd.Flags().IntVar(&filter.Limit, "limit", 0, "maximum number of deals (default 20)")

	return cmd
}
