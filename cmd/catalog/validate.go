package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"nomad-visa-engine/internal/services/engine"
	"nomad-visa-engine/internal/utils"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Parse and transform the dataset and list the resulting countries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, _, cat, err := loadCatalog()
			if err != nil {
				return err
			}

			rates := engine.RatesWithEUR(cfg.EURToUSD)
			out := cmd.OutOrStdout()
			for _, c := range cat.Countries() {
				fmt.Fprintf(out, "%s %-16s %-12s min $%s/month  verified %s\n",
					c.Flag, c.CountryID, c.MinIncome.Currency,
					utils.FormatThousands(engine.ToUSDMonthly(c.MinIncome, rates)),
					c.LastVerifiedAt,
				)
			}
			fmt.Fprintf(out, "%d countries OK\n", cat.Len())
			return nil
		},
	}
}
