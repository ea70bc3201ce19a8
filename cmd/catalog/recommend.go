package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"nomad-visa-engine/internal/models"
	"nomad-visa-engine/internal/services/engine"
	"nomad-visa-engine/internal/utils"
)

func recommendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend <answers.json>",
		Short: "Rank the catalog for a questionnaire with the local engine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read answers: %w", err)
			}
			var answers models.UserAnswers
			if err := json.Unmarshal(raw, &answers); err != nil {
				return fmt.Errorf("failed to parse answers: %w", err)
			}
			if err := models.ValidateAnswers(&answers); err != nil {
				return err
			}

			_, _, cat, err := loadCatalog()
			if err != nil {
				return err
			}

			eng := engine.NewEngine(
				engine.WithRates(engine.RatesWithEUR(cfg.EURToUSD)),
				engine.WithLogger(utils.GetLogger()),
			)
			results := eng.Recommend(&answers, cat.Countries())

			out := cmd.OutOrStdout()
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}

			for i, r := range results {
				if r.IsExcluded() {
					fmt.Fprintf(out, "%2d. %s %-12s EXCLUDED: %s\n", i+1, r.Country.Flag, r.Country.Name,
						strings.Join(r.ExcludeReasons, "; "))
					continue
				}
				fmt.Fprintf(out, "%2d. %s %-12s %3d  %s\n", i+1, r.Country.Flag, r.Country.Name, *r.Score, r.Tier)
			}
			return nil
		},
	}

	cmd.Flags().Bool("json", false, "print the full results as JSON")
	return cmd
}
