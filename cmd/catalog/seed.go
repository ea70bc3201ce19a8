package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nomad-visa-engine/internal/services/database"
	"nomad-visa-engine/internal/utils"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the policy-facts table and upsert the dataset into Postgres",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			_, facts, _, err := loadCatalog()
			if err != nil {
				return err
			}
			docs, err := toPolicyFacts(facts)
			if err != nil {
				return err
			}

			db, err := database.New(ctx, cfg)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()

			repo := database.NewPolicyRepository(db)
			if err := repo.EnsureSchema(ctx); err != nil {
				return err
			}
			written, err := repo.UpsertFacts(ctx, docs)
			if err != nil {
				return err
			}

			utils.GetLogger().Info("Seeded policy facts", zap.Int("countries", written))
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d countries\n", written)
			return nil
		},
	}
}
