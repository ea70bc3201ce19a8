package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	s3service "nomad-visa-engine/internal/services/s3"
)

func publishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Upload the validated dataset to S3 and keep a dated copy",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			data, _, cat, err := loadCatalog()
			if err != nil {
				return err
			}

			key, _ := cmd.Flags().GetString("key")
			if key == "" {
				key = cfg.CatalogS3Key
			}

			store, err := s3service.NewService(ctx, cfg)
			if err != nil {
				return err
			}
			if err := store.PublishSnapshot(ctx, key, data, time.Now()); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "published %d countries to s3://%s/%s\n", cat.Len(), store.Bucket(), key)
			return nil
		},
	}

	cmd.Flags().String("key", "", "object key (default: CATALOG_S3_KEY)")
	return cmd
}
