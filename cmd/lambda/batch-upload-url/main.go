// Batch Upload URL Lambda entry point
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"

	"nomad-visa-engine/internal/config"
	"nomad-visa-engine/internal/handlers"
	s3service "nomad-visa-engine/internal/services/s3"
	"nomad-visa-engine/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	_ = utils.InitLogger(cfg.LogLevel)
	defer utils.Sync()

	store, err := s3service.NewService(context.Background(), cfg)
	if err != nil {
		panic("Failed to create S3 service: " + err.Error())
	}

	lambda.Start(handlers.NewBatchUploadHandler(store).Handle)
}
