// Batch Processor Lambda entry point, triggered by S3 uploads under batch/incoming/
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"

	"nomad-visa-engine/internal/config"
	"nomad-visa-engine/internal/handlers"
	"nomad-visa-engine/internal/services/recommender"
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

	ctx := context.Background()

	rt, err := recommender.Bootstrap(ctx, cfg)
	if err != nil {
		panic("Failed to create handler: " + err.Error())
	}
	defer rt.Close()

	store, err := s3service.NewService(ctx, cfg)
	if err != nil {
		panic("Failed to create S3 service: " + err.Error())
	}

	lambda.Start(handlers.NewBatchProcessorHandler(rt.Service, store).Handle)
}
