// Email Report Lambda entry point
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"

	"nomad-visa-engine/internal/config"
	"nomad-visa-engine/internal/handlers"
	"nomad-visa-engine/internal/services/recommender"
	"nomad-visa-engine/internal/services/ses"
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

	mailer, err := ses.NewService(ctx, cfg)
	if err != nil {
		panic("Failed to create SES service: " + err.Error())
	}

	lambda.Start(handlers.NewEmailReportHandler(rt.Service, mailer).Handle)
}
