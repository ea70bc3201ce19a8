// Countries Lambda entry point
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"

	"nomad-visa-engine/internal/config"
	"nomad-visa-engine/internal/handlers"
	"nomad-visa-engine/internal/services/recommender"
	"nomad-visa-engine/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	_ = utils.InitLogger(cfg.LogLevel)
	defer utils.Sync()

	rt, err := recommender.Bootstrap(context.Background(), cfg)
	if err != nil {
		panic("Failed to create handler: " + err.Error())
	}
	defer rt.Close()

	lambda.Start(handlers.NewCountriesHandler(rt.Service.Catalog()).Handle)
}
