package recommender

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"nomad-visa-engine/internal/config"
	"nomad-visa-engine/internal/services/advisor"
	"nomad-visa-engine/internal/services/catalog"
	"nomad-visa-engine/internal/services/database"
	"nomad-visa-engine/internal/services/engine"
	s3service "nomad-visa-engine/internal/services/s3"
	"nomad-visa-engine/internal/utils"
)

// Runtime is a configured service plus the connections it holds.
type Runtime struct {
	Service *Service
	DB      *database.DB
}

// Close releases the database pool, if any.
func (r *Runtime) Close() {
	if r.DB != nil {
		r.DB.Close()
	}
}

// Bootstrap loads the catalog from the configured source and wires the
// engine and, when an API key is set, the advisor.
func Bootstrap(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	logger := utils.GetLogger()
	rt := &Runtime{}

	var src catalog.Sources
	switch cfg.CatalogSource {
	case config.CatalogSourceS3:
		s3Svc, err := s3service.NewService(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create S3 service: %w", err)
		}
		src.S3 = s3Svc
	case config.CatalogSourcePostgres:
		db, err := database.New(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		rt.DB = db
		src.Store = database.NewPolicyRepository(db)
	}

	cat, err := catalog.Load(ctx, cfg, src)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	rates := engine.RatesWithEUR(cfg.EURToUSD)
	eng := engine.NewEngine(
		engine.WithRates(rates),
		engine.WithLogger(logger),
	)

	var rescorer Rescorer
	adv, err := advisor.NewService(cfg, rates)
	switch {
	case err == nil:
		rescorer = adv
	case errors.Is(err, advisor.ErrAdvisorDisabled):
		logger.Info("Advisor disabled, serving local scores only")
	default:
		rt.Close()
		return nil, fmt.Errorf("failed to create advisor: %w", err)
	}

	rt.Service = New(eng, cat, rescorer)

	logger.Info("Recommender ready",
		zap.String("catalog_source", cfg.CatalogSource),
		zap.Int("countries", cat.Len()),
		zap.Bool("advisor", rescorer != nil),
	)
	return rt, nil
}
