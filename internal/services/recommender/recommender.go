// Package recommender runs a recommendation request end to end: validation,
// the local engine and the optional advisor with local fallback.
package recommender

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"nomad-visa-engine/internal/models"
	"nomad-visa-engine/internal/services/catalog"
	"nomad-visa-engine/internal/services/engine"
	"nomad-visa-engine/internal/utils"
)

// Rescorer replaces the assessment of recommended countries.
type Rescorer interface {
	Rescore(ctx context.Context, user *models.UserAnswers, results []models.CountryResult) (map[string]models.Assessment, error)
}

// Service answers recommendation requests against one catalog.
type Service struct {
	engine  *engine.Engine
	catalog *catalog.Catalog
	advisor Rescorer
	logger  *zap.Logger
}

// New creates a service. advisor may be nil.
func New(e *engine.Engine, c *catalog.Catalog, advisor Rescorer) *Service {
	return &Service{
		engine:  e,
		catalog: c,
		advisor: advisor,
		logger:  utils.GetLogger(),
	}
}

// Catalog returns the catalog the service scores against.
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// AdvisorEnabled reports whether results may be re-scored by the advisor.
func (s *Service) AdvisorEnabled() bool {
	return s.advisor != nil
}

// Recommend validates the answers and ranks every catalog country.
// Fallback is true whenever the advisor did not contribute to the result.
func (s *Service) Recommend(ctx context.Context, user *models.UserAnswers) (*models.Recommendation, error) {
	if err := models.ValidateAnswers(user); err != nil {
		return nil, err
	}

	rec := &models.Recommendation{
		RequestID: uuid.New().String(),
		Results:   s.engine.Recommend(user, s.catalog.Countries()),
		Fallback:  true,
	}

	if s.advisor == nil {
		return rec, nil
	}

	overrides, err := s.advisor.Rescore(ctx, user, rec.Results)
	if err != nil {
		logger := s.logger.With(zap.String("request_id", rec.RequestID))
		if errors.Is(err, context.Canceled) {
			logger.Info("Request canceled before advisor finished", zap.Error(err))
		} else {
			logger.Warn("Advisor unavailable, serving local results", zap.Error(err))
		}
		return rec, nil
	}

	rec.Results = engine.ApplyOverrides(rec.Results, overrides)
	rec.Fallback = false
	return rec, nil
}

// Local validates the answers and ranks with the rule-based engine only.
func (s *Service) Local(user *models.UserAnswers) ([]models.CountryResult, error) {
	if err := models.ValidateAnswers(user); err != nil {
		return nil, err
	}
	return s.engine.Recommend(user, s.catalog.Countries()), nil
}
