// Package advisor re-scores locally recommended countries with a language
// model. Hard filtering always stays local; the advisor only replaces the
// soft assessment of countries that passed it.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"nomad-visa-engine/internal/config"
	"nomad-visa-engine/internal/models"
	"nomad-visa-engine/internal/services/engine"
	"nomad-visa-engine/internal/utils"
)

// Advisor errors
var (
	ErrAdvisorDisabled = errors.New("advisor is not configured")
	ErrNoCandidates    = errors.New("no recommended countries to re-score")
	ErrNoAssessments   = errors.New("model returned no usable assessments")
)

// Completer sends chat messages and returns the reply text.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Service builds prompts, calls the model and validates its answer.
type Service struct {
	llm   Completer
	rates engine.RateTable
}

// NewService creates an advisor from configuration. It returns
// ErrAdvisorDisabled when no API key is set.
func NewService(cfg *config.Config, rates engine.RateTable) (*Service, error) {
	if !cfg.AdvisorEnabled() {
		return nil, ErrAdvisorDisabled
	}

	llm := NewLLMClient(ClientConfig{
		APIKey:  cfg.OpenRouterAPIKey,
		APIURL:  cfg.OpenRouterURL,
		Model:   cfg.OpenRouterModel,
		Referer: cfg.AppReferer,
		Title:   cfg.AppTitle,
		Timeout: cfg.AdvisorTimeout,
	}, nil)

	return NewWithCompleter(llm, rates), nil
}

// NewWithCompleter creates an advisor around any Completer.
func NewWithCompleter(llm Completer, rates engine.RateTable) *Service {
	if rates == nil {
		rates = engine.DefaultRates()
	}
	return &Service{llm: llm, rates: rates}
}

// Rescore asks the model to assess the RECOMMENDED results and returns the
// assessments keyed by country id. Items for countries that were not sent
// are ignored.
func (s *Service) Rescore(ctx context.Context, user *models.UserAnswers, results []models.CountryResult) (map[string]models.Assessment, error) {
	if s == nil || s.llm == nil {
		return nil, ErrAdvisorDisabled
	}

	candidates := make([]*models.CountryPolicy, 0, len(results))
	sent := make(map[string]bool, len(results))
	for _, r := range results {
		if r.IsExcluded() || r.Country == nil {
			continue
		}
		candidates = append(candidates, r.Country)
		sent[r.Country.CountryID] = true
	}
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	start := time.Now()
	content, err := s.llm.Complete(ctx, []Message{
		{Role: "system", Content: SystemPrompt(len(candidates))},
		{Role: "user", Content: UserPrompt(user, candidates, s.rates)},
	})
	if err != nil {
		return nil, fmt.Errorf("completion failed: %w", err)
	}

	items, err := ParseScoreItems(content)
	if err != nil {
		return nil, err
	}

	overrides := make(map[string]models.Assessment, len(items))
	for _, it := range items {
		if !sent[it.CountryID] {
			continue
		}
		overrides[it.CountryID] = it.Assessment()
	}
	if len(overrides) == 0 {
		return nil, ErrNoAssessments
	}

	utils.GetLogger().Info("Advisor re-scored countries",
		zap.Int("sent", len(candidates)),
		zap.Int("returned", len(items)),
		zap.Int("accepted", len(overrides)),
		zap.Int("response_length", len(content)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return overrides, nil
}
