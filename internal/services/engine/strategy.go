package engine

import (
	"time"

	"nomad-visa-engine/internal/models"
)

// Strategy produces the soft-scoring assessment for a country that passed
// the hard filter.
type Strategy interface {
	Assess(user *models.UserAnswers, c *models.CountryPolicy, asOf time.Time) models.Assessment
}

// LocalStrategy scores with the built-in rule tables.
type LocalStrategy struct {
	Rates RateTable
}

// NewLocalStrategy creates a rule-based strategy.
func NewLocalStrategy(rates RateTable) *LocalStrategy {
	if rates == nil {
		rates = DefaultRates()
	}
	return &LocalStrategy{Rates: rates}
}

// Assess runs the scorers, modifiers and explanation generator.
func (s *LocalStrategy) Assess(user *models.UserAnswers, c *models.CountryPolicy, asOf time.Time) models.Assessment {
	bd := models.ScoreBreakdown{
		Feasibility: ScoreFeasibility(user, c, s.Rates),
		Stability:   ScoreStability(c),
		Longterm:    ScoreLongterm(user, c),
		Tax:         ScoreTax(c),
		Lifestyle:   ScoreLifestyle(user, c),
	}
	final := ApplyModifiers(bd.Total(), user, c, asOf)

	return models.Assessment{
		Score:      final,
		Tier:       Tier(final),
		Breakdown:  bd,
		Highlights: Highlights(user, c, bd, s.Rates),
		Risks:      Risks(user, c, asOf),
	}
}

// OverrideStrategy uses externally supplied assessments keyed by country id
// and falls back per country when an entry is missing.
type OverrideStrategy struct {
	Overrides map[string]models.Assessment
	Fallback  Strategy
}

// Assess returns the override for the country, or the fallback's assessment.
func (s *OverrideStrategy) Assess(user *models.UserAnswers, c *models.CountryPolicy, asOf time.Time) models.Assessment {
	if a, ok := s.Overrides[c.CountryID]; ok {
		return NormalizeAssessment(a)
	}
	return s.Fallback.Assess(user, c, asOf)
}

// NormalizeAssessment enforces the output shape on an external assessment:
// non-negative score, a tier label, deduplicated and capped explanations.
func NormalizeAssessment(a models.Assessment) models.Assessment {
	a.Score = max(a.Score, 0)
	if a.Tier == "" {
		a.Tier = Tier(a.Score)
	}
	a.Highlights = dedupHighlights(a.Highlights)
	risks := make([]models.Risk, len(a.Risks))
	copy(risks, a.Risks)
	a.Risks = rankRisks(risks)
	return a
}

// ApplyOverrides replaces the assessment of RECOMMENDED results that have an
// override, leaves EXCLUDED results untouched and re-sorts.
func ApplyOverrides(results []models.CountryResult, overrides map[string]models.Assessment) []models.CountryResult {
	merged := make([]models.CountryResult, len(results))
	for i, r := range results {
		merged[i] = r
		if r.IsExcluded() || r.Country == nil {
			continue
		}
		if a, ok := overrides[r.Country.CountryID]; ok {
			merged[i] = models.Recommended(r.Country, NormalizeAssessment(a))
		}
	}
	SortResults(merged)
	return merged
}
