package engine

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"nomad-visa-engine/internal/models"
)

// Tier labels.
const (
	TierStrong      = "strongly recommended"
	TierConsider    = "worth considering"
	TierAlternative = "viable alternative"
	TierLow         = "low match"
)

// Tier maps a final score to its label.
func Tier(score int) string {
	switch {
	case score >= 75:
		return TierStrong
	case score >= 55:
		return TierConsider
	case score >= 35:
		return TierAlternative
	}
	return TierLow
}

// Engine ranks a catalog of countries for a user profile.
// It holds no per-request state and is safe for concurrent use.
type Engine struct {
	rates    RateTable
	now      func() time.Time
	strategy Strategy
	logger   *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithRates sets the currency table.
func WithRates(rates RateTable) Option {
	return func(e *Engine) { e.rates = rates }
}

// WithClock sets the date source used for data freshness.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithStrategy replaces the local rule-based scoring.
func WithStrategy(s Strategy) Option {
	return func(e *Engine) { e.strategy = s }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates an engine with local scoring and the default rates.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		rates:  DefaultRates(),
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.strategy == nil {
		e.strategy = NewLocalStrategy(e.rates)
	}
	return e
}

// Rates returns the engine's currency table.
func (e *Engine) Rates() RateTable {
	return e.rates
}

// Local returns the rule-based strategy over the engine's rates.
func (e *Engine) Local() Strategy {
	return NewLocalStrategy(e.rates)
}

// Recommend filters, scores and ranks every country for the user.
func (e *Engine) Recommend(user *models.UserAnswers, countries []*models.CountryPolicy) []models.CountryResult {
	return e.recommend(user, countries, e.strategy, e.now())
}

// RecommendWith is Recommend with an explicit strategy for this call.
func (e *Engine) RecommendWith(user *models.UserAnswers, countries []*models.CountryPolicy, s Strategy) []models.CountryResult {
	return e.recommend(user, countries, s, e.now())
}

func (e *Engine) recommend(user *models.UserAnswers, countries []*models.CountryPolicy, s Strategy, asOf time.Time) []models.CountryResult {
	results := make([]models.CountryResult, 0, len(countries))

	for _, c := range countries {
		f := Evaluate(user, c, e.rates)
		if f.Excluded {
			e.logger.Debug("Country excluded",
				zap.String("country_id", c.CountryID),
				zap.Strings("reasons", f.Reasons),
			)
			results = append(results, models.Excluded(c, f.Reasons))
			continue
		}

		a := s.Assess(user, c, asOf)
		e.logger.Debug("Country scored",
			zap.String("country_id", c.CountryID),
			zap.Int("score", a.Score),
			zap.String("tier", a.Tier),
		)
		results = append(results, models.Recommended(c, a))
	}

	SortResults(results)
	return results
}

// Recommend runs the local pipeline with default rates at a fixed date.
func Recommend(user *models.UserAnswers, countries []*models.CountryPolicy, asOf time.Time) []models.CountryResult {
	e := NewEngine()
	return e.recommend(user, countries, e.strategy, asOf)
}

// SortResults orders RECOMMENDED by score descending, then EXCLUDED.
// Ties keep catalog order.
func SortResults(results []models.CountryResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.IsExcluded() != b.IsExcluded() {
			return !a.IsExcluded()
		}
		return scoreOf(a) > scoreOf(b)
	})
}

func scoreOf(r models.CountryResult) int {
	if r.Score == nil {
		return -1
	}
	return *r.Score
}
