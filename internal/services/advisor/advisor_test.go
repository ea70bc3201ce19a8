package advisor_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nomad-visa-engine/internal/config"
	"nomad-visa-engine/internal/models"
	"nomad-visa-engine/internal/services/advisor"
	"nomad-visa-engine/internal/services/engine"
	"nomad-visa-engine/internal/utils"
)

func init() {
	utils.SetLogger(zap.NewNop())
}

type fakeCompleter struct {
	reply    string
	err      error
	calls    int
	messages []advisor.Message
}

func (f *fakeCompleter) Complete(_ context.Context, messages []advisor.Message) (string, error) {
	f.calls++
	f.messages = messages
	return f.reply, f.err
}

func country(id string) *models.CountryPolicy {
	return &models.CountryPolicy{
		CountryID: id,
		Name:      id,
		MinIncome: models.IncomeRule{Amount: 3000, Currency: "EUR", Period: models.PeriodMonthly},
		AllowedWorkTypes: []models.WorkType{
			models.WorkTypeOverseasRemoteEmployee,
		},
		FamilyAllowed: models.Allowed,
	}
}

func profile() *models.UserAnswers {
	return &models.UserAnswers{
		Nationality:        models.NationalityCN,
		PlannedStay:        models.StayOver183,
		WorkType:           models.WorkTypeOverseasRemoteEmployee,
		MonthlyIncomeUSD:   8500,
		DocsAvailable:      []models.DocumentType{models.DocBankStatement},
		CostPreference:     models.CostPreferenceMedium,
		LanguagePreference: models.LanguageEnglishPriority,
		TimezonePreference: models.TimezonePrefAny,
		InfraRequirement:   models.InfraMedium,
	}
}

func localResults() []models.CountryResult {
	return []models.CountryResult{
		models.Recommended(country("spain"), models.Assessment{Score: 70}),
		models.Recommended(country("portugal"), models.Assessment{Score: 65}),
		models.Excluded(country("dubai"), []string{"Income below the minimum requirement"}),
	}
}

const modelReply = "Here is the ranking:\n```json\n" + `[
  {"country_id": "portugal", "score": 82, "tier": "strongly recommended",
   "breakdown": {"feasibility": 35, "stability": 15, "longterm": 10, "tax": 14, "lifestyle": 8},
   "highlights": [{"text": "NHR successor regime", "field": "tax_policy"}],
   "risks": [{"text": "Slow permits", "field": "confidence", "severity": "medium"}]},
  {"country_id": "dubai", "score": 99, "tier": "strongly recommended", "breakdown": {}},
  {"country_id": "atlantis", "score": 50, "tier": "viable alternative", "breakdown": {}}
]` + "\n```"

func TestRescore_OnlySentCountries(t *testing.T) {
	llm := &fakeCompleter{reply: modelReply}
	svc := advisor.NewWithCompleter(llm, nil)

	overrides, err := svc.Rescore(context.Background(), profile(), localResults())

	require.NoError(t, err)
	require.Len(t, overrides, 1, "excluded and unknown countries must be ignored")
	pt := overrides["portugal"]
	assert.Equal(t, 82, pt.Score)
	assert.Equal(t, engine.TierStrong, pt.Tier)
	assert.Equal(t, 35, pt.Breakdown.Feasibility)
	assert.Equal(t, []models.Highlight{{Text: "NHR successor regime", Field: "tax_policy"}}, pt.Highlights)

	require.Equal(t, 1, llm.calls)
	require.Len(t, llm.messages, 2)
	assert.Equal(t, "system", llm.messages[0].Role)
	assert.Contains(t, llm.messages[0].Content, "The following 2 countries")
	assert.Equal(t, "user", llm.messages[1].Role)
	assert.Contains(t, llm.messages[1].Content, "Countries to score (2: spain, portugal)")
	assert.NotContains(t, llm.messages[1].Content, "country_id: dubai")
}

func TestRescore_NoCandidates(t *testing.T) {
	llm := &fakeCompleter{reply: modelReply}
	svc := advisor.NewWithCompleter(llm, nil)

	_, err := svc.Rescore(context.Background(), profile(), []models.CountryResult{
		models.Excluded(country("dubai"), []string{"x"}),
	})

	assert.ErrorIs(t, err, advisor.ErrNoCandidates)
	assert.Zero(t, llm.calls, "the model should not be called")
}

func TestRescore_Failures(t *testing.T) {
	tests := []struct {
		name    string
		llm     *fakeCompleter
		wantErr error
	}{
		{"completion error", &fakeCompleter{err: context.DeadlineExceeded}, context.DeadlineExceeded},
		{"prose only", &fakeCompleter{reply: "I cannot help with that."}, advisor.ErrNoJSONArray},
		{"only unknown ids", &fakeCompleter{reply: `[{"country_id": "atlantis", "score": 50}]`}, advisor.ErrNoAssessments},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := advisor.NewWithCompleter(tt.llm, nil)
			_, err := svc.Rescore(context.Background(), profile(), localResults())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRescore_NilService(t *testing.T) {
	var svc *advisor.Service
	_, err := svc.Rescore(context.Background(), profile(), localResults())
	assert.ErrorIs(t, err, advisor.ErrAdvisorDisabled)
}

func TestNewService_RequiresKey(t *testing.T) {
	_, err := advisor.NewService(&config.Config{}, nil)
	assert.ErrorIs(t, err, advisor.ErrAdvisorDisabled)

	svc, err := advisor.NewService(&config.Config{OpenRouterAPIKey: "sk-test", OpenRouterURL: "http://localhost"}, nil)
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestParseScoreItems(t *testing.T) {
	items, err := advisor.ParseScoreItems(modelReply)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "portugal", items[0].CountryID)

	_, err = advisor.ParseScoreItems("no json here")
	assert.ErrorIs(t, err, advisor.ErrNoJSONArray)

	_, err = advisor.ParseScoreItems(`[{"country_id": }]`)
	require.Error(t, err)
	assert.False(t, errors.Is(err, advisor.ErrNoJSONArray))
}

func TestScoreItem_AssessmentNormalizes(t *testing.T) {
	item := advisor.ScoreItem{
		CountryID: "spain",
		Score:     80,
		Tier:      "excellent",
		Breakdown: models.ScoreBreakdown{Feasibility: 55, Stability: 20, Longterm: -2, Tax: 16, Lifestyle: 10},
		Highlights: []models.Highlight{
			{Text: "Great weather", Field: "weather"},
			{Text: "  ", Field: "tax_policy"},
			{Text: "Low taxes", Field: "tax_policy"},
		},
		Risks: []models.Risk{
			{Text: "Unverified", Field: "confidence", Severity: "critical"},
			{Text: "Tax resident", Field: "tax_policy", Severity: models.SeverityHigh},
			{Text: "Unknown field", Field: "visa_fee", Severity: models.SeverityHigh},
		},
	}

	a := item.Assessment()

	assert.Equal(t, 80, a.Score)
	assert.Equal(t, engine.TierStrong, a.Tier, "unknown tier labels are recomputed from the score")
	assert.Equal(t, models.ScoreBreakdown{Feasibility: 40, Stability: 20, Longterm: 0, Tax: 15, Lifestyle: 10}, a.Breakdown)
	assert.Equal(t, []models.Highlight{{Text: "Low taxes", Field: "tax_policy"}}, a.Highlights)
	assert.Equal(t, []models.Risk{
		{Text: "Tax resident", Field: "tax_policy", Severity: models.SeverityHigh},
		{Text: "Unverified", Field: "confidence", Severity: models.SeverityLow},
	}, a.Risks)
}

func TestPrompts(t *testing.T) {
	summary := advisor.ProfileSummary(profile())
	assert.Contains(t, summary, "Nationality: China")
	assert.Contains(t, summary, "Planned stay: over 183 days")
	assert.Contains(t, summary, "Documents available: bank statements")

	cs := advisor.CountrySummary(country("spain"), engine.DefaultRates())
	assert.Contains(t, cs, "min_income_usd_month: 3240")
	assert.Contains(t, cs, "family_allowed: true")
	assert.Contains(t, cs, "insurance_required: unknown")
	assert.Contains(t, cs, "years_to_pr: none")

	sys := advisor.SystemPrompt(4)
	assert.Contains(t, sys, "JSON array of length 4")
	assert.Contains(t, sys, engine.TierAlternative)
}
