package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nomad-visa-engine/internal/models"
	"nomad-visa-engine/internal/services/engine"
)

func highlightFields(items []models.Highlight) []string {
	out := make([]string, 0, len(items))
	for _, h := range items {
		out = append(out, h.Field)
	}
	return out
}

func riskFields(items []models.Risk) []string {
	out := make([]string, 0, len(items))
	for _, r := range items {
		out = append(out, r.Field)
	}
	return out
}

func TestHighlights_FirstThreeTriggers(t *testing.T) {
	bd := models.ScoreBreakdown{Feasibility: 40, Stability: 15, Longterm: 7, Tax: 15, Lifestyle: 9}

	highlights := engine.Highlights(testUser(), testCountry(), bd, engine.DefaultRates())

	require.Len(t, highlights, engine.MaxExplanations)
	assert.Equal(t, []string{engine.FieldTaxPolicy, engine.FieldMaxStay, engine.FieldMinIncome}, highlightFields(highlights))
	assert.Equal(t, "No tax on foreign-sourced income", highlights[0].Text)
	assert.Equal(t, "Stay up to 5 years, a highly stable visa", highlights[1].Text)
	assert.Equal(t, "Your income is 3.1x the threshold, a comfortable margin", highlights[2].Text)
}

func TestHighlights_IncomeRatioRoundsHalfUp(t *testing.T) {
	bd := models.ScoreBreakdown{Feasibility: 40}
	country := testCountry(func(c *models.CountryPolicy) {
		c.MinIncome.Amount = 2000
		c.TaxPolicy.Type = models.TaxNoBenefit
	})
	user := testUser(func(u *models.UserAnswers) { u.MonthlyIncomeUSD = 6500 })

	highlights := engine.Highlights(user, country, bd, engine.DefaultRates())

	require.NotEmpty(t, highlights)
	assert.Equal(t, engine.FieldMinIncome, highlights[0].Field)
	assert.Equal(t, "Your income is 3.3x the threshold, a comfortable margin", highlights[0].Text)
}

func TestHighlights_DedupByField(t *testing.T) {
	// Low dimension scores leave the cost match, PR and tax-free triggers.
	bd := models.ScoreBreakdown{Feasibility: 20, Stability: 10, Tax: 15}
	user := testUser(func(u *models.UserAnswers) {
		u.WantLongTerm = true
		u.LanguagePreference = models.LanguageCanLearn
	})

	highlights := engine.Highlights(user, testCountry(), bd, engine.DefaultRates())

	assert.Equal(t, []string{engine.FieldTaxPolicy, engine.FieldCostOfLiving, engine.FieldPathToPR}, highlightFields(highlights))
	assert.Equal(t, "No tax on foreign-sourced income", highlights[0].Text, "first tax_policy trigger wins")
	assert.Equal(t, "Permanent residency after 5 years of residence, good for long-term plans", highlights[2].Text)
}

func TestHighlights_Empty(t *testing.T) {
	country := testCountry(func(c *models.CountryPolicy) {
		c.TaxPolicy.Type = models.TaxNoBenefit
		c.CostOfLiving.Level = models.LevelHigh
		c.LanguageEnv.EnglishFriendly = models.LevelLow
	})

	highlights := engine.Highlights(testUser(), country, models.ScoreBreakdown{}, engine.DefaultRates())

	assert.NotNil(t, highlights)
	assert.Empty(t, highlights)
}

func TestRisks_SortedBySeverityAndCapped(t *testing.T) {
	user := testUser(func(u *models.UserAnswers) {
		u.HasSpouse = true
		u.WantLongTerm = true
		u.CostPreference = models.CostPreferenceLow
	})
	country := testCountry(func(c *models.CountryPolicy) {
		c.TaxPolicy.Type = models.TaxNoBenefit
		c.PathToPR = false
		c.LanguageEnv.EnglishFriendly = models.LevelLow
		c.PublicHealthcare = false
		c.CostOfLiving.Level = models.LevelHigh
		c.LastVerifiedAt = "2026-01-01"
	})

	risks := engine.Risks(user, country, asOf)

	require.Len(t, risks, engine.MaxExplanations)
	assert.Equal(t, []string{engine.FieldTaxPolicy, engine.FieldPathToPR, engine.FieldLanguageEnv}, riskFields(risks))
	assert.Equal(t, models.SeverityHigh, risks[0].Severity)
	assert.Equal(t, models.SeverityMedium, risks[1].Severity)
	assert.Equal(t, models.SeverityMedium, risks[2].Severity)
	assert.Equal(t, "Daily life runs mostly in Portuguese, English services are limited", risks[2].Text)
}

func TestRisks_UnconfirmedData(t *testing.T) {
	user := testUser(func(u *models.UserAnswers) {
		u.NumChildren = 1
		u.WorkType = models.WorkTypeCompanyOwner
	})
	country := testCountry(func(c *models.CountryPolicy) {
		c.FamilyAllowed = models.Unknown
		c.InsuranceRequired = models.Unknown
		c.BusinessOwnerConditional = true
		c.BusinessOwnerRestrictions = []string{"at least 25% ownership"}
	})

	risks := engine.Risks(user, country, asOf)

	assert.Equal(t, []string{engine.FieldFamilyUnknown, engine.FieldInsuranceUnknown, engine.FieldBusinessOwner}, riskFields(risks))
	for _, r := range risks {
		assert.Equal(t, models.SeverityLow, r.Severity, r.Field)
	}
	assert.Equal(t, "Company owners are admitted only with restrictions: at least 25% ownership", risks[2].Text)
}

func TestRisks_CaveatsFollowStandardRisks(t *testing.T) {
	user := testUser(func(u *models.UserAnswers) {
		u.HasSpouse = true
		u.WantLongTerm = true
	})
	unconfirmed := func(c *models.CountryPolicy) {
		c.FamilyAllowed = models.Unknown
		c.PathToPRExplicit = false
		c.TaxPolicy.ForeignIncomeConditional = true
		c.ConfidenceLevel = models.LevelLow
		c.LastVerifiedAt = "2026-01-01"
	}

	tests := []struct {
		name    string
		country *models.CountryPolicy
		want    []string
	}{
		{
			name:    "caveats take the slots left over",
			country: testCountry(unconfirmed),
			want:    []string{engine.FieldLastVerified, engine.FieldInsuranceRequired, engine.FieldFamilyUnknown},
		},
		{
			name: "standard risks crowd out every caveat",
			country: testCountry(unconfirmed, func(c *models.CountryPolicy) {
				c.PublicHealthcare = false
				c.LanguageEnv.EnglishFriendly = models.LevelLow
			}),
			want: []string{engine.FieldLanguageEnv, engine.FieldPublicHealthcare, engine.FieldLastVerified},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			risks := engine.Risks(user, tt.country, asOf)

			assert.Equal(t, tt.want, riskFields(risks))
		})
	}
}

func TestRisks_NeverNil(t *testing.T) {
	country := testCountry(func(c *models.CountryPolicy) { c.InsuranceRequired = models.Disallowed })

	risks := engine.Risks(testUser(), country, asOf)

	assert.NotNil(t, risks)
	assert.Empty(t, risks)
}
