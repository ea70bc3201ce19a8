package engine_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"nomad-visa-engine/internal/models"
	"nomad-visa-engine/internal/services/engine"
)

func TestScoreFeasibility_IncomeMargin(t *testing.T) {
	country := testCountry(func(c *models.CountryPolicy) { c.MinIncome.Amount = 1000 })
	rates := engine.DefaultRates()

	tests := []struct {
		income float64
		want   int
	}{
		{3000, 15 + 25},
		{2999, 12 + 25},
		{2000, 12 + 25},
		{1500, 9 + 25},
		{1200, 6 + 25},
		{1199, 3 + 25},
		{1000, 3 + 25},
	}

	for _, tt := range tests {
		user := testUser(func(u *models.UserAnswers) { u.MonthlyIncomeUSD = tt.income })
		assert.Equal(t, tt.want, engine.ScoreFeasibility(user, country, rates), "income %.0f", tt.income)
	}
}

func TestScoreFeasibility_WorkTypeAndStability(t *testing.T) {
	country := testCountry()
	rates := engine.DefaultRates()

	tests := []struct {
		workType models.WorkType
		stable   bool
		want     int
	}{
		{models.WorkTypeOverseasRemoteEmployee, true, 40},
		{models.WorkTypeFreelancer, true, 38},
		{models.WorkTypeCompanyOwner, true, 35},
		{models.WorkTypeDomesticRemoteEmployee, true, 32},
		{models.WorkTypeOverseasRemoteEmployee, false, 37},
	}

	for _, tt := range tests {
		user := testUser(func(u *models.UserAnswers) {
			u.WorkType = tt.workType
			u.IncomeStable = tt.stable
		})
		assert.Equal(t, tt.want, engine.ScoreFeasibility(user, country, rates), "%s stable=%v", tt.workType, tt.stable)
	}
}

func TestScoreFeasibility_NoRequiredDocuments(t *testing.T) {
	country := testCountry(func(c *models.CountryPolicy) { c.RequiredDocuments = nil })

	assert.Equal(t, 30, engine.ScoreFeasibility(testUser(), country, engine.DefaultRates()))
}

func TestIncomeRatio_ZeroRequirement(t *testing.T) {
	country := testCountry(func(c *models.CountryPolicy) { c.MinIncome.Amount = 0 })

	assert.True(t, math.IsInf(engine.IncomeRatio(testUser(), country, engine.DefaultRates()), 1))
}

func TestScoreStability(t *testing.T) {
	tests := []struct {
		name      string
		maxStay   int
		initial   int
		renewable bool
		want      int
	}{
		{"ten years renewable", 120, 60, true, 20},
		{"five years from one", 60, 12, true, 15},
		{"no extension beyond initial term", 36, 36, true, 13},
		{"fixed two years", 24, 24, false, 7},
		{"short renewable", 12, 12, true, 7},
		{"short fixed", 12, 6, false, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			country := testCountry(func(c *models.CountryPolicy) {
				c.MaxStayMonths = tt.maxStay
				c.InitialTermMonths = tt.initial
				c.Renewable = tt.renewable
			})
			assert.Equal(t, tt.want, engine.ScoreStability(country))
		})
	}
}

func TestScoreLongterm(t *testing.T) {
	wantsLongTerm := testUser(func(u *models.UserAnswers) { u.WantLongTerm = true })

	tests := []struct {
		name   string
		pr     bool
		years  *int
		family models.TriState
		want   int
	}{
		{"fast PR with family", true, intPtr(3), models.Allowed, 15},
		{"five years with family", true, intPtr(5), models.Allowed, 14},
		{"seven years without family", true, intPtr(7), models.Disallowed, 10},
		{"slow PR family unknown", true, intPtr(10), models.Unknown, 9},
		{"PR years unknown", true, nil, models.Allowed, 11},
		{"no PR family allowed", false, nil, models.Allowed, 1},
		{"no PR no family", false, nil, models.Disallowed, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			country := testCountry(func(c *models.CountryPolicy) {
				c.PathToPR = tt.pr
				c.YearsToPR = tt.years
				c.FamilyAllowed = tt.family
			})
			assert.Equal(t, tt.want, engine.ScoreLongterm(wantsLongTerm, country))
		})
	}

	assert.Equal(t, 7, engine.ScoreLongterm(testUser(), testCountry()), "users not settling get the neutral score")
}

func TestScoreTax(t *testing.T) {
	tests := []struct {
		name string
		tax  models.TaxPolicy
		want int
	}{
		{"zero", models.TaxPolicy{Type: models.TaxZero, Clarity: models.LevelHigh}, 15},
		{"exempt", models.TaxPolicy{Type: models.TaxExempt, Clarity: models.LevelMedium}, 13},
		{"halved regime", models.TaxPolicy{Type: models.TaxSpecialRegime, LocalRatePct: 20, ExemptionPct: 0.5, BenefitDurationYears: 5, Clarity: models.LevelMedium}, 10},
		{"flat regime", models.TaxPolicy{Type: models.TaxSpecialRegime, LocalRatePct: 25, BenefitDurationYears: 10, Clarity: models.LevelLow}, 9},
		{"foreign income exempt regime", models.TaxPolicy{Type: models.TaxSpecialRegime, LocalRatePct: 40, ForeignIncomeExempt: true, Clarity: models.LevelHigh}, 9},
		{"high rate regime", models.TaxPolicy{Type: models.TaxSpecialRegime, LocalRatePct: 45, BenefitDurationYears: 7, Clarity: models.LevelHigh}, 8},
		{"no benefit", models.TaxPolicy{Type: models.TaxNoBenefit, Clarity: models.LevelLow}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			country := testCountry(func(c *models.CountryPolicy) { c.TaxPolicy = tt.tax })
			assert.Equal(t, tt.want, engine.ScoreTax(country))
		})
	}
}

func TestEffectiveTaxRate(t *testing.T) {
	assert.InDelta(t, 10.0, engine.EffectiveTaxRate(models.TaxPolicy{LocalRatePct: 20, ExemptionPct: 0.5}), 1e-9)
	assert.Zero(t, engine.EffectiveTaxRate(models.TaxPolicy{LocalRatePct: 20, ForeignIncomeExempt: true}))
}

func TestScoreLifestyle(t *testing.T) {
	tests := []struct {
		name    string
		user    func(*models.UserAnswers)
		country func(*models.CountryPolicy)
		want    int
	}{
		{
			name:    "medium budget english speaker anywhere",
			user:    func(*models.UserAnswers) {},
			country: func(*models.CountryPolicy) {},
			want:    9,
		},
		{
			name: "low budget in cheap asian hub",
			user: func(u *models.UserAnswers) {
				u.CostPreference = models.CostPreferenceLow
				u.LanguagePreference = models.LanguageCanLearn
				u.TimezonePreference = models.TimezonePrefAsia
				u.InfraRequirement = models.InfraHigh
			},
			country: func(c *models.CountryPolicy) {
				c.CostOfLiving.Level = models.LevelLow
				c.Timezone = models.TimezoneAsia
			},
			want: 9,
		},
		{
			name: "every preference missed",
			user: func(u *models.UserAnswers) {
				u.CostPreference = models.CostPreferenceLow
				u.TimezonePreference = models.TimezonePrefEurope
				u.InfraRequirement = models.InfraHigh
			},
			country: func(c *models.CountryPolicy) {
				c.CostOfLiving.Level = models.LevelHigh
				c.LanguageEnv.EnglishFriendly = models.LevelLow
				c.Timezone = models.TimezoneAsia
				c.Infrastructure.InternetQuality = models.LevelLow
			},
			want: 0,
		},
		{
			name: "partial credit",
			user: func(u *models.UserAnswers) {
				u.TimezonePreference = models.TimezonePrefAsia
			},
			country: func(c *models.CountryPolicy) {
				c.CostOfLiving.Level = models.LevelHigh
				c.LanguageEnv.EnglishFriendly = models.LevelMedium
				c.Timezone = models.TimezoneMiddleEast
				c.Infrastructure.InternetQuality = models.LevelLow
			},
			want: 4,
		},
		{
			name: "flexible user in europe",
			user: func(u *models.UserAnswers) {
				u.CostPreference = models.CostPreferenceInsensitive
				u.LanguagePreference = models.LanguageCanLearn
				u.TimezonePreference = models.TimezonePrefEurope
			},
			country: func(c *models.CountryPolicy) {
				c.Infrastructure.InternetQuality = models.LevelMedium
			},
			want: 8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.ScoreLifestyle(testUser(tt.user), testCountry(tt.country)))
		})
	}
}
