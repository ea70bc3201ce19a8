package engine_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nomad-visa-engine/internal/models"
	"nomad-visa-engine/internal/services/catalog"
	"nomad-visa-engine/internal/services/engine"
)

// sweepUsers varies every answer that reaches the hard filter or the modifiers.
func sweepUsers() []*models.UserAnswers {
	incomes := []float64{0, 1500, 2500, 3500, 5000, 8500, 20000}
	workTypes := []models.WorkType{
		models.WorkTypeOverseasRemoteEmployee,
		models.WorkTypeDomesticRemoteEmployee,
		models.WorkTypeFreelancer,
		models.WorkTypeCompanyOwner,
	}
	families := []func(*models.UserAnswers){
		func(*models.UserAnswers) {},
		func(u *models.UserAnswers) { u.HasSpouse = true },
		func(u *models.UserAnswers) { u.HasSpouse, u.NumChildren = true, 2 },
	}
	stays := []models.StayDuration{models.StayUnder90, models.Stay90To183, models.StayOver183, models.StayUncertain}

	var users []*models.UserAnswers
	for _, income := range incomes {
		for _, wt := range workTypes {
			for _, family := range families {
				for _, stay := range stays {
					for _, longTerm := range []bool{false, true} {
						users = append(users, testUser(family, func(u *models.UserAnswers) {
							u.MonthlyIncomeUSD = income
							u.WorkType = wt
							u.PlannedStay = stay
							u.WantLongTerm = longTerm
							u.IncomeStable = income >= 5000
						}))
					}
				}
			}
		}
	}
	return users
}

func describe(u *models.UserAnswers) string {
	return fmt.Sprintf("income=%.0f work=%s spouse=%t children=%d stay=%s longterm=%t",
		u.MonthlyIncomeUSD, u.WorkType, u.HasSpouse, u.NumChildren, u.PlannedStay, u.WantLongTerm)
}

func TestRecommend_CatalogSweepHoldsInvariants(t *testing.T) {
	cat, err := catalog.LoadEmbedded()
	require.NoError(t, err)
	countries := cat.Countries()

	users := sweepUsers()
	require.Len(t, users, 672)

	for _, user := range users {
		label := describe(user)
		results := engine.Recommend(user, countries, asOf)
		require.Len(t, results, len(countries), label)

		seenExcluded := false
		prev := -1
		for _, r := range results {
			id := label + " country=" + r.Country.CountryID

			if r.IsExcluded() {
				seenExcluded = true
				assert.Nil(t, r.Score, id)
				assert.Nil(t, r.Breakdown, id)
				assert.Empty(t, r.Tier, id)
				assert.NotEmpty(t, r.ExcludeReasons, id)
				continue
			}

			assert.False(t, seenExcluded, "recommended after excluded: %s", id)
			require.NotNil(t, r.Score, id)
			require.NotNil(t, r.Breakdown, id)

			bd := *r.Breakdown
			assert.True(t, bd.Feasibility >= 0 && bd.Feasibility <= models.MaxFeasibility, "feasibility %d: %s", bd.Feasibility, id)
			assert.True(t, bd.Stability >= 0 && bd.Stability <= models.MaxStability, "stability %d: %s", bd.Stability, id)
			assert.True(t, bd.Longterm >= 0 && bd.Longterm <= models.MaxLongterm, "longterm %d: %s", bd.Longterm, id)
			assert.True(t, bd.Tax >= 0 && bd.Tax <= models.MaxTax, "tax %d: %s", bd.Tax, id)
			assert.True(t, bd.Lifestyle >= 0 && bd.Lifestyle <= models.MaxLifestyle, "lifestyle %d: %s", bd.Lifestyle, id)
			assert.LessOrEqual(t, bd.Total(), 100, id)

			assert.GreaterOrEqual(t, *r.Score, 0, id)
			assert.Equal(t, engine.Tier(*r.Score), r.Tier, id)
			assert.LessOrEqual(t, len(r.Highlights), engine.MaxExplanations, id)
			assert.LessOrEqual(t, len(r.Risks), engine.MaxExplanations, id)
			assert.Empty(t, r.ExcludeReasons, id)

			if prev >= 0 {
				assert.LessOrEqual(t, *r.Score, prev, "scores must not increase: %s", id)
			}
			prev = *r.Score
		}
	}
}
