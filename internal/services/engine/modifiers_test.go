package engine_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"nomad-visa-engine/internal/models"
	"nomad-visa-engine/internal/services/engine"
)

func TestDaysSince(t *testing.T) {
	assert.Equal(t, 0, engine.DaysSince("2026-10-16", asOf))
	assert.Equal(t, 90, engine.DaysSince("2026-07-18", asOf))
	assert.Equal(t, 91, engine.DaysSince("2026-07-17", asOf))
	assert.Equal(t, math.MaxInt32, engine.DaysSince("not-a-date", asOf))
}

func TestAffinityBonus(t *testing.T) {
	assert.Equal(t, 3, engine.AffinityBonus(models.NationalityCN, "malaysia"))
	assert.Equal(t, 1, engine.AffinityBonus(models.NationalityCN, "thailand"))
	assert.Equal(t, 1, engine.AffinityBonus(models.NationalityCN, "south_korea"))
	assert.Zero(t, engine.AffinityBonus(models.NationalityOther, "malaysia"))
	assert.Zero(t, engine.AffinityBonus(models.NationalityCN, "portugal"))
}

func TestApplyModifiers(t *testing.T) {
	withSpouse := func(u *models.UserAnswers) { u.HasSpouse = true }

	tests := []struct {
		name    string
		base    int
		user    func(*models.UserAnswers)
		country func(*models.CountryPolicy)
		want    int
	}{
		{"long stay in zero-tax country", 50, nil, nil, 52},
		{"family benefits", 50, withSpouse, nil, 57},
		{
			name:    "family unknown counts as not allowed",
			base:    50,
			user:    withSpouse,
			country: func(c *models.CountryPolicy) { c.FamilyAllowed = models.Unknown },
			want:    47,
		},
		{
			name:    "long stay in exempt country",
			base:    50,
			country: func(c *models.CountryPolicy) { c.TaxPolicy.Type = models.TaxExempt },
			want:    51,
		},
		{
			name:    "short stay on a long visa",
			base:    50,
			user:    func(u *models.UserAnswers) { u.PlannedStay = models.StayUnder90 },
			want:    48,
		},
		{
			name: "mid stay untouched",
			base: 50,
			user: func(u *models.UserAnswers) { u.PlannedStay = models.Stay90To183 },
			want: 50,
		},
		{
			name:    "affinity bonus",
			base:    50,
			country: func(c *models.CountryPolicy) { c.CountryID = "malaysia" },
			want:    55,
		},
		{
			name:    "exactly ninety days old",
			base:    50,
			country: func(c *models.CountryPolicy) { c.LastVerifiedAt = "2026-07-18" },
			want:    52,
		},
		{
			name:    "stale data",
			base:    50,
			country: func(c *models.CountryPolicy) { c.LastVerifiedAt = "2026-07-08" },
			want:    47,
		},
		{
			name:    "very stale data",
			base:    50,
			country: func(c *models.CountryPolicy) { c.LastVerifiedAt = "2026-01-01" },
			want:    42,
		},
		{
			name:    "missing verification date",
			base:    50,
			country: func(c *models.CountryPolicy) { c.LastVerifiedAt = "" },
			want:    42,
		},
		{
			name:    "never below zero",
			base:    3,
			country: func(c *models.CountryPolicy) { c.TaxPolicy.Type = models.TaxNoBenefit },
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := testUser()
			if tt.user != nil {
				tt.user(user)
			}
			country := testCountry()
			if tt.country != nil {
				tt.country(country)
			}
			assert.Equal(t, tt.want, engine.ApplyModifiers(tt.base, user, country, asOf))
		})
	}
}

func TestApplyModifiers_NoUpperClamp(t *testing.T) {
	user := testUser(func(u *models.UserAnswers) { u.HasSpouse = true })
	country := testCountry(func(c *models.CountryPolicy) { c.CountryID = "malaysia" })

	assert.Equal(t, 110, engine.ApplyModifiers(100, user, country, asOf))
}

func TestApplyModifiers_FamilyDisallowedCostsFive(t *testing.T) {
	withoutPublicServices := func(c *models.CountryPolicy) {
		c.PublicEducation = false
		c.PublicHealthcare = false
	}
	allowed := testCountry(withoutPublicServices)
	disallowed := testCountry(withoutPublicServices, func(c *models.CountryPolicy) { c.FamilyAllowed = models.Disallowed })

	for _, user := range []*models.UserAnswers{
		testUser(func(u *models.UserAnswers) { u.HasSpouse = true }),
		testUser(func(u *models.UserAnswers) { u.NumChildren = 1 }),
	} {
		withFamily := engine.ApplyModifiers(50, user, allowed, asOf)
		without := engine.ApplyModifiers(50, user, disallowed, asOf)

		assert.Equal(t, 52, withFamily, "only the stay x tax bonus applies")
		assert.Equal(t, 5, withFamily-without)
	}

	single := testUser()
	assert.Equal(t, engine.ApplyModifiers(50, single, allowed, asOf), engine.ApplyModifiers(50, single, disallowed, asOf),
		"family policy is ignored for a single applicant")
}
